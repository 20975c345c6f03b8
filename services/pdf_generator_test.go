package services

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPDFOptions(t *testing.T) {
	opts := DefaultPDFOptions()
	assert.Equal(t, "portrait", opts.PageOrientation)
	assert.Equal(t, "A4", opts.PageSize)
	assert.Equal(t, 36, opts.MarginTop)

	w, h := opts.paperSize()
	assert.InDelta(t, 8.27, w, 0.001)
	assert.InDelta(t, 11.69, h, 0.001)

	opts.PageOrientation = "landscape"
	opts.PageSize = "legal"
	w, h = opts.paperSize()
	assert.Equal(t, 14.0, w)
	assert.Equal(t, 8.5, h)
}

func TestChromePDFSmoke(t *testing.T) {
	chromePath := os.Getenv("CHROME_PATH")
	if chromePath == "" {
		t.Skip("Skipping PDF generation test: CHROME_PATH not set")
	}

	pdf, err := NewChromePDF(chromePath).RenderPDF(context.Background(), "<html><body><h1>Barangay Clearance</h1></body></html>")
	require.NoError(t, err)
	require.True(t, len(pdf) > 5)
	assert.Equal(t, "%PDF-", string(pdf[:5]))
}
