package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeRichText(t *testing.T) {
	out := SanitizeRichText(`<p>Nag-away sa <b>tindahan</b></p><script>alert(1)</script><a href="javascript:x()">link</a>`)
	assert.Contains(t, out, "<b>tindahan</b>")
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "javascript:")
}

func TestStripMarkup(t *testing.T) {
	assert.Equal(t, "Noise at night", StripMarkup("  <i>Noise</i> at night "))
	assert.Equal(t, "", StripMarkup("<script>alert(1)</script>"))
}
