package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"barangay_app_go/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", &services.ValidationError{Field: "purpose", Message: "is required"}, http.StatusBadRequest, "purpose: is required"},
		{"not found", services.ErrResidentNotFound, http.StatusNotFound, "Resident not found"},
		{"wrapped not found", fmt.Errorf("lookup: %w", services.ErrCertificateNotFound), http.StatusNotFound, "Lookup: certificate not found"},
		{"blocked delete", &services.DeleteBlockedError{ResidentID: 7, Reasons: []string{"has 2 certificates"}}, http.StatusConflict, ""},
		{"status change", services.ErrInvalidStatusChange, http.StatusConflict, "Status change not allowed"},
		{"number conflict is retryable", services.ErrNumberConflict, http.StatusConflict, ""},
		{"number space exhausted is fatal", services.ErrNumberSpaceExhausted, http.StatusInternalServerError, "Internal server error"},
		{"http error", echo.NewHTTPError(http.StatusTeapot, "short and stout"), http.StatusTeapot, "short and stout"},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

			var he *echo.HTTPError
			require.True(t, errors.As(serviceError(c, tt.err), &he))
			assert.Equal(t, tt.status, he.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, he.Message)
			}
		})
	}
}

func TestQueryHelpers(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/?resident_id=12&bad=x&voter=true&from=2025-02-01&page=0&limit=500", nil), httptest.NewRecorder())

	id := queryUint(c, "resident_id")
	require.NotNil(t, id)
	assert.Equal(t, uint(12), *id)
	assert.Nil(t, queryUint(c, "bad"))
	assert.Nil(t, queryUint(c, "missing"))

	voter := queryBool(c, "voter")
	require.NotNil(t, voter)
	assert.True(t, *voter)
	assert.Nil(t, queryBool(c, "missing"))

	from := queryDate(c, "from", false)
	require.NotNil(t, from)
	assert.Equal(t, "2025-02-01", from.Format("2006-01-02"))
	to := queryDate(c, "from", true)
	assert.Equal(t, 23, to.Hour())

	page, limit := pageParams(c)
	assert.Equal(t, 1, page)
	assert.Equal(t, 100, limit)
}
