package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"barangay_app_go/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRequestMetrics(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	e := echo.New()
	e.Use(RequestMetrics(m))
	e.GET("/api/residents/:id", okHandler)
	e.GET("/api/boom", func(c echo.Context) error { return errors.New("boom") })
	e.GET("/api/missing", func(c echo.Context) error { return echo.NewHTTPError(http.StatusNotFound, "nope") })

	for _, path := range []string{"/api/residents/1", "/api/residents/2", "/api/boom", "/api/missing"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	// Both resident lookups share one route series
	assert.Equal(t, 3, testutil.CollectAndCount(m.RequestDuration))
}

func TestRequestLogger(t *testing.T) {
	e := echo.New()
	e.Use(RequestLogger())
	e.GET("/api/fail", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusConflict, "blocked")
	})
	e.GET("/api/ok", okHandler)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/fail", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "blocked")

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ok", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
