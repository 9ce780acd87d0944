package openapi_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/airbuds-price-predictor/api/openapi"
)

func TestRegisterRoutes(t *testing.T) {
	t.Parallel()

	e := echo.New()
	openapi.RegisterRoutes(e, "Airbuds Price Predictor")

	t.Run("ui page", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/index.html", http.NoBody))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "<title>Airbuds Price Predictor</title>")
		assert.Contains(t, rec.Body.String(), `url: "/openapi.json"`)
	})

	for _, path := range []string{"/swagger", "/swagger/"} {
		t.Run("redirect "+path, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, http.NoBody))

			assert.Equal(t, http.StatusMovedPermanently, rec.Code)
			assert.Equal(t, "/swagger/index.html", rec.Header().Get(echo.HeaderLocation))
		})
	}
}
