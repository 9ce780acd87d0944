package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		method        string
		path          string
		status        int
		providedReqID string
		wantLogFields []string
	}{
		{
			name:   "logs GET request with generated ID",
			method: http.MethodGet,
			path:   "/api/v1/fields",
			status: http.StatusOK,
			wantLogFields: []string{
				"level=INFO",
				"method=GET",
				"path=/api/v1/fields",
				"status=200",
				"duration_ms=",
				"request_id=",
			},
		},
		{
			name:   "logs POST request",
			method: http.MethodPost,
			path:   "/api/v1/predict",
			status: http.StatusOK,
			wantLogFields: []string{
				"method=POST",
				"status=200",
			},
		},
		{
			name:          "uses provided request ID",
			method:        http.MethodPost,
			path:          "/api/v1/normalize",
			status:        http.StatusOK,
			providedReqID: "custom-req-id-123",
			wantLogFields: []string{
				"request_id=custom-req-id-123",
			},
		},
		{
			name:   "client error logs at warn",
			method: http.MethodPost,
			path:   "/api/v1/predict",
			status: http.StatusUnprocessableEntity,
			wantLogFields: []string{
				"level=WARN",
				"status=422",
			},
		},
		{
			name:   "server error logs at error",
			method: http.MethodPost,
			path:   "/api/v1/predict",
			status: http.StatusServiceUnavailable,
			wantLogFields: []string{
				"level=ERROR",
				"status=503",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))

			e := echo.New()
			req := httptest.NewRequest(tt.method, tt.path, http.NoBody)
			if tt.providedReqID != "" {
				req.Header.Set(requestIDHeader, tt.providedReqID)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler := RequestLog(logger)(func(c echo.Context) error {
				return c.NoContent(tt.status)
			})

			require.NoError(t, handler(c))

			logOutput := buf.String()
			for _, field := range tt.wantLogFields {
				assert.Contains(t, logOutput, field)
			}

			respID := rec.Header().Get(requestIDHeader)
			assert.NotEmpty(t, respID)
			if tt.providedReqID != "" {
				assert.Equal(t, tt.providedReqID, respID)
			}

			assert.NotEmpty(t, c.Get("request_id"))
		})
	}
}

func TestRequestLog_ProbeSuccessLoggedOnce(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	e := echo.New()
	handler := RequestLog(logger)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	serve := func(path string) {
		req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
		require.NoError(t, handler(e.NewContext(req, httptest.NewRecorder())))
	}

	serve("/healthz")
	assert.Contains(t, buf.String(), "path=/healthz")
	first := buf.Len()

	serve("/healthz")
	serve("/healthz")
	assert.Equal(t, first, buf.Len(), "repeated successful probes are suppressed")

	serve("/readyz")
	assert.Greater(t, buf.Len(), first, "each probe path is tracked separately")
}

func TestRequestLog_ProbeFailureAlwaysLogged(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	e := echo.New()
	calls := 0
	handler := RequestLog(logger)(func(c echo.Context) error {
		calls++
		switch calls {
		case 1, 2, 5:
			return c.NoContent(http.StatusOK)
		default:
			return c.NoContent(http.StatusServiceUnavailable)
		}
	})

	serve := func() int {
		req := httptest.NewRequest(http.MethodGet, "/readyz", http.NoBody)
		require.NoError(t, handler(e.NewContext(req, httptest.NewRecorder())))
		return buf.Len()
	}

	afterFirst := serve()
	assert.Contains(t, buf.String(), "status=200")

	assert.Equal(t, afterFirst, serve(), "second success suppressed")

	afterFail := serve()
	assert.Greater(t, afterFail, afterFirst)
	assert.Contains(t, buf.String(), "status=503")
	assert.Contains(t, buf.String(), "level=WARN", "failed probes log at warn")

	afterSecondFail := serve()
	assert.Greater(t, afterSecondFail, afterFail, "failures are never suppressed")

	assert.Greater(t, serve(), afterSecondFail, "first success after a failure is logged")
}

func TestRequestLog_APIPathAlwaysLogged(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	e := echo.New()
	handler := RequestLog(logger)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/fields", http.NoBody)
	require.NoError(t, handler(e.NewContext(req, httptest.NewRecorder())))
	first := buf.Len()
	assert.Positive(t, first)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/fields", http.NoBody)
	require.NoError(t, handler(e.NewContext(req, httptest.NewRecorder())))
	assert.Greater(t, buf.Len(), first)
}
