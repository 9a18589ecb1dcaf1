package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
}

func serve(r *gin.Engine, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/validation", func(c *gin.Context) {
		_ = c.Error(apperrors.Validation("limit", "limit must be greater than zero"))
	})
	r.GET("/unexpected", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
	})
	r.GET("/ok", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantCode   string
		wantField  string
	}{
		{"app_error", "/validation", http.StatusBadRequest, "VALIDATION_ERROR", "limit"},
		{"unexpected_error", "/unexpected", http.StatusInternalServerError, "BACKEND_ERROR", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(r, http.MethodGet, tt.path, nil)
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			var body struct {
				Error struct {
					Code  string `json:"code"`
					Field string `json:"field"`
				} `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Error.Code != tt.wantCode || body.Error.Field != tt.wantField {
				t.Errorf("unexpected error body %+v", body.Error)
			}
		})
	}

	t.Run("no_error_passes_through", func(t *testing.T) {
		rec := serve(r, http.MethodGet, "/ok", nil)
		if rec.Code != http.StatusNoContent {
			t.Errorf("expected 204, got %d", rec.Code)
		}
	})
}

func TestRequestLogging(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogging())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(RequestIDKey))
	})

	t.Run("generates_id", func(t *testing.T) {
		rec := serve(r, http.MethodGet, "/ping", nil)
		id := rec.Header().Get(RequestIDHeader)
		parsed, err := uuid.Parse(id)
		if err != nil {
			t.Fatalf("expected uuid request id, got %q", id)
		}
		if parsed.Version() != 7 {
			t.Errorf("expected a version 7 id, got version %d", parsed.Version())
		}
		if rec.Body.String() != id {
			t.Errorf("expected context id %q, got %q", id, rec.Body.String())
		}
	})

	t.Run("reuses_valid_incoming_id", func(t *testing.T) {
		incoming := uuid.NewString()
		rec := serve(r, http.MethodGet, "/ping", http.Header{RequestIDHeader: {incoming}})
		if rec.Header().Get(RequestIDHeader) != incoming {
			t.Errorf("expected %q, got %q", incoming, rec.Header().Get(RequestIDHeader))
		}
	})

	t.Run("replaces_garbage_id", func(t *testing.T) {
		rec := serve(r, http.MethodGet, "/ping", http.Header{RequestIDHeader: {"not-a-uuid"}})
		if rec.Header().Get(RequestIDHeader) == "not-a-uuid" {
			t.Error("expected a fresh request id")
		}
	})
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.OPTIONS("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := serve(r, http.MethodOptions, "/ping", nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 preflight, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected allow-origin header")
	}
}
