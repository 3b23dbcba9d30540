package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type stubChecker struct{ err error }

func (s stubChecker) HealthCheck(ctx context.Context) error { return s.err }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		components map[string]HealthChecker
		wantStatus int
		wantReady  string
	}{
		{"all healthy", map[string]HealthChecker{"postgres": stubChecker{}, "redis": stubChecker{}}, http.StatusOK, "ready"},
		{"redis not configured", map[string]HealthChecker{"postgres": stubChecker{}, "redis": nil}, http.StatusOK, "ready"},
		{"postgres down", map[string]HealthChecker{"postgres": stubChecker{err: errors.New("refused")}}, http.StatusServiceUnavailable, "not ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.components)
			router := gin.New()
			router.GET("/health", h.Health)
			router.GET("/ready", h.Ready)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
			if w.Code != http.StatusOK {
				t.Errorf("health status = %d, want 200", w.Code)
			}

			w = httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
			if w.Code != tt.wantStatus {
				t.Errorf("ready status = %d, want %d", w.Code, tt.wantStatus)
			}
			var resp ReadyResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != tt.wantReady {
				t.Errorf("status = %q, want %q", resp.Status, tt.wantReady)
			}
			if tt.components["redis"] == nil && len(tt.components) == 2 && resp.Components["redis"] != "not configured" {
				t.Errorf("redis = %q, want not configured", resp.Components["redis"])
			}
		})
	}
}
