package httpx_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ghuser/catalog/pkg/httpx"
)

type stubChecker struct{ err error }

func (s stubChecker) Ping(context.Context) error { return s.err }

type healthBody struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func checkHealth(t *testing.T, checks httpx.HealthChecks) (int, healthBody) {
	t.Helper()
	rr := httptest.NewRecorder()
	httpx.HealthHandler(checks).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
	var body healthBody
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return rr.Code, body
}

func TestHealthHandler(t *testing.T) {
	down := stubChecker{err: errors.New("conn refused")}
	tests := []struct {
		name       string
		checks     httpx.HealthChecks
		wantStatus int
		wantBody   string
		wantChecks map[string]string
	}{
		{
			name:       "all healthy",
			checks:     httpx.HealthChecks{"database": stubChecker{}, "redis": stubChecker{}},
			wantStatus: http.StatusOK,
			wantBody:   "ok",
			wantChecks: map[string]string{"database": "ok", "redis": "ok"},
		},
		{
			name:       "database down",
			checks:     httpx.HealthChecks{"database": down, "redis": stubChecker{}, "event_bus": stubChecker{}},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "degraded",
			wantChecks: map[string]string{"database": "unreachable", "redis": "ok", "event_bus": "ok"},
		},
		{
			name:       "memory driver has nothing to check",
			checks:     httpx.HealthChecks{},
			wantStatus: http.StatusOK,
			wantBody:   "ok",
			wantChecks: map[string]string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := checkHealth(t, tt.checks)
			if code != tt.wantStatus {
				t.Fatalf("status: got %d, want %d", code, tt.wantStatus)
			}
			if body.Status != tt.wantBody {
				t.Errorf("body status: got %q, want %q", body.Status, tt.wantBody)
			}
			if len(body.Checks) != len(tt.wantChecks) {
				t.Fatalf("checks: got %v, want %v", body.Checks, tt.wantChecks)
			}
			for k, v := range tt.wantChecks {
				if body.Checks[k] != v {
					t.Errorf("%s: got %q, want %q", k, body.Checks[k], v)
				}
			}
		})
	}
}
