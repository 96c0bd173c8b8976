package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/agencycms/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func failing(name string) Probe {
	return Probe{Name: name, Check: func(context.Context) error { return errors.New("down") }}
}

func passing(name string) Probe {
	return Probe{Name: name, Check: func(context.Context) error { return nil }}
}

func TestHandler_Check(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewHandler(zap.NewNop(), MongoProbe(db.Client()))

	rec := httptest.NewRecorder()
	h.Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Check() status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("response status = %q, want %q", resp.Status, "ok")
	}
	if resp.Services["mongodb"] != "ok" {
		t.Errorf("mongodb status = %q, want %q", resp.Services["mongodb"], "ok")
	}
}

func TestHandler_Check_Degraded(t *testing.T) {
	h := NewHandler(zap.NewNop(), passing("mongodb"), failing("storage"))

	rec := httptest.NewRecorder()
	h.Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Check() status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
	var resp Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "degraded" || resp.Services["mongodb"] != "ok" || resp.Services["storage"] != "unavailable" {
		t.Errorf("response = %+v", resp)
	}
}

func TestHandler_Ready(t *testing.T) {
	tests := []struct {
		name       string
		probes     []Probe
		wantStatus int
		wantBody   string
	}{
		{"no probes", nil, http.StatusOK, `{"status":"ready"}`},
		{"all pass", []Probe{passing("a"), passing("b")}, http.StatusOK, `{"status":"ready"}`},
		{"one fails", []Probe{passing("a"), failing("b")}, http.StatusServiceUnavailable, `{"status":"not ready"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(nil, tt.probes...)
			rec := httptest.NewRecorder()
			h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("Ready() status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if body := strings.TrimSpace(rec.Body.String()); body != tt.wantBody {
				t.Errorf("Ready() body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestHandler_Ready_Mongo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewHandler(zap.NewNop(), MongoProbe(db.Client()))

	rec := httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("Ready() status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestHandler_Live(t *testing.T) {
	// Live runs no probes.
	h := NewHandler(zap.NewNop(), failing("mongodb"))

	rec := httptest.NewRecorder()
	h.Live(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Live() status = %d, want %d", rec.Code, http.StatusOK)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != `{"status":"alive"}` {
		t.Errorf("Live() body = %q, want %q", body, `{"status":"alive"}`)
	}
}

func TestRoutesAndRootEndpoints(t *testing.T) {
	h := NewHandler(zap.NewNop(), passing("mongodb"))
	r := chi.NewRouter()
	r.Mount("/health", Routes(h))
	MountRootEndpoints(r, h)

	for _, path := range []string{"/health", "/health/ready", "/health/live", "/ready", "/readyz", "/livez"} {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			if rec.Code != http.StatusOK {
				t.Errorf("%s status = %d, want %d", path, rec.Code, http.StatusOK)
			}
		})
	}
}
