// Package health serves liveness and readiness probes.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/agencycms/internal/app/system/jsonutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const probeTimeout = 5 * time.Second

// Probe is a named dependency check. A nil error means healthy.
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

// MongoProbe pings the primary.
func MongoProbe(client *mongo.Client) Probe {
	return Probe{
		Name: "mongodb",
		Check: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
	}
}

// Handler provides health check endpoints.
type Handler struct {
	probes []Probe
	logger *zap.Logger
}

// NewHandler creates a health Handler that runs the given probes in order.
func NewHandler(logger *zap.Logger, probes ...Probe) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{probes: probes, logger: logger}
}

// Response represents the health check response.
type Response struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services,omitempty"`
}

// Routes returns a chi.Router with /, /ready and /live.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Check)
	r.Get("/ready", h.Ready)
	r.Get("/live", h.Live)
	return r
}

// MountRootEndpoints adds the Kubernetes-style probes on the root router:
//   - /ready (or /readyz) - readiness probe
//   - /livez - liveness probe
func MountRootEndpoints(r chi.Router, h *Handler) {
	r.Get("/ready", h.Ready)
	r.Get("/readyz", h.Ready)
	r.Get("/livez", h.Live)
}

// Check runs every probe and reports each one.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	resp := Response{Status: "ok", Services: make(map[string]string, len(h.probes))}
	for _, p := range h.probes {
		if err := p.Check(ctx); err != nil {
			resp.Status = "degraded"
			resp.Services[p.Name] = "unavailable"
			h.logger.Warn("health check failed", zap.String("probe", p.Name), zap.Error(err))
			continue
		}
		resp.Services[p.Name] = "ok"
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	jsonutil.JSON(w, status, resp)
}

// Ready reports whether every probe passes. It stops at the first failure.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	for _, p := range h.probes {
		if err := p.Check(ctx); err != nil {
			h.logger.Warn("readiness check failed", zap.String("probe", p.Name), zap.Error(err))
			jsonutil.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
			return
		}
	}
	jsonutil.OK(w, map[string]string{"status": "ready"})
}

// Live reports that the process is up.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	jsonutil.OK(w, map[string]string{"status": "alive"})
}
