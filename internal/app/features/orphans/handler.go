// Package orphansfeature exposes outstanding orphaned-file reports for operators.
package orphansfeature

import (
	"context"
	"net/http"
	"strconv"
	"time"

	errorsfeature "github.com/dalemusser/agencycms/internal/app/features/errors"
	orphanstore "github.com/dalemusser/agencycms/internal/app/store/orphans"
	"github.com/dalemusser/agencycms/internal/app/system/jsonutil"
	"github.com/dalemusser/agencycms/internal/app/system/normalize"
	"github.com/dalemusser/agencycms/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	defaultLimit = 200
	queryTimeout = 10 * time.Second
)

// Handler serves orphan report listings.
type Handler struct {
	store  *orphanstore.Store
	errLog *errorsfeature.ErrorLogger
	logger *zap.Logger
}

// NewHandler creates an orphans Handler.
func NewHandler(store *orphanstore.Store, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{store: store, errLog: errLog, logger: logger}
}

// Routes returns the read-only orphan routes.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Get("/summary", h.summary)
	return r
}

// list handles GET /. ?limit=N caps the result (1..200).
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	limit := int64(defaultLimit)
	if v := normalize.QueryParam(r.URL.Query().Get("limit")); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 1 || n > defaultLimit {
			jsonutil.BadRequest(w, "limit must be between 1 and 200")
			return
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	reports, err := h.store.ListOutstanding(ctx, limit)
	if err != nil {
		h.errLog.Log(r, "list orphan reports", err)
		jsonutil.InternalError(w, "internal server error")
		return
	}
	if reports == nil {
		reports = []models.OrphanReport{}
	}
	jsonutil.OK(w, reports)
}

type summaryResponse struct {
	Outstanding int64            `json:"outstanding"`
	ByKind      map[string]int64 `json:"byKind"`
}

// summary handles GET /summary.
func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	byKind, err := h.store.CountOutstandingByKind(ctx)
	if err != nil {
		h.errLog.Log(r, "count orphan reports", err)
		jsonutil.InternalError(w, "internal server error")
		return
	}
	var total int64
	for _, n := range byKind {
		total += n
	}
	if byKind == nil {
		byKind = map[string]int64{}
	}
	jsonutil.OK(w, summaryResponse{Outstanding: total, ByKind: byKind})
}
