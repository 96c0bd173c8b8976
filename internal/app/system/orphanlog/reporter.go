// internal/app/system/orphanlog/reporter.go
package orphanlog

import (
	"context"
	"time"

	orphanstore "github.com/dalemusser/agencycms/internal/app/store/orphans"
	"github.com/dalemusser/agencycms/internal/app/system/uploads"
	"github.com/dalemusser/agencycms/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destination values for orphan reporting.
const (
	ModeAll = "all" // MongoDB + zap
	ModeDB  = "db"  // MongoDB only
	ModeLog = "log" // zap only
	ModeOff = "off"
)

// ValidModes returns every accepted mode.
func ValidModes() []string {
	return []string{ModeAll, ModeDB, ModeLog, ModeOff}
}

// IsValidMode checks a configured mode.
func IsValidMode(m string) bool {
	for _, v := range ValidModes() {
		if v == m {
			return true
		}
	}
	return false
}

// Reporter records image files that could not be removed and are no longer
// referenced by any record.
type Reporter struct {
	store  *orphanstore.Store
	zapLog *zap.Logger
	mode   string
}

// New creates a Reporter. An unknown mode is treated as "all".
func New(store *orphanstore.Store, zapLog *zap.Logger, mode string) *Reporter {
	if !IsValidMode(mode) {
		mode = ModeAll
	}
	if zapLog == nil {
		zapLog = zap.NewNop()
	}
	return &Reporter{store: store, zapLog: zapLog, mode: mode}
}

// Event identifies the operation that left files behind.
type Event struct {
	Kind        models.ContentKind
	Operation   string
	RecordID    *primitive.ObjectID
	OperationID string
}

// Report records one entry per failure. A nil Reporter is a no-op.
func (r *Reporter) Report(ctx context.Context, ev Event, failures []uploads.RemoveFailure) {
	if r == nil || r.mode == ModeOff || len(failures) == 0 {
		return
	}

	// The request may already be finished; reports must still be written.
	ctx = context.WithoutCancel(ctx)
	now := time.Now().UTC()

	for _, f := range failures {
		rep := models.OrphanReport{
			Kind:        ev.Kind.Collection,
			Filename:    f.Filename,
			StoragePath: f.StoragePath,
			Operation:   ev.Operation,
			RecordID:    ev.RecordID,
			OperationID: ev.OperationID,
			CreatedAt:   now,
		}
		if f.Err != nil {
			rep.Error = f.Err.Error()
		}

		if r.mode == ModeAll || r.mode == ModeLog {
			r.logToZap(rep)
		}
		if (r.mode == ModeAll || r.mode == ModeDB) && r.store != nil {
			if _, err := r.store.Insert(ctx, rep); err != nil {
				r.zapLog.Error("failed to store orphan report",
					zap.Error(err),
					zap.String("storage_path", rep.StoragePath))
			}
		}
	}
}

func (r *Reporter) logToZap(rep models.OrphanReport) {
	fields := []zap.Field{
		zap.Bool("orphan", true),
		zap.String("kind", rep.Kind),
		zap.String("filename", rep.Filename),
		zap.String("storage_path", rep.StoragePath),
		zap.String("operation", rep.Operation),
		zap.String("operation_id", rep.OperationID),
		zap.String("error", rep.Error),
	}
	if rep.RecordID != nil {
		fields = append(fields, zap.String("record_id", rep.RecordID.Hex()))
	}
	r.zapLog.Warn("orphaned image file", fields...)
}
