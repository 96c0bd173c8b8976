package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Orphan report operations
const (
	OrphanOpUpdate         = "update"
	OrphanOpDelete         = "delete"
	OrphanOpCreateRollback = "create_rollback"
	OrphanOpUpdateRollback = "update_rollback"
)

// OrphanReport records an image file that could not be removed from storage.
// The file is no longer referenced by any record.
type OrphanReport struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Kind          string              `bson:"kind" json:"kind"` // collection of the owning kind
	Filename      string              `bson:"filename" json:"filename"`
	StoragePath   string              `bson:"storage_path" json:"storage_path"`
	Operation     string              `bson:"operation" json:"operation"`
	RecordID      *primitive.ObjectID `bson:"record_id,omitempty" json:"record_id,omitempty"`
	OperationID   string              `bson:"operation_id" json:"operation_id"`
	Error         string              `bson:"error" json:"error"`
	Attempts      int                 `bson:"attempts" json:"attempts"`
	CreatedAt     time.Time           `bson:"created_at" json:"created_at"`
	LastAttemptAt *time.Time          `bson:"last_attempt_at,omitempty" json:"last_attempt_at,omitempty"`
	ResolvedAt    *time.Time          `bson:"resolved_at,omitempty" json:"resolved_at,omitempty"`
	AbandonedAt   *time.Time          `bson:"abandoned_at,omitempty" json:"abandoned_at,omitempty"`
}

// IsOutstanding returns true if the report still awaits cleanup.
func (o *OrphanReport) IsOutstanding() bool {
	return o.ResolvedAt == nil && o.AbandonedAt == nil
}
