// internal/app/store/orphans/orphanstore.go
package orphanstore

import (
	"context"
	"time"

	"github.com/dalemusser/agencycms/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the collection holding orphaned-file reports.
const CollectionName = "orphaned_files"

// outstanding matches reports that still await cleanup.
var outstanding = bson.M{
	"resolved_at":  bson.M{"$exists": false},
	"abandoned_at": bson.M{"$exists": false},
}

// Store manages orphaned-file reports.
type Store struct {
	c *mongo.Collection
}

// New creates a new orphan report Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// Insert records a new report.
func (s *Store) Insert(ctx context.Context, r models.OrphanReport) (models.OrphanReport, error) {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return models.OrphanReport{}, err
	}
	return r, nil
}

// GetByID returns a report. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.OrphanReport, error) {
	var r models.OrphanReport
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		return models.OrphanReport{}, err
	}
	return r, nil
}

// ListOutstanding returns unresolved, unabandoned reports, newest first.
func (s *Store) ListOutstanding(ctx context.Context, limit int64) ([]models.OrphanReport, error) {
	if limit <= 0 {
		limit = 200
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, outstanding, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	reports := []models.OrphanReport{}
	if err := cur.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// CountOutstanding returns the number of reports awaiting cleanup.
func (s *Store) CountOutstanding(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, outstanding)
}

// CountOutstandingByKind returns outstanding report counts keyed by kind.
func (s *Store) CountOutstandingByKind(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: outstanding}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$kind"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Kind  string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Kind] = row.Count
	}
	return out, nil
}

// MarkResolved records that the orphaned file is gone.
func (s *Store) MarkResolved(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now().UTC()
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"resolved_at": now, "last_attempt_at": now},
		"$inc": bson.M{"attempts": 1},
	})
	return err
}

// RecordFailedAttempt increments the attempt counter and stores the latest
// error. Once attempts reach maxAttempts the report is marked abandoned.
// Returns true if the report was abandoned by this call.
func (s *Store) RecordFailedAttempt(ctx context.Context, id primitive.ObjectID, errMsg string, maxAttempts int) (bool, error) {
	now := time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var r models.OrphanReport
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"error": errMsg, "last_attempt_at": now},
		"$inc": bson.M{"attempts": 1},
	}, opts).Decode(&r)
	if err != nil {
		return false, err
	}
	if maxAttempts > 0 && r.Attempts >= maxAttempts {
		_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"abandoned_at": now}})
		return err == nil, err
	}
	return false, nil
}

// PruneClosed deletes resolved or abandoned reports created before cutoff.
func (s *Store) PruneClosed(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{
		"created_at": bson.M{"$lt": cutoff},
		"$or": bson.A{
			bson.M{"resolved_at": bson.M{"$exists": true}},
			bson.M{"abandoned_at": bson.M{"$exists": true}},
		},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
