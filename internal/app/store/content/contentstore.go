// internal/app/store/content/contentstore.go
package contentstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/agencycms/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateSlug is returned when a record's slug collides with another
// record in the same collection.
var ErrDuplicateSlug = errors.New("a record with this slug already exists")

// Store provides access to one content kind's collection.
type Store struct {
	c *mongo.Collection
}

// New creates a store for the given content kind.
func New(db *mongo.Database, kind models.ContentKind) *Store {
	return &Store{c: db.Collection(kind.Collection)}
}

// Create inserts a new record. ID and timestamps are assigned here; an empty
// status defaults to draft.
func (s *Store) Create(ctx context.Context, item models.ContentItem) (models.ContentItem, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	item.ID = primitive.NewObjectID()
	item.CreatedAt = now
	item.UpdatedAt = now
	if item.Status == "" {
		item.Status = models.StatusDraft
	}
	if item.Images == nil {
		item.Images = []string{}
	}

	if _, err := s.c.InsertOne(ctx, item); err != nil {
		if wafflemongo.IsDup(err) {
			return models.ContentItem{}, ErrDuplicateSlug
		}
		return models.ContentItem{}, err
	}
	return item, nil
}

// List returns every record in insertion order.
func (s *Store) List(ctx context.Context) ([]models.ContentItem, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	items := []models.ContentItem{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetByID returns a record by ID. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.ContentItem, error) {
	var item models.ContentItem
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return models.ContentItem{}, err
	}
	return item, nil
}

// GetBySlug returns a record by slug. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetBySlug(ctx context.Context, slug string) (models.ContentItem, error) {
	var item models.ContentItem
	if err := s.c.FindOne(ctx, bson.M{"slug": slug}).Decode(&item); err != nil {
		return models.ContentItem{}, err
	}
	return item, nil
}

// Update holds the fields replaced by an update. A nil Status leaves the
// stored status unchanged.
type Update struct {
	Heading     string
	Description string
	Images      []string
	Slug        string
	Status      *models.ContentStatus
}

// Update replaces the editable fields of a record, refreshes updated_at and
// returns the stored result. Returns mongo.ErrNoDocuments if not found and
// ErrDuplicateSlug on a slug collision.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) (models.ContentItem, error) {
	images := upd.Images
	if images == nil {
		images = []string{}
	}
	set := bson.M{
		"heading":     upd.Heading,
		"description": upd.Description,
		"images":      images,
		"slug":        upd.Slug,
		"updated_at":  time.Now().UTC().Truncate(time.Millisecond),
	}
	if upd.Status != nil {
		set["status"] = *upd.Status
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var item models.ContentItem
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&item)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.ContentItem{}, ErrDuplicateSlug
		}
		return models.ContentItem{}, err
	}
	return item, nil
}

// Delete removes a record and returns it so callers can clean up its
// images. Returns mongo.ErrNoDocuments if not found.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (models.ContentItem, error) {
	var item models.ContentItem
	if err := s.c.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return models.ContentItem{}, err
	}
	return item, nil
}

// Count returns the number of records.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
