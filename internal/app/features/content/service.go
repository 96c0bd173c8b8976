package content

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	contentstore "github.com/dalemusser/agencycms/internal/app/store/content"
	"github.com/dalemusser/agencycms/internal/app/system/htmlsanitize"
	"github.com/dalemusser/agencycms/internal/app/system/inputval"
	"github.com/dalemusser/agencycms/internal/app/system/normalize"
	"github.com/dalemusser/agencycms/internal/app/system/orphanlog"
	"github.com/dalemusser/agencycms/internal/app/system/slug"
	"github.com/dalemusser/agencycms/internal/app/system/uploads"
	"github.com/dalemusser/agencycms/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// CreateInput is the data for a new record.
type CreateInput struct {
	Heading     string
	Description string
	Status      string // optional; defaults to draft
	Files       []uploads.File
}

// UpdateInput is the data for an update. RemovedImages lists stored
// filenames to drop from the record.
type UpdateInput struct {
	Heading       string
	Description   string
	Status        string // optional; empty keeps the current status
	RemovedImages []string
	Files         []uploads.File
}

// fields is validated with inputval struct tags.
type fields struct {
	Heading     string `json:"heading" validate:"required,max=200,sluggable" label:"Heading"`
	Description string `json:"description" validate:"required,richtext" label:"Description"`
	Status      string `json:"status" validate:"contentstatus" label:"Status"`
}

// Service implements content operations for one kind.
type Service struct {
	kind    models.ContentKind
	store   *contentstore.Store
	images  *uploads.Manager
	orphans *orphanlog.Reporter
	logger  *zap.Logger
	newOpID func() string
}

// NewService creates a Service. orphans may be nil.
func NewService(kind models.ContentKind, store *contentstore.Store, images *uploads.Manager, orphans *orphanlog.Reporter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		kind:    kind,
		store:   store,
		images:  images,
		orphans: orphans,
		logger:  logger.With(zap.String("kind", kind.Collection)),
		newOpID: uuid.NewString,
	}
}

// Kind returns the content kind the service manages.
func (s *Service) Kind() models.ContentKind {
	return s.kind
}

// Create validates input, stores uploaded images and inserts the record.
func (s *Service) Create(ctx context.Context, in CreateInput) (models.ContentItem, error) {
	f, err := s.validate(in.Heading, in.Description, in.Status)
	if err != nil {
		return models.ContentItem{}, err
	}

	names, err := s.images.Save(ctx, in.Files)
	if err != nil {
		return models.ContentItem{}, fmt.Errorf("save images: %w", err)
	}

	created, err := s.store.Create(ctx, models.ContentItem{
		Heading:     f.Heading,
		Description: f.Description,
		Images:      names,
		Slug:        slug.Derive(f.Heading),
		Status:      models.ContentStatus(f.Status),
	})
	if err != nil {
		s.removeImages(ctx, names, models.OrphanOpCreateRollback, nil)
		return models.ContentItem{}, s.storeErr(err)
	}

	s.logger.Info("content created",
		zap.String("id", created.ID.Hex()),
		zap.String("slug", created.Slug),
		zap.Int("images", len(created.Images)))
	return created, nil
}

// List returns every record.
func (s *Service) List(ctx context.Context) ([]models.ContentItem, error) {
	return s.store.List(ctx)
}

// GetByID returns a record. A malformed id is reported as not found.
func (s *Service) GetByID(ctx context.Context, id string) (models.ContentItem, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return models.ContentItem{}, s.notFound()
	}
	item, err := s.store.GetByID(ctx, oid)
	if err != nil {
		return models.ContentItem{}, s.storeErr(err)
	}
	return item, nil
}

// GetBySlug returns the record with the given slug.
func (s *Service) GetBySlug(ctx context.Context, sl string) (models.ContentItem, error) {
	sl = normalize.Slug(sl)
	// No stored slug can fail this, so skip the lookup.
	if !slug.IsValid(sl) {
		return models.ContentItem{}, s.notFound()
	}
	item, err := s.store.GetBySlug(ctx, sl)
	if err != nil {
		return models.ContentItem{}, s.storeErr(err)
	}
	return item, nil
}

// Update replaces heading, description and images and re-derives the slug.
//
// The record is written before removed images are deleted, so a crash in
// between leaves unreferenced files rather than references to missing ones.
// Only filenames the record actually held are deleted.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (models.ContentItem, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return models.ContentItem{}, err
	}

	f, err := s.validate(in.Heading, in.Description, in.Status)
	if err != nil {
		return models.ContentItem{}, err
	}

	added, err := s.images.Save(ctx, in.Files)
	if err != nil {
		return models.ContentItem{}, fmt.Errorf("save images: %w", err)
	}

	retained, removed := splitImages(existing.Images, in.RemovedImages)
	images := make([]string, 0, len(retained)+len(added))
	images = append(images, retained...)
	images = append(images, added...)

	upd := contentstore.Update{
		Heading:     f.Heading,
		Description: f.Description,
		Images:      images,
		Slug:        slug.Derive(f.Heading),
	}
	if f.Status != "" {
		st := models.ContentStatus(f.Status)
		upd.Status = &st
	}

	updated, err := s.store.Update(ctx, existing.ID, upd)
	if err != nil {
		s.removeImages(ctx, added, models.OrphanOpUpdateRollback, &existing.ID)
		return models.ContentItem{}, s.storeErr(err)
	}

	s.removeImages(ctx, removed, models.OrphanOpUpdate, &existing.ID)

	s.logger.Info("content updated",
		zap.String("id", updated.ID.Hex()),
		zap.String("slug", updated.Slug),
		zap.Int("added_images", len(added)),
		zap.Int("removed_images", len(removed)))
	return updated, nil
}

// Delete removes the record and then its images. Image failures are
// reported, never returned.
func (s *Service) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return s.notFound()
	}
	deleted, err := s.store.Delete(ctx, oid)
	if err != nil {
		return s.storeErr(err)
	}

	s.removeImages(ctx, deleted.Images, models.OrphanOpDelete, &deleted.ID)

	s.logger.Info("content deleted",
		zap.String("id", deleted.ID.Hex()),
		zap.String("slug", deleted.Slug))
	return nil
}

// validate normalizes and checks input. Field keys use the kind's heading name.
func (s *Service) validate(heading, description, status string) (fields, error) {
	f := fields{
		Heading:     normalize.Heading(heading),
		Description: htmlsanitize.Sanitize(normalize.Description(description)),
		Status:      normalize.Status(status),
	}
	res := inputval.Validate(f)
	if !res.HasErrors() {
		return f, nil
	}

	label := capitalize(s.kind.HeadingField)
	out := make(map[string]string, len(res.Errors))
	first := ""
	for _, e := range res.Errors {
		key, msg := e.Field, e.Message
		if key == "heading" {
			key = s.kind.HeadingField
			if e.Label != "" {
				msg = strings.Replace(msg, e.Label, label, 1)
			}
		}
		if _, ok := out[key]; !ok {
			out[key] = msg
		}
		if first == "" {
			first = msg
		}
	}
	return fields{}, &ValidationError{Message: first, Fields: out}
}

func (s *Service) notFound() error {
	return &NotFoundError{Kind: s.kind.Name}
}

// storeErr maps store errors to service errors.
func (s *Service) storeErr(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return s.notFound()
	case errors.Is(err, contentstore.ErrDuplicateSlug):
		msg := fmt.Sprintf("A %s with this %s already exists.", s.kind.Name, s.kind.HeadingField)
		return &ValidationError{
			Message: msg,
			Fields:  map[string]string{s.kind.HeadingField: msg},
		}
	default:
		return err
	}
}

// removeImages deletes files and reports the ones that could not be removed.
func (s *Service) removeImages(ctx context.Context, names []string, op string, recordID *primitive.ObjectID) {
	if len(names) == 0 {
		return
	}
	failures := s.images.Remove(ctx, names)
	if len(failures) == 0 {
		return
	}
	s.orphans.Report(ctx, orphanlog.Event{
		Kind:        s.kind,
		Operation:   op,
		RecordID:    recordID,
		OperationID: s.newOpID(),
	}, failures)
}

// splitImages returns the existing images not listed in removed, in their
// original order, and the listed names the record actually held.
func splitImages(existing, removed []string) (retained, dropped []string) {
	drop := make(map[string]struct{}, len(removed))
	for _, name := range removed {
		if b := path.Base(strings.TrimSpace(name)); b != "." && b != "/" && b != "" {
			drop[b] = struct{}{}
		}
	}
	retained = make([]string, 0, len(existing))
	seen := make(map[string]struct{}, len(drop))
	for _, name := range existing {
		if _, ok := drop[name]; ok {
			if _, dup := seen[name]; !dup {
				dropped = append(dropped, name)
				seen[name] = struct{}{}
			}
			continue
		}
		retained = append(retained, name)
	}
	return retained, dropped
}
