package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	errorsfeature "github.com/dalemusser/agencycms/internal/app/features/errors"
	"github.com/dalemusser/agencycms/internal/app/system/jsonutil"
	"github.com/dalemusser/agencycms/internal/app/system/uploads"
	"github.com/dalemusser/agencycms/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DefaultMaxUploadBytes caps a whole multipart request.
const DefaultMaxUploadBytes = 32 << 20 // 32MB

// multipartMemory is how much of a multipart body is held in memory before
// spilling file parts to disk.
const multipartMemory = 8 << 20

// uploadFields are the multipart keys that carry image files.
var uploadFields = []string{"image", "images"}

// Handler serves the HTTP API for one content kind.
type Handler struct {
	svc            *Service
	images         *uploads.Manager
	errLog         *errorsfeature.ErrorLogger
	logger         *zap.Logger
	maxUploadBytes int64
}

// NewHandler creates a content Handler. maxUploadBytes <= 0 uses the default.
func NewHandler(svc *Service, images *uploads.Manager, errLog *errorsfeature.ErrorLogger, logger *zap.Logger, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &Handler{
		svc:            svc,
		images:         images,
		errLog:         errLog,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

// itemJSON renders a record with the kind's heading key and image URLs.
func (h *Handler) itemJSON(item models.ContentItem) map[string]any {
	images := item.Images
	if images == nil {
		images = []string{}
	}
	urls := make([]string, len(images))
	for i, name := range images {
		urls[i] = h.images.URL(name)
	}
	heading := h.svc.Kind().HeadingField
	return map[string]any{
		"_id":         item.ID.Hex(),
		heading:       item.Heading,
		"description": item.Description,
		"images":      images,
		"imageUrls":   urls,
		"slug":        item.Slug,
		"status":      item.Status,
		"createdAt":   item.CreatedAt.UTC().Format(time.RFC3339Nano),
		"updatedAt":   item.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	form, files, cleanup, err := h.parseForm(w, r)
	defer cleanup()
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	item, err := h.svc.Create(r.Context(), CreateInput{
		Heading:     form.heading,
		Description: form.description,
		Status:      form.status,
		Files:       files,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	jsonutil.Created(w, h.itemJSON(item))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		out = append(out, h.itemJSON(item))
	}
	jsonutil.OK(w, out)
}

func (h *Handler) getByID(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	jsonutil.OK(w, h.itemJSON(item))
}

func (h *Handler) getBySlug(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	jsonutil.OK(w, h.itemJSON(item))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	form, files, cleanup, err := h.parseForm(w, r)
	defer cleanup()
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	removed, err := parseRemovedImages(r.Form["removedImages"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	item, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), UpdateInput{
		Heading:       form.heading,
		Description:   form.description,
		Status:        form.status,
		RemovedImages: removed,
		Files:         files,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	jsonutil.OK(w, h.itemJSON(item))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	jsonutil.Message(w, http.StatusOK, capitalize(h.svc.Kind().Name)+" deleted successfully")
}

// writeError maps service errors to responses. Unexpected errors are logged
// and reported without internal detail.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		jsonutil.ValidationError(w, verr.Message, verr.Fields)
	case errors.Is(err, ErrNotFound):
		jsonutil.NotFound(w, err.Error())
	default:
		h.errLog.LogWithFields(r, "content request failed", err,
			zap.String("kind", h.svc.Kind().Collection))
		jsonutil.InternalError(w, "internal server error")
	}
}

type formValues struct {
	heading     string
	description string
	status      string
}

// parseForm reads a multipart (or urlencoded) body and opens uploaded
// files. cleanup closes the files and removes multipart temp files; it is
// always safe to call.
func (h *Handler) parseForm(w http.ResponseWriter, r *http.Request) (formValues, []uploads.File, func(), error) {
	var opened []multipart.File
	cleanup := func() {
		for _, f := range opened {
			_ = f.Close()
		}
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if !errors.Is(err, http.ErrNotMultipart) {
			return formValues{}, nil, cleanup, h.formErr(err)
		}
		if err := r.ParseForm(); err != nil {
			return formValues{}, nil, cleanup, h.formErr(err)
		}
	}

	form := formValues{
		heading:     r.FormValue(h.svc.Kind().HeadingField),
		description: r.FormValue("description"),
		status:      r.FormValue("status"),
	}

	var files []uploads.File
	if r.MultipartForm != nil {
		for _, field := range uploadFields {
			for _, fh := range r.MultipartForm.File[field] {
				f, err := fh.Open()
				if err != nil {
					return formValues{}, nil, cleanup, fmt.Errorf("open upload %q: %w", fh.Filename, err)
				}
				opened = append(opened, f)
				files = append(files, uploads.File{
					Filename:    fh.Filename,
					ContentType: fh.Header.Get("Content-Type"),
					Reader:      f,
				})
			}
		}
	}
	return form, files, cleanup, nil
}

func (h *Handler) formErr(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return &ValidationError{Message: fmt.Sprintf("Upload exceeds the %d MB limit.", h.maxUploadBytes>>20)}
	}
	return &ValidationError{Message: "Invalid form data."}
}

// parseRemovedImages decodes the removedImages field, a JSON array of
// filenames. It is parsed once here so the service only sees a typed list.
func parseRemovedImages(values []string) ([]string, error) {
	if len(values) == 0 || (len(values) == 1 && values[0] == "") {
		return nil, nil
	}
	if len(values) > 1 {
		return nil, removedImagesErr()
	}
	var names []string
	if err := json.Unmarshal([]byte(values[0]), &names); err != nil {
		return nil, removedImagesErr()
	}
	return names, nil
}

func removedImagesErr() error {
	msg := "removedImages must be a JSON array of filenames."
	return &ValidationError{Message: msg, Fields: map[string]string{"removedImages": msg}}
}
