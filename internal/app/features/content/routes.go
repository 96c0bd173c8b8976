package content

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns a chi.Router with the CRUD routes for one kind.
//
//	POST   /            create (multipart)
//	GET    /            list
//	GET    /slug/{slug} fetch by slug
//	GET    /{id}        fetch by id
//	PUT    /{id}        update (multipart, removedImages JSON array)
//	DELETE /{id}        delete
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/slug/{slug}", h.getBySlug)
	r.Get("/{id}", h.getByID)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	return r
}
