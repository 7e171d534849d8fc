// Package handlers provides the HTTP surface: one chi-mounted resource per
// entity, translating requests into controller calls and errors into the
// {"detail": ...} envelope.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mazta/hr-master/internal/hr/controller"
	e "github.com/mazta/hr-master/internal/hr/errors"
	"github.com/mazta/hr-master/internal/hr/filters"
	"github.com/mazta/hr-master/internal/hr/pagination"
)

const maxBulkUploadBytes = 32 << 20

// Controller is the per-entity service the resource delegates to. Service[T]
// satisfies it for every entity type.
type Controller interface {
	Name() string
	FilterParams() []filters.ParamDoc
	List(ctx context.Context, q controller.Query) (*pagination.Page, error)
	Retrieve(ctx context.Context, id uint, q controller.Query) (map[string]any, error)
	Create(ctx context.Context, body []byte, q controller.Query) (map[string]any, error)
	Update(ctx context.Context, id uint, body []byte, q controller.Query) (map[string]any, map[string]any, error)
	Destroy(ctx context.Context, id uint, q controller.Query) (map[string]any, error)
	Restore(ctx context.Context, id uint, q controller.Query) (map[string]any, error)
	BulkInsert(ctx context.Context, filename string, file io.Reader, q controller.Query) (int, error)
}

// Resource serves the CRUD routes of one entity.
type Resource struct {
	svc    Controller
	logger *zap.Logger
}

func NewResource(svc Controller, logger *zap.Logger) *Resource {
	return &Resource{svc: svc, logger: logger}
}

// Routes mounts the entity's endpoints on a fresh sub-router.
func (res *Resource) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", res.list)
	r.Post("/", res.create)
	r.Post("/insert-bulk", res.bulkInsert)
	r.Get("/{id}", res.retrieve)
	r.Put("/{id}", res.update)
	r.Patch("/{id}", res.update)
	r.Delete("/{id}", res.destroy)
	r.Post("/{id}/restore", res.restore)
	return r
}

func (res *Resource) list(w http.ResponseWriter, r *http.Request) {
	page, err := res.svc.List(r.Context(), query(r))
	if err != nil {
		res.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (res *Resource) retrieve(w http.ResponseWriter, r *http.Request) {
	id, ok := res.entityID(w, r)
	if !ok {
		return
	}
	data, err := res.svc.Retrieve(r.Context(), id, query(r))
	if err != nil {
		res.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (res *Resource) create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		res.writeError(w, e.ErrInvalidInput)
		return
	}
	data, err := res.svc.Create(r.Context(), body, query(r))
	if err != nil {
		res.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"detail": "Successfully created data.",
		"data":   data,
	})
}

func (res *Resource) update(w http.ResponseWriter, r *http.Request) {
	id, ok := res.entityID(w, r)
	if !ok {
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		res.writeError(w, e.ErrInvalidInput)
		return
	}
	before, after, err := res.svc.Update(r.Context(), id, body, query(r))
	if err != nil {
		res.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"detail": "Successfully updated data",
		"before": before,
		"after":  after,
	})
}

func (res *Resource) destroy(w http.ResponseWriter, r *http.Request) {
	id, ok := res.entityID(w, r)
	if !ok {
		return
	}
	data, err := res.svc.Destroy(r.Context(), id, query(r))
	if err != nil {
		res.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"detail": "Successfully deleted data.",
		"data":   data,
	})
}

func (res *Resource) restore(w http.ResponseWriter, r *http.Request) {
	id, ok := res.entityID(w, r)
	if !ok {
		return
	}
	data, err := res.svc.Restore(r.Context(), id, query(r))
	if err != nil {
		res.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"detail": "Successfully restoring data.",
		"data":   data,
	})
}

func (res *Resource) bulkInsert(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxBulkUploadBytes); err != nil {
		writeDetail(w, http.StatusBadRequest, "multipart form with a 'file' field required")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "multipart form with a 'file' field required")
		return
	}
	defer file.Close()

	n, err := res.svc.BulkInsert(r.Context(), header.Filename, file, query(r))
	if err != nil {
		res.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"detail": "Successfully inserted " + strconv.Itoa(n) + " rows",
	})
}

// entityID parses the path id. A non-numeric id cannot name any row, so it
// reports the same not-found message as a missing one.
func (res *Resource) entityID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		writeDetail(w, http.StatusNotFound, res.svc.Name()+" not found.")
		return 0, false
	}
	return uint(id), true
}

func (res *Resource) writeError(w http.ResponseWriter, err error) {
	var verr *e.ValidationError
	switch {
	case errors.Is(err, e.ErrNotFound):
		writeDetail(w, http.StatusNotFound, res.svc.Name()+" not found.")
	case errors.As(err, &verr):
		writeDetail(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, e.ErrInvalidInput), errors.Is(err, e.ErrDumpFailed):
		writeDetail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, e.ErrAuthUnavailable):
		writeDetail(w, http.StatusServiceUnavailable, err.Error())
	default:
		res.logger.Error("request failed", zap.String("entity", res.svc.Name()), zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "internal server error")
	}
}

func query(r *http.Request) controller.Query {
	return controller.Query{
		Params: r.URL.Query(),
		URL:    r.URL,
		Path:   r.URL.Path,
		Method: r.Method,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
