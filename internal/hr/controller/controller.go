// Package controller implements the generic CRUD engine shared by every HR
// entity: scoped listing, create/update/delete/restore with the audit-dump
// protocol and compensating rollback, and bulk insert.
//
// Ordering is a correctness requirement: create/update write the primary
// store first and the audit record second; destroy/restore write the audit
// record first so a dump failure prevents the lifecycle transition.
package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mazta/hr-master/internal/hr/db"
	"github.com/mazta/hr-master/internal/hr/dump"
	e "github.com/mazta/hr-master/internal/hr/errors"
	"github.com/mazta/hr-master/internal/hr/events"
	"github.com/mazta/hr-master/internal/hr/filters"
	"github.com/mazta/hr-master/internal/hr/models"
	"github.com/mazta/hr-master/internal/hr/pagination"
	"github.com/mazta/hr-master/internal/hr/schema"
	"github.com/mazta/hr-master/internal/hr/serializer"
)

// Options bounds pagination and tree expansion.
type Options struct {
	DefaultPageSize int
	MaxPageSize     int
	DefaultMaxDepth int
}

// Query carries the request-shaped inputs of one call.
type Query struct {
	Params url.Values
	URL    *url.URL
	Path   string
	Method string
}

// Service is the CRUD engine for one entity type.
type Service[T models.Entity] struct {
	name     string
	store    *db.Store[T]
	dump     dump.Writer
	producer events.Producer
	set      *filters.Set
	sch      *schema.Entity
	opts     Options
	logger   *zap.Logger
	newFn    func() T
}

// New wires a service. A nil producer disables event publication.
func New[T models.Entity](
	sch *schema.Entity,
	store *db.Store[T],
	sink dump.Writer,
	producer events.Producer,
	opts Options,
	logger *zap.Logger,
	newFn func() T,
) *Service[T] {
	if producer == nil {
		producer = events.Nop{}
	}
	if opts.DefaultMaxDepth <= 0 {
		opts.DefaultMaxDepth = serializer.DefaultMaxDepth
	}
	return &Service[T]{
		name:     sch.Name,
		store:    store,
		dump:     sink,
		producer: producer,
		set:      filters.Build(sch),
		sch:      sch,
		opts:     opts,
		logger:   logger.Named(strings.ToLower(sch.Name) + "_service"),
		newFn:    newFn,
	}
}

// Name is the entity's display name, used in not-found messages.
func (s *Service[T]) Name() string { return s.name }

// FilterParams exposes the generated filter documentation.
func (s *Service[T]) FilterParams() []filters.ParamDoc { return s.set.Params() }

// List returns one page of entities under the resolved soft-delete scope.
func (s *Service[T]) List(ctx context.Context, q Query) (*pagination.Page, error) {
	pp := pagination.ParseParams(q.Params, s.opts.DefaultPageSize, s.opts.MaxPageSize)
	ropts := s.renderOptions(q.Params)

	items, count, err := s.store.List(ctx, db.ListOptions{
		Scope:    resolveScope(q.Params),
		Filters:  s.set,
		Params:   q.Params,
		Search:   q.Params.Get("search"),
		Ordering: q.Params.Get("ordering"),
		Offset:   pp.Offset(),
		Limit:    pp.PageSize,
		Preloads: s.preloads(ropts.MaxDepth),
	})
	if err != nil {
		return nil, err
	}
	return pagination.New(serializer.RenderList(items, ropts), count, pp, q.URL), nil
}

// Retrieve renders one entity.
func (s *Service[T]) Retrieve(ctx context.Context, id uint, q Query) (map[string]any, error) {
	ropts := s.renderOptions(q.Params)
	entity, err := s.store.Get(ctx, id, resolveScope(q.Params), s.preloads(ropts.MaxDepth)...)
	if err != nil {
		return nil, err
	}
	return serializer.Render(entity, ropts), nil
}

// Create persists a new entity, then dumps the full payload. A dump failure
// rolls the primary write back: the entity is only durably visible when both
// writes succeeded.
func (s *Service[T]) Create(ctx context.Context, body []byte, q Query) (map[string]any, error) {
	entity := s.newFn()
	if err := json.Unmarshal(body, entity); err != nil {
		return nil, fmt.Errorf("%w: %v", e.ErrInvalidInput, err)
	}
	if err := entity.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, entity); err != nil {
		return nil, fmt.Errorf("%w: failed on create: %v", e.ErrInvalidInput, err)
	}

	ropts := s.renderOptions(q.Params)
	payload, err := s.render(ctx, entity.Base().ID, ropts)
	if err != nil {
		s.rollbackCreate(ctx, entity)
		return nil, fmt.Errorf("failed on create: %w", err)
	}

	if _, err := s.writeDump(ctx, q.Path, "POST", payload); err != nil {
		s.rollbackCreate(ctx, entity)
		return nil, fmt.Errorf("failed on create: %w", err)
	}

	s.producer.Produce(s.name, events.ActionCreated, payload)
	return payload, nil
}

// Update captures the before-image, applies the patch, and dumps both
// images. When the dump write fails the before-image is written back, so a
// secondary-store failure cannot destroy the row.
func (s *Service[T]) Update(ctx context.Context, id uint, body []byte, q Query) (map[string]any, map[string]any, error) {
	scope := resolveScope(q.Params)
	ropts := s.renderOptions(q.Params)

	pre, err := s.store.Get(ctx, id, scope)
	if err != nil {
		return nil, nil, err
	}
	before, err := s.render(ctx, id, ropts)
	if err != nil {
		return nil, nil, err
	}

	entity, err := s.store.Get(ctx, id, scope)
	if err != nil {
		return nil, nil, err
	}
	if err := json.Unmarshal(body, entity); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", e.ErrInvalidInput, err)
	}
	if err := entity.Validate(); err != nil {
		return nil, nil, err
	}
	if err := s.store.Save(ctx, entity); err != nil {
		return nil, nil, fmt.Errorf("%w: failed update: %v", e.ErrInvalidInput, err)
	}

	after, err := s.render(ctx, id, ropts)
	if err != nil {
		s.revert(ctx, pre)
		return nil, nil, fmt.Errorf("failed update: %w", err)
	}

	if _, err := s.writeDump(ctx, q.Path, q.Method, map[string]any{
		"before": before,
		"after":  after,
	}); err != nil {
		s.revert(ctx, pre)
		return nil, nil, fmt.Errorf("failed update: %w", err)
	}

	s.producer.Produce(s.name, events.ActionUpdated, after)
	return before, after, nil
}

// Destroy soft-deletes. The dump is written first; if it fails the delete is
// never reached.
func (s *Service[T]) Destroy(ctx context.Context, id uint, q Query) (map[string]any, error) {
	entity, err := s.store.Get(ctx, id, resolveScope(q.Params))
	if err != nil {
		return nil, err
	}
	ropts := s.renderOptions(q.Params)
	payload, err := s.render(ctx, id, ropts)
	if err != nil {
		return nil, fmt.Errorf("failed delete: %w", err)
	}

	rec, err := s.writeDump(ctx, q.Path, "DELETE", map[string]any{"deleted": payload})
	if err != nil {
		return nil, fmt.Errorf("failed delete: %w", err)
	}

	if err := s.store.Delete(ctx, entity, false); err != nil {
		s.removeDump(ctx, rec)
		return nil, fmt.Errorf("%w: failed delete: %v", e.ErrInvalidInput, err)
	}

	s.producer.Produce(s.name, events.ActionDeleted, payload)
	return payload, nil
}

// Restore looks the entity up across all rows including dead ones, dumps
// the snapshot, then clears the soft-delete state.
func (s *Service[T]) Restore(ctx context.Context, id uint, q Query) (map[string]any, error) {
	ropts := s.renderOptions(q.Params)
	entity, err := s.store.Get(ctx, id, db.ScopeAll, s.preloads(ropts.MaxDepth)...)
	if err != nil {
		return nil, err
	}
	snapshot := serializer.Render(entity, ropts)

	rec, err := s.writeDump(ctx, q.Path, "RESTORE", snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed restore: %w", err)
	}

	if err := s.store.Restore(ctx, entity); err != nil {
		s.removeDump(ctx, rec)
		return nil, fmt.Errorf("%w: failed restore: %v", e.ErrInvalidInput, err)
	}

	restored := serializer.Render(entity, ropts)
	s.producer.Produce(s.name, events.ActionRestored, restored)
	return restored, nil
}

// writeDump appends one audit record. On failure the partial record is
// removed so no orphan is left behind.
func (s *Service[T]) writeDump(ctx context.Context, path, method string, payload any) (*dump.Record, error) {
	rec, err := dump.NewRecord(ctx, path, method, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", e.ErrDumpFailed, err)
	}
	if err := s.dump.Write(ctx, rec); err != nil {
		s.removeDump(ctx, rec)
		return nil, fmt.Errorf("%w: %v", e.ErrDumpFailed, err)
	}
	return rec, nil
}

func (s *Service[T]) removeDump(ctx context.Context, rec *dump.Record) {
	if rec == nil {
		return
	}
	if err := s.dump.Remove(ctx, rec.ID); err != nil {
		s.logger.Error("failed to remove partial dump record",
			zap.String("record_id", rec.ID.String()), zap.Error(err))
	}
}

func (s *Service[T]) rollbackCreate(ctx context.Context, entity T) {
	if err := s.store.Delete(ctx, entity, true); err != nil {
		s.logger.Error("failed to roll back created entity",
			zap.Uint("id", entity.Base().ID), zap.Error(err))
	}
}

func (s *Service[T]) revert(ctx context.Context, pre T) {
	if err := s.store.Save(ctx, pre); err != nil {
		s.logger.Error("failed to restore before-image",
			zap.Uint("id", pre.Base().ID), zap.Error(err))
	}
}

// render reloads the row with its relations and serializes it.
func (s *Service[T]) render(ctx context.Context, id uint, ropts serializer.Options) (map[string]any, error) {
	full, err := s.store.Get(ctx, id, db.ScopeAll, s.preloads(ropts.MaxDepth)...)
	if err != nil {
		return nil, err
	}
	return serializer.Render(full, ropts), nil
}

func (s *Service[T]) renderOptions(params url.Values) serializer.Options {
	opts := serializer.Options{MaxDepth: s.opts.DefaultMaxDepth}
	if raw := params.Get("fields"); raw != "" {
		opts.Fields = splitParam(raw)
	}
	if raw := params.Get("exclude"); raw != "" {
		opts.Exclude = splitParam(raw)
	}
	if raw := params.Get("max_depth"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			if n > s.opts.DefaultMaxDepth {
				n = s.opts.DefaultMaxDepth
			}
			opts.MaxDepth = n
		}
	}
	return opts
}

// preloads lists the associations to load before serializing: the entity's
// named relations plus Parent/Children chains for tree entities. One hop is
// loaded past the render bound so the node at the boundary exists and can
// degrade to its stub; an unloaded boundary would render null like a root.
func (s *Service[T]) preloads(maxDepth int) []string {
	out := s.newFn().RelationPreloads()
	if s.sch.Parent != nil {
		out = append(out, db.TreePreloads(maxDepth+1)...)
	}
	return out
}

// resolveScope widens to all rows when include_deleted is truthy, narrows to
// dead rows when only_deleted is; include_deleted wins when both are set.
func resolveScope(params url.Values) db.Scope {
	if truthy(params.Get("include_deleted")) {
		return db.ScopeAll
	}
	if truthy(params.Get("only_deleted")) {
		return db.ScopeDead
	}
	return db.ScopeAlive
}

func truthy(v string) bool {
	return v == "1" || v == "true" || v == "True"
}

func splitParam(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
