// Package repository implements a generic persistence layer over bun.
// Each entity binds the engine once through ModelHandlers; operations,
// filtering and partial updates are shared across every binding.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

// DefaultLimit caps list queries when the caller does not provide one.
const DefaultLimit = 100

// ModelHandlers is the entity descriptor: how to build a record and how
// to reach its primary key. Constructed once at startup, immutable, and
// shared by every request touching the binding.
type ModelHandlers[T any] struct {
	NewRecord func() T
	GetID     func(T) int64
	SetID     func(T, int64)
}

// Validatable lets records carry their own create-payload rules.
type Validatable interface {
	Validate() error
}

// Repository exposes uniform persistence operations over one record type.
type Repository[T any] interface {
	// List applies filters, then skips and limits. An empty result is a
	// nil error and an empty slice. No ordering is guaranteed beyond
	// whatever the backend provides.
	List(ctx context.Context, criteria ListCriteria) ([]T, error)
	// GetByID returns exactly one record or a not-found error.
	GetByID(ctx context.Context, id int64) (T, error)
	// GetOrFail is GetByID with a caller-supplied client-visible message.
	GetOrFail(ctx context.Context, id int64, message string) (T, error)
	// Create validates and persists the record; the backend assigns the
	// identifier. Validation failures happen before any write.
	Create(ctx context.Context, record T) (T, error)
	// Update applies only the fields present in patch. Missing ids fail
	// with the same not-found error GetOrFail produces. Concurrent
	// partial updates on one id are not serialized here; the last write
	// per column wins under the backend's isolation.
	Update(ctx context.Context, id int64, patch map[string]any, message string) (T, error)
	// Delete hard-deletes and returns the removed record so callers can
	// log or audit it.
	Delete(ctx context.Context, id int64, message string) (T, error)
	// Count returns the number of records matching the filters.
	Count(ctx context.Context, filters map[string]any) (int, error)
}

type repo[T any] struct {
	db        *bun.DB
	handlers  ModelHandlers[T]
	table     *schema.Table
	pk        *schema.Field
	strict    bool
	relations []string
}

// Option configures a repository binding.
type Option func(*settings)

type settings struct {
	strict    bool
	relations []string
}

// WithStrictFields makes unknown filter and patch fields an error
// instead of silently dropping them.
func WithStrictFields(strict bool) Option {
	return func(s *settings) { s.strict = strict }
}

// WithRelations loads the named bun relations on every read.
func WithRelations(names ...string) Option {
	return func(s *settings) { s.relations = append(s.relations, names...) }
}

// NewRepository builds a binding for T. The column set comes from the
// bun model schema, so the descriptor never drifts from the struct tags.
// Panics on a malformed descriptor; bindings are wired at process start.
func NewRepository[T any](db *bun.DB, handlers ModelHandlers[T], opts ...Option) Repository[T] {
	if handlers.NewRecord == nil || handlers.GetID == nil || handlers.SetID == nil {
		panic("repository: ModelHandlers requires NewRecord, GetID and SetID")
	}

	rec := handlers.NewRecord()
	typ := reflect.Indirect(reflect.ValueOf(rec)).Type()
	table := db.Table(typ)
	if len(table.PKs) != 1 {
		panic(fmt.Sprintf("repository: model %s must declare exactly one primary key", table.TypeName))
	}

	cfg := settings{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return &repo[T]{
		db:        db,
		handlers:  handlers,
		table:     table,
		pk:        table.PKs[0],
		strict:    cfg.strict,
		relations: cfg.relations,
	}
}

func (r *repo[T]) List(ctx context.Context, criteria ListCriteria) ([]T, error) {
	skip := criteria.Skip
	if skip < 0 {
		skip = 0
	}
	limit := criteria.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	filters, err := r.resolveFilters(criteria.Filters)
	if err != nil {
		return nil, err
	}

	records := make([]T, 0)
	q := r.db.NewSelect().Model(&records)
	for _, rel := range r.relations {
		q = q.Relation(rel)
	}
	for _, f := range filters {
		q = q.Where("?TableAlias.? = ?", bun.Ident(f.column), f.value)
	}

	if err := q.Offset(skip).Limit(limit).Scan(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "list query failed")
	}

	return records, nil
}

func (r *repo[T]) GetByID(ctx context.Context, id int64) (T, error) {
	record := r.handlers.NewRecord()

	q := r.db.NewSelect().Model(record)
	for _, rel := range r.relations {
		q = q.Relation(rel)
	}

	err := q.Where("?TableAlias.? = ?", bun.Ident(r.pk.Name), id).Scan(ctx)
	if err != nil {
		var zero T
		if errors.Is(err, sql.ErrNoRows) {
			return zero, NotFoundError(r.table.TypeName + " not found")
		}
		return zero, errors.Wrap(err, errors.CategoryInternal, "get query failed")
	}

	return record, nil
}

func (r *repo[T]) GetOrFail(ctx context.Context, id int64, message string) (T, error) {
	record, err := r.GetByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			var zero T
			return zero, NotFoundError(message)
		}
		return record, err
	}
	return record, nil
}

func (r *repo[T]) Create(ctx context.Context, record T) (T, error) {
	var zero T

	if v, ok := any(record).(Validatable); ok {
		if err := v.Validate(); err != nil {
			return zero, errors.Wrap(err, errors.CategoryValidation, "invalid "+r.table.TypeName+" payload").
				WithTextCode(TextCodeInvalidPayload)
		}
	}

	if _, err := r.db.NewInsert().Model(record).Exec(ctx); err != nil {
		if IsUniqueViolation(err) {
			return zero, ConflictError(err, r.table.TypeName+" violates a unique constraint")
		}
		return zero, errors.Wrap(err, errors.CategoryInternal, "insert failed")
	}

	// Re-read so the caller sees exactly what was stored, including
	// backend defaults and configured relations.
	return r.GetByID(ctx, r.handlers.GetID(record))
}

func (r *repo[T]) Update(ctx context.Context, id int64, patch map[string]any, message string) (T, error) {
	var zero T

	record, err := r.GetOrFail(ctx, id, message)
	if err != nil {
		return zero, err
	}

	assignments, err := r.resolvePatch(patch)
	if err != nil {
		return zero, err
	}
	if len(assignments) == 0 {
		return record, nil
	}

	q := r.db.NewUpdate().Model(record).WherePK()
	for _, a := range assignments {
		q = q.Set("? = ?", bun.Ident(a.column), a.value)
	}

	if _, err := q.Exec(ctx); err != nil {
		if IsUniqueViolation(err) {
			return zero, ConflictError(err, r.table.TypeName+" violates a unique constraint")
		}
		return zero, errors.Wrap(err, errors.CategoryInternal, "update failed")
	}

	return r.GetByID(ctx, id)
}

func (r *repo[T]) Delete(ctx context.Context, id int64, message string) (T, error) {
	var zero T

	record, err := r.GetOrFail(ctx, id, message)
	if err != nil {
		return zero, err
	}

	if _, err := r.db.NewDelete().Model(record).WherePK().Exec(ctx); err != nil {
		return zero, errors.Wrap(err, errors.CategoryInternal, "delete failed")
	}

	return record, nil
}

func (r *repo[T]) Count(ctx context.Context, filterSet map[string]any) (int, error) {
	filters, err := r.resolveFilters(filterSet)
	if err != nil {
		return 0, err
	}

	q := r.db.NewSelect().Model(r.handlers.NewRecord())
	for _, f := range filters {
		q = q.Where("?TableAlias.? = ?", bun.Ident(f.column), f.value)
	}

	count, err := q.Count(ctx)
	if err != nil {
		return 0, errors.Wrap(err, errors.CategoryInternal, "count query failed")
	}
	return count, nil
}
