package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/shopcore/accounts-server/internal/model"
)

const uniqueViolation = "23505"

// Descriptor declares a table's shape and capabilities up front. Soft-delete
// and timestamp handling are driven by these flags, not by runtime probing.
type Descriptor struct {
	Table       string
	Columns     []string
	SoftDelete  bool
	Timestamped bool
}

// Gateway provides uniform CRUD with soft-delete filtering over one entity
// type. Entity repositories compose it and add their own queries.
type Gateway[T any] struct {
	db    *Connection
	desc  Descriptor
	cols  map[string]struct{}
	quals string
}

func NewGateway[T any](db *Connection, desc Descriptor) *Gateway[T] {
	cols := make(map[string]struct{}, len(desc.Columns))
	for _, c := range desc.Columns {
		cols[c] = struct{}{}
	}
	return &Gateway[T]{
		db:    db,
		desc:  desc,
		cols:  cols,
		quals: strings.Join(desc.Columns, ", "),
	}
}

// Get returns the live entity with the given id.
func (g *Gateway[T]) Get(ctx context.Context, id uuid.UUID) (T, error) {
	var zero T
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", g.quals, g.desc.Table)
	if g.desc.SoftDelete {
		query += " AND deleted_at IS NULL"
	}

	rows, err := g.db.Query(ctx, query, id)
	if err != nil {
		return zero, fmt.Errorf("failed to query %s: %w", g.desc.Table, err)
	}
	entity, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, model.ErrNotFound
		}
		return zero, fmt.Errorf("failed to scan %s row: %w", g.desc.Table, err)
	}

	return entity, nil
}

// List returns live entities matching the equality filters, in insertion
// order, with offset/limit pagination. Nil filter values are ignored.
func (g *Gateway[T]) List(ctx context.Context, skip, limit int, filters map[string]any) ([]T, error) {
	where, args, err := g.buildWhere(filters)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY created_at, id OFFSET $%d LIMIT $%d",
		g.quals, g.desc.Table, where, len(args)+1, len(args)+2)
	args = append(args, skip, limit)

	rows, err := g.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", g.desc.Table, err)
	}
	entities, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s rows: %w", g.desc.Table, err)
	}

	return entities, nil
}

// Count returns the number of live entities matching the filters.
func (g *Gateway[T]) Count(ctx context.Context, filters map[string]any) (int, error) {
	where, args, err := g.buildWhere(filters)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf("SELECT count(*) FROM %s%s", g.desc.Table, where)

	var count int
	if err := g.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", g.desc.Table, err)
	}

	return count, nil
}

// Create inserts a new entity from the given column values, assigning an id
// if none is provided, and returns the persisted row.
func (g *Gateway[T]) Create(ctx context.Context, values map[string]any) (T, error) {
	var zero T
	if _, ok := values["id"]; !ok {
		values = withColumn(values, "id", uuid.New())
	}

	keys := sortedKeys(values)
	placeholders := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))
	for i, k := range keys {
		if _, ok := g.cols[k]; !ok {
			return zero, fmt.Errorf("unknown column %q for table %s", k, g.desc.Table)
		}
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
		args = append(args, values[k])
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		g.desc.Table, strings.Join(keys, ", "), strings.Join(placeholders, ", "), g.quals)

	rows, err := g.db.Query(ctx, query, args...)
	if err != nil {
		return zero, fmt.Errorf("failed to insert into %s: %w", g.desc.Table, err)
	}
	entity, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		if isUniqueViolation(err) {
			return zero, model.ErrConflict
		}
		return zero, fmt.Errorf("failed to insert into %s: %w", g.desc.Table, err)
	}

	return entity, nil
}

// Update applies only the given column values to the live entity with the
// given id, bumping updated_at when the table carries timestamps. A missing
// or soft-deleted row reports ErrNotFound.
func (g *Gateway[T]) Update(ctx context.Context, id uuid.UUID, values map[string]any) (T, error) {
	var zero T
	if len(values) == 0 {
		return g.Get(ctx, id)
	}

	keys := sortedKeys(values)
	assignments := make([]string, 0, len(keys)+1)
	args := make([]any, 0, len(keys)+1)
	for i, k := range keys {
		if _, ok := g.cols[k]; !ok {
			return zero, fmt.Errorf("unknown column %q for table %s", k, g.desc.Table)
		}
		assignments = append(assignments, fmt.Sprintf("%s = $%d", k, i+1))
		args = append(args, values[k])
	}
	if g.desc.Timestamped {
		assignments = append(assignments, "updated_at = NOW()")
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", g.desc.Table, strings.Join(assignments, ", "), len(args))
	if g.desc.SoftDelete {
		query += " AND deleted_at IS NULL"
	}
	query += " RETURNING " + g.quals

	rows, err := g.db.Query(ctx, query, args...)
	if err != nil {
		return zero, fmt.Errorf("failed to update %s: %w", g.desc.Table, err)
	}
	entity, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, model.ErrNotFound
		}
		if isUniqueViolation(err) {
			return zero, model.ErrConflict
		}
		return zero, fmt.Errorf("failed to update %s: %w", g.desc.Table, err)
	}

	return entity, nil
}

// Delete removes the row permanently and reports whether one existed.
func (g *Gateway[T]) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", g.desc.Table)
	cmd, err := g.db.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete from %s: %w", g.desc.Table, err)
	}
	return cmd.RowsAffected() > 0, nil
}

// SoftDelete stamps deleted_at on the live entity and returns it. Tables
// without soft-delete support report ErrUnsupported.
func (g *Gateway[T]) SoftDelete(ctx context.Context, id uuid.UUID) (T, error) {
	var zero T
	if !g.desc.SoftDelete {
		return zero, fmt.Errorf("table %s: %w", g.desc.Table, model.ErrUnsupported)
	}

	assignments := "deleted_at = NOW()"
	if g.desc.Timestamped {
		assignments += ", updated_at = NOW()"
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $1 AND deleted_at IS NULL RETURNING %s",
		g.desc.Table, assignments, g.quals)

	rows, err := g.db.Query(ctx, query, id)
	if err != nil {
		return zero, fmt.Errorf("failed to soft delete from %s: %w", g.desc.Table, err)
	}
	entity, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, model.ErrNotFound
		}
		return zero, fmt.Errorf("failed to soft delete from %s: %w", g.desc.Table, err)
	}

	return entity, nil
}

func (g *Gateway[T]) buildWhere(filters map[string]any) (string, []any, error) {
	var clauses []string
	var args []any
	if g.desc.SoftDelete {
		clauses = append(clauses, "deleted_at IS NULL")
	}
	for _, k := range sortedKeys(filters) {
		if _, ok := g.cols[k]; !ok {
			return "", nil, fmt.Errorf("unknown filter column %q for table %s", k, g.desc.Table)
		}
		v := filters[k]
		if v == nil {
			continue
		}
		args = append(args, v)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", k, len(args)))
	}
	if len(clauses) == 0 {
		return "", args, nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func withColumn(values map[string]any, key string, value any) map[string]any {
	out := make(map[string]any, len(values)+1)
	for k, v := range values {
		out[k] = v
	}
	out[key] = value
	return out
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
