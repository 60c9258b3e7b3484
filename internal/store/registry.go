package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dotapit/stats-api/internal/models"
)

// PgPool defines the interface for PostgreSQL connection pool
type PgPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Registry resolves display names to registered profile data (MMR, role).
// A missing player is not an error for callers: the draft balancer zeroes
// the MMR/role terms instead.
type Registry interface {
	Get(ctx context.Context, name string) (*models.RegistryEntry, error)
	List(ctx context.Context) ([]models.RegistryEntry, error)
}

// ErrNotRegistered is returned when a name has no registry row.
var ErrNotRegistered = errors.New("player not registered")

type postgresRegistry struct {
	pg PgPool
}

func NewPostgresRegistry(pg PgPool) Registry {
	return &postgresRegistry{pg: pg}
}

func (r *postgresRegistry) Get(ctx context.Context, name string) (*models.RegistryEntry, error) {
	var entry models.RegistryEntry
	err := r.pg.QueryRow(ctx, `
		SELECT name, mmr, role, COALESCE(avatar, '')
		FROM players
		WHERE lower(trim(name)) = $1
	`, NormalizeName(name)).Scan(&entry.Name, &entry.MMR, &entry.Role, &entry.Avatar)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotRegistered
		}
		return nil, fmt.Errorf("registry lookup %q: %w", name, err)
	}
	return &entry, nil
}

func (r *postgresRegistry) List(ctx context.Context) ([]models.RegistryEntry, error) {
	rows, err := r.pg.Query(ctx, `
		SELECT name, mmr, role, COALESCE(avatar, '')
		FROM players
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("registry list: %w", err)
	}
	defer rows.Close()

	var entries []models.RegistryEntry
	for rows.Next() {
		var e models.RegistryEntry
		if err := rows.Scan(&e.Name, &e.MMR, &e.Role, &e.Avatar); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("registry list: %w", err)
	}
	return entries, nil
}

// StaticRegistry is an in-memory Registry for tests and offline runs.
type StaticRegistry map[string]models.RegistryEntry

func (r StaticRegistry) Get(_ context.Context, name string) (*models.RegistryEntry, error) {
	if e, ok := r[NormalizeName(name)]; ok {
		return &e, nil
	}
	return nil, ErrNotRegistered
}

func (r StaticRegistry) List(_ context.Context) ([]models.RegistryEntry, error) {
	entries := make([]models.RegistryEntry, 0, len(r))
	for _, e := range r {
		entries = append(entries, e)
	}
	return entries, nil
}
