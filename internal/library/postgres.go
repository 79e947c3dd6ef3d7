package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/zonkit/internal/zon"
)

var zoneColumns = []string{
	"set_id", "position", "name", "zone_type",
	"min_x", "min_y", "min_z", "max_x", "max_y", "max_z",
	"flag", "parent",
}

// Postgres is a Repository backed by a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to PostgreSQL, applies migrations and returns a repository.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if err := RunPostgresMigrations(ctx, dsn); err != nil {
		pool.Close()
		return nil, err
	}
	return &Postgres{pool: pool}, nil
}

// Close closes the connection pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

// Pool returns the underlying pgx pool.
func (p *Postgres) Pool() *pgxpool.Pool {
	return p.pool
}

// SaveSet implements Repository.
func (p *Postgres) SaveSet(ctx context.Context, set ZoneSet) (bool, error) {
	set, err := withDigest(set)
	if err != nil {
		return false, err
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var stored string
	err = tx.QueryRow(ctx,
		`SELECT digest FROM zone_sets WHERE name = $1 FOR UPDATE`, set.Name,
	).Scan(&stored)
	switch {
	case err == nil && stored == set.Digest:
		slog.Debug("zone set unchanged", "set", set.Name, "digest", set.Digest)
		return false, nil
	case err != nil && !errors.Is(err, pgx.ErrNoRows):
		return false, fmt.Errorf("querying zone set %q: %w", set.Name, err)
	}

	var setID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO zone_sets (name, digest, imported_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (name) DO UPDATE SET digest = EXCLUDED.digest, imported_at = EXCLUDED.imported_at
		 RETURNING id`,
		set.Name, set.Digest, importedAt(set),
	).Scan(&setID)
	if err != nil {
		return false, fmt.Errorf("upserting zone set %q: %w", set.Name, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM zones WHERE set_id = $1`, setID); err != nil {
		return false, fmt.Errorf("clearing zones of %q: %w", set.Name, err)
	}

	rows := make([][]any, len(set.Zones))
	for i, z := range set.Zones {
		rows[i] = []any{
			setID, i, z.Name, z.ZoneType,
			z.Min.X, z.Min.Y, z.Min.Z, z.Max.X, z.Max.Y, z.Max.Z,
			z.Flag, z.Parent,
		}
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"zones"}, zoneColumns, pgx.CopyFromRows(rows)); err != nil {
		return false, fmt.Errorf("copying zones of %q: %w", set.Name, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("committing zone set %q: %w", set.Name, err)
	}
	slog.Info("zone set saved", "set", set.Name, "zones", len(set.Zones), "driver", "postgres")
	return true, nil
}

// LoadSet implements Repository.
func (p *Postgres) LoadSet(ctx context.Context, name string) (ZoneSet, error) {
	set := ZoneSet{Name: name}
	var setID int64
	err := p.pool.QueryRow(ctx,
		`SELECT id, digest, imported_at FROM zone_sets WHERE name = $1`, name,
	).Scan(&setID, &set.Digest, &set.ImportedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return set, fmt.Errorf("%w: %q", ErrSetNotFound, name)
		}
		return set, fmt.Errorf("querying zone set %q: %w", name, err)
	}

	rows, err := p.pool.Query(ctx,
		`SELECT name, zone_type, min_x, min_y, min_z, max_x, max_y, max_z, flag, parent
		 FROM zones WHERE set_id = $1 ORDER BY position`, setID)
	if err != nil {
		return set, fmt.Errorf("querying zones of %q: %w", name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var z zon.Bounded
		if err := rows.Scan(&z.Name, &z.ZoneType,
			&z.Min.X, &z.Min.Y, &z.Min.Z, &z.Max.X, &z.Max.Y, &z.Max.Z,
			&z.Flag, &z.Parent); err != nil {
			return set, fmt.Errorf("scanning zone of %q: %w", name, err)
		}
		set.Zones = append(set.Zones, z)
	}
	if err := rows.Err(); err != nil {
		return set, fmt.Errorf("iterating zones of %q: %w", name, err)
	}
	return set, nil
}

// ListSets implements Repository.
func (p *Postgres) ListSets(ctx context.Context) ([]SetInfo, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT s.name, s.digest, s.imported_at, count(z.position)
		 FROM zone_sets s LEFT JOIN zones z ON z.set_id = s.id
		 GROUP BY s.id ORDER BY s.name`)
	if err != nil {
		return nil, fmt.Errorf("listing zone sets: %w", err)
	}
	defer rows.Close()

	var out []SetInfo
	for rows.Next() {
		var info SetInfo
		var count int64
		if err := rows.Scan(&info.Name, &info.Digest, &info.ImportedAt, &count); err != nil {
			return nil, fmt.Errorf("scanning zone set: %w", err)
		}
		info.Zones = int(count)
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating zone sets: %w", err)
	}
	return out, nil
}

// DeleteSet implements Repository.
func (p *Postgres) DeleteSet(ctx context.Context, name string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM zone_sets WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("deleting zone set %q: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %q", ErrSetNotFound, name)
	}
	return nil
}

func importedAt(set ZoneSet) time.Time {
	if set.ImportedAt.IsZero() {
		return time.Now().UTC()
	}
	return set.ImportedAt
}
