package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/udisondev/zonkit/internal/zon"
)

// SQLite is a Repository stored in a single local database file.
type SQLite struct {
	db *sql.DB
}

var sqlitePragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA foreign_keys=ON",
}

// NewSQLite opens (or creates) the database at path and applies migrations.
func NewSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", path, err)
	}
	// PRAGMA foreign_keys действует на соединение, поэтому держим одно.
	db.SetMaxOpenConns(1)

	for _, pragma := range sqlitePragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("executing %q: %w", pragma, err)
		}
	}

	if err := runMigrations(ctx, db, "sqlite3", "sqlite"); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// SaveSet implements Repository.
func (s *SQLite) SaveSet(ctx context.Context, set ZoneSet) (bool, error) {
	set, err := withDigest(set)
	if err != nil {
		return false, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var stored string
	err = tx.QueryRowContext(ctx, `SELECT digest FROM zone_sets WHERE name = ?`, set.Name).Scan(&stored)
	switch {
	case err == nil && stored == set.Digest:
		slog.Debug("zone set unchanged", "set", set.Name, "digest", set.Digest)
		return false, nil
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return false, fmt.Errorf("querying zone set %q: %w", set.Name, err)
	}

	var setID int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO zone_sets (name, digest, imported_at_ns)
		 VALUES (?, ?, ?)
		 ON CONFLICT (name) DO UPDATE SET digest = excluded.digest, imported_at_ns = excluded.imported_at_ns
		 RETURNING id`,
		set.Name, set.Digest, importedAt(set).UnixNano(),
	).Scan(&setID)
	if err != nil {
		return false, fmt.Errorf("upserting zone set %q: %w", set.Name, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM zones WHERE set_id = ?`, setID); err != nil {
		return false, fmt.Errorf("clearing zones of %q: %w", set.Name, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO zones (set_id, position, name, zone_type,
		 min_x, min_y, min_z, max_x, max_y, max_z, flag, parent)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return false, fmt.Errorf("preparing zone insert: %w", err)
	}
	defer stmt.Close()

	for i, z := range set.Zones {
		if _, err := stmt.ExecContext(ctx, setID, i, z.Name, z.ZoneType,
			z.Min.X, z.Min.Y, z.Min.Z, z.Max.X, z.Max.Y, z.Max.Z,
			z.Flag, z.Parent); err != nil {
			return false, fmt.Errorf("inserting zone %d of %q: %w", i, set.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing zone set %q: %w", set.Name, err)
	}
	slog.Info("zone set saved", "set", set.Name, "zones", len(set.Zones), "driver", "sqlite")
	return true, nil
}

// LoadSet implements Repository.
func (s *SQLite) LoadSet(ctx context.Context, name string) (ZoneSet, error) {
	set := ZoneSet{Name: name}
	var (
		setID int64
		ns    int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, digest, imported_at_ns FROM zone_sets WHERE name = ?`, name,
	).Scan(&setID, &set.Digest, &ns)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return set, fmt.Errorf("%w: %q", ErrSetNotFound, name)
		}
		return set, fmt.Errorf("querying zone set %q: %w", name, err)
	}
	set.ImportedAt = time.Unix(0, ns).UTC()

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, zone_type, min_x, min_y, min_z, max_x, max_y, max_z, flag, parent
		 FROM zones WHERE set_id = ? ORDER BY position`, setID)
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
func (s *SQLite) ListSets(ctx context.Context) ([]SetInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.name, s.digest, s.imported_at_ns, count(z.position)
		 FROM zone_sets s LEFT JOIN zones z ON z.set_id = s.id
		 GROUP BY s.id ORDER BY s.name`)
	if err != nil {
		return nil, fmt.Errorf("listing zone sets: %w", err)
	}
	defer rows.Close()

	var out []SetInfo
	for rows.Next() {
		var (
			info SetInfo
			ns   int64
		)
		if err := rows.Scan(&info.Name, &info.Digest, &ns, &info.Zones); err != nil {
			return nil, fmt.Errorf("scanning zone set: %w", err)
		}
		info.ImportedAt = time.Unix(0, ns).UTC()
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating zone sets: %w", err)
	}
	return out, nil
}

// DeleteSet implements Repository.
func (s *SQLite) DeleteSet(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM zone_sets WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting zone set %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting zone set %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrSetNotFound, name)
	}
	return nil
}
