// Package library persists named zone sets so imported .zon files can be
// listed, re-exported and compared later. PostgreSQL and SQLite backends
// share one Repository contract.
package library

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/udisondev/zonkit/internal/config"
	"github.com/udisondev/zonkit/internal/zon"
)

var (
	// ErrSetNotFound is returned when a zone set name is unknown.
	ErrSetNotFound = errors.New("zone set not found")

	// ErrUnknownDriver is returned by Open for an unsupported driver name.
	ErrUnknownDriver = errors.New("unknown library driver")
)

// ZoneSet is a named, ordered list of zones.
type ZoneSet struct {
	Name       string
	Digest     string // hex BLAKE2b-256 of the canonical file text
	Zones      []zon.Bounded
	ImportedAt time.Time
}

// SetInfo describes a stored set without its zones.
type SetInfo struct {
	Name       string
	Digest     string
	Zones      int
	ImportedAt time.Time
}

// Repository stores zone sets.
type Repository interface {
	// SaveSet inserts or replaces the set with the same name. When the stored
	// digest already matches, nothing is written and saved is false.
	SaveSet(ctx context.Context, set ZoneSet) (saved bool, err error)
	// LoadSet returns the set with zones in their original order.
	LoadSet(ctx context.Context, name string) (ZoneSet, error)
	// ListSets returns all sets sorted by name.
	ListSets(ctx context.Context) ([]SetInfo, error)
	// DeleteSet removes a set and its zones.
	DeleteSet(ctx context.Context, name string) error
	Close() error
}

// Digest hashes the canonical writer output of zones, so two sets that
// would produce the same file share a digest.
func Digest(zones []zon.Bounded) (string, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return "", fmt.Errorf("creating blake2b hash: %w", err)
	}
	if _, err := zon.Write(h, zones); err != nil {
		return "", fmt.Errorf("hashing zones: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// withDigest fills set.Digest when the caller left it empty.
func withDigest(set ZoneSet) (ZoneSet, error) {
	if set.Name == "" {
		return set, errors.New("zone set name is empty")
	}
	if set.Digest != "" {
		return set, nil
	}
	d, err := Digest(set.Zones)
	if err != nil {
		return set, err
	}
	set.Digest = d
	return set, nil
}

// Open connects to the backend selected by cfg.Driver and applies migrations.
func Open(ctx context.Context, cfg config.LibraryConfig) (Repository, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return NewSQLite(ctx, cfg.SQLitePath)
	case config.DriverPostgres:
		return NewPostgres(ctx, cfg.Database.DSN())
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
