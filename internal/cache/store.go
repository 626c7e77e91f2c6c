// SPDX-License-Identifier: MPL-2.0

package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fxamacker/cbor/v2"

	"github.com/color/clr/internal/namespace"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const (
	// FileName is the name of the cache database inside the cache directory.
	FileName = "clr_cache.db"

	busyTimeoutMillis = 2000
	schema            = `CREATE TABLE IF NOT EXISTS namespaces (
	key   TEXT PRIMARY KEY,
	entry BLOB NOT NULL
)`
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("cache: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("cache: CBOR decoder initialization failed: " + err.Error())
	}
}

type (
	// Options configures a Store.
	Options struct {
		// Path is the database file. Empty means DefaultPath("").
		Path string
		// Disabled turns every lookup into a live registry load.
		Disabled bool
		Logger   *log.Logger
	}

	// Store is the persistent metadata cache. It is the only reader and writer of
	// its file. Every access opens the database, uses it and closes it again, so
	// concurrent clr processes only ever contend on SQLite's own locking.
	Store struct {
		path     string
		disabled bool
		registry *namespace.Registry
		logger   *log.Logger
	}
)

// DefaultPath returns the cache file inside dir, or inside the temp directory
// ($TMPDIR, else /tmp) when dir is empty.
func DefaultPath(dir string) string {
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, FileName)
}

// New returns a Store that falls back to registry on misses.
func New(registry *namespace.Registry, opts Options) *Store {
	if opts.Path == "" {
		opts.Path = DefaultPath("")
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Store{
		path:     opts.Path,
		disabled: opts.Disabled,
		registry: registry,
		logger:   opts.Logger,
	}
}

// Path returns the database file.
func (s *Store) Path() string { return s.path }

// Keys implements namespace.Source.
func (s *Store) Keys() []string { return s.registry.Keys() }

// Metadata implements namespace.Source. The system namespace and undeclared keys
// always go to the registry. Otherwise a stored entry is returned without loading
// the namespace; on a miss the namespace is loaded, and a successful load is
// written back before it is returned. Failed loads are never stored.
func (s *Store) Metadata(ctx context.Context, key string) namespace.Metadata {
	locator, declared := s.registry.Locator(key)
	if s.disabled || key == namespace.SystemKey || !declared {
		return s.registry.Get(ctx, key)
	}

	md, err := s.read(ctx, key, locator)
	if err == nil {
		return md
	}
	if !errors.Is(err, sql.ErrNoRows) {
		s.logger.Debug("cache read failed", "key", key, "path", s.path, "error", err)
	}

	out := s.registry.Get(ctx, key)
	loaded, ok := out.(*namespace.Loaded)
	if !ok {
		return out
	}
	if err := s.write(ctx, Project(loaded, locator)); err != nil {
		s.logger.Debug("cache write failed", "key", key, "path", s.path, "error", err)
	}
	return loaded
}

// Clear discards the whole cache. Removing the file is all it takes.
func (s *Store) Clear() error {
	for _, path := range []string{s.path, s.path + "-journal", s.path + "-wal", s.path + "-shm"} {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove cache file %s: %w", path, err)
		}
	}
	return nil
}

func (s *Store) open(ctx context.Context) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(%d)", s.path, busyTimeoutMillis)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}
	return db, nil
}

func (s *Store) read(ctx context.Context, key, locator string) (namespace.Metadata, error) {
	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var blob []byte
	if err := db.QueryRowContext(ctx, `SELECT entry FROM namespaces WHERE key = ?`, key).Scan(&blob); err != nil {
		return nil, err
	}
	var e Entry
	if err := decMode.Unmarshal(blob, &e); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStaleEntry, err)
	}
	if e.Key != key || e.Locator != locator {
		return nil, fmt.Errorf("%w: entry for %s (%s) does not match %s (%s)", ErrStaleEntry, e.Key, e.Locator, key, locator)
	}
	return e.Metadata()
}

func (s *Store) write(ctx context.Context, e Entry) error {
	blob, err := encMode.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO namespaces (key, entry) VALUES (?, ?)`, e.Key, blob); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
