// Package snapshot persists a hierarchy store between runs.
//
// A snapshot lives in the .jhier directory either as a SQLite file
// (index.db, via modernc.org/sqlite) or as a Dolt repository (index/, via
// the embedded Dolt driver). With Dolt every Save also creates a Dolt
// commit, so previous scans stay queryable through Dolt's history tables.
package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "github.com/dolthub/driver"
	_ "modernc.org/sqlite"

	"github.com/hargabyte/jhier/internal/hierarchy"
)

// Backend selects the database engine behind a snapshot.
type Backend string

const (
	// SQLite stores the snapshot in a single index.db file.
	SQLite Backend = "sqlite"
	// Dolt stores the snapshot in a versioned index/ repository.
	Dolt Backend = "dolt"
)

// ParseBackend parses "sqlite" or "dolt".
func ParseBackend(s string) (Backend, error) {
	switch Backend(s) {
	case SQLite, Dolt:
		return Backend(s), nil
	default:
		return "", fmt.Errorf("invalid storage backend: %q (expected sqlite or dolt)", s)
	}
}

// ErrNoSnapshot is returned when a snapshot database has never been saved.
var ErrNoSnapshot = errors.New("no snapshot saved; run jhier scan first")

// Snapshot is an open snapshot database.
type Snapshot struct {
	db      *sql.DB
	dbPath  string
	backend Backend
}

// Meta describes the scan that produced a snapshot.
type Meta struct {
	Root      string    `json:"root" yaml:"root"`
	ScannedAt time.Time `json:"scanned_at" yaml:"scanned_at"`
	Classes   int       `json:"classes" yaml:"classes"`
	Edges     int       `json:"edges" yaml:"edges"`
	Methods   int       `json:"methods" yaml:"methods"`
}

// Open opens or creates the snapshot database in dir using backend.
// The directory is created if needed and the schema initialized.
func Open(dir string, backend Backend) (*Snapshot, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}

	var (
		snap *Snapshot
		err  error
	)
	switch backend {
	case SQLite:
		snap, err = openSQLite(dir)
	case Dolt:
		snap, err = openDolt(dir)
	default:
		return nil, fmt.Errorf("invalid storage backend: %q", backend)
	}
	if err != nil {
		return nil, err
	}

	if err := snap.initSchema(); err != nil {
		snap.db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return snap, nil
}

func openSQLite(dir string) (*Snapshot, error) {
	dbPath := filepath.Join(dir, "index.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open snapshot db: %w", err)
	}

	// Enable WAL mode for better concurrent access
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	return &Snapshot{db: db, dbPath: dbPath, backend: SQLite}, nil
}

func openDolt(dir string) (*Snapshot, error) {
	dbPath := filepath.Join(dir, "index")
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, fmt.Errorf("create dolt directory: %w", err)
	}

	// Connect without a database first so it can be created.
	initDSN := fmt.Sprintf("file://%s?commitname=jhier&commitemail=jhier@local", dbPath)
	initDB, err := sql.Open("dolt", initDSN)
	if err != nil {
		return nil, fmt.Errorf("open dolt for init: %w", err)
	}
	if _, err := initDB.Exec("CREATE DATABASE IF NOT EXISTS jhier"); err != nil {
		initDB.Close()
		return nil, fmt.Errorf("create database: %w", err)
	}
	initDB.Close()

	dsn := fmt.Sprintf("file://%s?commitname=jhier&commitemail=jhier@local&database=jhier", dbPath)
	db, err := sql.Open("dolt", dsn)
	if err != nil {
		return nil, fmt.Errorf("open dolt db: %w", err)
	}

	return &Snapshot{db: db, dbPath: dbPath, backend: Dolt}, nil
}

// Close closes the database connection.
func (s *Snapshot) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file (sqlite) or repository (dolt) path.
func (s *Snapshot) Path() string {
	return s.dbPath
}

// Backend returns the engine behind the snapshot.
func (s *Snapshot) Backend() Backend {
	return s.backend
}

// Save replaces the snapshot contents with the classes, edges and declared
// methods of store, recording root as the scanned directory.
func (s *Snapshot) Save(ctx context.Context, store *hierarchy.Store, root string) (Meta, error) {
	stats := store.Stats()
	meta := Meta{
		Root:      root,
		ScannedAt: time.Now().UTC().Truncate(time.Second),
		Classes:   stats.Classes,
		Edges:     stats.Edges,
		Methods:   stats.Methods,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Meta{}, fmt.Errorf("begin transaction: %w", err)
	}
	if err := saveTx(ctx, tx, store, meta); err != nil {
		tx.Rollback()
		return Meta{}, err
	}
	if err := tx.Commit(); err != nil {
		return Meta{}, fmt.Errorf("commit snapshot: %w", err)
	}

	if s.backend == Dolt {
		msg := fmt.Sprintf("jhier scan: %d classes, %d edges, %d methods", meta.Classes, meta.Edges, meta.Methods)
		if _, err := s.db.ExecContext(ctx, "CALL DOLT_COMMIT('-A', '--allow-empty', '-m', ?)", msg); err != nil {
			return Meta{}, fmt.Errorf("dolt commit: %w", err)
		}
	}
	return meta, nil
}

func saveTx(ctx context.Context, tx *sql.Tx, store *hierarchy.Store, meta Meta) error {
	for _, table := range []string{"methods", "classes", "scan_meta"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	classStmt, err := tx.PrepareContext(ctx, "INSERT INTO classes (name, superclass) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("prepare class insert: %w", err)
	}
	defer classStmt.Close()

	methodStmt, err := tx.PrepareContext(ctx, "INSERT INTO methods (class_name, method_name, descriptor) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare method insert: %w", err)
	}
	defer methodStmt.Close()

	for _, cls := range store.Classes() {
		var superclass sql.NullString
		if sup, ok := store.SuperclassOf(cls); ok {
			superclass = sql.NullString{String: sup, Valid: true}
		}
		if _, err := classStmt.ExecContext(ctx, cls, superclass); err != nil {
			return fmt.Errorf("insert class %s: %w", cls, err)
		}

		for _, key := range store.MethodKeys(cls) {
			name, desc := hierarchy.SplitMethodKey(key)
			if _, err := methodStmt.ExecContext(ctx, cls, name, desc); err != nil {
				return fmt.Errorf("insert method %s.%s: %w", cls, key, err)
			}
		}
	}

	entries := map[string]string{
		"root":       meta.Root,
		"scanned_at": meta.ScannedAt.Format(time.RFC3339),
		"classes":    strconv.Itoa(meta.Classes),
		"edges":      strconv.Itoa(meta.Edges),
		"methods":    strconv.Itoa(meta.Methods),
	}
	for key, value := range entries {
		if _, err := tx.ExecContext(ctx, "INSERT INTO scan_meta (meta_key, meta_value) VALUES (?, ?)", key, value); err != nil {
			return fmt.Errorf("insert scan meta %s: %w", key, err)
		}
	}
	return nil
}

// Load records every saved edge and method into store, which must not be
// frozen. Edges are re-filtered by the store's platform predicate.
func (s *Snapshot) Load(ctx context.Context, store *hierarchy.Store) (Meta, error) {
	meta, err := s.Meta(ctx)
	if err != nil {
		return Meta{}, err
	}

	rows, err := s.db.QueryContext(ctx, "SELECT name, superclass FROM classes WHERE superclass IS NOT NULL ORDER BY name")
	if err != nil {
		return Meta{}, fmt.Errorf("query classes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name, superclass string
		if err := rows.Scan(&name, &superclass); err != nil {
			return Meta{}, fmt.Errorf("scan class: %w", err)
		}
		if err := store.RecordSuperclass(name, superclass); err != nil {
			return Meta{}, fmt.Errorf("load class %s: %w", name, err)
		}
	}
	if err := rows.Err(); err != nil {
		return Meta{}, fmt.Errorf("iterate classes: %w", err)
	}

	methodRows, err := s.db.QueryContext(ctx, "SELECT class_name, method_name, descriptor FROM methods ORDER BY class_name, method_name, descriptor")
	if err != nil {
		return Meta{}, fmt.Errorf("query methods: %w", err)
	}
	defer methodRows.Close()

	for methodRows.Next() {
		var cls, name, desc string
		if err := methodRows.Scan(&cls, &name, &desc); err != nil {
			return Meta{}, fmt.Errorf("scan method: %w", err)
		}
		if err := store.RecordMethod(cls, name, desc); err != nil {
			return Meta{}, fmt.Errorf("load method %s.%s%s: %w", cls, name, desc, err)
		}
	}
	if err := methodRows.Err(); err != nil {
		return Meta{}, fmt.Errorf("iterate methods: %w", err)
	}

	return meta, nil
}

// Meta returns the metadata of the last Save, or ErrNoSnapshot.
func (s *Snapshot) Meta(ctx context.Context) (Meta, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT meta_key, meta_value FROM scan_meta")
	if err != nil {
		return Meta{}, fmt.Errorf("query scan meta: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return Meta{}, fmt.Errorf("scan meta: %w", err)
		}
		values[key] = value
	}
	if err := rows.Err(); err != nil {
		return Meta{}, fmt.Errorf("iterate scan meta: %w", err)
	}

	scannedAt, ok := values["scanned_at"]
	if !ok {
		return Meta{}, ErrNoSnapshot
	}

	meta := Meta{Root: values["root"]}
	meta.ScannedAt, _ = time.Parse(time.RFC3339, scannedAt)
	meta.Classes, _ = strconv.Atoi(values["classes"])
	meta.Edges, _ = strconv.Atoi(values["edges"])
	meta.Methods, _ = strconv.Atoi(values["methods"])
	return meta, nil
}
