// Package sqlite is the storage provider: a statement-at-a-time interface
// over an embedded SQLite database, shaped after the engine's own C API
// (prepare, bind, step, column, reset, finalize).
package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"sync"

	"github.com/mattn/go-sqlite3"
)

// Result codes, matching the engine's own.
const (
	OK   = 0
	Row  = 100
	Done = 101
)

var (
	// ErrClosed is returned by operations on a closed database or a
	// finalized statement.
	ErrClosed = errors.New("sqlite: closed")

	// ErrRange is returned for out-of-range bind or column indexes.
	ErrRange = errors.New("sqlite: index out of range")

	// ErrBusy is returned when binding a statement that is mid-step.
	ErrBusy = errors.New("sqlite: statement in progress; reset it first")
)

// LibVersion returns the version string of the linked engine.
func LibVersion() string {
	v, _, _ := sqlite3.Version()
	return v
}

// DB is an open database. It holds a single connection so that in-memory
// databases keep their contents for the lifetime of the handle.
type DB struct {
	path string
	db   *sql.DB
	conn *sql.Conn

	mu     sync.Mutex
	stmts  map[*Stmt]struct{}
	closed bool
}

// Open opens (creating if needed) the database at path. ":memory:" opens a
// private in-memory database.
func Open(ctx context.Context, path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	conn, err := db.Conn(ctx)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		_ = db.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &DB{path: path, db: db, conn: conn, stmts: make(map[*Stmt]struct{})}, nil
}

// Path returns the path the database was opened with.
func (d *DB) Path() string {
	return d.path
}

// Exec runs one or more semicolon-separated statements, discarding results.
func (d *DB) Exec(ctx context.Context, query string) error {
	if err := d.check(); err != nil {
		return err
	}
	_, err := d.conn.ExecContext(ctx, query)
	return err
}

// Prepare compiles a single statement.
func (d *DB) Prepare(ctx context.Context, query string) (*Stmt, error) {
	if err := d.check(); err != nil {
		return nil, err
	}

	// database/sql insists on exactly as many arguments as the statement has
	// parameters, so learn that count from the driver up front.
	nparams := 0
	err := d.conn.Raw(func(dc any) error {
		ds, err := dc.(driver.Conn).Prepare(query)
		if err != nil {
			return err
		}
		nparams = ds.NumInput()
		return ds.Close()
	})
	if err != nil {
		return nil, err
	}

	st, err := d.conn.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	s := &Stmt{db: d, query: query, st: st, args: make([]any, nparams)}

	d.mu.Lock()
	d.stmts[s] = struct{}{}
	d.mu.Unlock()
	return s, nil
}

// Close finalizes every open statement and closes the database.
func (d *DB) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	d.closed = true
	stmts := make([]*Stmt, 0, len(d.stmts))
	for s := range d.stmts {
		stmts = append(stmts, s)
	}
	d.stmts = nil
	d.mu.Unlock()

	var errs []error
	for _, s := range stmts {
		errs = append(errs, s.finalize())
	}
	errs = append(errs, d.conn.Close(), d.db.Close())
	return errors.Join(errs...)
}

func (d *DB) check() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	return nil
}

func (d *DB) forget(s *Stmt) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.stmts, s)
}
