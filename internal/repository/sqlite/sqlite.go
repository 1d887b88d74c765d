// Package sqlite implements the repository interfaces using SQLite as the storage backend.
//
// WHY modernc.org/sqlite?
// It is a pure Go translation of SQLite, so no C compiler is needed and the
// binary cross-compiles like any other Go program.
//
// SCHEMA:
// Tables are created and evolved by goose migrations embedded from
// migrations/*.sql. goose records applied versions in goose_db_version, so
// New is safe to call against an existing database file.
//
// TIMESTAMPS:
// All times are written in UTC. The driver stores DATETIME columns as text in
// a fixed layout, so ORDER BY on them sorts chronologically.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

//go:embed migrations/*.sql
var migrations embed.FS

// DB wraps a sql.DB connection pool and provides repository methods.
//
// Each repository is a thin view over the same pool:
//
//	db.Users()    → *UserDB    (repository.UserRepository)
//	db.Notes()    → *NoteDB    (repository.NoteRepository)
//	db.Sessions() → *SessionDB (repository.SessionRepository)
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
//
// dbPath examples:
//   - "data/notes.db" → file-based database (persistent)
//   - ":memory:"      → in-memory database (tests)
//
// WRITE TRANSACTIONS:
// _txlock=immediate makes BeginTx issue BEGIN IMMEDIATE, so a transaction
// takes the write lock up front and waits on busy_timeout. A deferred
// transaction that reads first and writes later cannot wait: SQLite fails
// the upgrade at once with SQLITE_BUSY if another connection wrote in
// between.
//
// IN-MEMORY POOLS:
// Every new connection to ":memory:" gets its own empty database, so the pool
// is pinned to a single connection in that case. File databases use WAL so
// readers do not block the writer.
func New(dbPath string) (*DB, error) {
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite&_txlock=immediate"

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	inMemory := dbPath == ":memory:"
	if inMemory {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	if !inMemory {
		if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
		}
	}

	if err := migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// PingContext verifies the database is reachable.
func (db *DB) PingContext(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Users returns the user directory backed by this database.
func (db *DB) Users() *UserDB { return &UserDB{conn: db.conn} }

// Notes returns the notes repository backed by this database.
func (db *DB) Notes() *NoteDB { return &NoteDB{conn: db.conn} }

// Sessions returns the session store backed by this database.
func (db *DB) Sessions() *SessionDB { return &SessionDB{conn: db.conn} }

func migrate(conn *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.Up(conn, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE (or PRIMARY KEY)
// constraint failure.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	code := se.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}
