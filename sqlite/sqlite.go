// Package sqlite implements the findmystore storage services on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB is the shared connection behind every sqlite service. Stores, stock,
// alerts, documents, chunks and chat history all live in one file.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB returns a DB for path. ":memory:" gives a private in-memory
// database, which the tests use.
func NewDB(path string) *DB {
	return &DB{path: path}
}

func (db *DB) inMemory() bool {
	return db.path == ":memory:"
}

// Open connects, applies pragmas and creates any missing tables.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	// One connection: SQLite serializes writers and each :memory:
	// connection would otherwise see its own empty database.
	conn.SetMaxOpenConns(1)

	pragmas := []string{"PRAGMA busy_timeout = 5000", "PRAGMA foreign_keys = ON"}
	if !db.inMemory() {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	for _, p := range pragmas {
		if _, err := conn.Exec(p); err != nil {
			conn.Close()
			return fmt.Errorf("%s: %w", p, err)
		}
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return fmt.Errorf("create schema: %w", err)
	}
	db.db = conn
	return nil
}

// Close closes the connection. It is safe to call on an unopened DB.
func (db *DB) Close() error {
	if db.db == nil {
		return nil
	}
	return db.db.Close()
}

func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// BeginTx starts a transaction for multi-row writes.
func (db *DB) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, nil)
}

const schema = `
		CREATE TABLE IF NOT EXISTS stores (
			id INTEGER PRIMARY KEY,
			place_id TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL,
			city TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			hours TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			lat REAL NOT NULL DEFAULT 0,
			lng REAL NOT NULL DEFAULT 0,
			rating REAL NOT NULL DEFAULT 0,
			ratings_total INTEGER NOT NULL DEFAULT 0,
			verified INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_stores_place_id ON stores(place_id) WHERE place_id != '';
		CREATE INDEX IF NOT EXISTS idx_stores_city ON stores(city COLLATE NOCASE);

		CREATE TABLE IF NOT EXISTS inventory (
			store_id INTEGER NOT NULL REFERENCES stores(id) ON DELETE CASCADE,
			product TEXT NOT NULL COLLATE NOCASE,
			qty INTEGER NOT NULL DEFAULT 0,
			price REAL NOT NULL DEFAULT 0,
			estimated INTEGER NOT NULL DEFAULT 0,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (store_id, product)
		);

		CREATE INDEX IF NOT EXISTS idx_inventory_product ON inventory(product);

		CREATE TABLE IF NOT EXISTS subscriptions (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL,
			product TEXT NOT NULL COLLATE NOCASE,
			city TEXT NOT NULL DEFAULT '',
			max_price REAL,
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_subscriptions_product ON subscriptions(product);

		CREATE TABLE IF NOT EXISTS alerts (
			id TEXT PRIMARY KEY,
			subscription_id TEXT NOT NULL REFERENCES subscriptions(id) ON DELETE CASCADE,
			store_id INTEGER NOT NULL,
			product TEXT NOT NULL,
			qty INTEGER NOT NULL DEFAULT 0,
			price REAL NOT NULL DEFAULT 0,
			kind TEXT NOT NULL,
			status TEXT NOT NULL,
			message_id TEXT NOT NULL DEFAULT '',
			error TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_alerts_subscription_id ON alerts(subscription_id);

		CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			format TEXT NOT NULL,
			source TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL DEFAULT '',
			content_hash TEXT NOT NULL UNIQUE,
			size INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS chunks (
			id TEXT PRIMARY KEY,
			document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			position INTEGER NOT NULL DEFAULT 0,
			content TEXT NOT NULL,
			embedding BLOB,
			metadata TEXT NOT NULL DEFAULT '{}'
		);

		CREATE INDEX IF NOT EXISTS idx_chunks_document_id ON chunks(document_id);

		CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_messages_session_id ON messages(session_id);
`
