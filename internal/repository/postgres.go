package repository

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

// NewPostgresDB creates and initializes a PostgreSQL database connection
func NewPostgresDB(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if err := createTablesPostgres(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func createTablesPostgres(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT UNIQUE NOT NULL,
		display_name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		api_key_hash TEXT UNIQUE NOT NULL,
		tier TEXT NOT NULL DEFAULT 'free',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
	CREATE INDEX IF NOT EXISTS idx_users_api_key_hash ON users(api_key_hash);

	CREATE TABLE IF NOT EXISTS collections (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL,
		subcategory TEXT,
		visibility TEXT NOT NULL DEFAULT 'private',
		share_token TEXT UNIQUE,
		item_count INTEGER NOT NULL DEFAULT 0,
		total_items_added INTEGER NOT NULL DEFAULT 0,
		followers_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_collections_owner_id ON collections(owner_id);
	CREATE INDEX IF NOT EXISTS idx_collections_share_token ON collections(share_token);
	CREATE INDEX IF NOT EXISTS idx_collections_category ON collections(category);

	CREATE TABLE IF NOT EXISTS collection_items (
		id TEXT PRIMARY KEY,
		collection_id TEXT NOT NULL REFERENCES collections(id) ON DELETE CASCADE,
		owner_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		kind TEXT NOT NULL,
		source_url TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		thumbnail_url TEXT NOT NULL DEFAULT '',
		note TEXT NOT NULL DEFAULT '',
		cut_spec TEXT NOT NULL,
		excerpt TEXT NOT NULL DEFAULT '',
		rendered_ref TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_collection_items_collection_id ON collection_items(collection_id);

	CREATE TABLE IF NOT EXISTS collection_followers (
		collection_id TEXT NOT NULL REFERENCES collections(id) ON DELETE CASCADE,
		follower_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		followed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (collection_id, follower_id)
	);

	CREATE INDEX IF NOT EXISTS idx_collection_followers_follower_id ON collection_followers(follower_id);
	`

	_, err := db.Exec(schema)
	return err
}
