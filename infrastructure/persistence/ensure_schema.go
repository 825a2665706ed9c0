package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// EnsureSchema creates the credential, post and user tables if they are
// missing. Safe to call at every startup.
func EnsureSchema(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			user_name TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		accountTableDDL("mastodon_users"),
		accountTableDDL("threads_users"),
		postTableDDL("mastodon_posts", "mastodon_users"),
		postTableDDL("threads_posts", "threads_users"),
	}

	for _, ddl := range stmts {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("ensuring schema: %w", err)
		}
	}
	return nil
}

func accountTableDDL(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id BIGSERIAL PRIMARY KEY,
		platform_user_id TEXT NOT NULL UNIQUE,
		access_token TEXT NOT NULL,
		refresh_token TEXT,
		token_expires_at TIMESTAMPTZ,
		scope TEXT NOT NULL DEFAULT '',
		instance_url TEXT,
		username TEXT,
		display_name TEXT,
		avatar_url TEXT,
		bio TEXT,
		last_auth_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`, table)
}

func postTableDDL(table, accountTable string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id BIGSERIAL PRIMARY KEY,
		account_id BIGINT NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
		post_id TEXT UNIQUE,
		content TEXT NOT NULL,
		media_type TEXT NOT NULL DEFAULT '',
		visibility TEXT NOT NULL DEFAULT '',
		sensitive BOOLEAN NOT NULL DEFAULT FALSE,
		spoiler_text TEXT,
		language TEXT,
		media_refs JSONB,
		status TEXT NOT NULL DEFAULT 'pending',
		error_message TEXT,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`, table, accountTable)
}
