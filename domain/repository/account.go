package repository

import (
	"context"
	"time"

	"social-hub/domain/model"
)

// IAccount persists per-platform credential records. The platform argument
// selects the underlying table (mastodon_users / threads_users).
type IAccount interface {
	// Upsert inserts or updates the record keyed by platform_user_id and
	// returns the stored row.
	Upsert(ctx context.Context, platform string, account *model.Account) (*model.Account, error)
	GetByPlatformUserID(ctx context.Context, platform, platformUserID string) (*model.Account, error)
	// UpdateToken overwrites the credential fields after a refresh.
	UpdateToken(ctx context.Context, platform string, id int64, accessToken string, refreshToken *string, expiresAt *time.Time) error
}
