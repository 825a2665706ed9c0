package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"social-hub/domain/model"
)

// AccountRepository implements repository.IAccount over PostgreSQL. Each
// platform keeps its own credential table with an identical column set.
type AccountRepository struct{ db *sql.DB }

func NewAccountRepository(db *sql.DB) *AccountRepository { return &AccountRepository{db: db} }

const accountColumns = `id, platform_user_id, access_token, refresh_token, token_expires_at, scope, instance_url, username, display_name, avatar_url, bio, last_auth_at, created_at, updated_at`

func accountTable(platform string) (string, error) {
	switch platform {
	case model.PlatformMastodon:
		return "mastodon_users", nil
	case model.PlatformThreads:
		return "threads_users", nil
	default:
		return "", fmt.Errorf("unknown platform %q", platform)
	}
}

func (r *AccountRepository) Upsert(ctx context.Context, platform string, a *model.Account) (*model.Account, error) {
	table, err := accountTable(platform)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	q := fmt.Sprintf(`INSERT INTO %s (platform_user_id, access_token, refresh_token, token_expires_at, scope, instance_url, username, display_name, avatar_url, bio, last_auth_at, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$12)
		ON CONFLICT (platform_user_id) DO UPDATE SET
			access_token=EXCLUDED.access_token,
			refresh_token=COALESCE(EXCLUDED.refresh_token, %s.refresh_token),
			token_expires_at=EXCLUDED.token_expires_at,
			scope=EXCLUDED.scope,
			instance_url=COALESCE(EXCLUDED.instance_url, %s.instance_url),
			username=COALESCE(EXCLUDED.username, %s.username),
			display_name=COALESCE(EXCLUDED.display_name, %s.display_name),
			avatar_url=COALESCE(EXCLUDED.avatar_url, %s.avatar_url),
			bio=COALESCE(EXCLUDED.bio, %s.bio),
			last_auth_at=EXCLUDED.last_auth_at,
			updated_at=EXCLUDED.updated_at
		RETURNING `+accountColumns, table, table, table, table, table, table, table)
	row := r.db.QueryRowContext(ctx, q,
		a.PlatformUserID, a.AccessToken, a.RefreshToken, a.TokenExpiresAt, a.Scope,
		a.InstanceURL, a.Username, a.DisplayName, a.AvatarURL, a.Bio, now, now)
	return scanAccount(row)
}

func (r *AccountRepository) GetByPlatformUserID(ctx context.Context, platform, platformUserID string) (*model.Account, error) {
	table, err := accountTable(platform)
	if err != nil {
		return nil, err
	}
	row := r.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM %s WHERE platform_user_id=$1`, accountColumns, table),
		platformUserID)
	acct, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, model.ErrAccountNotFound
	}
	return acct, err
}

func (r *AccountRepository) UpdateToken(ctx context.Context, platform string, id int64, accessToken string, refreshToken *string, expiresAt *time.Time) error {
	table, err := accountTable(platform)
	if err != nil {
		return err
	}
	q := fmt.Sprintf(`UPDATE %s SET access_token=$1, refresh_token=COALESCE($2, refresh_token), token_expires_at=$3, updated_at=$4 WHERE id=$5`, table)
	_, err = r.db.ExecContext(ctx, q, accessToken, refreshToken, expiresAt, time.Now().UTC(), id)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(row rowScanner) (*model.Account, error) {
	a := &model.Account{}
	var (
		refresh, instance, username, display, avatar, bio sql.NullString
		expires, lastAuth                                 sql.NullTime
	)
	if err := row.Scan(&a.ID, &a.PlatformUserID, &a.AccessToken, &refresh, &expires, &a.Scope,
		&instance, &username, &display, &avatar, &bio, &lastAuth, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	if refresh.Valid {
		v := refresh.String
		a.RefreshToken = &v
	}
	if expires.Valid {
		a.TokenExpiresAt = &expires.Time
	}
	if instance.Valid {
		v := instance.String
		a.InstanceURL = &v
	}
	if username.Valid {
		v := username.String
		a.Username = &v
	}
	if display.Valid {
		v := display.String
		a.DisplayName = &v
	}
	if avatar.Valid {
		v := avatar.String
		a.AvatarURL = &v
	}
	if bio.Valid {
		v := bio.String
		a.Bio = &v
	}
	if lastAuth.Valid {
		a.LastAuthAt = &lastAuth.Time
	}
	return a, nil
}
