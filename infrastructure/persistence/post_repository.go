package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"social-hub/domain/model"
)

// PostRepository implements repository.IPost over PostgreSQL.
type PostRepository struct{ db *sql.DB }

func NewPostRepository(db *sql.DB) *PostRepository { return &PostRepository{db: db} }

const postColumns = `id, account_id, post_id, content, media_type, visibility, sensitive, spoiler_text, language, media_refs, status, error_message, created_at, updated_at`

func postTable(platform string) (string, error) {
	switch platform {
	case model.PlatformMastodon:
		return "mastodon_posts", nil
	case model.PlatformThreads:
		return "threads_posts", nil
	default:
		return "", fmt.Errorf("unknown platform %q", platform)
	}
}

func (r *PostRepository) Create(ctx context.Context, platform string, p *model.Post) (*model.Post, error) {
	table, err := postTable(platform)
	if err != nil {
		return nil, err
	}
	refs, err := json.Marshal(p.MediaRefs)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	q := fmt.Sprintf(`INSERT INTO %s (account_id, post_id, content, media_type, visibility, sensitive, spoiler_text, language, media_refs, status, error_message, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$12)
		RETURNING `+postColumns, table)
	row := r.db.QueryRowContext(ctx, q,
		p.AccountID, p.PostID, p.Content, p.MediaType, p.Visibility, p.Sensitive,
		p.SpoilerText, p.Language, refs, p.Status, p.ErrorMessage, now)
	return scanPost(row)
}

func (r *PostRepository) UpdateStatus(ctx context.Context, platform string, id int64, status string, postID *string, errMsg *string) error {
	table, err := postTable(platform)
	if err != nil {
		return err
	}
	q := fmt.Sprintf(`UPDATE %s SET status=$1, post_id=COALESCE($2, post_id), error_message=$3, updated_at=$4 WHERE id=$5`, table)
	_, err = r.db.ExecContext(ctx, q, status, postID, errMsg, time.Now().UTC(), id)
	return err
}

func (r *PostRepository) GetByPostID(ctx context.Context, platform, postID string) (*model.Post, error) {
	table, err := postTable(platform)
	if err != nil {
		return nil, err
	}
	row := r.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM %s WHERE post_id=$1`, postColumns, table), postID)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, model.ErrPostNotFound
	}
	return p, err
}

func (r *PostRepository) ListByAccount(ctx context.Context, platform string, accountID int64) ([]*model.Post, error) {
	table, err := postTable(platform)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM %s WHERE account_id=$1 ORDER BY created_at DESC`, postColumns, table), accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*model.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *PostRepository) Delete(ctx context.Context, platform string, id int64) error {
	table, err := postTable(platform)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id=$1`, table), id)
	return err
}

func scanPost(row rowScanner) (*model.Post, error) {
	p := &model.Post{}
	var (
		postID, spoiler, language, errMsg sql.NullString
		refs                              []byte
	)
	if err := row.Scan(&p.ID, &p.AccountID, &postID, &p.Content, &p.MediaType, &p.Visibility,
		&p.Sensitive, &spoiler, &language, &refs, &p.Status, &errMsg, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if postID.Valid {
		v := postID.String
		p.PostID = &v
	}
	if spoiler.Valid {
		v := spoiler.String
		p.SpoilerText = &v
	}
	if language.Valid {
		v := language.String
		p.Language = &v
	}
	if errMsg.Valid {
		v := errMsg.String
		p.ErrorMessage = &v
	}
	if len(refs) > 0 {
		if err := json.Unmarshal(refs, &p.MediaRefs); err != nil {
			return nil, err
		}
	}
	return p, nil
}
