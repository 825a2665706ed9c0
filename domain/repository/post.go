package repository

import (
	"context"

	"social-hub/domain/model"
)

// IPost persists publish attempts per platform.
type IPost interface {
	Create(ctx context.Context, platform string, post *model.Post) (*model.Post, error)
	// UpdateStatus finalizes a pending post. postID and errMsg may be nil.
	UpdateStatus(ctx context.Context, platform string, id int64, status string, postID *string, errMsg *string) error
	GetByPostID(ctx context.Context, platform, postID string) (*model.Post, error)
	ListByAccount(ctx context.Context, platform string, accountID int64) ([]*model.Post, error)
	Delete(ctx context.Context, platform string, id int64) error
}
