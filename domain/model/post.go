package model

import "time"

// Post statuses. A post only ever moves pending -> published or
// pending -> failed.
const (
	PostStatusPending   = "pending"
	PostStatusPublished = "published"
	PostStatusFailed    = "failed"
)

// Threads media types.
const (
	MediaTypeText     = "TEXT"
	MediaTypeImage    = "IMAGE"
	MediaTypeVideo    = "VIDEO"
	MediaTypeCarousel = "CAROUSEL"
)

// Post is a locally recorded publish attempt. PostID is the platform's id
// and is only set once the remote publish succeeded.
type Post struct {
	ID           int64     `json:"id"`
	AccountID    int64     `json:"account_id"`
	PostID       *string   `json:"post_id,omitempty"`
	Content      string    `json:"content"`
	MediaType    string    `json:"media_type,omitempty"`
	Visibility   string    `json:"visibility,omitempty"`
	Sensitive    bool      `json:"sensitive"`
	SpoilerText  *string   `json:"spoiler_text,omitempty"`
	Language     *string   `json:"language,omitempty"`
	MediaRefs    []string  `json:"media_refs,omitempty"`
	Status       string    `json:"status"`
	ErrorMessage *string   `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
