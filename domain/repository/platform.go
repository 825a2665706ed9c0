package repository

import (
	"context"

	"social-hub/domain/dto"
	"social-hub/domain/model"
)

// IMastodon is the outbound Mastodon API surface. Every call takes the
// instance URL because accounts can live on different instances.
type IMastodon interface {
	AuthorizationURL(state string) string
	RegisterApp(ctx context.Context, domain, clientName, redirectURIs, website string) (*dto.AppCredentials, error)
	ExchangeCode(ctx context.Context, instanceURL, code string) (*model.TokenData, error)
	RefreshToken(ctx context.Context, instanceURL, refreshToken string) (*model.TokenData, error)
	VerifyCredentials(ctx context.Context, instanceURL, accessToken string) (*model.Profile, error)
	UploadMedia(ctx context.Context, instanceURL, accessToken string, asset *model.MediaAsset, description, focus string) (*model.UploadedMedia, error)
	GetMedia(ctx context.Context, instanceURL, accessToken, mediaID string) (*model.UploadedMedia, error)
	CreateStatus(ctx context.Context, instanceURL, accessToken string, req *dto.StatusRequest) (*dto.PlatformPost, error)
	DeleteStatus(ctx context.Context, instanceURL, accessToken, statusID string) error
}

// IThreads is the outbound Threads Graph API surface.
type IThreads interface {
	AuthorizationURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*model.TokenData, error)
	GetProfile(ctx context.Context, accessToken, userID string) (*model.Profile, error)
	CreateContainer(ctx context.Context, accessToken, userID string, container *dto.ThreadsContainer) (string, error)
	PublishContainer(ctx context.Context, accessToken, userID, creationID string) (string, error)
	DeletePost(ctx context.Context, accessToken, postID string) error
}

// IStateStore holds short-lived OAuth state tokens between the authorize
// redirect and the callback. Consume removes the state so it can only be
// used once.
type IStateStore interface {
	Put(ctx context.Context, platform, state string) error
	Consume(ctx context.Context, platform, state string) (bool, error)
}
