package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"social-hub/domain/dto"
	"social-hub/domain/model"
)

// Mock implementations shared by the usecase tests.

type MockAccountRepo struct {
	mock.Mock
}

func (m *MockAccountRepo) Upsert(ctx context.Context, platform string, account *model.Account) (*model.Account, error) {
	args := m.Called(ctx, platform, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockAccountRepo) GetByPlatformUserID(ctx context.Context, platform, platformUserID string) (*model.Account, error) {
	args := m.Called(ctx, platform, platformUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockAccountRepo) UpdateToken(ctx context.Context, platform string, id int64, accessToken string, refreshToken *string, expiresAt *time.Time) error {
	args := m.Called(ctx, platform, id, accessToken, refreshToken, expiresAt)
	return args.Error(0)
}

type MockPostRepo struct {
	mock.Mock
}

func (m *MockPostRepo) Create(ctx context.Context, platform string, post *model.Post) (*model.Post, error) {
	args := m.Called(ctx, platform, post)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostRepo) UpdateStatus(ctx context.Context, platform string, id int64, status string, postID *string, errMsg *string) error {
	args := m.Called(ctx, platform, id, status, postID, errMsg)
	return args.Error(0)
}

func (m *MockPostRepo) GetByPostID(ctx context.Context, platform, postID string) (*model.Post, error) {
	args := m.Called(ctx, platform, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostRepo) ListByAccount(ctx context.Context, platform string, accountID int64) ([]*model.Post, error) {
	args := m.Called(ctx, platform, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Post), args.Error(1)
}

func (m *MockPostRepo) Delete(ctx context.Context, platform string, id int64) error {
	args := m.Called(ctx, platform, id)
	return args.Error(0)
}

type MockMastodon struct {
	mock.Mock
}

func (m *MockMastodon) AuthorizationURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockMastodon) RegisterApp(ctx context.Context, domain, clientName, redirectURIs, website string) (*dto.AppCredentials, error) {
	args := m.Called(ctx, domain, clientName, redirectURIs, website)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AppCredentials), args.Error(1)
}

func (m *MockMastodon) ExchangeCode(ctx context.Context, instanceURL, code string) (*model.TokenData, error) {
	args := m.Called(ctx, instanceURL, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TokenData), args.Error(1)
}

func (m *MockMastodon) RefreshToken(ctx context.Context, instanceURL, refreshToken string) (*model.TokenData, error) {
	args := m.Called(ctx, instanceURL, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TokenData), args.Error(1)
}

func (m *MockMastodon) VerifyCredentials(ctx context.Context, instanceURL, accessToken string) (*model.Profile, error) {
	args := m.Called(ctx, instanceURL, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockMastodon) UploadMedia(ctx context.Context, instanceURL, accessToken string, asset *model.MediaAsset, description, focus string) (*model.UploadedMedia, error) {
	args := m.Called(ctx, instanceURL, accessToken, asset, description, focus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UploadedMedia), args.Error(1)
}

func (m *MockMastodon) GetMedia(ctx context.Context, instanceURL, accessToken, mediaID string) (*model.UploadedMedia, error) {
	args := m.Called(ctx, instanceURL, accessToken, mediaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UploadedMedia), args.Error(1)
}

func (m *MockMastodon) CreateStatus(ctx context.Context, instanceURL, accessToken string, req *dto.StatusRequest) (*dto.PlatformPost, error) {
	args := m.Called(ctx, instanceURL, accessToken, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PlatformPost), args.Error(1)
}

func (m *MockMastodon) DeleteStatus(ctx context.Context, instanceURL, accessToken, statusID string) error {
	args := m.Called(ctx, instanceURL, accessToken, statusID)
	return args.Error(0)
}

type MockThreads struct {
	mock.Mock
}

func (m *MockThreads) AuthorizationURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockThreads) ExchangeCode(ctx context.Context, code string) (*model.TokenData, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TokenData), args.Error(1)
}

func (m *MockThreads) GetProfile(ctx context.Context, accessToken, userID string) (*model.Profile, error) {
	args := m.Called(ctx, accessToken, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockThreads) CreateContainer(ctx context.Context, accessToken, userID string, container *dto.ThreadsContainer) (string, error) {
	args := m.Called(ctx, accessToken, userID, container)
	return args.String(0), args.Error(1)
}

func (m *MockThreads) PublishContainer(ctx context.Context, accessToken, userID, creationID string) (string, error) {
	args := m.Called(ctx, accessToken, userID, creationID)
	return args.String(0), args.Error(1)
}

func (m *MockThreads) DeletePost(ctx context.Context, accessToken, postID string) error {
	args := m.Called(ctx, accessToken, postID)
	return args.Error(0)
}

type MockStateStore struct {
	mock.Mock
}

func (m *MockStateStore) Put(ctx context.Context, platform, state string) error {
	args := m.Called(ctx, platform, state)
	return args.Error(0)
}

func (m *MockStateStore) Consume(ctx context.Context, platform, state string) (bool, error) {
	args := m.Called(ctx, platform, state)
	return args.Bool(0), args.Error(1)
}

type MockTokenUsecase struct {
	mock.Mock
}

func (m *MockTokenUsecase) GetValidToken(ctx context.Context, platform string, account *model.Account) (string, error) {
	args := m.Called(ctx, platform, account)
	return args.String(0), args.Error(1)
}

type MockMediaUsecase struct {
	mock.Mock
}

func (m *MockMediaUsecase) Fetch(ctx context.Context, sourceURL string) (*model.MediaAsset, error) {
	args := m.Called(ctx, sourceURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MediaAsset), args.Error(1)
}

func (m *MockMediaUsecase) UploadToMastodon(ctx context.Context, instanceURL, accessToken string, asset *model.MediaAsset, description, focus string) (*model.UploadedMedia, error) {
	args := m.Called(ctx, instanceURL, accessToken, asset, description, focus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UploadedMedia), args.Error(1)
}

func (m *MockMediaUsecase) ProcessForMastodon(ctx context.Context, instanceURL, accessToken, sourceURL, description, focus string) (*model.UploadedMedia, error) {
	args := m.Called(ctx, instanceURL, accessToken, sourceURL, description, focus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UploadedMedia), args.Error(1)
}

func (m *MockMediaUsecase) Classify(ctx context.Context, sourceURL string) (string, error) {
	args := m.Called(ctx, sourceURL)
	return args.String(0), args.Error(1)
}

func (m *MockMediaUsecase) Cleanup(asset *model.MediaAsset) {
	m.Called(asset)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByUserName(ctx context.Context, userName string) (model.User, error) {
	args := m.Called(ctx, userName)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepo) CreateUser(ctx context.Context, user model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
