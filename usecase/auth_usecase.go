package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"social-hub/domain/dto"
	"social-hub/domain/model"
	"social-hub/domain/repository"
	"social-hub/infrastructure/logger"
)

type IAuthUsecase interface {
	// AuthorizationURL mints a fresh state, records it and returns the
	// platform's authorize URL for the user's browser.
	AuthorizationURL(ctx context.Context, platform string) (string, error)
	// HandleCallback completes the code grant: it validates the state,
	// exchanges the code, fetches the profile and stores the account.
	HandleCallback(ctx context.Context, platform, code, state, errParam string) (*model.Account, error)
	// RegisterApp registers this service as an OAuth app on a Mastodon
	// instance and returns the issued client credentials.
	RegisterApp(ctx context.Context, req *dto.RegisterAppRequest) (*dto.AppCredentials, error)
}

type authUsecase struct {
	accountRepo     repository.IAccount
	mastodonClient  repository.IMastodon
	threadsClient   repository.IThreads
	states          repository.IStateStore
	defaultInstance string
}

func NewAuthUsecase(accountRepo repository.IAccount, mastodonClient repository.IMastodon, threadsClient repository.IThreads, states repository.IStateStore, defaultInstance string) IAuthUsecase {
	return &authUsecase{
		accountRepo:     accountRepo,
		mastodonClient:  mastodonClient,
		threadsClient:   threadsClient,
		states:          states,
		defaultInstance: defaultInstance,
	}
}

func (u *authUsecase) AuthorizationURL(ctx context.Context, platform string) (string, error) {
	state, err := randomState()
	if err != nil {
		return "", err
	}
	if err := u.states.Put(ctx, platform, state); err != nil {
		return "", err
	}
	switch platform {
	case model.PlatformMastodon:
		return u.mastodonClient.AuthorizationURL(state), nil
	case model.PlatformThreads:
		return u.threadsClient.AuthorizationURL(state), nil
	}
	return "", fmt.Errorf("unsupported platform: %s", platform)
}

func (u *authUsecase) HandleCallback(ctx context.Context, platform, code, state, errParam string) (*model.Account, error) {
	lg := logger.GetLogger().WithField("platform", platform)
	if errParam != "" {
		lg.WithField("oauth_error", errParam).Warn("Authorization denied at platform")
		return nil, model.ErrAuthorizationDenied
	}
	if code == "" {
		return nil, model.ErrMissingCode
	}
	// State is single use. An unknown, expired or replayed state aborts the
	// flow before any token request goes out.
	ok, err := u.states.Consume(ctx, platform, state)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, model.ErrStateMismatch
	}

	var (
		data    *model.TokenData
		profile *model.Profile
	)
	switch platform {
	case model.PlatformMastodon:
		data, err = u.mastodonClient.ExchangeCode(ctx, u.defaultInstance, code)
		if err != nil {
			return nil, err
		}
		profile, err = u.mastodonClient.VerifyCredentials(ctx, u.defaultInstance, data.AccessToken)
	case model.PlatformThreads:
		data, err = u.threadsClient.ExchangeCode(ctx, code)
		if err != nil {
			return nil, err
		}
		profile, err = u.threadsClient.GetProfile(ctx, data.AccessToken, data.PlatformUserID)
	default:
		return nil, fmt.Errorf("unsupported platform: %s", platform)
	}
	if err != nil {
		lg.WithField("error", err).Error("Profile fetch after exchange failed")
		return nil, err
	}

	now := time.Now().UTC()
	account := &model.Account{
		PlatformUserID: profile.PlatformUserID,
		AccessToken:    data.AccessToken,
		Scope:          data.Scope,
		LastAuthAt:     &now,
	}
	if data.RefreshToken != "" {
		account.RefreshToken = &data.RefreshToken
	}
	if data.ExpiresIn > 0 {
		exp := now.Add(time.Duration(data.ExpiresIn) * time.Second)
		account.TokenExpiresAt = &exp
	}
	if platform == model.PlatformMastodon {
		instance := u.defaultInstance
		account.InstanceURL = &instance
	}
	setIfNotEmpty(&account.Username, profile.Username)
	setIfNotEmpty(&account.DisplayName, profile.DisplayName)
	setIfNotEmpty(&account.AvatarURL, profile.AvatarURL)
	setIfNotEmpty(&account.Bio, profile.Bio)

	stored, err := u.accountRepo.Upsert(ctx, platform, account)
	if err != nil {
		return nil, err
	}
	lg.WithField("platform_user_id", stored.PlatformUserID).Info("Account authorized")
	return stored, nil
}

func (u *authUsecase) RegisterApp(ctx context.Context, req *dto.RegisterAppRequest) (*dto.AppCredentials, error) {
	return u.mastodonClient.RegisterApp(ctx, req.Domain, req.ClientName, req.RedirectURIs, req.Website)
}

// randomState returns a 40 character hex state token.
func randomState() (string, error) {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func setIfNotEmpty(dst **string, v string) {
	if v != "" {
		*dst = &v
	}
}
