package usecase

import (
	"context"
	"strconv"
	"sync"
	"time"

	"social-hub/domain/model"
	"social-hub/domain/repository"
	"social-hub/infrastructure/logger"
)

// expirySkew is how long before the recorded expiry a token is already
// treated as expired, so a token never dies mid-request.
const expirySkew = 5 * time.Minute

type ITokenUsecase interface {
	// GetValidToken returns an access token usable right now, refreshing
	// and persisting it first when the stored one is expired or about to
	// expire. The account is updated in place on refresh.
	GetValidToken(ctx context.Context, platform string, account *model.Account) (string, error)
}

type tokenUsecase struct {
	accountRepo     repository.IAccount
	mastodonClient  repository.IMastodon
	defaultInstance string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewTokenUsecase(accountRepo repository.IAccount, mastodonClient repository.IMastodon, defaultInstance string) ITokenUsecase {
	return &tokenUsecase{
		accountRepo:     accountRepo,
		mastodonClient:  mastodonClient,
		defaultInstance: defaultInstance,
		locks:           map[string]*sync.Mutex{},
	}
}

func (u *tokenUsecase) GetValidToken(ctx context.Context, platform string, account *model.Account) (string, error) {
	if !expired(account.TokenExpiresAt) {
		return account.AccessToken, nil
	}

	// One refresh per account at a time; concurrent callers wait and reuse
	// the winner's token instead of racing the token endpoint.
	lock := u.accountLock(platform, account.ID)
	lock.Lock()
	defer lock.Unlock()

	// Re-read after acquiring the lock: another caller may have already
	// refreshed while this one waited.
	fresh, err := u.accountRepo.GetByPlatformUserID(ctx, platform, account.PlatformUserID)
	if err == nil {
		*account = *fresh
		if !expired(account.TokenExpiresAt) {
			return account.AccessToken, nil
		}
	}

	if account.RefreshToken == nil || *account.RefreshToken == "" {
		return "", model.ErrNoRefreshToken
	}
	if platform != model.PlatformMastodon {
		// Threads grants carry no refresh token; reaching here means the
		// stored one is stale in a way only re-authorization can fix.
		return "", model.ErrNoRefreshToken
	}

	data, err := u.mastodonClient.RefreshToken(ctx, account.Instance(u.defaultInstance), *account.RefreshToken)
	if err != nil {
		logger.GetLogger().
			WithField("platform", platform).
			WithField("account_id", account.ID).
			WithField("error", err).
			Error("Token refresh failed")
		return "", err
	}

	var expiresAt *time.Time
	if data.ExpiresIn > 0 {
		t := time.Now().UTC().Add(time.Duration(data.ExpiresIn) * time.Second)
		expiresAt = &t
	}
	// Some instances rotate the refresh token, some omit it. nil keeps the
	// stored one.
	var newRefresh *string
	if data.RefreshToken != "" {
		newRefresh = &data.RefreshToken
	}
	if err := u.accountRepo.UpdateToken(ctx, platform, account.ID, data.AccessToken, newRefresh, expiresAt); err != nil {
		return "", err
	}

	account.AccessToken = data.AccessToken
	if newRefresh != nil {
		account.RefreshToken = newRefresh
	}
	account.TokenExpiresAt = expiresAt
	logger.GetLogger().
		WithField("platform", platform).
		WithField("account_id", account.ID).
		Info("Access token refreshed")
	return account.AccessToken, nil
}

func (u *tokenUsecase) accountLock(platform string, id int64) *sync.Mutex {
	u.mu.Lock()
	defer u.mu.Unlock()
	key := platform + ":" + strconv.FormatInt(id, 10)
	lock, ok := u.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		u.locks[key] = lock
	}
	return lock
}

// expired reports whether the token is past or within expirySkew of its
// recorded expiry. Tokens without a recorded expiry never expire locally.
func expired(expiresAt *time.Time) bool {
	if expiresAt == nil {
		return false
	}
	return time.Now().UTC().After(expiresAt.Add(-expirySkew))
}
