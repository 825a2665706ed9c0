package usecase

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"social-hub/domain/model"
	"social-hub/domain/repository"
	"social-hub/infrastructure/logger"

	"github.com/gabriel-vasile/mimetype"
)

// Platform media constraints. Validation happens locally, before a single
// byte is sent to the platform.
var allowedMimeTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/jpg":       {},
	"image/png":       {},
	"image/gif":       {},
	"image/webp":      {},
	"video/mp4":       {},
	"video/quicktime": {},
	"video/webm":      {},
	"video/x-ms-wmv":  {},
}

type IMediaUsecase interface {
	// Fetch downloads the source URL into a temp file and validates type
	// and size. The caller owns the returned asset and must Cleanup it.
	Fetch(ctx context.Context, sourceURL string) (*model.MediaAsset, error)
	// UploadToMastodon pushes the asset to the instance and blocks until
	// remote processing finished. On success asset.RemoteID and
	// asset.RemoteURL are set.
	UploadToMastodon(ctx context.Context, instanceURL, accessToken string, asset *model.MediaAsset, description, focus string) (*model.UploadedMedia, error)
	// ProcessForMastodon is Fetch + UploadToMastodon + Cleanup in one call.
	ProcessForMastodon(ctx context.Context, instanceURL, accessToken, sourceURL, description, focus string) (*model.UploadedMedia, error)
	// Classify downloads and validates the source URL only to decide
	// whether it is an image or a video. Used for platforms that ingest
	// media by URL themselves.
	Classify(ctx context.Context, sourceURL string) (string, error)
	Cleanup(asset *model.MediaAsset)
}

type MediaUsecase struct {
	mastodonClient repository.IMastodon
	httpClient     *http.Client

	// Tunables, exported through the constructor defaults and overridden
	// in tests.
	PollInterval  time.Duration
	ImageTimeout  time.Duration
	VideoTimeout  time.Duration
	UploadRetries int
	RetryBackoff  time.Duration
}

func NewMediaUsecase(mastodonClient repository.IMastodon) *MediaUsecase {
	return &MediaUsecase{
		mastodonClient: mastodonClient,
		httpClient:     &http.Client{Timeout: 60 * time.Second},
		PollInterval:   time.Second,
		ImageTimeout:   30 * time.Second,
		VideoTimeout:   60 * time.Second,
		UploadRetries:  3,
		RetryBackoff:   time.Second,
	}
}

func (u *MediaUsecase) Fetch(ctx context.Context, sourceURL string) (*model.MediaAsset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDownload, err)
	}
	resp, err := u.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDownload, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d from %s", model.ErrDownload, resp.StatusCode, sourceURL)
	}

	tmp, err := os.CreateTemp("", "media-*")
	if err != nil {
		return nil, err
	}
	asset := &model.MediaAsset{SourceURL: sourceURL, TempPath: tmp.Name()}

	// Copy at most one byte over the largest ceiling so oversized downloads
	// stop early instead of filling the disk.
	size, err := io.Copy(tmp, io.LimitReader(resp.Body, model.MaxVideoSize+1))
	closeErr := tmp.Close()
	if err != nil {
		u.Cleanup(asset)
		return nil, fmt.Errorf("%w: %v", model.ErrDownload, err)
	}
	if closeErr != nil {
		u.Cleanup(asset)
		return nil, closeErr
	}
	asset.Size = size

	mt, err := mimetype.DetectFile(asset.TempPath)
	if err != nil {
		u.Cleanup(asset)
		return nil, err
	}
	asset.MimeType = mt.String()
	if _, ok := allowedMimeTypes[asset.MimeType]; !ok {
		u.Cleanup(asset)
		return nil, fmt.Errorf("%w: %s", model.ErrUnsupportedMediaType, asset.MimeType)
	}
	if asset.Size > asset.MaxSize() {
		u.Cleanup(asset)
		return nil, fmt.Errorf("%w: %d bytes (%s)", model.ErrMediaTooLarge, asset.Size, asset.MimeType)
	}
	return asset, nil
}

func (u *MediaUsecase) UploadToMastodon(ctx context.Context, instanceURL, accessToken string, asset *model.MediaAsset, description, focus string) (*model.UploadedMedia, error) {
	lg := logger.GetLogger().WithField("source_url", asset.SourceURL)

	var (
		media *model.UploadedMedia
		err   error
	)
	for attempt := 1; attempt <= u.UploadRetries; attempt++ {
		media, err = u.mastodonClient.UploadMedia(ctx, instanceURL, accessToken, asset, description, focus)
		if err == nil {
			break
		}
		lg.WithField("attempt", attempt).WithField("error", err).Warn("Media upload attempt failed")
		if attempt < u.UploadRetries {
			select {
			case <-time.After(u.RetryBackoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrMediaUpload, err)
	}
	asset.RemoteID = media.ID

	// A synchronous upload (HTTP 200) already carries the final URL; an
	// async one (HTTP 202) leaves it empty until processing finished.
	if media.URL == "" {
		media, err = u.awaitProcessing(ctx, instanceURL, accessToken, asset)
		if err != nil {
			return nil, err
		}
	}
	asset.RemoteURL = media.URL
	return media, nil
}

func (u *MediaUsecase) awaitProcessing(ctx context.Context, instanceURL, accessToken string, asset *model.MediaAsset) (*model.UploadedMedia, error) {
	timeout := u.ImageTimeout
	if asset.IsVideo() {
		timeout = u.VideoTimeout
	}
	deadline := time.Now().Add(timeout)

	for {
		media, err := u.mastodonClient.GetMedia(ctx, instanceURL, accessToken, asset.RemoteID)
		if err != nil {
			return nil, err
		}
		if media.Error != "" {
			return nil, fmt.Errorf("%w: %s", model.ErrProcessing, media.Error)
		}
		if media.URL != "" {
			return media, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w after %s (media %s)", model.ErrProcessingTimeout, timeout, asset.RemoteID)
		}
		select {
		case <-time.After(u.PollInterval):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (u *MediaUsecase) ProcessForMastodon(ctx context.Context, instanceURL, accessToken, sourceURL, description, focus string) (*model.UploadedMedia, error) {
	asset, err := u.Fetch(ctx, sourceURL)
	if err != nil {
		return nil, err
	}
	defer u.Cleanup(asset)
	return u.UploadToMastodon(ctx, instanceURL, accessToken, asset, description, focus)
}

func (u *MediaUsecase) Classify(ctx context.Context, sourceURL string) (string, error) {
	asset, err := u.Fetch(ctx, sourceURL)
	if err != nil {
		return "", err
	}
	u.Cleanup(asset)
	if asset.IsVideo() {
		return model.MediaTypeVideo, nil
	}
	return model.MediaTypeImage, nil
}

func (u *MediaUsecase) Cleanup(asset *model.MediaAsset) {
	if asset == nil || asset.TempPath == "" {
		return
	}
	if err := os.Remove(asset.TempPath); err != nil && !os.IsNotExist(err) {
		logger.GetLogger().WithField("path", asset.TempPath).WithField("error", err).Warn("Temp file cleanup failed")
	}
	asset.TempPath = ""
}
