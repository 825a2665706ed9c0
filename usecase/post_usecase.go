package usecase

import (
	"context"
	"fmt"
	"time"

	"social-hub/domain/dto"
	"social-hub/domain/model"
	"social-hub/domain/repository"
	"social-hub/infrastructure/logger"
)

// maxMediaPerPost is the per-post attachment ceiling shared by both
// platforms. Checked before any network work starts.
const maxMediaPerPost = 4

type IPostUsecase interface {
	// Publish records a pending post, pushes it to the platform and
	// finalizes the record as published or failed. On success the
	// platform's own post record is returned alongside the local one.
	Publish(ctx context.Context, platform string, req *dto.CreatePostRequest) (*model.Post, *dto.PlatformPost, error)
	// UploadMedia runs the standalone media pipeline for an account and
	// returns the platform media record.
	UploadMedia(ctx context.Context, req *dto.UploadMediaRequest) (*model.UploadedMedia, error)
	ListByUser(ctx context.Context, platform, platformUserID string) ([]*model.Post, error)
	// Delete removes the post from the platform first and only then from
	// local storage. A remote failure keeps the local record.
	Delete(ctx context.Context, platform, platformUserID, postID string) error
}

type PostUsecase struct {
	postRepo        repository.IPost
	accountRepo     repository.IAccount
	tokens          ITokenUsecase
	media           IMediaUsecase
	mastodonClient  repository.IMastodon
	threadsClient   repository.IThreads
	defaultInstance string

	// Carousel children must not be created back to back, and a freshly
	// created container needs a moment before publish sticks.
	CarouselPacing time.Duration
	PublishSettle  time.Duration
}

func NewPostUsecase(
	postRepo repository.IPost,
	accountRepo repository.IAccount,
	tokens ITokenUsecase,
	media IMediaUsecase,
	mastodonClient repository.IMastodon,
	threadsClient repository.IThreads,
	defaultInstance string,
) *PostUsecase {
	return &PostUsecase{
		postRepo:        postRepo,
		accountRepo:     accountRepo,
		tokens:          tokens,
		media:           media,
		mastodonClient:  mastodonClient,
		threadsClient:   threadsClient,
		defaultInstance: defaultInstance,
		CarouselPacing:  500 * time.Millisecond,
		PublishSettle:   2 * time.Second,
	}
}

func (u *PostUsecase) Publish(ctx context.Context, platform string, req *dto.CreatePostRequest) (*model.Post, *dto.PlatformPost, error) {
	if len(req.MediaURLs) > maxMediaPerPost {
		return nil, nil, fmt.Errorf("%w: at most %d media items per post, got %d", model.ErrPublish, maxMediaPerPost, len(req.MediaURLs))
	}
	account, err := u.accountRepo.GetByPlatformUserID(ctx, platform, req.UserID)
	if err != nil {
		return nil, nil, err
	}
	token, err := u.tokens.GetValidToken(ctx, platform, account)
	if err != nil {
		return nil, nil, err
	}

	post := &model.Post{
		AccountID:  account.ID,
		Content:    req.Content,
		Visibility: req.Visibility,
		Sensitive:  req.Sensitive,
		MediaRefs:  req.MediaURLs,
		Status:     model.PostStatusPending,
	}
	if req.SpoilerText != "" {
		post.SpoilerText = &req.SpoilerText
	}
	if req.Language != "" {
		post.Language = &req.Language
	}
	post.MediaType = mediaTypeFor(len(req.MediaURLs))
	post, err = u.postRepo.Create(ctx, platform, post)
	if err != nil {
		return nil, nil, err
	}

	var published *dto.PlatformPost
	switch platform {
	case model.PlatformMastodon:
		published, err = u.publishMastodon(ctx, account, token, req)
	case model.PlatformThreads:
		published, err = u.publishThreads(ctx, account, token, req)
	default:
		err = fmt.Errorf("unsupported platform: %s", platform)
	}
	if err != nil {
		msg := err.Error()
		if updErr := u.postRepo.UpdateStatus(ctx, platform, post.ID, model.PostStatusFailed, nil, &msg); updErr != nil {
			logger.GetLogger().WithField("post_id", post.ID).WithField("error", updErr).Error("Failed to record publish failure")
		}
		post.Status = model.PostStatusFailed
		post.ErrorMessage = &msg
		return post, nil, err
	}

	if err := u.postRepo.UpdateStatus(ctx, platform, post.ID, model.PostStatusPublished, &published.ID, nil); err != nil {
		return nil, nil, err
	}
	post.Status = model.PostStatusPublished
	post.PostID = &published.ID
	logger.GetLogger().
		WithField("platform", platform).
		WithField("post_id", published.ID).
		Info("Post published")
	return post, published, nil
}

// publishMastodon uploads every attachment through the full pipeline, then
// creates the status in one call. Individual media failures are logged and
// skipped so one bad attachment does not sink the post.
func (u *PostUsecase) publishMastodon(ctx context.Context, account *model.Account, token string, req *dto.CreatePostRequest) (*dto.PlatformPost, error) {
	instance := account.Instance(u.defaultInstance)
	mediaIDs := make([]string, 0, len(req.MediaURLs))
	for i, sourceURL := range req.MediaURLs {
		media, err := u.media.ProcessForMastodon(ctx, instance, token, sourceURL, descriptionAt(req.MediaDescriptions, i), "")
		if err != nil {
			logger.GetLogger().
				WithField("source_url", sourceURL).
				WithField("error", err).
				Warn("Skipping failed media attachment")
			continue
		}
		mediaIDs = append(mediaIDs, media.ID)
	}
	if len(req.MediaURLs) > 0 && len(mediaIDs) == 0 && req.Content == "" {
		return nil, fmt.Errorf("%w: all media attachments failed and post has no text", model.ErrPublish)
	}

	status := &dto.StatusRequest{
		Status:      req.Content,
		MediaIDs:    mediaIDs,
		Visibility:  req.Visibility,
		Sensitive:   req.Sensitive,
		SpoilerText: req.SpoilerText,
		Language:    req.Language,
	}
	post, err := u.mastodonClient.CreateStatus(ctx, instance, token, status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrPublish, err)
	}
	return post, nil
}

// publishThreads stages one or more containers and publishes the result.
// Text posts use a single TEXT container, a single attachment becomes an
// IMAGE or VIDEO container, and multiple attachments become carousel
// children under a CAROUSEL parent.
func (u *PostUsecase) publishThreads(ctx context.Context, account *model.Account, token string, req *dto.CreatePostRequest) (*dto.PlatformPost, error) {
	userID := account.PlatformUserID

	var creationID string
	var err error
	switch {
	case len(req.MediaURLs) == 0:
		creationID, err = u.threadsClient.CreateContainer(ctx, token, userID, &dto.ThreadsContainer{
			MediaType: model.MediaTypeText,
			Text:      req.Content,
		})
	case len(req.MediaURLs) == 1:
		var container *dto.ThreadsContainer
		container, err = u.threadsMediaContainer(ctx, req.MediaURLs[0], req.Content, false)
		if err == nil {
			creationID, err = u.threadsClient.CreateContainer(ctx, token, userID, container)
		}
	default:
		creationID, err = u.stageCarousel(ctx, token, userID, req)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrPublish, err)
	}

	// The container needs a moment to assemble before publish succeeds.
	select {
	case <-time.After(u.PublishSettle):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	postID, err := u.threadsClient.PublishContainer(ctx, token, userID, creationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrPublish, err)
	}
	return &dto.PlatformPost{ID: postID}, nil
}

func (u *PostUsecase) stageCarousel(ctx context.Context, token, userID string, req *dto.CreatePostRequest) (string, error) {
	children := make([]string, 0, len(req.MediaURLs))
	survivors := make([]string, 0, len(req.MediaURLs))
	for i, sourceURL := range req.MediaURLs {
		if i > 0 {
			select {
			case <-time.After(u.CarouselPacing):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
		container, err := u.threadsMediaContainer(ctx, sourceURL, "", true)
		if err != nil {
			logger.GetLogger().
				WithField("source_url", sourceURL).
				WithField("error", err).
				Warn("Skipping failed carousel item")
			continue
		}
		childID, err := u.threadsClient.CreateContainer(ctx, token, userID, container)
		if err != nil {
			logger.GetLogger().
				WithField("source_url", sourceURL).
				WithField("error", err).
				Warn("Skipping failed carousel item")
			continue
		}
		children = append(children, childID)
		survivors = append(survivors, sourceURL)
	}
	if len(children) == 0 {
		return "", fmt.Errorf("every carousel item failed")
	}
	if len(children) == 1 {
		// Threads rejects single-child carousels, so a lone survivor is
		// restaged as a plain media post.
		container, err := u.threadsMediaContainer(ctx, survivors[0], req.Content, false)
		if err != nil {
			return "", err
		}
		return u.threadsClient.CreateContainer(ctx, token, userID, container)
	}

	parentID, err := u.threadsClient.CreateContainer(ctx, token, userID, &dto.ThreadsContainer{
		MediaType: model.MediaTypeCarousel,
		Text:      req.Content,
		Children:  children,
	})
	if err != nil {
		return "", err
	}
	return parentID, nil
}

// threadsMediaContainer classifies the source URL and builds the matching
// container. Threads fetches the media itself, so only the URL is sent.
func (u *PostUsecase) threadsMediaContainer(ctx context.Context, sourceURL, text string, carouselItem bool) (*dto.ThreadsContainer, error) {
	kind, err := u.media.Classify(ctx, sourceURL)
	if err != nil {
		return nil, err
	}
	container := &dto.ThreadsContainer{
		MediaType:      kind,
		Text:           text,
		IsCarouselItem: carouselItem,
	}
	if kind == model.MediaTypeVideo {
		container.VideoURL = sourceURL
	} else {
		container.ImageURL = sourceURL
	}
	return container, nil
}

func (u *PostUsecase) UploadMedia(ctx context.Context, req *dto.UploadMediaRequest) (*model.UploadedMedia, error) {
	account, err := u.accountRepo.GetByPlatformUserID(ctx, model.PlatformMastodon, req.UserID)
	if err != nil {
		return nil, err
	}
	token, err := u.tokens.GetValidToken(ctx, model.PlatformMastodon, account)
	if err != nil {
		return nil, err
	}
	return u.media.ProcessForMastodon(ctx, account.Instance(u.defaultInstance), token, req.MediaURL, req.Description, req.Focus)
}

func (u *PostUsecase) ListByUser(ctx context.Context, platform, platformUserID string) ([]*model.Post, error) {
	account, err := u.accountRepo.GetByPlatformUserID(ctx, platform, platformUserID)
	if err != nil {
		return nil, err
	}
	return u.postRepo.ListByAccount(ctx, platform, account.ID)
}

func (u *PostUsecase) Delete(ctx context.Context, platform, platformUserID, postID string) error {
	account, err := u.accountRepo.GetByPlatformUserID(ctx, platform, platformUserID)
	if err != nil {
		return err
	}
	post, err := u.postRepo.GetByPostID(ctx, platform, postID)
	if err != nil {
		return err
	}
	if post.AccountID != account.ID {
		// Posts are only visible to the account that created them.
		return model.ErrPostNotFound
	}
	token, err := u.tokens.GetValidToken(ctx, platform, account)
	if err != nil {
		return err
	}

	switch platform {
	case model.PlatformMastodon:
		err = u.mastodonClient.DeleteStatus(ctx, account.Instance(u.defaultInstance), token, postID)
	case model.PlatformThreads:
		err = u.threadsClient.DeletePost(ctx, token, postID)
	default:
		return fmt.Errorf("unsupported platform: %s", platform)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrDelete, err)
	}
	return u.postRepo.Delete(ctx, platform, post.ID)
}

// descriptionAt returns the alt text for the i-th attachment, or "" when
// fewer descriptions than attachments were submitted.
func descriptionAt(descriptions []string, i int) string {
	if i < len(descriptions) {
		return descriptions[i]
	}
	return ""
}

// mediaTypeFor maps an attachment count to the Threads media type recorded
// on the post row.
func mediaTypeFor(n int) string {
	switch {
	case n == 0:
		return model.MediaTypeText
	case n > 1:
		return model.MediaTypeCarousel
	default:
		return ""
	}
}
