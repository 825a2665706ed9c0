package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"social-hub/domain/dto"
	"social-hub/domain/model"
	"social-hub/infrastructure/logger"
	"social-hub/usecase"
)

type IMediaHandler interface {
	Upload(c *gin.Context)
}

type MediaHandler struct {
	postUsecase usecase.IPostUsecase
}

func NewMediaHandler(postUsecase usecase.IPostUsecase) IMediaHandler {
	return &MediaHandler{postUsecase: postUsecase}
}

// Upload runs the standalone media pipeline and returns the platform's
// media record once processing finished.
func (h *MediaHandler) Upload(c *gin.Context) {
	if c.Param("platform") != model.PlatformMastodon {
		c.JSON(http.StatusNotFound, failure("media upload is only supported for mastodon"))
		return
	}
	var req dto.UploadMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		c.JSON(http.StatusBadRequest, failure(err.Error()))
		return
	}
	media, err := h.postUsecase.UploadMedia(c.Request.Context(), &req)
	if err != nil {
		c.JSON(abortError(err))
		return
	}
	c.JSON(http.StatusOK, success(gin.H{"media": media}))
}
