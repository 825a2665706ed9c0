package http

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"social-hub/domain/dto"
	"social-hub/infrastructure/logger"
	"social-hub/usecase"
)

type IPostHandler interface {
	Create(c *gin.Context)
	List(c *gin.Context)
	Delete(c *gin.Context)
}

type PostHandler struct {
	postUsecase usecase.IPostUsecase
}

func NewPostHandler(postUsecase usecase.IPostUsecase) IPostHandler {
	return &PostHandler{postUsecase: postUsecase}
}

// Create publishes a new post on the platform named in the path.
func (h *PostHandler) Create(c *gin.Context) {
	platform := c.Param("platform")
	if !validPlatform(platform) {
		c.JSON(http.StatusNotFound, failure("unknown platform"))
		return
	}
	var req dto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		c.JSON(http.StatusBadRequest, failure(err.Error()))
		return
	}
	post, platformPost, err := h.postUsecase.Publish(c.Request.Context(), platform, &req)
	if err != nil {
		code, body := abortError(err)
		// A failed publish still produced a local record worth returning.
		if post != nil {
			envelope := failure(err.Error())
			envelope["post"] = post
			c.JSON(code, envelope)
			return
		}
		c.JSON(code, body)
		return
	}
	body := gin.H{"post": post}
	if platformPost != nil {
		if len(platformPost.Raw) > 0 {
			body["platform_response"] = json.RawMessage(platformPost.Raw)
		} else {
			body["platform_response"] = platformPost
		}
	}
	c.JSON(http.StatusCreated, success(body))
}

// List returns the stored posts of one account, newest first.
func (h *PostHandler) List(c *gin.Context) {
	platform := c.Param("platform")
	if !validPlatform(platform) {
		c.JSON(http.StatusNotFound, failure("unknown platform"))
		return
	}
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, failure("user_id is required"))
		return
	}
	posts, err := h.postUsecase.ListByUser(c.Request.Context(), platform, userID)
	if err != nil {
		c.JSON(abortError(err))
		return
	}
	c.JSON(http.StatusOK, success(gin.H{"posts": posts}))
}

// Delete removes the post remotely, then locally.
func (h *PostHandler) Delete(c *gin.Context) {
	platform := c.Param("platform")
	if !validPlatform(platform) {
		c.JSON(http.StatusNotFound, failure("unknown platform"))
		return
	}
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, failure("user_id is required"))
		return
	}
	if err := h.postUsecase.Delete(c.Request.Context(), platform, userID, c.Param("post_id")); err != nil {
		c.JSON(abortError(err))
		return
	}
	c.JSON(http.StatusOK, success(gin.H{}))
}
