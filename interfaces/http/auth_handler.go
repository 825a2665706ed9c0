package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"social-hub/domain/dto"
	"social-hub/domain/model"
	"social-hub/infrastructure/logger"
	"social-hub/usecase"
)

type IAuthHandler interface {
	GetAuthURL(c *gin.Context)
	Callback(c *gin.Context)
	RegisterApp(c *gin.Context)
}

type AuthHandler struct {
	authUsecase usecase.IAuthUsecase
}

func NewAuthHandler(authUsecase usecase.IAuthUsecase) IAuthHandler {
	return &AuthHandler{authUsecase: authUsecase}
}

// GetAuthURL returns the platform's authorize URL for the user's browser.
func (h *AuthHandler) GetAuthURL(c *gin.Context) {
	platform := c.Param("platform")
	if !validPlatform(platform) {
		c.JSON(http.StatusNotFound, failure("unknown platform"))
		return
	}
	authURL, err := h.authUsecase.AuthorizationURL(c.Request.Context(), platform)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to build authorization URL")
		c.JSON(abortError(err))
		return
	}
	c.JSON(http.StatusOK, success(gin.H{"auth_url": authURL}))
}

// Callback is the OAuth redirect target for both platforms.
func (h *AuthHandler) Callback(c *gin.Context) {
	platform := c.Param("platform")
	if !validPlatform(platform) {
		c.JSON(http.StatusNotFound, failure("unknown platform"))
		return
	}
	account, err := h.authUsecase.HandleCallback(
		c.Request.Context(),
		platform,
		c.Query("code"),
		c.Query("state"),
		c.Query("error"),
	)
	if err != nil {
		c.JSON(abortError(err))
		return
	}
	c.JSON(http.StatusOK, success(gin.H{"user": account}))
}

// RegisterApp registers this service as an OAuth app on a Mastodon instance.
func (h *AuthHandler) RegisterApp(c *gin.Context) {
	if c.Param("platform") != model.PlatformMastodon {
		c.JSON(http.StatusNotFound, failure("app registration is only supported for mastodon"))
		return
	}
	var req dto.RegisterAppRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, failure(err.Error()))
		return
	}
	creds, err := h.authUsecase.RegisterApp(c.Request.Context(), &req)
	if err != nil {
		logger.GetLogger().WithField("domain", req.Domain).WithField("error", err).Error("App registration failed")
		c.JSON(http.StatusBadGateway, failure(err.Error()))
		return
	}
	c.JSON(http.StatusOK, success(gin.H{"credentials": creds}))
}

func validPlatform(platform string) bool {
	return platform == model.PlatformMastodon || platform == model.PlatformThreads
}
