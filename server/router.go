package server

import (
	"net/http"
	"time"

	"social-hub/domain/repository"
	httpHandler "social-hub/interfaces/http"
	"social-hub/interfaces/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func InitiateRouter(
	userHandler httpHandler.IUserHandler,
	authHandler httpHandler.IAuthHandler,
	postHandler httpHandler.IPostHandler,
	mediaHandler httpHandler.IMediaHandler,
	userRepository repository.IUser,
	secretKey string,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:4200", "http://localhost:4201", "https://localhost:4200", "https://localhost:4201"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.POST("/login", userHandler.Login)
	router.POST("/register", userHandler.Register)

	// OAuth flows run unauthenticated: the callback is hit by the user's
	// browser redirected from the platform.
	router.GET("/auth/:platform", authHandler.GetAuthURL)
	router.GET("/auth/:platform/callback", authHandler.Callback)

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("api")
	api.Use(middleware.Auth(userRepository, secretKey))

	api.POST("/:platform/post", postHandler.Create)
	api.GET("/:platform/posts", postHandler.List)
	api.DELETE("/:platform/post/:post_id", postHandler.Delete)

	// Mastodon only; the handlers reject other platforms.
	api.POST("/:platform/media", mediaHandler.Upload)
	api.POST("/:platform/register", authHandler.RegisterApp)

	return router
}
