package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"social-hub/infrastructure/cache"
	mastodonclient "social-hub/infrastructure/clients/mastodon"
	threadsclient "social-hub/infrastructure/clients/threads"
	"social-hub/infrastructure/configuration"
	"social-hub/infrastructure/logger"
	"social-hub/infrastructure/persistence"
	httpHandler "social-hub/interfaces/http"
	"social-hub/server"
	"social-hub/usecase"

	"golang.org/x/sync/errgroup"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Load env from files (non-destructive; OS env still has precedence)
	configuration.LoadEnvFromFile("config.env", ".env")

	app := configuration.C.App

	psqlDb, err := persistence.NewPostgreSQLDB()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Cannot connect to PostgreSQL")
		os.Exit(1)
	}
	if err := persistence.EnsureSchema(psqlDb); err != nil {
		logger.GetLogger().WithField("error", err).Error("Schema migration failed")
		os.Exit(1)
	}
	logger.GetLogger().Info("Database connected.")

	redisClient, err := cache.NewCache(
		ctx,
		fmt.Sprintf("%s:%s", configuration.C.RedisClient.Host, configuration.C.RedisClient.Port),
		configuration.C.RedisClient.Username,
		configuration.C.RedisClient.Password,
	)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not available - OAuth states fall back to process memory")
		redisClient = nil
	}
	stateStore := cache.NewStateStore(redisClient)

	mastodonCfg := configuration.C.OAuth.Mastodon
	mastodonClient := mastodonclient.NewClient(&mastodonclient.Config{
		ClientID:     mastodonCfg.ClientID,
		ClientSecret: mastodonCfg.ClientSecret,
		RedirectURI:  mastodonCfg.RedirectURI,
		InstanceURL:  mastodonCfg.InstanceURL,
		Scopes:       mastodonCfg.Scopes,
	})
	threadsCfg := configuration.C.OAuth.Threads
	threadsClient := threadsclient.NewClient(&threadsclient.Config{
		ClientID:     threadsCfg.ClientID,
		ClientSecret: threadsCfg.ClientSecret,
		RedirectURI:  threadsCfg.RedirectURI,
		Scopes:       threadsCfg.Scopes,
	})

	userRepository := persistence.NewUserRepository(psqlDb)
	accountRepository := persistence.NewAccountRepository(psqlDb)
	postRepository := persistence.NewPostRepository(psqlDb)

	userUsecase := usecase.NewUserUsecase(userRepository, app.SecretKey)
	tokenUsecase := usecase.NewTokenUsecase(accountRepository, mastodonClient, mastodonCfg.InstanceURL)
	mediaUsecase := usecase.NewMediaUsecase(mastodonClient)
	authUsecase := usecase.NewAuthUsecase(accountRepository, mastodonClient, threadsClient, stateStore, mastodonCfg.InstanceURL)
	postUsecase := usecase.NewPostUsecase(postRepository, accountRepository, tokenUsecase, mediaUsecase, mastodonClient, threadsClient, mastodonCfg.InstanceURL)

	userHandler := httpHandler.NewUserHandler(userUsecase)
	authHandler := httpHandler.NewAuthHandler(authUsecase)
	postHandler := httpHandler.NewPostHandler(postUsecase)
	mediaHandler := httpHandler.NewMediaHandler(postUsecase)

	router := server.InitiateRouter(userHandler, authHandler, postHandler, mediaHandler, userRepository, app.SecretKey)

	port := app.Port
	logger.GetLogger().WithField("port", port).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}
