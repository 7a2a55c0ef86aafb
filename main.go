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

	"panorama-api/infrastructure/cache"
	instagramclient "panorama-api/infrastructure/clients/instagram"
	"panorama-api/infrastructure/configuration"
	"panorama-api/infrastructure/logger"
	"panorama-api/infrastructure/persistence"
	"panorama-api/infrastructure/storage"
	httpHandler "panorama-api/interfaces/http"
	"panorama-api/server"
	"panorama-api/usecase"

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
	if err := persistence.EnsurePanoramaSchema(psqlDb); err != nil {
		logger.GetLogger().WithField("error", err).Error("failed ensuring panorama schema")
		os.Exit(1)
	}
	if err := persistence.EnsureCredentialColumns(psqlDb); err != nil {
		logger.GetLogger().WithField("error", err).Error("failed ensuring credential columns")
	}
	logger.GetLogger().WithField("PSQLDb", psqlDb.Ping()).Info("Database connected.")

	redisClient, err := cache.NewCache(
		ctx,
		fmt.Sprintf("%s:%s", configuration.C.RedisClient.Host, configuration.C.RedisClient.Port),
		configuration.C.RedisClient.Username,
		configuration.C.RedisClient.Password,
	)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not available - continuing without tag cache")
		redisClient = nil
	} else {
		logger.GetLogger().Info("Redis client initialized successfully.")
	}
	tagCache := cache.NewTagCache(redisClient)

	objectStorage, err := storage.NewMinioStorage(ctx, configuration.C.Storage)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Cannot connect to object storage")
		os.Exit(1)
	}

	instagramClient := instagramclient.NewClient(configuration.C.Instagram.GraphBaseURL)

	userRepository := persistence.NewUserRepository(psqlDb)
	panoramaRepository := persistence.NewPanoramaRepository(psqlDb)
	tagRepository := persistence.NewTagRepository(psqlDb)
	historyRepository := persistence.NewInstagramHistoryRepository(psqlDb)
	credentialRepository := persistence.NewInstagramCredentialRepository(psqlDb)

	tagResolver := usecase.NewTagResolver(tagRepository, tagCache)
	userUsecase := usecase.NewUserUsecase(userRepository)
	panoramaUsecase := usecase.NewPanoramaUsecase(panoramaRepository, tagRepository, tagResolver, objectStorage)
	instagramUsecase := usecase.NewInstagramUsecase(
		configuration.C.Instagram,
		panoramaRepository,
		historyRepository,
		credentialRepository,
		instagramClient,
	)
	tokenUsecase := usecase.NewTokenUsecase(configuration.C.Instagram, credentialRepository, instagramClient)

	userHandler := httpHandler.NewUserHandler(userUsecase)
	panoramaHandler := httpHandler.NewPanoramaHandler(panoramaUsecase, objectStorage, configuration.C.Storage)
	tagHandler := httpHandler.NewTagHandler(tagResolver)
	instagramHandler := httpHandler.NewInstagramHandler(instagramUsecase, tokenUsecase)

	router := server.InitiateRouter(userHandler, panoramaHandler, tagHandler, instagramHandler, userRepository)

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
	if redisClient != nil {
		_ = redisClient.Close()
	}
	_ = psqlDb.Close()

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}
