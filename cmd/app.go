package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/qrave1/ListenRoom/internal/application/config"
	"github.com/qrave1/ListenRoom/internal/application/constant"
	"github.com/qrave1/ListenRoom/internal/application/metric"
	"github.com/qrave1/ListenRoom/internal/infra/adapters/memory"
	"github.com/qrave1/ListenRoom/internal/infra/adapters/postgres"
	"github.com/qrave1/ListenRoom/internal/infra/adapters/postgres/repository"
	"github.com/qrave1/ListenRoom/internal/infra/ports/http/handlers"
	"github.com/qrave1/ListenRoom/internal/infra/ports/http/server"
	"github.com/qrave1/ListenRoom/internal/usecase"
)

func runApp() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.New()
	if err != nil {
		slog.Error("parse config", slog.Any(constant.Error, err))
		os.Exit(1)
	}

	slog.SetDefault(
		slog.New(
			slog.NewJSONHandler(
				os.Stdout,
				&slog.HandlerOptions{Level: cfg.SlogLevel()},
			),
		),
	)

	dbConn, err := postgres.NewPostgres(ctx, cfg.Postgres.DSN())
	if err != nil {
		slog.Error("connect to postgres", slog.Any(constant.Error, err))
		os.Exit(1)
	}
	defer dbConn.Close()

	userRepo := repository.NewUserRepo(dbConn)
	songRepo := repository.NewSongRepo(dbConn)
	roomRepo := repository.NewRoomRepo(dbConn)
	sessionRepo := memory.NewSessionRepository()
	wsConnRepo := memory.NewWSConnectionRepository(cfg.Session.SendQueueSize)

	// цикл событий и запись в базу живут дольше HTTP серверов, чтобы успеть дописать очередь
	workersCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	loop := usecase.NewEventLoop(cfg.Session.EventQueueSize)
	writer := usecase.NewCatalogWriter(roomRepo, cfg.Session.WriteThroughQueueSize, cfg.Session.WriteThroughTimeout)

	var workers sync.WaitGroup
	workers.Add(2)

	go func() {
		defer workers.Done()
		loop.Run(workersCtx)
	}()

	go func() {
		defer workers.Done()
		writer.Run(workersCtx)
	}()

	sessionUsecase := usecase.NewSessionUsecase(loop, sessionRepo, wsConnRepo, writer, roomRepo, songRepo, userRepo)
	roomUsecase := usecase.NewRoomUsecase(roomRepo, songRepo, sessionUsecase)
	songUsecase := usecase.NewSongUsecase(songRepo)
	userUsecase := usecase.NewUserUsecase([]byte(cfg.JWTSecret), cfg.JWTTTL, cfg.AdminPasswordHash, userRepo)

	googleOAuth := &oauth2.Config{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		RedirectURL:  cfg.Google.RedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	authHandler := handlers.NewAuthHandler(cfg, googleOAuth, handlers.GoogleUserInfoURL, userUsecase)
	roomHandler := handlers.NewRoomHandler(roomUsecase, sessionUsecase)
	songHandler := handlers.NewSongHandler(songUsecase)
	wsHandler := handlers.NewWebSocketHandler(cfg, sessionUsecase, wsConnRepo)

	echoSrv := server.New(cfg, authHandler, roomHandler, songHandler, wsHandler)

	metricsSrv := metric.NewServer(dbConn)

	echoSrvCh := make(chan error, 1)
	metricsSrvCh := make(chan error, 1)

	go func() {
		echoSrvCh <- echoSrv.Start(":" + cfg.Port)
	}()

	go func() {
		metricsSrvCh <- metricsSrv.Start(":" + cfg.MetricPort)
	}()

	slog.Info("listenroom started", slog.String("port", cfg.Port), slog.String("metric_port", cfg.MetricPort))

	select {
	case <-ctx.Done():
		slog.Info("Shutting down servers due to context cancel")
	case err := <-echoSrvCh:
		slog.Error(
			"HTTP server failed",
			slog.Any(constant.Error, err),
		)
		os.Exit(1)
	case err := <-metricsSrvCh:
		slog.Error(
			"Metrics server failed",
			slog.Any(constant.Error, err),
		)
		os.Exit(1)
	}

	timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer timeoutCancel()

	if err := echoSrv.Shutdown(timeoutCtx); err != nil {
		slog.Error("Failed to gracefully shutdown HTTP server", slog.Any(constant.Error, err))
	}

	if err := metricsSrv.Shutdown(timeoutCtx); err != nil {
		slog.Error("Failed to gracefully shutdown metric server", slog.Any(constant.Error, err))
	}

	stopWorkers()
	workers.Wait()

	slog.Info("listenroom stopped")
}
