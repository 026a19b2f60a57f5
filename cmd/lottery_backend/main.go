package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lottery_backend/internal/auth"
	"lottery_backend/internal/config"
	"lottery_backend/internal/handler"
	"lottery_backend/internal/oauth"
	"lottery_backend/internal/service"
	"lottery_backend/internal/storage"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "")

	flag.Parse()
	if configPath == "" {
		log.Fatal("failed get config path from flags")
	}

	cfg := config.MustLoadConfig(configPath)

	lgr := setupLogger(cfg.Env)
	lgr.Info("started lottery backend", slog.String("env", cfg.Env))

	st, err := storage.NewPostgresStorage(cfg.DB.DbURL)
	if err != nil {
		lgr.Error("failed to init storage", slog.Any("error", err))
		os.Exit(1)
	}
	defer st.Close()

	issuer := auth.NewTokenIssuer(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	authService := service.NewAuthService(st, issuer)
	usersService := service.NewUsersService(st)
	groupsService := service.NewGroupsService(st)
	ticketsService := service.NewTicketsService(st)
	transactionsService := service.NewTransactionsService(st)

	oauthManager := oauth.NewManager(
		cfg.OAuth.BaseURL,
		cfg.OAuth.GoogleClientID, cfg.OAuth.GoogleClientSecret,
		cfg.OAuth.GitHubClientID, cfg.OAuth.GitHubClientSecret,
	)

	h := handler.NewHandler(authService, usersService, groupsService, ticketsService, transactionsService, oauthManager, lgr)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      h.InitRoutes(),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lgr.Error("http server stopped", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	lgr.Info("listening", slog.String("address", cfg.HTTPServer.Address))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	lgr.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		lgr.Error("failed to shutdown gracefully", slog.Any("error", err))
	}
}

func setupLogger(env string) *slog.Logger {
	var lgr *slog.Logger

	switch env {
	case envLocal:
		lgr = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		lgr = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	default:
		lgr = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}
	return lgr
}
