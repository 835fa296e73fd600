package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbeisheim/chessai-backend/internal/config"
	"github.com/benbeisheim/chessai-backend/internal/controller"
	"github.com/benbeisheim/chessai-backend/internal/logx"
	"github.com/benbeisheim/chessai-backend/internal/search"
	"github.com/benbeisheim/chessai-backend/internal/service"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger, err := logx.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
	logger.Info().Msg("shutdown complete")
}

func run(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	engine := search.NewEngine(
		search.WithSeed(cfg.SearchSeed),
		search.WithDepthBounds(cfg.MinDepth, cfg.MaxDepth),
		search.WithLogger(logger),
	)

	// Initialize services
	gameManager := service.NewGameManager(engine, cfg.ClockTime, logger)
	defer gameManager.Close()
	gameService := service.NewGameService(gameManager)
	engineService := service.NewEngineService(engine, logger)
	defer engineService.Close()

	// Initialize controllers
	app := controller.NewApp(controller.Routes{
		Game:         controller.NewGameController(gameService),
		Engine:       controller.NewEngineController(engineService, cfg.SearchTimeout),
		WebSocket:    controller.NewWebSocketController(gameService, logger),
		AllowOrigins: cfg.AllowOrigins,
		Logger:       logger,
	})

	errc := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr).Msg("listening")
		errc <- app.Listen(cfg.Addr)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("http server shutdown error")
	}
	return nil
}
