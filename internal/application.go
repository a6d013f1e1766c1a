package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/config"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/repository"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/service"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-hotseat/transport/rest"
	"github.com/rocketscienceinc/tictactoe-hotseat/transport/websocket"
)

var (
	ErrAddrNotFound   = errors.New("redis address string is empty")
	ErrUnknownStorage = errors.New("unknown storage driver")
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	scoreRepo, closer, err := openScoreRepository(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err = closer.Close(); err != nil {
			log.Error("could not close score storage", "error", err)
		}
	}()

	scoreService := service.NewScoreService(logger, scoreRepo)

	gameController, err := tictactoe.NewGameController(ctx, logger, scoreService, conf.Players.First, conf.Players.Second)
	if err != nil {
		return fmt.Errorf("could not start the game: %w", err)
	}

	wsServer := websocket.New(logger, conf.CORS.AllowedOrigins)
	session := usecase.NewSessionManager(logger, gameController, wsServer)

	router := rest.NewRouter(conf.CORS.AllowedOrigins, rest.NewPingHandler(), rest.NewGameHandlers(logger, session))

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		httpErrCh <- rest.Start(ctx, logger, conf.HTTPPort, router)
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsErrCh <- wsServer.Start(ctx, conf.SocketPort, session)
	}()

	var httpErr, wsErr error

	// The store is closed only after both servers have returned.
	select {
	case httpErr = <-httpErrCh:
		cancel()
		wsErr = <-wsErrCh
	case wsErr = <-wsErrCh:
		cancel()
		httpErr = <-httpErrCh
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		httpErr, wsErr = <-httpErrCh, <-wsErrCh
	}

	if httpErr != nil {
		log.Error("HTTP server error", "error", httpErr)
		return fmt.Errorf("HTTP server error: %w", httpErr)
	}

	if wsErr != nil {
		log.Error("WebSocket server error", "error", wsErr)
		return fmt.Errorf("WebSocket server error: %w", wsErr)
	}

	return nil
}

// openScoreRepository - connects the configured win count store.
func openScoreRepository(ctx context.Context, conf *config.Config) (repository.ScoreRepository, io.Closer, error) {
	switch conf.Storage.Driver {
	case config.StorageRedis:
		redisAddrString := conf.Redis.GetRedisAddr()
		if redisAddrString == "" {
			return nil, nil, ErrAddrNotFound
		}

		redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		return repository.NewScoreRepository(redisStorage.Connection, conf.Redis.KeyPrefix), redisStorage, nil

	case config.StorageSQLite:
		sqliteStorage, err := storage.NewSQLiteStorage(conf.Storage.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("could not open sqlite storage: %w", err)
		}

		if err = sqliteStorage.Init(ctx); err != nil {
			_ = sqliteStorage.Close()
			return nil, nil, fmt.Errorf("could not init sqlite storage: %w", err)
		}

		return repository.NewSQLiteScoreRepository(sqliteStorage.Connection), sqliteStorage, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownStorage, conf.Storage.Driver)
	}
}
