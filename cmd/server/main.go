package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"checkers_backend/internal/adapters"
	"checkers_backend/internal/bootstrap"
	"checkers_backend/internal/checkers"
	"checkers_backend/internal/delivery"
	authDelivery "checkers_backend/internal/delivery/auth"
	gameDelivery "checkers_backend/internal/delivery/game"
	repo "checkers_backend/internal/repository"
	authUC "checkers_backend/internal/usecase/auth"
	gameUC "checkers_backend/internal/usecase/game"
)

type dataBaseAdapters struct {
	redisAdapter *adapters.AdapterRedis
	mongoAdapter *adapters.AdapterMongo
}

type storages struct {
	users    authUC.UserStorage
	sessions authUC.SessionStorage
	games    gameUC.GameStore
}

func main() {
	logger := NewLogger()
	defer logger.Sync()

	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		logger.Error("Failed to setup configuration", zap.Error(err))
		return
	}
	if _, err = checkers.NewVariantBoard(checkers.Variant(cfg.BoardVariant), checkers.White); err != nil {
		logger.Error("Bad BOARD_VARIANT", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go handleShutdown(cancel, logger)

	var store storages
	if cfg.Storage == bootstrap.StorageMemory {
		logger.Warn("STORAGE=memory: games and players are lost on restart")
		store = storages{
			users:    repo.NewMapUserStorage(),
			sessions: repo.NewSessionMapStorage(),
			games:    repo.NewGameMapStorage(),
		}
	} else {
		databaseAdapters := initDatabaseAdapters(ctx, logger, cfg)
		defer databaseAdapters.mongoAdapter.Close(context.Background())
		defer databaseAdapters.redisAdapter.Close(context.Background())
		store = storages{
			users:    repo.NewMongoUserStorage(databaseAdapters.mongoAdapter.Database, logger),
			sessions: repo.NewSessionRedisStorage(databaseAdapters.redisAdapter.GetClient(), cfg.SessionTTL, logger),
			games: repo.NewGameRepository(*cfg, logger,
				databaseAdapters.redisAdapter.GetClient(), databaseAdapters.mongoAdapter.Database),
		}
	}

	handlers := initializeDeliveryHandlers(cfg, logger, store)
	srv := &http.Server{
		Addr:              cfg.ServerPort,
		Handler:           handlers.Router(logger, cfg.IsLocalCors),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	logger.Infof("Server is running on port %s", cfg.ServerPort)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
	logger.Info("Server stopped")
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

func initDatabaseAdapters(ctx context.Context, log *zap.SugaredLogger, cfg *bootstrap.Config) *dataBaseAdapters {
	mongoAdapter := adapters.NewAdapterMongo(cfg, log)
	if err := mongoAdapter.Init(ctx); err != nil {
		log.Fatal("Не удалось инициализировать MongoDB", zap.Error(err))
	}

	redisAdapter := adapters.NewAdapterRedis(cfg, log)
	if err := redisAdapter.Init(ctx); err != nil {
		log.Fatal("Не удалось инициализировать Redis", zap.Error(err))
	}

	log.Info("Адаптеры баз данных инициализированы")
	return &dataBaseAdapters{
		redisAdapter: redisAdapter,
		mongoAdapter: mongoAdapter,
	}
}

func initializeDeliveryHandlers(cfg *bootstrap.Config, log *zap.SugaredLogger, store storages) *delivery.Handlers {
	authUsecase := authUC.NewUserUsecaseHandler(store.users, store.sessions, cfg.PageLimitPlayers)
	gameUsecase := gameUC.NewGameUseCase(store.games, authUsecase, gameUC.Settings{
		Variant:   checkers.Variant(cfg.BoardVariant),
		Promotion: cfg.KingPromotion,
		Seed:      cfg.OpponentSeed,
	}, log)

	return &delivery.Handlers{
		Auth:     authDelivery.NewAuthHandler(authUsecase, log, cfg.SessionTTL),
		Game:     gameDelivery.NewGameHandler(log, gameUsecase),
		Sessions: authUsecase,
	}
}

func handleShutdown(cancelFunc context.CancelFunc, log *zap.SugaredLogger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info("Received shutdown signal")
	cancelFunc()
}
