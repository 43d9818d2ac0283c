package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/phrazzld/taskboard-api/internal/config"
	"github.com/phrazzld/taskboard-api/internal/events"
	"github.com/phrazzld/taskboard-api/internal/platform/amqp"
	"github.com/phrazzld/taskboard-api/internal/platform/memory"
	"github.com/phrazzld/taskboard-api/internal/platform/metrics"
	"github.com/phrazzld/taskboard-api/internal/platform/postgres"
	"github.com/phrazzld/taskboard-api/internal/platform/redis"
	"github.com/phrazzld/taskboard-api/internal/service"
	"github.com/phrazzld/taskboard-api/internal/service/auth"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// application holds the shared dependencies of the server so they can be
// released together on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// Optional infrastructure, nil when not configured.
	db        *sql.DB
	redis     *goredis.Client
	publisher *amqp.Publisher

	userStore store.UserStore
	taskStore store.TaskStore
	txRunner  store.TxRunner

	jwtService  auth.JWTService
	authService service.AuthService
	taskService service.TaskService

	eventEmitter *events.InMemoryEventEmitter
}

// newApplication builds every dependency described by cfg. On failure any
// resource already opened is released.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *application, err error) {
	app := &application{
		config: cfg,
		logger: logger,
	}
	defer func() {
		if err != nil {
			app.cleanup()
		}
	}()

	if err = app.setupStores(ctx); err != nil {
		return nil, err
	}

	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes,
		"refresh_token_lifetime_minutes", cfg.Auth.RefreshTokenLifetimeMinutes)

	ledger, err := app.setupRefreshLedger(ctx)
	if err != nil {
		return nil, err
	}

	app.authService, err = service.NewAuthService(
		app.userStore,
		app.txRunner,
		app.jwtService,
		auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		ledger,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth service: %w", err)
	}

	if err = app.setupEvents(); err != nil {
		return nil, err
	}

	app.taskService, err = service.NewTaskService(app.taskStore, app.txRunner, app.eventEmitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// setupStores selects the persistence backend.
func (app *application) setupStores(ctx context.Context) error {
	switch app.config.Database.Driver {
	case config.DriverMemory:
		users := memory.NewUserStore()
		app.userStore = users
		app.taskStore = memory.NewTaskStore(users)
		app.txRunner = store.NoTxRunner{}
		app.logger.Warn("using in-memory storage; data is lost on restart")

	case config.DriverPostgres:
		db, err := setupAppDatabase(ctx, app.config, app.logger)
		if err != nil {
			return err
		}
		app.db = db
		app.userStore = postgres.NewPostgresUserStore(db, app.logger)
		app.taskStore = postgres.NewPostgresTaskStore(db, app.logger)
		app.txRunner = store.SQLTxRunner{DB: db}

	default:
		return fmt.Errorf("unsupported database driver %q", app.config.Database.Driver)
	}
	return nil
}

// setupRefreshLedger returns the Redis-backed ledger when a Redis URL is
// configured, or nil so the auth service keeps an in-process one.
func (app *application) setupRefreshLedger(ctx context.Context) (auth.RefreshTokenLedger, error) {
	if app.config.Cache.RedisURL == "" {
		app.logger.Info("refresh token ledger is in-process")
		return nil, nil
	}

	client, err := redis.NewClient(ctx, app.config.Cache.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	app.redis = client
	app.logger.Info("refresh token ledger backed by redis")
	return redis.NewRefreshTokenLedger(client), nil
}

// setupEvents registers the task event handlers.
func (app *application) setupEvents() error {
	app.eventEmitter = events.NewInMemoryEventEmitter(app.logger)
	app.eventEmitter.RegisterHandler(events.NewLogHandler(app.logger))
	app.eventEmitter.RegisterHandler(metrics.EventCounter{})

	if app.config.Events.AMQPURL == "" {
		return nil
	}

	publisher, err := amqp.Dial(app.config.Events.AMQPURL, app.config.Events.Exchange, app.logger)
	if err != nil {
		return fmt.Errorf("failed to connect to message broker: %w", err)
	}
	app.publisher = publisher
	app.eventEmitter.RegisterHandler(publisher)
	app.logger.Info("task events published to broker", "exchange", app.config.Events.Exchange)
	return nil
}

// Run serves HTTP until ctx is cancelled.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases every resource the application opened.
func (app *application) cleanup() {
	if app.publisher != nil {
		if err := app.publisher.Close(); err != nil {
			app.logger.Error("Error closing event publisher", "error", err)
		}
	}

	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("Error closing redis client", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
