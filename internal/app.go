// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"

	router "realty-sales/internal/api"
	"realty-sales/internal/api/handler"
	"realty-sales/internal/cache"
	"realty-sales/internal/config"
	"realty-sales/internal/repository"
	"realty-sales/internal/repository/postgres"
	"realty-sales/internal/service"
	"realty-sales/internal/util"
	"realty-sales/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB
	Redis  *redis.Client

	// Repositories
	PendingSaleRepository repository.PendingSaleRepository
	AgentRepository       repository.AgentRepository

	// Services
	PendingSaleService service.PendingSaleService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Initialize Logger
	util.InitLogger()
	app.Logger = util.GetLogger()

	// 2. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg
	app.Logger.Info("Application configuration loaded successfully.")

	// 3. Connect to Database
	database, err := db.NewPostgresDB(app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	// 4. Connect to Redis (optional; no REDIS_HOST means no caching)
	var saleCache *cache.PendingSaleCache
	if app.Config.Redis.Enabled() {
		rdb, err := config.NewRedisClient(app.Config.Redis)
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		app.Redis = rdb
		saleCache = cache.NewPendingSaleCache(rdb, 5*time.Minute)
		app.Logger.Info("Redis connection established, pending-sale cache enabled.")
	} else {
		app.Logger.Info("Redis not configured, pending-sale cache disabled.")
	}

	// 5. Initialize Repositories
	app.PendingSaleRepository = postgres.NewPendingSaleRepository(app.DB)
	app.AgentRepository = postgres.NewAgentRepository(app.DB)
	app.Logger.Info("Repositories initialized.")

	// 6. Initialize Services
	// Pass the concrete db.BeginTx, db.CommitTx, db.RollbackTx functions from pkg/db
	app.PendingSaleService = service.NewPendingSaleService(
		app.DB, // This is the DBTxBeginner
		app.DB, // This is the DBExecutor
		app.PendingSaleRepository,
		app.AgentRepository,
		saleCache,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.Logger.Info("Services initialized.")

	// 7. Initialize HTTP Handlers and Router
	pendingSaleHandler := handler.NewPendingSaleHandler(app.PendingSaleService, app.Logger)
	app.HTTPHandler = router.NewRouter(pendingSaleHandler, []byte(app.Config.JWTSecret), app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.Redis != nil {
		if err := app.Redis.Close(); err != nil {
			app.Logger.Error("Failed to close Redis connection", "error", err)
		} else {
			app.Logger.Info("Redis connection closed.")
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
