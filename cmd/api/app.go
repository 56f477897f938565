package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"rental-search/internal/handlers"
	"rental-search/internal/repositories"
	"rental-search/internal/services"
	"rental-search/internal/validators"
	"rental-search/pkg/cache"
	"rental-search/pkg/config"
	"rental-search/pkg/database"
	"rental-search/pkg/logger"
	"rental-search/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
)

const startupTimeout = 15 * time.Second

// backend is the repository pair selected by database.driver.
type backend interface {
	repositories.PropertyRepository
	repositories.AnalyticsSink
}

// App represents the application structure
type App struct {
	Config *config.Config
	Router *gin.Engine
	Server *http.Server

	mongoClient *mongo.Client
	pgPool      *pgxpool.Pool

	Store       *cache.RedisStore
	Repository  backend
	RateLimiter *services.RateLimiter

	SearchHandler     *handlers.SearchHandler
	SuggestionHandler *handlers.SuggestionHandler
	HealthHandler     *handlers.HealthHandler
	AdminHandler      *handlers.AdminHandler
}

// Create and initialize a new App instance
func NewApp(cfg *config.Config) *App {
	app := &App{Config: cfg}

	// Initialize infrastructure
	app.initializeMetrics()
	app.initializeCache()
	app.initializeDatabase()

	// Initialize business logic
	app.initializeDependencies()

	// Initialize web layer
	app.initializeRouter()

	return app
}

// initialize the property repository for the configured driver
func (a *App) initializeDatabase() {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	switch a.Config.Database.Driver {
	case config.DriverPostgres:
		pool, err := database.NewPostgresPool(ctx, a.Config.Database.PostgresURL)
		if err != nil {
			logger.GlobalLogger.Errorf("Failed to initialize PostgreSQL: %v", err)
			os.Exit(1)
		}
		if err := database.EnsureSchema(ctx, pool); err != nil {
			logger.GlobalLogger.Errorf("Failed to apply PostgreSQL schema: %v", err)
			os.Exit(1)
		}
		a.pgPool = pool
		a.Repository = repositories.NewPostgresPropertyRepository(pool)
	default:
		client, err := database.ConnectMongo(ctx, a.Config.Database)
		if err != nil {
			logger.GlobalLogger.Errorf("Failed to initialize MongoDB: %v", err)
			os.Exit(1)
		}
		db := database.NewMongoDatabase(client.Database(a.Config.Database.DBName))
		if err := db.CreateIndexes(ctx); err != nil {
			// Searches still work without indexes, only slower.
			logger.GlobalLogger.Warnf("Failed to create MongoDB indexes: %v", err)
		}
		a.mongoClient = client
		a.Repository = repositories.NewMongoPropertyRepository(db)
	}
	logger.GlobalLogger.Printf("Repository backend: %s", a.Config.Database.Driver)
}

// initialize the Redis cache
func (a *App) initializeCache() {
	client, err := cache.NewRedisClient(a.Config.Redis)
	if client == nil {
		logger.GlobalLogger.Errorf("Failed to initialize Redis: %v", err)
		os.Exit(1)
	}
	if err != nil {
		logger.GlobalLogger.Warnf("Redis not reachable at startup, serving without cache: %v", err)
	}
	a.Store = cache.NewRedisStore(client)
}

// initialize Prometheus metrics
func (a *App) initializeMetrics() {
	metrics.Init()
}

// initialize all dependencies
func (a *App) initializeDependencies() {
	cfg := a.Config

	// validators
	searchValidator := validators.NewSearchValidator()

	// services
	a.RateLimiter = services.NewRateLimiter(a.Store)
	searchService := services.NewSearchService(a.Store, a.Repository, a.Repository, cfg.Search)
	suggestionService := services.NewSuggestionService(a.Store, a.Repository, cfg.Suggestions)
	healthService := services.NewHealthService(a.Store, a.Repository, cfg.Health.SlowCacheThreshold)
	cacheAdminService := services.NewCacheAdminService(a.Store)

	// handlers
	a.SearchHandler = handlers.NewSearchHandler(searchService, searchValidator, cfg.Search.Timeout)
	a.SuggestionHandler = handlers.NewSuggestionHandler(suggestionService, searchValidator, cfg.Suggestions.Timeout)
	a.HealthHandler = handlers.NewHealthHandler(healthService)
	a.AdminHandler = handlers.NewAdminHandler(cacheAdminService, searchService, suggestionService)
}

// set up the Gin router with middleware and routes
func (a *App) initializeRouter() {
	if a.Config.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router, err := newEngine(a.Config.Server.TrustedProxies)
	if err != nil {
		logger.GlobalLogger.Errorf("Invalid trusted proxies: %v", err)
		os.Exit(1)
	}
	a.Router = router
	a.setupMiddleware()
	a.setupRoutes()
}

// newEngine builds a bare router that only honors forwarding headers from
// the listed proxies, so rate limits key on the real client address.
func newEngine(trustedProxies []string) (*gin.Engine, error) {
	router := gin.New()
	if err := router.SetTrustedProxies(trustedProxies); err != nil {
		return nil, err
	}
	return router, nil
}

// cleanup operations
func (a *App) cleanup() {
	if a.mongoClient != nil {
		database.DisconnectMongo(a.mongoClient)
	}
	if a.pgPool != nil {
		a.pgPool.Close()
	}
	if err := a.Store.Close(); err != nil {
		logger.GlobalLogger.Warnf("Failed to close Redis client: %v", err)
	}
}
