package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"github.com/mx-space/portfolio/internal/config"
	"github.com/mx-space/portfolio/internal/database"
	"github.com/mx-space/portfolio/internal/middleware"
	"github.com/mx-space/portfolio/internal/models"
	"github.com/mx-space/portfolio/internal/modules/system/health"
	"github.com/mx-space/portfolio/internal/pkg/ratelimit"
	pkgredis "github.com/mx-space/portfolio/internal/pkg/redis"
	"github.com/mx-space/portfolio/internal/pkg/repository"
	"go.uber.org/zap"
)

const sweepInterval = time.Minute

// Stores are the collections behind the routes.
type Stores struct {
	Blogs    repository.Collection[models.BlogModel]
	Projects repository.Collection[models.ProjectModel]
	Services repository.Collection[models.ServiceModel]
	Teams    repository.Collection[models.TeamModel]
	Contacts repository.Collection[models.ContactModel]
}

// MongoStores binds every collection to db.
func MongoStores(db repository.DatabaseProvider) Stores {
	return Stores{
		Blogs:    repository.NewMongo[models.BlogModel](db, models.BlogModel{}.CollectionName()),
		Projects: repository.NewMongo[models.ProjectModel](db, models.ProjectModel{}.CollectionName()),
		Services: repository.NewMongo[models.ServiceModel](db, models.ServiceModel{}.CollectionName()),
		Teams:    repository.NewMongo[models.TeamModel](db, models.TeamModel{}.CollectionName()),
		Contacts: repository.NewMongo[models.ContactModel](db, models.ContactModel{}.CollectionName()),
	}
}

// Deps are the external resources an App serves from.
type Deps struct {
	Stores   Stores
	Database health.Database
	Limiter  ratelimit.Store
}

// App holds all application dependencies.
type App struct {
	cfg     *config.AppConfig
	router  *gin.Engine
	handle  *database.Handle
	redis   *pkgredis.Client
	logger  *zap.Logger
	limiter ratelimit.Store
	cancel  context.CancelFunc
}

// New initializes the application: database handle, counter store, routes.
// The database connects on first use.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	applyRuntimeSettings(cfg)

	handle := database.New(cfg.Mongo, logger, database.EnsureIndexes)

	var (
		rc      *pkgredis.Client
		limiter ratelimit.Store
	)
	if cfg.Redis.URL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		var err error
		if rc, err = pkgredis.Connect(ctx, cfg.Redis.URL); err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		limiter = ratelimit.NewRedisStore(rc.Raw(), "portfolio:ratelimit:")
		logger.Info("rate limit counters shared through redis")
	}

	a, err := Build(logger, cfg, Deps{
		Stores:   MongoStores(handle),
		Database: handle,
		Limiter:  limiter,
	})
	if err != nil {
		if rc != nil {
			_ = rc.Close()
		}
		return nil, err
	}
	a.handle = handle
	a.redis = rc
	return a, nil
}

// Build assembles the router over deps. A nil Limiter keeps counters in memory.
func Build(logger *zap.Logger, cfg *config.AppConfig, deps Deps) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	if deps.Limiter == nil {
		mem := ratelimit.NewMemoryStore()
		go mem.Run(ctx, sweepInterval)
		deps.Limiter = mem
	}

	router := gin.New()
	if len(cfg.TrustedProxies) > 0 {
		if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
			cancel()
			return nil, fmt.Errorf("trusted proxies: %w", err)
		}
	}
	router.Use(middleware.Recovery(logger, cfg.IsDev()))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics())
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(newCORS(cfg))
	router.Use(middleware.BodyLimit(cfg.BodyLimitBytes()))

	a := &App{cfg: cfg, router: router, logger: logger, limiter: deps.Limiter, cancel: cancel}
	a.registerRoutes(deps)
	return a, nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the gin engine.
func (a *App) Router() *gin.Engine { return a.router }

// Handler returns the HTTP handler with response compression.
func (a *App) Handler() http.Handler { return gzhttp.GzipHandler(a.router) }

// Shutdown stops background goroutines and releases the store connections.
func (a *App) Shutdown(ctx context.Context) error {
	a.cancel()
	var errs []error
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	if a.handle != nil {
		if err := a.handle.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("database: %w", err))
		}
	}
	return errors.Join(errs...)
}
