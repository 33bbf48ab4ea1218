package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-ziptrip/internal/app/domain/wizard"
	"github.com/FACorreiaa/go-ziptrip/internal/app/middleware"
	database "github.com/FACorreiaa/go-ziptrip/internal/db"
	"github.com/FACorreiaa/go-ziptrip/internal/pkg/config"
	"github.com/FACorreiaa/go-ziptrip/internal/pkg/llmgateway"
	"github.com/FACorreiaa/go-ziptrip/internal/routes"
)

// wizardStateTTL bounds how long an abandoned wizard lingers in redis.
const wizardStateTTL = 30 * 24 * time.Hour

// Server holds the dependencies for the HTTP server
type Server struct {
	cfg      *config.Config
	logger   *zap.Logger
	dbPool   *pgxpool.Pool
	redis    *redis.Client
	limiter  *middleware.RateLimiter
	handlers *routes.AppHandlers
	router   *gin.Engine
}

// New builds every dependency. Postgres and redis are only dialled when
// configured.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	s := &Server{
		cfg:    cfg,
		logger: logger,
	}

	llm, err := llmgateway.New(ctx, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create llm client: %w", err)
	}
	logger.Info("LLM client ready", zap.String("provider", llm.Provider()), zap.String("model", cfg.LLM.Model))

	if cfg.Repositories.Postgres.Enabled() {
		if s.dbPool, err = s.setupDatabase(ctx); err != nil {
			return nil, fmt.Errorf("failed to setup database: %w", err)
		}
	} else {
		logger.Warn("POSTGRES_HOST not set, itineraries and LLM interactions will not be persisted")
	}

	store, err := s.setupWizardStore(ctx)
	if err != nil {
		s.Close()
		return nil, err
	}

	s.handlers = routes.NewAppHandlers(routes.Dependencies{
		Config:      cfg,
		LLM:         llm,
		DBPool:      s.dbPool,
		WizardStore: store,
		Logger:      logger,
	})
	s.limiter = middleware.NewRateLimiter(logger, cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	s.router = SetupRouter(cfg, s.handlers, s.limiter, logger)

	return s, nil
}

// setupDatabase initializes the database connection and runs migrations
func (s *Server) setupDatabase(ctx context.Context) (*pgxpool.Pool, error) {
	pg := s.cfg.Repositories.Postgres
	connURL, err := database.ConnectionURL(pg)
	if err != nil {
		return nil, err
	}

	pool, err := database.Init(ctx, connURL, pg, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}

	if !database.WaitForDB(ctx, pool, s.logger) {
		pool.Close()
		return nil, fmt.Errorf("database at %s:%s is unreachable", pg.Host, pg.Port)
	}

	if err = database.RunMigrations(connURL, s.logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	s.logger.Info("Connected to Postgres",
		zap.String("host", pg.Host),
		zap.String("port", pg.Port),
		zap.String("database", pg.DB))
	return pool, nil
}

func (s *Server) setupWizardStore(ctx context.Context) (wizard.Store, error) {
	switch s.cfg.Wizard.Store {
	case config.WizardStoreRedis:
		rc := s.cfg.Repositories.Redis
		s.redis = redis.NewClient(&redis.Options{
			Addr:     rc.Addr,
			Password: rc.Password,
			DB:       rc.DB,
		})
		if err := s.redis.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to reach redis at %s: %w", rc.Addr, err)
		}
		s.logger.Info("Wizard state stored in redis", zap.String("addr", rc.Addr))
		return wizard.NewRedisStore(s.redis, wizardStateTTL), nil
	default:
		s.logger.Info("Wizard state stored on disk", zap.String("path", s.cfg.Wizard.FilePath))
		return wizard.NewFileStore(s.cfg.Wizard.FilePath), nil
	}
}

// Router returns the configured engine.
func (s *Server) Router() http.Handler {
	return s.router
}

// HTTPServer creates and configures the HTTP server
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              ":" + s.cfg.ServerPort,
		Handler:           s.router,
		IdleTimeout:       time.Minute,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// Generation waits on the model.
		WriteTimeout: 2 * time.Minute,
	}
}

// Run serves the API, the pprof listener and the limiter janitor until ctx
// is cancelled.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return serveUntilDone(ctx, s.HTTPServer(), "api", s.logger)
	})
	if addr := s.cfg.Observability.PprofAddr; addr != "" {
		g.Go(func() error {
			return serveUntilDone(ctx, newPprofServer(addr), "pprof", s.logger)
		})
	}
	g.Go(func() error {
		s.limiter.Run(ctx)
		return nil
	})

	return g.Wait()
}

// Close drains pending interaction writes and releases connections.
func (s *Server) Close() {
	if s.handlers != nil && s.handlers.LLMLogger != nil {
		s.handlers.LLMLogger.Wait()
	}
	if s.limiter != nil {
		s.limiter.Stop()
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Warn("Failed to close redis client", zap.Error(err))
		}
	}
	if s.dbPool != nil {
		s.dbPool.Close()
	}
}
