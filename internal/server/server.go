// Package server is the portfolio web front-end: public portfolio views and
// the guarded admin area, backed by the GraphQL API.
package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/folio-dev/folio/internal/config"
	"github.com/folio-dev/folio/internal/graphql"
	"github.com/folio-dev/folio/internal/portfolio"
	"github.com/folio-dev/folio/internal/tasks"
	"github.com/folio-dev/folio/internal/workers"
)

// Server represents the HTTP server
type Server struct {
	router      *gin.Engine
	config      *config.Config
	logger      zerolog.Logger
	validator   *validator.Validate
	httpClient  *http.Client
	cache       graphql.Cache
	redis       *redis.Client
	asynqClient *asynq.Client
	warmer      *cron.Cron
	version     string
}

// New creates a new server instance
func New(cfg *config.Config, zlog zerolog.Logger, version string) (*Server, error) {
	server := &Server{
		config:     cfg,
		logger:     zlog,
		validator:  portfolio.NewValidator(),
		httpClient: &http.Client{Timeout: cfg.API.Timeout},
		version:    version,
	}

	// Shared query cache: Redis when configured, process memory otherwise
	if cfg.Redis.Enabled() {
		server.redis = redis.NewClient(&redis.Options{Addr: cfg.Redis.Address})
		server.cache = graphql.NewRedisCache(server.redis, cfg.Cache.TTL, zlog)

		// Initialize Asynq client for enqueueing refresh tasks
		server.asynqClient = asynq.NewClient(asynq.RedisClientOpt{
			Addr: cfg.Redis.Address,
		})
	} else {
		server.cache = graphql.NewMemoryCache(cfg.Cache.TTL)
		zlog.Info().Msg("No Redis configured - using in-memory cache, background refresh disabled")
	}

	if cfg.Cache.WarmSchedule != "" {
		warmer, err := workers.StartCacheWarmer(cfg.Cache.WarmSchedule, server.scheduledRefresher(), zlog)
		if err != nil {
			return nil, err
		}
		server.warmer = warmer
	}

	// Setup router
	server.setupRouter()

	return server, nil
}

// mutationRefresher is attached to request-scoped services. Without Redis
// the cache purge done by every mutation is enough.
func (s *Server) mutationRefresher() portfolio.Refresher {
	if s.asynqClient == nil {
		return nil
	}
	return tasks.NewEnqueuer(s.asynqClient, "mutation", s.logger)
}

// scheduledRefresher enqueues on the worker queue, or refreshes inline
// when there is no queue
func (s *Server) scheduledRefresher() workers.RefreshRequester {
	if s.asynqClient != nil {
		return tasks.NewEnqueuer(s.asynqClient, "schedule", s.logger)
	}
	return workers.RefreshFunc(func(ctx context.Context) error {
		return s.publicService().RefreshPortfolio(ctx)
	})
}

// publicService runs anonymous operations outside of any request
func (s *Server) publicService() *portfolio.Service {
	client := graphql.NewClient(graphql.Options{
		Endpoint:   s.config.API.URL,
		HTTPClient: s.httpClient,
		Cache:      s.cache,
		Logger:     s.logger,
	})
	return portfolio.NewService(client, s.logger, portfolio.WithValidator(s.validator))
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() {
	// Set Gin mode based on environment
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()

	// Add middleware
	s.router.Use(gin.Recovery())
	s.router.Use(s.requestIDMiddleware())
	s.router.Use(s.loggingMiddleware())

	// CORS middleware
	origins := s.config.Server.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}
	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint (no session required)
	s.router.GET("/health", s.healthCheck)

	// Everything else runs with a request-scoped session
	site := s.router.Group("/")
	site.Use(s.sessionMiddleware())
	{
		// Public portfolio views
		site.GET("/", s.home)
		site.GET("/projects", s.listProjects)
		site.GET("/projects/:id", s.getProject)
		site.GET("/skills", s.listSkills)
		site.GET("/experience", s.listExperiences)

		// Admin login (public)
		site.GET("/admin/login", s.loginView)
		site.POST("/admin/login", s.login)
		site.POST("/admin/logout", s.logout)

		// Protected admin routes
		admin := site.Group("/admin")
		admin.Use(RouteGuard(s.logger))
		{
			admin.GET("/dashboard", s.dashboard)

			admin.GET("/profile", s.getProfile)
			admin.PUT("/profile", s.saveProfile)

			admin.GET("/projects", s.adminListProjects)
			admin.POST("/projects", s.createProject)
			admin.PUT("/projects/:id", s.updateProject)
			admin.DELETE("/projects/:id", s.deleteProject)

			admin.GET("/skills", s.adminListSkills)
			admin.POST("/skills", s.createSkill)
			admin.PUT("/skills/:id", s.updateSkill)
			admin.DELETE("/skills/:id", s.deleteSkill)

			admin.GET("/experience", s.adminListExperiences)
			admin.POST("/experience", s.createExperience)
			admin.PUT("/experience/:id", s.updateExperience)
			admin.DELETE("/experience/:id", s.deleteExperience)
		}
	}

	// Unknown paths render the home view
	s.router.NoRoute(s.sessionMiddleware(), s.home)
}

// requestIDMiddleware tags every request with a ULID, reusing the caller's id when present
func (s *Server) requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = ulid.Make().String()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// loggingMiddleware creates a custom logging middleware using zerolog
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start)

		s.logger.Info().
			Str("request_id", c.GetString(requestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	now := time.Now().UTC()
	body := gin.H{
		"status":    "online",
		"timestamp": now,
		"service":   "folio-web",
		"version":   s.version,
	}
	if s.warmer != nil {
		body["next_cache_warm"] = workers.NextWarmAt(s.config.Cache.WarmSchedule, now)
	}
	c.JSON(http.StatusOK, body)
}

// Handler returns the router, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the cache warmer and Redis connections
func (s *Server) Close() {
	if s.warmer != nil {
		<-s.warmer.Stop().Done()
	}
	if s.asynqClient != nil {
		if err := s.asynqClient.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("Error closing Asynq client")
		}
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("Error closing Redis client")
		}
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := s.config.Server.ListenAddr

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      s.config.API.Timeout + 30*time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Str("api_url", s.config.API.URL).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	// Wait for shutdown signal
	select {
	case err := <-errChan:
		s.logger.Error().Err(err).Msg("HTTP server error")
		s.Close()
		return err
	case <-sigChan:
	}
	s.logger.Info().Msg("Received shutdown signal, shutting down gracefully...")

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	s.logger.Info().Msg("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP server")
		return err
	}

	s.Close()
	s.logger.Info().Msg("Server shutdown complete")

	return nil
}
