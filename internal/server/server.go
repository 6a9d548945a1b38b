// Package server exposes the planner over HTTP.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abhisek/studyplan/internal/app"
	"github.com/abhisek/studyplan/internal/config"
	"github.com/abhisek/studyplan/internal/store"
)

// Options configures a Server. Only App is required.
type Options struct {
	App    *app.App
	HTTP   config.HTTPConfig
	Env    string
	Events store.EventRepo
	// Metrics is created when nil.
	Metrics *Metrics
	Logger  *zap.Logger
}

// Server is the HTTP front end.
type Server struct {
	app     *app.App
	cfg     config.HTTPConfig
	events  store.EventRepo
	metrics *Metrics
	logger  *zap.Logger
	engine  *gin.Engine
}

// New builds a Server and its routes.
func New(opts Options) *Server {
	s := &Server{
		app:     opts.App,
		cfg:     opts.HTTP,
		events:  opts.Events,
		metrics: opts.Metrics,
		logger:  opts.Logger,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	s.logger = s.logger.Named("http")
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}

	if opts.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(accessLog(s.logger))
	r.Use(instrument(s.metrics))
	s.routes(r)
	s.engine = r
	return s
}

func (s *Server) routes(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "narration": s.app.CanNarrate()})
	})
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	v1 := r.Group("/v1")
	plans := v1.Group("/schedules", s.limitBody())
	plans.POST("", s.createSchedule)
	plans.POST("/:format", s.exportSchedule)

	v1.GET("/runs", s.listRuns)
	v1.GET("/runs/:id", s.getRun)

	v1.GET("/profile", s.getProfile)
	v1.POST("/profile/outcomes", s.limitBody(), s.recordOutcomes)

	v1.GET("/llm/usage", s.llmUsage)
}

// limitBody caps request bodies at the configured size.
func (s *Server) limitBody() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.cfg.MaxBodyBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxBodyBytes)
		}
		c.Next()
	}
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.engine }

// ListenAndServe serves until ctx is cancelled, then shuts down
// gracefully within the configured shutdown timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.engine,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx := context.Background()
	if s.cfg.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(shutdownCtx, s.cfg.ShutdownTimeout)
		defer cancel()
	}
	s.logger.Info("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
