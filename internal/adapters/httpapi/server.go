// Package httpapi serves predictions over HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/mikey/sms-spam-classifier/docs"
	"github.com/mikey/sms-spam-classifier/internal/config"
	"github.com/mikey/sms-spam-classifier/internal/core"
	"github.com/mikey/sms-spam-classifier/internal/ports"
	"github.com/mikey/sms-spam-classifier/internal/textproc"
)

// Server is the prediction API
type Server struct {
	service        *core.PredictionService
	textProcessor  *textproc.TextProcessor
	logger         *zap.Logger
	cfg            config.ServerConfig
	maxMessageSize int
	engine         *gin.Engine
	httpServer     *http.Server
	listener       net.Listener
}

var _ ports.PredictionServer = (*Server)(nil)

// NewServer creates the API and registers its routes
func NewServer(
	service *core.PredictionService,
	textProcessor *textproc.TextProcessor,
	logger *zap.Logger,
	cfg config.ServerConfig,
	maxMessageSize int,
) *Server {
	s := &Server{
		service:        service,
		textProcessor:  textProcessor,
		logger:         logger,
		cfg:            cfg,
		maxMessageSize: maxMessageSize,
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), s.requestLogger())
	engine.POST("/predict", s.predict)
	engine.GET("/healthz", s.health)
	if cfg.DocsEnabled {
		docs.SwaggerInfo.BasePath = "/"
		engine.GET("/apidocs/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
	}
	s.engine = engine

	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start listens on the configured address and serves in the background
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.ListenAddress, err)
	}
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:      s.engine,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Prediction server failed", zap.Error(err))
		}
	}()

	s.logger.Info("Prediction server started",
		zap.String("address", ln.Addr().String()),
		zap.String("classifier", s.service.ClassifierName()))
	return nil
}

// Stop gracefully shuts the server down
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down prediction server: %w", err)
	}
	return nil
}

// Addr returns the bound address once started, otherwise the configured one
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.cfg.ListenAddress
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("Handled request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
