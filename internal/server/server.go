// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"monday-bi-agent/internal/agent"
	"monday-bi-agent/internal/analytics"
	"monday-bi-agent/internal/common/config"
	apperrors "monday-bi-agent/internal/common/errors"
	"monday-bi-agent/internal/common/logger"
	"monday-bi-agent/internal/common/validation"
)

const requestIDHeader = "X-Request-ID"

// QueryProcessor answers one query. *agent.Agent implements it.
type QueryProcessor interface {
	ProcessQuery(ctx context.Context, in *agent.Input) (*analytics.Result, error)
}

// Server is the HTTP surface of the agent.
type Server struct {
	config     config.ServerConfig
	router     *gin.Engine
	processor  QueryProcessor
	validator  *validation.Validator
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
	httpServer *http.Server
}

func New(cfg config.ServerConfig, processor QueryProcessor, log logger.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	log = logger.ForComponent(log, "server")
	s := &Server{
		config:     cfg,
		router:     gin.New(),
		processor:  processor,
		validator:  validation.MustValidator(queryRequestSchema),
		errHandler: apperrors.NewErrorHandler(log),
		logger:     log,
	}
	s.setupRoutes()
	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.router,
		ReadTimeout:  config.GetDuration(cfg.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.WriteTimeout),
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.cors())
	s.router.Use(s.requestLogger())

	s.router.POST("/query", s.handleQuery)
	s.router.GET("/health", s.status("healthy"))
	s.router.GET("/ready", s.status("ready"))
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) cors() gin.HandlerFunc {
	origins := s.config.CORSAllowedOrigins
	return func(c *gin.Context) {
		origin := allowedOrigin(origins, c.GetHeader("Origin"))
		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "*")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// allowedOrigin echoes the request origin when it is allowed, since a
// wildcard cannot be combined with credentials.
func allowedOrigin(allowed []string, origin string) string {
	for _, o := range allowed {
		if o == "*" {
			if origin == "" {
				return "*"
			}
			return origin
		}
		if o == origin {
			return origin
		}
	}
	return ""
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("http request", map[string]interface{}{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"durationMs": time.Since(start).Milliseconds(),
		})
	}
}

func (s *Server) status(state string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": state,
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

func (s *Server) handleQuery(c *gin.Context) {
	requestID := c.GetHeader(requestIDHeader)
	if requestID == "" {
		requestID = uuid.New().String()
	}
	c.Header(requestIDHeader, requestID)

	body, err := c.GetRawData()
	if err != nil {
		s.fail(c, requestID, apperrors.NewInvalidRequestError(err.Error()))
		return
	}

	if res := s.validator.Validate(body); !res.Valid {
		s.fail(c, requestID, apperrors.NewInvalidRequestError(res.Summary()))
		return
	}

	var req QueryRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.fail(c, requestID, apperrors.NewInvalidRequestError(err.Error()))
		return
	}

	result, err := s.processor.ProcessQuery(c.Request.Context(), req.ToInput(requestID))
	if err != nil {
		s.fail(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) fail(c *gin.Context, requestID string, err error) {
	stdErr, status := s.errHandler.HandleRequestError(requestID, err)
	c.AbortWithStatusJSON(status, stdErr)
}

// Start listens on the configured address and blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", map[string]interface{}{
		"address": s.config.Address,
	})
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones. A server
// shut down before Start never begins listening.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
