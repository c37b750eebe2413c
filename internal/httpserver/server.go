package httpserver

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tinytelemetry/logq/internal/model"
)

// RequestIDHeader carries the per-request id in both directions.
const RequestIDHeader = "X-Request-ID"

// Config holds the HTTP API settings.
type Config struct {
	Addr         string
	LogDir       string        // reported by /health
	QueryTimeout time.Duration // 0 = no timeout
}

// Server provides an HTTP API for querying log files.
type Server struct {
	cfg       Config
	querier   model.LogQuerier
	server    *http.Server
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates a new HTTP API server.
func NewServer(cfg Config, querier model.LogQuerier) *Server {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8000"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		cfg:     cfg,
		querier: querier,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Handler builds the gin engine serving the API.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), requestID())

	r.GET("/health", s.handleHealth)
	r.GET("/logs", s.handleList)
	r.GET("/logs/stats", s.handleStats)
	r.GET("/logs/:id", s.handleGet)

	return r
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)

	s.server = &http.Server{
		Handler:           s.Handler(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      s.cfg.QueryTimeout + 30*time.Second,
	}

	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}

	s.startTime = time.Now()

	go s.server.Serve(listener)
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// queryContext bounds a query by the configured timeout. The scan stops
// pulling entries once it expires.
func (s *Server) queryContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if s.cfg.QueryTimeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), s.cfg.QueryTimeout)
}

func (s *Server) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidTimestamp):
		c.JSON(http.StatusBadRequest, gin.H{"error": model.ErrInvalidTimestamp.Error()})
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": model.ErrNotFound.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "query timed out"})
	default:
		log.Printf("httpserver: %s %s [%s]: %v", c.Request.Method, c.Request.URL.Path, c.GetString("request_id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"uptime":  time.Since(s.startTime).String(),
		"log_dir": s.cfg.LogDir,
	})
}

func (s *Server) handleList(c *gin.Context) {
	filter := model.ListFilter{
		Level:     c.Query("level"),
		Component: c.Query("component"),
		StartTime: c.Query("start_time"),
		EndTime:   c.Query("end_time"),
	}

	ctx, cancel := s.queryContext(c)
	defer cancel()

	result, err := s.querier.ListFiltered(ctx, filter)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleStats(c *gin.Context) {
	ctx, cancel := s.queryContext(c)
	defer cancel()

	stats, err := s.querier.Stats(ctx)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) handleGet(c *gin.Context) {
	ctx, cancel := s.queryContext(c)
	defer cancel()

	entry, err := s.querier.GetByID(ctx, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}
