package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"BoxScreener/internal/cache"
	"BoxScreener/internal/model"
)

// Control starts screenings and reports whether one is running.
type Control interface {
	Trigger() bool
	Analyzing() bool
}

// Server exposes the latest report over HTTP and WebSocket.
type Server struct {
	Store   cache.Store
	Control Control
	TTL     time.Duration
	Now     func() time.Time

	engine *gin.Engine
	hub    *Hub
}

// New creates a Server and sets up its routes.
func New(store cache.Store, control Control, ttl time.Duration) *Server {
	s := &Server{
		Store:   store,
		Control: control,
		TTL:     ttl,
		Now:     time.Now,
		engine:  gin.New(),
		hub:     newHub(),
	}
	s.engine.Use(gin.LoggerWithWriter(log.Writer()), gin.Recovery(), cors())
	s.setupRoutes()
	return s
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (s *Server) setupRoutes() {
	s.engine.GET("/api/multi-timeframe", s.getReport)
	s.engine.POST("/api/multi-timeframe", s.getReport)
	s.engine.GET("/api/health", s.getHealth)
	s.engine.GET("/ws", s.handleWebSocket)
	// preflight needs a route for the middleware to run
	s.engine.OPTIONS("/*path", func(c *gin.Context) {})
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

// Publish pushes a new report to WebSocket clients.
func (s *Server) Publish(r *model.Report) { s.hub.Publish(r) }

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	go s.hub.run(ctx)

	srv := &http.Server{Addr: addr, Handler: s.engine}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("[INFO] http server listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Println("[INFO] http server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// cachedReport is a stale report annotated with its cache state.
type cachedReport struct {
	*model.Report
	Cached    bool  `json:"cached"`
	Stale     bool  `json:"stale"`
	CacheAge  int64 `json:"cacheAge"` // seconds
	Analyzing bool  `json:"analyzing"`
}

func (s *Server) getReport(c *gin.Context) {
	latest, err := s.Store.Latest(c.Request.Context())
	if err != nil {
		log.Printf("[ERROR] load cached report: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":         err.Error(),
			"results":       []model.SymbolResult{},
			"totalAnalyzed": 0,
			"foundCount":    0,
		})
		return
	}

	if latest == nil {
		s.Control.Trigger()
		c.JSON(http.StatusOK, gin.H{
			"results":       []model.SymbolResult{},
			"totalAnalyzed": 0,
			"foundCount":    0,
			"lastUpdated":   0,
			"cached":        false,
			"analyzing":     true,
			"message":       "Analysis in progress. Please retry shortly.",
		})
		return
	}

	age := cache.Age(latest, s.Now())
	if age < s.TTL {
		c.JSON(http.StatusOK, latest)
		return
	}

	started := s.Control.Trigger()
	c.JSON(http.StatusOK, cachedReport{
		Report:    latest,
		Cached:    true,
		Stale:     true,
		CacheAge:  int64(age / time.Second),
		Analyzing: started || s.Control.Analyzing(),
	})
}

func (s *Server) getHealth(c *gin.Context) {
	var lastUpdated int64
	if latest, err := s.Store.Latest(c.Request.Context()); err == nil && latest != nil {
		lastUpdated = latest.LastUpdated
	}
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"connections": s.hub.Connections(),
		"lastUpdated": lastUpdated,
		"analyzing":   s.Control.Analyzing(),
	})
}
