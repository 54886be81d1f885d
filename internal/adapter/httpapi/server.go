// Package httpapi exposes the extraction pipeline over HTTP: the parse
// operations consumed by the web front end plus the operational endpoints.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stark-ops/incident-parser/internal/domain"
	"github.com/stark-ops/incident-parser/internal/extract"
)

// ModelDirectory lists the completion service's model identifiers and probes
// its reachability. Nil when no model endpoint is configured.
type ModelDirectory interface {
	ListModels(ctx context.Context) ([]string, error)
	CheckReachable(ctx context.Context) error
}

// Server exposes the parse API and the health/readiness/metrics endpoints.
type Server struct {
	httpServer *http.Server
	orch       *extract.Orchestrator
	batch      *extract.BatchCoordinator
	models     ModelDirectory
	batchLimit int
	logger     *slog.Logger
}

// NewServer builds the router and wraps it in an http.Server for addr.
func NewServer(addr string, orch *extract.Orchestrator, batch *extract.BatchCoordinator, models ModelDirectory, batchLimit int, logger *slog.Logger) *Server {
	s := &Server{
		orch:       orch,
		batch:      batch,
		models:     models,
		batchLimit: batchLimit,
		logger:     logger,
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLog())

	router.POST("/parse", s.handleParse)
	router.POST("/parse/batch", s.handleParseBatch)
	router.GET("/models", s.handleModels)
	router.GET("/examples", s.handleExamples)
	router.GET("/health", s.handleHealth)
	router.GET("/healthz", s.handleHealthz)
	router.GET("/readyz", s.handleReadyz)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// requestLog tags each request with a UUID and logs its outcome.
func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Header("X-Request-ID", id)
		start := time.Now()

		c.Next()

		s.logger.Info("request",
			"request_id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

type parseRequest struct {
	Description   string `json:"description"`
	ReferenceTime string `json:"reference_time"` // optional, canonical format
}

type parseResponse struct {
	Status   string                 `json:"status"`
	Incident *domain.IncidentRecord `json:"incident,omitempty"`
	Error    string                 `json:"error,omitempty"`
}

// reference parses the optional reference_time override. A zero time means
// "use the clock".
func (r parseRequest) reference() (time.Time, error) {
	if r.ReferenceTime == "" {
		return time.Time{}, nil
	}
	return time.Parse(domain.TimeLayout, r.ReferenceTime)
}

func (s *Server) handleParse(c *gin.Context) {
	var req parseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, parseResponse{Status: "error", Error: "invalid request body"})
		return
	}
	if req.Description == "" {
		c.JSON(http.StatusBadRequest, parseResponse{Status: "error", Error: "description cannot be empty"})
		return
	}
	ref, err := req.reference()
	if err != nil {
		c.JSON(http.StatusBadRequest, parseResponse{Status: "error", Error: "reference_time must use format " + domain.TimeLayout})
		return
	}

	rec, err := s.orch.Extract(c.Request.Context(), domain.RawIncident{Text: req.Description, Reference: ref})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrNoExtractableContent) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, parseResponse{Status: "error", Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, parseResponse{Status: "success", Incident: &rec})
}

type batchResponse struct {
	Results   []parseResponse `json:"results"`
	Succeeded int             `json:"succeeded"`
	FellBack  int             `json:"fell_back"`
	Failed    int             `json:"failed"`
}

func (s *Server) handleParseBatch(c *gin.Context) {
	var reqs []parseRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		c.JSON(http.StatusBadRequest, parseResponse{Status: "error", Error: "invalid request body"})
		return
	}
	if len(reqs) > s.batchLimit {
		c.JSON(http.StatusBadRequest, parseResponse{
			Status: "error",
			Error:  "batch exceeds limit of " + strconv.Itoa(s.batchLimit) + " incidents",
		})
		return
	}

	items := make([]domain.RawIncident, len(reqs))
	for i, req := range reqs {
		ref, err := req.reference()
		if err != nil {
			c.JSON(http.StatusBadRequest, parseResponse{Status: "error", Error: "reference_time must use format " + domain.TimeLayout})
			return
		}
		items[i] = domain.RawIncident{Text: req.Description, Reference: ref}
	}

	result := s.batch.Process(c.Request.Context(), items)

	out := batchResponse{
		Results:   make([]parseResponse, len(result.Outcomes)),
		Succeeded: result.Succeeded(),
		FellBack:  result.FellBack(),
		Failed:    result.Failed(),
	}
	for i, o := range result.Outcomes {
		if o.Err != nil {
			out.Results[i] = parseResponse{Status: "error", Error: o.Err.Error()}
			continue
		}
		rec := o.Record
		out.Results[i] = parseResponse{Status: "success", Incident: &rec}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleModels(c *gin.Context) {
	if s.models == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "error": "model service not configured"})
		return
	}
	names, err := s.models.ListModels(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"status": "error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "models": names})
}

func (s *Server) handleExamples(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"examples": domain.Examples()})
}

// handleHealth reports overall service health plus the advisory model-service
// status. A down model service never makes the API unhealthy; it only means
// every extraction will use the pattern path.
func (s *Server) handleHealth(c *gin.Context) {
	modelStatus := "disabled"
	if s.models != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.models.CheckReachable(ctx); err != nil {
			modelStatus = "unavailable"
		} else {
			modelStatus = "connected"
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "model_status": modelStatus})
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// handleReadyz: extraction is stateless, so the service is ready as soon as
// the routes are up.
func (s *Server) handleReadyz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
