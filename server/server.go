package server

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sitesmith/config"
	"sitesmith/core"
	"sitesmith/graph"
	"sitesmith/llm"
	"sitesmith/logger"
	"sitesmith/utils"
)

// Fixed download contract for the packaged site.
const (
	archiveName = "website_files.zip"
	archiveMIME = "application/zip"
)

//go:embed static/index.html
var indexHTML []byte

// LlmFactory builds the client used for one generation run.
type LlmFactory func(cfg *llm.LlmConfig, l logger.Logger) (llm.LlmClient, error)

type Server struct {
	cfg      *config.Config
	logger   logger.Logger
	store    *resultStore
	renderer *graph.Renderer
	newLlm   LlmFactory
}

func New(cfg *config.Config, l logger.Logger) *Server {
	if l == nil {
		l = logger.NewNullLogger()
	}
	return &Server{
		cfg:      cfg,
		logger:   l,
		store:    newStore(),
		renderer: graph.NewRenderer(cfg.DotPath),
		newLlm:   llm.NewOpenAIClient,
	}
}

func (s *Server) Routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
	})

	api := router.Group("/api")
	{
		api.POST("/generate", s.handleGenerate)
		api.GET("/sessions/:id", s.handleSession)
		api.GET("/sessions/:id/archive", s.handleArchive)
		api.GET("/sessions/:id/diagram", s.handleDiagram)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}

type generateRequest struct {
	APIKey      string   `json:"api_key"`
	Description string   `json:"description"`
	Temperature *float32 `json:"temperature"`
	MaxTokens   *int     `json:"max_tokens"`
	SessionID   string   `json:"session_id"`
}

type sessionResponse struct {
	SessionID   string    `json:"session_id"`
	HTML        string    `json:"html"`
	CSS         string    `json:"css"`
	JS          string    `json:"js"`
	GraphDot    string    `json:"graph_dot"`
	DiagramPNG  []byte    `json:"diagram_png,omitempty"`
	DiagramNote string    `json:"diagram_note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func newSessionResponse(id string, res *core.Result) sessionResponse {
	return sessionResponse{
		SessionID:   id,
		HTML:        res.HTML,
		CSS:         res.CSS,
		JS:          res.JS,
		GraphDot:    res.GraphDot,
		DiagramPNG:  res.DiagramPNG,
		DiagramNote: res.DiagramNote,
		CreatedAt:   res.CreatedAt,
	}
}

// POST /api/generate
func (s *Server) handleGenerate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	coreReq := core.DefaultRequest()
	coreReq.APIKey = req.APIKey
	coreReq.Description = req.Description
	coreReq.ModelName = s.cfg.ModelName
	if req.Temperature != nil {
		coreReq.Temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		coreReq.MaxTokens = *req.MaxTokens
	}
	coreReq.Clamp()

	// Validation failures never reach a generation call.
	if err := coreReq.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.logger.WithField("description", utils.TruncateString(coreReq.Description, 80)).Info("Received generation request")

	client, err := s.newLlm(&llm.LlmConfig{
		APIKey:      coreReq.APIKey,
		ModelName:   coreReq.ModelName,
		Temperature: coreReq.Temperature,
		MaxTokens:   coreReq.MaxTokens,
		BatchID:     llm.EnsureBatchID(""),
		TellmURL:    s.cfg.TellmURL,
	}, s.logger)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": fmt.Sprintf("An error occurred: %v", err)})
		return
	}

	sm := core.NewDefaultStepManager(client, s.renderer)
	pipeline := core.NewPipeline(coreReq, sm, nil, s.logger)
	if err := pipeline.Execute(c.Request.Context()); err != nil {
		s.logger.WithField("error", err).Error("Generation run failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": fmt.Sprintf("An error occurred: %v", err)})
		return
	}

	res := pipeline.Result()
	id := req.SessionID
	if id == "" || !s.store.has(id) {
		id = uuid.NewString()
	}
	s.store.set(id, res)

	c.JSON(http.StatusOK, newSessionResponse(id, res))
}

// GET /api/sessions/:id
func (s *Server) handleSession(c *gin.Context) {
	id := c.Param("id")
	res, ok := s.store.get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(id, res))
}

// GET /api/sessions/:id/archive
func (s *Server) handleArchive(c *gin.Context) {
	res, ok := s.store.get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", archiveName))
	c.Data(http.StatusOK, archiveMIME, res.Archive)
}

// GET /api/sessions/:id/diagram
func (s *Server) handleDiagram(c *gin.Context) {
	res, ok := s.store.get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	if res.DiagramPNG == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "diagram was not rendered",
			"note":      res.DiagramNote,
			"graph_dot": res.GraphDot,
		})
		return
	}
	c.Data(http.StatusOK, "image/png", res.DiagramPNG)
}

// Run serves until SIGINT or SIGTERM, then drains in-flight requests.
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.cfg.ListenAddress,
		Handler:      s.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info(fmt.Sprintf("Starting server on %s", s.cfg.ListenAddress))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		s.logger.Info(fmt.Sprintf("Received signal %s, shutting down", sig))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	s.logger.Info("Server stopped")
	return nil
}
