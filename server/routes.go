// Package server exposes the generation pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/secrethelper/secrethelper/api"
	"github.com/secrethelper/secrethelper/envconfig"
	"github.com/secrethelper/secrethelper/helper"
	"github.com/secrethelper/secrethelper/history"
	"github.com/secrethelper/secrethelper/lyrics"
	"github.com/secrethelper/secrethelper/ollama"
	"github.com/secrethelper/secrethelper/song"
	"github.com/secrethelper/secrethelper/synth"
	"github.com/secrethelper/secrethelper/version"
)

type Server struct {
	Engine  *song.Engine
	Helper  *helper.Generator
	Ollama  *ollama.Client
	Runner  *synth.Runner
	History *history.Store
}

// NewServer wires the default pipeline: Ollama for words, the model runner
// for audio, and the JSON history store.
func NewServer() *Server {
	oc := ollama.NewClient()
	runner := synth.NewRunner()
	store := history.NewStore()

	return &Server{
		Engine:  song.NewEngine(lyrics.NewGenerator(oc), runner, store),
		Helper:  helper.NewGenerator(oc),
		Ollama:  oc,
		Runner:  runner,
		History: store,
	}
}

func (s *Server) GenerateHandler(c *gin.Context) {
	var req api.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Prompt == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "prompt is required"})
		return
	}

	ch := make(chan any)
	go func() {
		defer close(ch)
		_, err := s.Engine.Generate(c.Request.Context(), req, func(p api.ProgressResponse) {
			ch <- p
		})
		if err != nil {
			slog.Error("generation failed", "error", err)
			ch <- gin.H{"error": err.Error()}
		}
	}()

	streamResponse(c, ch)
}

func (s *Server) HelperHandler(c *gin.Context) {
	var req api.HelperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Message == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	draft, err := s.Helper.Generate(c.Request.Context(), req.Message, req.Settings, req.Current)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, draft)
}

// AIHandler proxies a raw prompt straight to Ollama.
func (s *Server) AIHandler(c *gin.Context) {
	var req api.AIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Prompt == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "prompt is required"})
		return
	}

	text, err := s.Ollama.Generate(c.Request.Context(), &ollama.GenerateRequest{
		Model:  envconfig.OllamaModel,
		Prompt: req.Prompt,
	})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, api.AIResponse{Response: text})
}

func (s *Server) HistoryHandler(c *gin.Context) {
	entries, err := s.History.Load()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, api.HistoryResponse{Entries: entries})
}

func (s *Server) ClearHistoryHandler(c *gin.Context) {
	if err := s.History.Clear(); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, api.HistoryResponse{})
}

func (s *Server) StatusHandler(c *gin.Context) {
	online, ready, msg := s.Ollama.Status(c.Request.Context(), envconfig.OllamaModel)
	runnerUp, runnerMsg := s.Runner.Ping(c.Request.Context())

	c.JSON(http.StatusOK, api.StatusResponse{
		Version: version.Version,
		Ollama:  api.BackendStatus{Online: online, Ready: ready, Message: msg},
		Runner:  api.BackendStatus{Online: runnerUp, Ready: runnerUp, Message: runnerMsg},
	})
}

func (s *Server) GenerateRoutes() http.Handler {
	config := cors.DefaultConfig()
	config.AllowWildcard = true
	config.AllowAllOrigins = true
	config.AllowHeaders = []string{"Authorization", "Content-Type", "Accept", "User-Agent"}

	r := gin.Default()
	r.Use(cors.New(config))

	r.POST("/api/generate", s.GenerateHandler)
	r.POST("/api/helper", s.HelperHandler)
	r.POST("/api/ai", s.AIHandler)
	r.GET("/api/history", s.HistoryHandler)
	r.DELETE("/api/history", s.ClearHistoryHandler)
	r.GET("/api/status", s.StatusHandler)
	r.GET("/api/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": version.Version})
	})
	r.Static("/output", envconfig.OutputDir)

	for _, method := range []string{http.MethodGet, http.MethodHead} {
		r.Handle(method, "/", func(c *gin.Context) {
			c.String(http.StatusOK, "Secret Helper is running")
		})
	}

	return r
}

// Serve runs the HTTP server on the listener until it fails or the context
// is done.
func Serve(ctx context.Context, ln net.Listener) error {
	s := NewServer()

	slog.Info(fmt.Sprintf("Listening on %s (version %s)", ln.Addr(), version.Version))
	slog.Info("server config", "env", envconfig.Values())
	srv := &http.Server{
		Handler: s.GenerateRoutes(),
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	return srv.Serve(ln)
}

func streamResponse(c *gin.Context, ch chan any) {
	c.Header("Content-Type", "application/x-ndjson")
	c.Stream(func(w io.Writer) bool {
		val, ok := <-ch
		if !ok {
			return false
		}

		bts, err := json.Marshal(val)
		if err != nil {
			slog.Info(fmt.Sprintf("streamResponse: json.Marshal failed with %s", err))
			return false
		}

		bts = append(bts, '\n')
		if _, err := w.Write(bts); err != nil {
			slog.Info(fmt.Sprintf("streamResponse: w.Write failed with %s", err))
			return false
		}
		return true
	})
}
