package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Velmurugan2695/document-question-answer/internal/config"
)

// NewRouter wires the handlers into a gin engine.
func NewRouter(cfg *config.ServerConfig, answerer Answerer) *gin.Engine {
	gin.SetMode(cfg.Mode)

	r := gin.New()
	r.MaxMultipartMemory = cfg.MaxUploadBytes
	r.Use(RequestLogger(), Recovery(), CORS())

	h := NewHandler(answerer, &http.Client{Timeout: cfg.FetchTimeout}, cfg.MaxUploadBytes)

	r.GET("/", h.Form)
	r.GET("/healthz", h.Health)

	// multipart overhead on top of the file itself
	limited := r.Group("/", BodyLimit(cfg.MaxUploadBytes+1<<20))
	limited.POST("/ask", h.Ask)
	limited.POST("/api/v1/run", h.Run)

	return r
}

// Server is the HTTP front end.
type Server struct {
	srv *http.Server
}

func New(cfg *config.ServerConfig, answerer Answerer) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              cfg.Addr,
			Handler:           NewRouter(cfg, answerer),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Run serves until ctx is done, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.srv.Addr).Msg("HTTP server listening")
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}
