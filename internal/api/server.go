// internal/api/server.go
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"recruit-workers/internal/common/auth"
	"recruit-workers/internal/common/config"
	"recruit-workers/internal/common/logger"
	composedashboard "recruit-workers/internal/workers/dashboard/compose-dashboard"
	executesearch "recruit-workers/internal/workers/search/execute-search"
	listsearches "recruit-workers/internal/workers/search/list-searches"
	savesearch "recruit-workers/internal/workers/search/save-search"
	voicesearch "recruit-workers/internal/workers/voice/voice-search"
)

type DashboardComposer interface {
	Execute(ctx context.Context, input *composedashboard.Input) (*composedashboard.Output, error)
}

type SearchComposer interface {
	Execute(ctx context.Context, input *executesearch.Input) (*executesearch.Output, error)
}

type VoiceSearcher interface {
	Execute(ctx context.Context, input *voicesearch.Input) (*voicesearch.Output, error)
}

type SearchSaver interface {
	Execute(ctx context.Context, input *savesearch.Input) (*savesearch.Output, error)
}

type SearchLister interface {
	Execute(ctx context.Context, input *listsearches.Input) (*listsearches.Output, error)
}

// SessionProvider resolves bearer tokens and ends sessions.
type SessionProvider interface {
	ValidateToken(ctx context.Context, token string) (*auth.TokenInfo, error)
	Logout(ctx context.Context, refreshToken string) error
}

// ProfileCache drops cached profile data on sign-out.
type ProfileCache interface {
	Invalidate(ctx context.Context, userID string) error
}

// Deps wires the operations behind the routes. A nil Sessions switches
// caller identity to the X-User-ID header.
type Deps struct {
	Dashboard DashboardComposer
	Search    SearchComposer
	Voice     VoiceSearcher
	Save      SearchSaver
	List      SearchLister
	Sessions  SessionProvider
	Profiles  ProfileCache
	// Checks are run by /ready; any error marks the service unready.
	Checks map[string]func(ctx context.Context) error
}

type Server struct {
	deps   Deps
	router *gin.Engine
	http   *http.Server
	logger logger.Logger
}

func NewServer(cfg config.ServerConfig, deps Deps, log logger.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	s := &Server{
		deps:   deps,
		router: router,
		logger: log.WithFields(map[string]interface{}{"component": "api"}),
	}

	router.Use(gin.Recovery(), s.requestLogger())

	router.GET("/health", s.handleHealth)
	router.GET("/ready", s.handleReady)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1", s.identify())
	{
		v1.GET("/dashboard", s.handleDashboard)
		v1.POST("/search", s.handleSearch)
		v1.POST("/voice-search", s.handleVoiceSearch)
		v1.GET("/search-history", s.handleSearchHistory)
		v1.GET("/saved-searches", s.handleSavedSearches)
		v1.POST("/saved-searches", s.handleSaveSearch)
		v1.POST("/sign-out", s.handleSignOut)
	}

	port := cfg.Port
	if port == 0 {
		port = 8080
	}
	s.http = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  millis(cfg.ReadTimeout, 15*time.Second),
		WriteTimeout: millis(cfg.WriteTimeout, 30*time.Second),
	}
	return s
}

func millis(ms int, def time.Duration) time.Duration {
	if ms <= 0 {
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("HTTP API listening", map[string]interface{}{"addr": s.http.Addr})
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
