package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "recruit-workers/internal/common/errors"
	composedashboard "recruit-workers/internal/workers/dashboard/compose-dashboard"
	executesearch "recruit-workers/internal/workers/search/execute-search"
	listsearches "recruit-workers/internal/workers/search/list-searches"
	savesearch "recruit-workers/internal/workers/search/save-search"
	voicesearch "recruit-workers/internal/workers/voice/voice-search"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleReady(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(s.deps.Checks))
	for name, check := range s.deps.Checks {
		if err := check(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}
	c.JSON(status, gin.H{"checks": checks})
}

func (s *Server) handleDashboard(c *gin.Context) {
	out, err := s.deps.Dashboard.Execute(c.Request.Context(), &composedashboard.Input{UserID: userID(c)})
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, out.View)
}

type searchRequest struct {
	Query   string          `json:"query"`
	Filters json.RawMessage `json:"filters"`
	Limit   int             `json:"limit"`
}

func (s *Server) handleSearch(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, apperrors.NewInvalidInputError(err.Error()))
		return
	}

	out, err := s.deps.Search.Execute(c.Request.Context(), &executesearch.Input{
		UserID:  userID(c),
		Query:   req.Query,
		Filters: req.Filters,
		Limit:   req.Limit,
	})
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

type voiceSearchRequest struct {
	AudioURL string          `json:"audioUrl" binding:"required"`
	Language string          `json:"language"`
	Filters  json.RawMessage `json:"filters"`
	Limit    int             `json:"limit"`
}

func (s *Server) handleVoiceSearch(c *gin.Context) {
	var req voiceSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, apperrors.NewInvalidInputError(err.Error()))
		return
	}

	out, err := s.deps.Voice.Execute(c.Request.Context(), &voicesearch.Input{
		UserID:   userID(c),
		AudioURL: req.AudioURL,
		Language: req.Language,
		Filters:  req.Filters,
		Limit:    req.Limit,
	})
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleSearchHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	s.list(c, listsearches.KindHistory, limit)
}

func (s *Server) handleSavedSearches(c *gin.Context) {
	s.list(c, listsearches.KindSaved, 0)
}

func (s *Server) list(c *gin.Context, kind string, limit int) {
	out, err := s.deps.List.Execute(c.Request.Context(), &listsearches.Input{
		UserID: userID(c),
		Kind:   kind,
		Limit:  limit,
	})
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

type saveSearchRequest struct {
	Name           string          `json:"name"`
	Query          string          `json:"query"`
	Filters        json.RawMessage `json:"filters"`
	AlertFrequency *string         `json:"alertFrequency"`
}

func (s *Server) handleSaveSearch(c *gin.Context) {
	var req saveSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, apperrors.NewInvalidInputError(err.Error()))
		return
	}

	out, err := s.deps.Save.Execute(c.Request.Context(), &savesearch.Input{
		UserID:         userID(c),
		Name:           req.Name,
		Query:          req.Query,
		Filters:        req.Filters,
		AlertFrequency: req.AlertFrequency,
	})
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	status := http.StatusOK
	if out.Saved {
		status = http.StatusCreated
	}
	c.JSON(status, out)
}

type signOutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (s *Server) handleSignOut(c *gin.Context) {
	var req signOutRequest
	// the body is optional
	_ = c.ShouldBindJSON(&req)

	if s.deps.Sessions != nil && req.RefreshToken != "" {
		if err := s.deps.Sessions.Logout(c.Request.Context(), req.RefreshToken); err != nil {
			s.abortWithError(c, err)
			return
		}
	}

	if s.deps.Profiles != nil {
		if err := s.deps.Profiles.Invalidate(c.Request.Context(), userID(c)); err != nil {
			s.logger.Warn("failed to drop cached profile on sign-out", map[string]interface{}{
				"userId": userID(c),
				"error":  err.Error(),
			})
		}
	}
	c.Status(http.StatusNoContent)
}
