package api

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "recruit-workers/internal/common/errors"
)

const (
	userIDKey    = "userId"
	userIDHeader = "X-User-ID"
)

// identify puts the caller's user id on the context. With a session provider
// a valid bearer token is required; otherwise X-User-ID is trusted and may be
// empty, which downstream operations treat as a profile that is not loaded.
func (s *Server) identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.deps.Sessions == nil {
			c.Set(userIDKey, strings.TrimSpace(c.GetHeader(userIDHeader)))
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if header == "" || token == header {
			s.abortWithError(c, apperrors.NewAuthenticationError("missing bearer token"))
			return
		}

		info, err := s.deps.Sessions.ValidateToken(c.Request.Context(), token)
		if err != nil {
			s.abortWithError(c, err)
			return
		}
		c.Set(userIDKey, info.Sub)
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := map[string]interface{}{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}
		if c.Writer.Status() >= 500 {
			s.logger.Error("request failed", fields)
			return
		}
		s.logger.Debug("request served", fields)
	}
}

func userID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Alert   bool   `json:"alert,omitempty"`
}

func (s *Server) abortWithError(c *gin.Context, err error) {
	stdErr := apperrors.Normalize(err)
	c.AbortWithStatusJSON(apperrors.HTTPStatus(stdErr.Code), gin.H{
		"error": errorBody{
			Code:    string(stdErr.Code),
			Message: stdErr.Message,
			Details: stdErr.Details,
			Alert:   stdErr.Alert,
		},
	})
}
