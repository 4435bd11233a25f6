package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

func (s *Server) handleLiveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.startTime).String(),
	})
}

func (s *Server) handleReadiness(c echo.Context) error {
	if s.redisClient != nil {
		if err := s.redisClient.Ping(c.Request().Context()).Err(); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]any{
				"status": "degraded",
				"redis":  err.Error(),
			})
		}
	}
	return c.JSON(http.StatusOK, map[string]any{"status": "ok"})
}
