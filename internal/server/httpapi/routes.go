package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

func (s *Server) registerRoutes(e *echo.Echo) {
	e.GET("/healthz", s.healthz)

	users := e.Group("/users")
	users.POST("/sign-up", s.signUp)
	users.POST("/sign-in", s.signIn)
	users.GET("/confirm/:token", s.confirm)
	users.POST("/forget", s.forget)
	users.POST("/reset", s.reset)
	users.POST("/send-confirm", s.sendConfirm)

	tasks := e.Group("/tasks", s.requireAuth)
	tasks.GET("", s.listTasks)
	tasks.GET("/search/search", s.searchTasks)
	tasks.GET("/:id", s.getTask)
	tasks.POST("", s.createTask)
	tasks.PATCH("/:id", s.updateTask)
	tasks.PATCH("/:id/comments", s.addComment)
	tasks.DELETE("/:id", s.deleteTask)
	tasks.DELETE("/:id/comments/:commentId", s.deleteComment)
}

func (s *Server) healthz(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn(ctx, "health check failed", "error", err)
		return c.JSON(http.StatusServiceUnavailable, message("database unavailable"))
	}
	return c.JSON(http.StatusOK, message("ok"))
}
