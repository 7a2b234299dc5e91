package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/tasknest/internal/common"
	"github.com/dmitrijs2005/tasknest/internal/server/models"
	"github.com/labstack/echo/v4"
)

func (s *Server) listTasks(c echo.Context) error {
	page := models.ParsePage(c.QueryParam("page"))
	sort := models.ParseTaskSort(c.QueryParam("sort"))

	res, err := s.tasks.List(c.Request().Context(), identity(c), page, sort)
	if err != nil {
		return respond(c, http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) searchTasks(c echo.Context) error {
	q := models.TaskSearch{
		Title: models.ParseSearchText(c.QueryParam("searchQuery")),
		Tags:  models.ParseSearchTags(c.QueryParam("searchTags")),
		Page:  models.ParsePage(c.QueryParam("page")),
		Sort:  models.ParseTaskSort(c.QueryParam("sort")),
	}

	res, err := s.tasks.Search(c.Request().Context(), identity(c), q)
	if err != nil {
		return respond(c, http.StatusNotFound, "No tasks found")
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) getTask(c echo.Context) error {
	task, err := s.tasks.Get(c.Request().Context(), identity(c), c.Param("id"))
	if err != nil {
		return respond(c, http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, task)
}

func (s *Server) createTask(c echo.Context) error {
	var in models.TaskInput
	if err := c.Bind(&in); err != nil {
		return badBody(c)
	}

	task, err := s.tasks.Create(c.Request().Context(), identity(c), in)
	if err != nil {
		return respond(c, http.StatusConflict, err.Error())
	}
	return c.JSON(http.StatusCreated, task)
}

// updateTask does not check that the caller owns the task.
func (s *Server) updateTask(c echo.Context) error {
	var patch models.TaskPatch
	if err := c.Bind(&patch); err != nil {
		return badBody(c)
	}

	task, err := s.tasks.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return mutationError(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

func (s *Server) deleteTask(c echo.Context) error {
	if err := s.tasks.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return mutationError(c, err)
	}
	return respond(c, http.StatusOK, "Task deleted successfully")
}

func (s *Server) addComment(c echo.Context) error {
	var in models.CommentInput
	if err := c.Bind(&in); err != nil {
		return badBody(c)
	}

	task, err := s.tasks.AddComment(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return mutationError(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

func (s *Server) deleteComment(c echo.Context) error {
	task, err := s.tasks.DeleteComment(c.Request().Context(), c.Param("id"), c.Param("commentId"))
	if err != nil {
		return mutationError(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

func mutationError(c echo.Context, err error) error {
	if errors.Is(err, common.ErrInvalidID) || errors.Is(err, common.ErrorNotFound) {
		return respond(c, http.StatusNotFound, "No task with that id")
	}
	return respond(c, http.StatusConflict, err.Error())
}
