package httpapi

import (
	"errors"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/tasknest/internal/common"
	"github.com/dmitrijs2005/tasknest/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const taskID = "0b7e2c9a-3f4d-4e1b-8a6c-2d9f1e0a7b35"

func intPtr(n int) *int { return &n }

func TestTasksRequireAuth(t *testing.T) {
	s := newTestServer(nil, &stubTasks{})

	for _, r := range []struct{ method, path string }{
		{http.MethodGet, "/tasks"},
		{http.MethodGet, "/tasks/search/search"},
		{http.MethodGet, "/tasks/" + taskID},
		{http.MethodPost, "/tasks"},
		{http.MethodPatch, "/tasks/" + taskID},
		{http.MethodPatch, "/tasks/" + taskID + "/comments"},
		{http.MethodDelete, "/tasks/" + taskID},
		{http.MethodDelete, "/tasks/" + taskID + "/comments/c1"},
	} {
		rec := do(t, s, r.method, r.path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", r.method, r.path)
	}
}

func TestListTasks(t *testing.T) {
	var gotWho string
	var gotPage int
	var gotSort models.TaskSort
	s := newTestServer(nil, &stubTasks{list: func(who string, page int, sort models.TaskSort) (*models.TaskPage, error) {
		gotWho, gotPage, gotSort = who, page, sort
		return &models.TaskPage{Tasks: []models.Task{}, CurrentPage: intPtr(2), NumberOfPages: intPtr(3)}, nil
	}})

	rec := do(t, s, http.MethodGet, "/tasks?page=2&sort=dueDate", "", sessionFor(t, "ada@example.com"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"tasks":[],"currentPage":2,"numberOfPages":3}`, rec.Body.String())
	assert.Equal(t, "ada@example.com", gotWho)
	assert.Equal(t, 2, gotPage)
	assert.Equal(t, models.SortDueDateAsc, gotSort)
}

func TestListTasks_Error(t *testing.T) {
	s := newTestServer(nil, &stubTasks{list: func(string, int, models.TaskSort) (*models.TaskPage, error) {
		return nil, errors.New("db down")
	}})

	rec := do(t, s, http.MethodGet, "/tasks", "", sessionFor(t, "ada@example.com"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "db down", messageOf(t, rec))
}

func TestSearchTasks_ParsesQuery(t *testing.T) {
	var got models.TaskSearch
	s := newTestServer(nil, &stubTasks{search: func(_ string, q models.TaskSearch) (*models.TaskPage, error) {
		got = q
		return &models.TaskPage{}, nil
	}})

	rec := do(t, s, http.MethodGet, "/tasks/search/search?searchQuery=null&searchTags=x,y&page=1&sort=createdAt",
		"", sessionFor(t, "ada@example.com"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"tasks":null,"currentPage":null,"numberOfPages":null}`, rec.Body.String())
	assert.Equal(t, models.TaskSearch{Tags: []string{"x", "y"}, Page: 1, Sort: models.SortCreatedAtDesc}, got)
}

func TestSearchTasks_Error(t *testing.T) {
	s := newTestServer(nil, &stubTasks{search: func(string, models.TaskSearch) (*models.TaskPage, error) {
		return nil, errors.New("boom")
	}})

	rec := do(t, s, http.MethodGet, "/tasks/search/search?searchQuery=a&page=1", "", sessionFor(t, "ada@example.com"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No tasks found", messageOf(t, rec))
}

func TestGetTask(t *testing.T) {
	s := newTestServer(nil, &stubTasks{get: func(who, id string) (*models.Task, error) {
		if who == "ada@example.com" && id == taskID {
			return &models.Task{ID: id, Title: "mine"}, nil
		}
		return nil, nil
	}})

	rec := do(t, s, http.MethodGet, "/tasks/"+taskID, "", sessionFor(t, "ada@example.com"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"title":"mine"`)

	rec = do(t, s, http.MethodGet, "/tasks/"+taskID, "", sessionFor(t, "eve@example.com"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", trimmed(rec.Body.String()))
}

func TestCreateTask(t *testing.T) {
	var got models.TaskInput
	s := newTestServer(nil, &stubTasks{create: func(who string, in models.TaskInput) (*models.Task, error) {
		got = in
		return &models.Task{ID: taskID, Title: in.Title, Creator: who}, nil
	}})

	rec := do(t, s, http.MethodPost, "/tasks", `{"title":"Buy milk","tags":["home"],"creator":"spoof@example.com"}`,
		sessionFor(t, "ada@example.com"))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"creator":"ada@example.com"`)
	assert.Equal(t, []string{"home"}, got.Tags)
}

func TestCreateTask_Errors(t *testing.T) {
	s := newTestServer(nil, &stubTasks{create: func(string, models.TaskInput) (*models.Task, error) {
		return nil, errors.New("constraint")
	}})
	token := sessionFor(t, "ada@example.com")

	rec := do(t, s, http.MethodPost, "/tasks", `{"title":"x"}`, token)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "constraint", messageOf(t, rec))

	rec = do(t, s, http.MethodPost, "/tasks", `{"title":`, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid body", messageOf(t, rec))
}

func TestUpdateTask(t *testing.T) {
	var got models.TaskPatch
	s := newTestServer(nil, &stubTasks{update: func(id string, p models.TaskPatch) (*models.Task, error) {
		switch id {
		case taskID:
			got = p
			return &models.Task{ID: id, IsCompleted: *p.IsCompleted}, nil
		case "bad":
			return nil, common.ErrInvalidID
		case "conflict":
			return nil, errors.New("boom")
		}
		return nil, nil
	}})
	token := sessionFor(t, "ada@example.com")

	rec := do(t, s, http.MethodPatch, "/tasks/"+taskID, `{"isCompleted":true}`, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, got.Title)
	assert.True(t, *got.IsCompleted)

	rec = do(t, s, http.MethodPatch, "/tasks/bad", `{"isCompleted":true}`, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No task with that id", messageOf(t, rec))

	rec = do(t, s, http.MethodPatch, "/tasks/conflict", `{}`, token)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, s, http.MethodPatch, "/tasks/4b1c2d3e-0000-4000-8000-000000000000", `{}`, token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", trimmed(rec.Body.String()))
}

func TestDeleteTask(t *testing.T) {
	s := newTestServer(nil, &stubTasks{del: func(id string) error {
		if id != taskID {
			return common.ErrInvalidID
		}
		return nil
	}})
	token := sessionFor(t, "ada@example.com")

	rec := do(t, s, http.MethodDelete, "/tasks/"+taskID, "", token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Task deleted successfully", messageOf(t, rec))

	rec = do(t, s, http.MethodDelete, "/tasks/nope", "", token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestComments(t *testing.T) {
	var added models.CommentInput
	var removedTask, removed string
	s := newTestServer(nil, &stubTasks{
		addComment: func(id string, in models.CommentInput) (*models.Task, error) {
			if id != taskID {
				return nil, common.ErrorNotFound
			}
			added = in
			return &models.Task{ID: id, Comments: []models.Comment{{ID: "c1", Text: in.Text}}}, nil
		},
		deleteComment: func(taskID, commentID string) (*models.Task, error) {
			removedTask, removed = taskID, commentID
			return &models.Task{ID: taskID, Comments: []models.Comment{}}, nil
		},
	})
	token := sessionFor(t, "ada@example.com")

	rec := do(t, s, http.MethodPatch, "/tasks/"+taskID+"/comments", `{"text":"hi","name":"Ada","creator":"ada@example.com"}`, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hi", added.Text)

	rec = do(t, s, http.MethodPatch, "/tasks/other/comments", `{"text":"hi"}`, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No task with that id", messageOf(t, rec))

	rec = do(t, s, http.MethodDelete, "/tasks/"+taskID+"/comments/c1", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, taskID, removedTask)
	assert.Equal(t, "c1", removed)
}

func trimmed(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == ' ') {
		s = s[:len(s)-1]
	}
	return s
}
