package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/tasknest/internal/common"
	"github.com/dmitrijs2005/tasknest/internal/server/models"
	"github.com/dmitrijs2005/tasknest/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// TaskService lists, searches and mutates tasks. Reads are always scoped
// to the caller's email; mutations address tasks by id alone.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	pageSize    int
	now         func() time.Time
}

func NewTaskService(db *sql.DB, m repomanager.RepositoryManager) *TaskService {
	return &TaskService{
		db:          db,
		repomanager: m,
		pageSize:    common.TasksPageSize,
		now:         time.Now,
	}
}

// List returns one page of the caller's tasks. Pages below 1 are read as 1.
func (s *TaskService) List(ctx context.Context, identity string, page int, sort models.TaskSort) (*models.TaskPage, error) {
	if page < 1 {
		page = 1
	}
	return s.page(ctx, models.TaskFilter{Creator: identity}, page, sort)
}

// Search matches the caller's tasks by title substring and tags. Without a
// page nothing is queried and every field is null; with a page but no
// criteria only the page is echoed back.
func (s *TaskService) Search(ctx context.Context, identity string, q models.TaskSearch) (*models.TaskPage, error) {
	if q.Page < 1 {
		return &models.TaskPage{}, nil
	}
	if q.Title == "" && len(q.Tags) == 0 {
		page := q.Page
		return &models.TaskPage{CurrentPage: &page}, nil
	}

	filter := models.TaskFilter{Creator: identity, Title: q.Title, Tags: q.Tags}
	return s.page(ctx, filter, q.Page, q.Sort)
}

// Get returns the task when identity owns it and nil otherwise.
func (s *TaskService) Get(ctx context.Context, identity, id string) (*models.Task, error) {
	task, err := s.repomanager.Tasks(s.db).GetForCreator(ctx, id, identity)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Create(ctx context.Context, identity string, in models.TaskInput) (*models.Task, error) {
	task := &models.Task{
		Title:       in.Title,
		Name:        in.Name,
		IsCompleted: in.IsCompleted,
		Content:     in.Content,
		Creator:     identity,
		DueDate:     in.DueDate,
		Tags:        in.Tags,
		CreatedAt:   s.now().UTC(),
	}

	created, err := s.repomanager.Tasks(s.db).Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("error creating task: %w", err)
	}
	return created, nil
}

// Update applies patch and returns the task, or nil when no task has id.
func (s *TaskService) Update(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	task, err := s.repomanager.Tasks(s.db).Update(ctx, id, patch)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	}
	return task, err
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	return s.repomanager.Tasks(s.db).Delete(ctx, id)
}

// AddComment appends a comment stamped with a fresh id and the current time.
func (s *TaskService) AddComment(ctx context.Context, id string, in models.CommentInput) (*models.Task, error) {
	comment := models.Comment{
		ID:        uuid.NewString(),
		Creator:   in.Creator,
		Text:      in.Text,
		Name:      in.Name,
		CreatedAt: s.now().UTC(),
	}
	return s.repomanager.Tasks(s.db).AddComment(ctx, id, comment)
}

// DeleteComment removes one comment, or returns nil when no task has id.
func (s *TaskService) DeleteComment(ctx context.Context, taskID, commentID string) (*models.Task, error) {
	task, err := s.repomanager.Tasks(s.db).DeleteComment(ctx, taskID, commentID)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	}
	return task, err
}

// page counts and fetches separately; the two reads are not atomic.
func (s *TaskService) page(ctx context.Context, filter models.TaskFilter, page int, sort models.TaskSort) (*models.TaskPage, error) {
	repo := s.repomanager.Tasks(s.db)

	total, err := repo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error counting tasks: %w", err)
	}

	tasks, err := repo.Find(ctx, models.TaskQuery{
		Filter: filter,
		Sort:   sort,
		Limit:  s.pageSize,
		Offset: (page - 1) * s.pageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("error fetching tasks: %w", err)
	}

	pages := (total + s.pageSize - 1) / s.pageSize
	return &models.TaskPage{Tasks: tasks, CurrentPage: &page, NumberOfPages: &pages}, nil
}
