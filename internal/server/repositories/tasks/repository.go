package tasks

import (
	"context"

	"github.com/dmitrijs2005/tasknest/internal/server/models"
)

// Repository stores tasks with their embedded comments.
type Repository interface {
	Count(ctx context.Context, filter models.TaskFilter) (int, error)
	Find(ctx context.Context, query models.TaskQuery) ([]models.Task, error)
	GetForCreator(ctx context.Context, id string, creator string) (*models.Task, error)
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	Update(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, id string) error
	AddComment(ctx context.Context, id string, comment models.Comment) (*models.Task, error)
	DeleteComment(ctx context.Context, id string, commentID string) (*models.Task, error)
}
