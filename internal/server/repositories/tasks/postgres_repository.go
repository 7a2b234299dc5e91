// Package tasks persists tasks in PostgreSQL. Checklist content, tags and
// comments are kept as JSONB documents on the task row, so every mutation
// is a single statement.
package tasks

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/tasknest/internal/common"
	"github.com/dmitrijs2005/tasknest/internal/dbx"
	"github.com/dmitrijs2005/tasknest/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Count(ctx context.Context, filter models.TaskFilter) (int, error) {
	query, args := buildCount(filter)

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return n, nil
}

func (r *PostgresRepository) Find(ctx context.Context, q models.TaskQuery) ([]models.Task, error) {
	query, args := buildFind(q)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return tasks, nil
}

// GetForCreator returns the task only when creator owns it.
func (r *PostgresRepository) GetForCreator(ctx context.Context, id string, creator string) (*models.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}

	query := `SELECT ` + taskColumns + ` FROM tasks
		 WHERE id = $1 AND creator = $2`

	return scanTask(r.db.QueryRowContext(ctx, query, id, creator))
}

func (r *PostgresRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	normalize(task)

	content, err := json.Marshal(task.Content)
	if err != nil {
		return nil, err
	}
	tags, err := json.Marshal(task.Tags)
	if err != nil {
		return nil, err
	}
	comments, err := json.Marshal(task.Comments)
	if err != nil {
		return nil, err
	}

	query := `INSERT INTO tasks (` + taskColumns + `)
		 VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7, $8::jsonb, $9, $10::jsonb)`

	_, err = r.db.ExecContext(ctx, query,
		task.ID, task.Title, task.Name, task.IsCompleted, string(content),
		task.Creator, nullableTime(task.DueDate), string(tags), task.CreatedAt, string(comments))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

// Update overwrites the fields set in patch. It does not look at who
// owns the task.
func (r *PostgresRepository) Update(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrInvalidID
	}

	var content, tags any
	if patch.Content != nil {
		b, err := json.Marshal(nonNil(*patch.Content))
		if err != nil {
			return nil, err
		}
		content = string(b)
	}
	if patch.Tags != nil {
		b, err := json.Marshal(nonNil(*patch.Tags))
		if err != nil {
			return nil, err
		}
		tags = string(b)
	}

	query := `UPDATE tasks SET
		 title = COALESCE($2::text, title),
		 name = COALESCE($3::text, name),
		 is_completed = COALESCE($4::boolean, is_completed),
		 content = COALESCE($5::jsonb, content),
		 due_date = COALESCE($6::timestamptz, due_date),
		 tags = COALESCE($7::jsonb, tags)
		 WHERE id = $1
		 RETURNING ` + taskColumns

	row := r.db.QueryRowContext(ctx, query, id,
		nullableString(patch.Title), nullableString(patch.Name), nullableBool(patch.IsCompleted),
		content, nullableTime(patch.DueDate), tags)

	return scanTask(row)
}

// Delete removes the task regardless of owner. Deleting a missing task
// is not an error.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrInvalidID
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// AddComment appends comment to the end of the task's comment list.
func (r *PostgresRepository) AddComment(ctx context.Context, id string, comment models.Comment) (*models.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrInvalidID
	}

	b, err := json.Marshal(comment)
	if err != nil {
		return nil, err
	}

	query := `UPDATE tasks SET comments = comments || jsonb_build_array($2::jsonb)
		 WHERE id = $1
		 RETURNING ` + taskColumns

	return scanTask(r.db.QueryRowContext(ctx, query, id, string(b)))
}

// DeleteComment drops the comment with commentID and keeps the remaining
// comments in their original order.
func (r *PostgresRepository) DeleteComment(ctx context.Context, id string, commentID string) (*models.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrInvalidID
	}

	query := `UPDATE tasks SET comments = COALESCE(
		   (SELECT jsonb_agg(c.value ORDER BY c.ordinality)
		      FROM jsonb_array_elements(comments) WITH ORDINALITY AS c(value, ordinality)
		     WHERE c.value->>'_id' <> $2),
		   '[]'::jsonb)
		 WHERE id = $1
		 RETURNING ` + taskColumns

	return scanTask(r.db.QueryRowContext(ctx, query, id, commentID))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	var (
		t                       models.Task
		content, tags, comments []byte
		dueDate                 sql.NullTime
	)

	err := row.Scan(&t.ID, &t.Title, &t.Name, &t.IsCompleted, &content,
		&t.Creator, &dueDate, &tags, &t.CreatedAt, &comments)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := unmarshalColumn(content, &t.Content); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	if err := unmarshalColumn(tags, &t.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if err := unmarshalColumn(comments, &t.Comments); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}
	if dueDate.Valid {
		d := dueDate.Time
		t.DueDate = &d
	}

	normalize(&t)
	return &t, nil
}

func unmarshalColumn(b []byte, v any) error {
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, v)
}

// normalize replaces nil slices so they encode as [] rather than null.
func normalize(t *models.Task) {
	t.Content = nonNil(t.Content)
	t.Tags = nonNil(t.Tags)
	t.Comments = nonNil(t.Comments)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullableBool(b *bool) any {
	if b == nil {
		return nil
	}
	return *b
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
