package models

import "time"

// ContentItem is one checklist line of a task.
type ContentItem struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// Comment is embedded in exactly one Task.
type Comment struct {
	ID        string    `json:"_id"`
	Creator   string    `json:"creator"`
	Text      string    `json:"text"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Task is owned by the account whose email is in Creator.
type Task struct {
	ID          string        `json:"_id"`
	Title       string        `json:"title"`
	Name        string        `json:"name"`
	IsCompleted bool          `json:"isCompleted"`
	Content     []ContentItem `json:"content"`
	Creator     string        `json:"creator"`
	DueDate     *time.Time    `json:"dueDate"`
	Tags        []string      `json:"tags"`
	CreatedAt   time.Time     `json:"createdAt"`
	Comments    []Comment     `json:"comments"`
}

// TaskInput carries client-supplied fields for a new task. Creator,
// CreatedAt and ID are always stamped by the server.
type TaskInput struct {
	Title       string        `json:"title"`
	Name        string        `json:"name"`
	IsCompleted bool          `json:"isCompleted"`
	Content     []ContentItem `json:"content"`
	DueDate     *time.Time    `json:"dueDate"`
	Tags        []string      `json:"tags"`
}

// TaskPatch overwrites only the non-nil fields.
type TaskPatch struct {
	Title       *string        `json:"title"`
	Name        *string        `json:"name"`
	IsCompleted *bool          `json:"isCompleted"`
	Content     *[]ContentItem `json:"content"`
	DueDate     *time.Time     `json:"dueDate"`
	Tags        *[]string      `json:"tags"`
}

// CommentInput carries client-supplied comment fields.
type CommentInput struct {
	Creator string `json:"creator"`
	Text    string `json:"text"`
	Name    string `json:"name"`
}

// TaskPage is one page of a listing or search. Nil pointers serialize as
// JSON null, which is what search returns when it was not executed.
type TaskPage struct {
	Tasks         []Task `json:"tasks"`
	CurrentPage   *int   `json:"currentPage"`
	NumberOfPages *int   `json:"numberOfPages"`
}
