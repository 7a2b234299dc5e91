package services

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/tasknest/internal/common"
	"github.com/dmitrijs2005/tasknest/internal/dbx"
	"github.com/dmitrijs2005/tasknest/internal/server/models"
	"github.com/dmitrijs2005/tasknest/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/tasknest/internal/server/repositories/tasks"
	"github.com/google/uuid"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// memAccounts is an in-memory accounts.Repository. When unique is set,
// duplicate emails are rejected the way the accounts table does.
type memAccounts struct {
	mu     sync.Mutex
	unique bool
	rows   []*models.Account
}

func (r *memAccounts) Create(_ context.Context, a *models.Account) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.ID == a.ID || (r.unique && row.Email == a.Email) {
			return nil, common.ErrorAlreadyExists
		}
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	cp := *a
	r.rows = append(r.rows, &cp)
	return a, nil
}

func (r *memAccounts) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Email == email {
			cp := *row
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memAccounts) GetByID(_ context.Context, id string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.ID == id {
			cp := *row
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memAccounts) UpdatePassword(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.ID == id {
			row.PasswordHash = hash
			return nil
		}
	}
	return common.ErrorNotFound
}

func (r *memAccounts) MarkConfirmed(_ context.Context, id string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.ID == id {
			row.Confirmed = true
			cp := *row
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

// memTasks is an in-memory tasks.Repository with the same filter rules as
// the SQL one: creator equality, case-insensitive title substring, and
// every tag contained in some task tag.
type memTasks struct {
	mu       sync.Mutex
	rows     []*models.Task
	countErr error
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func (r *memTasks) match(t *models.Task, f models.TaskFilter) bool {
	if t.Creator != f.Creator {
		return false
	}
	if f.Title != "" && !containsFold(t.Title, f.Title) {
		return false
	}
	for _, want := range f.Tags {
		found := false
		for _, tag := range t.Tags {
			if containsFold(tag, want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (r *memTasks) Count(_ context.Context, f models.TaskFilter) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.countErr != nil {
		return 0, r.countErr
	}
	n := 0
	for _, t := range r.rows {
		if r.match(t, f) {
			n++
		}
	}
	return n, nil
}

func (r *memTasks) Find(_ context.Context, q models.TaskQuery) ([]models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Task{}
	for _, t := range r.rows {
		if r.match(t, q.Filter) {
			out = append(out, *t)
		}
	}
	if q.Sort == models.SortCreatedAtDesc {
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	if q.Offset >= len(out) {
		return []models.Task{}, nil
	}
	out = out[q.Offset:]
	if len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (r *memTasks) find(id string) *models.Task {
	for _, t := range r.rows {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (r *memTasks) GetForCreator(_ context.Context, id, creator string) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	t := r.find(id)
	if t == nil || t.Creator != creator {
		return nil, common.ErrorNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *memTasks) Create(_ context.Context, t *models.Task) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	cp := *t
	r.rows = append(r.rows, &cp)
	return t, nil
}

func (r *memTasks) Update(_ context.Context, id string, p models.TaskPatch) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrInvalidID
	}
	t := r.find(id)
	if t == nil {
		return nil, common.ErrorNotFound
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.IsCompleted != nil {
		t.IsCompleted = *p.IsCompleted
	}
	if p.Content != nil {
		t.Content = *p.Content
	}
	if p.DueDate != nil {
		t.DueDate = p.DueDate
	}
	if p.Tags != nil {
		t.Tags = *p.Tags
	}
	cp := *t
	return &cp, nil
}

func (r *memTasks) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrInvalidID
	}
	for i, t := range r.rows {
		if t.ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			break
		}
	}
	return nil
}

func (r *memTasks) AddComment(_ context.Context, id string, c models.Comment) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrInvalidID
	}
	t := r.find(id)
	if t == nil {
		return nil, common.ErrorNotFound
	}
	t.Comments = append(t.Comments, c)
	cp := *t
	return &cp, nil
}

func (r *memTasks) DeleteComment(_ context.Context, id, commentID string) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrInvalidID
	}
	t := r.find(id)
	if t == nil {
		return nil, common.ErrorNotFound
	}
	kept := []models.Comment{}
	for _, c := range t.Comments {
		if c.ID != commentID {
			kept = append(kept, c)
		}
	}
	t.Comments = kept
	cp := *t
	return &cp, nil
}

type fakeRepoManager struct {
	accounts *memAccounts
	pending  *memAccounts
	tasks    *memTasks
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		accounts: &memAccounts{unique: true},
		pending:  &memAccounts{},
		tasks:    &memTasks{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Accounts(dbx.DBTX) accounts.Repository        { return m.accounts }
func (m *fakeRepoManager) PendingAccounts(dbx.DBTX) accounts.Repository { return m.pending }
func (m *fakeRepoManager) Tasks(dbx.DBTX) tasks.Repository              { return m.tasks }

type sentLink struct {
	to, name, token string
}

type fakeNotifier struct {
	mu                 sync.Mutex
	accountConfirms    []sentLink
	emailConfirms      []sentLink
	resets             []sentLink
	activations        []sentLink
	activationDelivery error
}

func (n *fakeNotifier) DispatchAccountConfirmation(_ context.Context, to, name, token string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.accountConfirms = append(n.accountConfirms, sentLink{to, name, token})
}

func (n *fakeNotifier) DispatchEmailConfirmation(_ context.Context, to, name, token string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.emailConfirms = append(n.emailConfirms, sentLink{to, name, token})
}

func (n *fakeNotifier) DispatchPasswordReset(_ context.Context, to, name, token string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.resets = append(n.resets, sentLink{to, name, token})
}

func (n *fakeNotifier) SendActivation(_ context.Context, to, name, token string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.activationDelivery != nil {
		return errors.Join(common.ErrDelivery, n.activationDelivery)
	}
	n.activations = append(n.activations, sentLink{to, name, token})
	return nil
}
