package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/tasknest/internal/logging"
	"github.com/dmitrijs2005/tasknest/internal/server/auth"
	"github.com/dmitrijs2005/tasknest/internal/server/models"
	"github.com/stretchr/testify/require"
)

// --- stubs ---

type stubAccounts struct {
	signUp      func(models.SignUpRequest) error
	confirm     func(string) (*models.Profile, error)
	signIn      func(models.SignInRequest) (*models.Profile, error)
	forget      func(string) error
	reset       func(token, password string) error
	sendConfirm func(string) error
}

func (s *stubAccounts) SignUp(_ context.Context, r models.SignUpRequest) error { return s.signUp(r) }
func (s *stubAccounts) Confirm(_ context.Context, t string) (*models.Profile, error) {
	return s.confirm(t)
}
func (s *stubAccounts) SignIn(_ context.Context, r models.SignInRequest) (*models.Profile, error) {
	return s.signIn(r)
}
func (s *stubAccounts) Forget(_ context.Context, e string) error      { return s.forget(e) }
func (s *stubAccounts) Reset(_ context.Context, t, p string) error    { return s.reset(t, p) }
func (s *stubAccounts) SendConfirm(_ context.Context, t string) error { return s.sendConfirm(t) }

type stubTasks struct {
	list          func(identity string, page int, sort models.TaskSort) (*models.TaskPage, error)
	search        func(identity string, q models.TaskSearch) (*models.TaskPage, error)
	get           func(identity, id string) (*models.Task, error)
	create        func(identity string, in models.TaskInput) (*models.Task, error)
	update        func(id string, p models.TaskPatch) (*models.Task, error)
	del           func(id string) error
	addComment    func(id string, in models.CommentInput) (*models.Task, error)
	deleteComment func(taskID, commentID string) (*models.Task, error)
}

func (s *stubTasks) List(_ context.Context, who string, page int, sort models.TaskSort) (*models.TaskPage, error) {
	return s.list(who, page, sort)
}
func (s *stubTasks) Search(_ context.Context, who string, q models.TaskSearch) (*models.TaskPage, error) {
	return s.search(who, q)
}
func (s *stubTasks) Get(_ context.Context, who, id string) (*models.Task, error) { return s.get(who, id) }
func (s *stubTasks) Create(_ context.Context, who string, in models.TaskInput) (*models.Task, error) {
	return s.create(who, in)
}
func (s *stubTasks) Update(_ context.Context, id string, p models.TaskPatch) (*models.Task, error) {
	return s.update(id, p)
}
func (s *stubTasks) Delete(_ context.Context, id string) error { return s.del(id) }
func (s *stubTasks) AddComment(_ context.Context, id string, in models.CommentInput) (*models.Task, error) {
	return s.addComment(id, in)
}
func (s *stubTasks) DeleteComment(_ context.Context, taskID, commentID string) (*models.Task, error) {
	return s.deleteComment(taskID, commentID)
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

// --- helpers ---

var testTokens = auth.NewTokenService([]byte("k"))

func newTestServer(as *stubAccounts, ts *stubTasks) *Server {
	if as == nil {
		as = &stubAccounts{}
	}
	if ts == nil {
		ts = &stubTasks{}
	}
	return NewServer("127.0.0.1:0", logging.NopLogger{}, as, ts, testTokens, stubPinger{}, Options{})
}

func sessionFor(t *testing.T, email string) string {
	t.Helper()
	tok, err := testTokens.IssueForEmail(email, time.Hour)
	require.NoError(t, err)
	return tok
}

func do(t *testing.T, s *Server, method, target, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func messageOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var m messageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m), rec.Body.String())
	return m.Message
}
