package httpapi

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/dmkoval/metools/internal/common"
	"github.com/dmkoval/metools/internal/dbx"
	"github.com/dmkoval/metools/internal/logging"
	"github.com/dmkoval/metools/internal/server/config"
	"github.com/dmkoval/metools/internal/server/models"
	tasksrepo "github.com/dmkoval/metools/internal/server/repositories/tasks"
	usersrepo "github.com/dmkoval/metools/internal/server/repositories/users"
	verifytokensrepo "github.com/dmkoval/metools/internal/server/repositories/verifytokens"
	"github.com/dmkoval/metools/internal/server/services"
)

// In-memory repositories backing the endpoint tests. The real transaction
// boundary still runs against an sqlite handle so Begin/Commit/Rollback work.

type memUsersRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemUsersRepo() *memUsersRepo {
	return &memUsersRepo{users: map[string]*models.User{}}
}

func (r *memUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return nil, fmt.Errorf("db error: %w", errors.New("unique constraint violation"))
		}
	}
	stored := *u
	stored.ID = uuid.NewString()
	stored.Role = models.RoleUser
	stored.CreatedAt = time.Now()
	r.users[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (r *memUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			out := *u
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		out := *u
		return &out, nil
	}
	return nil, common.ErrorNotFound
}

func (r *memUsersRepo) MarkVerified(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.IsVerified = true
	return nil
}

type memVerifyTokensRepo struct {
	mu     sync.Mutex
	tokens map[string]*models.VerifyToken
}

func newMemVerifyTokensRepo() *memVerifyTokensRepo {
	return &memVerifyTokensRepo{tokens: map[string]*models.VerifyToken{}}
}

func (r *memVerifyTokensRepo) Create(ctx context.Context, userID string, token string, validUntil time.Time) (*models.VerifyToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	vt := &models.VerifyToken{
		ID:         uuid.NewString(),
		UserID:     userID,
		Token:      token,
		CreatedAt:  time.Now(),
		ValidUntil: validUntil,
	}
	r.tokens[vt.ID] = vt
	out := *vt
	return &out, nil
}

func (r *memVerifyTokensRepo) GetLive(ctx context.Context, token string, now time.Time) (*models.VerifyToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, vt := range r.tokens {
		if vt.Token == token && vt.ValidUntil.After(now) {
			out := *vt
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memVerifyTokensRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tokens[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.tokens, id)
	return nil
}

func (r *memVerifyTokensRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for id, vt := range r.tokens {
		if !vt.ValidUntil.After(now) {
			delete(r.tokens, id)
			count++
		}
	}
	return count, nil
}

type memTasksRepo struct {
	mu    sync.Mutex
	tasks map[string]*models.Task
}

func newMemTasksRepo() *memTasksRepo {
	return &memTasksRepo{tasks: map[string]*models.Task{}}
}

func (r *memTasksRepo) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *task
	stored.ID = uuid.NewString()
	stored.CreatedAt = time.Now()
	r.tasks[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (r *memTasksRepo) ListByUser(ctx context.Context, userID string) ([]models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Task
	for _, t := range r.tasks {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *memTasksRepo) Delete(ctx context.Context, id string, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return common.ErrorNotFound
	}
	delete(r.tasks, id)
	return nil
}

type memRepoManager struct {
	users        *memUsersRepo
	verifyTokens *memVerifyTokensRepo
	tasks        *memTasksRepo
}

func (m *memRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memRepoManager) Users(dbx.DBTX) usersrepo.Repository          { return m.users }
func (m *memRepoManager) VerifyTokens(dbx.DBTX) verifytokensrepo.Repository {
	return m.verifyTokens
}
func (m *memRepoManager) Tasks(dbx.DBTX) tasksrepo.Repository { return m.tasks }

type testNotifier struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (n *testNotifier) SendVerificationMail(ctx context.Context, toMail string, verifyKey string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.keys = append(n.keys, verifyKey)
	return nil
}

func (n *testNotifier) lastKey(t *testing.T) string {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.keys) == 0 {
		t.Fatal("no verification mail was sent")
	}
	return n.keys[len(n.keys)-1]
}

type testEnv struct {
	server   *Server
	handler  http.Handler
	rm       *memRepoManager
	notifier *testNotifier
	cfg      *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("error opening sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{}
	cfg.LoadDefaults()

	rm := &memRepoManager{
		users:        newMemUsersRepo(),
		verifyTokens: newMemVerifyTokensRepo(),
		tasks:        newMemTasksRepo(),
	}
	notifier := &testNotifier{}
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	vs := services.NewVerificationService(db, rm, cfg)
	us := services.NewUserService(db, rm, vs, notifier, logger)
	ts := services.NewTaskService(db, rm)

	srv := NewServer(cfg, logger, us, ts, vs)
	return &testEnv{
		server:   srv,
		handler:  srv.routes(),
		rm:       rm,
		notifier: notifier,
		cfg:      cfg,
	}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}
