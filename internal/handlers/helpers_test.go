package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"DocControl/internal/auth"
	"DocControl/internal/config"
	"DocControl/internal/handlers"
	"DocControl/internal/model"
	"DocControl/internal/repo"
	"DocControl/internal/service"
)

// Minimal mocks
type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetUserByLogin(ctx context.Context, login string) (*model.User, error) {
	args := m.Called(ctx, login)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repo.UserRepository = (*mockUserRepo)(nil)

type mockDocRepo struct{ mock.Mock }

func (m *mockDocRepo) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	args := m.Called(ctx, doc)
	if d, ok := args.Get(0).(*model.Document); ok {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDocRepo) GetByID(ctx context.Context, id int64) (*model.Document, error) {
	args := m.Called(ctx, id)
	if d, ok := args.Get(0).(*model.Document); ok {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDocRepo) ListByUser(ctx context.Context, userID int64) ([]model.Document, error) {
	args := m.Called(ctx, userID)
	if v, ok := args.Get(0).([]model.Document); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDocRepo) UpdateAnalysis(ctx context.Context, id int64, percent float64, description, annPDFPath string) error {
	return m.Called(ctx, id, percent, description, annPDFPath).Error(0)
}

var _ repo.DocumentRepository = (*mockDocRepo)(nil)

// стаб анализатора — записывает запуски
type stubAnalyzer struct {
	runs []int64
}

func (s *stubAnalyzer) Run(docID int64) {
	s.runs = append(s.runs, docID)
}

// --- Helpers ---
type testEnv struct {
	router   http.Handler
	cfg      *config.Config
	codec    *auth.TokenCodec
	users    *mockUserRepo
	docs     *mockDocRepo
	analyzer *stubAnalyzer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := &config.Config{
		AuthSecret:   "test-secret",
		TokenTTL:     time.Hour,
		StorageDir:   t.TempDir(),
		AllowedRoots: []string{"data", "reports", "output"},
		ElevatedRole: model.RoleNormController,
		PublicPaths:  []string{"/auth/login", "/auth/register"},
	}
	logger := zap.NewNop().Sugar()

	ur := &mockUserRepo{}
	dr := &mockDocRepo{}
	an := &stubAnalyzer{}
	codec := auth.NewTokenCodec(cfg.AuthSecret)

	userSvc := service.NewUserService(ur)
	docSvc := service.NewDocumentService(dr)
	policy := service.NewAccessPolicy(dr, cfg.StorageDir, cfg.AllowedRoots, cfg.ElevatedRole)

	h := handlers.NewHandler(userSvc, docSvc, policy, an, codec, logger, cfg)
	return &testEnv{router: h.Router, cfg: cfg, codec: codec, users: ur, docs: dr, analyzer: an}
}

func (e *testEnv) bearer(t *testing.T, login string) string {
	t.Helper()
	tok, err := e.codec.Issue(login, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return "Bearer " + tok
}

func (e *testEnv) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) writeStorageFile(t *testing.T, rel, content string) {
	t.Helper()
	full := filepath.Join(e.cfg.StorageDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
