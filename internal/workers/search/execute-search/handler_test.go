package executesearch

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	apperrors "recruit-workers/internal/common/errors"
	"recruit-workers/internal/common/logger"
	"recruit-workers/internal/identity"
	"recruit-workers/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	cfg := LoadConfig()
	cfg.Timeout = 5 * time.Second
	return cfg
}

func createTestLogger(t *testing.T) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}

type fakeResolver struct {
	profiles map[string]*models.Profile
}

func (f *fakeResolver) Require(ctx context.Context, userID string) (identity.Identity, error) {
	if p, ok := f.profiles[userID]; ok {
		return identity.Identity{State: identity.Loaded, Profile: p}, nil
	}
	return identity.Identity{}, apperrors.NewIdentityNotLoadedError(userID)
}

type recordedSearch struct {
	userID  string
	query   string
	filters models.SearchFilters
}

type fakeDispatcher struct {
	mu      sync.Mutex
	records []recordedSearch
	accept  bool
}

func (f *fakeDispatcher) Record(userID, query string, filters models.SearchFilters) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, recordedSearch{userID, query, filters})
	return f.accept
}

type fakeBackend struct {
	results  []models.SearchResult
	err      error
	target   models.SearchTarget
	limit    int
	calls    int
	recorded func() int
	seen     int
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Search(ctx context.Context, target models.SearchTarget, query string, filters models.SearchFilters, limit int) ([]models.SearchResult, error) {
	f.calls++
	f.target = target
	f.limit = limit
	if f.recorded != nil {
		f.seen = f.recorded()
	}
	return f.results, f.err
}

func newTestHandler(t *testing.T, backend *fakeBackend) (*Handler, *fakeDispatcher) {
	t.Helper()
	resolver := &fakeResolver{profiles: map[string]*models.Profile{
		"rec-1":  {ID: "rec-1", Role: models.RoleRecruiter},
		"cand-1": {ID: "cand-1", Role: models.RoleCandidate},
	}}
	dispatcher := &fakeDispatcher{accept: true}
	backend.recorded = func() int {
		dispatcher.mu.Lock()
		defer dispatcher.mu.Unlock()
		return len(dispatcher.records)
	}
	return NewHandler(createTestConfig(), resolver, dispatcher, backend, createTestLogger(t)), dispatcher
}

// ==========================
// Search Flow
// ==========================

func TestHandler_Execute_BlankQueryIsNoOp(t *testing.T) {
	backend := &fakeBackend{}
	handler, dispatcher := newTestHandler(t, backend)

	for _, q := range []string{"", "   ", "\t\n"} {
		output, err := handler.Execute(context.Background(), &Input{UserID: "rec-1", Query: q})
		require.NoError(t, err)
		assert.True(t, output.Skipped)
		assert.Empty(t, output.Results)
	}
	assert.Zero(t, backend.calls)
	assert.Empty(t, dispatcher.records)
}

func TestHandler_Execute_NotLoadedFailsWithoutWrites(t *testing.T) {
	backend := &fakeBackend{}
	handler, dispatcher := newTestHandler(t, backend)

	_, err := handler.Execute(context.Background(), &Input{UserID: "ghost", Query: "go"})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeIdentityNotLoaded))
	assert.Zero(t, backend.calls)
	assert.Empty(t, dispatcher.records)
}

func TestHandler_Execute_InvalidFilters(t *testing.T) {
	backend := &fakeBackend{}
	handler, dispatcher := newTestHandler(t, backend)

	_, err := handler.Execute(context.Background(), &Input{
		UserID:  "rec-1",
		Query:   "go",
		Filters: json.RawMessage(`{"salary":"a lot"}`),
	})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidFilterFormat))
	assert.Zero(t, backend.calls)
	assert.Empty(t, dispatcher.records)
}

func TestHandler_Execute_TargetsByRole(t *testing.T) {
	tests := []struct {
		userID string
		want   models.SearchTarget
	}{
		{userID: "rec-1", want: models.SearchTargetCandidates},
		{userID: "cand-1", want: models.SearchTargetJobs},
	}

	for _, tt := range tests {
		t.Run(tt.userID, func(t *testing.T) {
			backend := &fakeBackend{results: []models.SearchResult{{}, {}}}
			handler, _ := newTestHandler(t, backend)

			output, err := handler.Execute(context.Background(), &Input{UserID: tt.userID, Query: "react", Limit: 500})
			require.NoError(t, err)
			assert.Equal(t, tt.want, output.Target)
			assert.Equal(t, tt.want, backend.target)
			assert.Equal(t, 2, output.ResultCount)
			assert.Equal(t, 100, backend.limit)
		})
	}
}

func TestHandler_Execute_HistoryDispatchedOnceBeforeSearch(t *testing.T) {
	tests := []struct {
		name       string
		backendErr error
	}{
		{name: "search succeeds"},
		{name: "search fails", backendErr: errors.New("connection reset")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeBackend{results: []models.SearchResult{{}}, err: tt.backendErr}
			handler, dispatcher := newTestHandler(t, backend)

			output, err := handler.Execute(context.Background(), &Input{
				UserID:  "cand-1",
				Query:   "  golang  ",
				Filters: json.RawMessage(`{"remote":true}`),
			})
			require.NoError(t, err)

			require.Len(t, dispatcher.records, 1)
			assert.Equal(t, recordedSearch{"cand-1", "golang", models.SearchFilters{Remote: true}}, dispatcher.records[0])
			assert.Equal(t, 1, backend.seen, "history must be dispatched before the search runs")
			assert.True(t, output.HistoryDispatched)

			if tt.backendErr != nil {
				assert.Empty(t, output.Results)
				assert.Zero(t, output.ResultCount)
			}
		})
	}
}

func TestHandler_Execute_DroppedHistoryDoesNotBlockSearch(t *testing.T) {
	backend := &fakeBackend{results: []models.SearchResult{{}}}
	handler, dispatcher := newTestHandler(t, backend)
	dispatcher.accept = false

	output, err := handler.Execute(context.Background(), &Input{UserID: "rec-1", Query: "go"})
	require.NoError(t, err)
	assert.False(t, output.HistoryDispatched)
	assert.Equal(t, 1, output.ResultCount)
}

// ==========================
// Backends
// ==========================

func TestPostgresBackend_Search(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM jobs j\s+LEFT JOIN companies co`).
		WithArgs("active", "%go%", `["go"]`, 10).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "company_id", "title", "description", "location", "remote_ok",
			"salary_min", "salary_max", "skills", "status", "created_at", "co_id", "name", "logo_url",
		}).AddRow("job-1", "co-1", "Go Dev", "desc", nil, true, nil, nil, []byte(`["go"]`), "active", time.Now(), nil, nil, nil))

	results, err := NewPostgresBackend(db).Search(context.Background(), models.SearchTargetJobs, "go", models.SearchFilters{}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Nil(t, results[0].Job.Company)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfig_Limit(t *testing.T) {
	cfg := LoadConfig()
	assert.Equal(t, 50, cfg.limit(0))
	assert.Equal(t, 100, cfg.limit(101))
	assert.Equal(t, 7, cfg.limit(7))
}
