package voicesearch

import (
	"context"
	"sync/atomic"
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
	"recruit-workers/internal/voice"
	executesearch "recruit-workers/internal/workers/search/execute-search"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{Timeout: 5 * time.Second}
}

func createTestLogger(t *testing.T) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}

type countingRecognizer struct {
	transcript string
	calls      int32
}

func (c *countingRecognizer) Recognize(ctx context.Context, req voice.Request) (string, error) {
	atomic.AddInt32(&c.calls, 1)
	return c.transcript, nil
}

func (c *countingRecognizer) Calls() int {
	return int(atomic.LoadInt32(&c.calls))
}

type fakeResolver struct{}

func (fakeResolver) Require(ctx context.Context, userID string) (identity.Identity, error) {
	if userID != "cand-1" {
		return identity.Identity{}, apperrors.NewIdentityNotLoadedError(userID)
	}
	return identity.Identity{State: identity.Loaded, Profile: &models.Profile{ID: "cand-1", Role: models.RoleCandidate}}, nil
}

type fakeSearcher struct {
	inputs []*executesearch.Input
}

func (f *fakeSearcher) Execute(ctx context.Context, input *executesearch.Input) (*executesearch.Output, error) {
	f.inputs = append(f.inputs, input)
	return &executesearch.Output{
		Results:     []models.SearchResult{{}},
		ResultCount: 1,
		Target:      models.SearchTargetJobs,
	}, nil
}

// ==========================
// Transcript Flow
// ==========================

func TestHandler_Execute_FeedsTranscriptToSearch(t *testing.T) {
	searcher := &fakeSearcher{}
	recognizer := &countingRecognizer{transcript: " remote react jobs "}
	sessions := voice.NewSessions(recognizer)
	handler := NewHandler(createTestConfig(), fakeResolver{}, sessions, searcher, createTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{UserID: "cand-1", AudioURL: "https://cdn/a.webm"})
	require.NoError(t, err)

	assert.Equal(t, "remote react jobs", output.Transcript)
	require.Len(t, searcher.inputs, 1)
	assert.Equal(t, "remote react jobs", searcher.inputs[0].Query)
	assert.Equal(t, "cand-1", searcher.inputs[0].UserID)
	assert.Equal(t, 1, output.Search.ResultCount)
	assert.Equal(t, 1, recognizer.Calls())
	assert.Equal(t, 0, sessions.Len())
}

func TestHandler_Execute_VoiceUnavailable(t *testing.T) {
	searcher := &fakeSearcher{}
	handler := NewHandler(LoadConfig(), fakeResolver{}, voice.NewSessions(nil), searcher, createTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{UserID: "cand-1", AudioURL: "a"})
	stdErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeVoiceUnavailable, stdErr.Code)
	assert.True(t, stdErr.Alert)
	assert.Empty(t, searcher.inputs)
}

func TestHandler_Execute_NoSpeech(t *testing.T) {
	searcher := &fakeSearcher{}
	handler := NewHandler(LoadConfig(), fakeResolver{}, voice.NewSessions(&countingRecognizer{}), searcher, createTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{UserID: "cand-1", AudioURL: "a"})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeVoiceRecognition))
	assert.Empty(t, searcher.inputs)
}

// ==========================
// Identity Gate
// ==========================

func TestHandler_Execute_UnloadedIdentitySkipsRecognizer(t *testing.T) {
	tests := []struct {
		name   string
		userID string
		expect func(mock sqlmock.Sqlmock)
	}{
		{name: "empty user id", userID: ""},
		{
			name:   "profile not created yet",
			userID: "new-user",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM profiles`).
					WithArgs("new-user").
					WillReturnRows(sqlmock.NewRows([]string{"id", "email", "first_name", "last_name", "role", "company_id", "location"}))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			if tt.expect != nil {
				tt.expect(mock)
			}

			log := createTestLogger(t)
			recognizer := &countingRecognizer{transcript: "go developer"}
			searcher := &fakeSearcher{}
			sessions := voice.NewSessions(recognizer)
			handler := NewHandler(createTestConfig(), identity.NewResolver(db, nil, 0, log), sessions, searcher, log)

			_, err = handler.Execute(context.Background(), &Input{UserID: tt.userID, AudioURL: "https://cdn/a.webm"})
			assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeIdentityNotLoaded))
			assert.Equal(t, 0, recognizer.Calls())
			assert.Empty(t, searcher.inputs)
			assert.Equal(t, 0, sessions.Len())
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHandler_Execute_NilInput(t *testing.T) {
	handler := NewHandler(createTestConfig(), fakeResolver{}, voice.NewSessions(nil), &fakeSearcher{}, createTestLogger(t))

	_, err := handler.Execute(context.Background(), nil)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidInput))
}
