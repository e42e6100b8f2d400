package history

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"recruit-workers/internal/common/config"
	"recruit-workers/internal/common/logger"
	"recruit-workers/internal/models"
)

func createTestLogger(t *testing.T) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}

func TestRecorder_WritesQueuedEntriesBeforeClose(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	filters := `{"location":"Berlin","experience":"","salary":"","remote":false}`
	mock.ExpectExec(`INSERT INTO search_history`).
		WithArgs(sqlmock.AnyArg(), "user-1", "golang", []byte(filters), nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	r := NewRecorder(db, config.HistoryConfig{QueueSize: 4, Workers: 1}, createTestLogger(t))
	assert.True(t, r.Record("user-1", "golang", models.SearchFilters{Location: "Berlin"}))
	r.Close()

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecorder_FailedWriteIsNotRetried(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO search_history`).WillReturnError(errors.New("disk full"))

	r := NewRecorder(db, config.HistoryConfig{QueueSize: 4, Workers: 1}, createTestLogger(t))
	assert.True(t, r.Record("user-1", "react", models.SearchFilters{}))
	r.Close()

	// a retry would surface as an unexpected second exec
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecorder_DropsWhenQueueFull(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := &Recorder{
		db:     db,
		queue:  make(chan models.SearchHistoryEntry, 1),
		logger: createTestLogger(t),
	}
	// no workers are running, so the second entry has nowhere to go
	assert.True(t, r.Record("user-1", "first", models.SearchFilters{}))
	assert.False(t, r.Record("user-1", "second", models.SearchFilters{}))
	assert.Len(t, r.queue, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecorder_RecordAfterClose(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := NewRecorder(db, config.HistoryConfig{}, createTestLogger(t))
	r.Close()
	r.Close()

	assert.False(t, r.Record("user-1", "late", models.SearchFilters{}))
}
