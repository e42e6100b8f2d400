// internal/history/recorder.go
package history

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"

	"recruit-workers/internal/common/config"
	"recruit-workers/internal/common/logger"
	"recruit-workers/internal/common/metrics"
	"recruit-workers/internal/models"
	"recruit-workers/internal/workers/data-access/query-postgresql/queries"
)

// Dispatcher accepts a search for recording without waiting on the write.
type Dispatcher interface {
	Record(userID, query string, filters models.SearchFilters) bool
}

// Recorder writes search history entries from a bounded queue on a small
// pool of goroutines. Writes are at-most-once: a failed insert is logged and
// counted, never retried, and a full queue drops the entry.
type Recorder struct {
	db           *sql.DB
	queue        chan models.SearchHistoryEntry
	writeTimeout time.Duration
	logger       logger.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewRecorder(db *sql.DB, cfg config.HistoryConfig, log logger.Logger) *Recorder {
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 256
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 2
	}
	timeout := time.Duration(cfg.WriteTimeout) * time.Millisecond
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	r := &Recorder{
		db:           db,
		queue:        make(chan models.SearchHistoryEntry, queueSize),
		writeTimeout: timeout,
		logger:       log.WithFields(map[string]interface{}{"component": "search-history"}),
	}

	r.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go r.run()
	}
	return r
}

// Record enqueues one history entry and reports whether it was accepted.
// It never blocks.
func (r *Recorder) Record(userID, query string, filters models.SearchFilters) bool {
	entry := models.SearchHistoryEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Query:     query,
		Filters:   filters,
		CreatedAt: time.Now().UTC(),
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		metrics.HistoryRecords.WithLabelValues("dropped").Inc()
		return false
	}

	select {
	case r.queue <- entry:
		metrics.HistoryQueueDepth.Inc()
		return true
	default:
		metrics.HistoryRecords.WithLabelValues("dropped").Inc()
		r.logger.Warn("search history queue full, dropping entry", map[string]interface{}{
			"userId": userID,
		})
		return false
	}
}

func (r *Recorder) run() {
	defer r.wg.Done()
	for entry := range r.queue {
		metrics.HistoryQueueDepth.Dec()
		r.write(entry)
	}
}

func (r *Recorder) write(entry models.SearchHistoryEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), r.writeTimeout)
	defer cancel()

	if err := queries.InsertSearchHistory(ctx, r.db, entry); err != nil {
		metrics.HistoryRecords.WithLabelValues("failed").Inc()
		r.logger.Error("failed to record search history", map[string]interface{}{
			"entryId": entry.ID,
			"userId":  entry.UserID,
			"error":   err.Error(),
		})
		return
	}
	metrics.HistoryRecords.WithLabelValues("written").Inc()
}

// Close stops accepting entries and waits for queued writes to finish.
func (r *Recorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()

	r.wg.Wait()
}
