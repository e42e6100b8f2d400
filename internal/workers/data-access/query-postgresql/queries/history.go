package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"recruit-workers/internal/models"
)

// MaxHistoryLimit bounds how many history rows a single call may return.
const MaxHistoryLimit = 50

// SearchHistory returns the user's most recent queries, newest first.
func SearchHistory(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	userID, err := stringParam(params, "userId")
	if err != nil {
		return nil, 0, 0, err
	}
	limit := intParam(params, "limit", 5)
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT id, user_id, query, filters, results_count, created_at
		FROM search_history
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	entries := []models.SearchHistoryEntry{}
	for rows.Next() {
		var (
			e       models.SearchHistoryEntry
			filters []byte
			count   sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Query, &filters, &count, &e.CreatedAt); err != nil {
			return nil, 0, 0, err
		}
		if e.Filters, err = decodeFilters(filters); err != nil {
			return nil, 0, 0, err
		}
		e.ResultsCount = nullInt(count)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	return entries, len(entries), time.Since(start).Milliseconds(), nil
}

// SavedSearches returns all of the user's saved searches, newest first.
func SavedSearches(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	userID, err := stringParam(params, "userId")
	if err != nil {
		return nil, 0, 0, err
	}

	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT id, user_id, name, query, filters, alert_frequency, created_at
		FROM saved_searches
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	saved := []models.SavedSearch{}
	for rows.Next() {
		var (
			s         models.SavedSearch
			filters   []byte
			frequency sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.Query, &filters, &frequency, &s.CreatedAt); err != nil {
			return nil, 0, 0, err
		}
		if s.Filters, err = decodeFilters(filters); err != nil {
			return nil, 0, 0, err
		}
		s.AlertFrequency = nullString(frequency)
		saved = append(saved, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	return saved, len(saved), time.Since(start).Milliseconds(), nil
}

// InsertSearchHistory appends one history row.
func InsertSearchHistory(ctx context.Context, db *sql.DB, e models.SearchHistoryEntry) error {
	filters, err := json.Marshal(e.Filters)
	if err != nil {
		return fmt.Errorf("encode filters: %w", err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO search_history (id, user_id, query, filters, results_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.UserID, e.Query, filters, e.ResultsCount, e.CreatedAt)
	return err
}

// InsertSavedSearch stores a named search. Duplicates are allowed.
func InsertSavedSearch(ctx context.Context, db *sql.DB, s models.SavedSearch) error {
	filters, err := json.Marshal(s.Filters)
	if err != nil {
		return fmt.Errorf("encode filters: %w", err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO saved_searches (id, user_id, name, query, filters, alert_frequency, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.UserID, s.Name, s.Query, filters, s.AlertFrequency, s.CreatedAt)
	return err
}
