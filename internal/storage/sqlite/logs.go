package sqlite

import (
	"fmt"
	"time"

	"github.com/mandalnilabja/llamarelay/internal/storage/models"
)

// LogRequest stores a request log entry
func (s *Storage) LogRequest(log *models.RequestLog) error {
	if log == nil || log.RequestID == "" {
		return ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStorageClosed
	}

	if log.ID == "" {
		log.ID = generateID("log")
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(`
		INSERT INTO request_logs (id, request_id, method, subpath, provider, outcome,
			is_streaming, status_code, error_message, bytes_relayed, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, log.ID, log.RequestID, log.Method, log.Subpath, log.Provider, string(log.Outcome),
		boolToInt(log.IsStreaming), log.StatusCode, log.ErrorMessage, log.BytesRelayed,
		log.DurationMs, log.CreatedAt.UTC())

	return err
}

// GetRequestLogs retrieves request logs with filtering, newest first
func (s *Storage) GetRequestLogs(filter models.LogFilter) ([]*models.RequestLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStorageClosed
	}

	query := `SELECT id, request_id, method, subpath, provider, outcome,
		is_streaming, status_code, COALESCE(error_message, ''), bytes_relayed,
		duration_ms, created_at
		FROM request_logs WHERE 1=1`

	var args []interface{}

	if filter.Subpath != "" {
		query += " AND subpath = ?"
		args = append(args, filter.Subpath)
	}
	if filter.Outcome != "" {
		query += " AND outcome = ?"
		args = append(args, string(filter.Outcome))
	}
	if filter.StatusCode != nil {
		query += " AND status_code = ?"
		args = append(args, *filter.StatusCode)
	}
	if filter.StartDate != nil {
		query += " AND created_at >= ?"
		args = append(args, filter.StartDate.UTC())
	}
	if filter.EndDate != nil {
		query += " AND created_at <= ?"
		args = append(args, filter.EndDate.UTC())
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		if filter.Limit <= 0 {
			query += " LIMIT -1"
		}
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.RequestLog
	for rows.Next() {
		var log models.RequestLog
		var outcome string
		var isStreaming int

		err := rows.Scan(&log.ID, &log.RequestID, &log.Method, &log.Subpath, &log.Provider, &outcome,
			&isStreaming, &log.StatusCode, &log.ErrorMessage, &log.BytesRelayed,
			&log.DurationMs, &log.CreatedAt)
		if err != nil {
			return nil, err
		}

		log.Outcome = models.Outcome(outcome)
		log.IsStreaming = isStreaming == 1
		logs = append(logs, &log)
	}

	return logs, rows.Err()
}

// DeleteRequestLogs removes logs created before olderThan
func (s *Storage) DeleteRequestLogs(olderThan time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrStorageClosed
	}

	result, err := s.db.Exec("DELETE FROM request_logs WHERE created_at < ?", olderThan.UTC())
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// CountRequestLogs returns the number of stored log rows
func (s *Storage) CountRequestLogs() (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, ErrStorageClosed
	}

	var n int64
	err := s.db.QueryRow("SELECT COUNT(*) FROM request_logs").Scan(&n)
	return n, err
}
