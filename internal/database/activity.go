package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"coinsouq-exchange-go/internal/models"

	"go.uber.org/zap"
)

// AddActivityLog appends an entry to the append-only activity log.
func (s *Service) AddActivityLog(ctx context.Context, entry models.ActivityLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, queryInsertActivityLog,
		entry.Id, entry.UserId, entry.Action, entry.IP, entry.Device, entry.CreatedAt)
	if err != nil {
		zap.L().Error("Failed to insert activity log", zap.String("user_id", entry.UserId), zap.Error(err))
		return fmt.Errorf("unable to insert activity log: %w", err)
	}
	return nil
}

// GetActivityLogs returns activity entries, most recent first. An empty
// userId returns the whole log; a user with no entries gets an empty slice.
func (s *Service) GetActivityLogs(ctx context.Context, userId string) ([]models.ActivityLog, error) {
	rows, err := s.db.QueryContext(ctx, queryGetActivityLogs, userId, userId)
	if err != nil {
		return nil, fmt.Errorf("unable to query activity logs: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var entries []models.ActivityLog
	for rows.Next() {
		var entry models.ActivityLog
		err := rows.Scan(&entry.Id, &entry.UserId, &entry.Action, &entry.IP, &entry.Device, &entry.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("unable to scan activity log row: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity log rows: %w", err)
	}
	return entries, nil
}

// SetSession points the single current-session row at a user.
func (s *Service) SetSession(ctx context.Context, userId string) error {
	if _, err := s.db.ExecContext(ctx, querySetSession, userId); err != nil {
		return fmt.Errorf("unable to set session: %w", err)
	}
	return nil
}

// GetSession returns the current session's user id, or empty when none.
func (s *Service) GetSession(ctx context.Context) (string, error) {
	var userId string
	err := s.db.QueryRowContext(ctx, queryGetSession).Scan(&userId)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("unable to query session: %w", err)
	}
	return userId, nil
}

// ClearSession removes the current-session pointer. The user record stays.
func (s *Service) ClearSession(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, queryClearSession); err != nil {
		return fmt.Errorf("unable to clear session: %w", err)
	}
	return nil
}
