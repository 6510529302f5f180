package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/clientdesk/internal/model"
)

// CreateTimer inserts a new timer. A second open timer for the same user
// violates idx_timers_one_open and is reported as ErrOpenTimerExists.
func (q *queries) CreateTimer(ctx context.Context, t *model.Timer) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.StartTime.IsZero() {
		t.StartTime = now
	}

	_, err := q.exec(ctx, `
		INSERT INTO timers (
			id, user_id, task_id, client_id, description,
			start_time, end_time, duration, billable,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.TaskID, t.ClientID, t.Description,
		t.StartTime.UTC(), t.EndTime, t.Duration, t.Billable,
		t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("creating timer for user %s: %w", t.UserID, ErrOpenTimerExists)
		}
		return fmt.Errorf("creating timer: %w", err)
	}
	return nil
}

// GetTimer retrieves a single timer owned by userID.
func (q *queries) GetTimer(ctx context.Context, userID, id string) (*model.Timer, error) {
	var t model.Timer
	err := q.get(ctx, &t, "SELECT * FROM timers WHERE id = ? AND user_id = ?", id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("timer", id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting timer %s: %w", id, err)
	}
	return &t, nil
}

// GetOpenTimer returns the user's running timer.
func (q *queries) GetOpenTimer(ctx context.Context, userID string) (*model.Timer, error) {
	var t model.Timer
	err := q.get(ctx, &t,
		"SELECT * FROM timers WHERE user_id = ? AND end_time IS NULL", userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("open timer for user", userID)
	}
	if err != nil {
		return nil, fmt.Errorf("getting open timer: %w", err)
	}
	return &t, nil
}

// ListTimers retrieves a user's timers, most recent first.
func (q *queries) ListTimers(ctx context.Context, userID string, filter TimerFilter) ([]model.Timer, error) {
	conditions := []string{"user_id = ?"}
	args := []any{userID}

	if filter.ClientID != nil {
		conditions = append(conditions, "client_id = ?")
		args = append(args, *filter.ClientID)
	}
	if filter.TaskID != nil {
		conditions = append(conditions, "task_id = ?")
		args = append(args, *filter.TaskID)
	}
	if filter.Billable != nil {
		conditions = append(conditions, "billable = ?")
		args = append(args, *filter.Billable)
	}
	if filter.Since != nil {
		conditions = append(conditions, "start_time >= ?")
		args = append(args, filter.Since.UTC())
	}

	query := "SELECT * FROM timers WHERE " + strings.Join(conditions, " AND ") +
		" ORDER BY start_time DESC, id ASC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	var timers []model.Timer
	if err := q.selectAll(ctx, &timers, query, args...); err != nil {
		return nil, fmt.Errorf("querying timers: %w", err)
	}
	return timers, nil
}

// CountOpenTimers counts the user's running timers.
func (q *queries) CountOpenTimers(ctx context.Context, userID string) (int, error) {
	var n int
	err := q.get(ctx, &n,
		"SELECT COUNT(*) FROM timers WHERE user_id = ? AND end_time IS NULL", userID)
	if err != nil {
		return 0, fmt.Errorf("counting open timers: %w", err)
	}
	return n, nil
}

// CloseTimer records end_time and duration on a running timer. A timer
// that was already stopped is reported as ErrNotFound.
func (q *queries) CloseTimer(ctx context.Context, t *model.Timer) error {
	if t.EndTime == nil {
		return fmt.Errorf("closing timer %s: end time not set", t.ID)
	}
	t.UpdatedAt = time.Now().UTC()

	rows, err := q.exec(ctx, `
		UPDATE timers SET end_time = ?, duration = ?, updated_at = ?
		WHERE id = ? AND user_id = ? AND end_time IS NULL`,
		t.EndTime.UTC(), t.Duration, t.UpdatedAt, t.ID, t.UserID,
	)
	if err != nil {
		return fmt.Errorf("closing timer %s: %w", t.ID, err)
	}
	if rows == 0 {
		return notFound("open timer", t.ID)
	}
	return nil
}
