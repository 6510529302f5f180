package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nhle/clientdesk/internal/model"
)

// CreateTask inserts a new task. Generates a UUID if ID is empty and
// defaults status and priority.
func (q *queries) CreateTask(ctx context.Context, t *model.Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("task title must not be empty")
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Status == "" {
		t.Status = model.TaskStatusToDo
	}
	if t.Priority < model.PriorityUrgent || t.Priority > model.PriorityLow {
		t.Priority = model.PriorityLow
	}

	_, err := q.exec(ctx, `
		INSERT INTO tasks (
			id, user_id, client_id, title, description, status, priority,
			due_date, actual_time, impact_score, is_high_impact,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.ClientID, t.Title, t.Description, t.Status, t.Priority,
		t.DueDate, t.ActualTime, t.ImpactScore, t.IsHighImpact,
		t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating task: %w", err)
	}
	return nil
}

// GetTask retrieves a single task owned by userID.
func (q *queries) GetTask(ctx context.Context, userID, id string) (*model.Task, error) {
	var t model.Task
	err := q.get(ctx, &t, "SELECT * FROM tasks WHERE id = ? AND user_id = ?", id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("task", id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}
	return &t, nil
}

// ListTasks retrieves a user's tasks matching the filter.
func (q *queries) ListTasks(ctx context.Context, userID string, filter TaskFilter) ([]model.Task, error) {
	conditions := []string{"user_id = ?"}
	args := []any{userID}

	if filter.ClientID != nil {
		conditions = append(conditions, "client_id = ?")
		args = append(args, *filter.ClientID)
	}
	if filter.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, *filter.Status)
	}
	if filter.ExcludeStatus != nil {
		conditions = append(conditions, "status != ?")
		args = append(args, *filter.ExcludeStatus)
	}

	query := "SELECT * FROM tasks WHERE " + strings.Join(conditions, " AND ")

	sortBy := "created_at"
	allowed := map[string]string{
		"created_at":   "created_at",
		"due_date":     "due_date",
		"impact_score": "impact_score",
		"priority":     "priority",
	}
	if col, ok := allowed[filter.SortBy]; ok {
		sortBy = col
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s, id ASC", sortBy, direction)

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	var tasks []model.Task
	if err := q.selectAll(ctx, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask updates an existing task by ID.
func (q *queries) UpdateTask(ctx context.Context, t *model.Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("task title must not be empty")
	}
	t.UpdatedAt = time.Now().UTC()

	rows, err := q.exec(ctx, `
		UPDATE tasks SET
			client_id = ?, title = ?, description = ?, status = ?, priority = ?,
			due_date = ?, actual_time = ?, impact_score = ?, is_high_impact = ?,
			updated_at = ?
		WHERE id = ? AND user_id = ?`,
		t.ClientID, t.Title, t.Description, t.Status, t.Priority,
		t.DueDate, t.ActualTime, t.ImpactScore, t.IsHighImpact,
		t.UpdatedAt,
		t.ID, t.UserID,
	)
	if err != nil {
		return fmt.Errorf("updating task %s: %w", t.ID, err)
	}
	if rows == 0 {
		return notFound("task", t.ID)
	}
	return nil
}

// DeleteTask removes a task by ID.
func (q *queries) DeleteTask(ctx context.Context, userID, id string) error {
	rows, err := q.exec(ctx, "DELETE FROM tasks WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	if rows == 0 {
		return notFound("task", id)
	}
	return nil
}

// DeleteTasksByClient removes all of a client's tasks and returns how many
// were deleted.
func (q *queries) DeleteTasksByClient(ctx context.Context, userID, clientID string) (int, error) {
	rows, err := q.exec(ctx,
		"DELETE FROM tasks WHERE client_id = ? AND user_id = ?", clientID, userID)
	if err != nil {
		return 0, fmt.Errorf("deleting tasks of client %s: %w", clientID, err)
	}
	return rows, nil
}

// CountTasksByClient counts tasks referencing clientID, regardless of owner.
func (q *queries) CountTasksByClient(ctx context.Context, clientID string) (int, error) {
	var n int
	if err := q.get(ctx, &n, "SELECT COUNT(*) FROM tasks WHERE client_id = ?", clientID); err != nil {
		return 0, fmt.Errorf("counting tasks of client %s: %w", clientID, err)
	}
	return n, nil
}

// SumCompletedTaskHours sums actual_time over a client's completed tasks.
func (q *queries) SumCompletedTaskHours(ctx context.Context, userID, clientID string) (float64, error) {
	var sum float64
	err := q.get(ctx, &sum, `
		SELECT COALESCE(SUM(actual_time), 0) FROM tasks
		WHERE user_id = ? AND client_id = ? AND status = ?`,
		userID, clientID, model.TaskStatusCompleted)
	if err != nil {
		return 0, fmt.Errorf("summing completed hours of client %s: %w", clientID, err)
	}
	return sum, nil
}

// AddTaskActualTime adds hours to a task's accumulated actual_time.
func (q *queries) AddTaskActualTime(ctx context.Context, userID, id string, hours float64) error {
	rows, err := q.exec(ctx,
		"UPDATE tasks SET actual_time = actual_time + ?, updated_at = ? WHERE id = ? AND user_id = ?",
		hours, time.Now().UTC(), id, userID)
	if err != nil {
		return fmt.Errorf("adding time to task %s: %w", id, err)
	}
	if rows == 0 {
		return notFound("task", id)
	}
	return nil
}

// SetTaskImpactScore writes a single task's impact score.
func (q *queries) SetTaskImpactScore(ctx context.Context, userID, id string, score int) error {
	rows, err := q.exec(ctx,
		"UPDATE tasks SET impact_score = ?, updated_at = ? WHERE id = ? AND user_id = ?",
		score, time.Now().UTC(), id, userID)
	if err != nil {
		return fmt.Errorf("setting impact score of task %s: %w", id, err)
	}
	if rows == 0 {
		return notFound("task", id)
	}
	return nil
}

// SetHighImpact flags exactly the tasks in highIDs as high impact among
// the user's tasks and clears the flag on the rest.
func (q *queries) SetHighImpact(ctx context.Context, userID string, highIDs []string) error {
	now := time.Now().UTC()
	if _, err := q.exec(ctx,
		"UPDATE tasks SET is_high_impact = ?, updated_at = ? WHERE user_id = ? AND is_high_impact = ?",
		false, now, userID, true); err != nil {
		return fmt.Errorf("clearing high impact flags: %w", err)
	}
	if len(highIDs) == 0 {
		return nil
	}

	query, args, err := sqlx.In(
		"UPDATE tasks SET is_high_impact = ?, updated_at = ? WHERE user_id = ? AND id IN (?)",
		true, now, userID, highIDs)
	if err != nil {
		return fmt.Errorf("building high impact update: %w", err)
	}
	rows, err := q.exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("setting high impact flags: %w", err)
	}
	if rows != len(highIDs) {
		return fmt.Errorf("setting high impact flags: %d of %d tasks: %w",
			rows, len(highIDs), ErrNotFound)
	}
	return nil
}
