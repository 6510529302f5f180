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

// CreateObjective inserts a new objective. Generates a UUID if ID is empty.
func (q *queries) CreateObjective(ctx context.Context, o *model.Objective) error {
	if strings.TrimSpace(o.Title) == "" {
		return fmt.Errorf("objective title must not be empty")
	}
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now

	_, err := q.exec(ctx, `
		INSERT INTO objectives (id, user_id, client_id, title, completed, due_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.UserID, o.ClientID, o.Title, o.Completed, o.DueDate, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating objective: %w", err)
	}
	return nil
}

// GetObjective retrieves a single objective owned by userID.
func (q *queries) GetObjective(ctx context.Context, userID, id string) (*model.Objective, error) {
	var o model.Objective
	err := q.get(ctx, &o, "SELECT * FROM objectives WHERE id = ? AND user_id = ?", id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("objective", id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting objective %s: %w", id, err)
	}
	return &o, nil
}

// ListObjectives returns a user's objectives, optionally for one client.
func (q *queries) ListObjectives(ctx context.Context, userID string, clientID *string) ([]model.Objective, error) {
	query := "SELECT * FROM objectives WHERE user_id = ?"
	args := []any{userID}
	if clientID != nil {
		query += " AND client_id = ?"
		args = append(args, *clientID)
	}
	query += " ORDER BY created_at, id"

	var objectives []model.Objective
	if err := q.selectAll(ctx, &objectives, query, args...); err != nil {
		return nil, fmt.Errorf("querying objectives: %w", err)
	}
	return objectives, nil
}

// UpdateObjective updates an existing objective by ID.
func (q *queries) UpdateObjective(ctx context.Context, o *model.Objective) error {
	if strings.TrimSpace(o.Title) == "" {
		return fmt.Errorf("objective title must not be empty")
	}
	o.UpdatedAt = time.Now().UTC()

	rows, err := q.exec(ctx, `
		UPDATE objectives SET client_id = ?, title = ?, completed = ?, due_date = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		o.ClientID, o.Title, o.Completed, o.DueDate, o.UpdatedAt, o.ID, o.UserID,
	)
	if err != nil {
		return fmt.Errorf("updating objective %s: %w", o.ID, err)
	}
	if rows == 0 {
		return notFound("objective", o.ID)
	}
	return nil
}

// DeleteObjective removes an objective by ID.
func (q *queries) DeleteObjective(ctx context.Context, userID, id string) error {
	rows, err := q.exec(ctx, "DELETE FROM objectives WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("deleting objective %s: %w", id, err)
	}
	if rows == 0 {
		return notFound("objective", id)
	}
	return nil
}

// DeleteObjectivesByClient removes all of a client's objectives.
func (q *queries) DeleteObjectivesByClient(ctx context.Context, userID, clientID string) (int, error) {
	rows, err := q.exec(ctx,
		"DELETE FROM objectives WHERE client_id = ? AND user_id = ?", clientID, userID)
	if err != nil {
		return 0, fmt.Errorf("deleting objectives of client %s: %w", clientID, err)
	}
	return rows, nil
}
