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

// CreateClient inserts a new client. Generates a UUID if ID is empty.
func (q *queries) CreateClient(ctx context.Context, c *model.Client) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("client name must not be empty")
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := q.exec(ctx, `
		INSERT INTO clients (
			id, user_id, name, email, company, notes,
			tasks_completed, tasks_in_progress, tasks_pending, last_activity,
			objectives_count, objectives_completed, objectives_pending,
			last_profitability_update, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Name, c.Email, c.Company, c.Notes,
		c.TasksCompleted, c.TasksInProgress, c.TasksPending, c.LastActivity,
		c.ObjectivesCount, c.ObjectivesCompleted, c.ObjectivesPending,
		c.LastProfitabilityUpdate, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}
	return nil
}

// GetClient retrieves a single client owned by userID.
func (q *queries) GetClient(ctx context.Context, userID, id string) (*model.Client, error) {
	var c model.Client
	err := q.get(ctx, &c, "SELECT * FROM clients WHERE id = ? AND user_id = ?", id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("client", id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting client %s: %w", id, err)
	}
	return &c, nil
}

// ListClients returns all of a user's clients ordered by name.
func (q *queries) ListClients(ctx context.Context, userID string) ([]model.Client, error) {
	var clients []model.Client
	err := q.selectAll(ctx, &clients,
		"SELECT * FROM clients WHERE user_id = ? ORDER BY name, id", userID)
	if err != nil {
		return nil, fmt.Errorf("querying clients: %w", err)
	}
	return clients, nil
}

// UpdateClient writes every mutable column of c, counters included.
func (q *queries) UpdateClient(ctx context.Context, c *model.Client) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("client name must not be empty")
	}
	c.UpdatedAt = time.Now().UTC()

	rows, err := q.exec(ctx, `
		UPDATE clients SET
			name = ?, email = ?, company = ?, notes = ?,
			tasks_completed = ?, tasks_in_progress = ?, tasks_pending = ?,
			last_activity = ?,
			objectives_count = ?, objectives_completed = ?, objectives_pending = ?,
			last_profitability_update = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		c.Name, c.Email, c.Company, c.Notes,
		c.TasksCompleted, c.TasksInProgress, c.TasksPending,
		c.LastActivity,
		c.ObjectivesCount, c.ObjectivesCompleted, c.ObjectivesPending,
		c.LastProfitabilityUpdate, c.UpdatedAt,
		c.ID, c.UserID,
	)
	if err != nil {
		return fmt.Errorf("updating client %s: %w", c.ID, err)
	}
	if rows == 0 {
		return notFound("client", c.ID)
	}
	return nil
}

// DeleteClient removes a client. Dependent rows must be removed first.
func (q *queries) DeleteClient(ctx context.Context, userID, id string) error {
	rows, err := q.exec(ctx, "DELETE FROM clients WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("deleting client %s: %w", id, err)
	}
	if rows == 0 {
		return notFound("client", id)
	}
	return nil
}

// ClientExists reports whether any client with id exists, regardless of owner.
func (q *queries) ClientExists(ctx context.Context, id string) (bool, error) {
	var n int
	if err := q.get(ctx, &n, "SELECT COUNT(*) FROM clients WHERE id = ?", id); err != nil {
		return false, fmt.Errorf("checking client %s: %w", id, err)
	}
	return n > 0, nil
}
