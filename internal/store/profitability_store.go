package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/clientdesk/internal/model"
)

// CreateProfitability inserts a client's profitability record at version 1.
func (q *queries) CreateProfitability(ctx context.Context, p *model.Profitability) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.Version = 1

	_, err := q.exec(ctx, `
		INSERT INTO profitability (
			id, user_id, client_id,
			hourly_rate, target_hours, monthly_budget, actual_hours, revenue,
			profit, profitability, remaining_hours,
			version, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.ClientID,
		p.HourlyRate, p.TargetHours, p.MonthlyBudget, p.ActualHours, p.Revenue,
		p.Profit, p.Profitability, p.RemainingHours,
		p.Version, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating profitability for client %s: %w", p.ClientID, err)
	}
	return nil
}

// GetProfitabilityByClient retrieves the record for a (user, client) pair.
func (q *queries) GetProfitabilityByClient(ctx context.Context, userID, clientID string) (*model.Profitability, error) {
	var p model.Profitability
	err := q.get(ctx, &p,
		"SELECT * FROM profitability WHERE client_id = ? AND user_id = ?", clientID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("profitability for client", clientID)
	}
	if err != nil {
		return nil, fmt.Errorf("getting profitability for client %s: %w", clientID, err)
	}
	return &p, nil
}

// ListProfitability returns all of a user's records, least profitable first.
func (q *queries) ListProfitability(ctx context.Context, userID string) ([]model.Profitability, error) {
	var records []model.Profitability
	err := q.selectAll(ctx, &records,
		"SELECT * FROM profitability WHERE user_id = ? ORDER BY profitability ASC, client_id ASC", userID)
	if err != nil {
		return nil, fmt.Errorf("querying profitability: %w", err)
	}
	return records, nil
}

// UpdateProfitability writes p if its stored version still equals
// p.Version, then bumps p.Version. A stale version yields
// ErrVersionConflict; a missing record yields ErrNotFound.
func (q *queries) UpdateProfitability(ctx context.Context, p *model.Profitability) error {
	p.UpdatedAt = time.Now().UTC()

	rows, err := q.exec(ctx, `
		UPDATE profitability SET
			hourly_rate = ?, target_hours = ?, monthly_budget = ?,
			actual_hours = ?, revenue = ?,
			profit = ?, profitability = ?, remaining_hours = ?,
			version = version + 1, updated_at = ?
		WHERE id = ? AND user_id = ? AND version = ?`,
		p.HourlyRate, p.TargetHours, p.MonthlyBudget,
		p.ActualHours, p.Revenue,
		p.Profit, p.Profitability, p.RemainingHours,
		p.UpdatedAt,
		p.ID, p.UserID, p.Version,
	)
	if err != nil {
		return fmt.Errorf("updating profitability %s: %w", p.ID, err)
	}
	if rows == 0 {
		var n int
		if err := q.get(ctx, &n,
			"SELECT COUNT(*) FROM profitability WHERE id = ? AND user_id = ?", p.ID, p.UserID); err != nil {
			return fmt.Errorf("checking profitability %s: %w", p.ID, err)
		}
		if n == 0 {
			return notFound("profitability", p.ID)
		}
		return fmt.Errorf("updating profitability %s at version %d: %w", p.ID, p.Version, ErrVersionConflict)
	}
	p.Version++
	return nil
}

// DeleteProfitabilityByClient removes the client's record, returning the
// number of rows deleted (0 or 1).
func (q *queries) DeleteProfitabilityByClient(ctx context.Context, userID, clientID string) (int, error) {
	rows, err := q.exec(ctx,
		"DELETE FROM profitability WHERE client_id = ? AND user_id = ?", clientID, userID)
	if err != nil {
		return 0, fmt.Errorf("deleting profitability of client %s: %w", clientID, err)
	}
	return rows, nil
}
