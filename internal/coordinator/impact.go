package coordinator

import (
	"context"

	"go.uber.org/zap"

	"github.com/nhle/clientdesk/internal/apperr"
	"github.com/nhle/clientdesk/internal/impact"
	"github.com/nhle/clientdesk/internal/model"
	"github.com/nhle/clientdesk/internal/store"
)

// ClassifyHighImpact ranks the user's open tasks and persists the
// isHighImpact flag for all of them in one transaction. Completed tasks
// lose the flag.
func (c *Coordinator) ClassifyHighImpact(ctx context.Context, userID string) (*impact.Ranking, error) {
	var ranking impact.Ranking
	err := c.inTx(ctx, "classify high impact", func(ctx context.Context, q store.Queries) error {
		tasks, err := q.ListTasks(ctx, userID, store.TaskFilter{})
		if err != nil {
			return err
		}
		ranking = impact.Rank(tasks)
		return q.SetHighImpact(ctx, userID, ranking.HighIDs())
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug("high impact classified",
		zap.String("user_id", userID),
		zap.Int("open_tasks", len(ranking.High)+len(ranking.Other)),
		zap.Int("high_impact", ranking.Threshold))
	return &ranking, nil
}

// ClientImpact returns completion and impact statistics for one client.
// The ranking is computed on the fly and not persisted.
func (c *Coordinator) ClientImpact(ctx context.Context, userID, clientID string) (*impact.ClientStats, error) {
	var stats impact.ClientStats
	err := c.read(ctx, "client impact", func(ctx context.Context, q store.Queries) error {
		if _, err := q.GetClient(ctx, userID, clientID); err != nil {
			return lookup("client", clientID, err)
		}
		tasks, err := q.ListTasks(ctx, userID, store.TaskFilter{ClientID: &clientID})
		if err != nil {
			return err
		}
		stats = impact.Stats(clientID, tasks)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// SetImpactScore writes a task's impact score.
func (c *Coordinator) SetImpactScore(ctx context.Context, userID, taskID string, score int) error {
	if score < model.MinImpactScore || score > model.MaxImpactScore {
		return apperr.Invalid("impact score must be between %d and %d", model.MinImpactScore, model.MaxImpactScore)
	}
	return c.inTx(ctx, "set impact score", func(ctx context.Context, q store.Queries) error {
		return lookup("task", taskID, q.SetTaskImpactScore(ctx, userID, taskID, score))
	})
}
