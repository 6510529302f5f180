package coordinator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/clientdesk/internal/apperr"
	"github.com/nhle/clientdesk/internal/coordinator"
	"github.com/nhle/clientdesk/internal/model"
	"github.com/nhle/clientdesk/internal/store"
)

func TestClassifyHighImpact_PersistsFlags(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var top *model.Task
	for _, score := range []int{50, 90, 70, 60, 80} {
		task := f.task(t, nil, "task", score)
		if score == 90 {
			top = task
		}
	}
	done := f.task(t, nil, "done", 100)
	_, err := f.coord.UpdateTask(ctx, user, done.ID, coordinator.TaskPatch{Status: ptr(model.TaskStatusCompleted)})
	require.NoError(t, err)

	ranking, err := f.coord.ClassifyHighImpact(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 1, ranking.Threshold)
	assert.Equal(t, []string{top.ID}, ranking.HighIDs())
	assert.Len(t, ranking.Other, 4)

	tasks, err := f.coord.ListTasks(ctx, user, store.TaskFilter{})
	require.NoError(t, err)
	for _, task := range tasks {
		assert.Equal(t, task.ID == top.ID, task.IsHighImpact, task.Title)
	}
}

func TestClassifyHighImpact_Empty(t *testing.T) {
	f := newFixture(t)

	ranking, err := f.coord.ClassifyHighImpact(context.Background(), user)
	require.NoError(t, err)
	assert.Zero(t, ranking.Threshold)
	assert.Empty(t, ranking.High)
}

func TestClientImpact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.client(t, "Acme", nil)

	a := f.task(t, &c.ID, "a", 80)
	f.task(t, &c.ID, "b", 40)
	f.task(t, nil, "elsewhere", 100)
	_, err := f.coord.UpdateTask(ctx, user, a.ID, coordinator.TaskPatch{Status: ptr(model.TaskStatusCompleted)})
	require.NoError(t, err)

	stats, err := f.coord.ClientImpact(ctx, user, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalTasks)
	assert.Equal(t, 1, stats.CompletedTasks)
	assert.InDelta(t, 50.0, stats.CompletionRate, 1e-9)
	assert.InDelta(t, 60.0, stats.AverageImpactScore, 1e-9)

	_, err = f.coord.ClientImpact(ctx, user, "missing")
	assert.True(t, apperr.IsNotFound(err))
}

func TestSetImpactScore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	task := f.task(t, nil, "a", 10)

	require.NoError(t, f.coord.SetImpactScore(ctx, user, task.ID, 75))
	got, err := f.coord.GetTask(ctx, user, task.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 75, got.ImpactScore)

	assert.True(t, apperr.IsInvalid(f.coord.SetImpactScore(ctx, user, task.ID, 101)))
	assert.True(t, apperr.IsNotFound(f.coord.SetImpactScore(ctx, user, "missing", 50)))
}
