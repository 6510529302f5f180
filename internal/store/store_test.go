package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/clientdesk/internal/model"
	"github.com/nhle/clientdesk/internal/store"
	"github.com/nhle/clientdesk/tests/testutil"
)

const user = "user-1"

func TestClient_CRUD(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	c := &model.Client{UserID: user, Name: "Acme", Email: "ops@acme.test"}
	require.NoError(t, s.CreateClient(ctx, c))
	require.NotEmpty(t, c.ID)

	got, err := s.GetClient(ctx, user, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)
	assert.Equal(t, "ops@acme.test", got.Email)
	assert.Nil(t, got.LastActivity)

	now := time.Now().UTC()
	got.TasksPending = 2
	got.LastActivity = &now
	require.NoError(t, s.UpdateClient(ctx, got))

	got, err = s.GetClient(ctx, user, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.TasksPending)
	require.NotNil(t, got.LastActivity)
	assert.WithinDuration(t, now, *got.LastActivity, time.Second)

	require.NoError(t, s.DeleteClient(ctx, user, c.ID))
	_, err = s.GetClient(ctx, user, c.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestClient_ScopedToUser(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	c := testutil.SeedClient(t, s, user, "Acme")

	_, err := s.GetClient(ctx, "someone-else", c.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	clients, err := s.ListClients(ctx, "someone-else")
	require.NoError(t, err)
	assert.Empty(t, clients)

	exists, err := s.ClientExists(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestTask_ListFilters(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	c := testutil.SeedClient(t, s, user, "Acme")
	testutil.SeedTask(t, s, user, &c.ID, "low", 10)
	high := testutil.SeedTask(t, s, user, &c.ID, "high", 90)
	testutil.SeedTask(t, s, user, nil, "loose", 50)

	high.Status = model.TaskStatusCompleted
	require.NoError(t, s.UpdateTask(ctx, high))

	all, err := s.ListTasks(ctx, user, store.TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	forClient, err := s.ListTasks(ctx, user, store.TaskFilter{ClientID: &c.ID})
	require.NoError(t, err)
	assert.Len(t, forClient, 2)

	completed := model.TaskStatusCompleted
	open, err := s.ListTasks(ctx, user, store.TaskFilter{ExcludeStatus: &completed})
	require.NoError(t, err)
	assert.Len(t, open, 2)

	byScore, err := s.ListTasks(ctx, user, store.TaskFilter{SortBy: "impact_score", SortDesc: true, Limit: 1})
	require.NoError(t, err)
	require.Len(t, byScore, 1)
	assert.Equal(t, "high", byScore[0].Title)
}

func TestTask_SumCompletedHours(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	c := testutil.SeedClient(t, s, user, "Acme")
	a := testutil.SeedTask(t, s, user, &c.ID, "a", 0)
	b := testutil.SeedTask(t, s, user, &c.ID, "b", 0)
	testutil.SeedTask(t, s, user, &c.ID, "open", 0)

	for _, task := range []*model.Task{a, b} {
		task.Status = model.TaskStatusCompleted
		task.ActualTime = 2.5
		require.NoError(t, s.UpdateTask(ctx, task))
	}

	sum, err := s.SumCompletedTaskHours(ctx, user, c.ID)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, sum, 1e-9)

	empty := testutil.SeedClient(t, s, user, "Empty")
	sum, err = s.SumCompletedTaskHours(ctx, user, empty.ID)
	require.NoError(t, err)
	assert.Zero(t, sum)
}

func TestTask_AddActualTime(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	task := testutil.SeedTask(t, s, user, nil, "a", 0)
	require.NoError(t, s.AddTaskActualTime(ctx, user, task.ID, 1.25))
	require.NoError(t, s.AddTaskActualTime(ctx, user, task.ID, 0.75))

	got, err := s.GetTask(ctx, user, task.ID)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, got.ActualTime, 1e-9)

	err = s.AddTaskActualTime(ctx, user, "missing", 1)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestTask_SetHighImpact(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	a := testutil.SeedTask(t, s, user, nil, "a", 90)
	b := testutil.SeedTask(t, s, user, nil, "b", 10)

	require.NoError(t, s.SetHighImpact(ctx, user, []string{a.ID}))
	got, err := s.GetTask(ctx, user, a.ID)
	require.NoError(t, err)
	assert.True(t, got.IsHighImpact)

	require.NoError(t, s.SetHighImpact(ctx, user, []string{b.ID}))
	got, err = s.GetTask(ctx, user, a.ID)
	require.NoError(t, err)
	assert.False(t, got.IsHighImpact)
	got, err = s.GetTask(ctx, user, b.ID)
	require.NoError(t, err)
	assert.True(t, got.IsHighImpact)

	err = s.SetHighImpact(ctx, user, []string{"missing"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestTask_DeleteByClient(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	c := testutil.SeedClient(t, s, user, "Acme")
	for range 3 {
		testutil.SeedTask(t, s, user, &c.ID, "t", 0)
	}
	testutil.SeedTask(t, s, user, nil, "other", 0)

	n, err := s.DeleteTasksByClient(ctx, user, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	left, err := s.CountTasksByClient(ctx, c.ID)
	require.NoError(t, err)
	assert.Zero(t, left)
}

func TestTimer_OneOpenPerUser(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	first := &model.Timer{UserID: user, Billable: true}
	require.NoError(t, s.CreateTimer(ctx, first))

	err := s.CreateTimer(ctx, &model.Timer{UserID: user})
	assert.ErrorIs(t, err, store.ErrOpenTimerExists)

	// Another user is unaffected.
	require.NoError(t, s.CreateTimer(ctx, &model.Timer{UserID: "user-2"}))

	n, err := s.CountOpenTimers(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	end := first.StartTime.Add(30 * time.Minute)
	first.EndTime = &end
	first.Duration = 0.5
	require.NoError(t, s.CloseTimer(ctx, first))

	// Closing again finds no open timer.
	assert.ErrorIs(t, s.CloseTimer(ctx, first), store.ErrNotFound)

	_, err = s.GetOpenTimer(ctx, user)
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.CreateTimer(ctx, &model.Timer{UserID: user}))
}

func TestTimer_ListFilters(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	c := testutil.SeedClient(t, s, user, "Acme")
	base := time.Now().UTC().Add(-3 * time.Hour)
	for i, billable := range []bool{true, false} {
		start := base.Add(time.Duration(i) * time.Hour)
		end := start.Add(30 * time.Minute)
		timer := &model.Timer{UserID: user, ClientID: &c.ID, StartTime: start, Billable: billable}
		require.NoError(t, s.CreateTimer(ctx, timer))
		timer.EndTime = &end
		timer.Duration = 0.5
		require.NoError(t, s.CloseTimer(ctx, timer))
	}

	all, err := s.ListTimers(ctx, user, store.TimerFilter{ClientID: &c.ID})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.True(t, all[0].StartTime.After(all[1].StartTime), "most recent first")

	billable := true
	only, err := s.ListTimers(ctx, user, store.TimerFilter{Billable: &billable})
	require.NoError(t, err)
	assert.Len(t, only, 1)
}

func TestProfitability_OptimisticVersion(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	c := testutil.SeedClient(t, s, user, "Acme")
	p := &model.Profitability{UserID: user, ClientID: c.ID, HourlyRate: 100, MonthlyBudget: 1000, TargetHours: 10}
	require.NoError(t, s.CreateProfitability(ctx, p))
	assert.Equal(t, int64(1), p.Version)

	stale := *p

	p.Revenue = 500
	require.NoError(t, s.UpdateProfitability(ctx, p))
	assert.Equal(t, int64(2), p.Version)

	stale.Revenue = 900
	err := s.UpdateProfitability(ctx, &stale)
	assert.ErrorIs(t, err, store.ErrVersionConflict)

	got, err := s.GetProfitabilityByClient(ctx, user, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 500.0, got.Revenue)
	assert.Equal(t, int64(2), got.Version)

	n, err := s.DeleteProfitabilityByClient(ctx, user, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	err = s.UpdateProfitability(ctx, got)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestProfitability_OnePerClient(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	c := testutil.SeedClient(t, s, user, "Acme")
	require.NoError(t, s.CreateProfitability(ctx, &model.Profitability{UserID: user, ClientID: c.ID, HourlyRate: 100}))
	err := s.CreateProfitability(ctx, &model.Profitability{UserID: user, ClientID: c.ID, HourlyRate: 50})
	assert.Error(t, err)
}

func TestObjectives(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	c := testutil.SeedClient(t, s, user, "Acme")
	o := &model.Objective{UserID: user, ClientID: c.ID, Title: "Launch"}
	require.NoError(t, s.CreateObjective(ctx, o))

	o.Completed = true
	require.NoError(t, s.UpdateObjective(ctx, o))

	list, err := s.ListObjectives(ctx, user, &c.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Completed)

	n, err := s.DeleteObjectivesByClient(ctx, user, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.ErrorIs(t, s.DeleteObjective(ctx, user, o.ID), store.ErrNotFound)
}

func TestWithTx_RollsBack(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	var id string
	err := s.WithTx(ctx, func(q store.Queries) error {
		c := &model.Client{UserID: user, Name: "Ghost"}
		if err := q.CreateClient(ctx, c); err != nil {
			return err
		}
		id = c.ID
		return boom
	})
	assert.ErrorIs(t, err, boom)

	exists, err := s.ClientExists(ctx, id)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestWithTx_Commits(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	var c *model.Client
	err := s.WithTx(ctx, func(q store.Queries) error {
		c = &model.Client{UserID: user, Name: "Kept"}
		return q.CreateClient(ctx, c)
	})
	require.NoError(t, err)

	_, err = s.GetClient(ctx, user, c.ID)
	assert.NoError(t, err)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := store.Open("mysql", "whatever")
	assert.Error(t, err)
}
