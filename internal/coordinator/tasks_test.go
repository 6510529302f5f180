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

func TestCreateTask_CountsAgainstClient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.client(t, "Acme", nil)

	f.task(t, &c.ID, "a", 10)
	_, err := f.coord.CreateTask(ctx, user, coordinator.TaskInput{
		ClientID: &c.ID,
		Title:    "b",
		Status:   model.TaskStatusInProgress,
	})
	require.NoError(t, err)

	got := f.reload(t, c.ID)
	assert.Equal(t, 1, got.TasksPending)
	assert.Equal(t, 1, got.TasksInProgress)
	assert.Zero(t, got.TasksCompleted)
	require.NotNil(t, got.LastActivity)
	assert.True(t, f.clock.Now().Equal(*got.LastActivity))
}

func TestCreateTask_MissingClientWritesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.coord.CreateTask(ctx, user, coordinator.TaskInput{ClientID: ptr("missing"), Title: "a"})
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))

	tasks, err := f.coord.ListTasks(ctx, user, store.TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestCreateTask_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := map[string]coordinator.TaskInput{
		"empty title":   {Title: " "},
		"bad status":    {Title: "a", Status: "blocked"},
		"bad priority":  {Title: "a", Priority: 7},
		"score too big": {Title: "a", ImpactScore: 101},
		"negative":      {Title: "a", ImpactScore: -1},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.coord.CreateTask(ctx, user, in)
			assert.True(t, apperr.IsInvalid(err), "got %v", err)
		})
	}
}

func TestUpdateTask_StatusMovesBuckets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.client(t, "Acme", nil)
	task := f.task(t, &c.ID, "a", 10)

	_, err := f.coord.UpdateTask(ctx, user, task.ID, coordinator.TaskPatch{Status: ptr(model.TaskStatusInProgress)})
	require.NoError(t, err)
	got := f.reload(t, c.ID)
	assert.Zero(t, got.TasksPending)
	assert.Equal(t, 1, got.TasksInProgress)

	_, err = f.coord.UpdateTask(ctx, user, task.ID, coordinator.TaskPatch{Status: ptr(model.TaskStatusCompleted)})
	require.NoError(t, err)
	got = f.reload(t, c.ID)
	assert.Zero(t, got.TasksInProgress)
	assert.Equal(t, 1, got.TasksCompleted)
	assert.Equal(t, 1, got.TotalTasks())
}

func TestUpdateTask_ReassignMovesCounters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.client(t, "A", nil)
	b := f.client(t, "B", nil)
	task := f.task(t, &a.ID, "move me", 10)

	updated, err := f.coord.UpdateTask(ctx, user, task.ID, coordinator.TaskPatch{ClientID: &b.ID})
	require.NoError(t, err)
	assert.Equal(t, b.ID, *updated.ClientID)

	assert.Zero(t, f.reload(t, a.ID).TasksPending)
	assert.Equal(t, 1, f.reload(t, b.ID).TasksPending)
}

func TestUpdateTask_ReassignToMissingClientChangesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.client(t, "A", nil)
	task := f.task(t, &a.ID, "stay", 10)

	_, err := f.coord.UpdateTask(ctx, user, task.ID, coordinator.TaskPatch{ClientID: ptr("missing")})
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))

	assert.Equal(t, 1, f.reload(t, a.ID).TasksPending)
	got, err := f.coord.GetTask(ctx, user, task.ID, false)
	require.NoError(t, err)
	assert.Equal(t, a.ID, *got.ClientID)
}

func TestUpdateTask_ClearClient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.client(t, "A", nil)
	task := f.task(t, &a.ID, "loose", 10)

	updated, err := f.coord.UpdateTask(ctx, user, task.ID, coordinator.TaskPatch{ClearClient: true})
	require.NoError(t, err)
	assert.Nil(t, updated.ClientID)
	assert.Zero(t, f.reload(t, a.ID).TotalTasks())
}

func TestUpdateTask_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.coord.UpdateTask(context.Background(), user, "missing", coordinator.TaskPatch{Title: ptr("x")})
	assert.True(t, apperr.IsNotFound(err))
}

func TestDeleteTask_Uncounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.client(t, "Acme", nil)
	task := f.task(t, &c.ID, "a", 10)

	require.NoError(t, f.coord.DeleteTask(ctx, user, task.ID))
	assert.Zero(t, f.reload(t, c.ID).TotalTasks())

	err := f.coord.DeleteTask(ctx, user, task.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestGetTask_ExpandsClient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.client(t, "Acme", nil)
	task := f.task(t, &c.ID, "a", 10)

	got, err := f.coord.GetTask(ctx, user, task.ID, true)
	require.NoError(t, err)
	require.NotNil(t, got.Client)
	assert.Equal(t, "Acme", got.Client.Name)

	ref := got.ClientRef()
	assert.Equal(t, c.ID, ref.ID())
}

func TestCompletedTaskChanges_ResyncProfitability(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.client(t, "Acme", &model.ProfitabilityInput{HourlyRate: 100, MonthlyBudget: 1000})
	task := f.task(t, &c.ID, "a", 10)

	_, err := f.coord.UpdateTask(ctx, user, task.ID, coordinator.TaskPatch{
		Status:     ptr(model.TaskStatusCompleted),
		ActualTime: ptr(4.0),
	})
	require.NoError(t, err)

	p, err := f.coord.GetProfitability(ctx, user, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, p.ActualHours)
	assert.Equal(t, -400.0, p.Profit)
	assert.Equal(t, 6.0, p.RemainingHours)

	require.NoError(t, f.coord.DeleteTask(ctx, user, task.ID))
	p, err = f.coord.GetProfitability(ctx, user, c.ID)
	require.NoError(t, err)
	assert.Zero(t, p.ActualHours)
	assert.Zero(t, p.Profit)
}

func TestObjectives_MaintainCounters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.client(t, "Acme", nil)

	obj, err := f.coord.CreateObjective(ctx, user, coordinator.ObjectiveInput{ClientID: c.ID, Title: "Launch"})
	require.NoError(t, err)
	got := f.reload(t, c.ID)
	assert.Equal(t, 1, got.ObjectivesCount)
	assert.Equal(t, 1, got.ObjectivesPending)
	assert.Zero(t, got.ObjectivesCompleted)

	_, err = f.coord.UpdateObjective(ctx, user, obj.ID, coordinator.ObjectivePatch{Completed: ptr(true)})
	require.NoError(t, err)
	got = f.reload(t, c.ID)
	assert.Equal(t, 1, got.ObjectivesCount)
	assert.Zero(t, got.ObjectivesPending)
	assert.Equal(t, 1, got.ObjectivesCompleted)

	list, err := f.coord.ListObjectives(ctx, user, &c.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Completed)

	require.NoError(t, f.coord.DeleteObjective(ctx, user, obj.ID))
	got = f.reload(t, c.ID)
	assert.Zero(t, got.ObjectivesCount)
	assert.Zero(t, got.ObjectivesCompleted)
}

func TestCreateObjective_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.coord.CreateObjective(ctx, user, coordinator.ObjectiveInput{ClientID: "missing", Title: "x"})
	assert.True(t, apperr.IsNotFound(err))

	_, err = f.coord.CreateObjective(ctx, user, coordinator.ObjectiveInput{Title: "x"})
	assert.True(t, apperr.IsInvalid(err))
}

func TestUpdateObjective_MovesBetweenClients(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.client(t, "A", nil)
	b := f.client(t, "B", nil)

	obj, err := f.coord.CreateObjective(ctx, user, coordinator.ObjectiveInput{ClientID: a.ID, Title: "Launch"})
	require.NoError(t, err)

	moved, err := f.coord.UpdateObjective(ctx, user, obj.ID, coordinator.ObjectivePatch{
		ClientID:  &b.ID,
		Completed: ptr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, b.ID, moved.ClientID)

	gotA := f.reload(t, a.ID)
	assert.Zero(t, gotA.ObjectivesCount)
	assert.Zero(t, gotA.ObjectivesPending)
	assert.Zero(t, gotA.ObjectivesCompleted)

	gotB := f.reload(t, b.ID)
	assert.Equal(t, 1, gotB.ObjectivesCount)
	assert.Equal(t, 1, gotB.ObjectivesCompleted)
	assert.Zero(t, gotB.ObjectivesPending)

	list, err := f.coord.ListObjectives(ctx, user, &b.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, obj.ID, list[0].ID)
}

func TestUpdateObjective_MoveToMissingClientChangesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.client(t, "A", nil)

	obj, err := f.coord.CreateObjective(ctx, user, coordinator.ObjectiveInput{ClientID: a.ID, Title: "Launch"})
	require.NoError(t, err)

	_, err = f.coord.UpdateObjective(ctx, user, obj.ID, coordinator.ObjectivePatch{
		ClientID:  ptr("missing"),
		Completed: ptr(true),
	})
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))

	got := f.reload(t, a.ID)
	assert.Equal(t, 1, got.ObjectivesCount)
	assert.Equal(t, 1, got.ObjectivesPending)
	assert.Zero(t, got.ObjectivesCompleted)

	list, err := f.coord.ListObjectives(ctx, user, &a.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].Completed)
}

func TestCreateTask_DefaultsToToDo(t *testing.T) {
	f := newFixture(t)

	task := f.task(t, nil, "fresh", 0)
	assert.Equal(t, model.TaskStatusToDo, task.Status)
	assert.Equal(t, model.PriorityLow, task.Priority)
}
