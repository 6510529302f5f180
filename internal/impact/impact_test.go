package impact

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/clientdesk/internal/model"
)

func tasksWithScores(scores ...int) []model.Task {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tasks := make([]model.Task, len(scores))
	for i, s := range scores {
		tasks[i] = model.Task{
			ID:          fmt.Sprintf("t%02d", i),
			Title:       fmt.Sprintf("task %d", i),
			Status:      model.TaskStatusToDo,
			ImpactScore: s,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
	}
	return tasks
}

func TestThreshold(t *testing.T) {
	cases := map[int]int{0: 0, 1: 1, 4: 1, 5: 1, 6: 2, 10: 2, 11: 3, 100: 20}
	for n, want := range cases {
		assert.Equal(t, want, Threshold(n), "n=%d", n)
	}
}

func TestRank_TopFifth(t *testing.T) {
	r := Rank(tasksWithScores(90, 80, 70, 60, 50))

	assert.Equal(t, 1, r.Threshold)
	require.Len(t, r.High, 1)
	assert.Equal(t, 90, r.High[0].ImpactScore)
	assert.True(t, r.High[0].IsHighImpact)
	assert.Len(t, r.Other, 4)
	for _, o := range r.Other {
		assert.False(t, o.IsHighImpact)
	}
}

func TestRank_SixTasks(t *testing.T) {
	r := Rank(tasksWithScores(10, 20, 30, 40, 50, 60))

	assert.Equal(t, 2, r.Threshold)
	require.Len(t, r.High, 2)
	assert.Equal(t, 60, r.High[0].ImpactScore)
	assert.Equal(t, 50, r.High[1].ImpactScore)
}

func TestRank_SkipsCompleted(t *testing.T) {
	tasks := tasksWithScores(100, 10, 20)
	tasks[0].Status = model.TaskStatusCompleted

	r := Rank(tasks)
	assert.Equal(t, 1, r.Threshold)
	require.Len(t, r.High, 1)
	assert.Equal(t, 20, r.High[0].ImpactScore)
	assert.Len(t, r.Other, 1)
}

func TestRank_EmptyAndSingle(t *testing.T) {
	r := Rank(nil)
	assert.Zero(t, r.Threshold)
	assert.Empty(t, r.High)
	assert.Empty(t, r.Other)

	r = Rank(tasksWithScores(0))
	assert.Equal(t, 1, r.Threshold)
	require.Len(t, r.High, 1)
	assert.True(t, r.High[0].IsHighImpact)
}

func TestRank_TieBreak(t *testing.T) {
	early := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(24 * time.Hour)

	tasks := tasksWithScores(50, 50, 50, 50)
	tasks[0].DueDate = nil
	tasks[1].DueDate = &late
	tasks[2].DueDate = &early
	// tasks[3] has no due date and was created after tasks[0].

	r := Rank(tasks)
	ids := make([]string, 0, 4)
	for _, task := range append(r.High, r.Other...) {
		ids = append(ids, task.ID)
	}
	assert.Equal(t, []string{"t02", "t01", "t00", "t03"}, ids)
}

func TestRank_Deterministic(t *testing.T) {
	tasks := tasksWithScores(70, 70, 70, 70, 70, 70, 70)
	first := Rank(tasks).HighIDs()

	reversed := make([]model.Task, len(tasks))
	for i, task := range tasks {
		reversed[len(tasks)-1-i] = task
	}
	assert.Equal(t, first, Rank(reversed).HighIDs())
}

func TestRank_DoesNotModifyInput(t *testing.T) {
	tasks := tasksWithScores(10, 90)
	Rank(tasks)
	assert.Equal(t, "t00", tasks[0].ID)
	assert.False(t, tasks[1].IsHighImpact)
}

func TestStats(t *testing.T) {
	tasks := tasksWithScores(80, 60, 40, 20)
	tasks[0].Status = model.TaskStatusCompleted
	tasks[0].ActualTime = 2.5
	tasks[1].ActualTime = 4

	st := Stats("c1", tasks)
	assert.Equal(t, "c1", st.ClientID)
	assert.Equal(t, 4, st.TotalTasks)
	assert.Equal(t, 1, st.CompletedTasks)
	assert.InDelta(t, 25.0, st.CompletionRate, 1e-9)
	assert.InDelta(t, 50.0, st.AverageImpactScore, 1e-9)
	assert.InDelta(t, 2.5, st.CompletedHours, 1e-9)
	assert.Equal(t, 1, st.Threshold)
	assert.Equal(t, []string{"t01"}, st.HighIDs())
}

func TestStats_NoTasks(t *testing.T) {
	st := Stats("c1", nil)
	assert.Zero(t, st.TotalTasks)
	assert.Zero(t, st.CompletionRate)
	assert.Zero(t, st.AverageImpactScore)
}
