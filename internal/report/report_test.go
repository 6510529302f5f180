package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/clientdesk/internal/coordinator"
	"github.com/nhle/clientdesk/internal/impact"
	"github.com/nhle/clientdesk/internal/model"
)

func TestProfitability_Rows(t *testing.T) {
	out := Profitability([]model.Profitability{
		{ClientID: "c1", HourlyRate: 100, ActualHours: 8, TargetHours: 10, RemainingHours: 2, Revenue: 1000, Profit: 200, Profitability: 20},
		{ClientID: "c2", HourlyRate: 50, ActualHours: 4, Revenue: 100, Profit: -100, Profitability: -100},
	}, map[string]string{"c1": "Acme"})

	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "c2")
	assert.Contains(t, out, "200.00")
	assert.Contains(t, out, "-100.00")
	assert.Contains(t, out, "20.0%")
}

func TestProfitability_Empty(t *testing.T) {
	assert.Contains(t, Profitability(nil, nil), "No profitability records.")
}

func TestRanking(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	r := impact.Rank([]model.Task{
		{ID: "a", Title: "Ship invoice export", ImpactScore: 90, Status: model.TaskStatusToDo, DueDate: &due},
		{ID: "b", Title: "Tidy backlog", ImpactScore: 10, Status: model.TaskStatusInProgress},
	})

	out := Ranking(r)
	assert.Contains(t, out, "High impact: 1 of 2 open tasks")
	assert.Contains(t, out, "Ship invoice export")
	assert.Contains(t, out, "2026-03-01")
	assert.Contains(t, out, "Tidy backlog")
}

func TestRanking_Empty(t *testing.T) {
	assert.Contains(t, Ranking(impact.Rank(nil)), "No open tasks.")
}

func TestClientImpact(t *testing.T) {
	st := impact.Stats("c1", []model.Task{
		{ID: "a", Title: "Done", ImpactScore: 40, Status: model.TaskStatusCompleted, ActualTime: 3},
		{ID: "b", Title: "Open", ImpactScore: 60, Status: model.TaskStatusToDo},
	})

	out := ClientImpact("Acme", st)
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "Completion: 50.0%")
	assert.Contains(t, out, "Avg impact: 50.0")
	assert.Contains(t, out, "Hours: 3.0h")
}

func TestTasks(t *testing.T) {
	clientID := "c1"
	out := Tasks([]model.Task{
		{ID: "t1", Title: "Expanded", Status: model.TaskStatusToDo, Priority: 2, ImpactScore: 70,
			IsHighImpact: true, ClientID: &clientID, Client: &model.Client{ID: clientID, Name: "Acme"}},
		{ID: "t2", Title: "Bare", Status: model.TaskStatusInProgress, Priority: 4, ClientID: &clientID},
		{ID: "t3", Title: "Loose", Status: model.TaskStatusCompleted, Priority: 3},
	})
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "c1")
	assert.Contains(t, out, "Loose")
	assert.Contains(t, out, "★")

	assert.Contains(t, Tasks(nil), "No tasks.")
}

func TestTimers(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)
	out := Timers(&coordinator.TimeSummary{
		Timers: []model.Timer{
			{Description: "Design review", StartTime: start, EndTime: &end, Duration: 1.5, Billable: true},
			{Description: "Admin", StartTime: end},
		},
		TotalHours:    1.5,
		BillableHours: 1.5,
	})

	assert.Contains(t, out, "Design review")
	assert.Contains(t, out, "running")
	assert.Contains(t, out, "Total 1.5h, billable 1.5h")
}

func TestTimers_Empty(t *testing.T) {
	assert.Contains(t, Timers(&coordinator.TimeSummary{}), "No timers.")
}
