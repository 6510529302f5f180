// Package impact ranks open tasks by impact score and splits off the top
// fifth as high impact.
package impact

import (
	"cmp"
	"slices"

	"github.com/nhle/clientdesk/internal/ledger"
	"github.com/nhle/clientdesk/internal/model"
)

// Ranking is the Pareto partition of a set of open tasks.
type Ranking struct {
	// Threshold is the number of tasks classified as high impact.
	Threshold int          `json:"threshold"`
	High      []model.Task `json:"high_impact"`
	Other     []model.Task `json:"other"`
}

// HighIDs returns the ids of the high impact tasks in rank order.
func (r Ranking) HighIDs() []string {
	ids := make([]string, len(r.High))
	for i, t := range r.High {
		ids[i] = t.ID
	}
	return ids
}

// Threshold returns ceil(n × 0.2), computed in integers.
func Threshold(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + 4) / 5
}

// Compare orders tasks for ranking: impact score descending, then due date
// ascending with undated tasks last, then creation time, then id.
func Compare(a, b model.Task) int {
	if c := cmp.Compare(b.ImpactScore, a.ImpactScore); c != 0 {
		return c
	}
	switch {
	case a.DueDate != nil && b.DueDate == nil:
		return -1
	case a.DueDate == nil && b.DueDate != nil:
		return 1
	case a.DueDate != nil && b.DueDate != nil:
		if c := a.DueDate.Compare(*b.DueDate); c != 0 {
			return c
		}
	}
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// Rank drops completed tasks, orders the rest with Compare and marks the
// first Threshold of them as high impact. The returned tasks carry the
// updated IsHighImpact flag; the input slice is not modified.
func Rank(tasks []model.Task) Ranking {
	open := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.IsCompleted() {
			open = append(open, t)
		}
	}
	slices.SortStableFunc(open, Compare)

	n := Threshold(len(open))
	for i := range open {
		open[i].IsHighImpact = i < n
	}

	return Ranking{
		Threshold: n,
		High:      open[:n:n],
		Other:     open[n:],
	}
}

// ClientStats summarizes one client's tasks alongside their ranking.
type ClientStats struct {
	ClientID           string  `json:"client_id"`
	TotalTasks         int     `json:"total_tasks"`
	CompletedTasks     int     `json:"completed_tasks"`
	CompletionRate     float64 `json:"completion_rate"`
	AverageImpactScore float64 `json:"average_impact_score"`
	CompletedHours     float64 `json:"completed_hours"`
	Ranking
}

// Stats computes completion and impact aggregates over all of a client's
// tasks and ranks the open ones. Rates are 0 when there are no tasks.
func Stats(clientID string, tasks []model.Task) ClientStats {
	st := ClientStats{
		ClientID:   clientID,
		TotalTasks: len(tasks),
		Ranking:    Rank(tasks),
	}
	if len(tasks) == 0 {
		return st
	}

	var scoreSum int
	for _, t := range tasks {
		if t.IsCompleted() {
			st.CompletedTasks++
		}
		scoreSum += t.ImpactScore
	}
	total := float64(len(tasks))
	st.CompletionRate = float64(st.CompletedTasks) / total * 100
	st.AverageImpactScore = float64(scoreSum) / total
	st.CompletedHours = ledger.CompletedHours(tasks)
	return st
}
