// Package report renders profitability, impact and time summaries as
// terminal tables.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/nhle/clientdesk/internal/coordinator"
	"github.com/nhle/clientdesk/internal/impact"
	"github.com/nhle/clientdesk/internal/model"
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Headers(headers...)
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func hours(v float64) string {
	return fmt.Sprintf("%.1fh", v)
}

// Profitability renders one row per record. names maps client ids to
// display names; unknown ids are shown as-is.
func Profitability(records []model.Profitability, names map[string]string) string {
	if len(records) == 0 {
		return mutedStyle.Render("No profitability records.")
	}

	rows := make([][]string, len(records))
	for i, p := range records {
		name := names[p.ClientID]
		if name == "" {
			name = p.ClientID
		}
		rows[i] = []string{
			name,
			money(p.HourlyRate),
			hours(p.ActualHours),
			hours(p.TargetHours),
			hours(p.RemainingHours),
			money(p.Revenue),
			money(p.Profit),
			fmt.Sprintf("%.1f%%", p.Profitability),
		}
	}

	t := newTable("Client", "Rate", "Actual", "Target", "Remaining", "Revenue", "Profit", "Margin").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerCellStyle
			case col == 6:
				return amountStyle(records[row].Profit)
			case col == 7:
				return amountStyle(records[row].Profitability)
			default:
				return cellStyle
			}
		})

	return titleStyle.Render("Profitability") + "\n" + t.Render()
}

// Ranking renders the high impact tasks followed by the rest.
func Ranking(r impact.Ranking) string {
	if r.Threshold == 0 && len(r.Other) == 0 {
		return mutedStyle.Render("No open tasks.")
	}

	tasks := make([]model.Task, 0, len(r.High)+len(r.Other))
	tasks = append(tasks, r.High...)
	tasks = append(tasks, r.Other...)

	rows := make([][]string, len(tasks))
	for i, task := range tasks {
		marker := ""
		if task.IsHighImpact {
			marker = "★"
		}
		due := "-"
		if task.DueDate != nil {
			due = task.DueDate.Format("2006-01-02")
		}
		rows[i] = []string{
			fmt.Sprintf("%d", i+1),
			marker,
			task.Title,
			fmt.Sprintf("%d", task.ImpactScore),
			task.Status,
			due,
		}
	}

	t := newTable("#", "", "Task", "Score", "Status", "Due").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerCellStyle
			case col == 4:
				return statusStyle(tasks[row].Status)
			case tasks[row].IsHighImpact:
				return cellStyle.Bold(true)
			default:
				return cellStyle
			}
		})

	header := titleStyle.Render(fmt.Sprintf("High impact: %d of %d open tasks", r.Threshold, len(tasks)))
	return header + "\n" + t.Render()
}

// Tasks renders a task listing. Tasks whose client was expanded show the
// client's name, the rest its id.
func Tasks(tasks []model.Task) string {
	if len(tasks) == 0 {
		return mutedStyle.Render("No tasks.")
	}

	rows := make([][]string, len(tasks))
	for i, task := range tasks {
		marker := ""
		if task.IsHighImpact {
			marker = "★"
		}
		ref := task.ClientRef()
		client := "-"
		if c, ok := ref.Expanded(); ok {
			client = c.Name
		} else if !ref.IsZero() {
			client = ref.ID()
		}
		due := "-"
		if task.DueDate != nil {
			due = task.DueDate.Format("2006-01-02")
		}
		rows[i] = []string{
			task.ID,
			marker,
			task.Title,
			client,
			task.Status,
			fmt.Sprintf("p%d", task.Priority),
			fmt.Sprintf("%d", task.ImpactScore),
			hours(task.ActualTime),
			due,
		}
	}

	t := newTable("ID", "", "Task", "Client", "Status", "Priority", "Score", "Hours", "Due").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerCellStyle
			case col == 4:
				return statusStyle(tasks[row].Status)
			default:
				return cellStyle
			}
		})
	return t.Render()
}

// ClientImpact renders a client's completion figures and its ranking.
func ClientImpact(name string, st impact.ClientStats) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(name))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Tasks: %d  Completed: %d  Completion: %.1f%%  Avg impact: %.1f  Hours: %s\n",
		st.TotalTasks, st.CompletedTasks, st.CompletionRate, st.AverageImpactScore, hours(st.CompletedHours))
	b.WriteString(Ranking(st.Ranking))
	return b.String()
}

// Timers renders a timer listing with its totals.
func Timers(sum *coordinator.TimeSummary) string {
	if len(sum.Timers) == 0 {
		return mutedStyle.Render("No timers.")
	}

	rows := make([][]string, len(sum.Timers))
	for i, tm := range sum.Timers {
		end := "running"
		if tm.EndTime != nil {
			end = tm.EndTime.Local().Format("2006-01-02 15:04")
		}
		billable := "no"
		if tm.Billable {
			billable = "yes"
		}
		rows[i] = []string{
			tm.StartTime.Local().Format("2006-01-02 15:04"),
			end,
			hours(tm.Duration),
			billable,
			tm.Description,
		}
	}

	t := newTable("Start", "End", "Hours", "Billable", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerCellStyle
			}
			return cellStyle
		})

	footer := fmt.Sprintf("Total %s, billable %s", hours(sum.TotalHours), hours(sum.BillableHours))
	return t.Render() + "\n" + mutedStyle.Render(footer)
}
