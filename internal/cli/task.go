package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/clientdesk/internal/coordinator"
	"github.com/nhle/clientdesk/internal/model"
	"github.com/nhle/clientdesk/internal/report"
	"github.com/nhle/clientdesk/internal/store"
)

const dateLayout = "2006-01-02"

func newTaskCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}
	cmd.AddCommand(
		newTaskAddCmd(a),
		newTaskListCmd(a),
		newTaskShowCmd(a),
		newTaskUpdateCmd(a),
		newTaskDeleteCmd(a),
	)
	return cmd
}

func parseDue(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("due date must look like 2024-01-15: %w", err)
	}
	return &d, nil
}

func printTask(cmd *cobra.Command, verb string, t *model.Task) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s task %s: %s [%s, score %d, %.2fh]\n",
		verb, t.ID, t.Title, t.Status, t.ImpactScore, t.ActualTime)
}

func newTaskAddCmd(a *app) *cobra.Command {
	var (
		in     coordinator.TaskInput
		client string
		due    string
	)

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a task",
		Long: `Add a task, optionally for a client.

Examples:
  clientdesk task add "Draft proposal" --client <id> --score 80
  clientdesk task add "Fix login" -p 1 --due 2024-01-15`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Title = args[0]
			if client != "" {
				in.ClientID = &client
			}
			var err error
			if in.DueDate, err = parseDue(due); err != nil {
				return err
			}

			task, err := a.coord.CreateTask(cmd.Context(), a.userID, in)
			if err != nil {
				return err
			}
			printTask(cmd, "Created", task)
			return nil
		},
	}

	cmd.Flags().StringVarP(&client, "client", "c", "", "Client id")
	cmd.Flags().StringVar(&in.Description, "description", "", "Description")
	cmd.Flags().StringVarP(&in.Status, "status", "s", model.TaskStatusToDo, "Status (to-do, in-progress, completed)")
	cmd.Flags().IntVarP(&in.Priority, "priority", "p", model.PriorityLow, "Priority (1=urgent, 4=low)")
	cmd.Flags().IntVar(&in.ImpactScore, "score", 0, "Impact score 0-100")
	cmd.Flags().StringVarP(&due, "due", "d", "", "Due date (YYYY-MM-DD)")
	return cmd
}

func newTaskListCmd(a *app) *cobra.Command {
	var (
		filter store.TaskFilter
		client string
		status string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if client != "" {
				filter.ClientID = &client
			}
			if status != "" {
				filter.Status = &status
			}

			tasks, err := a.coord.ListTasks(cmd.Context(), a.userID, filter)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.Tasks(tasks))
			return nil
		},
	}

	cmd.Flags().StringVarP(&client, "client", "c", "", "Only tasks of this client")
	cmd.Flags().StringVarP(&status, "status", "s", "", "Only tasks in this status")
	cmd.Flags().StringVar(&filter.SortBy, "sort", "created_at", "Sort by created_at, due_date, impact_score or priority")
	cmd.Flags().BoolVar(&filter.SortDesc, "desc", false, "Sort descending")
	cmd.Flags().IntVarP(&filter.Limit, "limit", "n", 0, "Maximum number of tasks")
	return cmd
}

func newTaskShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show a task with its client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := a.coord.GetTask(cmd.Context(), a.userID, args[0], true)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, report.Tasks([]model.Task{*task}))
			if task.Description != "" {
				fmt.Fprintln(out, task.Description)
			}
			return nil
		},
	}
}

func newTaskUpdateCmd(a *app) *cobra.Command {
	var (
		patch    coordinator.TaskPatch
		title    string
		status   string
		client   string
		priority int
		score    int
		hours    float64
		due      string
	)

	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Update a task",
		Long: `Update a task. Only the flags given are changed.

Examples:
  clientdesk task update <id> --status completed
  clientdesk task update <id> --client <other-client-id>
  clientdesk task update <id> --clear-client`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("title") {
				patch.Title = &title
			}
			if flags.Changed("status") {
				patch.Status = &status
			}
			if flags.Changed("client") {
				patch.ClientID = &client
			}
			if flags.Changed("priority") {
				patch.Priority = &priority
			}
			if flags.Changed("score") {
				patch.ImpactScore = &score
			}
			if flags.Changed("hours") {
				patch.ActualTime = &hours
			}
			if flags.Changed("due") {
				d, err := parseDue(due)
				if err != nil {
					return err
				}
				patch.DueDate = d
			}

			task, err := a.coord.UpdateTask(cmd.Context(), a.userID, args[0], patch)
			if err != nil {
				return err
			}
			printTask(cmd, "Updated", task)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVarP(&status, "status", "s", "", "New status")
	cmd.Flags().StringVarP(&client, "client", "c", "", "Move to this client")
	cmd.Flags().BoolVar(&patch.ClearClient, "clear-client", false, "Detach from its client")
	cmd.Flags().IntVarP(&priority, "priority", "p", 0, "New priority")
	cmd.Flags().IntVar(&score, "score", 0, "New impact score")
	cmd.Flags().Float64Var(&hours, "hours", 0, "Correct the tracked hours")
	cmd.Flags().StringVarP(&due, "due", "d", "", "New due date (YYYY-MM-DD)")
	return cmd
}

func newTaskDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.coord.DeleteTask(cmd.Context(), a.userID, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", args[0])
			return nil
		},
	}
}
