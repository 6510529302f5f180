package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/clientdesk/internal/coordinator"
	"github.com/nhle/clientdesk/internal/report"
	"github.com/nhle/clientdesk/internal/store"
)

func newTimerCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timer",
		Short: "Track time",
	}
	cmd.AddCommand(
		newTimerStartCmd(a),
		newTimerStopCmd(a),
		newTimerStatusCmd(a),
		newTimerListCmd(a),
	)
	return cmd
}

func newTimerStartCmd(a *app) *cobra.Command {
	var (
		in          coordinator.TimerInput
		task        string
		client      string
		nonBillable bool
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a timer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if task != "" {
				in.TaskID = &task
			}
			if client != "" {
				in.ClientID = &client
			}
			billable := !nonBillable
			in.Billable = &billable

			timer, err := a.coord.StartTimer(cmd.Context(), a.userID, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Started timer %s at %s\n",
				timer.ID, timer.StartTime.Local().Format("15:04"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&task, "task", "t", "", "Task id")
	cmd.Flags().StringVarP(&client, "client", "c", "", "Client id (defaults to the task's client)")
	cmd.Flags().StringVar(&in.Description, "description", "", "What you are working on")
	cmd.Flags().BoolVar(&nonBillable, "non-billable", false, "Mark the time as non-billable")
	return cmd
}

func newTimerStopCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stop [id]",
		Short: "Stop a timer (the running one when no id is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id string
			if len(args) == 1 {
				id = args[0]
			}
			res, err := a.coord.StopTimer(cmd.Context(), a.userID, id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Stopped timer %s after %.2fh\n", res.Timer.ID, res.Hours)
			if res.Task != nil {
				fmt.Fprintf(out, "Task %s now at %.2fh\n", res.Task.Title, res.Task.ActualTime)
			}
			return nil
		},
	}
}

func newTimerStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the running timer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			timer, err := a.coord.ActiveTimer(cmd.Context(), a.userID)
			if err != nil {
				return err
			}
			elapsed := time.Since(timer.StartTime).Round(time.Minute)
			fmt.Fprintf(cmd.OutOrStdout(), "Timer %s running for %s %s\n",
				timer.ID, elapsed, timer.Description)
			return nil
		},
	}
}

func newTimerListCmd(a *app) *cobra.Command {
	var (
		filter store.TimerFilter
		client string
		since  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List timers with totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if client != "" {
				filter.ClientID = &client
			}
			if since != "" {
				d, err := time.ParseInLocation(dateLayout, since, time.Local)
				if err != nil {
					return fmt.Errorf("since must look like 2024-01-15: %w", err)
				}
				filter.Since = &d
			}

			sum, err := a.coord.ListTimers(cmd.Context(), a.userID, filter)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.Timers(sum))
			return nil
		},
	}

	cmd.Flags().StringVarP(&client, "client", "c", "", "Only timers of this client")
	cmd.Flags().StringVar(&since, "since", "", "Only timers started on or after this date (YYYY-MM-DD)")
	cmd.Flags().IntVarP(&filter.Limit, "limit", "n", 0, "Maximum number of timers")
	return cmd
}
