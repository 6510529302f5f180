package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/clientdesk/internal/model"
	"github.com/nhle/clientdesk/internal/report"
)

func newProfitCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profit",
		Short: "Client profitability",
	}
	cmd.AddCommand(
		newProfitShowCmd(a),
		newProfitSetCmd(a),
		newProfitSyncCmd(a),
	)
	return cmd
}

// clientNames maps client ids to names for report rendering.
func (a *app) clientNames(cmd *cobra.Command) (map[string]string, error) {
	clients, err := a.coord.ListClients(cmd.Context(), a.userID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(clients))
	for _, c := range clients {
		names[c.ID] = c.Name
	}
	return names, nil
}

func newProfitShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show [client-id]",
		Short: "Show profitability for one client or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var records []model.Profitability
			if len(args) == 1 {
				p, err := a.coord.GetProfitability(cmd.Context(), a.userID, args[0])
				if err != nil {
					return err
				}
				records = []model.Profitability{*p}
			} else {
				var err error
				if records, err = a.coord.ListProfitability(cmd.Context(), a.userID); err != nil {
					return err
				}
			}

			names, err := a.clientNames(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.Profitability(records, names))
			return nil
		},
	}
}

func newProfitSetCmd(a *app) *cobra.Command {
	var (
		rate, target, budget, hours, revenue float64
		version                              int64
	)

	cmd := &cobra.Command{
		Use:   "set [client-id]",
		Short: "Edit a client's profitability figures",
		Long: `Edit a client's profitability figures. Only the flags given change.
Changing the budget without --target re-derives the target hours.

Examples:
  clientdesk profit set <id> --revenue 1500
  clientdesk profit set <id> --budget 2000 --version 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch model.ProfitabilityPatch
			flags := cmd.Flags()
			if flags.Changed("rate") {
				patch.HourlyRate = &rate
			}
			if flags.Changed("target") {
				patch.TargetHours = &target
			}
			if flags.Changed("budget") {
				patch.MonthlyBudget = &budget
			}
			if flags.Changed("hours") {
				patch.ActualHours = &hours
			}
			if flags.Changed("revenue") {
				patch.Revenue = &revenue
			}
			if flags.Changed("version") {
				patch.ExpectedVersion = &version
			}

			p, err := a.coord.UpdateProfitability(cmd.Context(), a.userID, args[0], patch)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.Profitability([]model.Profitability{*p},
				map[string]string{p.ClientID: p.Client.Name}))
			return nil
		},
	}

	cmd.Flags().Float64Var(&rate, "rate", 0, "Hourly rate")
	cmd.Flags().Float64Var(&target, "target", 0, "Target hours")
	cmd.Flags().Float64Var(&budget, "budget", 0, "Monthly budget")
	cmd.Flags().Float64Var(&hours, "hours", 0, "Actual hours")
	cmd.Flags().Float64Var(&revenue, "revenue", 0, "Revenue")
	cmd.Flags().Int64Var(&version, "version", 0, "Fail unless the record is at this version")
	return cmd
}

func newProfitSyncCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync [client-id]",
		Short: "Recompute actual hours from completed tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.coord.SyncHoursFromTasks(cmd.Context(), a.userID, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.Profitability([]model.Profitability{*p},
				map[string]string{p.ClientID: p.Client.Name}))
			return nil
		},
	}
}
