package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/clientdesk/internal/coordinator"
	"github.com/nhle/clientdesk/internal/model"
)

func newClientCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Manage clients",
	}
	cmd.AddCommand(
		newClientAddCmd(a),
		newClientListCmd(a),
		newClientShowCmd(a),
		newClientDeleteCmd(a),
	)
	return cmd
}

func newClientAddCmd(a *app) *cobra.Command {
	var (
		in     coordinator.ClientInput
		rate   float64
		budget float64
		target float64
	)

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a client, optionally with a profitability record",
		Long: `Add a client.

Passing --rate also creates the client's profitability record. Target hours
default to budget / rate rounded to one decimal.

Examples:
  clientdesk client add "Acme Corp" --email ops@acme.test
  clientdesk client add "Globex" --rate 100 --budget 1000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Name = args[0]
			if cmd.Flags().Changed("rate") {
				in.Profitability = &model.ProfitabilityInput{
					HourlyRate:    rate,
					MonthlyBudget: budget,
				}
				if cmd.Flags().Changed("target") {
					in.Profitability.TargetHours = &target
				}
			}

			res, err := a.coord.CreateClient(cmd.Context(), a.userID, in)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created client %s (%s)\n", res.Client.Name, res.Client.ID)
			if p := res.Profitability; p != nil {
				fmt.Fprintf(out, "Profitability: rate %.2f, budget %.2f, target %.1fh\n",
					p.HourlyRate, p.MonthlyBudget, p.TargetHours)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Email, "email", "", "Contact email")
	cmd.Flags().StringVar(&in.Company, "company", "", "Company name")
	cmd.Flags().StringVar(&in.Notes, "notes", "", "Free-form notes")
	cmd.Flags().Float64Var(&rate, "rate", 0, "Hourly rate")
	cmd.Flags().Float64Var(&budget, "budget", 0, "Monthly budget")
	cmd.Flags().Float64Var(&target, "target", 0, "Target hours (defaults to budget / rate)")
	return cmd
}

func newClientListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List clients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clients, err := a.coord.ListClients(cmd.Context(), a.userID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(clients) == 0 {
				fmt.Fprintln(out, "No clients.")
				return nil
			}
			for _, c := range clients {
				fmt.Fprintf(out, "%s  %-24s  tasks %d (done %d, active %d, pending %d)\n",
					c.ID, c.Name, c.TotalTasks(), c.TasksCompleted, c.TasksInProgress, c.TasksPending)
			}
			return nil
		},
	}
}

func newClientShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show a client and its counters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.coord.GetClient(cmd.Context(), a.userID, model.ClientID(args[0]))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", c.Name, c.ID)
			if c.Company != "" {
				fmt.Fprintf(out, "Company:    %s\n", c.Company)
			}
			if c.Email != "" {
				fmt.Fprintf(out, "Email:      %s\n", c.Email)
			}
			fmt.Fprintf(out, "Tasks:      %d completed, %d in progress, %d pending\n",
				c.TasksCompleted, c.TasksInProgress, c.TasksPending)
			fmt.Fprintf(out, "Objectives: %d (%d completed, %d pending)\n",
				c.ObjectivesCount, c.ObjectivesCompleted, c.ObjectivesPending)
			if c.LastActivity != nil {
				fmt.Fprintf(out, "Last activity: %s\n", c.LastActivity.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func newClientDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a client with its tasks, objectives and profitability",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.coord.DeleteClient(cmd.Context(), a.userID, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted client %s: %d tasks, %d objectives, profitability record removed: %t\n",
				res.ClientID, res.TasksCount, res.ObjectivesCount, res.ProfitabilityDeleted)
			return nil
		},
	}
}
