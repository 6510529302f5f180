package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nhle/clientdesk/internal/model"
	"github.com/nhle/clientdesk/internal/report"
)

func newImpactCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "impact",
		Short: "Rank tasks by impact",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "classify",
			Short: "Flag the top fifth of open tasks as high impact",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				ranking, err := a.coord.ClassifyHighImpact(cmd.Context(), a.userID)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), report.Ranking(*ranking))
				return nil
			},
		},
		&cobra.Command{
			Use:   "client [client-id]",
			Short: "Completion and impact statistics for a client",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				client, err := a.coord.GetClient(cmd.Context(), a.userID, model.ClientID(args[0]))
				if err != nil {
					return err
				}
				stats, err := a.coord.ClientImpact(cmd.Context(), a.userID, client.ID)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), report.ClientImpact(client.Name, *stats))
				return nil
			},
		},
		&cobra.Command{
			Use:   "score [task-id] [score]",
			Short: "Set a task's impact score (0-100)",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				score, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("score must be an integer: %w", err)
				}
				if err := a.coord.SetImpactScore(cmd.Context(), a.userID, args[0], score); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Task %s scored %d\n", args[0], score)
				return nil
			},
		},
	)
	return cmd
}
