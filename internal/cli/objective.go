package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/clientdesk/internal/coordinator"
)

func newObjectiveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "objective",
		Aliases: []string{"obj"},
		Short:   "Track client objectives",
	}

	var due string
	add := &cobra.Command{
		Use:   "add [client-id] [title]",
		Short: "Add an objective for a client",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDue(due)
			if err != nil {
				return err
			}
			obj, err := a.coord.CreateObjective(cmd.Context(), a.userID, coordinator.ObjectiveInput{
				ClientID: args[0],
				Title:    args[1],
				DueDate:  d,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created objective %s: %s\n", obj.ID, obj.Title)
			return nil
		},
	}
	add.Flags().StringVarP(&due, "due", "d", "", "Due date (YYYY-MM-DD)")

	var client string
	list := &cobra.Command{
		Use:   "list",
		Short: "List objectives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter *string
			if client != "" {
				filter = &client
			}
			objectives, err := a.coord.ListObjectives(cmd.Context(), a.userID, filter)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(objectives) == 0 {
				fmt.Fprintln(out, "No objectives.")
				return nil
			}
			for _, o := range objectives {
				mark := "[ ]"
				if o.Completed {
					mark = "[x]"
				}
				fmt.Fprintf(out, "%s %s  %s\n", mark, o.ID, o.Title)
			}
			return nil
		},
	}
	list.Flags().StringVarP(&client, "client", "c", "", "Only objectives of this client")

	done := &cobra.Command{
		Use:   "done [id]",
		Short: "Mark an objective completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			completed := true
			obj, err := a.coord.UpdateObjective(cmd.Context(), a.userID, args[0],
				coordinator.ObjectivePatch{Completed: &completed})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Completed objective %s\n", obj.Title)
			return nil
		},
	}

	move := &cobra.Command{
		Use:   "move [id] [client-id]",
		Short: "Move an objective to another client",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			obj, err := a.coord.UpdateObjective(cmd.Context(), a.userID, args[0],
				coordinator.ObjectivePatch{ClientID: &args[1]})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved objective %s to client %s\n", obj.Title, obj.ClientID)
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete an objective",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.coord.DeleteObjective(cmd.Context(), a.userID, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted objective %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(add, list, done, move, del)
	return cmd
}
