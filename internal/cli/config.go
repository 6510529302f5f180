package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/nhle/clientdesk/internal/model"
)

// skipOpen marks commands that run without configuration or a database.
const skipOpen = "clientdesk/skip-open"

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Manage the configuration file",
		Annotations: map[string]string{skipOpen: "true"},
	}

	var (
		force  bool
		tokens []string
	)
	initCmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a default configuration file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipOpen: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(a.configPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", a.configPath)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			cfg := model.DefaultConfig()
			for _, tok := range tokens {
				cfg.Auth.Principals = append(cfg.Auth.Principals, model.Principal{Token: tok, UserID: a.userID})
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := model.SaveConfig(a.configPath, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", a.configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	initCmd.Flags().StringArrayVar(&tokens, "token", nil, "API token for --user (repeatable)")

	pathCmd := &cobra.Command{
		Use:         "path",
		Short:       "Print the configuration file path",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipOpen: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), a.configPath)
			return nil
		},
	}

	cmd.AddCommand(initCmd, pathCmd)
	return cmd
}
