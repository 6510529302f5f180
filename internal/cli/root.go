// Package cli implements the clientdesk command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nhle/clientdesk/internal/coordinator"
	"github.com/nhle/clientdesk/internal/credential"
	"github.com/nhle/clientdesk/internal/logging"
	"github.com/nhle/clientdesk/internal/model"
	"github.com/nhle/clientdesk/internal/store"
)

// app holds what a command needs once the root pre-run has loaded
// configuration and opened the database.
type app struct {
	configPath string
	userID     string

	cfg    *model.AppConfig
	logger *zap.Logger
	store  *store.SQLStore
	coord  *coordinator.Coordinator
}

// newRoot builds the command tree and returns the state its commands share.
// Callers close the app once the command has run, including on failure.
func newRoot() (*cobra.Command, *app) {
	a := &app{}

	root := &cobra.Command{
		Use:           "clientdesk",
		Short:         "Client profitability and task impact for freelancers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch cmd.Name() {
			case "help", "completion", cobra.ShellCompRequestCmd:
				return nil
			}
			if cmd.Annotations[skipOpen] == "true" {
				return nil
			}
			return a.open()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", model.DefaultConfigPath(), "Path to config file")
	root.PersistentFlags().StringVarP(&a.userID, "user", "u", defaultUser(), "User the command acts for")

	root.AddCommand(
		newServeCmd(a),
		newClientCmd(a),
		newTaskCmd(a),
		newTimerCmd(a),
		newProfitCmd(a),
		newImpactCmd(a),
		newObjectiveCmd(a),
		newConfigCmd(a),
	)
	return root, a
}

// Execute runs the root command.
func Execute() error {
	root, a := newRoot()
	defer a.close()
	return root.Execute()
}

func (a *app) open() error {
	if a.userID == "" {
		return fmt.Errorf("no user: pass --user or set USER")
	}

	cfg, err := model.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	a.logger = logger

	dsn, err := credential.ResolveDSN(cfg.Database)
	if err != nil {
		return err
	}
	s, err := store.Open(cfg.Database.Driver, dsn)
	if err != nil {
		logger.Error("failed to open database",
			zap.String("driver", cfg.Database.Driver),
			zap.Error(err))
		return fmt.Errorf("opening database: %w", err)
	}
	a.store = s

	a.coord = coordinator.New(s,
		coordinator.WithLogger(logger),
		coordinator.WithTimeout(cfg.Store.Timeout))
	return nil
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("closing database", zap.Error(err))
		}
		a.store = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func defaultUser() string {
	if u := os.Getenv("CLIENTDESK_USER"); u != "" {
		return u
	}
	return os.Getenv("USER")
}
