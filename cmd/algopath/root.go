package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/kasyap600/AlgoPath/backend/catalog"
	"github.com/kasyap600/AlgoPath/backend/config"
	"github.com/kasyap600/AlgoPath/backend/docstore"
	"github.com/kasyap600/AlgoPath/backend/progress"
	"github.com/kasyap600/AlgoPath/backend/utils"
	"github.com/spf13/cobra"
)

// env is what every subcommand works against. It is filled by the root
// command before any subcommand runs.
type env struct {
	cfg    *config.Config
	logger *log.Logger
	store  docstore.Store
}

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:   "algopath",
		Short: "Admin tool for the AlgoPath progress backend",
		Long: `algopath inspects the problem catalog and reads or repairs
user progress in the configured document store. It reads the same
environment (.env, DB_DRIVER, ...) as the server.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			e.cfg = cfg
			e.logger = utils.InitLogger(utils.LoggerConfig{
				Format: cfg.LogFormat,
				Level:  cfg.LogLevel,
				Output: cmd.ErrOrStderr(),
			})
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}
	root.AddCommand(
		newCatalogCmd(e),
		newStatsCmd(e),
		newMarkCmd(e),
		newTokenCmd(e),
		newMigrateLegacyCmd(e),
		newExportCmd(e),
	)
	return root
}

func (e *env) catalog() (*catalog.Catalog, error) {
	if e.cfg.CatalogDir != "" {
		return catalog.LoadDir(e.cfg.CatalogDir)
	}
	return catalog.Default()
}

func (e *env) openStore(ctx context.Context) (docstore.Store, error) {
	if e.store != nil {
		return e.store, nil
	}
	store, err := utils.OpenDocumentStore(ctx, e.cfg, e.logger)
	if err != nil {
		return nil, err
	}
	e.store = store
	return store, nil
}

func (e *env) sessions(ctx context.Context) (*progress.Sessions, error) {
	store, err := e.openStore(ctx)
	if err != nil {
		return nil, err
	}
	return progress.NewSessions(store, e.cfg.SessionIdleTimeout,
		progress.WithLogger(e.logger),
		progress.WithTimeout(e.cfg.PersistTimeout),
	), nil
}

// close releases the store opened by the subcommand, if any.
func (e *env) close() error {
	if e.store == nil {
		return nil
	}
	err := e.store.Close()
	e.store = nil
	return err
}

func Execute() {
	e := &env{}
	err := newRootCmd(e).Execute()
	if cerr := e.close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
