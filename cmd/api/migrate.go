package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-constellation/internal/adapters/database"
	"github.com/comitanigiacomo/kanso-constellation/internal/config"
)

func newMigrateCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "migrate <up|down|status|version>",
		Short:     "Manage the database schema",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status", "version"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd, root, args[0])
		},
	}
	return cmd
}

func runMigrate(cmd *cobra.Command, root *rootOptions, action string) error {
	cfg, err := config.Load(root.envFile)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := database.Open(ctx, cfg.PostgresDSN())
	if err != nil {
		return err
	}
	defer db.Close()

	switch action {
	case "up":
		err = database.Migrate(ctx, db)
	case "down":
		err = database.Rollback(ctx, db)
	case "status":
		err = database.Status(ctx, db)
	case "version":
		var version int64
		version, err = database.Version(ctx, db)
		if err == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
		}
	}
	return err
}
