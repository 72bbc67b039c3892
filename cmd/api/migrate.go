package main

import (
	"fmt"

	pg "pet-vaccination-history/internal/adapters/storage/postgres"
	"pet-vaccination-history/internal/config"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down]",
	Short:     "Aplica (up) o revierte (down) las migraciones de Postgres",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configDir)
		if err != nil {
			return err
		}
		if cfg.Database.Driver != config.DriverPostgres {
			// sqlite crea su esquema al abrir; memory no persiste
			return fmt.Errorf("migrate: database.driver=%s has no migrations", cfg.Database.Driver)
		}

		up := len(args) == 0 || args[0] == "up"
		v, err := pg.Migrate(cfg.Database.DSN, up)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "schema version: %d\n", v)
		return nil
	},
}
