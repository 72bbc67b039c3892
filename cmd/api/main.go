package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// @title Pet Vaccination History API
// @version 1.0
// @description Historial de vacunas por mascota con estado calculado y sugerencia de refuerzos.
// @BasePath /

var configDir string

var rootCmd = &cobra.Command{
	Use:   "petvax",
	Short: "Historial de vacunas de mascotas",
	Long: `Servicio HTTP del historial de vacunas.

Subcomandos:
  serve   - levanta la API
  migrate - aplica o revierte migraciones de Postgres`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "directorio con config.yaml (opcional)")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
