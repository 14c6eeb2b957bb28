package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/keurtrack/internal/cli"
	"github.com/example/keurtrack/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "keurtrack",
		Short:   "keurtrack - equipment inspection lifecycle tracker",
		Version: version.String(),
		Long: `keurtrack tracks equipment safety inspections: the registry, the
append-only inspection history, planned inspections with automatic expiry,
and a risk-prioritized worklist.`,
	}

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.StatusCmd())
	rootCmd.AddCommand(cli.EquipmentCmd())
	rootCmd.AddCommand(cli.InspectionCmd())
	rootCmd.AddCommand(cli.HistoryCmd())
	rootCmd.AddCommand(cli.WorklistCmd())
	rootCmd.AddCommand(cli.ScanCmd())
	rootCmd.AddCommand(cli.TypeCmd())
	rootCmd.AddCommand(cli.ActivityCmd())
	rootCmd.AddCommand(cli.ServeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
