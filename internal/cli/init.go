package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/keurtrack/internal/config"
	"github.com/example/keurtrack/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the keurtrack database",
		Long:  `Initialize the keurtrack database at ~/.keurtrack/keurtrack.db with the required schema.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, _ := cmd.Flags().GetBool("seed")

			dbPath, err := db.GetDBPath()
			if err != nil {
				return fmt.Errorf("failed to get database path: %w", err)
			}

			fmt.Printf("Initializing keurtrack database at %s\n", dbPath)

			database, err := db.GetDB()
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			fmt.Println("✓ Database initialized successfully")

			dir, err := config.HomeDir()
			if err != nil {
				return err
			}
			if err := ensureConfig(dir); err != nil {
				return fmt.Errorf("failed to write default config: %w", err)
			}

			if seed {
				if err := db.SeedFixtures(database); err != nil {
					return fmt.Errorf("failed to seed fixtures: %w", err)
				}
				fmt.Println("✓ Development fixtures loaded")
			}

			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  keurtrack equipment register KT-2026-0001 --name \"Chain hoist\" --type \"hoisting equipment\"")
			fmt.Println("  keurtrack worklist")
			return nil
		},
	}
	cmd.Flags().Bool("seed", false, "Load development fixtures")
	return cmd
}

// ensureConfig writes a default config.yaml when none exists yet.
func ensureConfig(dir string) error {
	path := dir + "/config.yaml"
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	cfg, err := config.LoadFrom(dir)
	if err != nil {
		return err
	}
	if err := config.Save(dir, cfg); err != nil {
		return err
	}
	fmt.Printf("✓ Default config written to %s\n", path)
	return nil
}
