package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/keurtrack/internal/ports/primary"
	"github.com/example/keurtrack/internal/wire"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run the expiry scan",
	Long:  "Flip compliant items whose planned date or validity window has lapsed to expired. Safe to run repeatedly.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		actor, _ := cmd.Flags().GetString("actor")

		report, err := wire.ScannerService().Scan(ctx, primary.ScanRequest{
			DryRun: dryRun,
			Actor:  actorName(actor),
		})
		if err != nil {
			return fmt.Errorf("expiry scan failed: %w", err)
		}

		if len(report.Expired) == 0 {
			fmt.Printf("Examined %d items; nothing to expire.\n", report.Examined)
			return nil
		}

		verb := "Expired"
		if report.DryRun {
			verb = "Would expire"
		}
		fmt.Printf("Examined %d items. %s %d:\n", report.Examined, verb, len(report.Expired))
		for _, change := range report.Expired {
			fmt.Printf("  %s %s: %s\n", change.Serial, change.Name, change.Reason)
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().Bool("dry-run", false, "Report what would change without writing")
	scanCmd.Flags().String("actor", "", "Actor recorded in the activity log")
}

// ScanCmd returns the scan command
func ScanCmd() *cobra.Command {
	return scanCmd
}
