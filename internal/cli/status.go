package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/keurtrack/internal/wire"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the inspection dashboard",
	Long:  "Aggregate counters over the equipment registry. The expiry scan runs first, so the numbers are current.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()

		counts, err := wire.EquipmentService().DashboardCounts(ctx)
		if err != nil {
			return fmt.Errorf("failed to load dashboard: %w", err)
		}

		fmt.Printf("Equipment: %d total, %d in use\n\n", counts.Total, counts.InUse)

		fmt.Printf("  %s  %d\n", color.New(color.FgGreen).Sprint("compliant  "), counts.Compliant)
		fmt.Printf("  %s  %d\n", color.New(color.FgYellow).Sprint("conditional"), counts.Conditional)
		fmt.Printf("  %s  %d\n", color.New(color.FgRed).Sprint("rejected   "), counts.Rejected)
		fmt.Printf("  %s  %d\n", color.New(color.FgRed).Sprint("expired    "), counts.Expired)
		fmt.Printf("  %s  %d\n", color.New(color.FgCyan).Sprint("scheduled  "), counts.Scheduled)

		fmt.Printf("\nPlanning: %d due within 30 days, %d overdue\n", counts.DueSoon, counts.Overdue)
		return nil
	},
}

// StatusCmd returns the status command
func StatusCmd() *cobra.Command {
	return statusCmd
}
