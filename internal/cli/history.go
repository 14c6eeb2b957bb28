package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/keurtrack/internal/wire"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse the inspection history ledger",
	Long:  "List, inspect and delete entries of the append-only inspection history",
}

var historyListCmd = &cobra.Command{
	Use:   "list [serial]",
	Short: "List the history of an item, most recent first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()

		item, err := wire.EquipmentService().GetEquipmentBySerial(ctx, args[0])
		if err != nil {
			return fmt.Errorf("equipment not found: %w", err)
		}

		entries, err := wire.LedgerService().ListHistory(ctx, item.ID)
		if err != nil {
			return fmt.Errorf("failed to list history: %w", err)
		}
		if len(entries) == 0 {
			fmt.Printf("No inspection history for %s.\n", args[0])
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tDATE\tRESULT\tPERFORMED BY\tNEXT DUE\tCERTIFICATE")
		fmt.Fprintln(w, "--\t----\t------\t------------\t--------\t-----------")
		for _, entry := range entries {
			cert := "-"
			if entry.CertificateRef != "" {
				cert = entry.CertificateRef
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				entry.ID,
				entry.PerformedOn,
				entry.Result,
				entry.PerformedBy,
				orDash(entry.NextDue),
				cert,
			)
		}
		w.Flush()
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show [entry-id]",
	Short: "Show a single history entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()

		entry, err := wire.LedgerService().GetEntry(ctx, args[0])
		if err != nil {
			return fmt.Errorf("history entry not found: %w", err)
		}

		fmt.Printf("Entry: %s\n", entry.ID)
		fmt.Printf("Equipment: %s (%s)\n", entry.EquipmentID, entry.Serial)
		fmt.Printf("Performed: %s\n", entry.PerformedOn)
		fmt.Printf("Result: %s\n", entry.Result)
		fmt.Printf("Performed By: %s\n", entry.PerformedBy)
		if entry.NextDue != "" {
			fmt.Printf("Next Due: %s\n", entry.NextDue)
		}
		if entry.CertificateRef != "" {
			fmt.Printf("Certificate: %s\n", entry.CertificateRef)
		}
		if entry.Notes != "" {
			fmt.Printf("Notes: %s\n", entry.Notes)
		}
		fmt.Printf("Recorded: %s\n", entry.CreatedAt)
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete [entry-id]",
	Short: "Delete a history entry and recompute the item state",
	Long:  "Delete one ledger entry. The item's status, last-inspection date and schedule are recomputed from the remaining entries.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		actor, _ := cmd.Flags().GetString("actor")

		entry, err := wire.LedgerService().GetEntry(ctx, args[0])
		if err != nil {
			return fmt.Errorf("history entry not found: %w", err)
		}

		if err := wire.LedgerService().DeleteEntry(ctx, args[0], actorName(actor)); err != nil {
			return fmt.Errorf("failed to delete history entry: %w", err)
		}

		item, err := wire.EquipmentService().GetEquipment(ctx, entry.EquipmentID)
		if err != nil {
			return fmt.Errorf("failed to reload equipment: %w", err)
		}
		fmt.Printf("✓ Deleted entry %s\n", entry.ID)
		if item.Status == "" {
			fmt.Printf("  %s has no remaining history; status cleared\n", item.Serial)
		} else {
			fmt.Printf("  %s recomputed: status %s, last inspection %s\n", item.Serial, item.Status, orDash(item.LastInspection))
		}
		return nil
	},
}

var historyCertificateCmd = &cobra.Command{
	Use:   "certificate [entry-id]",
	Short: "Resolve the certificate attached to an entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()

		location, err := wire.LedgerService().ResolveCertificate(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve certificate: %w", err)
		}
		fmt.Println(location)
		return nil
	},
}

func init() {
	historyDeleteCmd.Flags().String("actor", "", "Actor recorded in the activity log")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyCmd.AddCommand(historyCertificateCmd)
}

// HistoryCmd returns the history command
func HistoryCmd() *cobra.Command {
	return historyCmd
}
