package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/keurtrack/internal/ports/primary"
	"github.com/example/keurtrack/internal/wire"
)

var equipmentCmd = &cobra.Command{
	Use:   "equipment",
	Short: "Manage equipment items",
	Long:  "Register, list and maintain the equipment items under inspection",
}

var equipmentRegisterCmd = &cobra.Command{
	Use:   "register [serial]",
	Short: "Register a new equipment item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		name, _ := cmd.Flags().GetString("name")
		typeName, _ := cmd.Flags().GetString("type")
		site, _ := cmd.Flags().GetString("site")
		projectID, _ := cmd.Flags().GetString("project")
		status, _ := cmd.Flags().GetString("status")
		lastInspection, _ := cmd.Flags().GetString("last-inspection")
		purchaseDate, _ := cmd.Flags().GetString("purchased")
		notes, _ := cmd.Flags().GetString("notes")
		actor, _ := cmd.Flags().GetString("actor")

		item, err := wire.EquipmentService().RegisterEquipment(ctx, primary.RegisterEquipmentRequest{
			Serial:         args[0],
			Name:           name,
			TypeName:       typeName,
			Site:           site,
			ProjectID:      projectID,
			Status:         status,
			LastInspection: lastInspection,
			PurchaseDate:   purchaseDate,
			Notes:          notes,
			Actor:          actorName(actor),
		})
		if err != nil {
			return fmt.Errorf("failed to register equipment: %w", err)
		}

		fmt.Printf("✓ Registered %s (%s) as %s\n", item.Name, item.Serial, item.ID)
		if item.Status != status && item.LastInspection != "" {
			fmt.Printf("  Status set to %s (last inspection %s is outside the validity window)\n", item.Status, item.LastInspection)
		}
		return nil
	},
}

var equipmentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List equipment items",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		search, _ := cmd.Flags().GetString("search")
		typeName, _ := cmd.Flags().GetString("type")
		status, _ := cmd.Flags().GetString("status")

		items, err := wire.EquipmentService().ListEquipment(ctx, primary.EquipmentFilters{
			Search:   search,
			TypeName: typeName,
			Status:   status,
		})
		if err != nil {
			return fmt.Errorf("failed to list equipment: %w", err)
		}

		if len(items) == 0 {
			fmt.Println("No equipment found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSERIAL\tNAME\tTYPE\tSTATUS\tLAST INSPECTION\tNEXT DUE")
		fmt.Fprintln(w, "--\t------\t----\t----\t------\t---------------\t--------")
		for _, item := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				item.ID,
				item.Serial,
				item.Name,
				orDash(item.TypeName),
				orDash(item.Status),
				orDash(item.LastInspection),
				orDash(item.NextDue),
			)
		}
		w.Flush()
		return nil
	},
}

var equipmentShowCmd = &cobra.Command{
	Use:   "show [serial]",
	Short: "Show equipment details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()

		item, err := wire.EquipmentService().GetEquipmentBySerial(ctx, args[0])
		if err != nil {
			return fmt.Errorf("equipment not found: %w", err)
		}

		fmt.Printf("Equipment: %s\n", item.ID)
		fmt.Printf("Serial: %s\n", item.Serial)
		fmt.Printf("Name: %s\n", item.Name)
		if item.TypeName != "" {
			fmt.Printf("Type: %s\n", item.TypeName)
		}
		if item.Site != "" {
			fmt.Printf("Site: %s\n", item.Site)
		}
		if item.ProjectID != "" {
			fmt.Printf("Project: %s\n", item.ProjectID)
		}
		fmt.Printf("Status: %s\n", orDash(item.Status))
		if item.LastInspection != "" {
			fmt.Printf("Last Inspection: %s\n", item.LastInspection)
		}
		if item.NextDue != "" {
			fmt.Printf("Next Due: %s\n", item.NextDue)
		}
		if item.PurchaseDate != "" {
			fmt.Printf("Purchased: %s\n", item.PurchaseDate)
		}
		if item.ActivelyUsed {
			fmt.Println("In Use: yes")
		}
		if item.Notes != "" {
			fmt.Printf("Notes: %s\n", item.Notes)
		}
		fmt.Printf("Created: %s\n", item.CreatedAt)

		history, err := wire.LedgerService().ListHistory(ctx, item.ID)
		if err == nil && len(history) > 0 {
			fmt.Println("\nInspection history:")
			for _, entry := range history {
				cert := ""
				if entry.CertificateRef != "" {
					cert = " [certificate]"
				}
				fmt.Printf("  %s  %-12s by %s%s\n", entry.PerformedOn, entry.Result, entry.PerformedBy, cert)
			}
		}
		return nil
	},
}

var equipmentUpdateCmd = &cobra.Command{
	Use:   "update [equipment-id]",
	Short: "Update the descriptive fields of an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()

		item, err := wire.EquipmentService().GetEquipment(ctx, args[0])
		if err != nil {
			return fmt.Errorf("equipment not found: %w", err)
		}

		req := primary.UpdateEquipmentRequest{
			ID:        item.ID,
			Name:      item.Name,
			TypeName:  item.TypeName,
			ProjectID: item.ProjectID,
			Site:      item.Site,
			Notes:     item.Notes,
		}
		if v, _ := cmd.Flags().GetString("name"); v != "" {
			req.Name = v
		}
		if v, _ := cmd.Flags().GetString("type"); v != "" {
			req.TypeName = v
		}
		if v, _ := cmd.Flags().GetString("site"); v != "" {
			req.Site = v
		}
		if v, _ := cmd.Flags().GetString("project"); v != "" {
			req.ProjectID = v
		}
		if v, _ := cmd.Flags().GetString("notes"); v != "" {
			req.Notes = v
		}
		actor, _ := cmd.Flags().GetString("actor")
		req.Actor = actorName(actor)

		if err := wire.EquipmentService().UpdateEquipment(ctx, req); err != nil {
			return fmt.Errorf("failed to update equipment: %w", err)
		}
		fmt.Printf("✓ Updated %s\n", item.ID)
		return nil
	},
}

var equipmentDeleteCmd = &cobra.Command{
	Use:   "delete [equipment-id]",
	Short: "Remove an item from the active registry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		actor, _ := cmd.Flags().GetString("actor")

		if err := wire.EquipmentService().DeleteEquipment(ctx, args[0], actorName(actor)); err != nil {
			return fmt.Errorf("failed to delete equipment: %w", err)
		}
		fmt.Printf("✓ Removed %s (history is retained)\n", args[0])
		return nil
	},
}

var equipmentAssignCmd = &cobra.Command{
	Use:   "assign [equipment-id]",
	Short: "Assign an item to a person or project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		assignee, _ := cmd.Flags().GetString("to")
		projectID, _ := cmd.Flags().GetString("project")
		startDate, _ := cmd.Flags().GetString("start")
		notes, _ := cmd.Flags().GetString("notes")
		actor, _ := cmd.Flags().GetString("actor")

		if err := wire.EquipmentService().AssignEquipment(ctx, primary.AssignEquipmentRequest{
			EquipmentID: args[0],
			AssignedTo:  assignee,
			ProjectID:   projectID,
			StartDate:   startDate,
			Notes:       notes,
			Actor:       actorName(actor),
		}); err != nil {
			return fmt.Errorf("failed to assign equipment: %w", err)
		}
		fmt.Printf("✓ Assigned %s to %s\n", args[0], assignee)
		return nil
	},
}

var equipmentReleaseCmd = &cobra.Command{
	Use:   "release [equipment-id]",
	Short: "Close the open assignment of an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		endDate, _ := cmd.Flags().GetString("end")
		actor, _ := cmd.Flags().GetString("actor")

		if err := wire.EquipmentService().ReleaseEquipment(ctx, args[0], endDate, actorName(actor)); err != nil {
			return fmt.Errorf("failed to release equipment: %w", err)
		}
		fmt.Printf("✓ Released %s\n", args[0])
		return nil
	},
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	equipmentRegisterCmd.Flags().StringP("name", "n", "", "Equipment name (required)")
	equipmentRegisterCmd.Flags().StringP("type", "t", "", "Equipment type name")
	equipmentRegisterCmd.Flags().String("site", "", "Site or storage location")
	equipmentRegisterCmd.Flags().String("project", "", "Linked project ID")
	equipmentRegisterCmd.Flags().StringP("status", "s", "compliant", "Initial status (compliant|rejected|conditional)")
	equipmentRegisterCmd.Flags().String("last-inspection", "", "Last inspection date (2006-01-02)")
	equipmentRegisterCmd.Flags().String("purchased", "", "Purchase date (2006-01-02)")
	equipmentRegisterCmd.Flags().String("notes", "", "Free-form notes")
	equipmentRegisterCmd.Flags().String("actor", "", "Actor recorded in the activity log")

	equipmentListCmd.Flags().String("search", "", "Substring filter on name or serial")
	equipmentListCmd.Flags().StringP("type", "t", "", "Filter by type name")
	equipmentListCmd.Flags().StringP("status", "s", "", "Filter by status")

	equipmentUpdateCmd.Flags().StringP("name", "n", "", "New name")
	equipmentUpdateCmd.Flags().StringP("type", "t", "", "New type name")
	equipmentUpdateCmd.Flags().String("site", "", "New site")
	equipmentUpdateCmd.Flags().String("project", "", "New project ID")
	equipmentUpdateCmd.Flags().String("notes", "", "New notes")
	equipmentUpdateCmd.Flags().String("actor", "", "Actor recorded in the activity log")

	equipmentDeleteCmd.Flags().String("actor", "", "Actor recorded in the activity log")

	equipmentAssignCmd.Flags().String("to", "", "Assignee name (required)")
	equipmentAssignCmd.Flags().String("project", "", "Project the item is used on")
	equipmentAssignCmd.Flags().String("start", "", "Start date (defaults to today)")
	equipmentAssignCmd.Flags().String("notes", "", "Free-form notes")
	equipmentAssignCmd.Flags().String("actor", "", "Actor recorded in the activity log")

	equipmentReleaseCmd.Flags().String("end", "", "End date (defaults to today)")
	equipmentReleaseCmd.Flags().String("actor", "", "Actor recorded in the activity log")

	equipmentCmd.AddCommand(equipmentRegisterCmd)
	equipmentCmd.AddCommand(equipmentListCmd)
	equipmentCmd.AddCommand(equipmentShowCmd)
	equipmentCmd.AddCommand(equipmentUpdateCmd)
	equipmentCmd.AddCommand(equipmentDeleteCmd)
	equipmentCmd.AddCommand(equipmentAssignCmd)
	equipmentCmd.AddCommand(equipmentReleaseCmd)
}

// EquipmentCmd returns the equipment command
func EquipmentCmd() *cobra.Command {
	return equipmentCmd
}
