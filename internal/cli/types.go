package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/keurtrack/internal/ports/primary"
	"github.com/example/keurtrack/internal/wire"
)

var typeCmd = &cobra.Command{
	Use:   "type",
	Short: "Manage equipment types",
	Long:  "Equipment types carry the validity window used by the expiry scan",
}

var typeCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create an equipment type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		description, _ := cmd.Flags().GetString("description")
		validityDays, _ := cmd.Flags().GetInt("validity-days")
		actor, _ := cmd.Flags().GetString("actor")

		created, err := wire.TypeService().CreateType(ctx, primary.TypeRequest{
			Name:         args[0],
			Description:  description,
			ValidityDays: validityDays,
			Actor:        actorName(actor),
		})
		if err != nil {
			return fmt.Errorf("failed to create type: %w", err)
		}

		fmt.Printf("✓ Created type %s", created.Name)
		if created.ValidityDays > 0 {
			fmt.Printf(" (validity %d days)", created.ValidityDays)
		}
		fmt.Println()
		return nil
	},
}

var typeUpdateCmd = &cobra.Command{
	Use:   "update [name]",
	Short: "Update an equipment type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()

		existing, err := wire.TypeService().GetType(ctx, args[0])
		if err != nil {
			return fmt.Errorf("type not found: %w", err)
		}

		req := primary.TypeRequest{
			Name:         existing.Name,
			Description:  existing.Description,
			ValidityDays: existing.ValidityDays,
		}
		if v, _ := cmd.Flags().GetString("description"); v != "" {
			req.Description = v
		}
		if cmd.Flags().Changed("validity-days") {
			req.ValidityDays, _ = cmd.Flags().GetInt("validity-days")
		}
		actor, _ := cmd.Flags().GetString("actor")
		req.Actor = actorName(actor)

		if err := wire.TypeService().UpdateType(ctx, req); err != nil {
			return fmt.Errorf("failed to update type: %w", err)
		}
		fmt.Printf("✓ Updated type %s\n", args[0])
		return nil
	},
}

var typeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List equipment types",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()

		types, err := wire.TypeService().ListTypes(ctx)
		if err != nil {
			return fmt.Errorf("failed to list types: %w", err)
		}
		if len(types) == 0 {
			fmt.Println("No types defined.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tVALIDITY\tDESCRIPTION")
		fmt.Fprintln(w, "----\t--------\t-----------")
		for _, t := range types {
			validity := "-"
			if t.ValidityDays > 0 {
				validity = fmt.Sprintf("%d days", t.ValidityDays)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", t.Name, validity, orDash(t.Description))
		}
		w.Flush()
		return nil
	},
}

func init() {
	typeCreateCmd.Flags().StringP("description", "d", "", "Type description")
	typeCreateCmd.Flags().Int("validity-days", 0, "Validity window in days (0 = never auto-expires)")
	typeCreateCmd.Flags().String("actor", "", "Actor recorded in the activity log")

	typeUpdateCmd.Flags().StringP("description", "d", "", "New description")
	typeUpdateCmd.Flags().Int("validity-days", 0, "New validity window in days")
	typeUpdateCmd.Flags().String("actor", "", "Actor recorded in the activity log")

	typeCmd.AddCommand(typeCreateCmd)
	typeCmd.AddCommand(typeUpdateCmd)
	typeCmd.AddCommand(typeListCmd)
}

// TypeCmd returns the type command
func TypeCmd() *cobra.Command {
	return typeCmd
}
