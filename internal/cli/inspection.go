package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/keurtrack/internal/ports/primary"
	"github.com/example/keurtrack/internal/wire"
)

var inspectionCmd = &cobra.Command{
	Use:   "inspection",
	Short: "Record and plan inspections",
	Long:  "Record inspection results and manage planned inspection dates",
}

var inspectionRecordCmd = &cobra.Command{
	Use:   "record [serial]",
	Short: "Record an executed inspection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		result, _ := cmd.Flags().GetString("result")
		performedOn, _ := cmd.Flags().GetString("date")
		performedBy, _ := cmd.Flags().GetString("by")
		nextDue, _ := cmd.Flags().GetString("next-due")
		notes, _ := cmd.Flags().GetString("notes")
		certificate, _ := cmd.Flags().GetString("certificate")

		item, err := wire.EquipmentService().GetEquipmentBySerial(ctx, args[0])
		if err != nil {
			return fmt.Errorf("equipment not found: %w", err)
		}

		entry, err := wire.InspectionService().RecordResult(ctx, primary.RecordResultRequest{
			EquipmentID:    item.ID,
			Result:         result,
			PerformedOn:    performedOn,
			PerformedBy:    performedBy,
			NextDue:        nextDue,
			Notes:          notes,
			CertificateRef: certificate,
		})
		if err != nil {
			return fmt.Errorf("failed to record inspection: %w", err)
		}

		fmt.Printf("✓ Recorded %s for %s (%s)\n", entry.Result, item.Name, item.Serial)
		fmt.Printf("  Next due: %s\n", entry.NextDue)
		return nil
	},
}

var inspectionScheduleCmd = &cobra.Command{
	Use:   "schedule [serial]",
	Short: "Plan a future inspection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		date, _ := cmd.Flags().GetString("date")
		notes, _ := cmd.Flags().GetString("notes")
		actor, _ := cmd.Flags().GetString("actor")

		if err := wire.InspectionService().ScheduleInspection(ctx, primary.ScheduleRequest{
			Serial:  args[0],
			NextDue: date,
			Notes:   notes,
			Actor:   actorName(actor),
		}); err != nil {
			return fmt.Errorf("failed to schedule inspection: %w", err)
		}
		fmt.Printf("✓ Inspection planned for %s on %s\n", args[0], date)
		return nil
	},
}

var inspectionRescheduleCmd = &cobra.Command{
	Use:   "reschedule [serial]",
	Short: "Move the planned inspection date",
	Long:  "Move the planned date of an existing schedule. The item status is not changed.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		date, _ := cmd.Flags().GetString("date")
		notes, _ := cmd.Flags().GetString("notes")
		actor, _ := cmd.Flags().GetString("actor")

		if err := wire.InspectionService().EditSchedule(ctx, primary.ScheduleRequest{
			Serial:  args[0],
			NextDue: date,
			Notes:   notes,
			Actor:   actorName(actor),
		}); err != nil {
			return fmt.Errorf("failed to reschedule inspection: %w", err)
		}
		fmt.Printf("✓ Planned date for %s moved to %s\n", args[0], date)
		return nil
	},
}

var inspectionWithdrawCmd = &cobra.Command{
	Use:   "withdraw [serial]",
	Short: "Cancel a planned inspection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		actor, _ := cmd.Flags().GetString("actor")

		if err := wire.InspectionService().WithdrawSchedule(ctx, args[0], actorName(actor)); err != nil {
			return fmt.Errorf("failed to withdraw schedule: %w", err)
		}
		fmt.Printf("✓ Planned inspection for %s withdrawn\n", args[0])
		return nil
	},
}

var inspectionShowCmd = &cobra.Command{
	Use:   "show [serial]",
	Short: "Show the current schedule for an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()

		schedule, err := wire.InspectionService().GetSchedule(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to load schedule: %w", err)
		}
		if schedule == nil {
			fmt.Printf("No schedule for %s.\n", args[0])
			return nil
		}

		fmt.Printf("Schedule: %s\n", schedule.Serial)
		if schedule.LastPerformed != "" {
			fmt.Printf("Last Performed: %s\n", schedule.LastPerformed)
		}
		if schedule.NextDue != "" {
			fmt.Printf("Next Due: %s\n", schedule.NextDue)
		}
		if schedule.PerformedBy != "" {
			fmt.Printf("Performed By: %s\n", schedule.PerformedBy)
		}
		if schedule.Notes != "" {
			fmt.Printf("Notes: %s\n", schedule.Notes)
		}
		return nil
	},
}

func init() {
	inspectionRecordCmd.Flags().StringP("result", "r", "", "Inspection result: compliant, rejected or conditional (required)")
	inspectionRecordCmd.Flags().StringP("date", "d", "", "Inspection date (2006-01-02, required)")
	inspectionRecordCmd.Flags().String("by", "", "Performer name (required)")
	inspectionRecordCmd.Flags().String("next-due", "", "Next due date (defaults to six months later)")
	inspectionRecordCmd.Flags().String("notes", "", "Free-form notes")
	inspectionRecordCmd.Flags().String("certificate", "", "Certificate reference, e.g. 2025/KT-0001.pdf")

	inspectionScheduleCmd.Flags().StringP("date", "d", "", "Planned date (2006-01-02, required)")
	inspectionScheduleCmd.Flags().String("notes", "", "Free-form notes")
	inspectionScheduleCmd.Flags().String("actor", "", "Actor recorded in the activity log")

	inspectionRescheduleCmd.Flags().StringP("date", "d", "", "New planned date (2006-01-02, required)")
	inspectionRescheduleCmd.Flags().String("notes", "", "Free-form notes")
	inspectionRescheduleCmd.Flags().String("actor", "", "Actor recorded in the activity log")

	inspectionWithdrawCmd.Flags().String("actor", "", "Actor recorded in the activity log")

	inspectionCmd.AddCommand(inspectionRecordCmd)
	inspectionCmd.AddCommand(inspectionScheduleCmd)
	inspectionCmd.AddCommand(inspectionRescheduleCmd)
	inspectionCmd.AddCommand(inspectionWithdrawCmd)
	inspectionCmd.AddCommand(inspectionShowCmd)
}

// InspectionCmd returns the inspection command
func InspectionCmd() *cobra.Command {
	return inspectionCmd
}
