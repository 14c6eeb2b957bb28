package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/keurtrack/internal/ports/primary"
	"github.com/example/keurtrack/internal/wire"
)

var worklistCmd = &cobra.Command{
	Use:   "worklist",
	Short: "Show the prioritized inspection worklist",
	Long:  "The filtered, sorted and paginated worklist of inspectable items, ordered by risk by default",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		query := worklistQueryFromFlags(cmd)

		page, err := wire.WorklistService().Query(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to query worklist: %w", err)
		}

		printPriority(page.Priority)

		if len(page.Rows) == 0 {
			fmt.Println("No items match.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SERIAL\tNAME\tTYPE\tLOCATION\tSTATUS\tNEXT DUE\tRISK")
		fmt.Fprintln(w, "------\t----\t----\t--------\t------\t--------\t----")
		for _, row := range page.Rows {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				row.Serial,
				row.Name,
				orDash(row.TypeName),
				orDash(row.Location),
				orDash(row.Status),
				orDash(row.NextDue),
				riskCell(row),
			)
		}
		w.Flush()

		fmt.Printf("\nPage %d/%d (%d items)\n", page.Page, page.TotalPages, page.Total)
		return nil
	},
}

var worklistExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export the filtered worklist as an xlsx workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		query := worklistQueryFromFlags(cmd)

		data, err := wire.WorklistService().Export(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to export worklist: %w", err)
		}
		if err := os.WriteFile(args[0], data, 0644); err != nil {
			return fmt.Errorf("failed to write workbook: %w", err)
		}
		fmt.Printf("✓ Exported worklist to %s\n", args[0])
		return nil
	},
}

func worklistQueryFromFlags(cmd *cobra.Command) primary.WorklistQuery {
	search, _ := cmd.Flags().GetString("search")
	status, _ := cmd.Flags().GetString("status")
	typeName, _ := cmd.Flags().GetString("type")
	location, _ := cmd.Flags().GetString("location")
	performer, _ := cmd.Flags().GetString("performer")
	dueFrom, _ := cmd.Flags().GetString("due-from")
	dueTo, _ := cmd.Flags().GetString("due-to")
	bucket, _ := cmd.Flags().GetString("bucket")
	sortBy, _ := cmd.Flags().GetString("sort")
	desc, _ := cmd.Flags().GetBool("desc")
	pageNum, _ := cmd.Flags().GetInt("page")
	perPage, _ := cmd.Flags().GetInt("per-page")

	if perPage == 0 {
		perPage = wire.Config().WorklistPerPage
	}
	return primary.WorklistQuery{
		Search:    search,
		Status:    status,
		TypeName:  typeName,
		Location:  location,
		Performer: performer,
		DueFrom:   dueFrom,
		DueTo:     dueTo,
		Bucket:    bucket,
		SortBy:    sortBy,
		SortDesc:  desc,
		Page:      pageNum,
		PerPage:   perPage,
	}
}

func printPriority(p primary.PriorityCounts) {
	overdue := color.New(color.FgRed).Sprintf("%d overdue", p.Overdue)
	dueToday := color.New(color.FgYellow).Sprintf("%d due today", p.DueToday)
	dueSoon := color.New(color.FgCyan).Sprintf("%d due within 30 days", p.DueWithin30)
	fmt.Printf("%s | %s | %s\n\n", overdue, dueToday, dueSoon)
}

func riskCell(row *primary.WorklistRow) string {
	label := fmt.Sprintf("%d %s", row.RiskScore, row.RiskLevel)
	switch row.RiskLevel {
	case "critical":
		return color.New(color.FgRed).Sprint(label)
	case "high":
		return color.New(color.FgYellow).Sprint(label)
	case "medium":
		return color.New(color.FgCyan).Sprint(label)
	default:
		return label
	}
}

func addWorklistFlags(cmd *cobra.Command) {
	cmd.Flags().String("search", "", "Substring filter on name or serial")
	cmd.Flags().StringP("status", "s", "", "Filter by status")
	cmd.Flags().StringP("type", "t", "", "Filter by type name")
	cmd.Flags().String("location", "", "Filter by site, project or assignee")
	cmd.Flags().String("performer", "", "Filter by performer name")
	cmd.Flags().String("due-from", "", "Due-date range start (2006-01-02)")
	cmd.Flags().String("due-to", "", "Due-date range end (2006-01-02)")
	cmd.Flags().String("bucket", "", "Priority bucket: overdue, due_today or due_within_30 (overrides status and due range)")
	cmd.Flags().String("sort", "risk", "Sort key: risk, name, last_performed, next_due or result")
	cmd.Flags().Bool("desc", false, "Sort descending")
	cmd.Flags().Int("page", 1, "Page number (1-indexed)")
	cmd.Flags().Int("per-page", 0, "Page size (defaults to the configured value)")
}

func init() {
	addWorklistFlags(worklistCmd)
	addWorklistFlags(worklistExportCmd)
	worklistCmd.AddCommand(worklistExportCmd)
}

// WorklistCmd returns the worklist command
func WorklistCmd() *cobra.Command {
	return worklistCmd
}
