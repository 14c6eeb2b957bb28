package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/keurtrack/internal/ports/primary"
	"github.com/example/keurtrack/internal/wire"
)

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show the activity log",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		search, _ := cmd.Flags().GetString("search")
		actor, _ := cmd.Flags().GetString("actor")
		action, _ := cmd.Flags().GetString("action")
		since, _ := cmd.Flags().GetString("since")
		limit, _ := cmd.Flags().GetInt("limit")

		entries, err := wire.ActivityService().ListActivity(ctx, primary.ActivityFilters{
			Search: search,
			Actor:  actor,
			Action: action,
			Since:  since,
			Limit:  limit,
		})
		if err != nil {
			return fmt.Errorf("failed to list activity: %w", err)
		}
		if len(entries) == 0 {
			fmt.Println("No activity recorded.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tACTION\tITEM\tSERIAL\tACTOR")
		fmt.Fprintln(w, "----\t------\t----\t------\t-----")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				e.CreatedAt,
				e.Action,
				orDash(e.Name),
				orDash(e.Serial),
				orDash(e.Actor),
			)
		}
		w.Flush()
		return nil
	},
}

func init() {
	activityCmd.Flags().String("search", "", "Substring filter on item, serial or action")
	activityCmd.Flags().String("actor", "", "Filter by actor")
	activityCmd.Flags().String("action", "", "Filter by action")
	activityCmd.Flags().String("since", "", "Only entries on or after this date (2006-01-02)")
	activityCmd.Flags().IntP("limit", "l", 50, "Maximum number of entries")
}

// ActivityCmd returns the activity command
func ActivityCmd() *cobra.Command {
	return activityCmd
}
