package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/keurtrack/internal/httpapi"
	"github.com/example/keurtrack/internal/wire"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = wire.Config().ListenAddr
		}

		server := httpapi.NewServer(
			wire.EquipmentService(),
			wire.InspectionService(),
			wire.LedgerService(),
			wire.ScannerService(),
			wire.WorklistService(),
			wire.TypeService(),
			wire.ActivityService(),
		)

		fmt.Printf("Listening on %s\n", addr)
		return server.Run(addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Bind address (defaults to the configured listen address)")
}

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	return serveCmd
}
