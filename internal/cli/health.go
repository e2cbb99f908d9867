package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vladislavdragonenkov/orderproc/internal/app"
)

func newHealthCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check storage availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withRuntime(cmd, func(rt *app.Runtime) error {
				report := rt.Health.Report(cmd.Context())

				data, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal health report: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))

				if !report.Healthy() {
					return fmt.Errorf("service is %s", report.Status)
				}
				return nil
			})
		},
	}
}
