package cli

import (
	"github.com/cleo-run/cleo/internal/ops"
	"github.com/spf13/cobra"
)

func newMetricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics-summary",
		Short: "Summarize recorded token usage, compliance events, and violations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp := surfaceFrom(cmd).Dispatch(cmd.Context(), ops.Request{Name: ops.OpMetricsSummary})
			return render(cmd, resp)
		},
	}
}
