package cli

import (
	"github.com/cleo-run/cleo/internal/ops"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	var phase string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Recommend which ready tasks to work on, ranked by leverage",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp := surfaceFrom(cmd).Dispatch(cmd.Context(), ops.Request{
				Name:   ops.OpAnalyze,
				Params: map[string]any{"phase": phase},
			})
			return render(cmd, resp)
		},
	}

	cmd.Flags().StringVar(&phase, "phase", "", "Current phase, for phase-aware scoring")
	return cmd
}

func newDepsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Print the task tree's critical path",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp := surfaceFrom(cmd).Dispatch(cmd.Context(), ops.Request{Name: ops.OpDeps})
			return render(cmd, resp)
		},
	}
}

func newWavesCmd() *cobra.Command {
	var epicID string

	cmd := &cobra.Command{
		Use:   "waves",
		Short: "Group tasks into dependency-ordered waves",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp := surfaceFrom(cmd).Dispatch(cmd.Context(), ops.Request{
				Name:   ops.OpWaves,
				Params: map[string]any{"epicId": epicID},
			})
			return render(cmd, resp)
		},
	}

	cmd.Flags().StringVar(&epicID, "epic", "", "Restrict to one epic's subtree")
	return cmd
}

func newNextCmd() *cobra.Command {
	var epicID, phase string

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Recommend the single next task to work on",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp := surfaceFrom(cmd).Dispatch(cmd.Context(), ops.Request{
				Name:   ops.OpNext,
				Params: map[string]any{"epicId": epicID, "phase": phase},
			})
			return render(cmd, resp)
		},
	}

	cmd.Flags().StringVar(&epicID, "epic", "", "Restrict to one epic's subtree")
	cmd.Flags().StringVar(&phase, "phase", "", "Current phase, for phase-aware scoring")
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the task tree against its structural invariants",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp := surfaceFrom(cmd).Dispatch(cmd.Context(), ops.Request{Name: ops.OpValidate})
			return render(cmd, resp)
		},
	}
}

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Run integrity checks across every state document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp := surfaceFrom(cmd).Dispatch(cmd.Context(), ops.Request{Name: ops.OpDoctor})
			return render(cmd, resp)
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Stamp every state document to the current schema version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp := surfaceFrom(cmd).Dispatch(cmd.Context(), ops.Request{Name: ops.OpMigrate})
			return render(cmd, resp)
		},
	}
}
