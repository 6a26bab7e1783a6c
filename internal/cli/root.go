// Package cli provides the cleo command-line front-end: a thin cobra
// tree where every leaf command builds an ops.Request and hands it to
// a shared ops.Surface, so the CLI can never bypass validation,
// locking, or audit logging the way a direct store write could.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/cleo-run/cleo/internal/cleocfg"
	"github.com/cleo-run/cleo/internal/graph"
	"github.com/cleo-run/cleo/internal/ops"
	"github.com/cleo-run/cleo/internal/store"
	"github.com/cleo-run/cleo/internal/task"
	"github.com/cleo-run/cleo/internal/validate"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

type ctxKey int

const surfaceKey ctxKey = iota

func withSurface(ctx context.Context, s *ops.Surface) context.Context {
	return context.WithValue(ctx, surfaceKey, s)
}

func surfaceFrom(cmd *cobra.Command) *ops.Surface {
	s, _ := cmd.Context().Value(surfaceKey).(*ops.Surface)
	return s
}

// NewRootCmd builds the cleo root command, wiring a fresh ops.Surface
// against the discovered project root on every invocation.
func NewRootCmd() *cobra.Command {
	var (
		flagFormat  string
		flagJSON    bool
		flagQuiet   bool
		flagVerbose bool
		flagDryRun  bool
		flagNoColor bool
	)

	cmd := &cobra.Command{
		Use:           "cleo",
		Short:         "Task orchestration for AI coding agents",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `cleo manages the task graph, session focus, and spawn/return
protocol that orchestrates AI agents working through a project's task
tree. State lives under .cleo/ in the project root as JSON documents;
every mutation goes through validation and an append-only audit log.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("get working directory: %w", err)
			}
			root, err := cleocfg.FindProjectRoot(cwd)
			if err != nil {
				return fmt.Errorf("not in a cleo project: %w", err)
			}

			cfg, err := resolveConfig(root)
			if err != nil {
				return err
			}

			layout := store.NewLayout(cleocfg.StateDir(root))
			accessor := store.NewFileAccessor(layout, validate.NewStoreAdapter(), nil)

			surface := ops.NewSurface(accessor, nil, ops.Config{
				Version:          Version,
				MaxDepth:         cfg.MaxDepth,
				ChildStrategy:    task.ChildStrategy(cfg.ChildCancelStrategy),
				CascadeThreshold: cfg.CascadeThreshold,
				SizeStrategy:     graph.SizeStrategy(cfg.SizeStrategy),
			})
			surface.Metrics.Disabled = cfg.MetricsOptOut

			cmd.SetContext(withSurface(cmd.Context(), surface))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&flagFormat, "format", "human", "Output format: human or json")
	cmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Shorthand for --format=json")
	cmd.PersistentFlags().BoolVar(&flagQuiet, "quiet", false, "Suppress non-error output")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose output")
	cmd.PersistentFlags().BoolVar(&flagDryRun, "dry-run", false, "Report what would happen without writing state")
	cmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	cmd.PersistentFlags().String("actor", "", "Identity recorded in the audit log for this invocation")
	cmd.PersistentFlags().String("session", "", "Session ID for focus and session-scoped operations")

	cmd.AddCommand(
		newAddCmd(), newShowCmd(), newListCmd(), newFindCmd(), newUpdateCmd(),
		newCompleteCmd(), newReopenCmd(), newCancelCmd(), newUncancelCmd(),
		newDeleteCmd(), newArchiveCmd(), newUnarchiveCmd(), newSetGateCmd(),
		newFocusCmd(),
		newSessionCmd(),
		newAnalyzeCmd(), newDepsCmd(), newWavesCmd(), newNextCmd(),
		newValidateCmd(), newDoctorCmd(), newMigrateCmd(),
		newOrchestratorCmd(),
		newResearchCmd(),
		newMetricsCmd(),
	)

	return cmd
}

func resolveConfig(root string) (cleocfg.Config, error) {
	global, err := cleocfg.GlobalDir()
	var globalCfg cleocfg.Config
	if err == nil {
		globalCfg, err = cleocfg.Load(global + "/config.json")
		if err != nil {
			return cleocfg.Config{}, err
		}
	}
	projectCfg, err := cleocfg.Load(cleocfg.StateDir(root) + "/config.json")
	if err != nil {
		return cleocfg.Config{}, err
	}
	return cleocfg.Resolve(globalCfg, projectCfg, cleocfg.Config{}, cleocfg.Config{}), nil
}

// Execute runs the cleo root command, translating an ops failure into
// the error taxonomy's exit code family (spec.md §6).
func Execute() int {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if code, ok := err.(*exitError); ok {
			return code.code
		}
		return 1
	}
	return 0
}

// exitError carries the taxonomy's binary-stable exit code through
// cobra's plain error-returning RunE contract.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }
