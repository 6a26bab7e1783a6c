package cli

import (
	"github.com/cleo-run/cleo/internal/ops"
	"github.com/spf13/cobra"
)

func newOrchestratorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orchestrator",
		Short: "Drive the spawn/return protocol for an epic's subtree",
	}
	cmd.AddCommand(
		newOrchestratorSpawnCmd(), newOrchestratorReadyCmd(),
		newOrchestratorNextCmd(), newOrchestratorReturnCmd(),
	)
	return cmd
}

func newOrchestratorSpawnCmd() *cobra.Command {
	var epicID string

	cmd := &cobra.Command{
		Use:   "spawn <taskId>",
		Short: "Build the resolved spawn prompt for a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp := surfaceFrom(cmd).Dispatch(cmd.Context(), ops.Request{
				Name: ops.OpOrchestratorSpawn, Actor: actor(cmd), SessionID: sessionID(cmd),
				Params: map[string]any{"epicId": epicID, "taskId": args[0]},
			})
			return render(cmd, resp)
		},
	}

	cmd.Flags().StringVar(&epicID, "epic", "", "Epic ID the task belongs to (required)")
	_ = cmd.MarkFlagRequired("epic")
	return cmd
}

func newOrchestratorReadyCmd() *cobra.Command {
	var epicID string

	cmd := &cobra.Command{
		Use:   "ready",
		Short: "List tasks ready to spawn within one epic's subtree",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp := surfaceFrom(cmd).Dispatch(cmd.Context(), ops.Request{
				Name:   ops.OpOrchestratorReady,
				Params: map[string]any{"epicId": epicID},
			})
			return render(cmd, resp)
		},
	}

	cmd.Flags().StringVar(&epicID, "epic", "", "Epic ID (required)")
	_ = cmd.MarkFlagRequired("epic")
	return cmd
}

func newOrchestratorNextCmd() *cobra.Command {
	var epicID, phase string

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Recommend the next task within one epic's subtree",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp := surfaceFrom(cmd).Dispatch(cmd.Context(), ops.Request{
				Name:   ops.OpOrchestratorNext,
				Params: map[string]any{"epicId": epicID, "phase": phase},
			})
			return render(cmd, resp)
		},
	}

	cmd.Flags().StringVar(&epicID, "epic", "", "Epic ID (required)")
	cmd.Flags().StringVar(&phase, "phase", "", "Current phase")
	_ = cmd.MarkFlagRequired("epic")
	return cmd
}

func newOrchestratorReturnCmd() *cobra.Command {
	var taskID, returnText, entryID, title string
	var linkedTasks []string
	var status string

	cmd := &cobra.Command{
		Use:   "return",
		Short: "Record a subagent's return: manifest entry, compliance score, lifecycle update",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp := surfaceFrom(cmd).Dispatch(cmd.Context(), ops.Request{
				Name: ops.OpOrchestratorReturn, Actor: actor(cmd), SessionID: sessionID(cmd),
				Params: map[string]any{
					"taskId": taskID, "returnText": returnText,
					"id": entryID, "title": title, "linkedTasks": linkedTasks, "status": status,
				},
			})
			return render(cmd, resp)
		},
	}

	cmd.Flags().StringVar(&taskID, "task", "", "Task ID the return applies to (required)")
	cmd.Flags().StringVar(&returnText, "text", "", "The subagent's raw return text (required)")
	cmd.Flags().StringVar(&entryID, "entry-id", "", "Manifest entry ID")
	cmd.Flags().StringVar(&title, "title", "", "Manifest entry title")
	cmd.Flags().StringSliceVar(&linkedTasks, "linked-tasks", nil, "Task IDs this return relates to")
	cmd.Flags().StringVar(&status, "status", "review", "Manifest entry status")
	_ = cmd.MarkFlagRequired("task")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}
