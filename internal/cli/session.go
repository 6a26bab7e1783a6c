package cli

import (
	"github.com/cleo-run/cleo/internal/ops"
	"github.com/spf13/cobra"
)

func sessionID(cmd *cobra.Command) string {
	id, _ := cmd.Flags().GetString("session")
	return id
}

func newFocusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Manage a session's current focus",
	}
	cmd.AddCommand(newFocusSetCmd(), newFocusShowCmd(), newFocusClearCmd())
	return cmd
}

func newFocusSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <taskId>",
		Short: "Set the session's focused task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp := surfaceFrom(cmd).Dispatch(cmd.Context(), ops.Request{
				Name: ops.OpFocusSet, SessionID: sessionID(cmd),
				Params: map[string]any{"taskId": args[0]},
			})
			return render(cmd, resp)
		},
	}
}

func newFocusShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current session's focused task",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp := surfaceFrom(cmd).Dispatch(cmd.Context(), ops.Request{
				Name: ops.OpFocusShow, SessionID: sessionID(cmd),
			})
			return render(cmd, resp)
		},
	}
}

func newFocusClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the session's focused task",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp := surfaceFrom(cmd).Dispatch(cmd.Context(), ops.Request{
				Name: ops.OpFocusClear, SessionID: sessionID(cmd),
			})
			return render(cmd, resp)
		},
	}
}

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage agent work sessions",
	}
	cmd.AddCommand(
		newSessionStartCmd(), newSessionEndCmd(), newSessionSuspendCmd(),
		newSessionResumeCmd(), newSessionStatusCmd(),
	)
	return cmd
}

func newSessionStartCmd() *cobra.Command {
	var name, focus, scopeType, rootID, label string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a new session scoped to a project, epic, or subtree",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp := surfaceFrom(cmd).Dispatch(cmd.Context(), ops.Request{
				Name: ops.OpSessionStart, Actor: actor(cmd),
				Params: map[string]any{
					"name": name, "focus": focus, "scopeType": scopeType,
					"rootId": rootID, "label": label,
				},
			})
			return render(cmd, resp)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Human-readable session name")
	cmd.Flags().StringVar(&focus, "focus", "", "Task ID to focus immediately")
	cmd.Flags().StringVar(&scopeType, "scope-type", "global", "global, epic, subtree, or custom")
	cmd.Flags().StringVar(&rootID, "scope-root", "", "Root task ID for epic/subtree scope")
	cmd.Flags().StringVar(&label, "scope-label", "", "Label for custom scope")

	return cmd
}

func newSessionEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp := surfaceFrom(cmd).Dispatch(cmd.Context(), ops.Request{
				Name: ops.OpSessionEnd, SessionID: sessionID(cmd),
			})
			return render(cmd, resp)
		},
	}
}

func newSessionSuspendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suspend",
		Short: "Suspend the current session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp := surfaceFrom(cmd).Dispatch(cmd.Context(), ops.Request{
				Name: ops.OpSessionSuspend, SessionID: sessionID(cmd),
			})
			return render(cmd, resp)
		},
	}
}

func newSessionResumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Resume a suspended session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp := surfaceFrom(cmd).Dispatch(cmd.Context(), ops.Request{
				Name: ops.OpSessionResume, SessionID: sessionID(cmd),
			})
			return render(cmd, resp)
		},
	}
}

func newSessionStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current session's status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp := surfaceFrom(cmd).Dispatch(cmd.Context(), ops.Request{
				Name: ops.OpSessionStatus, SessionID: sessionID(cmd),
			})
			return render(cmd, resp)
		},
	}
}
