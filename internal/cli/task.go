package cli

import (
	"github.com/cleo-run/cleo/internal/ops"
	"github.com/spf13/cobra"
)

func newAddCmd() *cobra.Command {
	var title, description, priority, typ, parentID, phase, size string
	var depends, labels []string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a new task",
		Long: `Add a new task to the project's task tree.

The task is assigned the next sequential ID (one above the highest ID
across active and archived tasks) and validated
against the task tree's structural invariants (depth, parent
existence, dependency well-formedness) before being written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title = args[0]
			resp := surfaceFrom(cmd).Dispatch(cmd.Context(), ops.Request{
				Name:  ops.OpAdd,
				Actor: actor(cmd),
				Params: map[string]any{
					"title": title, "description": description, "priority": priority,
					"type": typ, "parentId": parentID, "phase": phase, "size": size,
					"depends": depends, "labels": labels,
				},
			})
			return render(cmd, resp)
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Task description")
	cmd.Flags().StringVar(&priority, "priority", "medium", "Priority: critical, high, medium, low")
	cmd.Flags().StringVar(&typ, "type", "task", "Type: epic, task, subtask")
	cmd.Flags().StringVar(&parentID, "parent", "", "Parent task ID")
	cmd.Flags().StringVar(&phase, "phase", "", "Project phase")
	cmd.Flags().StringVar(&size, "size", "", "Size hint: small, medium, large")
	cmd.Flags().StringSliceVar(&depends, "depends", nil, "Task IDs this task depends on")
	cmd.Flags().StringSliceVar(&labels, "labels", nil, "Labels")

	return cmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <taskId>",
		Short: "Show a single task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp := surfaceFrom(cmd).Dispatch(cmd.Context(), ops.Request{
				Name:   ops.OpShow,
				Params: map[string]any{"taskId": args[0]},
			})
			return render(cmd, resp)
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every active task",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp := surfaceFrom(cmd).Dispatch(cmd.Context(), ops.Request{Name: ops.OpList})
			return render(cmd, resp)
		},
	}
}

func newFindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find <query>",
		Short: "Search tasks by title or description substring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp := surfaceFrom(cmd).Dispatch(cmd.Context(), ops.Request{
				Name:   ops.OpFind,
				Params: map[string]any{"query": args[0]},
			})
			return render(cmd, resp)
		},
	}
}

func newUpdateCmd() *cobra.Command {
	var title, description, priority, phase, size string
	var depends, labels, files []string

	cmd := &cobra.Command{
		Use:   "update <taskId>",
		Short: "Patch any mutable field on a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := map[string]any{"taskId": args[0]}
			if cmd.Flags().Changed("title") {
				params["title"] = title
			}
			if cmd.Flags().Changed("description") {
				params["description"] = description
			}
			if cmd.Flags().Changed("priority") {
				params["priority"] = priority
			}
			if cmd.Flags().Changed("phase") {
				params["phase"] = phase
			}
			if cmd.Flags().Changed("size") {
				params["size"] = size
			}
			if cmd.Flags().Changed("depends") {
				params["depends"] = depends
			}
			if cmd.Flags().Changed("labels") {
				params["labels"] = labels
			}
			if cmd.Flags().Changed("files") {
				params["files"] = files
			}
			resp := surfaceFrom(cmd).Dispatch(cmd.Context(), ops.Request{
				Name: ops.OpUpdate, Actor: actor(cmd), Params: params,
			})
			return render(cmd, resp)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&priority, "priority", "", "New priority")
	cmd.Flags().StringVar(&phase, "phase", "", "New phase")
	cmd.Flags().StringVar(&size, "size", "", "New size hint")
	cmd.Flags().StringSliceVar(&depends, "depends", nil, "Replace dependency list")
	cmd.Flags().StringSliceVar(&labels, "labels", nil, "Replace label list")
	cmd.Flags().StringSliceVar(&files, "files", nil, "Replace touched-files list")

	return cmd
}

func newCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <taskId>",
		Short: "Mark a task done, cascading auto-complete to its parent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp := surfaceFrom(cmd).Dispatch(cmd.Context(), ops.Request{
				Name: ops.OpComplete, Actor: actor(cmd), Params: map[string]any{"taskId": args[0]},
			})
			return render(cmd, resp)
		},
	}
}

func newReopenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reopen <taskId>",
		Short: "Move a done task back to pending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp := surfaceFrom(cmd).Dispatch(cmd.Context(), ops.Request{
				Name: ops.OpReopen, Actor: actor(cmd), Params: map[string]any{"taskId": args[0]},
			})
			return render(cmd, resp)
		},
	}
}

func newCancelCmd() *cobra.Command {
	var reason, childStrategy string
	var cascadeThreshold int
	var force bool

	cmd := &cobra.Command{
		Use:   "cancel <taskId>",
		Short: "Cancel a task and resolve its children per the child strategy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp := surfaceFrom(cmd).Dispatch(cmd.Context(), ops.Request{
				Name: ops.OpCancel, Actor: actor(cmd),
				Params: map[string]any{
					"taskId": args[0], "reason": reason, "childStrategy": childStrategy,
					"cascadeThreshold": cascadeThreshold, "force": force,
				},
			})
			return render(cmd, resp)
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Why this task is being cancelled (required)")
	cmd.Flags().StringVar(&childStrategy, "child-strategy", "", "block, cascade, or orphan")
	cmd.Flags().IntVar(&cascadeThreshold, "cascade-threshold", 0, "Override the configured cascade threshold")
	cmd.Flags().BoolVar(&force, "force", false, "Proceed even above the cascade threshold")
	_ = cmd.MarkFlagRequired("reason")

	return cmd
}

func newUncancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uncancel <taskId>",
		Short: "Restore a cancelled task to its pre-cancel status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp := surfaceFrom(cmd).Dispatch(cmd.Context(), ops.Request{
				Name: ops.OpUncancel, Actor: actor(cmd), Params: map[string]any{"taskId": args[0]},
			})
			return render(cmd, resp)
		},
	}
}

func newDeleteCmd() *cobra.Command {
	var childStrategy string
	var cascadeThreshold int
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <taskId>",
		Short: "Permanently remove a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp := surfaceFrom(cmd).Dispatch(cmd.Context(), ops.Request{
				Name: ops.OpDelete, Actor: actor(cmd),
				Params: map[string]any{
					"taskId": args[0], "childStrategy": childStrategy,
					"cascadeThreshold": cascadeThreshold, "force": force,
				},
			})
			return render(cmd, resp)
		},
	}

	cmd.Flags().StringVar(&childStrategy, "child-strategy", "", "block, cascade, or orphan")
	cmd.Flags().IntVar(&cascadeThreshold, "cascade-threshold", 0, "Override the configured cascade threshold")
	cmd.Flags().BoolVar(&force, "force", false, "Proceed even above the cascade threshold")

	return cmd
}

func newArchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive <taskId>",
		Short: "Move a done or cancelled task to the archive document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp := surfaceFrom(cmd).Dispatch(cmd.Context(), ops.Request{
				Name: ops.OpArchive, Actor: actor(cmd), Params: map[string]any{"taskId": args[0]},
			})
			return render(cmd, resp)
		},
	}
}

func newUnarchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unarchive <taskId>",
		Short: "Restore a task from the archive document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp := surfaceFrom(cmd).Dispatch(cmd.Context(), ops.Request{
				Name: ops.OpUnarchive, Actor: actor(cmd), Params: map[string]any{"taskId": args[0]},
			})
			return render(cmd, resp)
		},
	}
}

func newSetGateCmd() *cobra.Command {
	var reason string
	var passed bool

	cmd := &cobra.Command{
		Use:   "set-gate <taskId> <gate>",
		Short: "Record a verification gate's pass/fail verdict",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp := surfaceFrom(cmd).Dispatch(cmd.Context(), ops.Request{
				Name: ops.OpSetGate, Actor: actor(cmd),
				Params: map[string]any{
					"taskId": args[0], "gate": args[1], "reason": reason, "passed": passed,
				},
			})
			return render(cmd, resp)
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Why this gate passed or failed")
	cmd.Flags().BoolVar(&passed, "passed", false, "Whether the gate passed")

	return cmd
}

func actor(cmd *cobra.Command) string {
	a, _ := cmd.Flags().GetString("actor")
	if a == "" {
		return "cli"
	}
	return a
}
