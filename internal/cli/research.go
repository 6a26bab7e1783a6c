package cli

import (
	"github.com/cleo-run/cleo/internal/ops"
	"github.com/spf13/cobra"
)

func newResearchCmd() *cobra.Command {
	var id, title, file, findingsSummary string
	var topics, linkedTasks []string

	cmd := &cobra.Command{
		Use:   "research-append",
		Short: "Append an entry to the research manifest",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp := surfaceFrom(cmd).Dispatch(cmd.Context(), ops.Request{
				Name: ops.OpResearchAppend,
				Params: map[string]any{
					"id": id, "title": title, "file": file, "topics": topics,
					"linkedTasks": linkedTasks, "findingsSummary": findingsSummary,
				},
			})
			return render(cmd, resp)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Entry ID (required)")
	cmd.Flags().StringVar(&title, "title", "", "Entry title (required)")
	cmd.Flags().StringVar(&file, "file", "", "Path to the research document")
	cmd.Flags().StringSliceVar(&topics, "topics", nil, "Topics covered")
	cmd.Flags().StringSliceVar(&linkedTasks, "linked-tasks", nil, "Task IDs this research relates to")
	cmd.Flags().StringVar(&findingsSummary, "summary", "", "One-paragraph findings summary")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}
