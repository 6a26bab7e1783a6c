package cli

import (
	"encoding/json"
	"fmt"

	"github.com/cleo-run/cleo/internal/ops"
	"github.com/spf13/cobra"
)

func asJSON(format string) bool {
	return format == "json"
}

// render prints the response envelope and turns a failed operation into
// the error taxonomy's exit code, carried through cobra's error return.
func render(cmd *cobra.Command, resp *ops.Response) error {
	format, _ := cmd.Flags().GetString("format")
	jsonFlag, _ := cmd.Flags().GetBool("json")
	quiet, _ := cmd.Flags().GetBool("quiet")

	if asJSON(format) || jsonFlag {
		out, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal response: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
	} else if !resp.Success {
		fmt.Fprintf(cmd.ErrOrStderr(), "error: %s\n", resp.Error.Message)
		if resp.Error.Fix != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "fix: %s\n", resp.Error.Fix)
		}
	} else if !quiet {
		printHuman(cmd, resp.Data)
	}

	if !resp.Success {
		return &exitError{code: resp.Error.ExitCode, err: fmt.Errorf("%s: %s", resp.Error.Code, resp.Error.Message)}
	}
	return nil
}

// printHuman renders a success payload without the envelope wrapper,
// the default non-JSON mode scripts and agents read least often but
// humans read most.
func printHuman(cmd *cobra.Command, data any) {
	if data == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "ok")
		return
	}
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", data)
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
}
