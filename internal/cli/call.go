package cli

import (
	"encoding/json"
	"fmt"

	"github.com/neoclaw-ai/filetransformer/internal/tools"
	"github.com/spf13/cobra"
)

// newCallCmd runs one tool outside MCP. The process sandbox is not applied;
// path checks are.
func newCallCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "call <tool> [json-args]",
		Short: "Run a single tool call and print its result",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := tools.ParseName(args[0])
			if err != nil {
				return err
			}
			raw := json.RawMessage("{}")
			if len(args) == 2 {
				if !json.Valid([]byte(args[1])) {
					return fmt.Errorf("arguments for %s must be a JSON object", name)
				}
				raw = json.RawMessage(args[1])
			}

			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			guard, err := newGuard(cfg)
			if err != nil {
				return err
			}

			res, err := newToolbox(cfg, guard).Call(cmd.Context(), name, raw)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Text())
			return err
		},
	}
}
