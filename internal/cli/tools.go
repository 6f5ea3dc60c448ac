package cli

import (
	"fmt"

	"github.com/neoclaw-ai/filetransformer/internal/tools"
	"github.com/spf13/cobra"
)

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List available tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, info := range tools.Catalog() {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-22s %s\n", info.Name, info.Description); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
