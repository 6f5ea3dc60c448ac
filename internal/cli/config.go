package cli

import (
	"io"

	"github.com/neoclaw-ai/filetransformer/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	var starter bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print merged configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !starter {
				return config.Write(cmd.OutOrStdout())
			}
			content, err := config.DefaultUserConfigTOML()
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), content)
			return err
		},
	}
	cmd.Flags().BoolVar(&starter, "starter", false, "Print the starter config.toml written on first run")
	return cmd
}
