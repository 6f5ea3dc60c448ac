package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <path>...",
		Short: "Report whether paths resolve inside the allowed directories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			guard, err := newGuard(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			denied := 0
			for _, raw := range args {
				canonical, err := guard.Validate(raw)
				if err != nil {
					denied++
					fmt.Fprintf(out, "denied\t%s\n", err)
					continue
				}
				fmt.Fprintf(out, "ok\t%s\n", canonical)
			}
			if denied > 0 {
				return fmt.Errorf("%d of %d paths denied", denied, len(args))
			}
			return nil
		},
	}
}
