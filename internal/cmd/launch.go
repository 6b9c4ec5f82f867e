package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/the-outcaster/projectplus-updater/internal/launch"
)

func newLaunchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "launch [product]",
		Short: "Start an installed product",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolveProduct(args)
			if err != nil {
				return err
			}

			m, err := newManager()
			if err != nil {
				return err
			}

			ps, err := m.State(p.ID)
			if err != nil {
				return err
			}
			if !ps.Installed.Playable() {
				return fmt.Errorf("%s is not installed; run 'projectplus-updater update %s' first", p.DisplayName, p.ID)
			}

			fmt.Printf("Launching %s %s...\n", p.DisplayName, ps.Installed.Version)
			return launch.Start(ps.Installed.LaunchablePath)
		},
	}
}
