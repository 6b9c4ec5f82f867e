package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/the-outcaster/projectplus-updater/internal/gcadapter"
)

func newAdapterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "adapter",
		Short: "Show the GameCube adapter polling rate",
		Long: `Adapter reads the gcadapter_oc kernel module's polling rate. A rate of
1 means the adapter polls at 1,000 Hz, matching console timing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rate, err := gcadapter.PollRate()
			if err != nil {
				fmt.Println("GameCube adapter overclock module not loaded.")
				fmt.Println("Run 'projectplus-updater adapter overclock' to install it.")
				return nil
			}

			fmt.Printf("Polling rate: %s\n", gcadapter.Describe(rate))
			if !gcadapter.Overclocked(rate) {
				fmt.Println("The adapter is not running at 1,000 Hz.")
			}
			return nil
		},
	}

	cmd.AddCommand(newAdapterOverclockCmd())

	return cmd
}

func newAdapterOverclockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overclock",
		Short: "Install the adapter overclock kernel module",
		Long: `Overclock opens a terminal window running the gcadapter-oc-kmod
installer script, which raises the adapter polling rate to 1,000 Hz.
Requires gnome-terminal or konsole.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return gcadapter.Overclock()
		},
	}
}
