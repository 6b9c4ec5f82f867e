package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/the-outcaster/projectplus-updater/internal/prompt"
	"github.com/the-outcaster/projectplus-updater/internal/shortcut"
)

func newRemoveCmd() *cobra.Command {
	var (
		keepShortcuts bool
		assumeYes     bool
	)

	cmd := &cobra.Command{
		Use:   "remove [product]",
		Short: "Remove an installed product",
		Long: `Remove deletes a product's install directory, including its version
marker, and cleans up its desktop shortcuts.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolveProduct(args)
			if err != nil {
				return err
			}

			m, err := newManager()
			if err != nil {
				return err
			}

			question := fmt.Sprintf("Remove %s from %s?", p.DisplayName, m.InstallDir(p))
			if !prompt.Confirm(question, prompt.Config{NonInteractive: assumeYes}) {
				fmt.Println("Cancelled.")
				return nil
			}

			if err := m.Remove(p.ID); err != nil {
				return err
			}
			if !keepShortcuts {
				shortcut.RemoveAll(p)
			}

			fmt.Printf("%s removed.\n", p.DisplayName)
			return nil
		},
	}

	cmd.Flags().BoolVar(&keepShortcuts, "keep-shortcuts", false, "Leave desktop shortcuts in place")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
