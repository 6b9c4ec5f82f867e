package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/the-outcaster/projectplus-updater/internal/product"
	"github.com/the-outcaster/projectplus-updater/internal/shortcut"
)

func newShortcutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shortcut",
		Short: "Manage desktop shortcuts",
	}

	cmd.AddCommand(newShortcutCreateCmd())
	cmd.AddCommand(newShortcutRemoveCmd())

	return cmd
}

func newShortcutCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create [product]",
		Short: "Create desktop and application-menu shortcuts",
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
			return createShortcuts(m, p)
		},
	}
}

func newShortcutRemoveCmd() *cobra.Command {
	var location string

	cmd := &cobra.Command{
		Use:   "remove [product]",
		Short: "Remove desktop shortcuts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolveProduct(args)
			if err != nil {
				return err
			}

			switch location {
			case "desktop":
				return removeShortcut(shortcut.Desktop, p)
			case "applications":
				return removeShortcut(shortcut.Applications, p)
			case "all":
				shortcut.RemoveAll(p)
				fmt.Printf("Removed all shortcuts for %s\n", p.DisplayName)
				return nil
			default:
				return fmt.Errorf("invalid location %q (expected desktop, applications or all)", location)
			}
		},
	}

	cmd.Flags().StringVar(&location, "location", "all", "Which shortcut to remove: desktop, applications or all")

	return cmd
}

func removeShortcut(loc shortcut.Location, p product.Product) error {
	if err := shortcut.Remove(loc, p); err != nil {
		return err
	}
	fmt.Printf("Removed %s shortcut for %s\n", loc, p.DisplayName)
	return nil
}
