package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/the-outcaster/projectplus-updater/internal/audio"
	"github.com/the-outcaster/projectplus-updater/internal/manager"
	"github.com/the-outcaster/projectplus-updater/internal/product"
	"github.com/the-outcaster/projectplus-updater/internal/shortcut"
)

func newUpdateCmd() *cobra.Command {
	var withShortcut bool

	cmd := &cobra.Command{
		Use:   "update [product]",
		Short: "Download and install the latest release",
		Long: `Update downloads the latest release of a product and installs it under
the base directory, replacing any previous build. With no argument,
Project+ is updated.`,
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

			audio.PlayStart()
			opID, err := m.StartUpdate(p.ID)
			if err != nil {
				return err
			}
			if err := waitForOperation(m, opID); err != nil {
				audio.PlayError()
				return err
			}
			audio.PlaySuccess()

			if withShortcut {
				return createShortcuts(m, p)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withShortcut, "shortcut", false, "Also create desktop shortcuts")

	return cmd
}

// createShortcuts writes desktop and application-menu shortcuts for an
// installed product, fetching the icon first if it is not cached yet.
func createShortcuts(m *manager.Manager, p product.Product) error {
	ps, err := m.State(p.ID)
	if err != nil {
		return err
	}
	if !ps.Installed.Playable() {
		return fmt.Errorf("%s has no launchable artifact to point a shortcut at", p.DisplayName)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := shortcut.EnsureIcon(cfg.IconURL, cfg.IconPath); err != nil {
		return err
	}

	for _, loc := range []shortcut.Location{shortcut.Desktop, shortcut.Applications} {
		if err := shortcut.Create(loc, p, ps.Installed.LaunchablePath, cfg.IconPath); err != nil {
			return err
		}
		fmt.Printf("Created %s shortcut for %s\n", loc, p.DisplayName)
	}
	return nil
}
