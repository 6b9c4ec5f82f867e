package cmd

import (
	"github.com/spf13/cobra"

	"github.com/the-outcaster/projectplus-updater/internal/audio"
)

func newTexturesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "textures [product]",
		Short: "Install the HD texture pack for an installed product",
		Long: `Textures downloads the HD texture pack asset from the latest release
and unpacks it into the Dolphin user directory next to the installed
build. The product must already be installed.`,
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
			opID, err := m.StartTextureInstall(p.ID)
			if err != nil {
				return err
			}
			if err := waitForOperation(m, opID); err != nil {
				audio.PlayError()
				return err
			}
			audio.PlaySuccess()
			return nil
		},
	}
}
