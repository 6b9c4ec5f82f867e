package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	var checkRemote bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the install state of every product",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newManager()
			if err != nil {
				return err
			}

			if checkRemote {
				for _, ps := range m.States() {
					if ps.Unavailable != nil {
						continue
					}
					opID, err := m.CheckRemote(ps.Product.ID)
					if err != nil {
						return err
					}
					if err := waitForOperation(m, opID); err != nil {
						fmt.Printf("%s: %v\n", ps.Product.DisplayName, err)
					}
				}
			}

			fmt.Printf("Base install directory: %s\n\n", m.BaseDir())
			for _, ps := range m.States() {
				fmt.Printf("%s (%s)\n", ps.Product.DisplayName, ps.Product.ID)
				if ps.Unavailable != nil {
					fmt.Printf("  unavailable: %v\n", ps.Unavailable)
					continue
				}
				fmt.Printf("  status:  %s\n", ps.Status)
				if ps.Installed.Installed() {
					fmt.Printf("  version: %s\n", ps.Installed.Version)
					fmt.Printf("  dir:     %s\n", ps.Installed.InstallDir)
					if !ps.Installed.Playable() {
						fmt.Println("  warning: no launchable artifact found")
					}
				}
				if ps.Latest != nil {
					fmt.Printf("  latest:  %s\n", ps.Latest.TagName)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&checkRemote, "remote", false, "Also query GitHub for the latest release")

	return cmd
}
