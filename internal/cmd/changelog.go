package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/the-outcaster/projectplus-updater/internal/changelog"
	"github.com/the-outcaster/projectplus-updater/internal/feed"
)

func newChangelogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "changelog [product]",
		Short: "Show the latest release notes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolveProduct(args)
			if err != nil {
				return err
			}

			rel, err := feed.NewClient(p.Owner, p.Repo, nil).Latest()
			if err != nil {
				return fmt.Errorf("fetching release notes for %s: %w", p.DisplayName, err)
			}

			fmt.Println(changelog.Format(rel))
			return nil
		},
	}
}
