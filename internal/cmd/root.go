// Package cmd wires the command-line interface to the update manager.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/the-outcaster/projectplus-updater/internal/audio"
	"github.com/the-outcaster/projectplus-updater/internal/config"
	"github.com/the-outcaster/projectplus-updater/internal/manager"
	"github.com/the-outcaster/projectplus-updater/internal/product"
)

var (
	// Global flags
	configPath string
	baseDir    string
	verbose    bool
	quietMode  bool
)

func Execute(version, commit, date string) error {
	rootCmd := &cobra.Command{
		Use:   "projectplus-updater",
		Short: "Install, update and launch Project+ and REX on Linux",
		Long: `projectplus-updater keeps Project+ and REX builds up to date.

It downloads releases from GitHub, installs them under a base directory,
and manages desktop shortcuts, texture packs and the GameCube adapter
polling rate.`,
		Version:      fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
			audio.Init(quietMode, func(format string, args ...interface{}) {
				slog.Debug(fmt.Sprintf(format, args...))
			})
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&baseDir, "base-dir", "", "Override the base install directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Disable audio cues")

	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newUpdateCmd())
	rootCmd.AddCommand(newRemoveCmd())
	rootCmd.AddCommand(newLaunchCmd())
	rootCmd.AddCommand(newTexturesCmd())
	rootCmd.AddCommand(newShortcutCmd())
	rootCmd.AddCommand(newChangelogCmd())
	rootCmd.AddCommand(newAdapterCmd())

	return rootCmd.Execute()
}

func setupLogging() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// loadConfig resolves the effective configuration, honoring --config
// and --base-dir overrides.
func loadConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = config.Path()
		if err != nil {
			return config.Config{}, err
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if baseDir != "" {
		cfg.BaseInstallDir = baseDir
	}
	if quietMode {
		cfg.Quiet = true
	}
	return cfg, nil
}

func newManager() (*manager.Manager, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return manager.New(cfg.BaseInstallDir, slog.Default()), nil
}

// resolveProduct maps a command-line argument to a known product.
// With a single argument missing, Project+ is assumed.
func resolveProduct(args []string) (product.Product, error) {
	if len(args) == 0 {
		return product.ProjectPlus, nil
	}
	p, err := product.ByID(args[0])
	if err != nil {
		return product.Product{}, fmt.Errorf("%w (choose one of: %s)", err, productIDs())
	}
	return p, nil
}

func productIDs() string {
	ids := ""
	for i, p := range product.Catalog {
		if i > 0 {
			ids += ", "
		}
		ids += p.ID
	}
	return ids
}
