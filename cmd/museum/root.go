package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/wgaamuseum/museum/internal/config"
	"github.com/wgaamuseum/museum/pkg/logging"
)

// version is set via ldflags at build time.
var version = "dev"

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "museum",
		Short: "Browse the WGAA game archive",
		Long: `museum serves a live, hash-routed browser over the game's CG, comics,
emoji, story sprites, memories and coatings, loaded from the data
repository and rendered on the server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultPath, "config file path")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log.level (debug, info, warn, error)")

	cmd.AddCommand(
		newServeCmd(opts),
		newRouteCmd(),
		newAssetCmd(opts),
		newDataCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// load reads and validates the configuration, applying flag overrides.
func (o *rootOptions) load() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(w io.Writer, cfg *config.Config) logging.Logger {
	return logging.New(w, cfg.Log.Level, cfg.Log.Format)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "museum %s\n", version)
		},
	}
}
