package main

import (
	"github.com/spf13/cobra"

	"github.com/wgaamuseum/museum/internal/server"
	"github.com/wgaamuseum/museum/pkg/logging"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var listen, region string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the museum server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Listen = listen
			}
			if region != "" {
				cfg.Region = region
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			logger := newLogger(cmd.ErrOrStderr(), cfg)
			logging.SetDefault(logger)

			s, err := server.New(cfg, server.WithLogger(logger), server.WithVersion(version))
			if err != nil {
				return err
			}
			return s.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "override the listen address")
	cmd.Flags().StringVar(&region, "region", "", "override the default region")
	return cmd
}
