package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wgaamuseum/museum/pkg/assets"
)

func newAssetCmd(opts *rootOptions) *cobra.Command {
	var purpose string
	cmd := &cobra.Command{
		Use:   "asset PATH...",
		Short: "Resolve raw asset paths to image URLs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			locator := assets.NewLocator(cfg.AssetBaseURL())
			p := assets.ParsePurpose(purpose)
			for _, raw := range args {
				fmt.Fprintln(cmd.OutOrStdout(), locator.Resolve(raw, p))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&purpose, "purpose", "full", "thumbnail, full or raw")
	return cmd
}
