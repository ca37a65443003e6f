package main

import (
	"fmt"
	"net/http"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/wgaamuseum/museum/internal/server"
	"github.com/wgaamuseum/museum/pkg/catalog"
)

func newDataCmd(opts *rootOptions) *cobra.Command {
	var region string
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Load a region and print record counts per collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if region == "" {
				region = cfg.Region
			}
			if !catalog.ValidRegion(region) {
				return fmt.Errorf("unknown region %q", region)
			}

			loader := server.NewLoader(cfg, &http.Client{Timeout: cfg.Data.Timeout}, newLogger(cmd.ErrOrStderr(), cfg), nil)
			start := time.Now()
			snap, err := loader.Load(cmd.Context(), region)
			if err != nil {
				return err
			}

			counts := snap.Counts()
			names := make([]string, 0, len(counts))
			for name := range counts {
				names = append(names, name)
			}
			slices.Sort(names)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "COLLECTION\tRECORDS")
			for _, name := range names {
				fmt.Fprintf(w, "%s\t%d\n", name, counts[name])
			}
			fmt.Fprintf(w, "\nregion %s loaded in %s\n", region, time.Since(start).Round(time.Millisecond))
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&region, "region", "", "region to load (defaults to the configured region)")
	return cmd
}
