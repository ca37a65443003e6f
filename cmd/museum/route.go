package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wgaamuseum/museum/internal/museum"
)

func newRouteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "route PATH...",
		Short: "Show which route each hash path matches",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PATH\tROUTE\tPARAMS")
			for _, path := range args {
				m, ok := museum.MatchRoute(path)
				if !ok {
					fmt.Fprintf(w, "%s\t(not found)\t\n", path)
					continue
				}
				var params string
				for i, p := range m.Params {
					if i > 0 {
						params += " "
					}
					if !p.Present {
						params += p.Name + "=-"
						continue
					}
					params += p.Name + "=" + p.Value
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", path, m.Route.Name, params)
			}
			return w.Flush()
		},
	}
}
