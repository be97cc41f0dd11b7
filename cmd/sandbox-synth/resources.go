package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tyler180/appstream-data-sandbox/internal/infra"
)

func newResourcesCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "resources",
		Short: "List the template's resources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rs := infra.Resources(infra.Build(infra.DefaultOptions()))
			w := cmd.OutOrStdout()
			switch format {
			case "json":
				data, err := json.MarshalIndent(rs, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(w, string(data))
			case "text":
				fmt.Fprintf(w, "Resources (%d):\n\n", len(rs))
				for _, r := range rs {
					fmt.Fprintf(w, "  %s: %s\n", r.LogicalID, r.Type)
				}
			default:
				return fmt.Errorf("unknown format: %s", format)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text or json")
	return cmd
}
