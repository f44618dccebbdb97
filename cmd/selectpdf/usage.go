package main

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/lgc202/selectpdf-go/selectpdf/usage"
)

func newUsageCmd(a *app) *cobra.Command {
	var history bool

	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show the conversions left on the API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rep, err := usage.New(a.client).Get(cmd.Context(), history)
			if err != nil {
				return describe(err)
			}

			table := uitable.New()
			table.AddRow("available:", rep.Available)
			fmt.Fprintln(a.stdout, table)

			if history {
				var full map[string]json.RawMessage
				if err := rep.Decode(&full); err != nil {
					return err
				}
				for _, k := range slices.Sorted(maps.Keys(full)) {
					if k == "available" {
						continue
					}
					fmt.Fprintf(a.stdout, "%s: %s\n", k, full[k])
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&history, "history", false, "include the usage history")
	return cmd
}
