package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lgc202/selectpdf-go/selectpdf"
	"github.com/lgc202/selectpdf-go/version"
)

func newVersionCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// No settings or API key needed.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(*cobra.Command, []string) error {
			info := version.Get()
			switch output {
			case "json":
				s, err := info.ToJSON()
				if err != nil {
					return err
				}
				fmt.Fprintln(a.stdout, s)
			case "short":
				fmt.Fprintln(a.stdout, info.Semver())
			case "text":
				fmt.Fprint(a.stdout, info.Text(), "\n")
				fmt.Fprintf(a.stdout, "%13s %s\n", "client:", selectpdf.ClientID())
			default:
				return fmt.Errorf("unknown output format %q", output)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text, json, short)")
	return cmd
}
