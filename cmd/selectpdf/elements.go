package main

import (
	"fmt"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/lgc202/selectpdf-go/selectpdf/webelements"
)

func newElementsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "elements JOB_ID",
		Short: "List element positions recorded by a conversion run with --web-elements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := webelements.New(a.client).Get(cmd.Context(), args[0])
			if err != nil {
				return describe(err)
			}
			elems, err := res.Elements()
			if err != nil {
				return err
			}

			table := uitable.New()
			table.AddRow("SELECTOR", "PAGE", "X", "Y", "WIDTH", "HEIGHT")
			for _, e := range elems {
				table.AddRow(e.Selector, e.PageIndex, e.X, e.Y, e.Width, e.Height)
			}
			fmt.Fprintln(a.stdout, table)
			return nil
		},
	}
}
