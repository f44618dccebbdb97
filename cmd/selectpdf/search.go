package main

import (
	"fmt"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/lgc202/selectpdf-go/selectpdf/pdftotext"
)

func newSearchCmd(a *app) *cobra.Command {
	var (
		url           string
		password      string
		caseSensitive bool
		wholeWords    bool
		async         bool
		raw           bool
	)

	cmd := &cobra.Command{
		Use:   "search TEXT [FILE.pdf]",
		Short: "Find text in a PDF and print where it occurs",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var src pdftotext.Source
			switch {
			case len(args) == 2 && url != "":
				return fmt.Errorf("use either --url or a file, not both")
			case len(args) == 2:
				src = pdftotext.File(args[1])
			case url != "":
				src = pdftotext.URL(url)
			default:
				return fmt.Errorf("no input: pass a PDF file or --url")
			}

			opts := []pdftotext.Option{
				pdftotext.WithCaseSensitive(caseSensitive),
				pdftotext.WithWholeWordsOnly(wholeWords),
			}
			if password != "" {
				opts = append(opts, pdftotext.WithUserPassword(password))
			}

			p := pdftotext.New(a.client)
			search := p.Search
			if async {
				search = p.SearchAsync
			}
			res, err := search(cmd.Context(), src, args[0], opts...)
			if err != nil {
				return describe(err)
			}
			if raw {
				fmt.Fprintln(a.stdout, string(res.Raw))
				return nil
			}

			matches, err := res.Matches()
			if err != nil {
				return err
			}
			table := uitable.New()
			table.AddRow("#", "PAGE", "X", "Y", "WIDTH", "HEIGHT")
			for _, m := range matches {
				table.AddRow(m.TextNumber, m.Page, m.X, m.Y, m.Width, m.Height)
			}
			fmt.Fprintln(a.stdout, table)
			fmt.Fprintf(a.stdout, "%d matches in %d pages\n", len(matches), res.Pages)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&url, "url", "", "PDF URL to search instead of a local file")
	fl.StringVar(&password, "password", "", "user password of the PDF")
	fl.BoolVar(&caseSensitive, "case-sensitive", false, "match case")
	fl.BoolVar(&wholeWords, "whole-words", false, "match whole words only")
	fl.BoolVar(&async, "async", false, "submit as an asynchronous job and poll for the result")
	fl.BoolVar(&raw, "raw", false, "print the JSON returned by the service")
	return cmd
}
