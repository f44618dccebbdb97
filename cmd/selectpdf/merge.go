package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lgc202/selectpdf-go/preflight"
	"github.com/lgc202/selectpdf-go/selectpdf"
	"github.com/lgc202/selectpdf-go/selectpdf/pdfmerge"
)

func newMergeCmd(a *app) *cobra.Command {
	var (
		out       string
		async     bool
		passwords map[string]string
		title     string
		check     bool
	)

	cmd := &cobra.Command{
		Use:   "merge -o out.pdf INPUT INPUT...",
		Short: "Merge local PDFs and PDF URLs into one document, in order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs := make([]pdfmerge.Input, 0, len(args))
			for _, arg := range args {
				var in pdfmerge.Input
				if isURL(arg) {
					in = pdfmerge.URL(arg)
				} else {
					if check {
						rep, err := preflight.InspectFile(arg, preflight.Options{UserPassword: passwords[arg]})
						if err != nil {
							return err
						}
						a.logger.Debug("preflight", "file", arg, "pages", rep.Pages, "encrypted", rep.Encrypted)
					}
					in = pdfmerge.File(arg)
				}
				if pw, ok := passwords[arg]; ok {
					in = in.WithPassword(pw)
				}
				inputs = append(inputs, in)
			}

			var opts []pdfmerge.Option
			if title != "" {
				opts = append(opts, pdfmerge.WithDocTitle(title))
			}

			m := pdfmerge.New(a.client)
			var (
				info selectpdf.Info
				err  error
			)
			if async {
				info, err = m.MergeAsyncToFile(cmd.Context(), inputs, out, opts...)
			} else {
				info, err = m.MergeToFile(cmd.Context(), inputs, out, opts...)
			}
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(a.stdout, "%s: %d pages from %d inputs\n", out, info.Pages, len(inputs))
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&out, "output", "o", "", "output PDF path")
	fl.BoolVar(&async, "async", false, "submit as an asynchronous job and poll for the result")
	fl.StringToStringVar(&passwords, "password", nil, "password of an input, INPUT=password")
	fl.StringVar(&title, "title", "", "PDF document title")
	fl.BoolVar(&check, "preflight", false, "open local files with pdfcpu before uploading")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func isURL(s string) bool {
	s = strings.ToLower(s)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
