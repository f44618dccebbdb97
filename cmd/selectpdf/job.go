package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lgc202/selectpdf-go/selectpdf/asyncjob"
)

func newJobCmd(a *app) *cobra.Command {
	var (
		out  string
		wait bool
	)

	cmd := &cobra.Command{
		Use:   "job JOB_ID",
		Short: "Check an asynchronous job, or wait for it and save the output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs := asyncjob.New(a.client)
			jobID := args[0]

			if wait {
				if out == "" {
					return fmt.Errorf("--wait needs --output")
				}
				info, err := jobs.WaitToFile(cmd.Context(), jobID, out)
				if err != nil {
					return describe(err)
				}
				fmt.Fprintf(a.stdout, "%s: %d pages\n", out, info.Pages)
				return nil
			}

			st, err := jobs.Check(cmd.Context(), jobID)
			if err != nil {
				return describe(err)
			}
			if !st.Finished {
				fmt.Fprintf(a.stdout, "job %s: running\n", jobID)
				return nil
			}
			fmt.Fprintf(a.stdout, "job %s: finished, %d pages\n", jobID, st.Pages)
			if out != "" {
				return st.Result.WriteToFile(out, 0o644)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "where to save the finished output")
	cmd.Flags().BoolVar(&wait, "wait", false, "poll until the job finishes")
	return cmd
}
