package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/lgc202/selectpdf-go/httpx"
	"github.com/lgc202/selectpdf-go/selectpdf"
)

// app is shared by the subcommands once settings are loaded.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	verbose    bool

	settings Settings
	logger   *slog.Logger
	client   *selectpdf.Client
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "selectpdf",
		Short:         "Convert HTML to PDF, extract text and merge PDFs with SelectPdf",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	f := root.PersistentFlags()
	f.StringVarP(&a.configPath, "config", "c", "", "config file (yaml, toml or json)")
	f.BoolVarP(&a.verbose, "verbose", "v", false, "log requests and poll attempts")
	f.String("api-key", "", "API key (or SELECTPDF_API_KEY)")
	f.String("base-url", "", "service base URL")
	f.Duration("timeout", 0, "HTTP timeout per request")
	f.Float64("rate-limit", 0, "max requests per second, 0 for no limit")
	f.Int("parallel", 0, "concurrent conversions in batch mode")

	root.AddCommand(
		newConvertCmd(a),
		newTextCmd(a),
		newSearchCmd(a),
		newMergeCmd(a),
		newUsageCmd(a),
		newElementsCmd(a),
		newJobCmd(a),
		newVersionCmd(a),
	)

	return root
}

var flagKeys = map[string]string{
	"api-key":    "api_key",
	"base-url":   "base_url",
	"timeout":    "timeout",
	"rate-limit": "rate_limit",
	"parallel":   "parallelism",
}

func (a *app) init(cmd *cobra.Command) error {
	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))

	overrides := map[string]any{}
	flags := cmd.Flags()
	for flag, key := range flagKeys {
		if !flags.Changed(flag) {
			continue
		}
		overrides[key] = flags.Lookup(flag).Value.String()
	}

	s, err := loadSettings(a.configPath, overrides)
	if err != nil {
		return err
	}
	a.settings = s

	retry := httpx.DefaultRetryConfig()
	retry.MaxAttempts = s.Retries + 1

	opts := []selectpdf.Option{
		selectpdf.WithBaseURL(s.BaseURL),
		selectpdf.WithTimeout(s.Timeout),
		selectpdf.WithLogger(a.logger),
		selectpdf.WithRetry(retry),
		selectpdf.WithPollPolicy(selectpdf.PollPolicy{
			Interval:    s.PollInterval,
			MaxAttempts: s.PollMaxAttempts,
		}),
	}
	if a.verbose {
		opts = append(opts, selectpdf.WithMiddleware(httpx.Logging(a.logger)))
	}
	if s.RateLimit > 0 {
		opts = append(opts, selectpdf.WithRateLimit(s.RateLimit, 1))
	}

	a.client, err = selectpdf.New(s.APIKey, opts...)
	if err != nil {
		return err
	}
	a.logger.Debug("client ready", "base_url", s.BaseURL, "client", selectpdf.ClientID())
	return nil
}
