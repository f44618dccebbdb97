package main

import (
	"time"

	"github.com/lgc202/selectpdf-go/config"
	"github.com/lgc202/selectpdf-go/selectpdf"
)

const envPrefix = "SELECTPDF"

// Settings is read from an optional config file, then SELECTPDF_* variables,
// then command-line flags.
type Settings struct {
	APIKey          string        `mapstructure:"api_key" json:"api_key" validate:"required"`
	BaseURL         string        `mapstructure:"base_url" json:"base_url" validate:"required,http_url"`
	Timeout         time.Duration `mapstructure:"timeout" json:"timeout" validate:"gte=0"`
	Retries         int           `mapstructure:"retries" json:"retries" validate:"gte=0,lte=10"`
	RateLimit       float64       `mapstructure:"rate_limit" json:"rate_limit" validate:"gte=0"`
	PollInterval    time.Duration `mapstructure:"poll_interval" json:"poll_interval" validate:"gte=0"`
	PollMaxAttempts int           `mapstructure:"poll_max_attempts" json:"poll_max_attempts" validate:"min=1"`
	Parallelism     int           `mapstructure:"parallelism" json:"parallelism" validate:"min=1,max=16"`
}

func defaultSettings() map[string]any {
	poll := selectpdf.DefaultPollPolicy()
	return map[string]any{
		"api_key":           "",
		"base_url":          selectpdf.DefaultBaseURL,
		"timeout":           "10m",
		"retries":           3,
		"rate_limit":        0,
		"poll_interval":     poll.Interval.String(),
		"poll_max_attempts": poll.MaxAttempts,
		"parallelism":       4,
	}
}

// loadSettings merges the sources; overrides holds the flags the user set.
func loadSettings(path string, overrides map[string]any) (Settings, error) {
	c, err := config.Load(path,
		config.WithDefaults[Settings](defaultSettings()),
		config.WithEnv[Settings](envPrefix),
		config.WithOverrides[Settings](overrides),
		config.WithoutWatch[Settings](),
	)
	if err != nil {
		return Settings{}, err
	}
	return c.Get(), nil
}
