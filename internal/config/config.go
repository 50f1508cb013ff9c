// Package config holds benchmark run settings: defaults, an optional YAML
// file, and one-shot environment resolution for notification credentials.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TelegramConfig carries chat notification credentials.
type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID string `yaml:"chat_id"`
}

// Configured reports whether both credentials resolved.
func (t TelegramConfig) Configured() bool {
	return t.Token != "" && t.ChatID != ""
}

type ProbeConfig struct {
	Attempts        int     `yaml:"attempts"`
	IntervalSeconds float64 `yaml:"interval_seconds"`
	TimeoutSeconds  float64 `yaml:"timeout_seconds"`
}

type Config struct {
	APIURL         string         `yaml:"api_url"`
	Strategies     []string       `yaml:"strategies"`
	OCRLanguages   string         `yaml:"ocr_languages"`
	TimeoutSeconds int            `yaml:"timeout_seconds"`
	Warmup         bool           `yaml:"warmup"`
	EstimatePages  int            `yaml:"estimate_pages"`
	PacingSeconds  float64        `yaml:"pacing_seconds"`
	SaveRaw        bool           `yaml:"save_raw"`
	RawDir         string         `yaml:"raw_dir"`
	SamplesDir     string         `yaml:"samples_dir"`
	Output         string         `yaml:"output"`
	Color          bool           `yaml:"color"`
	Probe          ProbeConfig    `yaml:"probe"`
	Telegram       TelegramConfig `yaml:"telegram"`
}

// Default returns the settings used when no file or flag overrides them.
func Default() Config {
	return Config{
		APIURL:         "http://localhost:8000",
		Strategies:     []string{"fast", "hi_res"},
		OCRLanguages:   "ita+eng",
		TimeoutSeconds: 7200,
		Warmup:         true,
		EstimatePages:  10,
		PacingSeconds:  2,
		RawDir:         "responses",
		SamplesDir:     "samples",
		Color:          true,
		Probe: ProbeConfig{
			Attempts:        20,
			IntervalSeconds: 4,
			TimeoutSeconds:  3,
		},
	}
}

// Load overlays the YAML file at path onto the defaults.
func Load(path string) (Config, error) {
	c := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("parse config: %w", err)
	}
	return c, nil
}

// ResolveTelegram fills missing credentials from the environment, once, at
// startup. Precedence: explicit value, then environment, then absent. Nothing
// else in the program reads these variables.
func (c *Config) ResolveTelegram(getenv func(string) string) {
	if c.Telegram.Token == "" {
		c.Telegram.Token = getenv("TELEGRAM_BOT_TOKEN")
	}
	if c.Telegram.ChatID == "" {
		c.Telegram.ChatID = getenv("TELEGRAM_CHAT_ID")
	}
}
