package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Database configuration
	DBPath string `long:"db-path" env:"DATABASE_PATH" default:"./data/macromind.db" description:"Path to the SQLite database file"`

	// Generation configuration
	OpenAIAPIKey   string `long:"openai-api-key" env:"OPENAI_API_KEY" description:"OpenAI API key (required)" required:"true"`
	OpenAIEndpoint string `long:"openai-endpoint" env:"OPENAI_ENDPOINT" default:"https://api.openai.com/v1/chat/completions" description:"Chat completions endpoint URL"`
	Model          string `long:"model" env:"MODEL" default:"gpt-4o-mini" description:"Model identifier used for feed generation"`
	OpenAITimeout  int    `long:"openai-timeout" env:"OPENAI_TIMEOUT" default:"120" description:"Generation call timeout in seconds"`

	// Application configuration
	Port            string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	ProfilePath     string `long:"profile" env:"PROFILE_PATH" description:"Optional YAML feed profile overriding the built-in categories"`
	APIAccessKey    string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key guarding the generate endpoint (optional)"`
	RefreshInterval int    `long:"refresh-interval" env:"REFRESH_INTERVAL" default:"0" description:"In-process refresh check interval in minutes (0 disables the scheduler)"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:          raw.DBPath,
		OpenAIAPIKey:    raw.OpenAIAPIKey,
		OpenAIEndpoint:  raw.OpenAIEndpoint,
		Model:           raw.Model,
		OpenAITimeout:   raw.OpenAITimeout,
		Port:            raw.Port,
		ProfilePath:     raw.ProfilePath,
		APIAccessKey:    raw.APIAccessKey,
		RefreshInterval: raw.RefreshInterval,
		Timezone:        raw.Timezone,
		Debug:           raw.Debug,
		Version:         GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
