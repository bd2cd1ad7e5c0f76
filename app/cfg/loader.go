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
	// Pipeline data locations
	DataDir   string `long:"data-dir" env:"DATA_DIR" default:"./data" description:"Directory holding candidates.json, topic-history.json and posts.json"`
	OutputDir string `long:"output-dir" env:"OUTPUT_DIR" default:"./output" description:"Directory for the pipeline status artifact and the run archive"`
	PublicDir string `long:"public-dir" env:"PUBLIC_DIR" default:"./public" description:"Directory for published artifacts (feed.xml, article data files)"`

	// Drafting service configuration
	AnthropicAPIKey string `long:"anthropic-api-key" env:"ANTHROPIC_API_KEY" description:"API key for the drafting service (required for generation runs)"`
	ModelsFile      string `long:"models-file" env:"MODELS_FILE" default:"./models.yml" description:"Optional YAML file overriding drafting model parameters"`

	// Deduplication
	DedupWindowDays int `long:"dedup-window-days" env:"DEDUP_WINDOW_DAYS" default:"5" description:"Rolling window in days during which a topic key is ineligible for regeneration"`

	// Server / scheduler configuration
	Serve             bool   `long:"serve" env:"SERVE" description:"Run the dashboard server and interval scheduler instead of a single pipeline run"`
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port (serve mode)"`
	BaseUrl           string `long:"base-url" env:"BASE_URL" description:"Public base URL of the site (e.g. https://news.example.com)"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"43200" description:"Seconds between scheduled pipeline runs (serve mode)"`
	Schedule          string `long:"schedule" env:"SCHEDULE" default:"09:00,21:00" description:"Informational run schedule recorded in the status artifact"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"autopress/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Asia/Tokyo)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
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
		DataDir:           raw.DataDir,
		OutputDir:         raw.OutputDir,
		PublicDir:         raw.PublicDir,
		AnthropicAPIKey:   raw.AnthropicAPIKey,
		ModelsFile:        raw.ModelsFile,
		DedupWindowDays:   raw.DedupWindowDays,
		Serve:             raw.Serve,
		Port:              raw.Port,
		BaseUrl:           raw.BaseUrl,
		SchedulerInterval: raw.SchedulerInterval,
		Schedule:          raw.Schedule,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
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
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}
