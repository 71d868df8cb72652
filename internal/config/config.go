package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"chartbaseline/internal/browser"
)

// DefaultTargetURL is captured when no URL argument is given.
const DefaultTargetURL = "http://127.0.0.1:4173/index.html"

// Config holds the capture settings. Every default reproduces the stock
// baseline run, so an empty environment needs no configuration.
type Config struct {
	// Engine is "playwright" or "chromedp".
	Engine string `envconfig:"BASELINE_ENGINE" default:"playwright"`

	ArtifactsDir   string `envconfig:"BASELINE_ARTIFACTS_DIR" default:"artifacts"`
	ViewportWidth  int    `envconfig:"BASELINE_VIEWPORT_WIDTH" default:"1600"`
	ViewportHeight int    `envconfig:"BASELINE_VIEWPORT_HEIGHT" default:"1900"`

	NavigationTimeout time.Duration `envconfig:"BASELINE_NAV_TIMEOUT" default:"45s"`
	SettleDelay       time.Duration `envconfig:"BASELINE_SETTLE" default:"1200ms"`

	Headless        bool `envconfig:"BASELINE_HEADLESS" default:"true"`
	InstallBrowsers bool `envconfig:"BASELINE_INSTALL_BROWSERS" default:"false"`

	// ManifestPath enables the JSON run manifest when set.
	ManifestPath string `envconfig:"BASELINE_MANIFEST"`
	// LogFile receives the NDJSON run log; stdout when empty.
	LogFile string `envconfig:"BASELINE_LOG_FILE"`
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// A missing .env is normal; only complain about one we could not read.
		if _, statErr := os.Stat(".env"); statErr == nil {
			log.Printf("Warning: .env file found but could not be loaded: %v", err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings no run could succeed with.
func (c *Config) Validate() error {
	var errs []error
	switch c.Engine {
	case browser.EnginePlaywright, browser.EngineChromedp:
	default:
		errs = append(errs, fmt.Errorf("BASELINE_ENGINE: unknown engine %q", c.Engine))
	}
	if c.ArtifactsDir == "" {
		errs = append(errs, errors.New("BASELINE_ARTIFACTS_DIR must not be empty"))
	}
	if c.ViewportWidth <= 0 || c.ViewportHeight <= 0 {
		errs = append(errs, fmt.Errorf("viewport must be positive, got %dx%d", c.ViewportWidth, c.ViewportHeight))
	}
	if c.NavigationTimeout <= 0 {
		errs = append(errs, fmt.Errorf("BASELINE_NAV_TIMEOUT must be positive, got %s", c.NavigationTimeout))
	}
	if c.SettleDelay < 0 {
		errs = append(errs, fmt.Errorf("BASELINE_SETTLE must not be negative, got %s", c.SettleDelay))
	}
	return errors.Join(errs...)
}

// Viewport returns the configured page size.
func (c *Config) Viewport() browser.Viewport {
	return browser.Viewport{Width: c.ViewportWidth, Height: c.ViewportHeight}
}

// LaunchOptions returns the engine settings.
func (c *Config) LaunchOptions() browser.LaunchOptions {
	return browser.LaunchOptions{Headless: c.Headless, InstallBrowsers: c.InstallBrowsers}
}

// ResolveTargetURL returns the first argument verbatim, or DefaultTargetURL
// when there is none.
func ResolveTargetURL(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return DefaultTargetURL
}
