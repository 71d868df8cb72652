// Command capture_baseline captures full-page screenshots of the results and
// payback tabs of the chart UI for visual-regression review.
//
// Usage:
//
//	capture_baseline [base_url]
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"chartbaseline/internal/browser"
	"chartbaseline/internal/config"
	"chartbaseline/internal/runner"
)

type engineFactory func(cfg *config.Config) (browser.Engine, error)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, newEngine)
	stop()
	os.Exit(code)
}

func newEngine(cfg *config.Config) (browser.Engine, error) {
	return browser.New(cfg.Engine, cfg.LaunchOptions())
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, engines engineFactory) int {
	logger := log.New(stderr, "[baseline] ", log.LstdFlags|log.Lmicroseconds)

	cfg, err := config.Load()
	if err != nil {
		logger.Printf("invalid configuration: %v", err)
		return runner.ExitFailure
	}
	targetURL := config.ResolveTargetURL(args)

	engine, err := engines(cfg)
	if err != nil {
		logger.Printf("select engine: %v", err)
		return runner.ExitFailure
	}

	runLog := stdout
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			logger.Printf("create log dir: %v", err)
			return runner.ExitFailure
		}
		f, err := os.Create(cfg.LogFile)
		if err != nil {
			logger.Printf("open run log: %v", err)
			return runner.ExitFailure
		}
		defer f.Close()
		runLog = f
	}

	res, err := runner.Run(ctx, engine, runner.Options{
		TargetURL:         targetURL,
		ArtifactsDir:      cfg.ArtifactsDir,
		Viewport:          cfg.Viewport(),
		NavigationTimeout: cfg.NavigationTimeout,
		SettleDelay:       cfg.SettleDelay,
		ManifestPath:      cfg.ManifestPath,
		Log:               runLog,
	})

	code := runner.ExitCode(err)
	switch code {
	case runner.ExitOK:
		for _, c := range res.Manifest.Captures {
			logger.Printf("Captured %s tab at %s", c.Name, c.Path)
		}
	case runner.ExitDependencyMissing:
		fmt.Fprintln(stderr, engine.InstallHint())
	case runner.ExitNavigation:
		fmt.Fprintf(stderr,
			"Failed to load page for baseline capture: %s\n"+
				"Make sure the app server is running, for example:\n"+
				"  python -m http.server 4173\n", targetURL)
		logger.Printf("navigation error: %v", err)
	default:
		logger.Printf("capture failed: %v", err)
	}
	return code
}
