package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"chartbaseline/internal/browser"
)

// Options configure a run.
type Options struct {
	TargetURL         string
	ArtifactsDir      string
	Viewport          browser.Viewport
	NavigationTimeout time.Duration
	SettleDelay       time.Duration
	ManifestPath      string // optional: write run manifest here
	Log               io.Writer
}

// Result lists the screenshots a run produced, in capture order.
type Result struct {
	Manifest Manifest
}

// Run opens one page, then for each BaselinePlan target clicks its control, waits
// for the settle delay and writes a full-page screenshot. The browser is
// closed on every return path.
func Run(ctx context.Context, engine browser.Engine, opts Options) (Result, error) {
	if opts.TargetURL == "" {
		return Result{}, errors.New("TargetURL is required")
	}
	if opts.ArtifactsDir == "" {
		return Result{}, errors.New("ArtifactsDir is required")
	}
	if opts.NavigationTimeout <= 0 {
		return Result{}, errors.New("NavigationTimeout must be positive")
	}
	logger := newNDJSONLogger(opts.Log)

	manifest := Manifest{
		TargetURL: opts.TargetURL,
		Engine:    engine.Name(),
		Viewport:  fmt.Sprintf("%dx%d", opts.Viewport.Width, opts.Viewport.Height),
		StartedAt: time.Now(),
	}

	logger.info("browser", "launching", map[string]any{"engine": engine.Name()})
	b, err := engine.Launch(ctx)
	if err != nil {
		logger.fail("browser", "launch failed", map[string]any{"error": err.Error()})
		return Result{}, err
	}
	defer func() {
		if cerr := b.Close(); cerr != nil {
			logger.warn("browser", "close failed", map[string]any{"error": cerr.Error()})
			return
		}
		logger.info("browser", "closed", nil)
	}()

	page, err := b.NewPage(opts.Viewport)
	if err != nil {
		return Result{}, fmt.Errorf("new page: %w", err)
	}

	logger.info("browser", "navigating", map[string]any{
		"url":        opts.TargetURL,
		"timeout_ms": opts.NavigationTimeout.Milliseconds(),
	})
	if err := page.Goto(opts.TargetURL, opts.NavigationTimeout); err != nil {
		logger.fail("browser", "navigation failed", map[string]any{"url": opts.TargetURL, "error": err.Error()})
		return Result{}, &NavigationError{URL: opts.TargetURL, Err: err}
	}

	if err := os.MkdirAll(opts.ArtifactsDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create artifacts dir: %w", err)
	}

	for _, target := range BaselinePlan() {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		capture, err := captureTarget(page, target, opts, logger)
		if err != nil {
			return Result{}, err
		}
		manifest.Captures = append(manifest.Captures, capture)
	}
	manifest.FinishedAt = time.Now()

	if opts.ManifestPath != "" {
		if err := writeManifest(opts.ManifestPath, manifest); err != nil {
			logger.warn("artifact", "write manifest failed", map[string]any{"error": err.Error()})
		} else {
			logger.info("artifact", "manifest written", map[string]any{"path": opts.ManifestPath})
		}
	}

	logger.info("runner", "run finished", map[string]any{"captures": len(manifest.Captures)})
	return Result{Manifest: manifest}, nil
}

func captureTarget(page browser.Page, target Target, opts Options, logger *ndjsonLogger) (Capture, error) {
	selector := target.Selector()
	logger.info("action", "click", map[string]any{"target": target.Name, "selector": selector})
	if err := page.Click(selector); err != nil {
		return Capture{}, fmt.Errorf("click %s tab: %w", target.Name, err)
	}

	page.Settle(opts.SettleDelay)

	path := filepath.Join(opts.ArtifactsDir, target.File)
	if err := page.Screenshot(path); err != nil {
		return Capture{}, fmt.Errorf("screenshot %s tab: %w", target.Name, err)
	}
	capture := Capture{
		Name:       target.Name,
		Selector:   selector,
		Path:       path,
		CapturedAt: time.Now(),
	}
	if info, err := os.Stat(path); err == nil {
		capture.Bytes = info.Size()
	}
	logger.info("artifact", "screenshot written", map[string]any{"target": target.Name, "path": path, "bytes": capture.Bytes})
	return capture, nil
}
