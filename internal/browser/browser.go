// Package browser hides the browser automation library behind a small
// Engine/Browser/Page surface so the capture runner does not care whether
// playwright or chromedp is driving Chromium.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotInstalled is returned by Engine.Launch when the automation driver or
// the browser binary it needs is not available on this machine.
var ErrNotInstalled = errors.New("browser automation not installed")

// Engine names accepted by New.
const (
	EnginePlaywright = "playwright"
	EngineChromedp   = "chromedp"
)

// Viewport is the logical page size in CSS pixels.
type Viewport struct {
	Width  int
	Height int
}

// LaunchOptions configure an engine.
type LaunchOptions struct {
	Headless bool
	// InstallBrowsers installs the driver and Chromium before launching
	// instead of failing with ErrNotInstalled.
	InstallBrowsers bool
}

// Engine launches browsers.
type Engine interface {
	Name() string
	// InstallHint is printed when Launch fails with ErrNotInstalled.
	InstallHint() string
	Launch(ctx context.Context) (Browser, error)
}

// Browser is a running browser instance. Close must be safe to call more
// than once.
type Browser interface {
	NewPage(vp Viewport) (Page, error)
	Close() error
}

// Page is a single tab.
type Page interface {
	// Goto navigates and waits until the network is idle, bounded by timeout.
	Goto(url string, timeout time.Duration) error
	// Click clicks the first element matching a CSS selector.
	Click(selector string) error
	// Settle blocks for a fixed duration.
	Settle(d time.Duration)
	// Screenshot writes a full-page PNG to path, creating parent directories.
	Screenshot(path string) error
}

// New returns the engine registered under name.
func New(name string, opts LaunchOptions) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case EnginePlaywright, "":
		return &PlaywrightEngine{opts: opts}, nil
	case EngineChromedp:
		return &ChromedpEngine{opts: opts}, nil
	default:
		return nil, fmt.Errorf("unknown browser engine %q", name)
	}
}

// ClickHandlerSelector selects buttons whose onclick attribute contains
// substr.
func ClickHandlerSelector(substr string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(substr)
	return `button[onclick*="` + escaped + `"]`
}
