// Package browsertest provides an in-memory browser.Engine that records every
// call, for tests that must not start a real browser.
package browsertest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"chartbaseline/internal/browser"
)

// PNG is the payload written by the fake Screenshot: a valid 1x1 PNG.
var PNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0xf8, 0xff, 0xff, 0x3f,
	0x00, 0x05, 0xfe, 0x02, 0xfe, 0xa7, 0x35, 0x81, 0x84, 0x00, 0x00, 0x00,
	0x00, 0x49, 0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

// Engine is a fake browser.Engine. Set the error fields to inject failures.
type Engine struct {
	LaunchErr     error
	GotoErr       error
	ClickErr      map[string]error // keyed by selector
	ScreenshotErr error
	CloseErr      error

	mu     sync.Mutex
	calls  []string
	closed int
}

// NotInstalled returns an engine whose Launch fails like a machine without
// the automation driver.
func NotInstalled() *Engine {
	return &Engine{LaunchErr: fmt.Errorf("%w: fake driver missing", browser.ErrNotInstalled)}
}

func (e *Engine) Name() string { return "fake" }

func (e *Engine) InstallHint() string { return "install the fake browser" }

func (e *Engine) Launch(ctx context.Context) (browser.Browser, error) {
	e.record("launch")
	if e.LaunchErr != nil {
		return nil, e.LaunchErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &fakeBrowser{e: e}, nil
}

// Calls returns the recorded call log, e.g. "goto http://x 45s", "click sel",
// "settle 1.2s", "screenshot path", "close".
func (e *Engine) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.calls...)
}

// Closed reports how many times Browser.Close ran.
func (e *Engine) Closed() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

func (e *Engine) record(format string, args ...any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, fmt.Sprintf(format, args...))
}

type fakeBrowser struct {
	e    *Engine
	once sync.Once
}

func (b *fakeBrowser) NewPage(vp browser.Viewport) (browser.Page, error) {
	b.e.record("new page %dx%d", vp.Width, vp.Height)
	return &fakePage{e: b.e}, nil
}

func (b *fakeBrowser) Close() error {
	b.once.Do(func() {
		b.e.record("close")
		b.e.mu.Lock()
		b.e.closed++
		b.e.mu.Unlock()
	})
	return b.e.CloseErr
}

type fakePage struct {
	e *Engine
}

func (p *fakePage) Goto(url string, timeout time.Duration) error {
	p.e.record("goto %s %s", url, timeout)
	return p.e.GotoErr
}

func (p *fakePage) Click(selector string) error {
	p.e.record("click %s", selector)
	return p.e.ClickErr[selector]
}

func (p *fakePage) Settle(d time.Duration) {
	p.e.record("settle %s", d)
}

func (p *fakePage) Screenshot(path string) error {
	p.e.record("screenshot %s", path)
	if p.e.ScreenshotErr != nil {
		return p.e.ScreenshotErr
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, PNG, 0o644)
}
