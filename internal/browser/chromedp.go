package browser

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// ChromedpEngine drives a locally installed Chrome or Chromium over the
// DevTools protocol.
type ChromedpEngine struct {
	opts LaunchOptions
}

// actionTimeout bounds element queries, which chromedp otherwise retries
// until the element shows up.
const actionTimeout = 30 * time.Second

func (e *ChromedpEngine) Name() string { return EngineChromedp }

func (e *ChromedpEngine) InstallHint() string {
	return "Missing dependency: Chrome or Chromium\n" +
		"Install Google Chrome or Chromium and make sure it is on PATH, for example:\n" +
		"  apt-get install -y chromium"
}

func (e *ChromedpEngine) Launch(ctx context.Context) (Browser, error) {
	execPath, err := findChromeExecutable()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotInstalled, err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(execPath),
		chromedp.DisableGPU,
		chromedp.Flag("headless", e.opts.Headless),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// The first Run starts the browser process.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("launch chrome: %w", err)
	}
	return &chromedpBrowser{
		ctx: browserCtx,
		cancel: func() {
			cancelBrowser()
			cancelAlloc()
		},
	}, nil
}

var chromeCandidates = []string{
	"headless-shell",
	"headless_shell",
	"chromium",
	"chromium-browser",
	"google-chrome",
	"google-chrome-stable",
}

func findChromeExecutable() (string, error) {
	for _, name := range chromeCandidates {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	if runtime.GOOS == "darwin" {
		for _, path := range []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
		} {
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
	}
	return "", fmt.Errorf("no chrome executable found (looked for %v)", chromeCandidates)
}

type chromedpBrowser struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.Mutex
	tabs []context.CancelFunc

	once     sync.Once
	closeErr error
}

func (b *chromedpBrowser) NewPage(vp Viewport) (Page, error) {
	tabCtx, cancel := chromedp.NewContext(b.ctx)
	if err := chromedp.Run(tabCtx,
		page.SetLifecycleEventsEnabled(true),
		chromedp.EmulateViewport(int64(vp.Width), int64(vp.Height)),
	); err != nil {
		cancel()
		return nil, fmt.Errorf("open tab: %w", err)
	}
	b.mu.Lock()
	b.tabs = append(b.tabs, cancel)
	b.mu.Unlock()
	return &chromedpPage{ctx: tabCtx, actionTimeout: actionTimeout}, nil
}

func (b *chromedpBrowser) Close() error {
	b.once.Do(func() {
		b.mu.Lock()
		for _, cancel := range b.tabs {
			cancel()
		}
		b.tabs = nil
		b.mu.Unlock()
		// Cancel closes the browser gracefully before the allocator kills it.
		b.closeErr = chromedp.Cancel(b.ctx)
		b.cancel()
	})
	return b.closeErr
}

type chromedpPage struct {
	ctx           context.Context
	actionTimeout time.Duration
}

func (p *chromedpPage) Goto(url string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()

	// Lifecycle events restart at "init" for every new document, so only a
	// networkIdle seen after the navigation's init counts.
	idle := make(chan struct{})
	var (
		mu      sync.Mutex
		started bool
		done    bool
	)
	chromedp.ListenTarget(ctx, func(ev interface{}) {
		e, ok := ev.(*page.EventLifecycleEvent)
		if !ok {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		switch e.Name {
		case "init":
			started = true
		case "networkIdle":
			if started && !done {
				done = true
				close(idle)
			}
		}
	})

	if err := chromedp.Run(ctx, chromedp.Navigate(url)); err != nil {
		return err
	}
	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for network idle: %w", ctx.Err())
	}
}

func (p *chromedpPage) Click(selector string) error {
	ctx, cancel := context.WithTimeout(p.ctx, p.actionTimeout)
	defer cancel()
	if err := chromedp.Run(ctx, chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible)); err != nil {
		return fmt.Errorf("click %s: %w", selector, err)
	}
	return nil
}

func (p *chromedpPage) Settle(d time.Duration) {
	_ = chromedp.Run(p.ctx, chromedp.Sleep(d))
}

func (p *chromedpPage) Screenshot(path string) error {
	var buf []byte
	// Quality 100 makes chromedp capture PNG instead of JPEG.
	if err := chromedp.Run(p.ctx, chromedp.FullScreenshot(&buf, 100)); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, buf, 0o644)
}
