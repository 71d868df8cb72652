package browser

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

// PlaywrightEngine drives Chromium through the playwright driver.
type PlaywrightEngine struct {
	opts    LaunchOptions
	install func(...*playwright.RunOptions) error
}

func (e *PlaywrightEngine) Name() string { return EnginePlaywright }

func (e *PlaywrightEngine) InstallHint() string {
	return "Missing dependency: playwright driver and Chromium\n" +
		"Install with:\n" +
		"  go run github.com/playwright-community/playwright-go/cmd/playwright@v0.5200.1 install --with-deps chromium\n" +
		"or rerun with BASELINE_INSTALL_BROWSERS=true"
}

func (e *PlaywrightEngine) Launch(ctx context.Context) (Browser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if e.opts.InstallBrowsers {
		install := e.install
		if install == nil {
			install = playwright.Install
		}
		if err := install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
			return nil, fmt.Errorf("%w: install playwright: %v", ErrNotInstalled, err)
		}
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("%w: start playwright: %v", ErrNotInstalled, err)
	}

	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(e.opts.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		if missingExecutable(err) {
			return nil, fmt.Errorf("%w: launch chromium: %v", ErrNotInstalled, err)
		}
		return nil, fmt.Errorf("launch chromium: %w", err)
	}
	return &playwrightBrowser{pw: pw, browser: b}, nil
}

// missingExecutable reports whether a launch error means the browser build
// was never downloaded.
func missingExecutable(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "Executable doesn't exist") ||
		strings.Contains(msg, "playwright install")
}

type playwrightBrowser struct {
	pw      *playwright.Playwright
	browser playwright.Browser

	once     sync.Once
	closeErr error
}

func (b *playwrightBrowser) NewPage(vp Viewport) (Page, error) {
	page, err := b.browser.NewPage(playwright.BrowserNewPageOptions{
		Viewport: &playwright.Size{Width: vp.Width, Height: vp.Height},
	})
	if err != nil {
		return nil, err
	}
	return &playwrightPage{page: page}, nil
}

func (b *playwrightBrowser) Close() error {
	b.once.Do(func() {
		if err := b.browser.Close(); err != nil {
			b.closeErr = fmt.Errorf("close browser: %w", err)
		}
		if err := b.pw.Stop(); err != nil && b.closeErr == nil {
			b.closeErr = fmt.Errorf("stop playwright: %w", err)
		}
	})
	return b.closeErr
}

type playwrightPage struct {
	page playwright.Page
}

func (p *playwrightPage) Goto(url string, timeout time.Duration) error {
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(float64(timeout.Milliseconds())),
	})
	return err
}

func (p *playwrightPage) Click(selector string) error {
	return p.page.Locator(selector).First().Click()
}

func (p *playwrightPage) Settle(d time.Duration) {
	p.page.WaitForTimeout(float64(d.Milliseconds()))
}

func (p *playwrightPage) Screenshot(path string) error {
	_, err := p.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
		Type:     playwright.ScreenshotTypePng,
	})
	return err
}
