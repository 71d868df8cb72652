package browser

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	e, err := New("playwright", LaunchOptions{Headless: true})
	require.NoError(t, err)
	assert.Equal(t, EnginePlaywright, e.Name())

	e, err = New(" Chromedp ", LaunchOptions{})
	require.NoError(t, err)
	assert.Equal(t, EngineChromedp, e.Name())

	e, err = New("", LaunchOptions{})
	require.NoError(t, err)
	assert.Equal(t, EnginePlaywright, e.Name())

	_, err = New("selenium", LaunchOptions{})
	assert.ErrorContains(t, err, `unknown browser engine "selenium"`)
}

func TestClickHandlerSelector(t *testing.T) {
	assert.Equal(t, `button[onclick*="results-tab"]`, ClickHandlerSelector("results-tab"))
	assert.Equal(t, `button[onclick*="show(\"a\\b\")"]`, ClickHandlerSelector(`show("a\b")`))
}

func TestMissingExecutable(t *testing.T) {
	assert.True(t, missingExecutable(errors.New("browserType.launch: Executable doesn't exist at /root/.cache/ms-playwright/chromium-1/chrome")))
	assert.False(t, missingExecutable(errors.New("browserType.launch: Target page, context or browser has been closed")))
}

func TestInstallHints(t *testing.T) {
	assert.Contains(t, (&PlaywrightEngine{}).InstallHint(), "install --with-deps chromium")
	assert.Contains(t, (&ChromedpEngine{}).InstallHint(), "Chromium")
}

// TestEnginesCapture drives each real engine against a local page. It needs
// the browsers installed and is skipped otherwise.
func TestEnginesCapture(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	srv := newTabServer(t)

	for _, name := range []string{EnginePlaywright, EngineChromedp} {
		t.Run(name, func(t *testing.T) {
			engine, err := New(name, LaunchOptions{Headless: true})
			require.NoError(t, err)

			b, err := engine.Launch(context.Background())
			if errors.Is(err, ErrNotInstalled) {
				t.Skipf("%s not installed: %v", name, err)
			}
			require.NoError(t, err)
			defer b.Close()

			page, err := b.NewPage(Viewport{Width: 800, Height: 600})
			require.NoError(t, err)
			require.NoError(t, page.Goto(srv.URL, 30*time.Second))
			require.NoError(t, page.Click(ClickHandlerSelector("results-tab")))
			page.Settle(50 * time.Millisecond)

			out := filepath.Join(t.TempDir(), "nested", "shot.png")
			require.NoError(t, page.Screenshot(out))
			data, err := os.ReadFile(out)
			require.NoError(t, err)
			assert.Equal(t, []byte("\x89PNG"), data[:4])

			require.NoError(t, b.Close())
			assert.NoError(t, b.Close(), "second close is a no-op")
		})
	}
}

func TestPlaywrightInstallFailureIsNotInstalled(t *testing.T) {
	e := &PlaywrightEngine{
		opts: LaunchOptions{Headless: true, InstallBrowsers: true},
		install: func(...*playwright.RunOptions) error {
			return errors.New("download chromium: connection refused")
		},
	}

	_, err := e.Launch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotInstalled)
	assert.ErrorContains(t, err, "connection refused")
}

func TestChromedpClickMissingSelector(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	srv := newTabServer(t)

	b, err := (&ChromedpEngine{opts: LaunchOptions{Headless: true}}).Launch(context.Background())
	if errors.Is(err, ErrNotInstalled) {
		t.Skipf("chrome not installed: %v", err)
	}
	require.NoError(t, err)
	defer b.Close()

	p, err := b.NewPage(Viewport{Width: 800, Height: 600})
	require.NoError(t, err)
	require.NoError(t, p.Goto(srv.URL, 30*time.Second))

	cp := p.(*chromedpPage)
	cp.actionTimeout = time.Second

	start := time.Now()
	err = p.Click(ClickHandlerSelector("summary-tab"))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 10*time.Second)

	require.NoError(t, b.Close())
	assert.Error(t, cp.ctx.Err(), "closing the browser releases the tab context")
}
