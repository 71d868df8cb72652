package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chartbaseline/internal/browser"
)

var settingVars = []string{
	"BASELINE_ENGINE",
	"BASELINE_ARTIFACTS_DIR",
	"BASELINE_VIEWPORT_WIDTH",
	"BASELINE_VIEWPORT_HEIGHT",
	"BASELINE_NAV_TIMEOUT",
	"BASELINE_SETTLE",
	"BASELINE_HEADLESS",
	"BASELINE_INSTALL_BROWSERS",
	"BASELINE_MANIFEST",
	"BASELINE_LOG_FILE",
}

// cleanEnv runs the test in an empty directory with every setting unset.
func cleanEnv(t *testing.T) {
	t.Helper()
	for _, name := range settingVars {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	cleanEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, browser.EnginePlaywright, cfg.Engine)
	assert.Equal(t, "artifacts", cfg.ArtifactsDir)
	assert.Equal(t, browser.Viewport{Width: 1600, Height: 1900}, cfg.Viewport())
	assert.Equal(t, 45*time.Second, cfg.NavigationTimeout)
	assert.Equal(t, 1200*time.Millisecond, cfg.SettleDelay)
	assert.True(t, cfg.Headless)
	assert.False(t, cfg.InstallBrowsers)
	assert.Empty(t, cfg.ManifestPath)
	assert.Empty(t, cfg.LogFile)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	cleanEnv(t)
	t.Setenv("BASELINE_ENGINE", "chromedp")
	t.Setenv("BASELINE_SETTLE", "250ms")
	t.Setenv("BASELINE_HEADLESS", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, browser.EngineChromedp, cfg.Engine)
	assert.Equal(t, 250*time.Millisecond, cfg.SettleDelay)
	assert.Equal(t, browser.LaunchOptions{Headless: false}, cfg.LaunchOptions())
}

func TestLoadDotEnv(t *testing.T) {
	cleanEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(".", ".env"),
		[]byte("BASELINE_ARTIFACTS_DIR=shots\nBASELINE_VIEWPORT_WIDTH=1280\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("BASELINE_ARTIFACTS_DIR")
		os.Unsetenv("BASELINE_VIEWPORT_WIDTH")
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "shots", cfg.ArtifactsDir)
	assert.Equal(t, 1280, cfg.ViewportWidth)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cleanEnv(t)
	t.Setenv("BASELINE_ENGINE", "selenium")
	t.Setenv("BASELINE_NAV_TIMEOUT", "0s")

	_, err := Load()
	require.Error(t, err)
	assert.ErrorContains(t, err, `unknown engine "selenium"`)
	assert.ErrorContains(t, err, "BASELINE_NAV_TIMEOUT")
}

func TestLoadRejectsUnparsable(t *testing.T) {
	cleanEnv(t)
	t.Setenv("BASELINE_VIEWPORT_HEIGHT", "tall")

	_, err := Load()
	assert.Error(t, err)
}

func TestResolveTargetURL(t *testing.T) {
	assert.Equal(t, "http://127.0.0.1:4173/index.html", ResolveTargetURL(nil))
	assert.Equal(t, DefaultTargetURL, ResolveTargetURL([]string{}))
	assert.Equal(t, "http://example.invalid", ResolveTargetURL([]string{"http://example.invalid"}))
	assert.Equal(t, " HTTP://Host:1/x?y#z ", ResolveTargetURL([]string{" HTTP://Host:1/x?y#z ", "extra"}),
		"argument is used verbatim")
}
