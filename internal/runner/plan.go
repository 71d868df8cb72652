package runner

import "chartbaseline/internal/browser"

// Target is one UI state to capture: the tab control to click and the file
// the full-page screenshot is written to.
type Target struct {
	Name string
	// Handler is a substring of the control's onclick attribute.
	Handler string
	File    string
}

// Selector picks the first button whose click handler mentions Handler.
func (t Target) Selector() string {
	return browser.ClickHandlerSelector(t.Handler)
}

// BaselinePlan is the fixed capture order: the results tab always comes
// before the payback tab.
func BaselinePlan() []Target {
	return []Target{
		{Name: "results", Handler: "results-tab", File: "baseline-results-tab.png"},
		{Name: "payback", Handler: "payback-tab", File: "baseline-payback-tab.png"},
	}
}
