// Package tui: keyboard binding configuration.
package tui

// Keymap defines all keyboard shortcuts for the dashboard.
type Keymap struct {
	Quit     string
	TabNext  string
	TabPrev  string
	NavUp    string
	NavDown  string
	NavLeft  string
	NavRight string
	Select   string
	Audit    string
	Enable   string
	Disable  string
	Packages string
	Search   string
	Help     string
}

// defaultKeymap returns the default dashboard key bindings.
func defaultKeymap() Keymap {
	return Keymap{
		Quit:     "q",
		TabNext:  "tab",
		TabPrev:  "shift+tab",
		NavUp:    "up",
		NavDown:  "down",
		NavLeft:  "left",
		NavRight: "right",
		Select:   "enter",
		Audit:    "l",
		Enable:   "e",
		Disable:  "x",
		Packages: "p",
		Search:   "/",
		Help:     "?",
	}
}

// HelpText returns the keyboard shortcut reference displayed in the help modal.
func HelpText() string {
	return `
  NAVIGATION
  ──────────────────────────────────────
  Tab / Shift+Tab    Cycle panels
  ↑↓  /  j k        Navigate list

  ACTIONS
  ──────────────────────────────────────
  e                  Enable selected plugin
  x                  Disable selected plugin
  p                  Switch to packages panel
  l                  Switch to audit log panel

  MISC
  ──────────────────────────────────────
  ?                  Toggle this help
  q                  Quit
  Ctrl+C             Force quit
`
}
