// Package components: plugins table, packages table, and modal rendering.
package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ─────────────────────────────────────────────────────────────────────────────
// Plugins Table
// ─────────────────────────────────────────────────────────────────────────────

// PluginRow is one renderable row of the plugins table.
type PluginRow struct {
	ID        string
	PackageID string
	Version   string
	Loaded    bool
	Enabled   bool
}

// RenderPluginsTable renders the plugin list table.
func RenderPluginsTable(rows []PluginRow, selected int, width, height int) string {
	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#4A5568")).Bold(true).Padding(0, 1)
	rowStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E2E8F0")).Padding(0, 1)
	selStyle := lipgloss.NewStyle().
		Background(lipgloss.Color("#171A2B")).
		Foreground(lipgloss.Color("#56E0C8")).Bold(true).Padding(0, 1)

	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7B8CDE")).Bold(true).
		Padding(0, 1).
		Render("PLUGINS")

	hdr := headerStyle.Render(
		fmt.Sprintf("%-26s %-20s %-10s %s",
			"ID", "PACKAGE", "VERSION", "STATE"),
	)

	body := ""
	for i, r := range rows {
		state := loadBadge(r.Loaded, r.Enabled)

		line := fmt.Sprintf("%-26s %-20s %-10s %s",
			truncate(r.ID, 24), truncate(r.PackageID, 18), r.Version, state,
		)

		if i == selected {
			body += selStyle.Render("▶ "+line) + "\n"
		} else {
			body += rowStyle.Render("  "+line) + "\n"
		}
	}

	if len(rows) == 0 {
		body = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4A5568")).
			Padding(2, 2).
			Render("No plugins discovered. Run a scan to populate the inventory.")
	}

	return lipgloss.NewStyle().Width(width).Height(height).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, hdr, body))
}

// ─────────────────────────────────────────────────────────────────────────────
// Packages Panel
// ─────────────────────────────────────────────────────────────────────────────

// PackageRow is one renderable row of the packages table.
type PackageRow struct {
	ID          string
	Version     string
	PluginCount int
	Status      string // not_installed | installing | installed | failed | update_available
	Progress    int
}

// RenderPackagesTable renders the installed-packages panel.
func RenderPackagesTable(rows []PackageRow, width, height int) string {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7B8CDE")).Bold(true).
		Padding(0, 1).Render("PACKAGES")

	content := title + "\n\n"

	if len(rows) == 0 {
		return content + lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4A5568")).Padding(1, 2).
			Render("No packages installed.")
	}

	for _, r := range rows {
		badge := statusBadge(r.Status)
		content += fmt.Sprintf("  %-20s %-10s %-3d plugins   %s\n",
			truncate(r.ID, 18), r.Version, r.PluginCount, badge)
	}

	return lipgloss.NewStyle().Width(width).Height(height).Render(content)
}

// ─────────────────────────────────────────────────────────────────────────────
// Modal
// ─────────────────────────────────────────────────────────────────────────────

// Modal is a pop-over dialog.
type Modal struct {
	title     string
	body      string
	style     lipgloss.Style
	onConfirm func() tea.Cmd
	input     string
	typ       modalType
}

type modalType int

const (
	modalConfirm modalType = iota
	modalHelp
)

// NewConfirmModal creates a destructive-action confirmation modal.
func NewConfirmModal(title, body string, style lipgloss.Style, onConfirm func() tea.Cmd) *Modal {
	return &Modal{
		title:     title,
		body:      body,
		style:     style,
		onConfirm: onConfirm,
		typ:       modalConfirm,
	}
}

// NewHelpModal creates the keyboard help modal.
func NewHelpModal(style lipgloss.Style) *Modal {
	return &Modal{
		title: "Keyboard Shortcuts",
		body: `
  Tab / Shift+Tab    Cycle panels        e    Enable plugin
  ↑↓  /  j k        Navigate            x    Disable plugin
  p                  Packages            l    Audit log
                                         q    Quit
`,
		style: style,
		typ:   modalHelp,
	}
}

// HandleKey processes a key for the modal. Returns (cmd, done).
func (m *Modal) HandleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "esc", "q":
		return nil, true
	case "enter":
		if m.typ == modalConfirm && m.onConfirm != nil {
			return m.onConfirm(), true
		}
		return nil, true
	default:
		if m.typ == modalConfirm {
			m.input += msg.String()
		}
	}
	return nil, false
}

// Overlay renders the modal centred over the background content.
func (m *Modal) Overlay(bg string, width, height int) string {
	content := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ECC94B")).Bold(true).
		Render("⚠  "+m.title) + "\n\n"
	content += m.body

	if m.typ == modalConfirm {
		content += "\n\n  > " + m.input + "█"
		content += "\n\n  [Enter] Confirm   [Esc] Cancel"
	} else {
		content += "\n\n  [Esc] Close"
	}

	box := m.style.Render(content)
	boxLines := strings.Split(box, "\n")
	boxWidth := 0
	for _, l := range boxLines {
		if len(l) > boxWidth {
			boxWidth = len(l)
		}
	}
	boxHeight := len(boxLines)

	// Simple centre overlay (approximate — production would use overlay library)
	topPad := (height - boxHeight) / 2
	leftPad := (width - boxWidth) / 2
	if topPad < 0 {
		topPad = 0
	}
	if leftPad < 0 {
		leftPad = 0
	}

	_ = bg // In a full implementation, we'd composite over bg
	padding := strings.Repeat("\n", topPad)
	indent := strings.Repeat(" ", leftPad)
	out := padding
	for _, l := range boxLines {
		out += indent + l + "\n"
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Internal helpers
// ─────────────────────────────────────────────────────────────────────────────

func loadBadge(loaded, enabled bool) string {
	switch {
	case loaded:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#68D391")).Render("● LOADED")
	case enabled:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#ECC94B")).Render("◐ PENDING")
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#4A5568")).Render("○ DISABLED")
	}
}

func statusBadge(status string) string {
	switch status {
	case "installed":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#68D391")).Render("● installed")
	case "update_available":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#7B8CDE")).Render("▲ update available")
	case "installing":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#ECC94B")).Render("◐ installing")
	case "failed":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#F56565")).Render("○ failed")
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#4A5568")).Render("? unknown")
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
