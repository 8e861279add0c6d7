// Package tui defines the Bubble Tea model for the plugin host's interactive
// dashboard.
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/adi-family/pluginhost/internal/core/config"
	"github.com/adi-family/pluginhost/internal/tui/components"
	"github.com/adi-family/pluginhost/pkg/host"
	"github.com/adi-family/pluginhost/pkg/statestore"
)

// Config carries dependencies into the TUI app.
type Config struct {
	HostLabel string
	Host      *host.PluginHost
}

// ActivePanel identifies which main panel has focus.
type ActivePanel int

const (
	PanelPlugins ActivePanel = iota
	PanelPackages
	PanelAudit
)

// Model is the root Bubble Tea model (Elm architecture).
type Model struct {
	cfg Config

	// Dimensions
	width  int
	height int

	// Panels
	panel         ActivePanel
	plugins       []components.PluginRow
	packages      []components.PackageRow
	auditViewport viewport.Model

	// Sub-components
	header  components.Header
	sidebar components.Sidebar
	footer  components.Footer
	modal   *components.Modal

	// Selected plugin row for enable/disable actions
	selectedPlugin int

	// Error state
	lastError error

	// Theme
	styles Styles
}

// tickMsg is emitted by the refresh ticker.
type tickMsg time.Time

// auditLinesMsg carries the tail of the audit log.
type auditLinesMsg []string

// pluginsMsg carries a refreshed plugin row set.
type pluginsMsg []components.PluginRow

// packagesMsg carries a refreshed package row set.
type packagesMsg []components.PackageRow

// errMsg carries an error to display in the status bar.
type errMsg error

// New constructs a new TUI Model.
func New(cfg Config) *Model {
	styles := newStyles()
	av := viewport.New(0, 0)
	av.Style = styles.LogViewport

	return &Model{
		cfg:           cfg,
		auditViewport: av,
		styles:        styles,
		header:        components.NewHeader(cfg.HostLabel),
		sidebar:       components.NewSidebar(),
		footer:        components.NewFooter(),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Init
// ─────────────────────────────────────────────────────────────────────────────

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.tickCmd(),
		m.loadPluginsCmd(),
		m.loadPackagesCmd(),
		m.loadAuditCmd(),
	)
}

// ─────────────────────────────────────────────────────────────────────────────
// Update
// ─────────────────────────────────────────────────────────────────────────────

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.auditViewport.Width = m.width - 22 // sidebar width
		m.auditViewport.Height = m.height - 10

	case tea.KeyMsg:
		// Modal intercepts key events when open
		if m.modal != nil {
			cmd, done := m.modal.HandleKey(msg)
			if done {
				m.modal = nil
			}
			return m, cmd
		}
		cmds = append(cmds, m.handleKey(msg))

	case tickMsg:
		cmds = append(cmds, m.tickCmd(), m.loadPluginsCmd(), m.loadPackagesCmd())

	case pluginsMsg:
		m.plugins = msg
		m.header.SetPluginCount(len(msg))
		if m.selectedPlugin >= len(msg) {
			m.selectedPlugin = len(msg) - 1
		}
		if m.selectedPlugin < 0 {
			m.selectedPlugin = 0
		}

	case packagesMsg:
		m.packages = msg
		m.header.SetPackageCount(len(msg))
		names := make([]string, len(msg))
		for i, p := range msg {
			names[i] = p.ID
		}
		m.sidebar.SetPackages(names)

	case auditLinesMsg:
		m.auditViewport.SetContent(joinLines(msg))
		m.auditViewport.GotoBottom()

	case errMsg:
		m.lastError = msg
		m.footer.SetError(msg)
	}

	// Propagate to viewport
	var avCmd tea.Cmd
	m.auditViewport, avCmd = m.auditViewport.Update(msg)
	cmds = append(cmds, avCmd)

	return m, tea.Batch(cmds...)
}

// handleKey processes keyboard input when no modal is open.
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	kb := defaultKeymap()

	switch msg.String() {
	case kb.Quit, "ctrl+c":
		return tea.Quit

	case kb.TabNext:
		m.panel = (m.panel + 1) % 3

	case kb.TabPrev:
		m.panel = (m.panel + 2) % 3 // wrap backwards

	case kb.NavDown, "j":
		if m.panel == PanelPlugins && m.selectedPlugin < len(m.plugins)-1 {
			m.selectedPlugin++
		}

	case kb.NavUp, "k":
		if m.panel == PanelPlugins && m.selectedPlugin > 0 {
			m.selectedPlugin--
		}

	case kb.Audit:
		m.panel = PanelAudit

	case kb.Packages:
		m.panel = PanelPackages

	case kb.Help:
		m.modal = components.NewHelpModal(m.styles.Modal)

	case kb.Enable:
		if id, ok := m.selectedPluginID(); ok {
			return m.enableCmd(id)
		}

	case kb.Disable:
		if id, ok := m.selectedPluginID(); ok {
			pluginID := id
			m.modal = components.NewConfirmModal(
				fmt.Sprintf("Disable %s?", pluginID),
				"This will tear down the plugin and its registered services.",
				m.styles.Modal,
				func() tea.Cmd { return m.disableCmd(pluginID) },
			)
		}
	}
	return nil
}

func (m *Model) selectedPluginID() (string, bool) {
	if m.selectedPlugin < 0 || m.selectedPlugin >= len(m.plugins) {
		return "", false
	}
	return m.plugins[m.selectedPlugin].ID, true
}

// ─────────────────────────────────────────────────────────────────────────────
// View
// ─────────────────────────────────────────────────────────────────────────────

func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := m.header.View(m.width)
	sidebar := m.sidebar.View(20, m.height-4)
	mainPanel := m.renderMain()
	footer := m.footer.View(m.width)

	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, mainPanel)

	view := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)

	if m.modal != nil {
		view = m.modal.Overlay(view, m.width, m.height)
	}

	return view
}

func (m *Model) renderMain() string {
	mainWidth := m.width - 22

	switch m.panel {
	case PanelPlugins:
		return components.RenderPluginsTable(m.plugins, m.selectedPlugin, mainWidth, m.height-6)
	case PanelPackages:
		return components.RenderPackagesTable(m.packages, mainWidth, m.height-6)
	case PanelAudit:
		title := m.styles.PanelTitle.Render("AUDIT LOG")
		return lipgloss.JoinVertical(lipgloss.Left, title, m.auditViewport.View())
	}
	return ""
}

// ─────────────────────────────────────────────────────────────────────────────
// Commands (async data fetchers and actions)
// ─────────────────────────────────────────────────────────────────────────────

func (m *Model) tickCmd() tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) loadPluginsCmd() tea.Cmd {
	return func() tea.Msg {
		plugins := m.cfg.Host.Plugins()
		rows := make([]components.PluginRow, 0, len(plugins))
		for id, p := range plugins {
			rows = append(rows, components.PluginRow{
				ID:        id,
				PackageID: p.PackageID,
				Version:   p.Manifest.Version,
				Loaded:    m.cfg.Host.IsLoaded(id),
				Enabled:   p.Enabled,
			})
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
		return pluginsMsg(rows)
	}
}

func (m *Model) loadPackagesCmd() tea.Cmd {
	return func() tea.Msg {
		packages := m.cfg.Host.Packages()
		rows := make([]components.PackageRow, 0, len(packages))
		for id, p := range packages {
			status, err := m.cfg.Host.InstallStatus(id)
			if err != nil {
				status = statestore.Status{State: "unknown"}
			}
			rows = append(rows, components.PackageRow{
				ID:          id,
				Version:     p.Version,
				PluginCount: len(p.PluginIDs),
				Status:      status.State,
				Progress:    status.Progress,
			})
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
		return packagesMsg(rows)
	}
}

func (m *Model) loadAuditCmd() tea.Cmd {
	return func() tea.Msg {
		return auditLinesMsg(tailAuditLog())
	}
}

func (m *Model) enableCmd(pluginID string) tea.Cmd {
	return func() tea.Msg {
		if err := m.cfg.Host.Enable(pluginID); err != nil {
			return errMsg(err)
		}
		return tickMsg(time.Time{})
	}
}

func (m *Model) disableCmd(pluginID string) tea.Cmd {
	return func() tea.Msg {
		m.cfg.Host.Disable(pluginID)
		return tickMsg(time.Time{})
	}
}

// joinLines concatenates log lines with newlines.
func joinLines(lines []string) string {
	out := ""
	for _, l := range lines {
		out += l + "\n"
	}
	return out
}

// tailAuditLog reads the trailing lines of the host's audit log. Best-effort:
// a missing or unreadable log simply renders an empty panel.
func tailAuditLog() []string {
	data, err := os.ReadFile(filepath.Join(config.Home(), "audit.log"))
	if err != nil {
		return nil
	}

	lines := splitLines(string(data))
	const maxLines = 200
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return lines
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			if i > start {
				lines = append(lines, s[start:i])
			}
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
