package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/surfshell/internal/overview"
	"github.com/1broseidon/surfshell/internal/shell"
)

const sidebarWidth = 32

// surfaceItem implements list.Item for the surface sidebar.
type surfaceItem struct {
	info shell.SurfaceInfo
}

func (i surfaceItem) Title() string {
	title := i.info.Name
	if i.info.Activated {
		title += " ●"
	}
	return title
}

func (i surfaceItem) Description() string {
	return fmt.Sprintf("%s • ws %d • z %d", i.info.State, i.info.Workspace, i.info.Z)
}

func (i surfaceItem) FilterValue() string { return i.info.Name }

// model is the root bubbletea model. Every action runs on the shell
// directly and settles its animations before the next frame is drawn.
type model struct {
	shell *shell.Shell
	snap  shell.Snapshot

	list list.Model
	keys keyMap
	help help.Model

	lastError string
	width     int
	height    int
}

func newModel(s *shell.Shell) model {
	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Surfaces"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	m := model{
		shell: s,
		list:  l,
		keys:  defaultKeyMap(),
		help:  help.New(),
	}
	m.refresh()
	return m
}

// refresh re-reads the session and rebuilds the sidebar, keeping the
// selection on the same surface when it still exists.
func (m *model) refresh() {
	m.snap = m.shell.Snapshot()
	selected := m.selected()

	items := make([]list.Item, 0, len(m.snap.Surfaces))
	index := 0
	for _, si := range m.snap.Surfaces {
		if !si.Mapped {
			continue
		}
		if si.Name == selected {
			index = len(items)
		}
		items = append(items, surfaceItem{info: si})
	}
	m.list.SetItems(items)
	m.list.Select(index)
}

func (m model) selected() string {
	if item, ok := m.list.SelectedItem().(surfaceItem); ok {
		return item.info.Name
	}
	return ""
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.list.SetSize(sidebarWidth, max(m.contentHeight(), 1))
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.list.SetSize(sidebarWidth, max(m.contentHeight(), 1))
			return m, nil
		}
		if handled, err := m.apply(msg); handled {
			m.lastError = ""
			if err != nil {
				m.lastError = err.Error()
			}
			m.shell.Settle()
			m.refresh()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// apply runs the shell action bound to msg.
func (m *model) apply(msg tea.KeyMsg) (bool, error) {
	s := m.shell
	k := m.keys

	switch {
	case key.Matches(msg, k.Overview):
		s.ToggleOverview(overview.ReasonShortcutKey)
		return true, nil
	case key.Matches(msg, k.ShowDesktop):
		s.ToggleShowDesktop()
		return true, nil
	case key.Matches(msg, k.Tile):
		_, err := s.TileWorkspace()
		return true, err
	case key.Matches(msg, k.Untile):
		s.UntileWorkspace()
		return true, nil
	case key.Matches(msg, k.CycleLayout):
		_, err := s.CycleLayout(1)
		return true, err
	case key.Matches(msg, k.Workspace):
		return true, s.SetCurrentWorkspace(int(msg.Runes[0] - '0'))
	}

	name := m.selected()
	if name == "" {
		return false, nil
	}
	w, err := s.SurfaceByName(name)
	if err != nil {
		return true, err
	}
	switch {
	case key.Matches(msg, k.Activate):
		if s.Overview().Active() {
			s.ExitOverview(w)
		} else if !s.ForceActivateSurface(w) {
			return true, fmt.Errorf("%s cannot be activated", name)
		}
	case key.Matches(msg, k.Minimize):
		if w.IsMinimized() {
			w.RequestCancelMinimize()
		} else {
			w.RequestMinimize()
		}
	case key.Matches(msg, k.Maximize):
		w.RequestToggleMaximize()
	case key.Matches(msg, k.Fullscreen):
		if w.IsFullscreen() {
			w.RequestCancelFullscreen()
		} else {
			w.RequestFullscreen()
		}
	default:
		return false, nil
	}
	return true, nil
}

// contentHeight returns the height available between the bars.
func (m model) contentHeight() int {
	// status bar (1) + tab bar (2 with margin) + summary (1) + help
	return m.height - 4 - lipgloss.Height(m.help.View(m.keys))
}

var (
	summaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	previewStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	helpStyle    = lipgloss.NewStyle().Padding(0, 1)
)

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.snap, m.lastError, m.width)
	tabBar := renderTabBar(m.snap.Workspaces, m.width)
	helpBar := helpStyle.Render(m.help.View(m.keys))

	contentHeight := m.height - lipgloss.Height(statusBar) - lipgloss.Height(tabBar) - lipgloss.Height(helpBar) - 1
	contentHeight = max(contentHeight, 3)
	previewWidth := max(m.width-sidebarWidth-1, 5)

	var tiles []tile
	summary := "desktop"
	if m.snap.Overview.Status == "active" {
		tiles = overviewTiles(m.snap, m.selected())
		summary = summarize(m.snap)
	} else {
		tiles = desktopTiles(m.snap)
	}
	area := rectOf(m.snap.Output)
	preview := previewStyle.Render(strings.Join(renderPreview(area, tiles, previewWidth, contentHeight), "\n"))

	content := lipgloss.JoinHorizontal(lipgloss.Top, m.list.View(), " ", preview)
	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		tabBar,
		content,
		summaryStyle.Render(summary),
		helpBar,
	)
}
