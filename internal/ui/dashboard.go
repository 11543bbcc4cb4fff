package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"pushcast/internal/models"
	"pushcast/internal/platforms"
)

var _ list.Item = platformItem{}

// platformItem wraps a platform and its status to implement [list.Item].
type platformItem struct {
	platform models.Platform
	status   models.PlatformStatus
}

func (i platformItem) FilterValue() string { return string(i.platform) }
func (i platformItem) Title() string       { return string(i.platform) }
func (i platformItem) Description() string {
	if !i.status.Connected {
		return "nicht verbunden"
	}
	desc := "verbunden"
	if i.status.Username != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.status.Username)
	}
	if i.status.LastSync != nil {
		desc = fmt.Sprintf("%s • letzter Abgleich %s", desc, i.status.LastSync.Format("02.01.2006 15:04"))
	}
	return desc
}

type statusFetchedMsg struct {
	statuses map[models.Platform]models.PlatformStatus
	err      error
}

type disconnectedMsg struct {
	platform models.Platform
	err      error
}

// DashboardModel shows the platform connection dashboard.
type DashboardModel struct {
	ctx    context.Context
	store  *platforms.Store
	userID string

	width    int
	height   int
	statuses list.Model
	ready    bool
	err      error
	help     help.Model
	keys     keyMap
}

// NewDashboardModel creates the dashboard for the signed-in user.
func NewDashboardModel(ctx context.Context, store *platforms.Store, userID string) *DashboardModel {
	return &DashboardModel{
		ctx:    ctx,
		store:  store,
		userID: userID,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Init fetches the platform status on startup.
func (m *DashboardModel) Init() tea.Cmd {
	return m.fetchStatus(false)
}

// Update handles incoming messages and updates the model state.
func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.ready {
			m.statuses.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m, m.fetchStatus(true)
		case "d":
			if item, ok := m.selected(); ok && item.status.Connected {
				return m, m.disconnect(item.platform)
			}
			return m, nil
		}

	case statusFetchedMsg:
		m.err = msg.err
		// A failed refresh still delivers the last known state.
		if msg.statuses != nil {
			m.setItems(msg.statuses)
		}
		return m, nil

	case disconnectedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		return m, m.fetchStatus(true)
	}

	if m.ready {
		var cmd tea.Cmd
		m.statuses, cmd = m.statuses.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the dashboard.
func (m *DashboardModel) View() string {
	if !m.ready {
		if m.err != nil {
			return styles.err.Render(fmt.Sprintf("Fehler: %v\n\nPress q to quit", m.err))
		}
		return "Lade Plattform-Status..."
	}

	var errLine string
	if m.err != nil {
		errLine = styles.warn.Render(fmt.Sprintf("⚠ %v (zeige letzten bekannten Stand)", m.err)) + "\n"
	}

	helpKeys := []key.Binding{m.keys.refresh, m.keys.disconnect, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s%s\n\n%s", errLine, m.statuses.View(), helpView)
}

func (m *DashboardModel) selected() (platformItem, bool) {
	if !m.ready {
		return platformItem{}, false
	}
	item, ok := m.statuses.SelectedItem().(platformItem)
	return item, ok
}

func (m *DashboardModel) setItems(statuses map[models.Platform]models.PlatformStatus) {
	items := make([]list.Item, len(models.AllPlatforms))
	for i, platform := range models.AllPlatforms {
		items[i] = platformItem{platform: platform, status: statuses[platform]}
	}

	if !m.ready {
		m.statuses = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.statuses.Title = "Verbundene Plattformen"
		m.statuses.SetSize(m.width-4, m.height-8)
		m.ready = true
		return
	}
	m.statuses.SetItems(items)
}

func (m *DashboardModel) fetchStatus(force bool) tea.Cmd {
	return func() tea.Msg {
		statuses, err := m.store.FetchStatus(m.ctx, m.userID, force)
		return statusFetchedMsg{statuses: statuses, err: err}
	}
}

func (m *DashboardModel) disconnect(platform models.Platform) tea.Cmd {
	return func() tea.Msg {
		err := m.store.Disconnect(m.ctx, m.userID, platform)
		return disconnectedMsg{platform: platform, err: err}
	}
}
