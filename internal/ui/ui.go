package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tagtune/internal/models"
	"github.com/desertthunder/tagtune/internal/store"
	"github.com/desertthunder/tagtune/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LibraryView ViewState = iota
	PlaylistListView
	PlaylistTracksView
	SyncView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	controller   *tasks.Controller
	store        store.Store
	user         models.User
	serviceType  string
	width        int
	height       int
	libraryList  list.Model
	playlistList list.Model
	trackList    list.Model
	playlists    []models.TaggedPlaylist
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	result       *tasks.SyncResult
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, controller *tasks.Controller, st store.Store, user models.User, serviceType string) *Model {
	return &Model{
		ctx:         ctx,
		view:        LibraryView,
		controller:  controller,
		store:       st,
		user:        user,
		serviceType: serviceType,
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

// Init initializes the TUI by fetching the stored library.
func (m *Model) Init() tea.Cmd {
	return m.fetchLibrary()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for _, l := range []*list.Model{&m.libraryList, &m.playlistList, &m.trackList} {
			if l.Width() == 0 {
				l.SetSize(msg.Width-4, msg.Height-8)
			}
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case LibraryView:
			return m.handleLibraryKeys(msg)
		case PlaylistListView:
			return m.handlePlaylistListKeys(msg)
		case PlaylistTracksView:
			return m.handleTrackListKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case libraryFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		items := make([]list.Item, len(msg.tracks))
		for i, track := range msg.tracks {
			items[i] = trackItem{track: track}
		}
		m.libraryList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.libraryList.Title = fmt.Sprintf("Library (%d tracks)", len(msg.tracks))
		m.libraryList.SetSize(m.width-4, m.height-8)
		m.view = LibraryView
		return m, nil

	case playlistsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = LibraryView
			return m, nil
		}
		m.playlists = msg.playlists
		items := make([]list.Item, len(msg.playlists))
		for i, pl := range msg.playlists {
			items[i] = playlistItem{playlist: pl}
		}
		m.playlistList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.playlistList.Title = "Playlists"
		m.playlistList.SetSize(m.width-4, m.height-8)
		m.view = PlaylistListView
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case syncCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case LibraryView:
		return m.renderLibrary()
	case PlaylistListView:
		return m.renderPlaylistList()
	case PlaylistTracksView:
		return m.renderTrackList()
	case SyncView:
		return m.renderSync()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleLibraryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab":
		return m, m.fetchPlaylists()
	case "s":
		m.view = SyncView
		return m, m.startSync()
	}

	var cmd tea.Cmd
	m.libraryList, cmd = m.libraryList.Update(msg)
	return m, cmd
}

func (m *Model) handlePlaylistListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab", "esc":
		m.view = LibraryView
		return m, nil
	case "enter":
		selected := m.playlistList.SelectedItem()
		if selected != nil {
			if pl, ok := selected.(playlistItem); ok {
				m.openPlaylist(pl.playlist)
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) handleTrackListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = PlaylistListView
		return m, nil
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.result = nil
		m.err = nil
		return m, m.fetchLibrary()
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case LibraryView:
		m.libraryList, cmd = m.libraryList.Update(msg)
	case PlaylistListView:
		m.playlistList, cmd = m.playlistList.Update(msg)
	case PlaylistTracksView:
		m.trackList, cmd = m.trackList.Update(msg)
	}
	return m, cmd
}

func (m *Model) openPlaylist(playlist models.TaggedPlaylist) {
	items := make([]list.Item, len(playlist.Tracks))
	for i, track := range playlist.Tracks {
		items[i] = trackItem{track: track}
	}
	m.trackList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.trackList.Title = fmt.Sprintf("Tracks in '%s'", playlist.Name)
	m.trackList.SetSize(m.width-4, m.height-8)
	m.view = PlaylistTracksView
}

func (m *Model) fetchLibrary() tea.Cmd {
	return func() tea.Msg {
		tracks, err := m.store.GetUserTracks(m.ctx, m.user, m.serviceType)
		return libraryFetchedMsg{tracks: tracks, err: err}
	}
}

func (m *Model) fetchPlaylists() tea.Cmd {
	return func() tea.Msg {
		playlists, err := m.controller.GetPlaylists(m.ctx, m.user, nil)
		return playlistsFetchedMsg{playlists: playlists, err: err}
	}
}

func (m *Model) startSync() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)

	go func() {
		result, err := m.controller.SyncTracks(m.ctx, m.user, m.progressChan)
		m.result = result
		m.err = err
		close(m.progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return syncCompleteMsg{result: m.result, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return syncCompleteMsg{result: m.result, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderLibrary() string {
	helpKeys := []key.Binding{m.keys.swap, m.keys.sync, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.libraryList.View(), helpView)
}

func (m *Model) renderPlaylistList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.swap, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.playlistList.View(), helpView)
}

func (m *Model) renderTrackList() string {
	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.trackList.View(), helpView)
}

func (m *Model) renderSync() string {
	title := styles.title.Render("Syncing Library")

	var phase string
	switch m.progress.Phase {
	case tasks.FetchLibrary:
		phase = "Fetching library and stored tracks..."
	case tasks.ApplyChanges:
		phase = "Applying changes..."
	case tasks.SyncComplete:
		phase = "Finishing up..."
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Sync failed: %v\n\nPress r to go back, q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r to go back, q to quit")
	}

	title := styles.ok.Render("✓ Sync Complete!")
	info := fmt.Sprintf(
		"\nService tracks: %d\nStored tracks before: %d\nAdded: %d\nDeleted: %d",
		m.result.ServiceTotal,
		m.result.StoredTotal,
		m.result.Added,
		m.result.Deleted,
	)

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}
