package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/Kryruin/Elice-MiniProject/internal/formatter"
	"github.com/Kryruin/Elice-MiniProject/internal/models"
	"github.com/Kryruin/Elice-MiniProject/internal/shared"
	"github.com/Kryruin/Elice-MiniProject/internal/views"
)

// Tab is the screen currently shown.
type Tab int

const (
	CatalogTab Tab = iota
	LibraryTab
)

func (t Tab) String() string {
	switch t {
	case CatalogTab:
		return "Catalog"
	case LibraryTab:
		return "Library"
	default:
		return ""
	}
}

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	catalog *views.CatalogView
	library *views.LibraryView
	logger  *log.Logger
	open    func(url string) error
	now     func() time.Time

	tab         Tab
	width       int
	height      int
	catalogList list.Model
	libraryList list.Model
	search      textinput.Model
	searching   bool
	status      string
	err         error
	help        help.Model
	keys        keyMap
}

func newList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	return l
}

// NewModel creates a new TUI model over the two views.
func NewModel(ctx context.Context, catalog *views.CatalogView, library *views.LibraryView, logger *log.Logger) *Model {
	if logger == nil {
		logger = log.Default()
	}
	search := textinput.New()
	search.Placeholder = views.DefaultQuery
	search.Prompt = "search: "
	search.CharLimit = 200

	return &Model{
		ctx:         ctx,
		catalog:     catalog,
		library:     library,
		logger:      logger,
		open:        shared.OpenBrowser,
		now:         time.Now,
		tab:         CatalogTab,
		catalogList: newList("Catalog"),
		libraryList: newList("Library"),
		search:      search,
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

// Init mounts the catalog and loads the library.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.mountCatalog(), m.loadLibrary())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.catalogList.SetSize(msg.Width-4, msg.Height-12)
		m.libraryList.SetSize(msg.Width-4, msg.Height-12)
		m.search.Width = max(10, msg.Width-12)
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKeys(msg)
		}
		return m.handleKeys(msg)

	case catalogLoadedMsg:
		m.err = msg.err
		m.refreshCatalog()
		return m, nil

	case libraryLoadedMsg:
		m.err = msg.err
		m.refreshLibrary()
		return m, nil

	case actionDoneMsg:
		m.status = msg.message
		m.err = msg.err
		m.refreshCatalog()
		m.refreshLibrary()
		return m, nil
	}

	return m.updateList(msg)
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.tab):
		m.status = ""
		if m.tab == CatalogTab {
			m.tab = LibraryTab
			return m, m.loadLibrary()
		}
		m.tab = CatalogTab
		return m, m.refreshOverlays()
	}

	if m.tab == CatalogTab {
		return m.handleCatalogKeys(msg)
	}
	return m.handleLibraryKeys(msg)
}

func (m *Model) handleCatalogKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.search):
		m.searching = true
		m.search.SetValue(m.catalog.Query())
		m.search.CursorEnd()
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.trending):
		return m, m.loadTrending()
	case key.Matches(msg, m.keys.reload):
		if m.catalog.Mode() == views.ModeTrending {
			return m, m.loadTrending()
		}
		return m, m.searchCatalog(m.catalog.Query())
	}

	row, ok := m.selectedVideo()
	if !ok {
		return m.updateList(msg)
	}
	id := row.Video.ID

	switch {
	case key.Matches(msg, m.keys.save):
		return m, m.toggleSave(row.Video)
	case key.Matches(msg, m.keys.advance):
		return m, m.progressCmd(id, m.catalog.Advance)
	case key.Matches(msg, m.keys.complete):
		return m, m.progressCmd(id, m.catalog.ToggleComplete)
	case key.Matches(msg, m.keys.reset):
		return m, m.progressCmd(id, m.catalog.Reset)
	case key.Matches(msg, m.keys.open):
		if err := m.open(row.Video.URL); err != nil {
			m.err = err
		}
		return m, nil
	}
	return m.updateList(msg)
}

func (m *Model) handleLibraryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.reload) {
		return m, m.loadLibrary()
	}

	item, ok := m.selectedEntry()
	if !ok {
		return m.updateList(msg)
	}
	id := item.entry.Item.ID

	switch {
	case key.Matches(msg, m.keys.save):
		return m, m.unsave(item.entry.Item)
	case key.Matches(msg, m.keys.advance):
		return m, m.progressCmd(id, m.library.Advance)
	case key.Matches(msg, m.keys.complete):
		return m, m.progressCmd(id, m.library.ToggleComplete)
	case key.Matches(msg, m.keys.reset):
		return m, m.progressCmd(id, m.library.Reset)
	case key.Matches(msg, m.keys.open):
		if err := m.library.Open(id); err != nil {
			m.err = err
		}
		return m, nil
	}
	return m.updateList(msg)
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.cancel):
		m.searching = false
		m.search.Blur()
		return m, nil
	case key.Matches(msg, m.keys.submit):
		m.searching = false
		m.search.Blur()
		query := strings.TrimSpace(m.search.Value())
		if query == "" {
			return m, nil
		}
		return m, m.searchCatalog(query)
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.tab {
	case CatalogTab:
		m.catalogList, cmd = m.catalogList.Update(msg)
	case LibraryTab:
		m.libraryList, cmd = m.libraryList.Update(msg)
	}
	return m, cmd
}

func (m *Model) selectedVideo() (views.CatalogRow, bool) {
	if item, ok := m.catalogList.SelectedItem().(videoItem); ok {
		return item.row, true
	}
	return views.CatalogRow{}, false
}

func (m *Model) selectedEntry() (entryItem, bool) {
	item, ok := m.libraryList.SelectedItem().(entryItem)
	return item, ok
}

func (m *Model) refreshCatalog() {
	rows := m.catalog.Rows()
	items := make([]list.Item, len(rows))
	for i, row := range rows {
		items[i] = videoItem{row: row}
	}
	m.catalogList.SetItems(items)

	switch m.catalog.Mode() {
	case views.ModeTrending:
		m.catalogList.Title = "Trending"
	default:
		m.catalogList.Title = fmt.Sprintf("Results for %q", m.catalog.Query())
	}
}

func (m *Model) refreshLibrary() {
	now := m.now()
	var items []list.Item
	for _, g := range m.library.Groups() {
		for _, e := range g.Entries {
			items = append(items, entryItem{group: g.Name, entry: e, now: now})
		}
	}
	m.libraryList.SetItems(items)
	m.libraryList.Title = fmt.Sprintf("Library (%d)", len(items))
}

func (m *Model) mountCatalog() tea.Cmd {
	return func() tea.Msg {
		return catalogLoadedMsg{err: m.catalog.Mount(m.ctx)}
	}
}

func (m *Model) searchCatalog(query string) tea.Cmd {
	return func() tea.Msg {
		return catalogLoadedMsg{err: m.catalog.Search(m.ctx, query)}
	}
}

func (m *Model) loadTrending() tea.Cmd {
	return func() tea.Msg {
		return catalogLoadedMsg{err: m.catalog.LoadTrending(m.ctx)}
	}
}

func (m *Model) refreshOverlays() tea.Cmd {
	return func() tea.Msg {
		m.catalog.LoadOverlays(m.ctx)
		return catalogLoadedMsg{err: m.catalog.Err()}
	}
}

func (m *Model) loadLibrary() tea.Cmd {
	return func() tea.Msg {
		return libraryLoadedMsg{err: m.library.Load(m.ctx)}
	}
}

func (m *Model) toggleSave(video models.Video) tea.Cmd {
	wasSaved := m.catalog.IsSaved(video.ID)
	return func() tea.Msg {
		if err := m.catalog.ToggleSave(m.ctx, video); err != nil {
			return actionDoneMsg{err: err}
		}
		if wasSaved {
			return actionDoneMsg{message: "Removed " + video.Title}
		}
		return actionDoneMsg{message: "Saved " + video.Title}
	}
}

func (m *Model) unsave(item models.Item) tea.Cmd {
	return func() tea.Msg {
		if err := m.library.Unsave(m.ctx, item.ID); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{message: "Removed " + item.Title}
	}
}

type progressFunc func(ctx context.Context, id string) (models.ProgressRecord, error)

func (m *Model) progressCmd(id string, fn progressFunc) tea.Cmd {
	return func() tea.Msg {
		rec, err := fn(m.ctx, id)
		return actionDoneMsg{message: fmt.Sprintf("%s: %s", id, formatter.StatusLabel(rec)), err: err}
	}
}

// View renders the active tab.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	switch m.tab {
	case CatalogTab:
		if m.catalog.Loading() {
			b.WriteString(styles.help.Render("Loading videos..."))
			b.WriteString("\n")
		}
		b.WriteString(m.catalogList.View())
		if m.searching {
			b.WriteString("\n")
			b.WriteString(m.search.View())
		}
		if row, ok := m.selectedVideo(); ok {
			b.WriteString("\n")
			b.WriteString(m.renderVideoDetail(row))
		}
	case LibraryTab:
		if m.library.Loading() {
			b.WriteString(styles.help.Render("Loading library..."))
			b.WriteString("\n")
		}
		if m.library.Len() == 0 && !m.library.Loading() {
			b.WriteString(styles.help.Render("Nothing saved yet. Press tab and s on a video to save it."))
		} else {
			b.WriteString(m.libraryList.View())
		}
	}

	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(styles.err.Render(errorText(m.err)))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(styles.ok.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m *Model) renderTabs() string {
	tabs := make([]string, 0, 2)
	for _, t := range []Tab{CatalogTab, LibraryTab} {
		if t == m.tab {
			tabs = append(tabs, styles.activeTab.Render(t.String()))
		} else {
			tabs = append(tabs, styles.tab.Render(t.String()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) renderVideoDetail(row views.CatalogRow) string {
	lines := []string{row.Video.Title}
	if row.Video.Channel != "" {
		lines = append(lines, row.Video.Channel)
	}
	if row.Tracked {
		lines = append(lines, fmt.Sprintf("%s %s  updated %s",
			formatter.Bar(row.Progress.Percent, 20),
			formatter.StatusLabel(row.Progress),
			formatter.Updated(row.Progress.UpdatedAt, m.now()),
		))
	}
	return styles.detail.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderHelp() string {
	switch {
	case m.searching:
		return m.help.ShortHelpView(m.keys.searchKeys())
	case m.tab == LibraryTab:
		return m.help.ShortHelpView(m.keys.libraryKeys())
	default:
		return m.help.ShortHelpView(m.keys.catalogKeys())
	}
}

// errorText prefers the view's user-facing message over the wrapped cause.
func errorText(err error) string {
	var le *views.LoadError
	if errors.As(err, &le) {
		return le.Message
	}
	return "Error: " + err.Error()
}

// Run starts the program in the alternate screen and blocks until it exits.
func Run(ctx context.Context, m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
