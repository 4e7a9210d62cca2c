// Package tui is a terminal browser for the bookmark hierarchy.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/hpungsan/pintree/internal/bookmark"
	"github.com/hpungsan/pintree/internal/errors"
	"github.com/hpungsan/pintree/internal/nav"
	"github.com/hpungsan/pintree/internal/ops"
	"github.com/hpungsan/pintree/internal/session"
)

// ReloadFunc loads a fresh snapshot of the source.
type ReloadFunc func(ctx context.Context) (*session.Snapshot, error)

// CopyFunc places text on the system clipboard.
type CopyFunc func(text string) error

// Item is one row of the list: a folder to descend into or a link.
type Item struct {
	Title  string
	Folder *bookmark.Node // nil for links
	Link   ops.LinkItem
}

// IsFolder reports whether the item is a folder.
func (i Item) IsFolder() bool { return i.Folder != nil }

type reloadedMsg struct {
	snap *session.Snapshot
	err  error
}

type copiedMsg struct {
	url string
	err error
}

// chrome is the number of lines drawn around the list.
const chrome = 7

// App is the bubbletea model for the bookmark browser.
type App struct {
	keys   KeyMap
	styles Styles
	help   help.Model
	search textinput.Model

	reload ReloadFunc
	copy   CopyFunc

	snap    *session.Snapshot
	state   nav.State
	display nav.Display
	items   []Item
	cursor  int
	offset  int

	searching bool
	loading   bool
	loadErr   error
	status    string

	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	// Snapshot is the initial snapshot. When nil the app starts by
	// calling Reload.
	Snapshot *session.Snapshot
	Reload   ReloadFunc
	Copy     CopyFunc // optional, uses the system clipboard if nil
	Keys     *KeyMap  // optional, uses default if nil
	Styles   *Styles  // optional, uses default if nil
}

// NewApp creates a new App with the given parameters.
func NewApp(params AppParams) App {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}
	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}
	cp := params.Copy
	if cp == nil {
		cp = clipboard.WriteAll
	}

	search := textinput.New()
	search.Placeholder = "Search bookmarks"
	search.Prompt = "/ "
	search.CharLimit = 200
	search.Width = 40

	a := App{
		keys:   keys,
		styles: styles,
		help:   help.New(),
		search: search,
		reload: params.Reload,
		copy:   cp,
	}
	if params.Snapshot == nil {
		a.loading = true
		return a
	}
	a.setSnapshot(params.Snapshot)
	return a
}

// State returns the navigation state.
func (a App) State() nav.State { return a.state }

// Cursor returns the selected row.
func (a App) Cursor() int { return a.cursor }

// Items returns the rows currently listed.
func (a App) Items() []Item { return a.items }

// Status returns the status line text.
func (a App) Status() string { return a.status }

// Loading reports whether a load is in flight.
func (a App) Loading() bool { return a.loading }

// Searching reports whether the search input has focus.
func (a App) Searching() bool { return a.searching }

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	if a.loading {
		return a.reloadCmd()
	}
	return nil
}

func (a App) reloadCmd() tea.Cmd {
	reload := a.reload
	return func() tea.Msg {
		if reload == nil {
			return reloadedMsg{err: errors.NewNotReady("no loader")}
		}
		snap, err := reload(context.Background())
		return reloadedMsg{snap: snap, err: err}
	}
}

func (a App) copyCmd(url string) tea.Cmd {
	cp := a.copy
	return func() tea.Msg {
		return copiedMsg{url: url, err: cp(url)}
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.clampScroll()
		return a, nil

	case reloadedMsg:
		a.loading = false
		if msg.err != nil {
			a.loadErr = msg.err
			a.status = ""
			return a, nil
		}
		a.loadErr = nil
		a.setSnapshot(msg.snap)
		a.status = fmt.Sprintf("Loaded %s links", humanize.Comma(int64(msg.snap.Stats.Links)))
		return a, nil

	case copiedMsg:
		if msg.err != nil {
			a.status = "Could not copy to clipboard: " + msg.err.Error()
		} else {
			a.status = "Copied " + msg.url
		}
		return a, nil

	case tea.KeyMsg:
		if a.searching {
			return a.updateSearch(msg)
		}
		return a.updateNormal(msg)
	}
	return a, nil
}

func (a App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.ClearSearch):
		a.searching = false
		a.search.Blur()
		a.search.SetValue("")
		a.apply(nav.SearchAction{Query: ""})
		return a, nil
	case msg.Type == tea.KeyEnter:
		a.searching = false
		a.search.Blur()
		return a, nil
	case msg.Type == tea.KeyCtrlC:
		return a, tea.Quit
	}

	var cmd tea.Cmd
	before := a.search.Value()
	a.search, cmd = a.search.Update(msg)
	if v := a.search.Value(); v != before {
		a.apply(nav.SearchAction{Query: v})
	}
	return a, cmd
}

func (a App) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
		return a, nil
	case key.Matches(msg, a.keys.Reload):
		if a.loading {
			return a, nil
		}
		a.loading = true
		a.status = "Reloading..."
		return a, a.reloadCmd()
	}

	// Everything else needs a loaded snapshot.
	if a.snap == nil || a.loading {
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
		a.clampScroll()
	case key.Matches(msg, a.keys.Down):
		if a.cursor < len(a.items)-1 {
			a.cursor++
		}
		a.clampScroll()
	case key.Matches(msg, a.keys.Open):
		a.open()
	case key.Matches(msg, a.keys.Back):
		a.back()
	case key.Matches(msg, a.keys.NextCategory):
		a.cyclePrimary(1)
	case key.Matches(msg, a.keys.PrevCategory):
		a.cyclePrimary(-1)
	case key.Matches(msg, a.keys.Home):
		a.apply(nav.GoHomeAction{})
		a.search.SetValue("")
	case key.Matches(msg, a.keys.Search):
		a.searching = true
		a.search.SetValue(a.state.Query)
		a.search.CursorEnd()
		return a, a.search.Focus()
	case key.Matches(msg, a.keys.ClearSearch):
		if a.state.Searching() {
			a.search.SetValue("")
			a.apply(nav.SearchAction{Query: ""})
		}
	case key.Matches(msg, a.keys.Copy):
		if item, ok := a.selected(); ok && !item.IsFolder() {
			return a, a.copyCmd(item.Link.URL)
		}
	}
	return a, nil
}

func (a *App) setSnapshot(snap *session.Snapshot) {
	a.snap = snap
	a.state = nav.Initial(snap.Hierarchy)
	a.search.SetValue("")
	a.searching = false
	a.search.Blur()
	a.refresh()
}

// apply runs a through the navigation reducer. A lookup miss keeps the
// state and reports on the status line.
func (a *App) apply(action nav.Action) {
	next, err := nav.Reduce(a.state, a.snap.Hierarchy, action)
	if err != nil {
		a.status = errors.As(err).Message
		return
	}
	a.status = ""
	a.state = next
	a.refresh()
}

// refresh rebuilds the rows from the current state.
func (a *App) refresh() {
	a.display = nav.View(a.state, a.snap.Hierarchy, a.snap.Index)
	a.items = nil
	if a.display.Searching {
		for _, r := range a.display.Results {
			a.items = append(a.items, Item{Title: r.Title, Link: ops.LinkItemFromResource(r)})
		}
	} else {
		for _, f := range a.display.Folders {
			a.items = append(a.items, Item{Title: f.Title, Folder: f})
		}
		for _, l := range a.display.Links {
			a.items = append(a.items, Item{Title: l.Title, Link: ops.LinkItemFromNode(l)})
		}
	}
	a.cursor = 0
	a.offset = 0
}

func (a App) selected() (Item, bool) {
	if a.cursor < 0 || a.cursor >= len(a.items) {
		return Item{}, false
	}
	return a.items[a.cursor], true
}

func (a *App) open() {
	item, ok := a.selected()
	if !ok {
		return
	}
	if !item.IsFolder() {
		a.status = item.Link.URL
		return
	}
	if a.state.Phase() == nav.PhaseTertiary {
		a.status = "Deepest category reached"
		return
	}
	a.apply(nav.OpenAction{Folder: item.Folder})
}

func (a *App) back() {
	if a.state.Secondary == nil {
		return
	}
	a.apply(nav.BackAction{})
}

func (a *App) cyclePrimary(delta int) {
	a.apply(nav.CyclePrimaryAction{Delta: delta})
}

func (a App) listHeight() int {
	if a.height <= chrome {
		return 0
	}
	return a.height - chrome
}

func (a *App) clampScroll() {
	h := a.listHeight()
	if h == 0 {
		a.offset = 0
		return
	}
	if a.cursor < a.offset {
		a.offset = a.cursor
	}
	if a.cursor >= a.offset+h {
		a.offset = a.cursor - h + 1
	}
}

// View implements tea.Model.
func (a App) View() string {
	s := a.styles
	var b strings.Builder

	b.WriteString(s.Brand.Render("pintree"))
	b.WriteString("\n")

	switch {
	case a.loadErr != nil:
		b.WriteString(s.Error.Render("Load failed: " + errors.As(a.loadErr).Message))
		b.WriteString("\n")
		b.WriteString(s.Muted.Render("Press r to retry."))
		b.WriteString("\n\n")
		b.WriteString(a.help.View(a.keys))
		return s.App.Render(b.String())
	case a.snap == nil:
		b.WriteString(s.Muted.Render("Loading bookmarks..."))
		b.WriteString("\n")
		return s.App.Render(b.String())
	}

	b.WriteString(a.viewTabs())
	b.WriteString("\n")
	if a.searching || a.state.Searching() {
		b.WriteString(a.search.View())
	} else {
		crumbs := a.display.Breadcrumbs
		if len(crumbs) == 0 {
			crumbs = []string{"Home"}
		}
		b.WriteString(s.Breadcrumb.Render(strings.Join(crumbs, " › ")))
	}
	b.WriteString("\n\n")
	b.WriteString(a.viewList())
	b.WriteString("\n")
	if a.status != "" {
		b.WriteString(s.Status.Render(a.status))
	}
	b.WriteString("\n")
	b.WriteString(a.help.View(a.keys))
	return s.App.Render(b.String())
}

func (a App) viewTabs() string {
	var tabs []string
	for _, title := range a.display.Primaries {
		if a.state.Primary != nil && a.state.Primary.Title == title {
			tabs = append(tabs, a.styles.ActiveTab.Render(title))
		} else {
			tabs = append(tabs, a.styles.Tab.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (a App) viewList() string {
	s := a.styles
	if len(a.items) == 0 {
		if a.display.Searching {
			return s.Muted.Render(fmt.Sprintf("No bookmarks match %q", strings.TrimSpace(a.display.Query)))
		}
		return s.Muted.Render("This category is empty")
	}

	end := len(a.items)
	if h := a.listHeight(); h > 0 && a.offset+h < end {
		end = a.offset + h
	}

	var lines []string
	for i := a.offset; i < end; i++ {
		item := a.items[i]
		var line string
		if item.IsFolder() {
			st := bookmark.Analyze(item.Folder.Children)
			line = s.Folder.Render("▸ "+item.Title) + s.Muted.Render(fmt.Sprintf("  %s", plural(st.Links, "link")))
		} else {
			line = a.viewLink(item.Link)
		}
		if i == a.cursor {
			line = s.Selected.Render("> ") + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	switch {
	case a.display.Searching:
		lines = append(lines, s.Muted.Render(plural(len(a.items), "result")))
	case a.display.Empty:
		lines = append(lines, s.Muted.Render("No links in this category"))
	}
	return strings.Join(lines, "\n")
}

func (a App) viewLink(l ops.LinkItem) string {
	s := a.styles
	line := s.Link.Render(l.Emoji + " " + l.Title)
	var meta []string
	if l.Host != "" {
		meta = append(meta, l.Host)
	}
	if l.Category != "" {
		meta = append(meta, l.Category)
	}
	if l.AddedAt != nil {
		meta = append(meta, humanize.Time(*l.AddedAt))
	}
	if len(meta) > 0 {
		line += s.Muted.Render("  " + strings.Join(meta, " · "))
	}
	return line
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return humanize.Comma(int64(n)) + " " + noun + "s"
}

// Run starts the browser on the alternate screen and blocks until it exits.
func Run(params AppParams) error {
	_, err := tea.NewProgram(NewApp(params), tea.WithAltScreen()).Run()
	return err
}
