package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	search   key.Binding
	trending key.Binding
	save     key.Binding
	advance  key.Binding
	complete key.Binding
	reset    key.Binding
	open     key.Binding
	tab      key.Binding
	reload   key.Binding
	submit   key.Binding
	cancel   key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		trending: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "trending")),
		save:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save/unsave")),
		advance:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "advance")),
		complete: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "toggle done")),
		reset:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "reset")),
		open:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
		tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch view")),
		reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search")),
		cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.tab, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.tab},
		{k.search, k.trending, k.save, k.open},
		{k.advance, k.complete, k.reset},
		{k.reload, k.quit},
	}
}

// catalogKeys are shown under the catalog list.
func (k keyMap) catalogKeys() []key.Binding {
	return []key.Binding{k.search, k.trending, k.save, k.advance, k.complete, k.reset, k.open, k.tab, k.quit}
}

// libraryKeys are shown under the library list.
func (k keyMap) libraryKeys() []key.Binding {
	return []key.Binding{k.advance, k.complete, k.reset, k.save, k.open, k.reload, k.tab, k.quit}
}

// searchKeys are shown while the search box has focus.
func (k keyMap) searchKeys() []key.Binding {
	return []key.Binding{k.submit, k.cancel}
}
