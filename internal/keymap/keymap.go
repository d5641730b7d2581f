package keymap

import (
	"github.com/charmbracelet/bubbles/v2/key"
	"github.com/robinovitch61/itemview/internal/listview"
)

type KeyMap struct {
	Append   key.Binding
	Copy     key.Binding
	Delete   key.Binding
	Help     key.Binding
	Insert   key.Binding
	MoveDown key.Binding
	MoveUp   key.Binding
	Quit     key.Binding
	Reset    key.Binding
	Wrap     key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Append: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "append a row"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c", "y"),
			key.WithHelp("c/y", "copy current row"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "remove current row"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "show/hide help"),
		),
		Insert: key.NewBinding(
			key.WithKeys("i", "insert"),
			key.WithHelp("i", "insert a row above"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("J", "shift+j", "shift+down"),
			key.WithHelp("J", "move row down"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("K", "shift+k", "shift+up"),
			key.WithHelp("K", "move row up"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Reset: key.NewBinding(
			key.WithKeys("R", "shift+r"),
			key.WithHelp("R", "reset the list"),
		),
		Wrap: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "toggle line wrap"),
		),
	}
}

func EditKeyBindings(km KeyMap) []key.Binding {
	return []key.Binding{
		km.Insert,
		km.Append,
		km.Delete,
		km.MoveUp,
		km.MoveDown,
		km.Reset,
	}
}

// NavigationKeyBindings are the list's own movement keys
func NavigationKeyBindings() []key.Binding {
	nav := listview.DefaultKeyMap()
	return []key.Binding{
		nav.Up,
		nav.Down,
		nav.PageUp,
		nav.PageDown,
		nav.HalfPageUp,
		nav.HalfPageDown,
		WithDesc(nav.ScrollUp, "scroll up a line"),
		WithDesc(nav.ScrollDown, "scroll down a line"),
		nav.Top,
		nav.Bottom,
		nav.Center,
	}
}

func GeneralKeyBindings(km KeyMap) []key.Binding {
	return []key.Binding{
		km.Wrap,
		km.Copy,
		km.Help,
		km.Quit,
	}
}

// Group is a titled set of bindings shown together on the help screen
type Group struct {
	Title    string
	Bindings []key.Binding
}

func HelpGroups(km KeyMap) []Group {
	return []Group{
		{Title: "Navigation", Bindings: NavigationKeyBindings()},
		{Title: "Editing", Bindings: EditKeyBindings(km)},
		{Title: "General", Bindings: GeneralKeyBindings(km)},
	}
}

func WithKeys(k key.Binding, keys string) key.Binding {
	newK := k
	newK.SetHelp(keys, k.Help().Desc)
	return newK
}

func WithDesc(k key.Binding, d string) key.Binding {
	newK := k
	newK.SetHelp(newK.Help().Key, d)
	return newK
}
