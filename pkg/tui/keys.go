package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the prompt key bindings.
type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Choose key.Binding
	Toggle key.Binding
	All    key.Binding
	Abort  key.Binding
}

// listKeys apply to select and multiselect prompts.
var listKeys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k", "ctrl+p"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j", "ctrl+n"),
		key.WithHelp("↓/j", "down"),
	),
	Choose: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "choose"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "x"),
		key.WithHelp("space", "toggle"),
	),
	All: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "all"),
	),
	Abort: key.NewBinding(
		key.WithKeys("esc", "ctrl+c", "q"),
		key.WithHelp("esc", "abort"),
	),
}

// searchKeys leave printable keys to the filter input.
var searchKeys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+n", "tab"),
		key.WithHelp("↓", "down"),
	),
	Choose: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "choose"),
	),
	Abort: key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("esc", "abort"),
	),
}

func hint(k key.Binding) string {
	h := k.Help()
	return keyStyle.Render(h.Key) + keyDescStyle.Render(":"+h.Desc)
}

// keyBarText renders the key hints for a prompt style.
func keyBarText(multi, search bool) string {
	switch {
	case search:
		return hint(searchKeys.Up) + "  " + hint(searchKeys.Down) + "  " +
			hint(searchKeys.Choose) + "  " + hint(searchKeys.Abort)
	case multi:
		return hint(listKeys.Up) + "  " + hint(listKeys.Down) + "  " +
			hint(listKeys.Toggle) + "  " + hint(listKeys.All) + "  " +
			hint(listKeys.Choose) + "  " + hint(listKeys.Abort)
	}
	return hint(listKeys.Up) + "  " + hint(listKeys.Down) + "  " +
		keyStyle.Render("1-9") + keyDescStyle.Render(":quick") + "  " +
		hint(listKeys.Choose) + "  " + hint(listKeys.Abort)
}
