package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/antoKeinanen/novarum/pkg/interp"
)

// maxVisible caps how many options are drawn at once.
const maxVisible = 12

// choiceModel is the Bubble Tea model behind every prompt.
type choiceModel struct {
	req    interp.PromptRequest
	multi  bool
	search bool

	input    textinput.Model
	visible  []int // option indices after filtering
	cursor   int   // position within visible
	offset   int   // first visible row drawn
	selected map[int]bool

	chosen []int
	done   bool
	err    error

	width int
}

func newChoiceModel(req interp.PromptRequest, multi bool) choiceModel {
	m := choiceModel{
		req:      req,
		multi:    multi,
		search:   req.Kind == interp.PromptSearch,
		selected: make(map[int]bool),
		width:    80,
	}
	if m.search {
		ti := textinput.New()
		ti.Placeholder = "type to filter"
		ti.Prompt = "/ "
		ti.PromptStyle = keyStyle
		ti.CharLimit = 256
		ti.Focus()
		m.input = ti
	}
	m.visible = filterOptions("", req.Options)
	if req.Default > 0 && req.Default < len(req.Options) {
		m.cursor = req.Default
	}
	return m
}

func (m choiceModel) Init() tea.Cmd {
	if m.search {
		return textinput.Blink
	}
	return nil
}

func (m choiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if m.search {
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m choiceModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, listKeys.Abort):
		m.err = interp.ErrAborted
		return m, tea.Quit
	case key.Matches(msg, listKeys.Up):
		m.move(-1)
	case key.Matches(msg, listKeys.Down):
		m.move(1)
	case key.Matches(msg, listKeys.Choose):
		return m.choose()
	case m.multi && key.Matches(msg, listKeys.Toggle):
		if len(m.visible) > 0 {
			idx := m.visible[m.cursor]
			m.selected[idx] = !m.selected[idx]
		}
	case m.multi && key.Matches(msg, listKeys.All):
		all := len(m.selectedIndices()) < len(m.req.Options)
		for i := range m.req.Options {
			m.selected[i] = all
		}
	case !m.multi && msg.Type == tea.KeyRunes && len(msg.Runes) == 1 &&
		msg.Runes[0] >= '1' && msg.Runes[0] <= '9':
		idx := int(msg.Runes[0] - '1')
		if idx < len(m.visible) {
			m.cursor = idx
			return m.choose()
		}
	}
	return m, nil
}

func (m choiceModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, searchKeys.Abort):
		m.err = interp.ErrAborted
		return m, tea.Quit
	case key.Matches(msg, searchKeys.Up):
		m.move(-1)
		return m, nil
	case key.Matches(msg, searchKeys.Down):
		m.move(1)
		return m, nil
	case key.Matches(msg, searchKeys.Choose):
		return m.choose()
	}

	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if q := m.input.Value(); q != before {
		m.visible = filterOptions(q, m.req.Options)
		m.cursor, m.offset = 0, 0
	}
	return m, cmd
}

func (m *choiceModel) move(delta int) {
	if len(m.visible) == 0 {
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+maxVisible {
		m.offset = m.cursor - maxVisible + 1
	}
}

func (m choiceModel) choose() (tea.Model, tea.Cmd) {
	if m.multi {
		m.chosen = m.selectedIndices()
		m.done = true
		return m, tea.Quit
	}
	if len(m.visible) == 0 {
		return m, nil
	}
	m.chosen = []int{m.visible[m.cursor]}
	m.done = true
	return m, tea.Quit
}

func (m choiceModel) selectedIndices() []int {
	out := []int{}
	for idx, on := range m.selected {
		if on {
			out = append(out, idx)
		}
	}
	sort.Ints(out)
	return out
}

func (m choiceModel) View() string {
	if m.done || m.err != nil {
		return ""
	}
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.req.Message))
	b.WriteString(" ")
	b.WriteString(nameBadgeStyle.Render(m.req.Name))
	b.WriteString("\n")

	if m.search {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	if len(m.visible) == 0 {
		b.WriteString(errorStyle.Render(GlyphNoMatches + " no matches"))
		b.WriteString("\n")
	}

	end := m.offset + maxVisible
	if end > len(m.visible) {
		end = len(m.visible)
	}
	labelW := m.width - 8
	if labelW < 20 {
		labelW = 20
	}
	for row := m.offset; row < end; row++ {
		b.WriteString(m.renderOption(row, labelW))
		b.WriteString("\n")
	}
	if end < len(m.visible) {
		b.WriteString(keyDescStyle.Render(fmt.Sprintf("  %s %d more", GlyphEllipsis, len(m.visible)-end)))
		b.WriteString("\n")
	}

	b.WriteString(keyBarText(m.multi, m.search))
	b.WriteString("\n")
	return b.String()
}

func (m choiceModel) renderOption(row, labelW int) string {
	idx := m.visible[row]
	label := runewidth.Truncate(m.req.Options[idx], labelW, GlyphEllipsis)
	current := row == m.cursor

	prefix := "  "
	if current {
		prefix = GlyphCursor + " "
	}
	if m.multi {
		mark := GlyphUnchecked
		if m.selected[idx] {
			mark = optionChecked.Render(GlyphChecked)
		}
		prefix += mark + " "
	} else if !m.search && row < 9 {
		prefix += keyStyle.Render(fmt.Sprintf("%d.", row+1)) + " "
	}

	switch {
	case current:
		return prefix + optionCurrent.Render(label)
	case m.search && m.input.Value() != "":
		return prefix + optionMatch.Render(label)
	}
	return prefix + optionNormal.Render(label)
}
