package help

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/v2/key"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/robinovitch61/itemview/internal/keymap"
)

const (
	maxGroupRows = 6
	groupGap     = "    "
)

var headingStyle = lipgloss.NewStyle().Bold(true)

// MakeHelp lays the key groups out side by side under a title. Each group is a heading over
// rows of key and description, continuing in a further column past maxGroupRows.
func MakeHelp(keyMap keymap.KeyMap, keyStyle lipgloss.Style) string {
	title := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2).Render("Help (press any key to hide)")

	var blocks []string
	for _, g := range keymap.HelpGroups(keyMap) {
		if block := renderGroup(g, maxGroupRows, keyStyle); block != "" {
			blocks = append(blocks, block)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Center, title, "", lipgloss.JoinHorizontal(lipgloss.Top, spaced(blocks, groupGap)...))
}

func renderGroup(g keymap.Group, maxRows int, keyStyle lipgloss.Style) string {
	bindings := slices.DeleteFunc(slices.Clone(g.Bindings), func(b key.Binding) bool {
		return b.Help().Key == "" && b.Help().Desc == ""
	})
	if len(bindings) == 0 {
		return ""
	}
	var cols []string
	for chunk := range slices.Chunk(bindings, max(1, maxRows)) {
		cols = append(cols, renderRows(chunk, keyStyle))
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, spaced(cols, "  ")...)
	return lipgloss.JoinVertical(lipgloss.Left, headingStyle.Render(g.Title), body)
}

// renderRows left-aligns the keys of bindings in a styled column wide enough for the longest
func renderRows(bindings []key.Binding, keyStyle lipgloss.Style) string {
	keyWidth := 0
	for _, b := range bindings {
		keyWidth = max(keyWidth, lipgloss.Width(b.Help().Key))
	}
	rows := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		padded := " " + h.Key + strings.Repeat(" ", keyWidth-lipgloss.Width(h.Key)) + " "
		rows = append(rows, keyStyle.Render(padded)+" "+h.Desc)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func spaced(parts []string, gap string) []string {
	res := make([]string, 0, 2*len(parts))
	for i, p := range parts {
		if i > 0 {
			res = append(res, gap)
		}
		res = append(res, p)
	}
	return res
}
