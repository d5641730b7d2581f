package listview

import (
	"fmt"
	"image/color"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/key"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
	"github.com/robinovitch61/itemview/internal/constants"
	"github.com/robinovitch61/itemview/internal/dev"
	"github.com/robinovitch61/itemview/internal/itemview"
	"github.com/robinovitch61/itemview/internal/message"
	"github.com/robinovitch61/itemview/internal/model"
	"github.com/robinovitch61/itemview/internal/util"
)

// Terminology:
// - row: a record's visual, one or more terminal lines
// - line: a row of terminal cells in the list
// - window: the rows the view keeps materialized, a superset of what is on screen
//
// The view lays rows out in line units, so a row's position is the terminal line it starts on.

const continuationIndicator = "..."

type Styles struct {
	Current   lipgloss.Style
	Highlight lipgloss.Style
	Section   lipgloss.Style
	Banner    lipgloss.Style
	Removing  lipgloss.Style
	Footer    lipgloss.Style

	// SectionColor, if set, colors each section header by its name
	SectionColor func(section string) color.Color
}

// Banner is a fixed single line visual used for the list header and footer
type Banner struct {
	Text string
}

func (b *Banner) Size() float64 {
	return 1
}

// highlightBar is the visual the view moves behind the current row
type highlightBar struct{}

func (*highlightBar) Size() float64 {
	return 1
}

// Model is a list of rows materialized on demand by an itemview.View
type Model struct {
	KeyMap KeyMap
	Styles Styles

	list    *model.ListModel
	view    *itemview.View
	surface *itemview.ScrollSurface

	// width is the width of the list in terminal columns
	width int

	// height is the height of the list in lines, status line included
	height int

	// statusEnabled is true if the last line shows the position in the list
	statusEnabled bool

	frameScheduled bool
}

// New creates a list over list sized width by height. opts configure the underlying view.
func New(list *model.ListModel, width, height int, keyMap KeyMap, statusEnabled bool, opts ...itemview.Option) *Model {
	m := &Model{
		KeyMap:        keyMap,
		list:          list,
		width:         width,
		height:        height,
		statusEnabled: statusEnabled,
	}
	m.surface = itemview.NewScrollSurface(float64(m.contentHeight()))
	m.view = itemview.New(list, m.surface, opts...)
	m.polish()
	return m
}

// WithHighlightBar gives the view a highlight that follows the current row, animated over d
func WithHighlightBar(d time.Duration) []itemview.Option {
	return []itemview.Option{
		itemview.WithHighlight(func() itemview.Visual { return &highlightBar{} }),
		itemview.WithHighlightMoveDuration(d),
	}
}

// Update processes messages and returns the command for any follow-up work
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	dev.DebugUpdateMsg("ListView", msg)

	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		m.handleKey(msg)

	case message.ItemReadyMsg:
		m.list.Complete(msg)

	case message.FrameMsg:
		m.frameScheduled = false
		m.view.Advance(constants.FrameInterval)
	}
	return m.afterUpdate()
}

func (m *Model) handleKey(msg tea.KeyPressMsg) {
	page := max(1, m.contentHeight())
	switch {
	case key.Matches(msg, m.KeyMap.Up):
		m.view.DecrementCurrentIndex()

	case key.Matches(msg, m.KeyMap.Down):
		m.view.IncrementCurrentIndex()

	case key.Matches(msg, m.KeyMap.PageUp):
		m.moveCurrentByLines(-page)

	case key.Matches(msg, m.KeyMap.PageDown):
		m.moveCurrentByLines(page)

	case key.Matches(msg, m.KeyMap.HalfPageUp):
		m.moveCurrentByLines(-max(1, page/2))

	case key.Matches(msg, m.KeyMap.HalfPageDown):
		m.moveCurrentByLines(max(1, page/2))

	case key.Matches(msg, m.KeyMap.ScrollUp):
		m.view.ScrollBy(-1)

	case key.Matches(msg, m.KeyMap.ScrollDown):
		m.view.ScrollBy(1)

	case key.Matches(msg, m.KeyMap.Top):
		if m.view.Count() > 0 {
			m.view.SetCurrentIndex(0)
		}
		m.view.PositionViewAtBeginning()

	case key.Matches(msg, m.KeyMap.Bottom):
		if m.view.Count() > 0 {
			m.view.SetCurrentIndex(m.view.Count() - 1)
		}
		m.view.PositionViewAtEnd()

	case key.Matches(msg, m.KeyMap.Center):
		if c := m.view.CurrentIndex(); c >= 0 {
			m.view.PositionViewAtIndex(c, itemview.Center)
		}
	}
}

// moveCurrentByLines scrolls by lines and makes the row at the same screen line current
func (m *Model) moveCurrentByLines(lines int) {
	current := m.view.CurrentItem()
	if current == nil {
		m.view.ScrollBy(float64(lines))
		return
	}
	screen := m.view.ScreenPosition(current)
	m.view.ScrollBy(float64(lines))
	index := m.view.IndexAt(screen)
	if index == -1 {
		if lines > 0 {
			index = m.view.Count() - 1
		} else {
			index = 0
		}
	}
	if index == m.view.CurrentIndex() {
		index = max(0, min(m.view.Count()-1, index+sign(lines)))
	}
	m.view.SetCurrentIndex(index)
}

// afterUpdate settles pending view work and schedules what is still outstanding
func (m *Model) afterUpdate() tea.Cmd {
	m.polish()
	var cmds []tea.Cmd
	if cmd := m.list.Requests(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if m.view.IsAnimating() && !m.frameScheduled {
		m.frameScheduled = true
		cmds = append(cmds, tea.Tick(constants.FrameInterval, func(time.Time) tea.Msg { return message.FrameMsg{} }))
	}
	return tea.Batch(cmds...)
}

func (m *Model) polish() {
	for i := 0; i < 10 && m.view.NeedsPolish(); i++ {
		m.view.UpdatePolish()
	}
}

// View renders the list
func (m *Model) View() string {
	lines := make([]line, max(0, m.contentHeight()))
	highlight := m.view.HighlightItem()

	if h := m.view.HeaderItem(); h != nil {
		m.drawBanner(lines, h, m.Styles.Banner)
	}
	for _, item := range m.view.VisibleItems() {
		m.drawItem(lines, item, highlight == nil)
	}
	for _, item := range m.view.ReleasePendingItems() {
		m.drawItem(lines, item, false)
	}
	if f := m.view.FooterItem(); f != nil {
		m.drawBanner(lines, f, m.Styles.Banner)
	}
	if highlight != nil && m.view.CurrentItem() != nil {
		top := screenLine(m.view.ScreenPosition(highlight))
		for i := range int(math.Round(highlight.Size())) {
			if r := top + i; r >= 0 && r < len(lines) {
				lines[r].style = m.Styles.Highlight
				lines[r].fill = true
			}
		}
	}

	rendered := make([]string, 0, len(lines)+1)
	for _, l := range lines {
		rendered = append(rendered, m.renderLine(l))
	}
	if m.statusEnabled && m.height > 0 {
		rendered = append(rendered, m.statusLine())
	}
	return lipgloss.NewStyle().Width(m.width).Height(m.height).Render(strings.Join(rendered, "\n"))
}

type line struct {
	text  string
	style lipgloss.Style
	fill  bool
}

func (m *Model) drawItem(lines []line, item *itemview.ViewItem, styleCurrent bool) {
	row, ok := item.Visual().(*model.Row)
	if !ok {
		return
	}
	var block []line
	for _, text := range row.Lines() {
		l := line{text: text}
		switch {
		case item.IsPendingRemoval():
			l.style = m.Styles.Removing
		case styleCurrent && row.IsCurrent():
			l.style = m.Styles.Current
			l.fill = true
		}
		block = append(block, l)
	}
	if n := int(math.Round(item.SectionSize())); n > 0 {
		section := make([]line, n)
		style := m.Styles.Section
		if m.Styles.SectionColor != nil {
			style = style.Foreground(m.Styles.SectionColor(row.Section()))
		}
		section[0] = line{text: row.Section(), style: style}
		if m.view.IsReversed() {
			block = append(block, section...)
		} else {
			block = append(section, block...)
		}
	}
	top := screenLine(m.view.ScreenPosition(item))
	for i, l := range block {
		if r := top + i; r >= 0 && r < len(lines) {
			lines[r] = l
		}
	}
}

func (m *Model) drawBanner(lines []line, item *itemview.ViewItem, style lipgloss.Style) {
	b, ok := item.Visual().(*Banner)
	if !ok {
		return
	}
	if r := screenLine(m.view.ScreenPosition(item)); r >= 0 && r < len(lines) {
		lines[r] = line{text: b.Text, style: style}
	}
}

func (m *Model) renderLine(l line) string {
	text := m.fit(l.text)
	if l.fill {
		text = runewidth.FillRight(text, m.width)
	}
	return util.RestyleAround(text, l.style)
}

func (m *Model) statusLine() string {
	count := m.view.Count()
	if count == 0 {
		return ""
	}
	current := m.view.CurrentIndex() + 1
	status := fmt.Sprintf("%d%% (%d/%d)", percent(current, count), current, count)
	if section := m.view.CurrentSection(); section != "" {
		status = section + "  " + status
	}
	return m.Styles.Footer.Render(m.fit(status))
}

// fit truncates s to the list width, marking truncated text with the continuation indicator
func (m *Model) fit(s string) string {
	if runewidth.StringWidth(s) <= m.width {
		return s
	}
	return truncate.StringWithTail(s, uint(max(0, m.width)), continuationIndicator)
}

// SetWidthAndHeight resizes the list, rewrapping rows to the new width
func (m *Model) SetWidthAndHeight(width, height int) {
	if width != m.width {
		m.width = width
		m.geometryChanged(m.list.SetWidth(width))
	}
	m.height = height
	m.surface.SetSize(float64(m.contentHeight()))
	m.polish()
}

// ToggleWrap switches between wrapped rows and single line rows
func (m *Model) ToggleWrap() {
	m.geometryChanged(m.list.SetWrap(!m.list.Wrap()))
	m.polish()
}

func (m *Model) geometryChanged(rows []itemview.Visual) {
	for _, row := range rows {
		m.view.ItemGeometryChanged(row)
	}
}

// InsertAboveCurrent inserts a record before the current row, or at the start of an empty list
func (m *Model) InsertAboveCurrent(text string) error {
	return m.list.Insert(max(0, m.view.CurrentIndex()), text)
}

func (m *Model) Append(text string) error {
	return m.list.Append(text)
}

// RemoveCurrent removes the current row's record
func (m *Model) RemoveCurrent() error {
	c := m.view.CurrentIndex()
	if c < 0 {
		return nil
	}
	return m.list.Remove(c, 1)
}

// MoveCurrent moves the current row's record by delta, keeping it current
func (m *Model) MoveCurrent(delta int) error {
	c := m.view.CurrentIndex()
	to := c + delta
	if c < 0 || to < 0 || to >= m.list.Count() {
		return nil
	}
	return m.list.Move(c, to, 1)
}

func (m *Model) Reset(texts []string) {
	m.list.Reset(texts)
}

// CurrentText returns the text of the current row
func (m *Model) CurrentText() (string, bool) {
	c := m.view.CurrentIndex()
	if c < 0 {
		return "", false
	}
	rec, ok := m.list.Record(c)
	return rec.Text, ok
}

func (m *Model) CurrentIndex() int {
	return m.view.CurrentIndex()
}

func (m *Model) Count() int {
	return m.view.Count()
}

func (m *Model) ScrollPosition() float64 {
	return m.surface.Position()
}

// Settle applies pending changes and returns the command for the work they started
func (m *Model) Settle() tea.Cmd {
	return m.afterUpdate()
}

func (m *Model) contentHeight() int {
	if m.statusEnabled {
		return max(0, m.height-1)
	}
	return m.height
}

func screenLine(pos float64) int {
	return int(math.Floor(pos + 0.5))
}

func percent(a, b int) int {
	return int(float32(a) / float32(b) * 100)
}

func sign(n int) int {
	if n < 0 {
		return -1
	}
	return 1
}
