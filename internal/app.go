package internal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/key"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/wrap"
	"github.com/robinovitch61/itemview/internal/color"
	"github.com/robinovitch61/itemview/internal/command"
	"github.com/robinovitch61/itemview/internal/constants"
	"github.com/robinovitch61/itemview/internal/dev"
	"github.com/robinovitch61/itemview/internal/fixtures"
	"github.com/robinovitch61/itemview/internal/help"
	"github.com/robinovitch61/itemview/internal/itemview"
	"github.com/robinovitch61/itemview/internal/keymap"
	"github.com/robinovitch61/itemview/internal/listview"
	"github.com/robinovitch61/itemview/internal/message"
	"github.com/robinovitch61/itemview/internal/model"
	"github.com/robinovitch61/itemview/internal/style"
	"github.com/robinovitch61/itemview/internal/toast"
	"github.com/robinovitch61/itemview/internal/util"
)

type Model struct {
	config        Config
	keyMap        keymap.KeyMap
	styles        style.Styles
	width, height int
	initialized   bool
	list          *model.ListModel
	listView      *listview.Model
	toast         toast.Model
	err           error
	helpText      string
	topBarHeight  int // assumed constant

	// nextText numbers the generated text of the next inserted record
	nextText int
}

func InitialModel(c Config) Model {
	return Model{
		config:       c,
		keyMap:       c.KeyMap,
		styles:       style.DefaultStyles(),
		topBarHeight: 1,
		err:          c.validate(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.RequestBackgroundColor
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	dev.DebugUpdateMsg("App", msg)
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return m.handleKeyMsg(msg)

	case message.ErrMsg:
		m.err = msg.Err
		return m, nil

	case tea.BackgroundColorMsg:
		m.styles = style.NewStyles(msg.Color)
		if m.initialized {
			m.listView.Styles = m.listStyles()
		}
		return m, nil

	// WindowSizeMsg arrives once on startup, then again every time the window is resized
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if !m.initialized {
			m = m.initialize()
		}
		m.listView.SetWidthAndHeight(m.width, m.contentHeight())
		return m, m.listView.Settle()

	case command.ContentCopiedToClipboardMsg:
		if msg.Err != nil {
			return m.withToast(fmt.Sprintf("Error copying to clipboard: %s", msg.Err.Error()), m.styles.Error)
		}
		return m.withToast("Copied to clipboard", m.styles.Toast)

	case toast.TimeoutMsg:
		m.toast, cmd = m.toast.Update(msg)
		return m, cmd
	}

	// item completions and animation frames
	if m.initialized {
		cmds = append(cmds, m.listView.Update(msg))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.err != nil {
		errString := wrap.String(m.err.Error(), m.width)
		return lipgloss.JoinVertical(
			lipgloss.Left,
			"Error",
			"",
			fmt.Sprintf("%s to quit", m.keyMap.Quit.Help().Key),
			"",
			errString,
		)
	}
	if !m.initialized {
		return ""
	}
	topBar := m.topBar()
	if m.helpText != "" {
		centeredHelp := lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center, m.helpText)
		return lipgloss.JoinVertical(lipgloss.Left, topBar, centeredHelp)
	}
	viewLines := strings.Split(topBar, "\n")
	viewLines = append(viewLines, strings.Split(m.listView.View(), "\n")...)
	if toastHeight := m.toast.ViewHeight(); m.toast.Visible && toastHeight > 0 && toastHeight < len(viewLines) {
		viewLines = viewLines[:len(viewLines)-toastHeight]
		viewLines = append(viewLines, strings.Split(m.toast.View(), "\n")...)
	}
	return strings.Join(viewLines, "\n")
}

func (m Model) topBar() string {
	padding := "   "

	wrapText := "wrap off"
	if m.list.Wrap() {
		wrapText = "wrap on"
	}
	left := fmt.Sprintf("itemview %s%s%d rows%s%s", m.config.Version, padding, m.listView.Count(), padding, wrapText)
	if n := m.list.Pending(); n > 0 {
		left += fmt.Sprintf("%s%d loading", padding, n)
	}

	right := fmt.Sprintf("%s to quit / %s for help", m.keyMap.Quit.Help().Key, m.keyMap.Help.Help().Key)
	toJoin := []string{left}
	if len(left)+len(padding)+len(right) < m.width {
		toJoin = append(toJoin, right)
	} else {
		toJoin = append(toJoin, strings.Repeat(" ", len(right)))
	}
	return m.styles.TopBar.Render(util.SpreadAcross(m.width, toJoin...))
}

func (m Model) initialize() Model {
	dev.Debug("initializing", "count", m.config.Count, "async", m.config.Async)
	defer dev.Debug("done initializing")

	listOpts := []model.Option{model.WithWrap(m.config.Wrap)}
	if m.config.Async {
		listOpts = append(listOpts, model.WithAsync(m.config.AsyncDelay))
	}
	m.list = model.New(m.width, fixtures.Texts(m.config.Count), listOpts...)
	m.nextText = m.config.Count
	m.listView = listview.New(m.list, m.width, m.contentHeight(), listview.DefaultKeyMap(), true, m.viewOptions()...)
	m.listView.Styles = m.listStyles()
	m.initialized = true
	return m
}

func (m Model) viewOptions() []itemview.Option {
	c := m.config
	opts := []itemview.Option{
		itemview.WithCacheBuffer(float64(c.CacheBuffer)),
		itemview.WithSpacing(float64(c.Spacing)),
		itemview.WithSignals(itemview.Signals{
			CountChanged: func(count int) { dev.Debug("count changed", "count", count) },
			CurrentSectionChanged: func(section string) {
				dev.Debug("section changed", "section", section)
			},
		}),
	}
	if c.RangeMode != itemview.NoHighlightRange {
		opts = append(opts, itemview.WithHighlightRange(c.RangeMode, float64(c.RangeStart), float64(c.RangeEnd)))
	}
	if c.AnimateHighlight {
		opts = append(opts, listview.WithHighlightBar(constants.HighlightMoveDuration)...)
	}
	if c.Header != "" {
		opts = append(opts, itemview.WithHeader(&listview.Banner{Text: c.Header}))
	}
	if c.Footer != "" {
		opts = append(opts, itemview.WithFooter(&listview.Banner{Text: c.Footer}))
	}
	if c.Sections {
		opts = append(opts, itemview.WithSections(m.list.InitialSection, constants.SectionHeaderRows))
	}
	if c.Transitions {
		d := constants.DefaultTransitionDuration
		opts = append(opts, itemview.WithTransitions(&itemview.Transitions{
			Add:       &itemview.Transition{Duration: d, Offset: -1, Easing: itemview.OutQuad},
			Remove:    &itemview.Transition{Duration: d},
			Displaced: &itemview.Transition{Duration: d, Easing: itemview.OutQuad},
		}))
	}
	if c.Reversed {
		opts = append(opts, itemview.WithReversedFlow())
	}
	if c.KeyNavigationWraps {
		opts = append(opts, itemview.WithKeyNavigationWraps())
	}
	return opts
}

func (m Model) listStyles() listview.Styles {
	return listview.Styles{
		Current:      m.styles.CurrentRow,
		Highlight:    m.styles.Highlight,
		Section:      m.styles.Section,
		Banner:       m.styles.Banner,
		Removing:     m.styles.Removing,
		Footer:       m.styles.Footer,
		SectionColor: color.SectionColor,
	}
}

func (m Model) contentHeight() int {
	return max(0, m.height-m.topBarHeight)
}

func (m Model) withToast(text string, s lipgloss.Style) (Model, tea.Cmd) {
	m.toast = toast.New(text, s)
	return m, m.toast.Timeout(constants.ToastTimeout)
}

func (m Model) handleKeyMsg(msg tea.KeyPressMsg) (Model, tea.Cmd) {
	dev.Debug("App keyMsg", "key", msg.String())

	if key.Matches(msg, m.keyMap.Quit) {
		return m, tea.Quit
	}

	// ignore key messages other than exit if an error is present
	if m.err != nil || !m.initialized {
		return m, nil
	}

	// if help text visible, pressing any key will dismiss it
	if m.helpText != "" {
		m.helpText = ""
		return m, nil
	}

	var err error
	switch {
	case key.Matches(msg, m.keyMap.Help):
		m.helpText = help.MakeHelp(m.keyMap, m.styles.KeyHelp)
		return m, nil

	case key.Matches(msg, m.keyMap.Copy):
		if text, ok := m.listView.CurrentText(); ok {
			return m, command.CopyContentToClipboardCmd(text)
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Wrap):
		m.listView.ToggleWrap()

	case key.Matches(msg, m.keyMap.Insert):
		err = m.listView.InsertAboveCurrent(fixtures.Text(m.nextText))
		m.nextText++

	case key.Matches(msg, m.keyMap.Append):
		err = m.listView.Append(fixtures.Text(m.nextText))
		m.nextText++

	case key.Matches(msg, m.keyMap.Delete):
		err = m.listView.RemoveCurrent()

	case key.Matches(msg, m.keyMap.MoveUp):
		err = m.listView.MoveCurrent(-1)

	case key.Matches(msg, m.keyMap.MoveDown):
		err = m.listView.MoveCurrent(1)

	case key.Matches(msg, m.keyMap.Reset):
		m.listView.Reset(fixtures.Texts(m.config.Count))
		m.nextText = m.config.Count

	default:
		return m, m.listView.Update(msg)
	}

	if err != nil {
		dev.Debug("list change failed", "err", err)
		var cmd tea.Cmd
		m, cmd = m.withToast(err.Error(), m.styles.Error)
		return m, tea.Batch(cmd, m.listView.Settle())
	}
	return m, m.listView.Settle()
}
