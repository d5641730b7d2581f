package util

import (
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/muesli/reflow/truncate"
)

// styledSpan matches text wrapped in an SGR sequence and its reset
var styledSpan = regexp.MustCompile(`\x1b\[[0-9;]*m.*?\x1b\[0?m`)

// SpreadAcross places parts across width, left to right, with the spare columns shared between the
// gaps and the leftmost gaps taking any remainder. Parts that do not fit are cut at width.
func SpreadAcross(width int, parts ...string) string {
	if width <= 0 || len(parts) == 0 {
		return ""
	}
	used := 0
	for _, p := range parts {
		used += lipgloss.Width(p)
	}
	if used > width {
		return truncate.String(strings.Join(parts, ""), uint(width))
	}
	if len(parts) == 1 {
		return parts[0]
	}

	gaps := len(parts) - 1
	spare := width - used
	var b strings.Builder
	for i, p := range parts {
		b.WriteString(p)
		if i == gaps {
			break
		}
		n := spare / gaps
		if i < spare%gaps {
			n++
		}
		b.WriteString(strings.Repeat(" ", n))
	}
	return b.String()
}

// RestyleAround renders the unstyled runs of s with st and leaves spans that already carry their
// own styling untouched
func RestyleAround(s string, st lipgloss.Style) string {
	var b strings.Builder
	last := 0
	for _, span := range styledSpan.FindAllStringIndex(s, -1) {
		if span[0] > last {
			b.WriteString(st.Render(s[last:span[0]]))
		}
		b.WriteString(s[span[0]:span[1]])
		last = span[1]
	}
	if last < len(s) {
		b.WriteString(st.Render(s[last:]))
	}
	return b.String()
}

// CmpScreen fails the test with a line by line diff when two rendered screens differ
func CmpScreen(t *testing.T, expected, actual string) {
	t.Helper()
	if diff := cmp.Diff(strings.Split(expected, "\n"), strings.Split(actual, "\n")); diff != "" {
		t.Errorf("screen mismatch (-expected +actual):\n%s", diff)
	}
}
