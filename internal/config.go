package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/robinovitch61/itemview/internal/itemview"
	"github.com/robinovitch61/itemview/internal/keymap"
)

type Config struct {
	KeyMap             keymap.KeyMap
	Count              int
	CacheBuffer        int
	Spacing            int
	RangeMode          itemview.HighlightRangeMode
	RangeStart         int
	RangeEnd           int
	AnimateHighlight   bool
	Async              bool
	AsyncDelay         time.Duration
	KeyNavigationWraps bool
	Reversed           bool
	Header             string
	Footer             string
	Sections           bool
	Transitions        bool
	Wrap               bool
	Version            string
}

// ParseRangeMode parses the name of a highlight range mode
func ParseRangeMode(s string) (itemview.HighlightRangeMode, error) {
	for _, mode := range []itemview.HighlightRangeMode{
		itemview.NoHighlightRange,
		itemview.ApplyRange,
		itemview.StrictlyEnforceRange,
	} {
		if strings.EqualFold(s, mode.String()) {
			return mode, nil
		}
	}
	return itemview.NoHighlightRange, fmt.Errorf("unknown range mode %q, expected none, apply or strict", s)
}

func (c Config) validate() error {
	if c.Count < 0 {
		return fmt.Errorf("count must not be negative, got %d", c.Count)
	}
	if c.CacheBuffer < 0 {
		return fmt.Errorf("buffer must not be negative, got %d", c.CacheBuffer)
	}
	if c.Spacing < 0 {
		return fmt.Errorf("spacing must not be negative, got %d", c.Spacing)
	}
	if c.RangeMode != itemview.NoHighlightRange && c.RangeStart > c.RangeEnd {
		return fmt.Errorf("range start %d is after range end %d", c.RangeStart, c.RangeEnd)
	}
	return nil
}
