package constants

import "time"

// FrameInterval is the cadence at which the list polishes and advances animations while any work is pending
var FrameInterval = time.Second / 60

// ToastTimeout controls how long toast messages stay on screen
var ToastTimeout = 5 * time.Second

// DefaultCount is the number of generated records the demo list starts with
const DefaultCount = 1000

// DefaultCacheBuffer is how many rows beyond each edge of the viewport stay materialized
const DefaultCacheBuffer = 5

// DefaultAsyncDelay is how long an asynchronous item creation takes by default
const DefaultAsyncDelay = 30 * time.Millisecond

// DefaultTransitionDuration is the duration of add, remove and displaced transitions
const DefaultTransitionDuration = 150 * time.Millisecond

// HighlightMoveDuration is how long the highlight takes to follow the current row
const HighlightMoveDuration = 100 * time.Millisecond

// SectionHeaderRows is the height of a section header
const SectionHeaderRows = 1
