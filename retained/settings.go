package retained

import "time"

// Settings are the tunables a tree reads when it is created.
type Settings struct {
	// TextGap is the implicit gap between adjacent text nodes in a container
	// without an explicit gap.
	TextGap float32
	// ScrollSpeed multiplies wheel deltas.
	ScrollSpeed float32

	Debounce          time.Duration
	Throttle          time.Duration
	AnimationInterval time.Duration
	CursorRefresh     time.Duration
	HoverCheck        time.Duration
	// DragThreshold is how far the pointer must move before a press on a
	// draggable becomes a drag.
	DragThreshold float32
	// InputNudgeY shifts native text inputs vertically to line up with the
	// painted box on hosts whose widgets have an inset.
	InputNudgeY float32

	ShowHints       bool
	HintSize        float32
	ClickableChars  string
	ScrollableChars string
	InputChars      string
}

// DefaultSettings returns the defaults used when a field is zero.
func DefaultSettings() Settings {
	return Settings{
		TextGap:           16,
		ScrollSpeed:       1,
		Debounce:          50 * time.Millisecond,
		Throttle:          16 * time.Millisecond,
		AnimationInterval: 16 * time.Millisecond,
		CursorRefresh:     16 * time.Millisecond,
		HoverCheck:        500 * time.Millisecond,
		DragThreshold:     3,
		ShowHints:         true,
		HintSize:          14,
		ClickableChars:    "abcdefghijklmnopqrstuvwxyz",
		ScrollableChars:   "123456789",
		InputChars:        "abcdefghijklmnopqrstuvwxyz",
	}
}

// withDefaults fills zero durations and factors.
func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s == (Settings{}) {
		return d
	}
	if s.ScrollSpeed == 0 {
		s.ScrollSpeed = d.ScrollSpeed
	}
	if s.Debounce == 0 {
		s.Debounce = d.Debounce
	}
	if s.Throttle == 0 {
		s.Throttle = d.Throttle
	}
	if s.AnimationInterval == 0 {
		s.AnimationInterval = d.AnimationInterval
	}
	if s.CursorRefresh == 0 {
		s.CursorRefresh = d.CursorRefresh
	}
	if s.HoverCheck == 0 {
		s.HoverCheck = d.HoverCheck
	}
	if s.DragThreshold == 0 {
		s.DragThreshold = d.DragThreshold
	}
	if s.HintSize == 0 {
		s.HintSize = d.HintSize
	}
	return s
}
