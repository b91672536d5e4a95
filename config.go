package canvasui

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/agiangrant/canvasui/retained"
	"github.com/agiangrant/canvasui/surface"
)

// Settings is the engine configuration, usually read from a TOML file.
type Settings struct {
	Hints  HintSettings   `toml:"hints"`
	Scroll ScrollSettings `toml:"scroll"`
	Render RenderSettings `toml:"render"`
	Window WindowSettings `toml:"window"`
}

// HintSettings control the labels painted over targets for voice selection.
type HintSettings struct {
	Show bool    `toml:"show"`
	Size float32 `toml:"size"`
	// Alphabets used to label each kind of target
	ClickableChars  string `toml:"clickable_chars"`
	ScrollableChars string `toml:"scrollable_chars"`
	InputChars      string `toml:"input_chars"`
}

type ScrollSettings struct {
	// Pixels per wheel unit
	Speed float32 `toml:"speed"`
}

type RenderSettings struct {
	DebounceMS          int `toml:"debounce_ms"`
	ThrottleMS          int `toml:"throttle_ms"`
	BatchMS             int `toml:"batch_ms"`
	AnimationIntervalMS int `toml:"animation_interval_ms"`
	// Gap between adjacent text nodes in a container with no gap of its own
	TextGap float32 `toml:"text_gap"`
	// "face" measures with the built-in bitmap font, "cell" counts
	// terminal cells.
	TextMeasure string `toml:"text_measure"`
}

type WindowSettings struct {
	// YAML file that keeps window positions. Empty keeps them in memory.
	PersistPath   string  `toml:"persist_path"`
	DragThreshold float32 `toml:"drag_threshold"`
	InputNudgeY   float32 `toml:"input_nudge_y"`
}

const (
	MeasureFace = "face"
	MeasureCell = "cell"
)

// DefaultSettings returns the settings used when no file is given.
func DefaultSettings() Settings {
	d := retained.DefaultSettings()
	return Settings{
		Hints: HintSettings{
			Show:            d.ShowHints,
			Size:            d.HintSize,
			ClickableChars:  d.ClickableChars,
			ScrollableChars: d.ScrollableChars,
			InputChars:      d.InputChars,
		},
		Scroll: ScrollSettings{Speed: d.ScrollSpeed},
		Render: RenderSettings{
			DebounceMS:          int(d.Debounce / time.Millisecond),
			ThrottleMS:          int(d.Throttle / time.Millisecond),
			BatchMS:             5,
			AnimationIntervalMS: int(d.AnimationInterval / time.Millisecond),
			TextGap:             d.TextGap,
			TextMeasure:         MeasureFace,
		},
		Window: WindowSettings{
			DragThreshold: d.DragThreshold,
		},
	}
}

// LoadSettings reads settings from path. A missing file yields the
// defaults.
func LoadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return DefaultSettings(), fmt.Errorf("failed to read %s: %w", path, err)
	}
	s, err := ParseSettings(data)
	if err != nil {
		return s, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return s, nil
}

// ParseSettings decodes TOML over the defaults and validates the result.
func ParseSettings(data []byte) (Settings, error) {
	s := DefaultSettings()
	if err := toml.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), err
	}
	if err := s.Validate(); err != nil {
		return DefaultSettings(), err
	}
	return s, nil
}

// Validate checks ranges and enumerations.
func (s Settings) Validate() error {
	switch {
	case s.Scroll.Speed <= 0:
		return fmt.Errorf("scroll.speed must be positive, got %v", s.Scroll.Speed)
	case s.Hints.Size < 0:
		return fmt.Errorf("hints.size must not be negative, got %v", s.Hints.Size)
	case s.Render.TextGap < 0:
		return fmt.Errorf("render.text_gap must not be negative, got %v", s.Render.TextGap)
	case s.Window.DragThreshold < 0:
		return fmt.Errorf("window.drag_threshold must not be negative, got %v", s.Window.DragThreshold)
	}
	for name, ms := range map[string]int{
		"render.debounce_ms":           s.Render.DebounceMS,
		"render.throttle_ms":           s.Render.ThrottleMS,
		"render.batch_ms":              s.Render.BatchMS,
		"render.animation_interval_ms": s.Render.AnimationIntervalMS,
	} {
		if ms < 0 {
			return fmt.Errorf("%s must not be negative, got %d", name, ms)
		}
	}
	switch s.Render.TextMeasure {
	case "", MeasureFace, MeasureCell:
	default:
		return fmt.Errorf("render.text_measure must be %q or %q, got %q", MeasureFace, MeasureCell, s.Render.TextMeasure)
	}
	return nil
}

// TreeSettings flattens s into what a retained tree reads.
func (s Settings) TreeSettings() retained.Settings {
	return retained.Settings{
		TextGap:           s.Render.TextGap,
		ScrollSpeed:       s.Scroll.Speed,
		Debounce:          ms(s.Render.DebounceMS),
		Throttle:          ms(s.Render.ThrottleMS),
		AnimationInterval: ms(s.Render.AnimationIntervalMS),
		DragThreshold:     s.Window.DragThreshold,
		InputNudgeY:       s.Window.InputNudgeY,
		ShowHints:         s.Hints.Show,
		HintSize:          s.Hints.Size,
		ClickableChars:    s.Hints.ClickableChars,
		ScrollableChars:   s.Hints.ScrollableChars,
		InputChars:        s.Hints.InputChars,
	}
}

// Measurer returns the text measurer selected by render.text_measure, or nil
// to let each tree pick its host's.
func (s Settings) Measurer() surface.Measurer {
	if s.Render.TextMeasure == MeasureCell {
		return surface.NewCellMeasurer()
	}
	return nil
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }
