package canvasui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agiangrant/canvasui/retained"
	"github.com/agiangrant/canvasui/surface"
)

func TestParseSettingsKeepsDefaults(t *testing.T) {
	s, err := ParseSettings([]byte(`
[scroll]
speed = 3

[hints]
show = false
clickable_chars = "asdf"

[render]
text_gap = 8
text_measure = "cell"
`))
	require.NoError(t, err)

	want := DefaultSettings()
	want.Scroll.Speed = 3
	want.Hints.Show = false
	want.Hints.ClickableChars = "asdf"
	want.Render.TextGap = 8
	want.Render.TextMeasure = MeasureCell
	assert.Equal(t, want, s)
}

func TestParseSettingsRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"zero scroll speed", "[scroll]\nspeed = 0"},
		{"negative gap", "[render]\ntext_gap = -1"},
		{"negative debounce", "[render]\ndebounce_ms = -5"},
		{"unknown measurer", "[render]\ntext_measure = \"ruler\""},
		{"wrong type", "[scroll]\nspeed = \"fast\""},
		{"not toml", "[scroll"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseSettings([]byte(tt.doc))
			assert.Error(t, err)
			assert.Equal(t, DefaultSettings(), s)
		})
	}
}

func TestLoadSettings(t *testing.T) {
	dir := t.TempDir()

	s, err := LoadSettings(filepath.Join(dir, "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)

	path := filepath.Join(dir, "canvasui.toml")
	require.NoError(t, os.WriteFile(path, []byte("[window]\npersist_path = \"windows.yaml\"\n"), 0o644))
	s, err = LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "windows.yaml", s.Window.PersistPath)

	require.NoError(t, os.WriteFile(path, []byte("[scroll]\nspeed = -2\n"), 0o644))
	_, err = LoadSettings(path)
	assert.ErrorContains(t, err, "scroll.speed")
}

func TestTreeSettings(t *testing.T) {
	s := DefaultSettings()
	s.Render.DebounceMS = 80
	s.Scroll.Speed = 2
	s.Window.InputNudgeY = 1.5

	ts := s.TreeSettings()
	assert.Equal(t, 80*time.Millisecond, ts.Debounce)
	assert.Equal(t, float32(2), ts.ScrollSpeed)
	assert.Equal(t, float32(1.5), ts.InputNudgeY)
	assert.Equal(t, retained.DefaultSettings().TextGap, ts.TextGap)
	assert.True(t, ts.ShowHints)
}

func TestSettingsMeasurer(t *testing.T) {
	s := DefaultSettings()
	assert.Nil(t, s.Measurer())

	s.Render.TextMeasure = MeasureCell
	m := s.Measurer()
	require.NotNil(t, m)
	metrics, err := m.MeasureText("abcd", surface.Font{Size: 10})
	require.NoError(t, err)
	assert.InDelta(t, 24, metrics.Width, 0.001)
}
