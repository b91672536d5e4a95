package colors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#000000", Black},
		{"#FFFFFF", White},
		{"fff", White},
		{"#ff000080", Color{255, 0, 0, 128}},
		{"#0f08", Color{0, 255, 0, 136}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Parse("#12345")
	assert.Error(t, err)
	_, err = Parse("#zzzzzz")
	assert.Error(t, err)
}

func TestLerpBoundaries(t *testing.T) {
	assert.Equal(t, Black, Lerp(Black, White, 0))
	assert.Equal(t, White, Lerp(Black, White, 1))
	assert.Equal(t, "#808080", Lerp(Black, White, 0.5).Hex())
	assert.Equal(t, Color{0, 0, 0, 128}, Lerp(Transparent, Black, 0.5))
}

func TestWithOpacity(t *testing.T) {
	assert.Equal(t, uint8(128), White.WithOpacity(0.5).A)
	assert.Equal(t, uint8(0), White.WithOpacity(0).A)
	assert.Equal(t, White, White.WithOpacity(1))
}

func TestHex(t *testing.T) {
	assert.Equal(t, "#112233", RGB(0x11, 0x22, 0x33).Hex())
	assert.Equal(t, "#11223344", RGBA(0x11, 0x22, 0x33, 0x44).Hex())
}
