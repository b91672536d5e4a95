package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agiangrant/canvasui/colors"
)

func TestParseSpacing(t *testing.T) {
	s, err := Parse("p-4 px-[10] mt-2 gap-3")
	require.NoError(t, err)
	b := s.Base
	assert.Equal(t, float32(16), *b.PaddingTop)
	assert.Equal(t, float32(16), *b.PaddingBottom)
	assert.Equal(t, float32(10), *b.PaddingLeft)
	assert.Equal(t, float32(10), *b.PaddingRight)
	assert.Equal(t, float32(8), *b.MarginTop)
	assert.Nil(t, b.MarginLeft)
	assert.Equal(t, float32(12), *b.Gap)
}

func TestParseSizes(t *testing.T) {
	tests := []struct {
		class string
		want  Length
	}{
		{"w-10", Length{Value: 40}},
		{"w-[120px]", Length{Value: 120}},
		{"w-[50%]", Length{Value: 50, Percent: true}},
		{"w-1/4", Length{Value: 25, Percent: true}},
		{"w-full", Length{Value: 100, Percent: true}},
	}
	for _, tt := range tests {
		t.Run(tt.class, func(t *testing.T) {
			s, err := Parse(tt.class)
			require.NoError(t, err)
			require.NotNil(t, s.Base.Width)
			assert.Equal(t, tt.want, *s.Base.Width)
		})
	}
}

func TestParseColorsAndVariants(t *testing.T) {
	s, err := Parse("bg-[#112233] text-white hover:bg-[#334455] border-[#fff] border-2")
	require.NoError(t, err)
	assert.Equal(t, colors.MustParse("#112233"), *s.Base.Background)
	assert.Equal(t, colors.White, *s.Base.Color)
	assert.Equal(t, colors.MustParse("#334455"), *s.Hover.Background)
	assert.Equal(t, colors.White, *s.Base.BorderColor)
	assert.Equal(t, float32(2), *s.Base.BorderWidth)
	assert.Nil(t, s.Hover.Color)
}

func TestParseFlexAndPosition(t *testing.T) {
	s, err := Parse("flex-row justify-between items-center flex-2 absolute top-[4] z-5 opacity-50 overflow-scroll text-lg font-bold")
	require.NoError(t, err)
	b := s.Base
	assert.Equal(t, "row", *b.FlexDirection)
	assert.Equal(t, "space_between", *b.JustifyContent)
	assert.Equal(t, "center", *b.AlignItems)
	assert.Equal(t, float32(2), *b.Flex)
	assert.Equal(t, "absolute", *b.Position)
	assert.Equal(t, float32(4), *b.Top)
	assert.Equal(t, 5, *b.ZIndex)
	assert.InDelta(t, 0.5, *b.Opacity, 1e-6)
	assert.Equal(t, "scroll", *b.Overflow)
	assert.Equal(t, float32(18), *b.FontSize)
	assert.Equal(t, 700, *b.FontWeight)
}

func TestLaterClassesWin(t *testing.T) {
	s, err := Parse("p-1 p-2")
	require.NoError(t, err)
	assert.Equal(t, float32(8), *s.Base.PaddingLeft)
}

func TestParseErrors(t *testing.T) {
	for _, class := range []string{"bogus", "p-x", "bg-[nothex]", "focus:p-1", "w-[10", "opacity-200", "w-1/0"} {
		t.Run(class, func(t *testing.T) {
			_, err := Parse(class)
			var se *Error
			require.ErrorAs(t, err, &se)
			assert.Equal(t, class, se.Class)
		})
	}
}
