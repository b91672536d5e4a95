package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsetOutset(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 100, Height: 50}
	sp := Spacing{Top: 1, Right: 2, Bottom: 3, Left: 4}

	in := r.Inset(sp)
	assert.Equal(t, Rect{X: 14, Y: 11, Width: 94, Height: 46}, in)
	assert.Equal(t, r, in.Outset(sp))

	assert.Equal(t, Rect{X: 40, Y: 40}, Rect{Width: 10, Height: 10}.Inset(Uniform(40)),
		"inset never goes negative")
}

func TestIntersect(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want Rect
		ok   bool
	}{
		{"overlap", Rect{0, 0, 10, 10}, Rect{5, 5, 10, 10}, Rect{5, 5, 5, 5}, true},
		{"contained", Rect{0, 0, 10, 10}, Rect{2, 2, 3, 3}, Rect{2, 2, 3, 3}, true},
		{"touching", Rect{0, 0, 10, 10}, Rect{10, 0, 10, 10}, Rect{10, 0, 0, 0}, false},
		{"apart", Rect{0, 0, 10, 10}, Rect{20, 20, 5, 5}, Rect{20, 20, 0, 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.a.Intersect(tt.b)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContains(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	assert.True(t, r.Contains(Point{10, 10}))
	assert.False(t, r.Contains(Point{10.5, 3}))
	assert.True(t, r.ContainsRect(Rect{1, 1, 9, 9}))
	assert.False(t, r.ContainsRect(Rect{1, 1, 10, 9}))
}

func TestAxisAccessors(t *testing.T) {
	s := Size{Width: 3, Height: 4}
	assert.Equal(t, float32(3), s.Along(Horizontal))
	assert.Equal(t, float32(4), s.Along(Vertical))
	assert.Equal(t, Size{Width: 3, Height: 9}, s.With(Vertical, 9))
	assert.Equal(t, Vertical, Horizontal.Cross())

	sp := Spacing{Top: 1, Right: 2, Bottom: 3, Left: 4}
	assert.Equal(t, float32(6), sp.Along(Horizontal))
	assert.Equal(t, float32(1), sp.Leading(Vertical))
	assert.Equal(t, Size{Width: 9, Height: 8}, s.Grow(sp))
}

func TestUnionSkipsEmpty(t *testing.T) {
	a := Rect{X: 5, Y: 5, Width: 10, Height: 10}
	assert.Equal(t, a, Rect{}.Union(a))
	assert.Equal(t, Rect{0, 0, 15, 15}, a.Union(Rect{0, 0, 2, 2}))
}
