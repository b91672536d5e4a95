package retained

import (
	"github.com/agiangrant/canvasui/errors"
	"github.com/agiangrant/canvasui/style"
)

// applyClasses fills unset props from p.Class. Explicit props win.
func applyClasses(p *Props, kind Kind) error {
	if p.Class == "" {
		return nil
	}
	s, err := style.Parse(p.Class)
	if err != nil {
		return errors.Invalid(string(kind), p.ID, "class", "%v", err)
	}
	b := &s.Base

	if b.Width != nil && p.Width.IsAuto() {
		p.Width = length(*b.Width)
	}
	if b.Height != nil && p.Height.IsAuto() {
		p.Height = length(*b.Height)
	}
	fill(&p.MinWidth, b.MinWidth)
	fill(&p.MinHeight, b.MinHeight)
	fill(&p.MaxWidth, b.MaxWidth)
	fill(&p.MaxHeight, b.MaxHeight)

	fill(&p.Padding.Top, b.PaddingTop)
	fill(&p.Padding.Right, b.PaddingRight)
	fill(&p.Padding.Bottom, b.PaddingBottom)
	fill(&p.Padding.Left, b.PaddingLeft)
	fill(&p.Margin.Top, b.MarginTop)
	fill(&p.Margin.Right, b.MarginRight)
	fill(&p.Margin.Bottom, b.MarginBottom)
	fill(&p.Margin.Left, b.MarginLeft)
	if b.BorderWidth != nil && p.Border.IsZero() {
		w := *b.BorderWidth
		p.Border.Top, p.Border.Right, p.Border.Bottom, p.Border.Left = w, w, w, w
	}
	if b.BorderRadius != nil && p.BorderRadius.IsZero() {
		r := *b.BorderRadius
		p.BorderRadius = [4]float32{r, r, r, r}
	}

	if b.Background != nil && p.Background.IsZero() {
		p.Background = *b.Background
	}
	if b.Color != nil && p.Color.IsZero() {
		p.Color = *b.Color
	}
	if b.BorderColor != nil && p.BorderColor.IsZero() {
		p.BorderColor = *b.BorderColor
	}
	if b.Opacity != nil && p.Opacity == nil {
		p.Opacity = Float(*b.Opacity)
	}
	if s.Hover.Background != nil && p.HighlightColor.IsZero() {
		p.HighlightColor = *s.Hover.Background
	}

	fill(&p.FontSize, b.FontSize)
	if b.FontWeight != nil && p.FontWeight == 0 {
		p.FontWeight = *b.FontWeight
	}

	fillEnum(&p.FlexDirection, b.FlexDirection)
	fillEnum(&p.JustifyContent, b.JustifyContent)
	fillEnum(&p.AlignItems, b.AlignItems)
	fillEnum(&p.AlignSelf, b.AlignSelf)
	fillEnum(&p.Overflow, b.Overflow)
	fillEnum(&p.Position, b.Position)
	fill(&p.Flex, b.Flex)
	if b.Gap != nil && p.Gap == nil {
		p.Gap = Float(*b.Gap)
	}
	fillPtr(&p.Top, b.Top)
	fillPtr(&p.Right, b.Right)
	fillPtr(&p.Bottom, b.Bottom)
	fillPtr(&p.Left, b.Left)
	if b.ZIndex != nil && p.ZIndex == 0 {
		p.ZIndex = *b.ZIndex
	}
	if b.Draggable != nil && !p.Draggable {
		p.Draggable = *b.Draggable
	}
	return nil
}

func length(l style.Length) Dimension {
	if l.Percent {
		return Percent(l.Value)
	}
	return Px(l.Value)
}

func fill(dst *float32, src *float32) {
	if src != nil && *dst == 0 {
		*dst = *src
	}
}

func fillPtr(dst **float32, src *float32) {
	if src != nil && *dst == nil {
		*dst = Float(*src)
	}
}

func fillEnum[T ~string](dst *T, src *string) {
	if src != nil && *dst == "" {
		*dst = T(*src)
	}
}
