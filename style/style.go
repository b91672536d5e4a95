// Package style parses utility class strings such as
// "p-4 gap-2 flex-row items-center bg-[#1e1e1e] hover:bg-[#333]" into
// partial property sets. Unset fields stay nil so explicit properties can
// take precedence.
package style

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agiangrant/canvasui/colors"
)

// Variant is the interaction state a class applies to.
type Variant int

const (
	VariantBase Variant = iota
	VariantHover
)

// Length is a parsed size: pixels, or a percentage when Percent is set.
type Length struct {
	Value   float32
	Percent bool
}

// Partial is a set of optionally specified properties.
type Partial struct {
	Width, Height       *Length
	MinWidth, MinHeight *float32
	MaxWidth, MaxHeight *float32

	PaddingTop, PaddingRight, PaddingBottom, PaddingLeft *float32
	MarginTop, MarginRight, MarginBottom, MarginLeft     *float32
	BorderWidth                                          *float32
	BorderRadius                                         *float32

	Background  *colors.Color
	Color       *colors.Color
	BorderColor *colors.Color
	Opacity     *float32

	FontSize   *float32
	FontWeight *int

	FlexDirection  *string
	JustifyContent *string
	AlignItems     *string
	AlignSelf      *string
	Flex           *float32
	Gap            *float32

	Overflow *string
	Position *string
	Top      *float32
	Right    *float32
	Bottom   *float32
	Left     *float32
	ZIndex   *int

	Draggable *bool
}

// Styles holds the partials of each variant.
type Styles struct {
	Base  Partial
	Hover Partial
}

// Error reports a class that could not be parsed.
type Error struct {
	Class  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("style: %q: %s", e.Class, e.Reason)
}

// unit is the spacing scale: p-4 is 16 pixels.
const unit = 4

// Parse parses a whitespace separated class string. Later classes override
// earlier ones. An unknown class is an error.
func Parse(classes string) (Styles, error) {
	var s Styles
	for _, class := range strings.Fields(classes) {
		variant, base, err := splitVariant(class)
		if err != nil {
			return Styles{}, err
		}
		target := &s.Base
		if variant == VariantHover {
			target = &s.Hover
		}
		if err := parseUtility(base, target); err != nil {
			if e, ok := err.(*Error); ok {
				e.Class = class
			}
			return Styles{}, err
		}
	}
	return s, nil
}

func splitVariant(class string) (Variant, string, error) {
	prefix, base, ok := strings.Cut(class, ":")
	if !ok {
		return VariantBase, class, nil
	}
	switch prefix {
	case "hover":
		return VariantHover, base, nil
	default:
		return VariantBase, "", &Error{Class: class, Reason: fmt.Sprintf("unknown variant %q", prefix)}
	}
}

func ptr[T any](v T) *T { return &v }

var keywords = map[string]func(p *Partial){
	"flex-row":         func(p *Partial) { p.FlexDirection = ptr("row") },
	"flex-col":         func(p *Partial) { p.FlexDirection = ptr("column") },
	"justify-start":    func(p *Partial) { p.JustifyContent = ptr("flex_start") },
	"justify-center":   func(p *Partial) { p.JustifyContent = ptr("center") },
	"justify-end":      func(p *Partial) { p.JustifyContent = ptr("flex_end") },
	"justify-between":  func(p *Partial) { p.JustifyContent = ptr("space_between") },
	"items-start":      func(p *Partial) { p.AlignItems = ptr("flex_start") },
	"items-center":     func(p *Partial) { p.AlignItems = ptr("center") },
	"items-end":        func(p *Partial) { p.AlignItems = ptr("flex_end") },
	"items-stretch":    func(p *Partial) { p.AlignItems = ptr("stretch") },
	"self-start":       func(p *Partial) { p.AlignSelf = ptr("flex_start") },
	"self-center":      func(p *Partial) { p.AlignSelf = ptr("center") },
	"self-end":         func(p *Partial) { p.AlignSelf = ptr("flex_end") },
	"self-stretch":     func(p *Partial) { p.AlignSelf = ptr("stretch") },
	"overflow-visible": func(p *Partial) { p.Overflow = ptr("visible") },
	"overflow-hidden":  func(p *Partial) { p.Overflow = ptr("hidden") },
	"overflow-scroll":  func(p *Partial) { p.Overflow = ptr("scroll") },
	"static":           func(p *Partial) { p.Position = ptr("static") },
	"relative":         func(p *Partial) { p.Position = ptr("relative") },
	"absolute":         func(p *Partial) { p.Position = ptr("absolute") },
	"fixed":            func(p *Partial) { p.Position = ptr("fixed") },
	"border":           func(p *Partial) { p.BorderWidth = ptr(float32(1)) },
	"rounded":          func(p *Partial) { p.BorderRadius = ptr(float32(4)) },
	"font-bold":        func(p *Partial) { p.FontWeight = ptr(700) },
	"font-normal":      func(p *Partial) { p.FontWeight = ptr(400) },
	"draggable":        func(p *Partial) { p.Draggable = ptr(true) },
	"w-full":           func(p *Partial) { p.Width = &Length{Value: 100, Percent: true} },
	"h-full":           func(p *Partial) { p.Height = &Length{Value: 100, Percent: true} },
	"text-xs":          func(p *Partial) { p.FontSize = ptr(float32(12)) },
	"text-sm":          func(p *Partial) { p.FontSize = ptr(float32(14)) },
	"text-base":        func(p *Partial) { p.FontSize = ptr(float32(16)) },
	"text-lg":          func(p *Partial) { p.FontSize = ptr(float32(18)) },
	"text-xl":          func(p *Partial) { p.FontSize = ptr(float32(20)) },
	"text-2xl":         func(p *Partial) { p.FontSize = ptr(float32(24)) },
}

var palette = map[string]colors.Color{
	"transparent": colors.Transparent,
	"black":       colors.Black,
	"white":       colors.White,
	"gray":        colors.MustParse("#6b7280"),
	"red":         colors.MustParse("#ef4444"),
	"green":       colors.MustParse("#22c55e"),
	"blue":        colors.MustParse("#3b82f6"),
	"yellow":      colors.MustParse("#eab308"),
}

func parseUtility(class string, p *Partial) error {
	if fn, ok := keywords[class]; ok {
		fn(p)
		return nil
	}
	prop, value, arbitrary, err := splitValue(class)
	if err != nil {
		return err
	}
	switch prop {
	case "w", "h":
		l, err := parseLength(value, arbitrary)
		if err != nil {
			return err
		}
		if prop == "w" {
			p.Width = &l
		} else {
			p.Height = &l
		}
	case "min-w", "min-h", "max-w", "max-h":
		v, err := parseSize(value, arbitrary)
		if err != nil {
			return err
		}
		switch prop {
		case "min-w":
			p.MinWidth = &v
		case "min-h":
			p.MinHeight = &v
		case "max-w":
			p.MaxWidth = &v
		default:
			p.MaxHeight = &v
		}
	case "p", "px", "py", "pt", "pr", "pb", "pl":
		v, err := parseSize(value, arbitrary)
		if err != nil {
			return err
		}
		edges(prop[1:], v, &p.PaddingTop, &p.PaddingRight, &p.PaddingBottom, &p.PaddingLeft)
	case "m", "mx", "my", "mt", "mr", "mb", "ml":
		v, err := parseSize(value, arbitrary)
		if err != nil {
			return err
		}
		edges(prop[1:], v, &p.MarginTop, &p.MarginRight, &p.MarginBottom, &p.MarginLeft)
	case "gap":
		v, err := parseSize(value, arbitrary)
		if err != nil {
			return err
		}
		p.Gap = &v
	case "top", "right", "bottom", "left":
		v, err := parseSize(value, arbitrary)
		if err != nil {
			return err
		}
		switch prop {
		case "top":
			p.Top = &v
		case "right":
			p.Right = &v
		case "bottom":
			p.Bottom = &v
		default:
			p.Left = &v
		}
	case "border":
		if c, ok := parseColor(value, arbitrary); ok {
			p.BorderColor = &c
			return nil
		}
		v, err := parsePixels(value)
		if err != nil {
			return err
		}
		p.BorderWidth = &v
	case "rounded":
		v, err := parsePixels(value)
		if err != nil {
			return err
		}
		p.BorderRadius = &v
	case "bg":
		c, ok := parseColor(value, arbitrary)
		if !ok {
			return &Error{Reason: fmt.Sprintf("invalid color %q", value)}
		}
		p.Background = &c
	case "text":
		if c, ok := parseColor(value, arbitrary); ok {
			p.Color = &c
			return nil
		}
		v, err := parsePixels(value)
		if err != nil {
			return err
		}
		p.FontSize = &v
	case "opacity":
		v, err := strconv.ParseFloat(value, 32)
		if err != nil || v < 0 || v > 100 {
			return &Error{Reason: fmt.Sprintf("invalid opacity %q", value)}
		}
		p.Opacity = ptr(float32(v / 100))
	case "flex":
		v, err := strconv.ParseFloat(value, 32)
		if err != nil || v < 0 {
			return &Error{Reason: fmt.Sprintf("invalid flex weight %q", value)}
		}
		p.Flex = ptr(float32(v))
	case "z":
		v, err := strconv.Atoi(value)
		if err != nil {
			return &Error{Reason: fmt.Sprintf("invalid z-index %q", value)}
		}
		p.ZIndex = &v
	default:
		return &Error{Reason: "unknown utility"}
	}
	return nil
}

// splitValue splits "p-4" into ("p", "4") and "w-[50%]" into ("w", "50%").
func splitValue(class string) (prop, value string, arbitrary bool, err error) {
	if i := strings.Index(class, "-["); i >= 0 {
		if !strings.HasSuffix(class, "]") {
			return "", "", false, &Error{Reason: "unterminated arbitrary value"}
		}
		return class[:i], class[i+2 : len(class)-1], true, nil
	}
	i := strings.LastIndex(class, "-")
	if i <= 0 || i == len(class)-1 {
		return "", "", false, &Error{Reason: "unknown utility"}
	}
	return class[:i], class[i+1:], false, nil
}

func edges(which string, v float32, top, right, bottom, left **float32) {
	set := func(dst **float32) { *dst = ptr(v) }
	switch which {
	case "":
		set(top)
		set(right)
		set(bottom)
		set(left)
	case "x":
		set(left)
		set(right)
	case "y":
		set(top)
		set(bottom)
	case "t":
		set(top)
	case "r":
		set(right)
	case "b":
		set(bottom)
	case "l":
		set(left)
	}
}

// parseSize reads a scale step ("4" is 16px) or an arbitrary pixel value.
func parseSize(value string, arbitrary bool) (float32, error) {
	if arbitrary {
		return parsePixels(value)
	}
	v, err := strconv.ParseFloat(value, 32)
	if err != nil || v < 0 {
		return 0, &Error{Reason: fmt.Sprintf("invalid size %q", value)}
	}
	return float32(v) * unit, nil
}

func parsePixels(value string) (float32, error) {
	v, err := strconv.ParseFloat(strings.TrimSuffix(value, "px"), 32)
	if err != nil || v < 0 {
		return 0, &Error{Reason: fmt.Sprintf("invalid pixel value %q", value)}
	}
	return float32(v), nil
}

// parseLength accepts scale steps, fractions ("1/2"), and arbitrary pixel
// or percent values.
func parseLength(value string, arbitrary bool) (Length, error) {
	if arbitrary && strings.HasSuffix(value, "%") {
		v, err := strconv.ParseFloat(strings.TrimSuffix(value, "%"), 32)
		if err != nil || v < 0 {
			return Length{}, &Error{Reason: fmt.Sprintf("invalid percentage %q", value)}
		}
		return Length{Value: float32(v), Percent: true}, nil
	}
	if num, den, ok := strings.Cut(value, "/"); ok && !arbitrary {
		n, err1 := strconv.ParseFloat(num, 32)
		d, err2 := strconv.ParseFloat(den, 32)
		if err1 != nil || err2 != nil || d == 0 {
			return Length{}, &Error{Reason: fmt.Sprintf("invalid fraction %q", value)}
		}
		return Length{Value: float32(n / d * 100), Percent: true}, nil
	}
	v, err := parseSize(value, arbitrary)
	if err != nil {
		return Length{}, err
	}
	return Length{Value: v}, nil
}

func parseColor(value string, arbitrary bool) (colors.Color, bool) {
	if arbitrary {
		c, err := colors.Parse(value)
		return c, err == nil
	}
	c, ok := palette[value]
	return c, ok
}
