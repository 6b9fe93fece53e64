package view

import (
	"strings"

	"github.com/specialistvlad/terragridgo/internal/attr"
)

// Palette maps top-level node categories to colours. A view treats its
// palette as read-only.
type Palette map[string]attr.RGB

// DefaultPalette returns the built-in category colours.
func DefaultPalette() Palette {
	return Palette{
		"Primitive": {R: 0.47, G: 0.71, B: 0.44},
		"Filter":    {R: 0.40, G: 0.55, B: 0.80},
		"Operator":  {R: 0.85, G: 0.62, B: 0.30},
		"Erosion":   {R: 0.72, G: 0.45, B: 0.36},
		"Texture":   {R: 0.80, G: 0.45, B: 0.70},
		"IO":        {R: 0.55, G: 0.55, B: 0.55},
	}
}

// fallback is used for categories missing from the palette.
var fallback = attr.RGB{R: 1, G: 1, B: 1}

// Color returns the colour of a category path such as "Filter/Smoothing",
// keyed by its first segment.
func (p Palette) Color(category string) attr.RGB {
	top, _, _ := strings.Cut(category, "/")
	if c, ok := p[top]; ok {
		return c
	}
	return fallback
}
