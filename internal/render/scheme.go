package render

import (
	"fmt"
	"image/color"
)

// Scheme is a slide palette.
type Scheme struct {
	Primary    color.RGBA
	Secondary  color.RGBA
	Accent     color.RGBA
	Text       color.RGBA
	Background color.RGBA
}

// schemeOrder fixes the rotation used when no scheme is configured.
var schemeOrder = []string{"modern", "corporate", "warm", "cool"}

var schemes = map[string]Scheme{
	"modern": {
		Primary:    hex("#2C3E50"),
		Secondary:  hex("#3498DB"),
		Accent:     hex("#E74C3C"),
		Text:       hex("#FFFFFF"),
		Background: hex("#34495E"),
	},
	"corporate": {
		Primary:    hex("#1B365D"),
		Secondary:  hex("#4A90A4"),
		Accent:     hex("#87CEEB"),
		Text:       hex("#FFFFFF"),
		Background: hex("#2C3E50"),
	},
	"warm": {
		Primary:    hex("#8B4513"),
		Secondary:  hex("#D2691E"),
		Accent:     hex("#FFD700"),
		Text:       hex("#FFFFFF"),
		Background: hex("#A0522D"),
	},
	"cool": {
		Primary:    hex("#2F4F4F"),
		Secondary:  hex("#4682B4"),
		Accent:     hex("#00CED1"),
		Text:       hex("#FFFFFF"),
		Background: hex("#708090"),
	},
}

var (
	shadowColor = color.RGBA{0, 0, 0, 255}
	errorColor  = hex("#800000")
)

// schemeFor returns the configured scheme, or rotates through the palette
// by slide ordinal so a given slide always gets the same colors.
func (r *implRenderer) schemeFor(ordinal int) Scheme {
	if r.scheme != "" {
		return schemes[r.scheme]
	}
	if ordinal < 0 {
		ordinal = -ordinal
	}
	return schemes[schemeOrder[ordinal%len(schemeOrder)]]
}

// hex parses #RRGGBB.
func hex(s string) color.RGBA {
	var c color.RGBA
	c.A = 255
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		panic("render: bad color " + s)
	}
	return c
}

// lerp interpolates between a and b, t in [0,1].
func lerp(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t)
	}
	return color.RGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), 255}
}
