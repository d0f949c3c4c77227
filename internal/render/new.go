package render

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/nguyentantai21042004/slidecast/internal/config"
	"github.com/nguyentantai21042004/slidecast/internal/logger"
)

// Font sizes at 1080p; scaled with the output height.
const (
	titleSize    = 72
	subtitleSize = 48
	contentSize  = 36
	smallSize    = 28
	baseHeight   = 1080
)

type faces struct {
	title    font.Face
	subtitle font.Face
	content  font.Face
	small    font.Face
}

type implRenderer struct {
	width  int
	height int
	scheme string
	faces  faces
	logger logger.Logger
}

// New creates a Renderer using the embedded Go fonts.
func New(cfg config.RenderConfig, log logger.Logger) (Renderer, error) {
	if cfg.Width <= 0 {
		cfg.Width = 1920
	}
	if cfg.Height <= 0 {
		cfg.Height = 1080
	}
	if cfg.ColorScheme != "" {
		if _, ok := schemes[cfg.ColorScheme]; !ok {
			return nil, fmt.Errorf("unknown color scheme %q", cfg.ColorScheme)
		}
	}

	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}

	scale := float64(cfg.Height) / baseHeight
	newFace := func(f *opentype.Font, size float64) (font.Face, error) {
		return opentype.NewFace(f, &opentype.FaceOptions{
			Size:    size * scale,
			DPI:     72,
			Hinting: font.HintingFull,
		})
	}

	var fs faces
	for _, spec := range []struct {
		dst  *font.Face
		font *opentype.Font
		size float64
	}{
		{&fs.title, bold, titleSize},
		{&fs.subtitle, bold, subtitleSize},
		{&fs.content, regular, contentSize},
		{&fs.small, regular, smallSize},
	} {
		face, err := newFace(spec.font, spec.size)
		if err != nil {
			return nil, fmt.Errorf("create font face: %w", err)
		}
		*spec.dst = face
	}

	return &implRenderer{
		width:  cfg.Width,
		height: cfg.Height,
		scheme: cfg.ColorScheme,
		faces:  fs,
		logger: log,
	}, nil
}
