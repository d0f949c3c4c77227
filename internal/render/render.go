package render

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	xdraw "golang.org/x/image/draw"

	"github.com/nguyentantai21042004/slidecast/internal/models"
)

const (
	errorText       = "Error generating slide"
	thumbnailWidth  = 320
	thumbnailHeight = 180
)

func (r *implRenderer) Render(ctx context.Context, slide models.Slide, outputPath string) (models.ImageAsset, error) {
	if err := ctx.Err(); err != nil {
		return models.ImageAsset{}, err
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return models.ImageAsset{}, fmt.Errorf("create slide dir: %w", err)
	}

	img, err := r.paint(slide)
	if err == nil {
		err = writePNG(outputPath, img)
	}
	if err != nil {
		r.logger.Warn(ctx, "Slide %q failed, writing error slide: %v", slide.Title, err)
		if errErr := writePNG(outputPath, r.errorSlide()); errErr != nil {
			return models.ImageAsset{}, fmt.Errorf("render slide: %w (error slide: %v)", err, errErr)
		}
	}

	r.logger.Debug(ctx, "Rendered %s slide %q to %s", slide.Kind, slide.Title, outputPath)
	return models.ImageAsset{Path: outputPath}, nil
}

// paint draws the slide layout for its kind.
func (r *implRenderer) paint(slide models.Slide) (img *image.RGBA, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("paint panic: %v", rec)
		}
	}()

	scheme := r.schemeFor(slide.Ordinal)
	switch slide.Kind {
	case models.SlideTitle:
		return r.titleSlide(slide, scheme), nil
	case models.SlideSummary:
		return r.summarySlide(slide, scheme), nil
	case models.SlideContent:
		return r.contentSlide(slide, scheme), nil
	}
	return nil, fmt.Errorf("unknown slide kind %q", slide.Kind)
}

func (r *implRenderer) titleSlide(slide models.Slide, s Scheme) *image.RGBA {
	img := r.background(slide.Background, s)
	y := r.height / 3

	for _, line := range wrap(r.faces.title, slide.Title, r.width-r.px(200)) {
		r.centered(img, r.faces.title, y, line, s.Text)
		y += lineHeight(r.faces.title)
	}
	if slide.Subtitle != "" {
		r.centered(img, r.faces.subtitle, y+r.px(50), slide.Subtitle, s.Accent)
	}

	r.corners(img, s.Accent)
	return img
}

func (r *implRenderer) contentSlide(slide models.Slide, s Scheme) *image.RGBA {
	img := r.background(slide.Background, s)
	left, top := r.px(100), r.px(80)
	bottom := r.height - r.px(100)

	text(img, r.faces.subtitle, left, top, slide.Title, s.Accent)

	y := top + r.px(100)
	step := r.px(50)
	for _, line := range wrap(r.faces.content, slide.Body, r.width-r.px(200)) {
		if y+step > bottom {
			break
		}
		text(img, r.faces.content, left, y, line, s.Text)
		y += step
	}

	if slide.Ordinal > 0 {
		text(img, r.faces.small, r.width-r.px(100), r.height-r.px(60), strconv.Itoa(slide.Ordinal), s.Secondary)
	}
	return img
}

// summarySlide renders each sentence of the body as a bullet.
func (r *implRenderer) summarySlide(slide models.Slide, s Scheme) *image.RGBA {
	img := r.background(slide.Background, s)
	left := r.px(100)
	bottom := r.height - r.px(100)

	y := r.px(100)
	r.centered(img, r.faces.title, y, slide.Title, s.Accent)
	y += r.px(150)

	step := r.px(45)
	for _, sentence := range strings.Split(slide.Body, ". ") {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		for _, line := range wrap(r.faces.content, "• "+sentence, r.width-r.px(200)) {
			if y+step > bottom {
				return img
			}
			text(img, r.faces.content, left, y, line, s.Text)
			y += step
		}
		y += r.px(35)
	}
	return img
}

func (r *implRenderer) errorSlide() *image.RGBA {
	img := r.background(models.BackgroundSolid, Scheme{Background: errorColor})
	r.centered(img, r.faces.title, r.height/2, errorText, hex("#FFFFFF"))
	return img
}

func (r *implRenderer) Thumbnail(ctx context.Context, src, dst string) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}

	b := img.Bounds()
	w, h := fit(b.Dx(), b.Dy(), thumbnailWidth, thumbnailHeight)
	thumb := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(thumb, thumb.Bounds(), img, b, xdraw.Src, nil)

	if err := writePNG(dst, thumb); err != nil {
		return err
	}
	r.logger.Debug(ctx, "Thumbnail %s -> %s (%dx%d)", src, dst, w, h)
	return nil
}

// fit scales w x h down to fit within maxW x maxH keeping the aspect ratio.
func fit(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}
	if w*maxH > h*maxW {
		return maxW, max(1, h*maxW/w)
	}
	return max(1, w*maxH/h), maxH
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}
