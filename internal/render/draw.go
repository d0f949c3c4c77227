package render

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/nguyentantai21042004/slidecast/internal/models"
)

const shadowOffset = 3

// background paints a vertical background-to-primary gradient or a solid
// fill.
func (r *implRenderer) background(style models.BackgroundStyle, s Scheme) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	if style != models.BackgroundGradient {
		draw.Draw(img, img.Bounds(), image.NewUniform(s.Background), image.Point{}, draw.Src)
		return img
	}
	for y := 0; y < r.height; y++ {
		c := lerp(s.Background, s.Primary, float64(y)/float64(r.height))
		draw.Draw(img, image.Rect(0, y, r.width, y+1), image.NewUniform(c), image.Point{}, draw.Src)
	}
	return img
}

// text draws s with its top-left corner at (x, y) and a drop shadow.
func text(img draw.Image, face font.Face, x, y int, s string, c color.Color) {
	baseline := y + face.Metrics().Ascent.Ceil()
	for _, pass := range []struct {
		dx  int
		col color.Color
	}{
		{shadowOffset, shadowColor},
		{0, c},
	} {
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(pass.col),
			Face: face,
			Dot:  fixed.P(x+pass.dx, baseline+pass.dx),
		}
		d.DrawString(s)
	}
}

// centered draws s horizontally centered at top y.
func (r *implRenderer) centered(img draw.Image, face font.Face, y int, s string, c color.Color) {
	w := font.MeasureString(face, s).Ceil()
	text(img, face, (r.width-w)/2, y, s, c)
}

func lineHeight(face font.Face) int {
	return face.Metrics().Height.Ceil()
}

// wrap breaks s into lines no wider than max pixels. A word wider than
// max gets a line of its own.
func wrap(face font.Face, s string, max int) []string {
	var lines []string
	var current []string
	for _, word := range strings.Fields(s) {
		candidate := strings.Join(append(current, word), " ")
		if font.MeasureString(face, candidate).Ceil() <= max || len(current) == 0 {
			current = append(current, word)
			continue
		}
		lines = append(lines, strings.Join(current, " "))
		current = []string{word}
	}
	if len(current) > 0 {
		lines = append(lines, strings.Join(current, " "))
	}
	return lines
}

// corners draws the accent brackets in the top-left and bottom-right.
func (r *implRenderer) corners(img draw.Image, c color.Color) {
	u := image.NewUniform(c)
	long, short := r.px(100), r.px(20)
	w, h := r.width, r.height
	for _, rect := range []image.Rectangle{
		image.Rect(0, 0, long, short),
		image.Rect(0, 0, short, long),
		image.Rect(w-long, h-short, w, h),
		image.Rect(w-short, h-long, w, h),
	} {
		draw.Draw(img, rect, u, image.Point{}, draw.Src)
	}
}

// px scales a 1080p pixel measure to the output height.
func (r *implRenderer) px(v int) int {
	return v * r.height / baseHeight
}
