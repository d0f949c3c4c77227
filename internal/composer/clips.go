package composer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/nguyentantai21042004/slidecast/pkg/semaphore"
)

const (
	placeholderColor = "0x323232"
	fallbackColor    = "0x003264"
	// kenBurnsZoom is the zoom reached at the end of each clip.
	kenBurnsZoom = 0.1
)

// buildClips encodes one clip per image at its scheduled duration. Clip
// failures are replaced by placeholders; an error is returned only when
// even the placeholder could not be produced.
func (c *implComposer) buildClips(ctx context.Context, dir string, images []string, durations []float64) ([]string, error) {
	clips := make([]string, len(images))
	errs := make([]error, len(images))
	sem := semaphore.New(c.concurrency)

	var (
		wg      sync.WaitGroup
		waitErr error
	)
	for i := range images {
		if waitErr = sem.Acquire(ctx); waitErr != nil {
			break
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer sem.Release()
			clips[i], errs[i] = c.buildClip(ctx, dir, i, images[i], durations[i])
		}(i)
	}
	wg.Wait()
	if waitErr != nil {
		return nil, waitErr
	}

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("clip %d: %w", i+1, err)
		}
	}
	return clips, nil
}

func (c *implComposer) buildClip(ctx context.Context, dir string, index int, image string, duration float64) (string, error) {
	out := filepath.Join(dir, fmt.Sprintf("clip_%03d.mp4", index))

	if err := checkImage(image); err != nil {
		c.logger.Warn(ctx, "Slide %d image unusable, using placeholder: %v", index+1, err)
		return out, c.placeholderClip(ctx, out, index, duration)
	}

	args := []string{
		"-y",
		"-loop", "1",
		"-framerate", strconv.Itoa(c.cfg.FPS),
		"-i", image,
		"-t", seconds(duration),
		"-vf", c.clipFilter(duration),
		"-r", strconv.Itoa(c.cfg.FPS),
		"-c:v", c.cfg.Codec,
		"-preset", c.cfg.Preset,
		"-pix_fmt", "yuv420p",
		"-an",
		out,
	}
	if _, err := c.executor.Execute(ctx, "ffmpeg", args...); err != nil {
		c.logger.Warn(ctx, "Slide %d clip encode failed, using placeholder: %v", index+1, err)
		return out, c.placeholderClip(ctx, out, index, duration)
	}

	c.logger.Debug(ctx, "Clip %d encoded (%ss)", index+1, seconds(duration))
	return out, nil
}

// clipFilter scales and pads to the output frame, adding a slow zoom when
// Ken-Burns is enabled.
func (c *implComposer) clipFilter(duration float64) string {
	w, h := c.cfg.Width, c.cfg.Height
	filter := fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2:color=black,setsar=1", w, h, w, h)
	if !c.cfg.KenBurns {
		return filter
	}

	frames := int(duration*float64(c.cfg.FPS)) + 1
	return filter + fmt.Sprintf(
		",zoompan=z='1+%g*on/%d':x='iw/2-(iw/zoom/2)':y='ih/2-(ih/zoom/2)':d=1:s=%dx%d:fps=%d",
		kenBurnsZoom, frames, w, h, c.cfg.FPS,
	)
}

// placeholderClip writes a flat clip captioned with the slide number. The
// caption is dropped if drawtext is unavailable.
func (c *implComposer) placeholderClip(ctx context.Context, out string, index int, duration float64) error {
	caption := fmt.Sprintf("Slide %d", index+1)
	return c.solidClip(ctx, out, placeholderColor, caption, duration, "")
}

// solidClip renders a solid color clip, optionally with a centered caption
// and an audio track. It retries without the caption on failure.
func (c *implComposer) solidClip(ctx context.Context, out, color, caption string, duration float64, audio string) error {
	source := fmt.Sprintf("color=c=%s:s=%dx%d:r=%d:d=%s", color, c.cfg.Width, c.cfg.Height, c.cfg.FPS, seconds(duration))

	build := func(withCaption bool) []string {
		args := []string{"-y", "-f", "lavfi", "-i", source}
		if audio != "" {
			args = append(args, "-i", audio)
		}
		if withCaption {
			args = append(args, "-vf", drawText(caption, c.cfg.Height))
		}
		args = append(args,
			"-t", seconds(duration),
			"-r", strconv.Itoa(c.cfg.FPS),
			"-c:v", c.cfg.Codec,
			"-preset", c.cfg.Preset,
			"-pix_fmt", "yuv420p",
		)
		if audio != "" {
			args = append(args, "-map", "0:v", "-map", "1:a", "-c:a", c.cfg.AudioCodec, "-f", "mp4")
		} else {
			args = append(args, "-an")
		}
		return append(args, out)
	}

	if caption != "" {
		_, err := c.executor.Execute(ctx, "ffmpeg", build(true)...)
		if err == nil {
			return nil
		}
		c.logger.Warn(ctx, "Captioned clip failed, retrying without caption: %v", err)
	}
	if _, err := c.executor.Execute(ctx, "ffmpeg", build(false)...); err != nil {
		return fmt.Errorf("solid clip: %w", err)
	}
	return nil
}

func drawText(text string, height int) string {
	size := height / 20
	if size < 12 {
		size = 12
	}
	return fmt.Sprintf("drawtext=text='%s':fontcolor=white:fontsize=%d:x=(w-text_w)/2:y=(h-text_h)/2", escapeDrawText(text), size)
}

func escapeDrawText(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case '\\', '\'', ':', '%':
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}

func checkImage(path string) error {
	if path == "" {
		return fmt.Errorf("no image path")
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() || info.Size() == 0 {
		return fmt.Errorf("%s is not a usable image", path)
	}
	return nil
}
