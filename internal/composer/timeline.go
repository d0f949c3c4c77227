package composer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/slidecast/internal/models"
)

const maxFade = 1.0

// ScheduleDurations assigns a display duration to each of imageCount clips
// so that they sum to total. Slide durations are used as weights only when
// there is exactly one image per slide; otherwise total is split evenly.
func ScheduleDurations(imageCount int, slides []models.Slide, total float64) []float64 {
	if imageCount <= 0 || total <= 0 {
		return nil
	}

	weights := make([]float64, imageCount)
	if imageCount == len(slides) {
		for i, s := range slides {
			weights[i] = s.DurationSeconds
		}
	} else {
		for i := range weights {
			weights[i] = total / float64(imageCount)
		}
	}

	var sum float64
	for _, w := range weights {
		sum += w
	}
	if !(sum > 0) {
		for i := range weights {
			weights[i] = 1
		}
		sum = float64(imageCount)
	}

	scale := total / sum
	for i := range weights {
		weights[i] *= scale
	}
	return weights
}

// Timeline is the assembly plan for a sequence of clips.
type Timeline struct {
	Durations  []float64
	Transition float64
	// Offsets[k] is where the crossfade into clip k+1 starts.
	Offsets []float64
	// Visual is the clip sequence length once crossfades overlap.
	Visual float64
	Target float64
	// Hold is how long the last frame is frozen to reach Target.
	Hold float64
	Fade float64
}

// Trimmed reports whether the visual track runs past the target and is cut.
func (t Timeline) Trimmed() bool {
	return t.Visual > t.Target
}

// PlanTimeline lays out crossfades for the clip durations and reconciles the
// visual length with target. The transition is clamped to half of the
// shortest clip so offsets stay monotonic.
func PlanTimeline(durations []float64, transition, target float64) Timeline {
	plan := Timeline{
		Durations: append([]float64(nil), durations...),
		Target:    target,
		Fade:      fadeLength(target),
	}
	if len(durations) == 0 {
		plan.Hold = target
		return plan
	}

	if len(durations) > 1 && transition > 0 {
		shortest := durations[0]
		for _, d := range durations[1:] {
			if d < shortest {
				shortest = d
			}
		}
		plan.Transition = transition
		if limit := shortest / 2; plan.Transition > limit {
			plan.Transition = limit
		}
	}

	var elapsed float64
	for i, d := range durations {
		elapsed += d
		if i < len(durations)-1 {
			plan.Offsets = append(plan.Offsets, elapsed-float64(i+1)*plan.Transition)
		}
	}
	plan.Visual = elapsed - float64(len(durations)-1)*plan.Transition

	if plan.Visual < target {
		plan.Hold = target - plan.Visual
	}
	return plan
}

func fadeLength(total float64) float64 {
	if f := total / 10; f < maxFade {
		return f
	}
	return maxFade
}

// BuildFilterGraph renders the ffmpeg filter_complex for plan. Inputs 0..n-1
// are the clips and input n is the narration; outputs are [vout] and [aout].
func BuildFilterGraph(plan Timeline, fps int) string {
	n := len(plan.Durations)
	var parts []string

	for i := 0; i < n; i++ {
		parts = append(parts, fmt.Sprintf("[%d:v]fps=%d,settb=AVTB,setpts=PTS-STARTPTS[v%d]", i, fps, i))
	}

	last := "v0"
	for k, offset := range plan.Offsets {
		out := fmt.Sprintf("x%d", k+1)
		parts = append(parts, fmt.Sprintf("[%s][v%d]xfade=transition=fade:duration=%s:offset=%s[%s]",
			last, k+1, seconds(plan.Transition), seconds(offset), out))
		last = out
	}

	video := []string{}
	if plan.Hold > 0 {
		video = append(video, "tpad=stop_mode=clone:stop_duration="+seconds(plan.Hold))
	}
	if plan.Fade > 0 {
		video = append(video,
			"fade=t=in:st=0:d="+seconds(plan.Fade),
			"fade=t=out:st="+seconds(plan.Target-plan.Fade)+":d="+seconds(plan.Fade),
		)
	}
	video = append(video, "format=yuv420p")
	parts = append(parts, fmt.Sprintf("[%s]%s[vout]", last, strings.Join(video, ",")))

	audio := "anull"
	if plan.Fade > 0 {
		audio = "afade=t=in:st=0:d=" + seconds(plan.Fade) +
			",afade=t=out:st=" + seconds(plan.Target-plan.Fade) + ":d=" + seconds(plan.Fade)
	}
	parts = append(parts, fmt.Sprintf("[%d:a]%s[aout]", n, audio))

	return strings.Join(parts, ";")
}

// seconds formats a duration for ffmpeg arguments.
func seconds(v float64) string {
	if v < 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', 3, 64)
}
