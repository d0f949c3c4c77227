package composer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/nguyentantai21042004/slidecast/internal/config"
	"github.com/nguyentantai21042004/slidecast/internal/logger"
	"github.com/nguyentantai21042004/slidecast/internal/models"
)

// fakeExecutor answers ffprobe with a fixed duration and makes ffmpeg write
// a few bytes to its output path (the last argument).
type fakeExecutor struct {
	mu       sync.Mutex
	calls    [][]string
	duration string
	probeErr error
	fail     func(args []string) bool
	// empty makes matching encodes exit cleanly with a zero-byte file.
	empty func(args []string) bool
}

func (f *fakeExecutor) Execute(_ context.Context, name string, args ...string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string{name}, args...))
	f.mu.Unlock()

	if name == "ffprobe" {
		if f.probeErr != nil {
			return "", f.probeErr
		}
		return fmt.Sprintf(`{"streams":[{"codec_type":"audio"}],"format":{"duration":%q}}`, f.duration), nil
	}

	if f.fail != nil && f.fail(args) {
		return "", errors.New("exit status 1")
	}
	data := []byte("encoded")
	if f.empty != nil && f.empty(args) {
		data = nil
	}
	if err := os.WriteFile(args[len(args)-1], data, 0644); err != nil {
		return "", err
	}
	return "", nil
}

func (f *fakeExecutor) ExecuteInDir(ctx context.Context, _ string, name string, args ...string) (string, error) {
	return f.Execute(ctx, name, args...)
}

// ffmpegCalls returns the joined argument lists of ffmpeg invocations.
func (f *fakeExecutor) ffmpegCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.calls {
		if c[0] == "ffmpeg" {
			out = append(out, strings.Join(c[1:], " "))
		}
	}
	return out
}

func containsArg(args []string, want string) bool {
	for _, a := range args {
		if strings.Contains(a, want) {
			return true
		}
	}
	return false
}

func testVideoConfig() config.VideoConfig {
	return config.VideoConfig{FPS: 24, Width: 1920, Height: 1080, TransitionDuration: 0.5}
}

func testSlides(durations ...float64) []models.Slide {
	slides := make([]models.Slide, len(durations))
	for i, d := range durations {
		slides[i] = models.Slide{Kind: models.SlideContent, DurationSeconds: d, Background: models.BackgroundSolid, Ordinal: i}
	}
	slides[0].Kind = models.SlideTitle
	return slides
}

// fixture creates n slide images and a narration file in a temp dir.
func fixture(t *testing.T, n int) (dir string, images []models.ImageAsset, narration models.AudioAsset) {
	t.Helper()
	dir = t.TempDir()
	for i := 0; i < n; i++ {
		p := filepath.Join(dir, fmt.Sprintf("slide_%d.png", i))
		if err := os.WriteFile(p, []byte("png"), 0644); err != nil {
			t.Fatal(err)
		}
		images = append(images, models.ImageAsset{Path: p})
	}
	audio := filepath.Join(dir, "narration.wav")
	if err := os.WriteFile(audio, []byte("wav"), 0644); err != nil {
		t.Fatal(err)
	}
	return dir, images, models.AudioAsset{Path: audio, DurationSeconds: 11}
}

func sum(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x
	}
	return s
}

func TestScheduleDurations(t *testing.T) {
	tests := []struct {
		name   string
		images int
		slides []models.Slide
		total  float64
		want   []float64
	}{
		{"weights rescaled", 3, testSlides(4, 3, 3), 20, []float64{8, 6, 6}},
		{"already matching", 4, testSlides(4, 3, 3, 2), 12, []float64{4, 3, 3, 2}},
		{"more images than slides", 3, testSlides(4, 8), 9, []float64{3, 3, 3}},
		{"fewer images than slides", 2, testSlides(4, 3, 3), 7, []float64{3.5, 3.5}},
		{"no images", 0, testSlides(4), 7, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScheduleDurations(tt.images, tt.slides, tt.total)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d durations, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-9 {
					t.Errorf("durations[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestScheduleDurationsProperties(t *testing.T) {
	weights := []float64{4, 3.7, 8, 3, 5, 6.2, 3.3, 5}
	for _, total := range []float64{0.5, 7.3, 12, 41.25, 600} {
		got := ScheduleDurations(len(weights), testSlides(weights...), total)

		if rel := math.Abs(sum(got)-total) / total; rel > 1e-6 {
			t.Errorf("total %v: sum = %v (relative error %g)", total, sum(got), rel)
		}
		for i := range weights {
			for j := range weights {
				if math.Abs(got[i]/got[j]-weights[i]/weights[j]) > 1e-9 {
					t.Errorf("total %v: ratio %d/%d not preserved", total, i, j)
				}
			}
		}
	}
}

func TestPlanTimeline(t *testing.T) {
	t.Run("shortfall is held", func(t *testing.T) {
		plan := PlanTimeline([]float64{3, 3, 3, 3}, 0.5, 12)
		if math.Abs(plan.Visual-10.5) > 1e-9 {
			t.Errorf("Visual = %v, want 10.5", plan.Visual)
		}
		if math.Abs(plan.Hold-1.5) > 1e-9 {
			t.Errorf("Hold = %v, want 1.5", plan.Hold)
		}
		if math.Abs(plan.Visual+plan.Hold-12) > 1e-9 {
			t.Errorf("final length = %v, want 12", plan.Visual+plan.Hold)
		}
		want := []float64{2.5, 5, 7.5}
		for i := range want {
			if math.Abs(plan.Offsets[i]-want[i]) > 1e-9 {
				t.Errorf("Offsets[%d] = %v, want %v", i, plan.Offsets[i], want[i])
			}
		}
		if plan.Fade != 1.0 || plan.Trimmed() {
			t.Errorf("Fade = %v, Trimmed = %v", plan.Fade, plan.Trimmed())
		}
	})

	t.Run("transition clamped to half the shortest clip", func(t *testing.T) {
		plan := PlanTimeline([]float64{0.6, 4}, 0.5, 4.6)
		if math.Abs(plan.Transition-0.3) > 1e-9 {
			t.Errorf("Transition = %v, want 0.3", plan.Transition)
		}
	})

	t.Run("single clip has no transition", func(t *testing.T) {
		plan := PlanTimeline([]float64{5}, 0.5, 5)
		if plan.Transition != 0 || len(plan.Offsets) != 0 || plan.Hold != 0 {
			t.Errorf("plan = %+v", plan)
		}
		if plan.Fade != 0.5 {
			t.Errorf("Fade = %v, want 0.5", plan.Fade)
		}
	})

	t.Run("excess is trimmed", func(t *testing.T) {
		plan := PlanTimeline([]float64{7, 7}, 0.5, 12)
		if !plan.Trimmed() || plan.Hold != 0 {
			t.Errorf("Trimmed = %v, Hold = %v", plan.Trimmed(), plan.Hold)
		}
	})
}

func TestBuildFilterGraph(t *testing.T) {
	graph := BuildFilterGraph(PlanTimeline([]float64{3, 3, 3, 3}, 0.5, 12), 24)

	for _, want := range []string{
		"[0:v]fps=24,settb=AVTB,setpts=PTS-STARTPTS[v0]",
		"[v0][v1]xfade=transition=fade:duration=0.500:offset=2.500[x1]",
		"[x2][v3]xfade=transition=fade:duration=0.500:offset=7.500[x3]",
		"[x3]tpad=stop_mode=clone:stop_duration=1.500,fade=t=in:st=0:d=1.000,fade=t=out:st=11.000:d=1.000,format=yuv420p[vout]",
		"[4:a]afade=t=in:st=0:d=1.000,afade=t=out:st=11.000:d=1.000[aout]",
	} {
		if !strings.Contains(graph, want) {
			t.Errorf("graph missing %q\ngraph: %s", want, graph)
		}
	}

	single := BuildFilterGraph(PlanTimeline([]float64{5}, 0.5, 5), 24)
	if strings.Contains(single, "xfade") || strings.Contains(single, "tpad") {
		t.Errorf("single clip graph = %s", single)
	}
	if !strings.Contains(single, "[v0]fade=t=in") {
		t.Errorf("single clip graph should fade v0 directly: %s", single)
	}
}

func TestCompose(t *testing.T) {
	dir, images, narration := fixture(t, 4)
	exec := &fakeExecutor{duration: "12.000000"}
	c := New(testVideoConfig(), 2, exec, logger.Nop())

	out := filepath.Join(dir, "out", "video.mp4")
	video, err := c.Compose(context.Background(), images, narration, testSlides(4, 3, 3, 2), out)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	if video.Degraded || video.Path != out || video.DurationSeconds != 12 {
		t.Errorf("video = %+v", video)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output missing: %v", err)
	}

	entries, _ := os.ReadDir(filepath.Dir(out))
	if len(entries) != 1 {
		t.Errorf("output dir has %d entries, want only the video", len(entries))
	}

	calls := exec.ffmpegCalls()
	if len(calls) != 5 {
		t.Fatalf("got %d ffmpeg calls, want 4 clips + 1 assembly", len(calls))
	}
	assembly := calls[len(calls)-1]
	for _, want := range []string{"-filter_complex", "-t 12.000", "-c:v libx264", "-pix_fmt yuv420p", "-c:a aac", "-r 24", "-s 1920x1080"} {
		if !strings.Contains(assembly, want) {
			t.Errorf("assembly args missing %q", want)
		}
	}
}

func TestComposeMissingImageUsesPlaceholder(t *testing.T) {
	dir, images, narration := fixture(t, 4)
	images[1].Path = filepath.Join(dir, "missing.png")

	exec := &fakeExecutor{duration: "12"}
	c := New(testVideoConfig(), 1, exec, logger.Nop())

	video, err := c.Compose(context.Background(), images, narration, testSlides(4, 3, 3, 2), filepath.Join(dir, "video.mp4"))
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if video.Degraded {
		t.Errorf("placeholder substitution should not degrade the video: %s", video.Reason)
	}

	var placeholder string
	for _, call := range exec.ffmpegCalls() {
		if strings.Contains(call, "color=c=0x323232") {
			placeholder = call
		}
	}
	if placeholder == "" {
		t.Fatal("no placeholder clip was encoded")
	}
	if !strings.Contains(placeholder, "d=3.000") || !strings.Contains(placeholder, "-t 3.000") {
		t.Errorf("placeholder should keep the scheduled 3s duration: %s", placeholder)
	}
	if !strings.Contains(placeholder, "Slide 2") {
		t.Errorf("placeholder should be captioned with the slide number: %s", placeholder)
	}
}

func TestComposePlaceholderWithoutCaption(t *testing.T) {
	dir, images, narration := fixture(t, 2)
	images[0].Path = ""

	exec := &fakeExecutor{
		duration: "8",
		fail: func(args []string) bool {
			return containsArg(args, "drawtext")
		},
	}
	c := New(testVideoConfig(), 1, exec, logger.Nop())

	video, err := c.Compose(context.Background(), images, narration, testSlides(4, 4), filepath.Join(dir, "video.mp4"))
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if video.Degraded {
		t.Errorf("caption retry should succeed, got degraded: %s", video.Reason)
	}
}

func TestComposeAssemblyFailureFallsBack(t *testing.T) {
	dir, images, narration := fixture(t, 3)
	exec := &fakeExecutor{
		duration: "9.5",
		fail: func(args []string) bool {
			return containsArg(args, "-filter_complex")
		},
	}
	c := New(testVideoConfig(), 2, exec, logger.Nop())

	out := filepath.Join(dir, "video.mp4")
	video, err := c.Compose(context.Background(), images, narration, testSlides(4, 3, 3), out)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	if !video.Degraded || video.Reason == "" {
		t.Errorf("video = %+v, want degraded with reason", video)
	}
	if video.DurationSeconds != 9.5 {
		t.Errorf("DurationSeconds = %v, want 9.5", video.DurationSeconds)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("fallback output missing: %v", err)
	}

	var fallback string
	for _, call := range exec.ffmpegCalls() {
		if strings.Contains(call, "color=c=0x003264") {
			fallback = call
		}
	}
	if !strings.Contains(fallback, "Video Generation Error") || !strings.Contains(fallback, narration.Path) {
		t.Errorf("fallback call = %q", fallback)
	}
}

func TestComposeFallbackFailure(t *testing.T) {
	dir, images, narration := fixture(t, 2)
	exec := &fakeExecutor{
		duration: "6",
		fail:     func([]string) bool { return true },
	}
	c := New(testVideoConfig(), 1, exec, logger.Nop())

	out := filepath.Join(dir, "video.mp4")
	_, err := c.Compose(context.Background(), images, narration, testSlides(3, 3), out)
	if err == nil {
		t.Fatal("Compose() should fail when the fallback cannot be written")
	}
	if errors.Is(err, ErrNarrationUnavailable) {
		t.Errorf("error = %v, should not be a narration failure", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Errorf("no output should exist, stat = %v", statErr)
	}
}

func TestComposeEmptyEncodeOutput(t *testing.T) {
	isAssembly := func(args []string) bool { return containsArg(args, "-filter_complex") }
	isFallback := func(args []string) bool { return containsArg(args, "color=c=0x003264") }

	tests := []struct {
		name      string
		empty     func(args []string) bool
		wantErr   bool
		wantBytes int64
	}{
		{
			name:      "empty assembly falls back",
			empty:     isAssembly,
			wantBytes: int64(len("encoded")),
		},
		{
			name:    "empty fallback fails",
			empty:   func(args []string) bool { return isAssembly(args) || isFallback(args) },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, images, narration := fixture(t, 2)
			exec := &fakeExecutor{duration: "6", empty: tt.empty}
			c := New(testVideoConfig(), 1, exec, logger.Nop())

			out := filepath.Join(dir, "video.mp4")
			video, err := c.Compose(context.Background(), images, narration, testSlides(3, 3), out)

			if _, statErr := os.Stat(out + ".part"); !os.IsNotExist(statErr) {
				t.Errorf("temporary file left behind, stat = %v", statErr)
			}
			if tt.wantErr {
				if err == nil {
					t.Fatal("Compose() should fail when every encode is empty")
				}
				if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
					t.Errorf("no output should exist, stat = %v", statErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("Compose() error = %v", err)
			}
			if !video.Degraded || !strings.Contains(video.Reason, "empty") {
				t.Errorf("video = %+v, want degraded for empty encode", video)
			}
			info, statErr := os.Stat(out)
			if statErr != nil || info.Size() != tt.wantBytes {
				t.Errorf("output = %v, %v; want %d bytes", info, statErr, tt.wantBytes)
			}
		})
	}
}

func TestComposeNarrationUnavailable(t *testing.T) {
	tests := []struct {
		name      string
		exec      *fakeExecutor
		narration func(models.AudioAsset) models.AudioAsset
	}{
		{
			name: "probe fails",
			exec: &fakeExecutor{probeErr: errors.New("invalid data")},
		},
		{
			name: "zero duration",
			exec: &fakeExecutor{duration: "0"},
		},
		{
			name: "file missing",
			exec: &fakeExecutor{duration: "5"},
			narration: func(a models.AudioAsset) models.AudioAsset {
				a.Path += ".gone"
				return a
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, images, narration := fixture(t, 2)
			if tt.narration != nil {
				narration = tt.narration(narration)
			}
			c := New(testVideoConfig(), 1, tt.exec, logger.Nop())

			out := filepath.Join(dir, "video.mp4")
			_, err := c.Compose(context.Background(), images, narration, testSlides(3, 3), out)
			if !errors.Is(err, ErrNarrationUnavailable) {
				t.Fatalf("error = %v, want ErrNarrationUnavailable", err)
			}
			if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
				t.Errorf("no output should exist, stat = %v", statErr)
			}
			if calls := tt.exec.ffmpegCalls(); len(calls) != 0 {
				t.Errorf("ffmpeg should not run, got %d calls", len(calls))
			}
		})
	}
}

func TestComposeNoImagesFallsBack(t *testing.T) {
	dir, _, narration := fixture(t, 0)
	c := New(testVideoConfig(), 1, &fakeExecutor{duration: "4"}, logger.Nop())

	video, err := c.Compose(context.Background(), nil, narration, testSlides(4), filepath.Join(dir, "video.mp4"))
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if !video.Degraded {
		t.Error("composing without images should produce the fallback video")
	}
}

func TestClipFilterKenBurns(t *testing.T) {
	cfg := testVideoConfig()
	cfg.KenBurns = true
	c := New(cfg, 1, &fakeExecutor{}, logger.Nop()).(*implComposer)

	filter := c.clipFilter(2)
	if !strings.Contains(filter, "zoompan=z='1+0.1*on/49'") || !strings.Contains(filter, "s=1920x1080") {
		t.Errorf("clipFilter() = %s", filter)
	}

	cfg.KenBurns = false
	c = New(cfg, 1, &fakeExecutor{}, logger.Nop()).(*implComposer)
	if strings.Contains(c.clipFilter(2), "zoompan") {
		t.Error("zoompan should be off when Ken-Burns is disabled")
	}
}

func TestEscapeDrawText(t *testing.T) {
	if got := escapeDrawText("It's 50%: done"); got != `It\'s 50\%\: done` {
		t.Errorf("escapeDrawText() = %s", got)
	}
}

func TestPreview(t *testing.T) {
	dir := t.TempDir()
	exec := &fakeExecutor{}
	c := New(testVideoConfig(), 1, exec, logger.Nop())

	dst := filepath.Join(dir, "preview.mp4")
	if err := c.Preview(context.Background(), filepath.Join(dir, "in.mp4"), dst, 0); err != nil {
		t.Fatalf("Preview() error = %v", err)
	}
	if calls := exec.ffmpegCalls(); len(calls) != 1 || !strings.Contains(calls[0], "-t 10.000") {
		t.Errorf("preview calls = %v", calls)
	}
	if _, err := os.Stat(dst); err != nil {
		t.Errorf("preview missing: %v", err)
	}
}
