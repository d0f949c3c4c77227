package segmenter

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/nguyentantai21042004/slidecast/internal/config"
	"github.com/nguyentantai21042004/slidecast/internal/logger"
	"github.com/nguyentantai21042004/slidecast/internal/models"
)

type fakeExtractor struct {
	name     string
	keywords []string
	err      error
	panics   bool
}

func (f fakeExtractor) Name() string { return f.name }

func (f fakeExtractor) Extract(_ context.Context, _ string, _ int) ([]string, error) {
	if f.panics {
		panic("extractor exploded")
	}
	return f.keywords, f.err
}

func newTestSegmenter(extractors ...KeywordExtractor) Segmenter {
	return New(config.SlidesConfig{}, logger.Nop(), extractors...)
}

// sentences builds n sentences of exactly words words each.
func sentences(n, words int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		parts := make([]string, words)
		for j := range parts {
			parts[j] = fmt.Sprintf("word%d", j)
		}
		parts[0] = fmt.Sprintf("Sentence%d", i)
		b.WriteString(strings.Join(parts, " "))
		b.WriteString(". ")
	}
	return b.String()
}

func TestSegmentThreeSentences(t *testing.T) {
	seg := newTestSegmenter()
	res := seg.Segment(context.Background(), models.Content{
		Title:  "Short Story",
		Author: "Jane Doe",
		Text:   "The quick brown fox jumps high. The lazy dog sleeps all day. Nobody seems to mind at all.",
	})

	if res.Status != StatusOK {
		t.Fatalf("Status = %v (%s), want ok", res.Status, res.Reason)
	}
	if len(res.Slides) != 2 {
		t.Fatalf("got %d slides, want 2", len(res.Slides))
	}

	title := res.Slides[0]
	if title.Kind != models.SlideTitle || title.Title != "Short Story" || title.Subtitle != "Jane Doe" {
		t.Errorf("title slide = %+v", title)
	}
	if title.DurationSeconds != 4.0 || title.Background != models.BackgroundGradient {
		t.Errorf("title slide duration/background = %v/%v, want 4/gradient", title.DurationSeconds, title.Background)
	}

	content := res.Slides[1]
	if content.Kind != models.SlideContent || content.Ordinal != 1 {
		t.Errorf("content slide kind/ordinal = %v/%d", content.Kind, content.Ordinal)
	}
	if content.DurationSeconds != 3.0 {
		t.Errorf("content duration = %v, want clamped 3.0", content.DurationSeconds)
	}
	if content.Background != models.BackgroundSolid {
		t.Errorf("odd ordinal background = %v, want solid", content.Background)
	}
	if content.Title != "The quick brown fox jumps high" {
		t.Errorf("content title = %q", content.Title)
	}
}

func TestSegmentTwentySentences(t *testing.T) {
	seg := newTestSegmenter()
	res := seg.Segment(context.Background(), models.Content{
		Title: "Long Read",
		Text:  sentences(20, 20),
	})

	if len(res.Slides) != 8 {
		t.Fatalf("got %d slides, want 8", len(res.Slides))
	}
	last := res.Slides[len(res.Slides)-1]
	if last.Kind != models.SlideSummary {
		t.Fatalf("last slide kind = %v, want summary", last.Kind)
	}
	if last.Title != "Key Points" || last.DurationSeconds != 5.0 {
		t.Errorf("summary = %q/%v, want Key Points/5.0", last.Title, last.DurationSeconds)
	}
	if !strings.HasPrefix(last.Body, "Sentence0 ") || !strings.Contains(last.Body, "Sentence10 ") || !strings.Contains(last.Body, "Sentence19 ") {
		t.Errorf("summary body = %q, want first, middle and last sentence", last.Body)
	}
	for i, s := range res.Slides[1 : len(res.Slides)-1] {
		if s.Kind != models.SlideContent || s.Ordinal != i+1 {
			t.Errorf("slide %d = %v ordinal %d", i+1, s.Kind, s.Ordinal)
		}
	}
}

func TestSegmentSummaryThreshold(t *testing.T) {
	tests := []struct {
		name        string
		count       int
		wantSummary bool
	}{
		{"five sentences", 5, false},
		{"six sentences", 6, true},
	}

	seg := newTestSegmenter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := seg.Segment(context.Background(), models.Content{Title: "T", Text: sentences(tt.count, 5)})
			last := res.Slides[len(res.Slides)-1]
			if got := last.Kind == models.SlideSummary; got != tt.wantSummary {
				t.Errorf("summary present = %v, want %v", got, tt.wantSummary)
			}
		})
	}
}

func TestSegmentTitleSlideTruncated(t *testing.T) {
	long := strings.Repeat("A Very Long Headline ", 7)
	text := "The quick brown fox jumps high. The lazy dog sleeps all day. Nobody seems to mind at all."

	tests := []struct {
		name    string
		content models.Content
	}{
		{"normal", models.Content{Title: long, Text: text}},
		{"fallback", models.Content{Title: long}},
	}

	seg := newTestSegmenter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title := seg.Segment(context.Background(), tt.content).Slides[0].Title
			if n := utf8.RuneCountInString(title); n != 40 {
				t.Errorf("title runes = %d, want 40: %q", n, title)
			}
			if !strings.HasSuffix(title, "...") || !strings.HasPrefix(title, "A Very Long Headline") {
				t.Errorf("title = %q", title)
			}
		})
	}
}

func TestSegmentFallback(t *testing.T) {
	tests := []struct {
		name       string
		content    models.Content
		wantStatus Status
		wantTitle  string
	}{
		{"empty text", models.Content{Title: "Empty"}, StatusEmpty, "Empty"},
		{"whitespace only", models.Content{Text: " \n\t "}, StatusEmpty, "Untitled"},
		{"only fragments", models.Content{Title: "Bits", Text: "Hi there. Ok go. Yes."}, StatusDegraded, "Bits"},
		{"symbols only", models.Content{Title: "Noise", Text: "@@@ ### $$$"}, StatusEmpty, "Noise"},
	}

	seg := newTestSegmenter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := seg.Segment(context.Background(), tt.content)
			if res.Status != tt.wantStatus {
				t.Errorf("Status = %v, want %v", res.Status, tt.wantStatus)
			}
			if len(res.Slides) != 1 {
				t.Fatalf("got %d slides, want 1", len(res.Slides))
			}
			s := res.Slides[0]
			if s.Kind != models.SlideTitle || s.Title != tt.wantTitle {
				t.Errorf("fallback slide = %v %q", s.Kind, s.Title)
			}
			if s.Subtitle != "Content Processing Error" || s.DurationSeconds != 5.0 {
				t.Errorf("fallback subtitle/duration = %q/%v", s.Subtitle, s.DurationSeconds)
			}
		})
	}
}

func TestSegmentPanicFallsBack(t *testing.T) {
	seg := newTestSegmenter(fakeExtractor{name: "boom", panics: true})
	res := seg.Segment(context.Background(), models.Content{Title: "T", Text: sentences(3, 6)})

	if res.Status != StatusDegraded {
		t.Errorf("Status = %v, want degraded", res.Status)
	}
	if len(res.Slides) != 1 || res.Slides[0].Subtitle != "Content Processing Error" {
		t.Errorf("slides = %+v, want fallback", res.Slides)
	}
}

func TestSegmentInvariants(t *testing.T) {
	inputs := []string{
		"",
		"One two three four.",
		sentences(1, 120),
		sentences(7, 3),
		sentences(12, 9),
		sentences(40, 4),
		sentences(3, 60),
		"No terminal punctuation but still more than four words here",
		"Version 2.5 shipped today with many fixes! Really? Yes, it did... and it works.",
	}

	for _, maxSlides := range []int{1, 2, 3, 8} {
		seg := New(config.SlidesConfig{MaxSlides: maxSlides}, logger.Nop())
		for i, text := range inputs {
			t.Run(fmt.Sprintf("max%d/input%d", maxSlides, i), func(t *testing.T) {
				res := seg.Segment(context.Background(), models.Content{Title: "T", Text: text})
				if err := models.ValidateSequence(res.Slides, maxSlides); err != nil {
					t.Errorf("invalid sequence: %v", err)
				}
			})
		}
	}
}

func TestContentPacking(t *testing.T) {
	const budget = 50
	seg := New(config.SlidesConfig{WordsPerSlide: budget, MaxSlides: 100}, logger.Nop())

	text := sentences(5, 12) + sentences(1, 70) + sentences(4, 30)
	res := seg.Segment(context.Background(), models.Content{Title: "T", Text: text})

	var counts []int
	for _, s := range res.Slides {
		if s.Kind != models.SlideContent {
			continue
		}
		counts = append(counts, s.WordCount())
		if n := s.WordCount(); n > budget && n != 70 {
			t.Errorf("slide %d has %d words, budget %d", s.Ordinal, n, budget)
		}
		if s.DurationSeconds < 3.0 || s.DurationSeconds > 8.0 {
			t.Errorf("slide %d duration %v out of bounds", s.Ordinal, s.DurationSeconds)
		}
	}

	want := []int{48, 12, 70, 30, 30, 30, 30}
	if !reflect.DeepEqual(counts, want) {
		t.Errorf("word counts = %v, want %v", counts, want)
	}
}

func TestSlideKeywords(t *testing.T) {
	seg := newTestSegmenter(fakeExtractor{name: "fixed", keywords: []string{"Rocket", "launch", "orbit", "moon"}})
	res := seg.Segment(context.Background(), models.Content{
		Title: "Space",
		Text:  "The rocket launch went well today. It reached orbit before noon.",
	})

	if got := res.Slides[0].Keywords; !reflect.DeepEqual(got, []string{"Rocket", "launch", "orbit"}) {
		t.Errorf("title keywords = %v", got)
	}
	if got := res.Slides[1].Keywords; !reflect.DeepEqual(got, []string{"Rocket", "launch", "orbit"}) {
		t.Errorf("content keywords = %v", got)
	}
}

func TestExtractorChain(t *testing.T) {
	text := "Rust rust rust compilers compilers golang."

	tests := []struct {
		name       string
		extractors []KeywordExtractor
		want       []string
	}{
		{
			name:       "first success wins",
			extractors: []KeywordExtractor{fakeExtractor{name: "a", keywords: []string{"alpha"}}, fakeExtractor{name: "b", keywords: []string{"beta"}}},
			want:       []string{"alpha"},
		},
		{
			name:       "error falls through",
			extractors: []KeywordExtractor{fakeExtractor{name: "a", err: errors.New("quota")}, fakeExtractor{name: "b", keywords: []string{"beta"}}},
			want:       []string{"beta"},
		},
		{
			name:       "empty falls through to frequency",
			extractors: []KeywordExtractor{fakeExtractor{name: "a", keywords: []string{"", "x"}}},
			want:       []string{"rust", "compilers", "golang"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seg := New(config.SlidesConfig{}, logger.Nop(), tt.extractors...).(*implSegmenter)
			got := seg.extractKeywords(context.Background(), text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("extractKeywords() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFrequencyExtractor(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
		want []string
	}{
		{"ranked by frequency", "Python golang rust rust rust golang", 10, []string{"rust", "golang", "python"}},
		{"ties keep first occurrence", "zebra apple mango", 10, []string{"zebra", "apple", "mango"}},
		{"stopwords and short tokens dropped", "The cat and the dog ran to it", 10, []string{"cat", "dog", "ran"}},
		{"capped", "one1 alpha beta gamma delta", 2, []string{"one", "alpha"}},
		{"empty", "", 10, []string{}},
	}

	ex := NewFrequencyExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ex.Extract(context.Background(), tt.text, tt.max)
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCleanKeywords(t *testing.T) {
	got := CleanKeywords([]string{" Go ", "Rust", "rust", "Kubernetes", "  ", "Docker"}, 2)
	want := []string{"Rust", "Kubernetes"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CleanKeywords() = %v, want %v", got, want)
	}
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello\n\tworld @ 2024...  ok", "Hello world 2024. ok"},
		{"  keep (these), too; fine: yes-no!  ", "keep (these), too; fine: yes-no!"},
		{"Café naïve ünïcode", "Café naïve ünïcode"},
	}

	for _, tt := range tests {
		if got := normalizeText(tt.in); got != tt.want {
			t.Errorf("normalizeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitSentences(t *testing.T) {
	text := "This is the first one. Short. This is the third sentence! Version 2.5 is out today? Trailing words without a stop"
	got := splitSentences(text)
	want := []string{
		"This is the first one.",
		"This is the third sentence!",
		"Version 2.5 is out today?",
		"Trailing words without a stop",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitSentences() = %q, want %q", got, want)
	}
}

func TestSlideTitle(t *testing.T) {
	tests := []struct {
		name     string
		sentence string
		ordinal  int
		want     string
	}{
		{"first six words", "One two three four five six seven eight.", 1, "One two three four five six"},
		{"punctuation stripped", "Hello, world: this is (great)!", 1, "Hello world this is great"},
		{"truncated", "Internationalization considerations overwhelm everyone involved here.", 1, "Internationalization considerations o..."},
		{"empty falls back", "!!! ... ???", 3, "Section 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slideTitle(tt.sentence, tt.ordinal)
			if got != tt.want {
				t.Errorf("slideTitle() = %q, want %q", got, tt.want)
			}
			if n := len([]rune(got)); n > 40 {
				t.Errorf("title has %d runes", n)
			}
		})
	}
}

func TestStats(t *testing.T) {
	slides := []models.Slide{
		{Kind: models.SlideTitle, DurationSeconds: 4},
		{Kind: models.SlideContent, Body: "one two three four", DurationSeconds: 3, Ordinal: 1},
		{Kind: models.SlideSummary, Body: "five six", DurationSeconds: 5},
	}

	if got := EstimateDuration(slides); got != 12 {
		t.Errorf("EstimateDuration() = %v, want 12", got)
	}

	st := ComputeStats(slides)
	if st.TotalSlides != 3 || st.TotalWords != 6 || st.AverageDurationPerSlide != 4 || st.AverageWordsPerSlide != 2 {
		t.Errorf("ComputeStats() = %+v", st)
	}

	if st := ComputeStats(nil); st.AverageWordsPerSlide != 0 {
		t.Errorf("ComputeStats(nil) = %+v", st)
	}
}
