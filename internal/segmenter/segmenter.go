package segmenter

import (
	"context"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/slidecast/internal/models"
)

const (
	titleSlideDuration    = 4.0
	summarySlideDuration  = 5.0
	fallbackSlideDuration = 5.0
	wordsPerSecond        = 10.0
	minSummarySentences   = 6
	slideKeywordLimit     = 3
	summaryKeywordLimit   = 5

	defaultTitle     = "Untitled"
	summaryTitle     = "Key Points"
	fallbackSubtitle = "Content Processing Error"
	fallbackBody     = "Unable to process the provided content."
)

// Segment builds the slide sequence for content. It never fails: empty or
// unusable input and internal faults produce the single fallback slide.
func (s *implSegmenter) Segment(ctx context.Context, content models.Content) (res Result) {
	title := strings.TrimSpace(content.Title)
	if title == "" {
		title = defaultTitle
	}
	title = truncateTitle(title)

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error(ctx, "Segmentation panicked: %v", r)
			res = fallbackResult(title, StatusDegraded, fmt.Sprintf("internal error: %v", r))
		}
	}()

	text := normalizeText(content.Text)
	if text == "" {
		s.logger.Warn(ctx, "Content %q has no text, using fallback slide", title)
		return fallbackResult(title, StatusEmpty, "empty text")
	}

	sentences := splitSentences(text)
	if len(sentences) == 0 {
		s.logger.Warn(ctx, "Content %q has no usable sentences, using fallback slide", title)
		return fallbackResult(title, StatusDegraded, fmt.Sprintf("no sentence with at least %d words", minSentenceWords))
	}

	keywords := s.extractKeywords(ctx, text)

	slides := make([]models.Slide, 0, s.cfg.MaxSlides)
	slides = append(slides, models.Slide{
		Kind:            models.SlideTitle,
		Title:           title,
		Subtitle:        strings.TrimSpace(content.Author),
		Keywords:        headKeywords(keywords, slideKeywordLimit),
		DurationSeconds: titleSlideDuration,
		Background:      models.BackgroundGradient,
	})

	withSummary := len(sentences) >= minSummarySentences

	// The summary slot is reserved so truncation drops trailing content
	// slides rather than the summary.
	contentLimit := s.cfg.MaxSlides - 1
	if withSummary && contentLimit > 1 {
		contentLimit--
	}
	packed := s.contentSlides(sentences, keywords)
	if len(packed) > contentLimit {
		s.logger.Debug(ctx, "Dropping %d content slides over the limit", len(packed)-contentLimit)
		packed = packed[:contentLimit]
	}
	slides = append(slides, packed...)

	if withSummary {
		slides = append(slides, models.Slide{
			Kind:            models.SlideSummary,
			Title:           summaryTitle,
			Body:            summarize(sentences),
			Keywords:        headKeywords(keywords, summaryKeywordLimit),
			DurationSeconds: summarySlideDuration,
			Background:      models.BackgroundSolid,
		})
	}

	if len(slides) > s.cfg.MaxSlides {
		slides = slides[:s.cfg.MaxSlides]
	}

	if err := models.ValidateSequence(slides, s.cfg.MaxSlides); err != nil {
		s.logger.Error(ctx, "Segmented sequence is invalid: %v", err)
		return fallbackResult(title, StatusDegraded, err.Error())
	}

	s.logger.Info(ctx, "Created %d slides from %d sentences", len(slides), len(sentences))
	return Result{Slides: slides, Status: StatusOK}
}

// contentSlides packs sentences greedily into slides of at most
// WordsPerSlide words. A sentence longer than the budget gets its own slide.
func (s *implSegmenter) contentSlides(sentences []string, keywords []string) []models.Slide {
	var (
		slides  []models.Slide
		current []string
		words   int
	)

	flush := func() {
		if len(current) == 0 {
			return
		}
		slides = append(slides, s.contentSlide(current, keywords, len(slides)+1))
		current = nil
		words = 0
	}

	for _, sentence := range sentences {
		n := wordCount(sentence)
		if len(current) > 0 && words+n > s.cfg.WordsPerSlide {
			flush()
		}
		current = append(current, sentence)
		words += n
	}
	flush()

	return slides
}

func (s *implSegmenter) contentSlide(sentences []string, keywords []string, ordinal int) models.Slide {
	body := strings.Join(sentences, " ")

	background := models.BackgroundSolid
	if ordinal%2 == 0 {
		background = models.BackgroundGradient
	}

	return models.Slide{
		Kind:            models.SlideContent,
		Title:           slideTitle(sentences[0], ordinal),
		Body:            body,
		Keywords:        slideKeywords(keywords, body, slideKeywordLimit),
		DurationSeconds: s.slideDuration(wordCount(body)),
		Background:      background,
		Ordinal:         ordinal,
	}
}

func (s *implSegmenter) slideDuration(words int) float64 {
	d := float64(words) / wordsPerSecond
	if d < s.cfg.MinSlideDuration {
		return s.cfg.MinSlideDuration
	}
	if d > s.cfg.MaxSlideDuration {
		return s.cfg.MaxSlideDuration
	}
	return d
}

// summarize joins the first, middle and last sentences.
func summarize(sentences []string) string {
	picked := []string{
		sentences[0],
		sentences[len(sentences)/2],
		sentences[len(sentences)-1],
	}
	for i, p := range picked {
		picked[i] = strings.TrimRight(p, ".!? ")
	}
	return strings.Join(picked, ". ") + "."
}

func fallbackResult(title string, status Status, reason string) Result {
	return Result{
		Slides: []models.Slide{{
			Kind:            models.SlideTitle,
			Title:           title,
			Subtitle:        fallbackSubtitle,
			Body:            fallbackBody,
			Keywords:        []string{},
			DurationSeconds: fallbackSlideDuration,
			Background:      models.BackgroundGradient,
		}},
		Status: status,
		Reason: reason,
	}
}
