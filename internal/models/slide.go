// Package models holds the records passed between pipeline stages.
package models

import (
	"fmt"
	"strings"
)

// SlideKind tags the role of a slide in the sequence.
type SlideKind string

const (
	SlideTitle   SlideKind = "title"
	SlideContent SlideKind = "content"
	SlideSummary SlideKind = "summary"
)

// BackgroundStyle selects how a slide background is painted.
type BackgroundStyle string

const (
	BackgroundGradient BackgroundStyle = "gradient"
	BackgroundSolid    BackgroundStyle = "solid"
)

// Content is an article as supplied by a text source.
type Content struct {
	Title       string `json:"title"`
	Text        string `json:"text"`
	Author      string `json:"author,omitempty"`
	PublishDate string `json:"publish_date,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	URL         string `json:"url,omitempty"`
}

// Slide is one unit of narration and visual content.
type Slide struct {
	Kind            SlideKind       `json:"kind"`
	Title           string          `json:"title"`
	Subtitle        string          `json:"subtitle,omitempty"`
	Body            string          `json:"body"`
	Keywords        []string        `json:"keywords"`
	DurationSeconds float64         `json:"duration_seconds"`
	Background      BackgroundStyle `json:"background_style"`
	Ordinal         int             `json:"ordinal,omitempty"`
}

// Validate checks the per-slide invariants.
func (s Slide) Validate() error {
	switch s.Kind {
	case SlideTitle, SlideContent, SlideSummary:
	default:
		return fmt.Errorf("unknown slide kind %q", s.Kind)
	}
	switch s.Background {
	case BackgroundGradient, BackgroundSolid:
	default:
		return fmt.Errorf("unknown background style %q", s.Background)
	}
	if !(s.DurationSeconds > 0) {
		return fmt.Errorf("slide %q: duration must be positive, got %v", s.Title, s.DurationSeconds)
	}
	if s.Kind == SlideContent && s.Ordinal < 1 {
		return fmt.Errorf("content slide %q: ordinal must be >= 1", s.Title)
	}
	return nil
}

// WordCount returns the number of whitespace-separated words in the body.
func (s Slide) WordCount() int {
	return len(strings.Fields(s.Body))
}

// ValidateSequence checks the ordering invariants of a slide sequence.
func ValidateSequence(slides []Slide, maxSlides int) error {
	if len(slides) == 0 {
		return fmt.Errorf("slide sequence is empty")
	}
	if maxSlides > 0 && len(slides) > maxSlides {
		return fmt.Errorf("slide sequence has %d slides, max %d", len(slides), maxSlides)
	}
	if slides[0].Kind != SlideTitle {
		return fmt.Errorf("first slide is %q, want title", slides[0].Kind)
	}
	for i, s := range slides {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("slide %d: %w", i, err)
		}
		if i > 0 && s.Kind == SlideTitle {
			return fmt.Errorf("slide %d: extra title slide", i)
		}
		if s.Kind == SlideSummary && i != len(slides)-1 {
			return fmt.Errorf("slide %d: summary slide is not last", i)
		}
	}
	return nil
}
