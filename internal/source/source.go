package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/nguyentantai21042004/slidecast/internal/models"
)

const (
	defaultTitle      = "Generated Video"
	previewLength     = 500
	maxResponseBytes  = 10 << 20
	extractionFailure = "extraction failed"
)

// Fetch resolves the request into content with at least MinTextLength
// characters of text.
func (s *implSource) Fetch(ctx context.Context, req Request) (models.Content, error) {
	var (
		content models.Content
		input   string
		err     error
	)

	switch {
	case strings.TrimSpace(req.Text) != "":
		input = "text"
		content = models.Content{
			Title:       req.Title,
			Text:        strings.TrimSpace(req.Text),
			Author:      req.Author,
			PublishDate: req.PublishDate,
			ImageURL:    req.ImageURL,
		}
	case req.URL != "":
		input = req.URL
		content, err = s.fetchURL(ctx, req.URL)
	case req.PDFPath != "":
		input = req.PDFPath
		content, err = s.fetchPDF(ctx, req.PDFPath)
	default:
		return models.Content{}, &SourceError{Input: "request", Reason: "text content or URL required"}
	}
	if err != nil {
		return models.Content{}, err
	}

	content = overlay(content, req)
	if content.Title == "" {
		content.Title = defaultTitle
	}

	if n := len(content.Text); n < s.cfg.MinTextLength {
		return models.Content{}, &SourceError{
			Input:  input,
			Reason: fmt.Sprintf("content too short (%d chars, need %d)", n, s.cfg.MinTextLength),
		}
	}

	s.logger.Info(ctx, "Fetched %q from %s: %d characters", content.Title, input, len(content.Text))
	return content, nil
}

// overlay applies caller-supplied metadata over extracted values.
func overlay(c models.Content, req Request) models.Content {
	if req.Title != "" {
		c.Title = req.Title
	}
	if req.Author != "" {
		c.Author = req.Author
	}
	if req.PublishDate != "" {
		c.PublishDate = req.PublishDate
	}
	if req.ImageURL != "" {
		c.ImageURL = req.ImageURL
	}
	return c
}

func (s *implSource) fetchURL(ctx context.Context, rawURL string) (models.Content, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return models.Content{}, &SourceError{Input: rawURL, Reason: "invalid URL", Err: err}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return models.Content{}, &SourceError{Input: rawURL, Reason: "unsupported scheme " + u.Scheme}
	}

	s.logger.Info(ctx, "Extracting article from: %s", rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return models.Content{}, &SourceError{Input: rawURL, Reason: extractionFailure, Err: err}
	}
	if s.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", s.cfg.UserAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return models.Content{}, &SourceError{Input: rawURL, Reason: extractionFailure, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.Content{}, &SourceError{Input: rawURL, Reason: fmt.Sprintf("unexpected status %s", resp.Status)}
	}

	content, err := parseArticle(io.LimitReader(resp.Body, maxResponseBytes), rawURL)
	if err != nil {
		return models.Content{}, &SourceError{Input: rawURL, Reason: extractionFailure, Err: err}
	}
	return content, nil
}

func (s *implSource) fetchPDF(ctx context.Context, path string) (models.Content, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return models.Content{}, &SourceError{Input: path, Reason: "open PDF", Err: err}
	}
	defer doc.Close()

	var pages []string
	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		if err != nil {
			s.logger.Warn(ctx, "Skipping PDF page %d of %s: %v", i+1, path, err)
			continue
		}
		pages = append(pages, text)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return models.Content{
		Title: strings.NewReplacer("_", " ", "-", " ").Replace(name),
		Text:  cleanText(strings.Join(pages, "\n")),
	}, nil
}

// Preview fetches an article and trims the text to an excerpt.
func (s *implSource) Preview(ctx context.Context, rawURL string) (models.Content, error) {
	content, err := s.Fetch(ctx, Request{URL: rawURL})
	if err != nil {
		return models.Content{}, err
	}
	content.Text = Excerpt(content.Text, previewLength)
	return content, nil
}

// Excerpt cuts text to at most n runes and marks the cut with "...".
func Excerpt(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
