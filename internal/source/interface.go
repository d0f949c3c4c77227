package source

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/slidecast/internal/models"
)

// Source turns a request into article content.
type Source interface {
	Fetch(ctx context.Context, req Request) (models.Content, error)

	// Preview fetches an article by URL and returns it with the text cut
	// to a short excerpt.
	Preview(ctx context.Context, url string) (models.Content, error)
}

// Request names exactly one of URL, Text or PDFPath. The metadata fields
// apply to raw text and override what is extracted otherwise.
type Request struct {
	URL         string `json:"url,omitempty"`
	Text        string `json:"text,omitempty"`
	PDFPath     string `json:"pdf_path,omitempty"`
	Title       string `json:"title,omitempty"`
	Author      string `json:"author,omitempty"`
	PublishDate string `json:"publish_date,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// SourceError reports that no usable text could be obtained.
type SourceError struct {
	Input  string
	Reason string
	Err    error
}

func (e *SourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("source %s: %s: %v", e.Input, e.Reason, e.Err)
	}
	return fmt.Sprintf("source %s: %s", e.Input, e.Reason)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}
