// Package scriptdoc exports the narration script of a video as a Word
// document.
package scriptdoc

import (
	"fmt"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/nguyentantai21042004/slidecast/internal/models"
)

const (
	fontName  = "Times New Roman"
	fontSize  = 13
	titleSize = 16
	slideSize = 14
	black     = "000000"
	grey      = "555555"
)

// Write saves the slide script for content to outputPath.
func Write(outputPath string, content models.Content, slides []models.Slide) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("new document: %w", err)
	}

	addRun(doc.AddParagraph(""), content.Title, titleSize, black, true)
	if meta := metadataLine(content); meta != "" {
		addRun(doc.AddParagraph(""), meta, fontSize, grey, false)
	}

	var total float64
	for i, s := range slides {
		total += s.DurationSeconds
		doc.AddParagraph("")
		addRun(doc.AddParagraph(""), fmt.Sprintf("Slide %d: %s", i+1, s.Title), slideSize, black, true)
		addRun(doc.AddParagraph(""), fmt.Sprintf("%s slide, %.1fs", s.Kind, s.DurationSeconds), fontSize, grey, false)
		if s.Subtitle != "" {
			addRun(doc.AddParagraph(""), s.Subtitle, fontSize, black, false)
		}
		if s.Body != "" {
			addRun(doc.AddParagraph(""), s.Body, fontSize, black, false)
		}
		if len(s.Keywords) > 0 {
			p := doc.AddParagraph("")
			addRun(p, "Keywords: ", fontSize, black, true)
			addRun(p, strings.Join(s.Keywords, ", "), fontSize, black, false)
		}
	}

	doc.AddParagraph("")
	addRun(doc.AddParagraph(""), fmt.Sprintf("%d slides, %.1fs total", len(slides), total), fontSize, grey, false)

	if err := doc.SaveTo(outputPath); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

func metadataLine(c models.Content) string {
	var parts []string
	if c.Author != "" {
		parts = append(parts, "By "+c.Author)
	}
	if c.PublishDate != "" {
		parts = append(parts, c.PublishDate)
	}
	if c.URL != "" {
		parts = append(parts, c.URL)
	}
	return strings.Join(parts, " | ")
}

func addRun(p *docx.Paragraph, text string, size uint64, color string, bold bool) {
	run := p.AddText(text).Font(fontName).Size(size).Color(color)
	if bold {
		run.Bold(true)
	}
}
