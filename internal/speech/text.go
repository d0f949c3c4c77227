package speech

import (
	"regexp"
	"strings"
)

var (
	reBold       = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	reItalic     = regexp.MustCompile(`\*([^*]+)\*`)
	reHeading    = regexp.MustCompile(`#+\s*`)
	reUnspeak    = regexp.MustCompile(`[^\p{L}\p{N}\s.,!?;:\-()"']`)
	reSpace      = regexp.MustCompile(`\s+`)
	reSentenceAt = regexp.MustCompile(`[.!?]\s+`)
)

// CleanText strips markdown emphasis and characters a voice cannot read.
func CleanText(text string) string {
	text = reBold.ReplaceAllString(text, "$1")
	text = reItalic.ReplaceAllString(text, "$1")
	text = reHeading.ReplaceAllString(text, "")
	text = reUnspeak.ReplaceAllString(text, " ")
	text = reSpace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// SplitChunks cuts text into pieces of at most max bytes at sentence
// boundaries. A single sentence longer than max becomes its own chunk.
func SplitChunks(text string, max int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= max {
		return []string{text}
	}

	var sentences []string
	start := 0
	for _, loc := range reSentenceAt.FindAllStringIndex(text, -1) {
		sentences = append(sentences, strings.TrimSpace(text[start:loc[0]+1]))
		start = loc[1]
	}
	if start < len(text) {
		sentences = append(sentences, strings.TrimSpace(text[start:]))
	}

	var chunks []string
	var current string
	for _, s := range sentences {
		switch {
		case current == "":
			current = s
		case len(current)+1+len(s) <= max:
			current += " " + s
		default:
			chunks = append(chunks, current)
			current = s
		}
	}
	if current != "" {
		chunks = append(chunks, current)
	}
	return chunks
}
