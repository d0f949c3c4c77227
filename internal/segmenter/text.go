package segmenter

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minSentenceWords = 4
	titleWords       = 6
	maxTitleRunes    = 40
)

var (
	reSpaces     = regexp.MustCompile(`\s+`)
	reDisallowed = regexp.MustCompile(`[^\p{L}\p{N}_\s.!?,;:\-()]`)
	rePeriods    = regexp.MustCompile(`\.{2,}`)
	reMultiSpace = regexp.MustCompile(` {2,}`)
	reNonWord    = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
)

// normalizeText collapses whitespace, strips characters outside the
// permitted set and collapses repeated periods.
func normalizeText(text string) string {
	text = reSpaces.ReplaceAllString(text, " ")
	text = reDisallowed.ReplaceAllString(text, "")
	text = rePeriods.ReplaceAllString(text, ".")
	text = reMultiSpace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// splitSentences cuts after runs of terminal punctuation followed by
// whitespace and drops fragments shorter than minSentenceWords.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	runes := []rune(text)

	for i := 0; i < len(runes); i++ {
		if !isTerminal(runes[i]) {
			continue
		}
		j := i
		for j+1 < len(runes) && isTerminal(runes[j+1]) {
			j++
		}
		if j+1 == len(runes) || unicode.IsSpace(runes[j+1]) {
			sentences = appendSentence(sentences, string(runes[start:j+1]))
			start = j + 1
		}
		i = j
	}
	if start < len(runes) {
		sentences = appendSentence(sentences, string(runes[start:]))
	}
	return sentences
}

func appendSentence(sentences []string, s string) []string {
	s = strings.TrimSpace(s)
	if len(strings.Fields(s)) < minSentenceWords {
		return sentences
	}
	return append(sentences, s)
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

// slideTitle derives a content slide title from the first words of a sentence.
func slideTitle(sentence string, ordinal int) string {
	words := strings.Fields(sentence)
	if len(words) > titleWords {
		words = words[:titleWords]
	}
	title := reNonWord.ReplaceAllString(strings.Join(words, " "), "")
	title = strings.TrimSpace(reMultiSpace.ReplaceAllString(title, " "))
	if title == "" {
		return sectionTitle(ordinal)
	}
	return truncateTitle(title)
}

func sectionTitle(ordinal int) string {
	return "Section " + strconv.Itoa(ordinal)
}

// truncateTitle caps a title at maxTitleRunes, marking the cut with "...".
func truncateTitle(title string) string {
	if utf8.RuneCountInString(title) <= maxTitleRunes {
		return title
	}
	runes := []rune(title)
	return string(runes[:maxTitleRunes-3]) + "..."
}
