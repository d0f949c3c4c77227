package segmenter

import (
	"context"
	"regexp"
	"sort"
	"strings"
)

var reLetters = regexp.MustCompile(`\p{L}+`)

// englishStopwords is the NLTK English stopword list.
var englishStopwords = toSet(strings.Fields(`
i me my myself we our ours ourselves you you're you've you'll you'd your yours
yourself yourselves he him his himself she she's her hers herself it it's its
itself they them their theirs themselves what which who whom this that that'll
these those am is are was were be been being have has had having do does did
doing a an the and but if or because as until while of at by for with about
against between into through during before after above below to from up down
in out on off over under again further then once here there when where why how
all any both each few more most other some such no nor not only own same so
than too very s t can will just don don't should should've now d ll m o re ve
y ain aren aren't couldn couldn't didn didn't doesn doesn't hadn hadn't hasn
hasn't haven haven't isn isn't ma mightn mightn't mustn mustn't needn needn't
shan shan't shouldn shouldn't wasn wasn't weren weren't won won't wouldn wouldn't
`))

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// IsStopword reports whether a lowercase word is an English stopword.
func IsStopword(word string) bool {
	_, ok := englishStopwords[word]
	return ok
}

type frequencyExtractor struct{}

// NewFrequencyExtractor returns the frequency-based keyword extractor.
func NewFrequencyExtractor() KeywordExtractor {
	return frequencyExtractor{}
}

func (frequencyExtractor) Name() string { return "frequency" }

// Extract ranks lowercase alphabetic non-stopword tokens longer than two
// characters by frequency; ties keep first-occurrence order.
func (frequencyExtractor) Extract(_ context.Context, text string, max int) ([]string, error) {
	type entry struct {
		word  string
		count int
		first int
	}

	index := make(map[string]*entry)
	var entries []*entry

	for _, tok := range reLetters.FindAllString(strings.ToLower(text), -1) {
		if len([]rune(tok)) <= 2 || IsStopword(tok) {
			continue
		}
		if e, ok := index[tok]; ok {
			e.count++
			continue
		}
		e := &entry{word: tok, count: 1, first: len(entries)}
		index[tok] = e
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].count > entries[j].count
	})

	if max > 0 && len(entries) > max {
		entries = entries[:max]
	}

	keywords := make([]string, 0, len(entries))
	for _, e := range entries {
		keywords = append(keywords, e.word)
	}
	return keywords, nil
}

// extractKeywords walks the extractor chain; the first non-empty result wins.
func (s *implSegmenter) extractKeywords(ctx context.Context, text string) []string {
	for _, ex := range s.extractors {
		keywords, err := ex.Extract(ctx, text, s.cfg.MaxKeywords)
		if err != nil {
			s.logger.Warn(ctx, "Keyword extractor %s failed: %v", ex.Name(), err)
			continue
		}
		keywords = CleanKeywords(keywords, s.cfg.MaxKeywords)
		if len(keywords) == 0 {
			s.logger.Debug(ctx, "Keyword extractor %s returned nothing", ex.Name())
			continue
		}
		s.logger.Debug(ctx, "Keywords from %s: %v", ex.Name(), keywords)
		return keywords
	}
	return nil
}

// CleanKeywords trims, drops short and duplicate entries (case-insensitive,
// first occurrence kept) and caps the list.
func CleanKeywords(keywords []string, max int) []string {
	seen := make(map[string]struct{}, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		if len([]rune(k)) <= 2 {
			continue
		}
		key := strings.ToLower(k)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, k)
		if max > 0 && len(out) == max {
			break
		}
	}
	return out
}

// slideKeywords keeps the global keywords that occur in text, up to limit.
func slideKeywords(keywords []string, text string, limit int) []string {
	lower := strings.ToLower(text)
	var out []string
	for _, k := range keywords {
		if strings.Contains(lower, strings.ToLower(k)) {
			out = append(out, k)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

func headKeywords(keywords []string, n int) []string {
	if len(keywords) > n {
		keywords = keywords[:n]
	}
	return append([]string(nil), keywords...)
}
