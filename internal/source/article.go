package source

import (
	"io"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/nguyentantai21042004/slidecast/internal/models"
)

const (
	minTitleLength     = 6
	minAuthorLength    = 3
	minArticleLength   = 200
	minParagraphLength = 21
)

var (
	titleSelectors = []string{
		"h1",
		`[property="og:title"]`,
		"title",
		".article-title",
		".post-title",
		".entry-title",
	}
	contentSelectors = []string{
		"article",
		".article-content",
		".post-content",
		".entry-content",
		".content",
		".article-body",
		".story-body",
		`[property="articleBody"]`,
		"main p",
	}
	authorSelectors = []string{
		`[property="article:author"]`,
		`[name="author"]`,
		".author",
		".byline",
		".article-author",
		".post-author",
	}
	dateSelectors = []string{
		`[property="article:published_time"]`,
		`[property="article:published"]`,
		`[name="publish_date"]`,
		".publish-date",
		".article-date",
		".post-date",
		"time[datetime]",
	}
	imageSelectors = []string{
		`[property="og:image"]`,
		`[name="twitter:image"]`,
		".article-image img",
		".featured-image img",
		"article img",
	}

	dateLayouts = []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
		time.RFC1123Z,
		time.RFC1123,
		"January 2, 2006",
		"Jan 2, 2006",
	}
)

// parseArticle extracts article content from an HTML page at pageURL.
func parseArticle(r io.Reader, pageURL string) (models.Content, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return models.Content{}, err
	}

	c := models.Content{
		URL:         pageURL,
		Title:       collapseSpaces(firstValue(doc, titleSelectors, minTitleLength)),
		Author:      firstValue(doc, authorSelectors, minAuthorLength),
		PublishDate: normalizeDate(firstDate(doc)),
		ImageURL:    mainImage(doc, pageURL),
	}

	doc.Find("script, style, nav, header, footer, aside, form").Remove()
	c.Text = articleText(doc)
	return c, nil
}

// firstValue returns the content attribute or text of the first selector
// match longer than minLen.
func firstValue(doc *goquery.Document, selectors []string, minLen int) string {
	for _, sel := range selectors {
		s := doc.Find(sel).First()
		if s.Length() == 0 {
			continue
		}
		v, ok := s.Attr("content")
		if !ok {
			v = s.Text()
		}
		if v = strings.TrimSpace(v); len(v) >= minLen {
			return v
		}
	}
	return ""
}

func firstDate(doc *goquery.Document) string {
	for _, sel := range dateSelectors {
		s := doc.Find(sel).First()
		if s.Length() == 0 {
			continue
		}
		for _, key := range []string{"content", "datetime"} {
			if v, ok := s.Attr(key); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
		if v := strings.TrimSpace(s.Text()); v != "" {
			return v
		}
	}
	return ""
}

// normalizeDate rewrites recognized dates as RFC 3339 and keeps anything
// else verbatim.
func normalizeDate(raw string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(time.RFC3339)
		}
	}
	return raw
}

func mainImage(doc *goquery.Document, pageURL string) string {
	base, _ := url.Parse(pageURL)
	for _, sel := range imageSelectors {
		s := doc.Find(sel).First()
		if s.Length() == 0 {
			continue
		}
		v, ok := s.Attr("content")
		if !ok || v == "" {
			v = s.AttrOr("src", "")
		}
		if v == "" {
			continue
		}
		ref, err := url.Parse(strings.TrimSpace(v))
		if err != nil {
			continue
		}
		if base != nil {
			ref = base.ResolveReference(ref)
		}
		if abs := ref.String(); strings.HasPrefix(abs, "http") {
			return abs
		}
		return ""
	}
	return ""
}

// articleText prefers the first content container with substantial text
// and falls back to every paragraph longer than a caption.
func articleText(doc *goquery.Document) string {
	for _, sel := range contentSelectors {
		nodes := doc.Find(sel)
		if nodes.Length() == 0 {
			continue
		}
		parts := nodes.Map(func(_ int, s *goquery.Selection) string {
			return strings.TrimSpace(s.Text())
		})
		if text := strings.Join(parts, "\n"); len(text) > minArticleLength {
			return cleanText(text)
		}
	}

	var parts []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); len(t) >= minParagraphLength {
			parts = append(parts, t)
		}
	})
	return cleanText(strings.Join(parts, "\n"))
}

var (
	reWhitespace = regexp.MustCompile(`\s+`)
	reURL        = regexp.MustCompile(`https?://\S+`)
	reEmail      = regexp.MustCompile(`\S+@\S+`)
	reDots       = regexp.MustCompile(`\.{3,}`)
	reSpacedDots = regexp.MustCompile(`\s*\.\s*\.\s*\.`)
)

// cleanText collapses whitespace and drops links and e-mail addresses.
func cleanText(text string) string {
	text = reWhitespace.ReplaceAllString(text, " ")
	text = reURL.ReplaceAllString(text, "")
	text = reEmail.ReplaceAllString(text, "")
	text = reDots.ReplaceAllString(text, "...")
	text = reSpacedDots.ReplaceAllString(text, "...")
	return strings.TrimSpace(reWhitespace.ReplaceAllString(text, " "))
}

func collapseSpaces(s string) string {
	return strings.TrimSpace(reWhitespace.ReplaceAllString(s, " "))
}
