package usccb

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pevans/lectio/mass"
)

// Readings pages repeat one block per section: a heading carrying the role
// label, an address block with the citation links, and a content body with
// the passage text. The selectors below are the structural landmarks; the
// surrounding markup varies freely between liturgical days.
const (
	sectionSelector  = ".container"
	headingSelector  = ".name"
	citationSelector = ".address"
	bodySelector     = ".content-body"
)

var (
	// Alternative passages within a section are separated by a bare "OR"
	// paragraph.
	orPattern = regexp.MustCompile(`(?i)^OR:?$`)

	// Footnote markers like [1] are presentation artifacts, not text.
	footnotePattern = regexp.MustCompile(`\[\d+\]`)

	multiBlankPattern = regexp.MustCompile(`\n{3,}`)
)

// extractReadings scans a parsed page for reading sections and converts
// each recognized one into a Reading. Sections whose heading matches no
// recognized role label, or which have no citation and no text, are
// skipped: the same page layout serves many liturgical day types with
// different expected sections. A section headed with a bare "OR", or an
// unlabeled section following a body that ends in "OR", holds alternative
// passages and is merged into the preceding reading. An ExtractionError
// (with an empty URL, to be filled by the caller) is returned only when
// the page contains no recognized landmark at all; recognized landmarks
// that all turn out empty resolve to no readings and no error.
func extractReadings(doc *goquery.Document) ([]mass.Reading, error) {
	var (
		readings   []mass.Reading
		recognized int

		// Set when the last reading's body ends in "OR", so the next
		// unlabeled section continues it.
		expectsMore bool
	)

	doc.Find(sectionSelector).Each(func(_ int, sel *goquery.Selection) {
		heading := cleanText(sel.Find(headingSelector).First().Text())
		if heading == "" {
			return
		}

		role := mass.ParseRole(heading)
		alternative := orPattern.MatchString(heading)
		if role != mass.RoleUnknown {
			recognized++
		}
		if role == mass.RoleUnknown && !alternative && !expectsMore {
			return
		}

		verses := extractVerses(sel.Find(citationSelector).First())
		text := extractBody(sel.Find(bodySelector).First())
		if len(verses) == 0 && text == "" {
			return
		}

		if (alternative || role == mass.RoleUnknown) && len(readings) > 0 {
			mergeAlternative(&readings[len(readings)-1], verses, text)
			expectsMore = false
			return
		}
		if role == mass.RoleUnknown {
			return
		}

		number := 0
		if role == mass.RoleReading {
			number = mass.ReadingNumber(heading)
		}

		readings = append(readings, mass.Reading{
			Role:     role,
			Number:   number,
			Citation: joinCitations(verses),
			Text:     text,
			Verses:   verses,
		})
		expectsMore = strings.HasSuffix(text, "OR:")
	})

	if len(readings) == 0 {
		if recognized == 0 {
			return nil, &ExtractionError{}
		}
		return nil, nil
	}
	return readings, nil
}

// mergeAlternative folds an alternative section's verses and text into the
// reading it continues.
func mergeAlternative(prev *mass.Reading, verses []mass.Verse, text string) {
	if len(verses) > 0 {
		prev.Verses = append(prev.Verses, verses...)
		if prev.Citation != "" {
			prev.Citation += ", " + joinCitations(verses)
		} else {
			prev.Citation = joinCitations(verses)
		}
	}
	if text == "" {
		return
	}
	switch {
	case prev.Text == "":
		prev.Text = text
	case strings.HasSuffix(prev.Text, "OR:"):
		prev.Text += "\n\n" + text
	default:
		prev.Text += "\n\nOR:\n\n" + text
	}
}

func joinCitations(verses []mass.Verse) string {
	citations := make([]string, 0, len(verses))
	for _, v := range verses {
		citations = append(citations, v.Text)
	}
	return strings.Join(citations, ", ")
}

// extractVerses collects the citation anchors from a section's address
// block.
func extractVerses(sel *goquery.Selection) []mass.Verse {
	var verses []mass.Verse
	sel.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		text := cleanText(a.Text())
		if text == "" {
			return
		}
		href, _ := a.Attr("href")
		verses = append(verses, mass.Verse{
			Text: text,
			Link: strings.TrimSpace(href),
		})
	})
	return verses
}

// extractBody renders a section's content body as plain text. Paragraphs
// are kept in order; a bare "OR" paragraph separating alternative passages
// is normalized; line breaks inside verse paragraphs are preserved.
func extractBody(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}

	// goquery drops <br> silently; turn them into newlines first so poetry
	// lines survive.
	sel.Find("br").ReplaceWithHtml("\n")

	var paragraphs []string
	sel.Find("p").Each(func(_ int, p *goquery.Selection) {
		text := cleanText(p.Text())
		if text == "" {
			return
		}
		if orPattern.MatchString(text) {
			paragraphs = append(paragraphs, "OR:")
			return
		}
		paragraphs = append(paragraphs, text)
	})

	if len(paragraphs) == 0 {
		return cleanText(sel.Text())
	}
	return strings.Join(paragraphs, "\n\n")
}

// cleanText strips presentation artifacts from extracted text: non-breaking
// spaces, footnote markers, trailing whitespace per line, and runs of blank
// lines.
func cleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = footnotePattern.ReplaceAllString(s, "")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	s = strings.Join(lines, "\n")
	s = multiBlankPattern.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// extractTitle returns the page title with the site name suffix removed.
func extractTitle(doc *goquery.Document) string {
	title := doc.Find("title").First().Text()
	title, _, _ = strings.Cut(title, "|")
	return cleanText(title)
}
