// internal/adapters/webreviews/extract.go
package webreviews

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"review_harvester/internal/normalize"
)

/********** per-field strategies **********/

type DateStrategy interface {
	Date(card *goquery.Selection) (time.Time, bool)
}

type RatingStrategy interface {
	Rating(card *goquery.Selection) (int, bool)
}

type TextStrategy interface {
	Text(card *goquery.Selection) (string, bool)
}

type NameStrategy interface {
	Name(card *goquery.Selection) string
}

// Extractor turns review cards into WebCards, one strategy per field.
// Swap a strategy to follow a markup change without touching the rest.
type Extractor struct {
	Date   DateStrategy
	Rating RatingStrategy
	Text   TextStrategy
	Name   NameStrategy
}

func DefaultExtractor() Extractor {
	return Extractor{
		Date:   timeTagDate{},
		Rating: altTextRating{},
		Text:   paragraphText{},
		Name:   consumerName{},
	}
}

// Cards extracts the review cards from one page of HTML. Cards missing a
// date, rating or text are skipped individually.
func (x Extractor) Cards(html []byte) ([]normalize.WebCard, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, err
	}
	sel := doc.Find("section[data-testid='reviews-list'] article")
	if sel.Length() == 0 {
		sel = doc.Find("article[data-service-review-card-paper]")
	}

	var out []normalize.WebCard
	sel.Each(func(_ int, card *goquery.Selection) {
		at, ok := x.Date.Date(card)
		if !ok {
			return
		}
		rating, ok := x.Rating.Rating(card)
		if !ok {
			return
		}
		text, ok := x.Text.Text(card)
		if !ok {
			return
		}
		out = append(out, normalize.WebCard{
			At:     at,
			Rating: rating,
			Text:   text,
			Name:   x.Name.Name(card),
		})
	})
	return out, nil
}

/********** default strategies **********/

// timeTagDate reads the card's first <time> tag: the datetime attribute
// when present, else fuzzy-parsed visible text ("Aug 15, 2025").
type timeTagDate struct{}

func (timeTagDate) Date(card *goquery.Selection) (time.Time, bool) {
	tag := card.Find("time").First()
	if tag.Length() == 0 {
		return time.Time{}, false
	}
	if iso, ok := tag.Attr("datetime"); ok && strings.TrimSpace(iso) != "" {
		if t, err := normalize.ParseTime(strings.TrimSpace(iso)); err == nil {
			return t, true
		}
	}
	if txt := strings.TrimSpace(tag.Text()); txt != "" {
		if t, err := normalize.ParseTime(txt); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var (
	ratedRe = regexp.MustCompile(`(?i)Rated\s+(\d)\s+out of 5`)
	starRe  = regexp.MustCompile(`(?i)(\d)\s*star`)
)

// altTextRating reads the star image's alt text ("Rated 4 out of 5"),
// falling back to an aria-label mentioning stars.
type altTextRating struct{}

func (altTextRating) Rating(card *goquery.Selection) (int, bool) {
	if alt, ok := card.Find("img[alt]").First().Attr("alt"); ok {
		if m := ratedRe.FindStringSubmatch(alt); m != nil {
			n, _ := strconv.Atoi(m[1])
			return n, true
		}
	}
	if aria, ok := card.Find("[aria-label]").First().Attr("aria-label"); ok {
		if m := starRe.FindStringSubmatch(aria); m != nil {
			n, _ := strconv.Atoi(m[1])
			return n, true
		}
	}
	return 0, false
}

// paragraphText joins the body's paragraphs with newlines, falling back to
// any paragraph in the card.
type paragraphText struct{}

func (paragraphText) Text(card *goquery.Selection) (string, bool) {
	body := card.Find("[data-testid='review-content']").First()
	if body.Length() > 0 {
		if txt := joinParagraphs(body.Find("p, div")); txt != "" {
			return txt, true
		}
	}
	if txt := joinParagraphs(card.Find("p")); txt != "" {
		return txt, true
	}
	return "", false
}

func joinParagraphs(sel *goquery.Selection) string {
	var parts []string
	sel.Each(func(_ int, p *goquery.Selection) {
		if t := normalize.CleanText(p.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, "\n")
}

var boilerplateRe = regexp.MustCompile(`(?i)reviews?\s+written|company\s+replied`)

// consumerName tries the consumer-info spans first, then any span, and
// keeps the first plausible name (1..60 chars, not card boilerplate).
type consumerName struct{}

func (consumerName) Name(card *goquery.Selection) string {
	var candidates []string
	collect := func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			candidates = append(candidates, t)
		}
	}
	card.Find("[data-testid='consumer-info'] span").Each(collect)
	card.Find("span").Each(collect)

	for _, c := range candidates {
		if boilerplateRe.MatchString(c) {
			continue
		}
		if n := len([]rune(c)); n >= 1 && n <= 60 {
			return c
		}
	}
	return "Anonymous"
}
