package extras

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jdocmanual-finder/internal/models"
)

const summaryLimit = 255

// HTMLText extracts the plain text of an article body and derives a
// description from its first paragraph
type HTMLText struct{}

// NewHTMLText creates an HTMLText content extra
func NewHTMLText() *HTMLText {
	return &HTMLText{}
}

// Prepare fills item.Text, and item.Description when it is still empty
func (h *HTMLText) Prepare(ctx context.Context, item *models.Result) error {
	if item.Body == "" {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(item.Body))
	if err != nil {
		return fmt.Errorf("failed to parse body: %w", err)
	}
	doc.Find("script, style, noscript").Remove()

	item.Text = collapse(doc.Text())

	if item.Description == "" {
		item.Description = item.Metadata.Get("description")
	}
	if item.Description == "" {
		var first string
		doc.Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			first = collapse(s.Text())
			return first == ""
		})
		if first == "" {
			first = item.Text
		}
		item.Description = summarize(first, summaryLimit)
	}
	return nil
}

// collapse joins all whitespace runs into single spaces
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// summarize cuts s to at most limit runes, on a word boundary when possible
func summarize(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	cut := string(r[:limit])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "..."
}
