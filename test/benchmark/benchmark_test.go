package benchmark

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/jdocmanual-finder/internal/extras"
	"github.com/jdocmanual-finder/internal/finder"
	"github.com/jdocmanual-finder/internal/index"
	"github.com/jdocmanual-finder/internal/mocks"
	"github.com/jdocmanual-finder/internal/models"
	"github.com/rs/zerolog"
)

func article(i int) *models.Result {
	return &models.Result{
		ID:        int64(i),
		Title:     fmt.Sprintf("Article %d", i),
		Text:      fmt.Sprintf("section %d describes installing and configuring the manual component", i),
		State:     1,
		Access:    1,
		Language:  "en-GB",
		TypeTitle: "Jdocmanual",
		URL:       finder.GetURL(int64(i), "com_jdocmanual", "jdocmanual"),
		Taxonomies: []models.Taxonomy{
			{Branch: "Type", Title: "Jdocmanual"},
			{Branch: "Language", Title: "en-GB"},
		},
	}
}

// BenchmarkEngineIndex benchmarks indexing into the in-memory text index
func BenchmarkEngineIndex(b *testing.B) {
	engine, err := index.Open("", mocks.NewMockLinkRepository(), zerolog.Nop())
	if err != nil {
		b.Fatalf("Open failed: %v", err)
	}
	defer engine.Close()

	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		engine.Index(ctx, article(i%1000))
	}

	b.ReportMetric(float64(b.N)/b.Elapsed().Seconds(), "items/sec")
}

// BenchmarkEngineSearch benchmarks searching 1000 indexed items
func BenchmarkEngineSearch(b *testing.B) {
	engine, err := index.Open("", mocks.NewMockLinkRepository(), zerolog.Nop())
	if err != nil {
		b.Fatalf("Open failed: %v", err)
	}
	defer engine.Close()

	ctx := context.Background()
	for i := 0; i < 1000; i++ {
		engine.Index(ctx, article(i))
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		engine.Search(ctx, "installing", 20)
	}
}

// BenchmarkHTMLText benchmarks body text extraction
func BenchmarkHTMLText(b *testing.B) {
	html := "<h1>Manual</h1>" + strings.Repeat("<p>Some <b>formatted</b> paragraph text.</p><script>x()</script>", 200)
	prep := extras.NewHTMLText()
	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		prep.Prepare(ctx, &models.Result{Body: html})
	}
}

// BenchmarkQuerySQL benchmarks rendering a list query page
func BenchmarkQuerySQL(b *testing.B) {
	base := finder.Select("a.id", "a.title").
		From("jdm_articles AS a").
		LeftJoin("jdm_languages AS b ON a.language = b.code")

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		base.Clone().Where("a.state = ?", 1).OrderBy("a.id").Limit(100, i%10*100).SQL()
	}
}
