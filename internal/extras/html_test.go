package extras

import (
	"context"
	"strings"
	"testing"

	"github.com/jdocmanual-finder/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLText_Prepare(t *testing.T) {
	item := &models.Result{
		Body: `<h1>Getting started</h1>
			<script>var x = 1;</script>
			<p>
				First   paragraph
				text.
			</p>
			<p>Second paragraph.</p>`,
	}

	require.NoError(t, NewHTMLText().Prepare(context.Background(), item))

	assert.Equal(t, "Getting started First paragraph text. Second paragraph.", item.Text)
	assert.Equal(t, "First paragraph text.", item.Description)
	assert.NotContains(t, item.Text, "var x")
}

func TestHTMLText_KeepsExistingDescription(t *testing.T) {
	item := &models.Result{
		Body:        "<p>Body text</p>",
		Description: "already set",
	}

	require.NoError(t, NewHTMLText().Prepare(context.Background(), item))
	assert.Equal(t, "already set", item.Description)
}

func TestHTMLText_MetadataDescription(t *testing.T) {
	item := &models.Result{
		Body:     "<p>Body text</p>",
		Metadata: models.Metadata{"description": "from metadata"},
	}

	require.NoError(t, NewHTMLText().Prepare(context.Background(), item))
	assert.Equal(t, "from metadata", item.Description)
}

func TestHTMLText_NoParagraphs(t *testing.T) {
	item := &models.Result{Body: "<div>Only a div</div>"}

	require.NoError(t, NewHTMLText().Prepare(context.Background(), item))
	assert.Equal(t, "Only a div", item.Description)
}

func TestHTMLText_EmptyBody(t *testing.T) {
	item := &models.Result{}

	require.NoError(t, NewHTMLText().Prepare(context.Background(), item))
	assert.Empty(t, item.Text)
	assert.Empty(t, item.Description)
}

func TestSummarize(t *testing.T) {
	long := strings.Repeat("word ", 100)

	got := summarize(long, 20)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, len([]rune(got)), 23)
	assert.Equal(t, "short", summarize("short", 20))
}
