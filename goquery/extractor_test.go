package goquery_test

import (
	"testing"

	"github.com/fwojciec/linksum/goquery"
	"github.com/stretchr/testify/assert"
)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts title and body text", func(t *testing.T) {
		t.Parallel()

		html := `<html><title>T</title><body><p>Hello world this is a sufficiently long test paragraph for extraction</p></body></html>`

		result := goquery.NewExtractor().Extract(html)

		assert.Equal(t, "T", result.Title)
		assert.Equal(t, "Hello world this is a sufficiently long test paragraph for extraction", result.Content)
		assert.Equal(t, 11, result.WordCount)
	})

	t.Run("prefers article over body", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Post</title></head>
<body>
<nav>Home About Contact</nav>
<article><h1>Heading</h1><p>Article paragraph.</p></article>
<footer>Copyright</footer>
</body>
</html>`

		result := goquery.NewExtractor().Extract(html)

		assert.Equal(t, "Heading Article paragraph.", result.Content)
		assert.Equal(t, 3, result.WordCount)
	})

	t.Run("falls through to class-based regions", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<div class="sidebar">Side</div>
<div class="post-body"><p>Post text here.</p></div>
</body></html>`

		result := goquery.NewExtractor().Extract(html)

		assert.Equal(t, "Post text here.", result.Content)
	})

	t.Run("drops script and style text", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><style>body { color: red; }</style></head>
<body><main><script>var tracking = 1;</script><p>Visible words only.</p></main></body></html>`

		result := goquery.NewExtractor().Extract(html)

		assert.Equal(t, "Visible words only.", result.Content)
		assert.NotContains(t, result.Content, "tracking")
		assert.NotContains(t, result.Content, "color")
	})

	t.Run("separates adjacent block elements", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><main><p>first</p><p>second</p></main></body></html>`

		result := goquery.NewExtractor().Extract(html)

		assert.Equal(t, "first second", result.Content)
	})

	t.Run("returns empty result for empty input", func(t *testing.T) {
		t.Parallel()

		result := goquery.NewExtractor().Extract("")

		assert.Empty(t, result.Title)
		assert.Empty(t, result.Content)
		assert.Zero(t, result.WordCount)
	})

	t.Run("uses custom region selectors", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><div id="story">Story text.</div><article>Other.</article></body></html>`

		result := goquery.NewExtractor(goquery.WithRegionSelectors("#story")).Extract(html)

		assert.Equal(t, "Story text.", result.Content)
	})
}
