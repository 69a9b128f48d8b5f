package scrape

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePage() []byte {
	paragraph := "<p>Acme builds developer tooling for continuous delivery pipelines. " +
		"Our platform automates build, test, and release workflows for teams of any size.</p>"
	return []byte(`<!DOCTYPE html>
<html>
<head>
  <title>Acme Platform</title>
  <style>body { color: red; }</style>
  <script>var trackingBeacon = "beacon-sentinel";</script>
</head>
<body>
  <nav><a href="/pricing">nav-sentinel</a></nav>
  <article>
    <h2>What we do</h2>
    ` + strings.Repeat(paragraph, 5) + `
  </article>
  <footer>footer-sentinel</footer>
</body>
</html>`)
}

func TestConverter_Convert(t *testing.T) {
	conv := NewConverter()
	pageURL, err := url.Parse("https://example.com/about")
	require.NoError(t, err)

	markdown, err := conv.Convert(samplePage(), pageURL)
	require.NoError(t, err)

	assert.Contains(t, markdown, "Acme builds developer tooling")
	assert.NotContains(t, markdown, "beacon-sentinel")
	assert.NotContains(t, markdown, "color: red")
	assert.NotContains(t, markdown, "nav-sentinel")
}

func TestConverter_EmptyBody(t *testing.T) {
	conv := NewConverter()
	pageURL, _ := url.Parse("https://example.com")

	markdown, err := conv.Convert([]byte("<html><body></body></html>"), pageURL)
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(markdown))
}

func TestCleanMarkdown(t *testing.T) {
	in := "# Title   \n\n\n\n\n\ntext\t\nmore  "
	out := cleanMarkdown(in)

	assert.NotContains(t, out, "\n\n\n\n")
	for _, line := range strings.Split(out, "\n") {
		assert.Equal(t, strings.TrimRight(line, " \t"), line)
	}
	assert.True(t, strings.HasPrefix(out, "# Title"))
	assert.True(t, strings.HasSuffix(out, "more"))
}
