package htmltomarkdown_test

import (
	"testing"

	"github.com/fwojciec/tubechat"
	"github.com/fwojciec/tubechat/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Converter implements tubechat.Converter at compile time.
var _ tubechat.Converter = (*htmltomarkdown.Converter)(nil)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts basic paragraph", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(`<p>Hello, world!</p>`)

		require.NoError(t, err)
		assert.Equal(t, "Hello, world!", md)
	})

	t.Run("converts links", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(`<p>Slides at <a href="https://go.dev/talks">go.dev</a>.</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "[go.dev](https://go.dev/talks)")
	})

	t.Run("resolves relative links against youtube", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(`<p><a href="/@golang">@golang</a></p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "(https://www.youtube.com/@golang)")
	})

	t.Run("resolves relative links against custom domain", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter(htmltomarkdown.WithDomain("https://music.youtube.com"))
		md, err := conv.Convert(`<p><a href="/channel/x">x</a></p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "(https://music.youtube.com/channel/x)")
	})

	t.Run("converts lists", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(`<ul><li>First</li><li>Second</li></ul><ol><li>One</li><li>Two</li></ol>`)

		require.NoError(t, err)
		assert.Contains(t, md, "- First")
		assert.Contains(t, md, "- Second")
		assert.Contains(t, md, "1. One")
		assert.Contains(t, md, "2. Two")
	})

	t.Run("converts bold and italic", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(`<p><strong>Bold</strong> and <em>italic</em> text.</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "**Bold**")
		assert.Contains(t, md, "*italic*")
	})

	t.Run("collapses blank lines and trims", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert("<p>One</p><br><br><br><p>Two</p>\n\n\n")

		require.NoError(t, err)
		assert.NotContains(t, md, "\n\n\n")
		assert.Contains(t, md, "One")
		assert.Contains(t, md, "Two")
		assert.Equal(t, md[len(md)-3:], "Two")
	})

	t.Run("converts tables", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(`<table>
<thead><tr><th>Chapter</th><th>Start</th></tr></thead>
<tbody><tr><td>Intro</td><td>0:00</td></tr></tbody>
</table>`)

		require.NoError(t, err)
		assert.Contains(t, md, "Chapter")
		assert.Contains(t, md, "Intro")
		assert.Contains(t, md, "|")
		assert.Contains(t, md, "---")
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		_, err := conv.Convert("  ")

		require.Error(t, err)
		assert.Equal(t, tubechat.EINVALID, tubechat.ErrorCode(err))
	})
}
