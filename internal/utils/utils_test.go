package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMarkdownSanitizes(t *testing.T) {
	out := string(RenderMarkdown("**bold** <script>alert(1)</script>"))
	assert.Contains(t, out, "<strong>bold</strong>")
	assert.NotContains(t, out, "<script>")
}

func TestRenderMarkdownEnhancesImages(t *testing.T) {
	out := string(RenderMarkdown("![cat](https://example.com/cat.png)"))
	assert.Contains(t, out, `loading="lazy"`)
	assert.Contains(t, out, `referrerpolicy="no-referrer"`)
	assert.False(t, strings.Contains(out, "<body>"))
}

func TestRenderMarkdownIsMemoised(t *testing.T) {
	source := "memo check " + t.Name()
	before := getMarkdownCache().Len()
	first := RenderMarkdown(source)
	second := RenderMarkdown(source)
	assert.Equal(t, first, second)
	assert.Equal(t, before+1, getMarkdownCache().Len())
}

func TestRenderCache(t *testing.T) {
	c := NewRenderCache[int](2)
	calls := 0
	compute := func() int { calls++; return calls }

	assert.Equal(t, 1, c.GetOrCompute("a", compute))
	assert.Equal(t, 1, c.GetOrCompute("a", compute))
	c.GetOrCompute("b", compute)
	c.GetOrCompute("c", compute)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 4, c.GetOrCompute("a", compute), "evicted entries are recomputed")
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short text", Excerpt("short\n  text", 20))
	assert.Equal(t, "abc…", Excerpt("abcdef", 3))
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}
