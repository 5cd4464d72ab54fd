package view

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEl_EscapesTextAndAttributes(t *testing.T) {
	n := Div(Class("card"), Attr("title", `"><script>`), T("<b>bold</b> & co"))
	out := RenderString(n)

	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "<b>")
	assert.Contains(t, out, "&lt;b&gt;bold&lt;/b&gt; &amp; co")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	card := doc.Find("div.card")
	require.Equal(t, 1, card.Length())
	title, _ := card.Attr("title")
	assert.Equal(t, `"><script>`, title)
	assert.Equal(t, "<b>bold</b> & co", card.Text())
}

func TestEl_SkipsNilParts(t *testing.T) {
	n := El("ul", If(false, T("hidden")), N(nil), Nodes(Li(T("one")), nil, Li(T("two"))))
	assert.Equal(t, "<ul><li>one</li><li>two</li></ul>", RenderString(n))
}

func TestMap(t *testing.T) {
	n := El("ol", Map([]string{"a", "b"}, func(s string) *Node { return Li(T(s)) }))
	assert.Equal(t, "<ol><li>a</li><li>b</li></ol>", RenderString(n))
}

func TestExternalLink(t *testing.T) {
	out := RenderString(ExternalLink("https://example.com/?a=1&b=2", "example"))
	assert.Equal(t, `<a href="https://example.com/?a=1&amp;b=2" target="_blank" rel="noreferrer">example</a>`, out)
}

func TestExternalLink_RejectsScriptTargets(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"javascript", "javascript:alert(document.cookie)"},
		{"mixed case", "JavaScript:alert(1)"},
		{"leading space", "  javascript:alert(1)"},
		{"embedded tab", "java\tscript:alert(1)"},
		{"data", "data:text/html,<script>alert(1)</script>"},
		{"vbscript", "vbscript:msgbox(1)"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := RenderString(ExternalLink(tt.target, "label"))
			assert.NotContains(t, out, "<a")
			assert.NotContains(t, out, "href")
			assert.Contains(t, out, "label")
		})
	}
}

func TestSafeURL(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
		ok       bool
	}{
		{"https://example.com/a", "https://example.com/a", true},
		{"HTTP://example.com", "HTTP://example.com", true},
		{"/reports/runs/r1.json", "/reports/runs/r1.json", true},
		{"runs/r1.json", "runs/r1.json", true},
		{" https://example.com ", "https://example.com", true},
		{"file:///etc/passwd", "", false},
		{"javascript:void(0)", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := SafeURL(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		n        int
		expected string
	}{
		{"short", "abc", 5, "abc"},
		{"exact", "abcde", 5, "abcde"},
		{"long", "abcdefgh", 5, "abcde"},
		{"multibyte", "日本語のテキスト", 3, "日本語"},
		{"no limit", "abc", 0, "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Truncate(tt.input, tt.n))
		})
	}
}

func TestPage(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WritePage(&sb, StaticLinks(), "Runs", Empty("No runs yet.")))

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(sb.String()))
	require.NoError(t, err)
	assert.Equal(t, "Runs", doc.Find("title").Text())
	assert.Equal(t, "Runs", doc.Find("h1").Text())
	assert.Equal(t, "No runs yet.", doc.Find("div.empty").Text())

	href, _ := doc.Find("nav a").Eq(1).Attr("href")
	assert.Equal(t, "geo.html", href)
	assert.True(t, strings.HasPrefix(sb.String(), "<!DOCTYPE html>"))
}

func TestLinks_Run(t *testing.T) {
	assert.Equal(t, "/runs/run%201", ServerLinks().Run("run 1"))
	assert.Equal(t, "run-abc.html", StaticLinks().Run("abc"))
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "—", FormatTime(time.Time{}))

	at := time.Date(2026, 10, 15, 8, 30, 0, 0, time.UTC)
	assert.Equal(t, at.Local().Format(TimeLayout), FormatTime(at))
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "3 hours ago", RelativeTime(now.Add(-3*time.Hour), now))
	assert.Equal(t, "—", RelativeTime(time.Time{}, now))
}
