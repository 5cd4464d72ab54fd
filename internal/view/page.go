package view

import (
	"io"
	"net/url"

	"golang.org/x/net/html"
)

// Links locates the viewer's pages, so the same tree can be served or exported.
type Links struct {
	Home      string
	Geo       string
	RunPrefix string
	RunSuffix string
	// Interactive pages carry the filter form and refresh control.
	Interactive bool
	// Documents prefixes report document paths when the reports are local.
	Documents string
}

// ServerLinks are the routes of the HTTP server.
func ServerLinks() Links {
	return Links{Home: "/", Geo: "/geo", RunPrefix: "/runs/", Documents: "/reports/", Interactive: true}
}

// StaticLinks are the file names written by an export.
func StaticLinks() Links {
	return Links{Home: "index.html", Geo: "geo.html", RunPrefix: "run-", RunSuffix: ".html"}
}

// Run returns the location of a run detail page.
func (l Links) Run(key string) string {
	return l.RunPrefix + url.PathEscape(key) + l.RunSuffix
}

const stylesheet = `
:root { --bg:#0f172a; --panel:#111c33; --text:#e2e8f0; --muted:#94a3b8; --accent:#60a5fa; --good:#34d399; --bad:#f87171; --border:rgba(148,163,184,0.2); }
* { box-sizing: border-box; }
body { margin:0; padding:24px; font-family: ui-sans-serif, system-ui, -apple-system, "Segoe UI", Roboto, sans-serif; background:var(--bg); color:var(--text); }
a { color: var(--accent); }
nav a { margin-right: 16px; }
.muted { color: var(--muted); font-size: 0.9em; }
.empty { padding: 24px; text-align: center; color: var(--muted); border: 1px dashed var(--border); border-radius: 8px; }
.log-card, .site-card, .panel { background: var(--panel); border: 1px solid var(--border); border-radius: 8px; padding: 16px; margin: 12px 0; }
.meta { color: var(--muted); }
.badge { display:inline-block; padding:2px 8px; border-radius: 999px; font-size: 0.8em; background: rgba(96,165,250,0.2); }
.badge-success { background: rgba(52,211,153,0.2); color: var(--good); }
.badge-failed { background: rgba(248,113,113,0.2); color: var(--bad); }
.filters form { display:flex; gap: 12px; align-items: end; flex-wrap: wrap; }
.stats { display:flex; gap: 24px; }
.stat strong { display:block; font-size: 1.6em; }
table { width:100%; border-collapse: collapse; }
th, td { text-align:left; padding: 8px; border-bottom: 1px solid var(--border); vertical-align: top; }
.domain-pill { display:inline-block; margin: 2px; padding: 1px 6px; border-radius: 4px; background: rgba(148,163,184,0.15); font-size: 0.85em; }
.preview { white-space: pre-wrap; color: var(--muted); font-size: 0.85em; }
.site-grid { display:grid; grid-template-columns: repeat(auto-fit, minmax(260px, 1fr)); gap: 12px; }
`

// Page wraps body content in a complete HTML document with the shared stylesheet
// and navigation.
func Page(links Links, title string, body ...*html.Node) *html.Node {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(El("html", Attr("lang", "en"),
		N(El("head",
			N(El("meta", Attr("charset", "utf-8"))),
			N(El("meta", Attr("name", "viewport"), Attr("content", "width=device-width, initial-scale=1"))),
			N(El("title", T(title))),
			N(El("style", T(stylesheet))),
		)),
		N(El("body",
			N(El("nav", N(El("a", Href(links.Home), T("Runs"))), N(El("a", Href(links.Geo), T("GEO report"))))),
			N(El("h1", T(title))),
			Nodes(body...),
		)),
	))
	return doc
}

// WritePage renders a complete page.
func WritePage(w io.Writer, links Links, title string, body ...*html.Node) error {
	return Render(w, Page(links, title, body...))
}
