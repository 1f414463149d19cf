package fs

import (
	"html/template"
	"io"
	"time"

	"github.com/fwojciec/tubechat"
)

// MermaidScriptURL is the Mermaid build loaded by exported pages.
const MermaidScriptURL = "https://cdn.jsdelivr.net/npm/mermaid@11/dist/mermaid.min.js"

var pageTemplate = template.Must(template.New("graph").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<script src="{{.ScriptURL}}"></script>
<style>
body { font-family: system-ui, sans-serif; max-width: 960px; margin: 2rem auto; padding: 0 1rem; color: #1f2328; }
.summary { font-size: 1.05rem; line-height: 1.6; }
.mermaid { background: #f6f8fa; border-radius: 8px; padding: 1rem; }
.key-points { list-style: none; padding: 0; }
.key-points li { margin: 0.75rem 0; }
.badge { display: inline-block; border-radius: 4px; padding: 0 0.4rem; font-size: 0.8rem; color: #fff; }
.badge-high { background: #cf222e; }
.badge-medium { background: #bf8700; }
.badge-low { background: #1a7f37; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #d0d7de; padding: 0.4rem 0.6rem; text-align: left; }
footer { margin-top: 2rem; font-size: 0.9rem; color: #57606a; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{- if .Channel}}
<p class="channel">{{.Channel}}</p>
{{- end}}
{{- if .Graph.Summary}}
<p class="summary">{{.Graph.Summary}}</p>
{{- end}}
<pre class="mermaid">
{{.Graph.MermaidCode}}
</pre>
{{- if .Graph.KeyPoints}}
<h2>Key points</h2>
<ul class="key-points">
{{- range .Graph.KeyPoints}}
<li><span class="badge badge-{{.Importance.Normalize}}">{{.Importance.Normalize}}</span> <strong>{{.Title}}</strong>{{if .Description}}: {{.Description}}{{end}}</li>
{{- end}}
</ul>
{{- end}}
{{- if .Graph.Connections}}
<h2>Connections</h2>
<table class="connections">
<thead><tr><th>From</th><th>Relationship</th><th>To</th></tr></thead>
<tbody>
{{- range .Graph.Connections}}
<tr><td>{{.From}}</td><td>{{.Relationship}}</td><td>{{.To}}</td></tr>
{{- end}}
</tbody>
</table>
{{- end}}
<footer>
<a class="source" href="{{.SourceURL}}">{{.SourceURL}}</a> · exported {{.Exported}}
</footer>
<script>mermaid.initialize({ startOnLoad: true });</script>
</body>
</html>
`))

type page struct {
	Title     string
	Channel   string
	SourceURL string
	ScriptURL string
	Exported  string
	Graph     *tubechat.KnowledgeGraph
}

// WriteHTML writes the graph as a standalone HTML page. All text is escaped,
// so model output cannot inject markup.
func WriteHTML(w io.Writer, video *tubechat.Video, graph *tubechat.KnowledgeGraph) error {
	return pageTemplate.Execute(w, page{
		Title:     title(video, graph),
		Channel:   video.Channel,
		SourceURL: sourceURL(video),
		ScriptURL: MermaidScriptURL,
		Exported:  time.Now().Format("2006-01-02"),
		Graph:     graph,
	})
}
