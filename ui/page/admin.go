// Package page holds the server-rendered pages as templ components.
package page

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"questlog/internal/server"
)

func layout(title string, body func(io.Writer) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
<style>
body { font-family: ui-monospace, monospace; margin: 2rem; background: #14141f; color: #e8e8f0; }
h1 { font-size: 1.3rem; }
table { border-collapse: collapse; margin-top: 1rem; }
th, td { text-align: left; padding: .35rem .8rem; border-bottom: 1px solid #2c2c40; }
code { color: #8fd0ff; }
.method { color: #ffd27f; }
</style>
</head>
<body>
`, templ.EscapeString(title)); err != nil {
			return err
		}
		if err := body(w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</body>\n</html>\n")
		return err
	})
}

// AdminPage renders the operator dashboard: service identity and the
// full route table.
func AdminPage(addr string, routes []server.RouteDoc) templ.Component {
	return layout("questlog admin", func(w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			"<h1>questlog</h1>\n<p>listening on <code>%s</code> &middot; <a href=\"/_/admin/routes.json\"><code>routes.json</code></a></p>\n",
			templ.EscapeString(addr)); err != nil {
			return err
		}
		if _, err := io.WriteString(w,
			"<table>\n<tr><th>Method</th><th>Pattern</th><th>Summary</th></tr>\n"); err != nil {
			return err
		}
		for _, rt := range routes {
			if _, err := fmt.Fprintf(w,
				"<tr><td class=\"method\">%s</td><td><code>%s</code></td><td>%s</td></tr>\n",
				templ.EscapeString(rt.Method),
				templ.EscapeString(rt.Pattern),
				templ.EscapeString(rt.Summary)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</table>\n")
		return err
	})
}
