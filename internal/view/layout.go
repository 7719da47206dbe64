// Package view renders the dashboard's HTML with gomponents.
package view

import (
	"net/http"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

const datastarBundle = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.7/bundles/datastar.js"

// Page wraps body in the shared document shell.
func Page(title string, body ...Node) Node {
	return Doctype(HTML(
		Lang("en"),
		Head(
			Meta(Charset("utf-8")),
			Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
			TitleEl(Text(title+" | BatAudit")),
			Link(Rel("icon"), Href("data:,")),
			Link(Rel("stylesheet"), Href("/static/css/app.css")),
			Script(Type("module"), Src(datastarBundle)),
		),
		Body(
			Header(Class("app-header"),
				A(Href("/app"), Class("brand"), Strong(Text("BatAudit"))),
				Span(Class("brand-sub"), Text("System Monitoring")),
			),
			Main(Class("app-main"), Group(body)),
		),
	))
}

// ErrorPage renders a standalone page for a failed request.
func ErrorPage(title, message string) Node {
	return Page(title,
		H1(Class("page-title"), Text(title)),
		P(Text(message)),
		P(A(Href("/app"), Text("Back to dashboard"))),
	)
}

// Render writes node as an HTML response.
func Render(w http.ResponseWriter, status int, node Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = node.Render(w)
}
