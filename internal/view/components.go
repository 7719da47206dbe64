package view

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	. "maragu.dev/gomponents"
	data "maragu.dev/gomponents-datastar"
	. "maragu.dev/gomponents/html"

	"github.com/bataudit/dashboard/internal/audit"
	"github.com/bataudit/dashboard/internal/health"
	"github.com/bataudit/dashboard/internal/pagination"
	"github.com/bataudit/dashboard/internal/view/svg"
)

// Pager renders the page-window controls as links to base?page=N.
func Pager(base string, page int, controls []pagination.Control) Node {
	items := make([]Node, 0, len(controls))
	for _, c := range controls {
		if !c.Requests() {
			items = append(items, Li(Span(Class("pager-gap"), Aria("hidden", "true"), Text(c.Label))))
			continue
		}
		className := "pager-link pager-" + c.Kind.String()
		attrs := []Node{Href(pageHref(base, c.Target)), Class(className)}
		if c.Active {
			attrs = append(attrs, Aria("current", "page"))
		}
		if (c.Kind == pagination.KindPrevious || c.Kind == pagination.KindNext) && c.Target == page {
			attrs = append(attrs, Aria("disabled", "true"))
		}
		attrs = append(attrs, Text(c.Label))
		items = append(items, Li(A(attrs...)))
	}
	return Nav(Class("pager"), Aria("label", "Pagination"), Ul(Group(items)))
}

func pageHref(base string, page int) string {
	return base + "?page=" + strconv.Itoa(page)
}

// PageSummary renders "{limit} of {totalItems} events".
func PageSummary(p audit.Pagination) Node {
	return P(Class("summary"), Textf("%s of %s events", FormatCount(int64(p.Limit)), FormatCount(p.TotalItems)))
}

// EventList renders event cards with a client-side quick filter.
func EventList(events []audit.Event, now time.Time) Node {
	if len(events) == 0 {
		return Div(Class("card empty"), P(Text("No audit events on this page.")))
	}
	cards := make([]Node, 0, len(events))
	for _, e := range events {
		cards = append(cards, EventCard(e, now, data.Show(containsExpr(filterText(e)))))
	}
	return Section(Class("events"),
		data.Signals(map[string]any{"q": ""}),
		Div(Class("card filter"),
			Label(For("quick-filter"), Text("Quick filter")),
			Input(ID("quick-filter"), Type("text"), data.Bind("q"), Placeholder("Filter by path, service, user or method")),
		),
		Div(Class("event-list"), Group(cards)),
	)
}

// EventCard renders a single event summary linking to its detail page.
func EventCard(e audit.Event, now time.Time, extra ...Node) Node {
	statusText, statusTone := StatusIndicator(e.StatusCode)
	return Article(Class("card event"), Group(extra),
		Div(Class("event-head"),
			Span(Class("badge "+string(MethodTone(e.Method))), Text(e.Method)),
			A(Class("event-path"), Href("/app/events/"+e.ID.String()), Text(e.Path)),
			Span(Class("status "+string(statusTone)), Title(statusText), Textf("%d %s", e.StatusCode, statusText)),
		),
		Div(Class("event-meta"),
			Span(Text(e.ServiceName)),
			Span(Text(actor(e))),
			If(e.ResponseTime > 0, Span(Textf("%d ms", e.ResponseTime))),
			Span(Title(e.Timestamp.UTC().Format(time.RFC3339)), Text(RelativeTime(e.Timestamp, now))),
		),
	)
}

// EventDetail renders every field of an event.
func EventDetail(e audit.Event, now time.Time) Node {
	statusText, statusTone := StatusIndicator(e.StatusCode)
	row := func(label string, value Node) Node {
		return Group{Dt(Text(label)), Dd(value)}
	}
	return Article(Class("card event-detail"),
		H1(Class("page-title"),
			Span(Class("badge "+string(MethodTone(e.Method))), Text(e.Method)), Text(" "), Text(e.Path),
		),
		Dl(
			row("ID", Code(Text(e.ID.String()))),
			row("Status", Span(Class("status "+string(statusTone)), Textf("%d %s", e.StatusCode, statusText))),
			row("Service", Text(orDash(e.ServiceName))),
			row("Identifier", Text(orDash(e.Identifier))),
			row("User", Text(orDash(e.UserName))),
			row("Email", Text(orDash(e.UserEmail))),
			row("Response time", Text(responseTime(e.ResponseTime))),
			row("Timestamp", Textf("%s (%s)", e.Timestamp.UTC().Format(time.RFC3339), RelativeTime(e.Timestamp, now))),
		),
		P(A(Href("/app"), Text("Back to events"))),
	)
}

// HealthTiles renders the status tiles for the latest health snapshot.
func HealthTiles(snap health.Snapshot) Node {
	apiText, apiTone := "Unhealthy", ToneRed
	if snap.Healthy() {
		apiText, apiTone = "Healthy", ToneGreen
	}
	dbText, dbTone := "Unhealthy", ToneRed
	if snap.DBHealthy() {
		dbText, dbTone = "Healthy", ToneGreen
	}
	return Section(Class("health-tiles"),
		tile("API", Span(Class("status "+string(apiTone)), Text(apiText)), snap.Message),
		tile("Database", Span(Class("status "+string(dbTone)), Text(dbText)), snap.DBStatus),
		tile("API latency", Textf("%d ms", snap.APIResponseMS), ""),
		tile("DB latency", Textf("%d ms", snap.DBResponseMS), ""),
		tile("Version", Text(orDash(snap.Version)), orDash(snap.Environment)),
	)
}

func tile(label string, value Node, hint string) Node {
	return Div(Class("card tile"),
		Span(Class("tile-label"), Text(label)),
		Strong(Class("tile-value"), value),
		If(hint != "", Span(Class("tile-hint"), Text(hint))),
	)
}

// LatencyChart renders the recorded health samples as a two-line chart.
// Nothing is rendered with fewer than two samples.
func LatencyChart(samples []health.Sample) Node {
	if len(samples) < 2 {
		return Group{}
	}
	labels := make([]string, len(samples))
	api := make([]float64, len(samples))
	db := make([]float64, len(samples))
	for i, s := range samples {
		labels[i] = s.At.UTC().Format("15:04:05")
		if !s.Reachable() {
			api[i], db[i] = math.NaN(), math.NaN()
			continue
		}
		api[i] = float64(s.APIMS)
		db[i] = float64(s.DBMS)
	}
	chart, err := svg.Lines(0, 0, labels, []svg.Series{
		{Name: "API", Values: api},
		{Name: "Database", Values: db},
	}, svg.Opts{Title: "Latency", Description: "API and database response times", Unit: "ms"})
	if err != nil {
		return Group{}
	}
	return Section(Class("card chart"), H2(Text("Latency")), Raw(chart))
}

// Alert renders a notice for a dashboard section that failed to load.
func Alert(message string) Node {
	return Div(Class("card alert "+string(ToneRed)), Role("alert"), Text(message))
}

func filterText(e audit.Event) string {
	return strings.Join([]string{e.Method, e.Path, e.ServiceName, e.UserName, e.UserEmail, e.Identifier}, " ")
}

func containsExpr(value string) string {
	return "$q === '' || " + strconv.Quote(strings.ToLower(value)) + ".includes($q.toLowerCase())"
}

func actor(e audit.Event) string {
	switch {
	case e.UserName != "":
		return e.UserName
	case e.UserEmail != "":
		return e.UserEmail
	case e.Identifier != "":
		return e.Identifier
	default:
		return "anonymous"
	}
}

func responseTime(ms int64) string {
	if ms <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d ms", ms)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
