package view

import (
	"strconv"
	"time"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/bataudit/dashboard/internal/dashboard"
)

// Dashboard renders the monitoring page for an overview. Sections whose
// source failed are replaced by an alert.
func Dashboard(ov dashboard.Overview, now time.Time) Node {
	var healthSection Node
	if ov.HealthErr != nil {
		healthSection = Alert("Health status is unavailable.")
	} else {
		healthSection = HealthTiles(ov.Health)
	}

	var eventsSection Node
	if ov.AuditErr != nil {
		eventsSection = Alert("Audit events could not be loaded.")
	} else {
		page := strconv.Itoa(ov.Page)
		eventsSection = Group{
			Div(Class("events-head"),
				H2(Text("Audit events")),
				PageSummary(ov.Events.Pagination),
				Div(Class("exports"),
					A(Class("btn"), Href("/app/export.csv?page="+page), Text("CSV")),
					A(Class("btn"), Href("/app/export.pdf?page="+page), Text("PDF")),
				),
			),
			EventList(ov.Events.Data, now),
			Pager("/app", ov.Page, ov.Controls),
		}
	}

	return Page("Audit events", healthSection, LatencyChart(ov.History), eventsSection)
}
