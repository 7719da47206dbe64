package report

import (
	"bytes"
	"strconv"
	"time"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/bataudit/dashboard/internal/audit"
)

const printCSS = `body{font-family:Helvetica,Arial,sans-serif;font-size:11px;color:#0f172a}
table{width:100%;border-collapse:collapse}th,td{border-bottom:1px solid #cbd5e1;padding:4px 6px;text-align:left}
th{background:#f1f5f9}h1{font-size:16px;margin:0 0 4px}p{margin:0 0 12px;color:#475569}`

// EventsDocument renders one page of audit events as a printable table.
func EventsDocument(result audit.PagedResult, generatedAt time.Time) ([]byte, error) {
	rows := make([]Node, 0, len(result.Data))
	for _, e := range result.Data {
		rows = append(rows, Tr(
			Td(Text(e.Timestamp.UTC().Format(time.RFC3339))),
			Td(Text(e.Method)),
			Td(Text(e.Path)),
			Td(Text(strconv.Itoa(e.StatusCode))),
			Td(Text(e.ServiceName)),
			Td(Text(e.UserEmail)),
			Td(Text(strconv.FormatInt(e.ResponseTime, 10))),
		))
	}
	doc := Doctype(HTML(
		Head(
			Meta(Charset("utf-8")),
			TitleEl(Text("BatAudit events")),
			StyleEl(Raw(printCSS)),
		),
		Body(
			H1(Text("BatAudit events")),
			P(Textf("Page %d of %d, %d events in total. Generated %s.",
				result.Pagination.Page, result.TotalPages(), result.Pagination.TotalItems,
				generatedAt.UTC().Format("02 Jan 2006 15:04 MST"))),
			Table(
				THead(Tr(Th(Text("Timestamp")), Th(Text("Method")), Th(Text("Path")), Th(Text("Status")),
					Th(Text("Service")), Th(Text("User")), Th(Text("ms")))),
				TBody(Group(rows)),
			),
		),
	))
	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
