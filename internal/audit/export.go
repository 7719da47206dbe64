package audit

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"
)

var csvHeader = []string{"id", "timestamp", "method", "path", "status_code", "identifier", "user_email", "user_name", "service_name", "response_time_ms"}

// WriteCSV encodes events in the order given.
func WriteCSV(events []Event) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, e := range events {
		record := []string{
			e.ID.String(),
			e.Timestamp.UTC().Format(time.RFC3339),
			e.Method,
			e.Path,
			strconv.Itoa(e.StatusCode),
			e.Identifier,
			e.UserEmail,
			e.UserName,
			e.ServiceName,
			strconv.FormatInt(e.ResponseTime, 10),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
