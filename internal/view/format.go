package view

import (
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Tone is a CSS colour class used by badges and indicators.
type Tone string

const (
	ToneGreen  Tone = "tone-green"
	TonePurple Tone = "tone-purple"
	ToneYellow Tone = "tone-yellow"
	ToneRed    Tone = "tone-red"
	ToneBlue   Tone = "tone-blue"
	ToneMuted  Tone = "tone-muted"
)

var printer = message.NewPrinter(language.English)

// RelativeTime describes t relative to now in the short form used on event
// cards. Anything older than a day falls back to the calendar date.
func RelativeTime(t, now time.Time) string {
	diff := now.Sub(t)
	if diff < 0 {
		diff = 0
	}
	switch {
	case diff < time.Minute:
		return strconv.Itoa(int(diff/time.Second)) + "s ago"
	case diff < time.Hour:
		return strconv.Itoa(int(diff/time.Minute)) + "m ago"
	case diff < 24*time.Hour:
		return strconv.Itoa(int(diff/time.Hour)) + "h ago"
	default:
		return t.Format("02 Jan 2006")
	}
}

// MethodTone maps an HTTP method to its badge colour.
func MethodTone(method string) Tone {
	switch method {
	case "GET":
		return ToneGreen
	case "POST":
		return TonePurple
	case "PUT":
		return ToneYellow
	case "DELETE":
		return ToneRed
	case "PATCH":
		return ToneBlue
	default:
		return ToneMuted
	}
}

// StatusIndicator classifies a response status code.
func StatusIndicator(code int) (string, Tone) {
	switch {
	case code >= 200 && code < 300:
		return "Success", ToneGreen
	case code >= 400 && code < 500:
		return "Client Error", ToneYellow
	case code >= 500:
		return "Server Error", ToneRed
	default:
		return "Unknown", ToneMuted
	}
}

// FormatCount renders n with thousands separators.
func FormatCount(n int64) string {
	return printer.Sprintf("%d", n)
}
