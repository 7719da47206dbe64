// Package svg renders small inline charts for the dashboard.
package svg

import (
	"fmt"
	"html/template"
	"math"
	"strings"
)

// Series is one named line on a chart.
type Series struct {
	Name   string
	Color  string
	Values []float64
}

// Opts customises the line chart renderer.
type Opts struct {
	Title       string
	Description string
	Unit        string
	AxisColor   string
	GridColor   string
	Padding     float64
	TickCount   int
	ShowDots    bool
}

// Defaults for the latency charts.
const (
	DefaultWidth   = 720
	DefaultHeight  = 200
	DefaultPadding = 28.0
	DefaultTicks   = 4
)

var palette = []string{"#2563eb", "#f97316", "#16a34a", "#a855f7"}

// Lines renders every series against a shared y axis. All series must have the
// same length as labels. NaN values are drawn as gaps in the line.
func Lines(width, height int, labels []string, series []Series, opts Opts) (string, error) {
	if len(series) == 0 {
		return "", fmt.Errorf("svg: series required")
	}
	if len(labels) == 0 {
		return "", fmt.Errorf("svg: labels required")
	}
	for _, s := range series {
		if len(s.Values) != len(labels) {
			return "", fmt.Errorf("svg: series %q length must match labels", s.Name)
		}
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	padding := opts.Padding
	if padding <= 0 {
		padding = DefaultPadding
	}
	ticks := opts.TickCount
	if ticks <= 0 {
		ticks = DefaultTicks
	}
	axisColor := fallback(opts.AxisColor, "#475569")
	gridColor := fallback(opts.GridColor, "#cbd5f5")

	plot := frame{
		left:   padding,
		top:    padding,
		width:  float64(width) - 2*padding,
		height: float64(height) - 2*padding,
		points: len(labels),
	}
	if plot.width <= 0 || plot.height <= 0 {
		return "", fmt.Errorf("svg: viewport too small")
	}
	plot.max = maxOf(series)
	if almostEqual(plot.max, 0) {
		plot.max = 1
	}

	titleID := makeID(opts.Title, "title")
	descID := makeID(opts.Title, "desc")

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" role="img" aria-labelledby="%s %s">`, width, height, titleID, descID)
	fmt.Fprintf(&b, `<title id="%s">%s</title>`, titleID, template.HTMLEscapeString(fallback(opts.Title, "Latency")))
	fmt.Fprintf(&b, `<desc id="%s">%s</desc>`, descID, template.HTMLEscapeString(fallback(opts.Description, "Latency over time")))

	for i := 0; i <= ticks; i++ {
		ratio := float64(i) / float64(ticks)
		y := plot.top + plot.height - ratio*plot.height
		fmt.Fprintf(&b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="0.5" stroke-dasharray="2,4" aria-hidden="true"></line>`, plot.left, y, plot.left+plot.width, y, gridColor)
		fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" fill="%s" font-size="10" text-anchor="end">%s</text>`, plot.left-6, y+4, axisColor, template.HTMLEscapeString(formatTick(plot.max*ratio)+opts.Unit))
	}

	fmt.Fprintf(&b, `<g stroke="%s">`, axisColor)
	fmt.Fprintf(&b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke-width="1"></line>`, plot.left, plot.top, plot.left, plot.top+plot.height)
	fmt.Fprintf(&b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke-width="1"></line>`, plot.left, plot.top+plot.height, plot.left+plot.width, plot.top+plot.height)
	b.WriteString("</g>")

	for i, s := range series {
		color := fallback(s.Color, palette[i%len(palette)])
		var path strings.Builder
		penDown := false
		for j, v := range s.Values {
			if math.IsNaN(v) {
				penDown = false
				continue
			}
			x, y := plot.at(j, v)
			cmd := "L"
			if !penDown {
				cmd = "M"
			}
			if path.Len() > 0 {
				path.WriteByte(' ')
			}
			fmt.Fprintf(&path, "%s%.2f %.2f", cmd, x, y)
			penDown = true
		}
		fmt.Fprintf(&b, `<path d="%s" fill="none" stroke="%s" stroke-width="2" stroke-linejoin="round" stroke-linecap="round" aria-label="%s"></path>`, path.String(), color, template.HTMLEscapeString(s.Name))
		if opts.ShowDots {
			for j, v := range s.Values {
				if math.IsNaN(v) {
					continue
				}
				x, y := plot.at(j, v)
				fmt.Fprintf(&b, `<circle cx="%.2f" cy="%.2f" r="2.5" fill="%s"></circle>`, x, y, color)
			}
		}
		legendX := plot.left + float64(i)*90
		fmt.Fprintf(&b, `<rect x="%.2f" y="%.2f" width="10" height="10" fill="%s"></rect>`, legendX, plot.top-20, color)
		fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" fill="%s" font-size="10">%s</text>`, legendX+14, plot.top-11, axisColor, template.HTMLEscapeString(s.Name))
	}

	// only first and last labels fit under a dense history
	for _, j := range labelIndexes(len(labels)) {
		x, _ := plot.at(j, 0)
		fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" fill="%s" font-size="10" text-anchor="middle">%s</text>`, x, plot.top+plot.height+14, axisColor, template.HTMLEscapeString(labels[j]))
	}

	b.WriteString("</svg>")
	return b.String(), nil
}

type frame struct {
	left, top     float64
	width, height float64
	max           float64
	points        int
}

func (f frame) at(i int, v float64) (float64, float64) {
	x := f.left + f.width/2
	if f.points > 1 {
		x = f.left + float64(i)*f.width/float64(f.points-1)
	}
	if v < 0 {
		v = 0
	}
	y := f.top + f.height - v/f.max*f.height
	return x, y
}

func labelIndexes(n int) []int {
	if n == 1 {
		return []int{0}
	}
	return []int{0, n - 1}
}

func maxOf(series []Series) float64 {
	out := 0.0
	for _, s := range series {
		for _, v := range s.Values {
			if v > out {
				out = v
			}
		}
	}
	return out
}

func fallback(value, defaultValue string) string {
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	return value
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func makeID(base, suffix string) string {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, strings.ToLower(strings.TrimSpace(base)))
	cleaned = strings.Trim(cleaned, "-")
	if cleaned == "" {
		cleaned = "chart"
	}
	return cleaned + "-" + suffix
}

func formatTick(v float64) string {
	if v >= 1000 {
		return fmt.Sprintf("%.1fk", v/1000)
	}
	if almostEqual(v, math.Round(v)) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}
