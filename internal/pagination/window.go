// Package pagination decides which page controls a paged listing presents.
package pagination

import "strconv"

// Kind identifies the role of a control inside the page window.
type Kind int

const (
	// KindPrevious steps one page back, clamped to the first page.
	KindPrevious Kind = iota
	// KindPage jumps to a numbered page.
	KindPage
	// KindEllipsis is a placeholder for skipped pages and requests nothing.
	KindEllipsis
	// KindNext steps one page forward, clamped to the last page.
	KindNext
)

func (k Kind) String() string {
	switch k {
	case KindPrevious:
		return "previous"
	case KindPage:
		return "page"
	case KindEllipsis:
		return "ellipsis"
	case KindNext:
		return "next"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Control describes a single navigation element. Target is the page the
// control requests when activated; it is zero for ellipses.
type Control struct {
	Kind   Kind   `json:"kind"`
	Label  string `json:"label"`
	Target int    `json:"target,omitempty"`
	Active bool   `json:"active,omitempty"`
}

// Requests reports whether activating the control issues a page change.
func (c Control) Requests() bool {
	return c.Kind != KindEllipsis && c.Target > 0
}

// Compute returns the controls for the given position. page and totalPages are
// expected to be >= 1; other inputs are not validated. totalPages is trusted as
// given, even when page lies beyond it.
func Compute(page, totalPages int) []Control {
	controls := make([]Control, 0, 7)
	controls = append(controls, Control{Kind: KindPrevious, Label: "Previous", Target: max(page-1, 1)})
	controls = append(controls, pageControl(1, page == 1))
	if page > 2 {
		controls = append(controls, Control{Kind: KindEllipsis, Label: "…"})
	}
	if page > 1 && page < totalPages {
		controls = append(controls, pageControl(page, true))
	}
	if page < totalPages-1 {
		controls = append(controls, Control{Kind: KindEllipsis, Label: "…"})
	}
	if totalPages > 1 {
		controls = append(controls, pageControl(totalPages, page == totalPages))
	}
	controls = append(controls, Control{Kind: KindNext, Label: "Next", Target: min(page+1, totalPages)})
	return controls
}

func pageControl(n int, active bool) Control {
	return Control{Kind: KindPage, Label: strconv.Itoa(n), Target: n, Active: active}
}

// Window binds computed controls to a page-change callback.
type Window struct {
	Page       int
	TotalPages int

	controls     []Control
	onPageChange func(page int)
}

// New computes the window for page/totalPages. onPageChange may be nil, in
// which case Activate is a no-op.
func New(page, totalPages int, onPageChange func(page int)) Window {
	return Window{
		Page:         page,
		TotalPages:   totalPages,
		controls:     Compute(page, totalPages),
		onPageChange: onPageChange,
	}
}

// Controls returns a copy of the window's controls in display order.
func (w Window) Controls() []Control {
	out := make([]Control, len(w.controls))
	copy(out, w.controls)
	return out
}

// Activate dispatches the control's target page to the callback. Ellipses and
// a nil callback do nothing. Re-activating the current page re-requests it.
func (w Window) Activate(c Control) {
	if w.onPageChange == nil || !c.Requests() {
		return
	}
	w.onPageChange(c.Target)
}
