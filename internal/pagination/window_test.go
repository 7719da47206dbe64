package pagination

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prev(target int) Control { return Control{Kind: KindPrevious, Label: "Previous", Target: target} }
func next(target int) Control { return Control{Kind: KindNext, Label: "Next", Target: target} }
func ellipsis() Control       { return Control{Kind: KindEllipsis, Label: "…"} }
func num(n int, active bool) Control {
	return pageControl(n, active)
}

func TestComputeScenarios(t *testing.T) {
	cases := []struct {
		name       string
		page       int
		totalPages int
		want       []Control
	}{
		{
			name: "first of five", page: 1, totalPages: 5,
			want: []Control{prev(1), num(1, true), ellipsis(), num(5, false), next(2)},
		},
		{
			name: "middle of five", page: 3, totalPages: 5,
			want: []Control{prev(2), num(1, false), ellipsis(), num(3, true), ellipsis(), num(5, false), next(4)},
		},
		{
			name: "last of five", page: 5, totalPages: 5,
			want: []Control{prev(4), num(1, false), ellipsis(), num(5, true), next(5)},
		},
		{
			name: "second of five has no leading ellipsis", page: 2, totalPages: 5,
			want: []Control{prev(1), num(1, false), num(2, true), ellipsis(), num(5, false), next(3)},
		},
		{
			name: "fourth of five has no trailing ellipsis", page: 4, totalPages: 5,
			want: []Control{prev(3), num(1, false), ellipsis(), num(4, true), num(5, false), next(5)},
		},
		{
			name: "single page", page: 1, totalPages: 1,
			want: []Control{prev(1), num(1, true), next(1)},
		},
		{
			name: "two pages on first", page: 1, totalPages: 2,
			want: []Control{prev(1), num(1, true), num(2, false), next(2)},
		},
		{
			name: "two pages on last", page: 2, totalPages: 2,
			want: []Control{prev(1), num(1, false), num(2, true), next(2)},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Compute(tc.page, tc.totalPages))
		})
	}
}

func numbered(controls []Control) []Control {
	var out []Control
	for _, c := range controls {
		if c.Kind == KindPage {
			out = append(out, c)
		}
	}
	return out
}

func TestSinglePageHasOneNumberedControl(t *testing.T) {
	for _, page := range []int{1, 2, 7} {
		controls := Compute(page, 1)
		pages := numbered(controls)
		require.Len(t, pages, 1, "page=%d", page)
		assert.Equal(t, "1", pages[0].Label)
		assert.Equal(t, KindPrevious, controls[0].Kind)
		assert.Equal(t, KindNext, controls[len(controls)-1].Kind)
	}
	assert.True(t, numbered(Compute(1, 1))[0].Active)
}

func TestInteriorPagesHaveThreeNumberedControls(t *testing.T) {
	for total := 3; total <= 12; total++ {
		for page := 2; page < total; page++ {
			controls := Compute(page, total)
			pages := numbered(controls)
			require.Len(t, pages, 3, "page=%d total=%d", page, total)
			assert.Equal(t, 1, pages[0].Target)
			assert.Equal(t, page, pages[1].Target)
			assert.True(t, pages[1].Active)
			assert.Equal(t, total, pages[2].Target)

			var leading, trailing bool
			for i, c := range controls {
				if c.Kind != KindEllipsis {
					continue
				}
				if controls[i-1].Target == 1 && controls[i-1].Kind == KindPage {
					leading = true
				} else {
					trailing = true
				}
			}
			assert.Equal(t, page > 2, leading, "leading page=%d total=%d", page, total)
			assert.Equal(t, page < total-1, trailing, "trailing page=%d total=%d", page, total)
		}
	}
}

func TestLastPageIsNotDuplicated(t *testing.T) {
	for total := 2; total <= 10; total++ {
		pages := numbered(Compute(total, total))
		require.Len(t, pages, 2)
		assert.Equal(t, 1, pages[0].Target)
		assert.False(t, pages[0].Active)
		assert.Equal(t, total, pages[1].Target)
		assert.True(t, pages[1].Active)
	}
}

func TestPreviousAndNextClamp(t *testing.T) {
	controls := Compute(1, 4)
	assert.Equal(t, 1, controls[0].Target)

	controls = Compute(4, 4)
	assert.Equal(t, 4, controls[len(controls)-1].Target)
}

func TestComputeIsIdempotent(t *testing.T) {
	assert.Equal(t, Compute(6, 9), Compute(6, 9))
}

func TestWindowActivateDispatchesTarget(t *testing.T) {
	var requested []int
	w := New(3, 5, func(page int) { requested = append(requested, page) })
	for _, c := range w.Controls() {
		w.Activate(c)
	}
	// prev, 1, current, last, next; ellipses request nothing.
	assert.Equal(t, []int{2, 1, 3, 5, 4}, requested)
}

func TestWindowActivateWithoutCallback(t *testing.T) {
	w := New(1, 3, nil)
	assert.NotPanics(t, func() {
		for _, c := range w.Controls() {
			w.Activate(c)
		}
	})
}

func TestWindowControlsReturnsCopy(t *testing.T) {
	w := New(2, 4, nil)
	controls := w.Controls()
	controls[0].Target = 99
	assert.Equal(t, 1, w.Controls()[0].Target)
}

func TestControlJSON(t *testing.T) {
	raw, err := json.Marshal(Compute(2, 2))
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"kind":"previous","label":"Previous","target":1},
		{"kind":"page","label":"1","target":1},
		{"kind":"page","label":"2","target":2,"active":true},
		{"kind":"next","label":"Next","target":2}
	]`, string(raw))
}
