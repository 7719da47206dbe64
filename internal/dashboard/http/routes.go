package dashboardhttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

const exportRateLimit = 10
const exportRateWindow = time.Minute

// MountRoutes mendaftarkan halaman dashboard, API JSON, dan endpoint ekspor.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(exportRateLimit, exportRateWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)
	r.Get("/app", h.handleIndex)
	r.Get("/app/events/{id}", h.handleEvent)
	r.Get("/app/api/events", h.handleAPIEvents)
	r.Group(func(gr chi.Router) {
		gr.Use(limiter)
		gr.Get("/app/export.csv", h.handleExportCSV)
		gr.Get("/app/export.pdf", h.handleExportPDF)
	})
}
