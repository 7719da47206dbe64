package dashboardhttp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bataudit/dashboard/internal/audit"
	"github.com/bataudit/dashboard/internal/dashboard"
	"github.com/bataudit/dashboard/internal/pagination"
	"github.com/bataudit/dashboard/internal/platform/httpx"
	"github.com/bataudit/dashboard/internal/view"
	"github.com/bataudit/dashboard/report"
)

// Service defines the dashboard contract the handlers depend on.
type Service interface {
	Overview(ctx context.Context, page int) dashboard.Overview
	Events(ctx context.Context, page int) (audit.PagedResult, error)
	Event(ctx context.Context, id uuid.UUID) (audit.Event, error)
}

// PDFRenderer converts HTML documents to PDF.
type PDFRenderer interface {
	Enabled() bool
	RenderHTML(ctx context.Context, html []byte) ([]byte, error)
}

// Handler menangani permintaan halaman dashboard BatAudit.
type Handler struct {
	logger  *slog.Logger
	service Service
	pdf     PDFRenderer
	now     func() time.Time
}

// NewHandler membuat handler dashboard baru.
func NewHandler(logger *slog.Logger, service Service, pdf PDFRenderer) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:  logger,
		service: service,
		pdf:     pdf,
		now:     time.Now,
	}
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		http.Error(w, http.StatusText(http.StatusNotImplemented), http.StatusNotImplemented)
		return
	}
	page, err := parsePage(r)
	if err != nil {
		view.Render(w, http.StatusBadRequest, view.ErrorPage("Invalid page", "The page parameter must be a positive number."))
		return
	}

	ov := h.service.Overview(r.Context(), page)
	if ov.AuditErr != nil {
		h.logger.Error("load audit events", slog.Int("page", page), slog.Any("error", ov.AuditErr))
	}
	if ov.HealthErr != nil {
		h.logger.Warn("load health status", slog.Any("error", ov.HealthErr))
	}
	view.Render(w, http.StatusOK, view.Dashboard(ov, h.now()))
}

func (h *Handler) handleEvent(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		http.Error(w, http.StatusText(http.StatusNotImplemented), http.StatusNotImplemented)
		return
	}
	id, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, "id")))
	if err != nil {
		view.Render(w, http.StatusBadRequest, view.ErrorPage("Invalid event", "The event id is not a valid UUID."))
		return
	}
	event, err := h.service.Event(r.Context(), id)
	if err != nil {
		if errors.Is(err, audit.ErrNotFound) {
			view.Render(w, http.StatusNotFound, view.ErrorPage("Event not found", "No audit event exists with id "+id.String()+"."))
			return
		}
		h.logger.Error("load audit event", slog.String("id", id.String()), slog.Any("error", err))
		view.Render(w, http.StatusBadGateway, view.ErrorPage("Audit API unavailable", "The event could not be loaded. Try again shortly."))
		return
	}
	view.Render(w, http.StatusOK, view.Page("Event "+id.String(), view.EventDetail(event, h.now())))
}

func (h *Handler) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		http.Error(w, http.StatusText(http.StatusNotImplemented), http.StatusNotImplemented)
		return
	}
	page, err := parsePage(r)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	result, err := h.service.Events(r.Context(), page)
	if err != nil {
		h.handleUpstreamError(w, "export audit csv", err)
		return
	}
	csvBytes, err := audit.WriteCSV(result.Data)
	if err != nil {
		h.handleServerError(w, "encode csv", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"audit-events-page-%d.csv\"", page))
	if _, err := w.Write(csvBytes); err != nil {
		h.logger.Warn("write csv", slog.Any("error", err))
	}
}

func (h *Handler) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	if h.service == nil || h.pdf == nil || !h.pdf.Enabled() {
		http.Error(w, "PDF export is not configured", http.StatusNotImplemented)
		return
	}
	page, err := parsePage(r)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	result, err := h.service.Events(r.Context(), page)
	if err != nil {
		h.handleUpstreamError(w, "export audit pdf", err)
		return
	}
	doc, err := report.EventsDocument(result, h.now())
	if err != nil {
		h.handleServerError(w, "render pdf document", err)
		return
	}
	pdfBytes, err := h.pdf.RenderHTML(r.Context(), doc)
	if err != nil {
		if errors.Is(err, report.ErrUnavailable) {
			http.Error(w, "PDF export is not configured", http.StatusNotImplemented)
			return
		}
		h.handleServerError(w, "render pdf", err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"audit-events-page-%d.pdf\"", page))
	if _, err := w.Write(pdfBytes); err != nil {
		h.logger.Warn("write pdf", slog.Any("error", err))
	}
}

type eventsResponse struct {
	Data       []audit.Event        `json:"data"`
	Pagination audit.Pagination     `json:"pagination"`
	Controls   []pagination.Control `json:"controls"`
}

func (h *Handler) handleAPIEvents(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		httpx.Problem(w, http.StatusNotImplemented, "Not Implemented", "")
		return
	}
	page, err := parsePage(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	result, err := h.service.Events(r.Context(), page)
	if err != nil {
		h.logger.Error("api audit events", slog.Int("page", page), slog.Any("error", err))
		if errors.Is(err, audit.ErrQueryFailed) {
			err = fmt.Errorf("%w: %w", httpx.ErrUpstream, err)
		}
		httpx.RespondError(w, err)
		return
	}
	data := result.Data
	if data == nil {
		data = []audit.Event{}
	}
	httpx.JSON(w, http.StatusOK, eventsResponse{
		Data:       data,
		Pagination: result.Pagination,
		Controls:   pagination.Compute(page, result.TotalPages()),
	})
}

func parsePage(r *http.Request) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get("page"))
	if v == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(v)
	if err != nil || page <= 0 {
		return 0, fmt.Errorf("%w: page must be a positive integer", httpx.ErrValidation)
	}
	return page, nil
}

func (h *Handler) handleUpstreamError(w http.ResponseWriter, message string, err error) {
	h.logger.Error(message, slog.Any("error", err))
	if errors.Is(err, audit.ErrQueryFailed) {
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (h *Handler) handleServerError(w http.ResponseWriter, message string, err error) {
	if h.logger != nil {
		h.logger.Error(message, slog.Any("error", err))
	}
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
