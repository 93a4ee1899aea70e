package report

import (
	"bytes"
	"io"
	"net/http"

	"github.com/noah-isme/backend-bar/internal/common"
	"github.com/noah-isme/backend-bar/internal/obs"
)

// Exporter renders a report into a downloadable spreadsheet.
type Exporter func(w io.Writer, rep Report) error

// Handler exposes report endpoints.
type Handler struct {
	Svc    *Service
	Export Exporter
}

// Get handles GET /report.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "report service not configured", nil)
		return
	}
	rep, err := h.Svc.Generate(r.Context())
	if err != nil {
		common.RenderError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": rep})
}

// Download handles GET /report/export: streams the report as an xlsx attachment.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil || h.Export == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "report export not configured", nil)
		return
	}
	rep, err := h.Svc.Generate(r.Context())
	if err != nil {
		if obs.ReportExportsTotal != nil {
			obs.ReportExportsTotal.WithLabelValues("error").Inc()
		}
		common.RenderError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := h.Export(&buf, rep); err != nil {
		if obs.ReportExportsTotal != nil {
			obs.ReportExportsTotal.WithLabelValues("error").Inc()
		}
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "failed to render report", nil)
		return
	}
	if obs.ReportExportsTotal != nil {
		obs.ReportExportsTotal.WithLabelValues("ok").Inc()
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="report.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
