package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "leadscope/internal/errors"
	"leadscope/internal/exporter"
	"leadscope/internal/middleware"
	"leadscope/internal/services"
	api "leadscope/pkg/contracts/api/v1"
)

var exportFormats = []string{string(exporter.FormatCSV), string(exporter.FormatXLSX), string(exporter.FormatSheets)}

// DashboardHandler serves dashboard aggregates and exports.
type DashboardHandler struct {
	dashboard    DashboardBuilder
	exports      Exporter
	validator    *middleware.RequestValidator
	query        *middleware.QueryParamValidator
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboard DashboardBuilder, exports Exporter, validator *middleware.RequestValidator, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *DashboardHandler {
	logger = logger.With(slog.String("handler", "dashboard"))
	return &DashboardHandler{
		dashboard:    dashboard,
		exports:      exports,
		validator:    validator,
		query:        middleware.NewQueryParamValidator(logger, errorHandler),
		errorHandler: errorHandler,
		logger:       logger,
	}
}

// Routes returns the dashboard routes
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(render.SetContentType(render.ContentTypeJSON)).Post("/", h.Dashboard)
	r.With(render.SetContentType(render.ContentTypeJSON)).Post("/filter-options", h.FilterOptions)
	r.Post("/export", h.Export)

	return r
}

// Dashboard handles POST /dashboard
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	var req api.DashboardRequest
	if err := h.validator.Decode(w, r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	dash, err := h.dashboard.Build(r.Context(), req.Classifications, req.Filters, req.Search)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, dash)
}

// FilterOptions handles POST /dashboard/filter-options
func (h *DashboardHandler) FilterOptions(w http.ResponseWriter, r *http.Request) {
	var req api.FilterOptionsRequest
	if err := h.validator.Decode(w, r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, h.dashboard.FilterOptions(req.Classifications))
}

// Export handles POST /dashboard/export?format=csv|xlsx|sheets. File formats
// are returned as attachments; sheets answers with the updated range.
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	value, ok := h.query.ValidateEnum(w, r, "format", exportFormats, string(exporter.FormatCSV))
	if !ok {
		return
	}
	format, _ := exporter.ParseFormat(value)

	var req api.ExportRequest
	if err := h.validator.Decode(w, r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	if format == exporter.FormatSheets {
		res, err := h.exports.PublishToSheets(r.Context(), req.Classifications)
		if err != nil {
			h.errorHandler.HandleError(w, r, sheetsError(err))
			return
		}
		render.JSON(w, r, api.SheetsExportResponse{
			SpreadsheetID: res.SpreadsheetID,
			UpdatedRange:  res.UpdatedRange,
			UpdatedRows:   res.UpdatedRows,
		})
		return
	}

	file, err := h.exports.Render(r.Context(), format, req.Classifications)
	if err != nil {
		h.errorHandler.HandleError(w, r, exportError(err))
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+file.FileName+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Data); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write export", slog.String("error", err.Error()))
	}
}

func exportError(err error) error {
	var apiErr *apierrors.APIError
	switch {
	case errors.As(err, &apiErr):
		return err
	case errors.Is(err, services.ErrNothingToExport):
		return apierrors.New(http.StatusBadRequest, "NOTHING_TO_EXPORT", "No classifications to export")
	case errors.Is(err, services.ErrUnsupportedFormat):
		return apierrors.ErrValidation("format", err.Error())
	case errors.Is(err, exporter.ErrSheetsNotConfigured):
		return apierrors.New(http.StatusServiceUnavailable, "SHEETS_NOT_CONFIGURED", "Google Sheets export is not configured")
	default:
		return err
	}
}

// sheetsError reports unmapped publish failures as a failed upstream call.
func sheetsError(err error) error {
	var apiErr *apierrors.APIError
	switch {
	case errors.As(err, &apiErr),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, services.ErrNothingToExport),
		errors.Is(err, exporter.ErrSheetsNotConfigured):
		return exportError(err)
	default:
		return apierrors.NewWithDetails(http.StatusBadGateway, "UPSTREAM_FAILED", "Google Sheets request failed", err.Error())
	}
}
