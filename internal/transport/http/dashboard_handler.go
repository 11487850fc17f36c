package http

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"gonum.org/v1/plot"

	"fundingdash/internal/charts"
	apierrors "fundingdash/internal/errors"
	"fundingdash/internal/exporter"
	"fundingdash/internal/infrastructure"
	"fundingdash/internal/services"
	"fundingdash/pkg/contracts/domain"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// DashboardHandler handles dashboard HTTP requests with RFC 7807 compliance
type DashboardHandler struct {
	service      DashboardServiceInterface
	csv          *exporter.CSVWriter
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		csv:          exporter.NewCSVWriter(logger),
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dashboard routes
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/", h.GetDashboard)
		r.Get("/summary", h.GetSummary)
		r.Get("/years", h.GetYearOptions)
		r.Get("/companies", h.GetCompanyOptions)
		r.Get("/report", h.GetReport)
		r.Get("/funding/year/{year}", h.GetFundingForYear)
		r.Get("/funding/company/{company}", h.GetFundingForCompany)
		r.Get("/top/cities", h.GetTopCities)
		r.Get("/top/companies", h.GetTopCompanies)
		r.Post("/reload", h.Reload)
	})

	r.Get("/charts/cities.png", h.cityChart(charts.FormatPNG))
	r.Get("/charts/cities.svg", h.cityChart(charts.FormatSVG))
	r.Get("/charts/companies.png", h.companyChart(charts.FormatPNG))
	r.Get("/charts/companies.svg", h.companyChart(charts.FormatSVG))

	r.Get("/export/records.csv", h.ExportRecords)
	r.Get("/export/report.xlsx", h.ExportWorkbook)

	return r
}

// GetDashboard handles GET /api/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	filters, err := h.parseFilters(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	d, err := h.service.Dashboard(filterContext(r.Context(), filters), filters)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   d,
	})
}

// GetSummary handles GET /api/dashboard/summary
func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   summary,
	})
}

// GetYearOptions handles GET /api/dashboard/years
func (h *DashboardHandler) GetYearOptions(w http.ResponseWriter, r *http.Request) {
	years, err := h.service.YearOptions(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   years,
		"count":  len(years),
	})
}

// GetCompanyOptions handles GET /api/dashboard/companies?distinct=
func (h *DashboardHandler) GetCompanyOptions(w http.ResponseWriter, r *http.Request) {
	distinct := h.service.DefaultFilters().Distinct
	if raw := r.URL.Query().Get("distinct"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("distinct", "distinct must be a boolean"))
			return
		}
		distinct = b
	}

	names, err := h.service.CompanyOptions(r.Context(), distinct)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status":   "success",
		"data":     names,
		"count":    len(names),
		"distinct": distinct,
	})
}

// GetReport handles GET /api/dashboard/report
func (h *DashboardHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Report(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   report,
	})
}

// GetFundingForYear handles GET /api/dashboard/funding/year/{year}
func (h *DashboardHandler) GetFundingForYear(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("year", "year must be an integer"))
		return
	}

	sel, err := h.service.FundingForYear(r.Context(), year)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   sel,
	})
}

// GetFundingForCompany handles GET /api/dashboard/funding/company/{company}
func (h *DashboardHandler) GetFundingForCompany(w http.ResponseWriter, r *http.Request) {
	company, err := pathParam(r, "company")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("company", "company name is not a valid path segment"))
		return
	}

	sel, err := h.service.FundingForCompany(r.Context(), company)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   sel,
	})
}

// GetTopCities handles GET /api/dashboard/top/cities?limit=
func (h *DashboardHandler) GetTopCities(w http.ResponseWriter, r *http.Request) {
	h.ranking(w, r, h.service.TopCities)
}

// GetTopCompanies handles GET /api/dashboard/top/companies?limit=
func (h *DashboardHandler) GetTopCompanies(w http.ResponseWriter, r *http.Request) {
	h.ranking(w, r, h.service.TopCompanies)
}

type rankingFunc func(ctx context.Context, limit int) ([]domain.RankedAmount, error)

func (h *DashboardHandler) ranking(w http.ResponseWriter, r *http.Request, fn rankingFunc) {
	limit, err := parseLimit(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	ranked, err := fn(r.Context(), limit)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   ranked,
		"count":  len(ranked),
	})
}

// Reload handles POST /api/dashboard/reload
func (h *DashboardHandler) Reload(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())
	h.logger.InfoContext(r.Context(), "reload requested",
		slog.String("request_id", reqID))

	report, err := h.service.Reload(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   report,
	})
}

func (h *DashboardHandler) cityChart(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := parseLimit(r)
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		ranked, err := h.service.TopCities(r.Context(), limit)
		if err != nil {
			h.handleServiceError(w, r, err)
			return
		}
		h.writeChart(w, r, format, func() (*plot.Plot, error) { return charts.CityPie(ranked) })
	}
}

func (h *DashboardHandler) companyChart(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := parseLimit(r)
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		ranked, err := h.service.TopCompanies(r.Context(), limit)
		if err != nil {
			h.handleServiceError(w, r, err)
			return
		}
		h.writeChart(w, r, format, func() (*plot.Plot, error) { return charts.CompanyBar(ranked) })
	}
}

func (h *DashboardHandler) writeChart(w http.ResponseWriter, r *http.Request, format string, build func() (*plot.Plot, error)) {
	p, err := build()
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	opts := charts.Options{Format: format}
	img, err := charts.Render(p, opts)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", opts.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Length", strconv.Itoa(len(img)))
	_, _ = w.Write(img)
}

// ExportRecords handles GET /api/dashboard/export/records.csv
func (h *DashboardHandler) ExportRecords(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Snapshot()
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	bom, _ := strconv.ParseBool(r.URL.Query().Get("bom"))

	var buf bytes.Buffer
	if err := h.csv.Write(&buf, snap.Table, exporter.WriteOptions{BOMPrefix: bom}); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypeCSV)
	w.Header().Set("Content-Disposition", `attachment; filename="funding_cleaned.csv"`)
	_, _ = w.Write(buf.Bytes())
}

// ExportWorkbook handles GET /api/dashboard/export/report.xlsx
func (h *DashboardHandler) ExportWorkbook(w http.ResponseWriter, r *http.Request) {
	filters, err := h.parseFilters(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	snap, err := h.service.Snapshot()
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	d, err := h.service.Dashboard(filterContext(r.Context(), filters), filters)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	var buf bytes.Buffer
	wb := exporter.Workbook{Dashboard: d, Report: &snap.Report, Table: snap.Table}
	if err := wb.Write(&buf); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "workbook exported",
		slog.Int("bytes", buf.Len()),
		slog.String("request_id", middleware.GetReqID(r.Context())))

	w.Header().Set("Content-Type", contentTypeXLSX)
	w.Header().Set("Content-Disposition", `attachment; filename="funding_dashboard.xlsx"`)
	_, _ = w.Write(buf.Bytes())
}

// filterContext tags log records of a dashboard computation with its selectors.
func filterContext(ctx context.Context, f domain.DashboardFilters) context.Context {
	var attrs []slog.Attr
	if f.Year != nil {
		attrs = append(attrs, slog.Int("year", *f.Year))
	}
	if f.Company != "" {
		attrs = append(attrs, slog.String("company", f.Company))
	}
	return infrastructure.WithLogAttrs(ctx, attrs...)
}

// parseFilters reads ?year=&company=&distinct=&top= over the configured defaults.
func (h *DashboardHandler) parseFilters(r *http.Request) (domain.DashboardFilters, error) {
	f := h.service.DefaultFilters()
	q := r.URL.Query()

	if raw := q.Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return f, apierrors.ErrValidation("year", "year must be an integer")
		}
		f.Year = &year
	}
	f.Company = q.Get("company")
	if raw := q.Get("distinct"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return f, apierrors.ErrValidation("distinct", "distinct must be a boolean")
		}
		f.Distinct = b
	}
	if raw := q.Get("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return f, apierrors.ErrValidation("top", "top must be an integer")
		}
		f.TopN = n
	}
	return f, nil
}

func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apierrors.ErrValidation("limit", "limit must be an integer")
	}
	return n, nil
}

// handleServiceError maps service errors to API errors
func (h *DashboardHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrDataNotLoaded):
		err = apierrors.DataUnavailableError(err)
	case errors.Is(err, services.ErrCompanyNotFound):
		err = apierrors.NotFoundError("company", err)
	case errors.Is(err, services.ErrInvalidYear):
		err = apierrors.ErrValidation("year", err.Error())
	case errors.Is(err, services.ErrInvalidLimit):
		err = apierrors.ErrValidation("limit", err.Error())
	case errors.Is(err, services.ErrInvalidInput):
		err = apierrors.ErrValidation("input", err.Error())
	case errors.Is(err, charts.ErrNoData):
		err = apierrors.NoChartDataError(r.URL.Path)
	}
	h.errorHandler.HandleError(w, r, err)
}

// pathParam returns a decoded URL parameter. chi matches on the escaped
// RawPath when the request carries one and on the decoded Path otherwise.
func pathParam(r *http.Request, key string) (string, error) {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v, nil
	}
	return url.PathUnescape(v)
}
