package http

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"fundingdash/internal/analytics"
	"fundingdash/pkg/contracts/domain"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTemplate = template.Must(template.New("dashboard.html").Funcs(template.FuncMap{
	"usd":   analytics.FormatUSD,
	"share": analytics.FormatShare,
}).ParseFS(templateFS, "templates/dashboard.html"))

const pageCSP = "default-src 'self'; img-src 'self' data:; style-src 'self' 'unsafe-inline'"

type dashboardPage struct {
	Dashboard domain.Dashboard
	Year      int
	Company   string
	TopN      int
	Query     template.URL
}

// ServeDashboardPage renders the dashboard page for the selector state in the
// query string. Failures are rendered as problem details.
func (h *DashboardHandler) ServeDashboardPage(w http.ResponseWriter, r *http.Request) {
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

	page := dashboardPage{Dashboard: d, TopN: len(d.TopCities)}
	q := url.Values{}
	if d.YearFunding != nil {
		page.Year, _ = strconv.Atoi(d.YearFunding.Value)
		q.Set("year", d.YearFunding.Value)
	}
	if d.CompanyFunding != nil {
		page.Company = d.CompanyFunding.Value
		q.Set("company", d.CompanyFunding.Value)
	}
	if filters.TopN > 0 {
		page.TopN = filters.TopN
	}
	page.Query = template.URL(q.Encode())

	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, page); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render dashboard page",
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Security-Policy", pageCSP)
	_, _ = w.Write(buf.Bytes())
}
