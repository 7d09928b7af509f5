package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/internship-tracker/internal/services"
	"github.com/SAP-F-2025/internship-tracker/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AnalyticsHandler struct {
	BaseHandler
	service     services.AnalyticsService
	sessionAuth *SessionAuth
}

func NewAnalyticsHandler(service services.AnalyticsService, sessionAuth *SessionAuth, logger utils.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
		sessionAuth: sessionAuth,
	}
}

// Show renders the placement analytics. Charts load from the Chart routes.
func (h *AnalyticsHandler) Show(c *gin.Context) {
	report, err := h.service.GetAnalytics(c.Request.Context())
	if err != nil {
		status, message := h.handleServiceError(c, err, "Failed to load analytics")
		renderError(c, status, message)
		return
	}

	renderPage(c, http.StatusOK, "analytics.html", gin.H{
		"Title":  "Analytics",
		"Flash":  h.sessionAuth.PopFlash(c),
		"Report": report,
	})
}

// Chart serves one section of the report as a standalone SVG document.
// Errors carry no body since the response is loaded as an image.
func (h *AnalyticsHandler) Chart(draw chartDrawer) gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := h.service.GetAnalytics(c.Request.Context())
		if err != nil {
			status, _ := h.handleServiceError(c, err, "Failed to load analytics")
			c.Status(status)
			return
		}

		var buf bytes.Buffer
		if err := draw(&buf, report); err != nil {
			if errors.Is(err, errNoChartData) {
				c.Status(http.StatusNotFound)
				return
			}
			h.LogError(c, err, "Failed to render chart")
			c.Status(http.StatusInternalServerError)
			return
		}

		c.Header("Content-Security-Policy", chartCSP)
		c.Data(http.StatusOK, svgContentType, buf.Bytes())
	}
}

// Export streams the analytics workbook. It is built in memory first so a
// failure can still produce an error page.
func (h *AnalyticsHandler) Export(c *gin.Context) {
	h.LogRequest(c, "Exporting analytics")

	var buf bytes.Buffer
	if err := h.service.ExportXLSX(c.Request.Context(), &buf); err != nil {
		status, message := h.handleServiceError(c, err, "Failed to export analytics")
		renderError(c, status, message)
		return
	}

	filename := fmt.Sprintf("internship-analytics-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
