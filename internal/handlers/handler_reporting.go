package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/multicurrency_ledger/internal/core/ports/services"
	"github.com/SscSPs/multicurrency_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to financial reports.
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

// registerReportingRoutes registers report routes under a company group.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/financial", h.getFinancialReport)
	}
}

// getFinancialReport godoc
// @Summary Multi-currency financial report
// @Description Income and expense per currency, consolidated into the display currency. Currencies without a rate are listed as unconverted.
// @Tags reports
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   dateFrom query string false "YYYY-MM-DD"
// @Param   dateTo query string false "YYYY-MM-DD, inclusive"
// @Param   currency query string false "Display currency (defaults to the company currency)"
// @Param   status query []string false "Statuses to include (defaults to approved)" collectionFormat(multi)
// @Success 200 {object} domain.FinancialReport
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 404 {object} map[string]string "Company not found"
// @Security BearerAuth
// @Router /companies/{company_id}/reports/financial [get]
func (h *reportingHandler) getFinancialReport(c *gin.Context) {
	var params dto.FinancialReportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	report, err := h.reportingService.FinancialReport(c.Request.Context(), c.Param("company_id"), params)
	if err != nil {
		respondWithError(c, err, "generate financial report")
		return
	}
	c.JSON(http.StatusOK, report)
}
