package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/multicurrency_ledger/internal/core/ports/services"
	"github.com/SscSPs/multicurrency_ledger/internal/dto"
	"github.com/SscSPs/multicurrency_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// companyHandler handles HTTP requests related to companies.
type companyHandler struct {
	companyService portssvc.CompanySvcFacade
}

// newCompanyHandler creates a new companyHandler.
func newCompanyHandler(cs portssvc.CompanySvcFacade) *companyHandler {
	return &companyHandler{
		companyService: cs,
	}
}

// registerCompanyRoutes registers company routes and every route nested under a single company.
func registerCompanyRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newCompanyHandler(services.Company)

	companies := rg.Group("/companies")
	{
		companies.POST("", h.createCompany)
		companies.GET("", h.listCompanies)
	}

	company := rg.Group("/companies/:company_id")
	{
		company.GET("", h.getCompany)
		company.PUT("", h.updateCompany)

		RegisterAccountRoutes(company, services.Account, services.Reporting)
		RegisterTransactionRoutes(company, services.Transaction, services.Export)
		registerReportingRoutes(company, services.Reporting)
	}
}

// createCompany godoc
// @Summary Create a company
// @Description Creates a company. The code must be unique and the currency known.
// @Tags companies
// @Accept  json
// @Produce  json
// @Param   company body dto.CreateCompanyRequest true "Company details"
// @Success 201 {object} dto.CompanyResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Company code already used"
// @Security BearerAuth
// @Router /companies [post]
func (h *companyHandler) createCompany(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	company, err := h.companyService.CreateCompany(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, err, "create company")
		return
	}

	logger.Info("Company created", slog.String("company_id", company.CompanyID), slog.String("code", company.Code))
	c.JSON(http.StatusCreated, dto.ToCompanyResponse(company))
}

// listCompanies godoc
// @Summary List companies
// @Tags companies
// @Produce  json
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {array} dto.CompanyResponse
// @Security BearerAuth
// @Router /companies [get]
func (h *companyHandler) listCompanies(c *gin.Context) {
	var params dto.ListCompaniesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	companies, err := h.companyService.ListCompanies(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		respondWithError(c, err, "list companies")
		return
	}
	c.JSON(http.StatusOK, dto.ToListCompanyResponse(companies))
}

// getCompany godoc
// @Summary Get a company
// @Tags companies
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Success 200 {object} dto.CompanyResponse
// @Failure 404 {object} map[string]string "Company not found"
// @Security BearerAuth
// @Router /companies/{company_id} [get]
func (h *companyHandler) getCompany(c *gin.Context) {
	company, err := h.companyService.GetCompanyByID(c.Request.Context(), c.Param("company_id"))
	if err != nil {
		respondWithError(c, err, "retrieve company")
		return
	}
	c.JSON(http.StatusOK, dto.ToCompanyResponse(company))
}

// updateCompany godoc
// @Summary Update a company
// @Description Updates name, tax id, fiscal year end, address or status. Code and currency are fixed.
// @Tags companies
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   company body dto.UpdateCompanyRequest true "Fields to update"
// @Success 200 {object} dto.CompanyResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Company not found"
// @Security BearerAuth
// @Router /companies/{company_id} [put]
func (h *companyHandler) updateCompany(c *gin.Context) {
	var req dto.UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	company, err := h.companyService.UpdateCompany(c.Request.Context(), c.Param("company_id"), req, userID)
	if err != nil {
		respondWithError(c, err, "update company")
		return
	}
	c.JSON(http.StatusOK, dto.ToCompanyResponse(company))
}
