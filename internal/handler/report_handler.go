package handler

import (
	"net/http"

	"invoicing/internal/middleware"
	"invoicing/internal/service"
	"invoicing/pkg/pagination"
	"invoicing/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/api/reports", middleware.RequirePermission(middleware.PermReportsRead))
	{
		reports.GET("/sales-by-client", h.SalesByClient)
		reports.GET("/monthly-revenue", h.MonthlyRevenue)
		reports.GET("/status-summary", h.StatusSummary)
		reports.GET("/top-clients", h.TopClients)
	}
}

// SalesByClient returns paid revenue grouped by client and currency
// @Summary      Sales by client
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        company_id  query  string  false  "Filter by company"
// @Param        start_date  query  string  false  "Inclusive start (RFC3339 or YYYY-MM-DD)"
// @Param        end_date    query  string  false  "Inclusive end (RFC3339 or YYYY-MM-DD)"
// @Success      200  {object}  response.Response
// @Router       /api/reports/sales-by-client [get]
func (h *ReportHandler) SalesByClient(c *gin.Context) {
	companyID, ok := pagination.CompanyID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid company_id"))
		return
	}

	rows, err := h.reportService.SalesByClient(c.Request.Context(), companyID, c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rows))
}

// MonthlyRevenue returns paid revenue per calendar month for the trailing window
// @Summary      Monthly revenue
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        company_id  query  string  false  "Filter by company"
// @Param        months      query  int     false  "Trailing months (default: 12)"
// @Success      200  {object}  response.Response
// @Router       /api/reports/monthly-revenue [get]
func (h *ReportHandler) MonthlyRevenue(c *gin.Context) {
	companyID, ok := pagination.CompanyID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid company_id"))
		return
	}

	months := atoiDefault(c.Query("months"), 0)

	rows, err := h.reportService.MonthlyRevenue(c.Request.Context(), companyID, months)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rows))
}

// StatusSummary returns invoice counts and totals grouped by status
// @Summary      Status summary
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        company_id  query  string  false  "Filter by company"
// @Success      200  {object}  response.Response
// @Router       /api/reports/status-summary [get]
func (h *ReportHandler) StatusSummary(c *gin.Context) {
	companyID, ok := pagination.CompanyID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid company_id"))
		return
	}

	rows, err := h.reportService.StatusSummary(c.Request.Context(), companyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rows))
}

// TopClients returns the highest-revenue clients by paid total
// @Summary      Top clients
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        company_id  query  string  false  "Filter by company"
// @Param        top         query  int     false  "Number of clients (default: 10)"
// @Success      200  {object}  response.Response
// @Router       /api/reports/top-clients [get]
func (h *ReportHandler) TopClients(c *gin.Context) {
	companyID, ok := pagination.CompanyID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid company_id"))
		return
	}

	top := atoiDefault(c.Query("top"), 0)

	rows, err := h.reportService.TopClients(c.Request.Context(), companyID, top)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rows))
}
