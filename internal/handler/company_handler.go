package handler

import (
	"net/http"

	"invoicing/internal/middleware"
	"invoicing/internal/service"
	"invoicing/pkg/pagination"
	"invoicing/pkg/response"

	"github.com/gin-gonic/gin"
)

type CompanyHandler struct {
	companyService service.CompanyService
}

func NewCompanyHandler(companyService service.CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

func (h *CompanyHandler) RegisterRoutes(router *gin.RouterGroup) {
	companies := router.Group("/api/companies")
	{
		companies.GET("", middleware.RequirePermission(middleware.PermCompaniesRead), h.ListCompanies)
		companies.GET("/:id", middleware.RequirePermission(middleware.PermCompaniesRead), h.GetCompany)
		companies.POST("", middleware.RequirePermission(middleware.PermCompaniesWrite), h.CreateCompany)
		companies.PUT("/:id", middleware.RequirePermission(middleware.PermCompaniesWrite), h.UpdateCompany)
		companies.DELETE("/:id", middleware.RequirePermission(middleware.PermCompaniesWrite), h.DeactivateCompany)
	}
}

// ListCompanies returns paginated companies
// @Summary      List companies
// @Tags         companies
// @Security     BearerAuth
// @Produce      json
// @Param        page   query  int  false  "Page number (default: 1)"
// @Param        limit  query  int  false  "Items per page (default: 20)"
// @Success      200  {object}  response.Response
// @Router       /api/companies [get]
func (h *CompanyHandler) ListCompanies(c *gin.Context) {
	params := pagination.Parse(c)

	companies, total, err := h.companyService.ListCompanies(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, companies, params.Page, params.Limit, total))
}

// GetCompany returns a single company by id
// @Summary      Get company
// @Tags         companies
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Company ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/companies/{id} [get]
func (h *CompanyHandler) GetCompany(c *gin.Context) {
	company, err := h.companyService.GetCompanyByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, company))
}

// CreateCompany creates a new company
// @Summary      Create company
// @Tags         companies
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateCompanyRequest  true  "Company payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/companies [post]
func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	var req service.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	company, err := h.companyService.CreateCompany(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, company))
}

// UpdateCompany updates an existing company
// @Summary      Update company
// @Tags         companies
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                        true  "Company ID"
// @Param        payload  body  service.UpdateCompanyRequest  true  "Update payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/companies/{id} [put]
func (h *CompanyHandler) UpdateCompany(c *gin.Context) {
	var req service.UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	company, err := h.companyService.UpdateCompany(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, company))
}

// DeactivateCompany deactivates a company (soft delete)
// @Summary      Deactivate company
// @Tags         companies
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Company ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/companies/{id} [delete]
func (h *CompanyHandler) DeactivateCompany(c *gin.Context) {
	if err := h.companyService.DeactivateCompany(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Company deactivated successfully"}))
}
