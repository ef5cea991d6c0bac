package handler

import (
	"net/http"
	"strconv"

	"invoicing/internal/middleware"
	"invoicing/internal/service"
	"invoicing/pkg/pagination"
	"invoicing/pkg/response"

	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

func (h *InvoiceHandler) RegisterRoutes(router *gin.RouterGroup) {
	invoices := router.Group("/api/invoices")
	{
		invoices.GET("", middleware.RequirePermission(middleware.PermInvoicesRead), h.ListInvoices)
		invoices.GET("/dashboard", middleware.RequirePermission(middleware.PermInvoicesRead), h.Dashboard)
		invoices.GET("/generate-number/:clientId", middleware.RequirePermission(middleware.PermInvoicesWrite), h.GenerateNumber)
		invoices.GET("/:id", middleware.RequirePermission(middleware.PermInvoicesRead), h.GetInvoice)
		invoices.POST("", middleware.RequirePermission(middleware.PermInvoicesWrite), h.CreateInvoice)
		invoices.PUT("/:id", middleware.RequirePermission(middleware.PermInvoicesWrite), h.UpdateInvoice)
		invoices.DELETE("/:id", middleware.RequirePermission(middleware.PermInvoicesDelete), h.DeleteInvoice)
	}
}

// ListInvoices returns paginated invoices with optional company/status filters
// @Summary      List invoices
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        page        query  int     false  "Page number (default: 1)"
// @Param        limit       query  int     false  "Items per page (default: 20)"
// @Param        company_id  query  string  false  "Filter by company"
// @Param        status      query  string  false  "Filter by status: Draft, Sent, Paid, Cancelled"
// @Success      200  {object}  response.Response
// @Router       /api/invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	params := pagination.Parse(c)

	companyID, ok := pagination.CompanyID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid company_id"))
		return
	}

	invoices, total, err := h.invoiceService.ListInvoices(c.Request.Context(), companyID, c.Query("status"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, invoices, params.Page, params.Limit, total))
}

// Dashboard returns invoice counts and revenue aggregates
// @Summary      Invoice dashboard
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        company_id  query  string  false  "Filter by company"
// @Success      200  {object}  response.Response
// @Router       /api/invoices/dashboard [get]
func (h *InvoiceHandler) Dashboard(c *gin.Context) {
	companyID, ok := pagination.CompanyID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid company_id"))
		return
	}

	dashboard, err := h.invoiceService.Dashboard(c.Request.Context(), companyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, dashboard))
}

// GenerateNumber bumps the client's counter and returns the next invoice number
// @Summary      Generate invoice number
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        clientId  path  string  true  "Client ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/invoices/generate-number/{clientId} [get]
func (h *InvoiceHandler) GenerateNumber(c *gin.Context) {
	number, err := h.invoiceService.GenerateInvoiceNumber(c.Request.Context(), c.Param("clientId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"invoice_number": number}))
}

// GetInvoice returns a full invoice aggregate by id
// @Summary      Get invoice
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Invoice ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	invoice, err := h.invoiceService.GetInvoiceByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// CreateInvoice creates a new invoice with its line items and bank details
// @Summary      Create invoice
// @Tags         invoices
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateInvoiceRequest  true  "Invoice payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/invoices [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req service.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), req, c.GetString(middleware.ContextUserID))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, invoice))
}

// UpdateInvoice updates an invoice, replacing its line items and bank details
// @Summary      Update invoice
// @Tags         invoices
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                        true  "Invoice ID"
// @Param        payload  body  service.UpdateInvoiceRequest  true  "Update payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/invoices/{id} [put]
func (h *InvoiceHandler) UpdateInvoice(c *gin.Context) {
	var req service.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), c.Param("id"), req, c.GetString(middleware.ContextUserID))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// DeleteInvoice hard-deletes an invoice with its items and bank details
// @Summary      Delete invoice
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Invoice ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/invoices/{id} [delete]
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Invoice deleted successfully"}))
}

// atoiDefault parses a positive int query param, falling back on the default.
func atoiDefault(raw string, def int) int {
	if raw == "" {
		return def
	}
	if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
		return parsed
	}
	return def
}
