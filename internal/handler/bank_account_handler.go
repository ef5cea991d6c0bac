package handler

import (
	"net/http"

	"invoicing/internal/middleware"
	"invoicing/internal/service"
	"invoicing/pkg/pagination"
	"invoicing/pkg/response"

	"github.com/gin-gonic/gin"
)

type BankAccountHandler struct {
	bankAccountService service.BankAccountService
}

func NewBankAccountHandler(bankAccountService service.BankAccountService) *BankAccountHandler {
	return &BankAccountHandler{bankAccountService: bankAccountService}
}

func (h *BankAccountHandler) RegisterRoutes(router *gin.RouterGroup) {
	accounts := router.Group("/api/bankaccounts")
	{
		accounts.GET("", middleware.RequirePermission(middleware.PermBankAccountsRead), h.ListBankAccounts)
		accounts.GET("/:id", middleware.RequirePermission(middleware.PermBankAccountsRead), h.GetBankAccount)
		accounts.POST("", middleware.RequirePermission(middleware.PermBankAccountsWrite), h.CreateBankAccount)
		accounts.PUT("/:id", middleware.RequirePermission(middleware.PermBankAccountsWrite), h.UpdateBankAccount)
		accounts.DELETE("/:id", middleware.RequirePermission(middleware.PermBankAccountsWrite), h.DeactivateBankAccount)

		accounts.GET("/by-client/:clientId", middleware.RequirePermission(middleware.PermBankAccountsRead), h.ListByClient)
		accounts.POST("/client-mapping", middleware.RequirePermission(middleware.PermBankMappingsWrite), h.MapToClient)
		accounts.DELETE("/client-mapping/:id", middleware.RequirePermission(middleware.PermBankMappingsWrite), h.RemoveMapping)
	}
}

// ListBankAccounts returns paginated bank accounts with optional company filter
// @Summary      List bank accounts
// @Tags         bankaccounts
// @Security     BearerAuth
// @Produce      json
// @Param        page        query  int     false  "Page number (default: 1)"
// @Param        limit       query  int     false  "Items per page (default: 20)"
// @Param        company_id  query  string  false  "Filter by company"
// @Success      200  {object}  response.Response
// @Router       /api/bankaccounts [get]
func (h *BankAccountHandler) ListBankAccounts(c *gin.Context) {
	params := pagination.Parse(c)

	companyID, ok := pagination.CompanyID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid company_id"))
		return
	}

	accounts, total, err := h.bankAccountService.ListBankAccounts(c.Request.Context(), companyID, params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, accounts, params.Page, params.Limit, total))
}

// GetBankAccount returns a single bank account by id
// @Summary      Get bank account
// @Tags         bankaccounts
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Bank account ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/bankaccounts/{id} [get]
func (h *BankAccountHandler) GetBankAccount(c *gin.Context) {
	account, err := h.bankAccountService.GetBankAccountByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, account))
}

// CreateBankAccount creates a new bank account
// @Summary      Create bank account
// @Tags         bankaccounts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateBankAccountRequest  true  "Bank account payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/bankaccounts [post]
func (h *BankAccountHandler) CreateBankAccount(c *gin.Context) {
	var req service.CreateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	account, err := h.bankAccountService.CreateBankAccount(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, account))
}

// UpdateBankAccount updates an existing bank account
// @Summary      Update bank account
// @Tags         bankaccounts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                            true  "Bank account ID"
// @Param        payload  body  service.UpdateBankAccountRequest  true  "Update payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/bankaccounts/{id} [put]
func (h *BankAccountHandler) UpdateBankAccount(c *gin.Context) {
	var req service.UpdateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	account, err := h.bankAccountService.UpdateBankAccount(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, account))
}

// DeactivateBankAccount deactivates a bank account (soft delete)
// @Summary      Deactivate bank account
// @Tags         bankaccounts
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Bank account ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/bankaccounts/{id} [delete]
func (h *BankAccountHandler) DeactivateBankAccount(c *gin.Context) {
	if err := h.bankAccountService.DeactivateBankAccount(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Bank account deactivated successfully"}))
}

// ListByClient returns the bank accounts mapped to a client, in display order
// @Summary      List bank accounts by client
// @Tags         bankaccounts
// @Security     BearerAuth
// @Produce      json
// @Param        clientId  path  string  true  "Client ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/bankaccounts/by-client/{clientId} [get]
func (h *BankAccountHandler) ListByClient(c *gin.Context) {
	accounts, err := h.bankAccountService.ListByClient(c.Request.Context(), c.Param("clientId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, accounts))
}

// MapToClient links a bank account to a client
// @Summary      Map bank account to client
// @Tags         bankaccounts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateMappingRequest  true  "Mapping payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/bankaccounts/client-mapping [post]
func (h *BankAccountHandler) MapToClient(c *gin.Context) {
	var req service.CreateMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	mapping, err := h.bankAccountService.MapBankToClient(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, mapping))
}

// RemoveMapping removes a client/bank-account link (hard delete)
// @Summary      Remove client mapping
// @Tags         bankaccounts
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Mapping ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/bankaccounts/client-mapping/{id} [delete]
func (h *BankAccountHandler) RemoveMapping(c *gin.Context) {
	if err := h.bankAccountService.RemoveMapping(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Mapping removed successfully"}))
}
