package handler

import (
	"net/http"

	"invoicing/internal/middleware"
	"invoicing/internal/service"
	"invoicing/pkg/pagination"
	"invoicing/pkg/response"

	"github.com/gin-gonic/gin"
)

type ClientHandler struct {
	clientService      service.ClientService
	bankAccountService service.BankAccountService
}

func NewClientHandler(clientService service.ClientService, bankAccountService service.BankAccountService) *ClientHandler {
	return &ClientHandler{clientService: clientService, bankAccountService: bankAccountService}
}

func (h *ClientHandler) RegisterRoutes(router *gin.RouterGroup) {
	clients := router.Group("/api/clients")
	{
		clients.GET("", middleware.RequirePermission(middleware.PermClientsRead), h.ListClients)
		clients.GET("/:id", middleware.RequirePermission(middleware.PermClientsRead), h.GetClient)
		clients.GET("/:id/banks", middleware.RequirePermission(middleware.PermClientsRead), h.GetClientBanks)
		clients.POST("", middleware.RequirePermission(middleware.PermClientsWrite), h.CreateClient)
		clients.PUT("/:id", middleware.RequirePermission(middleware.PermClientsWrite), h.UpdateClient)
		clients.DELETE("/:id", middleware.RequirePermission(middleware.PermClientsWrite), h.DeactivateClient)
	}
}

// ListClients returns paginated clients with optional company filter
// @Summary      List clients
// @Tags         clients
// @Security     BearerAuth
// @Produce      json
// @Param        page        query  int     false  "Page number (default: 1)"
// @Param        limit       query  int     false  "Items per page (default: 20)"
// @Param        company_id  query  string  false  "Filter by company"
// @Success      200  {object}  response.Response
// @Router       /api/clients [get]
func (h *ClientHandler) ListClients(c *gin.Context) {
	params := pagination.Parse(c)

	companyID, ok := pagination.CompanyID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid company_id"))
		return
	}

	clients, total, err := h.clientService.ListClients(c.Request.Context(), companyID, params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, clients, params.Page, params.Limit, total))
}

// GetClient returns a single client by id
// @Summary      Get client
// @Tags         clients
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Client ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/clients/{id} [get]
func (h *ClientHandler) GetClient(c *gin.Context) {
	client, err := h.clientService.GetClientByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, client))
}

// GetClientBanks returns the bank accounts mapped to a client
// @Summary      List client bank accounts
// @Tags         clients
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Client ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/clients/{id}/banks [get]
func (h *ClientHandler) GetClientBanks(c *gin.Context) {
	accounts, err := h.bankAccountService.ListByClient(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, accounts))
}

// CreateClient creates a new client under a company
// @Summary      Create client
// @Tags         clients
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateClientRequest  true  "Client payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/clients [post]
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req service.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, client))
}

// UpdateClient updates an existing client
// @Summary      Update client
// @Tags         clients
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                       true  "Client ID"
// @Param        payload  body  service.UpdateClientRequest  true  "Update payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/clients/{id} [put]
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	var req service.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	client, err := h.clientService.UpdateClient(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, client))
}

// DeactivateClient deactivates a client (soft delete)
// @Summary      Deactivate client
// @Tags         clients
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Client ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/clients/{id} [delete]
func (h *ClientHandler) DeactivateClient(c *gin.Context) {
	if err := h.clientService.DeactivateClient(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Client deactivated successfully"}))
}
