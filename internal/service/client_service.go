package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"invoicing/internal/model"
	"invoicing/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateClientRequest struct {
	CompanyID           string `json:"company_id" binding:"required"`
	Name                string `json:"name" binding:"required"`
	ContactPerson       string `json:"contact_person"`
	Email               string `json:"email" binding:"omitempty,email"`
	Phone               string `json:"phone"`
	Address             string `json:"address"`
	City                string `json:"city"`
	State               string `json:"state"`
	Country             string `json:"country"`
	PostalCode          string `json:"postal_code"`
	TaxNumber           string `json:"tax_number"`
	Currency            string `json:"currency"`
	TaxRate             string `json:"tax_rate"`
	TaxType             string `json:"tax_type"`
	InvoiceNumberFormat string `json:"invoice_number_format"`
	InvoicePrefix       string `json:"invoice_prefix"`
}

type UpdateClientRequest struct {
	Name                *string `json:"name"`
	ContactPerson       *string `json:"contact_person"`
	Email               *string `json:"email"`
	Phone               *string `json:"phone"`
	Address             *string `json:"address"`
	City                *string `json:"city"`
	State               *string `json:"state"`
	Country             *string `json:"country"`
	PostalCode          *string `json:"postal_code"`
	TaxNumber           *string `json:"tax_number"`
	Currency            *string `json:"currency"`
	TaxRate             *string `json:"tax_rate"`
	TaxType             *string `json:"tax_type"`
	InvoiceNumberFormat *string `json:"invoice_number_format"`
	InvoicePrefix       *string `json:"invoice_prefix"`
	IsActive            *bool   `json:"is_active"`
}

type ClientResponse struct {
	ID                  uuid.UUID        `json:"id"`
	CompanyID           uuid.UUID        `json:"company_id"`
	Company             *CompanyResponse `json:"company,omitempty"`
	Name                string           `json:"name"`
	ContactPerson       string           `json:"contact_person"`
	Email               string           `json:"email"`
	Phone               string           `json:"phone"`
	Address             string           `json:"address"`
	City                string           `json:"city"`
	State               string           `json:"state"`
	Country             string           `json:"country"`
	PostalCode          string           `json:"postal_code"`
	TaxNumber           string           `json:"tax_number"`
	Currency            string           `json:"currency"`
	TaxRate             string           `json:"tax_rate"`
	TaxType             string           `json:"tax_type"`
	InvoiceNumberFormat string           `json:"invoice_number_format"`
	InvoicePrefix       string           `json:"invoice_prefix"`
	LastInvoiceNumber   int64            `json:"last_invoice_number"`
	IsActive            bool             `json:"is_active"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

// --- Interface ---

type ClientService interface {
	CreateClient(ctx context.Context, req CreateClientRequest) (*ClientResponse, error)
	GetClientByID(ctx context.Context, id string) (*ClientResponse, error)
	ListClients(ctx context.Context, companyID *uuid.UUID, page, limit int) ([]ClientResponse, int64, error)
	UpdateClient(ctx context.Context, id string, req UpdateClientRequest) (*ClientResponse, error)
	DeactivateClient(ctx context.Context, id string) error
}

type clientService struct {
	clientRepo  repository.ClientRepository
	companyRepo repository.CompanyRepository
}

func NewClientService(clientRepo repository.ClientRepository, companyRepo repository.CompanyRepository) ClientService {
	return &clientService{clientRepo: clientRepo, companyRepo: companyRepo}
}

func toClientResponse(client *model.Client) *ClientResponse {
	resp := &ClientResponse{
		ID:                  client.ID,
		CompanyID:           client.CompanyID,
		Name:                client.Name,
		ContactPerson:       client.ContactPerson,
		Email:               client.Email,
		Phone:               client.Phone,
		Address:             client.Address,
		City:                client.City,
		State:               client.State,
		Country:             client.Country,
		PostalCode:          client.PostalCode,
		TaxNumber:           client.TaxNumber,
		Currency:            client.Currency,
		TaxRate:             client.TaxRate.StringFixed(2),
		TaxType:             client.TaxType,
		InvoiceNumberFormat: client.InvoiceNumberFormat,
		InvoicePrefix:       client.InvoicePrefix,
		LastInvoiceNumber:   client.LastInvoiceNumber,
		IsActive:            client.IsActive,
		CreatedAt:           client.CreatedAt,
		UpdatedAt:           client.UpdatedAt,
	}
	if client.Company != nil {
		resp.Company = toCompanyResponse(client.Company)
	}
	return resp
}

func (s *clientService) CreateClient(ctx context.Context, req CreateClientRequest) (*ClientResponse, error) {
	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		return nil, errors.New("invalid company_id")
	}
	if _, err := s.companyRepo.FindByID(ctx, companyID); err != nil {
		return nil, fmt.Errorf("company not found: %w", err)
	}

	taxRate := decimal.Zero
	if req.TaxRate != "" {
		taxRate, err = decimal.NewFromString(req.TaxRate)
		if err != nil {
			return nil, fmt.Errorf("invalid tax_rate: %w", err)
		}
	}

	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}

	client := &model.Client{
		CompanyID:           companyID,
		Name:                req.Name,
		ContactPerson:       req.ContactPerson,
		Email:               req.Email,
		Phone:               req.Phone,
		Address:             req.Address,
		City:                req.City,
		State:               req.State,
		Country:             req.Country,
		PostalCode:          req.PostalCode,
		TaxNumber:           req.TaxNumber,
		Currency:            currency,
		TaxRate:             taxRate,
		TaxType:             req.TaxType,
		InvoiceNumberFormat: req.InvoiceNumberFormat,
		InvoicePrefix:       req.InvoicePrefix,
		IsActive:            true,
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return toClientResponse(client), nil
}

func (s *clientService) GetClientByID(ctx context.Context, id string) (*ClientResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.New("invalid client id")
	}

	client, err := s.clientRepo.FindByID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("client not found: %w", err)
	}
	return toClientResponse(client), nil
}

func (s *clientService) ListClients(ctx context.Context, companyID *uuid.UUID, page, limit int) ([]ClientResponse, int64, error) {
	clients, total, err := s.clientRepo.List(ctx, companyID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch clients: %w", err)
	}

	responses := make([]ClientResponse, 0, len(clients))
	for i := range clients {
		responses = append(responses, *toClientResponse(&clients[i]))
	}
	return responses, total, nil
}

func (s *clientService) UpdateClient(ctx context.Context, id string, req UpdateClientRequest) (*ClientResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.New("invalid client id")
	}

	client, err := s.clientRepo.FindByID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("client not found: %w", err)
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, errors.New("name cannot be empty")
		}
		client.Name = *req.Name
	}
	if req.TaxRate != nil {
		taxRate, parseErr := decimal.NewFromString(*req.TaxRate)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid tax_rate: %w", parseErr)
		}
		client.TaxRate = taxRate
	}
	if req.ContactPerson != nil {
		client.ContactPerson = *req.ContactPerson
	}
	if req.Email != nil {
		client.Email = *req.Email
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.Address != nil {
		client.Address = *req.Address
	}
	if req.City != nil {
		client.City = *req.City
	}
	if req.State != nil {
		client.State = *req.State
	}
	if req.Country != nil {
		client.Country = *req.Country
	}
	if req.PostalCode != nil {
		client.PostalCode = *req.PostalCode
	}
	if req.TaxNumber != nil {
		client.TaxNumber = *req.TaxNumber
	}
	if req.Currency != nil && *req.Currency != "" {
		client.Currency = *req.Currency
	}
	if req.TaxType != nil {
		client.TaxType = *req.TaxType
	}
	if req.InvoiceNumberFormat != nil {
		client.InvoiceNumberFormat = *req.InvoiceNumberFormat
	}
	if req.InvoicePrefix != nil {
		client.InvoicePrefix = *req.InvoicePrefix
	}
	if req.IsActive != nil {
		client.IsActive = *req.IsActive
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	return toClientResponse(client), nil
}

func (s *clientService) DeactivateClient(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return errors.New("invalid client id")
	}

	client, err := s.clientRepo.FindByID(ctx, uid)
	if err != nil {
		return fmt.Errorf("client not found: %w", err)
	}

	client.IsActive = false
	return s.clientRepo.Update(ctx, client)
}
