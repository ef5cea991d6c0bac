package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"invoicing/internal/model"
	"invoicing/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateCompanyRequest struct {
	Name       string `json:"name" binding:"required"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
	Phone      string `json:"phone"`
	Email      string `json:"email" binding:"omitempty,email"`
	Website    string `json:"website"`
	LogoURL    string `json:"logo_url"`
	TaxNumber  string `json:"tax_number"`
}

type UpdateCompanyRequest struct {
	Name       *string `json:"name"`
	Address    *string `json:"address"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	Country    *string `json:"country"`
	PostalCode *string `json:"postal_code"`
	Phone      *string `json:"phone"`
	Email      *string `json:"email"`
	Website    *string `json:"website"`
	LogoURL    *string `json:"logo_url"`
	TaxNumber  *string `json:"tax_number"`
	IsActive   *bool   `json:"is_active"`
}

type CompanyResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Address    string    `json:"address"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	Country    string    `json:"country"`
	PostalCode string    `json:"postal_code"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email"`
	Website    string    `json:"website"`
	LogoURL    string    `json:"logo_url"`
	TaxNumber  string    `json:"tax_number"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// --- Interface ---

type CompanyService interface {
	CreateCompany(ctx context.Context, req CreateCompanyRequest) (*CompanyResponse, error)
	GetCompanyByID(ctx context.Context, id string) (*CompanyResponse, error)
	ListCompanies(ctx context.Context, page, limit int) ([]CompanyResponse, int64, error)
	UpdateCompany(ctx context.Context, id string, req UpdateCompanyRequest) (*CompanyResponse, error)
	DeactivateCompany(ctx context.Context, id string) error
}

type companyService struct {
	repo repository.CompanyRepository
}

func NewCompanyService(repo repository.CompanyRepository) CompanyService {
	return &companyService{repo: repo}
}

func toCompanyResponse(company *model.Company) *CompanyResponse {
	return &CompanyResponse{
		ID:         company.ID,
		Name:       company.Name,
		Address:    company.Address,
		City:       company.City,
		State:      company.State,
		Country:    company.Country,
		PostalCode: company.PostalCode,
		Phone:      company.Phone,
		Email:      company.Email,
		Website:    company.Website,
		LogoURL:    company.LogoURL,
		TaxNumber:  company.TaxNumber,
		IsActive:   company.IsActive,
		CreatedAt:  company.CreatedAt,
		UpdatedAt:  company.UpdatedAt,
	}
}

func (s *companyService) CreateCompany(ctx context.Context, req CreateCompanyRequest) (*CompanyResponse, error) {
	company := &model.Company{
		Name:       req.Name,
		Address:    req.Address,
		City:       req.City,
		State:      req.State,
		Country:    req.Country,
		PostalCode: req.PostalCode,
		Phone:      req.Phone,
		Email:      req.Email,
		Website:    req.Website,
		LogoURL:    req.LogoURL,
		TaxNumber:  req.TaxNumber,
		IsActive:   true,
	}

	if err := s.repo.Create(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}
	return toCompanyResponse(company), nil
}

func (s *companyService) GetCompanyByID(ctx context.Context, id string) (*CompanyResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.New("invalid company id")
	}

	company, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("company not found: %w", err)
	}
	return toCompanyResponse(company), nil
}

func (s *companyService) ListCompanies(ctx context.Context, page, limit int) ([]CompanyResponse, int64, error) {
	companies, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch companies: %w", err)
	}

	responses := make([]CompanyResponse, 0, len(companies))
	for i := range companies {
		responses = append(responses, *toCompanyResponse(&companies[i]))
	}
	return responses, total, nil
}

func (s *companyService) UpdateCompany(ctx context.Context, id string, req UpdateCompanyRequest) (*CompanyResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.New("invalid company id")
	}

	company, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("company not found: %w", err)
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, errors.New("name cannot be empty")
		}
		company.Name = *req.Name
	}
	if req.Email != nil && *req.Email != "" {
		if _, err := mail.ParseAddress(*req.Email); err != nil {
			return nil, errors.New("invalid email format")
		}
		company.Email = *req.Email
	} else if req.Email != nil {
		company.Email = ""
	}
	if req.Address != nil {
		company.Address = *req.Address
	}
	if req.City != nil {
		company.City = *req.City
	}
	if req.State != nil {
		company.State = *req.State
	}
	if req.Country != nil {
		company.Country = *req.Country
	}
	if req.PostalCode != nil {
		company.PostalCode = *req.PostalCode
	}
	if req.Phone != nil {
		company.Phone = *req.Phone
	}
	if req.Website != nil {
		company.Website = *req.Website
	}
	if req.LogoURL != nil {
		company.LogoURL = *req.LogoURL
	}
	if req.TaxNumber != nil {
		company.TaxNumber = *req.TaxNumber
	}
	if req.IsActive != nil {
		company.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to update company: %w", err)
	}
	return toCompanyResponse(company), nil
}

func (s *companyService) DeactivateCompany(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return errors.New("invalid company id")
	}

	company, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return fmt.Errorf("company not found: %w", err)
	}

	company.IsActive = false
	return s.repo.Update(ctx, company)
}
