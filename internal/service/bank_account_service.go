package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"invoicing/internal/model"
	"invoicing/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateBankAccountRequest struct {
	CompanyID         string `json:"company_id" binding:"required"`
	AccountName       string `json:"account_name" binding:"required"`
	BankName          string `json:"bank_name" binding:"required"`
	AccountNumber     string `json:"account_number" binding:"required"`
	IFSCCode          string `json:"ifsc_code"`
	SwiftCode         string `json:"swift_code"`
	Branch            string `json:"branch"`
	Currency          string `json:"currency"`
	AdditionalDetails string `json:"additional_details"`
}

type UpdateBankAccountRequest struct {
	AccountName       *string `json:"account_name"`
	BankName          *string `json:"bank_name"`
	AccountNumber     *string `json:"account_number"`
	IFSCCode          *string `json:"ifsc_code"`
	SwiftCode         *string `json:"swift_code"`
	Branch            *string `json:"branch"`
	Currency          *string `json:"currency"`
	AdditionalDetails *string `json:"additional_details"`
	IsActive          *bool   `json:"is_active"`
}

type CreateMappingRequest struct {
	ClientID      string `json:"client_id" binding:"required"`
	BankAccountID string `json:"bank_account_id" binding:"required"`
	DisplayOrder  int    `json:"display_order"`
}

type BankAccountResponse struct {
	ID                uuid.UUID        `json:"id"`
	CompanyID         uuid.UUID        `json:"company_id"`
	Company           *CompanyResponse `json:"company,omitempty"`
	AccountName       string           `json:"account_name"`
	BankName          string           `json:"bank_name"`
	AccountNumber     string           `json:"account_number"`
	IFSCCode          string           `json:"ifsc_code"`
	SwiftCode         string           `json:"swift_code"`
	Branch            string           `json:"branch"`
	Currency          string           `json:"currency"`
	AdditionalDetails string           `json:"additional_details"`
	IsActive          bool             `json:"is_active"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

type MappingResponse struct {
	ID            uuid.UUID `json:"id"`
	ClientID      uuid.UUID `json:"client_id"`
	BankAccountID uuid.UUID `json:"bank_account_id"`
	DisplayOrder  int       `json:"display_order"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

// --- Interface ---

type BankAccountService interface {
	CreateBankAccount(ctx context.Context, req CreateBankAccountRequest) (*BankAccountResponse, error)
	GetBankAccountByID(ctx context.Context, id string) (*BankAccountResponse, error)
	ListBankAccounts(ctx context.Context, companyID *uuid.UUID, page, limit int) ([]BankAccountResponse, int64, error)
	UpdateBankAccount(ctx context.Context, id string, req UpdateBankAccountRequest) (*BankAccountResponse, error)
	DeactivateBankAccount(ctx context.Context, id string) error

	MapBankToClient(ctx context.Context, req CreateMappingRequest) (*MappingResponse, error)
	RemoveMapping(ctx context.Context, mappingID string) error
	ListByClient(ctx context.Context, clientID string) ([]BankAccountResponse, error)
}

type bankAccountService struct {
	bankRepo    repository.BankAccountRepository
	clientRepo  repository.ClientRepository
	companyRepo repository.CompanyRepository
}

func NewBankAccountService(
	bankRepo repository.BankAccountRepository,
	clientRepo repository.ClientRepository,
	companyRepo repository.CompanyRepository,
) BankAccountService {
	return &bankAccountService{bankRepo: bankRepo, clientRepo: clientRepo, companyRepo: companyRepo}
}

func toBankAccountResponse(account *model.BankAccount) *BankAccountResponse {
	resp := &BankAccountResponse{
		ID:                account.ID,
		CompanyID:         account.CompanyID,
		AccountName:       account.AccountName,
		BankName:          account.BankName,
		AccountNumber:     account.AccountNumber,
		IFSCCode:          account.IFSCCode,
		SwiftCode:         account.SwiftCode,
		Branch:            account.Branch,
		Currency:          account.Currency,
		AdditionalDetails: account.AdditionalDetails,
		IsActive:          account.IsActive,
		CreatedAt:         account.CreatedAt,
		UpdatedAt:         account.UpdatedAt,
	}
	if account.Company != nil {
		resp.Company = toCompanyResponse(account.Company)
	}
	return resp
}

func (s *bankAccountService) CreateBankAccount(ctx context.Context, req CreateBankAccountRequest) (*BankAccountResponse, error) {
	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		return nil, errors.New("invalid company_id")
	}
	if _, err := s.companyRepo.FindByID(ctx, companyID); err != nil {
		return nil, fmt.Errorf("company not found: %w", err)
	}

	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}

	account := &model.BankAccount{
		CompanyID:         companyID,
		AccountName:       req.AccountName,
		BankName:          req.BankName,
		AccountNumber:     req.AccountNumber,
		IFSCCode:          req.IFSCCode,
		SwiftCode:         req.SwiftCode,
		Branch:            req.Branch,
		Currency:          currency,
		AdditionalDetails: req.AdditionalDetails,
		IsActive:          true,
	}

	if err := s.bankRepo.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create bank account: %w", err)
	}
	return toBankAccountResponse(account), nil
}

func (s *bankAccountService) GetBankAccountByID(ctx context.Context, id string) (*BankAccountResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.New("invalid bank account id")
	}

	account, err := s.bankRepo.FindByID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("bank account not found: %w", err)
	}
	return toBankAccountResponse(account), nil
}

func (s *bankAccountService) ListBankAccounts(ctx context.Context, companyID *uuid.UUID, page, limit int) ([]BankAccountResponse, int64, error) {
	accounts, total, err := s.bankRepo.List(ctx, companyID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch bank accounts: %w", err)
	}

	responses := make([]BankAccountResponse, 0, len(accounts))
	for i := range accounts {
		responses = append(responses, *toBankAccountResponse(&accounts[i]))
	}
	return responses, total, nil
}

func (s *bankAccountService) UpdateBankAccount(ctx context.Context, id string, req UpdateBankAccountRequest) (*BankAccountResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.New("invalid bank account id")
	}

	account, err := s.bankRepo.FindByID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("bank account not found: %w", err)
	}

	if req.AccountName != nil {
		if *req.AccountName == "" {
			return nil, errors.New("account_name cannot be empty")
		}
		account.AccountName = *req.AccountName
	}
	if req.BankName != nil {
		account.BankName = *req.BankName
	}
	if req.AccountNumber != nil {
		account.AccountNumber = *req.AccountNumber
	}
	if req.IFSCCode != nil {
		account.IFSCCode = *req.IFSCCode
	}
	if req.SwiftCode != nil {
		account.SwiftCode = *req.SwiftCode
	}
	if req.Branch != nil {
		account.Branch = *req.Branch
	}
	if req.Currency != nil && *req.Currency != "" {
		account.Currency = *req.Currency
	}
	if req.AdditionalDetails != nil {
		account.AdditionalDetails = *req.AdditionalDetails
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}

	if err := s.bankRepo.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to update bank account: %w", err)
	}
	return toBankAccountResponse(account), nil
}

func (s *bankAccountService) DeactivateBankAccount(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return errors.New("invalid bank account id")
	}

	account, err := s.bankRepo.FindByID(ctx, uid)
	if err != nil {
		return fmt.Errorf("bank account not found: %w", err)
	}

	account.IsActive = false
	return s.bankRepo.Update(ctx, account)
}

// --- Client ↔ bank account mappings ---

func (s *bankAccountService) MapBankToClient(ctx context.Context, req CreateMappingRequest) (*MappingResponse, error) {
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return nil, errors.New("invalid client_id")
	}
	bankAccountID, err := uuid.Parse(req.BankAccountID)
	if err != nil {
		return nil, errors.New("invalid bank_account_id")
	}

	if _, err := s.clientRepo.FindByID(ctx, clientID); err != nil {
		return nil, fmt.Errorf("client not found: %w", err)
	}
	if _, err := s.bankRepo.FindByID(ctx, bankAccountID); err != nil {
		return nil, fmt.Errorf("bank account not found: %w", err)
	}

	displayOrder := req.DisplayOrder
	if displayOrder <= 0 {
		displayOrder = 1
	}

	mapping := &model.ClientBankMapping{
		ClientID:      clientID,
		BankAccountID: bankAccountID,
		DisplayOrder:  displayOrder,
		IsActive:      true,
	}

	if err := s.bankRepo.CreateMapping(ctx, mapping); err != nil {
		return nil, fmt.Errorf("failed to create mapping: %w", err)
	}

	return &MappingResponse{
		ID:            mapping.ID,
		ClientID:      mapping.ClientID,
		BankAccountID: mapping.BankAccountID,
		DisplayOrder:  mapping.DisplayOrder,
		IsActive:      mapping.IsActive,
		CreatedAt:     mapping.CreatedAt,
	}, nil
}

// RemoveMapping hard-deletes the join row.
func (s *bankAccountService) RemoveMapping(ctx context.Context, mappingID string) error {
	uid, err := uuid.Parse(mappingID)
	if err != nil {
		return errors.New("invalid mapping id")
	}

	if _, err := s.bankRepo.FindMappingByID(ctx, uid); err != nil {
		return fmt.Errorf("mapping not found: %w", err)
	}
	return s.bankRepo.DeleteMapping(ctx, uid)
}

func (s *bankAccountService) ListByClient(ctx context.Context, clientID string) ([]BankAccountResponse, error) {
	uid, err := uuid.Parse(clientID)
	if err != nil {
		return nil, errors.New("invalid client id")
	}

	accounts, err := s.bankRepo.FindByClient(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch client bank accounts: %w", err)
	}

	responses := make([]BankAccountResponse, 0, len(accounts))
	for i := range accounts {
		responses = append(responses, *toBankAccountResponse(&accounts[i]))
	}
	return responses, nil
}
