package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"invoicing/internal/model"
	"invoicing/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type InvoiceItemPayload struct {
	Description string `json:"description" binding:"required"`
	Quantity    string `json:"quantity" binding:"required"`
	UnitPrice   string `json:"unit_price" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
}

type BankDetailPayload struct {
	BankAccountID string `json:"bank_account_id" binding:"required"`
	DisplayOrder  int    `json:"display_order"`
}

type CreateInvoiceRequest struct {
	CompanyID   string               `json:"company_id" binding:"required"`
	ClientID    string               `json:"client_id" binding:"required"`
	InvoiceDate string               `json:"invoice_date"` // RFC3339, defaults to now
	DueDate     string               `json:"due_date"`
	Currency    string               `json:"currency"` // defaults to the client's currency
	TaxRate     string               `json:"tax_rate"` // defaults to the client's rate
	Status      string               `json:"status"`   // defaults to Draft
	Notes       string               `json:"notes"`
	Terms       string               `json:"terms"`
	Items       []InvoiceItemPayload `json:"items" binding:"required,min=1,dive"`
	BankDetails []BankDetailPayload  `json:"bank_details" binding:"omitempty,dive"`
}

type UpdateInvoiceRequest struct {
	InvoiceDate *string              `json:"invoice_date"`
	DueDate     *string              `json:"due_date"`
	Status      *string              `json:"status"`
	Notes       *string              `json:"notes"`
	Terms       *string              `json:"terms"`
	TaxRate     *string              `json:"tax_rate"`
	Items       []InvoiceItemPayload `json:"items" binding:"required,min=1,dive"`
	BankDetails []BankDetailPayload  `json:"bank_details" binding:"omitempty,dive"`
}

type InvoiceItemResponse struct {
	ID          uuid.UUID `json:"id"`
	LineNumber  int       `json:"line_number"`
	Description string    `json:"description"`
	Quantity    string    `json:"quantity"`
	UnitPrice   string    `json:"unit_price"`
	Amount      string    `json:"amount"`
}

type InvoiceBankDetailResponse struct {
	ID            uuid.UUID            `json:"id"`
	BankAccountID uuid.UUID            `json:"bank_account_id"`
	BankAccount   *BankAccountResponse `json:"bank_account,omitempty"`
	DisplayOrder  int                  `json:"display_order"`
}

type InvoiceResponse struct {
	ID            uuid.UUID                   `json:"id"`
	CompanyID     uuid.UUID                   `json:"company_id"`
	Company       *CompanyResponse            `json:"company,omitempty"`
	ClientID      uuid.UUID                   `json:"client_id"`
	Client        *ClientResponse             `json:"client,omitempty"`
	InvoiceNumber string                      `json:"invoice_number"`
	InvoiceDate   time.Time                   `json:"invoice_date"`
	DueDate       *time.Time                  `json:"due_date"`
	Currency      string                      `json:"currency"`
	SubTotal      string                      `json:"sub_total"`
	TaxRate       string                      `json:"tax_rate"`
	TaxAmount     string                      `json:"tax_amount"`
	TotalAmount   string                      `json:"total_amount"`
	Status        string                      `json:"status"`
	Notes         string                      `json:"notes"`
	Terms         string                      `json:"terms"`
	CreatedBy     uuid.UUID                   `json:"created_by"`
	CreatorName   string                      `json:"creator_name,omitempty"`
	ModifiedBy    *uuid.UUID                  `json:"modified_by"`
	Items         []InvoiceItemResponse       `json:"items"`
	BankDetails   []InvoiceBankDetailResponse `json:"bank_details"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

type DashboardResponse struct {
	TotalInvoices     int64                           `json:"total_invoices"`
	DraftInvoices     int64                           `json:"draft_invoices"`
	SentInvoices      int64                           `json:"sent_invoices"`
	PaidInvoices      int64                           `json:"paid_invoices"`
	RevenueByCurrency []repository.CurrencyRevenueRow `json:"revenue_by_currency"`
	MonthlyRevenue    []repository.MonthlyRevenueRow  `json:"monthly_revenue"`
}

// InvoiceNotifier receives invoice lifecycle events for fan-out to connected
// dashboard clients. Delivery is best effort.
type InvoiceNotifier interface {
	InvoiceEvent(eventType string, invoiceID uuid.UUID, invoiceNumber, status string)
}

// --- Interface ---

type InvoiceService interface {
	GenerateInvoiceNumber(ctx context.Context, clientID string) (string, error)
	CreateInvoice(ctx context.Context, req CreateInvoiceRequest, createdBy string) (*InvoiceResponse, error)
	GetInvoiceByID(ctx context.Context, id string) (*InvoiceResponse, error)
	ListInvoices(ctx context.Context, companyID *uuid.UUID, status string, page, limit int) ([]InvoiceResponse, int64, error)
	UpdateInvoice(ctx context.Context, id string, req UpdateInvoiceRequest, modifiedBy string) (*InvoiceResponse, error)
	DeleteInvoice(ctx context.Context, id string) error
	Dashboard(ctx context.Context, companyID *uuid.UUID) (*DashboardResponse, error)
}

type invoiceService struct {
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
	companyRepo repository.CompanyRepository
	reportRepo  repository.ReportRepository
	txManager   repository.TransactionManager
	notifier    InvoiceNotifier
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	companyRepo repository.CompanyRepository,
	reportRepo repository.ReportRepository,
	txManager repository.TransactionManager,
	notifier InvoiceNotifier,
) InvoiceService {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		companyRepo: companyRepo,
		reportRepo:  reportRepo,
		txManager:   txManager,
		notifier:    notifier,
	}
}

// --- Numbering ---

// FormatInvoiceNumber substitutes the numbering placeholders into a client's
// template: {YYYY} 4-digit year, {MM} 2-digit month, {####} and {###} the
// counter zero-padded to 4 or 3 digits.
func FormatInvoiceNumber(format string, next int64, now time.Time) string {
	replacer := strings.NewReplacer(
		"{YYYY}", fmt.Sprintf("%04d", now.Year()),
		"{MM}", fmt.Sprintf("%02d", int(now.Month())),
		"{####}", fmt.Sprintf("%04d", next),
		"{###}", fmt.Sprintf("%03d", next),
	)
	return replacer.Replace(format)
}

// GenerateInvoiceNumber bumps the client's counter and renders the template.
// The increment and the read run in one transaction, so two concurrent calls
// for the same client always produce distinct numbers. A number consumed by
// a later failed invoice write leaves a gap, which is acceptable: sequences
// must be unique and increasing, not contiguous.
func (s *invoiceService) GenerateInvoiceNumber(ctx context.Context, clientID string) (string, error) {
	uid, err := uuid.Parse(clientID)
	if err != nil {
		return "", errors.New("invalid client id")
	}

	var number string
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		client, incErr := s.clientRepo.IncrementInvoiceNumber(txCtx, uid)
		if incErr != nil {
			return fmt.Errorf("client not found: %w", incErr)
		}
		if client.InvoiceNumberFormat == "" {
			return errors.New("client has no invoice number format configured")
		}
		number = FormatInvoiceNumber(client.InvoiceNumberFormat, client.LastInvoiceNumber, time.Now())
		return nil
	})
	if err != nil {
		return "", err
	}
	return number, nil
}

// --- Totals ---

// ComputeTotals derives the invoice amounts from its lines: subTotal is the
// sum of line amounts, taxAmount is subTotal × taxRate/100 rounded to two
// decimal places, totalAmount is their sum.
func ComputeTotals(items []model.InvoiceItem, taxRate decimal.Decimal) (subTotal, taxAmount, totalAmount decimal.Decimal) {
	subTotal = decimal.Zero
	for _, item := range items {
		subTotal = subTotal.Add(item.Amount)
	}
	subTotal = subTotal.Round(2)
	taxAmount = subTotal.Mul(taxRate).Div(decimal.NewFromInt(100)).Round(2)
	totalAmount = subTotal.Add(taxAmount)
	return subTotal, taxAmount, totalAmount
}

func parseItems(payloads []InvoiceItemPayload) ([]model.InvoiceItem, error) {
	items := make([]model.InvoiceItem, 0, len(payloads))
	for i, p := range payloads {
		quantity, err := decimal.NewFromString(p.Quantity)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: invalid quantity: %w", i, err)
		}
		unitPrice, err := decimal.NewFromString(p.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: invalid unit_price: %w", i, err)
		}
		amount, err := decimal.NewFromString(p.Amount)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: invalid amount: %w", i, err)
		}
		items = append(items, model.InvoiceItem{
			LineNumber:  i + 1, // 1-based, contiguous, payload order
			Description: p.Description,
			Quantity:    quantity,
			UnitPrice:   unitPrice,
			Amount:      amount,
		})
	}
	return items, nil
}

func parseBankDetails(payloads []BankDetailPayload) ([]model.InvoiceBankDetail, error) {
	details := make([]model.InvoiceBankDetail, 0, len(payloads))
	for i, p := range payloads {
		accountID, err := uuid.Parse(p.BankAccountID)
		if err != nil {
			return nil, fmt.Errorf("bank_details[%d]: invalid bank_account_id: %w", i, err)
		}
		displayOrder := p.DisplayOrder
		if displayOrder <= 0 {
			displayOrder = i + 1
		}
		details = append(details, model.InvoiceBankDetail{
			BankAccountID: accountID,
			DisplayOrder:  displayOrder,
		})
	}
	return details, nil
}

// --- CRUD ---

func (s *invoiceService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest, createdBy string) (*InvoiceResponse, error) {
	creatorID, err := uuid.Parse(createdBy)
	if err != nil {
		return nil, errors.New("invalid creator id")
	}
	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		return nil, errors.New("invalid company_id")
	}
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return nil, errors.New("invalid client_id")
	}

	if _, err := s.companyRepo.FindByID(ctx, companyID); err != nil {
		return nil, fmt.Errorf("company not found: %w", err)
	}
	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("client not found: %w", err)
	}
	if client.CompanyID != companyID {
		return nil, errors.New("client does not belong to the given company")
	}

	invoiceDate := time.Now()
	if req.InvoiceDate != "" {
		invoiceDate, err = time.Parse(time.RFC3339, req.InvoiceDate)
		if err != nil {
			return nil, errors.New("invalid invoice_date, expected RFC3339")
		}
	}

	var dueDate *time.Time
	if req.DueDate != "" {
		parsed, parseErr := time.Parse(time.RFC3339, req.DueDate)
		if parseErr != nil {
			return nil, errors.New("invalid due_date, expected RFC3339")
		}
		dueDate = &parsed
	}

	status := req.Status
	if status == "" {
		status = model.StatusDraft
	}
	if !model.ValidStatus(status) {
		return nil, fmt.Errorf("invalid status %q", status)
	}

	currency := req.Currency
	if currency == "" {
		currency = client.Currency
	}

	taxRate := client.TaxRate
	if req.TaxRate != "" {
		taxRate, err = decimal.NewFromString(req.TaxRate)
		if err != nil {
			return nil, fmt.Errorf("invalid tax_rate: %w", err)
		}
	}

	items, err := parseItems(req.Items)
	if err != nil {
		return nil, err
	}
	bankDetails, err := parseBankDetails(req.BankDetails)
	if err != nil {
		return nil, err
	}

	// Number first, in its own transaction. If the invoice write below
	// fails the consumed number is stranded; the sequence stays unique.
	invoiceNumber, err := s.GenerateInvoiceNumber(ctx, req.ClientID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate invoice number: %w", err)
	}

	subTotal, taxAmount, totalAmount := ComputeTotals(items, taxRate)

	invoice := model.Invoice{
		CompanyID:     companyID,
		ClientID:      clientID,
		InvoiceNumber: invoiceNumber,
		InvoiceDate:   invoiceDate,
		DueDate:       dueDate,
		Currency:      currency,
		SubTotal:      subTotal,
		TaxRate:       taxRate,
		TaxAmount:     taxAmount,
		TotalAmount:   totalAmount,
		Status:        status,
		Notes:         req.Notes,
		Terms:         req.Terms,
		CreatedBy:     creatorID,
		Items:         items,
		BankDetails:   bankDetails,
	}

	if err := s.invoiceRepo.Create(ctx, &invoice); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	reloaded, err := s.invoiceRepo.FindByIDFull(ctx, invoice.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload invoice: %w", err)
	}

	if s.notifier != nil {
		s.notifier.InvoiceEvent("invoice.created", reloaded.ID, reloaded.InvoiceNumber, reloaded.Status)
	}

	return toInvoiceResponse(reloaded), nil
}

func (s *invoiceService) GetInvoiceByID(ctx context.Context, id string) (*InvoiceResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.New("invalid invoice id")
	}

	invoice, err := s.invoiceRepo.FindByIDFull(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("invoice not found: %w", err)
	}
	return toInvoiceResponse(invoice), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, companyID *uuid.UUID, status string, page, limit int) ([]InvoiceResponse, int64, error) {
	if status != "" && !model.ValidStatus(status) {
		return nil, 0, fmt.Errorf("invalid status %q", status)
	}

	invoices, total, err := s.invoiceRepo.List(ctx, repository.InvoiceListFilter{
		CompanyID: companyID,
		Status:    status,
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	responses := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		responses = append(responses, *toInvoiceResponse(&invoices[i]))
	}
	return responses, total, nil
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, id string, req UpdateInvoiceRequest, modifiedBy string) (*InvoiceResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.New("invalid invoice id")
	}
	modifierID, err := uuid.Parse(modifiedBy)
	if err != nil {
		return nil, errors.New("invalid modifier id")
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("invoice not found: %w", err)
	}

	if req.Status != nil && *req.Status != invoice.Status {
		if !model.ValidStatus(*req.Status) {
			return nil, fmt.Errorf("invalid status %q", *req.Status)
		}
		if !model.CanTransition(invoice.Status, *req.Status) {
			return nil, fmt.Errorf("illegal status transition from %s to %s", invoice.Status, *req.Status)
		}
		invoice.Status = *req.Status
	}

	if req.InvoiceDate != nil {
		parsed, parseErr := time.Parse(time.RFC3339, *req.InvoiceDate)
		if parseErr != nil {
			return nil, errors.New("invalid invoice_date, expected RFC3339")
		}
		invoice.InvoiceDate = parsed
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			invoice.DueDate = nil
		} else {
			parsed, parseErr := time.Parse(time.RFC3339, *req.DueDate)
			if parseErr != nil {
				return nil, errors.New("invalid due_date, expected RFC3339")
			}
			invoice.DueDate = &parsed
		}
	}
	if req.Notes != nil {
		invoice.Notes = *req.Notes
	}
	if req.Terms != nil {
		invoice.Terms = *req.Terms
	}
	if req.TaxRate != nil {
		taxRate, parseErr := decimal.NewFromString(*req.TaxRate)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid tax_rate: %w", parseErr)
		}
		invoice.TaxRate = taxRate
	}

	items, err := parseItems(req.Items)
	if err != nil {
		return nil, err
	}
	bankDetails, err := parseBankDetails(req.BankDetails)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].InvoiceID = invoice.ID
	}
	for i := range bankDetails {
		bankDetails[i].InvoiceID = invoice.ID
	}

	invoice.SubTotal, invoice.TaxAmount, invoice.TotalAmount = ComputeTotals(items, invoice.TaxRate)
	invoice.ModifiedBy = &modifierID

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.invoiceRepo.ReplaceItems(txCtx, invoice.ID, items); err != nil {
			return fmt.Errorf("failed to replace items: %w", err)
		}
		if err := s.invoiceRepo.ReplaceBankDetails(txCtx, invoice.ID, bankDetails); err != nil {
			return fmt.Errorf("failed to replace bank details: %w", err)
		}
		if err := s.invoiceRepo.Update(txCtx, invoice); err != nil {
			return fmt.Errorf("failed to update invoice: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	reloaded, err := s.invoiceRepo.FindByIDFull(ctx, invoice.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload invoice: %w", err)
	}

	if s.notifier != nil {
		s.notifier.InvoiceEvent("invoice.updated", reloaded.ID, reloaded.InvoiceNumber, reloaded.Status)
	}

	return toInvoiceResponse(reloaded), nil
}

// DeleteInvoice hard-deletes the aggregate: header, items and bank details.
func (s *invoiceService) DeleteInvoice(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return errors.New("invalid invoice id")
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, uid)
	if err != nil {
		return fmt.Errorf("invoice not found: %w", err)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.invoiceRepo.Delete(txCtx, uid)
	})
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}

	if s.notifier != nil {
		s.notifier.InvoiceEvent("invoice.deleted", invoice.ID, invoice.InvoiceNumber, invoice.Status)
	}
	return nil
}

// --- Dashboard ---

func (s *invoiceService) Dashboard(ctx context.Context, companyID *uuid.UUID) (*DashboardResponse, error) {
	total, err := s.reportRepo.CountByStatus(ctx, companyID, "")
	if err != nil {
		return nil, err
	}
	draft, err := s.reportRepo.CountByStatus(ctx, companyID, model.StatusDraft)
	if err != nil {
		return nil, err
	}
	sent, err := s.reportRepo.CountByStatus(ctx, companyID, model.StatusSent)
	if err != nil {
		return nil, err
	}
	paid, err := s.reportRepo.CountByStatus(ctx, companyID, model.StatusPaid)
	if err != nil {
		return nil, err
	}
	revenue, err := s.reportRepo.RevenueByCurrency(ctx, companyID)
	if err != nil {
		return nil, err
	}
	monthly, err := s.reportRepo.MonthlyRevenue(ctx, companyID, 12)
	if err != nil {
		return nil, err
	}

	return &DashboardResponse{
		TotalInvoices:     total,
		DraftInvoices:     draft,
		SentInvoices:      sent,
		PaidInvoices:      paid,
		RevenueByCurrency: revenue,
		MonthlyRevenue:    monthly,
	}, nil
}

// --- Mapping ---

func toInvoiceResponse(inv *model.Invoice) *InvoiceResponse {
	resp := &InvoiceResponse{
		ID:            inv.ID,
		CompanyID:     inv.CompanyID,
		ClientID:      inv.ClientID,
		InvoiceNumber: inv.InvoiceNumber,
		InvoiceDate:   inv.InvoiceDate,
		DueDate:       inv.DueDate,
		Currency:      inv.Currency,
		SubTotal:      inv.SubTotal.StringFixed(2),
		TaxRate:       inv.TaxRate.StringFixed(2),
		TaxAmount:     inv.TaxAmount.StringFixed(2),
		TotalAmount:   inv.TotalAmount.StringFixed(2),
		Status:        inv.Status,
		Notes:         inv.Notes,
		Terms:         inv.Terms,
		CreatedBy:     inv.CreatedBy,
		ModifiedBy:    inv.ModifiedBy,
		Items:         make([]InvoiceItemResponse, 0, len(inv.Items)),
		BankDetails:   make([]InvoiceBankDetailResponse, 0, len(inv.BankDetails)),
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}

	if inv.Company != nil {
		resp.Company = toCompanyResponse(inv.Company)
	}
	if inv.Client != nil {
		resp.Client = toClientResponse(inv.Client)
	}
	if inv.Creator != nil {
		resp.CreatorName = inv.Creator.FullName
	}

	for _, item := range inv.Items {
		resp.Items = append(resp.Items, InvoiceItemResponse{
			ID:          item.ID,
			LineNumber:  item.LineNumber,
			Description: item.Description,
			Quantity:    item.Quantity.StringFixed(2),
			UnitPrice:   item.UnitPrice.StringFixed(2),
			Amount:      item.Amount.StringFixed(2),
		})
	}
	for _, detail := range inv.BankDetails {
		bd := InvoiceBankDetailResponse{
			ID:            detail.ID,
			BankAccountID: detail.BankAccountID,
			DisplayOrder:  detail.DisplayOrder,
		}
		if detail.BankAccount != nil {
			bd.BankAccount = toBankAccountResponse(detail.BankAccount)
		}
		resp.BankDetails = append(resp.BankDetails, bd)
	}

	return resp
}
