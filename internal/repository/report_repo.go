package repository

import (
	"context"
	"fmt"
	"time"

	"invoicing/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Row types scanned straight out of the raw grouping queries.

type ClientSalesRow struct {
	ClientID     uuid.UUID       `gorm:"column:client_id" json:"client_id"`
	ClientName   string          `gorm:"column:client_name" json:"client_name"`
	Currency     string          `gorm:"column:currency" json:"currency"`
	TotalSales   decimal.Decimal `gorm:"column:total_sales" json:"total_sales"`
	InvoiceCount int64           `gorm:"column:invoice_count" json:"invoice_count"`
}

type MonthlyRevenueRow struct {
	Year         int             `gorm:"column:year" json:"year"`
	Month        int             `gorm:"column:month" json:"month"`
	Currency     string          `gorm:"column:currency" json:"currency"`
	Revenue      decimal.Decimal `gorm:"column:revenue" json:"revenue"`
	InvoiceCount int64           `gorm:"column:invoice_count" json:"invoice_count"`
}

type StatusSummaryRow struct {
	Status      string          `gorm:"column:status" json:"status"`
	Currency    string          `gorm:"column:currency" json:"currency"`
	Count       int64           `gorm:"column:count" json:"count"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount" json:"total_amount"`
}

type TopClientRow struct {
	ClientID     uuid.UUID       `gorm:"column:client_id" json:"client_id"`
	ClientName   string          `gorm:"column:client_name" json:"client_name"`
	TotalRevenue decimal.Decimal `gorm:"column:total_revenue" json:"total_revenue"`
	InvoiceCount int64           `gorm:"column:invoice_count" json:"invoice_count"`
}

type CurrencyRevenueRow struct {
	Currency string          `gorm:"column:currency" json:"currency"`
	Total    decimal.Decimal `gorm:"column:total" json:"total"`
}

// ReportFilter bounds a report query. Nil fields are left unconstrained.
type ReportFilter struct {
	CompanyID *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
}

type ReportRepository interface {
	SalesByClient(ctx context.Context, filter ReportFilter) ([]ClientSalesRow, error)
	MonthlyRevenue(ctx context.Context, companyID *uuid.UUID, months int) ([]MonthlyRevenueRow, error)
	StatusSummary(ctx context.Context, companyID *uuid.UUID) ([]StatusSummaryRow, error)
	TopClients(ctx context.Context, companyID *uuid.UUID, top int) ([]TopClientRow, error)
	CountByStatus(ctx context.Context, companyID *uuid.UUID, status string) (int64, error)
	RevenueByCurrency(ctx context.Context, companyID *uuid.UUID) ([]CurrencyRevenueRow, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// SalesByClient sums paid invoices grouped by (client, currency), largest first.
func (r *reportRepository) SalesByClient(ctx context.Context, filter ReportFilter) ([]ClientSalesRow, error) {
	query := `
		SELECT
			i.client_id AS client_id,
			c.name AS client_name,
			i.currency AS currency,
			COALESCE(SUM(i.total_amount), 0) AS total_sales,
			COUNT(*) AS invoice_count
		FROM invoices i
		INNER JOIN clients c ON c.id = i.client_id
		WHERE i.status = ?`
	args := []interface{}{model.StatusPaid}

	if filter.CompanyID != nil {
		query += ` AND i.company_id = ?`
		args = append(args, *filter.CompanyID)
	}
	if filter.StartDate != nil {
		query += ` AND i.invoice_date >= ?`
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		query += ` AND i.invoice_date <= ?`
		args = append(args, *filter.EndDate)
	}

	query += `
		GROUP BY i.client_id, c.name, i.currency
		ORDER BY total_sales DESC`

	var rows []ClientSalesRow
	if err := GetDB(ctx, r.db).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query sales by client: %w", err)
	}
	return rows, nil
}

// MonthlyRevenue sums paid invoices grouped by (year, month, currency) for
// the trailing window of months.
func (r *reportRepository) MonthlyRevenue(ctx context.Context, companyID *uuid.UUID, months int) ([]MonthlyRevenueRow, error) {
	start := time.Now().AddDate(0, -months, 0)

	query := `
		SELECT
			EXTRACT(YEAR FROM i.invoice_date)::int AS year,
			EXTRACT(MONTH FROM i.invoice_date)::int AS month,
			i.currency AS currency,
			COALESCE(SUM(i.total_amount), 0) AS revenue,
			COUNT(*) AS invoice_count
		FROM invoices i
		WHERE i.status = ? AND i.invoice_date >= ?`
	args := []interface{}{model.StatusPaid, start}

	if companyID != nil {
		query += ` AND i.company_id = ?`
		args = append(args, *companyID)
	}

	query += `
		GROUP BY year, month, i.currency
		ORDER BY year, month`

	var rows []MonthlyRevenueRow
	if err := GetDB(ctx, r.db).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query monthly revenue: %w", err)
	}
	return rows, nil
}

// StatusSummary counts and sums invoices grouped by (status, currency).
func (r *reportRepository) StatusSummary(ctx context.Context, companyID *uuid.UUID) ([]StatusSummaryRow, error) {
	query := `
		SELECT
			i.status AS status,
			i.currency AS currency,
			COUNT(*) AS count,
			COALESCE(SUM(i.total_amount), 0) AS total_amount
		FROM invoices i`
	var args []interface{}

	if companyID != nil {
		query += ` WHERE i.company_id = ?`
		args = append(args, *companyID)
	}

	query += `
		GROUP BY i.status, i.currency
		ORDER BY i.status, i.currency`

	var rows []StatusSummaryRow
	if err := GetDB(ctx, r.db).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query status summary: %w", err)
	}
	return rows, nil
}

// TopClients ranks clients by paid revenue.
func (r *reportRepository) TopClients(ctx context.Context, companyID *uuid.UUID, top int) ([]TopClientRow, error) {
	query := `
		SELECT
			i.client_id AS client_id,
			c.name AS client_name,
			COALESCE(SUM(i.total_amount), 0) AS total_revenue,
			COUNT(*) AS invoice_count
		FROM invoices i
		INNER JOIN clients c ON c.id = i.client_id
		WHERE i.status = ?`
	args := []interface{}{model.StatusPaid}

	if companyID != nil {
		query += ` AND i.company_id = ?`
		args = append(args, *companyID)
	}

	query += `
		GROUP BY i.client_id, c.name
		ORDER BY total_revenue DESC
		LIMIT ?`
	args = append(args, top)

	var rows []TopClientRow
	if err := GetDB(ctx, r.db).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query top clients: %w", err)
	}
	return rows, nil
}

// CountByStatus counts invoices, optionally restricted to one status.
func (r *reportRepository) CountByStatus(ctx context.Context, companyID *uuid.UUID, status string) (int64, error) {
	query := GetDB(ctx, r.db).Model(&model.Invoice{})
	if companyID != nil {
		query = query.Where("company_id = ?", *companyID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count invoices: %w", err)
	}
	return count, nil
}

// RevenueByCurrency sums paid invoices per currency.
func (r *reportRepository) RevenueByCurrency(ctx context.Context, companyID *uuid.UUID) ([]CurrencyRevenueRow, error) {
	query := `
		SELECT
			i.currency AS currency,
			COALESCE(SUM(i.total_amount), 0) AS total
		FROM invoices i
		WHERE i.status = ?`
	args := []interface{}{model.StatusPaid}

	if companyID != nil {
		query += ` AND i.company_id = ?`
		args = append(args, *companyID)
	}

	query += `
		GROUP BY i.currency
		ORDER BY i.currency`

	var rows []CurrencyRevenueRow
	if err := GetDB(ctx, r.db).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query revenue by currency: %w", err)
	}
	return rows, nil
}
