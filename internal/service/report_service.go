package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"invoicing/internal/repository"

	"github.com/google/uuid"
)

const (
	defaultReportMonths = 12
	defaultTopClients   = 10
)

type ReportService interface {
	SalesByClient(ctx context.Context, companyID *uuid.UUID, startDate, endDate string) ([]repository.ClientSalesRow, error)
	MonthlyRevenue(ctx context.Context, companyID *uuid.UUID, months int) ([]repository.MonthlyRevenueRow, error)
	StatusSummary(ctx context.Context, companyID *uuid.UUID) ([]repository.StatusSummaryRow, error)
	TopClients(ctx context.Context, companyID *uuid.UUID, top int) ([]repository.TopClientRow, error)
}

type reportService struct {
	reportRepo repository.ReportRepository
}

func NewReportService(reportRepo repository.ReportRepository) ReportService {
	return &reportService{reportRepo: reportRepo}
}

func parseReportDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	// Accept either a full timestamp or just a date.
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		parsed, err = time.Parse("2006-01-02", value)
		if err != nil {
			return nil, errors.New("expected RFC3339 or YYYY-MM-DD")
		}
	}
	return &parsed, nil
}

func (s *reportService) SalesByClient(ctx context.Context, companyID *uuid.UUID, startDate, endDate string) ([]repository.ClientSalesRow, error) {
	start, err := parseReportDate(startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start_date: %w", err)
	}
	end, err := parseReportDate(endDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end_date: %w", err)
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, errors.New("end_date must not be before start_date")
	}

	return s.reportRepo.SalesByClient(ctx, repository.ReportFilter{
		CompanyID: companyID,
		StartDate: start,
		EndDate:   end,
	})
}

func (s *reportService) MonthlyRevenue(ctx context.Context, companyID *uuid.UUID, months int) ([]repository.MonthlyRevenueRow, error) {
	if months <= 0 {
		months = defaultReportMonths
	}
	return s.reportRepo.MonthlyRevenue(ctx, companyID, months)
}

func (s *reportService) StatusSummary(ctx context.Context, companyID *uuid.UUID) ([]repository.StatusSummaryRow, error) {
	return s.reportRepo.StatusSummary(ctx, companyID)
}

func (s *reportService) TopClients(ctx context.Context, companyID *uuid.UUID, top int) ([]repository.TopClientRow, error) {
	if top <= 0 {
		top = defaultTopClients
	}
	return s.reportRepo.TopClients(ctx, companyID, top)
}
