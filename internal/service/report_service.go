package service

import (
	"context"
	"fmt"
	"time"

	"clinistock/internal/dto"
	"clinistock/internal/repository"
)

type ReportService interface {
	// Monthly aggregates consumed and ordered quantities per item for one
	// calendar month.
	Monthly(ctx context.Context, year, month int) (*dto.MonthlyReportResponse, error)
}

type reportService struct {
	usageRepo repository.UsageRepository
	orderRepo repository.OrderRepository
}

func NewReportService(usageRepo repository.UsageRepository, orderRepo repository.OrderRepository) ReportService {
	return &reportService{usageRepo: usageRepo, orderRepo: orderRepo}
}

func (s *reportService) Monthly(ctx context.Context, year, month int) (*dto.MonthlyReportResponse, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month must be 1-12, got %d", month)
	}
	if year < 2000 || year > 2200 {
		return nil, fmt.Errorf("year out of range: %d", year)
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	usage, err := s.usageRepo.SumByItemBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	ordered, err := s.orderRepo.SumOrderedByItemBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	if usage == nil {
		usage = []dto.ItemTotal{}
	}
	if ordered == nil {
		ordered = []dto.ItemTotal{}
	}
	return &dto.MonthlyReportResponse{
		Year:    year,
		Month:   month,
		Usage:   usage,
		Ordered: ordered,
	}, nil
}
