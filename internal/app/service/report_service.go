package service

import (
	"context"

	"github.com/ikkim/dualstore-shop/internal/app/repository"
	"github.com/ikkim/dualstore-shop/pkg/logger"
	"github.com/shopspring/decimal"
)

type ReportService interface {
	// Spenders lists (user, category) pairs whose spend over the last six months exceeds threshold.
	Spenders(ctx context.Context, threshold decimal.Decimal) ([]repository.SpenderRow, error)
	// RepeatBuyers lists products bought by the same user in two or more orders over the last year.
	RepeatBuyers(ctx context.Context) ([]repository.RepeatBuyerRow, error)
}

type reportService struct {
	repo repository.ReportRepository
	opts options
}

func NewReportService(repo repository.ReportRepository, opts ...Option) ReportService {
	return &reportService{repo: repo, opts: buildOptions(opts)}
}

func (s *reportService) Spenders(ctx context.Context, threshold decimal.Decimal) ([]repository.SpenderRow, error) {
	since := s.opts.clock().AddDate(0, -SpendWindowMonths, 0)
	fields := map[string]interface{}{
		"threshold": threshold.String(),
		"since":     since,
	}

	rows, err := s.repo.SpendersOverThreshold(ctx, since, threshold)
	if err != nil {
		logFailure("Cannot run spenders report", err, fields)
		return nil, err
	}

	fields["rows"] = len(rows)
	logger.Info("Spenders report generated", fields)
	return rows, nil
}

func (s *reportService) RepeatBuyers(ctx context.Context) ([]repository.RepeatBuyerRow, error) {
	since := s.opts.clock().AddDate(-RepeatBuyerWindowYears, 0, 0)
	fields := map[string]interface{}{
		"since": since,
	}

	rows, err := s.repo.RepeatBuyerProducts(ctx, since)
	if err != nil {
		logFailure("Cannot run repeat buyers report", err, fields)
		return nil, err
	}

	fields["rows"] = len(rows)
	logger.Info("Repeat buyers report generated", fields)
	return rows, nil
}
