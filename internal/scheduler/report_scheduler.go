package scheduler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ikkim/dualstore-shop/internal/app/repository"
	"github.com/ikkim/dualstore-shop/internal/app/service"
	"github.com/ikkim/dualstore-shop/internal/export"
	"github.com/ikkim/dualstore-shop/internal/storage"
	"github.com/ikkim/dualstore-shop/pkg/logger"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
)

const exportTimeout = 5 * time.Minute

// ReportScheduler exports both reports to a sink on a cron schedule.
type ReportScheduler struct {
	cron      *cron.Cron
	reports   service.ReportService
	sink      storage.ReportSink
	threshold decimal.Decimal
	now       func() time.Time
}

func NewReportScheduler(reports service.ReportService, sink storage.ReportSink, threshold decimal.Decimal) *ReportScheduler {
	return &ReportScheduler{
		cron:      cron.New(cron.WithLocation(time.UTC)),
		reports:   reports,
		sink:      sink,
		threshold: threshold,
		now:       time.Now,
	}
}

// Start schedules the export with a standard five-field cron spec, evaluated in UTC.
func (s *ReportScheduler) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		logger.Info("Starting scheduled report export")
		if _, err := s.RunOnce(ctx); err != nil {
			logger.Error("Scheduled report export failed", err)
			return
		}
		logger.Info("Scheduled report export finished")
	})
	if err != nil {
		logger.Error("Failed to add cron job for report export", err, map[string]interface{}{
			"spec": spec,
		})
		return fmt.Errorf("invalid export schedule %q: %w", spec, err)
	}

	s.cron.Start()
	logger.Info("Report export scheduler started", map[string]interface{}{
		"spec": spec,
	})
	return nil
}

func (s *ReportScheduler) Stop() {
	logger.Info("Stopping report export scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Report export scheduler stopped")
}

// RunOnce exports every report the live backend supports and returns their locations.
// Reports the backend does not support are skipped.
func (s *ReportScheduler) RunOnce(ctx context.Context) ([]string, error) {
	day := s.now().UTC().Format("2006-01-02")
	var locations []string

	spenders, err := s.reports.Spenders(ctx, s.threshold)
	switch {
	case errors.Is(err, repository.ErrUnsupported):
		logger.Warn("Skipping spenders export", map[string]interface{}{
			"reason": err.Error(),
		})
	case err != nil:
		return locations, err
	default:
		loc, err := s.put(ctx, day, "spenders", func(buf *bytes.Buffer) error {
			return export.WriteSpenders(buf, spenders)
		})
		if err != nil {
			return locations, err
		}
		locations = append(locations, loc)
	}

	repeat, err := s.reports.RepeatBuyers(ctx)
	if err != nil {
		return locations, err
	}
	loc, err := s.put(ctx, day, "repeat-buyers", func(buf *bytes.Buffer) error {
		return export.WriteRepeatBuyers(buf, repeat)
	})
	if err != nil {
		return locations, err
	}
	return append(locations, loc), nil
}

func (s *ReportScheduler) put(ctx context.Context, day, name string, write func(*bytes.Buffer) error) (string, error) {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return "", fmt.Errorf("build %s export: %w", name, err)
	}

	key := fmt.Sprintf("%s/%s.xlsx", day, name)
	loc, err := s.sink.Put(ctx, key, export.ContentType, buf.Bytes())
	if err != nil {
		return "", err
	}

	logger.Info("Report exported", map[string]interface{}{
		"report":   name,
		"location": loc,
	})
	return loc, nil
}
