package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"support-desk/internal/metrics"
	"support-desk/pkg/constants"
	apperrors "support-desk/pkg/errors"
	"support-desk/pkg/utils"
)

type ReportServiceInterface interface {
	GetReport(ctx context.Context, rangeParam, company string) (*metrics.Report, error)
	GetOverview(ctx context.Context) (*metrics.Overview, error)
	GetSchedule(ctx context.Context, date string) (*metrics.WeekSchedule, error)
}

// ReportService - все производные показатели считаются по снимку, хранилище не трогается.
type ReportService struct {
	snapshot SnapshotSource
	clock    Clock
	logger   *zap.Logger
}

func NewReportService(snapshot SnapshotSource, clock Clock, logger *zap.Logger) ReportServiceInterface {
	return &ReportService{snapshot: snapshot, clock: clock, logger: logger}
}

// GetReport: company - имя компании или "all"; неизвестное имя - ошибка ввода.
func (s *ReportService) GetReport(ctx context.Context, rangeParam, company string) (*metrics.Report, error) {
	r, err := metrics.ParseTimeRange(strings.TrimSpace(rangeParam))
	if err != nil {
		return nil, apperrors.NewValidationError("range", err.Error())
	}
	company = strings.TrimSpace(company)
	if company == "" {
		company = constants.FilterAll
	}

	snap, err := s.snapshot.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	if company != constants.FilterAll {
		c, ok := snap.CompanyByName(company)
		if !ok {
			return nil, apperrors.NewValidationError("company", "компания не найдена")
		}
		company = c.Name
	}

	report := metrics.BuildReport(snap, metrics.ReportParams{Range: r, Company: company, Now: s.clock()})
	s.logger.Debug("Сформирован отчёт",
		zap.String("range", string(r)),
		zap.String("company", company),
		zap.Int("tickets", report.Stats.TotalTickets),
	)
	return &report, nil
}

func (s *ReportService) GetOverview(ctx context.Context) (*metrics.Overview, error) {
	snap, err := s.snapshot.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	ov := metrics.BuildOverview(snap, s.clock())
	return &ov, nil
}

// GetSchedule: пустая дата - текущая неделя.
func (s *ReportService) GetSchedule(ctx context.Context, date string) (*metrics.WeekSchedule, error) {
	now := s.clock()
	day := now
	if date = strings.TrimSpace(date); date != "" {
		parsed, err := utils.ParseDateParam(date, now.Location())
		if err != nil {
			return nil, apperrors.NewValidationError("date", "неверный формат даты")
		}
		day = parsed
	}
	snap, err := s.snapshot.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	schedule := metrics.BuildWeekSchedule(snap.Tickets, day)
	return &schedule, nil
}
