package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/SAP-F-2025/internship-tracker/internal/cache"
	"github.com/SAP-F-2025/internship-tracker/internal/models"
	"github.com/SAP-F-2025/internship-tracker/internal/reports"
	"github.com/SAP-F-2025/internship-tracker/internal/repositories"
)

// DefaultTopCompanies bounds the by-company breakdown.
const DefaultTopCompanies = 10

type analyticsService struct {
	repo         repositories.Repository
	cache        *cache.CacheHelper
	logger       *slog.Logger
	topCompanies int
	now          Clock
}

func NewAnalyticsService(repo repositories.Repository, reportCache *cache.CacheHelper, logger *slog.Logger, topCompanies int, now Clock) AnalyticsService {
	if topCompanies <= 0 {
		topCompanies = DefaultTopCompanies
	}
	if now == nil {
		now = time.Now
	}
	return &analyticsService{
		repo:         repo,
		cache:        reportCache,
		logger:       logger,
		topCompanies: topCompanies,
		now:          now,
	}
}

// GetAnalytics serves the cached report when one is present. Writes that
// change the counts drop the cached copy.
func (s *analyticsService) GetAnalytics(ctx context.Context) (*models.AnalyticsReport, error) {
	return cache.CacheOrExecute(ctx, s.cache, cache.AnalyticsReportKey, func() (*models.AnalyticsReport, error) {
		return s.buildReport(ctx)
	})
}

func (s *analyticsService) buildReport(ctx context.Context) (*models.AnalyticsReport, error) {
	byCompany, err := s.repo.Analytics().ApplicationsByCompany(ctx, s.topCompanies)
	if err != nil {
		return nil, fmt.Errorf("failed to get applications by company: %w", err)
	}

	byStatus, err := s.repo.Analytics().ApplicationsByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get applications by status: %w", err)
	}

	timeline, err := s.repo.Analytics().ApplicationsByMonth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get application timeline: %w", err)
	}

	report := &models.AnalyticsReport{
		ByCompany: byCompany,
		ByStatus:  byStatus,
		Timeline:  timeline,
	}
	for _, sc := range byStatus {
		report.TotalApps += sc.Count
		if sc.Status == models.ApplicationDone {
			report.DoneApps += sc.Count
		}
	}
	report.SuccessRate = successRate(report.DoneApps, report.TotalApps)

	return report, nil
}

func (s *analyticsService) ExportXLSX(ctx context.Context, w io.Writer) error {
	report, err := s.GetAnalytics(ctx)
	if err != nil {
		return err
	}

	if err := reports.WriteAnalyticsXLSX(w, report, s.now()); err != nil {
		return fmt.Errorf("failed to export analytics: %w", err)
	}

	s.logger.Info("Analytics exported", "total_apps", report.TotalApps)
	return nil
}

// successRate is done/total as a percentage rounded to two places, 0 for no applications.
func successRate(done, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(done)/float64(total)*10000) / 100
}
