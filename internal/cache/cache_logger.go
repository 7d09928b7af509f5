package cache

import (
	"context"
	"log/slog"
)

// AnalyticsReportKey is the single cached placement report.
const AnalyticsReportKey = "report"

// SafeInvalidate bumps the generation of key, logging instead of failing.
func SafeInvalidate(ctx context.Context, helper *CacheHelper, key string) {
	if err := helper.Invalidate(ctx, key); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache key",
			"error", err,
			"key", key)
	}
}

// InvalidateAnalytics retires the cached report after any write that changes
// application counts or posting names.
func InvalidateAnalytics(ctx context.Context, helper *CacheHelper) {
	SafeInvalidate(ctx, helper, AnalyticsReportKey)
}
