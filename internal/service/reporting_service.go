package service

import (
	"context"
	"time"

	"cross-chain-pool/internal/core/domain"
	"cross-chain-pool/internal/core/ports"
	"cross-chain-pool/pkg/apperror"
)

// reportingService implements ports.ReportingService over the history index.
type reportingService struct {
	historyRepo ports.SwapHistoryRepository
}

// NewReportingService creates a new reporting service.
func NewReportingService(historyRepo ports.SwapHistoryRepository) ports.ReportingService {
	return &reportingService{historyRepo: historyRepo}
}

// GetSwapStats returns aggregated per-chain swap statistics for the period.
func (s *reportingService) GetSwapStats(ctx context.Context, chain, period string) (*ports.SwapStats, error) {
	var since *int64

	switch period {
	case "day":
		t := time.Now().AddDate(0, 0, -1).Unix()
		since = &t
	case "week":
		t := time.Now().AddDate(0, 0, -7).Unix()
		since = &t
	case "month":
		t := time.Now().AddDate(0, -1, 0).Unix()
		since = &t
	case "all", "":
		// No time filter
	default:
		return nil, apperror.Validation("invalid period: must be day, week, month, or all")
	}

	stats, err := s.historyRepo.GetStats(ctx, chain, since)
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	return stats, nil
}

// ListHistory returns recorded events matching the filter, newest first.
func (s *reportingService) ListHistory(ctx context.Context, params ports.HistoryListParams) ([]domain.Event, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}

	events, total, err := s.historyRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(err)
	}
	return events, total, nil
}
