// Package stats aggregates traffic and result statistics and keeps the
// statistics dashboard fed, both on request and over the live feed.
package stats

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jinsol-dev/persona-lab/internal/domain"
	"github.com/jinsol-dev/persona-lab/internal/live"
	"github.com/jinsol-dev/persona-lab/internal/store"
)

// Service computes dashboard aggregates and pushes them to the live hub.
type Service struct {
	repo store.Repository
	hub  *live.Hub
}

// NewService creates a stats service. hub may be nil (no live feed).
func NewService(repo store.Repository, hub *live.Hub) *Service {
	return &Service{repo: repo, hub: hub}
}

// DashboardStats computes the current aggregate snapshot.
func (s *Service) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	totalTests, err := s.repo.CountResults(ctx)
	if err != nil {
		return nil, fmt.Errorf("count results: %w", err)
	}
	totalShares, err := s.repo.CountShares(ctx)
	if err != nil {
		return nil, fmt.Errorf("count shares: %w", err)
	}
	totalComments, err := s.repo.CountComments(ctx)
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}
	dist, err := s.repo.MBTIDistribution(ctx)
	if err != nil {
		return nil, fmt.Errorf("mbti distribution: %w", err)
	}

	var popular string
	var popularCount int64
	for mbtiType, count := range dist {
		if count > popularCount || (count == popularCount && mbtiType < popular) {
			popular = mbtiType
			popularCount = count
		}
	}

	return &domain.DashboardStats{
		TotalTests:       totalTests,
		TotalShares:      totalShares,
		TotalComments:    totalComments,
		MostPopularMBTI:  popular,
		MBTIDistribution: dist,
	}, nil
}

// NotifyChange recomputes the snapshot and broadcasts it to connected
// statistics pages. Failures are logged only; the triggering request has
// already succeeded.
func (s *Service) NotifyChange(ctx context.Context) {
	if s.hub == nil || s.hub.ConnCount() == 0 {
		return
	}
	stats, err := s.DashboardStats(ctx)
	if err != nil {
		slog.Warn("failed to recompute dashboard stats for broadcast", "error", err)
		return
	}
	s.hub.Broadcast(ctx, stats)
}
