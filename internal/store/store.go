// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"github.com/jinsol-dev/persona-lab/internal/domain"
)

// Repository defines the interface for persisting visitors, quiz snapshots,
// test results, comments, and traffic statistics.
type Repository interface {
	// GetVisitor retrieves a visitor by their visitor ID.
	GetVisitor(ctx context.Context, visitorID string) (*domain.Visitor, error)

	// UpsertVisitor creates or updates a visitor record.
	UpsertVisitor(ctx context.Context, visitor *domain.Visitor) error

	// UpdateLastSeen updates the last_seen_at timestamp for a visitor.
	UpdateLastSeen(ctx context.Context, visitorID string, lastSeen time.Time) error

	// SaveSnapshot stores the serialized quiz snapshot for a session slot,
	// replacing any prior snapshot.
	SaveSnapshot(ctx context.Context, key string, data []byte) error

	// LoadSnapshot returns the stored snapshot bytes, or nil when absent.
	LoadSnapshot(ctx context.Context, key string) ([]byte, error)

	// ClearSnapshot deletes the stored snapshot for a session slot.
	ClearSnapshot(ctx context.Context, key string) error

	// DeleteExpiredSnapshots removes snapshots older than the TTL and
	// reports how many were deleted.
	DeleteExpiredSnapshots(ctx context.Context, ttl time.Duration) (int64, error)

	// SaveResult persists a completed test result.
	SaveResult(ctx context.Context, result *domain.TestResult) error

	// GetResult retrieves a result by its public ID. Missing results come
	// back as (nil, nil).
	GetResult(ctx context.Context, resultID string) (*domain.TestResult, error)

	// RecentResults returns the newest public results.
	RecentResults(ctx context.Context, limit int) ([]*domain.TestResult, error)

	// ResultsByMBTI returns the newest public results of one MBTI type.
	ResultsByMBTI(ctx context.Context, mbtiType string, limit int) ([]*domain.TestResult, error)

	// MostCommentedResults returns public results ordered by comment count.
	MostCommentedResults(ctx context.Context, limit int) ([]*domain.TestResult, error)

	// MostSharedResults returns public results ordered by share counter.
	MostSharedResults(ctx context.Context, limit int) ([]*domain.TestResult, error)

	// IncrementViewCount bumps a result's view counter and returns the new value.
	IncrementViewCount(ctx context.Context, resultID string) (int, error)

	// IncrementSharedCount bumps a result's share counter and returns the new value.
	IncrementSharedCount(ctx context.Context, resultID string) (int, error)

	// SetResultVisibility toggles a result's public flag. Only the owning
	// visitor may change it.
	SetResultVisibility(ctx context.Context, resultID, visitorID string, public bool) error

	// CountResults returns the total number of stored results.
	CountResults(ctx context.Context) (int64, error)

	// MBTIDistribution returns result counts grouped by MBTI type.
	MBTIDistribution(ctx context.Context) (map[string]int64, error)

	// AddComment persists a comment and returns its assigned ID.
	AddComment(ctx context.Context, comment *domain.Comment) (int64, error)

	// CommentsByResult returns a result's comments, newest first.
	CommentsByResult(ctx context.Context, resultID string, limit, offset int) ([]*domain.Comment, error)

	// CommentsByMBTI returns the newest comments for one MBTI type.
	CommentsByMBTI(ctx context.Context, mbtiType string, limit int) ([]*domain.Comment, error)

	// RecentComments returns the newest comments across all results.
	RecentComments(ctx context.Context, limit int) ([]*domain.Comment, error)

	// PopularComments returns comments ordered by like counter.
	PopularComments(ctx context.Context, limit int) ([]*domain.Comment, error)

	// LikeComment bumps a comment's like counter and returns the new value.
	LikeComment(ctx context.Context, commentID int64) (int, error)

	// UpdateComment replaces a comment's body. Only the authoring visitor
	// may edit it.
	UpdateComment(ctx context.Context, commentID int64, visitorID, body string) error

	// DeleteComment removes a comment. Only the authoring visitor may delete it.
	DeleteComment(ctx context.Context, commentID int64, visitorID string) error

	// CountComments returns the total number of comments.
	CountComments(ctx context.Context) (int64, error)

	// CommentCountsByMBTI returns comment counts grouped by MBTI type.
	CommentCountsByMBTI(ctx context.Context) (map[string]int64, error)

	// LogView records one page view.
	LogView(ctx context.Context, view *domain.ViewLog) error

	// LogShare records one share action.
	LogShare(ctx context.Context, share *domain.ShareLog) error

	// CountShares returns the total number of share actions.
	CountShares(ctx context.Context) (int64, error)

	// DailyCounts aggregates the raw logs for one day (YYYY-MM-DD).
	DailyCounts(ctx context.Context, day string) (*domain.DailyStat, error)

	// UpsertDailyStat writes one day's rollup row.
	UpsertDailyStat(ctx context.Context, stat *domain.DailyStat) error

	// DailyStats returns the most recent rollup rows, newest first.
	DailyStats(ctx context.Context, days int) ([]*domain.DailyStat, error)

	// HourlyStats returns per-hour test and view counts for one day.
	HourlyStats(ctx context.Context, day string) ([]*domain.HourlyStat, error)

	// Ping verifies database connectivity and returns an error if the database is unreachable.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
