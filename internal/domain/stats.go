package domain

import "time"

// ViewLog records a single page view for traffic statistics.
type ViewLog struct {
	ViewID    int64     `json:"view_id"`
	Page      string    `json:"page"`
	MBTIType  string    `json:"mbti_type,omitempty"`
	VisitorID string    `json:"-"`
	UserIP    string    `json:"-"`
	UserAgent string    `json:"-"`
	Referer   string    `json:"referer,omitempty"`
	ViewedAt  time.Time `json:"viewed_at"`
}

// ShareLog records a single share action for a result.
type ShareLog struct {
	ShareID   int64     `json:"share_id"`
	ResultID  string    `json:"result_id"`
	Platform  string    `json:"platform"`
	VisitorID string    `json:"-"`
	SharedAt  time.Time `json:"shared_at"`
}

// DailyStat is the per-day rollup row backing the statistics dashboard.
type DailyStat struct {
	Day        string `json:"day"` // YYYY-MM-DD
	TestCount  int64  `json:"test_count"`
	ViewCount  int64  `json:"view_count"`
	ShareCount int64  `json:"share_count"`
}

// HourlyStat is a per-hour activity count within one day.
type HourlyStat struct {
	Hour      int   `json:"hour"` // 0-23
	TestCount int64 `json:"test_count"`
	ViewCount int64 `json:"view_count"`
}

// DashboardStats is the aggregate snapshot served to the dashboard and
// broadcast over the live feed.
type DashboardStats struct {
	TotalTests       int64            `json:"totalTests"`
	TotalShares      int64            `json:"totalShares"`
	TotalComments    int64            `json:"totalComments"`
	MostPopularMBTI  string           `json:"mostPopularMbti"`
	MBTIDistribution map[string]int64 `json:"mbtiStats"`
}
