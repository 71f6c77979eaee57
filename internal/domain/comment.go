package domain

import "time"

// Comment is a visitor comment attached to a test result.
type Comment struct {
	CommentID int64     `json:"comment_id"`
	ResultID  string    `json:"result_id"`
	MBTIType  string    `json:"mbti_type"`
	Nickname  string    `json:"nickname"`
	Body      string    `json:"comment"`
	VisitorID string    `json:"-"`
	UserIP    string    `json:"-"`
	LikeCount int       `json:"like_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
