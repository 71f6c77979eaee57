package domain

import (
	"time"
)

// MBTIResult is the four-axis typology block of an analysis.
type MBTIResult struct {
	Type            string         `json:"type"`
	AxisPercentages map[string]int `json:"axisPercentages"`
	Description     string         `json:"description"`
}

// AlignmentResult is the order/morality axis block ("D&D" dimension).
type AlignmentResult struct {
	Label       string `json:"label"`
	Description string `json:"description"`
}

// EnneagramResult is the nine-type block, optionally with a wing.
type EnneagramResult struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// SimilarCharacter names a fictional character resembling the subject.
type SimilarCharacter struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Reason string `json:"reason"`
}

// SummaryResult is the comprehensive free-text block of an analysis.
type SummaryResult struct {
	Narrative        string           `json:"narrative"`
	Strengths        []string         `json:"strengths"`
	Weaknesses       []string         `json:"weaknesses"`
	GrowthAreas      []string         `json:"growthAreas"`
	OneLiner         string           `json:"oneLiner"`
	SimilarCharacter SimilarCharacter `json:"similarCharacter"`
	Recommendation   string           `json:"recommendation"`
}

// AnalysisResult is the normalized classification outcome. Every field is
// populated after normalization; consumers never need to branch on absence.
type AnalysisResult struct {
	MBTI      MBTIResult      `json:"mbti"`
	Alignment AlignmentResult `json:"alignment"`
	Enneagram EnneagramResult `json:"enneagram"`
	Summary   SummaryResult   `json:"summary"`
}

// TestResult is a persisted, shareable analysis record.
type TestResult struct {
	ResultID        string    `json:"result_id"`
	VisitorID       string    `json:"visitor_id"`
	UserIP          string    `json:"-"`
	UserAgent       string    `json:"-"`
	MBTIType        string    `json:"mbti_type"`
	MBTIDescription string    `json:"mbti_description"`
	MBTIColor       string    `json:"mbti_color"`
	CategoryScores  string    `json:"category_scores"` // JSON blob
	AnswerData      string    `json:"answer_data"`     // JSON blob
	AIAnalysis      string    `json:"ai_analysis"`     // raw classifier text
	TestDuration    int       `json:"test_duration"`
	ViewCount       int       `json:"view_count"`
	SharedCount     int       `json:"shared_count"`
	Public          bool      `json:"is_public"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// OwnedBy reports whether the result belongs to the given visitor.
func (r *TestResult) OwnedBy(visitorID string) bool {
	return r.VisitorID != "" && r.VisitorID == visitorID
}
