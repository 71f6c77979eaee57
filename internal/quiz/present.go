package quiz

import (
	"html"

	"github.com/jinsol-dev/persona-lab/internal/domain"
)

// View models for the result screens. All free text coming out of the
// classifier is HTML-escaped here, once, so templates and the SPA can inject
// it without further treatment.

// AxisBar is one MBTI dimension rendered as an opposing pair.
type AxisBar struct {
	Left         string `json:"left"`
	Right        string `json:"right"`
	LeftPercent  int    `json:"leftPercent"`
	RightPercent int    `json:"rightPercent"`
}

type MBTIView struct {
	Type        string    `json:"type"`
	Name        string    `json:"name"`
	Color       string    `json:"color"`
	Axes        []AxisBar `json:"axes"`
	Description string    `json:"description"`
}

type SectionView struct {
	Label       string `json:"label"`
	Description string `json:"description"`
}

type CharacterView struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Reason string `json:"reason"`
}

type SummaryView struct {
	Narrative        string        `json:"narrative"`
	Strengths        []string      `json:"strengths"`
	Weaknesses       []string      `json:"weaknesses"`
	GrowthAreas      []string      `json:"growthAreas"`
	OneLiner         string        `json:"oneLiner"`
	SimilarCharacter CharacterView `json:"similarCharacter"`
	Recommendation   string        `json:"recommendation"`
}

// ResultView is the complete, escaped rendering of one analysis.
type ResultView struct {
	MBTI      MBTIView    `json:"mbti"`
	Alignment SectionView `json:"alignment"`
	Enneagram SectionView `json:"enneagram"`
	Summary   SummaryView `json:"summary"`
}

// ErrorView is shown on a failed analysis. Retry keeps the collected
// answers; Restart discards them.
type ErrorView struct {
	Message    string `json:"message"`
	CanRetry   bool   `json:"canRetry"`
	CanRestart bool   `json:"canRestart"`
}

// PresentResult builds the escaped view of an analysis result. Axis pairs
// missing from the result render as an even 50/50 split.
func PresentResult(r *domain.AnalysisResult) ResultView {
	info := domain.MBTIInfo(r.MBTI.Type)

	axes := make([]AxisBar, 0, len(domain.AxisPairs))
	for _, pair := range domain.AxisPairs {
		left, right := pair[0], pair[1]
		lp, lok := r.MBTI.AxisPercentages[left]
		rp, rok := r.MBTI.AxisPercentages[right]
		switch {
		case lok && !rok:
			rp = 100 - lp
		case rok && !lok:
			lp = 100 - rp
		case !lok && !rok:
			lp, rp = 50, 50
		}
		axes = append(axes, AxisBar{Left: left, Right: right, LeftPercent: lp, RightPercent: rp})
	}

	return ResultView{
		MBTI: MBTIView{
			Type:        html.EscapeString(r.MBTI.Type),
			Name:        html.EscapeString(info.Name),
			Color:       info.Color,
			Axes:        axes,
			Description: html.EscapeString(r.MBTI.Description),
		},
		Alignment: SectionView{
			Label:       html.EscapeString(r.Alignment.Label),
			Description: html.EscapeString(r.Alignment.Description),
		},
		Enneagram: SectionView{
			Label:       html.EscapeString(r.Enneagram.Type),
			Description: html.EscapeString(r.Enneagram.Description),
		},
		Summary: SummaryView{
			Narrative:   html.EscapeString(r.Summary.Narrative),
			Strengths:   escapeAll(r.Summary.Strengths),
			Weaknesses:  escapeAll(r.Summary.Weaknesses),
			GrowthAreas: escapeAll(r.Summary.GrowthAreas),
			OneLiner:    html.EscapeString(r.Summary.OneLiner),
			SimilarCharacter: CharacterView{
				Name:   html.EscapeString(r.Summary.SimilarCharacter.Name),
				Source: html.EscapeString(r.Summary.SimilarCharacter.Source),
				Reason: html.EscapeString(r.Summary.SimilarCharacter.Reason),
			},
			Recommendation: html.EscapeString(r.Summary.Recommendation),
		},
	}
}

// PresentError builds the failed-analysis view. The message is escaped; the
// visitor may retry with answers intact or start over.
func PresentError(message string) ErrorView {
	return ErrorView{
		Message:    html.EscapeString(message),
		CanRetry:   true,
		CanRestart: true,
	}
}

// PresentAnswers escapes an answer sheet for display.
func PresentAnswers(entries []AnswerEntry) []AnswerEntry {
	out := make([]AnswerEntry, len(entries))
	for i, e := range entries {
		out[i] = AnswerEntry{
			Index:    e.Index,
			Question: html.EscapeString(e.Question),
			Answer:   html.EscapeString(e.Answer),
		}
	}
	return out
}

func escapeAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = html.EscapeString(s)
	}
	return out
}
