package quiz

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/jinsol-dev/persona-lab/internal/domain"
)

// Placeholder strings for replies that could not be parsed. The visitor sees
// a fully shaped result and is invited to retry.
const (
	placeholderAnalyzing = "분석중"
	placeholderDesc      = "AI 분석 결과를 처리하는 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요."
	placeholderSummary   = "분석 과정에서 오류가 발생했습니다. 다시 시도해주세요."
	placeholderItem      = "분석 진행중"
	placeholderOneLiner  = "분석 진행중입니다"
	placeholderReason    = "분석이 완료되면 가장 비슷한 캐릭터를 추천해드립니다."
	placeholderAdvice    = "다시 분석을 시도해주세요."
)

var fencedJSON = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// ParsedAnalysis is the normalized outcome of a classifier reply. Fallback
// reports that the reply text yielded no usable JSON and every field holds a
// placeholder.
type ParsedAnalysis struct {
	Result   domain.AnalysisResult
	Fallback bool
}

// Wire shapes tolerate both the prompted key set (mbti/dnd/enneagram/
// comprehensive) and the normalized aliases some model revisions emit.
type wireAnalysis struct {
	MBTI          *wireMBTI      `json:"mbti"`
	DND           *wireAlignment `json:"dnd"`
	Alignment     *wireAlignment `json:"alignment"`
	Enneagram     *wireEnneagram `json:"enneagram"`
	Comprehensive *wireSummary   `json:"comprehensive"`
	Summary       *wireSummary   `json:"summary"`
}

type wireMBTI struct {
	Type            string             `json:"type"`
	Percentages     map[string]float64 `json:"percentages"`
	AxisPercentages map[string]float64 `json:"axis_percentages"`
	Description     string             `json:"description"`
}

type wireAlignment struct {
	Alignment   string `json:"alignment"`
	Label       string `json:"label"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

type wireEnneagram struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

type wireSummary struct {
	Summary           string         `json:"summary"`
	Narrative         string         `json:"narrative"`
	Strengths         []string       `json:"strengths"`
	Weaknesses        []string       `json:"weaknesses"`
	GrowthAreas       []string       `json:"growth_areas"`
	SimilarCharacters *wireCharacter `json:"similar_characters"`
	SimilarCharacter  *wireCharacter `json:"similar_character"`
	OneLineSummary    string         `json:"one_line_summary"`
	OneLiner          string         `json:"one_liner"`
	Recommendations   string         `json:"recommendations"`
	Recommendation    string         `json:"recommendation"`
}

type wireCharacter struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Reason string `json:"reason"`
}

// ParseAnalysis turns a raw classifier reply into a fully populated result.
// It tries, in order: the first fenced json block, the whole body, and a
// jsonrepair pass over whichever candidate looked most like JSON. A reply
// that defeats all three yields the placeholder fallback; ParseAnalysis
// never fails.
func ParseAnalysis(reply string) ParsedAnalysis {
	candidate := strings.TrimSpace(reply)
	if m := fencedJSON.FindStringSubmatch(reply); m != nil {
		candidate = m[1]
	}

	var wire wireAnalysis
	if err := json.Unmarshal([]byte(candidate), &wire); err != nil {
		if err := json.Unmarshal([]byte(strings.TrimSpace(reply)), &wire); err != nil {
			repaired, rerr := jsonrepair.JSONRepair(candidate)
			if rerr != nil || json.Unmarshal([]byte(repaired), &wire) != nil {
				return ParsedAnalysis{Result: FallbackResult(), Fallback: true}
			}
		}
	}

	result := wire.normalize()
	if result.MBTI.Type == "" && result.Alignment.Label == "" && result.Enneagram.Type == "" {
		// Valid JSON with none of the expected sections is as useless as
		// no JSON at all.
		return ParsedAnalysis{Result: FallbackResult(), Fallback: true}
	}
	fillDefaults(&result)
	return ParsedAnalysis{Result: result}
}

func (w wireAnalysis) normalize() domain.AnalysisResult {
	var out domain.AnalysisResult

	if m := w.MBTI; m != nil {
		out.MBTI.Type = strings.ToUpper(strings.TrimSpace(m.Type))
		out.MBTI.Description = m.Description
		pct := m.Percentages
		if len(pct) == 0 {
			pct = m.AxisPercentages
		}
		if len(pct) > 0 {
			out.MBTI.AxisPercentages = make(map[string]int, len(pct))
			for k, v := range pct {
				out.MBTI.AxisPercentages[strings.ToUpper(k)] = int(v)
			}
		}
	}

	al := w.Alignment
	if al == nil {
		al = w.DND
	}
	if al != nil {
		label := al.Label
		if label == "" {
			label = al.Alignment
		}
		if label == "" {
			label = al.Type
		}
		out.Alignment.Label = strings.TrimSpace(label)
		out.Alignment.Description = al.Description
	}

	if e := w.Enneagram; e != nil {
		out.Enneagram.Type = strings.TrimSpace(e.Type)
		out.Enneagram.Description = e.Description
	}

	s := w.Summary
	if s == nil {
		s = w.Comprehensive
	}
	if s != nil {
		out.Summary.Narrative = s.Narrative
		if out.Summary.Narrative == "" {
			out.Summary.Narrative = s.Summary
		}
		out.Summary.Strengths = s.Strengths
		out.Summary.Weaknesses = s.Weaknesses
		out.Summary.GrowthAreas = s.GrowthAreas
		out.Summary.OneLiner = s.OneLiner
		if out.Summary.OneLiner == "" {
			out.Summary.OneLiner = s.OneLineSummary
		}
		out.Summary.Recommendation = s.Recommendation
		if out.Summary.Recommendation == "" {
			out.Summary.Recommendation = s.Recommendations
		}
		ch := s.SimilarCharacter
		if ch == nil {
			ch = s.SimilarCharacters
		}
		if ch != nil {
			out.Summary.SimilarCharacter = domain.SimilarCharacter{
				Name:   ch.Name,
				Source: ch.Source,
				Reason: ch.Reason,
			}
		}
	}

	return out
}

// fillDefaults backfills any section the reply omitted so presentation code
// never sees an empty field.
func fillDefaults(r *domain.AnalysisResult) {
	if r.MBTI.Type == "" {
		r.MBTI.Type = placeholderAnalyzing
	}
	if r.MBTI.Description == "" {
		r.MBTI.Description = placeholderDesc
	}
	if r.Alignment.Label == "" {
		r.Alignment.Label = placeholderAnalyzing
	}
	if r.Alignment.Description == "" {
		r.Alignment.Description = placeholderDesc
	}
	if r.Enneagram.Type == "" {
		r.Enneagram.Type = placeholderAnalyzing
	}
	if r.Enneagram.Description == "" {
		r.Enneagram.Description = placeholderDesc
	}
	if r.Summary.Narrative == "" {
		r.Summary.Narrative = placeholderSummary
	}
	if len(r.Summary.Strengths) == 0 {
		r.Summary.Strengths = []string{placeholderItem}
	}
	if len(r.Summary.Weaknesses) == 0 {
		r.Summary.Weaknesses = []string{placeholderItem}
	}
	if len(r.Summary.GrowthAreas) == 0 {
		r.Summary.GrowthAreas = []string{placeholderItem}
	}
	if r.Summary.OneLiner == "" {
		r.Summary.OneLiner = placeholderOneLiner
	}
	if r.Summary.SimilarCharacter.Name == "" {
		r.Summary.SimilarCharacter = domain.SimilarCharacter{
			Name:   placeholderItem,
			Source: placeholderItem,
			Reason: placeholderReason,
		}
	}
	if r.Summary.Recommendation == "" {
		r.Summary.Recommendation = placeholderAdvice
	}
}

// FallbackResult is the fully populated placeholder result used when the
// classifier reply cannot be parsed at all.
func FallbackResult() domain.AnalysisResult {
	var r domain.AnalysisResult
	fillDefaults(&r)
	return r
}
