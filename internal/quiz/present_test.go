package quiz

import (
	"strings"
	"testing"

	"github.com/jinsol-dev/persona-lab/internal/domain"
)

func TestPresentResultAxisBars(t *testing.T) {
	r := &domain.AnalysisResult{
		MBTI: domain.MBTIResult{
			Type:            "INTJ",
			AxisPercentages: map[string]int{"E": 20, "I": 80, "N": 70},
		},
	}
	view := PresentResult(r)

	if len(view.MBTI.Axes) != 4 {
		t.Fatalf("axes = %d, want 4", len(view.MBTI.Axes))
	}
	ei := view.MBTI.Axes[0]
	if ei.LeftPercent != 20 || ei.RightPercent != 80 {
		t.Errorf("E/I = %d/%d, want 20/80", ei.LeftPercent, ei.RightPercent)
	}
	// Only N given: S is derived as the complement.
	sn := view.MBTI.Axes[1]
	if sn.LeftPercent != 30 || sn.RightPercent != 70 {
		t.Errorf("S/N = %d/%d, want 30/70", sn.LeftPercent, sn.RightPercent)
	}
	// Neither T/F nor J/P given: even split.
	for _, i := range []int{2, 3} {
		bar := view.MBTI.Axes[i]
		if bar.LeftPercent != 50 || bar.RightPercent != 50 {
			t.Errorf("%s/%s = %d/%d, want 50/50", bar.Left, bar.Right, bar.LeftPercent, bar.RightPercent)
		}
	}

	if view.MBTI.Name != "용의주도한 전략가" {
		t.Errorf("display name = %q", view.MBTI.Name)
	}
	if view.MBTI.Color == "" {
		t.Error("display color missing")
	}
}

func TestPresentResultEscapesClassifierText(t *testing.T) {
	r := &domain.AnalysisResult{
		MBTI: domain.MBTIResult{
			Type:        "ENFP",
			Description: `<script>alert("x")</script>`,
		},
		Summary: domain.SummaryResult{
			Strengths: []string{"<b>대담함</b>"},
		},
	}
	view := PresentResult(r)

	if strings.Contains(view.MBTI.Description, "<script>") {
		t.Error("description not escaped")
	}
	if !strings.Contains(view.MBTI.Description, "&lt;script&gt;") {
		t.Errorf("description = %q", view.MBTI.Description)
	}
	if strings.Contains(view.Summary.Strengths[0], "<b>") {
		t.Error("strengths not escaped")
	}
}

func TestPresentResultUnknownType(t *testing.T) {
	r := &domain.AnalysisResult{MBTI: domain.MBTIResult{Type: "분석중"}}
	view := PresentResult(r)
	if view.MBTI.Name != "알 수 없음" {
		t.Errorf("unknown type name = %q", view.MBTI.Name)
	}
}

func TestPresentError(t *testing.T) {
	view := PresentError(`서버 오류 <500>`)
	if !view.CanRetry || !view.CanRestart {
		t.Error("error view must offer retry and restart")
	}
	if strings.Contains(view.Message, "<500>") {
		t.Errorf("message not escaped: %q", view.Message)
	}
}

func TestPresentAnswers(t *testing.T) {
	entries := []AnswerEntry{{Index: 0, Question: "질문?", Answer: "<i>답</i>"}}
	out := PresentAnswers(entries)
	if strings.Contains(out[0].Answer, "<i>") {
		t.Error("answer not escaped")
	}
	if out[0].Question != "질문?" {
		t.Errorf("question = %q", out[0].Question)
	}
}
