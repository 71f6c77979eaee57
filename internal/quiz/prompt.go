package quiz

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/jinsol-dev/persona-lab/internal/domain"
)

const promptHeader = `당신은 전문적인 성격 분석 AI입니다. 사용자의 답변을 바탕으로 MBTI, D&D 성향, 에니어그램을 정확하고 자세하게 분석해주세요.

### 분석 대상 답변:
`

const promptFooter = `
### 분석 요구사항:
1. **MBTI**: E/I, S/N, T/F, J/P 차원 분석하여 4글자 조합 도출
   - 각 차원별 퍼센트도 함께 제공 (합이 100%가 되도록, 예: E 30% + I 70% = 100%)
2. **D&D 성향**: 질서-혼돈, 선-악 축 분석하여 9가지 중 선택
3. **에니어그램**: 1-9번 유형 중 선택, 가능하면 날개(w) 포함

### 응답 형식 (반드시 JSON으로):
` + "```json" + `
{
  "mbti": {
    "type": "MBTI타입",
    "percentages": {
      "E": 30,
      "I": 70,
      "S": 25,
      "N": 75,
      "T": 80,
      "F": 20,
      "J": 35,
      "P": 65
    },
    "description": "상세한 설명 (5-6문장)"
  },
  "dnd": {
    "alignment": "성향명",
    "description": "상세한 설명 (5-6문장)"
  },
  "enneagram": {
    "type": "유형",
    "description": "상세한 설명 (5-6문장)"
  },
  "comprehensive": {
    "summary": "종합 분석 (8-10문장)",
    "strengths": ["강점 5-6개"],
    "weaknesses": ["단점 4-5개"],
    "growth_areas": ["성장영역 5-6개"],
    "one_line_summary": "한 줄 핵심 정체성",
    "similar_characters": {
      "name": "캐릭터명",
      "source": "작품명",
      "reason": "유사성 설명 (3-4문장)"
    },
    "recommendations": "맞춤 조언 (5-6문장)"
  }
}
` + "```" + `

사용자의 답변 패턴을 종합적으로 분석하여 정확하고 개인화된 결과를 제공해주세요.

**중요: similar_characters는 반드시 애니메이션, 만화, 게임 캐릭터만 선택하세요. 실사 드라마, 영화, 소설 캐릭터는 제외합니다.**
`

// BuildPrompt renders the full analysis prompt from the question bank and the
// visitor's answers, numbered in question order. Missing answers render empty
// rather than shifting the numbering.
func BuildPrompt(questions []domain.Question, answers map[int]string) string {
	var b strings.Builder
	b.WriteString(promptHeader)
	for i, q := range questions {
		fmt.Fprintf(&b, "\n**질문 %d:** %s\n", i+1, q.Prompt)
		if q.Criteria != "" {
			fmt.Fprintf(&b, "**평가 기준:** %s\n", q.Criteria)
		}
		fmt.Fprintf(&b, "**답변:** %s\n", answers[i])
	}
	b.WriteString(promptFooter)
	return b.String()
}

// EstimateDuration invents a plausible test duration in seconds for records
// that predate server-side timing. Between 3 and 8 minutes.
func EstimateDuration() int {
	return rand.Intn(300) + 180
}

// PlaceholderScores returns the neutral axis scores reported before the
// classifier supplies real percentages.
func PlaceholderScores() map[string]int {
	return map[string]int{
		"E": 60, "I": 40,
		"S": 35, "N": 65,
		"T": 45, "F": 55,
		"J": 30, "P": 70,
	}
}
