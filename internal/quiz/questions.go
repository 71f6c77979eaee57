// Package quiz implements the personality-test session flow: question
// progression, snapshot persistence, classifier invocation, response
// normalization, and result presentation.
package quiz

import "github.com/jinsol-dev/persona-lab/internal/domain"

// Questions returns the fixed, ordered question bank. The slice is rebuilt
// per call so callers cannot mutate the bank.
func Questions() []domain.Question {
	qs := make([]domain.Question, len(questionBank))
	copy(qs, questionBank)
	return qs
}

// QuestionCount is the number of questions in a full run.
func QuestionCount() int {
	return len(questionBank)
}

var questionBank = []domain.Question{
	{
		Category: "복합분석",
		Type:     "comprehensive",
		Prompt:   "새로운 직장에 첫 출근하는 날, 당신은 어떻게 하루를 보내고 어떤 첫인상을 남기려고 하나요? 구체적으로 묘사해주세요.",
		Criteria: "MBTI: 먼저 다가가는가(E) vs 관찰 후 접근(I), 구체적 계획(S) vs 전체 분위기 파악(N), 업무 중심(T) vs 관계 중심(F), 체계적 준비(J) vs 상황 대응(P) / D&D: 규칙과 절차 준수(질서) vs 자유로운 적응(혼돈), 타인 도움(선) vs 개인 성과(중립/악) / 에니어그램: 완벽한 모습(1), 도움 되기(2), 인정받기(3), 독특함(4), 관찰(5), 안전 확보(6), 즐거움(7), 주도권(8), 조화(9)",
	},
	{
		Category: "복합분석",
		Type:     "comprehensive",
		Prompt:   "팀 프로젝트에서 의견이 완전히 갈린 상황입니다. 절반은 A안을, 절반은 B안을 주장하고 있습니다. 당신은 어떻게 행동하고 이 상황을 해결하려 하나요?",
		Criteria: "MBTI: 적극적 중재(E) vs 신중한 관찰(I), 실용적 타협(S) vs 창의적 대안(N), 논리적 분석(T) vs 감정적 조화(F), 결정 촉구(J) vs 더 많은 논의(P) / D&D: 규칙/절차대로(질서) vs 유연한 해결(혼돈), 팀 전체 이익(선) vs 효율성 우선(중립) / 에니어그램: 올바른 방향 제시(1), 중재자 역할(2), 성과 중심 해결(3), 창의적 접근(4), 분석 후 제안(5), 신중한 검토(6), 긍정적 분위기(7), 강력한 결정(8), 갈등 회피(9)",
	},
	{
		Category: "복합분석",
		Type:     "comprehensive",
		Prompt:   "당신이 가장 행복하고 만족스러웠던 경험을 떠올려보세요. 그때 무엇을 하고 있었고, 왜 그렇게 만족스러웠는지 자세히 설명해주세요.",
		Criteria: "MBTI: 사람들과 함께(E) vs 혼자만의 시간(I), 구체적 성취(S) vs 의미와 가능성(N), 성과와 효율(T) vs 관계와 조화(F), 계획된 목표 달성(J) vs 즉흥적 경험(P) / D&D: 규칙 안에서의 성취(질서) vs 자유로운 탐험(혼돈), 타인에게 도움(선) vs 개인적 만족(중립) / 에니어그램: 완벽한 완성(1), 누군가 도움(2), 인정과 성공(3), 특별한 경험(4), 깊은 이해(5), 안전한 환경(6), 새로운 즐거움(7), 통제와 성취(8), 평화로운 조화(9)",
	},
	{
		Category: "복합분석",
		Type:     "comprehensive",
		Prompt:   "중요한 결정을 내려야 하는 상황에서 시간이 촉박합니다. 충분한 정보가 없고 주변에서는 서로 다른 조언을 해줍니다. 이럴 때 당신은 어떻게 결정을 내리나요?",
		Criteria: "MBTI: 타인과 상의(E) vs 혼자 고민(I), 기존 경험과 사실(S) vs 직감과 가능성(N), 논리적 분석(T) vs 가치와 감정(F), 빠른 결정(J) vs 더 많은 정보 수집(P) / D&D: 원칙과 규칙 준수(질서) vs 상황에 맞는 유연성(혼돈), 타인 영향 고려(선) vs 개인 이익 우선(중립/악) / 에니어그램: 올바른 선택 추구(1), 타인 의견 수용(2), 성공 가능성 중시(3), 진정성 있는 선택(4), 신중한 분석(5), 안전한 선택(6), 긍정적 결과 기대(7), 주도적 결정(8), 갈등 최소화(9)",
	},
	{
		Category: "복합분석",
		Type:     "comprehensive",
		Prompt:   "당신의 친한 친구가 도덕적으로 문제가 있는 일을 하려고 합니다. 말려도 듣지 않고 오히려 당신에게 도움을 요청합니다. 어떻게 반응하시겠습니까?",
		Criteria: "MBTI: 적극적 개입(E) vs 거리 두기(I), 구체적 결과 경고(S) vs 원칙적 설득(N), 논리적 반박(T) vs 감정적 호소(F), 명확한 거절(J) vs 상황 지켜보기(P) / D&D: 도덕적 원칙 고수(질서선) vs 친구 관계 우선(혼돈중립) vs 자신의 이익 고려(악) / 에니어그램: 올바름 추구(1), 친구 구하기(2), 관계 유지 vs 평판(3), 진정성 있는 관계(4), 거리 두고 관찰(5), 위험 회피(6), 문제 회피(7), 단호한 거절(8), 갈등 피하기(9)",
	},
	{
		Category: "복합분석",
		Type:     "comprehensive",
		Prompt:   "큰 실패를 경험한 후 당신은 어떻게 반응하고 회복하는 편인가요? 그 과정에서 가장 중요하게 생각하는 것은 무엇인가요?",
		Criteria: "MBTI: 타인과 이야기(E) vs 혼자 정리(I), 구체적 원인 분석(S) vs 의미 찾기(N), 객관적 평가(T) vs 감정적 치유(F), 체계적 회복 계획(J) vs 자연스러운 회복(P) / D&D: 원칙적 성찰(질서) vs 유연한 적응(혼돈), 타인에게 미안함(선) vs 개인적 성장 중심(중립) / 에니어그램: 완벽을 위한 개선(1), 타인의 위로(2), 재기를 통한 성공(3), 실패의 깊은 의미(4), 원인의 철저한 분석(5), 안전망 구축(6), 새로운 기회 찾기(7), 더 강한 의지(8), 평온한 수용(9)",
	},
	{
		Category: "복합분석",
		Type:     "comprehensive",
		Prompt:   "리더 역할을 맡게 되었을 때, 당신만의 리더십 스타일은 어떤 모습인가요? 팀원들과는 어떻게 소통하고 어떤 분위기를 만들려고 하나요?",
		Criteria: "MBTI: 적극적 소통(E) vs 필요시 소통(I), 실무 중심(S) vs 비전 중심(N), 성과 중심(T) vs 관계 중심(F), 체계적 관리(J) vs 유연한 관리(P) / D&D: 공정한 규칙(질서) vs 상황별 대응(혼돈), 팀 전체 이익(선) vs 효율성 우선(중립) / 에니어그램: 완벽한 시스템(1), 팀원 돌봄(2), 성과 달성(3), 창의적 환경(4), 전문성 기반(5), 안정적 운영(6), 즐거운 분위기(7), 강력한 추진력(8), 조화로운 팀(9)",
	},
	{
		Category: "복합분석",
		Type:     "comprehensive",
		Prompt:   "당신이 가장 화가 나거나 스트레스를 받는 상황은 언제이며, 그럴 때 어떻게 대처하나요? 주변 사람들은 당신의 이런 모습을 어떻게 볼 것 같나요?",
		Criteria: "MBTI: 외부 표출(E) vs 내재화(I), 구체적 문제 해결(S) vs 의미 부여(N), 논리적 해결(T) vs 감정적 해소(F), 체계적 대응(J) vs 즉흥적 대응(P) / D&D: 원칙적 분노(질서) vs 자유로운 해소(혼돈), 타인 배려(선) vs 자기중심적 해소(악) / 에니어그램: 불완전함에 화남(1), 무시받을 때(2), 실패 두려움(3), 이해받지 못함(4), 침범당함(5), 불안정함(6), 제약받음(7), 통제당함(8), 갈등 상황(9)",
	},
	{
		Category: "복합분석",
		Type:     "comprehensive",
		Prompt:   "10년 후 당신이 되고 싶은 모습은 어떤가요? 그 목표를 위해 지금 가장 중요하게 생각하는 것과 실제로 하고 있는 노력은 무엇인가요?",
		Criteria: "MBTI: 사회적 역할(E) vs 개인적 성취(I), 구체적 목표(S) vs 추상적 비전(N), 성과 지향(T) vs 가치 실현(F), 체계적 계획(J) vs 유연한 적응(P) / D&D: 사회적 기여(질서선) vs 개인적 자유(혼돈중립) / 에니어그램: 완벽한 삶(1), 사랑받는 사람(2), 성공한 사람(3), 특별한 사람(4), 지혜로운 사람(5), 안전한 삶(6), 풍요로운 경험(7), 강력한 영향력(8), 평화로운 삶(9)",
	},
	{
		Category: "복합분석",
		Type:     "comprehensive",
		Prompt:   "새로운 환경이나 변화가 있을 때 당신의 적응 과정은 어떤가요? 변화를 대하는 당신만의 방식이 있다면 설명해주세요.",
		Criteria: "MBTI: 적극적 탐색(E) vs 신중한 적응(I), 단계적 적응(S) vs 전체적 파악(N), 효율적 적응(T) vs 감정적 적응(F), 계획적 준비(J) vs 즉흥적 대응(P) / D&D: 기존 규칙 활용(질서) vs 새로운 방식 시도(혼돈), 타인과 함께 적응(선) vs 개인적 적응(중립) / 에니어그램: 완벽한 적응(1), 도움 받으며 적응(2), 빠른 성과(3), 독특한 방식(4), 충분한 이해 후 적응(5), 안전 확보 후 적응(6), 즐거운 탐험(7), 주도적 적응(8), 점진적 적응(9)",
	},
	{
		Category: "복합분석",
		Type:     "comprehensive",
		Prompt:   "당신에게 정의란 무엇이며, 불의를 목격했을 때 어떻게 행동하나요? 구체적인 상황을 가정해서 설명해주세요.",
		Criteria: "MBTI: 적극적 개입(E) vs 신중한 접근(I), 현실적 해결(S) vs 원칙적 접근(N), 합리적 판단(T) vs 감정적 판단(F), 즉시 행동(J) vs 상황 관찰(P) / D&D: 법적 해결(질서선) vs 직접 해결(혼돈선) vs 개입 안함(중립) vs 이용(악) / 에니어그램: 옳은 일 추구(1), 약자 보호(2), 공정한 성과(3), 진정한 정의(4), 객관적 분석(5), 안전한 방법(6), 밝은 해결(7), 강력한 대응(8), 평화로운 해결(9)",
	},
	{
		Category: "복합분석",
		Type:     "comprehensive",
		Prompt:   "인생에서 가장 소중하게 여기는 가치나 신념이 있다면 무엇인가요? 그것이 당신의 일상적인 선택과 행동에 어떻게 영향을 미치나요?",
		Criteria: "MBTI: 사회적 가치(E) vs 개인적 신념(I), 실용적 가치(S) vs 이상적 가치(N), 원칙과 일관성(T) vs 관계와 조화(F), 확고한 실행(J) vs 유연한 적용(P) / D&D: 사회적 규범(질서) vs 개인적 자유(혼돈), 타인 배려(선) vs 개인 추구(중립/악) / 에니어그램: 완벽함(1), 사랑과 헌신(2), 성취와 성공(3), 진정성과 독특함(4), 지식과 이해(5), 안전과 충성(6), 즐거움과 자유(7), 힘과 자율성(8), 평화와 조화(9)",
	},
	{
		Category: "복합분석",
		Type:     "comprehensive",
		Prompt:   "깊은 고민이나 갈등이 있을 때, 당신은 누구에게 어떤 방식으로 도움을 요청하나요? 혹은 혼자 해결하는 편인가요? 그 이유는 무엇인가요?",
		Criteria: "MBTI: 적극적 상의(E) vs 혼자 해결(I), 경험자 조언(S) vs 새로운 관점(N), 논리적 조언(T) vs 감정적 지지(F), 결론 지향(J) vs 과정 중심(P) / D&D: 공식적 도움(질서) vs 비공식적 도움(혼돈), 타인 부담 고려(선) vs 자신 필요 우선(중립) / 에니어그램: 완벽한 해답 추구(1), 정서적 지지(2), 성공한 사람 조언(3), 이해받고 싶음(4), 전문가 조언(5), 신뢰할 수 있는 사람(6), 긍정적 관점(7), 독립적 해결(8), 갈등 회피(9)",
	},
	{
		Category: "복합분석",
		Type:     "comprehensive",
		Prompt:   "당신만의 행복이나 만족감을 찾는 방법은 무엇인가요? 어떤 순간에 \"아, 정말 살아있다는 느낌이다\"라고 생각하시나요?",
		Criteria: "MBTI: 사회적 연결(E) vs 개인적 성취(I), 감각적 경험(S) vs 의미 있는 경험(N), 성취와 인정(T) vs 사랑과 조화(F), 목표 달성(J) vs 자유로운 탐험(P) / D&D: 질서 안에서의 만족(질서) vs 자유로운 즐거움(혼돈), 타인과 함께(선) vs 개인적 만족(중립) / 에니어그램: 완벽한 순간(1), 사랑받는 순간(2), 성공의 순간(3), 특별한 순간(4), 이해의 순간(5), 안전한 순간(6), 즐거운 순간(7), 통제하는 순간(8), 평화로운 순간(9)",
	},
	{
		Category: "복합분석",
		Type:     "comprehensive",
		Prompt:   "당신이 다른 사람들에게 어떻게 기억되고 싶은가요? 그리고 실제로 주변 사람들이 당신을 어떤 사람이라고 묘사할 것 같나요? 차이가 있다면 그 이유는 무엇일까요?",
		Criteria: "MBTI: 사회적 영향력(E) vs 개인적 진정성(I), 실용적 기여(S) vs 의미 있는 유산(N), 능력과 성과(T) vs 인간성과 따뜻함(F), 일관된 모습(J) vs 다면적 모습(P) / D&D: 모범적 인물(질서선) vs 자유로운 영혼(혼돈중립) / 에니어그램: 완벽한 사람(1), 헌신적인 사람(2), 성공한 사람(3), 특별한 사람(4), 지혜로운 사람(5), 신뢰할 수 있는 사람(6), 즐거운 사람(7), 강한 사람(8), 평화로운 사람(9)",
	},
}
