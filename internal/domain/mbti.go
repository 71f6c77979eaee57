package domain

import "strings"

// AxisLetters are the eight MBTI axis letters a percentage map must cover.
var AxisLetters = []string{"E", "I", "S", "N", "T", "F", "J", "P"}

// AxisPairs groups the letters into their four opposing dimensions.
var AxisPairs = [4][2]string{{"E", "I"}, {"S", "N"}, {"T", "F"}, {"J", "P"}}

// MBTITypeInfo is static display metadata for one of the 16 MBTI types.
type MBTITypeInfo struct {
	Name        string
	Description string
	Color       string
}

var mbtiTypeInfos = map[string]MBTITypeInfo{
	"ENFP": {"재기발랄한 활동가", "열정적이고 창의적인 성격으로 항상 새로운 가능성을 보는 사람", "#FF6B6B"},
	"ENFJ": {"정의로운 사회운동가", "카리스마 있고 영감을 주는 지도자", "#4ECDC4"},
	"ENTP": {"뜨거운 토론가", "똑똑하고 호기심 많은 사상가", "#FFB84D"},
	"ENTJ": {"대담한 통솔자", "천성적인 지도자로 목표 달성에 집중", "#845EC2"},
	"ESFP": {"자유로운 영혼의 연예인", "즉흥적이고 열정적인 연예인", "#FF9671"},
	"ESFJ": {"사교적인 외교관", "인기있고 인정받는, 사람들을 돌보는 성격", "#FFC75F"},
	"ESTP": {"모험을 즐기는 사업가", "현재 순간을 즐기는 행동파", "#F9F871"},
	"ESTJ": {"엄격한 관리자", "전통과 질서를 중시하는 관리자", "#2C73D2"},
	"INFP": {"열정적인 중재자", "이상주의적이고 충성스러운 성격", "#B39CD0"},
	"INFJ": {"선의의 옹호자", "조용하지만 의지가 강한 이상주의자", "#00C9A7"},
	"INTP": {"논리적인 사색가", "혁신적인 발명가로 지식에 목마른 성격", "#0081CF"},
	"INTJ": {"용의주도한 전략가", "상상력이 풍부하고 결단력 있는 성격", "#4B4453"},
	"ISFP": {"호기심 많은 예술가", "유연하고 매력적인 예술가", "#D65DB1"},
	"ISFJ": {"용감한 수호자", "따뜻하고 헌신적인 수호자", "#008F7A"},
	"ISTP": {"만능 재주꾼", "대담하고 실용적인 실험정신의 소유자", "#C34A36"},
	"ISTJ": {"청렴결백한 논리주의자", "사실과 신뢰성을 중시하는 실용주의자", "#926C00"},
}

// IsValidMBTIType reports whether s is one of the 16 four-letter codes.
// The check is case-insensitive.
func IsValidMBTIType(s string) bool {
	if len(s) != 4 {
		return false
	}
	upper := strings.ToUpper(s)
	_, ok := mbtiTypeInfos[upper]
	return ok
}

// MBTIInfo returns display metadata for an MBTI type code.
// Unknown codes get a neutral placeholder entry.
func MBTIInfo(mbtiType string) MBTITypeInfo {
	if info, ok := mbtiTypeInfos[strings.ToUpper(mbtiType)]; ok {
		return info
	}
	return MBTITypeInfo{
		Name:        "알 수 없음",
		Description: "알 수 없는 MBTI 타입입니다.",
		Color:       "#888888",
	}
}

// MBTITypes returns the 16 known type codes in stable order.
func MBTITypes() []string {
	return []string{
		"ENFP", "ENFJ", "ENTP", "ENTJ", "ESFP", "ESFJ", "ESTP", "ESTJ",
		"INFP", "INFJ", "INTP", "INTJ", "ISFP", "ISFJ", "ISTP", "ISTJ",
	}
}

// MBTITypeFromScores derives a four-letter code from per-axis percentages,
// taking the dominant letter of each axis pair. Ties fall to the first letter.
func MBTITypeFromScores(scores map[string]int) string {
	pick := func(a, b string) string {
		if scores[b] > scores[a] {
			return b
		}
		return a
	}
	return pick("E", "I") + pick("S", "N") + pick("T", "F") + pick("J", "P")
}
