// Package share builds platform share payloads for test results and owns
// which platforms are accepted by the share log.
package share

import (
	"fmt"
	"math/rand"
	"net/url"
	"strings"
)

// Platforms accepted by the share log.
var supportedPlatforms = map[string]bool{
	"kakao":     true,
	"facebook":  true,
	"twitter":   true,
	"instagram": true,
	"line":      true,
	"telegram":  true,
	"whatsapp":  true,
	"link":      true,
}

// IsSupportedPlatform reports whether the platform name is accepted.
// The check is case-insensitive.
func IsSupportedPlatform(platform string) bool {
	return supportedPlatforms[strings.ToLower(platform)]
}

// KakaoPayload is the data a Kakao share card needs on the client side.
type KakaoPayload struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	ImageURL     string `json:"imageUrl"`
	WebURL       string `json:"webUrl"`
	MobileWebURL string `json:"mobileWebUrl"`
}

// Kakao builds the Kakao share card payload for a result.
func Kakao(baseURL, resultID, mbtiType string) KakaoPayload {
	resultURL := resultURL(baseURL, resultID)
	return KakaoPayload{
		Title:        fmt.Sprintf("[MBTI 테스트 결과] 나는 %s!", mbtiType),
		Description:  "정확한 MBTI 성격 테스트로 나의 진짜 성격을 알아보세요! 당신도 테스트해보세요 🔥",
		ImageURL:     strings.TrimSuffix(baseURL, "/") + "/images/mbti-" + strings.ToLower(mbtiType) + ".jpg",
		WebURL:       resultURL,
		MobileWebURL: resultURL,
	}
}

// Facebook builds the sharer URL for a result.
func Facebook(baseURL, resultID string) string {
	return "https://www.facebook.com/sharer/sharer.php?u=" +
		url.QueryEscape(resultURL(baseURL, resultID))
}

// Twitter builds the tweet intent URL for a result.
func Twitter(baseURL, resultID, mbtiType string) string {
	text := fmt.Sprintf("나의 MBTI는 %s! 🔥 정확한 성격 테스트 해보세요 👉", mbtiType)
	hashtags := "MBTI,성격테스트," + mbtiType
	return "https://twitter.com/intent/tweet?" +
		"text=" + url.QueryEscape(text) +
		"&url=" + url.QueryEscape(resultURL(baseURL, resultID)) +
		"&hashtags=" + url.QueryEscape(hashtags)
}

// Instagram picks a story caption for a result. Instagram has no share URL;
// the client copies the text alongside a screenshot.
func Instagram(mbtiType string) string {
	templates := []string{
		fmt.Sprintf("나의 MBTI는 %s! 🔥\n당신도 테스트해보세요! 💫", mbtiType),
		fmt.Sprintf("MBTI 테스트 결과: %s ✨\n정말 정확해요! 😍", mbtiType),
		fmt.Sprintf("%s 성격이 나왔어요! 🌟\n친구들도 해봐요! 🤗", mbtiType),
	}
	return templates[rand.Intn(len(templates))]
}

// Link builds the copyable share link, tagged so arrivals count as shared
// traffic.
func Link(baseURL, resultID string) string {
	return resultURL(baseURL, resultID) + "?shared=true"
}

func resultURL(baseURL, resultID string) string {
	return strings.TrimSuffix(baseURL, "/") + "/result/" + resultID
}
