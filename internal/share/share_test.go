package share

import (
	"strings"
	"testing"
)

func TestIsSupportedPlatform(t *testing.T) {
	for _, p := range []string{"kakao", "Facebook", "TWITTER", "instagram", "line", "telegram", "whatsapp", "link"} {
		if !IsSupportedPlatform(p) {
			t.Errorf("platform %q rejected", p)
		}
	}
	for _, p := range []string{"", "myspace", "kakao "} {
		if IsSupportedPlatform(p) {
			t.Errorf("platform %q accepted", p)
		}
	}
}

func TestKakaoPayload(t *testing.T) {
	p := Kakao("https://persona.example/", "r-1", "INTJ")
	if p.WebURL != "https://persona.example/result/r-1" {
		t.Errorf("web url = %q", p.WebURL)
	}
	if p.WebURL != p.MobileWebURL {
		t.Error("web and mobile urls differ")
	}
	if !strings.Contains(p.Title, "INTJ") {
		t.Errorf("title = %q", p.Title)
	}
	if !strings.HasSuffix(p.ImageURL, "/images/mbti-intj.jpg") {
		t.Errorf("image url = %q", p.ImageURL)
	}
}

func TestShareURLsEscapeResultURL(t *testing.T) {
	fb := Facebook("https://persona.example", "r-1")
	if !strings.Contains(fb, "facebook.com/sharer") || strings.Contains(fb, "persona.example/result") {
		t.Errorf("facebook url not escaped: %q", fb)
	}

	tw := Twitter("https://persona.example", "r-1", "ENFP")
	if !strings.Contains(tw, "twitter.com/intent/tweet") {
		t.Errorf("twitter url = %q", tw)
	}
	if !strings.Contains(tw, "hashtags=") {
		t.Error("twitter url missing hashtags")
	}
}

func TestLinkCarriesSharedMarker(t *testing.T) {
	if got := Link("https://persona.example/", "r-9"); got != "https://persona.example/result/r-9?shared=true" {
		t.Errorf("link = %q", got)
	}
}

func TestInstagramMentionsType(t *testing.T) {
	for i := 0; i < 10; i++ {
		if !strings.Contains(Instagram("ISFP"), "ISFP") {
			t.Fatal("caption missing the MBTI type")
		}
	}
}
