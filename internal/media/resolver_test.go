package media

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare domain gets scheme", "example.com", "https://example.com"},
		{"https kept as is", "https://example.com", "https://example.com"},
		{"http kept as is", "http://example.com", "http://example.com"},
		{"empty is no media", "", ""},
		{"whitespace only is no media", "   ", ""},
		{"placeholder stripped", "  example site foo.com ", "https://foo.com"},
		{"placeholder case and spacing", "Example  Sitefoo.com", "https://foo.com"},
		{"placeholder alone is no media", "example site", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Canonicalize(tt.in))
		})
	}
}

func TestClassifyYouTube(t *testing.T) {
	for _, u := range []string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ",
		"https://www.youtube.com/embed/dQw4w9WgXcQ",
		"https://youtube.com/watch?v=dQw4w9WgXcQ&t=42",
	} {
		m := Classify(u)
		assert.Equal(t, KindVideo, m.Kind, u)
		assert.Equal(t, "dQw4w9WgXcQ", m.ID, u)
		assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ", m.EmbedURL, u)
	}
}

func TestClassifyYouTubeRejectsWrongIDLength(t *testing.T) {
	m := Classify("https://www.youtube.com/watch?v=short")
	assert.Equal(t, KindLink, m.Kind)
}

func TestClassifySpotify(t *testing.T) {
	m := Classify("https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC")
	assert.Equal(t, KindAudio, m.Kind)
	assert.Equal(t, "https://open.spotify.com/embed/track/4uLU6hMCjMI75M1A2tKUQC", m.EmbedURL)

	m = Classify("https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M")
	assert.Equal(t, KindAudio, m.Kind)
	assert.Equal(t, "https://open.spotify.com/embed/playlist/37i9dQZF1DXcBWIGoYBM5M", m.EmbedURL)
}

func TestClassifyInstagram(t *testing.T) {
	m := Classify("https://www.instagram.com/p/Cxyz123_aBc/")
	assert.Equal(t, KindSocialPost, m.Kind)
	assert.Equal(t, "Cxyz123_aBc", m.ID)

	m = Classify("https://instagram.com/reel/Cxyz123-aBc")
	assert.Equal(t, KindSocialPost, m.Kind)
	assert.Equal(t, "Cxyz123-aBc", m.ID)
}

func TestClassifyTwitter(t *testing.T) {
	orig := "https://x.com/someone/status/1234567890"
	m := Classify(orig)
	assert.Equal(t, KindMicroPost, m.Kind)
	assert.Equal(t, "https://twitframe.com/show?url="+url.QueryEscape(orig), m.EmbedURL)

	m = Classify("https://twitter.com/someone/status/1234567890")
	assert.Equal(t, KindMicroPost, m.Kind)
}

func TestClassifyPrecedence(t *testing.T) {
	// A URL that matches both the video pattern and a later provider's host
	// must classify as video: rule order is significant.
	m := Classify("https://x.com/watch?v=dQw4w9WgXcQ")
	assert.Equal(t, KindVideo, m.Kind)
	assert.Equal(t, "dQw4w9WgXcQ", m.ID)
}

func TestClassifyGenericFallback(t *testing.T) {
	m := Classify("https://example.com/some/page")
	assert.Equal(t, KindLink, m.Kind)
	assert.Equal(t, "https://example.com/some/page", m.URL)
	assert.Empty(t, m.EmbedURL)
}
