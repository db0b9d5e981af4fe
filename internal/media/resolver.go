// Package media canonicalizes user-typed link input and classifies it into a
// known embeddable provider or a plain external link. Classification never
// fails: anything unrecognized is a generic link.
package media

import (
	"net/url"
	"regexp"
	"strings"
)

// Kind identifies how the presentation layer should render a media URL.
type Kind string

const (
	KindVideo      Kind = "video"
	KindAudio      Kind = "audio"
	KindSocialPost Kind = "social-post"
	KindMicroPost  Kind = "micro-post"
	KindLink       Kind = "link"
)

// Media is the rendering hint derived from a post's media URL.
type Media struct {
	Kind     Kind   `json:"kind"`
	ID       string `json:"id,omitempty"`
	EmbedURL string `json:"embed_url,omitempty"`
	URL      string `json:"url"`
}

var (
	// The link input field is known to occasionally arrive polluted with
	// this placeholder phrase. Stripping it is a targeted cleanup for that
	// upstream defect, not a general sanitizer.
	placeholderRe = regexp.MustCompile(`(?i)example\s*site`)

	schemeRe = regexp.MustCompile(`^https?://`)

	// Standard watch links, short links, embed links and user/channel
	// scoped links all encode an 11-character video id.
	youtubeRe   = regexp.MustCompile(`^.*(youtu\.be/|v/|u/\w/|embed/|watch\?v=|&v=)([^#&?]*).*`)
	spotifyRe   = regexp.MustCompile(`open\.spotify\.com/(track|album|playlist)/([a-zA-Z0-9]+)`)
	instagramRe = regexp.MustCompile(`instagram\.com/(p|reel)/([a-zA-Z0-9_-]+)`)
	twitterRe   = regexp.MustCompile(`(twitter|x)\.com/\w+/status/\d+`)
)

// Canonicalize turns raw link input into a well-formed absolute URL. It trims
// whitespace, strips the known placeholder phrase and prefixes https:// when
// no scheme is present. An empty result means no media is attached.
func Canonicalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	s = strings.TrimSpace(placeholderRe.ReplaceAllString(s, ""))
	if s == "" {
		return ""
	}
	if !schemeRe.MatchString(s) {
		s = "https://" + s
	}
	return s
}

// Classify resolves a URL into a provider classification. Order matters:
// some provider URL shapes can coincidentally be substrings of others, so the
// first match wins.
func Classify(rawURL string) Media {
	if m := youtubeRe.FindStringSubmatch(rawURL); m != nil && len(m[2]) == 11 {
		return Media{
			Kind:     KindVideo,
			ID:       m[2],
			EmbedURL: "https://www.youtube.com/embed/" + m[2],
			URL:      rawURL,
		}
	}

	if m := spotifyRe.FindStringSubmatch(rawURL); m != nil {
		return Media{
			Kind:     KindAudio,
			ID:       m[2],
			EmbedURL: "https://open.spotify.com/embed/" + m[1] + "/" + m[2],
			URL:      rawURL,
		}
	}

	if m := instagramRe.FindStringSubmatch(rawURL); m != nil {
		return Media{
			Kind:     KindSocialPost,
			ID:       m[2],
			EmbedURL: "https://www.instagram.com/p/" + m[2] + "/embed",
			URL:      rawURL,
		}
	}

	// Twitter does not allow direct iframe embedding, so the embed URL goes
	// through the twitframe proxy with the original link as a parameter.
	if twitterRe.MatchString(rawURL) {
		return Media{
			Kind:     KindMicroPost,
			EmbedURL: "https://twitframe.com/show?url=" + url.QueryEscape(rawURL),
			URL:      rawURL,
		}
	}

	return Media{Kind: KindLink, URL: rawURL}
}
