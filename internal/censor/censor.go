// Package censor masks offensive terms in user-submitted text before it is stored.
package censor

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// denylist of offensive terms, Turkish and English mixed. Conjugated Turkish
// forms are caught by the substring rule below, multi-word phrases are not
// detected at all (tokenization is whitespace-only).
var denylist = []string{
	// Turkish
	"amk", "aq", "sik", "sikim", "sikerim", "yarrak", "yarak", "oç", "pic", "piç",
	"göt", "orosbu", "orospu", "kahpe", "yavşak", "amcık", "ananı", "bacını", "sürtük",
	"ibne", "gavat", "kaltak", "kaşar", "skm", "amq", "sie",

	// English
	"fuck", "shit", "bitch", "asshole", "cunt", "dick", "bastard", "whore", "slut",
	"fucking", "motherfucker", "cock", "pussy",
}

// nonLetter strips everything outside the Latin + Turkish letter set.
var nonLetter = regexp.MustCompile(`[^a-zğüşıöç]`)

// cleanForm lowercases a token and removes digits, punctuation and symbols.
// Used only for matching, never for display.
func cleanForm(token string) string {
	return nonLetter.ReplaceAllString(strings.ToLower(token), "")
}

// isDenied matches the clean form against the denylist. Entries shorter than
// four runes must match exactly, longer entries match as substrings so that
// suffixed forms are still caught.
func isDenied(clean string) bool {
	if clean == "" {
		return false
	}
	for _, bad := range denylist {
		if utf8.RuneCountInString(bad) < 4 {
			if clean == bad {
				return true
			}
		} else if strings.Contains(clean, bad) {
			return true
		}
	}
	return false
}

// Mask hides the interior of a token while keeping its first and last rune,
// so the output stays recognizable as a censored word of the same length.
func Mask(token string) string {
	runes := []rune(token)
	switch {
	case len(runes) <= 1:
		return token
	case len(runes) == 2:
		return string(runes[0]) + "*"
	}
	return string(runes[0]) + strings.Repeat("*", len(runes)-2) + string(runes[len(runes)-1])
}

// Censor tokenizes text on whitespace, masks every token whose clean form
// matches the denylist and rejoins the result with single spaces. Runs of
// internal whitespace are therefore collapsed. Empty input is returned
// unchanged.
func Censor(text string) string {
	if text == "" {
		return text
	}
	tokens := strings.Fields(text)
	for i, tok := range tokens {
		if isDenied(cleanForm(tok)) {
			tokens[i] = Mask(tok)
		}
	}
	return strings.Join(tokens, " ")
}
