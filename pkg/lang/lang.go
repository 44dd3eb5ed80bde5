// Package lang holds the languages the game speaks and helpers for
// resolving a client's preferred language to one of them.
package lang

import (
	"golang.org/x/text/language"
)

// Lang is a supported game language.
type Lang string

const (
	English Lang = "en"
	Chinese Lang = "zh"
)

// Default is used whenever a request carries no usable language hint.
const Default = English

var supported = []language.Tag{
	language.English, // index 0 is the matcher fallback
	language.Chinese,
}

var matcher = language.NewMatcher(supported)

// Resolve maps an Accept-Language header (or a bare language code) to a
// supported game language. Unrecognized input resolves to Default.
func Resolve(accept string) Lang {
	if accept == "" {
		return Default
	}
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, idx, _ := matcher.Match(tags...)
	if idx == 1 {
		return Chinese
	}
	return English
}

// Valid reports whether l is a language the game data is authored in.
func Valid(l Lang) bool {
	return l == English || l == Chinese
}

// Text is a per-language string pair. Pick returns the text for l,
// falling back to English when the requested language is missing.
type Text struct {
	EN string `json:"en" yaml:"en"`
	ZH string `json:"zh" yaml:"zh"`
}

func (t Text) Pick(l Lang) string {
	if l == Chinese && t.ZH != "" {
		return t.ZH
	}
	return t.EN
}

// Empty reports whether no language has text.
func (t Text) Empty() bool {
	return t.EN == "" && t.ZH == ""
}
