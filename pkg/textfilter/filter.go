// Package textfilter keeps AI-generated NPC dialogue fit for an
// all-ages game. Backend replies pass through Clean before they reach
// the player.
package textfilter

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// replacements maps words we never want an NPC to say to village-voice
// alternatives. Matching is case-insensitive on word boundaries; the
// original casing is preserved in the replacement.
var replacements = map[string]string{
	"fuck":     "fudge",
	"shit":     "shoot",
	"damn":     "dang",
	"goddamn":  "gosh-dang",
	"hell":     "heck",
	"ass":      "rear",
	"asshole":  "oaf",
	"bitch":    "grump",
	"bastard":  "scoundrel",
	"crap":     "rubbish",
	"piss":     "fuss",
	"bullshit": "nonsense",
	"dumbass":  "fool",
	"jackass":  "fool",
	"prick":    "oaf",
}

var excessBlankLines = regexp.MustCompile(`\n{3,}`)

// Filter rewrites profanity and tidies whitespace in dialogue text.
type Filter struct {
	regexes map[string]*regexp.Regexp
}

// New creates a filter with all patterns pre-compiled.
func New() *Filter {
	f := &Filter{
		regexes: make(map[string]*regexp.Regexp, len(replacements)),
	}
	for word := range replacements {
		f.regexes[word] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
	}
	return f
}

// Clean replaces filtered words and collapses runs of blank lines.
func (f *Filter) Clean(text string) string {
	result := text
	for word, replacement := range replacements {
		result = f.regexes[word].ReplaceAllStringFunc(result, func(match string) string {
			return preserveCase(match, replacement)
		})
	}
	result = excessBlankLines.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

// ContainsFiltered reports whether the text matches any filtered word.
func (f *Filter) ContainsFiltered(text string) bool {
	for _, regex := range f.regexes {
		if regex.MatchString(text) {
			return true
		}
	}
	return false
}

// preserveCase applies the case pattern of the original word to the
// replacement.
func preserveCase(original, replacement string) string {
	if len(original) == 0 {
		return replacement
	}

	if strings.ToUpper(original) == original {
		return strings.ToUpper(replacement)
	}
	if strings.ToLower(original) == original {
		return strings.ToLower(replacement)
	}

	titleCaser := cases.Title(language.English)
	if titleCaser.String(strings.ToLower(original)) == original {
		return titleCaser.String(replacement)
	}

	// Mixed case: carry casing over character by character.
	result := make([]rune, 0, len(replacement))
	originalRunes := []rune(original)
	for i, r := range replacement {
		if i < len(originalRunes) && unicode.IsUpper(originalRunes[i]) {
			result = append(result, unicode.ToUpper(r))
		} else {
			result = append(result, unicode.ToLower(r))
		}
	}
	return string(result)
}
