package classify

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/playfmt/internal/doctree"
)

// Context is what a rule may look at: the current line and the state carried
// from earlier lines.
type Context struct {
	Line    RawLine
	Trimmed string
	First   bool // first non-blank line of the script body
	Open    bool // a multi-line parenthetical is open
}

// Rule maps a predicate to a role. Rules are evaluated in order and the first
// match wins.
type Rule struct {
	Name  string
	Role  doctree.Role
	Match func(c Context) bool
}

var rules = []Rule{
	{Name: "blank", Role: doctree.Blank, Match: func(c Context) bool {
		return c.Trimmed == ""
	}},
	{Name: "open-direction", Role: doctree.StandaloneDirection, Match: func(c Context) bool {
		return c.Open
	}},
	{Name: "scene-marker", Role: doctree.SceneHeader, Match: func(c Context) bool {
		return IsSceneMarker(c.Trimmed)
	}},
	{Name: "setting-marker", Role: doctree.SettingLine, Match: func(c Context) bool {
		return IsSettingMarker(c.Trimmed)
	}},
	{Name: "first-line-header", Role: doctree.SceneHeader, Match: func(c Context) bool {
		return c.First && !strings.HasPrefix(c.Trimmed, "(") && !IsCue(c.Trimmed)
	}},
	{Name: "standalone-direction", Role: doctree.StandaloneDirection, Match: func(c Context) bool {
		return IsStandaloneDirection(c.Trimmed) || opensDirection(c.Trimmed)
	}},
	{Name: "character-cue", Role: doctree.CharacterCue, Match: func(c Context) bool {
		return IsCue(c.Trimmed)
	}},
	{Name: "dialogue", Role: doctree.Dialogue, Match: func(Context) bool {
		return true
	}},
}

// Rules returns the ordered rule table.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// RuleByName returns the named rule.
func RuleByName(name string) (Rule, bool) {
	for _, r := range rules {
		if r.Name == name {
			return r, true
		}
	}
	return Rule{}, false
}

type marker struct {
	keyword string
	// colon requires a ':' right after the keyword (optionally spaced), so that
	// ordinary sentences starting with the same word stay dialogue.
	colon bool
	// numbered requires a numbering word (ONE, 2, II, ...) after whitespace
	// unless the keyword ends the line, is followed by ':' or '.', or the whole
	// line is upper case ("SCENE THE PARK").
	numbered bool
}

var sceneMarkers = []marker{
	{keyword: "ACT", numbered: true},
	{keyword: "SCENE", numbered: true},
	{keyword: "PROLOGUE"},
	{keyword: "EPILOGUE"},
	{keyword: "INTERMISSION"},
}

var settingMarkers = []marker{
	{keyword: "SETTING"},
	{keyword: "TIME", colon: true},
	{keyword: "PLACE", colon: true},
	{keyword: "AT RISE"},
	{keyword: "BEFORE RISE"},
	{keyword: "LIGHTS UP"},
	{keyword: "LIGHTS DOWN"},
	{keyword: "LIGHTS OUT"},
	{keyword: "BLACKOUT"},
	{keyword: "CURTAIN"},
	{keyword: "FADE IN"},
	{keyword: "FADE OUT"},
	{keyword: "END OF PLAY"},
}

var numberWords = map[string]bool{
	"ONE": true, "TWO": true, "THREE": true, "FOUR": true, "FIVE": true,
	"SIX": true, "SEVEN": true, "EIGHT": true, "NINE": true, "TEN": true,
	"ELEVEN": true, "TWELVE": true,
	"FIRST": true, "SECOND": true, "THIRD": true, "FOURTH": true, "FIFTH": true,
	"LAST": true, "FINAL": true,
}

var romanNumeral = regexp.MustCompile(`^[IVXLC]+$`)

// IsSceneMarker reports whether s opens with a scene or act keyword.
func IsSceneMarker(s string) bool {
	return matchAny(s, sceneMarkers)
}

// IsSettingMarker reports whether s opens with a setting or lighting keyword.
func IsSettingMarker(s string) bool {
	return matchAny(s, settingMarkers)
}

func matchAny(s string, markers []marker) bool {
	upper := strings.ToUpper(s)
	shouted := s == upper
	for _, m := range markers {
		if matchMarker(upper, shouted, m) {
			return true
		}
	}
	return false
}

func matchMarker(upper string, shouted bool, m marker) bool {
	if !strings.HasPrefix(upper, m.keyword) {
		return false
	}
	rest := upper[len(m.keyword):]
	if rest == "" {
		return !m.colon
	}
	if m.colon {
		return strings.HasPrefix(strings.TrimLeft(rest, " \t"), ":")
	}
	r, _ := utf8.DecodeRuneInString(rest)
	if m.numbered {
		if r == ':' || r == '.' {
			return true
		}
		if !unicode.IsSpace(r) {
			return false
		}
		if shouted {
			return true
		}
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			return true
		}
		word := strings.TrimRight(fields[0], ":.,;-")
		return numberWords[word] || romanNumeral.MatchString(word) || isDigits(word)
	}
	return isSeparator(r)
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune(":.,;!-—", r)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// IsStandaloneDirection reports whether s is exactly one parenthetical: it opens
// with '(' and the matching ')' is its last character.
func IsStandaloneDirection(s string) bool {
	if !strings.HasPrefix(s, "(") || !strings.HasSuffix(s, ")") {
		return false
	}
	return matchingClose(s, 0) == len(s)-1
}

// opensDirection reports whether s opens a parenthetical that does not close on
// the same line.
func opensDirection(s string) bool {
	return strings.HasPrefix(s, "(") && matchingClose(s, 0) < 0
}

var cuePattern = regexp.MustCompile(`^[\p{Lu}\d .'’\-&,/]*\p{Lu}[\p{Lu}\d .'’\-&,/]*(\s*\([^()]*\))?$`)

// IsCue reports whether s looks like a character cue: upper-case name text with
// digits, spaces and a few punctuation marks, optionally followed by a single
// trailing parenthetical such as "JOHN (whispering)".
func IsCue(s string) bool {
	return cuePattern.MatchString(s)
}
