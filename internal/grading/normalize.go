package grading

import (
	"regexp"
	"strings"
	"unicode"
)

// spaceClass is the whitespace set answers are compared under: ASCII
// whitespace, vertical tab, every Unicode space separator (NBSP, the
// ideographic space U+3000 and friends), line/paragraph separators and BOM.
const spaceClass = `[\s\x{0B}\p{Zs}\x{2028}\x{2029}\x{FEFF}]`

var (
	trailingSpaceRe = regexp.MustCompile(`(?m)` + spaceClass + `+$`)
	blockCommentRe  = regexp.MustCompile(`/\*[\s\S]*?\*/`)
	lineCommentRe   = regexp.MustCompile(`(?m)//.*$`)
	whitespaceRe    = regexp.MustCompile(spaceClass + `+`)
)

func isAnswerSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', '\u00a0', '\u2028', '\u2029', '\ufeff':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

// Normalize canonicalizes a code or text answer so that formatting and
// comments do not affect comparison. It is lossy on purpose and must be
// applied to both sides of a comparison.
func Normalize(s string) string {
	s = strings.TrimFunc(s, isAnswerSpace)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = trailingSpaceRe.ReplaceAllString(s, "")
	s = blockCommentRe.ReplaceAllString(s, "")
	s = lineCommentRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimFunc(s, isAnswerSpace)
}
