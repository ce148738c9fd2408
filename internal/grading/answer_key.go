package grading

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// AlternativeSeparator separates acceptable answers for a single blank.
	AlternativeSeparator = "=========或========="

	blockMarkerPrefix = "=======(答案"
)

var (
	blockMarkerRe  = regexp.MustCompile(`=======\(答案\d+\)=======`)
	numberedItemRe = regexp.MustCompile(`(?:^|\n)\d+\.\s`)
)

// Blank is one position of a multi-blank answer key. Any alternative is
// accepted for the blank.
type Blank []string

// ParseAnswerKey decodes a stored fill_blank / error_fix answer into its
// ordered blanks. It never fails: input it cannot structure becomes a single
// blank holding the trimmed input.
func ParseAnswerKey(raw string) []Blank {
	var blanks []Blank
	switch {
	case strings.Contains(raw, blockMarkerPrefix):
		blanks = splitBlanks(blockMarkerRe.Split(raw, -1))
	case numberedItemRe.MatchString(raw):
		blanks = splitBlanks(numberedItemRe.Split(raw, -1))
	case strings.Contains(raw, AlternativeSeparator):
		if b := splitAlternatives(raw); len(b) > 0 {
			blanks = []Blank{b}
		}
	}

	if len(blanks) == 0 {
		return []Blank{{strings.TrimSpace(raw)}}
	}
	return blanks
}

func splitBlanks(parts []string) []Blank {
	blanks := make([]Blank, 0, len(parts))
	for _, p := range parts {
		if b := splitAlternatives(p); len(b) > 0 {
			blanks = append(blanks, b)
		}
	}
	return blanks
}

func splitAlternatives(segment string) Blank {
	var alts Blank
	for _, alt := range strings.Split(segment, AlternativeSeparator) {
		if alt = strings.TrimSpace(alt); alt != "" {
			alts = append(alts, alt)
		}
	}
	return alts
}

// FormatAnswerKey renders blanks for display as a numbered list, one blank
// per line, alternatives joined by "或".
func FormatAnswerKey(blanks []Blank) string {
	var sb strings.Builder
	for i, b := range blanks {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%d. %s", i+1, strings.Join(b, " 或 "))
	}
	return sb.String()
}
