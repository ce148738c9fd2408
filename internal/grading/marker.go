package grading

import (
	"regexp"
	"strings"
)

// BlankPlaceholder marks the slot a student fills in a template line.
const BlankPlaceholder = "【?】"

var (
	fillBlankMarkerRe = regexp.MustCompile(`/\*+SPACE\*+/`)
	errorFixMarkerRe  = regexp.MustCompile(`/\*+FOUND\*+/`)
	programBodyRe     = regexp.MustCompile(`/\*+Program\*+/\s*([\s\S]*?)\s*/\*+\s*End\s*\*+/`)
)

// ExtractFillBlankAnswers pulls the student's text for every blank of a
// fill_blank template. The i-th SPACE marker of the template is paired with
// the i-th marker of the submission; the template line around the
// placeholder gives the prefix and suffix that frame the answer. When the
// frame cannot be found the whole submitted line is returned for that blank.
func ExtractFillBlankAnswers(code, template string) []string {
	tplLines := markerLines(template, fillBlankMarkerRe)
	if len(tplLines) == 0 {
		return nil
	}
	userLines := markerLines(code, fillBlankMarkerRe)

	answers := make([]string, 0, len(tplLines))
	for i, tplLine := range tplLines {
		if i >= len(userLines) {
			break
		}
		parts := strings.Split(tplLine, BlankPlaceholder)
		if len(parts) != 2 {
			continue
		}
		answers = append(answers, extractBetween(userLines[i], parts[0], parts[1]))
	}
	return answers
}

func extractBetween(line, prefix, suffix string) string {
	start := strings.Index(line, prefix)
	end := strings.LastIndex(line, suffix)
	if start == -1 || end == -1 || end < start+len(prefix) {
		return line
	}
	answer := strings.TrimSpace(line[start+len(prefix) : end])
	if answer == BlankPlaceholder {
		return ""
	}
	return answer
}

// ExtractErrorFixAnswers returns the corrected line following each FOUND
// marker of the submission.
func ExtractErrorFixAnswers(code string) []string {
	return markerLines(code, errorFixMarkerRe)
}

// ExtractProgramBody returns the code framed by the Program / End markers,
// or the whole submission when it is not framed.
func ExtractProgramBody(code string) string {
	if m := programBodyRe.FindStringSubmatch(code); m != nil {
		return m[1]
	}
	return code
}

// markerLines returns, for every match of re, the first non-blank line of
// the text running up to the next match.
func markerLines(s string, re *regexp.Regexp) []string {
	locs := re.FindAllStringIndex(s, -1)
	if len(locs) == 0 {
		return nil
	}
	lines := make([]string, 0, len(locs))
	for i, loc := range locs {
		end := len(s)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		lines = append(lines, firstLine(s[loc[1]:end]))
	}
	return lines
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
