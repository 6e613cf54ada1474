// Package grep extracts readable fragments from captured command output:
// a context window around the first line mentioning a phrase, the last lines
// of the output, and the same text with terminal colour escapes removed.
package grep

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// markupRe matches a single SGR colour/style escape such as ESC[0;36m.
var markupRe = regexp.MustCompile("\x1b\\[[0-9;]{1,4}m")

// FindContext returns the lines surrounding the first line of text that
// contains phrase, taking at most before lines above and after lines below
// the match. Text is trimmed before the search and the window is clipped to
// the document. Matching is a literal, case-insensitive containment check.
//
// The boolean result is false when no line contains phrase. FindContext
// panics if before or after is negative.
func FindContext(text, phrase string, before, after int) (string, bool) {
	if before < 0 || after < 0 {
		panic("grep: negative context line count")
	}
	lines := SplitLines(strings.TrimSpace(text))

	fold := cases.Fold()
	needle := fold.String(phrase)
	match := -1
	for i, line := range lines {
		if strings.Contains(fold.String(line), needle) {
			match = i
			break
		}
	}
	if match < 0 {
		return "", false
	}

	lo := match - before
	if lo < 0 {
		lo = 0
	}
	// Short remainder: take everything through the end of the document.
	hi := len(lines)
	if after < len(lines)-match {
		hi = match + after + 1
	}
	return strings.TrimRightFunc(strings.Join(lines[lo:hi], ""), unicode.IsSpace), true
}

// Tail returns the last n lines of the trimmed text with their original line
// terminators. When the text has n lines or fewer it is returned trimmed
// and otherwise unchanged. Tail panics if n is negative.
func Tail(text string, n int) string {
	if n < 0 {
		panic("grep: negative tail line count")
	}
	trimmed := strings.TrimSpace(text)
	lines := SplitLines(trimmed)
	if len(lines) <= n {
		return trimmed
	}
	return strings.Join(lines[len(lines)-n:], "")
}

// StripMarkup removes SGR colour escapes (ESC[...m with up to four digits
// or semicolons) from text. Other control characters are left in place.
// Removal repeats until no sequence remains, so the result never contains
// a sequence assembled from the pieces around a removed one.
func StripMarkup(text string) string {
	for markupRe.MatchString(text) {
		text = markupRe.ReplaceAllString(text, "")
	}
	return text
}

// FilterMarkup is StripMarkup for optional text: nil stays nil.
func FilterMarkup(text *string) *string {
	if text == nil {
		return nil
	}
	out := StripMarkup(*text)
	return &out
}

// SplitLines splits text into lines, keeping each line's terminator
// ("\n", "\r\n" or "\r") attached so that joining the result reproduces
// the input exactly. Empty text yields no lines.
func SplitLines(text string) []string {
	var lines []string
	for len(text) > 0 {
		i := strings.IndexAny(text, "\r\n")
		if i < 0 {
			lines = append(lines, text)
			break
		}
		end := i + 1
		if text[i] == '\r' && end < len(text) && text[end] == '\n' {
			end++
		}
		lines = append(lines, text[:end])
		text = text[end:]
	}
	return lines
}
