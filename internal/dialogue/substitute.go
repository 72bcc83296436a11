package dialogue

import (
	"regexp"
	"strconv"
	"strings"
)

var placeholderRe = regexp.MustCompile(`%(\d+)`)

// Substitute replaces %1, %2, ... in template with the matching capture.
// Placeholders without a capture (including %0) are left as written.
func Substitute(template string, captures []string) string {
	return placeholderRe.ReplaceAllStringFunc(template, func(ph string) string {
		idx, err := strconv.Atoi(ph[1:])
		if err != nil || idx < 1 || idx > len(captures) {
			return ph
		}
		return cleanCapture(captures[idx-1])
	})
}

// cleanCapture strips the whitespace and sentence punctuation a capture drags
// along from the end of the user's line.
func cleanCapture(s string) string {
	return strings.TrimSpace(strings.TrimRight(strings.TrimSpace(s), ".!?,"))
}
