package dialogue

import (
	"strings"
	"unicode"
)

// Reflections maps first-person words to second-person words and back so a
// capture like "my keys" can be echoed as "your keys".
type Reflections map[string]string

// DefaultReflections returns the standard pronoun swap table.
func DefaultReflections() Reflections {
	return Reflections{
		"i":        "you",
		"me":       "you",
		"my":       "your",
		"mine":     "yours",
		"myself":   "yourself",
		"am":       "are",
		"i'm":      "you're",
		"i'd":      "you'd",
		"i've":     "you've",
		"i'll":     "you'll",
		"was":      "were",
		"you":      "me",
		"your":     "my",
		"yours":    "mine",
		"yourself": "myself",
		"are":      "am",
		"you're":   "I'm",
		"you'd":    "I'd",
		"you've":   "I've",
		"you'll":   "I'll",
	}
}

// Reflect swaps every word of text found in the table. Lookup ignores case
// and trailing punctuation; words not in the table keep their casing.
func (r Reflections) Reflect(text string) string {
	if len(r) == 0 {
		return text
	}
	words := strings.Fields(text)
	for i, w := range words {
		core := strings.TrimRightFunc(w, unicode.IsPunct)
		tail := w[len(core):]
		if swapped, ok := r[strings.ToLower(core)]; ok {
			words[i] = swapped + tail
		}
	}
	return strings.Join(words, " ")
}

// ReflectAll reflects each capture.
func (r Reflections) ReflectAll(captures []string) []string {
	out := make([]string, len(captures))
	for i, c := range captures {
		out[i] = r.Reflect(c)
	}
	return out
}
