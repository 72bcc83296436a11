// Package personality holds the conversational state that perturbs replies:
// trait weights, the current mood, and the random source generators draw from.
package personality

import "strings"

// Mood is the bot's current emotional label.
type Mood string

const (
	MoodHappy   Mood = "happy" // default, also the fallback line pool
	MoodNeutral Mood = "neutral"
	MoodSilly   Mood = "silly"
	MoodSerious Mood = "serious"
	MoodExcited Mood = "excited"
)

// DefaultMood is the mood a fresh conversation starts in.
const DefaultMood = MoodHappy

// Moods lists the closed set of accepted moods in display order.
var Moods = []Mood{MoodHappy, MoodNeutral, MoodSilly, MoodSerious, MoodExcited}

// UnknownMoodMessage is shown when a mood change is rejected.
const UnknownMoodMessage = "I can't change to that mood."

// ParseMood normalizes label and reports whether it names a known mood.
func ParseMood(label string) (Mood, bool) {
	m := Mood(strings.ToLower(strings.TrimSpace(label)))
	for _, known := range Moods {
		if m == known {
			return m, true
		}
	}
	return "", false
}

// Valid reports whether m is in the closed mood set.
func (m Mood) Valid() bool {
	_, ok := ParseMood(string(m))
	return ok
}
