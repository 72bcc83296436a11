package personality

import "strings"

// moodLines maps moods to what the bot says when asked how it feels.
var moodLines = map[Mood][]string{
	MoodHappy: {
		"I'm feeling great today!",
		"Pretty happy, thanks for asking.",
		"Everything's coming up sunshine over here.",
	},
	MoodNeutral: {
		"I'm doing okay.",
		"Nothing special, just here and ready to chat.",
		"Fairly even, all things considered.",
	},
	MoodSilly: {
		"I feel like a penguin in a tuxedo shop.",
		"Wobbly, giggly and slightly made of jelly.",
		"Silly! Ask me about my imaginary llama.",
	},
	MoodSerious: {
		"I'm in a focused frame of mind.",
		"Calm and attentive. Let's get to it.",
		"Serious, but still glad you're here.",
	},
	MoodExcited: {
		"I can barely sit still!",
		"Super excited, something good is going to happen!",
		"Buzzing with energy right now!",
	},
}

// Jokes is the pool the freeform generator draws from when humor wins.
var Jokes = []string{
	"Why don't scientists trust atoms? Because they make up everything.",
	"I told my computer a joke once. It didn't get it, it was a little byte-sized.",
	"Why did the scarecrow win an award? He was outstanding in his field.",
	"I would tell you a UDP joke, but you might not get it.",
	"Parallel lines have so much in common. It's a shame they'll never meet.",
}

// Questions is the pool the freeform generator draws from when curiosity wins.
var Questions = []string{
	"What made you think of that?",
	"How does that make you feel?",
	"Can you tell me more about it?",
	"What's been on your mind lately?",
	"Is there a story behind that?",
}

// Acknowledgments is the freeform generator's fallback pool.
var Acknowledgments = []string{
	"I see.",
	"Interesting.",
	"Go on.",
	"That makes sense.",
	"I hear you.",
}

// EmpatheticPhrases are used by the empathy generator when empathy wins.
var EmpatheticPhrases = []string{
	"I'm sorry you're going through that. Do you want to talk about it?",
	"That sounds really hard. I'm here for you.",
	"It's okay to feel that way. Take all the time you need.",
	"Thank you for telling me. How can I help?",
}

// NeutralFallback is the empathy generator's reply when empathy loses.
const NeutralFallback = "I understand."

// EnthusiasmMarkers are appended to replies by the energy pass.
var EnthusiasmMarkers = []string{"!", "!!", " :)", " :D"}

// MoodLine returns a random line for the store's current mood. Unknown moods
// use the happy pool.
func MoodLine(s *TraitStore, v *Variation) string {
	lines, ok := moodLines[s.Mood()]
	if !ok {
		lines = moodLines[MoodHappy]
	}
	return v.Pick(lines)
}

// Empathy returns an empathetic phrase with probability equal to the
// empathy trait, otherwise NeutralFallback.
func Empathy(s *TraitStore, v *Variation) string {
	if v.Chance(s.Get(TraitEmpathy)) {
		return v.Pick(EmpatheticPhrases)
	}
	return NeutralFallback
}

// Freeform checks humor, then curiosity, each with its own draw, and falls
// back to an acknowledgment. The checks are not normalized against each
// other: humor 0.7 wins 70% of turns whatever curiosity is.
func Freeform(s *TraitStore, v *Variation) string {
	if v.Chance(s.Get(TraitHumor)) {
		return v.Pick(Jokes)
	}
	if v.Chance(s.Get(TraitCuriosity)) {
		return v.Pick(Questions)
	}
	return v.Pick(Acknowledgments)
}

// Energize appends an enthusiasm marker with probability equal to the energy
// trait. Text already ending in terminal punctuation is returned as is
// without drawing.
func Energize(text string, s *TraitStore, v *Variation) string {
	trimmed := strings.TrimRight(text, " ")
	if trimmed == "" || strings.ContainsAny(trimmed[len(trimmed)-1:], "!?.") {
		return text
	}
	if !v.Chance(s.Get(TraitEnergy)) {
		return text
	}
	return trimmed + v.Pick(EnthusiasmMarkers)
}
