package dialogue

import "github.com/alex/parley/internal/personality"

// Names of the default rules, reported in Reply.Rule.
const (
	RuleName      = "name"
	RuleMood      = "mood"
	RuleHowAreYou = "how-are-you"
	RuleEmpathy   = "empathy"
	RuleThanks    = "thanks"
	RuleNeed      = "need"
	RuleThink     = "think"
	RuleSentiment = "sentiment"
	RuleCatchAll  = "catch-all"
)

func moodGenerator(_ string, traits *personality.TraitStore, v *personality.Variation) string {
	return personality.MoodLine(traits, v)
}

func empathyGenerator(_ string, traits *personality.TraitStore, v *personality.Variation) string {
	return personality.Empathy(traits, v)
}

func freeformGenerator(_ string, traits *personality.TraitStore, v *personality.Variation) string {
	return personality.Freeform(traits, v)
}

var defaultTable = mustDefaultTable()

func mustDefaultTable() *Table {
	t, err := NewTable(DefaultRules()...)
	if err != nil {
		panic(err)
	}
	return t
}

// DefaultTable returns the shared built-in rule table.
func DefaultTable() *Table {
	return defaultTable
}

// DefaultRules returns the built-in rules in evaluation order. Greetings have
// no rule of their own and fall through to the catch-all.
func DefaultRules() []Rule {
	return []Rule{
		MustRule(RuleName, `my name is (.*)`,
			Literal("Nice to meet you, %1!"),
			Literal("Hello %1, it's a pleasure."),
		),
		MustRule(RuleMood, `(?:what'?s|what is) your mood.*|how are you feeling.*`,
			Generator(moodGenerator),
			Literal("Why do you ask? Mood is a state of mind."),
			Literal("Ask me again after another joke."),
		),
		MustRule(RuleHowAreYou, `how are you\??|how's it going\??|what's up\??`,
			Literal("I'm just a program, but thanks for asking! How can I help you?"),
		),
		MustRule(RuleEmpathy, `i(?: am|'m| feel) (?:so |really |very )?(sad|down|lonely|upset|tired|stressed|anxious)(.*)`,
			Generator(empathyGenerator),
		),
		MustRule(RuleThanks, `(?:thank you|thanks)(.*)`,
			Literal("You're welcome!"),
		),
		MustRule(RuleNeed, `i need (.*)`,
			Literal("Why do you need %1?"),
			Literal("Would it really help you to get %1?"),
		),
		MustRule(RuleThink, `i think (.*)`,
			Literal("Do you really think %1?"),
			Literal("What makes you think %1?"),
		),
		MustRule(RuleSentiment, `(.*) (good|great|fine|awesome|happy)[.!]*`,
			Literal("Glad you're doing %2!"),
			Literal("Good to hear you're feeling %2."),
		),
		MustRule(RuleCatchAll, `(.*)`,
			Generator(freeformGenerator),
		),
	}
}
