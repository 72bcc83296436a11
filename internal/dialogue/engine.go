package dialogue

import (
	"fmt"
	"math/rand"
	"strings"

	"go.uber.org/zap"

	"github.com/alex/parley/internal/history"
	"github.com/alex/parley/internal/personality"
)

// fallbackReply is used if every response of a rule came back blank.
const fallbackReply = "I'm listening."

// Reply is the outcome of one turn.
type Reply struct {
	Text     string
	Rule     string   // name of the rule that matched
	Captures []string // raw captures, unreflected
}

// Engine answers input for a single conversation. It owns the conversation's
// traits, history and random source; the rule table may be shared.
// An Engine is not safe for concurrent use.
type Engine struct {
	table       *Table
	traits      *personality.TraitStore
	history     *history.Log
	variation   *personality.Variation
	reflections Reflections
	logger      *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeed makes every random choice reproducible.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.variation = personality.NewSeededVariation(seed)
	}
}

// WithRand draws from rng instead of a clock-seeded source.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		e.variation = personality.NewVariationFromRand(rng)
	}
}

// WithTraits uses an existing trait store.
func WithTraits(traits *personality.TraitStore) Option {
	return func(e *Engine) {
		if traits != nil {
			e.traits = traits
		}
	}
}

// WithHistory uses an existing history log.
func WithHistory(log *history.Log) Option {
	return func(e *Engine) {
		if log != nil {
			e.history = log
		}
	}
}

// WithReflections replaces the pronoun swap table.
func WithReflections(r Reflections) Option {
	return func(e *Engine) {
		e.reflections = r
	}
}

// WithLogger sets the logger used for per-turn debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an engine over table, or DefaultTable when table is nil.
func NewEngine(table *Table, opts ...Option) *Engine {
	if table == nil {
		table = DefaultTable()
	}
	e := &Engine{
		table:       table,
		traits:      personality.NewTraitStore(),
		history:     history.New(),
		reflections: DefaultReflections(),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.variation == nil {
		e.variation = personality.NewVariation()
	}
	return e
}

// Respond returns the reply text for input. It never returns an empty
// string. Recording the turn is left to the caller.
func (e *Engine) Respond(input string) string {
	return e.Reply(input).Text
}

// Reply is Respond with the matched rule and captures attached.
func (e *Engine) Reply(input string) Reply {
	// (?i) patterns make matching the trimmed line equivalent to matching
	// its lower-cased form while keeping the user's casing in captures.
	line := strings.TrimSpace(input)

	m, ok := e.table.Match(line)
	if !ok {
		m = Match{Rule: e.table.CatchAll()}
	}

	resp := m.Rule.Responses[e.variation.Intn(len(m.Rule.Responses))]
	text := resp.Produce(&Turn{
		Input:       input,
		Captures:    m.Captures,
		Traits:      e.traits,
		Variation:   e.variation,
		Reflections: e.reflections,
	})
	if strings.TrimSpace(text) == "" {
		text = fallbackReply
	}
	text = personality.Energize(text, e.traits, e.variation)

	e.logger.Debug("matched rule",
		zap.String("rule", m.Rule.Name),
		zap.Int("captures", len(m.Captures)),
	)

	return Reply{
		Text:     text,
		Rule:     m.Rule.Name,
		Captures: m.Captures,
	}
}

// AdjustTrait moves a trait by delta, clamped to [0,1]. Unknown names are
// ignored.
func (e *Engine) AdjustTrait(name string, delta float64) {
	e.traits.Adjust(name, delta)
}

// Trait returns a trait weight, 0 for unknown names.
func (e *Engine) Trait(name string) float64 {
	return e.traits.Get(name)
}

// Traits exposes the engine's trait store.
func (e *Engine) Traits() *personality.TraitStore {
	return e.traits
}

// SetMood changes the mood, reporting false for labels outside the closed set.
func (e *Engine) SetMood(label string) bool {
	return e.traits.SetMood(label)
}

// ChangeMood is SetMood for user-facing commands: it returns the message to
// show rather than a flag.
func (e *Engine) ChangeMood(label string) string {
	if !e.traits.SetMood(label) {
		return personality.UnknownMoodMessage
	}
	return fmt.Sprintf("Mood changed to %s!", e.traits.Mood())
}

// Mood returns the current mood.
func (e *Engine) Mood() personality.Mood {
	return e.traits.Mood()
}

// RecordHistory stores a completed turn.
func (e *Engine) RecordHistory(input, response string) history.Entry {
	return e.history.Record(input, response)
}

// RecentHistory returns up to n turns, most recent last. n <= 0 returns all.
func (e *Engine) RecentHistory(n int) []history.Entry {
	return e.history.Recent(n)
}

// History exposes the engine's history log.
func (e *Engine) History() *history.Log {
	return e.history
}

// Reset clears history and returns the trait store to the weights and mood
// it started with. The store itself is kept, so callers holding it see the
// restored values.
func (e *Engine) Reset() {
	e.history.Reset()
	e.traits.Reset()
}
