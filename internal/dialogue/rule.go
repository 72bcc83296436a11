// Package dialogue implements the ordered pattern-rule responder: the first
// rule whose pattern matches the whole input line picks one of its responses
// at random, fills in captures, and hands back the text.
package dialogue

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/alex/parley/internal/personality"
)

var (
	// ErrNoResponses is returned for a rule declared without responses.
	ErrNoResponses = errors.New("dialogue: rule has no responses")
	// ErrNoCatchAll is returned when a table's last rule does not accept
	// every input.
	ErrNoCatchAll = errors.New("dialogue: last rule is not a catch-all")
	// ErrEmptyTable is returned for a table without rules.
	ErrEmptyTable = errors.New("dialogue: table has no rules")
)

// Turn carries everything a response needs to produce its text.
type Turn struct {
	Input       string   // raw user input
	Captures    []string // 1-indexed groups live at Captures[0], Captures[1], ...
	Traits      *personality.TraitStore
	Variation   *personality.Variation
	Reflections Reflections
}

// Response produces reply text for a matched rule.
type Response interface {
	Produce(t *Turn) string
}

// Literal is a template whose %N placeholders are replaced by the reflected
// captures of the match.
type Literal string

// Produce implements Response.
func (l Literal) Produce(t *Turn) string {
	return Substitute(string(l), t.Reflections.ReflectAll(t.Captures))
}

// Generator computes a reply from the raw input and the conversation's
// traits. It may draw from v as often as it likes.
type Generator func(input string, traits *personality.TraitStore, v *personality.Variation) string

// Produce implements Response.
func (g Generator) Produce(t *Turn) string {
	return g(t.Input, t.Traits, t.Variation)
}

// Rule pairs a whole-line pattern with the responses it may give.
type Rule struct {
	Name      string
	Pattern   *regexp.Regexp
	Responses []Response
}

// NewRule compiles pattern case-insensitively and anchored at both ends.
// The dot also matches newlines so multi-line input still reaches the
// catch-all.
func NewRule(name, pattern string, responses ...Response) (Rule, error) {
	if len(responses) == 0 {
		return Rule{}, fmt.Errorf("rule %q: %w", name, ErrNoResponses)
	}
	re, err := regexp.Compile(`(?is)^(?:` + pattern + `)$`)
	if err != nil {
		return Rule{}, fmt.Errorf("rule %q: compiling pattern: %w", name, err)
	}
	return Rule{
		Name:      name,
		Pattern:   re,
		Responses: responses,
	}, nil
}

// MustRule is NewRule for rule sets declared at init time.
func MustRule(name, pattern string, responses ...Response) Rule {
	r, err := NewRule(name, pattern, responses...)
	if err != nil {
		panic(err)
	}
	return r
}

// match returns the rule's captures for input, or false.
func (r *Rule) match(input string) ([]string, bool) {
	groups := r.Pattern.FindStringSubmatch(input)
	if groups == nil {
		return nil, false
	}
	return groups[1:], true
}
