package dialogue

import "fmt"

// catchAllProbes are inputs the last rule of a table must accept.
var catchAllProbes = []string{"", "x", "anything at all?!", "two\nlines"}

// Table is an ordered, immutable rule list. It is safe to share one Table
// between many engines.
type Table struct {
	rules []Rule
}

// Match is the first rule that accepted an input, with its captures.
type Match struct {
	Rule     *Rule
	Captures []string
}

// NewTable builds a table evaluated in declaration order. The last rule must
// accept every input so Match always succeeds.
func NewTable(rules ...Rule) (*Table, error) {
	if len(rules) == 0 {
		return nil, ErrEmptyTable
	}
	for i := range rules {
		if len(rules[i].Responses) == 0 {
			return nil, fmt.Errorf("rule %q: %w", rules[i].Name, ErrNoResponses)
		}
	}
	last := &rules[len(rules)-1]
	for _, probe := range catchAllProbes {
		if _, ok := last.match(probe); !ok {
			return nil, fmt.Errorf("rule %q rejects %q: %w", last.Name, probe, ErrNoCatchAll)
		}
	}

	t := &Table{rules: make([]Rule, len(rules))}
	copy(t.rules, rules)
	return t, nil
}

// Match returns the first rule whose pattern matches the whole input.
func (t *Table) Match(input string) (Match, bool) {
	for i := range t.rules {
		if caps, ok := t.rules[i].match(input); ok {
			return Match{Rule: &t.rules[i], Captures: caps}, true
		}
	}
	return Match{}, false
}

// CatchAll returns the table's last rule.
func (t *Table) CatchAll() *Rule {
	return &t.rules[len(t.rules)-1]
}

// Rules returns the rule names in evaluation order.
func (t *Table) Rules() []string {
	names := make([]string, len(t.rules))
	for i, r := range t.rules {
		names[i] = r.Name
	}
	return names
}
