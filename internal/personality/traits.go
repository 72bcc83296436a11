package personality

import (
	"math"
	"sort"
)

// Trait names understood by the generators.
const (
	TraitHumor     = "humor"
	TraitCuriosity = "curiosity"
	TraitEmpathy   = "empathy"
	TraitEnergy    = "energy"
)

// DefaultTraits returns the starting weights for a new conversation.
func DefaultTraits() map[string]float64 {
	return map[string]float64{
		TraitHumor:     0.7,
		TraitCuriosity: 0.6,
		TraitEmpathy:   0.8,
		TraitEnergy:    0.5,
	}
}

// TraitStore tracks trait weights in [0,1] and the current mood.
// The set of trait names is fixed when the store is created, and the
// starting weights and mood are kept so Reset can return to them.
type TraitStore struct {
	traits map[string]float64
	mood   Mood

	initial     map[string]float64
	initialMood Mood
}

// NewTraitStore creates a store with the default traits and mood.
func NewTraitStore() *TraitStore {
	return NewTraitStoreFrom(DefaultTraits(), DefaultMood)
}

// NewTraitStoreFrom creates a store from explicit weights. Values are clamped
// and the mood is normalized; an unknown mood falls back to DefaultMood.
func NewTraitStoreFrom(traits map[string]float64, mood Mood) *TraitStore {
	s := &TraitStore{
		traits: make(map[string]float64, len(traits)),
		mood:   DefaultMood,
	}
	for name, v := range traits {
		s.traits[name] = clamp(v)
	}
	if m, ok := ParseMood(string(mood)); ok {
		s.mood = m
	}
	s.initial = s.Snapshot()
	s.initialMood = s.mood
	return s
}

// Reset restores the weights and mood the store was created with.
func (s *TraitStore) Reset() {
	for name, v := range s.initial {
		s.traits[name] = v
	}
	s.mood = s.initialMood
}

// Adjust adds delta to the named trait, clamping to [0,1].
// Unknown names are ignored.
func (s *TraitStore) Adjust(name string, delta float64) {
	old, ok := s.traits[name]
	if !ok {
		return
	}
	s.traits[name] = clamp(old + delta)
}

// Set assigns a trait directly. Unknown names are ignored.
func (s *TraitStore) Set(name string, value float64) {
	if _, ok := s.traits[name]; !ok {
		return
	}
	s.traits[name] = clamp(value)
}

// Get returns the named trait, or 0 when unknown.
func (s *TraitStore) Get(name string) float64 {
	return s.traits[name]
}

// Has reports whether name is a known trait.
func (s *TraitStore) Has(name string) bool {
	_, ok := s.traits[name]
	return ok
}

// Names returns the trait names in sorted order.
func (s *TraitStore) Names() []string {
	names := make([]string, 0, len(s.traits))
	for name := range s.traits {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot returns a copy of all trait weights.
func (s *TraitStore) Snapshot() map[string]float64 {
	out := make(map[string]float64, len(s.traits))
	for name, v := range s.traits {
		out[name] = v
	}
	return out
}

// Mood returns the current mood.
func (s *TraitStore) Mood() Mood {
	return s.mood
}

// SetMood changes the mood if label is in the closed set.
// Returns false and leaves the mood unchanged otherwise.
func (s *TraitStore) SetMood(label string) bool {
	m, ok := ParseMood(label)
	if !ok {
		return false
	}
	s.mood = m
	return true
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
