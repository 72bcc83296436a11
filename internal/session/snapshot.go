// Package session persists conversation state between runs. The dialogue
// engine never touches storage; callers capture a Snapshot from it and hand
// one back on the next start.
package session

import (
	"encoding/json"

	"github.com/alex/parley/internal/dialogue"
	"github.com/alex/parley/internal/history"
	"github.com/alex/parley/internal/personality"
)

// JSON keys of the persisted record.
const (
	keyUserName = "user_name"
	keyHistory  = "conversation_history"
	keyTraits   = "personality_traits"
	keyMood     = "mood"
)

// Snapshot is the persisted state of one conversation profile.
type Snapshot struct {
	UserName *string            `json:"user_name,omitempty"`
	History  []history.Entry    `json:"conversation_history"`
	Traits   map[string]float64 `json:"personality_traits"`
	Mood     personality.Mood   `json:"mood,omitempty"`
}

// Capture copies the engine's state into a snapshot.
func Capture(e *dialogue.Engine, userName *string) Snapshot {
	var name *string
	if userName != nil {
		n := *userName
		name = &n
	}
	return Snapshot{
		UserName: name,
		History:  e.RecentHistory(0),
		Traits:   e.Traits().Snapshot(),
		Mood:     e.Mood(),
	}
}

// TraitStore builds a trait store from the snapshot. Saved weights override
// the defaults; names the current build doesn't know are dropped.
func (s Snapshot) TraitStore() *personality.TraitStore {
	traits := personality.DefaultTraits()
	for name, v := range s.Traits {
		if _, ok := traits[name]; ok {
			traits[name] = v
		}
	}
	return personality.NewTraitStoreFrom(traits, s.Mood)
}

// HistoryLog builds a history log holding the newest saved turns.
func (s Snapshot) HistoryLog() *history.Log {
	return history.FromEntries(s.History)
}

// Restore creates an engine over table seeded with the snapshot's state.
func Restore(table *dialogue.Table, s Snapshot, opts ...dialogue.Option) *dialogue.Engine {
	opts = append(opts,
		dialogue.WithTraits(s.TraitStore()),
		dialogue.WithHistory(s.HistoryLog()),
	)
	return dialogue.NewEngine(table, opts...)
}

// Decode parses a persisted record field by field. A missing or malformed
// field falls back to its empty value on its own and its key is returned in
// fallbacks; decoding never fails as a whole. The optional user name and
// mood are only reported when present but malformed.
func Decode(data []byte) (snap Snapshot, fallbacks []string) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Snapshot{}, []string{keyUserName, keyHistory, keyTraits, keyMood}
	}

	field := func(key string, dst any, required bool) bool {
		msg, ok := raw[key]
		if !ok || string(msg) == "null" {
			if required {
				fallbacks = append(fallbacks, key)
			}
			return false
		}
		if err := json.Unmarshal(msg, dst); err != nil {
			fallbacks = append(fallbacks, key)
			return false
		}
		return true
	}

	var name string
	if field(keyUserName, &name, false) && name != "" {
		snap.UserName = &name
	}

	var turns []history.Entry
	if field(keyHistory, &turns, true) {
		if len(turns) > history.Limit {
			turns = turns[len(turns)-history.Limit:]
		}
		snap.History = turns
	}

	var traits map[string]float64
	if field(keyTraits, &traits, true) {
		snap.Traits = traits
	}

	var mood string
	if field(keyMood, &mood, false) {
		if m, ok := personality.ParseMood(mood); ok {
			snap.Mood = m
		} else {
			fallbacks = append(fallbacks, keyMood)
		}
	}

	return snap, fallbacks
}

// Encode renders the snapshot as indented JSON.
func Encode(s Snapshot) ([]byte, error) {
	if s.History == nil {
		s.History = []history.Entry{}
	}
	if s.Traits == nil {
		s.Traits = map[string]float64{}
	}
	return json.MarshalIndent(s, "", "  ")
}
