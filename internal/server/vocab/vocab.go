// Package vocab holds the closed vocabularies of the poem domain: moods,
// feather weights, symbols, publication status and roles. Values are plain
// data; display text lives in the lore catalog.
package vocab

import "fmt"

// Mood is the emotional color an author declares for a poem.
type Mood string

const (
	MoodJoy        Mood = "joy"
	MoodMelancholy Mood = "melancholy"
	MoodAnger      Mood = "anger"
	MoodSerenity   Mood = "serenity"
	MoodNostalgia  Mood = "nostalgia"
	MoodWonder     Mood = "wonder"
	MoodFear       Mood = "fear"
	MoodLove       Mood = "love"
)

// Moods lists every mood in display order.
var Moods = []Mood{MoodJoy, MoodMelancholy, MoodAnger, MoodSerenity, MoodNostalgia, MoodWonder, MoodFear, MoodLove}

func (m Mood) Valid() bool {
	for _, v := range Moods {
		if v == m {
			return true
		}
	}
	return false
}

func ParseMood(s string) (Mood, error) {
	m := Mood(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown mood %q", s)
	}
	return m, nil
}

// FeatherWeight is the strength of a vote.
type FeatherWeight string

const (
	FeatherBronze FeatherWeight = "bronze"
	FeatherSilver FeatherWeight = "silver"
	FeatherGold   FeatherWeight = "gold"
)

var FeatherWeights = []FeatherWeight{FeatherBronze, FeatherSilver, FeatherGold}

func (w FeatherWeight) Valid() bool {
	switch w {
	case FeatherBronze, FeatherSilver, FeatherGold:
		return true
	}
	return false
}

func ParseFeatherWeight(s string) (FeatherWeight, error) {
	w := FeatherWeight(s)
	if !w.Valid() {
		return "", fmt.Errorf("unknown feather weight %q", s)
	}
	return w, nil
}

// Symbol is the visual tag a poem earns from its accumulated score.
// Symbols are ordered from lightest to heaviest.
type Symbol string

const (
	SymbolWings       Symbol = "wings"
	SymbolMeteorShard Symbol = "meteor_shard"
	SymbolVortex      Symbol = "vortex"
	SymbolHorizon     Symbol = "horizon"
	SymbolHalo        Symbol = "halo"
)

// Symbols lists every symbol in ascending rank.
var Symbols = []Symbol{SymbolWings, SymbolMeteorShard, SymbolVortex, SymbolHorizon, SymbolHalo}

// Rank returns the position of s in the symbol ordering, or -1 when s is
// not a known symbol.
func (s Symbol) Rank() int {
	for i, v := range Symbols {
		if v == s {
			return i
		}
	}
	return -1
}

func (s Symbol) Valid() bool { return s.Rank() >= 0 }

func ParseSymbol(s string) (Symbol, error) {
	sym := Symbol(s)
	if !sym.Valid() {
		return "", fmt.Errorf("unknown symbol %q", s)
	}
	return sym, nil
}

// PoemStatus is the publication state of a poem.
type PoemStatus string

const (
	StatusDraft     PoemStatus = "draft"
	StatusPublished PoemStatus = "published"
)

func (s PoemStatus) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// CanTransitionTo reports whether a poem may move from s to next.
// The only legal transition is draft -> published.
func (s PoemStatus) CanTransitionTo(next PoemStatus) bool {
	return s == StatusDraft && next == StatusPublished
}

// Role is a coarse privilege level attached to a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}
