package service

import (
	"github.com/tbrisker/setsense/internal/domain"
)

const (
	// Documented correlation multipliers: statistical association, not
	// logical necessity.
	MoveSynergyBoost = 1.5
	MoveItemBoost    = 1.3
	AbilityItemBoost = 2.0
)

// CorrelationTable drives soft boosts from observed evidence. The
// tables are static and shared; reads need no synchronization.
type CorrelationTable struct {
	// Revealed move -> moves commonly run beside it.
	MoveSynergies map[string][]string
	// Revealed move -> items commonly carried with it.
	MoveItemHints map[string][]string
	// Confirmed ability -> items that enable it.
	AbilityItemHints map[string][]string

	MoveBoost    float64
	ItemBoost    float64
	AbilityBoost float64
}

// DefaultCorrelationTable returns the gen 9 correlation tables.
func DefaultCorrelationTable() *CorrelationTable {
	return &CorrelationTable{
		MoveSynergies: map[string][]string{
			"Swords Dance": {"Sucker Punch", "Close Combat", "Iron Head", "Earthquake"},
			"Nasty Plot":   {"Dark Pulse", "Sludge Bomb", "Flamethrower", "Focus Blast"},
			"Dragon Dance": {"Outrage", "Earthquake", "Extreme Speed", "Fire Punch"},
			"U-turn":       {"Earthquake", "Close Combat", "Stone Edge"},
			"Volt Switch":  {"Thunderbolt", "Hidden Power", "Focus Blast"},
			"Stealth Rock": {"Rapid Spin", "Earthquake", "Close Combat"},
			"Spikes":       {"Rapid Spin", "Toxic", "Protect"},
		},
		MoveItemHints: map[string][]string{
			"Swords Dance": {"Leftovers", "Life Orb", "Lum Berry"},
			"Nasty Plot":   {"Leftovers", "Life Orb", "Focus Sash"},
			"Dragon Dance": {"Leftovers", "Lum Berry", "Life Orb"},
			"U-turn":       {"Choice Scarf", "Choice Band", "Heavy-Duty Boots"},
			"Volt Switch":  {"Choice Specs", "Choice Scarf", "Heavy-Duty Boots"},
			"Stealth Rock": {"Leftovers", "Rocky Helmet", "Heavy-Duty Boots"},
			"Protect":      {"Leftovers", "Black Sludge", "Sitrus Berry"},

			// Weather and terrain setters hint at their extender items.
			"Sunny Day":        {"Heat Rock"},
			"Rain Dance":       {"Damp Rock"},
			"Sandstorm":        {"Smooth Rock"},
			"Snowscape":        {"Icy Rock"},
			"Electric Terrain": {"Terrain Extender", "Electric Seed"},
			"Grassy Terrain":   {"Terrain Extender", "Grassy Seed"},
			"Psychic Terrain":  {"Terrain Extender", "Psychic Seed"},
			"Misty Terrain":    {"Terrain Extender", "Misty Seed"},
		},
		AbilityItemHints: map[string][]string{
			"Guts":         {"Flame Orb", "Toxic Orb"},
			"Marvel Scale": {"Flame Orb", "Toxic Orb"},
			"Quick Feet":   {"Flame Orb", "Toxic Orb"},
			"Poison Heal":  {"Toxic Orb"},
			"Magic Guard":  {"Life Orb", "Flame Orb"},
			"Unburden":     {"Normal Gem", "Electric Seed", "Grassy Seed", "Misty Seed", "Psychic Seed"},
			"Weak Armor":   {"Rocky Helmet"},
			"Iron Barbs":   {"Rocky Helmet"},
			"Rough Skin":   {"Rocky Helmet"},
		},
		MoveBoost:    MoveSynergyBoost,
		ItemBoost:    MoveItemBoost,
		AbilityBoost: AbilityItemBoost,
	}
}

// MoveRevealed boosts moves and items correlated with the revealed
// move. Eliminated and already-revealed candidates are excluded; a
// confirmed item category is never reweighted. The caller renormalizes
// afterwards. Reports whether any probability changed.
func (t *CorrelationTable) MoveRevealed(b *domain.Belief, move string) bool {
	touched := false

	if synergies, ok := t.MoveSynergies[move]; ok {
		dist := b.Distribution(domain.CategoryMove)
		for _, m := range synergies {
			if _, seen := b.RevealedMoves[m]; seen {
				continue
			}
			if b.IsEliminated(domain.CategoryMove, m) {
				continue
			}
			if p, live := dist[m]; live {
				dist[m] = p * t.MoveBoost
				touched = true
			}
		}
	}

	if hints, ok := t.MoveItemHints[move]; ok {
		touched = t.boostItems(b, hints, t.ItemBoost) || touched
	}

	return touched
}

// AbilityRevealed boosts items that enable the confirmed ability.
func (t *CorrelationTable) AbilityRevealed(b *domain.Belief, ability string) bool {
	hints, ok := t.AbilityItemHints[ability]
	if !ok {
		return false
	}
	return t.boostItems(b, hints, t.AbilityBoost)
}

func (t *CorrelationTable) boostItems(b *domain.Belief, items []string, factor float64) bool {
	if _, confirmed := b.ConfirmedValue(domain.CategoryItem); confirmed {
		return false
	}
	dist := b.Distribution(domain.CategoryItem)
	touched := false
	for _, item := range items {
		if b.IsEliminated(domain.CategoryItem, item) {
			continue
		}
		if p, live := dist[item]; live {
			dist[item] = p * factor
			touched = true
		}
	}
	return touched
}
