package domain

import (
	"sort"

	"github.com/google/uuid"
)

// Category identifies one predicted attribute of an opponent set.
type Category string

const (
	CategoryAbility  Category = "ability"
	CategoryItem     Category = "item"
	CategoryMove     Category = "move"
	CategoryTeraType Category = "teraType"
	CategoryEVSpread Category = "evSpread"
)

// Categories returns all categories in a stable order.
func Categories() []Category {
	return []Category{CategoryAbility, CategoryItem, CategoryMove, CategoryTeraType, CategoryEVSpread}
}

func ValidCategory(c string) bool {
	switch Category(c) {
	case CategoryAbility, CategoryItem, CategoryMove, CategoryTeraType, CategoryEVSpread:
		return true
	}
	return false
}

// Singleton reports whether the category collapses to one certain
// value once revealed. Moves accumulate instead, up to four.
func (c Category) Singleton() bool {
	switch c {
	case CategoryAbility, CategoryItem, CategoryTeraType:
		return true
	}
	return false
}

// MaxRevealedMoves is the number of moves a set can carry.
const MaxRevealedMoves = 4

// Candidate is one (name, probability) entry of a distribution.
type Candidate struct {
	Name        string  `json:"name"`
	Probability float64 `json:"probability"`
}

// Distribution maps hypothesis names to probabilities. A non-empty
// distribution sums to 1 within floating tolerance.
type Distribution map[string]float64

// Normalize rescales the distribution in place so it sums to 1.
// If all mass has been removed the distribution becomes empty rather
// than propagating an invalid value.
func (d Distribution) Normalize() {
	var total float64
	for _, p := range d {
		total += p
	}
	if total <= 0 {
		for name := range d {
			delete(d, name)
		}
		return
	}
	for name, p := range d {
		d[name] = p / total
	}
}

// Max returns the highest probability in the distribution, 0 if empty.
func (d Distribution) Max() float64 {
	var max float64
	for _, p := range d {
		if p > max {
			max = p
		}
	}
	return max
}

// Top returns the n most probable entries, highest first. Ties break
// alphabetically so output is deterministic.
func (d Distribution) Top(n int) []Candidate {
	out := make([]Candidate, 0, len(d))
	for name, p := range d {
		out = append(out, Candidate{Name: name, Probability: p})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Probability != out[j].Probability {
			return out[i].Probability > out[j].Probability
		}
		return out[i].Name < out[j].Name
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func (d Distribution) Clone() Distribution {
	out := make(Distribution, len(d))
	for name, p := range d {
		out[name] = p
	}
	return out
}

// Belief is the per-creature record of what has been observed and what
// remains probabilistic. It is created from a SpeciesPrior at first
// sighting and mutated exclusively by the update engine, one
// observation at a time.
type Belief struct {
	ID        uuid.UUID
	SpeciesID string

	Dists map[Category]Distribution

	// Confirmed singleton facts; empty string means not yet revealed.
	RevealedAbility string
	RevealedItem    string
	RevealedTera    string

	// Confirmed moves, at most MaxRevealedMoves.
	RevealedMoves map[string]struct{}

	// Hypotheses permanently removed by game mechanics. Grows only.
	Eliminated map[Category]map[string]struct{}

	Confidence float64
	TurnsSeen  int

	// LastSeq is the sequence number of the last applied observation.
	// Replaying an observation at or below it is a no-op, which keeps
	// soft multiplicative boosts idempotent.
	LastSeq int64
}

// NewBelief builds a belief from a species prior. Weights are usage
// percentages (0..100); each category is normalized independently.
// A missing or empty prior yields empty distributions, never an error.
func NewBelief(speciesID string, prior SpeciesPrior) *Belief {
	b := &Belief{
		ID:            uuid.New(),
		SpeciesID:     speciesID,
		Dists:         make(map[Category]Distribution, len(Categories())),
		RevealedMoves: make(map[string]struct{}),
		Eliminated:    make(map[Category]map[string]struct{}),
	}
	for _, cat := range Categories() {
		dist := make(Distribution, len(prior[cat]))
		for name, weight := range prior[cat] {
			if weight > 0 {
				dist[name] = weight
			}
		}
		dist.Normalize()
		b.Dists[cat] = dist
	}
	return b
}

// Distribution returns the live distribution for a category,
// allocating an empty one on first use.
func (b *Belief) Distribution(cat Category) Distribution {
	dist, ok := b.Dists[cat]
	if !ok {
		dist = make(Distribution)
		b.Dists[cat] = dist
	}
	return dist
}

// ConfirmedValue returns the confirmed singleton value for a category,
// if any.
func (b *Belief) ConfirmedValue(cat Category) (string, bool) {
	switch cat {
	case CategoryAbility:
		return b.RevealedAbility, b.RevealedAbility != ""
	case CategoryItem:
		return b.RevealedItem, b.RevealedItem != ""
	case CategoryTeraType:
		return b.RevealedTera, b.RevealedTera != ""
	}
	return "", false
}

// Confirm collapses a singleton category to one certain value.
// Direct observation is definitive: the name need not appear in the
// prior. Confirming is terminal; a second confirmation of the same
// category is ignored.
func (b *Belief) Confirm(cat Category, name string) bool {
	if !cat.Singleton() || name == "" {
		return false
	}
	if _, done := b.ConfirmedValue(cat); done {
		return false
	}
	switch cat {
	case CategoryAbility:
		b.RevealedAbility = name
	case CategoryItem:
		b.RevealedItem = name
	case CategoryTeraType:
		b.RevealedTera = name
	}
	b.Dists[cat] = Distribution{name: 1.0}
	return true
}

// ConfirmMove records a directly observed move. The move's probability
// is pinned to 1 before the engine renormalizes the move distribution.
func (b *Belief) ConfirmMove(name string) bool {
	if name == "" {
		return false
	}
	if _, seen := b.RevealedMoves[name]; seen {
		return false
	}
	if len(b.RevealedMoves) >= MaxRevealedMoves {
		return false
	}
	b.RevealedMoves[name] = struct{}{}
	b.Distribution(CategoryMove)[name] = 1.0
	return true
}

// Eliminate permanently removes a hypothesis from a category.
// Idempotent by construction.
func (b *Belief) Eliminate(cat Category, name string) {
	if name == "" {
		return
	}
	if confirmed, ok := b.ConfirmedValue(cat); ok && confirmed == name {
		// A confirmed fact cannot be ruled out; the contradiction is
		// the caller's to log.
		return
	}
	set, ok := b.Eliminated[cat]
	if !ok {
		set = make(map[string]struct{})
		b.Eliminated[cat] = set
	}
	set[name] = struct{}{}
	delete(b.Distribution(cat), name)
}

func (b *Belief) IsEliminated(cat Category, name string) bool {
	_, ok := b.Eliminated[cat][name]
	return ok
}

// StripEliminated drops any residual mass on eliminated names so a
// later renormalization cannot resurrect them.
func (b *Belief) StripEliminated(cat Category) {
	dist := b.Distribution(cat)
	for name := range b.Eliminated[cat] {
		delete(dist, name)
	}
}

// RevealedFactCount counts confirmed moves plus one each for a
// confirmed ability and item.
func (b *Belief) RevealedFactCount() int {
	n := len(b.RevealedMoves)
	if b.RevealedAbility != "" {
		n++
	}
	if b.RevealedItem != "" {
		n++
	}
	return n
}

// TopCandidates returns the n most probable hypotheses for a category.
// For moves, already-revealed moves are excluded: the distribution
// predicts what remains hidden.
func (b *Belief) TopCandidates(cat Category, n int) []Candidate {
	dist := b.Distribution(cat)
	if cat == CategoryMove && len(b.RevealedMoves) > 0 {
		filtered := make(Distribution, len(dist))
		for name, p := range dist {
			if _, seen := b.RevealedMoves[name]; !seen {
				filtered[name] = p
			}
		}
		dist = filtered
	}
	return dist.Top(n)
}
