package domain

// ObservationKind is the closed set of battle facts the engine can
// consume. Dispatch over kinds is exhaustive; adding a kind without
// handling it in the engine is a compile-time-visible change, not a
// silently ignored string.
type ObservationKind string

const (
	KindSwitchIn         ObservationKind = "switch_in"
	KindMoveUsed         ObservationKind = "move_used"
	KindAbilityRevealed  ObservationKind = "ability_revealed"
	KindAbilityActivated ObservationKind = "ability_activated"
	KindItemRevealed     ObservationKind = "item_revealed"
	KindTeraRevealed     ObservationKind = "tera_revealed"
	KindStatusApplied    ObservationKind = "status_applied"
	KindStatBoost        ObservationKind = "stat_boost"
	KindHazardDamage     ObservationKind = "hazard_damage"
	KindPassiveHeal      ObservationKind = "passive_heal"
	KindRecoilTaken      ObservationKind = "recoil_taken"
	KindFaint            ObservationKind = "faint"
)

func ValidObservationKind(k string) bool {
	switch ObservationKind(k) {
	case KindSwitchIn, KindMoveUsed, KindAbilityRevealed, KindAbilityActivated,
		KindItemRevealed, KindTeraRevealed, KindStatusApplied, KindStatBoost,
		KindHazardDamage, KindPassiveHeal, KindRecoilTaken, KindFaint:
		return true
	}
	return false
}

// Status conditions relevant to item inference.
const (
	StatusBurn   = "burn"
	StatusPoison = "poison"
	StatusToxic  = "toxic"
)

// Observation is one immutable, turn-stamped battle fact produced by
// an external log tokenizer. Fields beyond Kind/Subject/Turn/Seq are
// kind-specific payload; unused fields stay zero.
type Observation struct {
	// Seq totally orders the stream within one battle. Strictly
	// increasing; the engine ignores replays at or below a belief's
	// LastSeq.
	Seq  int64
	Turn int

	// Subject is the creature slot the fact is about, as emitted by
	// the tokenizer (e.g. "p2a").
	Subject string

	Kind ObservationKind

	// switch_in
	SpeciesID    string
	SubjectTypes []string

	// move_used
	Move     string
	Damaging bool
	Hits     int

	// ability_revealed / ability_activated
	Ability string
	Weather string
	Terrain string

	// item_revealed
	Item string

	// tera_revealed
	TeraType string

	// status_applied
	Status        string
	SelfInflicted bool

	// stat_boost: stat name -> stages gained this event
	Boosts map[string]int
	// FromOpponentHit marks a boost triggered by an incoming attack
	// rather than the subject's own move.
	FromOpponentHit bool
	SuperEffective  bool

	// hazard_damage
	Hazard     string
	FullDamage bool

	// passive_heal / recoil_taken, as a fraction of max HP
	HPFraction float64
	// NaturalRecoil marks recoil inherent to the move used, which
	// tells us nothing about the item.
	NaturalRecoil bool
	// OtherHealSource marks a known healing source already in play
	// (Grassy Terrain, a drain move, an ability) that explains the
	// regain without any item.
	OtherHealSource bool
}
