package service

import (
	"github.com/tbrisker/setsense/internal/domain"
)

const (
	// Boost tiers for status-orb inference. A self-inflicted status is
	// suspicious on its own; with a synergistic ability confirmed it is
	// close to certain.
	StatusOrbBaseBoost     = 5.0
	BurnOrbSynergyBoost    = 20.0
	PoisonHealSynergyBoost = 30.0
	PassiveHealItemBoost   = 3.0
	LoadedDiceBoost        = 3.0
	WeaknessPolicyBoost    = 10.0
	AmbiguousHazardBoost   = 3.0
	LeftoversHealFraction  = 1.0 / 16.0
	LifeOrbRecoilFraction  = 1.0 / 10.0
	healFractionTolerance  = 0.005
)

// Constraint is the outcome of one rule: hard eliminations and
// confirmations plus soft multiplicative boosts, with the mechanic
// that produced it.
type Constraint struct {
	EliminateItems []string
	ConfirmItem    string
	ConfirmAbility string
	ItemBoosts     map[string]float64
	Reason         string
}

func (c Constraint) Empty() bool {
	return len(c.EliminateItems) == 0 && c.ConfirmItem == "" &&
		c.ConfirmAbility == "" && len(c.ItemBoosts) == 0
}

// EnvCondition is the natural trigger of a dual-path ability: present,
// the activation proves nothing about the item; absent, it proves the
// boosting consumable.
type EnvCondition struct {
	Weather string
	Terrain string
}

// StatusOrbRule infers a status-inducing item from a self-inflicted
// status condition.
type StatusOrbRule struct {
	Item             string
	SynergyAbilities map[string]struct{}
	SynergyBoost     float64
}

// AmbiguityKey indexes the ambiguous-evidence table: an observation
// kind together with the expected effect that failed to appear.
type AmbiguityKey struct {
	Kind    domain.ObservationKind
	Missing string
}

// AmbiguousBoost equally boosts every candidate that could explain the
// missing effect. New ambiguous cases are rows here, not code paths.
type AmbiguousBoost struct {
	Candidates []string
	Factor     float64
}

// hazardProfile captures which natural circumstances fully explain
// taking zero damage from one hazard.
type hazardProfile struct {
	// immuneTypes grant immunity on their own (Toxic Spikes only).
	immuneTypes map[string]struct{}
	// groundBound hazards are sidestepped by anything airborne.
	groundBound bool
}

// RuleSet is the static, immutable table of game-mechanics constraints.
// Safe for unsynchronized concurrent reads; every battle shares one.
type RuleSet struct {
	// Items that lock the holder into a single move.
	ChoiceItems []string
	// Item that forbids non-damaging moves.
	StatusBlockedItem string
	// Item granting blanket hazard immunity.
	HazardImmunityItem string
	// Competing item explanation for hazard immunity.
	HazardImmunityAlt string
	// Ability granting blanket indirect-damage immunity.
	IndirectImmuneAbility string
	// Ability lifting the holder off the ground.
	AirborneAbility string

	// Species whose forme binds a single required item.
	FormeItems map[string]string

	// Ability -> the environmental condition that activates it without
	// any consumable.
	DualPathAbilities map[string]EnvCondition
	// The consumable that activates a dual-path ability on its own.
	BoosterItem string

	// Status condition -> orb inference.
	StatusOrbs map[string]StatusOrbRule

	// Items that passively restore 1/16 max HP each turn.
	PassiveHealItems []string

	// Moves that naturally hit 2-5 times.
	MultiHitMoves map[string]struct{}
	MultiHitItem  string

	RecoilItem string

	WeaknessPolicyItem string

	Hazards map[string]hazardProfile

	Ambiguous map[AmbiguityKey]AmbiguousBoost
}

// DefaultRuleSet returns the gen 9 rule tables.
func DefaultRuleSet() *RuleSet {
	return &RuleSet{
		ChoiceItems:           []string{"Choice Band", "Choice Specs", "Choice Scarf"},
		StatusBlockedItem:     "Assault Vest",
		HazardImmunityItem:    "Heavy-Duty Boots",
		HazardImmunityAlt:     "Air Balloon",
		IndirectImmuneAbility: "Magic Guard",
		AirborneAbility:       "Levitate",

		FormeItems: map[string]string{
			"Ogerpon-Wellspring":  "Wellspring Mask",
			"Ogerpon-Hearthflame": "Hearthflame Mask",
			"Ogerpon-Cornerstone": "Cornerstone Mask",
			"Zacian-Crowned":      "Rusted Sword",
			"Zamazenta-Crowned":   "Rusted Shield",
		},

		DualPathAbilities: map[string]EnvCondition{
			"Protosynthesis": {Weather: "Sun"},
			"Quark Drive":    {Terrain: "Electric Terrain"},
		},
		BoosterItem: "Booster Energy",

		StatusOrbs: map[string]StatusOrbRule{
			domain.StatusBurn: {
				Item: "Flame Orb",
				SynergyAbilities: map[string]struct{}{
					"Guts": {}, "Marvel Scale": {}, "Quick Feet": {},
				},
				SynergyBoost: BurnOrbSynergyBoost,
			},
			domain.StatusPoison: {
				Item: "Toxic Orb",
				SynergyAbilities: map[string]struct{}{
					"Poison Heal": {},
				},
				SynergyBoost: PoisonHealSynergyBoost,
			},
			domain.StatusToxic: {
				Item: "Toxic Orb",
				SynergyAbilities: map[string]struct{}{
					"Poison Heal": {},
				},
				SynergyBoost: PoisonHealSynergyBoost,
			},
		},

		PassiveHealItems: []string{"Leftovers", "Black Sludge"},

		MultiHitMoves: map[string]struct{}{
			"Bullet Seed": {}, "Rock Blast": {}, "Icicle Spear": {},
			"Pin Missile": {}, "Tail Slap": {}, "Scale Shot": {},
			"Bone Rush": {}, "Fury Attack": {}, "Population Bomb": {},
		},
		MultiHitItem: "Loaded Dice",

		RecoilItem: "Life Orb",

		WeaknessPolicyItem: "Weakness Policy",

		Hazards: map[string]hazardProfile{
			"Stealth Rock": {},
			"Spikes":       {groundBound: true},
			"Sticky Web":   {groundBound: true},
			"Toxic Spikes": {
				groundBound: true,
				immuneTypes: map[string]struct{}{"Poison": {}, "Steel": {}},
			},
		},

		Ambiguous: map[AmbiguityKey]AmbiguousBoost{
			{Kind: domain.KindHazardDamage, Missing: "hazard damage"}: {
				Candidates: []string{"Heavy-Duty Boots", "Air Balloon"},
				Factor:     AmbiguousHazardBoost,
			},
		},
	}
}

// MoveUsed derives constraints from a move reveal: a second distinct
// move rules out move-locking items, a non-damaging move rules out the
// item that forbids them, and a long multi-hit chain hints at the
// roll-fixing item.
func (r *RuleSet) MoveUsed(b *domain.Belief, obs domain.Observation) Constraint {
	var c Constraint

	if len(b.RevealedMoves) >= 2 {
		c.EliminateItems = append(c.EliminateItems, r.ChoiceItems...)
		c.Reason = "two distinct moves used; move-locking items impossible"
	}

	if !obs.Damaging {
		c.EliminateItems = append(c.EliminateItems, r.StatusBlockedItem)
		if c.Reason == "" {
			c.Reason = "non-damaging move used"
		}
	}

	if _, multi := r.MultiHitMoves[obs.Move]; multi && obs.Hits >= 4 {
		c.ItemBoosts = map[string]float64{r.MultiHitItem: LoadedDiceBoost}
		if c.Reason == "" {
			c.Reason = "multi-hit move landed 4+ hits"
		}
	}

	return c
}

// AbilityActivated handles dual-path abilities. Activation without the
// natural condition proves the consumable; with it, the item stays
// ambiguous and untouched.
func (r *RuleSet) AbilityActivated(obs domain.Observation) Constraint {
	cond, ok := r.DualPathAbilities[obs.Ability]
	if !ok {
		return Constraint{}
	}
	natural := (cond.Weather != "" && obs.Weather == cond.Weather) ||
		(cond.Terrain != "" && obs.Terrain == cond.Terrain)
	if natural {
		return Constraint{
			ConfirmAbility: obs.Ability,
			Reason:         "ability activated under its natural condition; item unknown",
		}
	}
	return Constraint{
		ConfirmAbility: obs.Ability,
		ConfirmItem:    r.BoosterItem,
		Reason:         "ability activated without its natural condition",
	}
}

// StatusApplied infers status orbs from a status the creature gave
// itself on its own turn.
func (r *RuleSet) StatusApplied(b *domain.Belief, obs domain.Observation) Constraint {
	if !obs.SelfInflicted {
		return Constraint{}
	}
	rule, ok := r.StatusOrbs[obs.Status]
	if !ok {
		return Constraint{}
	}
	boost := StatusOrbBaseBoost
	reason := "status self-inflicted on own turn"
	if _, synergy := rule.SynergyAbilities[b.RevealedAbility]; synergy {
		boost = rule.SynergyBoost
		reason = "status self-inflicted with synergistic ability confirmed"
	}
	return Constraint{
		ItemBoosts: map[string]float64{rule.Item: boost},
		Reason:     reason,
	}
}

// HazardDamage resolves hazard evidence on switch-in. Taking full
// damage rules the immunity item out. Taking none confirms it when no
// natural immunity applies, stays silent when one fully explains the
// miss, and otherwise boosts every ambiguous candidate.
func (r *RuleSet) HazardDamage(b *domain.Belief, obs domain.Observation) Constraint {
	profile, known := r.Hazards[obs.Hazard]
	if !known {
		return Constraint{}
	}

	if obs.FullDamage {
		return Constraint{
			EliminateItems: []string{r.HazardImmunityItem},
			Reason:         "took full hazard damage",
		}
	}

	if b.RevealedAbility == r.IndirectImmuneAbility {
		return Constraint{}
	}

	if profile.groundBound {
		for _, t := range obs.SubjectTypes {
			if t == "Flying" {
				return Constraint{}
			}
			if _, immune := profile.immuneTypes[t]; immune {
				return Constraint{}
			}
		}
		if b.RevealedAbility == r.AirborneAbility {
			return Constraint{}
		}
		amb := r.Ambiguous[AmbiguityKey{Kind: domain.KindHazardDamage, Missing: "hazard damage"}]
		boosts := make(map[string]float64, len(amb.Candidates))
		for _, item := range amb.Candidates {
			boosts[item] = amb.Factor
		}
		return Constraint{
			ItemBoosts: boosts,
			Reason:     "no hazard damage; multiple item explanations remain",
		}
	}

	// Nothing natural avoids this hazard: immunity proves the item.
	return Constraint{
		ConfirmItem: r.HazardImmunityItem,
		Reason:      "no hazard damage and no natural immunity",
	}
}

// PassiveHeal hints at passive-regen items when an end-of-turn regain
// of exactly 1/16 max HP has no other explanation.
func (r *RuleSet) PassiveHeal(obs domain.Observation) Constraint {
	if obs.OtherHealSource {
		return Constraint{}
	}
	if !nearFraction(obs.HPFraction, LeftoversHealFraction) {
		return Constraint{}
	}
	boosts := make(map[string]float64, len(r.PassiveHealItems))
	for _, item := range r.PassiveHealItems {
		boosts[item] = PassiveHealItemBoost
	}
	return Constraint{
		ItemBoosts: boosts,
		Reason:     "unexplained 1/16 end-of-turn heal",
	}
}

// RecoilTaken confirms the recoil item when a move with no natural
// recoil still cost the user a tenth of its HP.
func (r *RuleSet) RecoilTaken(obs domain.Observation) Constraint {
	if obs.NaturalRecoil {
		return Constraint{}
	}
	if !nearFraction(obs.HPFraction, LifeOrbRecoilFraction) {
		return Constraint{}
	}
	return Constraint{
		ConfirmItem: r.RecoilItem,
		Reason:      "1/10 recoil from a recoil-free move",
	}
}

// StatBoost hints at the reactive boosting item when an incoming
// super-effective hit raised both offenses unprompted.
func (r *RuleSet) StatBoost(obs domain.Observation) Constraint {
	if !obs.FromOpponentHit || !obs.SuperEffective {
		return Constraint{}
	}
	if obs.Boosts["atk"] < 1 || obs.Boosts["spa"] < 1 {
		return Constraint{}
	}
	return Constraint{
		ItemBoosts: map[string]float64{r.WeaknessPolicyItem: WeaknessPolicyBoost},
		Reason:     "both offenses rose after a super-effective hit",
	}
}

func nearFraction(got, want float64) bool {
	diff := got - want
	if diff < 0 {
		diff = -diff
	}
	return diff <= healFractionTolerance
}
