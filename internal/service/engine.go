package service

import (
	"github.com/tbrisker/setsense/internal/domain"
	"go.uber.org/zap"
)

// Engine applies observations to beliefs: direct disclosure first,
// then constraint rules, then correlation reweighting, then
// renormalization and a fresh confidence score.
//
// The engine owns the mutation of every belief passed to Apply. Calls
// for one belief must be serialized — one battle is one ordered
// stream — but distinct beliefs and battles may be processed in
// parallel: the engine itself only reads its immutable tables.
type Engine struct {
	priors       domain.PriorSource
	rules        *RuleSet
	correlations *CorrelationTable
	logger       *zap.Logger
}

// EngineOption overrides one of the engine's static tables.
type EngineOption func(*Engine)

func WithRuleSet(r *RuleSet) EngineOption {
	return func(e *Engine) { e.rules = r }
}

func WithCorrelations(t *CorrelationTable) EngineOption {
	return func(e *Engine) { e.correlations = t }
}

func NewEngine(priors domain.PriorSource, logger *zap.Logger, opts ...EngineOption) *Engine {
	e := &Engine{
		priors:       priors,
		rules:        DefaultRuleSet(),
		correlations: DefaultCorrelationTable(),
		logger:       logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CreateBelief builds the initial belief for a species from its usage
// prior. Forme-bound species get their required item confirmed
// immediately, before any observation.
func (e *Engine) CreateBelief(speciesID string) *domain.Belief {
	b := domain.NewBelief(speciesID, e.priors.Priors(speciesID))
	if item, bound := e.rules.FormeItems[speciesID]; bound {
		b.Confirm(domain.CategoryItem, item)
		e.logger.Debug("forme-bound item confirmed",
			zap.String("species", speciesID),
			zap.String("item", item))
	}
	b.Confidence = Score(b)
	return b
}

// Apply folds one observation into the belief. It never fails on
// well-formed input; malformed observations are logged and skipped so
// the rest of the stream keeps flowing. Replaying an observation whose
// sequence number was already applied is a no-op.
func (e *Engine) Apply(b *domain.Belief, obs domain.Observation) {
	if obs.Seq != 0 && obs.Seq <= b.LastSeq {
		e.logger.Debug("replayed observation ignored",
			zap.Int64("seq", obs.Seq),
			zap.Int64("last_seq", b.LastSeq))
		return
	}

	if !domain.ValidObservationKind(string(obs.Kind)) {
		e.logger.Warn("unknown observation kind skipped",
			zap.String("kind", string(obs.Kind)),
			zap.String("subject", obs.Subject))
		return
	}

	var c Constraint

	switch obs.Kind {
	case domain.KindSwitchIn:
		// Creation-time facts (forme items) are handled in
		// CreateBelief; the sighting itself reveals nothing more.

	case domain.KindMoveUsed:
		b.ConfirmMove(obs.Move)
		c = e.rules.MoveUsed(b, obs)
		e.correlations.MoveRevealed(b, obs.Move)

	case domain.KindAbilityRevealed:
		b.Confirm(domain.CategoryAbility, obs.Ability)
		e.correlations.AbilityRevealed(b, obs.Ability)

	case domain.KindAbilityActivated:
		b.Confirm(domain.CategoryAbility, obs.Ability)
		c = e.rules.AbilityActivated(obs)
		e.correlations.AbilityRevealed(b, obs.Ability)

	case domain.KindItemRevealed:
		b.Confirm(domain.CategoryItem, obs.Item)

	case domain.KindTeraRevealed:
		b.Confirm(domain.CategoryTeraType, obs.TeraType)

	case domain.KindStatusApplied:
		c = e.rules.StatusApplied(b, obs)

	case domain.KindStatBoost:
		c = e.rules.StatBoost(obs)

	case domain.KindHazardDamage:
		c = e.rules.HazardDamage(b, obs)

	case domain.KindPassiveHeal:
		c = e.rules.PassiveHeal(obs)

	case domain.KindRecoilTaken:
		c = e.rules.RecoilTaken(obs)

	case domain.KindFaint:
		// Archival is the tracker's job; the distributions stand as
		// the final estimate of the hidden set.
	}

	e.applyConstraint(b, c)

	for _, cat := range domain.Categories() {
		if _, confirmed := b.ConfirmedValue(cat); confirmed {
			continue
		}
		b.StripEliminated(cat)
		b.Distribution(cat).Normalize()
	}

	b.TurnsSeen++
	if obs.Seq > b.LastSeq {
		b.LastSeq = obs.Seq
	}
	b.Confidence = Score(b)
}

// applyConstraint commits a rule outcome: eliminations first, then
// confirmations, then soft boosts on whatever is still live.
func (e *Engine) applyConstraint(b *domain.Belief, c Constraint) {
	if c.Empty() {
		return
	}

	for _, item := range c.EliminateItems {
		if confirmed, ok := b.ConfirmedValue(domain.CategoryItem); ok && confirmed == item {
			e.logger.Warn("rule contradicts confirmed item; elimination skipped",
				zap.String("item", item),
				zap.String("reason", c.Reason))
			continue
		}
		b.Eliminate(domain.CategoryItem, item)
	}

	if c.ConfirmAbility != "" {
		b.Confirm(domain.CategoryAbility, c.ConfirmAbility)
	}

	if c.ConfirmItem != "" {
		if b.IsEliminated(domain.CategoryItem, c.ConfirmItem) {
			e.logger.Warn("rule confirms an eliminated item; kept eliminated",
				zap.String("item", c.ConfirmItem),
				zap.String("reason", c.Reason))
		} else if b.Confirm(domain.CategoryItem, c.ConfirmItem) {
			e.logger.Debug("item confirmed by rule",
				zap.String("species", b.SpeciesID),
				zap.String("item", c.ConfirmItem),
				zap.String("reason", c.Reason))
		}
	}

	if len(c.ItemBoosts) > 0 {
		if _, confirmed := b.ConfirmedValue(domain.CategoryItem); !confirmed {
			dist := b.Distribution(domain.CategoryItem)
			for item, factor := range c.ItemBoosts {
				if b.IsEliminated(domain.CategoryItem, item) {
					continue
				}
				if p, live := dist[item]; live {
					dist[item] = p * factor
				}
			}
		}
	}
}
