package service

import (
	"sort"

	"github.com/tbrisker/setsense/internal/domain"
	"go.uber.org/zap"
)

// Threat levels for a predicted move against the active defender.
const (
	ThreatLow    = "Low"
	ThreatMedium = "Medium"
	ThreatHigh   = "High"
	ThreatLethal = "Lethal"
)

// ThreatEvaluator is the damage-formula collaborator: it scores how
// dangerous one move from the attacker is to the defender, in [0, 1]
// of the defender's remaining HP. The formula itself lives outside
// this module.
type ThreatEvaluator interface {
	EvaluateThreat(attackerSpecies, defenderSpecies, move string) (float64, error)
}

// MoveRecommendation is one predicted next move, most dangerous
// explanation attached.
type MoveRecommendation struct {
	Move        string
	Probability float64
	ThreatLevel string
}

// Recommender ranks the opponent's likely next moves from a belief.
// It is a downstream consumer of beliefs; the update engine never
// consults it.
type Recommender struct {
	threats ThreatEvaluator
	logger  *zap.Logger
}

func NewRecommender(threats ThreatEvaluator, logger *zap.Logger) *Recommender {
	return &Recommender{threats: threats, logger: logger}
}

// PredictNextMoves ranks candidate moves: every revealed move plus the
// top unrevealed predictions up to a full four-move set. Belief
// probability and threat each contribute; threat evaluation is
// fail-open and a failing evaluator just drops its contribution.
func (r *Recommender) PredictNextMoves(b *domain.Belief, defenderSpecies string, n int) []MoveRecommendation {
	type candidate struct {
		move string
		prob float64
	}

	var candidates []candidate
	for move := range b.RevealedMoves {
		candidates = append(candidates, candidate{move: move, prob: 1.0})
	}
	remaining := domain.MaxRevealedMoves - len(candidates)
	if remaining > 0 {
		for _, c := range b.TopCandidates(domain.CategoryMove, remaining) {
			candidates = append(candidates, candidate{move: c.Name, prob: c.Probability})
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	recs := make([]MoveRecommendation, 0, len(candidates))
	for _, c := range candidates {
		score := c.prob
		level := ThreatLow

		if r.threats != nil {
			threat, err := r.threats.EvaluateThreat(b.SpeciesID, defenderSpecies, c.move)
			if err != nil {
				r.logger.Debug("threat evaluation failed",
					zap.String("move", c.move),
					zap.Error(err))
			} else {
				score += threat
				level = threatLevel(threat)
			}
		}

		recs = append(recs, MoveRecommendation{
			Move:        c.move,
			Probability: score,
			ThreatLevel: level,
		})
	}

	var total float64
	for _, rec := range recs {
		total += rec.Probability
	}
	if total > 0 {
		for i := range recs {
			recs[i].Probability /= total
		}
	}

	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Probability != recs[j].Probability {
			return recs[i].Probability > recs[j].Probability
		}
		return recs[i].Move < recs[j].Move
	})

	if n > 0 && len(recs) > n {
		recs = recs[:n]
	}
	return recs
}

func threatLevel(threat float64) string {
	switch {
	case threat >= 1.0:
		return ThreatLethal
	case threat >= 0.6:
		return ThreatHigh
	case threat >= 0.3:
		return ThreatMedium
	default:
		return ThreatLow
	}
}
