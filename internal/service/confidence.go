package service

import (
	"github.com/tbrisker/setsense/internal/domain"
)

const (
	// Weighting between hard revealed facts and distribution shape.
	revealedWeight     = 0.6
	distributionWeight = 0.4

	// A full set is six revealable facts: four moves, ability, item.
	maxRevealableFacts = 6
)

// Score summarizes how certain the belief is, in [0, 1]. It blends how
// much has been directly revealed with how concentrated the remaining
// ability, item and move distributions are (max probability as an
// entropy proxy). A fresh belief over empty priors scores exactly 0.
func Score(b *domain.Belief) float64 {
	base := clamp01(float64(b.RevealedFactCount()) / maxRevealableFacts)

	concentration := (b.Distribution(domain.CategoryAbility).Max() +
		b.Distribution(domain.CategoryItem).Max() +
		b.Distribution(domain.CategoryMove).Max()) / 3.0

	return clamp01(revealedWeight*base + distributionWeight*clamp01(concentration))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
