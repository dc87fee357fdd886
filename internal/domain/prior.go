package domain

// SpeciesPrior holds population-usage weights for one species,
// per category. Weights are usage percentages in [0, 100] and need not
// sum to anything in particular; NewBelief normalizes them.
type SpeciesPrior map[Category]map[string]float64

// Clone deep-copies the prior so a caller can't mutate shared tables.
func (p SpeciesPrior) Clone() SpeciesPrior {
	out := make(SpeciesPrior, len(p))
	for cat, weights := range p {
		m := make(map[string]float64, len(weights))
		for name, w := range weights {
			m[name] = w
		}
		out[cat] = m
	}
	return out
}

// PriorSource supplies usage priors. A species absent from the source
// yields an empty prior, never an error. Implementations must be safe
// for unsynchronized concurrent reads once loaded.
type PriorSource interface {
	Priors(speciesID string) SpeciesPrior
}
