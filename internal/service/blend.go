package service

import (
	"context"
	"errors"

	"github.com/tbrisker/setsense/internal/domain"
	"go.uber.org/zap"
)

// ErrBlendUnavailable reports that the external model could not
// contribute: absent, untrained, or failing. The belief output is
// still valid; callers may log the condition but must not treat it as
// fatal.
var ErrBlendUnavailable = errors.New("external model unavailable")

// Blend mix-weight steps: pure belief until enough finished sets have
// been recorded, then a growing share of the learned model, capped so
// the usage-prior baseline always keeps a vote.
var mixWeightSteps = []struct {
	minSamples int
	weight     float64
}{
	{1000, 0.7},
	{500, 0.6},
	{200, 0.5},
	{100, 0.4},
	{50, 0.2},
}

// MixWeight returns the external model's share for a cumulative
// recorded-sample count.
func MixWeight(samples int) float64 {
	for _, step := range mixWeightSteps {
		if samples >= step.minSamples {
			return step.weight
		}
	}
	return 0
}

// PredictContext is what the external model sees about the creature
// being predicted.
type PredictContext struct {
	SpeciesID       string
	RevealedMoves   []string
	RevealedAbility string
	Turn            int
}

// Predictor is the replaceable learned-model collaborator. Training
// and serving live outside this module.
type Predictor interface {
	Trained() bool
	Predict(ctx context.Context, pc PredictContext) (map[domain.Category]domain.Distribution, error)
}

// Blender mixes belief distributions with an external model's output.
// Fail-open: any trouble with the model leaves the belief untouched.
type Blender struct {
	predictor Predictor
	logger    *zap.Logger
}

func NewBlender(predictor Predictor, logger *zap.Logger) *Blender {
	return &Blender{predictor: predictor, logger: logger}
}

// Blend folds the external model into the belief's unconfirmed
// categories under the sample-count mix weight. Confirmed singleton
// categories pass through unchanged; eliminated names are excluded
// from both contributions. Returns ErrBlendUnavailable when the model
// could not be consulted — the belief is left as pure inference.
func (bl *Blender) Blend(ctx context.Context, b *domain.Belief, samples int) error {
	weight := MixWeight(samples)
	if weight == 0 {
		return nil
	}

	if bl.predictor == nil || !bl.predictor.Trained() {
		return ErrBlendUnavailable
	}

	pc := PredictContext{
		SpeciesID:       b.SpeciesID,
		RevealedAbility: b.RevealedAbility,
		Turn:            b.TurnsSeen,
	}
	for move := range b.RevealedMoves {
		pc.RevealedMoves = append(pc.RevealedMoves, move)
	}

	external, err := bl.predictor.Predict(ctx, pc)
	if err != nil {
		bl.logger.Warn("external model call failed; using pure belief",
			zap.String("species", b.SpeciesID),
			zap.Error(err))
		return ErrBlendUnavailable
	}
	if len(external) == 0 {
		return ErrBlendUnavailable
	}

	BlendWith(b, external, weight)
	return nil
}

// BlendWith mixes explicit external distributions into the belief at
// the given weight. Confirmed singleton categories pass through; a
// weight of 0 leaves the belief untouched and a weight of 1 adopts the
// external distribution restricted to non-eliminated names.
func BlendWith(b *domain.Belief, external map[domain.Category]domain.Distribution, weight float64) {
	if weight <= 0 {
		return
	}
	if weight > 1 {
		weight = 1
	}
	for cat, extDist := range external {
		if !domain.ValidCategory(string(cat)) {
			continue
		}
		if _, confirmed := b.ConfirmedValue(cat); confirmed {
			continue
		}
		blendCategory(b, cat, extDist, weight)
	}
	b.Confidence = Score(b)
}

func blendCategory(b *domain.Belief, cat domain.Category, external domain.Distribution, weight float64) {
	beliefDist := b.Distribution(cat)

	names := make(map[string]struct{}, len(beliefDist)+len(external))
	for name := range beliefDist {
		names[name] = struct{}{}
	}
	for name := range external {
		names[name] = struct{}{}
	}

	blended := make(domain.Distribution, len(names))
	for name := range names {
		if b.IsEliminated(cat, name) {
			continue
		}
		blended[name] = (1-weight)*beliefDist[name] + weight*external[name]
	}
	blended.Normalize()
	b.Dists[cat] = blended
}
