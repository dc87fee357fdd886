package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tbrisker/setsense/internal/domain"
	"go.uber.org/zap"
)

type stubThreats map[string]float64

func (s stubThreats) EvaluateThreat(_, _, move string) (float64, error) {
	threat, ok := s[move]
	if !ok {
		return 0, errors.New("no damage data")
	}
	return threat, nil
}

func recommenderBelief() *domain.Belief {
	b := domain.NewBelief("Kingambit", domain.SpeciesPrior{
		domain.CategoryMove: {
			"Sucker Punch": 40, "Iron Head": 30, "Swords Dance": 20, "Low Kick": 10,
		},
	})
	b.ConfirmMove("Sucker Punch")
	return b
}

func TestPredictNextMovesWithoutEvaluator(t *testing.T) {
	r := NewRecommender(nil, zap.NewNop())
	recs := r.PredictNextMoves(recommenderBelief(), "Gholdengo", 0)

	require.Len(t, recs, 4)
	assert.Equal(t, "Sucker Punch", recs[0].Move, "revealed moves outrank predictions")
	assert.Equal(t, "Iron Head", recs[1].Move)
	assert.Equal(t, "Swords Dance", recs[2].Move)
	assert.Equal(t, "Low Kick", recs[3].Move)

	// Scores 1.0, 0.3, 0.2, 0.1 over a 1.6 total.
	assert.InDelta(t, 0.625, recs[0].Probability, 1e-9)
	assert.InDelta(t, 0.1875, recs[1].Probability, 1e-9)

	var sum float64
	for _, rec := range recs {
		assert.Equal(t, ThreatLow, rec.ThreatLevel)
		sum += rec.Probability
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestPredictNextMovesThreatContribution(t *testing.T) {
	threats := stubThreats{
		"Sucker Punch": 0.7,
		"Iron Head":    1.2,
		"Swords Dance": 0.0,
		// Low Kick missing: the evaluator fails for it.
	}
	r := NewRecommender(threats, zap.NewNop())
	recs := r.PredictNextMoves(recommenderBelief(), "Gholdengo", 0)

	require.Len(t, recs, 4)
	assert.Equal(t, "Sucker Punch", recs[0].Move)
	assert.Equal(t, ThreatHigh, recs[0].ThreatLevel)
	assert.Equal(t, "Iron Head", recs[1].Move)
	assert.Equal(t, ThreatLethal, recs[1].ThreatLevel)
	assert.Equal(t, "Swords Dance", recs[2].Move)
	assert.Equal(t, ThreatLow, recs[2].ThreatLevel)
	assert.Equal(t, "Low Kick", recs[3].Move)
	assert.Equal(t, ThreatLow, recs[3].ThreatLevel, "a failing evaluator drops its contribution")

	// Scores 1.7, 1.5, 0.2, 0.1 over a 3.5 total.
	assert.InDelta(t, 1.7/3.5, recs[0].Probability, 1e-9)
	assert.InDelta(t, 0.1/3.5, recs[3].Probability, 1e-9)
}

func TestPredictNextMovesTruncatesToN(t *testing.T) {
	r := NewRecommender(nil, zap.NewNop())
	recs := r.PredictNextMoves(recommenderBelief(), "Gholdengo", 2)

	require.Len(t, recs, 2)
	assert.Equal(t, "Sucker Punch", recs[0].Move)
	assert.Equal(t, "Iron Head", recs[1].Move)
}

func TestPredictNextMovesEmptyBelief(t *testing.T) {
	r := NewRecommender(nil, zap.NewNop())
	b := domain.NewBelief("Missingno", domain.SpeciesPrior{})
	assert.Nil(t, r.PredictNextMoves(b, "Gholdengo", 4))
}

func TestThreatLevelThresholds(t *testing.T) {
	tests := []struct {
		threat float64
		want   string
	}{
		{0.0, ThreatLow},
		{0.29, ThreatLow},
		{0.3, ThreatMedium},
		{0.59, ThreatMedium},
		{0.6, ThreatHigh},
		{0.99, ThreatHigh},
		{1.0, ThreatLethal},
		{1.8, ThreatLethal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, threatLevel(tt.threat), "threat=%v", tt.threat)
	}
}
