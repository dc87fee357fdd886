package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tbrisker/setsense/internal/domain"
	"go.uber.org/zap"
)

const sampleStats = `{
	"Kingambit": {
		"abilities": {"Supreme Overlord": 95.1, "Defiant": 4.9},
		"items": {"Leftovers": 40.0, "Black Glasses": 30.0, "Air Balloon": 30.0},
		"moves": {"Kowtow Cleave": 90.0, "Sucker Punch": 85.0, "Iron Head": 60.0, "Swords Dance": 55.0},
		"teraTypes": {"Dark": 50.0, "Flying": 30.0, "Fire": 20.0},
		"spreads": {"Adamant:252/252/0/0/4/0": 60.0, "Jolly:252/252/0/0/4/0": 40.0}
	},
	"Gholdengo": {
		"abilities": {"Good as Gold": 100.0},
		"items": {"Choice Scarf": 50.0, "Air Balloon": 50.0},
		"moves": {"Make It Rain": 95.0, "Shadow Ball": 80.0}
	}
}`

func TestLoadJSON(t *testing.T) {
	s := NewStatsStore(zap.NewNop())
	require.NoError(t, s.LoadJSON([]byte(sampleStats)))
	assert.Equal(t, 2, s.Species())

	prior := s.Priors("Kingambit")
	assert.InDelta(t, 95.1, prior[domain.CategoryAbility]["Supreme Overlord"], 1e-9)
	assert.Len(t, prior[domain.CategoryMove], 4)
	assert.Len(t, prior[domain.CategoryEVSpread], 2)
}

func TestLoadJSONFillsMissingCategories(t *testing.T) {
	s := NewStatsStore(zap.NewNop())
	require.NoError(t, s.LoadJSON([]byte(sampleStats)))

	prior := s.Priors("Gholdengo")
	assert.NotNil(t, prior[domain.CategoryTeraType])
	assert.Empty(t, prior[domain.CategoryTeraType])
	assert.NotNil(t, prior[domain.CategoryEVSpread])
}

func TestLoadJSONMalformed(t *testing.T) {
	s := NewStatsStore(zap.NewNop())
	assert.Error(t, s.LoadJSON([]byte(`{"Kingambit": [1, 2]}`)))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleStats), 0o600))

	s := NewStatsStore(zap.NewNop())
	require.NoError(t, s.LoadFile(path))
	assert.Equal(t, 2, s.Species())
}

func TestLoadFileMissing(t *testing.T) {
	s := NewStatsStore(zap.NewNop())
	assert.Error(t, s.LoadFile(filepath.Join(t.TempDir(), "nope.json")))
}

func TestPriorsUnknownSpecies(t *testing.T) {
	s := NewStatsStore(zap.NewNop())
	prior := s.Priors("Missingno")
	assert.NotNil(t, prior)
	assert.Empty(t, prior)
}

func TestPriorsReturnsACopy(t *testing.T) {
	s := NewStatsStore(zap.NewNop())
	s.Add("Kingambit", domain.SpeciesPrior{
		domain.CategoryItem: {"Leftovers": 100},
	})

	first := s.Priors("Kingambit")
	first[domain.CategoryItem]["Leftovers"] = 0
	first[domain.CategoryItem]["Choice Band"] = 50

	second := s.Priors("Kingambit")
	assert.InDelta(t, 100, second[domain.CategoryItem]["Leftovers"], 1e-9)
	assert.NotContains(t, second[domain.CategoryItem], "Choice Band")
}

func TestAddClonesInput(t *testing.T) {
	s := NewStatsStore(zap.NewNop())
	prior := domain.SpeciesPrior{
		domain.CategoryItem: {"Leftovers": 100},
	}
	s.Add("Kingambit", prior)
	prior[domain.CategoryItem]["Leftovers"] = 0

	assert.InDelta(t, 100, s.Priors("Kingambit")[domain.CategoryItem]["Leftovers"], 1e-9)
}

func TestLaterLoadOverwritesSpecies(t *testing.T) {
	s := NewStatsStore(zap.NewNop())
	require.NoError(t, s.LoadJSON([]byte(sampleStats)))
	require.NoError(t, s.LoadJSON([]byte(`{
		"Kingambit": {"items": {"Choice Band": 100.0}}
	}`)))

	prior := s.Priors("Kingambit")
	assert.Equal(t, map[string]float64{"Choice Band": 100.0}, prior[domain.CategoryItem])
	assert.Empty(t, prior[domain.CategoryAbility])
}
