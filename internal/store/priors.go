package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tbrisker/setsense/internal/domain"
	"go.uber.org/zap"
)

// statsFile is the on-disk shape of a usage-stats dump: species name
// to per-category usage percentages. It matches the moveset exports
// produced by the stats pipeline, which is external to this module.
type statsFile map[string]struct {
	Abilities map[string]float64 `json:"abilities"`
	Items     map[string]float64 `json:"items"`
	Moves     map[string]float64 `json:"moves"`
	TeraTypes map[string]float64 `json:"teraTypes"`
	Spreads   map[string]float64 `json:"spreads"`
}

// StatsStore is an in-memory usage-prior table. Load everything up
// front, then read from any number of goroutines without
// synchronization; the table is never mutated after loading.
type StatsStore struct {
	bySpecies map[string]domain.SpeciesPrior
	logger    *zap.Logger
}

func NewStatsStore(logger *zap.Logger) *StatsStore {
	return &StatsStore{
		bySpecies: make(map[string]domain.SpeciesPrior),
		logger:    logger,
	}
}

// LoadFile reads one usage-stats JSON file into the table. Later loads
// overwrite earlier entries for the same species.
func (s *StatsStore) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read stats file %s: %w", path, err)
	}
	return s.LoadJSON(data)
}

// LoadJSON parses a usage-stats dump.
func (s *StatsStore) LoadJSON(data []byte) error {
	var f statsFile
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse stats: %w", err)
	}
	for species, entry := range f {
		prior := domain.SpeciesPrior{
			domain.CategoryAbility:  entry.Abilities,
			domain.CategoryItem:     entry.Items,
			domain.CategoryMove:     entry.Moves,
			domain.CategoryTeraType: entry.TeraTypes,
			domain.CategoryEVSpread: entry.Spreads,
		}
		for cat, weights := range prior {
			if weights == nil {
				prior[cat] = map[string]float64{}
			}
		}
		s.bySpecies[species] = prior
	}
	s.logger.Info("loaded usage priors", zap.Int("species", len(s.bySpecies)))
	return nil
}

// Add seeds one species prior directly. Intended for tests and for
// hosts that carry their own stats pipeline.
func (s *StatsStore) Add(speciesID string, prior domain.SpeciesPrior) {
	s.bySpecies[speciesID] = prior.Clone()
}

// Priors returns the prior for a species. Unknown species get an
// empty prior: the belief starts uninformed and learns purely from
// observations.
func (s *StatsStore) Priors(speciesID string) domain.SpeciesPrior {
	prior, ok := s.bySpecies[speciesID]
	if !ok {
		s.logger.Debug("no usage data for species", zap.String("species", speciesID))
		return domain.SpeciesPrior{}
	}
	return prior.Clone()
}

// Species returns the number of species with loaded priors.
func (s *StatsStore) Species() int {
	return len(s.bySpecies)
}
