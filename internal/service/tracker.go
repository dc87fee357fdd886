package service

import (
	"github.com/google/uuid"
	"github.com/tbrisker/setsense/internal/domain"
	"go.uber.org/zap"
)

// Recorder receives finished beliefs when a creature faints or the
// match ends. Persistence and model training happen behind it, outside
// this module.
type Recorder interface {
	RecordSet(battleID uuid.UUID, belief *domain.Belief)
}

// BattleTracker routes one battle's ordered observation stream to
// per-creature beliefs. A tracker is single-stream by design and does
// no locking: observations for one battle arrive in turn order from
// one goroutine. Run independent battles on independent trackers; they
// share only the immutable prior and rule tables.
type BattleTracker struct {
	battleID uuid.UUID
	engine   *Engine
	recorder Recorder
	logger   *zap.Logger

	beliefs  map[string]*domain.Belief
	archived map[string]bool
	seq      int64
}

// TrackerOption configures optional collaborators.
type TrackerOption func(*BattleTracker)

// WithRecorder attaches the archive handoff. Without one, finished
// beliefs are simply discarded.
func WithRecorder(r Recorder) TrackerOption {
	return func(t *BattleTracker) { t.recorder = r }
}

func NewBattleTracker(engine *Engine, logger *zap.Logger, opts ...TrackerOption) *BattleTracker {
	t := &BattleTracker{
		battleID: uuid.New(),
		engine:   engine,
		logger:   logger,
		beliefs:  make(map[string]*domain.Belief),
		archived: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *BattleTracker) BattleID() uuid.UUID {
	return t.battleID
}

// Belief returns the live belief for a creature slot.
func (t *BattleTracker) Belief(subject string) (*domain.Belief, bool) {
	b, ok := t.beliefs[subject]
	return b, ok
}

// Observe consumes one observation. First sighting of a slot creates
// its belief; a faint archives it. Observations for unknown or
// already-archived subjects are logged and dropped — a malformed event
// never halts the stream.
func (t *BattleTracker) Observe(obs domain.Observation) {
	if obs.Seq == 0 {
		t.seq++
		obs.Seq = t.seq
	} else if obs.Seq > t.seq {
		t.seq = obs.Seq
	}

	if t.archived[obs.Subject] {
		t.logger.Debug("observation for archived creature dropped",
			zap.String("subject", obs.Subject),
			zap.String("kind", string(obs.Kind)))
		return
	}

	b, ok := t.beliefs[obs.Subject]
	if !ok {
		if obs.Kind != domain.KindSwitchIn || obs.SpeciesID == "" {
			t.logger.Warn("observation for unknown creature dropped",
				zap.String("subject", obs.Subject),
				zap.String("kind", string(obs.Kind)))
			return
		}
		b = t.engine.CreateBelief(obs.SpeciesID)
		t.beliefs[obs.Subject] = b
		t.logger.Debug("creature first sighted",
			zap.String("subject", obs.Subject),
			zap.String("species", obs.SpeciesID),
			zap.String("belief_id", b.ID.String()))
	}

	t.engine.Apply(b, obs)

	if obs.Kind == domain.KindFaint {
		t.archive(obs.Subject, b)
	}
}

// Finish archives every remaining belief at match end.
func (t *BattleTracker) Finish() {
	for subject, b := range t.beliefs {
		if !t.archived[subject] {
			t.archive(subject, b)
		}
	}
}

func (t *BattleTracker) archive(subject string, b *domain.Belief) {
	t.archived[subject] = true
	if t.recorder != nil {
		t.recorder.RecordSet(t.battleID, b)
	}
	t.logger.Debug("belief archived",
		zap.String("subject", subject),
		zap.String("species", b.SpeciesID),
		zap.Float64("confidence", b.Confidence))
}
