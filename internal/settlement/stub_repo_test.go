package settlement

import (
	"context"
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	"tippliga/internal/models"
	"tippliga/internal/repository"
)

// stubRepo is a test-only in-memory implementation of repository.Repository.
// InTx stages all writes on a cloned state and promotes it only when the
// transaction body returns nil, which lets tests assert rollback behavior.
type stubRepo struct {
	state *stubState
	tx    *stubState

	failLockPredictor string
	failTxTimes       int
	txError           error
}

type stubState struct {
	fixtures    map[string]models.Fixture
	predictions map[uint64]models.Prediction
	quotas      map[string]models.FixtureQuota
	predictors  map[string]models.Predictor
	runs        []models.SettlementRun
}

func newStubRepo() *stubRepo {
	return &stubRepo{state: &stubState{
		fixtures:    map[string]models.Fixture{},
		predictions: map[uint64]models.Prediction{},
		quotas:      map[string]models.FixtureQuota{},
		predictors:  map[string]models.Predictor{},
	}}
}

func (st *stubState) clone() *stubState {
	out := &stubState{
		fixtures:    make(map[string]models.Fixture, len(st.fixtures)),
		predictions: make(map[uint64]models.Prediction, len(st.predictions)),
		quotas:      make(map[string]models.FixtureQuota, len(st.quotas)),
		predictors:  make(map[string]models.Predictor, len(st.predictors)),
		runs:        append([]models.SettlementRun(nil), st.runs...),
	}
	for k, v := range st.fixtures {
		out.fixtures[k] = v
	}
	for k, v := range st.predictions {
		out.predictions[k] = v
	}
	for k, v := range st.quotas {
		out.quotas[k] = v
	}
	for k, v := range st.predictors {
		out.predictors[k] = v
	}
	return out
}

func (s *stubRepo) cur() *stubState {
	if s.tx != nil {
		return s.tx
	}
	return s.state
}

func (s *stubRepo) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s.failTxTimes > 0 {
		s.failTxTimes--
		if s.txError != nil {
			return s.txError
		}
		return errors.New("deadlock detected")
	}
	s.tx = s.state.clone()
	err := fn(nil)
	if err == nil {
		s.state = s.tx
	}
	s.tx = nil
	return err
}

func (s *stubRepo) GetFixture(ctx context.Context, id string) (*models.Fixture, error) {
	if f, ok := s.cur().fixtures[id]; ok {
		out := f
		return &out, nil
	}
	return nil, nil
}

func (s *stubRepo) RecordFixtureResultTx(ctx context.Context, tx *gorm.DB, id string, home, away int, status string) error {
	st := s.cur()
	f, ok := st.fixtures[id]
	if !ok {
		return nil
	}
	f.HomeScore = &home
	f.AwayScore = &away
	f.Status = status
	st.fixtures[id] = f
	return nil
}

func (s *stubRepo) MarkFixtureSettledTx(ctx context.Context, tx *gorm.DB, id string, settledAt time.Time, upset bool) error {
	st := s.cur()
	f, ok := st.fixtures[id]
	if !ok {
		return nil
	}
	f.SettledAt = &settledAt
	f.Upset = upset
	st.fixtures[id] = f
	return nil
}

func (s *stubRepo) ListSettlementCandidates(ctx context.Context, limit int) ([]models.Fixture, error) {
	var out []models.Fixture
	for _, f := range s.cur().fixtures {
		if !f.HasFinalResult() {
			continue
		}
		for _, p := range s.cur().predictions {
			if p.FixtureID == f.ID && p.ScoredAt == nil {
				out = append(out, f)
				break
			}
		}
	}
	return out, nil
}

func (s *stubRepo) LockUnscoredPredictionsTx(ctx context.Context, tx *gorm.DB, fixtureID string) ([]models.Prediction, error) {
	var out []models.Prediction
	for _, p := range s.cur().predictions {
		if p.FixtureID == fixtureID && p.ScoredAt == nil {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubRepo) SavePredictionScoreTx(ctx context.Context, tx *gorm.DB, item *models.Prediction) error {
	if item == nil {
		return nil
	}
	s.cur().predictions[item.ID] = *item
	return nil
}

func (s *stubRepo) ListPredictions(ctx context.Context, params repository.ListPredictionsParams) ([]models.Prediction, error) {
	var out []models.Prediction
	for _, p := range s.cur().predictions {
		if params.FixtureID != nil && p.FixtureID != *params.FixtureID {
			continue
		}
		if params.PredictorID != nil && p.PredictorID != *params.PredictorID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *stubRepo) UpsertFixtureQuotaTx(ctx context.Context, tx *gorm.DB, item *models.FixtureQuota) error {
	if item == nil {
		return nil
	}
	s.cur().quotas[item.FixtureID] = *item
	return nil
}

func (s *stubRepo) GetFixtureQuota(ctx context.Context, fixtureID string) (*models.FixtureQuota, error) {
	if q, ok := s.cur().quotas[fixtureID]; ok {
		out := q
		return &out, nil
	}
	return nil, nil
}

func (s *stubRepo) LockPredictorTx(ctx context.Context, tx *gorm.DB, id string) (*models.Predictor, error) {
	if s.failLockPredictor != "" && id == s.failLockPredictor {
		return nil, errors.New("lock timeout")
	}
	if p, ok := s.cur().predictors[id]; ok {
		out := p
		return &out, nil
	}
	return nil, nil
}

func (s *stubRepo) SavePredictorTx(ctx context.Context, tx *gorm.DB, item *models.Predictor) error {
	if item == nil {
		return nil
	}
	s.cur().predictors[item.ID] = *item
	return nil
}

func (s *stubRepo) GetPredictor(ctx context.Context, id string) (*models.Predictor, error) {
	if p, ok := s.cur().predictors[id]; ok {
		out := p
		return &out, nil
	}
	return nil, nil
}

func (s *stubRepo) ListPredictors(ctx context.Context, params repository.ListPredictorsParams) ([]models.Predictor, error) {
	var out []models.Predictor
	for _, p := range s.cur().predictors {
		out = append(out, p)
	}
	return out, nil
}

func (s *stubRepo) InsertSettlementRunTx(ctx context.Context, tx *gorm.DB, item *models.SettlementRun) error {
	if item == nil {
		return nil
	}
	st := s.cur()
	st.runs = append(st.runs, *item)
	return nil
}

func (s *stubRepo) ListSettlementRuns(ctx context.Context, params repository.ListSettlementRunsParams) ([]models.SettlementRun, error) {
	return append([]models.SettlementRun(nil), s.cur().runs...), nil
}
