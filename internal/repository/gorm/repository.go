package gormrepository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tippliga/internal/models"
	"tippliga/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

// --- Fixtures ---------------------------------------------------------------

func (s *Store) GetFixture(ctx context.Context, id string) (*models.Fixture, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Fixture
	err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) RecordFixtureResultTx(ctx context.Context, tx *gorm.DB, id string, home, away int, status string) error {
	if tx == nil {
		return errors.New("nil tx")
	}
	return tx.WithContext(ctx).
		Model(&models.Fixture{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"home_score": home,
			"away_score": away,
			"status":     status,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (s *Store) MarkFixtureSettledTx(ctx context.Context, tx *gorm.DB, id string, settledAt time.Time, upset bool) error {
	if tx == nil {
		return errors.New("nil tx")
	}
	return tx.WithContext(ctx).
		Model(&models.Fixture{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"settled_at": settledAt,
			"upset":      upset,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (s *Store) ListSettlementCandidates(ctx context.Context, limit int) ([]models.Fixture, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	limit = normalizeLimit(limit, 50)
	var items []models.Fixture
	err := s.db.WithContext(ctx).
		Where("status = ?", models.FixtureStatusFinished).
		Where("home_score IS NOT NULL").
		Where("away_score IS NOT NULL").
		Where(`EXISTS (
			SELECT 1 FROM predictions p
			WHERE p.fixture_id = fixtures.id
			  AND p.scored_at IS NULL
		)`).
		Order("kickoff_at asc").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// --- Predictions ------------------------------------------------------------

func (s *Store) LockUnscoredPredictionsTx(ctx context.Context, tx *gorm.DB, fixtureID string) ([]models.Prediction, error) {
	if tx == nil {
		return nil, errors.New("nil tx")
	}
	var items []models.Prediction
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("fixture_id = ?", fixtureID).
		Where("scored_at IS NULL").
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) SavePredictionScoreTx(ctx context.Context, tx *gorm.DB, item *models.Prediction) error {
	if tx == nil {
		return errors.New("nil tx")
	}
	if item == nil || item.ID == 0 {
		return errors.New("prediction without id")
	}
	return tx.WithContext(ctx).
		Model(&models.Prediction{}).
		Where("id = ?", item.ID).
		Select("status", "tendency_points", "goal_diff_points", "exact_score_points", "total_points", "scored_at", "updated_at").
		Updates(item).Error
}

func (s *Store) ListPredictions(ctx context.Context, params repository.ListPredictionsParams) ([]models.Prediction, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Prediction{})
	if params.FixtureID != nil && strings.TrimSpace(*params.FixtureID) != "" {
		query = query.Where("fixture_id = ?", strings.TrimSpace(*params.FixtureID))
	}
	if params.PredictorID != nil && strings.TrimSpace(*params.PredictorID) != "" {
		query = query.Where("predictor_id = ?", strings.TrimSpace(*params.PredictorID))
	}
	if params.Status != nil && strings.TrimSpace(*params.Status) != "" {
		query = query.Where("status = ?", strings.TrimSpace(*params.Status))
	}
	query = applyOrder(query, params.OrderBy, params.Asc, "id")
	limit := normalizeLimit(params.Limit, 200)
	offset := normalizeOffset(params.Offset)
	var items []models.Prediction
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- Quotas -----------------------------------------------------------------

func (s *Store) UpsertFixtureQuotaTx(ctx context.Context, tx *gorm.DB, item *models.FixtureQuota) error {
	if tx == nil {
		return errors.New("nil tx")
	}
	if item == nil || strings.TrimSpace(item.FixtureID) == "" {
		return errors.New("quota without fixture id")
	}
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "fixture_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"home_quota",
			"draw_quota",
			"away_quota",
			"total_predictions",
			"home_count",
			"draw_count",
			"away_count",
			"computed_at",
		}),
	}).Create(item).Error
}

func (s *Store) GetFixtureQuota(ctx context.Context, fixtureID string) (*models.FixtureQuota, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.FixtureQuota
	err := s.db.WithContext(ctx).First(&item, "fixture_id = ?", fixtureID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// --- Predictors -------------------------------------------------------------

func (s *Store) LockPredictorTx(ctx context.Context, tx *gorm.DB, id string) (*models.Predictor, error) {
	if tx == nil {
		return nil, errors.New("nil tx")
	}
	var item models.Predictor
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) SavePredictorTx(ctx context.Context, tx *gorm.DB, item *models.Predictor) error {
	if tx == nil {
		return errors.New("nil tx")
	}
	if item == nil || strings.TrimSpace(item.ID) == "" {
		return errors.New("predictor without id")
	}
	return tx.WithContext(ctx).
		Model(&models.Predictor{}).
		Where("id = ?", item.ID).
		Select("exact_streak", "tendency_streak", "wrong_streak",
			"total_points", "fixtures_scored", "exact_count", "tendency_count", "wrong_count",
			"updated_at").
		Updates(item).Error
}

func (s *Store) GetPredictor(ctx context.Context, id string) (*models.Predictor, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Predictor
	err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListPredictors(ctx context.Context, params repository.ListPredictorsParams) ([]models.Predictor, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Predictor{})
	query = applyOrder(query, params.OrderBy, params.Asc, "total_points")
	limit := normalizeLimit(params.Limit, 100)
	offset := normalizeOffset(params.Offset)
	var items []models.Predictor
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- Settlement runs --------------------------------------------------------

func (s *Store) InsertSettlementRunTx(ctx context.Context, tx *gorm.DB, item *models.SettlementRun) error {
	if tx == nil {
		return errors.New("nil tx")
	}
	if item == nil {
		return nil
	}
	return tx.WithContext(ctx).Create(item).Error
}

func (s *Store) ListSettlementRuns(ctx context.Context, params repository.ListSettlementRunsParams) ([]models.SettlementRun, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.SettlementRun{})
	if params.FixtureID != nil && strings.TrimSpace(*params.FixtureID) != "" {
		query = query.Where("fixture_id = ?", strings.TrimSpace(*params.FixtureID))
	}
	if params.Status != nil && strings.TrimSpace(*params.Status) != "" {
		query = query.Where("status = ?", strings.TrimSpace(*params.Status))
	}
	limit := normalizeLimit(params.Limit, 100)
	offset := normalizeOffset(params.Offset)
	var items []models.SettlementRun
	if err := query.Order("created_at desc").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- helpers ----------------------------------------------------------------

var orderColumns = map[string]struct{}{
	"id":              {},
	"created_at":      {},
	"updated_at":      {},
	"kickoff_at":      {},
	"scored_at":       {},
	"total_points":    {},
	"tendency_streak": {},
	"exact_streak":    {},
}

func applyOrder(query *gorm.DB, orderBy string, asc *bool, fallback string) *gorm.DB {
	col := strings.TrimSpace(orderBy)
	if _, ok := orderColumns[col]; !ok {
		col = fallback
	}
	dir := "desc"
	if asc != nil && *asc {
		dir = "asc"
	}
	return query.Order(col + " " + dir)
}

func normalizeLimit(limit, def int) int {
	if limit <= 0 || limit > 1000 {
		return def
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
