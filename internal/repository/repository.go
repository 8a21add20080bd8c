package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"tippliga/internal/models"
)

type ListPredictionsParams struct {
	Limit       int
	Offset      int
	FixtureID   *string
	PredictorID *string
	Status      *string
	OrderBy     string
	Asc         *bool
}

type ListPredictorsParams struct {
	Limit   int
	Offset  int
	OrderBy string
	Asc     *bool
}

type ListSettlementRunsParams struct {
	Limit     int
	Offset    int
	FixtureID *string
	Status    *string
}

// Repository is the persistence surface of the settlement engine. The *Tx
// variants run against an open transaction handed out by InTx; everything
// the coordinator writes goes through them so one fixture settles as a
// single atomic unit.
type Repository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error

	// Fixtures. Settlement only records the final result, the settlement
	// marker and the upset flag; ingestion owns the rest of the row.
	GetFixture(ctx context.Context, id string) (*models.Fixture, error)
	RecordFixtureResultTx(ctx context.Context, tx *gorm.DB, id string, home, away int, status string) error
	MarkFixtureSettledTx(ctx context.Context, tx *gorm.DB, id string, settledAt time.Time, upset bool) error
	// ListSettlementCandidates returns finished fixtures with final scores
	// that still carry unscored, non-void predictions.
	ListSettlementCandidates(ctx context.Context, limit int) ([]models.Fixture, error)

	// Predictions. LockUnscoredPredictionsTx is the idempotency linchpin:
	// it acquires FOR UPDATE row locks on exactly the predictions whose
	// scored_at marker is still unset. Zero rows means the fixture is
	// already settled and the caller short-circuits to a no-op.
	LockUnscoredPredictionsTx(ctx context.Context, tx *gorm.DB, fixtureID string) ([]models.Prediction, error)
	SavePredictionScoreTx(ctx context.Context, tx *gorm.DB, item *models.Prediction) error
	ListPredictions(ctx context.Context, params ListPredictionsParams) ([]models.Prediction, error)

	// Quotas: one row per fixture, replaceable.
	UpsertFixtureQuotaTx(ctx context.Context, tx *gorm.DB, item *models.FixtureQuota) error
	GetFixtureQuota(ctx context.Context, fixtureID string) (*models.FixtureQuota, error)

	// Predictors. LockPredictorTx holds the row lock across the
	// read-modify-write of the streak state.
	LockPredictorTx(ctx context.Context, tx *gorm.DB, id string) (*models.Predictor, error)
	SavePredictorTx(ctx context.Context, tx *gorm.DB, item *models.Predictor) error
	GetPredictor(ctx context.Context, id string) (*models.Predictor, error)
	ListPredictors(ctx context.Context, params ListPredictorsParams) ([]models.Predictor, error)

	// Settlement run audit trail.
	InsertSettlementRunTx(ctx context.Context, tx *gorm.DB, item *models.SettlementRun) error
	ListSettlementRuns(ctx context.Context, params ListSettlementRunsParams) ([]models.SettlementRun, error)
}
