// Package settlement orchestrates match settlement: one transaction per
// fixture that locks the unscored predictions, derives quotas, awards
// points, moves predictor streaks and commits — followed by post-commit
// cache invalidation. Duplicate or retried triggers are safe: a second
// invocation finds no lockable rows and exits as a no-op.
package settlement

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"tippliga/internal/cache"
	"tippliga/internal/config"
	"tippliga/internal/metrics"
	"tippliga/internal/models"
	"tippliga/internal/repository"
	"tippliga/internal/scoring"
)

var (
	ErrInvalidTrigger  = errors.New("invalid settlement trigger")
	ErrFixtureNotFound = errors.New("fixture not found")
)

// Trigger is the inbound settlement payload, delivered at least once.
type Trigger struct {
	FixtureID string
	HomeScore int
	AwayScore int
	Status    string
}

// Result describes one committed settlement.
type Result struct {
	RunID             string
	FixtureID         string
	Status            string
	PredictionsScored int
	StreaksUpdated    int
	Upset             bool
	Quotas            *scoring.QuotaSet
	CachePatterns     []string
}

type Coordinator struct {
	Repo    repository.Repository
	Cache   *cache.Invalidator
	Logger  *zap.Logger
	Metrics *metrics.Settlement
	Scoring scoring.Config
	Config  config.SettlementConfig
}

// Settle runs one settlement attempt for the trigger, retrying the whole
// attempt on transient transaction conflicts. Everything up to commit is
// one transaction; cache invalidation strictly follows a successful
// commit.
func (c *Coordinator) Settle(ctx context.Context, trig Trigger) (Result, error) {
	if err := validateTrigger(trig); err != nil {
		return Result{}, err
	}

	attempts := c.Config.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	delay := c.Config.RetryDelay
	if delay <= 0 {
		delay = 200 * time.Millisecond
	}

	start := time.Now()
	var last error
	for attempt := 1; attempt <= attempts; attempt++ {
		res, err := c.attempt(ctx, trig)
		if err == nil {
			c.observe(res, time.Since(start))
			c.notify(ctx, res)
			return res, nil
		}
		last = err
		if !isRetryableTxError(err) {
			break
		}
		c.logWarn("settlement attempt conflicted, retrying", err,
			zap.String("fixture_id", trig.FixtureID), zap.Int("attempt", attempt))
		select {
		case <-ctx.Done():
			last = ctx.Err()
			attempt = attempts
		case <-time.After(delay):
		}
	}
	if c.Metrics != nil {
		c.Metrics.Runs.WithLabelValues("aborted").Inc()
	}
	return Result{}, last
}

func (c *Coordinator) attempt(ctx context.Context, trig Trigger) (Result, error) {
	timeout := c.Config.TxTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	txCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	fixture, err := c.Repo.GetFixture(txCtx, trig.FixtureID)
	if err != nil {
		return Result{}, err
	}
	if fixture == nil {
		return Result{}, ErrFixtureNotFound
	}

	res := Result{FixtureID: trig.FixtureID}
	started := time.Now()
	err = c.Repo.InTx(txCtx, func(tx *gorm.DB) error {
		if err := c.Repo.RecordFixtureResultTx(txCtx, tx, trig.FixtureID, trig.HomeScore, trig.AwayScore, trig.Status); err != nil {
			return err
		}

		locked, err := c.Repo.LockUnscoredPredictionsTx(txCtx, tx, trig.FixtureID)
		if err != nil {
			return err
		}
		if len(locked) == 0 {
			// All predictions already bear the scored marker: a duplicate
			// or retried trigger. Commit a no-op run.
			res.Status = models.SettlementRunNoOp
			return c.recordRun(txCtx, tx, &res, started)
		}

		if trig.Status == models.FixtureStatusVoided {
			return c.voidLocked(txCtx, tx, &res, locked, started)
		}
		return c.scoreLocked(txCtx, tx, &res, fixture, trig, locked, started)
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

// scoreLocked is the finished-fixture path: quotas from the locked set,
// a point breakdown per prediction, a streak transition per predictor.
func (c *Coordinator) scoreLocked(ctx context.Context, tx *gorm.DB, res *Result, fixture *models.Fixture, trig Trigger, locked []models.Prediction, started time.Time) error {
	now := time.Now().UTC()

	// Quotas reflect the complete locked set, void entries excluded.
	tendencies := make([]scoring.Tendency, 0, len(locked))
	for _, p := range locked {
		if p.Status == models.PredictionStatusVoid {
			continue
		}
		tendencies = append(tendencies, scoring.TendencyOf(p.HomeScore, p.AwayScore))
	}
	dist := scoring.CountTendencies(tendencies)
	quotas := c.Scoring.Quotas(dist)
	res.Quotas = &quotas

	if err := c.Repo.UpsertFixtureQuotaTx(ctx, tx, &models.FixtureQuota{
		FixtureID:        trig.FixtureID,
		HomeQuota:        quotas.Home,
		DrawQuota:        quotas.Draw,
		AwayQuota:        quotas.Away,
		TotalPredictions: dist.Total(),
		HomeCount:        dist.Home,
		DrawCount:        dist.Draw,
		AwayCount:        dist.Away,
		ComputedAt:       now,
	}); err != nil {
		return err
	}

	// The fixture as it stands after this settlement, for the streak gate.
	settled := *fixture
	settled.Status = trig.Status
	settled.HomeScore = &trig.HomeScore
	settled.AwayScore = &trig.AwayScore

	outcomes := make(map[string]scoring.Breakdown, len(locked))
	for i := range locked {
		p := &locked[i]
		p.ScoredAt = &now
		if p.Status == models.PredictionStatusVoid {
			// Marked processed, never awarded points.
			if err := c.Repo.SavePredictionScoreTx(ctx, tx, p); err != nil {
				return err
			}
			continue
		}
		b, err := c.Scoring.Score(p.HomeScore, p.AwayScore, trig.HomeScore, trig.AwayScore, quotas)
		if err != nil {
			// Malformed data aborts the whole settlement; partial awards
			// are harder to reason about than a delayed complete one.
			return err
		}
		p.Status = models.PredictionStatusScored
		p.TendencyPoints = &b.TendencyPoints
		p.GoalDiffPoints = &b.GoalDiffPoints
		p.ExactScorePoints = &b.ExactScorePoints
		p.TotalPoints = &b.Total
		if err := c.Repo.SavePredictionScoreTx(ctx, tx, p); err != nil {
			return err
		}
		res.PredictionsScored++
		if scoring.ShouldUpdateStreak(&settled, p.Status) {
			outcomes[p.PredictorID] = b
		}
	}

	// Predictor rows lock in a fixed ascending order so two concurrently
	// settling fixtures can never deadlock on a shared predictor pair.
	predictorIDs := make([]string, 0, len(outcomes))
	for pid := range outcomes {
		predictorIDs = append(predictorIDs, pid)
	}
	sort.Strings(predictorIDs)
	for _, pid := range predictorIDs {
		if err := c.updateStreak(ctx, tx, pid, outcomes[pid], now); err != nil {
			return err
		}
		res.StreaksUpdated++
	}

	res.Upset = c.detectUpset(fixture, trig)
	if err := c.Repo.MarkFixtureSettledTx(ctx, tx, trig.FixtureID, now, res.Upset); err != nil {
		return err
	}

	res.Status = models.SettlementRunCommitted
	res.CachePatterns = cache.FixturePatterns(trig.FixtureID, predictorIDs)
	return c.recordRun(ctx, tx, res, started)
}

// voidLocked handles voided or postponed fixtures: predictions are marked
// void and processed, no points, no quotas, and streaks stay untouched.
func (c *Coordinator) voidLocked(ctx context.Context, tx *gorm.DB, res *Result, locked []models.Prediction, started time.Time) error {
	now := time.Now().UTC()
	predictorIDs := make([]string, 0, len(locked))
	for i := range locked {
		p := &locked[i]
		p.Status = models.PredictionStatusVoid
		p.ScoredAt = &now
		if err := c.Repo.SavePredictionScoreTx(ctx, tx, p); err != nil {
			return err
		}
		predictorIDs = append(predictorIDs, p.PredictorID)
	}
	sort.Strings(predictorIDs)
	if err := c.Repo.MarkFixtureSettledTx(ctx, tx, res.FixtureID, now, false); err != nil {
		return err
	}
	res.Status = models.SettlementRunVoided
	res.CachePatterns = cache.FixturePatterns(res.FixtureID, predictorIDs)
	return c.recordRun(ctx, tx, res, started)
}

func (c *Coordinator) updateStreak(ctx context.Context, tx *gorm.DB, predictorID string, b scoring.Breakdown, now time.Time) error {
	predictor, err := c.Repo.LockPredictorTx(ctx, tx, predictorID)
	if err != nil {
		return err
	}
	if predictor == nil {
		return errors.New("predictor missing: " + predictorID)
	}

	next := scoring.Streak{
		Exact:    predictor.ExactStreak,
		Tendency: predictor.TendencyStreak,
		Wrong:    predictor.WrongStreak,
	}.Next(b.Outcome)
	predictor.ExactStreak = next.Exact
	predictor.TendencyStreak = next.Tendency
	predictor.WrongStreak = next.Wrong

	predictor.TotalPoints = predictor.TotalPoints.Add(b.Total)
	predictor.FixturesScored++
	switch b.Outcome {
	case scoring.OutcomeExact:
		predictor.ExactCount++
	case scoring.OutcomeTendency:
		predictor.TendencyCount++
	default:
		predictor.WrongCount++
	}
	predictor.UpdatedAt = now

	return c.Repo.SavePredictorTx(ctx, tx, predictor)
}

// detectUpset is advisory: a failure to derive the flag must never abort
// settlement, so degenerate favorite data just yields false.
func (c *Coordinator) detectUpset(fixture *models.Fixture, trig Trigger) bool {
	if fixture == nil || fixture.FavoriteTendency == nil || fixture.FavoriteProbability == nil {
		return false
	}
	favorite := scoring.Tendency(strings.ToLower(strings.TrimSpace(*fixture.FavoriteTendency)))
	actual := scoring.TendencyOf(trig.HomeScore, trig.AwayScore)
	return c.Scoring.IsUpset(favorite, *fixture.FavoriteProbability, actual)
}

func (c *Coordinator) recordRun(ctx context.Context, tx *gorm.DB, res *Result, started time.Time) error {
	res.RunID = uuid.NewString()
	patterns, _ := json.Marshal(res.CachePatterns)
	return c.Repo.InsertSettlementRunTx(ctx, tx, &models.SettlementRun{
		ID:                res.RunID,
		FixtureID:         res.FixtureID,
		Status:            res.Status,
		PredictionsScored: res.PredictionsScored,
		StreaksUpdated:    res.StreaksUpdated,
		Upset:             res.Upset,
		CachePatterns:     datatypes.JSON(patterns),
		DurationMs:        time.Since(started).Milliseconds(),
		CreatedAt:         time.Now().UTC(),
	})
}

// notify runs strictly after commit. A signal before commit could let a
// concurrent reader cache a pre-settlement view.
func (c *Coordinator) notify(ctx context.Context, res Result) {
	if c.Cache == nil || len(res.CachePatterns) == 0 {
		return
	}
	deleted := c.Cache.Invalidate(ctx, res.CachePatterns)
	if c.Metrics != nil {
		c.Metrics.CacheKeysInvalidated.Add(float64(deleted))
	}
	if c.Logger != nil {
		c.Logger.Debug("cache invalidated",
			zap.String("fixture_id", res.FixtureID),
			zap.Int64("keys", deleted))
	}
}

func (c *Coordinator) observe(res Result, elapsed time.Duration) {
	if c.Metrics == nil {
		return
	}
	c.Metrics.Runs.WithLabelValues(res.Status).Inc()
	c.Metrics.PredictionsScored.Add(float64(res.PredictionsScored))
	c.Metrics.Duration.Observe(elapsed.Seconds())
}

func (c *Coordinator) logWarn(msg string, err error, fields ...zap.Field) {
	if c == nil || c.Logger == nil {
		return
	}
	c.Logger.Warn(msg, append(fields, zap.Error(err))...)
}

func validateTrigger(trig Trigger) error {
	if strings.TrimSpace(trig.FixtureID) == "" {
		return ErrInvalidTrigger
	}
	switch trig.Status {
	case models.FixtureStatusFinished:
		if trig.HomeScore < 0 || trig.AwayScore < 0 {
			return ErrInvalidTrigger
		}
	case models.FixtureStatusVoided:
	default:
		return ErrInvalidTrigger
	}
	return nil
}

// isRetryableTxError matches transient conflicts worth retrying the whole
// attempt for: deadlocks, serialization failures and lock wait timeouts.
func isRetryableTxError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, frag := range []string{
		"deadlock",
		"could not serialize",
		"serialization failure",
		"lock timeout",
		"lock not available",
	} {
		if strings.Contains(msg, frag) {
			return true
		}
	}
	return false
}
