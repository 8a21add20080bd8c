package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"tippliga/internal/config"
	"tippliga/internal/models"
	"tippliga/internal/repository"
	"tippliga/internal/settlement"
)

// ResettlementSweeper is the in-process arm of the at-least-once trigger
// contract: it periodically finds finished fixtures that still carry
// unscored predictions (a lost trigger, a crashed worker, an exhausted
// retry budget) and re-dispatches settlement for them. Redelivery is safe;
// an already-settled fixture just no-ops.
type ResettlementSweeper struct {
	Repo        repository.Repository
	Coordinator *settlement.Coordinator
	Logger      *zap.Logger
	Config      config.SweeperConfig
}

func (s *ResettlementSweeper) RunOnce(ctx context.Context) error {
	if s == nil || s.Repo == nil || s.Coordinator == nil {
		return nil
	}
	batch := s.Config.BatchSize
	if batch <= 0 {
		batch = 50
	}
	fixtures, err := s.Repo.ListSettlementCandidates(ctx, batch)
	if err != nil {
		s.logWarn("sweep candidate query failed", err)
		return err
	}
	for _, f := range fixtures {
		if !f.HasFinalResult() {
			continue
		}
		result, err := s.Coordinator.Settle(ctx, settlement.Trigger{
			FixtureID: f.ID,
			HomeScore: *f.HomeScore,
			AwayScore: *f.AwayScore,
			Status:    models.FixtureStatusFinished,
		})
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			s.logWarn("sweep settlement failed", err, zap.String("fixture_id", f.ID))
			continue
		}
		if s.Logger != nil && result.Status != models.SettlementRunNoOp {
			s.Logger.Info("sweep settled fixture",
				zap.String("fixture_id", f.ID),
				zap.String("run_id", result.RunID),
				zap.Int("predictions", result.PredictionsScored))
		}
	}
	return nil
}

func (s *ResettlementSweeper) logWarn(msg string, err error, fields ...zap.Field) {
	if s == nil || s.Logger == nil {
		return
	}
	s.Logger.Warn(msg, append(fields, zap.Error(err))...)
}
