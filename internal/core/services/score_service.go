package services

import (
	"context"

	"github.com/comitanigiacomo/kanso-constellation/internal/core/domain"
	"go.uber.org/zap"
)

// ScoreService derives the consistency score: the number of completion
// records the owner has, whatever the habit or date.
type ScoreService struct {
	ledger *CompletionLedger
	logger *zap.Logger
}

func NewScoreService(ledger *CompletionLedger, logger *zap.Logger) *ScoreService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScoreService{
		ledger: ledger,
		logger: logger,
	}
}

// ComputeScore returns 0 when the count cannot be read. The score is advisory,
// so the failure is logged and swallowed.
func (s *ScoreService) ComputeScore(ctx context.Context, userID string) int {
	return s.Snapshot(ctx, userID).Value
}

// Snapshot is ComputeScore with the failure made visible through Available.
func (s *ScoreService) Snapshot(ctx context.Context, userID string) domain.ConsistencyScore {
	if userID == "" {
		return domain.ConsistencyScore{}
	}

	n, err := s.ledger.CountForOwner(ctx, userID)
	if err != nil {
		s.logger.Warn("consistency score unavailable",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return domain.ConsistencyScore{}
	}

	return domain.ConsistencyScore{Value: n, Available: true}
}
