package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/comitanigiacomo/kanso-constellation/internal/core/domain"
	"github.com/comitanigiacomo/kanso-constellation/internal/core/services"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestScoreService(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("Counts every record of the owner", func(t *testing.T) {
		repo := new(MockCompletionRepository)
		svc := services.NewScoreService(services.NewCompletionLedger(repo), zap.NewNop())

		repo.On("CountByUserID", ctx, "u1").Return(42, nil)

		assert.Equal(t, 42, svc.ComputeScore(ctx, "u1"))
		assert.Equal(t, domain.ConsistencyScore{Value: 42, Available: true}, svc.Snapshot(ctx, "u1"))
	})

	t.Run("No completions is a real zero", func(t *testing.T) {
		repo := new(MockCompletionRepository)
		svc := services.NewScoreService(services.NewCompletionLedger(repo), nil)

		repo.On("CountByUserID", ctx, "u1").Return(0, nil)

		assert.Equal(t, domain.ConsistencyScore{Value: 0, Available: true}, svc.Snapshot(ctx, "u1"))
	})

	t.Run("Store failure yields zero and is logged", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		repo := new(MockCompletionRepository)
		svc := services.NewScoreService(services.NewCompletionLedger(repo), zap.New(core))

		repo.On("CountByUserID", ctx, "u1").Return(0, errors.New("offline"))

		assert.Equal(t, 0, svc.ComputeScore(ctx, "u1"))
		assert.Equal(t, domain.ConsistencyScore{}, svc.Snapshot(ctx, "u1"))
		assert.Equal(t, 2, logs.FilterMessage("consistency score unavailable").Len())
	})

	t.Run("Missing owner does not query the store", func(t *testing.T) {
		repo := new(MockCompletionRepository)
		svc := services.NewScoreService(services.NewCompletionLedger(repo), nil)

		assert.Equal(t, 0, svc.ComputeScore(ctx, ""))
		repo.AssertNotCalled(t, "CountByUserID")
	})
}
