package metrics

import (
	"context"
	"errors"
	"testing"

	"ai-companion-be/internal/entity"
	"ai-companion-be/internal/pkg/apperror"
	"ai-companion-be/internal/service"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLifecycle struct {
	err error
}

func (s stubLifecycle) SoftDelete(ctx context.Context, id uuid.UUID) error { return s.err }
func (s stubLifecycle) Restore(ctx context.Context, id uuid.UUID) error    { return s.err }
func (s stubLifecycle) IsDeleted(ctx context.Context, id uuid.UUID) (bool, error) {
	return true, s.err
}
func (s stubLifecycle) State(ctx context.Context, id uuid.UUID) (entity.DeletionState, error) {
	return entity.Live{}, s.err
}
func (s stubLifecycle) ListLive(ctx context.Context, filter service.ConversationFilter) ([]*entity.Conversation, error) {
	return nil, s.err
}
func (s stubLifecycle) CountLive(ctx context.Context, filter service.ConversationFilter) (int64, error) {
	return 3, s.err
}

func TestWrapLifecycleCountsResults(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		result string
	}{
		{"success", nil, resultOK},
		{"not found", &apperror.LifecycleError{Transition: "soft_delete", Err: &apperror.NotFoundError{Resource: "conversation"}}, resultNotFound},
		{"conflict", &apperror.ConflictError{Resource: "conversation"}, resultConflict},
		{"other", errors.New("boom"), resultError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := prometheus.NewRegistry()
			m := NewLifecycleMetrics(reg)
			wrapped := WrapLifecycle(stubLifecycle{err: tt.err}, m)

			err := wrapped.SoftDelete(context.Background(), uuid.New())
			assert.Equal(t, tt.err, err)

			assert.Equal(t, float64(1), testutil.ToFloat64(m.operations.WithLabelValues(service.TransitionSoftDelete, tt.result)))
			assert.Equal(t, 1, testutil.CollectAndCount(m.latency))
		})
	}
}

func TestWrapLifecyclePassesResultsThrough(t *testing.T) {
	reg := prometheus.NewRegistry()
	wrapped := WrapLifecycle(stubLifecycle{}, NewLifecycleMetrics(reg))
	ctx := context.Background()

	deleted, err := wrapped.IsDeleted(ctx, uuid.New())
	require.NoError(t, err)
	assert.True(t, deleted)

	count, err := wrapped.CountLive(ctx, service.ConversationFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	state, err := wrapped.State(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, state.IsDeleted())
}

func TestWrapLifecycleWithoutMetrics(t *testing.T) {
	inner := stubLifecycle{}
	assert.Equal(t, service.ILifecycleService(inner), WrapLifecycle(inner, nil))
}
