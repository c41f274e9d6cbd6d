package metrics

import (
	"context"
	"time"

	"ai-companion-be/internal/entity"
	"ai-companion-be/internal/pkg/apperror"
	"ai-companion-be/internal/service"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultOK       = "ok"
	resultNotFound = "not_found"
	resultConflict = "conflict"
	resultError    = "error"
)

type LifecycleMetrics struct {
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
}

// NewLifecycleMetrics registers the lifecycle collectors on reg.
func NewLifecycleMetrics(reg prometheus.Registerer) *LifecycleMetrics {
	f := promauto.With(reg)
	return &LifecycleMetrics{
		operations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "conversation_lifecycle_operations_total",
				Help: "Total number of conversation lifecycle operations by result",
			},
			[]string{"operation", "result"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "conversation_lifecycle_operation_duration_seconds",
				Help:    "Latency of conversation lifecycle operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

func (m *LifecycleMetrics) observe(operation string, start time.Time, err error) {
	m.latency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	m.operations.WithLabelValues(operation, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return resultOK
	case apperror.IsNotFound(err):
		return resultNotFound
	case apperror.IsConflict(err):
		return resultConflict
	default:
		return resultError
	}
}

type instrumentedLifecycle struct {
	inner   service.ILifecycleService
	metrics *LifecycleMetrics
}

// WrapLifecycle records a counter and a latency histogram for every call on inner.
func WrapLifecycle(inner service.ILifecycleService, m *LifecycleMetrics) service.ILifecycleService {
	if m == nil {
		return inner
	}
	return &instrumentedLifecycle{inner: inner, metrics: m}
}

func (l *instrumentedLifecycle) SoftDelete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	err := l.inner.SoftDelete(ctx, id)
	l.metrics.observe(service.TransitionSoftDelete, start, err)
	return err
}

func (l *instrumentedLifecycle) Restore(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	err := l.inner.Restore(ctx, id)
	l.metrics.observe(service.TransitionRestore, start, err)
	return err
}

func (l *instrumentedLifecycle) IsDeleted(ctx context.Context, id uuid.UUID) (bool, error) {
	start := time.Now()
	deleted, err := l.inner.IsDeleted(ctx, id)
	l.metrics.observe(service.TransitionIsDeleted, start, err)
	return deleted, err
}

func (l *instrumentedLifecycle) State(ctx context.Context, id uuid.UUID) (entity.DeletionState, error) {
	start := time.Now()
	state, err := l.inner.State(ctx, id)
	l.metrics.observe(service.TransitionState, start, err)
	return state, err
}

func (l *instrumentedLifecycle) ListLive(ctx context.Context, filter service.ConversationFilter) ([]*entity.Conversation, error) {
	start := time.Now()
	list, err := l.inner.ListLive(ctx, filter)
	l.metrics.observe(service.TransitionListLive, start, err)
	return list, err
}

func (l *instrumentedLifecycle) CountLive(ctx context.Context, filter service.ConversationFilter) (int64, error) {
	start := time.Now()
	count, err := l.inner.CountLive(ctx, filter)
	l.metrics.observe("count_live", start, err)
	return count, err
}
