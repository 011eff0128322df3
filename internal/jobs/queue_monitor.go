package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"modportal/internal/models"
)

// QueueSource fetches the actionable moderation queue with a service token.
type QueueSource interface {
	QueueWithToken(ctx context.Context, token string) ([]models.ModerationRequest, error)
}

// QueueSink publishes the queue contents, typically as gauges.
type QueueSink interface {
	SetQueue(reqs []models.ModerationRequest)
}

// QueueMonitor periodically measures the moderation backlog.
type QueueMonitor struct {
	source   QueueSource
	sink     QueueSink
	token    string
	interval time.Duration
	log      *zap.Logger
}

// NewQueueMonitor creates a new queue monitor.
func NewQueueMonitor(source QueueSource, sink QueueSink, token string, interval time.Duration, log *zap.Logger) *QueueMonitor {
	if log == nil {
		log = zap.NewNop()
	}
	return &QueueMonitor{
		source:   source,
		sink:     sink,
		token:    token,
		interval: interval,
		log:      log,
	}
}

// Start runs the monitor loop until ctx is done.
func (m *QueueMonitor) Start(ctx context.Context) {
	m.log.Info("queue monitor started", zap.Duration("interval", m.interval))

	// Run immediately on start
	m.measure(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.Info("queue monitor stopped")
			return
		case <-ticker.C:
			m.measure(ctx)
		}
	}
}

// measure fetches the queue once. Failures keep the previous values.
func (m *QueueMonitor) measure(ctx context.Context) {
	queue, err := m.source.QueueWithToken(ctx, m.token)
	if err != nil {
		if ctx.Err() == nil {
			m.log.Warn("queue monitor: failed to fetch queue", zap.Error(err))
		}
		return
	}
	m.sink.SetQueue(queue)
	m.log.Debug("queue monitor: measured", zap.Int("size", len(queue)))
}
