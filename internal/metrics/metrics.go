package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"modportal/internal/models"
)

var (
	reviewDecisionDesc = prometheus.NewDesc(
		"modportal_review_decisions_total",
		"Total reviewer decisions recorded in the audit log",
		[]string{"entity_type", "to_status"},
		nil,
	)
	usersDesc = prometheus.NewDesc(
		"modportal_users",
		"Users who have signed in, by role",
		[]string{"role"},
		nil,
	)
)

// DecisionSource provides decision counts from the audit log.
type DecisionSource interface {
	CountReviewsByDecision(ctx context.Context) ([]models.DecisionCount, error)
}

// ReviewCollector is a custom Prometheus collector that reads review
// decision counts from the database on each scrape.
type ReviewCollector struct {
	source  DecisionSource
	log     *zap.Logger
	timeout time.Duration
}

// Describe sends the metric descriptor to the channel.
func (c *ReviewCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- reviewDecisionDesc
}

// Collect queries the audit log and emits one counter per decision kind.
func (c *ReviewCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	counts, err := c.source.CountReviewsByDecision(ctx)
	if err != nil {
		c.log.Error("failed to collect review decision metrics", zap.Error(err))
		return
	}
	for _, d := range counts {
		ch <- prometheus.MustNewConstMetric(
			reviewDecisionDesc,
			prometheus.CounterValue,
			float64(d.Count),
			d.EntityType,
			d.ToStatus,
		)
	}
}

// RoleCountSource provides user counts per role.
type RoleCountSource interface {
	GetUserCountByRole(ctx context.Context) (map[string]int, error)
}

// UserCollector reads user counts per role on each scrape.
type UserCollector struct {
	source  RoleCountSource
	log     *zap.Logger
	timeout time.Duration
}

// Describe sends the metric descriptor to the channel.
func (c *UserCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- usersDesc
}

// Collect emits one gauge per role.
func (c *UserCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	counts, err := c.source.GetUserCountByRole(ctx)
	if err != nil {
		c.log.Error("failed to collect user metrics", zap.Error(err))
		return
	}
	for role, n := range counts {
		ch <- prometheus.MustNewConstMetric(usersDesc, prometheus.GaugeValue, float64(n), role)
	}
}

// Metrics holds the gateway's live instruments.
type Metrics struct {
	interactions *prometheus.CounterVec
	queueSize    *prometheus.GaugeVec
}

// New creates the instruments and registers them with reg. A non-nil source
// adds a ReviewCollector, and a UserCollector too when source can also
// count users.
func New(reg prometheus.Registerer, source DecisionSource, log *zap.Logger) *Metrics {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Metrics{
		interactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "modportal_interactions_total",
			Help: "Optimistic interactions by kind and how they settled",
		}, []string{"kind", "outcome"}),
		queueSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "modportal_moderation_queue_size",
			Help: "Actionable moderation requests by status and entity type",
		}, []string{"status", "entity_type"}),
	}
	reg.MustRegister(m.interactions, m.queueSize)
	if source != nil {
		reg.MustRegister(&ReviewCollector{source: source, log: log, timeout: 5 * time.Second})
		if users, ok := source.(RoleCountSource); ok {
			reg.MustRegister(&UserCollector{source: users, log: log, timeout: 5 * time.Second})
		}
	}
	return m
}

var (
	defaultMetrics *Metrics
	initOnce       sync.Once
)

// Init registers the gateway metrics with the default registry.
// Must be called once at startup; later calls return the same instance.
func Init(source DecisionSource, log *zap.Logger) *Metrics {
	initOnce.Do(func() {
		defaultMetrics = New(prometheus.DefaultRegisterer, source, log)
	})
	return defaultMetrics
}

// ObserveInteraction counts one settled interaction.
func (m *Metrics) ObserveInteraction(kind, outcome string) {
	m.interactions.WithLabelValues(kind, outcome).Inc()
}

// SetQueue replaces the queue size gauge with the counts in reqs.
func (m *Metrics) SetQueue(reqs []models.ModerationRequest) {
	counts := make(map[[2]string]int)
	for _, r := range reqs {
		counts[[2]string{r.Status, r.EntityType}]++
	}

	m.queueSize.Reset()
	for _, status := range []string{models.StatusPending, models.StatusNeedsRevision} {
		for _, et := range []string{models.EntityArticle, models.EntityDownloadLink, models.EntityComment} {
			m.queueSize.WithLabelValues(status, et).Set(float64(counts[[2]string{status, et}]))
		}
	}
}
