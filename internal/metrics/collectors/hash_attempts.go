package collectors

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/cairnlabs/cairn/internal/ledger"
)

type HashAttemptsCollector struct {
	sealer   *ledger.Sealer
	attempts *prometheus.Desc
}

func NewHashAttemptsCollector(sealer *ledger.Sealer) *HashAttemptsCollector {
	return &HashAttemptsCollector{
		sealer: sealer,
		attempts: prometheus.NewDesc(
			prometheus.BuildFQName("cairn", "sealer", "hash_attempts_total"),
			"Total hash evaluations performed by the proof-of-work sealer",
			nil,
			prometheus.Labels{"source": "sealer"},
		),
	}
}

func (c *HashAttemptsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.attempts
}

func (c *HashAttemptsCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.attempts, prometheus.CounterValue, float64(c.sealer.Attempts()))
}
