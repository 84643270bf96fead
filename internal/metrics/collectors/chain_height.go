package collectors

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/cairnlabs/cairn/internal/ledger"
)

type ChainHeightCollector struct {
	chain  *ledger.Chain
	height *prometheus.Desc
}

func NewChainHeightCollector(chain *ledger.Chain) *ChainHeightCollector {
	return &ChainHeightCollector{
		chain: chain,
		height: prometheus.NewDesc(
			prometheus.BuildFQName("cairn", "chain", "height"),
			"Index of the chain tip",
			nil,
			prometheus.Labels{"source": "chain"},
		),
	}
}

func (c *ChainHeightCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.height
}

func (c *ChainHeightCollector) Collect(ch chan<- prometheus.Metric) {
	// Tip index, not block count: a fresh chain reports height 0.
	ch <- prometheus.MustNewConstMetric(c.height, prometheus.GaugeValue, float64(c.chain.Len()-1))
}
