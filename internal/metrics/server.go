package metrics

import (
	"log/slog"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cairnlabs/cairn/internal/ledger"
	"github.com/cairnlabs/cairn/internal/metrics/collectors"
)

// CreateMetricsServer starts a Prometheus /metrics endpoint on addr,
// exposing the chain and sealer collectors plus any extra collectors the
// caller owns (the miner's, typically). The returned server is already
// serving; the caller owns its shutdown.
func CreateMetricsServer(chain *ledger.Chain, sealer *ledger.Sealer, addr string, extra ...prometheus.Collector) (*http.Server, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewChainHeightCollector(chain),
		collectors.NewHashAttemptsCollector(sealer),
	)
	registry.MustRegister(extra...)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	server := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			slog.Error("Metrics server stopped", "error", err)
		}
	}()

	return server, nil
}
