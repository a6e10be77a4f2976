package common

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// StartPromServer serves the prometheus registry on its own port.
func StartPromServer(logger *zap.Logger, port string) {
	logger.Info("serving prom stats", zap.String("port", port))
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(port, mux); err != nil {
			logger.Error("prom server stopped", zap.Error(err))
		}
	}()
}
