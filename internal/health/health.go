package health

import (
	"net/http"
	"sync"

	"go.uber.org/zap"
)

type HealthChecker struct {
	logger *zap.SugaredLogger
	mu     sync.RWMutex
	ready  bool
	reason string
}

func NewHealthChecker(logger *zap.SugaredLogger) *HealthChecker {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &HealthChecker{
		logger: logger,
		ready:  false,
		reason: "no grouping pass completed",
	}
}

// SetStatus records readiness together with the reason it is not ready
func (h *HealthChecker) SetStatus(ready bool, reason string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ready != ready {
		h.logger.Infow("Readiness changed", "ready", ready, "reason", reason)
	}
	h.ready = ready
	h.reason = reason
}

func (h *HealthChecker) Ready() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.ready
}

// Liveness checks if the process is alive
func (h *HealthChecker) Liveness(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// Readiness reports whether the last grouping pass succeeded
func (h *HealthChecker) Readiness(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if !h.ready {
		w.WriteHeader(http.StatusServiceUnavailable)
		if h.reason != "" {
			w.Write([]byte("Not ready: " + h.reason))
		} else {
			w.Write([]byte("Not ready"))
		}
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Ready"))
}
