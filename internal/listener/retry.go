package listener

import (
	"time"

	"github.com/cenkalti/backoff"
	"go.uber.org/zap"

	"github.com/muurk/wizlocal/internal/logging"
)

const (
	readRetryInitial = 10 * time.Millisecond
	readRetryMax     = time.Second
)

// readRetry paces the receive loop while reads on the listen socket keep
// failing. Only the first failure of a run is logged as a warning.
type readRetry struct {
	backoff  *backoff.ExponentialBackOff
	failures int
}

func newReadRetry() *readRetry {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = readRetryInitial
	b.MaxInterval = readRetryMax
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0 // never give up while the socket is open
	b.Reset()
	return &readRetry{backoff: b}
}

// failed records a read error and returns how long to wait before reading again
func (r *readRetry) failed(err error) time.Duration {
	r.failures++
	if r.failures == 1 {
		logging.Warn("Listen socket read failed", zap.Error(err))
	} else {
		logging.Debug("Listen socket read failed again",
			zap.Int("failures", r.failures),
			zap.Error(err),
		)
	}
	return r.backoff.NextBackOff()
}

// recovered resets the pacing after a successful read
func (r *readRetry) recovered() {
	if r.failures == 0 {
		return
	}
	logging.Info("Listen socket recovered", zap.Int("failures", r.failures))
	r.failures = 0
	r.backoff.Reset()
}
