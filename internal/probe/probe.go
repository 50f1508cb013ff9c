// Package probe gates a benchmark run on the target service's readiness.
package probe

import (
	"context"
	"log/slog"
	"time"
)

// HealthClient reports the target service's healthcheck status.
type HealthClient interface {
	Healthcheck(ctx context.Context) (int, error)
}

// Prober polls the service healthcheck with bounded retries before any
// measurement is attempted.
type Prober struct {
	client       HealthClient
	logger       *slog.Logger
	checkTimeout time.Duration
}

func New(client HealthClient, logger *slog.Logger, checkTimeout time.Duration) *Prober {
	if checkTimeout <= 0 {
		checkTimeout = 3 * time.Second
	}
	return &Prober{client: client, logger: logger, checkTimeout: checkTimeout}
}

// WaitUntilReady polls the healthcheck until a 2xx answer arrives, sleeping
// interval between attempts, up to maxAttempts probes. A false return is a
// normal negative outcome meaning "do not benchmark", not an error.
func (p *Prober) WaitUntilReady(ctx context.Context, maxAttempts int, interval time.Duration) bool {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		cctx, cancel := context.WithTimeout(ctx, p.checkTimeout)
		status, err := p.client.Healthcheck(cctx)
		cancel()

		switch {
		case err != nil:
			p.logger.Warn("healthcheck unreachable", "attempt", attempt, "error", err)
		case status >= 200 && status < 300:
			p.logger.Info("service online", "attempt", attempt, "status", status)
			return true
		default:
			p.logger.Warn("service not ready", "attempt", attempt, "status", status)
		}

		if attempt < maxAttempts {
			select {
			case <-ctx.Done():
				return false
			case <-time.After(interval):
			}
		}
	}
	p.logger.Error("service unreachable, giving up", "attempts", maxAttempts)
	return false
}
