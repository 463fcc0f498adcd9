package servers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"nathanbeddoewebdev/panelctl/internal/domain"
	"nathanbeddoewebdev/panelctl/internal/retry"
)

// DefaultPollInterval is the delay between status checks.
const DefaultPollInterval = 3 * time.Second

// maxPolls caps how many times WaitForStatus checks before giving up.
const maxPolls = 100

// maxTransientErrors is the number of consecutive failed checks tolerated
// before WaitForStatus gives up.
const maxTransientErrors = 3

// ErrServerFailed is returned when a server enters the error state while
// being waited on.
var ErrServerFailed = errors.New("server entered error state")

// WaitForStatus polls the server every interval until its status equals
// target. Transitional statuses are written to w as they change. Rate-limit
// errors stop the wait immediately; other temporary errors are tolerated up
// to a small consecutive limit.
func (s *Service) WaitForStatus(ctx context.Context, id, target string, interval time.Duration, w io.Writer) (*domain.Server, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if w == nil {
		w = io.Discard
	}

	cfg := retry.Config{
		MaxAttempts: maxTransientErrors,
		BaseDelay:   interval,
		MaxDelay:    interval,
		OnRetry: func(attempt int, err error) {
			fmt.Fprintf(w, "  Transient error, retrying... (%d/%d)\n", attempt, maxTransientErrors)
		},
	}

	var last string
	for i := 0; i < maxPolls; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}

		var srv *domain.Server
		err := retry.Do(ctx, cfg, transient, func() error {
			var err error
			srv, err = s.Get(ctx, id)
			return err
		})
		if err != nil {
			if errors.Is(err, domain.ErrRateLimited) {
				return nil, fmt.Errorf("polling stopped: %w", err)
			}
			return nil, fmt.Errorf("error polling server status: %w", err)
		}

		switch {
		case srv.Status == target:
			return srv, nil
		case srv.Status == domain.ServerStatusError:
			return srv, fmt.Errorf("server %s: %w", id, ErrServerFailed)
		case srv.Status != last:
			fmt.Fprintf(w, "  Status: %s\n", srv.Status)
			last = srv.Status
		}
	}

	return nil, fmt.Errorf("timed out waiting for server to reach %q status (%d polls)", target, maxPolls)
}

func transient(err error) bool {
	return !errors.Is(err, domain.ErrRateLimited) && retry.IsRetryable(err)
}
