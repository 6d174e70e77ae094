package harness

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/playwright-community/playwright-go"
)

const (
	defaultActionTimeout = 10 * time.Second
	defaultURLTimeout    = 15 * time.Second
	defaultTextTimeout   = 5 * time.Second
	defaultExpectTimeout = 5 * time.Second

	pollInterval = 100 * time.Millisecond
)

var errConditionNotMet = errors.New("condition not met")

// Option tunes a single interaction.
type Option func(*callOptions)

type callOptions struct {
	timeout time.Duration
}

// WithTimeout overrides the default timeout of an interaction.
func WithTimeout(d time.Duration) Option {
	return func(o *callOptions) {
		o.timeout = d
	}
}

// resolveTimeout applies opts over def and caps the result by the deadline
// of ctx, if any.
func resolveTimeout(ctx context.Context, def time.Duration, opts []Option) time.Duration {
	o := callOptions{timeout: def}
	for _, opt := range opts {
		opt(&o)
	}
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < o.timeout {
			o.timeout = remaining
		}
	}
	if o.timeout < 0 {
		o.timeout = 0
	}
	return o.timeout
}

// ms converts d to a playwright timeout. Playwright reads 0 as "no timeout",
// so budgets under a millisecond round up to 1.
func ms(d time.Duration) *float64 {
	n := d.Milliseconds()
	if time.Duration(n)*time.Millisecond < d {
		n++
	}
	if n < 1 {
		n = 1
	}
	return playwright.Float(float64(n))
}

// poll calls check until it reports true, fails with an engine error, or
// timeout elapses.
func poll(ctx context.Context, timeout time.Duration, check func() (bool, error)) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	op := func() error {
		ok, err := check()
		if err != nil {
			return backoff.Permanent(err)
		}
		if !ok {
			return errConditionNotMet
		}
		return nil
	}

	if err := backoff.Retry(op, backoff.WithContext(backoff.NewConstantBackOff(pollInterval), ctx)); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w after %s", errConditionNotMet, timeout)
		}
		return err
	}
	return nil
}
