// internal/app/system/fanout/fanout.go

// Package fanout issues best-effort side effects to many recipients at once.
//
// Fan-out is deliberately decoupled from the primary record mutation: all
// emissions run concurrently with no aggregate transaction, partial failure
// is reported back as per-recipient outcomes instead of failing the caller,
// and nothing is retried automatically.
package fanout

import (
	"context"
	"sync"

	"go.uber.org/multierr"
)

// Outcome is the result of one recipient's emission.
type Outcome struct {
	Recipient string
	Err       error
}

// Run invokes emit once per recipient, concurrently, and returns one outcome
// per recipient in input order.
func Run(ctx context.Context, recipients []string, emit func(ctx context.Context, recipient string) error) []Outcome {
	outcomes := make([]Outcome, len(recipients))

	var wg sync.WaitGroup
	for i, recipient := range recipients {
		wg.Add(1)
		go func(i int, recipient string) {
			defer wg.Done()
			outcomes[i] = Outcome{Recipient: recipient, Err: emit(ctx, recipient)}
		}(i, recipient)
	}
	wg.Wait()

	return outcomes
}

// Failed returns the subset of outcomes that carry an error.
func Failed(outcomes []Outcome) []Outcome {
	var failed []Outcome
	for _, o := range outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

// CombinedErr folds every failure into a single error for logging. It is nil
// when every emission succeeded.
func CombinedErr(outcomes []Outcome) error {
	var errs error
	for _, o := range outcomes {
		if o.Err != nil {
			errs = multierr.Append(errs, o.Err)
		}
	}
	return errs
}
