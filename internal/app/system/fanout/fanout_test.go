package fanout_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/dalemusser/remindhub/internal/app/system/fanout"
)

func TestRun_AllSucceed(t *testing.T) {
	recipients := []string{"a", "b", "c"}

	var mu sync.Mutex
	emitted := make(map[string]int)

	outcomes := fanout.Run(context.Background(), recipients, func(ctx context.Context, r string) error {
		mu.Lock()
		defer mu.Unlock()
		emitted[r]++
		return nil
	})

	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}
	for i, o := range outcomes {
		if o.Recipient != recipients[i] {
			t.Errorf("outcome %d: got recipient %q, want %q", i, o.Recipient, recipients[i])
		}
		if o.Err != nil {
			t.Errorf("outcome %d: unexpected error %v", i, o.Err)
		}
	}
	for _, r := range recipients {
		if emitted[r] != 1 {
			t.Errorf("recipient %q emitted %d times, want 1", r, emitted[r])
		}
	}
	if fanout.CombinedErr(outcomes) != nil {
		t.Error("expected nil combined error when all succeed")
	}
	if len(fanout.Failed(outcomes)) != 0 {
		t.Error("expected no failed outcomes")
	}
}

func TestRun_PartialFailure(t *testing.T) {
	recipients := []string{"a", "b", "c"}
	boom := errors.New("emit failed")

	outcomes := fanout.Run(context.Background(), recipients, func(ctx context.Context, r string) error {
		if r == "b" {
			return boom
		}
		return nil
	})

	failed := fanout.Failed(outcomes)
	if len(failed) != 1 {
		t.Fatalf("expected 1 failed outcome, got %d", len(failed))
	}
	if failed[0].Recipient != "b" {
		t.Errorf("failed recipient: got %q, want %q", failed[0].Recipient, "b")
	}
	if !errors.Is(failed[0].Err, boom) {
		t.Errorf("failed err: got %v, want %v", failed[0].Err, boom)
	}

	combined := fanout.CombinedErr(outcomes)
	if combined == nil {
		t.Fatal("expected non-nil combined error")
	}
	if !strings.Contains(combined.Error(), "emit failed") {
		t.Errorf("combined error missing cause: %v", combined)
	}
}

func TestRun_Empty(t *testing.T) {
	outcomes := fanout.Run(context.Background(), nil, func(ctx context.Context, r string) error {
		t.Error("emit should not be called for zero recipients")
		return nil
	})
	if len(outcomes) != 0 {
		t.Errorf("expected no outcomes, got %d", len(outcomes))
	}
}
