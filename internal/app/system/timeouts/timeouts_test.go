package timeouts

import (
	"context"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if Ping() != DefaultPing || Short() != DefaultShort || Medium() != DefaultMedium ||
		Long() != DefaultLong || Batch() != DefaultBatch {
		t.Errorf("defaults not in effect: %+v", Current())
	}
	if !(Ping() < Short() && Short() < Medium() && Medium() < Long() && Long() < Batch()) {
		t.Error("tiers must be strictly increasing")
	}
}

func TestConfigure_IgnoresZeroValues(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	Configure(Config{Medium: 20 * time.Second})

	if Medium() != 20*time.Second {
		t.Errorf("Medium: got %v, want 20s", Medium())
	}
	if Short() != DefaultShort || Long() != DefaultLong {
		t.Errorf("zero values must keep defaults: %+v", Current())
	}
}

func TestConfigureFromEnv(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	t.Setenv("TIMEOUT_SHORT", "7s")
	t.Setenv("TIMEOUT_BATCH", "2m")
	t.Setenv("TIMEOUT_LONG", "not-a-duration")

	if n := ConfigureFromEnv(); n != 2 {
		t.Errorf("configured: got %d, want 2", n)
	}
	if Short() != 7*time.Second {
		t.Errorf("Short: got %v, want 7s", Short())
	}
	if Batch() != 2*time.Minute {
		t.Errorf("Batch: got %v, want 2m", Batch())
	}
	if Long() != DefaultLong {
		t.Errorf("invalid value must keep the default, got %v", Long())
	}
}

func TestWithTimeout(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), time.Minute, nil, "test op")
	defer cancel()

	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("expected a deadline")
	}
	if until := time.Until(deadline); until <= 0 || until > time.Minute {
		t.Errorf("deadline out of range: %v", until)
	}
}
