package vm

import (
	"context"
	"testing"
	"time"
)

func TestWaitAddressReturnsAddress(t *testing.T) {
	calls := 0
	lookup := func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", nil
		}
		return "192.168.122.50", nil
	}

	addr, err := WaitAddress(context.Background(), lookup, 5*time.Millisecond, time.Second)
	if err != nil {
		t.Fatalf("WaitAddress: %v", err)
	}
	if addr != "192.168.122.50" {
		t.Errorf("addr = %q", addr)
	}
	if calls != 3 {
		t.Errorf("lookup called %d times, want 3", calls)
	}
}

func TestWaitAddressTimesOut(t *testing.T) {
	lookup := func(ctx context.Context) (string, error) { return "", nil }

	start := time.Now()
	_, err := WaitAddress(context.Background(), lookup, 5*time.Millisecond, 50*time.Millisecond)
	if err == nil {
		t.Fatal("expected a timeout error")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("polling did not stop promptly: %s", elapsed)
	}
}

func TestWaitAddressPropagatesLookupError(t *testing.T) {
	lookup := func(ctx context.Context) (string, error) {
		return "", context.Canceled
	}
	if _, err := WaitAddress(context.Background(), lookup, time.Millisecond, time.Second); err == nil {
		t.Fatal("expected lookup error to propagate")
	}
}
