package httputil

import (
	"context"
	"strings"
	"testing"
)

func TestGetRejectsPlainHTTP(t *testing.T) {
	c := NewClient(0)
	_, err := c.Get(context.Background(), "http://an1me.to/anime/frieren/")
	if err == nil || !strings.Contains(err.Error(), "invalid URL") {
		t.Fatalf("Get() error = %v, want invalid URL", err)
	}
}

func TestGetHonoursCancelledContextWhilePaced(t *testing.T) {
	c := NewClient(1)
	// Drain the single burst token so the next call has to wait.
	if !c.limiter.Allow() {
		t.Fatal("fresh limiter should allow one request")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Get(ctx, "https://an1me.to/")
	if err == nil || !strings.Contains(err.Error(), "waiting for request slot") {
		t.Fatalf("Get() error = %v, want pacing error", err)
	}
}
