package ratelimit

import (
	"testing"
	"time"
)

func TestTokenBucketAllow(t *testing.T) {
	tb := NewTokenBucket(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !tb.Allow() {
			t.Errorf("Expected request %d to be allowed", i+1)
		}
	}

	if tb.Allow() {
		t.Error("Expected request beyond capacity to be denied")
	}
}

func TestTokenBucketRefill(t *testing.T) {
	tb := NewTokenBucket(1, 50*time.Millisecond)

	if !tb.Allow() {
		t.Fatal("Expected first request to be allowed")
	}
	if tb.Allow() {
		t.Fatal("Expected bucket to be empty")
	}

	time.Sleep(60 * time.Millisecond)

	if !tb.Allow() {
		t.Error("Expected bucket to refill after the period")
	}
}

func TestTokenBucketReset(t *testing.T) {
	tb := NewTokenBucket(1, time.Minute)

	tb.Allow()
	if tb.Allow() {
		t.Fatal("Expected bucket to be empty")
	}

	tb.Reset()

	if !tb.Allow() {
		t.Error("Expected request to be allowed after reset")
	}
}

func TestTokenBucketWait(t *testing.T) {
	tb := NewTokenBucket(1, 30*time.Millisecond)
	tb.Allow()

	start := time.Now()
	tb.Wait()
	elapsed := time.Since(start)

	if elapsed < 10*time.Millisecond {
		t.Errorf("Expected Wait to block until refill, returned after %v", elapsed)
	}
}

func TestUnlimited(t *testing.T) {
	u := NewUnlimited()

	for i := 0; i < 100; i++ {
		if !u.Allow() {
			t.Fatal("Expected unlimited limiter to always allow")
		}
	}
	u.Wait() // must not block
	u.Reset()
}

func TestForRequestsPerMinute(t *testing.T) {
	if _, ok := ForRequestsPerMinute(0).(*Unlimited); !ok {
		t.Error("Expected zero rate to disable limiting")
	}
	if _, ok := ForRequestsPerMinute(-1).(*Unlimited); !ok {
		t.Error("Expected negative rate to disable limiting")
	}
	if _, ok := ForRequestsPerMinute(60).(*TokenBucket); !ok {
		t.Error("Expected positive rate to produce a token bucket")
	}
}
