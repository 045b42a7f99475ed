package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiterAllow(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := New(2)
	l.now = func() time.Time { return now }

	if !l.Allow("a") || !l.Allow("a") {
		t.Fatal("expected burst of 2 to be allowed")
	}
	if l.Allow("a") {
		t.Error("expected third request to be limited")
	}
	if !l.Allow("b") {
		t.Error("keys must not share a bucket")
	}

	// one token refills every 30s at 2/min
	now = now.Add(30 * time.Second)
	if !l.Allow("a") {
		t.Error("expected a refilled token")
	}
}

func TestLimiterUnlimited(t *testing.T) {
	var nilLimiter *Limiter
	for _, l := range []*Limiter{New(0), nilLimiter} {
		for i := 0; i < 100; i++ {
			if !l.Allow("a") {
				t.Fatal("unlimited limiter rejected a request")
			}
		}
	}
}

func TestLimiterSweep(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := New(1)
	l.now = func() time.Time { return now }

	l.Allow("a")
	now = now.Add(time.Hour)
	l.Sweep(10 * time.Minute)

	if _, ok := l.buckets.Load("a"); ok {
		t.Error("expected idle bucket to be swept")
	}
}

func TestClientKey(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	if got := ClientKey(r); got != "ip:10.0.0.1" {
		t.Errorf("expected ip key, got %q", got)
	}

	r.Header.Set("Authorization", "Bearer nk-code")
	key := ClientKey(r)
	if key == "ip:10.0.0.1" || key == "" {
		t.Errorf("expected credential key, got %q", key)
	}
	r2 := httptest.NewRequest(http.MethodPost, "/", nil)
	r2.Header.Set("Authorization", "Bearer nk-code")
	if ClientKey(r2) != key {
		t.Error("same credential should map to the same key")
	}
}
