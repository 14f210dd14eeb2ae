package cache

import (
	"errors"
	"testing"
	"time"
)

func TestTTL_GetOrLoad(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewTTL[string, int](time.Hour)
	c.now = func() time.Time { return now }

	calls := 0
	load := func() (int, error) {
		calls++
		return calls, nil
	}

	if v, _ := c.GetOrLoad("a", load); v != 1 {
		t.Fatalf("expected 1, got %d", v)
	}
	if v, _ := c.GetOrLoad("a", load); v != 1 {
		t.Errorf("expected cached 1, got %d", v)
	}

	now = now.Add(time.Hour)
	if v, _ := c.GetOrLoad("a", load); v != 2 {
		t.Errorf("expected reload after expiry, got %d", v)
	}
	if calls != 2 {
		t.Errorf("expected 2 loads, got %d", calls)
	}
}

func TestTTL_ErrorsNotCached(t *testing.T) {
	c := NewTTL[string, string](time.Minute)
	if _, err := c.GetOrLoad("k", func() (string, error) { return "", errors.New("down") }); err == nil {
		t.Fatal("expected error")
	}
	if _, ok := c.Get("k"); ok {
		t.Error("failed load must not be cached")
	}
	v, err := c.GetOrLoad("k", func() (string, error) { return "up", nil })
	if err != nil || v != "up" {
		t.Errorf("expected up, got %q, %v", v, err)
	}
}

func TestTTL_Purge(t *testing.T) {
	c := NewTTL[int, int](time.Minute)
	c.Set(1, 1)
	c.Purge()
	if _, ok := c.Get(1); ok {
		t.Error("expected empty cache after purge")
	}
}
