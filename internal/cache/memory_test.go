package cache

import (
	"testing"
	"time"
)

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	val, ok := c.Get("k")
	if !ok {
		t.Fatal("expected hit")
	}
	if string(val) != "v" {
		t.Errorf("expected v, got %s", val)
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", c.Len())
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	_ = c.Set("k", []byte("v"), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("expected entry to expire")
	}
}

func TestMemoryCache_DeleteClear(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	_ = c.Set("a", []byte("1"), 0)
	_ = c.Set("b", []byte("2"), 0)

	_ = c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("expected a to be deleted")
	}

	_ = c.Clear()
	if _, ok := c.Get("b"); ok {
		t.Error("expected cache to be empty after clear")
	}
}

func TestKey(t *testing.T) {
	a := Key("la la land", false)
	b := Key("la la land", false)
	traced := Key("la la land", true)
	other := Key("la la love", false)

	if a != b {
		t.Error("expected equal keys for equal text")
	}
	if a == traced {
		t.Error("expected trace option to change the key")
	}
	if a == other {
		t.Error("expected different keys for different text")
	}
}
