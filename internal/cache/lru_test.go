package cache

import (
	"testing"
	"time"
)

func TestLRUCache_GetSet(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.Set("a", 1)
	c.Set("b", 2)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("Get(a) = %d, %v", v, ok)
	}

	// "a" was just used, so inserting "c" evicts "b".
	c.Set("c", 3)
	if _, ok := c.Get("b"); ok {
		t.Fatal("expected b to be evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("Get(a) after eviction = %d, %v", v, ok)
	}
	if c.Size() != 2 {
		t.Fatalf("Size = %d, want 2", c.Size())
	}
}

func TestLRUCache_TTL(t *testing.T) {
	c := NewLRUCache[string](4, 10*time.Millisecond)
	c.Set("k", "v")
	if _, ok := c.Get("k"); !ok {
		t.Fatal("expected hit before expiry")
	}
	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected miss after expiry")
	}
	if c.Size() != 0 {
		t.Fatalf("Size after expiry = %d, want 0", c.Size())
	}
}

func TestLRUCache_DeletePrefix(t *testing.T) {
	c := NewLRUCache[int](8, time.Minute)
	c.Set("stats:alice:2024-03", 1)
	c.Set("stats:alice:2024-04", 2)
	c.Set("stats:bob:2024-03", 3)

	n := c.DeletePrefix("stats:alice:")
	if n != 2 {
		t.Fatalf("DeletePrefix removed %d, want 2", n)
	}
	if _, ok := c.Get("stats:alice:2024-03"); ok {
		t.Fatal("alice entry survived invalidation")
	}
	if v, ok := c.Get("stats:bob:2024-03"); !ok || v != 3 {
		t.Fatalf("bob entry lost: %d, %v", v, ok)
	}
}

func TestLRUCache_CleanExpired(t *testing.T) {
	c := NewLRUCache[int](8, 10*time.Millisecond)
	c.Set("a", 1)
	c.Set("b", 2)
	time.Sleep(20 * time.Millisecond)
	c.Set("fresh", 3)

	if n := c.CleanExpired(); n != 2 {
		t.Fatalf("CleanExpired = %d, want 2", n)
	}
	if _, ok := c.Get("fresh"); !ok {
		t.Fatal("fresh entry removed by cleanup")
	}
}

func TestManager_Cleanup(t *testing.T) {
	c := NewLRUCache[int](8, 5*time.Millisecond)
	c.Set("a", 1)

	m := NewManager()
	m.Register(c)
	m.StartCleanup(10 * time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	m.Stop()

	if c.Size() != 0 {
		t.Fatalf("Size after managed cleanup = %d, want 0", c.Size())
	}
}
