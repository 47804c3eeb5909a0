package gatekeeper

import (
	"fmt"
	"testing"
	"time"

	"github.com/ovalbyte/club-ladder/internal/domain/user"
)

func TestTTLCache_SetGet(t *testing.T) {
	t.Parallel()

	cache := newTTLCache[user.Principal](time.Minute, 10)
	cache.Set("k1", user.Principal{AccountID: "acct-1"})

	principal, ok := cache.Get("k1")
	if !ok {
		t.Fatalf("expected cache hit")
	}
	if principal.AccountID != "acct-1" {
		t.Fatalf("unexpected account id: %s", principal.AccountID)
	}
}

func TestTTLCache_Expired(t *testing.T) {
	t.Parallel()

	clock := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	cache := newTTLCache[user.Principal](time.Minute, 10)
	cache.now = func() time.Time { return clock }

	cache.Set("k1", user.Principal{AccountID: "acct-1"})
	clock = clock.Add(2 * time.Minute)

	if _, ok := cache.Get("k1"); ok {
		t.Fatalf("expected cache miss after expiry")
	}
	if cache.Len() != 0 {
		t.Fatalf("expired entry must be dropped on read, have %d", cache.Len())
	}
}

func TestTTLCache_BoundedSize(t *testing.T) {
	t.Parallel()

	cache := newTTLCache[user.Principal](time.Minute, 3)
	for i := 0; i < 10; i++ {
		cache.Set(fmt.Sprintf("k%d", i), user.Principal{AccountID: fmt.Sprintf("acct-%d", i)})
	}

	if got := cache.Len(); got > 3 {
		t.Fatalf("cache grew past its bound: %d entries", got)
	}
}

func TestTTLCache_EvictsNearestExpiry(t *testing.T) {
	t.Parallel()

	clock := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	cache := newTTLCache[user.Principal](time.Minute, 2)
	cache.now = func() time.Time { return clock }

	cache.Set("old", user.Principal{AccountID: "acct-old"})
	clock = clock.Add(30 * time.Second)
	cache.Set("mid", user.Principal{AccountID: "acct-mid"})
	clock = clock.Add(10 * time.Second)
	cache.Set("new", user.Principal{AccountID: "acct-new"})

	if _, ok := cache.Get("old"); ok {
		t.Fatalf("entry closest to expiry must be evicted first")
	}
	if _, ok := cache.Get("mid"); !ok {
		t.Fatalf("fresher entry must survive eviction")
	}
	if _, ok := cache.Get("new"); !ok {
		t.Fatalf("newest entry must survive eviction")
	}
}
