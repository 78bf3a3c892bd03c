package usecase

import (
	"sync"
	"testing"
)

func TestKeyedMutexSerializesPerKey(t *testing.T) {
	km := newKeyedMutex()
	keys := []string{"+441", "+442", "+443"}
	counters := make([]int, len(keys))
	var wg sync.WaitGroup

	// Unsynchronized increments below are safe only if the per-key lock
	// actually serializes holders of the same key.
	for i := 0; i < 50; i++ {
		for idx, key := range keys {
			wg.Add(1)
			go func(idx int, key string) {
				defer wg.Done()
				unlock := km.lock(key)
				defer unlock()
				counters[idx]++
			}(idx, key)
		}
	}
	wg.Wait()

	for idx, key := range keys {
		if counters[idx] != 50 {
			t.Errorf("counter for %s = %d, want 50", key, counters[idx])
		}
	}
}

func TestKeyedMutexReleasesEntries(t *testing.T) {
	km := newKeyedMutex()

	unlock := km.lock("+441")
	inner := km.lock("+442")
	inner()
	unlock()

	km.mu.Lock()
	defer km.mu.Unlock()
	if len(km.entries) != 0 {
		t.Fatalf("entries = %d, want 0 after all holders released", len(km.entries))
	}
}
