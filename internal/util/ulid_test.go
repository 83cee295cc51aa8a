package util

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewULID_Format(t *testing.T) {
	id := NewULID()
	assert.Len(t, id, 26)
}

func TestNewULID_MonotonicWithinMillisecond(t *testing.T) {
	prev := NewULID()
	for i := 0; i < 1000; i++ {
		id := NewULID()
		assert.Greater(t, id, prev)
		prev = id
	}
}

func TestNewULID_UniqueUnderConcurrency(t *testing.T) {
	const goroutines = 10
	const perGoroutine = 100

	var mu sync.Mutex
	seen := make(map[string]bool, goroutines*perGoroutine)
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				id := NewULID()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, goroutines*perGoroutine)
}
