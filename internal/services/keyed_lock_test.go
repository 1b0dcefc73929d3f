package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedLock_SerializesSameKey(t *testing.T) {
	kl := newKeyedLock()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := kl.Lock("appointment:rashmi@example.com")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
}

func TestKeyedLock_IndependentKeysDoNotBlock(t *testing.T) {
	kl := newKeyedLock()

	unlockA := kl.Lock("offer:a")
	done := make(chan struct{})
	go func() {
		unlockB := kl.Lock("offer:b")
		unlockB()
		close(done)
	}()
	<-done // would deadlock if keys shared a mutex
	unlockA()
}

func TestKeyedLock_EntriesReleasedWhenIdle(t *testing.T) {
	kl := newKeyedLock()

	unlock := kl.Lock("offer:x")
	unlock()

	kl.mu.Lock()
	defer kl.mu.Unlock()
	assert.Empty(t, kl.locks)
}
