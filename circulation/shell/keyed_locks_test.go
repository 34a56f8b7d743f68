package shell

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_KeyedLocks_Serializes_SameItem(t *testing.T) {
	locks := NewKeyedLocks()
	counter := 0
	inside := 0
	maxInside := 0

	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			unlock := locks.Lock("item-1")
			defer unlock()

			mu.Lock()
			inside++
			if inside > maxInside {
				maxInside = inside
			}
			mu.Unlock()

			counter++

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}

	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Equal(t, 1, maxInside)
	assert.Zero(t, locks.Len())
}

func Test_KeyedLocks_DistinctItems_DoNotBlock(t *testing.T) {
	locks := NewKeyedLocks()

	unlockA := locks.Lock("item-a")
	unlockB := locks.Lock("item-b")

	assert.Equal(t, 2, locks.Len())

	unlockA()
	unlockB()

	assert.Zero(t, locks.Len())
}
