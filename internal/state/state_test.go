package state

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreSetGetClear(t *testing.T) {
	s := NewStore()

	_, ok := s.Get(1)
	assert.False(t, ok)

	s.Set(1, PendingGoal{GoalType: "lose"})
	p, ok := s.Get(1)
	assert.True(t, ok)
	assert.Equal(t, "lose", p.GoalType)

	// a new selection replaces the old one
	s.Set(1, PendingGoal{GoalType: "gain"})
	p, _ = s.Get(1)
	assert.Equal(t, "gain", p.GoalType)

	s.Clear(1)
	_, ok = s.Get(1)
	assert.False(t, ok)
}

func TestStoreIsolatedPerChat(t *testing.T) {
	s := NewStore()
	s.Set(1, PendingGoal{GoalType: "lose"})

	_, ok := s.Get(2)
	assert.False(t, ok)
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(chatID int64) {
			defer wg.Done()
			s.Set(chatID, PendingGoal{GoalType: "maintain"})
			s.Get(chatID)
			s.Clear(chatID)
		}(int64(i % 10))
	}
	wg.Wait()
}
