package sweep_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stackvity/tree-sweep/pkg/sweep"
	"github.com/stretchr/testify/assert"
)

func makeItems(n int) []sweep.WorkItem {
	items := make([]sweep.WorkItem, n)
	for i := range items {
		rel := fmt.Sprintf("item-%04d", i)
		items[i] = sweep.WorkItem{Path: "/root/" + rel, RelPath: rel}
	}
	return items
}

func TestWorkQueue_PopInOrderThenEmpty(t *testing.T) {
	q := sweep.NewWorkQueue(makeItems(3))
	assert.Equal(t, 3, q.Len())

	for i := 0; i < 3; i++ {
		item, ok := q.Pop()
		assert.True(t, ok)
		assert.Equal(t, fmt.Sprintf("item-%04d", i), item.RelPath)
	}
	item, ok := q.Pop()
	assert.False(t, ok)
	assert.Equal(t, sweep.WorkItem{}, item)
	assert.Equal(t, 0, q.Len())
}

func TestWorkQueue_EmptyNeverBlocks(t *testing.T) {
	q := sweep.NewWorkQueue(nil)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, ok := q.Pop()
		assert.False(t, ok)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Pop blocked on an empty queue")
	}
}

func TestWorkQueue_ConcurrentPopExactlyOnce(t *testing.T) {
	const n = 1000
	q := sweep.NewWorkQueue(makeItems(n))

	var mu sync.Mutex
	seen := make(map[string]int, n)
	var wg sync.WaitGroup
	for w := 0; w < 16; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				item, ok := q.Pop()
				if !ok {
					return
				}
				mu.Lock()
				seen[item.RelPath]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, n)
	for rel, count := range seen {
		assert.Equal(t, 1, count, rel)
	}
}
