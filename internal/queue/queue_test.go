package queue

import (
	"sync"
	"testing"
)

func TestPushAndLen(t *testing.T) {
	q := New[int]()
	if !q.Empty() {
		t.Error("new queue should be empty")
	}

	q.Push(1)
	q.Push(2, 3)
	if q.Len() != 3 {
		t.Errorf("expected length 3, got %d", q.Len())
	}
}

func TestPop_Order(t *testing.T) {
	q := New[string]()
	q.Push("first", "second")

	item, ok := q.Pop()
	if !ok || item != "first" {
		t.Errorf("Pop() = %q, %v; want %q, true", item, ok, "first")
	}
	item, ok = q.Pop()
	if !ok || item != "second" {
		t.Errorf("Pop() = %q, %v; want %q, true", item, ok, "second")
	}
	if _, ok := q.Pop(); ok {
		t.Error("Pop on empty queue should report ok=false")
	}
}

func TestDrain(t *testing.T) {
	q := New[int]()
	q.Push(1, 2, 3)

	batch := q.Drain()
	if len(batch) != 3 || batch[0] != 1 || batch[2] != 3 {
		t.Errorf("Drain() = %v, want [1 2 3]", batch)
	}
	if !q.Empty() {
		t.Error("queue should be empty after Drain")
	}
	if batch := q.Drain(); len(batch) != 0 {
		t.Errorf("Drain on empty queue returned %v", batch)
	}
}

func TestConcurrentPushers(t *testing.T) {
	q := New[int]()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			q.Push(n)
		}(i)
	}
	wg.Wait()

	if q.Len() != 100 {
		t.Errorf("expected 100 items, got %d", q.Len())
	}
}

func TestConcurrentDrainersSeeEveryItem(t *testing.T) {
	q := New[int]()
	for i := 0; i < 500; i++ {
		q.Push(i)
	}

	results := make(chan []int, 4)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- q.Drain()
		}()
	}
	wg.Wait()
	close(results)

	total := 0
	for batch := range results {
		total += len(batch)
	}
	if total != 500 {
		t.Errorf("drainers saw %d items in total, want 500", total)
	}
	if !q.Empty() {
		t.Error("queue should be empty after draining")
	}
}
