package waitqueue

import (
	"sync"
	"testing"
)

func TestStackPushDrainOrder(t *testing.T) {
	var s Stack
	a, b, c := &Node{}, &Node{}, &Node{}
	s.Push(a)
	s.Push(b)
	s.Push(c)

	chain := s.Drain()
	var got []*Node
	Each(chain, func(n *Node) { got = append(got, n) })

	want := []*Node{c, b, a}
	if len(got) != len(want) {
		t.Fatalf("got %d nodes, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("node %d = %p, want %p", i, got[i], want[i])
		}
	}
}

func TestStackDrainEmptyReturnsNil(t *testing.T) {
	var s Stack
	if s.Drain() != nil {
		t.Fatal("Drain on empty stack returned non-nil")
	}
}

func TestStackDrainResetsToEmpty(t *testing.T) {
	var s Stack
	s.Push(&Node{})
	s.Drain()
	if s.Drain() != nil {
		t.Fatal("second Drain after first should be nil")
	}
}

func TestStackConcurrentPush(t *testing.T) {
	var s Stack
	const n = 200
	nodes := make([]*Node, n)
	for i := range nodes {
		nodes[i] = &Node{}
	}

	var wg sync.WaitGroup
	wg.Add(n)
	for _, node := range nodes {
		node := node
		go func() {
			defer wg.Done()
			s.Push(node)
		}()
	}
	wg.Wait()

	count := 0
	Each(s.Drain(), func(n *Node) { count++ })
	if count != n {
		t.Fatalf("drained %d nodes, want %d", count, n)
	}
}
