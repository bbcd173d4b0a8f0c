package gpengine

import (
	"sync"
	"testing"
	"time"

	"github.com/kolkov/rcu/internal/rcu/registry"
)

func newTestEngine() (*Engine, *registry.Registry) {
	reg := registry.New()
	return New(reg), reg
}

func TestReadLockUnlockRoundTrip(t *testing.T) {
	e, reg := newTestEngine()
	r := reg.RegisterThread()
	defer reg.UnregisterThread()

	for i := 0; i < 1000; i++ {
		e.ReadLock(r)
		if !ReadOngoing(r) {
			t.Fatal("ReadOngoing false inside critical section")
		}
		e.ReadUnlock(r)
	}

	if ReadOngoing(r) {
		t.Fatal("ReadOngoing true after balanced lock/unlock")
	}
	if r.Counter().NestDepth() != 0 {
		t.Fatalf("nest depth = %d, want 0", r.Counter().NestDepth())
	}
}

func TestReadLockNests(t *testing.T) {
	e, reg := newTestEngine()
	r := reg.RegisterThread()
	defer reg.UnregisterThread()

	e.ReadLock(r)
	e.ReadLock(r)
	e.ReadLock(r)
	if r.Counter().NestDepth() != 3 {
		t.Fatalf("nest depth = %d, want 3", r.Counter().NestDepth())
	}
	e.ReadUnlock(r)
	e.ReadUnlock(r)
	if r.Counter().NestDepth() != 1 {
		t.Fatalf("nest depth = %d, want 1", r.Counter().NestDepth())
	}
	e.ReadUnlock(r)
	if !r.Counter().Inactive() {
		t.Fatal("expected inactive after balanced nested unlock")
	}
}

func TestSynchronizeWithEmptyRegistryReturnsImmediately(t *testing.T) {
	e, _ := newTestEngine()
	done := make(chan struct{})
	go func() {
		e.Synchronize()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Synchronize on empty registry did not return")
	}
}

func TestSynchronizeWaitsForActiveReader(t *testing.T) {
	e, reg := newTestEngine()
	r := reg.RegisterThread()

	e.ReadLock(r)
	unlocked := make(chan struct{})
	go func() {
		time.Sleep(20 * time.Millisecond)
		e.ReadUnlock(r)
		close(unlocked)
	}()

	syncDone := make(chan struct{})
	go func() {
		e.Synchronize()
		close(syncDone)
	}()

	select {
	case <-syncDone:
		t.Fatal("Synchronize returned before the active reader unlocked")
	case <-time.After(5 * time.Millisecond):
	}

	<-unlocked
	select {
	case <-syncDone:
	case <-time.After(time.Second):
		t.Fatal("Synchronize never returned after reader unlocked")
	}

	reg.UnregisterThread()
}

func TestConcurrentSynchronizeCallersAllReturn(t *testing.T) {
	e, reg := newTestEngine()
	r := reg.RegisterThread()
	defer reg.UnregisterThread()

	e.ReadLock(r)
	go func() {
		time.Sleep(10 * time.Millisecond)
		e.ReadUnlock(r)
	}()

	var wg sync.WaitGroup
	const writers = 8
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			e.Synchronize()
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("not all concurrent Synchronize callers returned")
	}
}

func TestTenReadersThreeWritersTerminate(t *testing.T) {
	reg := registry.New()
	e := New(reg)

	const iterations = 200
	var wg sync.WaitGroup

	wg.Add(10)
	for i := 0; i < 10; i++ {
		go func() {
			defer wg.Done()
			r := reg.RegisterThread()
			defer reg.UnregisterThread()
			for j := 0; j < iterations; j++ {
				e.ReadLock(r)
				e.ReadUnlock(r)
			}
		}()
	}

	wg.Add(3)
	for i := 0; i < 3; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				e.Synchronize()
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("readers/writers did not all terminate")
	}
}

func TestDeepNestingDoesNotCorruptPhase(t *testing.T) {
	e, reg := newTestEngine()
	r := reg.RegisterThread()
	defer reg.UnregisterThread()

	const depth = 1 << 16
	for i := 0; i < depth; i++ {
		e.ReadLock(r)
	}
	if r.Counter().NestDepth() != depth {
		t.Fatalf("nest depth = %d, want %d", r.Counter().NestDepth(), depth)
	}
	if !r.Counter().SamePhase(e.gpCtr.Load()) {
		t.Fatalf("phase corrupted after %d nests: counter %s, gp.ctr %#x", depth, r.Counter(), e.gpCtr.Load())
	}
	for i := 0; i < depth; i++ {
		e.ReadUnlock(r)
	}
	if !r.Counter().Inactive() {
		t.Fatal("expected inactive after unwinding deep nesting")
	}
}
