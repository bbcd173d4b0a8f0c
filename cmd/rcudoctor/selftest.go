package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/kolkov/rcu/rcu"
)

const (
	selftestReaders    = 4
	selftestIterations = 200
)

// selftestCommand implements 'rcudoctor selftest': a short in-process
// register/read/synchronize run used to catch a broken build (deadlocked
// grace period, lost wakeup) without needing a full test suite.
func selftestCommand(_ []string) {
	d := rcu.NewDomain()
	var v rcu.Published[int]
	zero := 0
	v.Assign(&zero)

	var wg sync.WaitGroup
	wg.Add(selftestReaders)
	for i := 0; i < selftestReaders; i++ {
		go func() {
			defer wg.Done()
			d.RegisterThread()
			defer d.UnregisterThread()
			for j := 0; j < selftestIterations; j++ {
				d.ReadLock()
				_ = *v.Dereference()
				d.ReadUnlock()
			}
		}()
	}

	start := time.Now()
	for i := 0; i < selftestIterations; i++ {
		n := i
		v.Assign(&n)
		d.Synchronize()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		fmt.Fprintln(os.Stderr, "rcudoctor: selftest timed out, suspect a lost wakeup")
		os.Exit(1)
	}

	stats := d.Stats()
	fmt.Printf("ok: %d grace periods in %s, %d readers registered at exit\n",
		stats.GracePeriods, time.Since(start), stats.RegisteredReaders)
}
