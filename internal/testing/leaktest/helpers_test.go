package leaktest

import (
	"sync"
	"testing"
	"time"
)

func TestGoroutineChecker_CleanRun(t *testing.T) {
	checker := NewGoroutineChecker(t)
	checker.Check(0)
}

func TestGoroutineChecker_ToleratesBackgroundWork(t *testing.T) {
	checker := NewGoroutineChecker(t)

	stop := make(chan struct{})
	defer close(stop)
	go func() { <-stop }()

	time.Sleep(20 * time.Millisecond)

	checker.Check(1)
}

func TestCheckNoGoroutineLeak(t *testing.T) {
	CheckNoGoroutineLeak(t, func() {
		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				time.Sleep(time.Millisecond)
			}()
		}
		wg.Wait()
	})
}
