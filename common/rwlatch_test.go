package common

import (
	"io"
	"sync"
	"testing"
	"time"

	testingpkg "github.com/ryogrid/QueryCore/testing/testing_assert"
	"github.com/sasha-s/go-deadlock"
)

func countUnderLatch(t *testing.T, latch ReaderWriterLatch) {
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				latch.WLock()
				counter++
				latch.WUnlock()
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				latch.RLock()
				_ = counter
				latch.RUnlock()
			}
		}()
	}
	wg.Wait()
	testingpkg.Equals(t, 1600, counter)
}

func TestRWLatch(t *testing.T) {
	countUnderLatch(t, NewRWLatch())
}

func TestRWLatchDeadlockDetect(t *testing.T) {
	countUnderLatch(t, NewRWLatchDeadlockDetect())
}

func TestRWLatchDeadlockDetectReportsLongWait(t *testing.T) {
	savedTimeout, savedLogBuf, savedOnPotential := deadlock.Opts.DeadlockTimeout, deadlock.Opts.LogBuf, deadlock.Opts.OnPotentialDeadlock
	defer func() {
		deadlock.Opts.DeadlockTimeout = savedTimeout
		deadlock.Opts.LogBuf = savedLogBuf
		deadlock.Opts.OnPotentialDeadlock = savedOnPotential
	}()

	reported := make(chan struct{}, 1)
	deadlock.Opts.DeadlockTimeout = 50 * time.Millisecond
	deadlock.Opts.LogBuf = io.Discard
	deadlock.Opts.OnPotentialDeadlock = func() {
		select {
		case reported <- struct{}{}:
		default:
		}
	}

	latch := NewRWLatchDeadlockDetect()
	latch.WLock()
	done := make(chan struct{})
	go func() {
		latch.WLock()
		latch.WUnlock()
		close(done)
	}()

	select {
	case <-reported:
	case <-time.After(5 * time.Second):
		t.Fatal("waiting on a held latch was not reported")
	}
	latch.WUnlock()
	<-done
}
