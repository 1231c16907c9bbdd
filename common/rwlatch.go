package common

import (
	"sync"

	"github.com/sasha-s/go-deadlock"
)

type ReaderWriterLatch interface {
	WLock()
	WUnlock()
	RLock()
	RUnlock()
}

type readerWriterLatch struct {
	mutex *sync.RWMutex
}

// NewRWLatch returns a latch which reports lock order violations
// and long waits when EnableDebug is set.
func NewRWLatch() ReaderWriterLatch {
	if EnableDebug {
		return NewRWLatchDeadlockDetect()
	}
	return &readerWriterLatch{new(sync.RWMutex)}
}

func (l *readerWriterLatch) WLock() {
	l.mutex.Lock()
}

func (l *readerWriterLatch) WUnlock() {
	l.mutex.Unlock()
}

func (l *readerWriterLatch) RLock() {
	l.mutex.RLock()
}

func (l *readerWriterLatch) RUnlock() {
	l.mutex.RUnlock()
}

type readerWriterLatchDeadlockDetect struct {
	mutex *deadlock.RWMutex
}

// NewRWLatchDeadlockDetect returns a latch backed by go-deadlock. Lock
// order inversions and waits longer than deadlock.Opts.DeadlockTimeout are
// reported through deadlock.Opts.OnPotentialDeadlock.
func NewRWLatchDeadlockDetect() ReaderWriterLatch {
	return &readerWriterLatchDeadlockDetect{new(deadlock.RWMutex)}
}

func (l *readerWriterLatchDeadlockDetect) WLock() {
	l.mutex.Lock()
}

func (l *readerWriterLatchDeadlockDetect) WUnlock() {
	l.mutex.Unlock()
}

func (l *readerWriterLatchDeadlockDetect) RLock() {
	l.mutex.RLock()
}

func (l *readerWriterLatchDeadlockDetect) RUnlock() {
	l.mutex.RUnlock()
}
