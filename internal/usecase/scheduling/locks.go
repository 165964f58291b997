package scheduling

import (
	"fmt"
	"sync"
	"time"
)

// resourceDayLocks serializes mutations per (staff, day). Different staff or
// different days proceed in parallel. Entries are tiny and only created for
// keys actually touched.
type resourceDayLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newResourceDayLocks() *resourceDayLocks {
	return &resourceDayLocks{locks: make(map[string]*sync.Mutex)}
}

func lockKey(staffID uint, date time.Time) string {
	return fmt.Sprintf("%s|%d", date.Format("2006-01-02"), staffID)
}

func (l *resourceDayLocks) get(key string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	return m
}

// acquire locks one (staff, day) and returns the unlock.
func (l *resourceDayLocks) acquire(staffID uint, date time.Time) func() {
	m := l.get(lockKey(staffID, date))
	m.Lock()
	return m.Unlock
}

// acquirePair locks two (staff, day) keys in lexicographic key order — date
// first, then staff id — so concurrent reschedules can never deadlock.
func (l *resourceDayLocks) acquirePair(
	staffA uint, dateA time.Time,
	staffB uint, dateB time.Time,
) func() {
	keyA := lockKey(staffA, dateA)
	keyB := lockKey(staffB, dateB)

	if keyA == keyB {
		return l.acquire(staffA, dateA)
	}
	if keyA > keyB {
		keyA, keyB = keyB, keyA
	}

	first := l.get(keyA)
	second := l.get(keyB)

	first.Lock()
	second.Lock()
	return func() {
		second.Unlock()
		first.Unlock()
	}
}
