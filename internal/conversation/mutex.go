package conversation

import "sync"

// keyedMutex serializes work per user while leaving different users fully
// concurrent. Entries are kept for the lifetime of the process; the set of
// active users is small enough that no eviction is needed.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func (k *keyedMutex) lock(userID int64) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[int64]*sync.Mutex)
	}
	l, ok := k.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		k.locks[userID] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}
