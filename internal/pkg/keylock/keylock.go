// Package keylock provides in-process mutual exclusion keyed by an
// arbitrary string. The balance authority uses it to serialize all
// mutations for one card while letting different cards proceed in
// parallel.
package keylock

import (
	"hash/fnv"
	"sync"
)

const shardCount = 64

// KeyLock is a sharded mutex table. Two keys hashing to the same shard
// contend with each other; that is acceptable, the guarantee needed is
// only that the same key always maps to the same mutex.
type KeyLock struct {
	shards [shardCount]sync.Mutex
}

// New creates a KeyLock.
func New() *KeyLock {
	return &KeyLock{}
}

// Lock acquires the mutex for key and returns the unlock function.
//
//	unlock := locks.Lock(uid)
//	defer unlock()
func (l *KeyLock) Lock(key string) func() {
	m := &l.shards[shardFor(key)]
	m.Lock()
	return m.Unlock
}

func shardFor(key string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return h.Sum32() % shardCount
}
