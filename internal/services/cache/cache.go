package cache

import (
	"sync"

	"github.com/pkg/errors"
)

var (
	ErrLocked = errors.New("key is locked")
)

// KeyLock serializes commits touching the same (product, name) pair so
// a replace cannot interleave with a concurrent create of the same key.
type KeyLock interface {
	Lock(keys []string) error
	Unlock(keys []string)
}

type keyLock struct {
	locker sync.Mutex
	keys   map[string]struct{}
}

func NewKeyLock() KeyLock {
	return &keyLock{
		keys: make(map[string]struct{}),
	}
}

func (m *keyLock) Lock(keys []string) error {
	m.locker.Lock()
	defer m.locker.Unlock()

	for _, k := range keys {
		if _, ok := m.keys[k]; ok {
			return ErrLocked
		}
	}

	for _, k := range keys {
		m.keys[k] = struct{}{}
	}

	return nil
}

func (m *keyLock) Unlock(keys []string) {
	m.locker.Lock()
	defer m.locker.Unlock()

	for _, k := range keys {
		delete(m.keys, k)
	}
}
