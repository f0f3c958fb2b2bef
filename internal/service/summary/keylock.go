package summary

import (
	"sync"

	"line-tracker/internal/storage"
)

type key struct {
	date    string
	groupID int64
}

type keyEntry struct {
	mu   sync.Mutex
	refs int
}

// KeyLock не больше одного писателя на (дата, группа). Разные ключи не блокируют друг друга.
type KeyLock struct {
	mu    sync.Mutex
	locks map[key]*keyEntry
}

func NewKeyLock() *KeyLock {
	return &KeyLock{locks: make(map[key]*keyEntry)}
}

// Lock возвращает функцию разблокировки.
func (l *KeyLock) Lock(date storage.Date, groupID int64) func() {
	k := key{date: date.String(), groupID: groupID}

	l.mu.Lock()
	e, ok := l.locks[k]
	if !ok {
		e = &keyEntry{}
		l.locks[k] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()

		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.locks, k)
		}
		l.mu.Unlock()
	}
}

// Len число ключей, по которым сейчас держат или ждут замок.
func (l *KeyLock) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
