package inventory

import "sync"

// materialLocks mutex por material. Las entradas se liberan cuando nadie las usa,
// así el mapa no crece con materiales que ya no reciben consumos.
type materialLocks struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newMaterialLocks() *materialLocks {
	return &materialLocks{locks: make(map[string]*refMutex)}
}

// Lock bloquea el material y devuelve la función para liberarlo.
func (l *materialLocks) Lock(materialID string) func() {
	l.mu.Lock()
	m, ok := l.locks[materialID]
	if !ok {
		m = &refMutex{}
		l.locks[materialID] = m
	}
	m.refs++
	l.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		l.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(l.locks, materialID)
		}
		l.mu.Unlock()
	}
}
