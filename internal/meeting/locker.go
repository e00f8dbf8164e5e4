package meeting

import (
	"sort"
	"sync"

	"github.com/samber/lo"
)

// PartyLocker is a keyed mutex: writes touching the same party serialize, writes for
// unrelated parties proceed in parallel. Entries are dropped once nobody holds or waits.
type PartyLocker struct {
	mu    sync.Mutex
	locks map[uint64]*partyLock
}

type partyLock struct {
	mu   sync.Mutex
	refs int
}

func NewPartyLocker() *PartyLocker {
	return &PartyLocker{locks: make(map[uint64]*partyLock)}
}

// Lock acquires every party in ascending id order so two bookings sharing both
// parties cannot deadlock. The returned func releases them.
func (l *PartyLocker) Lock(partyIDs ...uint64) (unlock func()) {
	ids := lo.Uniq(partyIDs)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	held := make([]*partyLock, 0, len(ids))
	for _, id := range ids {
		pl := l.acquire(id)
		pl.mu.Lock()
		held = append(held, pl)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].mu.Unlock()
			l.release(ids[i], held[i])
		}
	}
}

func (l *PartyLocker) acquire(id uint64) *partyLock {
	l.mu.Lock()
	defer l.mu.Unlock()
	pl, ok := l.locks[id]
	if !ok {
		pl = &partyLock{}
		l.locks[id] = pl
	}
	pl.refs++
	return pl
}

func (l *PartyLocker) release(id uint64, pl *partyLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	pl.refs--
	if pl.refs == 0 {
		delete(l.locks, id)
	}
}

func (l *PartyLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
