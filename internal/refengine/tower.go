// internal/refengine/tower.go
package refengine

import "sync"

// tower is the engine's working memory: reusable DP rows for the bounded
// edit-distance kernel.
type tower struct {
	prev, cur []int
}

var (
	towerMu sync.Mutex
	top     *tower
	inits   int
)

// InitTower sets up the working memory, discarding any left over from a
// previous session.
func InitTower() {
	towerMu.Lock()
	defer towerMu.Unlock()
	top = &tower{}
	inits++
}

// CleanupTower releases the working memory. Calling it without a tower is a
// no-op.
func CleanupTower() {
	towerMu.Lock()
	defer towerMu.Unlock()
	top = nil
}

// Active reports whether a tower is currently set up.
func Active() bool {
	towerMu.Lock()
	defer towerMu.Unlock()
	return top != nil
}

// Inits returns how many times InitTower has run in this process.
func Inits() int {
	towerMu.Lock()
	defer towerMu.Unlock()
	return inits
}

func acquireTower() *tower {
	towerMu.Lock()
	defer towerMu.Unlock()
	return top
}

func (t *tower) rows(n int) ([]int, []int) {
	if cap(t.prev) < n {
		t.prev = make([]int, n)
		t.cur = make([]int, n)
	}
	return t.prev[:n], t.cur[:n]
}
