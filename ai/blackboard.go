package ai

import (
	"sync"

	"github.com/milk9111/tankcombat/common"
)

// Sighting is the last place and time the player was directly perceived.
type Sighting struct {
	Location common.Vec3
	Time     float64
}

// Blackboard is the per-world perception state shared by every AI controller.
// Writes are last-writer-wins.
type Blackboard struct {
	mu   sync.RWMutex
	last Sighting
	seen bool
}

func NewBlackboard() *Blackboard {
	return &Blackboard{}
}

// LastSeen returns the last sighting; ok is false if the player was never observed.
func (b *Blackboard) LastSeen() (Sighting, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.last, b.seen
}

// SetLastSeen records a sighting. Negative times mark the player as unobserved.
func (b *Blackboard) SetLastSeen(location common.Vec3, time float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.last = Sighting{Location: location, Time: time}
	b.seen = time >= 0
}

func (b *Blackboard) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.last = Sighting{}
	b.seen = false
}
