package system

import "github.com/milk9111/tankcombat/ecs"

// Clock is simulated time. Register it first so every other system sees the
// time of the current frame.
type Clock struct {
	now   float64
	dt    float64
	frame uint64
}

func NewClock(dt float64) *Clock {
	if dt <= 0 {
		dt = 1.0 / 60.0
	}
	return &Clock{dt: dt}
}

func (c *Clock) Update(_ *ecs.World) {
	c.Advance(c.dt)
}

func (c *Clock) Advance(dt float64) {
	c.now += dt
	c.frame++
}

func (c *Clock) Now() float64 {
	if c == nil {
		return 0
	}
	return c.now
}

func (c *Clock) Dt() float64 {
	if c == nil {
		return 1.0 / 60.0
	}
	return c.dt
}

func (c *Clock) Frame() uint64 {
	return c.frame
}
