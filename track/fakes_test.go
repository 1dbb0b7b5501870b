package track

import (
	"math/rand"

	"github.com/milk9111/tankcombat/common"
	"github.com/milk9111/tankcombat/ground"
	"github.com/milk9111/tankcombat/logger"
	"golang.org/x/image/math/f64"
)

// flatGround is a plane at z=0 with an on/off switch.
type flatGround struct {
	missing bool
	calls   int
}

func (g *flatGround) RaycastGround(from, to common.Vec3) (ground.Data, bool) {
	g.calls++
	if g.missing || from.Z < 0 || to.Z > 0 {
		return ground.Data{}, false
	}
	return ground.Data{Location: common.V3(from.X, from.Y, 0), Normal: common.Up}, true
}

type tank struct {
	loc      common.Vec3
	vel      common.Vec3
	basis    f64.Mat3
	half     common.Vec3
	throttle float64
	poses    int
}

func newTank(loc common.Vec3) *tank {
	return &tank{
		loc:   loc,
		basis: common.IdentityBasis(),
		half:  common.V3(100, 60, 40),
	}
}

func (t *tank) Location() common.Vec3 { return t.loc }
func (t *tank) Velocity() common.Vec3 { return t.vel }
func (t *tank) Basis() f64.Mat3       { return t.basis }
func (t *tank) Throttle() float64     { return t.throttle }
func (t *tank) SetPose(loc common.Vec3, basis f64.Mat3) {
	t.loc = loc
	t.basis = basis
	t.poses++
}
func (t *tank) Bounds() (ground.Box, bool) { return ground.BoxAround(t.loc, t.half), true }
func (t *tank) LocalBounds() []ground.Box {
	return []ground.Box{ground.BoxAround(common.Zero3, t.half)}
}

func testDeps(g *flatGround) Deps {
	return Deps{
		Name:   "test",
		Prober: ground.NewProber(g),
		Rand:   rand.New(rand.NewSource(7)),
		Logger: logger.Discard(),
	}
}
