package ground

import (
	"math"
	"math/rand"
	"testing"

	"github.com/milk9111/tankcombat/common"
	"golang.org/x/image/math/f64"
)

// planeRay is flat ground at height z with an optional hole where probes miss.
type planeRay struct {
	z              float64
	normal         common.Vec3
	holeMin        float64
	holeMax        float64
	calls          int
	lastFrom, last common.Vec3
}

func (r *planeRay) RaycastGround(from, to common.Vec3) (Data, bool) {
	r.calls++
	r.lastFrom, r.last = from, to
	if r.holeMax > r.holeMin && from.X >= r.holeMin && from.X <= r.holeMax {
		return Data{}, false
	}
	if from.Z < r.z || to.Z > r.z {
		return Data{}, false
	}
	n := r.normal
	if n.IsNearlyZero() {
		n = common.Up
	}
	return Data{Location: common.V3(from.X, from.Y, r.z), Normal: n}, true
}

type testActor struct {
	loc      common.Vec3
	basis    f64.Mat3
	bounds   Box
	template bool
	local    []Box
}

func newTestActor(loc common.Vec3, half common.Vec3) *testActor {
	return &testActor{
		loc:    loc,
		basis:  common.IdentityBasis(),
		bounds: BoxAround(loc, half),
	}
}

func (a *testActor) Location() common.Vec3 { return a.loc }
func (a *testActor) Basis() f64.Mat3       { return a.basis }
func (a *testActor) SetPose(l common.Vec3, b f64.Mat3) {
	a.loc = l
	a.basis = b
}
func (a *testActor) Bounds() (Box, bool) {
	if a.template {
		return Box{}, false
	}
	return a.bounds, true
}
func (a *testActor) LocalBounds() []Box { return a.local }

func TestGroundDataCastsBetweenOffsets(t *testing.T) {
	ray := &planeRay{z: 0}
	p := NewProber(ray)
	d, ok := p.GroundData(common.V3(10, 5, 50), 100, 300)
	if !ok {
		t.Fatalf("expected ground hit")
	}
	if d.Location != common.V3(10, 5, 0) || d.Normal != common.Up {
		t.Fatalf("unexpected hit %+v", d)
	}
	if ray.lastFrom.Z != 150 || ray.last.Z != -250 {
		t.Fatalf("expected cast from z=150 to z=-250, got %v -> %v", ray.lastFrom, ray.last)
	}

	if _, ok := p.GroundData(common.V3(0, 0, 500), 0, 100); ok {
		t.Fatalf("segment above the ground should miss")
	}
	var nilProber *Prober
	if _, ok := nilProber.GroundData(common.Zero3, 1, 1); ok {
		t.Fatalf("nil prober should never hit")
	}
}

func TestAxisAlignedBoundsTemplateFallback(t *testing.T) {
	a := newTestActor(common.V3(100, 0, 0), common.V3(1, 1, 1))
	a.template = true
	a.local = []Box{
		NewBox(common.V3(-2, -1, 0), common.V3(2, 1, 1)),
		NewBox(common.V3(-1, -1, 1), common.V3(3, 1, 2)),
	}
	b := AxisAlignedBounds(a)
	want := NewBox(common.V3(98, -1, 0), common.V3(103, 1, 2))
	if b != want {
		t.Fatalf("expected %+v, got %+v", want, b)
	}

	a.local = nil
	if b := AxisAlignedBounds(a); b.Min != a.loc || b.Max != a.loc {
		t.Fatalf("template without local bounds should collapse to its location, got %+v", b)
	}

	a.template = false
	if b := AxisAlignedBounds(a); b != a.bounds {
		t.Fatalf("initialized actor should use registered bounds")
	}
}

func TestFuzzyResetPositionStaysInRaisedBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	a := newTestActor(common.V3(0, 0, 50), common.V3(200, 100, 40))
	for i := 0; i < 200; i++ {
		p, hh := FuzzyResetPosition(a, rng)
		if hh != 40 {
			t.Fatalf("expected half height 40, got %v", hh)
		}
		raised := a.bounds.Translate(common.V3(0, 0, hh))
		if !raised.Contains(p) {
			t.Fatalf("candidate %v outside raised bounds %+v", p, raised)
		}
	}
}

func TestResetActorToGroundAlignsUp(t *testing.T) {
	a := newTestActor(common.V3(0, 0, 100), common.V3(1, 1, 1))
	a.basis = common.BasisFromPitch(math.Pi) // upside down
	n := common.V3(0, 0, 1)
	ResetActorToGround(Data{Location: common.V3(5, 0, 0), Normal: n}, a, 30)
	if a.loc != common.V3(5, 0, 30) {
		t.Fatalf("expected location (5,0,30), got %v", a.loc)
	}
	if up := common.BasisUp(a.basis); math.Abs(up.Dot(n)-1) > 1e-9 {
		t.Fatalf("up axis should match normal, got %v", up)
	}

	if fwd := common.BasisForward(a.basis); math.Abs(fwd.X-1) > 1e-9 {
		t.Fatalf("righting should roll in the XZ plane, forward = %v", fwd)
	}
	if right := common.BasisRight(a.basis); math.Abs(right.Y-1) > 1e-9 {
		t.Fatalf("right axis should be kept, got %v", right)
	}

	slope := common.V3(-1, 0, 1).Normalize()
	ResetActorToGround(Data{Location: common.Zero3, Normal: slope}, a, 10)
	if got := a.loc; got.Dist(slope.Scale(10)) > 1e-9 {
		t.Fatalf("expected offset along the slope normal, got %v", got)
	}
	if up := common.BasisUp(a.basis); math.Abs(up.Dot(slope)-1) > 1e-9 {
		t.Fatalf("up axis should follow slope normal, got %v", up)
	}
}

func TestFindResetGroundFallsBack(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	a := newTestActor(common.V3(0, 0, 20), common.V3(50, 10, 20))

	ray := &planeRay{z: 0}
	p := NewProber(ray)
	d, hh, ok := p.FindResetGround(a, rng)
	if !ok || d.Location.Z != 0 || hh != 20 {
		t.Fatalf("expected fuzzy probe to hit, got %+v hh=%v ok=%v", d, hh, ok)
	}

	// every jittered candidate lands in the hole but the actor origin does not
	ray.holeMin, ray.holeMax = -50, -1
	a.bounds = NewBox(common.V3(-50, -10, 0), common.V3(-1, 10, 40))
	ray.calls = 0
	d, _, ok = p.FindResetGround(a, rng)
	if !ok || ray.calls != 2 {
		t.Fatalf("expected fallback probe at actor location, ok=%v calls=%d", ok, ray.calls)
	}
	if d.Location.X != a.loc.X {
		t.Fatalf("fallback should probe the unmodified location, got %v", d.Location)
	}

	ray.holeMin, ray.holeMax = -100, 100
	if _, _, ok := p.FindResetGround(a, rng); ok {
		t.Fatalf("both probes missing should report failure")
	}
}

func TestFindResetGroundNilProber(t *testing.T) {
	var p *Prober
	a := newTestActor(common.V3(0, 0, 20), common.V3(50, 10, 20))
	if _, _, ok := p.FindResetGround(a, rand.New(rand.NewSource(1))); ok {
		t.Fatalf("nil prober should report no ground")
	}
}
