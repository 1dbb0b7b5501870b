package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/tankcombat/ai"
	"github.com/milk9111/tankcombat/common"
	"github.com/milk9111/tankcombat/ecs"
	"github.com/milk9111/tankcombat/ecs/component"
	"github.com/milk9111/tankcombat/ground"
	"golang.org/x/image/math/f64"
)

const (
	categoryTerrain uint = 1 << iota
	categoryTank
)

const (
	DefaultGravity    = -980.0
	defaultIterations = 20
)

// PhysicsSystem owns the cp space. It is also the world query service used by
// the AI and the ground probe.
type PhysicsSystem struct {
	space *cp.Space
	clock *Clock

	bodies map[ecs.Entity]*bodyInfo
	owners map[*cp.Shape]ecs.Entity
}

type bodyInfo struct {
	body   *cp.Body
	shape  *cp.Shape
	static bool
}

func NewPhysicsSystem(clock *Clock) *PhysicsSystem {
	return &PhysicsSystem{
		space:  newSpace(),
		clock:  clock,
		bodies: make(map[ecs.Entity]*bodyInfo),
		owners: make(map[*cp.Shape]ecs.Entity),
	}
}

func newSpace() *cp.Space {
	space := cp.NewSpace()
	space.Iterations = defaultIterations
	space.SetGravity(cp.Vector{X: 0, Y: DefaultGravity})
	return space
}

func toCP(v common.Vec3) cp.Vector {
	return cp.Vector{X: v.X, Y: v.Z}
}

func fromCP(v cp.Vector, y float64) common.Vec3 {
	return common.Vec3{X: v.X, Y: y, Z: v.Y}
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	if ps.space == nil {
		ps.space = newSpace()
	}

	ps.Sync(w)
	ps.space.Step(ps.clock.Dt())
	ps.syncTransforms(w)
}

// Sync creates bodies for new entities and drops bodies of dead ones without
// stepping. Queries issued before the first Update should call it.
func (ps *PhysicsSystem) Sync(w *ecs.World) {
	ps.cleanupEntities(w)

	ecs.ForEach(w, component.TerrainSegmentComponent.Kind(), func(e ecs.Entity, seg *component.TerrainSegment) {
		if _, ok := ps.bodies[e]; ok {
			return
		}
		shape := cp.NewSegment(ps.space.StaticBody, toCP(seg.A), toCP(seg.B), seg.Radius)
		shape.SetFriction(seg.Friction)
		shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, categoryTerrain, cp.ALL_CATEGORIES))
		ps.space.AddShape(shape)

		seg.Shape = shape
		ps.bodies[e] = &bodyInfo{body: ps.space.StaticBody, shape: shape, static: true}
		ps.owners[shape] = e
	})

	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, pb *component.PhysicsBody, t *component.Transform) {
		if _, ok := ps.bodies[e]; ok {
			return
		}
		ps.createBody(e, pb, t)
	})
}

func (ps *PhysicsSystem) createBody(e ecs.Entity, pb *component.PhysicsBody, t *component.Transform) {
	length, height := pb.Length, pb.Height
	if length <= 0 || height <= 0 {
		length, height = 64, 32
	}
	mass := pb.Mass
	if mass <= 0 {
		mass = 1
	}

	body := cp.NewBody(mass, cp.MomentForBox(mass, length, height))
	body.SetPosition(toCP(t.Location))
	body.SetAngle(common.PitchFromBasis(t.Basis))
	body.UserData = e
	ps.space.AddBody(body)

	shape := cp.NewBox(body, length, height, 0)
	shape.SetFriction(pb.Friction)
	// a tank's own shapes share its group so queries from it skip itself
	shape.SetFilter(cp.NewShapeFilter(uint(e), categoryTank, cp.ALL_CATEGORIES))
	ps.space.AddShape(shape)

	pb.Body = body
	pb.Shape = shape
	ps.bodies[e] = &bodyInfo{body: body, shape: shape}
	ps.owners[shape] = e
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.bodies {
		if w.IsAlive(e) {
			continue
		}
		if info.shape != nil {
			ps.space.RemoveShape(info.shape)
			delete(ps.owners, info.shape)
		}
		if !info.static && info.body != nil {
			ps.space.RemoveBody(info.body)
		}
		delete(ps.bodies, e)
	}
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	for e, info := range ps.bodies {
		if info.static {
			continue
		}
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		t.Location = fromCP(info.body.Position(), t.Location.Y)
		t.Basis = common.BasisFromPitch(info.body.Angle())
	}
}

// Velocity is the linear velocity of e's body.
func (ps *PhysicsSystem) Velocity(e ecs.Entity) common.Vec3 {
	info, ok := ps.bodies[e]
	if !ok || info.static {
		return common.Zero3
	}
	return fromCP(info.body.Velocity(), 0)
}

// ApplyDrive pushes e's body at its center of gravity.
func (ps *PhysicsSystem) ApplyDrive(e ecs.Entity, force common.Vec3) {
	info, ok := ps.bodies[e]
	if !ok || info.static {
		return
	}
	info.body.ApplyForceAtWorldPoint(toCP(force), info.body.Position())
}

// SetPose teleports e and kills its momentum. A dynamic body can only pitch,
// so its angle follows the up axis of basis and the transform is snapped to
// the pose the body can actually hold.
func (ps *PhysicsSystem) SetPose(w *ecs.World, e ecs.Entity, location common.Vec3, basis f64.Mat3) {
	info, dynamic := ps.bodies[e]
	dynamic = dynamic && !info.static

	if dynamic {
		angle := common.PitchFromUp(common.BasisUp(basis))
		basis = common.BasisFromPitch(angle)
		info.body.SetPosition(toCP(location))
		info.body.SetAngle(angle)
		info.body.SetVelocityVector(cp.Vector{})
		info.body.SetAngularVelocity(0)
		info.body.Activate()
		if info.shape != nil {
			info.shape.CacheBB()
		}
	}
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		t.Location = location
		t.Basis = basis
	}
}

// Bounds is the cached world AABB of e's shape.
func (ps *PhysicsSystem) Bounds(e ecs.Entity, y float64) (ground.Box, bool) {
	info, ok := ps.bodies[e]
	if !ok || info.shape == nil {
		return ground.Box{}, false
	}
	bb := info.shape.BB()
	return ground.NewBox(common.V3(bb.L, y, bb.B), common.V3(bb.R, y, bb.T)), true
}

// RaycastGround returns the first terrain hit between from and to.
func (ps *PhysicsSystem) RaycastGround(from, to common.Vec3) (ground.Data, bool) {
	if ps == nil || ps.space == nil {
		return ground.Data{}, false
	}
	filter := cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, categoryTerrain)
	hit := ps.space.SegmentQueryFirst(toCP(from), toCP(to), 0, filter)
	if hit.Shape == nil {
		return ground.Data{}, false
	}
	return ground.Data{
		Location: fromCP(hit.Point, from.Y),
		Normal:   fromCP(hit.Normal, 0).Normalize(),
	}, true
}

// LineOfSight traces from one unit to the other. Units that are not tanks of
// this world are traced against terrain only.
func (ps *PhysicsSystem) LineOfSight(from, to ai.Unit) bool {
	if ps == nil || ps.space == nil || from == nil || to == nil {
		return false
	}
	fromEnt, fromOK := entityOf(from)
	toEnt, toOK := entityOf(to)

	filter := cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, categoryTerrain)
	if fromOK && toOK {
		filter = cp.NewShapeFilter(uint(fromEnt), cp.ALL_CATEGORIES, cp.ALL_CATEGORIES)
	}
	hit := ps.space.SegmentQueryFirst(toCP(from.Location()), toCP(to.Location()), 0, filter)
	if hit.Shape == nil {
		return true
	}
	owner, ok := ps.owners[hit.Shape]
	return ok && toOK && owner == toEnt
}

// SweepOverlap returns the tanks whose shapes overlap box.
func (ps *PhysicsSystem) SweepOverlap(box ground.Box) []ecs.Entity {
	if ps == nil || ps.space == nil || !box.IsValid() {
		return nil
	}
	bb := cp.BB{L: box.Min.X, B: box.Min.Z, R: box.Max.X, T: box.Max.Z}
	filter := cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, categoryTank)

	seen := make(map[ecs.Entity]struct{})
	var out []ecs.Entity
	ps.space.BBQuery(bb, filter, func(shape *cp.Shape, _ interface{}) {
		e, ok := ps.owners[shape]
		if !ok {
			return
		}
		if _, dup := seen[e]; dup {
			return
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}, nil)
	return out
}

func entityOf(u ai.Unit) (ecs.Entity, bool) {
	if tu, ok := u.(interface{ Entity() ecs.Entity }); ok {
		return tu.Entity(), true
	}
	return 0, false
}
