package ai

import (
	"math/rand"

	"github.com/milk9111/tankcombat/common"
	"github.com/milk9111/tankcombat/logger"
)

type fakeUnit struct {
	loc common.Vec3
	vel common.Vec3
}

func (u *fakeUnit) Location() common.Vec3 { return u.loc }
func (u *fakeUnit) Velocity() common.Vec3 { return u.vel }

type fakeEnv struct {
	self   *fakeUnit
	player *fakeUnit
	bb     *Blackboard
}

func (e *fakeEnv) ControlledUnit() (Unit, bool) {
	if e.self == nil {
		return nil, false
	}
	return e.self, true
}

func (e *fakeEnv) PlayerUnit() (Unit, bool) {
	if e.player == nil {
		return nil, false
	}
	return e.player, true
}

func (e *fakeEnv) Blackboard() *Blackboard { return e.bb }

type fakeWorld struct {
	los bool
}

func (w *fakeWorld) LineOfSight(from, to Unit) bool { return w.los }

type moveCall struct {
	location common.Vec3
	radius   float64
}

type fakeMove struct {
	calls []moveCall
}

func (m *fakeMove) MoveTo(location common.Vec3, acceptanceRadius float64, continuousRepath, stopOnOverlap bool) {
	m.calls = append(m.calls, moveCall{location: location, radius: acceptanceRadius})
}

type fakeAim struct {
	status     FiringStatus
	fireOK     bool
	fireCalls  int
	aims       []common.Vec3
	speed      float64
	launchable bool
}

func (a *fakeAim) AimAt(location common.Vec3)  { a.aims = append(a.aims, location) }
func (a *fakeAim) FiringStatus() FiringStatus { return a.status }
func (a *fakeAim) LaunchSpeed() (float64, bool) {
	return a.speed, a.launchable
}
func (a *fakeAim) Fire() bool {
	a.fireCalls++
	return a.fireOK
}

type harness struct {
	env   *fakeEnv
	world *fakeWorld
	move  *fakeMove
	aim   *fakeAim
	ctrl  *Controller
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.StartDelay = 1
	cfg.MaxAggroDistance = 5000
	cfg.MaxInfaredDistance = 1000
	cfg.ReactionTime = 0.5
	cfg.ReportedPositionMinDelay = 2
	cfg.ReportedPositionMaxDelay = 4
	cfg.MinMoveDistance = 800
	cfg.AcceptanceRadius = 100
	cfg.TargetingErrorResetTime = 1
	cfg.PredictiveAimSpeedThreshold = 50
	return cfg
}

func newHarness(cfg Config, bb *Blackboard, self, player common.Vec3) *harness {
	h := &harness{
		env: &fakeEnv{
			self:   &fakeUnit{loc: self},
			player: &fakeUnit{loc: player},
			bb:     bb,
		},
		world: &fakeWorld{},
		move:  &fakeMove{},
		aim:   &fakeAim{},
	}
	h.ctrl = MustController(cfg, Deps{
		Name:   "test",
		Env:    h.env,
		World:  h.world,
		Move:   h.move,
		Aim:    h.aim,
		Rand:   rand.New(rand.NewSource(1)),
		Logger: logger.Discard(),
	})
	return h
}
