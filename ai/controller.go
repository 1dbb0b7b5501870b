package ai

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/milk9111/tankcombat/common"
	"github.com/milk9111/tankcombat/logger"
	"github.com/sirupsen/logrus"
)

// State is the per-controller episode state. Exposed for debugging.
type State struct {
	FirstInRangeTime          common.OptTime
	TargetingErrorLastTime    common.OptTime
	TargetingError            common.Vec3
	ReportedPositionReactTime common.OptTime
	ShotsFired                int
	HasLineOfSight            bool
	InInfaredRange            bool
}

type Deps struct {
	Name  string
	Env   Env
	World WorldQuery
	Move  MoveActuator
	Aim   AimActuator
	// Rand defaults to a source seeded from the wall clock.
	Rand   *rand.Rand
	Logger logrus.FieldLogger
}

type Controller struct {
	cfg   Config
	env   Env
	world WorldQuery
	move  MoveActuator
	aim   AimActuator
	rng   *rand.Rand
	log   logrus.FieldLogger
	phase *PhaseTracker

	state State

	warnedNoDistanceCurve bool
}

func NewController(cfg Config, deps Deps) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.Env == nil || deps.World == nil || deps.Move == nil || deps.Aim == nil {
		return nil, fmt.Errorf("%w: controller %q is missing a collaborator", ErrInvalidConfig, deps.Name)
	}
	rng := deps.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	log := logger.Or(deps.Logger).WithField("ai", deps.Name)
	return &Controller{
		cfg:   cfg,
		env:   deps.Env,
		world: deps.World,
		move:  deps.Move,
		aim:   deps.Aim,
		rng:   rng,
		log:   log,
		phase: NewPhaseTracker(log),
	}, nil
}

func MustController(cfg Config, deps Deps) *Controller {
	c, err := NewController(cfg, deps)
	if err != nil {
		panic("ai: new controller: " + err.Error())
	}
	return c
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) Config() Config {
	return c.cfg
}

// SetConfig swaps tunables, e.g. after a hot reload. Episode state is kept.
func (c *Controller) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg
	c.warnedNoDistanceCurve = false
	return nil
}

func (c *Controller) Phase() Phase {
	return c.phase.Current()
}

// Tick runs one decision cycle at simulation time now.
func (c *Controller) Tick(ctx context.Context, now float64) {
	if now < c.cfg.StartDelay {
		c.phase.Enter(ctx, PhaseStartDelay)
		return
	}

	pc, ok := c.perceive(now)
	if !ok {
		return
	}

	if pc.DistSq > sq(c.cfg.MaxAggroDistance) {
		c.resetEpisode()
		c.phase.Enter(ctx, PhaseOutOfRange)
		return
	}

	c.state.HasLineOfSight = c.world.LineOfSight(pc.Self, pc.Player)
	c.state.InInfaredRange = pc.DistSq <= sq(c.cfg.MaxInfaredDistance)

	if !c.state.HasLineOfSight && !c.state.InInfaredRange {
		c.phase.Enter(ctx, PhaseBlindTracking)
		c.trackReportedPosition(pc)
		return
	}

	first, ok := c.state.FirstInRangeTime.Get()
	if !ok {
		c.state.FirstInRangeTime = common.At(now)
		first = now
	}
	if now-first < c.cfg.ReactionTime {
		c.phase.Enter(ctx, PhaseReactionDelay)
		return
	}

	c.phase.Enter(ctx, PhaseEngaged)
	pc.Blackboard.SetLastSeen(pc.Player.Location(), now)
	c.moveTowardPlayer(pc)

	if c.state.HasLineOfSight {
		c.engage(pc)
	}
}

func (c *Controller) perceive(now float64) (PerceptionContext, bool) {
	self, ok := c.env.ControlledUnit()
	if !ok || self == nil {
		return PerceptionContext{}, false
	}
	player, ok := c.env.PlayerUnit()
	if !ok || player == nil {
		return PerceptionContext{}, false
	}
	bb := c.env.Blackboard()
	if bb == nil {
		return PerceptionContext{}, false
	}
	return PerceptionContext{
		Self:       self,
		Player:     player,
		Blackboard: bb,
		Now:        now,
		DistSq:     self.Location().DistSq(player.Location()),
	}, true
}

func (c *Controller) resetEpisode() {
	c.state.FirstInRangeTime = common.OptTime{}
	c.state.TargetingErrorLastTime = common.OptTime{}
	c.state.ReportedPositionReactTime = common.OptTime{}
	c.state.HasLineOfSight = false
	c.state.InInfaredRange = false
	c.state.ShotsFired = 0
}

func (c *Controller) trackReportedPosition(pc PerceptionContext) {
	if !c.state.ReportedPositionReactTime.IsSet() {
		c.state.ReportedPositionReactTime = common.At(common.RandRange(c.rng,
			pc.Now+c.cfg.ReportedPositionMinDelay,
			pc.Now+c.cfg.ReportedPositionMaxDelay))
	}
	if seen, ok := c.ShouldMoveTowardReportedPosition(pc.Blackboard, pc.Now); ok {
		c.move.MoveTo(seen.Location, c.cfg.AcceptanceRadius, true, false)
	}
}

// ShouldMoveTowardReportedPosition returns the shared sighting to move toward.
//
// The unit moves while now <= react time, so it reacts at once and gives up
// when the drawn delay runs out. This reads as inverted from "wait, then
// react" but is kept as observed behavior until the intent is confirmed.
func (c *Controller) ShouldMoveTowardReportedPosition(bb *Blackboard, now float64) (Sighting, bool) {
	if bb == nil {
		return Sighting{}, false
	}
	seen, ok := bb.LastSeen()
	if !ok {
		return Sighting{}, false
	}
	react, ok := c.state.ReportedPositionReactTime.Get()
	if !ok || now > react {
		return Sighting{}, false
	}
	return seen, true
}

func (c *Controller) moveTowardPlayer(pc PerceptionContext) {
	if pc.DistSq <= sq(c.cfg.MinMoveDistance) && c.state.HasLineOfSight {
		return
	}
	c.move.MoveTo(pc.Player.Location(), c.cfg.AcceptanceRadius, true, false)
}

func (c *Controller) engage(pc PerceptionContext) {
	dist := math.Sqrt(pc.DistSq)
	c.refreshTargetingError(pc.Now, dist)

	speed, launchable := c.aim.LaunchSpeed()
	target := AimPoint(pc.Player.Location(), pc.Player.Velocity(), dist, speed, launchable,
		c.cfg.PredictiveAimSpeedThreshold, c.state.TargetingError)
	c.aim.AimAt(target)

	if c.aim.FiringStatus() != FiringLocked {
		return
	}
	if c.aim.Fire() {
		c.state.ShotsFired++
		c.log.WithFields(logrus.Fields{
			"shots":  c.state.ShotsFired,
			"target": target,
		}).Debug("ai: fired")
	}
}

func (c *Controller) refreshTargetingError(now, dist float64) {
	if elapsed, ok := c.state.TargetingErrorLastTime.Since(now); ok && elapsed < c.cfg.TargetingErrorResetTime {
		return
	}
	c.state.TargetingErrorLastTime = common.At(now)

	if c.cfg.TargetingErrorByDistance == nil {
		if !c.warnedNoDistanceCurve {
			c.warnedNoDistanceCurve = true
			c.log.Warn("ai: no targeting error curve assigned, keeping last error")
		}
		return
	}
	magnitude := c.cfg.TargetingErrorByDistance.Eval(dist)
	if c.cfg.TargetingErrorByShotsFired != nil {
		magnitude *= c.cfg.TargetingErrorByShotsFired.Eval(float64(c.state.ShotsFired))
	}
	c.state.TargetingError = common.RandUnitVec3(c.rng).Scale(magnitude)
}

func sq(v float64) float64 {
	return v * v
}
