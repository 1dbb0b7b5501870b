package system

import (
	"math/rand"

	"github.com/milk9111/tankcombat/ecs"
	"github.com/milk9111/tankcombat/ecs/component"
	"github.com/milk9111/tankcombat/ground"
	"github.com/milk9111/tankcombat/logger"
	"github.com/milk9111/tankcombat/track"
	"github.com/sirupsen/logrus"
)

// TrackSystem runs the stuck and flip detectors of every tank and feeds the
// stuck boost back into the tank's drive.
type TrackSystem struct {
	clock   *Clock
	physics *PhysicsSystem
	prober  *ground.Prober
	seed    int64
	log     logrus.FieldLogger
}

func NewTrackSystem(clock *Clock, physics *PhysicsSystem, seed int64, log logrus.FieldLogger) *TrackSystem {
	return &TrackSystem{
		clock:   clock,
		physics: physics,
		prober:  ground.NewProber(physics),
		seed:    seed,
		log:     logger.Or(log),
	}
}

func (s *TrackSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	now := s.clock.Now()

	ecs.ForEach3(w, component.TrackComponent.Kind(), component.TankComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, tr *component.Track, tank *component.Tank, _ *component.Transform) {
		if tr.StuckDetector == nil || tr.FlipDetector == nil {
			s.build(w, e, tr, tank)
		}

		if ev := tr.StuckDetector.Update(now); ev != track.EventNone {
			s.publish(w, e, "stuck", ev)
		}
		tank.BoostMultiplier = tr.StuckDetector.DriveForceMultiplier()

		switch ev := tr.FlipDetector.Update(now); ev {
		case track.EventReset, track.EventResetFailed:
			s.publish(w, e, "flip", ev)
		}
	})
}

func (s *TrackSystem) build(w *ecs.World, e ecs.Entity, tr *component.Track, tank *component.Tank) {
	unit := newTankUnit(w, e, s.physics)
	deps := track.Deps{
		Name:   tank.Name,
		Prober: s.prober,
		Rand:   rand.New(rand.NewSource(s.seed ^ int64(e))),
		Logger: s.log,
	}
	var err error
	if tr.StuckDetector == nil {
		if tr.StuckDetector, err = track.NewStuckDetector(tr.Stuck, unit, deps); err != nil {
			panic("track system: new stuck detector: " + err.Error())
		}
	}
	if tr.FlipDetector == nil {
		if tr.FlipDetector, err = track.NewFlipDetector(tr.Flip, unit, deps); err != nil {
			panic("track system: new flip detector: " + err.Error())
		}
	}
}

func (s *TrackSystem) publish(w *ecs.World, e ecs.Entity, detector string, ev track.Event) {
	loc := newTankUnit(w, e, s.physics).Location()
	w.Events().Defer(ecs.Event{
		Type:   EventTrack,
		Entity: e,
		Data:   TrackEvent{Detector: detector, Kind: ev, Location: loc},
	})
}
