package main

import (
	"context"
	"fmt"
	"time"

	"github.com/milk9111/tankcombat/ecs"
	"github.com/milk9111/tankcombat/ecs/component"
	"github.com/milk9111/tankcombat/ecs/entity"
	"github.com/milk9111/tankcombat/ecs/system"
	"github.com/milk9111/tankcombat/prefabs"
	"github.com/sirupsen/logrus"
)

// Sim is one headless match: a world, its systems and the event log.
type Sim struct {
	world *ecs.World
	clock *system.Clock
	sched *ecs.Scheduler
	level *entity.Level
	log   logrus.FieldLogger

	subs  []ecs.Subscription
	shots map[ecs.Entity]int
}

type simOptions struct {
	Level   string
	TickHz  float64
	Seed    int64
	Changes <-chan string
}

func NewSim(ctx context.Context, opts simOptions, log logrus.FieldLogger) (*Sim, error) {
	w := ecs.NewWorld()
	lvl, err := entity.LoadWorld(w, opts.Level)
	if err != nil {
		return nil, fmt.Errorf("tanksim: %w", err)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = lvl.Seed
	}

	clock := system.NewClock(1 / opts.TickHz)
	physics := system.NewPhysicsSystem(clock)
	movement := system.NewMovementSystem(physics)
	weapons := system.NewWeaponSystem(clock)

	s := &Sim{
		world: w,
		clock: clock,
		level: lvl,
		log:   log,
		shots: make(map[ecs.Entity]int),
	}
	s.sched = ecs.NewScheduler(clock)
	if opts.Changes != nil {
		s.sched.Add(system.NewReloadSystem(opts.Changes, s.reloadAI, log))
	}
	s.sched.Add(system.NewAISystem(ctx, clock, physics, movement, weapons, seed, log))
	s.sched.Add(system.NewTrackSystem(clock, physics, seed, log))
	s.sched.Add(weapons)
	s.sched.Add(movement)
	s.sched.Add(physics)
	s.subscribe()

	log.WithFields(logrus.Fields{
		"level":   lvl.Name,
		"seed":    seed,
		"terrain": len(lvl.Terrain),
		"tanks":   len(lvl.Tanks),
	}).Info("tanksim: level loaded")
	return s, nil
}

func (s *Sim) subscribe() {
	bus := s.world.Events()
	s.subs = append(s.subs,
		bus.Subscribe(system.EventShotFired, func(evt ecs.Event) {
			shot := evt.Data.(system.ShotFired)
			s.shots[evt.Entity]++
			s.log.WithFields(logrus.Fields{
				"tank":   s.name(evt.Entity),
				"time":   s.clock.Now(),
				"target": shot.Target,
			}).Info("shot fired")
		}),
		bus.Subscribe(system.EventTrack, func(evt ecs.Event) {
			te := evt.Data.(system.TrackEvent)
			s.log.WithFields(logrus.Fields{
				"tank":     s.name(evt.Entity),
				"detector": te.Detector,
				"event":    te.Kind.String(),
				"location": te.Location,
			}).Info("track event")
		}),
		bus.Subscribe(system.EventPhase, func(evt ecs.Event) {
			pc := evt.Data.(system.PhaseChange)
			s.log.WithFields(logrus.Fields{
				"tank": s.name(evt.Entity),
				"from": pc.From,
				"to":   pc.To,
			}).Debug("ai phase")
		}),
	)
}

func (s *Sim) reloadAI(w *ecs.World, file string) error {
	n, err := entity.ReloadAI(w, file)
	fields := logrus.Fields{"file": file, "tanks": n}
	if mod, ok := prefabs.ModTime(file); ok {
		fields["modified"] = mod.Format(time.RFC3339)
	}
	s.log.WithFields(fields).Debug("tanksim: ai tunables reloaded")
	return err
}

func (s *Sim) name(e ecs.Entity) string {
	if tank, ok := ecs.Get(s.world, e, component.TankComponent.Kind()); ok && tank.Name != "" {
		return tank.Name
	}
	return e.String()
}

func (s *Sim) Update() {
	s.sched.Update(s.world)
}

func (s *Sim) Now() float64 {
	return s.clock.Now()
}

// Close drops event subscriptions and logs a per-tank summary.
func (s *Sim) Close() {
	for _, sub := range s.subs {
		sub.Unsubscribe()
	}
	s.subs = nil

	for _, e := range s.level.Tanks {
		if !s.world.IsAlive(e) {
			continue
		}
		fields := logrus.Fields{"tank": s.name(e), "shots": s.shots[e]}
		if tf, ok := ecs.Get(s.world, e, component.TransformComponent.Kind()); ok {
			fields["location"] = tf.Location
		}
		if tr, ok := ecs.Get(s.world, e, component.TrackComponent.Kind()); ok && tr.StuckDetector != nil {
			fields["resets"] = tr.StuckDetector.Resets()
		}
		if c, ok := ecs.Get(s.world, e, component.AIComponent.Kind()); ok && c.Controller != nil {
			fields["phase"] = c.Controller.Phase()
		}
		s.log.WithFields(fields).Info("tanksim: summary")
	}
}
