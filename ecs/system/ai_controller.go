package system

import (
	"context"
	"math/rand"

	"github.com/milk9111/tankcombat/ai"
	"github.com/milk9111/tankcombat/ecs"
	"github.com/milk9111/tankcombat/ecs/component"
	"github.com/milk9111/tankcombat/logger"
	"github.com/sirupsen/logrus"
)

// AISystem ticks one ai.Controller per AI tank. Controllers are built lazily
// the first frame a tank is seen.
type AISystem struct {
	ctx      context.Context
	clock    *Clock
	physics  *PhysicsSystem
	movement *MovementSystem
	weapons  *WeaponSystem
	seed     int64
	log      logrus.FieldLogger

	phases map[ecs.Entity]ai.Phase
}

func NewAISystem(ctx context.Context, clock *Clock, physics *PhysicsSystem, movement *MovementSystem, weapons *WeaponSystem, seed int64, log logrus.FieldLogger) *AISystem {
	if ctx == nil {
		ctx = context.Background()
	}
	return &AISystem{
		ctx:      ctx,
		clock:    clock,
		physics:  physics,
		movement: movement,
		weapons:  weapons,
		seed:     seed,
		log:      logger.Or(log),
		phases:   make(map[ecs.Entity]ai.Phase),
	}
}

func (s *AISystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	EnsureBlackboard(w)

	now := s.clock.Now()
	ents := w.Query(component.AITagComponent.Kind(), component.AIComponent.Kind(), component.TransformComponent.Kind())
	for _, e := range ents {
		aiComp, ok := ecs.Get(w, e, component.AIComponent.Kind())
		if !ok {
			continue
		}
		if aiComp.Controller == nil {
			aiComp.Controller = s.newController(w, e, aiComp.Config)
		}
		aiComp.Controller.Tick(s.ctx, now)
		s.publishPhase(w, e, aiComp.Controller.Phase())
	}

	for e := range s.phases {
		if !w.IsAlive(e) {
			delete(s.phases, e)
		}
	}
}

func (s *AISystem) newController(w *ecs.World, e ecs.Entity, cfg ai.Config) *ai.Controller {
	name := e.String()
	if tank, ok := ecs.Get(w, e, component.TankComponent.Kind()); ok && tank.Name != "" {
		name = tank.Name
	}
	c, err := ai.NewController(cfg, ai.Deps{
		Name:   name,
		Env:    &aiEnv{w: w, self: e, physics: s.physics},
		World:  s.physics,
		Move:   s.movement.Actuator(w, e),
		Aim:    s.weapons.Actuator(w, e),
		Rand:   rand.New(rand.NewSource(s.seed + int64(e))),
		Logger: s.log,
	})
	if err != nil {
		panic("ai system: new controller: " + err.Error())
	}
	return c
}

func (s *AISystem) publishPhase(w *ecs.World, e ecs.Entity, phase ai.Phase) {
	prev, seen := s.phases[e]
	if seen && prev == phase {
		return
	}
	s.phases[e] = phase
	w.Events().Defer(ecs.Event{Type: EventPhase, Entity: e, Data: PhaseChange{From: prev, To: phase}})
}

// EnsureBlackboard returns the world's shared blackboard, creating the holder
// entity on first use.
func EnsureBlackboard(w *ecs.World) *ai.Blackboard {
	if e, ok := ecs.First(w, component.BlackboardComponent.Kind()); ok {
		if bb, ok := ecs.Get(w, e, component.BlackboardComponent.Kind()); ok {
			return bb
		}
	}
	bb := ai.NewBlackboard()
	if err := ecs.Add(w, w.CreateEntity(), component.BlackboardComponent.Kind(), bb); err != nil {
		panic("ai system: add blackboard: " + err.Error())
	}
	return bb
}

// aiEnv resolves the collaborators of one controller from the world.
type aiEnv struct {
	w       *ecs.World
	self    ecs.Entity
	physics *PhysicsSystem
}

func (a *aiEnv) ControlledUnit() (ai.Unit, bool) {
	if !ecs.Has(a.w, a.self, component.TransformComponent.Kind()) {
		return nil, false
	}
	return newTankUnit(a.w, a.self, a.physics), true
}

func (a *aiEnv) PlayerUnit() (ai.Unit, bool) {
	player, ok := ecs.First(a.w, component.PlayerTagComponent.Kind())
	if !ok || !ecs.Has(a.w, player, component.TransformComponent.Kind()) {
		return nil, false
	}
	return newTankUnit(a.w, player, a.physics), true
}

func (a *aiEnv) Blackboard() *ai.Blackboard {
	e, ok := ecs.First(a.w, component.BlackboardComponent.Kind())
	if !ok {
		return nil
	}
	bb, _ := ecs.Get(a.w, e, component.BlackboardComponent.Kind())
	return bb
}
