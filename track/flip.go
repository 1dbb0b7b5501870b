package track

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/milk9111/tankcombat/common"
	"github.com/milk9111/tankcombat/ground"
	"github.com/milk9111/tankcombat/logger"
	"github.com/sirupsen/logrus"
)

type Body interface {
	ground.Actor
	Velocity() common.Vec3
}

// FlipDetector resets a unit that has been lying on its side or roof for
// longer than Duration while nearly at rest.
type FlipDetector struct {
	cfg    FlipConfig
	unit   Body
	prober *ground.Prober
	rng    *rand.Rand
	log    logrus.FieldLogger

	lastCheck    common.OptTime
	flippedSince common.OptTime
}

func NewFlipDetector(cfg FlipConfig, unit Body, deps Deps) (*FlipDetector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, fmt.Errorf("%w: flip detector %q has no unit", ErrInvalidConfig, deps.Name)
	}
	f := &FlipDetector{
		cfg:    cfg,
		unit:   unit,
		prober: deps.Prober,
		rng:    deps.Rand,
		log:    logger.Or(deps.Logger).WithField("track", deps.Name),
	}
	if f.rng == nil {
		f.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return f, nil
}

func (f *FlipDetector) Update(now float64) Event {
	if elapsed, ok := f.lastCheck.Since(now); ok && elapsed < f.cfg.TickInterval {
		return EventNone
	}
	f.lastCheck = common.At(now)

	if !f.isFlipped() {
		f.flippedSince = common.OptTime{}
		return EventNone
	}
	since, ok := f.flippedSince.Get()
	if !ok {
		f.flippedSince = common.At(now)
		return EventFlipped
	}
	if now-since < f.cfg.Duration {
		return EventFlipped
	}

	data, halfHeight, ok := f.prober.FindResetGround(f.unit, f.rng)
	if !ok {
		f.log.WithField("location", f.unit.Location()).Warn("track: no ground to unflip onto")
		return EventResetFailed
	}
	ground.ResetActorToGround(data, f.unit, halfHeight)
	f.flippedSince = common.OptTime{}
	f.log.WithField("location", data.Location).Info("track: unflipped")
	return EventReset
}

func (f *FlipDetector) isFlipped() bool {
	if f.unit.Velocity().Len() >= f.cfg.SpeedThreshold {
		return false
	}
	data, ok := f.prober.GroundDataForActor(f.unit)
	if !ok {
		return false
	}
	up := common.BasisUp(f.unit.Basis())
	return common.AngleBetween(up, data.Normal) > f.cfg.AngleThreshold
}

// FlippedSince is -1 while the unit is upright.
func (f *FlipDetector) FlippedSince() float64 {
	return f.flippedSince.Seconds()
}
