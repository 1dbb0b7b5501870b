package ai

import (
	"context"
	"errors"

	"github.com/looplab/fsm"
	"github.com/sirupsen/logrus"
)

// Phase names the implicit state of the decision loop, for debugging only.
// Decisions are taken from guard conditions every tick, never from the phase.
type Phase string

const (
	PhaseStartDelay    Phase = "start_delay"
	PhaseOutOfRange    Phase = "out_of_range"
	PhaseBlindTracking Phase = "blind_tracking"
	PhaseReactionDelay Phase = "reaction_delay"
	PhaseEngaged       Phase = "engaged"
)

var allPhases = []Phase{PhaseStartDelay, PhaseOutOfRange, PhaseBlindTracking, PhaseReactionDelay, PhaseEngaged}

func phaseEvent(p Phase) string {
	return "to_" + string(p)
}

// PhaseTracker records phase changes and logs them.
type PhaseTracker struct {
	machine     *fsm.FSM
	log         logrus.FieldLogger
	transitions int
}

func NewPhaseTracker(log logrus.FieldLogger) *PhaseTracker {
	src := make([]string, 0, len(allPhases))
	for _, p := range allPhases {
		src = append(src, string(p))
	}
	events := make(fsm.Events, 0, len(allPhases))
	for _, p := range allPhases {
		events = append(events, fsm.EventDesc{Name: phaseEvent(p), Src: src, Dst: string(p)})
	}

	t := &PhaseTracker{log: log}
	t.machine = fsm.NewFSM(string(PhaseStartDelay), events, fsm.Callbacks{
		"enter_state": func(_ context.Context, e *fsm.Event) {
			t.transitions++
			t.log.WithFields(logrus.Fields{
				"from": e.Src,
				"to":   e.Dst,
			}).Debug("ai: phase change")
		},
	})
	return t
}

func (t *PhaseTracker) Enter(ctx context.Context, p Phase) {
	err := t.machine.Event(ctx, phaseEvent(p))
	if err == nil {
		return
	}
	var same fsm.NoTransitionError
	if errors.As(err, &same) {
		return
	}
	t.log.WithError(err).WithField("phase", p).Warn("ai: phase transition rejected")
}

func (t *PhaseTracker) Current() Phase {
	return Phase(t.machine.Current())
}

// Transitions counts phase changes since construction.
func (t *PhaseTracker) Transitions() int {
	return t.transitions
}
