package system

import (
	"github.com/milk9111/tankcombat/ai"
	"github.com/milk9111/tankcombat/common"
	"github.com/milk9111/tankcombat/track"
)

const (
	EventShotFired  = "shot_fired"
	EventTrack      = "track"
	EventPhase      = "ai_phase"
	EventConfigLoad = "config_reload"
)

type ShotFired struct {
	Origin common.Vec3
	Target common.Vec3
	Shots  int
}

type TrackEvent struct {
	// Detector is "stuck" or "flip".
	Detector string
	Kind     track.Event
	Location common.Vec3
}

type PhaseChange struct {
	From ai.Phase
	To   ai.Phase
}

type ConfigReload struct {
	File string
	Err  error
}
