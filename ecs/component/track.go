package component

import "github.com/milk9111/tankcombat/track"

type Track struct {
	Stuck track.StuckConfig
	Flip  track.FlipConfig

	StuckDetector *track.StuckDetector
	FlipDetector  *track.FlipDetector
}

var TrackComponent = NewComponent[Track]()
