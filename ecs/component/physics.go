package component

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/tankcombat/common"
)

// PhysicsBody stores Chipmunk2D runtime data and collider configuration.
// The simulation is a side view: world X maps to cp X and world Z to cp Y.
type PhysicsBody struct {
	Body     *cp.Body
	Shape    *cp.Shape
	Length   float64
	Height   float64
	Mass     float64
	Friction float64
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()

// TerrainSegment is a static ground segment. Y is ignored.
type TerrainSegment struct {
	A, B     common.Vec3
	Radius   float64
	Friction float64
	Shape    *cp.Shape
}

var TerrainSegmentComponent = NewComponent[TerrainSegment]()
