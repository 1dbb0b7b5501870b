package component

import (
	"github.com/milk9111/tankcombat/common"
	"golang.org/x/image/math/f64"
)

// Transform is a world pose. Z is up. Basis columns are forward, right, up.
type Transform struct {
	Location common.Vec3
	Basis    f64.Mat3
}

func NewTransform(location common.Vec3, pitch float64) *Transform {
	return &Transform{Location: location, Basis: common.BasisFromPitch(pitch)}
}

var TransformComponent = NewComponent[Transform]()
