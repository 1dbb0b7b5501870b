package component

import "github.com/milk9111/tankcombat/ai"

type AI struct {
	// ConfigFile is the tunables file Config was built from.
	ConfigFile string
	Config     ai.Config
	Controller *ai.Controller
}

var AIComponent = NewComponent[AI]()

// BlackboardComponent is held by a single world entity.
var BlackboardComponent = NewComponent[ai.Blackboard]()
