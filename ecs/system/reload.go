package system

import (
	"github.com/milk9111/tankcombat/ecs"
	"github.com/milk9111/tankcombat/logger"
	"github.com/sirupsen/logrus"
)

// ReloadFunc applies a changed tunables file to the world.
type ReloadFunc func(w *ecs.World, file string) error

// ReloadSystem drains file change notifications on the tick goroutine so
// reloads never race with systems.
type ReloadSystem struct {
	changes <-chan string
	apply   ReloadFunc
	log     logrus.FieldLogger
}

func NewReloadSystem(changes <-chan string, apply ReloadFunc, log logrus.FieldLogger) *ReloadSystem {
	return &ReloadSystem{changes: changes, apply: apply, log: logger.Or(log)}
}

func (s *ReloadSystem) Update(w *ecs.World) {
	if s == nil || w == nil || s.changes == nil || s.apply == nil {
		return
	}

	pending := make(map[string]struct{})
	var order []string
drain:
	for {
		select {
		case file, ok := <-s.changes:
			if !ok {
				s.changes = nil
				break drain
			}
			if _, dup := pending[file]; !dup {
				pending[file] = struct{}{}
				order = append(order, file)
			}
		default:
			break drain
		}
	}

	for _, file := range order {
		err := s.apply(w, file)
		entry := s.log.WithField("file", file)
		if err != nil {
			entry.WithError(err).Warn("reload: keeping previous tunables")
		} else {
			entry.Info("reload: applied")
		}
		w.Events().Defer(ecs.Event{Type: EventConfigLoad, Data: ConfigReload{File: file, Err: err}})
	}
}
