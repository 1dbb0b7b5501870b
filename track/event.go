package track

// Event is what a detector update did, for logging and the event bus.
type Event int

const (
	EventNone Event = iota
	EventStuck
	EventBoost
	EventRecovered
	EventReset
	EventResetFailed
	EventFlipped
)

func (e Event) String() string {
	switch e {
	case EventNone:
		return "none"
	case EventStuck:
		return "stuck"
	case EventBoost:
		return "boost"
	case EventRecovered:
		return "recovered"
	case EventReset:
		return "reset"
	case EventResetFailed:
		return "reset_failed"
	case EventFlipped:
		return "flipped"
	default:
		return "unknown"
	}
}
