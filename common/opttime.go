package common

// OptTime is a simulation timestamp that may not have happened yet.
type OptTime struct {
	t   float64
	set bool
}

// At returns a set timestamp.
func At(t float64) OptTime {
	return OptTime{t: t, set: true}
}

// Get returns the timestamp and whether it is set.
func (o OptTime) Get() (float64, bool) {
	return o.t, o.set
}

func (o OptTime) IsSet() bool {
	return o.set
}

// Seconds returns the timestamp, or -1 when unset. Only meant for logs and debug output.
func (o OptTime) Seconds() float64 {
	if !o.set {
		return -1
	}
	return o.t
}

// Since returns now minus the timestamp. ok is false when unset.
func (o OptTime) Since(now float64) (elapsed float64, ok bool) {
	if !o.set {
		return 0, false
	}
	return now - o.t, true
}
