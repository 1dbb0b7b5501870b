package track

import (
	"errors"
	"math"
	"testing"

	"github.com/milk9111/tankcombat/common"
)

func scenarioConfig() StuckConfig {
	return StuckConfig{
		CheckInterval:         1,
		SampleWindow:          4,
		DisplacementThreshold: 50,
		ThrottleThreshold:     0.1,
		ResetThreshold:        2,
		BoostMultiplier:       3,
	}
}

func TestStuckConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		mut  func(c *StuckConfig)
		want error
	}{
		{"zero_interval", func(c *StuckConfig) { c.CheckInterval = 0 }, ErrInvalidWindow},
		{"zero_window", func(c *StuckConfig) { c.SampleWindow = 0 }, ErrInvalidWindow},
		{"negative_threshold", func(c *StuckConfig) { c.DisplacementThreshold = -1 }, ErrInvalidConfig},
		{"small_boost", func(c *StuckConfig) { c.BoostMultiplier = 0.5 }, ErrInvalidConfig},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := scenarioConfig()
			c.mut(&cfg)
			if _, err := NewStuckDetector(cfg, newTank(common.Zero3), testDeps(&flatGround{})); !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
		})
	}

	disabled := scenarioConfig()
	disabled.CheckInterval = -1
	disabled.SampleWindow = 0
	if _, err := NewStuckDetector(disabled, newTank(common.Zero3), testDeps(&flatGround{})); err != nil {
		t.Fatalf("disabled detector should accept any window, got %v", err)
	}
}

func TestIsStuckBoundary(t *testing.T) {
	cases := []struct {
		name     string
		throttle float64
		step     float64
		want     bool
	}{
		{"at_threshold", 0.5, 0, true},
		{"reverse_throttle", -0.75, 0, true},
		{"below_threshold", 0.25, 0, false},
		{"moving", 1, 20, false},
		{"creeping", 1, 10, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := scenarioConfig()
			cfg.ThrottleThreshold = 0.5
			u := newTank(common.V3(0, 0, 40))
			u.throttle = c.throttle
			d := MustStuckDetector(cfg, u, testDeps(&flatGround{}))
			for i := 0; i < 4; i++ {
				if d.IsStuck() {
					t.Fatalf("stuck before buffers are full")
				}
				d.Update(float64(i))
				u.loc = u.loc.Add(common.V3(c.step, 0, 0))
			}
			if got := d.IsStuck(); got != c.want {
				t.Fatalf("IsStuck = %v, want %v", got, c.want)
			}
		})
	}
}

func TestGroundResetScenario(t *testing.T) {
	g := &flatGround{}
	u := newTank(common.V3(500, 0, 40))
	u.throttle = 0.6
	d := MustStuckDetector(scenarioConfig(), u, testDeps(g))

	want := []Event{
		EventNone, EventNone, EventNone,
		EventStuck, EventBoost, EventBoost,
		EventReset,
		EventNone, EventNone,
	}
	for i, w := range want {
		now := float64(i)
		if got := d.Update(now); got != w {
			t.Fatalf("t=%v: event %s, want %s", now, got, w)
		}
		if i == 3 && !d.IsStuck() {
			t.Fatalf("expected stuck with a full buffer of identical samples")
		}
	}
	if d.Resets() != 1 || u.poses != 1 {
		t.Fatalf("expected exactly one reset, got resets=%d poses=%d", d.Resets(), u.poses)
	}
	if d.BoostActive() || d.LastStuckTime() != -1 {
		t.Fatalf("reset should clear boost and stuck time")
	}
	throttles, positions := d.Samples()
	if len(throttles) != len(positions) || len(throttles) != 2 {
		t.Fatalf("expected two fresh paired samples after reset, got %d/%d", len(throttles), len(positions))
	}
	if math.Abs(u.loc.Z-u.half.Z) > 1e-9 {
		t.Fatalf("unit should rest half its height above the ground, z=%v", u.loc.Z)
	}
	if math.Abs(u.loc.X-500) > 100 || math.Abs(u.loc.Y) > 60 {
		t.Fatalf("reset position should stay within the unit bounds, got %+v", u.loc)
	}
}

func TestCheckCadence(t *testing.T) {
	u := newTank(common.Zero3)
	d := MustStuckDetector(scenarioConfig(), u, testDeps(&flatGround{}))
	for _, now := range []float64{0, 0.25, 0.5, 0.99, 1, 1.5, 2} {
		d.Update(now)
	}
	throttles, positions := d.Samples()
	if len(throttles) != 3 || len(positions) != 3 {
		t.Fatalf("expected samples at t=0,1,2 only, got %d/%d", len(throttles), len(positions))
	}
}

func TestBoostClearsOnRecovery(t *testing.T) {
	cfg := scenarioConfig()
	cfg.ResetThreshold = 100
	u := newTank(common.V3(0, 0, 40))
	u.throttle = 1
	d := MustStuckDetector(cfg, u, testDeps(&flatGround{}))
	for i := 0; i < 5; i++ {
		d.Update(float64(i))
	}
	if !d.BoostActive() || d.DriveForceMultiplier() != 3 {
		t.Fatalf("expected boost while stuck, multiplier %v", d.DriveForceMultiplier())
	}
	if d.LastStuckTime() != 3 {
		t.Fatalf("stuck time should be the first stuck check, got %v", d.LastStuckTime())
	}

	u.loc = u.loc.Add(common.V3(400, 0, 0))
	if ev := d.Update(5); ev != EventRecovered {
		t.Fatalf("expected recovery, got %s", ev)
	}
	if d.BoostActive() || d.DriveForceMultiplier() != 1 {
		t.Fatalf("boost should clear on recovery")
	}
	if d.LastStuckTime() != -1 {
		t.Fatalf("stuck time should reset on recovery")
	}
}

func TestResetRetriesWhenGroundMissing(t *testing.T) {
	g := &flatGround{missing: true}
	u := newTank(common.V3(0, 0, 40))
	u.throttle = 1
	d := MustStuckDetector(scenarioConfig(), u, testDeps(g))
	for i := 0; i < 6; i++ {
		d.Update(float64(i))
	}
	if ev := d.Update(6); ev != EventResetFailed {
		t.Fatalf("expected failed reset, got %s", ev)
	}
	if !d.BoostActive() || d.LastStuckTime() != 3 || u.poses != 0 {
		t.Fatalf("failed reset should keep stuck state for retry")
	}

	g.missing = false
	if ev := d.Update(7); ev != EventReset {
		t.Fatalf("expected reset on retry, got %s", ev)
	}
	if d.Resets() != 1 {
		t.Fatalf("expected one reset, got %d", d.Resets())
	}
}

func TestDisabledDetectorNeverSamples(t *testing.T) {
	cfg := scenarioConfig()
	cfg.CheckInterval = -1
	u := newTank(common.Zero3)
	u.throttle = 1
	d := MustStuckDetector(cfg, u, testDeps(&flatGround{}))
	for i := 0; i < 20; i++ {
		if ev := d.Update(float64(i)); ev != EventNone {
			t.Fatalf("disabled detector emitted %s", ev)
		}
	}
	if d.IsStuck() || d.BoostActive() {
		t.Fatalf("disabled detector should never be stuck")
	}
	if th, pos := d.Samples(); th != nil || pos != nil {
		t.Fatalf("disabled detector should not allocate buffers")
	}
}

func TestResetWithoutProberFails(t *testing.T) {
	u := newTank(common.V3(0, 0, 40))
	u.throttle = 1
	deps := testDeps(&flatGround{})
	deps.Prober = nil
	d := MustStuckDetector(scenarioConfig(), u, deps)

	var last Event
	for i := 0; i < 8; i++ {
		last = d.Update(float64(i))
	}
	if last != EventResetFailed || u.poses != 0 || !d.BoostActive() {
		t.Fatalf("expected failed reset with boost kept, got %s poses=%d", last, u.poses)
	}
}
