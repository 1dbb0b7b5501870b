package prefabs

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/milk9111/tankcombat/common"
	"gopkg.in/yaml.v3"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestLoadAIConfig(t *testing.T) {
	cfg, err := LoadAIConfig("ai.yaml")
	if err != nil {
		t.Fatalf("LoadAIConfig: %v", err)
	}
	if cfg.StartDelay != 2 || cfg.ReportedPositionMinDelay != 1 || cfg.ReportedPositionMaxDelay != 3 {
		t.Fatalf("unexpected scalars: %+v", cfg)
	}
	if cfg.TargetingErrorByDistance == nil || cfg.TargetingErrorByShotsFired == nil {
		t.Fatalf("expected both curves to be built")
	}
	if got := cfg.TargetingErrorByDistance.Eval(3000); !near(got, 71.25) {
		t.Fatalf("by distance at 3000 = %v, want 71.25", got)
	}
	if got := cfg.TargetingErrorByShotsFired.Eval(5); !near(got, 0.5) {
		t.Fatalf("by shots at 5 = %v, want 0.5", got)
	}
}

func TestLoadAIConfigEasy(t *testing.T) {
	cfg, err := LoadAIConfig("prefabs/ai_easy.yaml")
	if err != nil {
		t.Fatalf("LoadAIConfig: %v", err)
	}
	if got := cfg.TargetingErrorByShotsFired.Eval(0); !near(got, 1.5) {
		t.Fatalf("by shots at 0 = %v, want 1.5", got)
	}
	if got := cfg.TargetingErrorByShotsFired.Eval(10); !near(got, 0.4) {
		t.Fatalf("by shots at 10 = %v, want floor 0.4", got)
	}
}

func TestAISpecRejectsInvalid(t *testing.T) {
	spec, err := LoadAISpec("ai.yaml")
	if err != nil {
		t.Fatalf("LoadAISpec: %v", err)
	}
	spec.ReportedPositionDelay = DelayRangeSpec{Min: 3, Max: 1}
	if _, err := spec.Build(); err == nil {
		t.Fatalf("expected inverted delay range to fail")
	}
}

func TestCurveSpecBuild(t *testing.T) {
	five := 5.0

	t.Run("empty", func(t *testing.T) {
		c, err := CurveSpec{}.Build()
		if err != nil || c != nil {
			t.Fatalf("expected nil curve, got %v, %v", c, err)
		}
	})
	t.Run("constant", func(t *testing.T) {
		c, err := CurveSpec{Constant: &five}.Build()
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		if got := c.Eval(1234); got != 5 {
			t.Fatalf("Eval = %v, want 5", got)
		}
	})
	t.Run("ambiguous", func(t *testing.T) {
		_, err := CurveSpec{Constant: &five, Script: "error_by_shots.tengo"}.Build()
		if !errors.Is(err, ErrAmbiguousCurve) {
			t.Fatalf("expected ErrAmbiguousCurve, got %v", err)
		}
	})
	t.Run("missing_script", func(t *testing.T) {
		if _, err := (CurveSpec{Script: "nope.tengo"}).Build(); err == nil {
			t.Fatalf("expected missing script to fail")
		}
	})
}

func TestVec3SpecUnmarshal(t *testing.T) {
	cases := []struct {
		name    string
		src     string
		want    common.Vec3
		wantErr bool
	}{
		{"pair_is_x_z", "[10, 20]", common.V3(10, 0, 20), false},
		{"triple", "[1, 2, 3]", common.V3(1, 2, 3), false},
		{"mapping", "{x: 4, z: 6}", common.V3(4, 0, 6), false},
		{"too_long", "[1, 2, 3, 4]", common.Vec3{}, true},
		{"scalar", "7", common.Vec3{}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var v Vec3Spec
			err := yaml.Unmarshal([]byte(c.src), &v)
			if c.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", v.Vec3)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if v.Vec3 != c.want {
				t.Fatalf("got %+v, want %+v", v.Vec3, c.want)
			}
		})
	}
}

func TestLoadWorldSpec(t *testing.T) {
	spec, err := LoadWorldSpec("world.yaml")
	if err != nil {
		t.Fatalf("LoadWorldSpec: %v", err)
	}
	if spec.Seed != 7 || len(spec.Terrain) != 5 || len(spec.Entities) != 3 {
		t.Fatalf("unexpected world: seed %d, %d segments, %d entities", spec.Seed, len(spec.Terrain), len(spec.Entities))
	}
	if got := spec.Terrain[1].B.Vec3; got != common.V3(2200, 0, 180) {
		t.Fatalf("segment 1 end = %+v", got)
	}
	if spec.Entities[0].Prefab != "player_tank.yaml" {
		t.Fatalf("first entity prefab = %q", spec.Entities[0].Prefab)
	}
}

func TestDiskOverride(t *testing.T) {
	dir := t.TempDir()
	prev := Dir
	Dir = dir
	t.Cleanup(func() { Dir = prev })

	if _, ok := ModTime("ai.yaml"); ok {
		t.Fatalf("expected no disk copy yet")
	}

	src := []byte("start_delay: 9\nmax_aggro_distance: 100\n")
	if err := os.WriteFile(filepath.Join(dir, "ai.yaml"), src, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadAIConfig("ai.yaml")
	if err != nil {
		t.Fatalf("LoadAIConfig: %v", err)
	}
	if cfg.StartDelay != 9 || cfg.TargetingErrorByDistance != nil {
		t.Fatalf("expected disk override, got %+v", cfg)
	}
	if _, ok := ModTime("ai.yaml"); !ok {
		t.Fatalf("expected disk mod time")
	}
}

func TestCleanScriptPath(t *testing.T) {
	cases := map[string]string{
		"curve.tengo":                 "scripts/curve.tengo",
		"scripts/curve.tengo":         "scripts/curve.tengo",
		"prefabs/scripts/curve.tengo": "scripts/curve.tengo",
		"prefabs/curve.tengo":         "scripts/curve.tengo",
	}
	for in, want := range cases {
		if got := scriptPath(in); got != want {
			t.Fatalf("scriptPath(%q) = %q, want %q", in, got, want)
		}
	}
}
