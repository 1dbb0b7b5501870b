package common

import (
	"math"
	"math/rand"
	"testing"
)

func TestVec3Arithmetic(t *testing.T) {
	a := V3(1, 2, 3)
	b := V3(4, -1, 0.5)

	if got := a.Add(b); got != V3(5, 1, 3.5) {
		t.Fatalf("Add: got %v", got)
	}
	if got := a.Sub(b); got != V3(-3, 3, 2.5) {
		t.Fatalf("Sub: got %v", got)
	}
	if got := a.Div(2); got != V3(0.5, 1, 1.5) {
		t.Fatalf("Div: got %v", got)
	}
	if got := a.Div(0); got != Zero3 {
		t.Fatalf("Div by zero should be zero vector, got %v", got)
	}
	if got := V3(1, 0, 0).Cross(V3(0, 1, 0)); got != V3(0, 0, 1) {
		t.Fatalf("Cross: got %v", got)
	}
	if got := V3(3, 4, 0).Len(); got != 5 {
		t.Fatalf("Len: got %v", got)
	}
	if got := Zero3.Normalize(); got != Zero3 {
		t.Fatalf("normalizing zero should stay zero, got %v", got)
	}
}

func TestAngleBetween(t *testing.T) {
	cases := []struct {
		name string
		a, b Vec3
		want float64
	}{
		{"same", Up, Up, 0},
		{"right_angle", Up, V3(1, 0, 0), math.Pi / 2},
		{"opposite", Up, Up.Neg(), math.Pi},
		{"zero_vector", Up, Zero3, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := AngleBetween(c.a, c.b); math.Abs(got-c.want) > 1e-9 {
				t.Fatalf("expected %.4f, got %.4f", c.want, got)
			}
		})
	}
}

func TestBasisFromUpIsOrthonormal(t *testing.T) {
	ups := []Vec3{Up, V3(0.3, 0, 1), V3(1, 0, 0), V3(0, -1, 0.2)}
	for _, up := range ups {
		m := BasisFromUp(up, V3(1, 0, 0))
		x, y, z := BasisForward(m), BasisRight(m), BasisUp(m)
		if math.Abs(z.Dot(up.Normalize())-1) > 1e-9 {
			t.Fatalf("up axis %v does not match %v", z, up)
		}
		for _, d := range []float64{x.Dot(y), y.Dot(z), x.Dot(z)} {
			if math.Abs(d) > 1e-9 {
				t.Fatalf("axes not orthogonal for up=%v", up)
			}
		}
		if math.Abs(x.Cross(y).Dot(z)-1) > 1e-9 {
			t.Fatalf("basis not right-handed for up=%v", up)
		}
	}
}

func TestPitchRoundTrip(t *testing.T) {
	for _, a := range []float64{0, 0.4, -1.2, math.Pi / 2, 2.5} {
		if got := PitchFromBasis(BasisFromPitch(a)); math.Abs(got-a) > 1e-9 {
			t.Fatalf("pitch %.3f round-tripped to %.3f", a, got)
		}
	}
}

func TestPitchFromUp(t *testing.T) {
	for _, a := range []float64{0, 0.4, -1.2, math.Pi / 2, 2.5} {
		if got := PitchFromUp(BasisUp(BasisFromPitch(a))); math.Abs(got-a) > 1e-9 {
			t.Fatalf("pitch %.3f from up = %.3f", a, got)
		}
	}
	// a yawed basis keeps its up axis, so it maps to an upright pitch
	turned := BasisFromUp(Up, Vec3{X: -1})
	if got := PitchFromUp(BasisUp(turned)); math.Abs(got) > 1e-9 {
		t.Fatalf("turned upright basis should have pitch 0, got %v", got)
	}
}

func TestOptTime(t *testing.T) {
	var unset OptTime
	if unset.IsSet() || unset.Seconds() != -1 {
		t.Fatalf("zero OptTime should be unset")
	}
	if _, ok := unset.Since(5); ok {
		t.Fatalf("Since on unset should report !ok")
	}
	at := At(2)
	if d, ok := at.Since(5); !ok || d != 3 {
		t.Fatalf("expected elapsed 3, got %v ok=%v", d, ok)
	}
}

func TestRandUnitVec3(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 100; i++ {
		if l := RandUnitVec3(rng).Len(); math.Abs(l-1) > 1e-9 {
			t.Fatalf("expected unit length, got %v", l)
		}
	}
	for i := 0; i < 100; i++ {
		v := RandRange(rng, 2, 3)
		if v < 2 || v > 3 {
			t.Fatalf("RandRange out of bounds: %v", v)
		}
	}
}
