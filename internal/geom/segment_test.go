package geom

import (
	"math"
	"testing"
)

const tolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= tolerance
}

func TestClosestPointsSegmentSegmentSymmetry(t *testing.T) {
	cases := []struct {
		name           string
		a, b, c, d     Vec3
	}{
		{
			name: "skew",
			a:    Vec3{X: 0, Y: 0, Z: 0}, b: Vec3{X: 1, Y: 0, Z: 0},
			c: Vec3{X: 0.5, Y: 1, Z: -1}, d: Vec3{X: 0.5, Y: 1, Z: 1},
		},
		{
			name: "parallel",
			a:    Vec3{X: 0, Y: 0, Z: 0}, b: Vec3{X: 2, Y: 0, Z: 0},
			c: Vec3{X: 0, Y: 1, Z: 0}, d: Vec3{X: 2, Y: 1, Z: 0},
		},
		{
			name: "disjoint endpoints",
			a:    Vec3{X: 0, Y: 0, Z: 0}, b: Vec3{X: 1, Y: 1, Z: 0},
			c: Vec3{X: 3, Y: 3, Z: 3}, d: Vec3{X: 4, Y: 3, Z: 3},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			forward, _, _ := ClosestPointsSegmentSegment(tc.a, tc.b, tc.c, tc.d)
			reverse, _, _ := ClosestPointsSegmentSegment(tc.c, tc.d, tc.a, tc.b)
			if !almostEqual(forward, reverse) {
				t.Fatalf("distance not symmetric: %v vs %v", forward, reverse)
			}
		})
	}
}

func TestClosestPointsSegmentSegmentDegenerate(t *testing.T) {
	point := Vec3{X: 1, Y: 2, Z: 3}
	seg := Segment{A: Vec3{X: 0, Y: 0, Z: 0}, B: Vec3{X: 4, Y: 0, Z: 0}}

	dist, c1, _ := ClosestPointsSegmentSegment(point, point, seg.A, seg.B)
	want := PointSegmentDistance(point, seg)
	if !almostEqual(dist, want) {
		t.Fatalf("degenerate first segment: got %v, want point-segment distance %v", dist, want)
	}
	if c1 != point {
		t.Fatalf("closest point on degenerate segment should be the point itself, got %+v", c1)
	}

	// Both segments collapsed to points reduces to plain point distance.
	other := Vec3{X: 5, Y: 2, Z: 3}
	dist, _, _ = ClosestPointsSegmentSegment(point, point, other, other)
	if !almostEqual(dist, point.Distance(other)) {
		t.Fatalf("double-degenerate distance %v, want %v", dist, point.Distance(other))
	}
}

func TestClosestPointsSegmentSegmentClamped(t *testing.T) {
	// Two segments whose infinite lines cross outside the finite extents:
	// the closest points must land on at least one endpoint.
	a := Vec3{X: 0, Y: 0, Z: 0}
	b := Vec3{X: 1, Y: 0, Z: 0}
	c := Vec3{X: 3, Y: -1, Z: 0}
	d := Vec3{X: 3, Y: 1, Z: 0}

	dist, c1, c2 := ClosestPointsSegmentSegment(a, b, c, d)
	if !almostEqual(dist, 2) {
		t.Fatalf("expected clamped distance 2, got %v", dist)
	}
	if c1 != b {
		t.Fatalf("expected closest point at endpoint %+v, got %+v", b, c1)
	}
	if !almostEqual(c2.Y, 0) || !almostEqual(c2.X, 3) {
		t.Fatalf("unexpected closest point on second segment: %+v", c2)
	}
}

func TestClosestPointsSegmentSegmentIntersecting(t *testing.T) {
	dist, c1, c2 := ClosestPointsSegmentSegment(
		Vec3{X: -1, Y: 0, Z: 0}, Vec3{X: 1, Y: 0, Z: 0},
		Vec3{X: 0, Y: -1, Z: 0}, Vec3{X: 0, Y: 1, Z: 0},
	)
	if !almostEqual(dist, 0) {
		t.Fatalf("crossing segments should have zero distance, got %v", dist)
	}
	if !almostEqual(c1.Distance(c2), 0) {
		t.Fatalf("closest points should coincide, got %+v and %+v", c1, c2)
	}
}

func TestClosestPointsSegmentSegmentParallel(t *testing.T) {
	dist, _, _ := ClosestPointsSegmentSegment(
		Vec3{X: 0, Y: 0, Z: 0}, Vec3{X: 4, Y: 0, Z: 0},
		Vec3{X: 1, Y: 3, Z: 0}, Vec3{X: 5, Y: 3, Z: 0},
	)
	if !almostEqual(dist, 3) {
		t.Fatalf("parallel overlapping segments: got %v, want 3", dist)
	}
}

func TestSegmentHitsCapsuleBoundaryInclusive(t *testing.T) {
	capsule := Capsule{
		Bottom: Vec3{X: 0, Y: 0, Z: 0},
		Top:    Vec3{X: 0, Y: 2, Z: 0},
		Radius: 0.5,
	}
	// A horizontal segment passing exactly at the capsule radius.
	seg := Segment{A: Vec3{X: 0.5, Y: 1, Z: -1}, B: Vec3{X: 0.5, Y: 1, Z: 1}}

	hit, point := SegmentHitsCapsule(seg, capsule)
	if !hit {
		t.Fatal("distance exactly equal to the radius must register as a hit")
	}
	if !almostEqual(point.X, 0.25) || !almostEqual(point.Y, 1) {
		t.Fatalf("unexpected impact point %+v", point)
	}
}

func TestSegmentHitsCapsuleMiss(t *testing.T) {
	capsule := CapsuleAround(Vec3{X: 0, Y: 0, Z: 1.5}, 0.2, 2.1, 0.45)
	seg := Segment{A: Vec3{X: 5, Y: 1, Z: 0}, B: Vec3{X: 5, Y: 1, Z: 1}}
	if hit, _ := SegmentHitsCapsule(seg, capsule); hit {
		t.Fatal("distant segment should not hit the capsule")
	}
}

func TestCapsuleAround(t *testing.T) {
	capsule := CapsuleAround(Vec3{X: 1, Y: 0, Z: 2}, 0.2, 2.1, 0.45)
	if capsule.Bottom != (Vec3{X: 1, Y: 0.2, Z: 2}) {
		t.Fatalf("unexpected capsule bottom %+v", capsule.Bottom)
	}
	if capsule.Top != (Vec3{X: 1, Y: 2.1, Z: 2}) {
		t.Fatalf("unexpected capsule top %+v", capsule.Top)
	}
	if capsule.Radius != 0.45 {
		t.Fatalf("unexpected capsule radius %v", capsule.Radius)
	}
}

func TestVecHelpers(t *testing.T) {
	a := Vec3{X: 1, Y: 2, Z: 3}
	b := Vec3{X: 3, Y: 2, Z: 1}

	if mid := a.Mid(b); mid != (Vec3{X: 2, Y: 2, Z: 2}) {
		t.Fatalf("Mid returned %+v", mid)
	}
	if got := a.Lerp(b, 0.5); got != a.Mid(b) {
		t.Fatalf("Lerp(0.5) %+v diverges from Mid %+v", got, a.Mid(b))
	}
	if !a.IsFinite() {
		t.Fatal("finite vector reported as non-finite")
	}
	if (Vec3{X: math.NaN()}).IsFinite() {
		t.Fatal("NaN vector reported as finite")
	}
}
