package geom

// Segment is a finite world-space line segment. Weapon blades and capsule
// axes are both expressed this way so a single closest-point routine covers
// blade-vs-body and blade-vs-blade checks.
type Segment struct {
	A Vec3
	B Vec3
}

// Length returns the segment's Euclidean length.
func (s Segment) Length() float64 {
	return s.A.Distance(s.B)
}

const segmentEpsilon = 1e-12

// ClosestPointsSegmentSegment computes the minimum distance between segments
// p1q1 and p2q2 together with the closest point on each. Degenerate segments
// (either or both collapsed to a point) are handled explicitly, so callers
// never divide by zero. The routine is pure and allocation-free; identical
// inputs always produce identical outputs.
func ClosestPointsSegmentSegment(p1, q1, p2, q2 Vec3) (dist float64, c1, c2 Vec3) {
	d1 := q1.Sub(p1)
	d2 := q2.Sub(p2)
	r := p1.Sub(p2)

	a := d1.Dot(d1)
	e := d2.Dot(d2)
	f := d2.Dot(r)

	var s, t float64

	switch {
	case a <= segmentEpsilon && e <= segmentEpsilon:
		// Both segments are points.
		s, t = 0, 0
	case a <= segmentEpsilon:
		// First segment is a point; project onto the second.
		s = 0
		t = clamp(f/e, 0, 1)
	default:
		c := d1.Dot(r)
		if e <= segmentEpsilon {
			// Second segment is a point; project onto the first.
			t = 0
			s = clamp(-c/a, 0, 1)
		} else {
			b := d1.Dot(d2)
			denom := a*e - b*b
			if denom > segmentEpsilon {
				s = clamp((b*f-c*e)/denom, 0, 1)
			} else {
				// Parallel segments: pick an arbitrary s, the t solve
				// below still finds the true minimum.
				s = 0
			}
			t = (b*s + f) / e
			// Clamping t moves the candidate off the infinite line, so s
			// must be re-solved against the clamped t.
			if t < 0 {
				t = 0
				s = clamp(-c/a, 0, 1)
			} else if t > 1 {
				t = 1
				s = clamp((b-c)/a, 0, 1)
			}
		}
	}

	c1 = p1.Add(d1.Scale(s))
	c2 = p2.Add(d2.Scale(t))
	return c1.Distance(c2), c1, c2
}

// SegmentDistance returns only the minimum distance between two segments.
func SegmentDistance(a, b Segment) float64 {
	dist, _, _ := ClosestPointsSegmentSegment(a.A, a.B, b.A, b.B)
	return dist
}

// PointSegmentDistance returns the distance from point p to segment s.
func PointSegmentDistance(p Vec3, s Segment) float64 {
	dist, _, _ := ClosestPointsSegmentSegment(p, p, s.A, s.B)
	return dist
}
