package geom

// Capsule approximates a combatant's body as a vertical segment with a
// radius. Capsules are rebuilt from the owner's live position on every
// check and never cached, so a stale capsule can't shadow a moved body.
type Capsule struct {
	Bottom Vec3
	Top    Vec3
	Radius float64
}

// CapsuleAround builds a capsule from a combatant's ground position plus
// fixed vertical offsets for the axis endpoints.
func CapsuleAround(pos Vec3, bottomOffset, topOffset, radius float64) Capsule {
	return Capsule{
		Bottom: Vec3{X: pos.X, Y: pos.Y + bottomOffset, Z: pos.Z},
		Top:    Vec3{X: pos.X, Y: pos.Y + topOffset, Z: pos.Z},
		Radius: radius,
	}
}

// Axis returns the capsule's core segment.
func (c Capsule) Axis() Segment {
	return Segment{A: c.Bottom, B: c.Top}
}

// SegmentHitsCapsule reports whether a segment comes within the capsule
// radius of the capsule axis, along with the impact point (the midpoint of
// the two closest points). The boundary is inclusive: a distance exactly
// equal to the radius counts as a hit.
func SegmentHitsCapsule(seg Segment, c Capsule) (hit bool, point Vec3) {
	dist, onSeg, onAxis := ClosestPointsSegmentSegment(seg.A, seg.B, c.Bottom, c.Top)
	if dist <= c.Radius {
		return true, onSeg.Mid(onAxis)
	}
	return false, Vec3{}
}
