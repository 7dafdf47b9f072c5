package trknav

import "math"

// intersectLineMask solves a track against a line/wire mask: the single
// point of closest approach of the track to the wire axis. Unlike the
// other intersectors it fills the candidate's local coordinate and
// incidence angle itself, because the line frame is direction-dependent:
// the first local coordinate is the perpendicular distance of closest
// approach, signed against the (wire axis x track direction) vector, and
// the incidence angle is measured against the wire axis rather than a
// surface normal.
func intersectLineMask(traj Trajectory, transform Transform3, mask Mask, cfg Config, out *[]Candidate) {
	s, ok := solveLineClosestApproach(traj, transform)
	if !ok {
		return
	}
	if s < cfg.OverstepTolerance {
		return
	}

	worldPos := traj.Pos(s)
	local := transform.ToLocalPoint(worldPos)
	localDir := transform.ToLocalDir(traj.Dir(s))

	// Perpendicular distance from the wire axis, signed by which side of
	// the track the wire lies on: positive when the local radial vector
	// has a positive component along (z-axis x track direction).
	perp := math.Hypot(local.X, local.Y)
	if -localDir.Y*local.X+localDir.X*local.Y < 0 {
		perp = -perp
	}
	localCoord := Local2{U: perp, V: local.Z}

	status := CandidateOutside
	if mask.IsInside(localCoord, cfg.MaskTolerance) {
		status = CandidateInside
	}

	side := HitAlong
	if math.Signbit(s) {
		side = HitOpposite
	}

	*out = append(*out, Candidate{
		Path:              s,
		Local:             localCoord,
		Status:            status,
		Side:              side,
		CosIncidenceAngle: math.Abs(localDir.Z),
	})
}

// solveLineClosestApproach finds the path length at which the track comes
// closest to the local z-axis of the wire frame. For a ray this is closed
// form; a helix is re-linearized about the running estimate until the
// correction converges, seeded by the ray solution at the track's current
// position.
func solveLineClosestApproach(traj Trajectory, transform Transform3) (Real, bool) {
	if ray, ok := traj.(Ray); ok {
		return solveLineRay(ray.Origin, ray.Dir0, transform)
	}

	const (
		maxIter = 20
		tol     = 1e-9
	)
	s := Real(0)
	for i := 0; i < maxIter; i++ {
		delta, ok := solveLineRay(traj.Pos(s), traj.Dir(s), transform)
		if !ok {
			return 0, false
		}
		s += delta
		if math.Abs(delta) < tol {
			return s, true
		}
	}
	return s, isFinite(s)
}

// solveLineRay is the closed-form closest approach of a straight track to
// the wire axis: with zd the projection of the track direction onto the
// axis, the denominator 1 - zd^2 vanishes for a track parallel to the
// wire, which is reported as a miss rather than a divide-by-zero.
func solveLineRay(pos Point3, dir Vector3, transform Transform3) (Real, bool) {
	zAxis := transform.AxisZ()

	zd := dotVec(zAxis, dir)
	denom := 1 - zd*zd
	if denom < 1e-5 {
		return 0, false
	}

	toCenter := Point3(transform.Translation).Sub(pos)
	onLine := dotVec(toCenter, zAxis)
	onTrack := dotVec(toCenter, dir)

	s := (onTrack - onLine*zd) / denom
	return s, isFinite(s)
}
