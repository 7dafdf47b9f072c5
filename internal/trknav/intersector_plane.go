package trknav

import "math"

// intersectPlanar solves the local z=0 plane all of disc, rectangle and
// trapezoid masks share: only the in-plane bound check (Mask.IsInside)
// differs between those three shapes, so one solver serves all three.
func intersectPlanar(traj Trajectory, transform Transform3, mask Mask, isPortal bool, cfg Config) (Candidate, bool) {
	s, ok := solveForAxisZero(traj, transform, planarHeight)
	if !ok {
		return Candidate{}, false
	}
	return buildCandidate(traj, transform, mask, isPortal, cfg, s)
}

// planarHeight is the implicit surface function for a flat local z=0
// plane: the local z coordinate itself.
func planarHeight(local Point3) Real { return local.Z }

// solveForAxisZero finds the smallest-magnitude path length s at which
// f(transform.ToLocalPoint(traj.Pos(s))) crosses zero. Ray trajectories
// get the direct closed-form root; any other Trajectory (Helix) is
// refined by Newton-Raphson, since only the ray case admits a closed
// form for every mask shape.
func solveForAxisZero(traj Trajectory, transform Transform3, f func(Point3) Real) (Real, bool) {
	if ray, ok := traj.(Ray); ok {
		return solvePlanarRay(ray, transform)
	}
	return newtonRefine(traj, transform, f, 0)
}

func solvePlanarRay(ray Ray, transform Transform3) (Real, bool) {
	localOrigin := transform.ToLocalPoint(ray.Origin)
	localDir := transform.ToLocalDir(ray.Dir0)
	if nearZero(localDir.Z, 1e-12) {
		return 0, false
	}
	s := -localOrigin.Z / localDir.Z
	return s, isFinite(s)
}

// newtonRefine finds a root of f(local(s)) near seed by Newton-Raphson
// with a numerically estimated derivative, the iterative fallback for
// trajectories with no closed-form surface intersection.
func newtonRefine(traj Trajectory, transform Transform3, f func(Point3) Real, seed Real) (Real, bool) {
	const (
		maxIter = 20
		step    = 1e-6
		tol     = 1e-9
	)
	s := seed
	for i := 0; i < maxIter; i++ {
		local := transform.ToLocalPoint(traj.Pos(s))
		fs := f(local)
		if math.Abs(fs) < tol {
			return s, true
		}
		localPlus := transform.ToLocalPoint(traj.Pos(s + step))
		deriv := (f(localPlus) - fs) / step
		if nearZero(deriv, 1e-15) {
			return 0, false
		}
		s -= fs / deriv
		if !isFinite(s) {
			return 0, false
		}
	}
	return s, true
}

// buildCandidate evaluates everything a Candidate needs (local
// coordinate, inside/outside classification, incidence angle, hit side)
// once a path length has been solved for. Portals are bound-checked with
// zero mask tolerance: a track must not slip past a volume boundary on
// tolerance slack.
func buildCandidate(traj Trajectory, transform Transform3, mask Mask, isPortal bool, cfg Config, s Real) (Candidate, bool) {
	if !isFinite(s) {
		return Candidate{}, false
	}
	worldPos := traj.Pos(s)
	local := transform.ToLocalPoint(worldPos)
	localCoord := mask.Project(local)

	tol := cfg.MaskTolerance
	if isPortal {
		tol = 0
	}

	status := CandidateOutside
	if mask.IsInside(localCoord, tol) {
		status = CandidateInside
	}

	dir := traj.Dir(s)
	normal := surfaceNormal(transform, mask, local)
	side := HitAlong
	if math.Signbit(s) {
		side = HitOpposite
	}

	return Candidate{
		Path:              s,
		Local:             localCoord,
		Status:            status,
		Side:              side,
		CosIncidenceAngle: math.Abs(dotVec(dir, normal)),
	}, true
}

// surfaceNormal returns the outward local-frame surface normal, expressed
// in world space, at a local point on the given mask shape.
func surfaceNormal(transform Transform3, mask Mask, local Point3) Vector3 {
	switch mask.Shape {
	case MaskCylinder:
		radial := Vector3{X: local.X, Y: local.Y, Z: 0}
		return transform.ToGlobalDir(Unit(radial))
	case MaskLine:
		radial := Vector3{X: local.X, Y: local.Y, Z: 0}
		return transform.ToGlobalDir(Unit(radial))
	default: // disc, rectangle, trapezoid: flat, local z axis is the normal
		return transform.AxisZ()
	}
}

func dotVec(a, b Vector3) Real { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }
