package trknav

import "math"

// intersectCylinder solves a track against a cylindrical side-surface
// mask. A portal cylinder closes off its volume on both ends, so only
// the next crossing in the direction of travel is ever meaningful; a
// sensitive cylindrical module can be crossed at both the near and far
// side of the tube, so both roots are reported and left to the caller's
// bound/tolerance check.
func intersectCylinder(traj Trajectory, transform Transform3, mask Mask, isPortal bool, cfg Config, out *[]Candidate) {
	radius := mask.Bounds[0]
	roots, ok := solveCylinderRoots(traj, transform, radius)
	if !ok {
		return
	}
	appendCylinderCandidates(traj, transform, mask, isPortal, cfg, roots, out)
}

func cylinderRadial(radius Real) func(Point3) Real {
	return func(local Point3) Real {
		return math.Hypot(local.X, local.Y) - radius
	}
}

// solveCylinderRoots returns up to two path-length roots where the track
// crosses the infinite cylinder of the given radius about the frame's
// local z-axis.
func solveCylinderRoots(traj Trajectory, transform Transform3, radius Real) ([]Real, bool) {
	if ray, ok := traj.(Ray); ok {
		return solveCylinderRay(ray, transform, radius)
	}
	f := cylinderRadial(radius)
	seeds, ok := solveCylinderRay(Ray{Origin: traj.Pos(0), Dir0: traj.Dir(0)}, transform, radius)
	if !ok {
		return nil, false
	}
	roots := make([]Real, 0, len(seeds))
	for _, seed := range seeds {
		if s, ok := newtonRefine(traj, transform, f, seed); ok {
			roots = append(roots, s)
		}
	}
	return roots, len(roots) > 0
}

func solveCylinderRay(ray Ray, transform Transform3, radius Real) ([]Real, bool) {
	o := transform.ToLocalPoint(ray.Origin)
	d := transform.ToLocalDir(ray.Dir0)

	a := d.X*d.X + d.Y*d.Y
	b := 2 * (o.X*d.X + o.Y*d.Y)
	c := o.X*o.X + o.Y*o.Y - radius*radius

	if nearZero(a, 1e-15) {
		return nil, false
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		return nil, false
	}
	sq := math.Sqrt(disc)
	s1 := (-b - sq) / (2 * a)
	s2 := (-b + sq) / (2 * a)
	if s1 > s2 {
		s1, s2 = s2, s1
	}
	return []Real{s1, s2}, true
}

func appendCylinderCandidates(traj Trajectory, transform Transform3, mask Mask, isPortal bool, cfg Config, roots []Real, out *[]Candidate) {
	if isPortal {
		best, found := Real(0), false
		for _, s := range roots {
			if s < cfg.OverstepTolerance {
				continue
			}
			if !found || s < best {
				best, found = s, true
			}
		}
		if !found {
			return
		}
		if c, ok := buildCandidate(traj, transform, mask, true, cfg, best); ok {
			*out = append(*out, c)
		}
		return
	}
	for _, s := range roots {
		if c, ok := buildCandidate(traj, transform, mask, false, cfg, s); ok {
			*out = append(*out, c)
		}
	}
}
