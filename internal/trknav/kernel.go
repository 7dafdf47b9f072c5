package trknav

import "sort"

// Intersect dispatches a trajectory against one surface's mask to the
// shape-specific solver. It is the single entry point every caller
// (Initialize, Update, tests) goes through so the portal/module
// tolerance and root-count policy lives in one place.
func Intersect(traj Trajectory, transform Transform3, mask Mask, isPortal bool, cfg Config, out *[]Candidate) {
	switch mask.Shape {
	case MaskCylinder:
		intersectCylinder(traj, transform, mask, isPortal, cfg, out)
	case MaskLine:
		intersectLineMask(traj, transform, mask, cfg, out)
	default: // disc, rectangle, trapezoid
		if c, ok := intersectPlanar(traj, transform, mask, isPortal, cfg); ok {
			*out = append(*out, c)
		}
	}
}

// Initialize builds a fresh, fully-trusted candidate list for a volume:
// intersect the track against every surface the volume's acceleration
// structure returns, keep only those the overstep tolerance and mask
// bounds accept, and sort by ascending path length.
func Initialize(det *Detector, volumeIndex uint32, traj Trajectory, cfg Config) []Candidate {
	candidates := make([]Candidate, 0, 20)
	worldPos := traj.Pos(0)

	for sfIdx := range det.Neighborhood(volumeIndex, worldPos, cfg) {
		sf := det.Surface(sfIdx)
		mask := det.Mask(sf.MaskIndex)
		transform := det.Transform(sf.TransformIndex)

		buf := make([]Candidate, 0, 2)
		Intersect(traj, *transform, *mask, sf.IsPortal(), cfg, &buf)
		for _, c := range buf {
			if c.Path < cfg.OverstepTolerance {
				continue
			}
			if c.Status != CandidateInside {
				continue
			}
			c.Surface = *sf
			c.SurfaceIndex = sfIdx
			c.VolumeLink = mask.VolumeLink
			candidates = append(candidates, c)
		}
	}

	sort.Sort(byPath(candidates))
	return candidates
}

// Update re-intersects a single cached candidate: the track's distance
// to the candidate's surface is recomputed, the candidate's Status and
// Local are refreshed in place, and the caller is told whether the
// candidate is still admissible (true) or must be dropped to trigger a
// trust downgrade (false).
func Update(det *Detector, candidate *Candidate, traj Trajectory, cfg Config) bool {
	sf := candidate.Surface
	mask := det.Mask(sf.MaskIndex)
	transform := det.Transform(sf.TransformIndex)

	buf := make([]Candidate, 0, 2)
	Intersect(traj, *transform, *mask, sf.IsPortal(), cfg, &buf)

	best, found := Candidate{}, false
	for _, c := range buf {
		if c.Path < cfg.OverstepTolerance {
			continue
		}
		if !found || c.Path < best.Path {
			best, found = c, true
		}
	}
	if !found {
		candidate.Status = CandidateMissed
		return false
	}

	best.Surface = sf
	best.SurfaceIndex = candidate.SurfaceIndex
	best.VolumeLink = mask.VolumeLink
	*candidate = best
	return best.Status == CandidateInside
}
