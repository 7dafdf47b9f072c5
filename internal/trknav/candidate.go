package trknav

// Candidate is an intersection result ranked by signed path length: the
// record a navigator sorts and advances through. It is buffer-resident
// so a NavigationState can hold many candidates at once and index into
// them by cursor rather than by pointer.
type Candidate struct {
	Path              Real    // signed path length from the track's current position
	Local             Local2  // local 2D coordinate on the candidate surface
	Status            CandidateStatus
	Side              HitSide
	CosIncidenceAngle Real
	Surface           SurfaceDescriptor
	SurfaceIndex      uint32
	VolumeLink        uint32 // resolved target volume, valid once Status == CandidateInside
}

// byPath sorts candidates by ascending signed path length, the ordering
// the navigator relies on after every Initialize and re-rank.
type byPath []Candidate

func (c byPath) Len() int           { return len(c) }
func (c byPath) Less(i, j int) bool { return c[i].Path < c[j].Path }
func (c byPath) Swap(i, j int)      { c[i], c[j] = c[j], c[i] }
