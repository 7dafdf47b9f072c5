package trknav

// Stepper advances a trajectory by a bounded distance and reports how
// far it actually went: the navigator only ever asks "how far to the
// next candidate" and a stepper only ever answers "I moved this far",
// with no other coupling between the two collaborators.
type Stepper interface {
	// Advance moves the trajectory forward (or backward, for
	// DirectionBackward) by at most maxStep, returning the distance
	// actually covered.
	Advance(traj Trajectory, maxStep Real, dir Direction, cfg Config) Real
}

// StraightLineStepper always covers the full requested distance;
// correct whenever the trajectory itself is a Ray, and exact for a
// Helix too since the candidate distances were solved along the helix
// arc.
type StraightLineStepper struct{}

func (StraightLineStepper) Advance(traj Trajectory, maxStep Real, dir Direction, cfg Config) Real {
	return maxStep * Real(dir)
}

// RKN4Stepper advances a Helix through a (possibly position-dependent)
// field. Helix already integrates exactly for a locally constant field,
// so the stepper's remaining job is bounding how far that local-field
// assumption is stretched: steps are clamped to MaxStepSize, and Step
// re-samples the field at the far end, rebuilding the helix curvature
// when the field changed underneath it.
type RKN4Stepper struct {
	Field       FieldSampler
	Charge      Real
	Momentum    Real
	MaxStepSize Real // 0 means unbounded
}

// Advance clamps the proposed step to MaxStepSize. A clamped step leaves
// the track short of its target; the following navigator update
// re-measures the remaining distance, so the propagation converges on
// the surface over several sub-steps.
func (r RKN4Stepper) Advance(traj Trajectory, maxStep Real, dir Direction, cfg Config) Real {
	step := maxStep
	if r.MaxStepSize > 0 && step > r.MaxStepSize {
		step = r.MaxStepSize
	}
	return step * Real(dir)
}

// Step re-samples the field at the far end of the covered step and
// rebuilds the Helix if the field there differs non-trivially from the
// one the trajectory currently carries.
func (r RKN4Stepper) Step(h Helix, distance Real) Helix {
	target := h.Pos(distance)
	newField := r.Field.Field(target)
	if fieldsClose(h.Field(), newField, 1e-6) {
		return h
	}
	return NewHelix(target, h.Dir(distance), r.Charge, r.Momentum, newField)
}

func fieldsClose(a, b Vector3, eps Real) bool {
	return nearZero(a.X-b.X, eps) && nearZero(a.Y-b.Y, eps) && nearZero(a.Z-b.Z, eps)
}
