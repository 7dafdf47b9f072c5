package trknav

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Trajectory is the stepper-agnostic path abstraction the intersectors
// solve against: a position and direction as a function of signed path
// length. An interface so a Helix can be solved against the same kernel
// without the kernel ever naming helix-specific state.
type Trajectory interface {
	// Pos returns the trajectory's position at path length s.
	Pos(s Real) Point3
	// Dir returns the trajectory's unit tangent direction at path length s.
	Dir(s Real) Vector3
	// Advance returns the trajectory re-anchored at path length s: the
	// returned value's Pos(0)/Dir(0) equal this trajectory's Pos(s)/Dir(s).
	// A propagation loop calls this once per step so every Initialize and
	// Update call measures Candidate path lengths from the track's
	// current position rather than its original starting point.
	Advance(s Real) Trajectory
}

// Ray is a straight-line trajectory, used directly in field-free
// regions and as the degenerate case Helix falls back to at vanishing
// transverse momentum.
type Ray struct {
	Origin Point3
	Dir0   Vector3
}

// NewRay builds a ray from an origin and direction. The direction is
// normalized here so every later sample works with a unit tangent.
func NewRay(origin Point3, dir Vector3) Ray {
	return Ray{Origin: origin, Dir0: Unit(dir)}
}

func (r Ray) Pos(s Real) Point3  { return r.Origin.Add(r3.Scale(s, r.Dir0)) }
func (r Ray) Dir(s Real) Vector3 { return r.Dir0 }

func (r Ray) Advance(s Real) Trajectory { return Ray{Origin: r.Pos(s), Dir0: r.Dir0} }

// FieldSampler is the opaque magnetic-field lookup a Helix needs, kept
// as a one-method interface so the kernel never depends on a field map's
// representation.
type FieldSampler interface {
	// Field returns the magnetic field in tesla at world position p.
	Field(p Point3) Vector3
}

// ConstantField is the simplest FieldSampler: a uniform field
// everywhere.
type ConstantField struct {
	B Vector3
}

func (f ConstantField) Field(Point3) Vector3 { return f.B }

// helixSmallPtEpsilon is the transverse-momentum fraction below which a
// Helix degenerates to a straight ray rather than risk dividing by a
// near-zero curvature radius.
const helixSmallPtEpsilon Real = 1e-6

// Helix is a charged-particle trajectory in a (locally constant)
// magnetic field: a circular arc in the plane transverse to B, uniform
// drift along B. Charge and momentum are folded into q/p at
// construction rather than re-derived every sample.
type Helix struct {
	origin   Point3
	dir0     Vector3 // unit tangent at s=0
	field    Vector3 // tesla, assumed locally constant over the step
	qOverP   Real    // charge / momentum magnitude, in natural units
	fallback Ray     // used verbatim when transverse momentum is ~0
	straight bool
}

// NewHelix builds a helix trajectory for a particle of charge q (in
// units of e) and momentum p (GeV/c) starting at origin along dir, in
// field b (tesla). Falls back to a straight ray when the transverse
// momentum component is negligible.
func NewHelix(origin Point3, dir Vector3, q, p Real, field Vector3) Helix {
	dir = Unit(dir)
	bNorm := r3.Norm(field)
	perpFraction := transverseMomentum(dir, field, p) / p
	if bNorm < helixSmallPtEpsilon || perpFraction < helixSmallPtEpsilon {
		return Helix{
			origin: origin, dir0: dir, field: field,
			fallback: Ray{Origin: origin, Dir0: dir}, straight: true,
		}
	}
	return Helix{
		origin: origin, dir0: dir, field: field,
		qOverP: q / p, straight: false,
	}
}

// transverseMomentum returns the magnitude of p's component perpendicular
// to the field direction.
func transverseMomentum(dir, field Vector3, p Real) Real {
	bHat := Unit(field)
	along := r3.Dot(dir, bHat)
	transverseDir := r3.Sub(dir, r3.Scale(along, bHat))
	return p * r3.Norm(transverseDir)
}

// helixFieldConstant converts tesla to the package's natural curvature
// unit: with momentum in GeV/c, charge in e and lengths in millimetres,
// the tangent of a track rotates about the field axis at
// omega = helixFieldConstant * (q/p) * |B| radians per millimetre of arc.
const helixFieldConstant Real = 0.000299792458

func (h Helix) curvatureOmega() Real {
	bNorm := r3.Norm(h.field)
	return helixFieldConstant * h.qOverP * bNorm
}

// Radius returns the transverse radius of the helix circle, in
// millimetres.
func (h Helix) Radius() Real {
	if h.straight {
		return math.Inf(1)
	}
	bHat := Unit(h.field)
	along := r3.Dot(h.dir0, bHat)
	perpNorm := r3.Norm(r3.Sub(h.dir0, r3.Scale(along, bHat)))
	return math.Abs(perpNorm / h.curvatureOmega())
}

// PeriodS returns the arc length of one full turn of the helix.
func (h Helix) PeriodS() Real {
	if h.straight {
		return math.Inf(1)
	}
	return 2 * math.Pi / math.Abs(h.curvatureOmega())
}

// Pos returns the helix position at path length s. The tangent rotates
// about the field axis at a constant rate omega per unit arc length, so
// the transverse displacement integrates to the usual (sin, 1-cos)/omega
// form scaled by the transverse direction fraction, while the component
// along B advances linearly.
func (h Helix) Pos(s Real) Point3 {
	if h.straight {
		return h.fallback.Pos(s)
	}
	bHat := Unit(h.field)
	omega := h.curvatureOmega()

	along := r3.Dot(h.dir0, bHat)
	dirPar := r3.Scale(along, bHat)
	dirPerp := r3.Sub(h.dir0, dirPar)
	perpNorm := r3.Norm(dirPerp)
	if perpNorm < helixSmallPtEpsilon || nearZero(omega, 1e-18) {
		return h.origin.Add(r3.Scale(s, h.dir0))
	}
	e1 := r3.Scale(1/perpNorm, dirPerp)
	e2 := r3.Cross(bHat, e1)

	theta := omega * s
	dx := perpNorm * math.Sin(theta) / omega
	dy := perpNorm * (1 - math.Cos(theta)) / omega
	transverseDisp := r3.Add(r3.Scale(dx, e1), r3.Scale(dy, e2))
	longitudinalDisp := r3.Scale(s*along, bHat)
	return h.origin.Add(r3.Add(transverseDisp, longitudinalDisp))
}

// Dir returns the helix's unit tangent at path length s: the initial
// transverse direction rotated by omega*s about the field axis, plus the
// unchanged longitudinal component.
func (h Helix) Dir(s Real) Vector3 {
	if h.straight {
		return h.fallback.Dir(s)
	}
	bHat := Unit(h.field)
	omega := h.curvatureOmega()

	along := r3.Dot(h.dir0, bHat)
	dirPar := r3.Scale(along, bHat)
	dirPerp := r3.Sub(h.dir0, dirPar)
	perpNorm := r3.Norm(dirPerp)
	if perpNorm < helixSmallPtEpsilon {
		return h.dir0
	}
	e1 := r3.Scale(1/perpNorm, dirPerp)
	e2 := r3.Cross(bHat, e1)
	theta := omega * s
	rotated := r3.Add(r3.Scale(math.Cos(theta)*perpNorm, e1), r3.Scale(math.Sin(theta)*perpNorm, e2))
	return Unit(r3.Add(rotated, dirPar))
}

// Field exposes the (locally constant) field the helix was built with, so
// an intersector can recompute curvature without re-sampling.
func (h Helix) Field() Vector3 { return h.field }

// QOverP exposes charge/momentum for intersectors that need curvature
// directly rather than recomputing it.
func (h Helix) QOverP() Real { return h.qOverP }

// IsStraight reports whether this helix degenerated to its ray fallback.
func (h Helix) IsStraight() bool { return h.straight }

// Advance re-anchors the helix at path length s, preserving curvature
// and field while updating position and tangent direction.
func (h Helix) Advance(s Real) Trajectory {
	newOrigin := h.Pos(s)
	newDir := h.Dir(s)
	if h.straight {
		return Helix{
			origin: newOrigin, dir0: newDir, field: h.field,
			fallback: Ray{Origin: newOrigin, Dir0: newDir}, straight: true,
		}
	}
	return Helix{origin: newOrigin, dir0: newDir, field: h.field, qOverP: h.qOverP, straight: false}
}
