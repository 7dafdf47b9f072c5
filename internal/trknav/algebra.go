package trknav

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Real is the scalar type used throughout the package. Kept as a distinct
// alias so the numeric type can be swapped (e.g. to float32 for a device
// build) in one place.
type Real = float64

// Vector3 is a direction in detector space, in millimetres. It is backed by
// gonum's r3.Vec so that Add/Sub/Scale/Dot/Cross/Unit/Norm come from the
// ecosystem rather than being hand-rolled.
type Vector3 = r3.Vec

// Point3 is a position in detector space. Defined (not aliased) separately
// from Vector3 so the type system keeps "point plus vector" distinct from
// "vector plus vector".
type Point3 r3.Vec

// Add translates a Point3 by a Vector3.
func (p Point3) Add(v Vector3) Point3 {
	return Point3(r3.Add(r3.Vec(p), v))
}

// Sub returns the vector from q to p.
func (p Point3) Sub(q Point3) Vector3 {
	return r3.Sub(r3.Vec(p), r3.Vec(q))
}

// ZeroVector3 and ZeroPoint3 give named zero values for readability at call
// sites.
var (
	ZeroVector3 = Vector3{}
	ZeroPoint3  = Point3{}
)

// Unit returns v normalized to unit length, or v unchanged if it is
// zero.
func Unit(v Vector3) Vector3 {
	n := r3.Norm(v)
	if n == 0 {
		return v
	}
	return r3.Scale(1/n, v)
}

func clamp(x, lo, hi Real) Real {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func clamp01(x Real) Real { return clamp(x, 0, 1) }

func nearZero(x, eps Real) bool { return x > -eps && x < eps }

// Transform3 places a surface or volume's local frame inside detector
// space: a rotation plus a translation. Both the forward and the
// transposed rotation are cached so world<->local conversions never
// invert a matrix on the hot path.
type Transform3 struct {
	Translation Point3
	rot         *mat.Dense // 3x3, orthonormal: local -> world
	rotT        *mat.Dense // 3x3: world -> local (= rot transposed)
}

// NewTransform3 builds a placement from a translation and an orthonormal
// 3x3 rotation (row-major data, 9 entries). A placement is geometry-store
// data, built once at detector-construction time, so the rotation is not
// re-validated here.
func NewTransform3(translation Point3, rotRowMajor [9]Real) Transform3 {
	rot := mat.NewDense(3, 3, rotRowMajor[:])
	rotT := mat.NewDense(3, 3, nil)
	rotT.CloneFrom(rot.T())
	return Transform3{Translation: translation, rot: rot, rotT: rotT}
}

// IdentityTransform3 places a local frame coincident with the world frame.
func IdentityTransform3() Transform3 {
	return NewTransform3(ZeroPoint3, [9]Real{1, 0, 0, 0, 1, 0, 0, 0, 1})
}

func mulMatVec(m *mat.Dense, v Vector3) Vector3 {
	return Vector3{
		X: m.At(0, 0)*v.X + m.At(0, 1)*v.Y + m.At(0, 2)*v.Z,
		Y: m.At(1, 0)*v.X + m.At(1, 1)*v.Y + m.At(1, 2)*v.Z,
		Z: m.At(2, 0)*v.X + m.At(2, 1)*v.Y + m.At(2, 2)*v.Z,
	}
}

// ToLocalPoint converts a world-space point into this frame's local
// coordinates.
func (t Transform3) ToLocalPoint(p Point3) Point3 {
	rel := p.Sub(t.Translation)
	return Point3(mulMatVec(t.rotT, rel))
}

// ToLocalDir rotates (but does not translate) a world-space direction into
// local coordinates.
func (t Transform3) ToLocalDir(v Vector3) Vector3 {
	return mulMatVec(t.rotT, v)
}

// ToGlobalPoint converts a local-frame point back into world space.
func (t Transform3) ToGlobalPoint(p Point3) Point3 {
	return Point3(mulMatVec(t.rot, Vector3(p))).Add(Vector3(t.Translation))
}

// ToGlobalDir rotates a local-frame direction back into world space.
func (t Transform3) ToGlobalDir(v Vector3) Vector3 {
	return mulMatVec(t.rot, v)
}

// AxisZ returns the local frame's z-axis expressed in world space: the
// third column of the rotation matrix. Surfaces of revolution (cylinder,
// disc, line) use this as their symmetry axis.
func (t Transform3) AxisZ() Vector3 {
	return Vector3{X: t.rot.At(0, 2), Y: t.rot.At(1, 2), Z: t.rot.At(2, 2)}
}

func isFinite(x Real) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
