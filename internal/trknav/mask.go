package trknav

import "math"

// MaskShape tags which closed-form bounds a Mask carries. Kept as a
// small exhaustive enum matched by switch everywhere, rather than an
// interface with virtual dispatch: the hot loop must stay inlinable and
// free of dynamic dispatch.
type MaskShape int

const (
	MaskCylinder MaskShape = iota
	MaskDisc
	MaskRectangle
	MaskTrapezoid
	MaskLine
)

func (s MaskShape) String() string {
	switch s {
	case MaskCylinder:
		return "cylinder"
	case MaskDisc:
		return "disc"
	case MaskRectangle:
		return "rectangle"
	case MaskTrapezoid:
		return "trapezoid"
	case MaskLine:
		return "line"
	default:
		return "mask(?)"
	}
}

// LocalFrame names the 2D coordinate convention a mask's Local2 values are
// expressed in.
type LocalFrame int

const (
	FrameCylindrical LocalFrame = iota // (arc length R*phi, z)
	FramePolar                         // (r, phi)
	FrameCartesian2                    // (x, y)
	FrameLine                          // (signed perpendicular distance, z)
)

// Local2 is a 2D point in a mask's local frame, the local coordinates a
// Candidate carries.
type Local2 struct {
	U, V Real
}

// Mask is a tagged shape: bounds plus a volume link. For a portal,
// VolumeLink names the neighbour volume to traverse into; for a module,
// it is a back-link to the owning volume.
type Mask struct {
	Shape      MaskShape
	Bounds     [3]Real
	VolumeLink uint32
}

// NewCylinderMask builds a cylinder side-surface mask: radius R,
// half-length halfZ. Only halfZ bounds the surface; R is the shape's
// radius, not a free bound.
func NewCylinderMask(radius, halfZ Real, volumeLink uint32) Mask {
	return Mask{Shape: MaskCylinder, Bounds: [3]Real{radius, halfZ, 0}, VolumeLink: volumeLink}
}

// NewDiscMask builds a disc/ring/annulus mask bounded by [rMin, rMax].
func NewDiscMask(rMin, rMax Real, volumeLink uint32) Mask {
	return Mask{Shape: MaskDisc, Bounds: [3]Real{rMin, rMax, 0}, VolumeLink: volumeLink}
}

// NewRectangleMask builds an axis-aligned rectangle with the given
// half-extents.
func NewRectangleMask(halfX, halfY Real, volumeLink uint32) Mask {
	return Mask{Shape: MaskRectangle, Bounds: [3]Real{halfX, halfY, 0}, VolumeLink: volumeLink}
}

// NewTrapezoidMask builds a trapezoid whose half-width varies linearly from
// halfX1 at local y = -halfY to halfX2 at local y = +halfY.
func NewTrapezoidMask(halfX1, halfX2, halfY Real, volumeLink uint32) Mask {
	return Mask{Shape: MaskTrapezoid, Bounds: [3]Real{halfX1, halfX2, halfY}, VolumeLink: volumeLink}
}

// NewLineMask builds a line/wire mask: cell radius and half-length along
// the wire axis.
func NewLineMask(radius, halfZ Real, volumeLink uint32) Mask {
	return Mask{Shape: MaskLine, Bounds: [3]Real{radius, halfZ, 0}, VolumeLink: volumeLink}
}

// Frame reports the local coordinate convention for this mask's shape.
func (m Mask) Frame() LocalFrame {
	switch m.Shape {
	case MaskCylinder:
		return FrameCylindrical
	case MaskDisc:
		return FramePolar
	case MaskLine:
		return FrameLine
	default:
		return FrameCartesian2
	}
}

// Project converts a point already expressed in the surface's local frame
// (symmetry axis along local Z for cylinder/disc/line) into this mask's
// Local2 convention.
func (m Mask) Project(local Point3) Local2 {
	switch m.Shape {
	case MaskCylinder:
		r := m.Bounds[0]
		phi := math.Atan2(local.Y, local.X)
		return Local2{U: r * phi, V: local.Z}
	case MaskDisc:
		r := math.Hypot(local.X, local.Y)
		phi := math.Atan2(local.Y, local.X)
		return Local2{U: r, V: phi}
	case MaskLine:
		// Signed perpendicular distance, sign taken against the local
		// x-axis. The line intersector computes the direction-dependent
		// sign itself; this projection serves direction-free callers.
		d := math.Hypot(local.X, local.Y)
		if local.X < 0 {
			d = -d
		}
		return Local2{U: d, V: local.Z}
	default: // rectangle, trapezoid
		return Local2{U: local.X, V: local.Y}
	}
}

// IsInside classifies a Local2 point against this mask's bounds with
// slack tol added to every bound.
func (m Mask) IsInside(local Local2, tol Real) bool {
	switch m.Shape {
	case MaskCylinder:
		halfZ := m.Bounds[1]
		return math.Abs(local.V) <= halfZ+tol
	case MaskDisc:
		rMin, rMax := m.Bounds[0], m.Bounds[1]
		return local.U >= rMin-tol && local.U <= rMax+tol
	case MaskRectangle:
		halfX, halfY := m.Bounds[0], m.Bounds[1]
		return math.Abs(local.U) <= halfX+tol && math.Abs(local.V) <= halfY+tol
	case MaskTrapezoid:
		halfX1, halfX2, halfY := m.Bounds[0], m.Bounds[1], m.Bounds[2]
		if math.Abs(local.V) > halfY+tol {
			return false
		}
		t := clamp01((local.V+halfY)/(2*halfY))
		halfXAtV := halfX1 + t*(halfX2-halfX1)
		return math.Abs(local.U) <= halfXAtV+tol
	case MaskLine:
		radius, halfZ := m.Bounds[0], m.Bounds[1]
		return math.Abs(local.U) <= radius+tol && math.Abs(local.V) <= halfZ+tol
	default:
		return false
	}
}
