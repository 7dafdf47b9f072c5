package trknav

import "math"

// AxisKind selects how an Axis handles a query point or bin index
// outside its domain.
type AxisKind int

const (
	AxisBounded  AxisKind = iota // clamp to the nearest edge bin
	AxisOpen                     // unclamped: out-of-range bins are skipped
	AxisCircular                 // wrap modulo NBins (required for phi)
)

// Axis is one binned dimension of a Grid: a [Min, Max) domain split into
// NBins equal-width bins.
type Axis struct {
	Kind  AxisKind
	Min   Real
	Max   Real
	NBins int
}

func (a Axis) width() Real { return (a.Max - a.Min) / Real(a.NBins) }

// indexOf maps a coordinate to its raw bin index, before kind-specific
// clamping/wrapping is applied.
func (a Axis) indexOf(x Real) int {
	w := a.width()
	if w == 0 {
		return 0
	}
	i := int((x - a.Min) / w)
	return i
}

// resolve applies this axis's boundary policy to a raw (possibly
// out-of-range) bin index.
func (a Axis) resolve(i int) (idx int, ok bool) {
	switch a.Kind {
	case AxisCircular:
		n := a.NBins
		return ((i % n) + n) % n, true
	case AxisBounded:
		if i < 0 {
			return 0, true
		}
		if i >= a.NBins {
			return a.NBins - 1, true
		}
		return i, true
	default: // AxisOpen
		if i < 0 || i >= a.NBins {
			return 0, false
		}
		return i, true
	}
}

// window yields every resolved bin index within win bins of x. A
// circular axis whose window straddles the wrap point yields bins from
// both ends: a window spanning index 0 covers nbins-w up through 0+w.
func (a Axis) window(x Real, win int) func(yield func(int) bool) {
	center := a.indexOf(x)
	return func(yield func(int) bool) {
		for raw := center - win; raw <= center+win; raw++ {
			if idx, ok := a.resolve(raw); ok {
				if !yield(idx) {
					return
				}
			}
		}
	}
}

// Grid is a 2-D bin index over a volume's surfaces, keyed by each
// surface's local placement: cylinder volumes bin by (phi, z), disc
// volumes bin by (r, phi). A window query joins the contents of the
// bins around a track's projected coordinate by lazy Cartesian
// product.
type Grid struct {
	AxisA, AxisB Axis
	bins         [][]uint32 // flattened AxisA-major: bins[a*AxisB.NBins+b]
}

// NewGrid allocates an empty grid over the given axes.
func NewGrid(axisA, axisB Axis) *Grid {
	return &Grid{
		AxisA: axisA,
		AxisB: axisB,
		bins:  make([][]uint32, axisA.NBins*axisB.NBins),
	}
}

func (g *Grid) binIndex(a, b int) int { return a*g.AxisB.NBins + b }

// Insert files a surface index into the bin containing (u, v).
func (g *Grid) Insert(u, v Real, surfaceIndex uint32) {
	a, aok := g.AxisA.resolve(g.AxisA.indexOf(u))
	b, bok := g.AxisB.resolve(g.AxisB.indexOf(v))
	if !aok || !bok {
		return
	}
	i := g.binIndex(a, b)
	g.bins[i] = append(g.bins[i], surfaceIndex)
}

// Neighborhood lazily yields every surface index filed in a bin within win
// of (u, v), deduplication is the caller's responsibility (the kernel
// drops non-inside candidates downstream anyway, so a surface visited
// twice just gets intersected twice). No slice is allocated by this call.
func (g *Grid) Neighborhood(u, v Real, win SearchWindow) func(yield func(uint32) bool) {
	return func(yield func(uint32) bool) {
		for a := range g.AxisA.window(u, win.A) {
			for b := range g.AxisB.window(v, win.B) {
				for _, sf := range g.bins[g.binIndex(a, b)] {
					if !yield(sf) {
						return
					}
				}
			}
		}
	}
}

// NewCylinderGrid builds an empty phi-z grid sized for a cylindrical
// volume of the given half-length, phi always spanning the full circle.
func NewCylinderGrid(halfZ Real, nPhiBins, nZBins int) *Grid {
	return NewGrid(
		Axis{Kind: AxisCircular, Min: -math.Pi, Max: math.Pi, NBins: nPhiBins},
		Axis{Kind: AxisBounded, Min: -halfZ, Max: halfZ, NBins: nZBins},
	)
}

// NewDiscGrid builds an empty r-phi grid sized for a disc volume endcap.
func NewDiscGrid(rMin, rMax Real, nRBins, nPhiBins int) *Grid {
	return NewGrid(
		Axis{Kind: AxisBounded, Min: rMin, Max: rMax, NBins: nRBins},
		Axis{Kind: AxisCircular, Min: -math.Pi, Max: math.Pi, NBins: nPhiBins},
	)
}
