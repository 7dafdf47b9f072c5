package trknav

import "math"

// Detector is the read-only geometry store: volumes, surfaces, masks,
// transforms and grids, linked by index rather than pointer so the whole
// store can be shared across any number of navigator states without
// locking. Each volume names a range of a shared Surfaces array.
type Detector struct {
	Volumes    []Volume
	Surfaces   []SurfaceDescriptor
	Masks      []Mask
	Transforms []Transform3
	Grids      []*Grid
}

// NewDetector returns an empty geometry store ready for incremental
// construction. Building a Detector from an input file format is a host
// application's concern; these Add* methods are the programmatic
// construction surface.
func NewDetector() *Detector {
	return &Detector{}
}

// AddTransform files a placement and returns its index.
func (d *Detector) AddTransform(t Transform3) uint32 {
	d.Transforms = append(d.Transforms, t)
	return uint32(len(d.Transforms) - 1)
}

// AddMask files a mask and returns its index.
func (d *Detector) AddMask(m Mask) uint32 {
	d.Masks = append(d.Masks, m)
	return uint32(len(d.Masks) - 1)
}

// AddGrid files a grid acceleration structure and returns its index.
func (d *Detector) AddGrid(g *Grid) uint32 {
	d.Grids = append(d.Grids, g)
	return uint32(len(d.Grids) - 1)
}

// AddSurface files a surface descriptor and returns its index.
func (d *Detector) AddSurface(s SurfaceDescriptor) uint32 {
	d.Surfaces = append(d.Surfaces, s)
	return uint32(len(d.Surfaces) - 1)
}

// AddVolume files a volume and returns its index. Callers are expected to
// have already filed the volume's surfaces contiguously so Portals,
// Sensitives and Passives can name them by range.
func (d *Detector) AddVolume(v Volume) uint32 {
	v.Index = uint32(len(d.Volumes))
	d.Volumes = append(d.Volumes, v)
	return v.Index
}

// Volume, Surface, Mask and Transform are plain indexed lookups; kept
// as methods rather than raw slice indexing so call sites read as "ask
// the detector".
func (d *Detector) Volume(idx uint32) *Volume             { return &d.Volumes[idx] }
func (d *Detector) Surface(idx uint32) *SurfaceDescriptor { return &d.Surfaces[idx] }
func (d *Detector) Mask(idx uint32) *Mask                 { return &d.Masks[idx] }
func (d *Detector) Transform(idx uint32) *Transform3      { return &d.Transforms[idx] }

// VolumeLink resolves a surface's navigation link through its mask.
func (d *Detector) VolumeLink(sf SurfaceDescriptor) uint32 {
	return d.Masks[sf.MaskIndex].VolumeLink
}

func projectCylindricalUV(local Point3) (u, v Real) {
	return math.Atan2(local.Y, local.X), local.Z
}

func projectPolarUV(local Point3) (u, v Real) {
	return math.Hypot(local.X, local.Y), math.Atan2(local.Y, local.X)
}

// Neighborhood returns the lazy set of candidate surface indices for a
// track sitting at worldPos inside volume volumeIdx: either every
// portal+sensitive+passive surface (brute force) or a grid window
// around the track's projected local coordinate.
func (d *Detector) Neighborhood(volumeIdx uint32, worldPos Point3, cfg Config) func(yield func(uint32) bool) {
	vol := d.Volume(volumeIdx)
	switch vol.Accel {
	case AccelCylinderGrid, AccelDiscGrid:
		grid := d.Grids[vol.AccelIndex]
		local := d.Transform(vol.TransformIndex).ToLocalPoint(worldPos)
		var u, v Real
		if vol.Accel == AccelCylinderGrid {
			u, v = projectCylindricalUV(local)
		} else {
			u, v = projectPolarUV(local)
		}
		return grid.Neighborhood(u, v, cfg.SearchWindow)
	default:
		ranges := vol.Ranges()
		return func(yield func(uint32) bool) {
			for _, r := range ranges {
				for i := r.Begin; i < r.End; i++ {
					if !yield(i) {
						return
					}
				}
			}
		}
	}
}
