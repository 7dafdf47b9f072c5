package trknav

// SurfaceDescriptor is an immutable geometry record: a barcode, a
// transform index, a mask link, and (implicitly, via the mask) a
// navigation link. Surfaces, masks and transforms live in separate typed
// arrays of the Detector and are linked by index so the geometry store
// can be shared read-only across many navigator states.
type SurfaceDescriptor struct {
	Barcode        Barcode
	TransformIndex uint32
	MaskIndex      uint32
	MaterialIndex  uint32 // InvalidVolumeLink when the surface carries no material
}

// IsPortal, IsSensitive and IsPassive read the kind out of the barcode.
func (s SurfaceDescriptor) IsPortal() bool     { return s.Barcode.Kind() == SurfacePortal }
func (s SurfaceDescriptor) IsSensitive() bool  { return s.Barcode.Kind() == SurfaceSensitive }
func (s SurfaceDescriptor) IsPassive() bool    { return s.Barcode.Kind() == SurfacePassive }
func (s SurfaceDescriptor) IsModule() bool     { return !s.IsPortal() }
