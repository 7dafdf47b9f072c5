package trknav

// Barcode is an opaque 64-bit surface identifier: {volume_index,
// surface_kind, local_index, transform_index, extra} packed into a
// single uint64. An invalid barcode has every bit set.
type Barcode uint64

const (
	bcVolumeBits    = 20
	bcKindBits      = 2
	bcLocalBits     = 20
	bcTransformBits = 20
	bcExtraBits     = 2

	bcVolumeShift    = 64 - bcVolumeBits
	bcKindShift      = bcVolumeShift - bcKindBits
	bcLocalShift     = bcKindShift - bcLocalBits
	bcTransformShift = bcLocalShift - bcTransformBits
	bcExtraShift     = bcTransformShift - bcExtraBits

	bcVolumeMask    = (uint64(1) << bcVolumeBits) - 1
	bcKindMask      = (uint64(1) << bcKindBits) - 1
	bcLocalMask     = (uint64(1) << bcLocalBits) - 1
	bcTransformMask = (uint64(1) << bcTransformBits) - 1
	bcExtraMask     = (uint64(1) << bcExtraBits) - 1
)

// InvalidBarcode has every bit set.
const InvalidBarcode Barcode = ^Barcode(0)

// NewBarcode packs the five identifying fields into a Barcode. Indices that
// do not fit their field width are truncated to it; callers are the
// detector-construction code, not the hot path, so this is not validated
// further.
func NewBarcode(volumeIndex uint32, kind SurfaceKind, localIndex, transformIndex uint32, extra uint8) Barcode {
	v := (uint64(volumeIndex) & bcVolumeMask) << bcVolumeShift
	k := (uint64(kind) & bcKindMask) << bcKindShift
	l := (uint64(localIndex) & bcLocalMask) << bcLocalShift
	t := (uint64(transformIndex) & bcTransformMask) << bcTransformShift
	e := (uint64(extra) & bcExtraMask) << bcExtraShift
	return Barcode(v | k | l | t | e)
}

// Valid reports whether b is not the all-ones sentinel.
func (b Barcode) Valid() bool { return b != InvalidBarcode }

// VolumeIndex extracts the owning volume's index.
func (b Barcode) VolumeIndex() uint32 {
	return uint32((uint64(b) >> bcVolumeShift) & bcVolumeMask)
}

// Kind extracts the surface kind (portal / sensitive / passive).
func (b Barcode) Kind() SurfaceKind {
	return SurfaceKind((uint64(b) >> bcKindShift) & bcKindMask)
}

// LocalIndex extracts the monotone index within the owning volume.
func (b Barcode) LocalIndex() uint32 {
	return uint32((uint64(b) >> bcLocalShift) & bcLocalMask)
}

// TransformIndex extracts the placement transform's index.
func (b Barcode) TransformIndex() uint32 {
	return uint32((uint64(b) >> bcTransformShift) & bcTransformMask)
}

// Extra extracts the spare field reserved for navigator bookkeeping that
// does not fit elsewhere (e.g. a generation counter for reused slots).
func (b Barcode) Extra() uint8 {
	return uint8((uint64(b) >> bcExtraShift) & bcExtraMask)
}

// InvalidVolumeLink denotes "leaves the detector" for a mask's
// VolumeLink field.
const InvalidVolumeLink uint32 = ^uint32(0)
