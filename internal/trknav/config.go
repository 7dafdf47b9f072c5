package trknav

// Default tolerances, in millimetres: the named constants DefaultConfig
// builds its Config from. Zero fields of a caller-built Config are not
// filled from them.
const (
	DefaultMaskTolerance      Real = 15e-3   // 15 microns
	DefaultOnSurfaceTolerance Real = 1e-3    // 1 micron
	DefaultOverstepTolerance  Real = -100e-3 // -100 microns
	DefaultSearchWindowA      int  = 0
	DefaultSearchWindowB      int  = 0
)

// SearchWindow is a grid neighborhood half-size in bins, one value per
// binned axis.
type SearchWindow struct {
	A, B int
}

// Config carries the navigator's tunable tolerances. It is plain
// in-memory data; reading it from a file is a host-application concern.
type Config struct {
	MaskTolerance      Real
	OnSurfaceTolerance Real
	OverstepTolerance  Real
	SearchWindow       SearchWindow
}

// DefaultConfig returns the standard tolerance set: 15 um mask slack,
// 1 um on-surface threshold, 100 um overstep budget.
func DefaultConfig() Config {
	return Config{
		MaskTolerance:      DefaultMaskTolerance,
		OnSurfaceTolerance: DefaultOnSurfaceTolerance,
		OverstepTolerance:  DefaultOverstepTolerance,
		SearchWindow:       SearchWindow{A: DefaultSearchWindowA, B: DefaultSearchWindowB},
	}
}
