package trknav

// NavigationState is a navigator's per-track working set: the ranked
// candidate buffer plus the [next, last) cursor pair into it, the
// current status, direction and trust level, and the volume currently
// occupied. Cursors are plain buffer indices rather than pointers or
// iterators, so the state stays trivially copyable and the buffer may
// reallocate between steps without invalidating them.
//
// The candidate the track most recently reached sits at next-1 (the
// "current" surface); the candidate it is moving toward sits at next
// (the "target"). Everything before next is consumed, everything in
// [next, last) is reachable and sorted by ascending path.
type NavigationState struct {
	Candidates []Candidate
	next       int
	last       int

	Status    Status
	Direction Direction
	Trust     TrustLevel
	Volume    uint32
	Heartbeat bool

	pathTraveled Real
}

// NewNavigationState returns a state parked in the given starting volume,
// ready for Navigator.Init.
func NewNavigationState(startVolume uint32) *NavigationState {
	return &NavigationState{
		Status:    StatusUnknown,
		Direction: DirectionForward,
		Trust:     TrustNone,
		Volume:    startVolume,
	}
}

// target returns the candidate the navigation is moving toward, and
// whether one exists.
func (s *NavigationState) target() (*Candidate, bool) {
	if s.next < 0 || s.next >= s.last {
		return nil, false
	}
	return &s.Candidates[s.next], true
}

// current returns the candidate most recently reached (the one just
// behind the target cursor), and whether one exists.
func (s *NavigationState) current() (*Candidate, bool) {
	i := s.next - 1
	if i < 0 || i >= len(s.Candidates) {
		return nil, false
	}
	return &s.Candidates[i], true
}

// NCandidates returns the number of reachable candidates left in the
// cache.
func (s *NavigationState) NCandidates() int { return s.last - s.next }

// clear empties the candidate cache and resets both cursors.
func (s *NavigationState) clear() {
	s.Candidates = s.Candidates[:0]
	s.next = 0
	s.last = 0
}

// setCandidates installs a freshly ranked candidate buffer and resets the
// cursor pair to span it.
func (s *NavigationState) setCandidates(candidates []Candidate) {
	s.Candidates = candidates
	s.next = 0
	s.last = len(candidates)
}

// SetVolume places the state in a new volume; the next Init runs local
// navigation there.
func (s *NavigationState) SetVolume(v uint32) { s.Volume = v }

// SetDirection flips the sense in which candidates are consumed.
func (s *NavigationState) SetDirection(d Direction) { s.Direction = d }

// SetNoTrust invalidates the cache unconditionally; the next update
// re-initializes the volume.
func (s *NavigationState) SetNoTrust() { s.Trust = TrustNone }

// SetFullTrust restores full trust unless the state already holds a
// lower level, which an actor must not be able to overrule.
func (s *NavigationState) SetFullTrust() {
	if s.Trust <= TrustFull {
		return
	}
	s.Trust = TrustFull
}

// SetHighTrust lowers trust to high: only the current target needs
// re-intersecting.
func (s *NavigationState) SetHighTrust() { s.Trust = minTrust(s.Trust, TrustHigh) }

// SetFairTrust lowers trust to fair: every cached candidate needs
// re-intersecting, but the volume is unchanged.
func (s *NavigationState) SetFairTrust() { s.Trust = minTrust(s.Trust, TrustFair) }

// IsOnModule reports whether the track reached a module surface.
func (s *NavigationState) IsOnModule() bool { return s.Status == StatusOnModule }

// IsOnSensitive reports whether the track reached a sensitive module.
func (s *NavigationState) IsOnSensitive() bool {
	c, ok := s.current()
	return s.IsOnModule() && ok && c.Surface.IsSensitive()
}

// IsOnPortal reports whether the track reached a portal surface.
func (s *NavigationState) IsOnPortal() bool { return s.Status == StatusOnPortal }

// IsExhausted reports whether no reachable candidate is left in the
// cache.
func (s *NavigationState) IsExhausted() bool { return s.NCandidates() <= 0 }

// IsComplete reports whether the navigation exited normally.
func (s *NavigationState) IsComplete() bool {
	return s.Status == StatusOnTarget && !s.Heartbeat
}

// IsAborted reports whether the navigation was force-ended.
func (s *NavigationState) IsAborted() bool { return s.Status == StatusAbort }

// EncounteredMaterial reports whether the surface the track is currently
// on carries material.
func (s *NavigationState) EncounteredMaterial() bool {
	if !s.IsOnModule() && !s.IsOnPortal() {
		return false
	}
	c, ok := s.current()
	return ok && c.Surface.MaterialIndex != InvalidVolumeLink
}

// Barcode returns the barcode of the surface the track is currently on;
// invalid when the track is between surfaces.
func (s *NavigationState) Barcode() Barcode {
	if !s.IsOnModule() && !s.IsOnPortal() {
		return InvalidBarcode
	}
	c, ok := s.current()
	if !ok {
		return InvalidBarcode
	}
	return c.Surface.Barcode
}

// CurrentSurface returns the descriptor of the surface the track is
// currently on.
func (s *NavigationState) CurrentSurface() (SurfaceDescriptor, bool) {
	if !s.IsOnModule() && !s.IsOnPortal() {
		return SurfaceDescriptor{}, false
	}
	c, ok := s.current()
	if !ok {
		return SurfaceDescriptor{}, false
	}
	return c.Surface, true
}

// NextSurface returns the descriptor of the surface the navigation
// intends to reach next.
func (s *NavigationState) NextSurface() (SurfaceDescriptor, bool) {
	c, ok := s.target()
	if !ok {
		return SurfaceDescriptor{}, false
	}
	return c.Surface, true
}

// DistanceToNext returns the signed path length to the current target,
// the value a stepper reads to size its next step.
func (s *NavigationState) DistanceToNext() (Real, bool) {
	c, ok := s.target()
	if !ok {
		return 0, false
	}
	return c.Path, true
}

// PathTraveled returns the total path length accumulated over the
// propagation so far.
func (s *NavigationState) PathTraveled() Real { return s.pathTraveled }

// AddPath accumulates a step's covered distance; called by the
// propagation loop once per step.
func (s *NavigationState) AddPath(delta Real) { s.pathTraveled += delta }

// Iterate walks the remaining [next, last) candidate window, the
// read-only view actors inspect.
func (s *NavigationState) Iterate() func(yield func(int, Candidate) bool) {
	return func(yield func(int, Candidate) bool) {
		for i := s.next; i < s.last; i++ {
			if !yield(i, s.Candidates[i]) {
				return
			}
		}
	}
}

// abortState marks the navigation as unrecoverable, keeping the cache
// for inspection. Trust is parked at full so subsequent update calls
// fall straight through.
func (s *NavigationState) abortState() {
	s.Status = StatusAbort
	s.Heartbeat = false
	s.Trust = TrustFull
}

// exitState marks a deliberate, successful end of navigation and drops
// the cache.
func (s *NavigationState) exitState() {
	s.Status = StatusOnTarget
	s.Heartbeat = false
	s.Trust = TrustFull
	s.clear()
}
