package trknav

import (
	"math"
	"sort"
)

// Navigator drives a NavigationState through a Detector. It owns no
// per-track data itself, every method takes the NavigationState
// explicitly, so one Navigator can serve any number of concurrently
// propagated tracks sharing the same read-only Detector.
type Navigator struct {
	det  *Detector
	cfg  Config
	insp Inspector
}

// NewNavigator builds a navigator bound to a geometry store and a
// tolerance/search-window configuration, observing nothing.
func NewNavigator(det *Detector, cfg Config) *Navigator {
	return &Navigator{det: det, cfg: cfg, insp: NoopInspector}
}

// NewInspectedNavigator is NewNavigator with an observation hook wired
// to the navigation call sites: after init, after each update branch,
// on abort and exit.
func NewInspectedNavigator(det *Detector, cfg Config, insp Inspector) *Navigator {
	if insp == nil {
		insp = NoopInspector
	}
	return &Navigator{det: det, cfg: cfg, insp: insp}
}

func (n *Navigator) Detector() *Detector { return n.det }

// Config returns the tolerance set the navigator runs with.
func (n *Navigator) Config() Config { return n.cfg }

// Init runs local navigation in the state's current volume: query the
// volume's acceleration structure, intersect every returned surface,
// rank the reachable candidates and establish the overall navigation
// state. A configuration that cannot reach full trust straight out of
// init is broken, so the heartbeat is cleared.
func (n *Navigator) Init(s *NavigationState, traj Trajectory) bool {
	s.clear()
	s.Heartbeat = true

	s.setCandidates(Initialize(n.det, s.Volume, traj, n.cfg))
	n.updateNavigationState(s)

	if s.Trust != TrustFull {
		s.Heartbeat = false
	}
	n.insp(s, n.cfg, "init complete")
	return s.Heartbeat
}

// Update restores full trust to the candidate cache according to the
// trust level an actor left behind, then resolves what the restored
// state means: a volume switch when the track stepped onto a portal, a
// re-initialization when the cache ran dry mid-volume, an abort when
// trust cannot be restored at all.
func (n *Navigator) Update(s *NavigationState, traj Trajectory) bool {
	n.updateKernel(s, traj)

	// Most likely case: the cache was refreshed in place.
	if s.Trust == TrustFull {
		return s.Heartbeat
	}

	// Did we run into a portal?
	if s.IsOnPortal() {
		cur, ok := s.current()
		if !ok || cur.VolumeLink == InvalidVolumeLink {
			// The track left the detector world.
			n.Exit(s)
			return s.Heartbeat
		}
		s.SetVolume(cur.VolumeLink)
		n.Init(s, traj)
		// A volume entered through a portal may itself start on the
		// twin portal surface; that is expected, not a broken setup,
		// so trust and heartbeat are restored unconditionally.
		s.Trust = TrustFull
		s.Heartbeat = true
		return s.Heartbeat
	}

	// No trust could be restored: local navigation may be exhausted,
	// re-initialize the volume.
	if s.Heartbeat {
		n.Init(s, traj)
	}

	// Should never fail after a complete update call.
	if s.Trust != TrustFull || s.IsExhausted() {
		traceLogOnce("navigator: volume %d exhausted with trust %s after full update, aborting",
			s.Volume, s.Trust)
		n.Abort(s)
	}
	return s.Heartbeat
}

// updateKernel re-evaluates the candidate cache according to the trust
// level: full is a no-op, high re-intersects the current target alone,
// fair re-ranks the whole remaining window, no trust re-initializes.
func (n *Navigator) updateKernel(s *NavigationState, traj Trajectory) {
	// Cache reflects the geometry exactly, nothing to do.
	if s.Trust == TrustFull {
		return
	}

	if s.Trust == TrustHigh {
		// Update only the current target; if it is no longer reachable,
		// high trust was a lie and the cache is invalid.
		tgt, ok := s.target()
		if !ok || !Update(n.det, tgt, traj, n.cfg) {
			s.Status = StatusUnknown
			s.SetNoTrust()
			return
		}
		n.updateNavigationState(s)
		n.insp(s, n.cfg, "update: high trust")

		// Done if the track is still in flight, or trust is gone (a
		// portal was reached or the cache broke).
		if s.Status == StatusTowardsObject || s.Trust == TrustNone {
			return
		}

		// The track is on a module: ready the candidate after it. If
		// that one is unreachable the rest of the cache is suspect too,
		// so escalate to a fair-trust rescan instead of returning.
		if tgt, ok := s.target(); ok && Update(n.det, tgt, traj, n.cfg) {
			return
		}
		s.SetFairTrust()
	}

	if s.Trust == TrustFair {
		// Re-intersect everything still cached; unreachable candidates
		// are pushed to +inf so the resort evicts them past last.
		for i := s.next; i < s.last; i++ {
			if !Update(n.det, &s.Candidates[i], traj, n.cfg) {
				s.Candidates[i].Path = math.Inf(1)
			}
		}
		window := s.Candidates[s.next:s.last]
		sort.Sort(byPath(window))
		s.last = s.next + sort.Search(len(window), func(i int) bool {
			return math.IsInf(window[i].Path, 1)
		})
		n.updateNavigationState(s)
		n.insp(s, n.cfg, "update: fair trust")
		return
	}

	// An actor flagged the cache as broken outright.
	if s.Trust == TrustNone {
		n.Init(s, traj)
	}
}

// updateNavigationState re-establishes the overall state after the cache
// was refreshed: either the track has reached its target (which is then
// consumed, becoming the current surface) or it is still moving toward
// it. Reaching a portal, or running out of candidates, drops trust to
// none so that Update triggers the volume switch or re-initialization.
func (n *Navigator) updateNavigationState(s *NavigationState) {
	if tgt, ok := s.target(); ok {
		if math.Abs(tgt.Path) < n.cfg.OnSurfaceTolerance {
			s.next++
			cur, _ := s.current()
			if cur.Surface.IsPortal() {
				s.Status = StatusOnPortal
			} else {
				s.Status = StatusOnModule
			}
		} else {
			s.Status = StatusTowardsObject
		}
	} else {
		s.Status = StatusUnknown
	}

	if s.IsExhausted() || s.IsOnPortal() {
		s.Trust = TrustNone
	} else {
		s.Trust = TrustFull
	}
	traceLog("navigator: volume=%d status=%s trust=%s next=%d/%d",
		s.Volume, s.Status, s.Trust, s.next, s.last)
}

// Abort force-ends the propagation, keeping the cache for
// inspection.
func (n *Navigator) Abort(s *NavigationState) {
	s.abortState()
	n.insp(s, n.cfg, "aborted")
}

// Exit ends the propagation deliberately: the track reached its target
// or left the detector world.
func (n *Navigator) Exit(s *NavigationState) {
	s.exitState()
	n.insp(s, n.cfg, "exited")
}
