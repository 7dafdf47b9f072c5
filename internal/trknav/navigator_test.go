package trknav

import "testing"

// buildTelescopeDetector builds the single-volume telescope geometry used
// throughout these tests: a volume bounded by two rectangle portals at
// z=-50 and z=150, containing eleven coplanar unbounded rectangular
// sensitive surfaces at z = 0, 10, ..., 100 millimetres. Both portals
// link out of the detector world.
func buildTelescopeDetector() (*Detector, []uint32) {
	det := NewDetector()
	const big = 1e6

	identity := [9]Real{1, 0, 0, 0, 1, 0, 0, 0, 1}

	entryPortalT := det.AddTransform(NewTransform3(Point3{X: 0, Y: 0, Z: -50}, identity))
	exitPortalT := det.AddTransform(NewTransform3(Point3{X: 0, Y: 0, Z: 150}, identity))

	entryMask := det.AddMask(NewRectangleMask(big, big, InvalidVolumeLink))
	exitMask := det.AddMask(NewRectangleMask(big, big, InvalidVolumeLink))

	det.AddSurface(SurfaceDescriptor{
		Barcode:        NewBarcode(0, SurfacePortal, 0, entryPortalT, 0),
		TransformIndex: entryPortalT, MaskIndex: entryMask, MaterialIndex: InvalidVolumeLink,
	})
	det.AddSurface(SurfaceDescriptor{
		Barcode:        NewBarcode(0, SurfacePortal, 1, exitPortalT, 0),
		TransformIndex: exitPortalT, MaskIndex: exitMask, MaterialIndex: InvalidVolumeLink,
	})

	var sensitiveIndices []uint32
	for i := 0; i < 11; i++ {
		z := Real(i * 10)
		tIdx := det.AddTransform(NewTransform3(Point3{X: 0, Y: 0, Z: z}, identity))
		mIdx := det.AddMask(NewRectangleMask(big, big, 0))
		sfIdx := det.AddSurface(SurfaceDescriptor{
			Barcode:        NewBarcode(0, SurfaceSensitive, uint32(i), tIdx, 0),
			TransformIndex: tIdx, MaskIndex: mIdx, MaterialIndex: InvalidVolumeLink,
		})
		sensitiveIndices = append(sensitiveIndices, sfIdx)
	}

	det.AddVolume(Volume{
		TransformIndex: entryPortalT,
		Portals:        SurfaceRange{Begin: 0, End: 2},
		Sensitives:     SurfaceRange{Begin: 2, End: 13},
		Passives:       SurfaceRange{Begin: 13, End: 13},
		Accel:          AccelBruteForce,
	})
	return det, sensitiveIndices
}

// stepOnce mirrors one iteration of the propagation loop without the
// Propagator wrapper: advance to the current target, lower trust to
// high, update.
func stepOnce(t *testing.T, nav *Navigator, state *NavigationState, traj Trajectory) Trajectory {
	t.Helper()
	dist, ok := state.DistanceToNext()
	if !ok {
		t.Fatalf("no target to step toward (status=%v)", state.Status)
	}
	traj = traj.Advance(dist)
	state.AddPath(dist)
	state.SetHighTrust()
	nav.Update(state, traj)
	return traj
}

func TestTelescopeVisitsAllSensitivesThenExits(t *testing.T) {
	det, _ := buildTelescopeDetector()
	cfg := DefaultConfig()
	nav := NewNavigator(det, cfg)

	traj := Trajectory(NewRay(Point3{X: 0, Y: 0, Z: -40}, Vector3{X: 0, Y: 0, Z: 1}))
	state := NewNavigationState(0)

	if !nav.Init(state, traj) {
		t.Fatalf("init failed: status=%v trust=%v", state.Status, state.Trust)
	}
	if state.Trust != TrustFull {
		t.Fatalf("expected full trust after init, got %v", state.Trust)
	}
	if got := state.NCandidates(); got != 12 {
		t.Fatalf("expected 11 sensitives + exit portal ahead of start, got %d", got)
	}
	prev := Real(-1e30)
	for _, c := range state.Candidates {
		if c.Path < prev {
			t.Fatalf("candidates not sorted by ascending path")
		}
		if c.Status != CandidateInside || c.Path < cfg.OverstepTolerance {
			t.Fatalf("init cached a non-navigable candidate: %+v", c)
		}
		prev = c.Path
	}

	hits := 0
	for step := 0; step < 50 && state.Heartbeat; step++ {
		traj = stepOnce(t, nav, state, traj)
		if state.IsOnModule() {
			if bc := state.Barcode(); bc.LocalIndex() != uint32(hits) {
				t.Fatalf("hit %d reported surface local index %d", hits, bc.LocalIndex())
			}
			if !state.IsOnSensitive() {
				t.Fatalf("module hit should be sensitive")
			}
			hits++
		}
	}

	if hits != 11 {
		t.Fatalf("expected 11 module hits, got %d", hits)
	}
	if !state.IsComplete() {
		t.Fatalf("expected propagation to complete by exiting through the far portal, status=%v", state.Status)
	}
}

func TestRayHelixAgreementAtZeroField(t *testing.T) {
	det, _ := buildTelescopeDetector()
	cfg := DefaultConfig()

	ray := NewRay(Point3{X: 0, Y: 0, Z: -40}, Vector3{X: 0, Y: 0, Z: 1})
	helix := NewHelix(Point3{X: 0, Y: 0, Z: -40}, Vector3{X: 0, Y: 0, Z: 1}, 1, 1, ZeroVector3)
	if !helix.IsStraight() {
		t.Fatalf("expected helix to degenerate to a straight line at B=0")
	}

	rayState := NewNavigationState(0)
	helixState := NewNavigationState(0)

	nav := NewNavigator(det, cfg)
	nav.Init(rayState, ray)
	nav.Init(helixState, helix)

	if len(rayState.Candidates) != len(helixState.Candidates) {
		t.Fatalf("ray and zero-field helix produced different candidate counts: %d vs %d",
			len(rayState.Candidates), len(helixState.Candidates))
	}
	for i := range rayState.Candidates {
		if !nearly(rayState.Candidates[i].Path, helixState.Candidates[i].Path, 1e-3) {
			t.Fatalf("candidate %d path mismatch: ray=%v helix=%v",
				i, rayState.Candidates[i].Path, helixState.Candidates[i].Path)
		}
	}
}

func TestUpdateAtFullTrustIsNoOp(t *testing.T) {
	det, _ := buildTelescopeDetector()
	nav := NewNavigator(det, DefaultConfig())
	traj := NewRay(Point3{X: 0, Y: 0, Z: -40}, Vector3{X: 0, Y: 0, Z: 1})
	state := NewNavigationState(0)
	nav.Init(state, traj)

	before := *state
	beforeCands := append([]Candidate(nil), state.Candidates...)

	nav.Update(state, traj)

	if state.Status != before.Status || state.Trust != before.Trust ||
		state.next != before.next || state.last != before.last ||
		state.Volume != before.Volume || state.Heartbeat != before.Heartbeat {
		t.Fatalf("full-trust update changed navigation state")
	}
	for i := range beforeCands {
		if state.Candidates[i] != beforeCands[i] {
			t.Fatalf("full-trust update changed candidate %d", i)
		}
	}
}

func TestDoubleUpdateWithoutStepIsStable(t *testing.T) {
	det, _ := buildTelescopeDetector()
	nav := NewNavigator(det, DefaultConfig())
	traj := NewRay(Point3{X: 0, Y: 0, Z: -40}, Vector3{X: 0, Y: 0, Z: 1})
	state := NewNavigationState(0)
	nav.Init(state, traj)

	// Lower trust as a stepper would, but do not move the track: the
	// update must re-measure the same distances and settle back to full
	// trust with the cursor untouched.
	state.SetHighTrust()
	nav.Update(state, traj)
	trustAfterFirst, nextAfterFirst := state.Trust, state.next

	nav.Update(state, traj)
	if state.Trust != trustAfterFirst || state.next != nextAfterFirst {
		t.Fatalf("second update without a step moved the state: trust %v->%v next %d->%d",
			trustAfterFirst, state.Trust, nextAfterFirst, state.next)
	}
}

func TestTrustLatticeMonotone(t *testing.T) {
	state := NewNavigationState(0)
	state.Trust = TrustFull

	state.SetFullTrust()
	if state.Trust != TrustFull {
		t.Fatalf("SetFullTrust must not change full trust")
	}
	state.SetFairTrust()
	if state.Trust != TrustFair {
		t.Fatalf("expected fair after downgrade, got %v", state.Trust)
	}
	// Raising via the actor-facing setters must be impossible.
	state.SetHighTrust()
	if state.Trust != TrustFair {
		t.Fatalf("SetHighTrust raised trust from fair to %v", state.Trust)
	}
	state.SetFullTrust()
	if state.Trust != TrustFair {
		t.Fatalf("SetFullTrust raised trust from fair to %v", state.Trust)
	}
	state.SetNoTrust()
	if state.Trust != TrustNone {
		t.Fatalf("expected no trust, got %v", state.Trust)
	}
	state.SetFairTrust()
	if state.Trust != TrustNone {
		t.Fatalf("SetFairTrust raised trust from none to %v", state.Trust)
	}
}

func TestNavigatorAbortStopsHeartbeat(t *testing.T) {
	det, _ := buildTelescopeDetector()
	nav := NewNavigator(det, DefaultConfig())
	traj := NewRay(Point3{X: 0, Y: 0, Z: -40}, Vector3{X: 0, Y: 0, Z: 1})
	state := NewNavigationState(0)
	nav.Init(state, traj)

	nav.Abort(state)
	if !state.IsAborted() {
		t.Fatalf("expected aborted state")
	}
	if state.Heartbeat {
		t.Fatalf("expected heartbeat to stop after abort")
	}
	if len(state.Candidates) == 0 {
		t.Fatalf("abort should retain the cache for inspection")
	}
	// Aborted state must stay dead through further updates.
	if nav.Update(state, traj) {
		t.Fatalf("update on aborted state must not revive the heartbeat")
	}
}

// buildTwoVolumeDetector builds two box volumes meeting at z=100: volume
// 0 spans z in [-50, 100], volume 1 spans [100, 250]. Each volume holds
// its own portal pair (the boundary plane exists twice, once per volume,
// each copy linking across) and two sensitive planes.
func buildTwoVolumeDetector() *Detector {
	det := NewDetector()
	const big = 1e6
	identity := [9]Real{1, 0, 0, 0, 1, 0, 0, 0, 1}

	addPlane := func(volume uint32, kind SurfaceKind, local uint32, z Real, link uint32) uint32 {
		tIdx := det.AddTransform(NewTransform3(Point3{X: 0, Y: 0, Z: z}, identity))
		mIdx := det.AddMask(NewRectangleMask(big, big, link))
		return det.AddSurface(SurfaceDescriptor{
			Barcode:        NewBarcode(volume, kind, local, tIdx, 0),
			TransformIndex: tIdx, MaskIndex: mIdx, MaterialIndex: InvalidVolumeLink,
		})
	}

	// Volume 0
	addPlane(0, SurfacePortal, 0, -50, InvalidVolumeLink)
	addPlane(0, SurfacePortal, 1, 100, 1)
	addPlane(0, SurfaceSensitive, 0, 20, 0)
	addPlane(0, SurfaceSensitive, 1, 60, 0)
	det.AddVolume(Volume{
		TransformIndex: 0,
		Portals:        SurfaceRange{Begin: 0, End: 2},
		Sensitives:     SurfaceRange{Begin: 2, End: 4},
		Passives:       SurfaceRange{Begin: 4, End: 4},
		Accel:          AccelBruteForce,
	})

	// Volume 1
	addPlane(1, SurfacePortal, 0, 100, 0)
	addPlane(1, SurfacePortal, 1, 250, InvalidVolumeLink)
	addPlane(1, SurfaceSensitive, 0, 150, 1)
	addPlane(1, SurfaceSensitive, 1, 200, 1)
	det.AddVolume(Volume{
		TransformIndex: 4,
		Portals:        SurfaceRange{Begin: 4, End: 6},
		Sensitives:     SurfaceRange{Begin: 6, End: 8},
		Passives:       SurfaceRange{Begin: 8, End: 8},
		Accel:          AccelBruteForce,
	})
	return det
}

func TestPortalSwitchesVolume(t *testing.T) {
	det := buildTwoVolumeDetector()
	nav := NewNavigator(det, DefaultConfig())

	traj := Trajectory(NewRay(Point3{X: 0, Y: 0, Z: 0}, Vector3{X: 0, Y: 0, Z: 1}))
	state := NewNavigationState(0)
	if !nav.Init(state, traj) {
		t.Fatalf("init failed")
	}

	var visited []Barcode
	for step := 0; step < 20 && state.Heartbeat; step++ {
		traj = stepOnce(t, nav, state, traj)
		if state.IsOnModule() || state.IsOnPortal() {
			visited = append(visited, state.Barcode())
		}
	}

	if !state.IsComplete() {
		t.Fatalf("expected track to exit through volume 1's far portal, status=%v", state.Status)
	}
	// The sensitive planes of both volumes must appear, in z order, and
	// the track must have passed through volume 1.
	var sensitives []Barcode
	for _, bc := range visited {
		if bc.Kind() == SurfaceSensitive {
			sensitives = append(sensitives, bc)
		}
	}
	if len(sensitives) != 4 {
		t.Fatalf("expected 4 sensitive hits across both volumes, got %d", len(sensitives))
	}
	if sensitives[0].VolumeIndex() != 0 || sensitives[3].VolumeIndex() != 1 {
		t.Fatalf("sensitive hits did not span both volumes: %v", sensitives)
	}
}

func TestPortalTransitionReversible(t *testing.T) {
	det := buildTwoVolumeDetector()
	nav := NewNavigator(det, DefaultConfig())

	// Forward: start in volume 0, cross the shared boundary into volume 1.
	traj := Trajectory(NewRay(Point3{X: 0, Y: 0, Z: 80}, Vector3{X: 0, Y: 0, Z: 1}))
	state := NewNavigationState(0)
	nav.Init(state, traj)

	var crossingBarcode Barcode
	for step := 0; step < 10 && state.Volume == 0 && state.Heartbeat; step++ {
		traj = stepOnce(t, nav, state, traj)
	}
	if state.Volume != 1 {
		t.Fatalf("expected forward crossing into volume 1, still in %d", state.Volume)
	}

	// Reverse: restart a track at a point inside volume 1 heading back.
	pos := traj.Pos(0)
	back := Trajectory(NewRay(Point3{X: pos.X, Y: pos.Y, Z: pos.Z + 30}, Vector3{X: 0, Y: 0, Z: -1}))
	backState := NewNavigationState(1)
	nav.Init(backState, back)

	for step := 0; step < 10 && backState.Volume == 1 && backState.Heartbeat; step++ {
		back = stepOnce(t, nav, backState, back)
	}
	if backState.Volume != 0 {
		t.Fatalf("expected backward crossing into volume 0, still in %d", backState.Volume)
	}
	// Re-entering volume 0 consumes its boundary portal: the barcode
	// recorded as current must be volume 0's copy of the shared plane —
	// the same surface the forward pass crossed out through.
	crossingBarcode = NewBarcode(0, SurfacePortal, 1, 1, 0)
	if !backState.IsOnPortal() {
		t.Fatalf("expected on-portal status right after re-entry, got %v", backState.Status)
	}
	if got := backState.Barcode(); got != crossingBarcode {
		t.Fatalf("re-entry recorded barcode %v, want volume 0 boundary portal %v", got, crossingBarcode)
	}
}

func TestExhaustedCacheReinitializes(t *testing.T) {
	det, _ := buildTelescopeDetector()
	nav := NewNavigator(det, DefaultConfig())
	traj := Trajectory(NewRay(Point3{X: 0, Y: 0, Z: -40}, Vector3{X: 0, Y: 0, Z: 1}))
	state := NewNavigationState(0)
	nav.Init(state, traj)

	// Sabotage the cache: pretend everything was consumed. The next
	// update must fall back to a fresh volume initialization rather
	// than dying.
	state.next = state.last
	state.SetFairTrust()
	if !nav.Update(state, traj) {
		t.Fatalf("update should recover from an exhausted cache by re-initializing")
	}
	if state.Trust != TrustFull {
		t.Fatalf("expected full trust after recovery, got %v", state.Trust)
	}
	if state.NCandidates() == 0 {
		t.Fatalf("expected a refilled cache after recovery")
	}
}
