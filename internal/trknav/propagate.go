package trknav

// Propagator ties a Stepper, a Navigator and an ActorChain into the
// stepper.advance -> navigator.update -> actor_chain.act loop that
// drives a track from its starting volume until it exits, is absorbed,
// or an actor aborts it.
type Propagator struct {
	Navigator *Navigator
	Stepper   Stepper
	Actors    ActorChain
	Config    Config
}

// NewPropagator builds a propagator from its three collaborators.
func NewPropagator(nav *Navigator, stepper Stepper, actors ActorChain, cfg Config) *Propagator {
	return &Propagator{Navigator: nav, Stepper: stepper, Actors: actors, Config: cfg}
}

// Run initializes state against traj and drives it to completion,
// returning the number of steps performed. Each iteration advances the
// trajectory by the navigator's proposed distance, lowers trust to high
// (the stepper moved the track, so the current target's distance is
// stale but the cache ordering is not), and lets the navigator restore
// full trust before the actors observe the step. maxSteps bounds
// runaway configurations.
func (p *Propagator) Run(state *NavigationState, traj Trajectory, maxSteps int) int {
	if !p.Navigator.Init(state, traj) {
		return 0
	}
	steps := 0
	for steps < maxSteps && state.Heartbeat {
		dist, ok := state.DistanceToNext()
		if !ok {
			p.Navigator.Abort(state)
			break
		}
		covered := p.Stepper.Advance(traj, dist, state.Direction, p.Config)
		traj = traj.Advance(covered)
		state.AddPath(covered)
		state.SetHighTrust()
		steps++

		if !p.Navigator.Update(state, traj) {
			break
		}
		if p.Actors != nil {
			p.Actors.Act(state, traj, p.Config)
		}
	}
	return steps
}
