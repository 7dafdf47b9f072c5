package trknav

// Actor observes and reacts to a propagation step: material
// interaction, trust-level downgrades, path-length aborters and the
// like are all actors chained together rather than built into the
// navigator or stepper, so propagate.go never names a concrete
// behaviour.
type Actor interface {
	Act(s *NavigationState, traj Trajectory, cfg Config)
}

// ActorChain runs a fixed ordered list of Actors after every navigator
// update. Trust-level changes made by actors are monotone within a step
// (the state's Set*Trust methods only ever lower), so a later actor can
// never falsely raise what an earlier one lowered.
type ActorChain []Actor

func (chain ActorChain) Act(s *NavigationState, traj Trajectory, cfg Config) {
	for _, a := range chain {
		a.Act(s, traj, cfg)
	}
}

// PathLimitAborter ends propagation once the track's accumulated path
// length reaches MaxPath: the aborter flags the state, and the
// propagation loop observes the dead heartbeat on its next check.
type PathLimitAborter struct {
	MaxPath   Real
	navigator *Navigator
}

// NewPathLimitAborter builds an aborter bound to the navigator it should
// call Abort through.
func NewPathLimitAborter(nav *Navigator, maxPath Real) *PathLimitAborter {
	return &PathLimitAborter{MaxPath: maxPath, navigator: nav}
}

func (a *PathLimitAborter) Act(s *NavigationState, traj Trajectory, cfg Config) {
	if s.PathTraveled() >= a.MaxPath {
		a.navigator.Abort(s)
	}
}
