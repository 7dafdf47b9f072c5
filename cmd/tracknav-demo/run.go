package main

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/trknav/trknav/internal/trknav"
)

type runOptions struct {
	MaxSteps int
	Trace    bool
}

func newRunCommand() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run [scenario.json]",
		Short: "Propagate the scenario's tracks and print the surfaces each one crossed",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := defaultScenario()
			if len(args) == 1 {
				var err error
				cfg, err = loadScenario(args[0])
				if err != nil {
					return err
				}
			}
			return runScenario(cmd, cfg, opts)
		},
	}

	cmd.Flags().IntVar(&opts.MaxSteps, "max-steps", 1000, "step budget per track")
	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "print per-step navigator state")
	return cmd
}

func newScenarioCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scenario",
		Short: "Print the built-in scenario as JSON, as a starting point for custom files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := json.MarshalIndent(defaultScenario(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

// hitRecorder collects the surface each navigation step landed on.
type hitRecorder struct {
	hits []trknav.Barcode
}

func (r *hitRecorder) Act(s *trknav.NavigationState, traj trknav.Trajectory, cfg trknav.Config) {
	if s.IsOnModule() || s.IsOnPortal() {
		r.hits = append(r.hits, s.Barcode())
	}
}

func runScenario(cmd *cobra.Command, cfg *ScenarioCfg, opts *runOptions) error {
	trknav.Trace = opts.Trace

	det, err := cfg.Build()
	if err != nil {
		return err
	}

	// Each invocation gets a run id so its output can be correlated with
	// whatever job the host pipeline embeds this in.
	runID := uuid.New()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run %s: scenario %q, %d track(s), field (%.2f, %.2f, %.2f) T\n",
		runID, cfg.Name, len(cfg.Tracks), cfg.Field.X, cfg.Field.Y, cfg.Field.Z)

	navCfg := trknav.DefaultConfig()
	nav := trknav.NewNavigator(det, navCfg)

	for i, tc := range cfg.Tracks {
		rec := &hitRecorder{}
		aborter := trknav.NewPathLimitAborter(nav, cfg.PathLimit)
		prop := trknav.NewPropagator(nav, trknav.StraightLineStepper{}, trknav.ActorChain{rec, aborter}, navCfg)

		state := trknav.NewNavigationState(0)
		traj := tc.trajectory(cfg.Field.vector())
		steps := prop.Run(state, traj, opts.MaxSteps)

		outcome := "stalled"
		switch {
		case state.IsComplete():
			outcome = "complete"
		case state.IsAborted():
			outcome = "aborted"
		}
		fmt.Fprintf(out, "track %d: %s after %d step(s), %.3f mm, %d surface(s) crossed\n",
			i, outcome, steps, state.PathTraveled(), len(rec.hits))
		for _, bc := range rec.hits {
			fmt.Fprintf(out, "  %s %d (volume %d)\n", bc.Kind(), bc.LocalIndex(), bc.VolumeIndex())
		}
	}
	return nil
}
