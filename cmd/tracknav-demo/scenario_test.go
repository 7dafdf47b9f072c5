package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trknav/trknav/internal/trknav"
)

func TestDefaultScenarioBuilds(t *testing.T) {
	det, err := defaultScenario().Build()
	require.NoError(t, err)

	require.Len(t, det.Volumes, 1)
	vol := det.Volume(0)
	assert.Equal(t, 2, vol.Portals.Len())
	assert.Equal(t, 11, vol.Sensitives.Len())
}

func TestScenarioRejectsPlaneOutsideVolume(t *testing.T) {
	cfg := defaultScenario()
	cfg.Planes = append(cfg.Planes, PlaneCfg{Z: 500})
	_, err := cfg.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside the volume")
}

func TestLoadScenarioFillsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"custom","pathLimit":50}`), 0o644))

	cfg, err := loadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "custom", cfg.Name)
	assert.InDelta(t, 50.0, cfg.PathLimit, 1e-12)
	assert.Len(t, cfg.Planes, 11, "unset planes fall back to the telescope layout")
	assert.NotEmpty(t, cfg.Tracks)
}

func TestRunCommandPropagatesDefaultScenario(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := newRunCommand()
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "scenario \"telescope\"")
	assert.Contains(t, buf.String(), "complete")
}

func TestScenarioCommandEmitsJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := newScenarioCommand()
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "\"pathLimit\": 2000")
}

func TestTrackTrajectorySelection(t *testing.T) {
	field := trknav.Vector3{Z: 1}

	straight := TrackCfg{Direction: Vec3Cfg{Z: 1}}
	_, isRay := straight.trajectory(field).(trknav.Ray)
	assert.True(t, isRay)

	curved := TrackCfg{Direction: Vec3Cfg{X: 1, Z: 1}, Charge: -1, Momentum: 10}
	_, isHelix := curved.trajectory(field).(trknav.Helix)
	assert.True(t, isHelix)
}
