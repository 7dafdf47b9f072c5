package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/trknav/trknav/internal/trknav"
)

// Scenario configuration, read from JSON. Unset name, planes, volume
// bounds, tracks and path limit fall back to the built-in telescope
// defaults, so a scenario file only needs to name what it changes. The
// field is taken as given: an unset field is a zero field.

type Vec3Cfg struct {
	X trknav.Real `json:"x"`
	Y trknav.Real `json:"y"`
	Z trknav.Real `json:"z"`
}

func (v Vec3Cfg) vector() trknav.Vector3 { return trknav.Vector3{X: v.X, Y: v.Y, Z: v.Z} }
func (v Vec3Cfg) point() trknav.Point3   { return trknav.Point3{X: v.X, Y: v.Y, Z: v.Z} }

type PlaneCfg struct {
	Z     trknav.Real `json:"z"`
	HalfX trknav.Real `json:"halfX,omitempty"`
	HalfY trknav.Real `json:"halfY,omitempty"`
}

type TrackCfg struct {
	Origin    Vec3Cfg     `json:"origin"`
	Direction Vec3Cfg     `json:"direction"`
	Charge    trknav.Real `json:"charge,omitempty"`
	Momentum  trknav.Real `json:"momentum,omitempty"` // GeV/c; 0 means straight ray
}

type ScenarioCfg struct {
	Name      string      `json:"name,omitempty"`
	Field     Vec3Cfg     `json:"field"` // tesla
	Planes    []PlaneCfg  `json:"planes,omitempty"`
	EntryZ    trknav.Real `json:"entryZ,omitempty"`
	ExitZ     trknav.Real `json:"exitZ,omitempty"`
	Tracks    []TrackCfg  `json:"tracks,omitempty"`
	PathLimit trknav.Real `json:"pathLimit,omitempty"` // millimetres
}

const defaultPlaneHalfExtent trknav.Real = 1e6

// defaultScenario is the telescope setup the package tests exercise:
// eleven unbounded sensitive rectangles every 10 mm, a 1 T field along
// z, one straight and one curling track.
func defaultScenario() *ScenarioCfg {
	planes := make([]PlaneCfg, 11)
	for i := range planes {
		planes[i] = PlaneCfg{Z: trknav.Real(i * 10)}
	}
	return &ScenarioCfg{
		Name:   "telescope",
		Field:  Vec3Cfg{Z: 1},
		Planes: planes,
		EntryZ: -50,
		ExitZ:  150,
		Tracks: []TrackCfg{
			{Origin: Vec3Cfg{}, Direction: Vec3Cfg{Z: 1}},
			{Origin: Vec3Cfg{}, Direction: Vec3Cfg{X: 1, Z: 1}, Charge: -1, Momentum: 10},
		},
		PathLimit: 2000,
	}
}

// loadScenario reads a scenario file and fills unset fields other than
// the magnetic field from the defaults.
func loadScenario(path string) (*ScenarioCfg, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	cfg := &ScenarioCfg{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	def := defaultScenario()
	if cfg.Name == "" {
		cfg.Name = def.Name
	}
	if len(cfg.Planes) == 0 {
		cfg.Planes = def.Planes
	}
	if cfg.EntryZ == 0 && cfg.ExitZ == 0 {
		cfg.EntryZ, cfg.ExitZ = def.EntryZ, def.ExitZ
	}
	if len(cfg.Tracks) == 0 {
		cfg.Tracks = def.Tracks
	}
	if cfg.PathLimit == 0 {
		cfg.PathLimit = def.PathLimit
	}
	return cfg, nil
}

// Build assembles the single-volume plane telescope this scenario
// describes into a geometry store.
func (c *ScenarioCfg) Build() (*trknav.Detector, error) {
	if c.ExitZ <= c.EntryZ {
		return nil, fmt.Errorf("exitZ %v must be above entryZ %v", c.ExitZ, c.EntryZ)
	}
	for _, p := range c.Planes {
		if p.Z <= c.EntryZ || p.Z >= c.ExitZ {
			return nil, fmt.Errorf("plane at z=%v lies outside the volume (%v, %v)", p.Z, c.EntryZ, c.ExitZ)
		}
	}

	det := trknav.NewDetector()
	identity := [9]trknav.Real{1, 0, 0, 0, 1, 0, 0, 0, 1}

	addPlane := func(kind trknav.SurfaceKind, local uint32, z, halfX, halfY trknav.Real, link uint32) {
		tIdx := det.AddTransform(trknav.NewTransform3(trknav.Point3{Z: z}, identity))
		mIdx := det.AddMask(trknav.NewRectangleMask(halfX, halfY, link))
		det.AddSurface(trknav.SurfaceDescriptor{
			Barcode:        trknav.NewBarcode(0, kind, local, tIdx, 0),
			TransformIndex: tIdx, MaskIndex: mIdx, MaterialIndex: trknav.InvalidVolumeLink,
		})
	}

	addPlane(trknav.SurfacePortal, 0, c.EntryZ, defaultPlaneHalfExtent, defaultPlaneHalfExtent, trknav.InvalidVolumeLink)
	addPlane(trknav.SurfacePortal, 1, c.ExitZ, defaultPlaneHalfExtent, defaultPlaneHalfExtent, trknav.InvalidVolumeLink)

	for i, p := range c.Planes {
		halfX, halfY := p.HalfX, p.HalfY
		if halfX == 0 {
			halfX = defaultPlaneHalfExtent
		}
		if halfY == 0 {
			halfY = defaultPlaneHalfExtent
		}
		addPlane(trknav.SurfaceSensitive, uint32(i), p.Z, halfX, halfY, 0)
	}

	nPlanes := uint32(len(c.Planes))
	det.AddVolume(trknav.Volume{
		TransformIndex: 0,
		Portals:        trknav.SurfaceRange{Begin: 0, End: 2},
		Sensitives:     trknav.SurfaceRange{Begin: 2, End: 2 + nPlanes},
		Passives:       trknav.SurfaceRange{Begin: 2 + nPlanes, End: 2 + nPlanes},
		Accel:          trknav.AccelBruteForce,
	})
	return det, nil
}

// trajectory builds the track's path model: a helix when the track is
// charged, carries momentum and the scenario has a field, a straight ray
// otherwise.
func (t TrackCfg) trajectory(field trknav.Vector3) trknav.Trajectory {
	if t.Momentum > 0 && t.Charge != 0 && field != (trknav.Vector3{}) {
		return trknav.NewHelix(t.Origin.point(), t.Direction.vector(), t.Charge, t.Momentum, field)
	}
	return trknav.NewRay(t.Origin.point(), t.Direction.vector())
}
