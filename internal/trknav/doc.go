// Package trknav implements a detector-navigation state machine and a
// closed-form/iterative ray and helix intersection kernel for particle
// track reconstruction: volumes linked by portals, masks bounding
// sensitive and passive surfaces, grid and brute-force acceleration, and
// the trust-level protocol a stepper and actor chain drive a track
// through.
package trknav
