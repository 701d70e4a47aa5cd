// Package odom estimates the pose of a differential-drive robot by dead
// reckoning over any number of tracking wheels and inertial sensors.
//
// Responsibilities: per-wheel delta accumulation with offset correction,
// chord-to-arc fusion of local displacement into the global frame, the
// calibration ladder that selects trustworthy sensors and a heading
// source, and the background update loop with a synchronized pose store.
//
// Sensor drivers are out of scope; the package consumes the capability
// interfaces in internal/hardware and holds non-owning references whose
// lifetime the caller must guarantee.
package odom
