// Package acdimmer implements the phase-cut AC dimmer Function.
//
// One zero-cross input drives any number of TRIAC outputs. Each output
// has a 0–100 % command; the Function turns it into a turn-on delay
// measured from the zero crossing, and two interrupt callbacks switch
// the outputs:
//
//	zero-cross edge ──▶ stamp crossing, re-arm timer, reset outputs
//	timer (Period/100) ──▶ per output: off | full on | on once delay elapsed
//
// # Calibration
//
// The mains half period and the width of the detector pulse are not
// configured but measured. After the first rising edge the Function
// averages 100 pulse samples, decides which edge starts the pulse and
// only then starts dimming:
//
//	Uncalibrated ──first edge──▶ Calibrating ──100 samples──▶ Calibrated
//
// If the zero-cross input never toggles the Function stays in
// Calibrating and every output stays off. The State Tag shows where it
// is.
//
// # Interrupt Discipline
//
// Everything the interrupt callbacks touch lives in one guard.Cell.
// Callbacks hold it only while comparing integers and writing pins; the
// floating point delay computation runs in Calc, outside interrupt
// context, and publishes its result with a single short Do.
package acdimmer
