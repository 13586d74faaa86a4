// Package function defines the Function contract, the shared Base
// implementation, setup-record parsing and the type registries used to
// build Functions and shared hardware from JSON.
//
// A Function is a named unit of behaviour owning an ordered list of
// Tags. The handler builds Functions from setup records through a
// Registry, exposes their Tags by name, and calls Update once per tick.
//
// # Contract
//
//   - Constructors fully initialise every Tag before returning.
//   - Update must not block; waiting is elapsed-time comparison between ticks.
//   - State shared with interrupt callbacks lives in a guard.Cell and is
//     only snapshotted from Update.
//
// # Registries
//
// Registry maps a setup "type" string to a Factory. Factories read
// their parameters through Setup, which records every missing or
// mistyped key in the per-entry log document:
//
//	funcs := function.NewRegistry[function.Function]()
//	funcs.Register("digitalOut", digitalout.New)
//	res, err := funcs.Build(function.NewSetup(record), env)
package function
