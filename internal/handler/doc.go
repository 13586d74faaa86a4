// Package handler owns the node's live Function graph.
//
// A Handler builds hardware, Functions and Links from the setup
// document, runs the per-tick update, and persists schema and values
// through a storage.Store. Lifecycle commands arrive as strings
// ("init", "reinit", "delete", "savevalues", "loadvalues", "saveconfig")
// and return a Result code naming the worst outcome seen.
//
// # Build stages
//
// Setup runs in three stages, each consuming the name table of the one
// before it:
//
//  1. hardware: one instance per hardware type
//  2. functions: built in declaration order, names must be unique
//  3. links: every (func, tag) endpoint resolved by name
//
// Entries that fail are skipped and logged; the rest of the graph is
// still built. A structured log document is written on every build.
//
// # Tick
//
// Links are applied before Functions are updated, so a consumer sees
// the producer's value from the previous tick.
//
// # Thread Safety
//
// All methods are safe for concurrent use. A single mutex serializes
// commands, ticks and value access.
package handler
