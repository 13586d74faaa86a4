// Package tag implements the typed, access-controlled value cells that
// Functions expose to the outside world.
//
// A Tag binds a name and UI metadata to one field owned by its Function.
// The binding is a Value: a closed set of variants (Bool, Float, Int8 …
// UInt32, String, Bytes, Enum), each holding a pointer into the owning
// Function's state. Tags never copy the field; reads and writes go
// through the pointer, so the Function sees external writes on its next
// update and external readers see the Function's latest state.
//
// # Access Control
//
// Every Tag carries Access flags (Read, Write, Save). Callers pass a
// requester mask built from the same bits:
//
//   - Get succeeds when the Tag's access, ignoring Write, shares a bit with the mask.
//   - Set succeeds when the Tag's access, ignoring Read, shares a bit with the mask.
//
// The web UI reads with Read and writes with Write; persistence reads and
// writes with Save, so read-only state never leaks into the values file
// and values files can restore Tags the UI cannot edit.
//
// # Failure Model
//
// Get and Set report failure with a boolean. A failed Set leaves the
// field untouched and does not invoke the Tag's OnSet callback.
//
// # Usage
//
//	var level float32
//	t := tag.New("Level", "Fill level", "", tag.Read, tag.Data,
//	    tag.Float{P: &level}, tag.WithUnit("%"))
//	v, ok := t.Get(tag.Read)
package tag
