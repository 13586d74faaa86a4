package handler

import (
	"github.com/nerrad567/gray-logic-node/internal/function"
	"github.com/nerrad567/gray-logic-node/internal/tag"
)

// LinkType selects how a Link moves values.
type LinkType uint8

const (
	LinkNone LinkType = iota
	// LinkDirect copies the first input to every output.
	LinkDirect
)

// linkTypes maps setup names to link types.
var linkTypes = map[string]LinkType{
	"direct": LinkDirect,
}

// Endpoint addresses one Tag in the live graph by position.
type Endpoint struct {
	Func int
	Tag  int
}

// Link is a directed value-copy edge evaluated once per tick.
type Link struct {
	Type    LinkType
	Inputs  []Endpoint
	Outputs []Endpoint
}

// apply runs l against fns. Reads use the web read mask and writes the
// web write mask, so a link can only move what a client could.
func (l *Link) apply(fns []function.Function) {
	switch l.Type {
	case LinkDirect:
		if len(l.Inputs) == 0 || len(l.Outputs) == 0 {
			return
		}
		in := l.Inputs[0]
		v, ok := function.GetTag(fns[in.Func], in.Tag, tag.Read)
		if !ok {
			return
		}
		for _, out := range l.Outputs {
			function.SetTag(fns[out.Func], out.Tag, v, tag.Write)
		}
	case LinkNone:
	}
}
