// Package value implements valueAnalog and valueDigital, plain settable
// values that other Functions link to.
package value

import (
	"time"

	"github.com/nerrad567/gray-logic-node/internal/function"
	"github.com/nerrad567/gray-logic-node/internal/tag"
)

// Setup type names.
const (
	Type        = "valueAnalog"
	TypeDigital = "valueDigital"
)

// Analog holds one Float with a configurable unit.
type Analog struct {
	function.Base
	Value float32
}

// New builds an Analog from a setup record with "unit".
func New(s *function.Setup, _ function.Env) (function.Function, error) {
	name := s.Name()
	unit := s.String("unit")
	if !s.OK() {
		return nil, function.ErrInvalidSetup
	}
	a := &Analog{Base: function.NewBase(name, "")}
	a.AddTag(tag.New("Value", "Value", "", tag.ReadWrite|tag.Save, tag.Data, tag.Float{P: &a.Value}, tag.WithUnit(unit)))
	s.Done("%s(Unit: %s)", name, unit)
	return a, nil
}

func (a *Analog) Update(time.Time) {}

// Digital holds one Bool.
type Digital struct {
	function.Base
	Value bool
}

// NewDigital builds a Digital. The record only needs a name.
func NewDigital(s *function.Setup, _ function.Env) (function.Function, error) {
	name := s.Name()
	if !s.OK() {
		return nil, function.ErrInvalidSetup
	}
	d := &Digital{Base: function.NewBase(name, "")}
	d.AddTag(tag.New("Value", "Value", "", tag.ReadWrite|tag.Save, tag.Data, tag.Bool{P: &d.Value}))
	s.Done("%s", name)
	return d, nil
}

func (d *Digital) Update(time.Time) {}
