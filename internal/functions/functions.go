// Package functions registers every built-in Function type and shared
// hardware type with the registries the handler builds from.
package functions

import (
	"fmt"

	"github.com/nerrad567/gray-logic-node/internal/function"
	"github.com/nerrad567/gray-logic-node/internal/functions/acdimmer"
	"github.com/nerrad567/gray-logic-node/internal/functions/digital"
	"github.com/nerrad567/gray-logic-node/internal/functions/feeder"
	"github.com/nerrad567/gray-logic-node/internal/functions/level"
	"github.com/nerrad567/gray-logic-node/internal/functions/pid"
	"github.com/nerrad567/gray-logic-node/internal/functions/power"
	"github.com/nerrad567/gray-logic-node/internal/functions/schedule"
	"github.com/nerrad567/gray-logic-node/internal/functions/valve"
	"github.com/nerrad567/gray-logic-node/internal/functions/value"
)

// TypeI2C is the hardware type of a shared I2C bus.
const TypeI2C = "i2c"

var builtins = map[string]function.Factory[function.Function]{
	acdimmer.Type:            acdimmer.New,
	digital.TypeOut:          digital.NewOut,
	digital.TypeIn:           digital.NewIn,
	level.Type:               level.New,
	pid.Type:                 pid.New,
	schedule.TypeClockValues: schedule.NewClockValues,
	schedule.TypeDaySelect:   schedule.NewDaySelect,
	valve.Type:               valve.New,
	feeder.Type:              feeder.New,
	value.Type:               value.New,
	value.TypeDigital:        value.NewDigital,
	power.Type:               power.New,
}

// Register adds every built-in Function type to funcs and every
// hardware type to hw.
func Register(funcs *function.Registry[function.Function], hw *function.Registry[any]) error {
	for typ, f := range builtins {
		if err := funcs.Register(typ, f); err != nil {
			return err
		}
	}
	return hw.Register(TypeI2C, NewI2C)
}

// Registries returns registries with the built-ins registered.
func Registries() (*function.Registry[function.Function], *function.Registry[any]) {
	funcs := function.NewRegistry[function.Function]()
	hw := function.NewRegistry[any]()
	if err := Register(funcs, hw); err != nil {
		// Only reachable if builtins names a type twice.
		panic(err)
	}
	return funcs, hw
}

// NewI2C opens the board I2C bus named by "bus" (default 0).
func NewI2C(s *function.Setup, env function.Env) (any, error) {
	n := s.OptionalUInt8("bus", 0)
	if !s.OK() {
		return nil, function.ErrInvalidSetup
	}
	bus, err := env.Board.I2C(int(n))
	if err != nil {
		return nil, fmt.Errorf("i2c bus %d: %w", n, err)
	}
	s.Done("%s (Bus:%d)", TypeI2C, n)
	return bus, nil
}
