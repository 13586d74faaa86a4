package function

import (
	"fmt"
	"math"
)

// Log messages recorded against a setup key.
const (
	msgMissing   = "missing"
	msgWrongType = "wrong datatype or missing"
)

// Setup wraps one setup record ({"type":..,"name":..,...}) and collects
// a per-entry log while a factory reads it.
//
// Every accessor returns the zero value and marks the record failed when
// the key is absent or has the wrong shape; the factory checks OK once
// after reading all keys, so a single pass reports every problem.
type Setup struct {
	raw    map[string]any
	log    map[string]any
	failed bool
}

// NewSetup wraps a decoded setup record.
func NewSetup(raw map[string]any) *Setup {
	if raw == nil {
		raw = map[string]any{}
	}
	return &Setup{raw: raw, log: map[string]any{}}
}

// Type returns the record's "type" key, or "" when absent.
func (s *Setup) Type() string {
	t, _ := s.raw["type"].(string)
	return t
}

// OK reports whether every accessor so far found its key.
func (s *Setup) OK() bool { return !s.failed }

// Log returns the entry log collected so far.
func (s *Setup) Log() map[string]any { return s.log }

// Done records the success message of the entry.
func (s *Setup) Done(format string, args ...any) {
	s.log["done"] = fmt.Sprintf(format, args...)
}

func (s *Setup) fail(key, msg string) {
	s.log[key] = msg
	s.failed = true
}

// Name returns the mandatory "name" key.
func (s *Setup) Name() string {
	return s.String("name")
}

// String returns a key of any scalar shape as a string.
func (s *Setup) String(key string) string {
	v, ok := s.raw[key]
	if !ok || v == nil {
		s.fail(key, msgMissing)
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return fmt.Sprint(x)
	case bool:
		return fmt.Sprint(x)
	default:
		s.fail(key, msgWrongType)
		return ""
	}
}

// OptionalString returns key as a string, or def when absent.
func (s *Setup) OptionalString(key, def string) string {
	if _, ok := s.raw[key]; !ok {
		return def
	}
	return s.String(key)
}

func (s *Setup) integer(key string, max float64) float64 {
	f, ok := s.raw[key].(float64)
	if !ok || f != math.Trunc(f) || f < 0 || f > max {
		s.fail(key, msgWrongType)
		return 0
	}
	return f
}

// UInt8 returns an integer key in 0..255.
func (s *Setup) UInt8(key string) uint8 {
	return uint8(s.integer(key, math.MaxUint8))
}

// OptionalUInt8 returns key as a UInt8, or def when absent.
func (s *Setup) OptionalUInt8(key string, def uint8) uint8 {
	if _, ok := s.raw[key]; !ok {
		return def
	}
	return s.UInt8(key)
}

// UInt16 returns an integer key in 0..65535.
func (s *Setup) UInt16(key string) uint16 {
	return uint16(s.integer(key, math.MaxUint16))
}

// UInt8Slice returns an array key whose elements are all in 0..255.
func (s *Setup) UInt8Slice(key string) []uint8 {
	arr, ok := s.raw[key].([]any)
	if !ok {
		s.fail(key, msgWrongType)
		return nil
	}
	out := make([]uint8, 0, len(arr))
	for _, e := range arr {
		f, ok := e.(float64)
		if !ok || f != math.Trunc(f) || f < 0 || f > math.MaxUint8 {
			s.fail(key, msgWrongType)
			return nil
		}
		out = append(out, uint8(f))
	}
	return out
}

// Hardware resolves key to a shared hardware handle of type T.
func Hardware[T any](s *Setup, key string, hw map[string]any) T {
	var zero T
	name := s.String(key)
	if name == "" {
		return zero
	}
	h, ok := hw[name].(T)
	if !ok {
		s.fail(key, "hardware "+name+" not found")
		return zero
	}
	return h
}
