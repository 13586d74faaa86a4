package tag

import (
	"encoding/hex"
	"fmt"
	"math"
)

// Value is the storage binding of a Tag. The set of variants is closed:
// only types in this package implement it.
type Value interface {
	kind() Type
	get() any
	set(in any) bool
}

// Bool binds a bool field.
type Bool struct{ P *bool }

// Float binds a float32 field.
type Float struct{ P *float32 }

// Int8 binds an int8 field.
type Int8 struct{ P *int8 }

// Int16 binds an int16 field.
type Int16 struct{ P *int16 }

// Int32 binds an int32 field.
type Int32 struct{ P *int32 }

// UInt8 binds a uint8 field.
type UInt8 struct{ P *uint8 }

// UInt16 binds a uint16 field.
type UInt16 struct{ P *uint16 }

// UInt32 binds a uint32 field.
type UInt32 struct{ P *uint32 }

// String binds a string field.
type String struct{ P *string }

// Bytes binds a fixed-length byte array. P must be a slice of the
// owning Function's array; its length is N and never changes.
type Bytes struct{ P []byte }

// Enum binds a uint8 index into Labels.
type Enum struct {
	P      *uint8
	Labels []string
}

func (v Bool) kind() Type   { return TypeBool }
func (v Float) kind() Type  { return TypeFloat }
func (v Int8) kind() Type   { return TypeInt8 }
func (v Int16) kind() Type  { return TypeInt16 }
func (v Int32) kind() Type  { return TypeInt32 }
func (v UInt8) kind() Type  { return TypeUInt8 }
func (v UInt16) kind() Type { return TypeUInt16 }
func (v UInt32) kind() Type { return TypeUInt32 }
func (v String) kind() Type { return TypeString }
func (v Bytes) kind() Type  { return TypeArrayUInt8 }
func (v Enum) kind() Type   { return TypeListUInt8 }

func (v Bool) get() any   { return *v.P }
func (v Float) get() any  { return *v.P }
func (v Int8) get() any   { return *v.P }
func (v Int16) get() any  { return *v.P }
func (v Int32) get() any  { return *v.P }
func (v UInt8) get() any  { return *v.P }
func (v UInt16) get() any { return *v.P }
func (v UInt32) get() any { return *v.P }
func (v String) get() any { return *v.P }
func (v Enum) get() any   { return *v.P }

// Bytes serialize as an uppercase hex string.
func (v Bytes) get() any {
	return fmt.Sprintf("%X", v.P)
}

func (v Bool) set(in any) bool {
	b, ok := toBool(in)
	if ok {
		*v.P = b
	}
	return ok
}

func (v Float) set(in any) bool {
	f, ok := toFloat(in)
	if !ok || math.IsInf(float64(float32(f)), 0) {
		return false
	}
	*v.P = float32(f)
	return true
}

func (v Int8) set(in any) bool {
	f, ok := toFloat(in)
	if ok {
		*v.P = int8(clamp(f, math.MinInt8, math.MaxInt8))
	}
	return ok
}

func (v Int16) set(in any) bool {
	f, ok := toFloat(in)
	if ok {
		*v.P = int16(clamp(f, math.MinInt16, math.MaxInt16))
	}
	return ok
}

func (v Int32) set(in any) bool {
	f, ok := toFloat(in)
	if ok {
		*v.P = int32(clamp(f, math.MinInt32, math.MaxInt32))
	}
	return ok
}

func (v UInt8) set(in any) bool {
	f, ok := toFloat(in)
	if ok {
		*v.P = uint8(clamp(f, 0, math.MaxUint8))
	}
	return ok
}

func (v UInt16) set(in any) bool {
	f, ok := toFloat(in)
	if ok {
		*v.P = uint16(clamp(f, 0, math.MaxUint16))
	}
	return ok
}

func (v UInt32) set(in any) bool {
	f, ok := toFloat(in)
	if ok {
		*v.P = uint32(clamp(f, 0, math.MaxUint32))
	}
	return ok
}

func (v String) set(in any) bool {
	switch s := in.(type) {
	case string:
		*v.P = s
	case nil:
		return false
	case []any, map[string]any:
		return false
	default:
		*v.P = fmt.Sprint(s)
	}
	return true
}

// Bytes accept a hex string or an array of numbers holding at least N
// bytes; extra bytes are ignored.
func (v Bytes) set(in any) bool {
	n := len(v.P)
	switch s := in.(type) {
	case string:
		raw, err := hex.DecodeString(s)
		if err != nil || len(raw) < n {
			return false
		}
		copy(v.P, raw[:n])
		return true
	case []any:
		if len(s) < n {
			return false
		}
		buf := make([]byte, n)
		for i := 0; i < n; i++ {
			f, ok := toFloat(s[i])
			if !ok || f < 0 || f > math.MaxUint8 {
				return false
			}
			buf[i] = byte(f)
		}
		copy(v.P, buf)
		return true
	case []byte:
		if len(s) < n {
			return false
		}
		copy(v.P, s[:n])
		return true
	default:
		return false
	}
}

// Enum accepts a label or an index below len(Labels).
func (v Enum) set(in any) bool {
	if s, ok := in.(string); ok {
		for i, label := range v.Labels {
			if label == s {
				*v.P = uint8(i)
				return true
			}
		}
	}
	f, ok := toFloat(in)
	if !ok || f < 0 || int(f) >= len(v.Labels) {
		return false
	}
	*v.P = uint8(f)
	return true
}

// Label returns the label of the current index, or "" when out of range.
func (v Enum) Label() string {
	i := int(*v.P)
	if i < len(v.Labels) {
		return v.Labels[i]
	}
	return ""
}

func clamp(f, lo, hi float64) float64 {
	if f < lo {
		return lo
	}
	if f > hi {
		return hi
	}
	return math.Round(f)
}
