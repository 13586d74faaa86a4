package tag

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// toFloat converts the scalar shapes that reach a Tag (native field
// values from Links, decoded JSON, numeric strings) to float64. NaN is
// never a valid Tag input.
func toFloat(in any) (float64, bool) {
	f, ok := scalar(in)
	if !ok || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func scalar(in any) (float64, bool) {
	switch v := in.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toBool(in any) (bool, bool) {
	switch v := in.(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "on":
			return true, true
		case "false", "0", "off":
			return false, true
		}
		return false, false
	default:
		f, ok := toFloat(in)
		if !ok {
			return false, false
		}
		return f != 0, true
	}
}
