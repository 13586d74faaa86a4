package influxdb

import (
	"sort"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement is the name every Tag value is written under.
const Measurement = "tag_value"

// WriteTagValues queues one point per numeric or boolean value in
// elements (function name → tag name → value). Non-blocking.
func (c *Client) WriteTagValues(elements map[string]map[string]any, ts time.Time) int {
	if !c.IsConnected() {
		return 0
	}
	points := Points(c.node, elements, ts)
	for _, p := range points {
		c.writeAPI.WritePoint(p)
	}
	return len(points)
}

// Points converts a value map into points, ordered by function then
// tag name.
func Points(node string, elements map[string]map[string]any, ts time.Time) []*write.Point {
	funcs := make([]string, 0, len(elements))
	for name := range elements {
		funcs = append(funcs, name)
	}
	sort.Strings(funcs)

	var points []*write.Point
	for _, fn := range funcs {
		tags := make([]string, 0, len(elements[fn]))
		for name := range elements[fn] {
			tags = append(tags, name)
		}
		sort.Strings(tags)

		for _, tg := range tags {
			v, ok := fieldValue(elements[fn][tg])
			if !ok {
				continue
			}
			points = append(points, write.NewPoint(
				Measurement,
				map[string]string{"node": node, "function": fn, "tag": tg},
				map[string]any{"value": v},
				ts,
			))
		}
	}
	return points
}

// fieldValue maps a Tag value onto a float field.
func fieldValue(v any) (float64, bool) {
	switch x := v.(type) {
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	default:
		return 0, false
	}
}
