package function

import "github.com/nerrad567/gray-logic-node/internal/tag"

// TagIndex returns the position of the first Tag called name, or -1.
func TagIndex(f Function, name string) int {
	for i, t := range f.Tags() {
		if t.Name == name {
			return i
		}
	}
	return -1
}

// GetTag reads the Tag at index i. Out-of-range indexes fail.
func GetTag(f Function, i int, mask tag.Access) (any, bool) {
	tags := f.Tags()
	if i < 0 || i >= len(tags) {
		return nil, false
	}
	return tags[i].Get(mask)
}

// SetTag writes the Tag at index i. Out-of-range indexes fail.
func SetTag(f Function, i int, v any, mask tag.Access) bool {
	tags := f.Tags()
	if i < 0 || i >= len(tags) {
		return false
	}
	return tags[i].Set(v, mask)
}

// SetValues applies name → value pairs. Unknown names and rejected
// values are skipped. It returns the number of Tags written.
//
// A write may rebuild the Tag list (a count change), so names that are
// not found yet are retried until a pass resolves none of them.
func SetValues(f Function, values map[string]any, mask tag.Access) int {
	pending := make(map[string]any, len(values))
	for name, v := range values {
		pending[name] = v
	}
	n := 0
	for {
		resolved := false
		for name, v := range pending {
			i := TagIndex(f, name)
			if i < 0 {
				continue
			}
			resolved = true
			delete(pending, name)
			if SetTag(f, i, v, mask) {
				n++
			}
		}
		if !resolved || len(pending) == 0 {
			return n
		}
	}
}

// AddValues stores every Tag readable by mask into m.
func AddValues(f Function, m map[string]any, mask tag.Access) {
	for _, t := range f.Tags() {
		t.AddToSnapshot(m, mask)
	}
}

// ValuesByUsage returns the readable Tags whose usage intersects usage.
func ValuesByUsage(f Function, usage tag.Usage, mask tag.Access) map[string]any {
	m := make(map[string]any)
	for _, t := range f.Tags() {
		if t.Usage&usage != 0 {
			t.AddToSnapshot(m, mask)
		}
	}
	return m
}

// Schema is the UI description of one Function.
type Schema struct {
	Comment string       `json:"comment,omitempty"`
	Config  []tag.Schema `json:"config,omitempty"`
	Data    []tag.Schema `json:"data,omitempty"`
}

// WriteSchema describes f: its comment, then Config Tags, then Data and
// Cmd Tags, each in declaration order.
func WriteSchema(f Function) Schema {
	s := Schema{Comment: f.Comment()}
	for _, t := range f.Tags() {
		if t.Usage&tag.WebConfig != 0 {
			s.Config = append(s.Config, t.Schema())
		}
		if t.Usage&tag.WebData != 0 {
			s.Data = append(s.Data, t.Schema())
		}
	}
	return s
}
