package value

import (
	"testing"

	"github.com/nerrad567/gray-logic-node/internal/function"
	"github.com/nerrad567/gray-logic-node/internal/tag"
)

func TestAnalog(t *testing.T) {
	s := function.NewSetup(map[string]any{"name": "target", "unit": "°C"})
	f, err := New(s, function.Env{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if s.Log()["done"] != "target(Unit: °C)" {
		t.Errorf("log = %v", s.Log())
	}

	if !function.SetTag(f, 0, "21.5", tag.Write) {
		t.Fatal("set failed")
	}
	if got := function.ValuesByUsage(f, tag.Data, tag.Save)["Value"]; got != float32(21.5) {
		t.Errorf("saved value = %v", got)
	}
	if f.Tags()[0].Unit != "°C" {
		t.Errorf("unit = %q", f.Tags()[0].Unit)
	}
}

func TestAnalogRequiresUnit(t *testing.T) {
	if _, err := New(function.NewSetup(map[string]any{"name": "x"}), function.Env{}); err == nil {
		t.Error("New() without unit succeeded")
	}
}

func TestDigital(t *testing.T) {
	s := function.NewSetup(map[string]any{"name": "pump"})
	f, err := NewDigital(s, function.Env{})
	if err != nil {
		t.Fatalf("NewDigital() error = %v", err)
	}
	if s.Log()["done"] != "pump" {
		t.Errorf("log = %v", s.Log())
	}

	if !function.SetTag(f, 0, "on", tag.Write) {
		t.Fatal("set failed")
	}
	if got := function.ValuesByUsage(f, tag.Data, tag.Save)["Value"]; got != true {
		t.Errorf("saved value = %v", got)
	}
	if function.SetTag(f, 0, "maybe", tag.Write) {
		t.Error("set accepted a non-boolean word")
	}
	if f.(*Digital).Value != true {
		t.Error("rejected write changed the value")
	}
}

func TestDigitalRequiresName(t *testing.T) {
	if _, err := NewDigital(function.NewSetup(map[string]any{}), function.Env{}); err == nil {
		t.Error("New() without name succeeded")
	}
}
