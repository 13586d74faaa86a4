package handler

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nerrad567/gray-logic-node/internal/function"
	"github.com/nerrad567/gray-logic-node/internal/storage"
	"github.com/nerrad567/gray-logic-node/internal/tag"
)

// node is a minimal Function: Out is written by clients and saved,
// In receives link values, Ticks counts updates and is never saved.
type node struct {
	function.Base
	In     int32
	Out    int32
	Ticks  uint16
	closed bool
}

func (n *node) Update(time.Time) { n.Ticks++ }
func (n *node) Close() error     { n.closed = true; return nil }

func newNode(s *function.Setup, _ function.Env) (function.Function, error) {
	name := s.Name()
	if !s.OK() {
		return nil, function.ErrInvalidSetup
	}
	n := &node{Base: function.NewBase(name, "")}
	n.AddTags(
		tag.New("In", "In", "", tag.ReadWrite, tag.Data, tag.Int32{P: &n.In}),
		tag.New("Out", "Out", "", tag.ReadWrite|tag.Save, tag.Data, tag.Int32{P: &n.Out}),
		tag.New("Ticks", "Ticks", "", tag.Read, tag.Data, tag.UInt16{P: &n.Ticks}),
	)
	s.Done("%s created", name)
	return n, nil
}

type bus struct{ closed bool }

func (b *bus) Close() error { b.closed = true; return nil }

func newTestHandler(t *testing.T, setup string) (*Handler, storage.Store) {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	if setup != "" {
		if err := store.Write(context.Background(), DefaultFiles.Setup, []byte(setup)); err != nil {
			t.Fatalf("writing setup: %v", err)
		}
	}

	funcs := function.NewRegistry[function.Function]()
	funcs.MustRegister("node", newNode)
	hw := function.NewRegistry[any]()
	hw.MustRegister("bus", func(*function.Setup, function.Env) (any, error) { return &bus{}, nil })

	return New(store, funcs, hw, function.Env{}), store
}

func fn(t *testing.T, h *Handler, name string) *node {
	t.Helper()
	i := h.FuncIndex(name)
	if i < 0 {
		t.Fatalf("function %q not built", name)
	}
	return h.functions[i].(*node)
}

func TestInitMissingSetup(t *testing.T) {
	h, store := newTestHandler(t, "")
	if got := h.Patch(context.Background(), "init"); got != FileMissing {
		t.Fatalf("init = %v, want fileMissing", got)
	}
	if len(h.Functions()) != 0 {
		t.Error("graph not empty")
	}
	raw, err := store.Read(context.Background(), DefaultFiles.Log)
	if err != nil {
		t.Fatalf("log not written: %v", err)
	}
	var doc LogDoc
	if err := json.Unmarshal(raw, &doc); err != nil || doc.File == nil || doc.File.Name != DefaultFiles.Setup {
		t.Errorf("log = %s", raw)
	}
	if _, err := store.Read(context.Background(), DefaultFiles.Schema); !errors.Is(err, storage.ErrNotFound) {
		t.Error("schema written for missing setup")
	}
}

func TestInitJSONSyntax(t *testing.T) {
	h, _ := newTestHandler(t, `{"functions": [`)
	if got := h.Patch(context.Background(), "init"); got != JSONSyntax {
		t.Errorf("init = %v, want jsonSyntax", got)
	}
	if h.LastLog().File == nil {
		t.Error("log has no file entry")
	}
}

func TestInitEmptySetup(t *testing.T) {
	h, store := newTestHandler(t, `{"hardware": [], "functions": [], "links": []}`)
	if got := h.Patch(context.Background(), "init"); got != Done {
		t.Fatalf("init = %v, want done", got)
	}
	raw, err := store.Read(context.Background(), DefaultFiles.Schema)
	if err != nil {
		t.Fatalf("schema not written: %v", err)
	}
	if string(raw) != "{}" {
		t.Errorf("schema = %s, want {}", raw)
	}
}

func TestInitUnknownFunctionType(t *testing.T) {
	h, _ := newTestHandler(t, `{"functions": [
		{"type": "ghost", "name": "g"},
		{"type": "node", "name": "a"}
	]}`)
	if got := h.Patch(context.Background(), "init"); got != FunctionMissing {
		t.Fatalf("init = %v, want functionMissing", got)
	}
	if names := h.Functions(); len(names) != 1 || names[0] != "a" {
		t.Errorf("functions = %v", names)
	}
	if fault := h.LastLog().Functions[0]["Fault"]; fault != "Type not foundghost" {
		t.Errorf("log fault = %v", fault)
	}
}

func TestInitDuplicateFunctionName(t *testing.T) {
	h, _ := newTestHandler(t, `{"functions": [
		{"type": "node", "name": "a"},
		{"type": "node", "name": "a"}
	]}`)
	if got := h.Patch(context.Background(), "init"); got != FunctionMissing {
		t.Errorf("init = %v, want functionMissing", got)
	}
	if len(h.Functions()) != 1 {
		t.Errorf("functions = %v", h.Functions())
	}
}

func TestInitHardware(t *testing.T) {
	h, _ := newTestHandler(t, `{"hardware": [
		{"type": "bus"}, {"type": "bus"}, {"type": "spi"}
	]}`)
	if got := h.Patch(context.Background(), "init"); got != HardwareMissing {
		t.Fatalf("init = %v, want hardwareMissing", got)
	}
	if len(h.hardware) != 1 {
		t.Errorf("hardware = %v", h.hardware)
	}
	b := h.hardware["bus"].(*bus)

	if got := h.Patch(context.Background(), "delete"); got != Done {
		t.Fatalf("delete = %v", got)
	}
	if !b.closed {
		t.Error("hardware not closed on teardown")
	}
}

func TestLinkResolution(t *testing.T) {
	h, _ := newTestHandler(t, `{
		"functions": [{"type": "node", "name": "a"}, {"type": "node", "name": "b"}],
		"links": [
			{"type": "direct",
			 "from": [{"func": "missing", "tag": "Out"}, {"func": "a", "tag": "Out"}],
			 "to":   [{"func": "b", "tag": "In"}, {"func": "b", "tag": "Nope"}]}
		]}`)

	if got := h.Patch(context.Background(), "init"); got != LinkObjMissing {
		t.Fatalf("init = %v, want linkObjMissing", got)
	}
	if h.LinkCount() != 1 {
		t.Fatalf("links = %d, want 1", h.LinkCount())
	}
	l := h.links[0]
	if len(l.Inputs) != 1 || l.Inputs[0] != (Endpoint{Func: 0, Tag: 1}) {
		t.Errorf("inputs = %v", l.Inputs)
	}
	if len(l.Outputs) != 1 || l.Outputs[0] != (Endpoint{Func: 1, Tag: 0}) {
		t.Errorf("outputs = %v", l.Outputs)
	}

	log := h.LastLog().Links
	if len(log) != 1 {
		t.Fatalf("link log = %v", log)
	}
	if len(log[0].IN) != 1 || log[0].IN[0] != "FAIL: missing_Out" || log[0].OUT[0] != "FAIL: b_Nope" {
		t.Errorf("link log entry = %+v", log[0])
	}
}

func TestLinkTypeMissingOutranksObjMissing(t *testing.T) {
	h, _ := newTestHandler(t, `{
		"functions": [{"type": "node", "name": "a"}],
		"links": [
			{"type": "direct", "from": [{"func": "x", "tag": "Out"}], "to": []},
			{"type": "ring"}
		]}`)
	if got := h.Patch(context.Background(), "init"); got != LinkTypMissing {
		t.Errorf("init = %v, want linkTypMissing", got)
	}
	if log := h.LastLog().Links; len(log) != 2 || log[1].Fault != "Type not foundring" {
		t.Errorf("link log = %+v", log)
	}
}

func TestTickPropagatesWithOneTickSkew(t *testing.T) {
	h, _ := newTestHandler(t, `{
		"functions": [{"type": "node", "name": "a"}, {"type": "node", "name": "b"}],
		"links": [{"type": "direct",
			"from": [{"func": "a", "tag": "Out"}],
			"to": [{"func": "b", "tag": "In"}]}]}`)
	if got := h.Patch(context.Background(), "init"); got != Done {
		t.Fatalf("init = %v", got)
	}
	a, b := fn(t, h, "a"), fn(t, h, "b")
	now := time.Now()

	a.Out = 42
	h.Tick(now)
	if b.In != 42 {
		t.Fatalf("after tick 1 b.In = %d, want 42", b.In)
	}

	a.Out = 7
	if b.In != 42 {
		t.Fatalf("b.In changed before tick: %d", b.In)
	}
	h.Tick(now)
	if b.In != 7 {
		t.Errorf("after tick 2 b.In = %d, want 7", b.In)
	}
	if a.Ticks != 2 || b.Ticks != 2 {
		t.Errorf("ticks = %d/%d", a.Ticks, b.Ticks)
	}
}

func TestSaveLoadValues(t *testing.T) {
	setup := `{"functions": [{"type": "node", "name": "a"}]}`
	h, store := newTestHandler(t, setup)
	ctx := context.Background()
	if got := h.Patch(ctx, "init"); got != Done {
		t.Fatalf("init = %v", got)
	}
	a := fn(t, h, "a")
	a.Out = 99
	a.In = 5
	h.Tick(time.Now())

	if got := h.Patch(ctx, "savevalues"); got != Done {
		t.Fatalf("savevalues = %v", got)
	}

	// A fresh handler over the same store rebuilds an identical graph.
	h2 := New(store, h.funcs, h.hw, function.Env{})
	if got := h2.Patch(ctx, "init"); got != Done {
		t.Fatalf("second init = %v", got)
	}
	a2 := fn(t, h2, "a")
	if a2.Out != 99 {
		t.Errorf("saved tag Out = %d, want 99", a2.Out)
	}
	if a2.In != 0 || a2.Ticks != 0 {
		t.Errorf("unsaved tags restored: In=%d Ticks=%d", a2.In, a2.Ticks)
	}
}

func TestLoadValuesMalformed(t *testing.T) {
	h, store := newTestHandler(t, `{"functions": [{"type": "node", "name": "a"}]}`)
	ctx := context.Background()
	h.Patch(ctx, "init")
	fn(t, h, "a").Out = 3

	if err := store.Write(ctx, DefaultFiles.Values, []byte(`{"elements":`)); err != nil {
		t.Fatal(err)
	}
	if got := h.Patch(ctx, "loadvalues"); got != JSONSyntax {
		t.Errorf("loadvalues = %v, want jsonSyntax", got)
	}
	if fn(t, h, "a").Out != 3 || len(h.Functions()) != 1 {
		t.Error("graph changed by failed load")
	}

	if err := store.Write(ctx, DefaultFiles.Values, []byte(`{"elements":{"ghost":{"Out":1},"a":{"Nope":1,"Out":8}}}`)); err != nil {
		t.Fatal(err)
	}
	if got := h.Patch(ctx, "loadvalues"); got != Done {
		t.Errorf("loadvalues = %v, want done", got)
	}
	if fn(t, h, "a").Out != 8 {
		t.Errorf("Out = %d, want 8", fn(t, h, "a").Out)
	}
}

func TestReinitKeepsValues(t *testing.T) {
	h, _ := newTestHandler(t, `{"functions": [{"type": "node", "name": "a"}]}`)
	ctx := context.Background()
	h.Patch(ctx, "init")
	old := fn(t, h, "a")
	old.Out = 12

	if got := h.Patch(ctx, "init"); got != ModeUndef {
		t.Errorf("init on live graph = %v, want modeUndef", got)
	}
	if got := h.Patch(ctx, "reinit"); got != Done {
		t.Fatalf("reinit = %v", got)
	}
	if !old.closed {
		t.Error("old function not closed")
	}
	if fresh := fn(t, h, "a"); fresh == old || fresh.Out != 12 {
		t.Errorf("reinit result Out = %d, same instance = %v", fresh.Out, fresh == old)
	}
}

func TestReinitAfterFailedInitKeepsSavedValues(t *testing.T) {
	setup := `{"functions": [{"type": "node", "name": "a"}]}`
	h, store := newTestHandler(t, setup)
	ctx := context.Background()
	h.Patch(ctx, "init")
	fn(t, h, "a").Out = 42
	if got := h.Patch(ctx, "savevalues"); got != Done {
		t.Fatalf("savevalues = %v", got)
	}

	if err := store.Write(ctx, DefaultFiles.Setup, []byte(`{"functions": [`)); err != nil {
		t.Fatal(err)
	}
	h.Patch(ctx, "delete")
	if got := h.Patch(ctx, "init"); got != JSONSyntax {
		t.Fatalf("init on broken setup = %v, want jsonSyntax", got)
	}

	if err := store.Write(ctx, DefaultFiles.Setup, []byte(setup)); err != nil {
		t.Fatal(err)
	}
	if got := h.Patch(ctx, "reinit"); got != Done {
		t.Fatalf("reinit = %v, want done", got)
	}
	if out := fn(t, h, "a").Out; out != 42 {
		t.Errorf("Out after recovery = %d, want 42", out)
	}
	raw, err := store.Read(ctx, DefaultFiles.Values)
	if err != nil {
		t.Fatalf("reading values: %v", err)
	}
	if indexOf(raw, `"a"`) < 0 {
		t.Errorf("values file lost function a: %s", raw)
	}
}

func TestDeleteRemovesSchema(t *testing.T) {
	h, store := newTestHandler(t, `{"functions": [{"type": "node", "name": "a"}]}`)
	ctx := context.Background()
	h.Patch(ctx, "init")

	if got := h.Patch(ctx, "delete"); got != Done {
		t.Fatalf("delete = %v", got)
	}
	if len(h.Functions()) != 0 || h.LinkCount() != 0 {
		t.Error("graph not torn down")
	}
	if _, err := store.Read(ctx, DefaultFiles.Schema); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("schema still present: %v", err)
	}
	if got := h.Patch(ctx, "init"); got != Done {
		t.Errorf("init after delete = %v", got)
	}
}

func TestUnknownCommand(t *testing.T) {
	h, _ := newTestHandler(t, "")
	if got := h.Patch(context.Background(), "explode"); got != ModeUndef {
		t.Errorf("Patch(explode) = %v, want modeUndef", got)
	}
}

func TestValuesAndSetValues(t *testing.T) {
	h, _ := newTestHandler(t, `{"functions": [{"type": "node", "name": "a"}]}`)
	h.Patch(context.Background(), "init")

	n := h.SetValues(ValuesDoc{Elements: map[string]map[string]any{
		"a":     {"data": map[string]any{"Out": 4.0, "Ticks": 9.0}},
		"ghost": {"Out": 1.0},
	}}, tag.Write)
	if n != 1 {
		t.Errorf("SetValues() = %d, want 1", n)
	}

	doc := h.Values(tag.Read)
	data := doc.Elements["a"]["data"].(map[string]any)
	if data["Out"] != int32(4) || data["Ticks"] != uint16(0) {
		t.Errorf("data = %v", data)
	}
	if cfg := doc.Elements["a"]["config"].(map[string]any); len(cfg) != 0 {
		t.Errorf("config = %v", cfg)
	}
}

func TestIndexLookups(t *testing.T) {
	h, _ := newTestHandler(t, `{"functions": [{"type": "node", "name": "a"}, {"type": "node", "name": "b"}]}`)
	h.Patch(context.Background(), "init")

	tests := []struct {
		fn, tag  string
		fi, want int
	}{
		{"a", "In", 0, 0},
		{"b", "Ticks", 1, 2},
		{"b", "nope", 1, -1},
		{"zz", "In", -1, -1},
	}
	for _, tt := range tests {
		if got := h.FuncIndex(tt.fn); got != tt.fi {
			t.Errorf("FuncIndex(%q) = %d, want %d", tt.fn, got, tt.fi)
		}
		if got := h.TagIndex(tt.fn, tt.tag); got != tt.want {
			t.Errorf("TagIndex(%q,%q) = %d, want %d", tt.fn, tt.tag, got, tt.want)
		}
	}
}

func TestSchemaKeepsDeclarationOrder(t *testing.T) {
	h, _ := newTestHandler(t, `{"functions": [{"type": "node", "name": "zeta"}, {"type": "node", "name": "alpha"}]}`)
	h.Patch(context.Background(), "init")

	raw, err := h.Schema()
	if err != nil {
		t.Fatalf("Schema() error = %v", err)
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("schema is not JSON: %v", err)
	}
	if zi, ai := indexOf(raw, `"zeta"`), indexOf(raw, `"alpha"`); zi < 0 || ai < 0 || zi > ai {
		t.Errorf("schema order wrong: %s", raw)
	}
}

func indexOf(b []byte, s string) int {
	for i := 0; i+len(s) <= len(b); i++ {
		if string(b[i:i+len(s)]) == s {
			return i
		}
	}
	return -1
}

type recorder struct{ calls []string }

func (r *recorder) Record(_ context.Context, cmd, res string, _ time.Time, _ time.Duration) (string, error) {
	r.calls = append(r.calls, cmd+"="+res)
	return "id", nil
}

func TestRecorder(t *testing.T) {
	h, _ := newTestHandler(t, `{}`)
	rec := &recorder{}
	h.SetRecorder(rec)
	h.Patch(context.Background(), "init")
	h.Patch(context.Background(), "savevalues")
	if len(rec.calls) != 2 || rec.calls[0] != "init=done" || rec.calls[1] != "savevalues=done" {
		t.Errorf("recorded = %v", rec.calls)
	}
}

func TestResultOrdering(t *testing.T) {
	order := []Result{Done, LinkObjMissing, LinkTypMissing, HardwareMissing, FunctionMissing,
		FileMissing, JSONSyntax, FileOpen, ModeUndef, Failed}
	for i := 1; i < len(order); i++ {
		if Worst(order[i-1], order[i]) != order[i] || Worst(order[i], order[i-1]) != order[i] {
			t.Errorf("Worst(%v, %v) ordering wrong", order[i-1], order[i])
		}
	}
	for _, r := range order {
		got, err := ParseResult(r.String())
		if err != nil || got != r {
			t.Errorf("ParseResult(%q) = %v, %v", r.String(), got, err)
		}
	}
	if _, err := ParseResult("maybe"); !errors.Is(err, ErrUnknownResult) {
		t.Errorf("ParseResult(maybe) error = %v", err)
	}
}
