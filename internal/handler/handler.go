package handler

import (
	"context"
	"sync"
	"time"

	"github.com/nerrad567/gray-logic-node/internal/function"
	"github.com/nerrad567/gray-logic-node/internal/storage"
)

// Recorder stores the outcome of each lifecycle command.
type Recorder interface {
	Record(ctx context.Context, command, result string, started time.Time, took time.Duration) (string, error)
}

// Handler builds, runs and persists one Function graph.
//
// All public methods are thread-safe.
type Handler struct {
	mu sync.Mutex

	store    storage.Store
	files    Files
	funcs    *function.Registry[function.Function]
	hw       *function.Registry[any]
	env      function.Env
	logger   function.Logger
	recorder Recorder

	// Live graph.
	hardware  map[string]any
	functions []function.Function
	links     []Link

	lastLog LogDoc
}

// New creates a Handler with an empty graph.
//
// Parameters:
//   - store: Backend for setup, schema, values and log documents
//   - funcs: Factories for Function types
//   - hw: Factories for shared hardware types
//   - env: Board, clock and logger handed to every factory
//
// Returns:
//   - *Handler: Handler using DefaultFiles; call Patch("init") to build
func New(store storage.Store, funcs *function.Registry[function.Function], hw *function.Registry[any], env function.Env) *Handler {
	logger := env.Logger
	if logger == nil {
		logger = function.NoopLogger{}
		env.Logger = logger
	}
	// Factories see hardware through env; both share one map.
	hardware := make(map[string]any)
	env.Hardware = hardware
	return &Handler{
		store:    store,
		files:    DefaultFiles,
		funcs:    funcs,
		hw:       hw,
		env:      env,
		logger:   logger,
		hardware: hardware,
	}
}

// SetFiles overrides the document names.
func (h *Handler) SetFiles(f Files) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.files = f
}

// SetRecorder enables lifecycle history.
func (h *Handler) SetRecorder(r Recorder) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.recorder = r
}

// Patch runs one lifecycle command and returns its worst result.
// Unknown commands return ModeUndef.
func (h *Handler) Patch(ctx context.Context, cmd string) Result {
	h.mu.Lock()
	defer h.mu.Unlock()

	started := time.Now()
	res := ModeUndef
	if c, err := ParseCommand(cmd); err != nil {
		h.logger.Warn("rejected lifecycle command", "error", err)
	} else {
		res = h.patch(ctx, c)
	}
	took := time.Since(started)

	h.logger.Info("lifecycle command finished", "command", cmd, "result", res.String(), "duration", took)

	if h.recorder != nil {
		if _, err := h.recorder.Record(ctx, cmd, res.String(), started, took); err != nil {
			h.logger.Warn("recording lifecycle command failed", "command", cmd, "error", err)
		}
	}
	return res
}

func (h *Handler) patch(ctx context.Context, cmd Command) Result {
	switch cmd {
	case CmdInit:
		if !h.empty() {
			return ModeUndef
		}
		res := h.setup(ctx)
		h.loadValues(ctx)
		return res

	case CmdReinit:
		// An empty graph (failed init, delete) has nothing to save and
		// must not overwrite the values kept from the last good one.
		if !h.empty() {
			if r := h.saveValues(ctx); r != Done {
				h.logger.Warn("saving values before rebuild failed", "result", r.String())
			}
		}
		h.teardown()
		res := h.setup(ctx)
		h.loadValues(ctx)
		return res

	case CmdDelete:
		h.teardown()
		if err := h.store.Remove(ctx, h.files.Schema); err != nil {
			h.logger.Error("removing schema file failed", "file", h.files.Schema, "error", err)
			return FileOpen
		}
		return Done

	case CmdSaveValues:
		return h.saveValues(ctx)

	case CmdLoadValues:
		return h.loadValues(ctx)

	case CmdSaveConfig:
		return Worst(h.saveSchema(ctx), h.saveValues(ctx))

	default:
		return ModeUndef
	}
}

func (h *Handler) empty() bool {
	return len(h.functions) == 0 && len(h.links) == 0 && len(h.hardware) == 0
}

// teardown destroys Links, then Functions, then shared hardware.
func (h *Handler) teardown() {
	h.links = nil
	for _, f := range h.functions {
		closeValue(f, h.logger)
	}
	h.functions = nil
	for typ, hw := range h.hardware {
		closeValue(hw, h.logger)
		delete(h.hardware, typ)
	}
}

func closeValue(v any, logger function.Logger) {
	c, ok := v.(function.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		logger.Warn("closing graph element failed", "error", err)
	}
}

// Tick applies every Link, then updates every Function, both in
// declaration order.
func (h *Handler) Tick(now time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i := range h.links {
		h.links[i].apply(h.functions)
	}
	for _, f := range h.functions {
		f.Update(now)
	}
}

// FuncIndex returns the position of the first Function called name, or -1.
func (h *Handler) FuncIndex(name string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.funcIndex(name)
}

func (h *Handler) funcIndex(name string) int {
	for i, f := range h.functions {
		if f.Name() == name {
			return i
		}
	}
	return -1
}

// TagIndex returns the position of tagName inside the named Function,
// or -1 when either is unknown.
func (h *Handler) TagIndex(funcName, tagName string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	i := h.funcIndex(funcName)
	if i < 0 {
		return -1
	}
	return function.TagIndex(h.functions[i], tagName)
}

// Functions returns the live Function names in declaration order.
func (h *Handler) Functions() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	names := make([]string, len(h.functions))
	for i, f := range h.functions {
		names[i] = f.Name()
	}
	return names
}

// LinkCount returns the number of live Links.
func (h *Handler) LinkCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.links)
}

// LastLog returns the log document of the latest build.
func (h *Handler) LastLog() LogDoc {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastLog
}
