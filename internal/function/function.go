package function

import (
	"time"

	"github.com/nerrad567/gray-logic-node/internal/hal"
	"github.com/nerrad567/gray-logic-node/internal/tag"
)

// Function is a configured behaviour unit owning Tags, run once per tick.
type Function interface {
	Name() string
	Comment() string
	Tags() []*tag.Tag

	// Update advances the Function to now. It must not block.
	Update(now time.Time)
}

// Closer is implemented by Functions that hold interrupts or timers and
// must release them when the graph is torn down.
type Closer interface {
	Close() error
}

// Logger defines the logging interface used by registries and Functions.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NoopLogger discards everything.
type NoopLogger struct{}

func (NoopLogger) Debug(string, ...any) {}
func (NoopLogger) Info(string, ...any)  {}
func (NoopLogger) Warn(string, ...any)  {}
func (NoopLogger) Error(string, ...any) {}

// Env carries the collaborators a factory may hand to its Function.
type Env struct {
	Board  hal.Board
	Clock  hal.Clock
	Logger Logger

	// Hardware holds the shared hardware built in the first setup stage,
	// keyed by hardware type name.
	Hardware map[string]any
}

// Base implements the bookkeeping part of Function. Concrete Functions
// embed it and add their own Update.
type Base struct {
	name    string
	comment string
	tags    []*tag.Tag
}

// NewBase returns a Base with no Tags.
func NewBase(name, comment string) Base {
	return Base{name: name, comment: comment}
}

func (b *Base) Name() string           { return b.name }
func (b *Base) Comment() string        { return b.comment }
func (b *Base) Tags() []*tag.Tag       { return b.tags }
func (b *Base) AddTag(t *tag.Tag)      { b.tags = append(b.tags, t) }
func (b *Base) AddTags(ts ...*tag.Tag) { b.tags = append(b.tags, ts...) }

// TruncateTags drops every Tag after the first n. Functions whose Tag
// list depends on a config value rebuild the tail with it.
func (b *Base) TruncateTags(n int) {
	if n < len(b.tags) {
		clear(b.tags[n:])
		b.tags = b.tags[:n]
	}
}
