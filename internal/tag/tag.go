package tag

// Tag is a named, typed, access-controlled accessor to one Function field.
//
// Tags are created by their Function and live exactly as long as it does.
// Name, Access, Usage and the Value binding are fixed at construction.
type Tag struct {
	Name    string
	Label   string
	Comment string
	Unit    string
	Access  Access
	Usage   Usage
	Value   Value

	// Display overrides the schema type (e.g. a UInt32 rendered as Time).
	// Zero means the Value's own type.
	Display Type

	// On and Off are the UI labels of a Bool.
	On  string
	Off string

	// OnSet runs after every successful Set.
	OnSet func()
}

// Option configures optional Tag metadata.
type Option func(*Tag)

// WithUnit sets the display unit.
func WithUnit(unit string) Option {
	return func(t *Tag) { t.Unit = unit }
}

// WithOnSet installs a callback run after each successful Set.
func WithOnSet(fn func()) Option {
	return func(t *Tag) { t.OnSet = fn }
}

// WithLabels sets the on/off labels of a Bool.
func WithLabels(on, off string) Option {
	return func(t *Tag) {
		t.On = on
		t.Off = off
	}
}

// WithDisplay overrides the schema type code.
func WithDisplay(typ Type) Option {
	return func(t *Tag) { t.Display = typ }
}

// New creates a Tag bound to v.
//
// Parameters:
//   - name: Unique name within the owning Function
//   - label: Human-readable text for the UI
//   - comment: Optional help text
//   - access: Permission flags
//   - usage: Data, Config or Cmd classification
//   - v: Binding to the Function-owned field
//   - opts: Optional unit, callback, labels, display type
//
// Returns:
//   - *Tag: The configured Tag
func New(name, label, comment string, access Access, usage Usage, v Value, opts ...Option) *Tag {
	t := &Tag{
		Name:    name,
		Label:   label,
		Comment: comment,
		Access:  access,
		Usage:   usage,
		Value:   v,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Type returns the schema type code.
func (t *Tag) Type() Type {
	if t.Display != 0 {
		return t.Display
	}
	return t.Value.kind()
}

// ReadOnly reports whether the Tag lacks the Write bit.
func (t *Tag) ReadOnly() bool {
	return t.Access&Write == 0
}

// CanGet reports whether mask may read the Tag.
func (t *Tag) CanGet(mask Access) bool {
	return (t.Access&^Write)&mask != 0
}

// CanSet reports whether mask may write the Tag.
func (t *Tag) CanSet(mask Access) bool {
	return (t.Access&^Read)&mask != 0
}

// Get returns the current field value in its serialized form.
// It returns false if mask lacks the right to read the Tag.
func (t *Tag) Get(mask Access) (any, bool) {
	if !t.CanGet(mask) {
		return nil, false
	}
	return t.Value.get(), true
}

// Set converts in to the field type and stores it.
// It returns false, leaving the field unchanged, if mask lacks the right
// to write the Tag or in cannot be converted. OnSet runs only on success.
func (t *Tag) Set(in any, mask Access) bool {
	if !t.CanSet(mask) {
		return false
	}
	if !t.Value.set(in) {
		return false
	}
	if t.OnSet != nil {
		t.OnSet()
	}
	return true
}

// AddToSnapshot stores name → value in m when mask may read the Tag.
func (t *Tag) AddToSnapshot(m map[string]any, mask Access) bool {
	v, ok := t.Get(mask)
	if !ok {
		return false
	}
	m[t.Name] = v
	return true
}
