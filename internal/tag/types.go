package tag

// Access is the permission set of a Tag. The same bits form the
// requester mask passed to Get and Set.
type Access uint8

const (
	Read  Access = 0x01
	Write Access = 0x02
	Save  Access = 0x04

	ReadWrite = Read | Write
)

// Usage classifies a Tag for the UI and for value snapshots.
type Usage uint8

const (
	Data   Usage = 0x01
	Config Usage = 0x02
	Cmd    Usage = 0x04

	// WebData selects the Tags shown on the data page.
	WebData = Data | Cmd
	// WebConfig selects the Tags shown on the configuration page.
	WebConfig = Config
)

// Type is the schema type code understood by the web UI.
type Type uint8

const (
	TypeBool       Type = 1
	TypeFloat      Type = 2
	TypeInt8       Type = 3
	TypeUInt8      Type = 4
	TypeInt16      Type = 5
	TypeUInt16     Type = 6
	TypeInt32      Type = 7
	TypeUInt32     Type = 8
	TypeString     Type = 9
	TypeTime       Type = 51
	TypeDateTime   Type = 52
	TypeColor      Type = 53
	TypeBoolCmd    Type = 54
	TypeDaySelect  Type = 55
	TypeListUInt8  Type = 101
	TypeArrayUInt8 Type = 102
)

var typeNames = map[Type]string{
	TypeBool:       "bool",
	TypeFloat:      "float",
	TypeInt8:       "int8",
	TypeUInt8:      "uint8",
	TypeInt16:      "int16",
	TypeUInt16:     "uint16",
	TypeInt32:      "int32",
	TypeUInt32:     "uint32",
	TypeString:     "string",
	TypeTime:       "time",
	TypeDateTime:   "datetime",
	TypeColor:      "color",
	TypeBoolCmd:    "boolcmd",
	TypeDaySelect:  "dayselect",
	TypeListUInt8:  "list",
	TypeArrayUInt8: "array",
}

// String returns a lowercase name for the type code.
func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "unknown"
}
