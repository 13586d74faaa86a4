package handler

import "fmt"

// Result is the outcome of a lifecycle command. Higher is better; a
// pass reports the lowest value it saw.
type Result int8

const (
	Done            Result = 127
	LinkObjMissing  Result = 35
	LinkTypMissing  Result = 30
	HardwareMissing Result = 20
	FunctionMissing Result = 10
	FileMissing     Result = -1
	JSONSyntax      Result = -2
	FileOpen        Result = -3
	ModeUndef       Result = -4
	Failed          Result = -99
)

var resultNames = map[Result]string{
	Done:            "done",
	LinkObjMissing:  "linkObjMissing",
	LinkTypMissing:  "linkTypMissing",
	HardwareMissing: "hardwareMissing",
	FunctionMissing: "functionMissing",
	FileMissing:     "fileMissing",
	JSONSyntax:      "jsonSyntax",
	FileOpen:        "fileOpen",
	ModeUndef:       "modeUndef",
	Failed:          "failed",
}

// String returns the wire name of r.
func (r Result) String() string {
	if name, ok := resultNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Result(%d)", int8(r))
}

// OK reports whether r is Done.
func (r Result) OK() bool { return r == Done }

// Worst returns the worse of a and b.
func Worst(a, b Result) Result {
	if b < a {
		return b
	}
	return a
}

// ParseResult maps a wire name back to its Result.
func ParseResult(s string) (Result, error) {
	for r, name := range resultNames {
		if name == s {
			return r, nil
		}
	}
	return Failed, fmt.Errorf("%w: %q", ErrUnknownResult, s)
}

// MarshalText implements encoding.TextMarshaler.
func (r Result) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Result) UnmarshalText(b []byte) error {
	v, err := ParseResult(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}
