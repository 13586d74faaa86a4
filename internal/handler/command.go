package handler

import "fmt"

// Command is a lifecycle command accepted by Patch.
type Command string

const (
	CmdInit       Command = "init"
	CmdReinit     Command = "reinit"
	CmdDelete     Command = "delete"
	CmdSaveValues Command = "savevalues"
	CmdLoadValues Command = "loadvalues"
	CmdSaveConfig Command = "saveconfig"
)

// Commands lists every command in the order they are documented.
var Commands = []Command{CmdSaveConfig, CmdSaveValues, CmdLoadValues, CmdInit, CmdReinit, CmdDelete}

// ParseCommand validates s.
func ParseCommand(s string) (Command, error) {
	for _, c := range Commands {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCommand, s)
}
