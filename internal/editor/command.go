package editor

import "fmt"

// Command is a named key command, the way key bindings resolve keystrokes.
type Command string

const (
	CmdSplitBlock    Command = "split-block"
	CmdBackspace     Command = "backspace"
	CmdDelete        Command = "delete"
	CmdUndo          Command = "undo"
	CmdRedo          Command = "redo"
	CmdMoveLeft      Command = "move-left"
	CmdMoveRight     Command = "move-right"
	CmdMoveUp        Command = "move-up"
	CmdMoveDown      Command = "move-down"
	CmdHome          Command = "home"
	CmdEnd           Command = "end"
	CmdBold          Command = "bold"
	CmdItalic        Command = "italic"
	CmdCode          Command = "code"
	CmdStrikethrough Command = "strikethrough"
)

var commands = []Command{
	CmdSplitBlock, CmdBackspace, CmdDelete, CmdUndo, CmdRedo,
	CmdMoveLeft, CmdMoveRight, CmdMoveUp, CmdMoveDown, CmdHome, CmdEnd,
	CmdBold, CmdItalic, CmdCode, CmdStrikethrough,
}

// Commands lists every supported command.
func Commands() []Command {
	return append([]Command(nil), commands...)
}

// ParseCommand resolves a command name. "enter" and "return" are accepted
// as aliases for split-block, "left"/"right"/"up"/"down" for the moves.
func ParseCommand(name string) (Command, error) {
	switch name {
	case "enter", "return":
		return CmdSplitBlock, nil
	case "left":
		return CmdMoveLeft, nil
	case "right":
		return CmdMoveRight, nil
	case "up":
		return CmdMoveUp, nil
	case "down":
		return CmdMoveDown, nil
	}
	for _, c := range commands {
		if string(c) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown key command %q", name)
}
