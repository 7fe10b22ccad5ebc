package scaffold

import (
	"fmt"
	"strings"
)

// Command is a recognized invocation.
type Command int

const (
	CommandUnknown Command = iota
	CommandFix
	CommandBuildCLI
	CommandInit
)

func (c Command) String() string {
	switch c {
	case CommandFix:
		return "fix"
	case CommandBuildCLI:
		return "build cli"
	case CommandInit:
		return "init"
	default:
		return "unknown"
	}
}

// UnknownCommandError reports an argument vector that names no command.
type UnknownCommandError struct {
	Args []string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("command not found: `%s`", strings.Join(e.Args, " "))
}

func (e *UnknownCommandError) Kind() string { return "unknown_command" }

func (e *UnknownCommandError) Detail() any {
	args := e.Args
	if args == nil {
		args = []string{}
	}
	return map[string][]string{"args": args}
}

// Interpret maps an argument vector onto a command. The match is exact:
// trailing arguments make the vector unknown.
func Interpret(args []string) (Command, error) {
	switch strings.Join(args, "\x00") {
	case "fix":
		return CommandFix, nil
	case "build\x00cli":
		return CommandBuildCLI, nil
	case "init":
		return CommandInit, nil
	}
	return CommandUnknown, &UnknownCommandError{Args: args}
}
