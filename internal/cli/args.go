package cli

import "fmt"

// Mode selects what the process does after bootstrap.
type Mode uint8

const (
	// Interactive reads lines from the terminal until end of input.
	Interactive Mode = iota
	// Eval evaluates the -e script once, fail-fast.
	Eval
	// File evaluates a script file once, fail-fast.
	File
)

// Invocation is the parsed command line.
type Invocation struct {
	Mode   Mode
	Script string // Eval
	Path   string // File
}

// UnknownArgumentError names the first argument that could not be used.
type UnknownArgumentError struct {
	Arg string
}

func (e *UnknownArgumentError) Error() string {
	return fmt.Sprintf("Unknown argument: %s", e.Arg)
}

// ParseArgs parses the arguments after the program name. The accepted forms
// are "-e <script>", a single script path, or nothing.
func ParseArgs(args []string) (Invocation, error) {
	var inv Invocation
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-e" && i+1 < len(args) && inv.Mode != File:
			i++
			inv.Mode = Eval
			inv.Script = args[i]
		case arg != "" && arg[0] != '-' && inv.Mode == Interactive:
			inv.Mode = File
			inv.Path = arg
		default:
			return Invocation{}, &UnknownArgumentError{Arg: arg}
		}
	}
	return inv, nil
}
