// 9sh is a skeletal shell embedding a Lua runtime with native storage, line
// editing, terminal, async I/O and filesystem capabilities.
package main

import (
	"os"

	"github.com/ninesh-dev/ninesh/internal/cli"
)

func main() {
	os.Exit(cli.Run([3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args))
}
