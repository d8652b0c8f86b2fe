// Package bundled carries the module sources compiled into the host: the
// language-support module, the application bindings and the boot entry
// point. Each is a Lua chunk returning the module value.
package bundled

import _ "embed"

var (
	//go:embed fennel.lua
	fennel []byte

	//go:embed bindings.lua
	bindings []byte

	//go:embed boot.lua
	boot []byte
)

// Sources returns a fresh map of module name to chunk source.
func Sources() map[string][]byte {
	return map[string][]byte{
		"fennel":   fennel,
		"bindings": bindings,
		"boot":     boot,
	}
}
