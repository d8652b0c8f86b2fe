package entities

import "fmt"

// Group identifies the native provider a capability belongs to.
type Group uint8

const (
	// GroupStorage is the embedded database engine.
	GroupStorage Group = iota + 1
	// GroupLineEdit is the interactive line editor.
	GroupLineEdit
	// GroupTerminal is the terminal library.
	GroupTerminal
	// GroupAsyncIO is the asynchronous I/O reactor.
	GroupAsyncIO
	// GroupFilesystem is filesystem introspection.
	GroupFilesystem
)

// Groups lists every provider group in registry population order.
func Groups() []Group {
	return []Group{GroupStorage, GroupLineEdit, GroupTerminal, GroupAsyncIO, GroupFilesystem}
}

// String returns the lower-case group name.
func (g Group) String() string {
	switch g {
	case GroupStorage:
		return "storage"
	case GroupLineEdit:
		return "lineedit"
	case GroupTerminal:
		return "terminal"
	case GroupAsyncIO:
		return "asyncio"
	case GroupFilesystem:
		return "filesystem"
	default:
		return fmt.Sprintf("group(%d)", uint8(g))
	}
}

// Valid reports whether g is one of the known provider groups.
func (g Group) Valid() bool {
	return g >= GroupStorage && g <= GroupFilesystem
}
