package entities

import "fmt"

// Tag classifies a foreign handle: the provider group that issued it and the
// kind of native object behind it.
type Tag struct {
	Group Group
	Kind  string
}

// String returns the tag in "group/kind" format.
func (t Tag) String() string {
	return t.Group.String() + "/" + t.Kind
}

// Tags of the native objects the built-in providers hand out.
var (
	TagDatabase     = Tag{Group: GroupStorage, Kind: "sqlite3"}
	TagStatement    = Tag{Group: GroupStorage, Kind: "sqlite3_stmt"}
	TagTerminal     = Tag{Group: GroupTerminal, Kind: "vterm"}
	TagAsyncContext = Tag{Group: GroupAsyncIO, Kind: "io_context"}
	TagTimer        = Tag{Group: GroupAsyncIO, Kind: "steady_timer"}
)

// Handle is an opaque reference to a native object. Scripts only ever hold a
// Handle, never the object itself; the object is resolved through the handle
// table that issued it.
type Handle struct {
	Tag Tag
	ID  uint64
}

// String returns a printable representation such as "storage/sqlite3#3".
func (h *Handle) String() string {
	if h == nil {
		return "<nil handle>"
	}
	return fmt.Sprintf("%s#%d", h.Tag, h.ID)
}
