package hostfuncs

import (
	"context"

	"github.com/ninesh-dev/ninesh/domain/entities"
	"github.com/ninesh-dev/ninesh/internal/vterm"
)

// TerminalBundle returns the terminal capabilities. Terminal handles are
// tagged terminal/vterm.
func TerminalBundle(handles *HandleTable) Bundle {
	term := Param{Name: "term", Kind: KindHandle, Tag: entities.TagTerminal}
	rows := Param{Name: "rows", Kind: KindInt}
	cols := Param{Name: "cols", Kind: KindInt}

	return staticBundle{
		{
			Name: "vterm_new", Group: entities.GroupTerminal, Params: []Param{rows, cols},
			Fn: func(_ context.Context, args Args) ([]Value, error) {
				t, err := vterm.New(int(args.Int(0)), int(args.Int(1)))
				if err != nil {
					return nil, err
				}
				return []Value{handles.Put(entities.TagTerminal, t)}, nil
			},
		},
		{
			Name: "vterm_free", Group: entities.GroupTerminal, Params: []Param{term},
			Fn: func(_ context.Context, args Args) ([]Value, error) {
				obj, err := handles.Release(args.Handle(0))
				if err != nil {
					return nil, err
				}
				return nil, obj.(*vterm.Terminal).Close()
			},
		},
		{
			Name: "vterm_set_size", Group: entities.GroupTerminal, Params: []Param{term, rows, cols},
			Fn: func(_ context.Context, args Args) ([]Value, error) {
				t, err := resolve[*vterm.Terminal](handles, args.Handle(0))
				if err != nil {
					return nil, err
				}
				return nil, t.SetSize(int(args.Int(1)), int(args.Int(2)))
			},
		},
		{
			Name: "vterm_get_size", Group: entities.GroupTerminal, Params: []Param{term},
			Fn: func(_ context.Context, args Args) ([]Value, error) {
				t, err := resolve[*vterm.Terminal](handles, args.Handle(0))
				if err != nil {
					return nil, err
				}
				r, c, err := t.Size()
				if err != nil {
					return nil, err
				}
				return []Value{int64(r), int64(c)}, nil
			},
		},
	}
}
