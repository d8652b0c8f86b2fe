package hostfuncs

import (
	"context"
	"errors"
	"io"

	"github.com/ninesh-dev/ninesh/domain/entities"
	"github.com/ninesh-dev/ninesh/domain/ports"
)

// LineEditBundle returns readline and add_history. readline returns nil at
// end of input.
func LineEditBundle(ed ports.LineEditor) Bundle {
	return staticBundle{
		{
			Name:   "readline",
			Group:  entities.GroupLineEdit,
			Params: []Param{{Name: "prompt", Kind: KindString, Optional: true}},
			Fn: func(_ context.Context, args Args) ([]Value, error) {
				if ed == nil {
					return []Value{nil}, nil
				}
				line, err := ed.ReadLine(args.String(0))
				if errors.Is(err, io.EOF) {
					return []Value{nil}, nil
				}
				if err != nil {
					return nil, err
				}
				return []Value{line}, nil
			},
		},
		{
			Name:   "add_history",
			Group:  entities.GroupLineEdit,
			Params: []Param{{Name: "line", Kind: KindString}},
			Fn: func(_ context.Context, args Args) ([]Value, error) {
				if ed == nil {
					return nil, nil
				}
				return nil, ed.AddHistory(args.String(0))
			},
		},
	}
}
