package hostfuncs

import (
	"context"

	"github.com/ninesh-dev/ninesh/domain/entities"
	"github.com/ninesh-dev/ninesh/internal/fsprobe"
)

// FilesystemBundle returns is_slow_mount.
func FilesystemBundle(p Providers) Bundle {
	opts := []fsprobe.Option{
		fsprobe.WithExtraSlowTypes(p.SlowFilesystems...),
		fsprobe.WithLogger(p.logger()),
	}
	if p.Mounts != nil {
		opts = append(opts, fsprobe.WithMountSource(p.Mounts))
	}
	c := fsprobe.NewClassifier(opts...)

	return staticBundle{
		{
			Name:   "is_slow_mount",
			Group:  entities.GroupFilesystem,
			Params: []Param{{Name: "path", Kind: KindString}},
			Fn: func(_ context.Context, args Args) ([]Value, error) {
				return []Value{c.IsSlow(args.String(0))}, nil
			},
		},
	}
}
