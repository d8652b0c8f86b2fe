// Package fsprobe classifies the filesystem backing a path as "slow" when it
// is a network or distributed filesystem.
package fsprobe

import (
	"log/slog"
	"strings"

	"github.com/moby/sys/mountinfo"

	"github.com/ninesh-dev/ninesh/domain/entities"
	"github.com/ninesh-dev/ninesh/domain/ports"
)

// SlowTypes is the fixed set of filesystem types classified as slow.
var SlowTypes = []string{
	"nfs", "nfs4", "cifs", "smb3", "fuse.sshfs", "davfs", "lustre", "gpfs", "afs", "ceph",
}

// Classify reports whether path lives on a slow filesystem according to
// mounts. The mount whose directory is the longest path-boundary prefix of
// path wins; among equally long matches the later entry wins, as later
// entries of the mount table shadow earlier ones. A path no mount matches is
// not slow.
func Classify(path string, mounts []entities.Mount, slowTypes []string) bool {
	best, ok := Resolve(path, mounts)
	if !ok {
		return false
	}
	for _, t := range slowTypes {
		if best.FSType == t {
			return true
		}
	}
	return false
}

// Resolve returns the mount entry that backs path.
func Resolve(path string, mounts []entities.Mount) (entities.Mount, bool) {
	var (
		best    entities.Mount
		bestLen int
		found   bool
	)
	for _, m := range mounts {
		if !covers(m.Dir, path) {
			continue
		}
		if len(m.Dir) >= bestLen {
			best, bestLen, found = m, len(m.Dir), true
		}
	}
	return best, found
}

// covers reports whether the mount directory dir is a path-boundary prefix of
// path: "/data" covers "/data" and "/data/x" but not "/database".
func covers(dir, path string) bool {
	if dir == "" || !strings.HasPrefix(path, dir) {
		return false
	}
	switch {
	case len(dir) == len(path):
		return true
	case dir == "/":
		return true
	default:
		return path[len(dir)] == '/'
	}
}

// Classifier scans a mount source on every call.
type Classifier struct {
	source    ports.MountSource
	slowTypes []string
	logger    *slog.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithMountSource replaces the live mount table.
func WithMountSource(src ports.MountSource) Option {
	return func(c *Classifier) {
		c.source = src
	}
}

// WithExtraSlowTypes adds filesystem types to the fixed slow set.
func WithExtraSlowTypes(types ...string) Option {
	return func(c *Classifier) {
		c.slowTypes = append(c.slowTypes, types...)
	}
}

// WithLogger sets the logger used to report unreadable mount tables.
func WithLogger(l *slog.Logger) Option {
	return func(c *Classifier) {
		c.logger = l
	}
}

// NewClassifier creates a Classifier over the live mount table.
func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{
		source:    SystemMounts{},
		slowTypes: append([]string(nil), SlowTypes...),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsSlow reads the mount table once and classifies path. An unreadable
// mount table classifies as not slow.
func (c *Classifier) IsSlow(path string) bool {
	mounts, err := c.source.Mounts()
	if err != nil {
		c.logger.Warn("fsprobe: cannot read mount table", "path", path, "error", err)
		return false
	}
	return Classify(path, mounts, c.slowTypes)
}

// SystemMounts reads the mount table of the current process.
type SystemMounts struct{}

// Mounts returns every entry of the live mount table in table order.
func (SystemMounts) Mounts() ([]entities.Mount, error) {
	infos, err := mountinfo.GetMounts(nil)
	if err != nil {
		return nil, err
	}
	mounts := make([]entities.Mount, 0, len(infos))
	for _, info := range infos {
		mounts = append(mounts, entities.Mount{Dir: info.Mountpoint, FSType: info.FSType})
	}
	return mounts, nil
}
