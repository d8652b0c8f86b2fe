package ports

import "github.com/ninesh-dev/ninesh/domain/entities"

// MountSource provides a snapshot of the mount table.
type MountSource interface {
	Mounts() ([]entities.Mount, error)
}

// MountSourceFunc adapts a function to MountSource.
type MountSourceFunc func() ([]entities.Mount, error)

// Mounts calls f.
func (f MountSourceFunc) Mounts() ([]entities.Mount, error) {
	return f()
}
