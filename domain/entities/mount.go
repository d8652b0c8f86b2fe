package entities

// Mount is one entry of the mount table.
type Mount struct {
	// Dir is the mount point.
	Dir string
	// FSType is the filesystem type, e.g. "ext4" or "nfs4".
	FSType string
}
