package fsprobe

import (
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ninesh-dev/ninesh/domain/entities"
	"github.com/ninesh-dev/ninesh/domain/ports"
)

var syntheticMounts = []entities.Mount{
	{Dir: "/", FSType: "ext4"},
	{Dir: "/mnt/data", FSType: "nfs"},
	{Dir: "/mnt/database", FSType: "ext4"},
}

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/mnt/data/x", true},
		{"/mnt/data", true},
		{"/mnt/data/", true},
		{"/mnt/database/x", false},
		{"/mnt/databasex", false},
		{"/anything", false},
		{"/", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.path, syntheticMounts, SlowTypes))
		})
	}
}

func TestClassify_NoMatch(t *testing.T) {
	mounts := []entities.Mount{{Dir: "/mnt/data", FSType: "nfs"}}
	assert.False(t, Classify("relative/path", mounts, SlowTypes))
	assert.False(t, Classify("/other", mounts, SlowTypes))
	assert.False(t, Classify("/mnt/data", nil, SlowTypes))
}

func TestClassify_NestedMountsLongestWins(t *testing.T) {
	mounts := []entities.Mount{
		{Dir: "/", FSType: "ext4"},
		{Dir: "/net", FSType: "nfs4"},
		{Dir: "/net/local", FSType: "xfs"},
	}
	assert.True(t, Classify("/net/remote/file", mounts, SlowTypes))
	assert.False(t, Classify("/net/local/file", mounts, SlowTypes))
}

func TestClassify_LaterEntryShadows(t *testing.T) {
	mounts := []entities.Mount{
		{Dir: "/", FSType: "ext4"},
		{Dir: "/srv", FSType: "ext4"},
		{Dir: "/srv", FSType: "ceph"},
	}
	assert.True(t, Classify("/srv/x", mounts, SlowTypes))

	m, ok := Resolve("/srv/x", mounts)
	require.True(t, ok)
	assert.Equal(t, "ceph", m.FSType)
}

func TestClassify_AllSlowTypes(t *testing.T) {
	for _, fsType := range SlowTypes {
		mounts := []entities.Mount{{Dir: "/", FSType: "ext4"}, {Dir: "/r", FSType: fsType}}
		assert.True(t, Classify("/r/f", mounts, SlowTypes), fsType)
	}
}

func TestClassifier_IsSlow(t *testing.T) {
	calls := 0
	src := ports.MountSourceFunc(func() ([]entities.Mount, error) {
		calls++
		return syntheticMounts, nil
	})
	c := NewClassifier(WithMountSource(src))

	assert.True(t, c.IsSlow("/mnt/data/x"))
	assert.False(t, c.IsSlow("/mnt/database/x"))
	assert.Equal(t, 2, calls, "mount table is scanned once per call")
}

func TestClassifier_ExtraSlowTypes(t *testing.T) {
	src := ports.MountSourceFunc(func() ([]entities.Mount, error) {
		return []entities.Mount{{Dir: "/", FSType: "ext4"}, {Dir: "/g", FSType: "glusterfs"}}, nil
	})

	assert.False(t, NewClassifier(WithMountSource(src)).IsSlow("/g/x"))
	assert.True(t, NewClassifier(WithMountSource(src), WithExtraSlowTypes("glusterfs")).IsSlow("/g/x"))
}

func TestClassifier_UnreadableTable(t *testing.T) {
	src := ports.MountSourceFunc(func() ([]entities.Mount, error) {
		return nil, errors.New("permission denied")
	})
	assert.False(t, NewClassifier(WithMountSource(src)).IsSlow("/mnt/data/x"))
}

func TestSystemMounts(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("mount table layout checked on linux only")
	}
	mounts, err := SystemMounts{}.Mounts()
	require.NoError(t, err)
	require.NotEmpty(t, mounts)

	_, ok := Resolve("/", mounts)
	assert.True(t, ok, "the root mount covers /")
}
