package session

import (
	"context"
	"regexp"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

var deviceIDPattern = regexp.MustCompile(`^[0-9a-f]{32}$`)

func TestDeviceStore_StableAcrossInstances(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)

	d1 := NewDeviceStore(repo, testLogger())
	id1, err := d1.ID(ctx)
	require.NoError(t, err)
	require.Regexp(t, deviceIDPattern, id1)

	// Same profile, new process: the identifier must not change.
	d2 := NewDeviceStore(repo, testLogger())
	id2, err := d2.ID(ctx)
	require.NoError(t, err)
	require.Equal(t, id1, id2)
}

func TestDeviceStore_ResetRegenerates(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)

	d := NewDeviceStore(repo, testLogger())
	id1, err := d.ID(ctx)
	require.NoError(t, err)

	id2, err := d.Reset(ctx)
	require.NoError(t, err)
	require.Regexp(t, deviceIDPattern, id2)
	require.NotEqual(t, id1, id2)

	// The new identifier sticks.
	id3, err := d.ID(ctx)
	require.NoError(t, err)
	require.Equal(t, id2, id3)
}

func TestDeviceStore_Fingerprint(t *testing.T) {
	ctx := context.Background()

	d := NewDeviceStore(setupRepo(t), testLogger())
	fp := d.Fingerprint(ctx)

	require.Regexp(t, deviceIDPattern, fp.DeviceID)
	require.Equal(t, runtime.GOOS, fp.OS)
	require.Equal(t, runtime.GOARCH, fp.Arch)
}
