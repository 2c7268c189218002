package runlock

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquire_ExclusivePerRoot(t *testing.T) {
	root := t.TempDir()

	first, err := Acquire(root)
	require.NoError(t, err)

	_, err = Acquire(root)
	assert.ErrorIs(t, err, ErrLocked)

	other, err := Acquire(t.TempDir())
	require.NoError(t, err, "a different root has its own lock")
	require.NoError(t, other.Release())

	require.NoError(t, first.Release())
	_, statErr := os.Stat(first.Path())
	assert.True(t, os.IsNotExist(statErr))

	again, err := Acquire(root)
	require.NoError(t, err)
	require.NoError(t, again.Release())
}

func TestPathFor_Stable(t *testing.T) {
	root := t.TempDir()
	a, err := PathFor(root)
	require.NoError(t, err)
	b, err := PathFor(root + string(os.PathSeparator))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
