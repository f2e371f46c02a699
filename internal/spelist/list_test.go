package spelist

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), nil, 0644))
	}
}

func TestNewRotatesToStart(t *testing.T) {
	l, err := New([]string{"c.SPE", "a.SPE", "b.SPE"}, "b.SPE")
	require.NoError(t, err)
	assert.Equal(t, "b.SPE", l.Head())
	assert.Equal(t, []string{"b.SPE", "c.SPE", "a.SPE"}, l.Items())
}

func TestNewUnknownStart(t *testing.T) {
	_, err := New([]string{"a.SPE"}, "zzz.SPE")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = New([]string{"a.SPE", "cal.SPE"}, "cal.SPE", "cal.SPE")
	assert.True(t, errors.Is(err, ErrNotFound), "excluded file cannot be the start")

	_, err = New(nil, "a.SPE")
	assert.True(t, errors.Is(err, ErrEmpty))
}

func TestScanExcludesCalibrationFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.SPE", "a.SPE", "cal.SPE", "notes.txt", "lower.spe")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.SPE"), 0755))

	names, err := Scan(dir, "cal.SPE")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.SPE", "b.SPE", "lower.spe"}, names)

	names, err = Scan(dir, "cal.SPE", "lower.spe")
	require.NoError(t, err)
	l, err := New(names, "b.SPE", "cal.SPE")
	require.NoError(t, err)
	assert.Equal(t, []string{"b.SPE", "a.SPE"}, l.Items())
	assert.False(t, l.Contains("cal.SPE"))
}

func TestRotationWraps(t *testing.T) {
	l, err := New([]string{"a", "b", "c"}, "a")
	require.NoError(t, err)

	l.Forward()
	assert.Equal(t, "b", l.Head())
	l.Forward()
	l.Forward()
	assert.Equal(t, "a", l.Head())

	l.Backward()
	assert.Equal(t, "c", l.Head())
	assert.Equal(t, []string{"c", "a", "b"}, l.Items())
}

func TestRotationSingleFileIsNoop(t *testing.T) {
	l, err := New([]string{"only.SPE"}, "only.SPE")
	require.NoError(t, err)
	l.Forward()
	l.Backward()
	assert.Equal(t, []string{"only.SPE"}, l.Items())
}

func TestRotationIsPermutation(t *testing.T) {
	names := []string{"e", "a", "d", "b", "c"}
	l, err := New(names, "c")
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		before := l.Head()
		if rng.Intn(2) == 0 {
			l.Forward()
			l.Backward()
			assert.Equal(t, before, l.Head(), "forward then backward restores head")
			l.Forward()
		} else {
			l.Backward()
		}
		items := l.Items()
		sorted := append([]string(nil), items...)
		sort.Strings(sorted)
		require.Equal(t, []string{"a", "b", "c", "d", "e"}, sorted)
		require.Equal(t, l.Head(), items[0])
	}
}

func TestReplaceKeepsHead(t *testing.T) {
	l, err := New([]string{"a", "c", "e"}, "c")
	require.NoError(t, err)

	require.NoError(t, l.Replace([]string{"a", "b", "c", "d", "e"}))
	assert.Equal(t, "c", l.Head())

	require.NoError(t, l.Replace([]string{"a", "b", "d", "e"}))
	assert.Equal(t, "d", l.Head(), "removed head moves to the next name")

	require.NoError(t, l.Replace([]string{"a", "b"}))
	assert.Equal(t, "a", l.Head(), "wraps when nothing follows")

	assert.True(t, errors.Is(l.Replace(nil), ErrEmpty))
	assert.Equal(t, "a", l.Head())
}
