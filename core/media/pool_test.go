package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadedPlayer(src string) *Player {
	p := NewPlayer(src, PreloadAuto)
	p.Load([]string{"f0", "f1"}, nil)
	return p
}

func TestPoolActivateKeepsSinglePlayer(t *testing.T) {
	pool := NewPool(nil)
	for _, id := range []string{"a", "b", "c"} {
		pool.Mount(id, "src-"+id, loadedPlayer("src-"+id))
	}

	for _, id := range []string{"a", "c", "b", "b", "a"} {
		require.NoError(t, pool.Activate(id))
		assert.Equal(t, []string{id}, pool.Playing())
		assert.Equal(t, id, pool.Active())
	}
}

func TestPoolActivateRejectedStillPausesOthers(t *testing.T) {
	pool := NewPool(nil)
	pool.Mount("a", "src-a", loadedPlayer("src-a"))
	pool.Mount("b", "src-b", NewPlayer("src-b", PreloadMetadata))

	require.NoError(t, pool.Activate("a"))
	require.ErrorIs(t, pool.Activate("b"), ErrNotReady)
	assert.Empty(t, pool.Playing())

	require.ErrorIs(t, pool.Activate("missing"), ErrNotReady)
}

func TestPoolUnmountReleases(t *testing.T) {
	var released []string
	pool := NewPool(func(id, src string) { released = append(released, id+"="+src) })
	a := loadedPlayer("blob:a")
	pool.Mount("a", "blob:a", a)
	pool.Mount("b", "src-b", loadedPlayer("src-b"))
	pool.Mount("c", "src-c", loadedPlayer("src-c"))
	require.NoError(t, pool.Activate("a"))

	pool.Retain("b", "c")
	assert.True(t, a.Detached())
	assert.True(t, a.Paused())
	assert.Empty(t, pool.Active())
	assert.Equal(t, []string{"a=blob:a"}, released)
	assert.Equal(t, []string{"b", "c"}, pool.IDs())

	pool.ReleaseAll()
	assert.Empty(t, pool.IDs())
	assert.Equal(t, []string{"a=blob:a", "b=src-b", "c=src-c"}, released)
}

func TestPoolRemountReplaces(t *testing.T) {
	var released int
	pool := NewPool(func(string, string) { released++ })
	first := loadedPlayer("x")
	pool.Mount("a", "x", first)
	pool.Mount("a", "y", loadedPlayer("y"))
	assert.True(t, first.Detached())
	assert.Equal(t, 1, released)
	h, ok := pool.Get("a")
	require.True(t, ok)
	assert.NotSame(t, first, h)
}
