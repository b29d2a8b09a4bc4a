// SPDX-License-Identifier: GPL-2.0-or-later

package proxy

import (
	"fmt"
	"runtime"
	"strings"
	"testing"
	"time"
	"weak"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gconvar/cvar"
)

func newVar() *cvar.Var {
	return cvar.New("sv_gravity", "800", cvar.REPLICATED, "World gravity.")
}

func TestResolveIdentity(t *testing.T) {
	c := NewCache()
	v := newVar()
	h1 := c.Resolve(v)
	h2 := c.Resolve(v)
	assert.Same(t, h1, h2)
	assert.Equal(t, 1, c.Len())

	other := c.Resolve(cvar.New("sv_friction", "4", cvar.NONE, ""))
	assert.NotSame(t, h1, other)
	assert.Equal(t, 2, c.Len())

	assert.Nil(t, c.Resolve(nil))
}

func TestDestroyRestores(t *testing.T) {
	c := NewCache()
	reg := cvar.NewRegistry()
	v, err := reg.Register("sv_gravity", "800", cvar.REPLICATED, "World gravity.")
	require.NoError(t, err)

	h := c.Resolve(v)
	require.NoError(t, h.SetName("gravity"))
	require.NoError(t, h.SetHelp("changed"))
	assert.Equal(t, "gravity", v.Name())
	assert.Equal(t, "changed", v.Help())
	assert.Nil(t, reg.Find("sv_gravity"), "rename is visible to name lookups")
	assert.Same(t, v, reg.Find("gravity"))
	assert.Equal(t, "sv_gravity", h.OriginalName())

	assert.Same(t, v, c.Destroy(h))
	assert.Equal(t, "sv_gravity", v.Name())
	assert.Equal(t, "World gravity.", v.Help())
	assert.Equal(t, 0, c.Len())

	_, err = h.Var()
	assert.ErrorIs(t, err, ErrInvalidHandle)
	assert.ErrorIs(t, h.SetName("x"), ErrInvalidHandle)
	assert.False(t, h.Valid())
	assert.Nil(t, c.Destroy(h), "Destroy is idempotent")

	h2 := c.Resolve(v)
	assert.NotSame(t, h, h2, "a destroyed handle is not handed out again")
	assert.True(t, h2.Valid())
}

func TestOverrideCapacity(t *testing.T) {
	c := NewCache()
	v := newVar()
	h := c.Resolve(v)
	require.NoError(t, h.SetName(strings.Repeat("n", 100)))
	assert.Len(t, v.Name(), MaxNameLength)
	require.NoError(t, h.SetHelp(strings.Repeat("h", 300)))
	assert.Len(t, v.Help(), MaxHelpLength)

	// the original is the name at capture time, not the last override
	require.NoError(t, h.SetName("second"))
	c.Destroy(h)
	assert.Equal(t, "sv_gravity", v.Name())
}

func TestEqualAndString(t *testing.T) {
	c := NewCache()
	v := newVar()
	h := c.Resolve(v)
	assert.True(t, Equal(h, h))
	assert.True(t, Equal(h, &Handle{l: h.l}), "equality follows the variable, not the handle")
	assert.False(t, Equal(h, c.Resolve(cvar.New("b", "", cvar.NONE, ""))))
	assert.Equal(t, fmt.Sprintf("convar: %p", v), h.String())
	assert.True(t, strings.HasPrefix(h.String(), "convar: 0x"))

	c.Destroy(h)
	assert.Equal(t, "convar: NULL", h.String())
	assert.False(t, Equal(h, h))
}

func TestFields(t *testing.T) {
	c := NewCache()
	h := c.Resolve(newVar())
	_, ok := h.Field("owner")
	assert.False(t, ok)

	h.SetField("owner", String("admin"))
	h.SetField("weight", Number(2.5))
	h.SetField("self", HandleValue(h))
	f, ok := h.Field("owner")
	require.True(t, ok)
	assert.Equal(t, "admin", f.String)
	f, _ = h.Field("weight")
	assert.Equal(t, KindNumber, f.Kind)
	f, _ = h.Field("self")
	assert.Same(t, h, f.Handle)

	h.SetField("owner", Value{})
	_, ok = h.Field("owner")
	assert.False(t, ok, "nil removes a field")

	c.Destroy(h)
	_, ok = h.Field("weight")
	assert.False(t, ok, "a released handle has no fields")
}

func TestReleaseHook(t *testing.T) {
	c := NewCache()
	var released []uuid.UUID
	c.OnRelease(func(id uuid.UUID) { released = append(released, id) })

	a := c.Resolve(newVar())
	b := c.Resolve(cvar.New("sv_friction", "4", cvar.NONE, ""))
	idA, idB := a.ID(), b.ID()
	assert.NotEqual(t, uuid.Nil, idA)
	assert.NotEqual(t, idA, idB)

	c.Destroy(a)
	assert.Equal(t, []uuid.UUID{idA}, released)
	assert.Equal(t, uuid.Nil, a.ID())
	c.Destroy(a)
	assert.Len(t, released, 1, "a handle is released once")

	c.Close()
	assert.Equal(t, []uuid.UUID{idA, idB}, released)
}

func TestStaleLease(t *testing.T) {
	c := NewCache()
	v := newVar()
	old := c.Resolve(v)
	require.NoError(t, old.SetName("renamed"))

	// pretend the collector already reclaimed the handle
	c.byVar[v].handle = weak.Pointer[Handle]{}

	h := c.Resolve(v)
	assert.NotSame(t, old, h)
	assert.Equal(t, "sv_gravity", v.Name(), "stale override is undone before a new capture")
	assert.Equal(t, "sv_gravity", h.OriginalName())
	assert.False(t, old.Valid())
	assert.Equal(t, 1, c.Len())
}

func renameAndDrop(c *Cache, v *cvar.Var) {
	h := c.Resolve(v)
	h.SetName("temporary")
	h.SetHelp("temporary help")
}

func TestCollectedHandleRestores(t *testing.T) {
	c := NewCache()
	var released int
	c.OnRelease(func(uuid.UUID) { released++ })
	v := newVar()
	renameAndDrop(c, v)
	require.Equal(t, "temporary", v.Name())

	deadline := time.Now().Add(10 * time.Second)
	for c.Len() > 0 && time.Now().Before(deadline) {
		runtime.GC()
		time.Sleep(time.Millisecond)
		c.Collect()
	}
	require.Equal(t, 0, c.Len(), "handle was not collected")
	assert.Equal(t, 1, released)
	assert.Equal(t, "sv_gravity", v.Name())
	assert.Equal(t, "World gravity.", v.Help())
}

func TestClose(t *testing.T) {
	c := NewCache()
	v := newVar()
	h := c.Resolve(v)
	require.NoError(t, h.SetName("x"))
	c.Close()
	assert.Equal(t, "sv_gravity", v.Name())
	assert.False(t, h.Valid())
	assert.Equal(t, 0, c.Len())
}
