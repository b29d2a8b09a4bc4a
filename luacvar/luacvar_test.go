// SPDX-License-Identifier: GPL-2.0-or-later

package luacvar

import (
	"testing"

	"github.com/Shopify/go-lua"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gconvar/cvar"
	"gconvar/engine"
	"gconvar/iface"
	"gconvar/netchan"
	"gconvar/player"
	"gconvar/proxy"
)

type serverFixture struct {
	l      *lua.State
	vars   *cvar.Registry
	srv    *engine.Server
	cache  *proxy.Cache
	client *netchan.Loopback
}

func newServer(t *testing.T) *serverFixture {
	t.Helper()
	vars := cvar.NewRegistry()
	vars.MustRegister("sv_gravity", "800", cvar.REPLICATED|cvar.NOTIFY, "World gravity.")
	vars.MustRegister("sv_friction", "4", cvar.REPLICATED|cvar.NOTIFY, "World friction.")
	srv := engine.NewServer(vars, 4)
	serverEnd, clientEnd := netchan.Pipe("loopback:server", "loopback:client")
	_, err := srv.Connect("alice", serverEnd)
	require.NoError(t, err)
	_, err = srv.AddBot("bot01")
	require.NoError(t, err)

	l := lua.NewState()
	lua.OpenLibraries(l)
	player.Open(l, srv)
	cache := proxy.NewCache()
	New(&iface.Context{Realm: iface.Server, Cvar: vars, Server: srv}, cache).Open(l)
	return &serverFixture{l: l, vars: vars, srv: srv, cache: cache, client: clientEnd}
}

func (f *serverFixture) run(t *testing.T, code string) {
	t.Helper()
	require.NoError(t, lua.DoString(f.l, code))
}

func TestGetAndSet(t *testing.T) {
	f := newServer(t)
	f.run(t, `
		assert(convar.Exists("sv_gravity"))
		assert(convar.Exists("SV_GRAVITY"))
		local g = convar.Get("sv_gravity")
		assert(g:GetFloat() == 800)
		assert(g:GetInt() == 800)
		assert(g:GetString() == "800")
		assert(g:GetDefault() == "800")
		assert(g:GetName() == "sv_gravity")
		assert(g:GetHelpText() == "World gravity.")
		assert(g:GetBool())
		assert(not g:IsCommand())
		g:SetValue(400)
		assert(g:GetString() == "400")
		g:SetValue("12.5")
		assert(g:GetFloat() == 12.5)
		g:SetValue(false)
		assert(g:GetInt() == 0)
		g:SetValue(true)
		assert(g:GetInt() == 1)
		g:Revert()
		assert(g:GetFloat() == 800)
	`)
	assert.Equal(t, "800", f.vars.Find("sv_gravity").String())
}

func TestMissing(t *testing.T) {
	f := newServer(t)
	f.run(t, `
		assert(not convar.Exists("no_such_var"))
		assert(convar.Get("no_such_var") == nil)
		assert(not convar.Exists("cvarlist"), "commands are not convars")
		assert(concommand.Exists("cvarlist"))
		assert(concommand.Get("sv_gravity") == nil)
		assert(concommand.Get("cvarlist"):IsCommand())
	`)
}

func TestSetValueRejectsTable(t *testing.T) {
	f := newServer(t)
	err := lua.DoString(f.l, `convar.Get("sv_gravity"):SetValue({})`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "number, boolean or string expected")
	assert.Equal(t, "800", f.vars.Find("sv_gravity").String())
}

func TestBounds(t *testing.T) {
	f := newServer(t)
	f.run(t, `
		local g = convar.Get("sv_gravity")
		assert(select("#", g:GetMin()) == 0)
		assert(select("#", g:GetMax()) == 0)
		g:SetMin(100)
		g:SetMax(1000)
		assert(g:GetMin() == 100)
		assert(g:GetMax() == 1000)
		g:SetValue(5000)
		assert(g:GetFloat() == 1000)
		g:SetValue(1)
		assert(g:GetFloat() == 100)
	`)
}

func TestFlags(t *testing.T) {
	f := newServer(t)
	f.run(t, `
		assert(FCVAR_ARCHIVE == 128)
		assert(FCVAR_REPLICATED == 8192)
		assert(FCVAR_NONE == 0)
		local g = convar.Get("sv_gravity")
		assert(g:HasFlag(FCVAR_REPLICATED))
		assert(not g:HasFlag(FCVAR_CHEAT))
		assert(g:GetFlags() == FCVAR_REPLICATED + FCVAR_NOTIFY)
		g:SetFlags(FCVAR_CHEAT)
		assert(g:HasFlag(FCVAR_CHEAT))
		assert(not g:HasFlag(FCVAR_REPLICATED))
	`)
	assert.Equal(t, cvar.CHEAT, f.vars.Find("sv_gravity").Flags())
}

func TestIdentityAndEquality(t *testing.T) {
	f := newServer(t)
	f.run(t, `
		local a = convar.Get("sv_gravity")
		local b = convar.Get("sv_gravity")
		assert(a == b)
		assert(a ~= convar.Get("sv_friction"))
		assert(tostring(a) == tostring(b))
		assert(tostring(a):match("^convar: 0x"))
		a.owner = "admin"
		assert(b.owner == "admin")
		assert(convar.Get("sv_gravity").owner == "admin")
		a.owner = nil
		assert(b.owner == nil)
		a.link = convar.Get("sv_friction")
		assert(a.link:GetName() == "sv_friction")
		assert(a.missing == nil)
		keep = a
	`)
	assert.Equal(t, 2, f.cache.Len())
}

func TestFieldAssignment(t *testing.T) {
	f := newServer(t)
	f.run(t, `
		local g = convar.Get("sv_gravity")
		g.data = {1, 2, 3}
		g.double = function(n) return n * 2 end
		g.co = coroutine.create(function() end)
		g[1] = "first"
		g["1"] = "one"
		g[true] = "yes"

		local again = convar.Get("sv_gravity")
		assert(#again.data == 3)
		assert(again.double(21) == 42)
		assert(type(again.co) == "thread")
		assert(again[1] == "first")
		assert(again["1"] == "one")
		assert(again[true] == "yes")

		g.data = 5
		assert(again.data == 5)
		g.double = nil
		assert(again.double == nil)
		g[1] = nil
		assert(again[1] == nil)
		keep = g
	`)

	err := lua.DoString(f.l, `convar.Get("sv_gravity").GetInt = 1`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot assign to method GetInt")

	err = lua.DoString(f.l, `convar.Get("sv_gravity")[nil] = 1`)
	require.Error(t, err)
}

func TestFieldsDroppedOnRemove(t *testing.T) {
	f := newServer(t)
	f.run(t, `
		local g = convar.Get("sv_gravity")
		g.list = {g}
		g.note = "x"
		g:Remove()
		assert(g.list == nil)
		assert(g.note == nil)
	`)
	f.l.Field(lua.RegistryIndex, fieldsKey)
	f.l.PushNil()
	assert.False(t, f.l.Next(-2), "field table of the removed handle is left")
	f.l.Pop(1)
}

func TestRename(t *testing.T) {
	f := newServer(t)
	f.run(t, `
		local g = convar.Get("sv_gravity")
		g:SetName("gravity")
		assert(g:GetName() == "gravity")
		assert(convar.Exists("gravity"))
		assert(not convar.Exists("sv_gravity"))
		g:SetHelpText("Changed.")
		assert(g:GetHelpText() == "Changed.")
		keep = g
	`)
	v := f.vars.Find("gravity")
	require.NotNil(t, v)
	assert.Equal(t, "Changed.", v.Help())

	f.cache.Close()
	assert.Equal(t, "sv_gravity", v.Name())
	assert.Equal(t, "World gravity.", v.Help())
	err := lua.DoString(f.l, `keep:GetName()`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid convar handle")
}

func TestRemove(t *testing.T) {
	f := newServer(t)
	v := f.vars.Find("sv_gravity")
	require.NotNil(t, v)
	f.run(t, `
		local g = convar.Get("sv_gravity")
		g:SetName("gravity")
		g:SetHelpText("Going away.")
		assert(convar.Get("gravity") == g)
		assert(g:GetHelpText() == "Going away.")
		g:Remove()
		assert(not convar.Exists("sv_gravity"))
		assert(not convar.Exists("gravity"))
		local ok, err = pcall(tostring, g)
		assert(not ok)
		assert(err:find("invalid convar handle"))
		dead = g
	`)
	assert.Nil(t, f.vars.Find("sv_gravity"))
	assert.Nil(t, f.vars.Find("gravity"))
	assert.Equal(t, 0, f.cache.Len())
	assert.Equal(t, "sv_gravity", v.Name(), "name is restored before the variable is dropped")
	assert.Equal(t, "World gravity.", v.Help())

	for _, code := range []string{`dead:GetInt()`, `dead:Remove()`, `dead.note = 1`} {
		err := lua.DoString(f.l, code)
		require.Error(t, err, code)
		assert.Contains(t, err.Error(), "invalid convar handle", code)
	}
}

func TestGetAll(t *testing.T) {
	f := newServer(t)
	var vars, commands int
	for _, v := range f.vars.All() {
		if v.IsCommand() {
			commands++
		} else {
			vars++
		}
	}
	f.run(t, `
		vars = convar.GetAll()
		commands = concommand.GetAll()
		for _, v in ipairs(vars) do assert(not v:IsCommand()) end
		for _, c in ipairs(commands) do assert(c:IsCommand()) end
		assert(vars[1]:GetName() == "sv_gravity")
	`)
	f.l.Global("vars")
	assert.Equal(t, vars, f.l.RawLength(-1))
	f.l.Global("commands")
	assert.Equal(t, commands, f.l.RawLength(-1))
	f.l.Pop(2)
}

func TestServerExecute(t *testing.T) {
	f := newServer(t)
	f.run(t, `concommand.Execute("sv_gravity 600")`)
	assert.Equal(t, "800", f.vars.Find("sv_gravity").String(), "runs on the next frame")
	require.NoError(t, f.srv.Frame())
	assert.Equal(t, "600", f.vars.Find("sv_gravity").String())
	f.run(t, `assert(concommand.ExecuteOnServer == nil)`)
}

func TestPlayerConVar(t *testing.T) {
	f := newServer(t)
	f.run(t, `
		local alice = player.GetByID(1)
		assert(alice:GetConVarValue("name") == "alice")
		assert(alice:GetConVarValue("cl_unset") == "")
		assert(alice:SetConVarValue("sv_cheats", "1"))
	`)
	data, ok := f.client.Receive()
	require.True(t, ok)
	r := netchan.NewReader(data)
	typ, ok, err := netchan.ReadType(r)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, netchan.NetSetConVar, typ)
	name, value, err := netchan.ReadSetConVar(r)
	require.NoError(t, err)
	assert.Equal(t, "sv_cheats", name)
	assert.Equal(t, "1", value)

	f.run(t, `assert(player.GetByID(1):ReplicateData("fov", "90"))`)
	_, ok = f.client.Receive()
	assert.True(t, ok)
}

func TestPlayerConVarOverflow(t *testing.T) {
	f := newServer(t)
	f.run(t, `assert(player.GetByID(1):SetConVarValue(string.rep("a", 600), "1") == false)`)
	_, ok := f.client.Receive()
	assert.False(t, ok, "nothing is sent on overflow")
}

func TestPlayerConVarZeroByte(t *testing.T) {
	f := newServer(t)
	f.run(t, `assert(player.GetByID(1):SetConVarValue("sv_cheats\0junk", "1"))`)
	data, ok := f.client.Receive()
	require.True(t, ok)
	r := netchan.NewReader(data)
	typ, _, err := netchan.ReadType(r)
	require.NoError(t, err)
	require.Equal(t, netchan.NetSetConVar, typ)
	name, value, err := netchan.ReadSetConVar(r)
	require.NoError(t, err)
	assert.Equal(t, "sv_cheats", name)
	assert.Equal(t, "1", value)
	_, ok, _ = netchan.ReadType(r)
	assert.False(t, ok, "nothing follows the message")
}

func TestPlayerConVarBot(t *testing.T) {
	f := newServer(t)
	err := lua.DoString(f.l, `player.GetByID(2):SetConVarValue("a", "b")`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid player")

	err = lua.DoString(f.l, `player.GetByID(1).SetConVarValue(42, "a", "b")`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "player expected")
}

func TestClientRealm(t *testing.T) {
	vars := cvar.NewRegistry()
	vars.MustRegister("cl_fov", "90", cvar.ARCHIVE, "")
	client := engine.NewClient(vars, nil)
	l := lua.NewState()
	lua.OpenLibraries(l)
	New(&iface.Context{Realm: iface.Client, Cvar: vars, Client: client}, proxy.NewCache()).Open(l)

	require.NoError(t, lua.DoString(l, `
		concommand.Execute("cl_fov 75")
		assert(concommand.ExecuteOnServer("say hi") == false)
	`))
	require.NoError(t, client.Frame())
	assert.Equal(t, "75", vars.Find("cl_fov").String())
}
