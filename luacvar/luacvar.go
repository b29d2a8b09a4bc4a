// SPDX-License-Identifier: GPL-2.0-or-later

// Package luacvar exposes console variables and commands to Lua.
//
// Globals installed by Open:
//
//	convar.Exists(name), convar.Get(name), convar.GetAll()
//	concommand.Exists(name), concommand.Get(name), concommand.GetAll()
//	concommand.Execute(text), concommand.ExecuteOnServer(text) (client only)
//	FCVAR_* flag constants
//
// On the server GetConVarValue, SetConVarValue and ReplicateData are added
// to the Player type.
package luacvar

import (
	"strings"

	"github.com/Shopify/go-lua"
	"github.com/google/uuid"

	"gconvar/cvar"
	"gconvar/iface"
	"gconvar/proxy"
)

const ConVarTypeName = "convar"

type Binding struct {
	ctx     *iface.Context
	cache   *proxy.Cache
	methods map[string]lua.Function

	l     *lua.State
	stale []uuid.UUID
}

func New(ctx *iface.Context, cache *proxy.Cache) *Binding {
	b := &Binding{
		ctx:     ctx,
		cache:   cache,
		methods: make(map[string]lua.Function),
	}
	for _, m := range b.convarMethods() {
		b.methods[m.Name] = m.Function
	}
	cache.OnRelease(b.released)
	return b
}

// Open installs the libraries into l. A binding serves one state.
func (b *Binding) Open(l *lua.State) {
	b.l = l
	b.registerConVarType(l)
	b.registerLibrary(l, "convar", false)
	b.registerLibrary(l, "concommand", true)
	registerFlags(l)
	if b.ctx.Server != nil {
		b.registerPlayerMethods(l)
	}
}

// Collect releases the handles the garbage collector reclaimed.
func (b *Binding) Collect() {
	b.cache.Collect()
	b.dropFields(b.l)
}

// Close detaches every handle still alive.
func (b *Binding) Close() {
	b.cache.Close()
	b.dropFields(b.l)
}

func registerFlags(l *lua.State) {
	l.PushInteger(int(cvar.NONE))
	l.SetGlobal("FCVAR_NONE")
	cvar.FlagNames(func(name string, f cvar.Flag) {
		l.PushInteger(int(f))
		l.SetGlobal("FCVAR_" + strings.ToUpper(name))
	})
}

func (b *Binding) registerLibrary(l *lua.State, name string, commands bool) {
	fns := []lua.RegistryFunction{
		{Name: "Exists", Function: b.exists(commands)},
		{Name: "Get", Function: b.get(commands)},
		{Name: "GetAll", Function: b.getAll(commands)},
	}
	if commands {
		fns = append(fns, lua.RegistryFunction{Name: "Execute", Function: b.execute})
		if b.ctx.Client != nil {
			fns = append(fns, lua.RegistryFunction{Name: "ExecuteOnServer", Function: b.executeOnServer})
		}
	}
	l.NewTable()
	lua.SetFunctions(l, fns, 0)
	l.SetGlobal(name)
}

func (b *Binding) find(name string, commands bool) *cvar.Var {
	v := b.ctx.Cvar.Find(name)
	if v == nil || v.IsCommand() != commands {
		return nil
	}
	return v
}

func (b *Binding) exists(commands bool) lua.Function {
	return func(l *lua.State) int {
		name := lua.CheckString(l, 1)
		l.PushBoolean(b.find(name, commands) != nil)
		return 1
	}
}

func (b *Binding) get(commands bool) lua.Function {
	return func(l *lua.State) int {
		name := lua.CheckString(l, 1)
		b.pushHandle(l, b.cache.Resolve(b.find(name, commands)))
		b.dropFields(l)
		return 1
	}
}

func (b *Binding) getAll(commands bool) lua.Function {
	return func(l *lua.State) int {
		l.NewTable()
		i := 1
		for _, v := range b.ctx.Cvar.All() {
			if v.IsCommand() != commands {
				continue
			}
			b.pushHandle(l, b.cache.Resolve(v))
			l.RawSetInt(-2, i)
			i++
		}
		b.dropFields(l)
		return 1
	}
}

func (b *Binding) execute(l *lua.State) int {
	text := lua.CheckString(l, 1)
	if b.ctx.Client != nil {
		b.ctx.Client.ClientCmd(text)
		return 0
	}
	b.ctx.Server.ServerCommand(text + "\n")
	return 0
}

func (b *Binding) executeOnServer(l *lua.State) int {
	text := lua.CheckString(l, 1)
	l.PushBoolean(b.ctx.Client.ServerCmd(text))
	return 1
}
