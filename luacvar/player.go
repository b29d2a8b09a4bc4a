// SPDX-License-Identifier: GPL-2.0-or-later

package luacvar

import (
	"log"

	"github.com/Shopify/go-lua"

	"gconvar/netchan"
	"gconvar/player"
)

func (b *Binding) registerPlayerMethods(l *lua.State) {
	player.MethodTable(l, player.TypeName)
	lua.SetFunctions(l, []lua.RegistryFunction{
		{Name: "GetConVarValue", Function: b.getConVarValue},
		{Name: "SetConVarValue", Function: b.setConVarValue},
		{Name: "ReplicateData", Function: b.setConVarValue},
	}, 0)
	l.Pop(1)
}

// entIndex asks the player at index i for its entity index.
func entIndex(l *lua.State, i int) int {
	if t := l.TypeOf(i); t != lua.TypeUserData && t != lua.TypeTable {
		lua.ArgumentError(l, i, "player expected")
		return 0
	}
	l.Field(i, "EntIndex")
	if !l.IsFunction(-1) {
		lua.ArgumentError(l, i, "player expected")
		return 0
	}
	l.PushValue(i)
	l.Call(1, 1)
	ent, ok := l.ToInteger(-1)
	l.Pop(1)
	if !ok {
		lua.ArgumentError(l, i, "EntIndex returned no number")
		return 0
	}
	return ent
}

func (b *Binding) getConVarValue(l *lua.State) int {
	ent := entIndex(l, 1)
	name := lua.CheckString(l, 2)
	l.PushString(b.ctx.Server.GetClientConVarValue(ent, name))
	return 1
}

// setConVarValue sends a SetConVar message to the player's client.
func (b *Binding) setConVarValue(l *lua.State) int {
	ent := entIndex(l, 1)
	name := lua.CheckString(l, 2)
	value := lua.CheckString(l, 3)
	ch := b.ctx.Server.NetChannel(ent)
	if ch == nil {
		lua.Errorf(l, "invalid player")
		return 0
	}
	w := netchan.NewWriter(make([]byte, netchan.SetConVarBufferSize))
	if err := netchan.WriteSetConVar(w, name, value); err != nil {
		log.Printf("SetConVarValue %s on %s: %v", name, ch.Address(), err)
		l.PushBoolean(false)
		return 1
	}
	l.PushBoolean(ch.SendData(w, true))
	return 1
}
