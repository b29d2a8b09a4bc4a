// SPDX-License-Identifier: GPL-2.0-or-later

// Package player gives Lua access to the server's player slots.
package player

import (
	"fmt"

	"github.com/Shopify/go-lua"

	"gconvar/engine"
)

const TypeName = "Player"

// Open registers the Player type and the player library.
func Open(l *lua.State, s *engine.Server) {
	lua.NewMetaTable(l, TypeName)
	lua.SetFunctions(l, []lua.RegistryFunction{
		{Name: "__tostring", Function: toString},
		{Name: "__eq", Function: eq},
	}, 0)
	l.Pop(1)
	MethodTable(l, TypeName)
	lua.SetFunctions(l, []lua.RegistryFunction{
		{Name: "EntIndex", Function: entIndex},
		{Name: "Nick", Function: nick},
		{Name: "Name", Function: nick},
		{Name: "IsBot", Function: isBot},
		{Name: "IsValid", Function: isValid},
	}, 0)
	l.Pop(1)

	l.NewTable()
	lua.SetFunctions(l, []lua.RegistryFunction{
		{Name: "GetAll", Function: func(l *lua.State) int {
			l.NewTable()
			for i, p := range s.Players() {
				Push(l, p)
				l.RawSetInt(-2, i+1)
			}
			return 1
		}},
		{Name: "GetByID", Function: func(l *lua.State) int {
			p, ok := s.Player(lua.CheckInteger(l, 1))
			if !ok {
				l.PushNil()
				return 1
			}
			Push(l, p)
			return 1
		}},
		{Name: "GetCount", Function: func(l *lua.State) int {
			l.PushInteger(len(s.Players()))
			return 1
		}},
	}, 0)
	l.SetGlobal("player")
}

// MethodTable pushes the table the methods of the named type live in,
// creating the metatable and its __index table if needed.
func MethodTable(l *lua.State, name string) {
	lua.NewMetaTable(l, name)
	l.Field(-1, "__index")
	if !l.IsTable(-1) {
		l.Pop(1)
		l.NewTable()
		l.PushValue(-1)
		l.SetField(-3, "__index")
	}
	l.Remove(-2)
}

// Push pushes p as a Player value.
func Push(l *lua.State, p *engine.Player) {
	l.PushUserData(p)
	lua.SetMetaTableNamed(l, TypeName)
}

func check(l *lua.State, i int) *engine.Player {
	p, ok := lua.CheckUserData(l, i, TypeName).(*engine.Player)
	if !ok {
		lua.ArgumentError(l, i, "Player expected")
		return nil
	}
	return p
}

func entIndex(l *lua.State) int {
	l.PushInteger(check(l, 1).EntIndex())
	return 1
}

func nick(l *lua.State) int {
	l.PushString(check(l, 1).Name())
	return 1
}

func isBot(l *lua.State) int {
	l.PushBoolean(check(l, 1).Fake())
	return 1
}

func isValid(l *lua.State) int {
	l.PushBoolean(check(l, 1).Active())
	return 1
}

func toString(l *lua.State) int {
	p := check(l, 1)
	l.PushString(fmt.Sprintf("Player [%d][%s]", p.EntIndex(), p.Name()))
	return 1
}

func eq(l *lua.State) int {
	l.PushBoolean(check(l, 1) == check(l, 2))
	return 1
}
