// SPDX-License-Identifier: GPL-2.0-or-later

package luacvar

import (
	"github.com/Shopify/go-lua"
	"github.com/google/uuid"

	"gconvar/cvar"
	"gconvar/proxy"
)

// registry table of the per handle field tables, keyed by handle ID
const fieldsKey = "convar.fields"

func (b *Binding) registerConVarType(l *lua.State) {
	l.NewTable()
	l.SetField(lua.RegistryIndex, fieldsKey)

	lua.NewMetaTable(l, ConVarTypeName)
	lua.SetFunctions(l, []lua.RegistryFunction{
		{Name: "__index", Function: b.index},
		{Name: "__newindex", Function: b.newIndex},
		{Name: "__eq", Function: b.eq},
		{Name: "__tostring", Function: b.toString},
	}, 0)
	l.Pop(1)
}

func (b *Binding) convarMethods() []lua.RegistryFunction {
	return []lua.RegistryFunction{
		{Name: "SetValue", Function: b.setValue},
		{Name: "GetBool", Function: b.getBool},
		{Name: "GetDefault", Function: b.getDefault},
		{Name: "GetFloat", Function: b.getFloat},
		{Name: "GetInt", Function: b.getInt},
		{Name: "GetName", Function: b.getName},
		{Name: "SetName", Function: b.setName},
		{Name: "GetString", Function: b.getString},
		{Name: "SetFlags", Function: b.setFlags},
		{Name: "GetFlags", Function: b.getFlags},
		{Name: "HasFlag", Function: b.hasFlag},
		{Name: "SetHelpText", Function: b.setHelpText},
		{Name: "GetHelpText", Function: b.getHelpText},
		{Name: "Revert", Function: b.revert},
		{Name: "GetMin", Function: b.getMin},
		{Name: "SetMin", Function: b.setMin},
		{Name: "GetMax", Function: b.getMax},
		{Name: "SetMax", Function: b.setMax},
		{Name: "Remove", Function: b.remove},
		{Name: "IsCommand", Function: b.isCommand},
	}
}

func (b *Binding) pushHandle(l *lua.State, h *proxy.Handle) {
	if h == nil {
		l.PushNil()
		return
	}
	l.PushUserData(h)
	lua.SetMetaTableNamed(l, ConVarTypeName)
}

func checkHandle(l *lua.State, i int) *proxy.Handle {
	h, ok := lua.CheckUserData(l, i, ConVarTypeName).(*proxy.Handle)
	if !ok || h == nil {
		lua.ArgumentError(l, i, "convar expected")
		return nil
	}
	return h
}

// checkVar validates the handle at index 1.
func checkVar(l *lua.State) (*proxy.Handle, *cvar.Var) {
	h := checkHandle(l, 1)
	v, err := h.Var()
	if err != nil {
		lua.Errorf(l, "%s", err.Error())
		return nil, nil
	}
	return h, v
}

func (b *Binding) pushValue(l *lua.State, v proxy.Value) {
	switch v.Kind {
	case proxy.KindBool:
		l.PushBoolean(v.Bool)
	case proxy.KindNumber:
		l.PushNumber(v.Number)
	case proxy.KindString:
		l.PushString(v.String)
	case proxy.KindHandle:
		b.pushHandle(l, v.Handle)
	default:
		l.PushNil()
	}
}

// scalarValue converts the value at i if it can live on the Go side.
func scalarValue(l *lua.State, i int) (proxy.Value, bool) {
	switch l.TypeOf(i) {
	case lua.TypeNil, lua.TypeNone:
		return proxy.Value{}, true
	case lua.TypeBoolean:
		return proxy.Bool(l.ToBoolean(i)), true
	case lua.TypeNumber:
		n, _ := l.ToNumber(i)
		return proxy.Number(n), true
	case lua.TypeString:
		s, _ := l.ToString(i)
		return proxy.String(s), true
	case lua.TypeUserData:
		if h, ok := lua.TestUserData(l, i, ConVarTypeName).(*proxy.Handle); ok {
			return proxy.HandleValue(h), true
		}
	}
	return proxy.Value{}, false
}

func stringKey(l *lua.State, i int) (string, bool) {
	if l.TypeOf(i) != lua.TypeString {
		return "", false
	}
	return l.ToString(i)
}

// pushFields pushes the field table of h. Without create it pushes nothing
// and returns false if h has none.
func (b *Binding) pushFields(l *lua.State, h *proxy.Handle, create bool) bool {
	id := h.ID()
	if id == uuid.Nil {
		return false
	}
	l.Field(lua.RegistryIndex, fieldsKey)
	l.Field(-1, id.String())
	if l.IsTable(-1) {
		l.Remove(-2)
		return true
	}
	l.Pop(1)
	if !create {
		l.Pop(1)
		return false
	}
	l.NewTable()
	l.PushValue(-1)
	l.SetField(-3, id.String())
	l.Remove(-2)
	return true
}

// rawSetField stores the values at key and value in the field table of h.
func (b *Binding) rawSetField(l *lua.State, h *proxy.Handle, key, value int, create bool) {
	if !b.pushFields(l, h, create) {
		return
	}
	l.PushValue(key)
	l.PushValue(value)
	l.RawSet(-3)
	l.Pop(1)
}

func (b *Binding) released(id uuid.UUID) {
	b.stale = append(b.stale, id)
}

// dropFields removes the field tables of released handles.
func (b *Binding) dropFields(l *lua.State) {
	if len(b.stale) == 0 || l == nil {
		return
	}
	l.Field(lua.RegistryIndex, fieldsKey)
	for _, id := range b.stale {
		l.PushNil()
		l.SetField(-2, id.String())
	}
	l.Pop(1)
	b.stale = nil
}

func (b *Binding) index(l *lua.State) int {
	h := checkHandle(l, 1)
	if key, ok := stringKey(l, 2); ok {
		if f, ok := b.methods[key]; ok {
			l.PushGoFunction(f)
			return 1
		}
		if v, ok := h.Field(key); ok && v.Kind != proxy.KindRef {
			b.pushValue(l, v)
			return 1
		}
	}
	if !b.pushFields(l, h, false) {
		l.PushNil()
		return 1
	}
	l.PushValue(2)
	l.RawGet(-2)
	return 1
}

// newIndex keeps string keyed scalars in the handle and everything else in
// its field table.
func (b *Binding) newIndex(l *lua.State) int {
	h, _ := checkVar(l)
	if l.IsNil(2) {
		lua.ArgumentError(l, 2, "table index is nil")
		return 0
	}
	if key, ok := stringKey(l, 2); ok {
		if _, ok := b.methods[key]; ok {
			lua.Errorf(l, "cannot assign to method %s", key)
			return 0
		}
		if v, ok := scalarValue(l, 3); ok {
			h.SetField(key, v)
			l.PushNil()
			b.rawSetField(l, h, 2, l.Top(), false)
			l.Pop(1)
			return 0
		}
		h.SetField(key, proxy.Ref())
	}
	b.rawSetField(l, h, 2, 3, true)
	return 0
}

func (b *Binding) eq(l *lua.State) int {
	ha, hb := checkHandle(l, 1), checkHandle(l, 2)
	va, err := ha.Var()
	if err != nil {
		lua.Errorf(l, "%s", err.Error())
		return 0
	}
	vb, err := hb.Var()
	if err != nil {
		lua.Errorf(l, "%s", err.Error())
		return 0
	}
	l.PushBoolean(va == vb)
	return 1
}

func (b *Binding) toString(l *lua.State) int {
	h, _ := checkVar(l)
	l.PushString(h.String())
	return 1
}

func (b *Binding) setValue(l *lua.State) int {
	_, v := checkVar(l)
	switch l.TypeOf(2) {
	case lua.TypeNumber:
		n, _ := l.ToNumber(2)
		v.SetValue(float32(n))
	case lua.TypeBoolean:
		if l.ToBoolean(2) {
			v.SetInt(1)
		} else {
			v.SetInt(0)
		}
	case lua.TypeString:
		s, _ := l.ToString(2)
		v.SetByString(s)
	default:
		lua.ArgumentError(l, 2, "number, boolean or string expected")
	}
	return 0
}

func (b *Binding) getBool(l *lua.State) int {
	_, v := checkVar(l)
	l.PushBoolean(v.Bool())
	return 1
}

func (b *Binding) getDefault(l *lua.State) int {
	_, v := checkVar(l)
	l.PushString(v.Default())
	return 1
}

func (b *Binding) getFloat(l *lua.State) int {
	_, v := checkVar(l)
	l.PushNumber(float64(v.Value()))
	return 1
}

func (b *Binding) getInt(l *lua.State) int {
	_, v := checkVar(l)
	l.PushInteger(v.Int())
	return 1
}

func (b *Binding) getName(l *lua.State) int {
	_, v := checkVar(l)
	l.PushString(v.Name())
	return 1
}

func (b *Binding) setName(l *lua.State) int {
	h, _ := checkVar(l)
	h.SetName(lua.CheckString(l, 2))
	return 0
}

func (b *Binding) getString(l *lua.State) int {
	_, v := checkVar(l)
	l.PushString(v.String())
	return 1
}

func (b *Binding) setFlags(l *lua.State) int {
	_, v := checkVar(l)
	v.SetFlags(cvar.Flag(lua.CheckInteger(l, 2)))
	return 0
}

func (b *Binding) getFlags(l *lua.State) int {
	_, v := checkVar(l)
	l.PushInteger(int(v.Flags()))
	return 1
}

func (b *Binding) hasFlag(l *lua.State) int {
	_, v := checkVar(l)
	l.PushBoolean(v.IsFlagSet(cvar.Flag(lua.CheckInteger(l, 2))))
	return 1
}

func (b *Binding) setHelpText(l *lua.State) int {
	h, _ := checkVar(l)
	h.SetHelp(lua.CheckString(l, 2))
	return 0
}

func (b *Binding) getHelpText(l *lua.State) int {
	_, v := checkVar(l)
	l.PushString(v.Help())
	return 1
}

func (b *Binding) revert(l *lua.State) int {
	_, v := checkVar(l)
	v.Revert()
	return 0
}

func (b *Binding) getMin(l *lua.State) int {
	_, v := checkVar(l)
	m, ok := v.Min()
	if !ok {
		return 0
	}
	l.PushNumber(float64(m))
	return 1
}

func (b *Binding) setMin(l *lua.State) int {
	_, v := checkVar(l)
	v.SetMin(float32(lua.CheckNumber(l, 2)))
	return 0
}

func (b *Binding) getMax(l *lua.State) int {
	_, v := checkVar(l)
	m, ok := v.Max()
	if !ok {
		return 0
	}
	l.PushNumber(float64(m))
	return 1
}

func (b *Binding) setMax(l *lua.State) int {
	_, v := checkVar(l)
	v.SetMax(float32(lua.CheckNumber(l, 2)))
	return 0
}

// remove detaches the handle and unregisters the variable.
func (b *Binding) remove(l *lua.State) int {
	h, _ := checkVar(l)
	if v := b.cache.Destroy(h); v != nil {
		b.ctx.Cvar.Unregister(v)
	}
	b.dropFields(l)
	return 0
}

func (b *Binding) isCommand(l *lua.State) int {
	_, v := checkVar(l)
	l.PushBoolean(v.IsCommand())
	return 1
}
