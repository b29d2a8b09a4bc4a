// SPDX-License-Identifier: GPL-2.0-or-later

// Package proxy hands out script handles for engine variables.
//
// Each *cvar.Var has at most one live Handle. Renames and help text changes
// done through a handle are undone when the handle goes away, be it by
// Destroy, by the garbage collector or by Cache.Close.
package proxy

import (
	"fmt"
	"weak"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"gconvar/cvar"
)

const (
	MaxNameLength = 63
	MaxHelpLength = 255
)

var ErrInvalidHandle = errors.New("invalid convar handle")

type override struct {
	original string
	value    string
	active   bool
}

func (o *override) set(s string, max int) string {
	if len(s) > max {
		s = s[:max]
	}
	o.value = s
	o.active = true
	return s
}

// lease is the part of a handle the cache keeps. It must not reference the
// handle strongly or the handle would never be collected.
type lease struct {
	id       uuid.UUID
	v        *cvar.Var
	handle   weak.Pointer[Handle]
	name     override
	help     override
	released bool
}

func (l *lease) restore() {
	l.v.SetName(l.name.original)
	l.v.SetHelp(l.help.original)
}

type Handle struct {
	l      *lease
	fields map[string]Value
}

// Var returns the variable the handle refers to.
func (h *Handle) Var() (*cvar.Var, error) {
	if h == nil || h.l == nil || h.l.released {
		return nil, ErrInvalidHandle
	}
	return h.l.v, nil
}

func (h *Handle) Valid() bool {
	_, err := h.Var()
	return err == nil
}

// SetName renames the variable for everyone, including lookups by name.
// Names are cut to MaxNameLength bytes.
func (h *Handle) SetName(n string) error {
	v, err := h.Var()
	if err != nil {
		return err
	}
	v.SetName(h.l.name.set(n, MaxNameLength))
	return nil
}

// SetHelp replaces the help text, cut to MaxHelpLength bytes.
func (h *Handle) SetHelp(s string) error {
	v, err := h.Var()
	if err != nil {
		return err
	}
	v.SetHelp(h.l.help.set(s, MaxHelpLength))
	return nil
}

// ID identifies the handle until it is released. It is uuid.Nil for a
// destroyed handle.
func (h *Handle) ID() uuid.UUID {
	if h == nil || h.l == nil {
		return uuid.Nil
	}
	return h.l.id
}

// OriginalName returns the name the variable had when the handle was made.
func (h *Handle) OriginalName() string {
	if h == nil || h.l == nil {
		return ""
	}
	return h.l.name.original
}

func (h *Handle) String() string {
	v, err := h.Var()
	if err != nil {
		return "convar: NULL"
	}
	return fmt.Sprintf("convar: %p", v)
}

// Equal compares the variables behind two handles.
func Equal(a, b *Handle) bool {
	va, erra := a.Var()
	vb, errb := b.Var()
	if erra != nil || errb != nil {
		return false
	}
	return va == vb
}

// Field returns a script assigned value.
func (h *Handle) Field(key string) (Value, bool) {
	v, ok := h.fields[key]
	return v, ok
}

// SetField stores a script assigned value. A nil value removes the key.
// Fields are dropped when the handle is released.
func (h *Handle) SetField(key string, v Value) {
	if v.Kind == KindNil {
		delete(h.fields, key)
		return
	}
	if h.fields == nil {
		h.fields = make(map[string]Value)
	}
	h.fields[key] = v
}
