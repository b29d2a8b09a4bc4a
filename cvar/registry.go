// SPDX-License-Identifier: GPL-2.0-or-later

package cvar

import (
	"log"
	"slices"
	"strings"

	"github.com/pkg/errors"

	"gconvar/cbuf"
	"gconvar/cmd"
	"gconvar/conlog"
)

// Registry keeps variables and commands in registration order.
// Names are matched case insensitive against the current name of each
// entry, so a renamed entry is only found by its new name.
type Registry struct {
	vars []*Var
}

// NewRegistry returns a registry with the built-in console commands.
func NewRegistry() *Registry {
	r := &Registry{}
	r.addBuiltins()
	return r
}

func (r *Registry) All() []*Var {
	return slices.Clone(r.vars)
}

// Find returns the variable or command called name.
func (r *Registry) Find(name string) *Var {
	for _, cv := range r.vars {
		if strings.EqualFold(cv.name, name) {
			return cv
		}
	}
	return nil
}

// FindVar only returns variables.
func (r *Registry) FindVar(name string) *Var {
	if cv := r.Find(name); cv != nil && !cv.command {
		return cv
	}
	return nil
}

// FindCommand only returns commands.
func (r *Registry) FindCommand(name string) *Var {
	if cv := r.Find(name); cv != nil && cv.command {
		return cv
	}
	return nil
}

func (r *Registry) Exists(name string) bool {
	return r.Find(name) != nil
}

// Add registers an existing variable or command.
func (r *Registry) Add(cv *Var) error {
	if r.Exists(cv.name) {
		return errors.Errorf("Can't register %s, already defined", cv.name)
	}
	cv.flags &^= UNREGISTERED
	r.vars = append(r.vars, cv)
	return nil
}

func (r *Registry) Register(name, value string, flags Flag, help string) (*Var, error) {
	cv := New(name, value, flags, help)
	if err := r.Add(cv); err != nil {
		return nil, err
	}
	return cv, nil
}

func (r *Registry) MustRegister(name, value string, flags Flag, help string) *Var {
	cv, err := r.Register(name, value, flags, help)
	if err != nil {
		log.Panic(err)
	}
	return cv
}

func (r *Registry) AddCommand(name, help string, flags Flag, f CommandFunc) (*Var, error) {
	cv := NewCommand(name, help, flags, f)
	if err := r.Add(cv); err != nil {
		return nil, err
	}
	return cv, nil
}

func (r *Registry) mustAddCommand(name, help string, f CommandFunc) {
	if _, err := r.AddCommand(name, help, NONE, f); err != nil {
		log.Panic(err)
	}
}

// Unregister removes cv from the registry. The Var itself stays usable by
// whoever still holds it.
func (r *Registry) Unregister(cv *Var) {
	i := slices.Index(r.vars, cv)
	if i < 0 {
		return
	}
	r.vars = slices.Delete(r.vars, i, i+1)
	cv.flags |= UNREGISTERED
}

// Execute is the console executor: commands are dispatched, variables are
// printed without an argument and set with one.
func (r *Registry) Execute(a cmd.Arguments) (bool, error) {
	args := a.Args()
	if len(args) == 0 {
		return false, nil
	}
	cv := r.Find(args[0].String())
	if cv == nil {
		return false, nil
	}
	if cv.command {
		return true, cv.Dispatch(a)
	}
	if len(args) == 1 {
		conlog.Printf("\"%s\" is \"%s\"\n", cv.Name(), cv.String())
		return true, nil
	}
	cv.SetByString(args[1].String())
	return true, nil
}

// Executor adapts Execute to a command buffer.
func (r *Registry) Executor() cbuf.Efunc {
	return func(_ *cbuf.CommandBuffer, a cmd.Arguments) (bool, error) {
		return r.Execute(a)
	}
}
