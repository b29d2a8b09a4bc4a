// SPDX-License-Identifier: GPL-2.0-or-later
package alias

import (
	"sort"
	"strings"

	"gconvar/cbuf"
	"gconvar/cmd"
	"gconvar/conlog"
	"gconvar/cvar"
)

// Aliases are named command texts, run by typing the name.
type Aliases struct {
	aliases map[string]string
}

func New() *Aliases {
	return &Aliases{
		aliases: make(map[string]string),
	}
}

// Register adds the alias, unalias and unaliasall commands to r.
func (al *Aliases) Register(r *cvar.Registry) error {
	if _, err := r.AddCommand("alias", "Show or set an alias", cvar.NONE, al.alias); err != nil {
		return err
	}
	if _, err := r.AddCommand("unalias", "Delete an alias", cvar.NONE, al.unalias); err != nil {
		return err
	}
	if _, err := r.AddCommand("unaliasall", "Delete all aliases", cvar.NONE, al.unaliasAll); err != nil {
		return err
	}
	return nil
}

func (al *Aliases) alias(a cmd.Arguments) error {
	args := a.Args()[1:]
	switch c := len(args); c {
	case 0:
		al.list()
	case 1:
		al.print(args[0].String())
	default:
		al.set(args)
	}
	return nil
}

func (al *Aliases) list() {
	if len(al.aliases) == 0 {
		conlog.SafePrintf("no alias commands found\n")
		return
	}
	names := make([]string, 0, len(al.aliases))
	for k := range al.aliases {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		// each alias value ends with a '\n'
		conlog.SafePrintf("  %s: %s", k, al.aliases[k])
	}
	conlog.SafePrintf("%v alias command(s)\n", len(al.aliases))
}

func (al *Aliases) print(name string) {
	if v, ok := al.aliases[name]; ok {
		conlog.Printf("  %s: %s", name, v)
	}
}

func (al *Aliases) set(args []cmd.QArg) {
	// the parts have '"' already removed
	parts := make([]string, 0, len(args)-1)
	for _, a := range args[1:] {
		parts = append(parts, a.String())
	}
	command := strings.Join(parts, " ")
	al.aliases[args[0].String()] = strings.TrimSpace(command) + "\n"
}

func (al *Aliases) unalias(a cmd.Arguments) error {
	args := a.Args()[1:]
	switch c := len(args); c {
	case 1:
		name := args[0].String()
		if _, ok := al.aliases[name]; ok {
			delete(al.aliases, name)
		} else {
			conlog.Printf("No alias named %s\n", name)
		}
	default:
		conlog.Printf("unalias <name> : delete alias\n")
	}
	return nil
}

func (al *Aliases) unaliasAll(_ cmd.Arguments) error {
	al.aliases = make(map[string]string)
	return nil
}

func (al *Aliases) Get(name string) (string, bool) {
	a, ok := al.aliases[name]
	return a, ok
}

// Execute returns the executor running aliases.
func (al *Aliases) Execute() cbuf.Efunc {
	return func(cb *cbuf.CommandBuffer, a cmd.Arguments) (bool, error) {
		args := a.Args()
		if len(args) == 0 {
			return false, nil
		}
		if v, ok := al.Get(args[0].String()); ok {
			cb.InsertText(v)
			return true, nil
		}
		return false, nil
	}
}
