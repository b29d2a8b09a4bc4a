// SPDX-License-Identifier: GPL-2.0-or-later

package cvar

import (
	"log"
	"sort"
	"strings"

	"gconvar/cmd"
	"gconvar/conlog"
)

func (r *Registry) addBuiltins() {
	r.mustAddCommand("cvarlist", "Show the list of convars", r.cvarList)
	r.mustAddCommand("cmdlist", "Show the list of commands", r.cmdList)
	r.mustAddCommand("cycle", "Cycle a convar through a list of values", r.cycle)
	r.mustAddCommand("help", "Find help about a convar or command", r.help)
	r.mustAddCommand("inc", "Increment a convar", r.inc)
	r.mustAddCommand("reset", "Reset a convar to its default", r.reset)
	r.mustAddCommand("resetall", "Reset all convars to their default", r.resetAll)
	r.mustAddCommand("set", "Set or create a convar", r.set)
	r.mustAddCommand("toggle", "Toggle a convar between 0 and 1", r.toggle)
}

func (r *Registry) set(a cmd.Arguments) error {
	args := a.Args()[1:]
	switch {
	case len(args) >= 2:
		name := args[0].String()
		if r.FindCommand(name) != nil {
			conlog.Printf("conflict with command\n")
			return nil
		}
		if cv := r.FindVar(name); cv != nil {
			cv.SetByString(args[1].String())
			return nil
		}
		_, err := r.Register(name, args[1].String(), NONE, "")
		return err
	default:
		conlog.Printf("set <cvar> <value>\n")
	}
	return nil
}

func (r *Registry) toggle(a cmd.Arguments) error {
	args := a.Args()[1:]
	switch len(args) {
	case 1:
		arg := args[0].String()
		if cv := r.FindVar(arg); cv != nil {
			cv.Toggle()
		} else {
			log.Printf("toggle: Cvar not found %v", arg)
			conlog.Printf("toggle: variable %v not found\n", arg)
		}
	default:
		conlog.Printf("toggle <cvar> : toggle cvar\n")
	}
	return nil
}

func (r *Registry) incr(n string, v float32) {
	if cv := r.FindVar(n); cv != nil {
		cv.SetValue(cv.Value() + v)
	} else {
		log.Printf("Cvar not found %v", n)
		conlog.Printf("inc: variable %v not found\n", n)
	}
}

func (r *Registry) inc(a cmd.Arguments) error {
	args := a.Args()[1:]
	switch len(args) {
	case 1:
		r.incr(args[0].String(), 1)
	case 2:
		r.incr(args[0].String(), args[1].Float32())
	default:
		conlog.Printf("inc <cvar> [amount] : increment cvar\n")
	}
	return nil
}

func (r *Registry) reset(a cmd.Arguments) error {
	args := a.Args()[1:]
	switch len(args) {
	case 1:
		arg := args[0].String()
		if cv := r.FindVar(arg); cv != nil {
			cv.Revert()
		} else {
			log.Printf("Cvar not found %v", arg)
			conlog.Printf("reset: variable %v not found\n", arg)
		}
	default:
		conlog.Printf("reset <cvar> : reset cvar to default\n")
	}
	return nil
}

func (r *Registry) resetAll(_ cmd.Arguments) error {
	for _, cv := range r.vars {
		cv.Revert()
	}
	return nil
}

func (r *Registry) help(a cmd.Arguments) error {
	args := a.Args()[1:]
	if len(args) != 1 {
		conlog.Printf("help <cvar or command> : show help text\n")
		return nil
	}
	cv := r.Find(args[0].String())
	if cv == nil {
		conlog.Printf("help: no cvar or command named %s\n", args[0].String())
		return nil
	}
	if cv.command {
		conlog.Printf("\"%s\"\n", cv.Name())
	} else {
		conlog.Printf("\"%s\" = \"%s\" ( def. \"%s\" )\n", cv.Name(), cv.String(), cv.Default())
	}
	if cv.flags != NONE {
		conlog.Printf(" %s\n", cv.flags)
	}
	if cv.help != "" {
		conlog.Printf(" - %s\n", cv.help)
	}
	return nil
}

func (r *Registry) cycle(a cmd.Arguments) error {
	args := a.Args()[1:]
	if len(args) < 2 {
		conlog.Printf("cycle <cvar> <value list>: cycle cvar through a list of values\n")
		return nil
	}
	cv := r.FindVar(args[0].String())
	if cv == nil {
		conlog.Printf("cycle: variable %v not found\n", args[0].String())
		return nil
	}
	oldValue := cv.String()
	i := 0
	for i < len(args)-1 {
		i++
		if oldValue == args[i].String() {
			break
		}
	}
	i %= len(args) - 1
	i++
	cv.SetByString(args[i].String())
	return nil
}

func (r *Registry) names(command bool, prefix string) []string {
	var l []string
	for _, cv := range r.vars {
		if cv.command == command && strings.HasPrefix(strings.ToLower(cv.name), prefix) {
			l = append(l, cv.name)
		}
	}
	sort.Strings(l)
	return l
}

func (r *Registry) cvarList(a cmd.Arguments) error {
	prefix := strings.ToLower(a.Argv(1).String())
	l := r.names(false, prefix)
	for _, n := range l {
		cv := r.FindVar(n)
		conlog.SafePrintf("%s%s %s \"%s\"\n",
			func() string {
				if cv.IsFlagSet(ARCHIVE) {
					return "*"
				}
				return " "
			}(),
			func() string {
				if cv.IsFlagSet(NOTIFY) {
					return "s"
				}
				return " "
			}(),
			cv.Name(),
			cv.String())
	}
	if prefix != "" {
		conlog.SafePrintf("%v cvars beginning with \"%v\"\n", len(l), prefix)
		return nil
	}
	conlog.SafePrintf("%v cvars\n", len(l))
	return nil
}

func (r *Registry) cmdList(a cmd.Arguments) error {
	prefix := strings.ToLower(a.Argv(1).String())
	l := r.names(true, prefix)
	for _, n := range l {
		conlog.SafePrintf("  %s\n", n)
	}
	if prefix != "" {
		conlog.SafePrintf("%v commands beginning with \"%v\"\n", len(l), prefix)
		return nil
	}
	conlog.SafePrintf("%v commands\n", len(l))
	return nil
}
