// SPDX-License-Identifier: GPL-2.0-or-later

package cvar

import (
	"strings"

	"github.com/pkg/errors"
)

type Flag uint32

const (
	// cvar flags bitfield
	NONE            Flag = 0
	UNREGISTERED    Flag = 1
	DEVELOPMENTONLY Flag = 1 << 1
	GAMEDLL         Flag = 1 << 2
	CLIENTDLL       Flag = 1 << 3
	HIDDEN          Flag = 1 << 4
	PROTECTED       Flag = 1 << 5 // value is never sent to clients
	SPONLY          Flag = 1 << 6
	ARCHIVE         Flag = 1 << 7
	NOTIFY          Flag = 1 << 8
	USERINFO        Flag = 1 << 9 // client var replicated to the server
	PRINTABLEONLY   Flag = 1 << 10
	UNLOGGED        Flag = 1 << 11
	NEVERASSTRING   Flag = 1 << 12
	REPLICATED      Flag = 1 << 13 // server var replicated to clients
	CHEAT           Flag = 1 << 14
	DEMO            Flag = 1 << 16
	DONTRECORD      Flag = 1 << 17
	NOTCONNECTED    Flag = 1 << 22
	ARCHIVEXBOX     Flag = 1 << 24
	SERVERCANEXEC   Flag = 1 << 28
	SERVERNOQUERY   Flag = 1 << 29
	CLIENTCMDEXEC   Flag = 1 << 30
)

var flagNames = []struct {
	name string
	flag Flag
}{
	{"unregistered", UNREGISTERED},
	{"developmentonly", DEVELOPMENTONLY},
	{"gamedll", GAMEDLL},
	{"clientdll", CLIENTDLL},
	{"hidden", HIDDEN},
	{"protected", PROTECTED},
	{"sponly", SPONLY},
	{"archive", ARCHIVE},
	{"notify", NOTIFY},
	{"userinfo", USERINFO},
	{"printableonly", PRINTABLEONLY},
	{"unlogged", UNLOGGED},
	{"never_as_string", NEVERASSTRING},
	{"replicated", REPLICATED},
	{"cheat", CHEAT},
	{"demo", DEMO},
	{"dontrecord", DONTRECORD},
	{"not_connected", NOTCONNECTED},
	{"archive_xbox", ARCHIVEXBOX},
	{"server_can_execute", SERVERCANEXEC},
	{"server_cannot_query", SERVERNOQUERY},
	{"clientcmd_can_execute", CLIENTCMDEXEC},
}

// FlagNames calls f for every named flag in bit order.
func FlagNames(f func(name string, flag Flag)) {
	for _, n := range flagNames {
		f(n.name, n.flag)
	}
}

// ParseFlags converts a list of flag names into a bit set.
func ParseFlags(names []string) (Flag, error) {
	var r Flag
Names:
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		for _, fn := range flagNames {
			if fn.name == n {
				r |= fn.flag
				continue Names
			}
		}
		return 0, errors.Errorf("unknown cvar flag %q", n)
	}
	return r, nil
}

func (f Flag) String() string {
	var s []string
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			s = append(s, fn.name)
		}
	}
	return strings.Join(s, " ")
}
