// SPDX-License-Identifier: GPL-2.0-or-later

// Package iface finds the versioned interfaces the binding needs in the
// modules of the host process.
package iface

import (
	"log"

	"github.com/pkg/errors"

	"gconvar/cvar"
	"gconvar/netchan"
)

type Realm int

const (
	Server Realm = iota
	Client
)

func (r Realm) String() string {
	if r == Client {
		return "client"
	}
	return "server"
}

const (
	CvarVersion         = "VEngineCvar007"
	EngineServerVersion = "VEngineServer021"
	EngineClientVersion = "VEngineClient015"
)

// CvarSystem is the registry shared by variables and commands.
type CvarSystem interface {
	Find(name string) *cvar.Var
	All() []*cvar.Var
	Unregister(cv *cvar.Var)
}

type EngineServer interface {
	// ServerCommand queues a newline terminated command.
	ServerCommand(text string)
	GetClientConVarValue(ent int, name string) string
	// NetChannel returns nil when the client has no connection.
	NetChannel(ent int) netchan.Channel
}

type EngineClient interface {
	ClientCmd(text string)
	ServerCmd(text string) bool
}

// Factory returns the interface implementing version or nil.
type Factory func(version string) any

// Loader opens modules of the host process by file name.
type Loader interface {
	Open(module string) (Factory, error)
}

// Context holds the resolved interfaces. Exactly one of Server and Client
// is set, depending on Realm.
type Context struct {
	Realm  Realm
	Cvar   CvarSystem
	Server EngineServer
	Client EngineClient
}

func EngineVersion(realm Realm) string {
	if realm == Client {
		return EngineClientVersion
	}
	return EngineServerVersion
}

func lookup(l Loader, module, version string) (any, error) {
	f, err := l.Open(module)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open %s", module)
	}
	i := f(version)
	if i == nil {
		return nil, errors.Errorf("%s does not provide %s", module, version)
	}
	return i, nil
}

// Resolve looks up the cvar and engine interfaces once. Any failure is
// fatal for the binding.
func Resolve(l Loader, goos string, realm Realm) (*Context, error) {
	ctx := &Context{Realm: realm}

	cm := CvarModule(goos, realm)
	i, err := lookup(l, cm, CvarVersion)
	if err != nil {
		return nil, err
	}
	cs, ok := i.(CvarSystem)
	if !ok {
		return nil, errors.Errorf("%s from %s has type %T", CvarVersion, cm, i)
	}
	ctx.Cvar = cs

	em := EngineModule(goos, realm)
	ev := EngineVersion(realm)
	i, err = lookup(l, em, ev)
	if err != nil {
		return nil, err
	}
	switch realm {
	case Client:
		ec, ok := i.(EngineClient)
		if !ok {
			return nil, errors.Errorf("%s from %s has type %T", ev, em, i)
		}
		ctx.Client = ec
	default:
		es, ok := i.(EngineServer)
		if !ok {
			return nil, errors.Errorf("%s from %s has type %T", ev, em, i)
		}
		ctx.Server = es
	}
	log.Printf("Resolved %s from %s and %s from %s", CvarVersion, cm, ev, em)
	return ctx, nil
}
