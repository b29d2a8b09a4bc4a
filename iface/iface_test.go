// SPDX-License-Identifier: GPL-2.0-or-later

package iface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gconvar/cvar"
	"gconvar/engine"
)

func TestModuleNames(t *testing.T) {
	for _, tc := range []struct {
		goos   string
		realm  Realm
		cvar   string
		engine string
	}{
		{"linux", Server, "libvstdlib_srv.so", "engine_srv.so"},
		{"linux", Client, "libvstdlib.so", "engine.so"},
		{"windows", Server, "vstdlib.dll", "engine.dll"},
		{"windows", Client, "vstdlib.dll", "engine.dll"},
		{"darwin", Client, "libvstdlib.dylib", "engine.dylib"},
	} {
		assert.Equal(t, tc.cvar, CvarModule(tc.goos, tc.realm), "%s %s", tc.goos, tc.realm)
		assert.Equal(t, tc.engine, EngineModule(tc.goos, tc.realm), "%s %s", tc.goos, tc.realm)
	}
}

func serverModules() (Modules, *cvar.Registry) {
	vars := cvar.NewRegistry()
	m := Modules{}
	m.Expose("libvstdlib_srv.so", CvarVersion, vars)
	m.Expose("engine_srv.so", EngineServerVersion, engine.NewServer(vars, 4))
	return m, vars
}

func TestResolveServer(t *testing.T) {
	m, vars := serverModules()
	ctx, err := Resolve(m, "linux", Server)
	require.NoError(t, err)
	assert.Equal(t, Server, ctx.Realm)
	assert.Same(t, vars, ctx.Cvar)
	assert.NotNil(t, ctx.Server)
	assert.Nil(t, ctx.Client)
}

func TestResolveClient(t *testing.T) {
	vars := cvar.NewRegistry()
	m := Modules{}
	m.Expose("vstdlib.dll", CvarVersion, vars)
	m.Expose("engine.dll", EngineClientVersion, engine.NewClient(vars, nil))
	ctx, err := Resolve(m, "windows", Client)
	require.NoError(t, err)
	assert.NotNil(t, ctx.Client)
	assert.Nil(t, ctx.Server)
}

func TestResolveFailures(t *testing.T) {
	_, err := Resolve(Modules{}, "linux", Server)
	assert.ErrorContains(t, err, "libvstdlib_srv.so")

	m, _ := serverModules()
	_, err = Resolve(m, "linux", Client)
	assert.ErrorContains(t, err, "libvstdlib.so", "client build looks for other modules")

	m, vars := serverModules()
	m.Expose("libvstdlib_srv.so", "VEngineCvar004", vars)
	delete(m["libvstdlib_srv.so"], CvarVersion)
	_, err = Resolve(m, "linux", Server)
	assert.ErrorContains(t, err, CvarVersion)

	m, _ = serverModules()
	m.Expose("engine_srv.so", EngineServerVersion, "not an engine")
	_, err = Resolve(m, "linux", Server)
	assert.ErrorContains(t, err, "has type string")
}
