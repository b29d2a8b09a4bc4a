// SPDX-License-Identifier: GPL-2.0-or-later

package iface

import (
	"github.com/pkg/errors"
)

// CvarModule returns the file name of the module exporting the cvar system.
func CvarModule(goos string, realm Realm) string {
	switch goos {
	case "windows":
		return "vstdlib.dll"
	case "darwin":
		return "libvstdlib.dylib"
	}
	if realm == Server {
		return "libvstdlib_srv.so"
	}
	return "libvstdlib.so"
}

// EngineModule returns the file name of the engine module.
func EngineModule(goos string, realm Realm) string {
	switch goos {
	case "windows":
		return "engine.dll"
	case "darwin":
		return "engine.dylib"
	}
	if realm == Server {
		return "engine_srv.so"
	}
	return "engine.so"
}

// Modules is a Loader over modules that live in this process.
type Modules map[string]map[string]any

// Expose makes impl available as version of module.
func (m Modules) Expose(module, version string, impl any) {
	if m[module] == nil {
		m[module] = make(map[string]any)
	}
	m[module][version] = impl
}

func (m Modules) Open(module string) (Factory, error) {
	versions, ok := m[module]
	if !ok {
		return nil, errors.Errorf("module %s not loaded", module)
	}
	return func(version string) any {
		return versions[version]
	}, nil
}
