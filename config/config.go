// SPDX-License-Identifier: GPL-2.0-or-later

package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"gconvar/cvar"
)

// Host describes the process the scripts run in.
type Host struct {
	// Server player slots
	MaxClients int `yaml:"max_clients"`

	ConVars []ConVar `yaml:"convars"`

	// Players connected at startup, server only
	Players []Player `yaml:"players"`
}

// ConVar is a variable registered in addition to the defaults. With Command
// set it is a command running Value as console text.
type ConVar struct {
	Name    string   `yaml:"name"`
	Value   string   `yaml:"value"`
	Help    string   `yaml:"help"`
	Flags   []string `yaml:"flags"`
	Min     *float32 `yaml:"min"`
	Max     *float32 `yaml:"max"`
	Command bool     `yaml:"command"`
}

// Flag returns the parsed Flags.
func (c ConVar) Flag() (cvar.Flag, error) {
	return cvar.ParseFlags(c.Flags)
}

// Transports a player's client engine can connect over.
const (
	TransportLoopback = "loopback"
	TransportUDP      = "udp"
)

type Player struct {
	Name     string            `yaml:"name"`
	Bot      bool              `yaml:"bot"`
	UserInfo map[string]string `yaml:"userinfo"`
	// TransportLoopback if empty
	Transport string `yaml:"transport"`
}

func DefaultHost() Host {
	return Host{
		MaxClients: 8,
	}
}

// Load reads the host config from a YAML file.
// If the file doesn't exist, returns defaults.
func Load(path string) (Host, error) {
	cfg := DefaultHost()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "reading config %s", path)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config %s", path)
	}
	if err := cfg.validate(); err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}

	return cfg, nil
}

func (h Host) validate() error {
	if h.MaxClients < 1 {
		return errors.Errorf("max_clients must be positive, got %d", h.MaxClients)
	}
	if len(h.Players) > h.MaxClients {
		return errors.Errorf("%d players do not fit into %d slots", len(h.Players), h.MaxClients)
	}
	for _, c := range h.ConVars {
		if c.Name == "" {
			return errors.New("convar without name")
		}
		if _, err := c.Flag(); err != nil {
			return errors.Wrapf(err, "convar %s", c.Name)
		}
		if c.Min != nil && c.Max != nil && *c.Min > *c.Max {
			return errors.Errorf("convar %s: min %v above max %v", c.Name, *c.Min, *c.Max)
		}
	}
	for _, p := range h.Players {
		if p.Name == "" {
			return errors.New("player without name")
		}
		switch p.Transport {
		case "", TransportLoopback, TransportUDP:
		default:
			return errors.Errorf("player %s: unknown transport %q", p.Name, p.Transport)
		}
	}
	return nil
}
