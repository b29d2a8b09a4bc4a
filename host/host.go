// SPDX-License-Identifier: GPL-2.0-or-later

// Package host assembles the engine modules a script binding is loaded into.
//
// A server host runs the engine server. Configured players connect through
// loopback channels or local UDP sockets, each with its own client engine. A
// client host runs the client engine connected to a local listen server.
package host

import (
	"io"
	"log"

	"github.com/pkg/errors"

	"gconvar/cmd"
	"gconvar/config"
	"gconvar/conlog"
	"gconvar/cvar"
	"gconvar/cvars"
	"gconvar/engine"
	"gconvar/gametime"
	"gconvar/iface"
	"gconvar/netchan"
)

// endpoint is one side of a player connection.
type endpoint interface {
	netchan.Channel
	io.Closer
	Receive() ([]byte, bool)
}

// remote is a client engine connected to the server.
type remote struct {
	player    *engine.Player
	client    *engine.Client
	serverEnd endpoint
	clientEnd endpoint
}

type Host struct {
	realm   iface.Realm
	vars    *cvar.Registry
	server  *engine.Server
	client  *engine.Client
	remotes []*remote
	console *consoleReader
	limits  *cvars.Host
	time    *gametime.GameTime
}

// New builds a host for realm from cfg.
func New(cfg config.Host, realm iface.Realm) (*Host, error) {
	h := &Host{realm: realm, time: gametime.New()}

	serverVars := cvar.NewRegistry()
	cvars.RegisterServer(serverVars)
	h.server = engine.NewServer(serverVars, cfg.MaxClients)

	if realm == iface.Client {
		h.vars = cvar.NewRegistry()
		cvars.RegisterClient(h.vars)
	} else {
		h.vars = serverVars
	}
	h.limits = cvars.RegisterHost(h.vars)
	if err := addConVars(h.vars, cfg.ConVars, h.execute); err != nil {
		return nil, err
	}
	for _, cv := range serverVars.All() {
		if cv.IsFlagSet(cvar.NOTIFY | cvar.REPLICATED) {
			cv.SetCallback(h.serverVarChanged)
		}
	}

	if realm == iface.Client {
		r, err := h.connect(h.vars, nil, config.TransportLoopback)
		if err != nil {
			return nil, err
		}
		h.client = r.client
	}
	for _, p := range cfg.Players {
		if p.Bot {
			if _, err := h.server.AddBot(p.Name); err != nil {
				h.Close()
				return nil, err
			}
			continue
		}
		vars := cvar.NewRegistry()
		cvars.RegisterClient(vars)
		vars.FindVar("name").SetByString(p.Name)
		if _, err := h.connect(vars, p.UserInfo, p.Transport); err != nil {
			h.Close()
			return nil, err
		}
	}
	return h, nil
}

func addConVars(r *cvar.Registry, cvs []config.ConVar, execute func(string)) error {
	for _, c := range cvs {
		flags, err := c.Flag()
		if err != nil {
			return errors.Wrapf(err, "convar %s", c.Name)
		}
		if c.Command {
			text := c.Value
			_, err = r.AddCommand(c.Name, c.Help, flags, func(_ cmd.Arguments) error {
				execute(text)
				return nil
			})
			if err != nil {
				return err
			}
			continue
		}
		cv, err := r.Register(c.Name, c.Value, flags, c.Help)
		if err != nil {
			return err
		}
		if c.Min != nil {
			cv.SetMin(*c.Min)
		}
		if c.Max != nil {
			cv.SetMax(*c.Max)
		}
		if c.Min != nil || c.Max != nil {
			cv.Revert()
		}
	}
	return nil
}

// dial opens both ends of a player connection.
func dial(name, transport string) (endpoint, endpoint, error) {
	if transport == config.TransportUDP {
		serverEnd, clientEnd, err := netchan.UDPPipe()
		if err != nil {
			return nil, nil, errors.Wrapf(err, "udp transport for %s", name)
		}
		return serverEnd, clientEnd, nil
	}
	serverEnd, clientEnd := netchan.Pipe("loopback:server", "loopback:"+name)
	return serverEnd, clientEnd, nil
}

// connect attaches a client engine using vars to the server. userinfo
// values are set before the client sends its user info.
func (h *Host) connect(vars *cvar.Registry, userinfo map[string]string, transport string) (*remote, error) {
	for k, v := range userinfo {
		if cv := vars.FindVar(k); cv != nil {
			cv.SetByString(v)
			continue
		}
		if _, err := vars.Register(k, v, cvar.USERINFO, ""); err != nil {
			return nil, err
		}
	}
	// client side copies of the replicated server variables
	for _, cv := range h.server.Vars().All() {
		if cv.IsCommand() || !cv.IsFlagSet(cvar.REPLICATED) || vars.Exists(cv.Name()) {
			continue
		}
		if _, err := vars.Register(cv.Name(), cv.String(), cv.Flags()&^cvar.NOTIFY, cv.Help()); err != nil {
			return nil, err
		}
	}

	name := "player"
	if cv := vars.FindVar("name"); cv != nil {
		name = cv.String()
	}
	serverEnd, clientEnd, err := dial(name, transport)
	if err != nil {
		return nil, err
	}
	p, err := h.server.Connect(name, serverEnd)
	if err != nil {
		serverEnd.Close()
		clientEnd.Close()
		return nil, err
	}
	r := &remote{
		player:    p,
		client:    engine.NewClient(vars, clientEnd),
		serverEnd: serverEnd,
		clientEnd: clientEnd,
	}
	r.client.SendUserInfo()
	h.remotes = append(h.remotes, r)
	return r, nil
}

// serverVarChanged announces NOTIFY and forwards REPLICATED variables.
func (h *Host) serverVarChanged(cv *cvar.Var) {
	if cv.IsFlagSet(cvar.NOTIFY) {
		conlog.Printf("\"%s\" changed to \"%s\"\n", cv.Name(), cv.String())
	}
	if !cv.IsFlagSet(cvar.REPLICATED) {
		return
	}
	for _, r := range h.remotes {
		if !r.player.Active() {
			continue
		}
		w := netchan.NewWriter(make([]byte, netchan.SetConVarBufferSize))
		if err := netchan.WriteSetConVar(w, cv.Name(), cv.String()); err != nil {
			log.Printf("replicate %s: %v", cv.Name(), err)
			return
		}
		if !r.serverEnd.SendData(w, true) {
			log.Printf("replicate %s to %s failed", cv.Name(), r.player.Name())
		}
	}
}

// execute runs console text in the realm of the host.
func (h *Host) execute(text string) {
	if h.client != nil {
		h.client.ClientCmd(text)
		return
	}
	h.server.ServerCommand(text + "\n")
}

func (h *Host) Realm() iface.Realm {
	return h.realm
}

// Vars returns the registry of the realm.
func (h *Host) Vars() *cvar.Registry {
	return h.vars
}

func (h *Host) Server() *engine.Server {
	return h.server
}

// Client returns the client engine of a client host, nil on a server.
func (h *Host) Client() *engine.Client {
	return h.client
}

// RemoteVars returns the variables of the client engine of player ent.
func (h *Host) RemoteVars(ent int) (*cvar.Registry, bool) {
	for _, r := range h.remotes {
		if r.player.Active() && r.player.EntIndex() == ent {
			return r.client.Vars(), true
		}
	}
	return nil, false
}

// Modules exposes the cvar system and the engine of the realm under the
// module names used on goos.
func (h *Host) Modules(goos string) iface.Modules {
	m := iface.Modules{}
	m.Expose(iface.CvarModule(goos, h.realm), iface.CvarVersion, h.vars)
	em := iface.EngineModule(goos, h.realm)
	if h.realm == iface.Client {
		m.Expose(em, iface.EngineClientVersion, h.client)
	} else {
		m.Expose(em, iface.EngineServerVersion, h.server)
	}
	return m
}

// UpdateTime advances the host clock. It returns false while the next frame
// would exceed host_maxfps.
func (h *Host) UpdateTime() bool {
	return h.time.UpdateTime(h.limits)
}

// Time returns the host clock.
func (h *Host) Time() *gametime.GameTime {
	return h.time
}

// Frame delivers pending messages and runs the command buffers of all
// engines.
func (h *Host) Frame() error {
	h.readConsole()
	for _, r := range h.remotes {
		for r.player.Active() {
			data, ok := r.serverEnd.Receive()
			if !ok {
				break
			}
			if err := h.server.ProcessClientMessage(r.player.EntIndex(), data); err != nil {
				return errors.Wrapf(err, "client %s", r.player.Name())
			}
		}
		for data, ok := r.clientEnd.Receive(); ok; data, ok = r.clientEnd.Receive() {
			if err := r.client.ProcessServerMessage(data); err != nil {
				return errors.Wrapf(err, "server to %s", r.player.Name())
			}
		}
	}
	if err := h.server.Frame(); err != nil {
		return err
	}
	for _, r := range h.remotes {
		if err := r.client.Frame(); err != nil {
			return err
		}
	}
	h.time.FrameIncrease()
	return nil
}

// Close disconnects all clients.
func (h *Host) Close() {
	for _, r := range h.remotes {
		r.serverEnd.Close()
		r.clientEnd.Close()
	}
	h.remotes = nil
}
