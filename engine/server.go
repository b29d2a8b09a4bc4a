// SPDX-License-Identifier: GPL-2.0-or-later

// Package engine is the engine module: the server side with its player
// slots and the client side with its connection to a server.
package engine

import (
	"log"
	"strings"

	"github.com/pkg/errors"

	"gconvar/alias"
	"gconvar/cbuf"
	"gconvar/cmd"
	"gconvar/conlog"
	"gconvar/cvar"
	"gconvar/netchan"
)

// Player is one server slot. The entity index is the slot number plus one.
type Player struct {
	active   bool
	fake     bool
	edictId  int
	name     string
	channel  netchan.Channel
	userinfo map[string]string
}

func (p *Player) EntIndex() int {
	return p.edictId
}

func (p *Player) Name() string {
	return p.name
}

// Fake reports whether the player is a bot.
func (p *Player) Fake() bool {
	return p.fake
}

func (p *Player) Active() bool {
	return p.active
}

type Server struct {
	vars    *cvar.Registry
	buf     cbuf.CommandBuffer
	players []*Player
}

func NewServer(vars *cvar.Registry, maxClients int) *Server {
	s := &Server{
		vars:    vars,
		players: make([]*Player, maxClients),
	}
	for i := range s.players {
		s.players[i] = &Player{edictId: i + 1}
	}
	s.buf.SetCommandExecutors([]cbuf.Efunc{vars.Executor(), newAliases(vars)})
	return s
}

func (s *Server) Vars() *cvar.Registry {
	return s.vars
}

func (s *Server) connect(name string, ch netchan.Channel, fake bool) (*Player, error) {
	for _, p := range s.players {
		if p.active {
			continue
		}
		p.active = true
		p.fake = fake
		p.name = name
		p.channel = ch
		p.userinfo = map[string]string{"name": name}
		log.Printf("Client %s connected as %d", name, p.edictId)
		return p, nil
	}
	return nil, errors.Errorf("no free player slot for %s", name)
}

// Connect puts a client with a network channel into the first free slot.
func (s *Server) Connect(name string, ch netchan.Channel) (*Player, error) {
	if ch == nil {
		return nil, errors.Errorf("client %s has no channel", name)
	}
	return s.connect(name, ch, false)
}

// AddBot puts a player without a network channel into the first free slot.
func (s *Server) AddBot(name string) (*Player, error) {
	return s.connect(name, nil, true)
}

func (s *Server) Disconnect(ent int) {
	p, ok := s.Player(ent)
	if !ok {
		return
	}
	log.Printf("Client %s removed", p.name)
	*p = Player{edictId: p.edictId}
}

// Player returns the active player with entity index ent.
func (s *Server) Player(ent int) (*Player, bool) {
	if ent < 1 || ent > len(s.players) {
		return nil, false
	}
	p := s.players[ent-1]
	return p, p.active
}

func (s *Server) Players() []*Player {
	var r []*Player
	for _, p := range s.players {
		if p.active {
			r = append(r, p)
		}
	}
	return r
}

// ServerCommand queues text for the next Frame. Commands have to end in a
// newline or semicolon.
func (s *Server) ServerCommand(text string) {
	if !strings.HasSuffix(text, "\n") && !strings.HasSuffix(text, ";") {
		log.Printf("ServerCommand: command %q not terminated", text)
		conlog.Printf("ServerCommand: command not terminated\n")
		return
	}
	s.buf.AddText(text)
}

// Frame executes the queued commands.
func (s *Server) Frame() error {
	return s.buf.Execute()
}

// GetClientConVarValue returns the value a client reported for name or an
// empty string.
func (s *Server) GetClientConVarValue(ent int, name string) string {
	p, ok := s.Player(ent)
	if !ok {
		return ""
	}
	return p.userinfo[name]
}

// NetChannel returns the channel of a connected client, nil for bots and
// empty slots.
func (s *Server) NetChannel(ent int) netchan.Channel {
	p, ok := s.Player(ent)
	if !ok || p.channel == nil {
		return nil
	}
	return p.channel
}

// ProcessClientMessage handles a message the client with index ent sent.
func (s *Server) ProcessClientMessage(ent int, data []byte) error {
	p, ok := s.Player(ent)
	if !ok {
		return errors.Errorf("message from unknown client %d", ent)
	}
	r := netchan.NewReader(data)
	for {
		t, ok, err := netchan.ReadType(r)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		switch t {
		case netchan.NetNop:
		case netchan.NetDisconnect:
			s.Disconnect(ent)
			return nil
		case netchan.NetSetConVar:
			name, value, err := netchan.ReadSetConVar(r)
			if err != nil {
				return errors.Wrapf(err, "SetConVar from %s", p.name)
			}
			p.userinfo[name] = value
			if name == "name" {
				p.name = value
			}
		case netchan.NetStringCmd:
			c, err := netchan.ReadStringCmd(r)
			if err != nil {
				return errors.Wrapf(err, "StringCmd from %s", p.name)
			}
			s.clientCommand(p, c)
		default:
			return errors.Errorf("illegal client message %d from %s", t, p.name)
		}
	}
}

// clientCommand runs what a client asks for. Only commands flagged
// CLIENTCMDEXEC may be run remotely.
func (s *Server) clientCommand(p *Player, c string) {
	a := cmd.Parse(c)
	if len(a.Args()) == 0 {
		return
	}
	cv := s.vars.FindCommand(a.Argv(0).String())
	if cv == nil || !cv.IsFlagSet(cvar.CLIENTCMDEXEC) {
		conlog.Printf("%s tried to %s\n", p.name, c)
		return
	}
	if err := cv.Dispatch(a); err != nil {
		log.Printf("client command %q: %v", c, err)
	}
}

// newAliases registers the alias commands on vars and returns their
// executor. A registry shared by two engines keeps the aliases of the first.
func newAliases(vars *cvar.Registry) cbuf.Efunc {
	al := alias.New()
	if err := al.Register(vars); err != nil {
		log.Printf("aliases: %v", err)
	}
	return al.Execute()
}
