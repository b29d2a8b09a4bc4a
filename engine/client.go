// SPDX-License-Identifier: GPL-2.0-or-later

package engine

import (
	"log"

	"github.com/pkg/errors"

	"gconvar/cbuf"
	"gconvar/cvar"
	"gconvar/netchan"
)

// Client is the client side engine. It has its own variables and at most
// one connection to a server.
type Client struct {
	vars   *cvar.Registry
	buf    cbuf.CommandBuffer
	server netchan.Channel
}

// NewClient creates a client engine. server may be nil while not connected.
// Variables flagged USERINFO at this point are sent to the server whenever
// they change.
func NewClient(vars *cvar.Registry, server netchan.Channel) *Client {
	c := &Client{
		vars:   vars,
		server: server,
	}
	c.buf.SetCommandExecutors([]cbuf.Efunc{vars.Executor(), newAliases(vars)})
	for _, cv := range vars.All() {
		if cv.IsFlagSet(cvar.USERINFO) {
			cv.SetCallback(c.userInfoChanged)
		}
	}
	return c
}

func (c *Client) Vars() *cvar.Registry {
	return c.vars
}

func (c *Client) Connected() bool {
	return c.server != nil
}

// ClientCmd queues text for local execution.
func (c *Client) ClientCmd(text string) {
	c.buf.AddText(text)
	c.buf.AddText("\n")
}

func (c *Client) Frame() error {
	return c.buf.Execute()
}

// ServerCmd sends text to the server for execution there.
func (c *Client) ServerCmd(text string) bool {
	if c.server == nil {
		log.Printf("ServerCmd %q: not connected", text)
		return false
	}
	w := netchan.NewWriter(make([]byte, netchan.SetConVarBufferSize))
	if err := netchan.WriteStringCmd(w, text); err != nil {
		log.Printf("ServerCmd %q: %v", text, err)
		return false
	}
	return c.server.SendData(w, true)
}

func (c *Client) sendConVar(name, value string) bool {
	if c.server == nil {
		return false
	}
	w := netchan.NewWriter(make([]byte, netchan.SetConVarBufferSize))
	if err := netchan.WriteSetConVar(w, name, value); err != nil {
		log.Printf("SetConVar %s: %v", name, err)
		return false
	}
	return c.server.SendData(w, true)
}

func (c *Client) userInfoChanged(cv *cvar.Var) {
	c.sendConVar(cv.Name(), cv.String())
}

// SendUserInfo sends every USERINFO variable to the server.
func (c *Client) SendUserInfo() bool {
	ok := true
	for _, cv := range c.vars.All() {
		if cv.IsFlagSet(cvar.USERINFO) && !cv.IsCommand() {
			ok = c.sendConVar(cv.Name(), cv.String()) && ok
		}
	}
	return ok
}

// ProcessServerMessage handles a message from the server.
func (c *Client) ProcessServerMessage(data []byte) error {
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
			c.server = nil
			return nil
		case netchan.NetSetConVar:
			name, value, err := netchan.ReadSetConVar(r)
			if err != nil {
				return errors.Wrap(err, "SetConVar from server")
			}
			cv := c.vars.FindVar(name)
			if cv == nil {
				log.Printf("SetConVar: variable %s not found", name)
				continue
			}
			// USERINFO vars report the change back through their callback
			cv.SetByString(value)
		case netchan.NetStringCmd:
			s, err := netchan.ReadStringCmd(r)
			if err != nil {
				return errors.Wrap(err, "StringCmd from server")
			}
			c.ClientCmd(s)
		default:
			return errors.Errorf("illegal server message %d", t)
		}
	}
}
