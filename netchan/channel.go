// SPDX-License-Identifier: GPL-2.0-or-later

package netchan

import (
	"bytes"
)

// Channel is one side of a connection.
type Channel interface {
	// SendData queues the written part of w. It reports false if the
	// message could not be sent.
	SendData(w *Writer, reliable bool) bool
	Address() string
}

// loopback queue length, a full queue drops new messages
const chanBufLength = 16

// Loopback is an in process channel end, see Pipe.
type Loopback struct {
	addr   string
	in     chan []byte
	peer   *Loopback
	closed bool
}

// Pipe returns two connected loopback ends. a sends to b and the other way
// round.
func Pipe(addrA, addrB string) (*Loopback, *Loopback) {
	a := &Loopback{addr: addrA, in: make(chan []byte, chanBufLength)}
	b := &Loopback{addr: addrB, in: make(chan []byte, chanBufLength)}
	a.peer = b
	b.peer = a
	return a, b
}

func (l *Loopback) Address() string {
	return l.addr
}

func (l *Loopback) SendData(w *Writer, _ bool) bool {
	if l.closed || l.peer.closed || w.Overflowed() {
		return false
	}
	select {
	case l.peer.in <- bytes.Clone(w.Bytes()):
		return true
	default:
		return false
	}
}

// Receive returns the next queued message without blocking.
func (l *Loopback) Receive() ([]byte, bool) {
	select {
	case b := <-l.in:
		return b, true
	default:
		return nil, false
	}
}

func (l *Loopback) Close() error {
	l.closed = true
	return nil
}
