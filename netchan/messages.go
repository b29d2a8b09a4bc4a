// SPDX-License-Identifier: GPL-2.0-or-later

// Package netchan carries engine messages between a server and its clients.
package netchan

import (
	"github.com/pkg/errors"
)

const (
	// NetMsgTypeBits is the width of the type field in front of every message.
	NetMsgTypeBits = 6

	// message types shared by both directions
	NetNop        = 0
	NetDisconnect = 1
	// [string] command to execute on the receiving side
	NetStringCmd = 4
	// [byte 0x01] [string] name [string] value
	NetSetConVar = 5

	// SetConVarBufferSize is the size of the buffer a single SetConVar
	// message is built in.
	SetConVarBufferSize = 522

	setConVarCount = 0x01
)

// WriteSetConVar writes a request to change one variable. It fails with
// ErrOverflow if the message does not fit the writer.
func WriteSetConVar(w *Writer, name, value string) error {
	w.WriteUBitLong(NetSetConVar, NetMsgTypeBits)
	w.WriteByte(setConVarCount)
	w.WriteString(name)
	w.WriteString(value)
	if w.Overflowed() {
		return ErrOverflow
	}
	return nil
}

// ReadSetConVar reads the body of a SetConVar message, the type is
// expected to be consumed already.
func ReadSetConVar(r *Reader) (string, string, error) {
	c, err := r.ReadByte()
	if err != nil {
		return "", "", err
	}
	if c != setConVarCount {
		return "", "", errors.Errorf("netchan: unsupported SetConVar count %d", c)
	}
	name, err := r.ReadString()
	if err != nil {
		return "", "", err
	}
	value, err := r.ReadString()
	if err != nil {
		return "", "", err
	}
	return name, value, nil
}

func WriteStringCmd(w *Writer, command string) error {
	w.WriteUBitLong(NetStringCmd, NetMsgTypeBits)
	w.WriteString(command)
	if w.Overflowed() {
		return ErrOverflow
	}
	return nil
}

func ReadStringCmd(r *Reader) (string, error) {
	return r.ReadString()
}

// ReadType reads the next message type. ok is false when the remaining
// bits are padding.
func ReadType(r *Reader) (int, bool, error) {
	if r.BitsLeft() < NetMsgTypeBits {
		return 0, false, nil
	}
	t, err := r.ReadUBitLong(NetMsgTypeBits)
	if err != nil {
		return 0, false, err
	}
	return int(t), true, nil
}
