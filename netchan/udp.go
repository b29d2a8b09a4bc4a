// SPDX-License-Identifier: GPL-2.0-or-later

package netchan

import (
	"log"
	"net"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"

	"gconvar/crc"
)

const (
	maxDatagram = 32008

	// received datagrams waiting for Receive
	udpQueueLength = 64

	fieldSequence protowire.Number = 1
	fieldReliable protowire.Number = 2
	fieldPayload  protowire.Number = 3
	fieldChecksum protowire.Number = 4
)

var ErrChecksum = errors.New("datagram checksum mismatch")

// Datagram is the frame every UDP packet carries. The checksum covers all
// fields in front of it, frames without checksum are accepted.
type Datagram struct {
	Sequence uint32
	Reliable bool
	Payload  []byte
}

func AppendDatagram(b []byte, d Datagram) []byte {
	start := len(b)
	b = protowire.AppendTag(b, fieldSequence, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(d.Sequence))
	if d.Reliable {
		b = protowire.AppendTag(b, fieldReliable, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeBool(true))
	}
	b = protowire.AppendTag(b, fieldPayload, protowire.BytesType)
	b = protowire.AppendBytes(b, d.Payload)
	sum := crc.Checksum(b[start:])
	b = protowire.AppendTag(b, fieldChecksum, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(sum))
	return b
}

// ParseDatagram decodes a frame. Unknown fields are skipped.
func ParseDatagram(frame []byte) (Datagram, error) {
	var d Datagram
	b := frame
	checksum := -1
	covered := 0
	for len(b) > 0 {
		at := len(frame) - len(b)
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return d, errors.Wrap(protowire.ParseError(n), "datagram tag")
		}
		b = b[n:]
		switch {
		case num == fieldSequence && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return d, errors.Wrap(protowire.ParseError(n), "datagram sequence")
			}
			d.Sequence = uint32(v)
			b = b[n:]
		case num == fieldReliable && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return d, errors.Wrap(protowire.ParseError(n), "datagram reliable")
			}
			d.Reliable = protowire.DecodeBool(v)
			b = b[n:]
		case num == fieldPayload && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return d, errors.Wrap(protowire.ParseError(n), "datagram payload")
			}
			d.Payload = append([]byte(nil), v...)
			b = b[n:]
		case num == fieldChecksum && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return d, errors.Wrap(protowire.ParseError(n), "datagram checksum")
			}
			checksum = int(uint16(v))
			covered = at
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return d, errors.Wrap(protowire.ParseError(n), "datagram field")
			}
			b = b[n:]
		}
	}
	if checksum >= 0 && uint16(checksum) != crc.Checksum(frame[:covered]) {
		return d, ErrChecksum
	}
	return d, nil
}

// UDPChannel sends framed messages to one remote address and queues the
// payloads it sends back, see Listen.
type UDPChannel struct {
	conn   net.PacketConn
	remote net.Addr
	seq    uint32
	in     chan []byte
}

func NewUDPChannel(conn net.PacketConn, remote net.Addr) *UDPChannel {
	return &UDPChannel{
		conn:   conn,
		remote: remote,
		in:     make(chan []byte, udpQueueLength),
	}
}

// UDPPipe returns two channels on local sockets that talk to each other.
// Both are listening.
func UDPPipe() (*UDPChannel, *UDPChannel, error) {
	ca, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		return nil, nil, errors.Wrap(err, "Could not open socket")
	}
	cb, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		ca.Close()
		return nil, nil, errors.Wrap(err, "Could not open socket")
	}
	a := NewUDPChannel(ca, cb.LocalAddr())
	b := NewUDPChannel(cb, ca.LocalAddr())
	a.Listen()
	b.Listen()
	return a, b, nil
}

func (c *UDPChannel) Address() string {
	return c.remote.String()
}

func (c *UDPChannel) SendData(w *Writer, reliable bool) bool {
	if w.Overflowed() {
		return false
	}
	b := AppendDatagram(nil, Datagram{
		Sequence: c.seq,
		Reliable: reliable,
		Payload:  w.Bytes(),
	})
	if len(b) > maxDatagram {
		return false
	}
	c.seq++
	if _, err := c.conn.WriteTo(b, c.remote); err != nil {
		log.Printf("SendData to %v: %v", c.remote, err)
		return false
	}
	return true
}

// Listen starts queueing the payloads the remote address sends. It runs
// until the channel is closed.
func (c *UDPChannel) Listen() {
	go func() {
		for {
			d, addr, err := ReadDatagram(c.conn)
			if errors.Is(err, net.ErrClosed) {
				return
			}
			if err != nil {
				log.Printf("datagram from %v: %v", addr, err)
				continue
			}
			if addr.String() != c.remote.String() {
				continue
			}
			select {
			case c.in <- d.Payload:
			default:
				log.Printf("dropped datagram %d from %v", d.Sequence, addr)
			}
		}
	}()
}

// Receive returns the next queued payload without blocking.
func (c *UDPChannel) Receive() ([]byte, bool) {
	select {
	case b := <-c.in:
		return b, true
	default:
		return nil, false
	}
}

func (c *UDPChannel) Close() error {
	return c.conn.Close()
}

// ReadDatagram blocks until one frame arrives on conn.
func ReadDatagram(conn net.PacketConn) (Datagram, net.Addr, error) {
	buf := make([]byte, maxDatagram)
	n, addr, err := conn.ReadFrom(buf)
	if err != nil {
		return Datagram{}, nil, err
	}
	d, err := ParseDatagram(buf[:n])
	return d, addr, err
}
