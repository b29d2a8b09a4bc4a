// SPDX-License-Identifier: GPL-2.0-or-later

// Package crc computes the CRC-16/CCITT-FALSE checksum datagrams carry.
package crc

const (
	poly    = 0x1021
	initial = 0xffff
)

var table = func() (t [256]uint16) {
	for i := range t {
		c := uint16(i) << 8
		for range 8 {
			if c&0x8000 != 0 {
				c = c<<1 ^ poly
			} else {
				c <<= 1
			}
		}
		t[i] = c
	}
	return t
}()

// Digest is a running checksum, see New.
type Digest struct {
	sum uint16
}

func New() *Digest {
	return &Digest{sum: initial}
}

// Write adds p to the checksum. It never fails.
func (d *Digest) Write(p []byte) (int, error) {
	for _, b := range p {
		d.sum = table[byte(d.sum>>8)^b] ^ d.sum<<8
	}
	return len(p), nil
}

func (d *Digest) Sum16() uint16 {
	return d.sum
}

// Checksum returns the checksum of p.
func Checksum(p []byte) uint16 {
	d := New()
	d.Write(p)
	return d.Sum16()
}
