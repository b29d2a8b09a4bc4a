// SPDX-License-Identifier: GPL-2.0-or-later

package netchan

import (
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrOverflow = errors.New("netchan: buffer overflow")
	ErrShort    = errors.New("netchan: read past end of message")
)

// Writer writes bit fields into a fixed size buffer, least significant bit
// first. Once a write does not fit the writer is overflowed and ignores all
// further writes.
type Writer struct {
	data     []byte
	bit      int
	overflow bool
}

// NewWriter writes into buf. The buffer never grows.
func NewWriter(buf []byte) *Writer {
	clear(buf)
	return &Writer{data: buf}
}

func (w *Writer) fits(bits int) bool {
	if w.overflow || w.bit+bits > len(w.data)*8 {
		w.overflow = true
		return false
	}
	return true
}

// WriteUBitLong writes the low n bits of v.
func (w *Writer) WriteUBitLong(v uint32, n int) {
	if n < 0 || n > 32 || !w.fits(n) {
		w.overflow = true
		return
	}
	for i := 0; i < n; i++ {
		if v&(1<<uint(i)) != 0 {
			w.data[w.bit>>3] |= 1 << uint(w.bit&7)
		} else {
			w.data[w.bit>>3] &^= 1 << uint(w.bit&7)
		}
		w.bit++
	}
}

func (w *Writer) WriteByte(c byte) error {
	w.WriteUBitLong(uint32(c), 8)
	if w.overflow {
		return ErrOverflow
	}
	return nil
}

// WriteString writes s up to its first zero byte, followed by a
// terminating zero byte.
func (w *Writer) WriteString(s string) error {
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	if !w.fits((len(s) + 1) * 8) {
		return ErrOverflow
	}
	for i := 0; i < len(s); i++ {
		w.WriteUBitLong(uint32(s[i]), 8)
	}
	w.WriteUBitLong(0, 8)
	return nil
}

func (w *Writer) Overflowed() bool {
	return w.overflow
}

func (w *Writer) BitsWritten() int {
	return w.bit
}

// Bytes returns the written part of the buffer, padded to full bytes.
func (w *Writer) Bytes() []byte {
	return w.data[:(w.bit+7)>>3]
}

// Reader is the counterpart of Writer.
type Reader struct {
	data []byte
	bit  int
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// BitsLeft returns the number of unread bits.
func (r *Reader) BitsLeft() int {
	return len(r.data)*8 - r.bit
}

func (r *Reader) ReadUBitLong(n int) (uint32, error) {
	if n < 0 || n > 32 {
		return 0, errors.Errorf("netchan: can not read %d bits", n)
	}
	if r.BitsLeft() < n {
		return 0, ErrShort
	}
	var v uint32
	for i := 0; i < n; i++ {
		if r.data[r.bit>>3]&(1<<uint(r.bit&7)) != 0 {
			v |= 1 << uint(i)
		}
		r.bit++
	}
	return v, nil
}

func (r *Reader) ReadByte() (byte, error) {
	v, err := r.ReadUBitLong(8)
	return byte(v), err
}

// ReadString reads up to and including a zero byte.
func (r *Reader) ReadString() (string, error) {
	sb := strings.Builder{}
	for {
		b, err := r.ReadByte()
		if err != nil {
			return "", err
		}
		if b == 0 {
			break
		}
		sb.WriteByte(b)
	}
	return sb.String(), nil
}
