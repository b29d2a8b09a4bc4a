// SPDX-License-Identifier: GPL-2.0-or-later

package proxy

type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindString
	KindHandle
	// KindRef marks a value the script runtime keeps itself, under the
	// handle's ID.
	KindRef
)

// Value is what a script can store in a handle's extra fields.
type Value struct {
	Kind   Kind
	Bool   bool
	Number float64
	String string
	Handle *Handle
}

func Bool(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

func Number(n float64) Value {
	return Value{Kind: KindNumber, Number: n}
}

func String(s string) Value {
	return Value{Kind: KindString, String: s}
}

func Ref() Value {
	return Value{Kind: KindRef}
}

func HandleValue(h *Handle) Value {
	if h == nil {
		return Value{}
	}
	return Value{Kind: KindHandle, Handle: h}
}
