// SPDX-License-Identifier: GPL-2.0-or-later

// Package cmd tokenizes console command lines.
package cmd

import (
	"strconv"
	"strings"
	"unicode"
)

// QArg is a single token of a command line.
type QArg struct {
	a string
}

func (a QArg) String() string {
	return a.a
}

func (a QArg) Int() int {
	r, err := strconv.ParseInt(a.a, 10, 0)
	if err != nil {
		return int(a.Float32())
	}
	return int(r)
}

func (a QArg) Float32() float32 {
	r, err := strconv.ParseFloat(a.a, 32)
	if err != nil {
		return 0
	}
	return float32(r)
}

func (a QArg) Bool() bool {
	switch a.a {
	case "1", "t", "T", "true", "TRUE", "True", "On", "ON", "on":
		return true
	default:
		return false
	}
}

type Arguments struct {
	// each arg on its own
	args []QArg
	// the trimmed input line
	full string
}

// Argv returns the token at position i or an empty token.
func (c *Arguments) Argv(i int) QArg {
	if i < 0 || i >= len(c.args) {
		return QArg{}
	}
	return c.args[i]
}

func (c *Arguments) Full() string {
	return c.full
}

func (c *Arguments) Args() []QArg {
	return c.args
}

// ArgumentString returns everything after the command name with
// surrounding quotes removed.
func (c *Arguments) ArgumentString() string {
	if len(c.args) < 2 {
		return ""
	}
	r := strings.TrimPrefix(c.full, c.args[0].String())
	r = strings.TrimLeftFunc(r, unicode.IsSpace)
	if len(r) > 1 && r[0] == '"' {
		r = strings.Trim(r, "\"\t\n\v\f\r ")
	}
	return r
}

// breakChars are single character tokens even without surrounding space.
const breakChars = "{}()"

// Parse splits a single command line into tokens. Quoted strings are one
// token without the quotes, "//" starts a comment that runs to the end of
// the line.
func Parse(s string) (args Arguments) {
	args.full = strings.TrimFunc(s, unicode.IsSpace)
	args.args = []QArg{}

	in := args.full
	for i := 0; i < len(in); {
		c := in[i]
		switch {
		case c == '\n' || c == '\r':
			return
		case c <= ' ':
			i++
		case c == '/' && i+1 < len(in) && in[i+1] == '/':
			return
		case c == '"':
			end := strings.IndexAny(in[i+1:], "\"\n")
			if end < 0 {
				// unterminated, take the rest
				args.args = append(args.args, QArg{in[i+1:]})
				return
			}
			args.args = append(args.args, QArg{in[i+1 : i+1+end]})
			i += end + 2
		case strings.IndexByte(breakChars, c) >= 0:
			args.args = append(args.args, QArg{in[i : i+1]})
			i++
		default:
			start := i
			for i < len(in) && in[i] > ' ' && in[i] != '"' &&
				strings.IndexByte(breakChars, in[i]) < 0 {
				i++
			}
			args.args = append(args.args, QArg{in[start:i]})
		}
	}
	return
}
