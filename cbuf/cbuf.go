// SPDX-License-Identifier: GPL-2.0-or-later

// Package cbuf buffers console text until the engine executes it.
package cbuf

import (
	"log"
	"strings"

	"gconvar/cmd"
	"gconvar/conlog"
)

// Efunc tries to execute a command. It reports whether it was handled.
type Efunc func(*CommandBuffer, cmd.Arguments) (bool, error)

type CommandBuffer struct {
	buf       string
	wait      bool
	executors []Efunc
}

func (c *CommandBuffer) SetCommandExecutors(e []Efunc) {
	c.executors = e
}

// AddText appends text to the end of the buffer.
func (c *CommandBuffer) AddText(text string) {
	c.buf += text
}

// InsertText puts text in front of everything already buffered.
func (c *CommandBuffer) InsertText(text string) {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	c.buf = text + c.buf
}

// Empty reports whether nothing is left to execute.
func (c *CommandBuffer) Empty() bool {
	return len(c.buf) == 0
}

// Execute runs buffered lines until the buffer is empty or a wait command
// defers the rest to the next call.
func (c *CommandBuffer) Execute() error {
	for len(c.buf) != 0 {
		i := 0
		quote := false
	LineLoop:
		for i = 0; i < len(c.buf); i++ {
			switch c.buf[i] {
			case '"':
				quote = !quote
			case ';':
				if !quote {
					break LineLoop
				}
			case '\n':
				break LineLoop
			}
		}
		line := c.buf[:i]
		// drop the separator as well
		if i < len(c.buf) {
			i++
		}
		c.buf = c.buf[i:]
		if err := c.execute(line); err != nil {
			return err
		}
		if c.wait {
			c.wait = false
			return nil
		}
	}
	return nil
}

func (c *CommandBuffer) execute(s string) error {
	a := cmd.Parse(s)
	args := a.Args()
	if len(args) == 0 {
		return nil // no tokens
	}
	if strings.EqualFold(args[0].String(), "wait") {
		c.wait = true
		return nil
	}
	for _, e := range c.executors {
		if ok, err := e(c, a); err != nil {
			return err
		} else if ok {
			return nil
		}
	}

	name := args[0].String()
	log.Printf("Unknown command \"%s\"", name)
	conlog.Printf("Unknown command \"%s\"\n", name)
	return nil
}
