// SPDX-License-Identifier: GPL-2.0-or-later

package host

import (
	"bufio"
	"io"
)

type consoleReader struct {
	textChan chan string
}

func newConsoleReader(r io.Reader) *consoleReader {
	cr := &consoleReader{
		textChan: make(chan string, 1),
	}
	go func() {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			cr.textChan <- scanner.Text()
		}
		close(cr.textChan)
	}()
	return cr
}

// ReadConsole makes every line of r console input, executed on the
// following frames.
func (h *Host) ReadConsole(r io.Reader) {
	h.console = newConsoleReader(r)
}

// Add them exactly as if they had been typed at the console
func (h *Host) readConsole() {
	if h.console == nil {
		return
	}
	for {
		select {
		case s, ok := <-h.console.textChan:
			if !ok {
				h.console = nil
				return
			}
			h.execute(s)
		default:
			return
		}
	}
}

// ConsoleOpen reports whether console input is still being read.
func (h *Host) ConsoleOpen() bool {
	return h.console != nil
}
