// SPDX-License-Identifier: GPL-2.0-or-later

// Package conlog is the console output sink.
package conlog

import "log"

var (
	p  func(string, ...any)
	sp func(string, ...any)
)

// SetPrintf sets the sink for regular console output.
func SetPrintf(f func(string, ...any)) {
	p = f
}

// SetSafePrintf sets the sink for output that must not trigger a screen
// update, like long listings.
func SetSafePrintf(f func(string, ...any)) {
	sp = f
}

func Printf(format string, v ...any) {
	if p == nil {
		log.Printf(format, v...)
		return
	}
	p(format, v...)
}

func SafePrintf(format string, v ...any) {
	if sp == nil {
		Printf(format, v...)
		return
	}
	sp(format, v...)
}
