// SPDX-License-Identifier: GPL-2.0-or-later

// Package cvar holds the engine's console variables and console commands.
// Both live in one registry and are told apart by IsCommand.
package cvar

import (
	"strconv"

	"github.com/chewxy/math32"

	"gconvar/cmd"
)

type CallbackFunc func(cv *Var)

// CommandFunc is run when a console command is dispatched.
type CommandFunc func(a cmd.Arguments) error

// Var is a console variable or a console command.
type Var struct {
	name  string
	help  string
	flags Flag

	command  bool
	dispatch CommandFunc

	callback CallbackFunc
	// stringValue is the truth, value and intValue the derived ones
	stringValue  string
	value        float32
	intValue     int
	defaultValue string

	hasMin bool
	min    float32
	hasMax bool
	max    float32
}

func (cv *Var) Name() string {
	return cv.name
}

// SetName renames the variable. Lookups by the old name stop finding it.
func (cv *Var) SetName(n string) {
	cv.name = n
}

func (cv *Var) Help() string {
	return cv.help
}

func (cv *Var) SetHelp(h string) {
	cv.help = h
}

func (cv *Var) Flags() Flag {
	return cv.flags
}

func (cv *Var) SetFlags(f Flag) {
	cv.flags = f
}

func (cv *Var) AddFlags(f Flag) {
	cv.flags |= f
}

// IsFlagSet reports whether any bit of f is set.
func (cv *Var) IsFlagSet(f Flag) bool {
	return cv.flags&f != 0
}

func (cv *Var) IsCommand() bool {
	return cv.command
}

func (cv *Var) SetCallback(cb CallbackFunc) {
	cv.callback = cb
}

// Dispatch runs a command. It is a no-op for variables.
func (cv *Var) Dispatch(a cmd.Arguments) error {
	if !cv.command || cv.dispatch == nil {
		return nil
	}
	return cv.dispatch(a)
}

func (cv *Var) SetByString(s string) {
	if cv.command {
		return
	}
	pf, err := strconv.ParseFloat(s, 32)
	if err != nil {
		pf = 0
	}
	v := float32(pf)
	if c := cv.clamp(v); c != v {
		v = c
		s = formatFloat(v)
	}
	old := cv.stringValue
	cv.stringValue = s
	cv.value = v
	cv.intValue = int(v)
	if cv.callback != nil && old != s {
		cv.callback(cv)
	}
}

func (cv *Var) clamp(v float32) float32 {
	if cv.hasMin {
		v = math32.Max(v, cv.min)
	}
	if cv.hasMax {
		v = math32.Min(v, cv.max)
	}
	return v
}

func formatFloat(v float32) string {
	if float32(int(v)) == v {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}

func (cv *Var) SetValue(value float32) {
	cv.SetByString(formatFloat(value))
}

func (cv *Var) SetInt(value int) {
	cv.SetByString(strconv.Itoa(value))
}

// Revert resets the variable to its default value.
func (cv *Var) Revert() {
	cv.SetByString(cv.defaultValue)
}

func (cv *Var) String() string {
	return cv.stringValue
}

func (cv *Var) Default() string {
	return cv.defaultValue
}

func (cv *Var) Value() float32 {
	return cv.value
}

func (cv *Var) Int() int {
	return cv.intValue
}

func (cv *Var) Bool() bool {
	return cv.intValue != 0
}

// Min returns the lower bound if one is declared.
func (cv *Var) Min() (float32, bool) {
	return cv.min, cv.hasMin
}

// SetMin declares or replaces the lower bound. The current value is not
// clamped until it is set again.
func (cv *Var) SetMin(m float32) {
	cv.hasMin = true
	cv.min = m
}

func (cv *Var) Max() (float32, bool) {
	return cv.max, cv.hasMax
}

func (cv *Var) SetMax(m float32) {
	cv.hasMax = true
	cv.max = m
}

func (cv *Var) Toggle() {
	if cv.Bool() {
		cv.SetByString("0")
	} else {
		cv.SetByString("1")
	}
}

// New creates an unregistered variable.
func New(name, value string, flags Flag, help string) *Var {
	cv := &Var{
		name:         name,
		help:         help,
		flags:        flags,
		defaultValue: value,
	}
	cv.SetByString(value)
	return cv
}

// NewCommand creates an unregistered command.
func NewCommand(name, help string, flags Flag, f CommandFunc) *Var {
	return &Var{
		name:     name,
		help:     help,
		flags:    flags,
		command:  true,
		dispatch: f,
	}
}
