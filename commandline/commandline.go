// SPDX-License-Identifier: GPL-2.0-or-later

package commandline

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

var (
	console  bool
	conDebug bool

	bots = boolInt{false, 1}

	frames     int
	maxClients int

	configFile string
	script     string

	execute stringList
)

type boolInt struct {
	set bool
	num int
}

func (b *boolInt) IsBoolFlag() bool {
	// We can not support both "-flag" and "-flag 10"
	// This allows "-flag", and "-flag=10"
	// and also "-flag=true" and "-flag=false"
	// but not "-flag 10"
	return true
}

func (b *boolInt) Set(s string) error {
	v, err := strconv.ParseInt(s, 0, strconv.IntSize)
	if err != nil {
		v, err := strconv.ParseBool(s)
		b.set = v
		return err
	}
	b.set = true
	b.num = int(v)
	return nil
}

func (b *boolInt) String() string {
	return fmt.Sprintf("Set: %v, Num: %v", b.set, b.num)
}

// stringList collects every use of a repeated flag.
type stringList []string

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func (s *stringList) String() string {
	return strings.Join(*s, "; ")
}

func init() {
	flag.BoolVar(&console, "console", false, "Read console commands from stdin")
	flag.BoolVar(&conDebug, "condebug", false, "enable console debugging")

	flag.Var(&bots, "bots", "Adds bots to the server, optional number of bots")
	flag.Var(&execute, "e", "Lua code to run after the script, may be repeated")

	flag.IntVar(&frames, "frames", 1, "frames to run, negative runs until the console closes")
	flag.IntVar(&maxClients, "maxclients", 0, "player slots, 0 uses the config")

	flag.StringVar(&configFile, "config", "host.yaml", "host configuration")
	flag.StringVar(&script, "script", "", "Lua script to run at startup")
}

func Console() bool {
	return console
}

func ConsoleDebug() bool {
	return conDebug
}

func Bots() bool {
	return bots.set
}

func BotsNum() int {
	return bots.num
}

func Frames() int {
	return frames
}

func MaxClients() int {
	return maxClients
}

func ConfigFile() string {
	return configFile
}

func Script() string {
	return script
}

func Execute() []string {
	return execute
}
