// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/Shopify/go-lua"
	"github.com/gopxl/mainthread/v2"

	"gconvar/commandline"
	"gconvar/config"
	"gconvar/conlog"
	"gconvar/host"
	"gconvar/iface"
	"gconvar/luacvar"
	"gconvar/player"
	"gconvar/proxy"
)

func main() {
	flag.Parse()
	mainthread.Run(run)
}

func run() {
	conlog.SetPrintf(func(format string, v ...any) {
		fmt.Printf(format, v...)
		if commandline.ConsoleDebug() {
			log.Printf(format, v...)
		}
	})

	cfg, err := config.Load(commandline.ConfigFile())
	if err != nil {
		log.Fatalf("%v", err)
	}
	if n := commandline.MaxClients(); n > 0 {
		cfg.MaxClients = n
	}
	if commandline.Bots() {
		for i := 0; i < commandline.BotsNum(); i++ {
			cfg.Players = append(cfg.Players, config.Player{Name: fmt.Sprintf("bot%02d", i+1), Bot: true})
		}
	}

	h, err := host.New(cfg, iface.BuildRealm)
	if err != nil {
		log.Fatalf("Could not create %v host: %v", iface.BuildRealm, err)
	}
	defer h.Close()

	ctx, err := iface.Resolve(h.Modules(runtime.GOOS), runtime.GOOS, iface.BuildRealm)
	if err != nil {
		log.Fatalf("Could not resolve engine interfaces: %v", err)
	}

	// all script state lives on the main thread
	var (
		l *lua.State
		b *luacvar.Binding
	)
	mainthread.Call(func() {
		l = lua.NewState()
		lua.OpenLibraries(l)
		if ctx.Server != nil {
			player.Open(l, h.Server())
		}
		b = luacvar.New(ctx, proxy.NewCache())
		b.Open(l)
		if s := commandline.Script(); s != "" {
			if err := lua.DoFile(l, s); err != nil {
				log.Fatalf("Script %s: %v", s, err)
			}
		}
		for _, code := range commandline.Execute() {
			if err := lua.DoString(l, code); err != nil {
				log.Printf("Lua: %v", err)
			}
		}
	})
	defer mainthread.Call(b.Close)

	if commandline.Console() {
		h.ReadConsole(os.Stdin)
	}
	frames := commandline.Frames()
	for i := 0; frames < 0 || i < frames; i++ {
		for !h.UpdateTime() {
			time.Sleep(time.Millisecond)
		}
		var err error
		mainthread.Call(func() {
			err = h.Frame()
			b.Collect()
		})
		if err != nil {
			log.Printf("Frame: %v", err)
		}
		if frames < 0 && !h.ConsoleOpen() {
			break
		}
	}
}
