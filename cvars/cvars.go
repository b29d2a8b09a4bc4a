// SPDX-License-Identifier: GPL-2.0-or-later

// Package cvars holds the variables every engine registers.
package cvars

import (
	"gconvar/cvar"
)

type Server struct {
	Accelerate   *cvar.Var
	AirAccel     *cvar.Var
	Cheats       *cvar.Var
	Coop         *cvar.Var
	DeathMatch   *cvar.Var
	Developer    *cvar.Var
	EdgeFriction *cvar.Var
	FragLimit    *cvar.Var
	Friction     *cvar.Var
	Gravity      *cvar.Var
	HostName     *cvar.Var
	MaxSpeed     *cvar.Var
	MaxVelocity  *cvar.Var
	Password     *cvar.Var
	Skill        *cvar.Var
	StopSpeed    *cvar.Var
	TimeLimit    *cvar.Var
}

func RegisterServer(r *cvar.Registry) *Server {
	s := &Server{
		Accelerate:   r.MustRegister("sv_accelerate", "10", cvar.REPLICATED, "Linear acceleration amount."),
		AirAccel:     r.MustRegister("sv_airaccelerate", "10", cvar.REPLICATED|cvar.NOTIFY, "Acceleration while in the air."),
		Cheats:       r.MustRegister("sv_cheats", "0", cvar.REPLICATED|cvar.NOTIFY, "Allow cheats on server."),
		Coop:         r.MustRegister("coop", "0", cvar.NOTIFY, "Cooperative play."),
		DeathMatch:   r.MustRegister("deathmatch", "0", cvar.NOTIFY, "Running a deathmatch server."),
		Developer:    r.MustRegister("developer", "0", cvar.NONE, "Set developer message level."),
		EdgeFriction: r.MustRegister("edgefriction", "2", cvar.REPLICATED, "Friction near ledges."),
		FragLimit:    r.MustRegister("fraglimit", "0", cvar.NOTIFY|cvar.REPLICATED, "Frags needed to end a round."),
		Friction:     r.MustRegister("sv_friction", "4", cvar.NOTIFY|cvar.REPLICATED, "World friction."),
		Gravity:      r.MustRegister("sv_gravity", "800", cvar.NOTIFY|cvar.REPLICATED, "World gravity."),
		HostName:     r.MustRegister("hostname", "UNNAMED", cvar.NONE, "Hostname for server."),
		MaxSpeed:     r.MustRegister("sv_maxspeed", "320", cvar.NOTIFY|cvar.REPLICATED, "Maximum speed a player can move."),
		MaxVelocity:  r.MustRegister("sv_maxvelocity", "2000", cvar.REPLICATED, "Maximum speed any ballistically moving object is allowed to attain."),
		Password:     r.MustRegister("sv_password", "", cvar.NOTIFY|cvar.PROTECTED|cvar.DONTRECORD, "Server password for entry into multiplayer games."),
		Skill:        r.MustRegister("skill", "1", cvar.NONE, "Game skill level (0-3)."),
		StopSpeed:    r.MustRegister("sv_stopspeed", "100", cvar.REPLICATED, "Minimum stopping speed when on ground."),
		TimeLimit:    r.MustRegister("timelimit", "0", cvar.NOTIFY|cvar.REPLICATED, "Minutes per round."),
	}
	s.Skill.SetMin(0)
	s.Skill.SetMax(3)
	s.Gravity.SetMin(0)
	return s
}

type Client struct {
	Name         *cvar.Var
	Color        *cvar.Var
	Rate         *cvar.Var
	UpdateRate   *cvar.Var
	Fov          *cvar.Var
	ForwardSpeed *cvar.Var
	BackSpeed    *cvar.Var
	SideSpeed    *cvar.Var
	ShowNet      *cvar.Var
}

func RegisterClient(r *cvar.Registry) *Client {
	c := &Client{
		Name:         r.MustRegister("name", "player", cvar.ARCHIVE|cvar.USERINFO|cvar.PRINTABLEONLY, "Current user name."),
		Color:        r.MustRegister("cl_color", "0", cvar.ARCHIVE|cvar.USERINFO, "Player color."),
		Rate:         r.MustRegister("rate", "30000", cvar.ARCHIVE|cvar.USERINFO, "Max bytes/sec the host can receive data."),
		UpdateRate:   r.MustRegister("cl_updaterate", "20", cvar.ARCHIVE|cvar.USERINFO, "Number of packets per second of updates you are requesting from the server."),
		Fov:          r.MustRegister("fov", "90", cvar.ARCHIVE, "Field of view."),
		ForwardSpeed: r.MustRegister("cl_forwardspeed", "200", cvar.ARCHIVE, ""),
		BackSpeed:    r.MustRegister("cl_backspeed", "200", cvar.ARCHIVE, ""),
		SideSpeed:    r.MustRegister("cl_sidespeed", "350", cvar.NONE, ""),
		ShowNet:      r.MustRegister("cl_shownet", "0", cvar.NONE, "Show network traffic."),
	}
	c.Fov.SetMin(10)
	c.Fov.SetMax(170)
	return c
}

// Host holds the frame rate variables of every host.
type Host struct {
	MaxFpsVar    *cvar.Var
	TimeScaleVar *cvar.Var
	FrameRateVar *cvar.Var
}

func RegisterHost(r *cvar.Registry) *Host {
	return &Host{
		MaxFpsVar:    r.MustRegister("host_maxfps", "72", cvar.ARCHIVE, "Frame rate limiter."),
		TimeScaleVar: r.MustRegister("host_timescale", "0", cvar.CHEAT, "Prescale the clock by this amount."),
		FrameRateVar: r.MustRegister("host_framerate", "0", cvar.CHEAT, "Set to lock per-frame time elapse."),
	}
}

func (h *Host) MaxFps() float64    { return float64(h.MaxFpsVar.Value()) }
func (h *Host) TimeScale() float64 { return float64(h.TimeScaleVar.Value()) }
func (h *Host) FrameRate() float64 { return float64(h.FrameRateVar.Value()) }
