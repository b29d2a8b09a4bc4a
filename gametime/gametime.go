// SPDX-License-Identifier: GPL-2.0-or-later

package gametime

import (
	"time"
)

// Limits are the variables controlling the frame rate.
type Limits interface {
	MaxFps() float64
	TimeScale() float64
	FrameRate() float64
}

type GameTime struct {
	start      time.Time
	time       float64
	oldTime    float64
	frameTime  float64
	frameCount int
}

func New() *GameTime {
	return &GameTime{start: time.Now(), frameTime: 0.1}
}

func (h *GameTime) Reset() {
	h.frameTime = 0.1
}

func (h *GameTime) Time() float64      { return h.time }
func (h *GameTime) OldTime() float64   { return h.oldTime }
func (h *GameTime) FrameTime() float64 { return h.frameTime }
func (h *GameTime) FrameCount() int    { return h.frameCount }
func (h *GameTime) FrameIncrease()     { h.frameCount++ }

// UpdateTime updates the host time.
// Returns false if it would exceed max fps
func (h *GameTime) UpdateTime(l Limits) bool {
	return h.update(l, time.Since(h.start).Seconds())
}

func (h *GameTime) update(l Limits, now float64) bool {
	h.time = now
	maxFPS := min(max(l.MaxFps(), 10), 1000)
	if h.time-h.oldTime < 1/maxFPS {
		return false
	}
	h.frameTime = h.time - h.oldTime
	h.oldTime = h.time

	if l.TimeScale() > 0 {
		h.frameTime *= l.TimeScale()
	} else if l.FrameRate() > 0 {
		h.frameTime = l.FrameRate()
	} else {
		h.frameTime = min(max(h.frameTime, 0.001), 0.1)
	}
	return true
}
