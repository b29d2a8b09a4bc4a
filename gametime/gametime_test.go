// SPDX-License-Identifier: GPL-2.0-or-later

package gametime

import (
	"testing"
)

type limits struct {
	fps, scale, rate float64
}

func (l limits) MaxFps() float64    { return l.fps }
func (l limits) TimeScale() float64 { return l.scale }
func (l limits) FrameRate() float64 { return l.rate }

func TestUpdateTime(t *testing.T) {
	tests := []struct {
		name  string
		l     limits
		now   float64
		ok    bool
		frame float64
	}{
		{"too early", limits{fps: 10}, 0.05, false, 0.1},
		{"clamped", limits{fps: 72}, 0.5, true, 0.1},
		{"scaled", limits{fps: 72, scale: 2}, 0.05, true, 0.1},
		{"fixed", limits{fps: 72, rate: 0.02}, 0.5, true, 0.02},
		{"fps floor", limits{fps: 1}, 0.09, false, 0.1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := New()
			if got := h.update(tc.l, tc.now); got != tc.ok {
				t.Errorf("update() = %v, want %v", got, tc.ok)
			}
			if d := h.FrameTime() - tc.frame; d > 1e-9 || d < -1e-9 {
				t.Errorf("FrameTime() = %v, want %v", h.FrameTime(), tc.frame)
			}
		})
	}
}
