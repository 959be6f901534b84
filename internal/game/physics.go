// Package game implements the Cyber Fish simulation: physics, obstacle
// generation, collision detection and the session state machine.
// It is pure logic with no I/O; hosts drive it by calling Engine.Step
// and acting on the returned events.
package game

import (
	"math"
	"time"

	"github.com/vovakirdan/cyberfish/internal/config"
	"github.com/vovakirdan/cyberfish/internal/core"
)

// Entity is the player-controlled fish.
type Entity struct {
	X, Y          float64 // Top-left corner; X never changes during a session
	Velocity      float64 // Vertical velocity, positive = down
	Width, Height float64
}

// Rect returns the full bounding box of the entity.
func (e Entity) Rect() core.Rect {
	return core.NewRect(e.X, e.Y, e.Width, e.Height)
}

// Physics integrates entity motion.
type Physics struct {
	cfg config.PhysicsConfig
}

// NewPhysics creates a physics integrator.
func NewPhysics(cfg config.PhysicsConfig) Physics {
	return Physics{cfg: cfg}
}

// Centered returns e pinned to the vertical centre of a playfield of the
// given height, at rest.
func (p Physics) Centered(e Entity, playfieldHeight float64) Entity {
	e.Y = playfieldHeight/2 - e.Height/2
	e.Velocity = 0
	return e
}

// Advance moves the entity by one tick. An uncontrolled entity bobs around
// the playfield centre with zero velocity; a controlled one falls under
// gravity using explicit Euler integration.
func (p Physics) Advance(e Entity, controlled bool, frame int, playfieldHeight float64) Entity {
	if !controlled {
		e = p.Centered(e, playfieldHeight)
		e.Y += math.Sin(float64(frame)*p.cfg.HoverFrequency) * p.cfg.HoverAmplitude
		return e
	}
	e.Velocity += p.cfg.Gravity
	e.Y += e.Velocity
	return e
}

// Impulse applies a jump at time now. It is rejected while the cooldown
// window opened by the previous accepted impulse (at last) is still open.
func (p Physics) Impulse(e Entity, now, last time.Time) (Entity, bool) {
	if !last.IsZero() && now.Sub(last) < p.cfg.JumpCooldown {
		return e, false
	}
	e.Velocity = p.cfg.JumpImpulse
	return e, true
}
