package game

import (
	"github.com/vovakirdan/cyberfish/internal/core"
)

// Collider decides whether the entity has crashed.
type Collider struct {
	inset float64
}

// NewCollider creates a collider whose obstacle hitbox is shrunk by the
// given fraction.
func NewCollider(inset float64) Collider {
	return Collider{inset: inset}
}

// Hitbox returns the forgiving rectangle used against obstacles. The full
// fraction is trimmed from the left edge and half of it from the top and
// the bottom.
func (c Collider) Hitbox(e Entity) core.Rect {
	return core.NewRect(
		e.X+e.Width*c.inset,
		e.Y+e.Height*c.inset/2,
		e.Width*(1-c.inset),
		e.Height*(1-c.inset),
	)
}

// OutOfBounds reports whether the entity touches or passes the floor or
// ceiling. It uses the full bounding box.
func (c Collider) OutOfBounds(e Entity, playfieldHeight float64) bool {
	return e.Y+e.Height >= playfieldHeight || e.Y <= 0
}

// Collides reports whether the entity hits a boundary or any barrier.
func (c Collider) Collides(e Entity, obs []Obstacle, playfieldHeight float64) bool {
	if c.OutOfBounds(e, playfieldHeight) {
		return true
	}

	hb := c.Hitbox(e)
	for _, o := range obs {
		if hb.Intersects(o.TopRect()) || hb.Intersects(o.BottomRect(playfieldHeight)) {
			return true
		}
	}
	return false
}
