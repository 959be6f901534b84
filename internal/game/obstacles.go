package game

import (
	"math"
	"math/rand/v2"

	"github.com/vovakirdan/cyberfish/internal/config"
	"github.com/vovakirdan/cyberfish/internal/core"
)

// Obstacle is a pair of barriers with a passable gap between them.
type Obstacle struct {
	X      float64 // Left edge
	Width  float64
	GapTop float64 // Bottom edge of the upper barrier
	Gap    float64 // Height of the opening; fixed at spawn
	Passed bool    // Whether the entity has cleared this obstacle (for scoring)
}

// GapBottom returns the top edge of the lower barrier.
func (o Obstacle) GapBottom() float64 {
	return o.GapTop + o.Gap
}

// Right returns the trailing edge of the obstacle.
func (o Obstacle) Right() float64 {
	return o.X + o.Width
}

// TopRect returns the collision rectangle for the upper barrier.
func (o Obstacle) TopRect() core.Rect {
	return core.NewRect(o.X, 0, o.Width, o.GapTop)
}

// BottomRect returns the collision rectangle for the lower barrier.
func (o Obstacle) BottomRect(playfieldHeight float64) core.Rect {
	bottom := o.GapBottom()
	return core.NewRect(o.X, bottom, o.Width, playfieldHeight-bottom)
}

// Generator places new obstacles at the right edge of the playfield.
type Generator struct {
	cfg config.ObstacleConfig
}

// NewGenerator creates an obstacle generator.
func NewGenerator(cfg config.ObstacleConfig) Generator {
	return Generator{cfg: cfg}
}

// MaybeSpawn returns a new obstacle when tick is a multiple of interval.
// The gap's top edge is drawn uniformly from [margin, height-gap-margin]
// using a source derived from (seed, tick), so the same session replays
// the same layout. The top edge is snapped to whole playfield units so the
// barrier edges stay exactly gap apart. On playfields too short for that
// range the gap sits at the margin.
func (g Generator) MaybeSpawn(seed uint64, tick, interval int, pf Playfield, gap float64) (Obstacle, bool) {
	if interval <= 0 || tick%interval != 0 {
		return Obstacle{}, false
	}

	minTop := g.cfg.Margin
	maxTop := pf.Height - gap - g.cfg.Margin
	top := minTop
	if maxTop > minTop {
		rng := rand.New(rand.NewPCG(seed, uint64(tick)))
		top = core.ClampF(math.Round(minTop+rng.Float64()*(maxTop-minTop)), minTop, maxTop)
	}

	return Obstacle{
		X:      pf.Width,
		Width:  g.cfg.Width,
		GapTop: top,
		Gap:    gap,
	}, true
}

// AdvanceObstacles moves every obstacle left by speed, marks the ones whose
// trailing edge has moved past entityX as passed, and drops the ones fully
// off the left edge. It returns a new slice and the number of obstacles
// passed during this step; obs is not modified.
func AdvanceObstacles(obs []Obstacle, speed, entityX float64) ([]Obstacle, int) {
	out := make([]Obstacle, 0, len(obs))
	passed := 0

	for _, o := range obs {
		o.X -= speed

		// Check for passed obstacles (entity is past the trailing edge)
		if !o.Passed && o.Right() < entityX {
			o.Passed = true
			passed++
		}

		// Remove obstacles that have moved off the left side
		if o.Right() < 0 {
			continue
		}
		out = append(out, o)
	}

	return out, passed
}
