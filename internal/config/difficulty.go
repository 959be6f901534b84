package config

// Difficulty is the set of score-derived parameters that drive obstacle
// speed, spawn cadence and gap size. It is recomputed from the score, never
// accumulated.
type Difficulty struct {
	Speed         float64 // Playfield units per tick
	SpawnInterval int     // Ticks between obstacle spawns
	GapSize       float64 // Vertical opening between the barriers
}

// Scaler maps a score to a Difficulty.
type Scaler struct {
	cfg DifficultyConfig
}

// NewScaler creates a scaler for the given difficulty settings.
func NewScaler(cfg DifficultyConfig) Scaler {
	return Scaler{cfg: cfg}
}

// Scale returns the difficulty for score. It is pure: the same score always
// yields the same value. Speed and gap never decrease as score grows and the
// spawn interval never drops below MinInterval.
func (s Scaler) Scale(score int) Difficulty {
	if score < 0 {
		score = 0
	}

	speedSteps := steps(score, s.cfg.PointsPerSpeedStep)
	gapSteps := steps(score, s.cfg.PointsPerGapStep)

	interval := s.cfg.BaseInterval - speedSteps*s.cfg.IntervalStep
	if interval < s.cfg.MinInterval {
		interval = s.cfg.MinInterval
	}

	return Difficulty{
		Speed:         s.cfg.BaseSpeed + float64(speedSteps)*s.cfg.SpeedStep,
		SpawnInterval: interval,
		GapSize:       s.cfg.BaseGap + float64(gapSteps)*s.cfg.GapStep,
	}
}

// Initial returns the difficulty at score zero.
func (s Scaler) Initial() Difficulty {
	return s.Scale(0)
}

// steps counts completed increments; a non-positive width disables scaling.
func steps(score, per int) int {
	if per <= 0 {
		return 0
	}
	return score / per
}
