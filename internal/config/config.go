// Package config provides YAML-based configuration loading and the
// score-driven difficulty scaler for Cyber Fish.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config contains all tunables for the game, the leaderboard service and
// the leaderboard client.
type Config struct {
	Physics    PhysicsConfig    `yaml:"physics"`
	Entity     EntityConfig     `yaml:"entity"`
	Obstacles  ObstacleConfig   `yaml:"obstacles"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
	Display    DisplayConfig    `yaml:"display"`
	Server     ServerConfig     `yaml:"server"`
	Client     ClientConfig     `yaml:"client"`
}

// PhysicsConfig defines how the fish moves.
type PhysicsConfig struct {
	Gravity         float64       `yaml:"gravity"`          // Velocity added per tick while playing
	JumpImpulse     float64       `yaml:"jump_impulse"`     // Velocity set by a jump (negative = up)
	JumpCooldown    time.Duration `yaml:"jump_cooldown"`    // Minimum wall-clock time between jumps
	ActivationDelay time.Duration `yaml:"activation_delay"` // Pause between start input and live physics
	HoverAmplitude  float64       `yaml:"hover_amplitude"`  // Idle bobbing height
	HoverFrequency  float64       `yaml:"hover_frequency"`  // Idle bobbing angular speed per tick
}

// EntityConfig defines the fish's size and fixed horizontal position.
type EntityConfig struct {
	X                float64 `yaml:"x"`
	Width            float64 `yaml:"width"`
	Height           float64 `yaml:"height"`
	SmallWidth       float64 `yaml:"small_width"`
	SmallHeight      float64 `yaml:"small_height"`
	SmallDeviceWidth float64 `yaml:"small_device_width"` // Playfields narrower than this use the small fish
	HitboxInset      float64 `yaml:"hitbox_inset"`       // Fraction trimmed from the hitbox (0.2 = 20%)
}

// ObstacleConfig defines pipe geometry.
type ObstacleConfig struct {
	Width  float64 `yaml:"width"`
	Margin float64 `yaml:"margin"` // Minimum pipe length above and below the gap
}

// DifficultyConfig defines the score-driven progression.
type DifficultyConfig struct {
	BaseSpeed          float64 `yaml:"base_speed"`
	SpeedStep          float64 `yaml:"speed_step"`
	PointsPerSpeedStep int     `yaml:"points_per_speed_step"`
	BaseInterval       int     `yaml:"base_interval"`
	IntervalStep       int     `yaml:"interval_step"`
	MinInterval        int     `yaml:"min_interval"`
	BaseGap            float64 `yaml:"base_gap"`
	GapStep            float64 `yaml:"gap_step"`
	PointsPerGapStep   int     `yaml:"points_per_gap_step"`
}

// DisplayConfig maps terminal cells to playfield units.
type DisplayConfig struct {
	CellWidth  float64 `yaml:"cell_width"`
	CellHeight float64 `yaml:"cell_height"`
	TickRate   int     `yaml:"tick_rate"`
}

// ServerConfig configures the leaderboard HTTP service.
type ServerConfig struct {
	Address        string        `yaml:"address"`
	DBPath         string        `yaml:"db_path"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// ClientConfig configures the leaderboard client used by game hosts.
type ClientConfig struct {
	APIURL  string        `yaml:"api_url"` // Empty disables the leaderboard
	Timeout time.Duration `yaml:"timeout"`
}

// Validate checks that the configuration can drive a playable game.
func (c Config) Validate() error {
	var errs []error

	if c.Entity.Width <= 0 || c.Entity.Height <= 0 {
		errs = append(errs, errors.New("entity width and height must be positive"))
	}
	if c.Entity.SmallWidth <= 0 || c.Entity.SmallHeight <= 0 {
		errs = append(errs, errors.New("entity small_width and small_height must be positive"))
	}
	if c.Entity.HitboxInset < 0 || c.Entity.HitboxInset >= 1 {
		errs = append(errs, fmt.Errorf("entity hitbox_inset %.2f must be in [0, 1)", c.Entity.HitboxInset))
	}
	if c.Obstacles.Width <= 0 {
		errs = append(errs, errors.New("obstacles width must be positive"))
	}
	if c.Obstacles.Margin < 0 {
		errs = append(errs, errors.New("obstacles margin must not be negative"))
	}
	if c.Difficulty.BaseInterval <= 0 || c.Difficulty.MinInterval <= 0 {
		errs = append(errs, errors.New("difficulty intervals must be positive"))
	}
	if c.Difficulty.SpeedStep < 0 || c.Difficulty.IntervalStep < 0 || c.Difficulty.GapStep < 0 {
		errs = append(errs, errors.New("difficulty steps must not be negative"))
	}
	if c.Difficulty.BaseGap <= 0 {
		errs = append(errs, errors.New("difficulty base_gap must be positive"))
	}
	if c.Display.CellWidth <= 0 || c.Display.CellHeight <= 0 {
		errs = append(errs, errors.New("display cell size must be positive"))
	}
	if c.Client.Timeout < 0 {
		errs = append(errs, errors.New("client timeout must not be negative"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid: %w", errors.Join(errs...))
	}
	return nil
}
