package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/cyberfish.yaml
var defaultYAML []byte

// Default returns the built-in configuration. It mirrors defaults/cyberfish.yaml
// and is used when the embedded YAML cannot be parsed.
func Default() Config {
	return Config{
		Physics: PhysicsConfig{
			Gravity:         0.2,
			JumpImpulse:     -6,
			JumpCooldown:    100 * time.Millisecond,
			ActivationDelay: 300 * time.Millisecond,
			HoverAmplitude:  2,
			HoverFrequency:  0.05,
		},
		Entity: EntityConfig{
			X:                50,
			Width:            40,
			Height:           30,
			SmallWidth:       30,
			SmallHeight:      22,
			SmallDeviceWidth: 768,
			HitboxInset:      0.2,
		},
		Obstacles: ObstacleConfig{
			Width:  80,
			Margin: 50,
		},
		Difficulty: DifficultyConfig{
			BaseSpeed:          2,
			SpeedStep:          0.5,
			PointsPerSpeedStep: 5,
			BaseInterval:       180,
			IntervalStep:       10,
			MinInterval:        100,
			BaseGap:            220,
			GapStep:            10,
			PointsPerGapStep:   10,
		},
		Display: DisplayConfig{
			CellWidth:  10,
			CellHeight: 20,
			TickRate:   60,
		},
		Server: ServerConfig{
			Address:        ":3000",
			DBPath:         "~/.cyberfish/scores.db",
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   10 * time.Second,
			RequestTimeout: 15 * time.Second,
		},
		Client: ClientConfig{
			APIURL:  "http://localhost:3000",
			Timeout: 5 * time.Second,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
