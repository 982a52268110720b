package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/james-see/snowflake2midi/pkg/fractal"
)

// Settings holds all configuration options.
type Settings struct {
	// Curve
	Order    int     `json:"order"`
	Scale    float64 `json:"scale"`
	MaxOrder int     `json:"max_order"`

	// Score
	DurationSeconds float64 `json:"duration_seconds"`
	ClampHarmony    bool    `json:"clamp_harmony"`

	// MIDI output
	TicksPerQuarter uint16 `json:"ticks_per_quarter"`
	LeadProgram     uint8  `json:"lead_program"`
	HarmonyProgram  uint8  `json:"harmony_program"`

	OutputDir string `json:"output_dir"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		Order:    4,
		Scale:    10,
		MaxOrder: 8,

		DurationSeconds: 15,
		ClampHarmony:    false,

		TicksPerQuarter: 480,
		LeadProgram:     0,  // Acoustic Grand Piano
		HarmonyProgram:  26, // Electric Guitar (jazz)

		OutputDir: ".",
	}
}

// Load reads settings from a JSON file. A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks the settings that feed the generator and composer.
func (s *Settings) Validate() error {
	if s.Order < 0 {
		return fmt.Errorf("%w: order must be non-negative, got %d", fractal.ErrInvalidArgument, s.Order)
	}
	if s.MaxOrder > 0 && s.Order > s.MaxOrder {
		return fmt.Errorf("%w: order %d exceeds max_order %d", fractal.ErrInvalidArgument, s.Order, s.MaxOrder)
	}
	if !(s.Scale > 0) {
		return fmt.Errorf("%w: scale must be positive, got %g", fractal.ErrInvalidArgument, s.Scale)
	}
	if !(s.DurationSeconds > 0) {
		return fmt.Errorf("%w: duration_seconds must be positive, got %g", fractal.ErrInvalidArgument, s.DurationSeconds)
	}
	if s.TicksPerQuarter == 0 {
		return fmt.Errorf("%w: ticks_per_quarter must be positive", fractal.ErrInvalidArgument)
	}
	if s.LeadProgram > 127 || s.HarmonyProgram > 127 {
		return fmt.Errorf("%w: programs must be in 0..127", fractal.ErrInvalidArgument)
	}
	return nil
}
