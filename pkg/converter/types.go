// Package converter turns curves and scores into files for downstream tools.
package converter

import (
	"github.com/james-see/snowflake2midi/pkg/fractal"
	"github.com/james-see/snowflake2midi/pkg/score"
)

// Voice is the General MIDI instrument a track is realized with.
type Voice interface {
	Name() string
	Program() uint8
	Channel() uint8
}

// Request holds the parameters of one generation run.
type Request struct {
	Order           int     `json:"order"`
	Scale           float64 `json:"scale"`
	DurationSeconds float64 `json:"duration_seconds"`
	ClampHarmony    bool    `json:"clamp_harmony"`
}

// Result holds both data products of a run.
type Result struct {
	Curve fractal.Curve
	Score *score.Score
}

// Converter renders results with a pair of voices.
type Converter struct {
	lead            Voice
	harmony         Voice
	ticksPerQuarter uint16
}

// New creates a new Converter with the given lead and harmony voices.
func New(lead, harmony Voice) *Converter {
	return &Converter{
		lead:            lead,
		harmony:         harmony,
		ticksPerQuarter: DefaultTicksPerQuarter,
	}
}

// GetVoice returns the voice used for track t.
func (c *Converter) GetVoice(t score.Track) Voice {
	if t == score.Lead {
		return c.lead
	}
	return c.harmony
}

// SetVoice sets the voice used for track t.
func (c *Converter) SetVoice(t score.Track, v Voice) {
	if t == score.Lead {
		c.lead = v
		return
	}
	c.harmony = v
}

// SetTicksPerQuarter sets the MIDI file resolution.
func (c *Converter) SetTicksPerQuarter(tpq uint16) {
	if tpq > 0 {
		c.ticksPerQuarter = tpq
	}
}
