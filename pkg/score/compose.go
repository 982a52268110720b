package score

import (
	"fmt"
	"math"

	"github.com/james-see/snowflake2midi/pkg/fractal"
)

// ErrInvalidArgument is returned for an empty curve or a non-positive duration.
var ErrInvalidArgument = fractal.ErrInvalidArgument

const (
	basePitch      = 60
	pitchSpan      = 24
	baseVelocity   = 60
	velocitySpan   = 40
	harmonyOffset  = 4
	harmonyDamping = 20
	chordEvery     = 8

	maxPitch    = 127
	minVelocity = 0
	maxVelocity = 127
)

// Option configures Compose.
type Option func(*options)

type options struct {
	clampHarmony bool
}

// WithClampedHarmony clamps derived harmony pitches to 0..127 and velocities
// to 0..127. Without it the derived values are emitted as computed.
func WithClampedHarmony(clamp bool) Option {
	return func(o *options) {
		o.clampHarmony = clamp
	}
}

// Normalized is a point's position rescaled for mapping.
type Normalized struct {
	Radial float64 // min-max scaled distance from the origin, in [0, 1]
	Angle  float64 // counter-clockwise angle from +x over 2π, in [0, 1)
}

// Normalize rescales every point of c. When all points are equidistant from
// the origin every radial value is 0.
func Normalize(c fractal.Curve) []Normalized {
	n := c.Len()
	out := make([]Normalized, n)
	if n == 0 {
		return out
	}

	radii := make([]float64, n)
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := 0; i < n; i++ {
		r := c.At(i).Radius()
		radii[i] = r
		lo = math.Min(lo, r)
		hi = math.Max(hi, r)
	}
	span := hi - lo

	for i := 0; i < n; i++ {
		if span > 0 {
			out[i].Radial = (radii[i] - lo) / span
		}
		out[i].Angle = wrapAngle(c.At(i).Angle()) / (2 * math.Pi)
	}
	return out
}

// wrapAngle maps an atan2 result into [0, 2π).
func wrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	// a tiny negative angle rounds up to exactly 2π
	if a >= 2*math.Pi {
		a = 0
	}
	return a
}

// Compose maps every point of c to a lead note and a harmony note, with a
// palette chord added to the harmony track at every eighth point. The lead
// line spans totalDurationSeconds*4/n units per point on average.
//
// The chord at index i is emitted after, and meant to sound together with,
// the harmony note for the same index.
func Compose(c fractal.Curve, totalDurationSeconds float64, opts ...Option) (*Score, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	n := c.Len()
	if n == 0 {
		return nil, fmt.Errorf("%w: curve has no points", ErrInvalidArgument)
	}
	if !(totalDurationSeconds > 0) || math.IsInf(totalDurationSeconds, 1) {
		return nil, fmt.Errorf("%w: duration must be positive and finite, got %g", ErrInvalidArgument, totalDurationSeconds)
	}

	norm := Normalize(c)
	base := totalDurationSeconds / float64(n) * 4

	entries := make([]Entry, 0, 2*n+(n+chordEvery-1)/chordEvery)
	for i, p := range norm {
		lead := Note{
			Pitch:    basePitch + int(math.Floor(p.Radial*pitchSpan)),
			Duration: base * (0.5 + p.Angle*1.5),
			Velocity: baseVelocity + int(math.Floor(p.Radial*velocitySpan)),
			Track:    Lead,
		}
		harmony := Note{
			Pitch:    lead.Pitch + harmonyOffset,
			Duration: lead.Duration,
			Velocity: lead.Velocity - harmonyDamping,
			Track:    Harmony,
		}
		if o.clampHarmony {
			harmony.Pitch = clamp(harmony.Pitch, 0, maxPitch)
			harmony.Velocity = clamp(harmony.Velocity, minVelocity, maxVelocity)
		}

		entries = append(entries,
			Entry{Track: Lead, Index: i, Event: lead},
			Entry{Track: Harmony, Index: i, Event: harmony},
		)

		if i%chordEvery == 0 {
			entries = append(entries, Entry{
				Track: Harmony,
				Index: i,
				Event: Chord{
					Pitches:  Palette[i%len(Palette)],
					Duration: base * 2,
					Track:    Harmony,
				},
			})
		}
	}

	return &Score{entries: entries, baseDuration: base, points: n}, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
