// Package score maps a fractal curve onto a two-track symbolic score.
package score

import (
	"encoding/json"
	"fmt"
)

// Tempo is the fixed playback tempo in beats per minute. One duration unit
// is one quarter note at this tempo.
const Tempo = 90.0

// Track identifies the voice an event belongs to.
type Track int

const (
	Lead Track = iota
	Harmony
)

func (t Track) String() string {
	switch t {
	case Lead:
		return "lead"
	case Harmony:
		return "harmony"
	default:
		return fmt.Sprintf("track(%d)", int(t))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Track) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Track) UnmarshalText(b []byte) error {
	switch string(b) {
	case "lead":
		*t = Lead
	case "harmony":
		*t = Harmony
	default:
		return fmt.Errorf("unknown track %q", b)
	}
	return nil
}

// Event is either a Note or a Chord.
type Event interface {
	// Units returns the event duration in quarter-length units.
	Units() float64
	event()
}

// Note is a single pitched event.
type Note struct {
	Pitch    int     `json:"pitch"`
	Duration float64 `json:"duration"`
	Velocity int     `json:"velocity"`
	Track    Track   `json:"track"`
}

func (n Note) Units() float64 { return n.Duration }
func (Note) event()           {}

// Chord is a triad sounding together.
type Chord struct {
	Pitches  [3]int  `json:"pitches"`
	Duration float64 `json:"duration"`
	Track    Track   `json:"track"`
}

func (c Chord) Units() float64 { return c.Duration }
func (Chord) event()           {}

// Entry pairs an event with the track it was emitted into and the curve
// index that produced it.
type Entry struct {
	Track Track
	Index int
	Event Event
}

type entryJSON struct {
	Track Track  `json:"track"`
	Index int    `json:"index"`
	Kind  string `json:"kind"`
	Note  *Note  `json:"note,omitempty"`
	Chord *Chord `json:"chord,omitempty"`
}

// MarshalJSON encodes the entry with an explicit kind tag.
func (e Entry) MarshalJSON() ([]byte, error) {
	out := entryJSON{Track: e.Track, Index: e.Index}
	switch ev := e.Event.(type) {
	case Note:
		out.Kind = "note"
		out.Note = &ev
	case Chord:
		out.Kind = "chord"
		out.Chord = &ev
	default:
		return nil, fmt.Errorf("unsupported event type %T", e.Event)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes an entry written by MarshalJSON.
func (e *Entry) UnmarshalJSON(b []byte) error {
	var in entryJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	e.Track = in.Track
	e.Index = in.Index
	switch {
	case in.Kind == "note" && in.Note != nil:
		e.Event = *in.Note
	case in.Kind == "chord" && in.Chord != nil:
		e.Event = *in.Chord
	default:
		return fmt.Errorf("invalid entry kind %q", in.Kind)
	}
	return nil
}

// Palette holds the seed triads used for periodic chord punctuation:
// C major, A minor, F major and G major around middle C.
var Palette = [4][3]int{
	{60, 64, 67}, // C4 E4 G4
	{57, 60, 64}, // A3 C4 E4
	{53, 57, 60}, // F3 A3 C4
	{55, 59, 62}, // G3 B3 D4
}

// UnitsToSeconds converts quarter-length units to seconds at Tempo.
func UnitsToSeconds(units float64) float64 {
	return units * 60 / Tempo
}
