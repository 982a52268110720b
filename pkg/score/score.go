package score

import (
	"encoding/json"
)

// Score is the ordered event sequence produced by Compose. Its contents are
// fixed at construction.
type Score struct {
	entries      []Entry
	baseDuration float64
	points       int
}

// Len returns the number of entries.
func (s *Score) Len() int { return len(s.entries) }

// At returns the i-th entry.
func (s *Score) At(i int) Entry { return s.entries[i] }

// Entries returns a copy of all entries in generation order.
func (s *Score) Entries() []Entry {
	return append([]Entry(nil), s.entries...)
}

// Track returns the entries emitted into t, in order.
func (s *Score) Track(t Track) []Entry {
	var out []Entry
	for _, e := range s.entries {
		if e.Track == t {
			out = append(out, e)
		}
	}
	return out
}

// BaseDuration returns the per-point duration in quarter-length units.
func (s *Score) BaseDuration() float64 { return s.baseDuration }

// Points returns the number of curve points the score was composed from.
func (s *Score) Points() int { return s.points }

// Tempo returns the tempo the duration units are expressed in.
func (s *Score) Tempo() float64 { return Tempo }

// LeadUnits returns the summed duration of the lead line.
func (s *Score) LeadUnits() float64 {
	var total float64
	for _, e := range s.entries {
		if e.Track == Lead {
			total += e.Event.Units()
		}
	}
	return total
}

// LeadSeconds returns the lead line length in seconds.
func (s *Score) LeadSeconds() float64 {
	return UnitsToSeconds(s.LeadUnits())
}

type scoreJSON struct {
	Tempo        float64 `json:"tempo"`
	BaseDuration float64 `json:"base_duration"`
	Points       int     `json:"points"`
	Entries      []Entry `json:"entries"`
}

// MarshalJSON implements json.Marshaler.
func (s *Score) MarshalJSON() ([]byte, error) {
	return json.Marshal(scoreJSON{
		Tempo:        Tempo,
		BaseDuration: s.baseDuration,
		Points:       s.points,
		Entries:      s.entries,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Score) UnmarshalJSON(b []byte) error {
	var in scoreJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	s.entries = in.Entries
	s.baseDuration = in.BaseDuration
	s.points = in.Points
	return nil
}
