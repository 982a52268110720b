package converter

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/james-see/snowflake2midi/pkg/score"
)

// DefaultTicksPerQuarter is the MIDI resolution used unless configured.
const DefaultTicksPerQuarter = 480

// ChordChannelOffset is added to the harmony channel to get the channel
// chords play on. A chord tone must not end a harmony note of the same key.
const ChordChannelOffset = 1

// MIDIConverter handles MIDI file generation and inspection
type MIDIConverter struct {
	ticksPerQuarter uint16
	tempo           float64
}

// NewMIDIConverter creates a new MIDI converter
func NewMIDIConverter(ticksPerQuarter uint16) *MIDIConverter {
	if ticksPerQuarter == 0 {
		ticksPerQuarter = DefaultTicksPerQuarter
	}
	return &MIDIConverter{
		ticksPerQuarter: ticksPerQuarter,
		tempo:           score.Tempo,
	}
}

// timedMessage is a message at an absolute tick. Note-offs sort before
// note-ons on the same tick.
type timedMessage struct {
	tick uint32
	off  bool
	seq  int
	msg  smf.Message
}

func (m *MIDIConverter) ticks(units float64) uint32 {
	return uint32(math.Round(units * float64(m.ticksPerQuarter)))
}

// GenerateMIDI creates a format 1 MIDI file from a score: a conductor track
// with tempo and meter, then one track per voice.
//
// Lead notes play back to back. The harmony note of each index starts with
// the lead note of that index, and a chord emitted at an index starts at the
// same tick, overlapping the harmony note.
func (m *MIDIConverter) GenerateMIDI(s *score.Score, lead, harmony Voice) ([]byte, error) {
	if s == nil {
		return nil, errors.New("nil score")
	}
	if lead == nil || harmony == nil {
		return nil, errors.New("no voice configured")
	}

	// Start offset of every curve index, in units.
	starts := make([]float64, s.Points()+1)
	for _, e := range s.Track(score.Lead) {
		if e.Index+1 < len(starts) {
			starts[e.Index+1] = starts[e.Index] + e.Event.Units()
		}
	}

	var leadMsgs, harmonyMsgs []timedMessage
	seq := 0
	add := func(dst *[]timedMessage, tick uint32, off bool, msg smf.Message) {
		*dst = append(*dst, timedMessage{tick: tick, off: off, seq: seq, msg: msg})
		seq++
	}

	chordChannel := (harmony.Channel() + ChordChannelOffset) & 0x0F

	// Off ticks are rounded from absolute time, like start ticks, so a note
	// ends on exactly the tick the next index starts.
	for _, e := range s.Entries() {
		at := starts[e.Index]
		start := m.ticks(at)
		switch ev := e.Event.(type) {
		case score.Note:
			dst, ch := &leadMsgs, lead.Channel()
			if e.Track == score.Harmony {
				dst, ch = &harmonyMsgs, harmony.Channel()
			}
			key := clampKey(ev.Pitch)
			add(dst, start, false, smf.Message(midi.NoteOn(ch, key, clampVelocity(ev.Velocity))))
			add(dst, m.ticks(at+ev.Duration), true, smf.Message(midi.NoteOff(ch, key)))
		case score.Chord:
			end := m.ticks(at + ev.Duration)
			for _, p := range ev.Pitches {
				key := clampKey(p)
				add(&harmonyMsgs, start, false, smf.Message(midi.NoteOn(chordChannel, key, chordVelocity)))
				add(&harmonyMsgs, end, true, smf.Message(midi.NoteOff(chordChannel, key)))
			}
		default:
			return nil, fmt.Errorf("unsupported event type %T", e.Event)
		}
	}

	s1 := smf.NewSMF1()
	s1.TimeFormat = smf.MetricTicks(m.ticksPerQuarter)

	var conductor smf.Track
	conductor.Add(0, smf.MetaTrackSequenceName("snowflake"))
	conductor.Add(0, smf.MetaTempo(m.tempo))
	conductor.Add(0, smf.MetaMeter(4, 4))
	conductor.Close(0)

	leadTrack := m.buildTrack(lead, []uint8{lead.Channel()}, leadMsgs)
	harmonyTrack := m.buildTrack(harmony, []uint8{harmony.Channel(), chordChannel}, harmonyMsgs)

	for _, tr := range []smf.Track{conductor, leadTrack, harmonyTrack} {
		if err := s1.Add(tr); err != nil {
			return nil, fmt.Errorf("failed to add track: %w", err)
		}
	}

	var buf bytes.Buffer
	if _, err := s1.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write MIDI: %w", err)
	}

	return buf.Bytes(), nil
}

func (m *MIDIConverter) buildTrack(v Voice, channels []uint8, msgs []timedMessage) smf.Track {
	var track smf.Track
	track.Add(0, smf.MetaInstrument(v.Name()))
	for _, ch := range channels {
		track.Add(0, smf.Message(midi.ProgramChange(ch, v.Program())))
	}

	sort.SliceStable(msgs, func(i, j int) bool {
		a, b := msgs[i], msgs[j]
		if a.tick != b.tick {
			return a.tick < b.tick
		}
		if a.off != b.off {
			return a.off
		}
		return a.seq < b.seq
	})

	var current uint32
	for _, tm := range msgs {
		track.Add(tm.tick-current, tm.msg)
		current = tm.tick
	}
	track.Close(0)
	return track
}

// WriteMIDIFile writes the MIDI rendering of a score to a file
func (m *MIDIConverter) WriteMIDIFile(s *score.Score, lead, harmony Voice, filename string) error {
	data, err := m.GenerateMIDI(s, lead, harmony)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

// Summary describes the contents of a MIDI file.
type Summary struct {
	Tracks          int      `json:"tracks"`
	TicksPerQuarter uint16   `json:"ticks_per_quarter"`
	Tempo           float64  `json:"tempo"`
	NoteOns         []int    `json:"note_ons"`
	Programs        []int    `json:"programs"`
	LengthTicks     []uint64 `json:"length_ticks"`
}

// TotalNoteOns returns the note-on count over all tracks.
func (s *Summary) TotalNoteOns() int {
	total := 0
	for _, n := range s.NoteOns {
		total += n
	}
	return total
}

// ParseMIDI reads MIDI data and summarizes it per track
func (m *MIDIConverter) ParseMIDI(data []byte) (sum *Summary, err error) {
	// smf can panic on malformed input
	defer func() {
		if r := recover(); r != nil {
			sum, err = nil, fmt.Errorf("failed to parse MIDI: %v", r)
		}
	}()

	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse MIDI: %w", err)
	}

	sum = &Summary{Tracks: len(s.Tracks)}
	if mt, ok := s.TimeFormat.(smf.MetricTicks); ok {
		sum.TicksPerQuarter = mt.Resolution()
	}

	for _, track := range s.Tracks {
		var (
			noteOns int
			program = -1
			tick    uint64
		)
		for _, ev := range track {
			tick += uint64(ev.Delta)

			var ch, key, vel, prog uint8
			var bpm float64
			msg := midi.Message(ev.Message)
			switch {
			case msg.GetNoteOn(&ch, &key, &vel):
				if vel > 0 {
					noteOns++
				}
			case msg.GetProgramChange(&ch, &prog):
				if program < 0 {
					program = int(prog)
				}
			case ev.Message.GetMetaTempo(&bpm):
				if sum.Tempo == 0 {
					sum.Tempo = bpm
				}
			}
		}
		sum.NoteOns = append(sum.NoteOns, noteOns)
		sum.Programs = append(sum.Programs, program)
		sum.LengthTicks = append(sum.LengthTicks, tick)
	}

	return sum, nil
}

// ParseMIDIFile reads a MIDI file and summarizes it
func (m *MIDIConverter) ParseMIDIFile(filename string) (*Summary, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read MIDI file: %w", err)
	}
	return m.ParseMIDI(data)
}

const chordVelocity = 64

func clampKey(p int) uint8 {
	switch {
	case p < 0:
		return 0
	case p > 127:
		return 127
	}
	return uint8(p)
}

// clampVelocity keeps velocities audible: 0 would read as a note-off.
func clampVelocity(v int) uint8 {
	switch {
	case v < 1:
		return 1
	case v > 127:
		return 127
	}
	return uint8(v)
}
