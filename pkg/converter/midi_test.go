package converter

import (
	"bytes"
	"math"
	"testing"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/james-see/snowflake2midi/pkg/fractal"
	"github.com/james-see/snowflake2midi/pkg/score"
)

func composeSeed(t *testing.T) *score.Score {
	t.Helper()
	c, err := fractal.Generate(0, 10)
	if err != nil {
		t.Fatal(err)
	}
	s, err := score.Compose(c, 10)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestGenerateMIDI(t *testing.T) {
	m := NewMIDIConverter(480)
	data, err := m.GenerateMIDI(composeSeed(t), &mockVoice{program: 0, channel: 0}, &mockVoice{program: 26, channel: 1})
	if err != nil {
		t.Fatalf("GenerateMIDI() error = %v", err)
	}

	if DetectFormatFromContent(data) != FormatMIDI {
		t.Fatal("output does not start with a MIDI header")
	}

	sum, err := m.ParseMIDI(data)
	if err != nil {
		t.Fatalf("ParseMIDI() error = %v", err)
	}

	if sum.Tracks != 3 {
		t.Fatalf("Tracks = %d, want 3", sum.Tracks)
	}
	if sum.TicksPerQuarter != 480 {
		t.Errorf("TicksPerQuarter = %d, want 480", sum.TicksPerQuarter)
	}
	if math.Abs(sum.Tempo-90) > 0.01 {
		t.Errorf("Tempo = %v, want 90", sum.Tempo)
	}

	// 4 lead notes; 4 harmony notes plus one three-note chord
	if sum.NoteOns[1] != 4 || sum.NoteOns[2] != 7 {
		t.Errorf("NoteOns = %v, want [0 4 7]", sum.NoteOns)
	}
	if sum.TotalNoteOns() != 11 {
		t.Errorf("TotalNoteOns() = %d, want 11", sum.TotalNoteOns())
	}
	if sum.Programs[1] != 0 || sum.Programs[2] != 26 {
		t.Errorf("Programs = %v, want [-1 0 26]", sum.Programs)
	}

	// lead: 5 + 8.75 + 12.5 + 16.25 = 42.5 quarters
	if sum.LengthTicks[1] != 42.5*480 {
		t.Errorf("lead length = %d ticks, want %d", sum.LengthTicks[1], int(42.5*480))
	}
}

func TestGenerateMIDIChordOverlapsHarmonyNote(t *testing.T) {
	m := NewMIDIConverter(480)
	data, err := m.GenerateMIDI(composeSeed(t), &mockVoice{channel: 0}, &mockVoice{channel: 1})
	if err != nil {
		t.Fatal(err)
	}

	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}

	// Every note-on at tick 0 of the harmony track: the first harmony note
	// and the whole chord.
	var tick uint32
	var atZero []uint8
	for _, ev := range s.Tracks[2] {
		tick += ev.Delta
		var ch, key, vel uint8
		if ev.Message.GetNoteOn(&ch, &key, &vel) && vel > 0 && tick == 0 {
			atZero = append(atZero, key)
		}
	}
	want := []uint8{64, 60, 64, 67}
	if len(atZero) != len(want) {
		t.Fatalf("note-ons at tick 0 = %v, want %v", atZero, want)
	}
	for i := range want {
		if atZero[i] != want[i] {
			t.Errorf("note-ons at tick 0 = %v, want %v", atZero, want)
			break
		}
	}
}

func TestGenerateMIDINoRetriggeredKeys(t *testing.T) {
	tests := []struct {
		order    int
		duration float64
	}{
		{3, 7},
		{4, 15},
		{5, 13},
	}

	for _, tt := range tests {
		c, err := fractal.Generate(tt.order, 10)
		if err != nil {
			t.Fatal(err)
		}
		sc, err := score.Compose(c, tt.duration)
		if err != nil {
			t.Fatal(err)
		}

		data, err := NewMIDIConverter(480).GenerateMIDI(sc, &mockVoice{channel: 0}, &mockVoice{channel: 1})
		if err != nil {
			t.Fatalf("order %d: GenerateMIDI() error = %v", tt.order, err)
		}
		s, err := smf.ReadFrom(bytes.NewReader(data))
		if err != nil {
			t.Fatal(err)
		}

		for i, track := range s.Tracks {
			var tick uint32
			sounding := map[[2]uint8]uint32{}
			for _, ev := range track {
				tick += ev.Delta
				var ch, key, vel uint8
				msg := midi.Message(ev.Message)
				switch {
				case msg.GetNoteStart(&ch, &key, &vel):
					if since, ok := sounding[[2]uint8{ch, key}]; ok {
						t.Errorf("order %d track %d: key %d on channel %d restarted at tick %d while sounding since %d",
							tt.order, i, key, ch, tick, since)
					}
					sounding[[2]uint8{ch, key}] = tick
				case msg.GetNoteEnd(&ch, &key):
					if _, ok := sounding[[2]uint8{ch, key}]; !ok {
						t.Errorf("order %d track %d: stray note-off for key %d on channel %d at tick %d",
							tt.order, i, key, ch, tick)
					}
					delete(sounding, [2]uint8{ch, key})
				}
			}
			if len(sounding) != 0 {
				t.Errorf("order %d track %d: %d notes never ended", tt.order, i, len(sounding))
			}
		}
	}
}

func TestGenerateMIDIErrors(t *testing.T) {
	m := NewMIDIConverter(0)
	if _, err := m.GenerateMIDI(nil, &mockVoice{}, &mockVoice{}); err == nil {
		t.Error("GenerateMIDI(nil) should fail")
	}
	if _, err := m.GenerateMIDI(composeSeed(t), nil, &mockVoice{}); err == nil {
		t.Error("GenerateMIDI without a lead voice should fail")
	}
}

func TestParseMIDIRejectsGarbage(t *testing.T) {
	if _, err := NewMIDIConverter(480).ParseMIDI([]byte("not a midi file")); err == nil {
		t.Error("ParseMIDI() should fail on garbage")
	}
}

func TestClampKeyAndVelocity(t *testing.T) {
	if clampKey(-3) != 0 || clampKey(60) != 60 || clampKey(300) != 127 {
		t.Error("clampKey does not clamp to 0..127")
	}
	if clampVelocity(-20) != 1 || clampVelocity(0) != 1 || clampVelocity(80) != 80 || clampVelocity(200) != 127 {
		t.Error("clampVelocity does not clamp to 1..127")
	}
}
