// Package voices provides General MIDI instrument presets for score tracks.
package voices

import (
	"strings"

	"github.com/james-see/snowflake2midi/pkg/converter"
)

// General MIDI program numbers (zero based)
const (
	ProgramAcousticGrandPiano = 0
	ProgramElectricGuitarJazz = 26
	ProgramStringEnsemble     = 48
	ProgramSynthLead          = 80
)

// Channel assignments
const (
	LeadChannel    = 0
	HarmonyChannel = 1
)

// Instrument implements converter.Voice.
type Instrument struct {
	name    string
	program uint8
	channel uint8
}

var _ converter.Voice = (*Instrument)(nil)

// New creates an instrument voice.
func New(name string, program, channel uint8) *Instrument {
	return &Instrument{name: name, program: program & 0x7F, channel: channel & 0x0F}
}

// Piano returns the default lead voice.
func Piano() *Instrument {
	return New("Piano", ProgramAcousticGrandPiano, LeadChannel)
}

// ElectricGuitar returns the default harmony voice.
func ElectricGuitar() *Instrument {
	return New("Electric Guitar", ProgramElectricGuitarJazz, HarmonyChannel)
}

// Name returns the instrument name.
func (i *Instrument) Name() string { return i.name }

// Program returns the General MIDI program number.
func (i *Instrument) Program() uint8 { return i.program }

// Channel returns the MIDI channel.
func (i *Instrument) Channel() uint8 { return i.channel }

// Lookup returns the preset with the given name, or false.
func Lookup(name string) (*Instrument, bool) {
	switch strings.ToLower(name) {
	case "piano":
		return Piano(), true
	case "guitar", "electric-guitar":
		return ElectricGuitar(), true
	case "strings":
		return New("Strings", ProgramStringEnsemble, HarmonyChannel), true
	case "synth", "synth-lead":
		return New("Synth Lead", ProgramSynthLead, LeadChannel), true
	default:
		return nil, false
	}
}

// Names lists the preset names accepted by Lookup.
func Names() []string {
	return []string{"piano", "guitar", "strings", "synth"}
}
