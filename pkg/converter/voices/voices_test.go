package voices

import "testing"

func TestDefaults(t *testing.T) {
	p := Piano()
	if p.Name() != "Piano" || p.Program() != ProgramAcousticGrandPiano || p.Channel() != LeadChannel {
		t.Errorf("Piano() = %q %d %d", p.Name(), p.Program(), p.Channel())
	}

	g := ElectricGuitar()
	if g.Program() != ProgramElectricGuitarJazz || g.Channel() != HarmonyChannel {
		t.Errorf("ElectricGuitar() = %q %d %d", g.Name(), g.Program(), g.Channel())
	}
}

func TestNewMasksValues(t *testing.T) {
	i := New("x", 200, 20)
	if i.Program() > 127 {
		t.Errorf("Program() = %d, want <= 127", i.Program())
	}
	if i.Channel() > 15 {
		t.Errorf("Channel() = %d, want <= 15", i.Channel())
	}
}

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		if _, ok := Lookup(name); !ok {
			t.Errorf("Lookup(%q) failed", name)
		}
	}
	if v, ok := Lookup("Guitar"); !ok || v.Program() != ProgramElectricGuitarJazz {
		t.Errorf("Lookup is not case-insensitive")
	}
	if _, ok := Lookup("theremin"); ok {
		t.Error("Lookup(theremin) should fail")
	}
}
