package main

import (
	"os"
	"path/filepath"
	"testing"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	outputFile, leadVoice, harmonyVoice = "", "", ""
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestCurveAndMIDICommands(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "curve")
	if err := execute(t, "curve", "--order", "1", "-o", csvPath); err != nil {
		t.Fatalf("curve: %v", err)
	}
	if _, err := os.Stat(csvPath + ".csv"); err != nil {
		t.Errorf("curve output missing: %v", err)
	}

	midPath := filepath.Join(dir, "song.mid")
	if err := execute(t, "midi", "--order", "1", "--lead", "synth", "-o", midPath); err != nil {
		t.Fatalf("midi: %v", err)
	}
	if err := execute(t, "inspect", midPath); err != nil {
		t.Errorf("inspect: %v", err)
	}
}

func TestAllCommand(t *testing.T) {
	dir := t.TempDir()
	if err := execute(t, "all", "--order", "0", "--dir", dir); err != nil {
		t.Fatalf("all: %v", err)
	}
	for _, name := range []string{"snowflake.mid", "snowflake.json", "snowflake.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s missing: %v", name, err)
		}
	}
}

func TestInvalidFlags(t *testing.T) {
	tests := [][]string{
		{"compose", "--order=-1"},
		{"compose", "--duration", "0"},
		{"compose", "--lead", "theremin"},
	}
	for _, args := range tests {
		if err := execute(t, args...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestInspectRejectsNonMIDI(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "curve.csv")
	if err := execute(t, "curve", "--order", "0", "-o", csvPath); err != nil {
		t.Fatalf("curve: %v", err)
	}
	if err := execute(t, "inspect", csvPath); err == nil {
		t.Error("inspect of a CSV file should fail")
	}
}
