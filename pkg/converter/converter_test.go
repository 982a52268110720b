package converter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/james-see/snowflake2midi/pkg/fractal"
	"github.com/james-see/snowflake2midi/pkg/score"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		expected Format
	}{
		{"test.mid", FormatMIDI},
		{"test.MIDI", FormatMIDI},
		{"score.json", FormatJSON},
		{"curve.csv", FormatCSV},
		{"test.txt", FormatUnknown},
		{"test", FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			result := DetectFormat(tt.filename)
			if result != tt.expected {
				t.Errorf("DetectFormat(%q) = %v, want %v", tt.filename, result, tt.expected)
			}
		})
	}
}

func TestDetectFormatFromContent(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected Format
	}{
		{"MIDI file", []byte("MThd\x00\x00\x00\x06"), FormatMIDI},
		{"score JSON", []byte("  {\"tempo\": 90}"), FormatJSON},
		{"curve CSV", []byte("index,x,y\n0,10,0\n"), FormatCSV},
		{"Short data", []byte{0x00, 0x01}, FormatUnknown},
		{"Empty", nil, FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DetectFormatFromContent(tt.data)
			if result != tt.expected {
				t.Errorf("DetectFormatFromContent() = %v, want %v", result, tt.expected)
			}
		})
	}
}

// mockVoice implements Voice for testing
type mockVoice struct {
	program, channel uint8
}

func (m *mockVoice) Name() string   { return "Mock Voice" }
func (m *mockVoice) Program() uint8 { return m.program }
func (m *mockVoice) Channel() uint8 { return m.channel }

func newTestConverter() *Converter {
	return New(&mockVoice{program: 0, channel: 0}, &mockVoice{program: 26, channel: 1})
}

func TestConverterNew(t *testing.T) {
	lead := &mockVoice{}
	harmony := &mockVoice{channel: 1}
	conv := New(lead, harmony)

	if conv == nil {
		t.Fatal("New() returned nil")
	}
	if conv.GetVoice(score.Lead) != lead {
		t.Error("GetVoice(Lead) did not return the lead voice")
	}
	if conv.GetVoice(score.Harmony) != harmony {
		t.Error("GetVoice(Harmony) did not return the harmony voice")
	}
}

func TestConverterSetVoice(t *testing.T) {
	conv := newTestConverter()
	replacement := &mockVoice{program: 48, channel: 1}

	conv.SetVoice(score.Harmony, replacement)
	if conv.GetVoice(score.Harmony) != replacement {
		t.Error("GetVoice(Harmony) should return the replacement after SetVoice")
	}
}

func TestBuild(t *testing.T) {
	res, err := Build(Request{Order: 2, Scale: 10, DurationSeconds: 15})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if res.Curve.Len() != 64 {
		t.Errorf("curve has %d points, want 64", res.Curve.Len())
	}
	if res.Score.Points() != 64 {
		t.Errorf("score covers %d points, want 64", res.Score.Points())
	}
}

func TestBuildInvalid(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{"negative order", Request{Order: -1, Scale: 10, DurationSeconds: 5}},
		{"zero scale", Request{Order: 1, Scale: 0, DurationSeconds: 5}},
		{"zero duration", Request{Order: 1, Scale: 10, DurationSeconds: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Build(tt.req); !errors.Is(err, fractal.ErrInvalidArgument) {
				t.Errorf("Build() error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestWriteFileRejectsUnknownFormat(t *testing.T) {
	res, err := Build(Request{Order: 0, Scale: 10, DurationSeconds: 10})
	if err != nil {
		t.Fatal(err)
	}
	if err := newTestConverter().WriteFile(res, filepath.Join(t.TempDir(), "out.wav")); err == nil {
		t.Error("WriteFile() should fail for .wav")
	}
}

func TestExportAll(t *testing.T) {
	dir := t.TempDir()
	paths, err := newTestConverter().ExportAll(context.Background(),
		Request{Order: 1, Scale: 10, DurationSeconds: 10}, dir, "snowflake")
	if err != nil {
		t.Fatalf("ExportAll() error = %v", err)
	}

	for _, f := range GetSupportedFormats() {
		path, ok := paths[f]
		if !ok {
			t.Errorf("no path for %s", f)
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Errorf("reading %s: %v", path, err)
			continue
		}
		if got := DetectFormatFromContent(data); got != f {
			t.Errorf("%s content detected as %s, want %s", path, got, f)
		}
	}
}

func TestWriteAll(t *testing.T) {
	res, err := Build(Request{Order: 2, Scale: 5, DurationSeconds: 10})
	if err != nil {
		t.Fatal(err)
	}

	paths, err := newTestConverter().WriteAll(context.Background(), res, t.TempDir(), "flake")
	if err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}

	f, err := os.Open(paths[FormatCSV])
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	back, err := ReadCurveCSV(f)
	if err != nil {
		t.Fatal(err)
	}
	if back.Len() != res.Curve.Len() || back.At(0) != res.Curve.At(0) {
		t.Errorf("written curve has %d points starting at %v, want %d starting at %v",
			back.Len(), back.At(0), res.Curve.Len(), res.Curve.At(0))
	}

	if _, err := newTestConverter().WriteAll(context.Background(), nil, t.TempDir(), "x"); err == nil {
		t.Error("WriteAll(nil) should fail")
	}
}

func TestExportAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestConverter().ExportAll(ctx, Request{Order: 0, Scale: 10, DurationSeconds: 10}, t.TempDir(), "x")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ExportAll() error = %v, want context.Canceled", err)
	}
}

func TestGetSupportedFormats(t *testing.T) {
	formats := GetSupportedFormats()
	expected := []Format{FormatMIDI, FormatJSON, FormatCSV}

	if len(formats) != len(expected) {
		t.Fatalf("GetSupportedFormats() returned %d formats, want %d", len(formats), len(expected))
	}
	for i, exp := range expected {
		if formats[i] != exp {
			t.Errorf("formats[%d] = %q, want %q", i, formats[i], exp)
		}
		if exp.Extension() == "" || exp.ContentType() == "" {
			t.Errorf("%s has no extension or content type", exp)
		}
	}
}
