package converter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/james-see/snowflake2midi/pkg/fractal"
	"github.com/james-see/snowflake2midi/pkg/score"
)

// Format represents an output file format
type Format string

const (
	FormatMIDI    Format = "midi"
	FormatJSON    Format = "json"
	FormatCSV     Format = "csv"
	FormatUnknown Format = "unknown"
)

// DetectFormat detects the format of a file based on its extension
func DetectFormat(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".mid", ".midi":
		return FormatMIDI
	case ".json":
		return FormatJSON
	case ".csv":
		return FormatCSV
	default:
		return FormatUnknown
	}
}

// DetectFormatFromContent detects format from file content
func DetectFormatFromContent(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return FormatUnknown
	}

	// Check for MIDI file signature "MThd"
	if len(trimmed) >= 4 && string(trimmed[:4]) == "MThd" {
		return FormatMIDI
	}

	if trimmed[0] == '{' {
		return FormatJSON
	}

	if bytes.HasPrefix(trimmed, []byte(curveCSVHeader)) {
		return FormatCSV
	}

	return FormatUnknown
}

// Extension returns the canonical file extension for f.
func (f Format) Extension() string {
	switch f {
	case FormatMIDI:
		return ".mid"
	case FormatJSON:
		return ".json"
	case FormatCSV:
		return ".csv"
	default:
		return ""
	}
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	switch f {
	case FormatMIDI:
		return "audio/midi"
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}

// Build generates the curve for req and composes its score.
func Build(req Request) (*Result, error) {
	curve, err := fractal.Generate(req.Order, req.Scale)
	if err != nil {
		return nil, err
	}

	s, err := score.Compose(curve, req.DurationSeconds, score.WithClampedHarmony(req.ClampHarmony))
	if err != nil {
		return nil, err
	}

	return &Result{Curve: curve, Score: s}, nil
}

// Encode renders one data product of res in format f.
func (c *Converter) Encode(res *Result, f Format) ([]byte, error) {
	if res == nil {
		return nil, errors.New("nil result")
	}

	var buf bytes.Buffer
	switch f {
	case FormatMIDI:
		return NewMIDIConverter(c.ticksPerQuarter).GenerateMIDI(res.Score, c.lead, c.harmony)
	case FormatJSON:
		if err := WriteScoreJSON(&buf, res.Score); err != nil {
			return nil, err
		}
	case FormatCSV:
		if err := WriteCurveCSV(&buf, res.Curve); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported output format: %s", f)
	}
	return buf.Bytes(), nil
}

// WriteFile renders res in the format implied by outputPath
func (c *Converter) WriteFile(res *Result, outputPath string) error {
	f := DetectFormat(outputPath)
	if f == FormatUnknown {
		return errors.New("cannot determine output format from filename")
	}

	data, err := c.Encode(res, f)
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	return nil
}

// ExportAll builds req once and writes every format into dir.
func (c *Converter) ExportAll(ctx context.Context, req Request, dir, basename string) (map[Format]string, error) {
	res, err := Build(req)
	if err != nil {
		return nil, err
	}
	return c.WriteAll(ctx, res, dir, basename)
}

// WriteAll writes the curve CSV, score JSON and MIDI file of res into dir
// concurrently. It returns the written paths by format.
func (c *Converter) WriteAll(ctx context.Context, res *Result, dir, basename string) (map[Format]string, error) {
	if res == nil {
		return nil, errors.New("nil result")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	formats := GetSupportedFormats()
	paths := make(map[Format]string, len(formats))
	for _, f := range formats {
		paths[f] = filepath.Join(dir, basename+f.Extension())
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, f := range formats {
		path := paths[f]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return c.WriteFile(res, path)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

// GetSupportedFormats returns the formats a result can be written as
func GetSupportedFormats() []Format {
	return []Format{FormatMIDI, FormatJSON, FormatCSV}
}
