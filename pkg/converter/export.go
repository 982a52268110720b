package converter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/james-see/snowflake2midi/pkg/fractal"
	"github.com/james-see/snowflake2midi/pkg/score"
)

const curveCSVHeader = "index,x,y"

// WriteCurveCSV writes one row per curve point in traversal order.
func WriteCurveCSV(w io.Writer, c fractal.Curve) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(strings.Split(curveCSVHeader, ",")); err != nil {
		return fmt.Errorf("failed to write curve: %w", err)
	}
	for i := 0; i < c.Len(); i++ {
		p := c.At(i)
		row := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(p.X, 'g', -1, 64),
			strconv.FormatFloat(p.Y, 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write curve: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCurveCSV reads points written by WriteCurveCSV.
func ReadCurveCSV(r io.Reader) (fractal.Curve, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return fractal.Curve{}, fmt.Errorf("failed to read curve: %w", err)
	}
	if len(rows) == 0 {
		return fractal.Curve{}, errors.New("empty curve file")
	}
	if strings.Join(rows[0], ",") != curveCSVHeader {
		return fractal.Curve{}, fmt.Errorf("missing %q header, got %q", curveCSVHeader, strings.Join(rows[0], ","))
	}

	points := make([]fractal.Point, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) != 3 {
			return fractal.Curve{}, fmt.Errorf("row %d: expected 3 fields, got %d", i+1, len(row))
		}
		x, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return fractal.Curve{}, fmt.Errorf("row %d: %w", i+1, err)
		}
		y, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return fractal.Curve{}, fmt.Errorf("row %d: %w", i+1, err)
		}
		points = append(points, fractal.Pt(x, y))
	}
	return fractal.NewCurve(points), nil
}

// WriteScoreJSON writes the score as indented JSON.
func WriteScoreJSON(w io.Writer, s *score.Score) error {
	if s == nil {
		return errors.New("nil score")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to write score: %w", err)
	}
	return nil
}
