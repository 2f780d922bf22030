package window

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

var csvHeader = []string{"ds", "y"}

// ErrBadCSV is returned by ReadCSV for malformed input.
var ErrBadCSV = errors.New("window: malformed csv")

// WriteCSV writes points as a "ds,y" table with RFC3339 timestamps.
func WriteCSV(w io.Writer, points []Point) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, p := range points {
		row := []string{
			p.At.UTC().Format(time.RFC3339),
			strconv.FormatFloat(p.Value, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses what WriteCSV produced.
func ReadCSV(r io.Reader) ([]Point, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty input", ErrBadCSV)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadCSV, err)
	}
	if header[0] != csvHeader[0] || header[1] != csvHeader[1] {
		return nil, fmt.Errorf("%w: unexpected header %v", ErrBadCSV, header)
	}

	var points []Point
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return points, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadCSV, err)
		}
		at, err := time.Parse(time.RFC3339, rec[0])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrBadCSV, len(points)+2, err)
		}
		v, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrBadCSV, len(points)+2, err)
		}
		points = append(points, Point{At: at, Value: v})
	}
}

// ExportCSV replaces path with the CSV rendering of points. The file is
// written to a temporary sibling and renamed, so readers never see a partial
// file.
func ExportCSV(path string, points []Point) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = WriteCSV(tmp, points); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write csv: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename csv: %w", err)
	}
	return nil
}

// LoadCSV reads a file written by ExportCSV.
func LoadCSV(path string) ([]Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ReadCSV(f)
}
